package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/miniblog/internal/model"
)

// PostgresPostRepo はPostgreSQLを使用した投稿リポジトリ。
type PostgresPostRepo struct {
	db *sql.DB
}

// NewPostgresPostRepo はPostgresPostRepoを生成する。
func NewPostgresPostRepo(db *sql.DB) *PostgresPostRepo {
	return &PostgresPostRepo{db: db}
}

// postSelectColumns は投稿・投稿者・グループを結合して取得する際の共通SELECT句。
const postSelectColumns = `
	SELECT p.id, p.text, p.author_id, p.group_id, p.created_at, p.updated_at,
	       u.id, u.username, u.created_at, u.updated_at,
	       g.id, g.title, g.slug, g.description, g.created_at
	FROM posts p
	JOIN users u ON p.author_id = u.id
	LEFT JOIN groups g ON p.group_id = g.id`

// FindByID は指定IDの投稿を投稿者・グループ付きで取得する。見つからない場合はnilを返す。
func (r *PostgresPostRepo) FindByID(ctx context.Context, id string) (*model.PostWithRefs, error) {
	row := r.db.QueryRowContext(ctx, postSelectColumns+` WHERE p.id = $1`, id)

	post, err := scanPostWithRefs(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("投稿の取得に失敗しました: %w", err)
	}

	return post, nil
}

// ListFeed はスコープで絞り込んだ投稿をcreated_at降順（同時刻はid降順）で返す。
// ソート順が決定的であることで、ページ境界が繰り返し呼び出しで再現される。
func (r *PostgresPostRepo) ListFeed(ctx context.Context, scope model.FeedScope, offset, limit int) ([]model.PostWithRefs, error) {
	query := postSelectColumns
	args := []interface{}{}
	argIndex := 1

	// スコープ条件
	// グループスコープはg.slugで絞り込むため、グループなし投稿（group_id IS NULL）は
	// LEFT JOINの結果から自然に除外される。
	switch scope.Kind {
	case model.FeedScopeByGroup:
		query += fmt.Sprintf(" WHERE g.slug = $%d", argIndex)
		args = append(args, scope.Slug)
		argIndex++
	case model.FeedScopeByAuthor:
		query += fmt.Sprintf(" WHERE u.username = $%d", argIndex)
		args = append(args, scope.Username)
		argIndex++
	case model.FeedScopeAll:
		// 全件: 追加条件なし
	}

	query += fmt.Sprintf(" ORDER BY p.created_at DESC, p.id DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("フィードの取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var posts []model.PostWithRefs
	for rows.Next() {
		post, err := scanPostWithRefs(rows)
		if err != nil {
			return nil, fmt.Errorf("投稿行の読み取りに失敗しました: %w", err)
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("フィードの走査に失敗しました: %w", err)
	}

	return posts, nil
}

// CountFeed はスコープで絞り込んだ投稿の総数を返す。
func (r *PostgresPostRepo) CountFeed(ctx context.Context, scope model.FeedScope) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM posts p
		JOIN users u ON p.author_id = u.id
		LEFT JOIN groups g ON p.group_id = g.id`
	args := []interface{}{}

	switch scope.Kind {
	case model.FeedScopeByGroup:
		query += " WHERE g.slug = $1"
		args = append(args, scope.Slug)
	case model.FeedScopeByAuthor:
		query += " WHERE u.username = $1"
		args = append(args, scope.Username)
	case model.FeedScopeAll:
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("フィード件数の取得に失敗しました: %w", err)
	}

	return count, nil
}

// Create は新規投稿を作成する。
func (r *PostgresPostRepo) Create(ctx context.Context, post *model.Post) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (id, text, author_id, group_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		post.ID, post.Text, post.AuthorID, post.GroupID, post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("投稿の作成に失敗しました: %w", err)
	}
	return nil
}

// Update は投稿の本文とグループを上書き更新する。idとcreated_atは変更しない。
func (r *PostgresPostRepo) Update(ctx context.Context, post *model.Post) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE posts SET text = $2, group_id = $3, updated_at = $4 WHERE id = $1`,
		post.ID, post.Text, post.GroupID, post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("投稿の更新に失敗しました: %w", err)
	}
	return nil
}

// rowScanner はsql.Rowとsql.Rowsの共通Scanインターフェース。
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanPostWithRefs は結合クエリの1行をPostWithRefsに読み取る。
func scanPostWithRefs(row rowScanner) (*model.PostWithRefs, error) {
	post := &model.PostWithRefs{}
	var groupID sql.NullString
	var gID, gTitle, gSlug, gDescription sql.NullString
	var gCreatedAt sql.NullTime

	err := row.Scan(
		&post.ID, &post.Text, &post.AuthorID, &groupID, &post.CreatedAt, &post.UpdatedAt,
		&post.Author.ID, &post.Author.Username, &post.Author.CreatedAt, &post.Author.UpdatedAt,
		&gID, &gTitle, &gSlug, &gDescription, &gCreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if groupID.Valid {
		v := groupID.String
		post.GroupID = &v
	}
	if gID.Valid {
		post.Group = &model.Group{
			ID:          gID.String,
			Title:       gTitle.String,
			Slug:        gSlug.String,
			Description: gDescription.String,
			CreatedAt:   gCreatedAt.Time,
		}
	}

	return post, nil
}

// compile-time interface check
var _ PostRepository = (*PostgresPostRepo)(nil)
