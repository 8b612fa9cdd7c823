// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/miniblog/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByUsername は指定ユーザー名のユーザーを取得する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error
}

// GroupRepository はグループデータの永続化インターフェース。
type GroupRepository interface {
	// FindBySlug は指定スラッグのグループを取得する。見つからない場合はnilを返す。
	FindBySlug(ctx context.Context, slug string) (*model.Group, error)

	// Create はグループを作成する。スラッグの一意性はDBの一意制約で保証される。
	Create(ctx context.Context, group *model.Group) error

	// List は全グループをタイトル昇順で返す。
	List(ctx context.Context) ([]*model.Group, error)
}

// PostRepository は投稿データの永続化インターフェース。
// フィードの読み取りは投稿者とグループを結合したPostWithRefsで返す。
type PostRepository interface {
	// FindByID は指定IDの投稿を投稿者・グループ付きで取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.PostWithRefs, error)

	// ListFeed はスコープで絞り込んだ投稿をcreated_at降順（同時刻はid降順）で返す。
	// offsetとlimitでページを切り出す。スコープの存在検証は呼び出し側の責務。
	ListFeed(ctx context.Context, scope model.FeedScope, offset, limit int) ([]model.PostWithRefs, error)

	// CountFeed はスコープで絞り込んだ投稿の総数を返す。
	CountFeed(ctx context.Context, scope model.FeedScope) (int, error)

	// Create は新規投稿を作成する。単一INSERTで原子的に適用される。
	Create(ctx context.Context, post *model.Post) error

	// Update は投稿の本文とグループを上書き更新する。idとcreated_atは変更しない。
	// 単一UPDATEで原子的に適用される。
	Update(ctx context.Context, post *model.Post) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
}
