// Package post は投稿の作成・編集のドメインロジックを提供する。
package post

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/miniblog/internal/model"
	"github.com/hitoshi/miniblog/internal/repository"
	"github.com/hitoshi/miniblog/internal/security"
)

// MetricsRecorder は投稿操作のメトリクス記録インターフェース。
type MetricsRecorder interface {
	RecordPostCreated()
	RecordPostEdited()
}

// Service は投稿の作成・編集サービス。
// 投稿者本人のみが編集できるルールをここで強制する。
type Service struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
	sanitizer security.ContentSanitizerService
	metrics   MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
// metricsはnil可能で、nilの場合はメトリクスを記録しない。
func NewService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	sanitizer security.ContentSanitizerService,
	metrics MetricsRecorder,
) *Service {
	return &Service{
		postRepo:  postRepo,
		groupRepo: groupRepo,
		sanitizer: sanitizer,
		metrics:   metrics,
	}
}

// Create は新規投稿を作成する。
//
// 本文が空（空白のみを含む）の場合はバリデーションエラーを返し、ストアは変更されない。
// groupSlugがnil以外の場合はグループ参照に解決し、存在しないスラッグにはNotFoundエラーを返す。
// 本文は保存前にサニタイズされる。
// 作成された投稿は即座にフィードから参照可能になる。
func (s *Service) Create(ctx context.Context, actorID, text string, groupSlug *string) (*model.PostWithRefs, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, model.NewEmptyTextError()
	}

	groupID, err := s.resolveGroup(ctx, groupSlug)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	newPost := &model.Post{
		ID:        uuid.New().String(),
		Text:      s.sanitizer.Sanitize(text),
		AuthorID:  actorID,
		GroupID:   groupID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.postRepo.Create(ctx, newPost); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordPostCreated()
	}

	return s.postRepo.FindByID(ctx, newPost.ID)
}

// Edit は既存投稿の本文とグループを更新する。
//
// 投稿が存在しない場合はNotFoundエラーを返す。
// actorが投稿者本人でない場合は認可エラーを返し、投稿は一切変更されない。
// 成功時はidとcreated_atを保持したまま本文・グループを更新し、更新後の投稿を返す。
func (s *Service) Edit(ctx context.Context, actorID, postID, text string, groupSlug *string) (*model.PostWithRefs, error) {
	existing, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, model.NewPostNotFoundError(postID)
	}

	// 投稿者本人のみ編集可能
	if existing.AuthorID != actorID {
		return nil, model.NewNotPostAuthorError()
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, model.NewEmptyTextError()
	}

	groupID, err := s.resolveGroup(ctx, groupSlug)
	if err != nil {
		return nil, err
	}

	updated := &model.Post{
		ID:        existing.ID,
		Text:      s.sanitizer.Sanitize(text),
		AuthorID:  existing.AuthorID,
		GroupID:   groupID,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: time.Now().UTC(),
	}

	if err := s.postRepo.Update(ctx, updated); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordPostEdited()
	}

	return s.postRepo.FindByID(ctx, postID)
}

// Get は投稿詳細を投稿者・グループ付きで返す。
// 投稿が存在しない場合はNotFoundエラーを返す。
func (s *Service) Get(ctx context.Context, postID string) (*model.PostWithRefs, error) {
	found, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, model.NewPostNotFoundError(postID)
	}
	return found, nil
}

// resolveGroup はグループスラッグをグループIDに解決する。
// slugがnilの場合はnilを返す（グループなし投稿）。
// 存在しないスラッグにはNotFoundエラーを返す。
func (s *Service) resolveGroup(ctx context.Context, slug *string) (*string, error) {
	if slug == nil || *slug == "" {
		return nil, nil
	}

	group, err := s.groupRepo.FindBySlug(ctx, *slug)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, model.NewGroupNotFoundError(*slug)
	}

	return &group.ID, nil
}
