// Package feed はフィード（絞り込み・ページネーション付き投稿一覧）の読み取り機能を提供する。
package feed

import (
	"context"
	"time"

	"github.com/hitoshi/miniblog/internal/model"
	"github.com/hitoshi/miniblog/internal/repository"
)

// PageSize は1ページあたりの投稿件数。固定値であり設定可能にしない。
const PageSize = 10

// MetricsRecorder はフィードクエリのメトリクス記録インターフェース。
type MetricsRecorder interface {
	RecordFeedQuery(scope string, duration time.Duration)
}

// Service はフィードクエリエンジン。
// スコープの存在検証・並び順・ページ切り出しを担う純粋な読み取りサービス。
type Service struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
	userRepo  repository.UserRepository
	metrics   MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
// metricsはnil可能で、nilの場合はメトリクスを記録しない。
func NewService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	metrics MetricsRecorder,
) *Service {
	return &Service{
		postRepo:  postRepo,
		groupRepo: groupRepo,
		userRepo:  userRepo,
		metrics:   metrics,
	}
}

// Page はListFeedの戻り値。1ページ分の投稿とページ位置情報を保持する。
type Page struct {
	Posts       []model.PostWithRefs
	Number      int // 1始まりのページ番号
	PageSize    int
	TotalCount  int
	TotalPages  int
	HasNext     bool
	HasPrevious bool
}

// ListFeed はスコープで絞り込んだ投稿の指定ページを返す。
//
// ページ番号は1始まり。1未満は1として扱う。
// 並び順はcreated_at降順（同時刻はid降順）で決定的であり、
// 同一スナップショットに対してページ境界が再現される。
// 最終ページを超えるページ番号は空のページを返す（エラーにはしない）。
//
// スコープ自体が無効な場合（存在しないグループスラッグ・ユーザー名）は
// 空ページではなくNotFoundエラーを返す。
func (s *Service) ListFeed(ctx context.Context, scope model.FeedScope, page int) (*Page, error) {
	start := time.Now()

	if err := s.validateScope(ctx, scope); err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}

	total, err := s.postRepo.CountFeed(ctx, scope)
	if err != nil {
		return nil, err
	}

	offset := (page - 1) * PageSize

	var posts []model.PostWithRefs
	if offset < total {
		posts, err = s.postRepo.ListFeed(ctx, scope, offset, PageSize)
		if err != nil {
			return nil, err
		}
	}

	totalPages := (total + PageSize - 1) / PageSize
	if totalPages == 0 {
		totalPages = 1
	}

	if s.metrics != nil {
		s.metrics.RecordFeedQuery(string(scope.Kind), time.Since(start))
	}

	return &Page{
		Posts:       posts,
		Number:      page,
		PageSize:    PageSize,
		TotalCount:  total,
		TotalPages:  totalPages,
		HasNext:     offset+len(posts) < total,
		HasPrevious: page > 1 && total > 0,
	}, nil
}

// validateScope はスコープが参照するグループ・ユーザーの存在を検証する。
// 「存在するが投稿ゼロ」（空ページ）と「存在しない」（NotFoundエラー）を区別するための検証。
func (s *Service) validateScope(ctx context.Context, scope model.FeedScope) error {
	switch scope.Kind {
	case model.FeedScopeByGroup:
		group, err := s.groupRepo.FindBySlug(ctx, scope.Slug)
		if err != nil {
			return err
		}
		if group == nil {
			return model.NewGroupNotFoundError(scope.Slug)
		}
	case model.FeedScopeByAuthor:
		user, err := s.userRepo.FindByUsername(ctx, scope.Username)
		if err != nil {
			return err
		}
		if user == nil {
			return model.NewUserNotFoundError(scope.Username)
		}
	}
	return nil
}
