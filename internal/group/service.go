// Package group はトピックグループの管理機能を提供する。
package group

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/miniblog/internal/model"
	"github.com/hitoshi/miniblog/internal/repository"
)

// slugPattern はURLセーフなスラッグの形式。
var slugPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// Service はグループ管理のサービス層。
// グループは一度作成されたら読み取り専用で、スラッグは変更されない。
type Service struct {
	groupRepo repository.GroupRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(groupRepo repository.GroupRepository) *Service {
	return &Service{groupRepo: groupRepo}
}

// Create は新規グループを作成する。
// スラッグの形式を検証し、既存グループとの重複を拒否する。
func (s *Service) Create(ctx context.Context, title, slug, description string) (*model.Group, error) {
	title = strings.TrimSpace(title)
	slug = strings.TrimSpace(slug)

	if title == "" || !slugPattern.MatchString(slug) {
		return nil, model.NewInvalidSlugError(slug)
	}

	existing, err := s.groupRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, model.NewDuplicateSlugError(slug)
	}

	newGroup := &model.Group{
		ID:          uuid.New().String(),
		Title:       title,
		Slug:        slug,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.groupRepo.Create(ctx, newGroup); err != nil {
		return nil, err
	}

	return newGroup, nil
}

// GetBySlug は指定スラッグのグループを返す。
// 存在しない場合はNotFoundエラーを返す。
func (s *Service) GetBySlug(ctx context.Context, slug string) (*model.Group, error) {
	group, err := s.groupRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, model.NewGroupNotFoundError(slug)
	}
	return group, nil
}

// List は全グループを返す。
func (s *Service) List(ctx context.Context) ([]*model.Group, error) {
	return s.groupRepo.List(ctx)
}
