// Package view はクエリ結果をテンプレート層が消費するコンテキストに変換する。
//
// テンプレートのレンダリング自体はこのサービスの範囲外で、外部のテンプレート層が
// ここで定義された型をそのまま消費する。ビジネスロジックは一切持たない。
package view

import (
	"time"

	"github.com/hitoshi/miniblog/internal/feed"
	"github.com/hitoshi/miniblog/internal/model"
)

// テンプレート名。ルートごとのテンプレート選択はルーティング層で行う。
const (
	TemplateIndex       = "posts/index.html"
	TemplateGroupList   = "posts/group_list.html"
	TemplateProfile     = "posts/profile.html"
	TemplatePostDetail  = "posts/post_detail.html"
	TemplateCreatePost  = "posts/create_post.html"
	TemplateAboutAuthor = "about/author.html"
	TemplateAboutTech   = "about/tech.html"
)

// AuthorView は投稿者のテンプレート向け表現。
type AuthorView struct {
	Username string `json:"username"`
}

// GroupView はグループのテンプレート向け表現。
type GroupView struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// PostView は投稿のテンプレート向け表現。
// Groupはグループなし投稿の場合nil。
type PostView struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	Author    AuthorView `json:"author"`
	Group     *GroupView `json:"group"`
	CreatedAt time.Time  `json:"created_at"`
}

// FeedContext はフィードページのテンプレートコンテキスト。
type FeedContext struct {
	PageObj     []PostView `json:"page_obj"`
	Number      int        `json:"number"`
	TotalPages  int        `json:"total_pages"`
	TotalCount  int        `json:"total_count"`
	HasNext     bool       `json:"has_next"`
	HasPrevious bool       `json:"has_previous"`
}

// PostContext は投稿詳細ページのテンプレートコンテキスト。
type PostContext struct {
	Post PostView `json:"post"`
}

// NewPostView はPostWithRefsをPostViewに変換する。
func NewPostView(p model.PostWithRefs) PostView {
	pv := PostView{
		ID:        p.ID,
		Text:      p.Text,
		Author:    AuthorView{Username: p.Author.Username},
		CreatedAt: p.CreatedAt,
	}
	if p.Group != nil {
		pv.Group = &GroupView{
			Title:       p.Group.Title,
			Slug:        p.Group.Slug,
			Description: p.Group.Description,
		}
	}
	return pv
}

// NewFeedContext はフィードページをテンプレートコンテキストに変換する。
// 空ページでもPageObjは空スライス（nilではない）になる。
func NewFeedContext(page *feed.Page) FeedContext {
	views := make([]PostView, len(page.Posts))
	for i, p := range page.Posts {
		views[i] = NewPostView(p)
	}
	return FeedContext{
		PageObj:     views,
		Number:      page.Number,
		TotalPages:  page.TotalPages,
		TotalCount:  page.TotalCount,
		HasNext:     page.HasNext,
		HasPrevious: page.HasPrevious,
	}
}

// NewPostContext は投稿詳細をテンプレートコンテキストに変換する。
func NewPostContext(p *model.PostWithRefs) PostContext {
	return PostContext{Post: NewPostView(*p)}
}
