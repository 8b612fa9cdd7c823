// Package model はドメインモデルを定義する。
package model

import "time"

// Post はブログ投稿を表す。
// GroupIDはnil可能で、グループに属さない投稿を許容する。
type Post struct {
	ID        string
	Text      string // サニタイズ済み本文
	AuthorID  string
	GroupID   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PostWithRefs は投稿と投稿者・グループを結合したモデル。
// usersテーブルとJOIN、groupsテーブルとLEFT JOINして取得される。
type PostWithRefs struct {
	Post
	Author User
	Group  *Group
}

// FeedScope はフィードの絞り込み範囲を表す。
type FeedScope struct {
	Kind     FeedScopeKind
	Slug     string // Kind == FeedScopeByGroup の場合のみ有効
	Username string // Kind == FeedScopeByAuthor の場合のみ有効
}

// FeedScopeKind はフィード絞り込みの種別を表す。
type FeedScopeKind string

const (
	// FeedScopeAll は全投稿を対象とするスコープ。
	FeedScopeAll FeedScopeKind = "all"
	// FeedScopeByGroup は特定グループの投稿のみを対象とするスコープ。
	FeedScopeByGroup FeedScopeKind = "group"
	// FeedScopeByAuthor は特定ユーザーの投稿のみを対象とするスコープ。
	FeedScopeByAuthor FeedScopeKind = "author"
)

// AllScope は全投稿スコープを生成する。
func AllScope() FeedScope {
	return FeedScope{Kind: FeedScopeAll}
}

// GroupScope は指定スラッグのグループスコープを生成する。
func GroupScope(slug string) FeedScope {
	return FeedScope{Kind: FeedScopeByGroup, Slug: slug}
}

// AuthorScope は指定ユーザー名の投稿者スコープを生成する。
func AuthorScope(username string) FeedScope {
	return FeedScope{Kind: FeedScopeByAuthor, Username: username}
}
