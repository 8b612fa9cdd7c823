// Package model はドメインモデルを定義する。
package model

import "time"

// Group は投稿のトピックグループを表す。
// Slugは作成時に一意性が保証され、以後変更されない（URLのルックアップキー）。
type Group struct {
	ID          string
	Title       string
	Slug        string
	Description string
	CreatedAt   time.Time
}
