package handler

import (
	"encoding/json"
	"net/http"

	"github.com/hitoshi/miniblog/internal/view"
)

// AboutHandler は固定ページのHTTPハンドラー。
// コンテンツはテンプレート層が持つため、テンプレート名の選択のみを行う。
type AboutHandler struct{}

// NewAboutHandler はAboutHandlerを生成する。
func NewAboutHandler() *AboutHandler {
	return &AboutHandler{}
}

// staticPageResponse は固定ページのレスポンス。
type staticPageResponse struct {
	Template string `json:"template"`
}

// Author は作者紹介ページを返す。
// GET /page/about/author/
func (h *AboutHandler) Author(w http.ResponseWriter, r *http.Request) {
	writeStaticPage(w, view.TemplateAboutAuthor)
}

// Tech は技術紹介ページを返す。
// GET /page/about/tech/
func (h *AboutHandler) Tech(w http.ResponseWriter, r *http.Request) {
	writeStaticPage(w, view.TemplateAboutTech)
}

func writeStaticPage(w http.ResponseWriter, template string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(staticPageResponse{Template: template})
}
