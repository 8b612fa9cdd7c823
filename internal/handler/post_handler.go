package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/miniblog/internal/middleware"
	"github.com/hitoshi/miniblog/internal/model"
	"github.com/hitoshi/miniblog/internal/view"
)

// PostServiceInterface は投稿ハンドラーが必要とするサービスインターフェース。
type PostServiceInterface interface {
	// Create は新規投稿を作成する。
	Create(ctx context.Context, actorID, text string, groupSlug *string) (*model.PostWithRefs, error)
	// Edit は投稿者本人による投稿の更新を行う。
	Edit(ctx context.Context, actorID, postID, text string, groupSlug *string) (*model.PostWithRefs, error)
	// Get は投稿詳細を返す。
	Get(ctx context.Context, postID string) (*model.PostWithRefs, error)
}

// PostHandler は投稿管理のHTTPハンドラー。
type PostHandler struct {
	service PostServiceInterface
}

// NewPostHandler はPostHandlerを生成する。
func NewPostHandler(service PostServiceInterface) *PostHandler {
	return &PostHandler{service: service}
}

// --- リクエスト・レスポンス型 ---

// postRequest は投稿作成・編集リクエストのボディ。
// groupはスラッグで指定し、省略時はグループなし投稿になる。
type postRequest struct {
	Text  string  `json:"text"`
	Group *string `json:"group,omitempty"`
}

// postPageResponse は投稿詳細ページのレスポンス。
type postPageResponse struct {
	Template string           `json:"template"`
	Context  view.PostContext `json:"context"`
}

// GetPost は投稿詳細を返す。
// GET /posts/{id}/
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")

	found, err := h.service.Get(r.Context(), postID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(postPageResponse{
		Template: view.TemplatePostDetail,
		Context:  view.NewPostContext(found),
	})
}

// CreatePost は新規投稿を作成する。
// POST /create/
// 認証済みユーザーのみ。本文が空の場合は400を返す。
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	req, ok := decodePostRequest(w, r)
	if !ok {
		return
	}

	created, err := h.service.Create(r.Context(), userID, req.Text, req.Group)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(postPageResponse{
		Template: view.TemplatePostDetail,
		Context:  view.NewPostContext(created),
	})
}

// GetEditPost は編集フォーム用に既存の投稿内容を返す。
// GET /posts/{id}/edit/
// 投稿者本人以外には403を返す。
func (h *PostHandler) GetEditPost(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	postID := chi.URLParam(r, "id")

	found, err := h.service.Get(r.Context(), postID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// 編集フォームは投稿者本人のみに表示する
	if found.AuthorID != userID {
		handleServiceError(w, model.NewNotPostAuthorError())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(postPageResponse{
		Template: view.TemplateCreatePost,
		Context:  view.NewPostContext(found),
	})
}

// EditPost は既存の投稿を更新する。
// POST /posts/{id}/edit/
// 投稿者本人以外には403を返し、投稿は変更されない。
func (h *PostHandler) EditPost(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	postID := chi.URLParam(r, "id")

	req, ok := decodePostRequest(w, r)
	if !ok {
		return
	}

	updated, err := h.service.Edit(r.Context(), userID, postID, req.Text, req.Group)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(postPageResponse{
		Template: view.TemplatePostDetail,
		Context:  view.NewPostContext(updated),
	})
}

// decodePostRequest はリクエストボディをpostRequestに解析する。
// 解析失敗時は400レスポンスを書き込み、falseを返す。
func decodePostRequest(w http.ResponseWriter, r *http.Request) (postRequest, bool) {
	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "リクエストボディの解析に失敗しました。",
			Category: "validation",
			Action:   "正しいJSON形式でリクエストしてください。",
		})
		return postRequest{}, false
	}
	return req, true
}

// writeUnauthorizedResponse は未認証リクエストへの401レスポンスを書き込む。
func writeUnauthorizedResponse(w http.ResponseWriter) {
	writeAPIErrorResponse(w, http.StatusUnauthorized, &model.APIError{
		Code:     "UNAUTHORIZED",
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	})
}
