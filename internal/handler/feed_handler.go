// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/miniblog/internal/feed"
	"github.com/hitoshi/miniblog/internal/model"
	"github.com/hitoshi/miniblog/internal/view"
)

// FeedServiceInterface はフィードハンドラーが必要とするサービスインターフェース。
type FeedServiceInterface interface {
	// ListFeed はスコープで絞り込んだ投稿の指定ページを返す。
	ListFeed(ctx context.Context, scope model.FeedScope, page int) (*feed.Page, error)
}

// GroupFetcherInterface はグループフィードの表示情報取得に必要なインターフェース。
type GroupFetcherInterface interface {
	GetBySlug(ctx context.Context, slug string) (*model.Group, error)
}

// FeedHandler はフィード閲覧のHTTPハンドラー。
type FeedHandler struct {
	service FeedServiceInterface
	groups  GroupFetcherInterface
}

// NewFeedHandler はFeedHandlerを生成する。
func NewFeedHandler(service FeedServiceInterface, groups GroupFetcherInterface) *FeedHandler {
	return &FeedHandler{service: service, groups: groups}
}

// --- レスポンス型 ---

// feedPageResponse はフィードページのレスポンス。
// テンプレート名とテンプレートコンテキストの組で、レンダリングは外部のテンプレート層が行う。
type feedPageResponse struct {
	Template string           `json:"template"`
	Context  view.FeedContext `json:"context"`
}

// groupFeedResponse はグループフィードのレスポンス。
// フィードに加えて対象グループの情報を含む。
type groupFeedResponse struct {
	Template string           `json:"template"`
	Group    view.GroupView   `json:"group"`
	Context  view.FeedContext `json:"context"`
}

// profileFeedResponse はプロフィールフィードのレスポンス。
// フィードに加えて対象投稿者の情報を含む。
type profileFeedResponse struct {
	Template string           `json:"template"`
	Author   view.AuthorView  `json:"author"`
	Context  view.FeedContext `json:"context"`
}

// Index は全投稿のフィードを返す。
// GET /?page=N
func (h *FeedHandler) Index(w http.ResponseWriter, r *http.Request) {
	page := parsePageParam(r)

	result, err := h.service.ListFeed(r.Context(), model.AllScope(), page)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(feedPageResponse{
		Template: view.TemplateIndex,
		Context:  view.NewFeedContext(result),
	})
}

// GroupFeed は指定グループの投稿フィードを返す。
// GET /group/{slug}/?page=N
// 存在しないスラッグには404を返す。
func (h *FeedHandler) GroupFeed(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	page := parsePageParam(r)

	result, err := h.service.ListFeed(r.Context(), model.GroupScope(slug), page)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// スコープ検証を通過しているため、ここでのNotFoundは発生しない
	group, err := h.groups.GetBySlug(r.Context(), slug)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(groupFeedResponse{
		Template: view.TemplateGroupList,
		Group: view.GroupView{
			Title:       group.Title,
			Slug:        group.Slug,
			Description: group.Description,
		},
		Context: view.NewFeedContext(result),
	})
}

// ProfileFeed は指定投稿者の投稿フィードを返す。
// GET /profile/{username}/?page=N
// 存在しないユーザー名には404を返す。
func (h *FeedHandler) ProfileFeed(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	page := parsePageParam(r)

	result, err := h.service.ListFeed(r.Context(), model.AuthorScope(username), page)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profileFeedResponse{
		Template: view.TemplateProfile,
		Author:   view.AuthorView{Username: username},
		Context:  view.NewFeedContext(result),
	})
}

// parsePageParam はクエリパラメータからページ番号を取得する。
// 未指定・数値以外は1ページ目として扱う。
func parsePageParam(r *http.Request) int {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return page
}

// apiErrorResponse はAPIエラーレスポンスのボディ。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeEmptyText, model.ErrCodeInvalidSlug:
		return http.StatusBadRequest
	case model.ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case model.ErrCodeNotPostAuthor:
		return http.StatusForbidden
	case model.ErrCodePostNotFound, model.ErrCodeGroupNotFound, model.ErrCodeUserNotFound:
		return http.StatusNotFound
	case model.ErrCodeDuplicateSlug, model.ErrCodeDuplicateUsername:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
