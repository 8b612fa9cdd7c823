package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/miniblog/internal/middleware"
	"github.com/hitoshi/miniblog/internal/model"
)

// GroupServiceInterface はグループハンドラーが必要とするサービスインターフェース。
type GroupServiceInterface interface {
	// Create は新規グループを作成する。
	Create(ctx context.Context, title, slug, description string) (*model.Group, error)
	// List は全グループを返す。
	List(ctx context.Context) ([]*model.Group, error)
}

// GroupHandler はグループ管理のHTTPハンドラー。
type GroupHandler struct {
	service GroupServiceInterface
}

// NewGroupHandler はGroupHandlerを生成する。
func NewGroupHandler(service GroupServiceInterface) *GroupHandler {
	return &GroupHandler{service: service}
}

// --- リクエスト・レスポンス型 ---

// groupRequest はグループ作成リクエストのボディ。
type groupRequest struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// groupResponse はグループのレスポンス。
type groupResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// groupListResponse はグループ一覧のレスポンス。
type groupListResponse struct {
	Groups []groupResponse `json:"groups"`
}

// CreateGroup は新規グループを作成する。
// POST /groups/
// スラッグが重複している場合は409を返す。
func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.UserIDFromContext(r.Context()); err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	var req groupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "リクエストボディの解析に失敗しました。",
			Category: "validation",
			Action:   "正しいJSON形式でリクエストしてください。",
		})
		return
	}

	created, err := h.service.Create(r.Context(), req.Title, req.Slug, req.Description)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toGroupResponse(created))
}

// ListGroups は全グループの一覧を返す。
// GET /groups/
func (h *GroupHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]groupResponse, len(groups))
	for i, g := range groups {
		results[i] = toGroupResponse(g)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(groupListResponse{Groups: results})
}

// toGroupResponse はドメインのGroupをレスポンス型に変換する。
func toGroupResponse(g *model.Group) groupResponse {
	return groupResponse{
		ID:          g.ID,
		Title:       g.Title,
		Slug:        g.Slug,
		Description: g.Description,
		CreatedAt:   g.CreatedAt,
	}
}
