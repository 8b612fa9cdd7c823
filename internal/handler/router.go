package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/miniblog/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	SessionFinder     middleware.SessionFinder
	StatusRecorder    middleware.StatusRecorder
	CORSAllowedOrigin string
	CSRFConfig        middleware.CSRFConfig
	RateLimiter       *middleware.RateLimiter

	// メトリクス公開
	MetricsHandler http.Handler

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// フィード
	FeedService  FeedServiceInterface
	GroupFetcher GroupFetcherInterface

	// 投稿
	PostService PostServiceInterface

	// グループ
	GroupService GroupServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Recovery → Logging → Session → CSRF → RateLimit(General)
//
// /healthと/metricsはアプリケーションミドルウェアの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// ヘルスチェック（ロードバランサー向け、ミドルウェアなし）
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Prometheusスクレイプエンドポイント
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	feedHandler := NewFeedHandler(deps.FeedService, deps.GroupFetcher)
	postHandler := NewPostHandler(deps.PostService)
	groupHandler := NewGroupHandler(deps.GroupService)
	aboutHandler := NewAboutHandler()

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
		r.Use(middleware.NewSecurityHeadersMiddleware())
		r.Use(middleware.NewRecoveryMiddleware())
		r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.StatusRecorder))
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// CSRFトークン取得
		r.Method(http.MethodGet, "/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

		// 認証
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Get("/me", authHandler.Me)
		})

		// --- 閲覧ルート（認証不要） ---

		// フィード
		r.Get("/", feedHandler.Index)
		r.Get("/group/{slug}/", feedHandler.GroupFeed)
		r.Get("/profile/{username}/", feedHandler.ProfileFeed)

		// 投稿詳細
		r.Get("/posts/{id}/", postHandler.GetPost)

		// グループ一覧
		r.Get("/groups/", groupHandler.ListGroups)

		// 固定ページ
		r.Get("/page/about/author/", aboutHandler.Author)
		r.Get("/page/about/tech/", aboutHandler.Tech)

		// --- 書き込みルート（認証必須） ---
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser())

			// POST /create/ - 投稿作成（作成専用レート制限を追加）
			r.With(deps.RateLimiter.PostCreateMiddleware()).Post("/create/", postHandler.CreatePost)

			// 投稿編集（投稿者本人のみ）
			r.Get("/posts/{id}/edit/", postHandler.GetEditPost)
			r.Post("/posts/{id}/edit/", postHandler.EditPost)

			// グループ作成
			r.Post("/groups/", groupHandler.CreateGroup)
		})
	})

	return r
}
