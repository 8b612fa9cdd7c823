package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func testRateLimiterConfig(generalBurst, postCreateBurst int) RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     rate.Limit(0.001), // ほぼ補充なし
		GeneralBurst:    generalBurst,
		PostCreateRate:  rate.Limit(0.001),
		PostCreateBurst: postCreateBurst,
		CleanupInterval: time.Hour,
	}
}

// TestGeneralMiddleware_AllowsWithinBurst はバースト以内のリクエストが通過することを検証する。
func TestGeneralMiddleware_AllowsWithinBurst(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig(3, 1))
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(okHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.1:12345"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Result().StatusCode != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i+1, w.Result().StatusCode, http.StatusOK)
		}
	}
}

// TestGeneralMiddleware_BlocksOverBurst はバースト超過のリクエストが429になることを検証する。
func TestGeneralMiddleware_BlocksOverBurst(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig(2, 1))
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(okHandler())

	statuses := make([]int, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.1:12345"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		statuses[i] = w.Result().StatusCode
	}

	if statuses[2] != http.StatusTooManyRequests {
		t.Errorf("3rd request status = %d, want %d", statuses[2], http.StatusTooManyRequests)
	}
}

// TestGeneralMiddleware_RateLimitResponseHasRetryAfter は429レスポンスに
// Retry-Afterヘッダーが含まれることを検証する。
func TestGeneralMiddleware_RateLimitResponseHasRetryAfter(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig(1, 1))
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(okHandler())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.1:12345"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if i == 1 {
			if w.Result().StatusCode != http.StatusTooManyRequests {
				t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusTooManyRequests)
			}
			if w.Result().Header.Get("Retry-After") == "" {
				t.Error("429 response should include Retry-After header")
			}
		}
	}
}

// TestGeneralMiddleware_ClientsAreIndependent はクライアントごとに独立した制限が働くことを検証する。
func TestGeneralMiddleware_ClientsAreIndependent(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig(1, 1))
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(okHandler())

	// クライアントAがバーストを使い切る
	reqA := httptest.NewRequest(http.MethodGet, "/", nil)
	reqA.RemoteAddr = "192.0.2.1:12345"
	handler.ServeHTTP(httptest.NewRecorder(), reqA)

	// クライアントBは影響を受けない
	reqB := httptest.NewRequest(http.MethodGet, "/", nil)
	reqB.RemoteAddr = "192.0.2.2:12345"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, reqB)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("client B status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}

	if rl.GeneralLimiterCount() != 2 {
		t.Errorf("limiter count = %d, want 2", rl.GeneralLimiterCount())
	}
}

// TestGeneralMiddleware_AuthenticatedUsesUserIDKey は認証済みリクエストが
// リモートアドレスではなくユーザーIDでキーされることを検証する。
func TestGeneralMiddleware_AuthenticatedUsesUserIDKey(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig(1, 1))
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(okHandler())

	// 同一アドレスから別ユーザーのリクエスト: それぞれ独立した制限
	for _, userID := range []string{"user-1", "user-2"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.1:12345"
		req = req.WithContext(ContextWithUserID(req.Context(), userID))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Result().StatusCode != http.StatusOK {
			t.Errorf("user %s: status = %d, want %d", userID, w.Result().StatusCode, http.StatusOK)
		}
	}
}

// TestPostCreateMiddleware_RequiresAuthentication は未認証リクエストが401になることを検証する。
func TestPostCreateMiddleware_RequiresAuthentication(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig(10, 10))
	defer rl.Stop()

	handler := rl.PostCreateMiddleware()(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/create/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

// TestPostCreateMiddleware_BlocksOverBurst は投稿作成のバースト超過が429になることを検証する。
func TestPostCreateMiddleware_BlocksOverBurst(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig(100, 2))
	defer rl.Stop()

	handler := rl.PostCreateMiddleware()(okHandler())

	var last int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/create/", nil)
		req = req.WithContext(ContextWithUserID(req.Context(), "user-1"))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		last = w.Result().StatusCode
	}

	if last != http.StatusTooManyRequests {
		t.Errorf("3rd request status = %d, want %d", last, http.StatusTooManyRequests)
	}
}

// TestCleanup_RemovesStaleEntries は古いエントリがクリーンアップで削除されることを検証する。
func TestCleanup_RemovesStaleEntries(t *testing.T) {
	cfg := testRateLimiterConfig(10, 10)
	cfg.CleanupInterval = time.Nanosecond
	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	rl.getOrCreateGeneralLimiter("client-1")
	if rl.GeneralLimiterCount() != 1 {
		t.Fatalf("limiter count = %d, want 1", rl.GeneralLimiterCount())
	}

	time.Sleep(10 * time.Millisecond)
	rl.cleanup()

	if rl.GeneralLimiterCount() != 0 {
		t.Errorf("limiter count after cleanup = %d, want 0", rl.GeneralLimiterCount())
	}
}
