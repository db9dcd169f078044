// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	domainerror "github.com/ledgerline/backend/internal/domain/error"
)

func TestRateLimiter_BlocksAboveLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("E2E_MODE", "")
	t.Setenv("ENV", "")

	rl := NewRateLimiterWithConfig(2, time.Minute)
	router := gin.New()
	router.Use(rl.Middleware())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 2; i++ {
		if w := send(); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}

	w := send()
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 above the limit, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), string(domainerror.ErrCodeRateLimited)) {
		t.Errorf("expected body to carry code %s, got %s", domainerror.ErrCodeRateLimited, w.Body.String())
	}
}

func TestRateLimiter_ResetClearsWindow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("E2E_MODE", "")
	t.Setenv("ENV", "")

	rl := NewRateLimiterWithConfig(1, time.Minute)
	router := gin.New()
	router.Use(rl.Middleware())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func() int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		router.ServeHTTP(w, req)
		return w.Code
	}

	if code := send(); code != http.StatusOK {
		t.Fatalf("expected first request allowed, got %d", code)
	}
	if code := send(); code != http.StatusTooManyRequests {
		t.Fatalf("expected second request blocked, got %d", code)
	}

	rl.Reset()
	if code := send(); code != http.StatusOK {
		t.Fatalf("expected request allowed after reset, got %d", code)
	}
}
