package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performHealthcheck(dbPing func(ctx context.Context) error, cacheReady func() bool) *httptest.ResponseRecorder {
	handler := NewHealthHandler(dbPing, cacheReady)
	router := gin.New()
	router.GET("/healthcheck", handler.Healthcheck)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/healthcheck", http.NoBody)
	router.ServeHTTP(w, req)
	return w
}

func TestHealthHandler_Healthy(t *testing.T) {
	w := performHealthcheck(
		func(ctx context.Context) error { return nil },
		func() bool { return true },
	)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-cache, no-store, max-age=0, must-revalidate", w.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealthHandler_DatabaseDown(t *testing.T) {
	w := performHealthcheck(
		func(ctx context.Context) error { return errors.New("connection refused") },
		func() bool { return true },
	)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unavailable","reason":"database unreachable"}`, w.Body.String())
}

func TestHealthHandler_CacheNotReady(t *testing.T) {
	w := performHealthcheck(
		func(ctx context.Context) error { return nil },
		func() bool { return false },
	)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unavailable","reason":"mentor cache not initialized"}`, w.Body.String())
}
