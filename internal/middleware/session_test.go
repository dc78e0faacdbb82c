package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mentorlinq/mentorlinq-api/internal/models"
	"github.com/mentorlinq/mentorlinq-api/pkg/jwt"
	"github.com/mentorlinq/mentorlinq-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)

	// Initialize logger for tests
	if err := logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	}); err != nil {
		panic(err)
	}
}

func newSessionRouter(kind models.PrincipalKind, tm *jwt.TokenManager) (*gin.Engine, *models.Session) {
	captured := &models.Session{}
	router := gin.New()
	router.Use(SessionMiddleware(kind, tm, "", false))
	router.GET("/test", func(c *gin.Context) {
		session, err := GetSession(c)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		*captured = *session
		c.Status(http.StatusOK)
	})
	return router, captured
}

func TestSessionMiddleware_ValidCookie(t *testing.T) {
	tm := jwt.NewTokenManager("test-secret", "test-issuer", 24)
	token, err := tm.GenerateToken(10, string(models.KindMentee), "jane@example.com", "Jane")
	require.NoError(t, err)

	router, captured := newSessionRouter(models.KindMentee, tm)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	req.AddCookie(&http.Cookie{Name: "mentee_session", Value: token})

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(10), captured.PrincipalID)
	assert.Equal(t, models.KindMentee, captured.Kind)
	assert.Equal(t, "jane@example.com", captured.Email)
}

func TestSessionMiddleware_MissingCookie(t *testing.T) {
	tm := jwt.NewTokenManager("test-secret", "test-issuer", 24)
	router, _ := newSessionRouter(models.KindMentee, tm)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionMiddleware_InvalidToken(t *testing.T) {
	tm := jwt.NewTokenManager("test-secret", "test-issuer", 24)
	router, _ := newSessionRouter(models.KindMentee, tm)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	req.AddCookie(&http.Cookie{Name: "mentee_session", Value: "not-a-jwt"})

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionMiddleware_WrongSigningKey(t *testing.T) {
	signer := jwt.NewTokenManager("other-secret", "test-issuer", 24)
	token, err := signer.GenerateToken(10, string(models.KindMentee), "jane@example.com", "Jane")
	require.NoError(t, err)

	tm := jwt.NewTokenManager("test-secret", "test-issuer", 24)
	router, _ := newSessionRouter(models.KindMentee, tm)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	req.AddCookie(&http.Cookie{Name: "mentee_session", Value: token})

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionMiddleware_KindMismatchForbidden(t *testing.T) {
	tm := jwt.NewTokenManager("test-secret", "test-issuer", 24)

	// A valid mentee token presented under the mentor cookie name is a
	// kind mismatch, not an authentication failure
	token, err := tm.GenerateToken(10, string(models.KindMentee), "jane@example.com", "Jane")
	require.NoError(t, err)

	router, _ := newSessionRouter(models.KindMentor, tm)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	req.AddCookie(&http.Cookie{Name: "mentor_session", Value: token})

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAnySessionMiddleware_AcceptsEitherKind(t *testing.T) {
	tm := jwt.NewTokenManager("test-secret", "test-issuer", 24)

	for _, kind := range []models.PrincipalKind{models.KindMentee, models.KindMentor} {
		token, err := tm.GenerateToken(10, string(kind), "p@example.com", "P")
		require.NoError(t, err)

		captured := &models.Session{}
		router := gin.New()
		router.Use(AnySessionMiddleware(tm, "", false))
		router.GET("/test", func(c *gin.Context) {
			session, _ := GetSession(c)
			*captured = *session
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/test", nil)
		req.AddCookie(&http.Cookie{Name: kind.CookieName(), Value: token})

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, kind, captured.Kind)
	}
}

func TestAnySessionMiddleware_NoCookies(t *testing.T) {
	tm := jwt.NewTokenManager("test-secret", "test-issuer", 24)

	router := gin.New()
	router.Use(AnySessionMiddleware(tm, "", false))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestInternalAPIAuthMiddleware_ValidToken(t *testing.T) {
	router := gin.New()
	handlerCalled := false
	router.Use(InternalAPIAuthMiddleware("internal-secret-token"))
	router.POST("/test", func(c *gin.Context) {
		handlerCalled = true
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/test", nil)
	req.Header.Set("x-internal-api-auth-token", "internal-secret-token")

	router.ServeHTTP(w, req)

	assert.True(t, handlerCalled, "Handler should be called for valid internal token")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInternalAPIAuthMiddleware_InvalidToken(t *testing.T) {
	router := gin.New()
	handlerCalled := false
	router.Use(InternalAPIAuthMiddleware("internal-secret-token"))
	router.POST("/test", func(c *gin.Context) {
		handlerCalled = true
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/test", nil)
	req.Header.Set("x-internal-api-auth-token", "wrong-token")

	router.ServeHTTP(w, req)

	assert.False(t, handlerCalled, "Handler should not be called for invalid internal token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestInternalAPIAuthMiddleware_MissingToken(t *testing.T) {
	router := gin.New()
	handlerCalled := false
	router.Use(InternalAPIAuthMiddleware("internal-secret-token"))
	router.POST("/test", func(c *gin.Context) {
		handlerCalled = true
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/test", nil)

	router.ServeHTTP(w, req)

	assert.False(t, handlerCalled, "Handler should not be called when internal token is missing")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
