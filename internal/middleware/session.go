package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentorlinq/mentorlinq-api/internal/models"
	"github.com/mentorlinq/mentorlinq-api/pkg/jwt"
)

// SessionContextKey is the key used to store the session in context
const SessionContextKey = "principal_session"

var (
	ErrSessionNotFound = errors.New("session not found in context")
	ErrInvalidSession  = errors.New("invalid session type")
)

// SessionMiddleware validates the JWT session cookie for the given
// principal kind and adds the session to context. A valid token of the
// other kind is rejected with 403, not 401.
func SessionMiddleware(kind models.PrincipalKind, tokenManager *jwt.TokenManager, cookieDomain string, cookieSecure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(kind.CookieName())
		if err != nil {
			_ = c.Error(fmt.Errorf("missing session cookie")) //nolint:errcheck
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		claims, err := tokenManager.ValidateToken(cookie)
		if err != nil {
			_ = c.Error(fmt.Errorf("invalid session token: %w", err)) //nolint:errcheck

			// Clear invalid cookie
			clearSessionCookie(c, kind, cookieDomain, cookieSecure)

			if errors.Is(err, jwt.ErrExpiredToken) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			}
			c.Abort()
			return
		}

		if claims.Kind != string(kind) {
			_ = c.Error(fmt.Errorf("session kind mismatch: got %s, want %s", claims.Kind, kind)) //nolint:errcheck
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			c.Abort()
			return
		}

		session := &models.Session{
			PrincipalID: claims.PrincipalID,
			Kind:        kind,
			Email:       claims.Email,
			Name:        claims.Name,
			ExpiresAt:   claims.ExpiresAt.Unix(),
			IssuedAt:    claims.IssuedAt.Unix(),
		}

		c.Set(SessionContextKey, session)
		c.Next()
	}
}

// AnySessionMiddleware accepts a valid session of either kind. The
// mentee cookie is tried first, matching the bridge's peer resolution
// order.
func AnySessionMiddleware(tokenManager *jwt.TokenManager, cookieDomain string, cookieSecure bool) gin.HandlerFunc {
	kinds := []models.PrincipalKind{models.KindMentee, models.KindMentor}
	return func(c *gin.Context) {
		for _, kind := range kinds {
			cookie, err := c.Cookie(kind.CookieName())
			if err != nil {
				continue
			}

			claims, err := tokenManager.ValidateToken(cookie)
			if err != nil || claims.Kind != string(kind) {
				_ = c.Error(fmt.Errorf("invalid %s session token", kind)) //nolint:errcheck
				clearSessionCookie(c, kind, cookieDomain, cookieSecure)
				continue
			}

			c.Set(SessionContextKey, &models.Session{
				PrincipalID: claims.PrincipalID,
				Kind:        kind,
				Email:       claims.Email,
				Name:        claims.Name,
				ExpiresAt:   claims.ExpiresAt.Unix(),
				IssuedAt:    claims.IssuedAt.Unix(),
			})
			c.Next()
			return
		}

		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		c.Abort()
	}
}

// GetSession extracts the session from context
func GetSession(c *gin.Context) (*models.Session, error) {
	val, exists := c.Get(SessionContextKey)
	if !exists {
		return nil, ErrSessionNotFound
	}

	session, ok := val.(*models.Session)
	if !ok {
		return nil, ErrInvalidSession
	}

	return session, nil
}

// SetSessionCookie sets the session cookie for the given kind
func SetSessionCookie(c *gin.Context, kind models.PrincipalKind, token string, ttlSeconds int, domain string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		kind.CookieName(),
		token,
		ttlSeconds,
		"/",
		domain,
		secure,
		true, // HttpOnly
	)
}

// ClearSessionCookie clears the session cookie for the given kind
func ClearSessionCookie(c *gin.Context, kind models.PrincipalKind, domain string, secure bool) {
	clearSessionCookie(c, kind, domain, secure)
}

func clearSessionCookie(c *gin.Context, kind models.PrincipalKind, domain string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		kind.CookieName(),
		"",
		-1,
		"/",
		domain,
		secure,
		true, // HttpOnly
	)
}
