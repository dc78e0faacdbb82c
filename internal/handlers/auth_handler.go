package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentorlinq/mentorlinq-api/internal/middleware"
	"github.com/mentorlinq/mentorlinq-api/internal/models"
	"github.com/mentorlinq/mentorlinq-api/internal/services"
)

// AuthHandler handles registration, login, logout and the OTP endpoints
// for both principal kinds
type AuthHandler struct {
	service services.AuthServiceInterface
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service services.AuthServiceInterface) *AuthHandler {
	return &AuthHandler{
		service: service,
	}
}

// RegisterMentee handles POST /api/v1/auth/mentee/register
func (h *AuthHandler) RegisterMentee(c *gin.Context) {
	var req models.RegisterMenteeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation failed",
			"details": ParseValidationErrors(err),
		})
		return
	}

	_, session, token, err := h.service.RegisterMentee(c.Request.Context(), &req)
	if err != nil {
		respondAppError(c, err, "Failed to register")
		return
	}

	h.setCookie(c, models.KindMentee, token)
	c.JSON(http.StatusCreated, models.RegisterResponse{
		Success: true,
		Session: session,
	})
}

// RegisterMentor handles POST /api/v1/auth/mentor/register
func (h *AuthHandler) RegisterMentor(c *gin.Context) {
	var req models.RegisterMentorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation failed",
			"details": ParseValidationErrors(err),
		})
		return
	}

	_, session, token, err := h.service.RegisterMentor(c.Request.Context(), &req)
	if err != nil {
		respondAppError(c, err, "Failed to register")
		return
	}

	h.setCookie(c, models.KindMentor, token)
	c.JSON(http.StatusCreated, models.RegisterResponse{
		Success: true,
		Session: session,
	})
}

// Login handles POST /api/v1/auth/:kind/login
func (h *AuthHandler) Login(kind models.PrincipalKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Validation failed",
				"details": ParseValidationErrors(err),
			})
			return
		}

		session, token, err := h.service.Login(c.Request.Context(), kind, &req)
		if err != nil {
			respondAppError(c, err, "Failed to log in")
			return
		}

		h.setCookie(c, kind, token)
		c.JSON(http.StatusOK, models.LoginResponse{
			Success: true,
			Session: session,
		})
	}
}

// Logout handles POST /api/v1/auth/:kind/logout
func (h *AuthHandler) Logout(kind models.PrincipalKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.ClearSessionCookie(
			c,
			kind,
			h.service.GetCookieDomain(),
			h.service.GetCookieSecure(),
		)

		c.JSON(http.StatusOK, models.LogoutResponse{
			Success: true,
		})
	}
}

// GetSession handles GET /api/v1/auth/:kind/session
func (h *AuthHandler) GetSession(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Not authenticated", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"session": session,
	})
}

// SendVerification handles POST /api/v1/auth/:kind/verify/send
func (h *AuthHandler) SendVerification(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	if err := h.service.SendVerificationOTP(c.Request.Context(), session.Kind, session.PrincipalID); err != nil {
		respondAppError(c, err, "Failed to send verification code")
		return
	}

	c.JSON(http.StatusOK, models.AuthActionResponse{
		Success: true,
		Message: "Verification code sent",
	})
}

// VerifyEmail handles POST /api/v1/auth/:kind/verify
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req models.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation failed",
			"details": ParseValidationErrors(err),
		})
		return
	}

	if err := h.service.VerifyEmail(c.Request.Context(), session.Kind, session.PrincipalID, req.OTP); err != nil {
		respondAppError(c, err, "Failed to verify email")
		return
	}

	c.JSON(http.StatusOK, models.AuthActionResponse{
		Success: true,
		Message: "Email verified",
	})
}

// SendReset handles POST /api/v1/auth/:kind/reset/send
func (h *AuthHandler) SendReset(kind models.PrincipalKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ResetPasswordSendRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Validation failed",
				"details": ParseValidationErrors(err),
			})
			return
		}

		if err := h.service.SendResetOTP(c.Request.Context(), kind, req.Email); err != nil {
			respondAppError(c, err, "Failed to send reset code")
			return
		}

		c.JSON(http.StatusOK, models.AuthActionResponse{
			Success: true,
			Message: "Reset code sent",
		})
	}
}

// ResetPassword handles POST /api/v1/auth/:kind/reset
func (h *AuthHandler) ResetPassword(kind models.PrincipalKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ResetPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Validation failed",
				"details": ParseValidationErrors(err),
			})
			return
		}

		if err := h.service.ResetPassword(c.Request.Context(), kind, &req); err != nil {
			respondAppError(c, err, "Failed to reset password")
			return
		}

		c.JSON(http.StatusOK, models.AuthActionResponse{
			Success: true,
			Message: "Password updated",
		})
	}
}

func (h *AuthHandler) setCookie(c *gin.Context, kind models.PrincipalKind, token string) {
	middleware.SetSessionCookie(
		c,
		kind,
		token,
		h.service.GetSessionTTL()*3600,
		h.service.GetCookieDomain(),
		h.service.GetCookieSecure(),
	)
}
