package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentorlinq/mentorlinq-api/internal/middleware"
	"github.com/mentorlinq/mentorlinq-api/internal/models"
	"github.com/mentorlinq/mentorlinq-api/internal/services"
)

// StreamHandler handles the chat bridge endpoints
type StreamHandler struct {
	service services.StreamServiceInterface
}

// NewStreamHandler creates a new StreamHandler
func NewStreamHandler(service services.StreamServiceInterface) *StreamHandler {
	return &StreamHandler{
		service: service,
	}
}

// Token handles GET /api/v1/stream/token
func (h *StreamHandler) Token(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	response, err := h.service.Token(c.Request.Context(), session.PrincipalID, session.Kind)
	if err != nil {
		respondAppError(c, err, "Failed to issue chat token")
		return
	}

	c.JSON(http.StatusOK, response)
}

// EnsurePeer handles POST /api/v1/stream/ensure-peer
func (h *StreamHandler) EnsurePeer(c *gin.Context) {
	if _, err := middleware.GetSession(c); err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req models.EnsurePeerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation failed",
			"details": ParseValidationErrors(err),
		})
		return
	}

	response, err := h.service.EnsurePeer(c.Request.Context(), req.PeerID)
	if err != nil {
		respondAppError(c, err, "Failed to sync peer")
		return
	}

	c.JSON(http.StatusOK, response)
}
