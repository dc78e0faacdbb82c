package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentorlinq/mentorlinq-api/internal/services"
	"github.com/mentorlinq/mentorlinq-api/pkg/logger"
	"go.uber.org/zap"
)

// AdminHandler handles the internal maintenance endpoints
type AdminHandler struct {
	service services.ConnectionServiceInterface
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(service services.ConnectionServiceInterface) *AdminHandler {
	return &AdminHandler{
		service: service,
	}
}

// RebuildConnections handles POST /api/internal/connections/rebuild.
// It recomputes every connections array from the accepted ledger rows.
func (h *AdminHandler) RebuildConnections(c *gin.Context) {
	result, err := h.service.RebuildProjections(c.Request.Context())
	if err != nil {
		respondAppError(c, err, "Failed to rebuild connections")
		return
	}

	logger.Info("Connections projection rebuilt",
		zap.Int64("mentees_updated", result.MenteesUpdated),
		zap.Int64("mentors_updated", result.MentorsUpdated))

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"menteesUpdated": result.MenteesUpdated,
		"mentorsUpdated": result.MentorsUpdated,
	})
}
