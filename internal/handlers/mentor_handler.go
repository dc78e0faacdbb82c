package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentorlinq/mentorlinq-api/internal/services"
)

// MentorHandler handles the public mentor browse endpoints
type MentorHandler struct {
	service services.MentorServiceInterface
}

// NewMentorHandler creates a new MentorHandler
func NewMentorHandler(service services.MentorServiceInterface) *MentorHandler {
	return &MentorHandler{
		service: service,
	}
}

// ListMentors handles GET /api/v1/mentors
func (h *MentorHandler) ListMentors(c *gin.Context) {
	response, err := h.service.ListMentors(c.Request.Context())
	if err != nil {
		respondAppError(c, err, "Failed to fetch mentors")
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetMentorBySlug handles GET /api/v1/mentors/:slug
func (h *MentorHandler) GetMentorBySlug(c *gin.Context) {
	mentorSlug := c.Param("slug")
	if mentorSlug == "" {
		respondError(c, http.StatusBadRequest, "Invalid mentor slug", nil)
		return
	}

	mentor, err := h.service.GetMentorBySlug(c.Request.Context(), mentorSlug)
	if err != nil {
		respondAppError(c, err, "Failed to fetch mentor")
		return
	}

	c.JSON(http.StatusOK, mentor)
}
