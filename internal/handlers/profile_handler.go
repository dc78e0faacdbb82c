package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentorlinq/mentorlinq-api/internal/middleware"
	"github.com/mentorlinq/mentorlinq-api/internal/models"
	"github.com/mentorlinq/mentorlinq-api/internal/services"
)

// ProfileHandler handles the own-profile endpoints for both kinds
type ProfileHandler struct {
	service services.ProfileServiceInterface
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(service services.ProfileServiceInterface) *ProfileHandler {
	return &ProfileHandler{
		service: service,
	}
}

// GetMenteeProfile handles GET /api/v1/mentee/profile
func (h *ProfileHandler) GetMenteeProfile(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	profile, err := h.service.GetMenteeProfile(c.Request.Context(), session.PrincipalID)
	if err != nil {
		respondAppError(c, err, "Failed to fetch profile")
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetMentorProfile handles GET /api/v1/mentor/profile
func (h *ProfileHandler) GetMentorProfile(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	profile, err := h.service.GetMentorProfile(c.Request.Context(), session.PrincipalID)
	if err != nil {
		respondAppError(c, err, "Failed to fetch profile")
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UploadPicture handles POST /api/v1/:kind/profile/picture
func (h *ProfileHandler) UploadPicture(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req models.ProfilePictureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation failed",
			"details": ParseValidationErrors(err),
		})
		return
	}

	photoURL, err := h.service.UploadPicture(c.Request.Context(), session.Kind, session.PrincipalID, &req)
	if err != nil {
		respondAppError(c, err, "Failed to upload picture")
		return
	}

	c.JSON(http.StatusOK, models.ProfilePictureResponse{
		Success:  true,
		PhotoURL: photoURL,
	})
}
