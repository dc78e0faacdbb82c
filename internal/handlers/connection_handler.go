package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mentorlinq/mentorlinq-api/internal/middleware"
	"github.com/mentorlinq/mentorlinq-api/internal/services"
)

// ConnectionHandler handles the connection-request ledger endpoints
type ConnectionHandler struct {
	service services.ConnectionServiceInterface
}

// NewConnectionHandler creates a new ConnectionHandler
func NewConnectionHandler(service services.ConnectionServiceInterface) *ConnectionHandler {
	return &ConnectionHandler{
		service: service,
	}
}

// CreateRequest handles POST /api/v1/requests/:mentorId
func (h *ConnectionHandler) CreateRequest(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	mentorID, err := strconv.ParseInt(c.Param("mentorId"), 10, 64)
	if err != nil || mentorID < 1 {
		respondError(c, http.StatusBadRequest, "Invalid mentor ID", err)
		return
	}

	request, err := h.service.CreateRequest(c.Request.Context(), session.PrincipalID, mentorID)
	if err != nil {
		respondAppError(c, err, "Failed to create request")
		return
	}

	c.JSON(http.StatusCreated, request)
}

// ListOutgoing handles GET /api/v1/requests/outgoing
func (h *ConnectionHandler) ListOutgoing(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	response, err := h.service.ListOutgoing(c.Request.Context(), session.PrincipalID)
	if err != nil {
		respondAppError(c, err, "Failed to fetch requests")
		return
	}

	c.JSON(http.StatusOK, response)
}

// ListIncoming handles GET /api/v1/requests/incoming
func (h *ConnectionHandler) ListIncoming(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	response, err := h.service.ListIncoming(c.Request.Context(), session.PrincipalID)
	if err != nil {
		respondAppError(c, err, "Failed to fetch requests")
		return
	}

	c.JSON(http.StatusOK, response)
}

// Accept handles PUT /api/v1/requests/:id/accept
func (h *ConnectionHandler) Accept(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	requestID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || requestID < 1 {
		respondError(c, http.StatusBadRequest, "Invalid request ID", err)
		return
	}

	result, err := h.service.Accept(c.Request.Context(), session.PrincipalID, requestID)
	if err != nil {
		respondAppError(c, err, "Failed to accept request")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Reject handles PUT /api/v1/requests/:id/reject
func (h *ConnectionHandler) Reject(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	requestID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || requestID < 1 {
		respondError(c, http.StatusBadRequest, "Invalid request ID", err)
		return
	}

	result, err := h.service.Reject(c.Request.Context(), session.PrincipalID, requestID)
	if err != nil {
		respondAppError(c, err, "Failed to reject request")
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListConnections handles GET /api/v1/connections for either kind
func (h *ConnectionHandler) ListConnections(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	response, err := h.service.ListConnections(c.Request.Context(), session.PrincipalID, session.Kind)
	if err != nil {
		respondAppError(c, err, "Failed to fetch connections")
		return
	}

	c.JSON(http.StatusOK, response)
}
