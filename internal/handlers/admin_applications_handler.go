package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skillsync/skillsync-api/internal/middleware"
	"github.com/skillsync/skillsync-api/internal/models"
	"github.com/skillsync/skillsync-api/internal/services"
)

// AdminApplicationsHandler exposes the mentor application review queue
type AdminApplicationsHandler struct {
	service *services.OnboardingService
}

func NewAdminApplicationsHandler(service *services.OnboardingService) *AdminApplicationsHandler {
	return &AdminApplicationsHandler{service: service}
}

func (h *AdminApplicationsHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	resp, err := h.service.ListApplications(c.Request.Context(), models.ApplicationListQuery{
		Status: models.ApplicationStatus(c.Query("status")),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AdminApplicationsHandler) Approve(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	applicationID := c.Param("id")
	if applicationID == "" {
		respondError(c, http.StatusBadRequest, "Invalid application ID", errors.New("missing route param: id"))
		return
	}

	var req models.ApproveApplicationRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", ParseValidationErrors(bindErr), bindErr)
		return
	}

	app, err := h.service.Approve(c.Request.Context(), applicationID, req.Password, session.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"application": app})
}

func (h *AdminApplicationsHandler) Reject(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	applicationID := c.Param("id")
	if applicationID == "" {
		respondError(c, http.StatusBadRequest, "Invalid application ID", errors.New("missing route param: id"))
		return
	}

	var req models.RejectApplicationRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", ParseValidationErrors(bindErr), bindErr)
		return
	}

	app, err := h.service.Reject(c.Request.Context(), applicationID, req.Notes, session.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"application": app})
}
