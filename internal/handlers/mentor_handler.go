package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillsync/skillsync-api/internal/middleware"
	"github.com/skillsync/skillsync-api/internal/models"
	"github.com/skillsync/skillsync-api/internal/services"
)

// MentorHandler exposes the public mentor directory and the self-service
// application flow
type MentorHandler struct {
	mentors    *services.MentorAdminService
	onboarding *services.OnboardingService
}

func NewMentorHandler(mentors *services.MentorAdminService, onboarding *services.OnboardingService) *MentorHandler {
	return &MentorHandler{mentors: mentors, onboarding: onboarding}
}

// Directory lists approved mentors for logged-in users
func (h *MentorHandler) Directory(c *gin.Context) {
	entries, err := h.mentors.Directory(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"mentors": entries})
}

// SubmitApplication files a mentor application for the current user
func (h *MentorHandler) SubmitApplication(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req models.SubmitApplicationRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", ParseValidationErrors(bindErr), bindErr)
		return
	}

	app, err := h.onboarding.Submit(c.Request.Context(), session, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"application": app})
}

// ApplicationStatus reports the latest application for the current user
func (h *MentorHandler) ApplicationStatus(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	status, err := h.onboarding.StatusForEmail(c.Request.Context(), session.Email)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}
