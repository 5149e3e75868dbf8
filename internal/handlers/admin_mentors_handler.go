package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillsync/skillsync-api/internal/middleware"
	"github.com/skillsync/skillsync-api/internal/models"
	"github.com/skillsync/skillsync-api/internal/services"
)

// AdminMentorsHandler exposes direct mentor management for admins
type AdminMentorsHandler struct {
	service *services.MentorAdminService
}

func NewAdminMentorsHandler(service *services.MentorAdminService) *AdminMentorsHandler {
	return &AdminMentorsHandler{service: service}
}

func (h *AdminMentorsHandler) List(c *gin.Context) {
	mentors, err := h.service.ListMentors(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"mentors": mentors, "total": len(mentors)})
}

func (h *AdminMentorsHandler) Get(c *gin.Context) {
	mentorID := c.Param("id")
	if mentorID == "" {
		respondError(c, http.StatusBadRequest, "Invalid mentor ID", errors.New("missing route param: id"))
		return
	}

	mentor, err := h.service.GetMentor(c.Request.Context(), mentorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"mentor": mentor})
}

func (h *AdminMentorsHandler) Create(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req models.CreateMentorRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", ParseValidationErrors(bindErr), bindErr)
		return
	}

	mentor, err := h.service.CreateMentor(c.Request.Context(), &req, session.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"mentor": mentor})
}

func (h *AdminMentorsHandler) Update(c *gin.Context) {
	mentorID := c.Param("id")
	if mentorID == "" {
		respondError(c, http.StatusBadRequest, "Invalid mentor ID", errors.New("missing route param: id"))
		return
	}

	var req models.UpdateMentorProfileRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", ParseValidationErrors(bindErr), bindErr)
		return
	}

	profile, err := h.service.UpdateMentorProfile(c.Request.Context(), mentorID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (h *AdminMentorsHandler) Delete(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	mentorID := c.Param("id")
	if mentorID == "" {
		respondError(c, http.StatusBadRequest, "Invalid mentor ID", errors.New("missing route param: id"))
		return
	}

	if err := h.service.RemoveMentor(c.Request.Context(), mentorID, session.UserID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
