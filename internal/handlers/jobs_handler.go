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

// JobsHandler exposes the job board: public browsing plus admin curation
type JobsHandler struct {
	service *services.JobService
}

func NewJobsHandler(service *services.JobService) *JobsHandler {
	return &JobsHandler{service: service}
}

func (h *JobsHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	resp, err := h.service.List(c.Request.Context(), models.JobListQuery{
		Query: c.Query("q"),
		Type:  models.JobType(c.Query("type")),
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *JobsHandler) Get(c *gin.Context) {
	jobID := c.Param("id")
	if jobID == "" {
		respondError(c, http.StatusBadRequest, "Invalid job ID", errors.New("missing route param: id"))
		return
	}

	job, err := h.service.Get(c.Request.Context(), jobID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"job": job})
}

func (h *JobsHandler) Create(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req models.CreateJobRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", ParseValidationErrors(bindErr), bindErr)
		return
	}

	job, err := h.service.Create(c.Request.Context(), &req, session.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"job": job})
}

func (h *JobsHandler) Update(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	jobID := c.Param("id")
	if jobID == "" {
		respondError(c, http.StatusBadRequest, "Invalid job ID", errors.New("missing route param: id"))
		return
	}

	var req models.UpdateJobRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", ParseValidationErrors(bindErr), bindErr)
		return
	}

	job, err := h.service.Update(c.Request.Context(), jobID, &req, session.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"job": job})
}

func (h *JobsHandler) Delete(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	jobID := c.Param("id")
	if jobID == "" {
		respondError(c, http.StatusBadRequest, "Invalid job ID", errors.New("missing route param: id"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), jobID, session.UserID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
