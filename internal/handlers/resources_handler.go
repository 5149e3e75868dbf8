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

// ResourcesHandler exposes the learning resource catalog
type ResourcesHandler struct {
	service *services.ResourceService
}

func NewResourcesHandler(service *services.ResourceService) *ResourcesHandler {
	return &ResourcesHandler{service: service}
}

func (h *ResourcesHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	resp, err := h.service.List(c.Request.Context(), models.ResourceListQuery{
		Query: c.Query("q"),
		Type:  models.ResourceType(c.Query("type")),
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ResourcesHandler) Get(c *gin.Context) {
	resourceID := c.Param("id")
	if resourceID == "" {
		respondError(c, http.StatusBadRequest, "Invalid resource ID", errors.New("missing route param: id"))
		return
	}

	resource, err := h.service.Get(c.Request.Context(), resourceID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"resource": resource})
}

func (h *ResourcesHandler) Create(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req models.CreateResourceRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", ParseValidationErrors(bindErr), bindErr)
		return
	}

	resource, err := h.service.Create(c.Request.Context(), &req, session.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"resource": resource})
}

func (h *ResourcesHandler) Update(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	resourceID := c.Param("id")
	if resourceID == "" {
		respondError(c, http.StatusBadRequest, "Invalid resource ID", errors.New("missing route param: id"))
		return
	}

	var req models.UpdateResourceRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", ParseValidationErrors(bindErr), bindErr)
		return
	}

	resource, err := h.service.Update(c.Request.Context(), resourceID, &req, session.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"resource": resource})
}

func (h *ResourcesHandler) Delete(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	resourceID := c.Param("id")
	if resourceID == "" {
		respondError(c, http.StatusBadRequest, "Invalid resource ID", errors.New("missing route param: id"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), resourceID, session.UserID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
