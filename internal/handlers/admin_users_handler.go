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

// AdminUsersHandler exposes account administration and platform stats
type AdminUsersHandler struct {
	users *services.AdminUsersService
	audit *services.AuditService
}

func NewAdminUsersHandler(users *services.AdminUsersService, audit *services.AuditService) *AdminUsersHandler {
	return &AdminUsersHandler{users: users, audit: audit}
}

func (h *AdminUsersHandler) Stats(c *gin.Context) {
	stats, err := h.users.Stats(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *AdminUsersHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	resp, err := h.users.ListUsers(c.Request.Context(), models.UserListQuery{
		Query: c.Query("q"),
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AdminUsersHandler) ChangeRole(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	userID := c.Param("id")
	if userID == "" {
		respondError(c, http.StatusBadRequest, "Invalid user ID", errors.New("missing route param: id"))
		return
	}

	var req models.UpdateUserRoleRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", ParseValidationErrors(bindErr), bindErr)
		return
	}

	user, err := h.users.ChangeRole(c.Request.Context(), userID, models.Role(req.Role), session.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": models.PublicUser(user)})
}

func (h *AdminUsersHandler) Suspend(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	userID := c.Param("id")
	if userID == "" {
		respondError(c, http.StatusBadRequest, "Invalid user ID", errors.New("missing route param: id"))
		return
	}

	var req models.SuspendUserRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", ParseValidationErrors(bindErr), bindErr)
		return
	}

	user, err := h.users.SetSuspended(c.Request.Context(), userID, *req.Suspended, session.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": models.PublicUser(user)})
}

func (h *AdminUsersHandler) Delete(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	userID := c.Param("id")
	if userID == "" {
		respondError(c, http.StatusBadRequest, "Invalid user ID", errors.New("missing route param: id"))
		return
	}

	if err := h.users.DeleteUser(c.Request.Context(), userID, session.UserID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ExportCSV streams the user roster as a CSV attachment
func (h *AdminUsersHandler) ExportCSV(c *gin.Context) {
	data, err := h.users.ExportUsersCSV(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="users.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

func (h *AdminUsersHandler) Logs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	resp, err := h.audit.List(c.Request.Context(), models.AuditListQuery{
		Type:  c.Query("type"),
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
