package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillsync/skillsync-api/internal/middleware"
	"github.com/skillsync/skillsync-api/internal/models"
	"github.com/skillsync/skillsync-api/internal/services"
	"github.com/skillsync/skillsync-api/pkg/jwt"
)

// AuthHandler exposes registration, login and password recovery
type AuthHandler struct {
	service      *services.AuthService
	tokenManager *jwt.TokenManager
	cookieDomain string
	cookieSecure bool
	ttlSeconds   int
}

func NewAuthHandler(
	service *services.AuthService,
	tokenManager *jwt.TokenManager,
	cookieDomain string,
	cookieSecure bool,
) *AuthHandler {
	return &AuthHandler{
		service:      service,
		tokenManager: tokenManager,
		cookieDomain: cookieDomain,
		cookieSecure: cookieSecure,
		ttlSeconds:   int(tokenManager.GetExpirationTime().Seconds()),
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", ParseValidationErrors(bindErr), bindErr)
		return
	}

	user, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.startSession(c, user)
	c.JSON(http.StatusCreated, gin.H{"user": models.PublicUser(user)})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", ParseValidationErrors(bindErr), bindErr)
		return
	}

	user, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.startSession(c, user)
	c.JSON(http.StatusOK, gin.H{"user": models.PublicUser(user)})
}

// Logout clears the session cookie. It is idempotent: logging out without a
// session is still a success.
func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.ClearSessionCookie(c, h.cookieDomain, h.cookieSecure)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me reports the current identity. An anonymous request gets a null user, not
// an error.
func (h *AuthHandler) Me(c *gin.Context) {
	token, err := c.Cookie(middleware.SessionCookieName)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}

	user := h.service.CurrentIdentity(c.Request.Context(), token)
	if user == nil {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": models.PublicUser(user)})
}

// ForgotPassword responds identically whether or not the account exists
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", ParseValidationErrors(bindErr), bindErr)
		return
	}

	if err := h.service.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "If that account exists, we sent a reset link."})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		respondError(c, http.StatusBadRequest, "Reset token is required", nil)
		return
	}

	var req models.ResetPasswordRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", ParseValidationErrors(bindErr), bindErr)
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), token, req.Password); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

func (h *AuthHandler) startSession(c *gin.Context, user *models.User) {
	token, err := h.tokenManager.GenerateToken(user.ID, user.Email, user.Name, string(user.Role))
	if err != nil {
		attachError(c, err)
		return
	}
	middleware.SetSessionCookie(c, token, h.ttlSeconds, h.cookieDomain, h.cookieSecure)
}
