package handlers

import (
	"net/http"
	"time"

	"github.com/folio/folio/backend/api/internal/admin"
	"github.com/folio/folio/backend/api/internal/config"
	"github.com/folio/folio/backend/api/internal/tokens"
	"github.com/folio/folio/backend/api/pkg/logger"
	"github.com/folio/folio/backend/api/pkg/middleware"
	"github.com/gin-gonic/gin"
)

// LoginRequest is the admin's credential pair.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthHandler holds dependencies
type AuthHandler struct {
	cfg     *config.Config
	admin   *admin.Service
	revoked *tokens.Revocations
}

func NewAuthHandler(cfg *config.Config, a *admin.Service, r *tokens.Revocations) *AuthHandler {
	return &AuthHandler{cfg: cfg, admin: a, revoked: r}
}

// Register routes under /auth. limit guards login; auth guards the rest.
func (h *AuthHandler) Register(rg gin.IRouter, limit, auth gin.HandlerFunc) {
	a := rg.Group("/auth")
	a.POST("/login", limit, h.Login)
	a.POST("/logout", auth, h.Logout)
	a.GET("/me", auth, h.Me)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}
	u, err := h.admin.Authenticate(req.Email, req.Password)
	if err != nil {
		logger.Warnf("failed login for %q from %s", req.Email, c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	ttl := h.cfg.JWT.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	token, err := tokens.GenerateAccessToken(h.cfg, u, ttl)
	if err != nil {
		logger.Errorf("sign token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": u, "expires_in": int(ttl.Seconds())})
}

// Logout revokes the presented token for the rest of its lifetime. Without
// Redis there is nowhere to record that, so the client just drops it.
func (h *AuthHandler) Logout(c *gin.Context) {
	raw := c.GetString(middleware.TokenKey)
	claims, _ := c.Get(middleware.ClaimsKey)
	cm, _ := claims.(map[string]interface{})
	if err := h.revoked.Revoke(c.Request.Context(), raw, tokens.Remaining(cm)); err != nil {
		logger.Errorf("revoke token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out", "revoked": h.revoked.Enabled()})
}

func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": h.admin.Identity()})
}
