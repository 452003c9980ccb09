package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/luizFelippedev/portfolio-backend/internal/auth"
	"github.com/luizFelippedev/portfolio-backend/internal/errs"
	"github.com/luizFelippedev/portfolio-backend/internal/model"
)

// AuthHandler handles login.
type AuthHandler struct {
	svc    *auth.Service
	logger *zap.Logger
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(svc *auth.Service, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	token, user, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidLogin) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, model.LoginResponse{Token: token, User: model.ProfileOf(user)})
}
