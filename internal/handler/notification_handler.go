package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/luizFelippedev/portfolio-backend/internal/model"
	"github.com/luizFelippedev/portfolio-backend/internal/service"
)

// NotificationHandler handles creating and reading notifications.
type NotificationHandler struct {
	svc    *service.NotificationService
	logger *zap.Logger
}

// NewNotificationHandler creates the notification handler.
func NewNotificationHandler(svc *service.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{svc: svc, logger: logger}
}

// Create handles POST /api/admin/notifications.
func (h *NotificationHandler) Create(c *gin.Context) {
	var req model.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rows, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("notification create failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"created": len(rows)})
}

// ListMine handles GET /api/notifications for the authenticated user.
func (h *NotificationHandler) ListMine(c *gin.Context) {
	ident := identityFrom(c)
	if ident == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	rows, err := h.svc.ListForUser(c.Request.Context(), ident.UserID)
	if err != nil {
		h.logger.Error("notification list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": rows})
}

// MarkRead handles POST /api/notifications/:id/read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	ident := identityFrom(c)
	if ident == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	if err := h.svc.MarkRead(c.Request.Context(), ident.UserID, c.Param("id")); err != nil {
		h.logger.Error("notification mark read failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.Status(http.StatusNoContent)
}
