package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/luizFelippedev/portfolio-backend/internal/model"
	"github.com/luizFelippedev/portfolio-backend/internal/realtime"
	"github.com/luizFelippedev/portfolio-backend/internal/service"
)

// ContactHandler handles the contact form and its admin views.
type ContactHandler struct {
	svc    *service.ContactService
	sink   realtime.AnalyticsSink
	logger *zap.Logger
}

// NewContactHandler creates the contact handler.
func NewContactHandler(svc *service.ContactService, sink realtime.AnalyticsSink, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{svc: svc, sink: sink, logger: logger}
}

// Submit handles POST /api/contacts (rate limited upstream).
func (h *ContactHandler) Submit(c *gin.Context) {
	var req model.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	msg, err := h.svc.Submit(c.Request.Context(), &req, c.ClientIP())
	if err != nil {
		h.logger.Error("contact submit failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	h.sink.Track("contact_submitted", map[string]any{"ip": c.ClientIP()})
	c.JSON(http.StatusCreated, gin.H{"id": msg.ID})
}

// List handles GET /api/admin/contacts.
func (h *ContactHandler) List(c *gin.Context) {
	msgs, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.logger.Error("contact list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"contacts": msgs})
}

// MarkRead handles POST /api/admin/contacts/:id/read.
func (h *ContactHandler) MarkRead(c *gin.Context) {
	if err := h.svc.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		h.logger.Error("contact mark read failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.Status(http.StatusNoContent)
}
