package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/luizFelippedev/portfolio-backend/internal/errs"
	"github.com/luizFelippedev/portfolio-backend/internal/model"
	"github.com/luizFelippedev/portfolio-backend/internal/service"
)

// PortfolioHandler handles REST API for projects and certificates.
type PortfolioHandler struct {
	projects *service.ProjectService
	certs    *service.CertificateService
	logger   *zap.Logger
}

// NewPortfolioHandler creates the portfolio handler.
func NewPortfolioHandler(projects *service.ProjectService, certs *service.CertificateService, logger *zap.Logger) *PortfolioHandler {
	return &PortfolioHandler{projects: projects, certs: certs, logger: logger}
}

// ListProjects handles GET /api/projects.
func (h *PortfolioHandler) ListProjects(c *gin.Context) {
	projects, err := h.projects.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// GetProject handles GET /api/projects/:slug.
func (h *PortfolioHandler) GetProject(c *gin.Context) {
	project, err := h.projects.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// CreateProject handles POST /api/admin/projects.
func (h *PortfolioHandler) CreateProject(c *gin.Context) {
	var req model.UpsertProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	project, err := h.projects.Create(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

// UpdateProject handles PUT /api/admin/projects/:id.
func (h *PortfolioHandler) UpdateProject(c *gin.Context) {
	var req model.UpsertProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	project, err := h.projects.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// DeleteProject handles DELETE /api/admin/projects/:id.
func (h *PortfolioHandler) DeleteProject(c *gin.Context) {
	if err := h.projects.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListCertificates handles GET /api/certificates.
func (h *PortfolioHandler) ListCertificates(c *gin.Context) {
	certs, err := h.certs.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"certificates": certs})
}

// CreateCertificate handles POST /api/admin/certificates.
func (h *PortfolioHandler) CreateCertificate(c *gin.Context) {
	var req model.UpsertCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cert, err := h.certs.Create(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, cert)
}

// UpdateCertificate handles PUT /api/admin/certificates/:id.
func (h *PortfolioHandler) UpdateCertificate(c *gin.Context) {
	var req model.UpsertCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cert, err := h.certs.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cert)
}

// DeleteCertificate handles DELETE /api/admin/certificates/:id.
func (h *PortfolioHandler) DeleteCertificate(c *gin.Context) {
	if err := h.certs.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PortfolioHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, errs.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	h.logger.Error("portfolio request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
