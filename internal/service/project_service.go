package service

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"github.com/luizFelippedev/portfolio-backend/internal/errs"
	"github.com/luizFelippedev/portfolio-backend/internal/model"
)

// ProjectService manages portfolio project documents.
type ProjectService struct {
	db *gorm.DB
}

// NewProjectService creates a project service.
func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

// List returns all projects, featured first, newest first within each group.
func (s *ProjectService) List(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	err := s.db.WithContext(ctx).
		Order("featured DESC, created_at DESC").
		Find(&projects).Error
	return projects, err
}

// GetBySlug returns one project and bumps its view counter.
func (s *ProjectService) GetBySlug(ctx context.Context, slug string) (*model.Project, error) {
	var project model.Project
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	// Last write wins on the counter; a lost increment is acceptable here.
	_ = s.db.WithContext(ctx).Model(&project).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
	return &project, nil
}

// Create inserts a new project.
func (s *ProjectService) Create(ctx context.Context, req *model.UpsertProjectRequest) (*model.Project, error) {
	project := &model.Project{
		Slug:        req.Slug,
		Title:       req.Title,
		Description: req.Description,
		Tech:        marshalTech(req.Tech),
		LiveURL:     req.LiveURL,
		RepoURL:     req.RepoURL,
		Featured:    req.Featured,
	}
	if err := s.db.WithContext(ctx).Create(project).Error; err != nil {
		return nil, err
	}
	return project, nil
}

// Update replaces the mutable fields of a project.
func (s *ProjectService) Update(ctx context.Context, id string, req *model.UpsertProjectRequest) (*model.Project, error) {
	var project model.Project
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	updates := map[string]any{
		"slug":        req.Slug,
		"title":       req.Title,
		"description": req.Description,
		"tech":        marshalTech(req.Tech),
		"live_url":    req.LiveURL,
		"repo_url":    req.RepoURL,
		"featured":    req.Featured,
	}
	if err := s.db.WithContext(ctx).Model(&project).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Delete removes a project by id.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Project{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func marshalTech(tech []string) []byte {
	if tech == nil {
		tech = []string{}
	}
	b, _ := json.Marshal(tech)
	return b
}
