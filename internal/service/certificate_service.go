package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/luizFelippedev/portfolio-backend/internal/errs"
	"github.com/luizFelippedev/portfolio-backend/internal/model"
)

// CertificateService manages certificate documents.
type CertificateService struct {
	db *gorm.DB
}

// NewCertificateService creates a certificate service.
func NewCertificateService(db *gorm.DB) *CertificateService {
	return &CertificateService{db: db}
}

// List returns all certificates, most recently issued first.
func (s *CertificateService) List(ctx context.Context) ([]model.Certificate, error) {
	var certs []model.Certificate
	err := s.db.WithContext(ctx).Order("issued_at DESC").Find(&certs).Error
	return certs, err
}

// Create inserts a certificate.
func (s *CertificateService) Create(ctx context.Context, req *model.UpsertCertificateRequest) (*model.Certificate, error) {
	cert := &model.Certificate{
		Title:         req.Title,
		Issuer:        req.Issuer,
		CredentialURL: req.CredentialURL,
		IssuedAt:      req.IssuedAt,
	}
	if err := s.db.WithContext(ctx).Create(cert).Error; err != nil {
		return nil, err
	}
	return cert, nil
}

// Update replaces the mutable fields of a certificate.
func (s *CertificateService) Update(ctx context.Context, id string, req *model.UpsertCertificateRequest) (*model.Certificate, error) {
	var cert model.Certificate
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&cert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	updates := map[string]any{
		"title":          req.Title,
		"issuer":         req.Issuer,
		"credential_url": req.CredentialURL,
		"issued_at":      req.IssuedAt,
	}
	if err := s.db.WithContext(ctx).Model(&cert).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &cert, nil
}

// Delete removes a certificate by id.
func (s *CertificateService) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Certificate{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}
