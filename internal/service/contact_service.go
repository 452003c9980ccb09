package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/luizFelippedev/portfolio-backend/internal/model"
	"github.com/luizFelippedev/portfolio-backend/internal/realtime"
)

// ContactService stores contact-form submissions and notifies connected
// admins about new ones in real time.
type ContactService struct {
	db  *gorm.DB
	hub *realtime.Hub
}

// NewContactService creates a contact service.
func NewContactService(db *gorm.DB, hub *realtime.Hub) *ContactService {
	return &ContactService{db: db, hub: hub}
}

// Submit persists the submission, then pushes a heads-up to the admins
// room. Real-time delivery is best-effort; the stored row is the record.
func (s *ContactService) Submit(ctx context.Context, req *model.CreateContactRequest, sourceIP string) (*model.ContactMessage, error) {
	msg := &model.ContactMessage{
		Name:     req.Name,
		Email:    req.Email,
		Subject:  req.Subject,
		Body:     req.Body,
		SourceIP: sourceIP,
	}
	if err := s.db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, err
	}
	s.hub.SendToRoom(realtime.RoomAdmins, realtime.EventNotification, map[string]any{
		"id":    msg.ID,
		"kind":  "contact",
		"title": "New contact message",
		"body":  msg.Subject,
	})
	return msg, nil
}

// List returns submissions, newest first.
func (s *ContactService) List(ctx context.Context) ([]model.ContactMessage, error) {
	var msgs []model.ContactMessage
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&msgs).Error
	return msgs, err
}

// MarkRead flags a submission as handled.
func (s *ContactService) MarkRead(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Model(&model.ContactMessage{}).
		Where("id = ?", id).Update("read", true).Error
}
