package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/luizFelippedev/portfolio-backend/internal/model"
	"github.com/luizFelippedev/portfolio-backend/internal/realtime"
)

const channelRealtime = "realtime"

// NotificationService persists notifications for offline retrieval and
// dispatches them on the real-time channel when requested. Other delivery
// channels (email, push) belong to external services and are ignored here.
type NotificationService struct {
	db  *gorm.DB
	hub *realtime.Hub
	log *zap.Logger
}

// NewNotificationService creates a notification service.
func NewNotificationService(db *gorm.DB, hub *realtime.Hub, log *zap.Logger) *NotificationService {
	return &NotificationService{db: db, hub: hub, log: log.With(zap.String("component", "notifications"))}
}

// Create stores one row per target user, then fans the notification out to
// each target's live connections if the realtime channel was requested.
// Delivery is at-most-once; offline users read the stored rows later.
func (s *NotificationService) Create(ctx context.Context, req *model.CreateNotificationRequest) ([]model.Notification, error) {
	kind := req.Kind
	if kind == "" {
		kind = "info"
	}
	var expiresAt *time.Time
	if req.ExpireIn > 0 {
		t := time.Now().Add(time.Duration(req.ExpireIn) * time.Second)
		expiresAt = &t
	}

	rows := make([]model.Notification, 0, len(req.UserIDs))
	for _, uid := range req.UserIDs {
		rows = append(rows, model.Notification{
			UserID:    uid,
			Kind:      kind,
			Title:     req.Title,
			Body:      req.Body,
			Payload:   []byte(req.Payload),
			Priority:  req.Priority,
			ExpiresAt: expiresAt,
		})
	}
	if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}

	if hasChannel(req.Channels, channelRealtime) {
		for _, row := range rows {
			delivered := s.hub.SendToUser(row.UserID, realtime.EventNotification, viewOf(&row))
			s.log.Debug("notification dispatched",
				zap.String("notification_id", row.ID),
				zap.String("user_id", row.UserID),
				zap.Int("connections", delivered))
		}
	}
	return rows, nil
}

// ListForUser returns a user's unexpired notifications, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID string) ([]model.Notification, error) {
	var rows []model.Notification
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// MarkRead stamps a notification as read for its owner.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	return s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read_at", time.Now()).Error
}

func viewOf(n *model.Notification) model.NotificationView {
	return model.NotificationView{
		ID:        n.ID,
		Kind:      n.Kind,
		Title:     n.Title,
		Body:      n.Body,
		Payload:   []byte(n.Payload),
		Priority:  n.Priority,
		CreatedAt: n.CreatedAt,
	}
}

func hasChannel(channels []string, want string) bool {
	if len(channels) == 0 {
		// No explicit channel list means realtime-only.
		return true
	}
	for _, c := range channels {
		if c == want {
			return true
		}
	}
	return false
}
