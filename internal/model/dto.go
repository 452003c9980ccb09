package model

import (
	"encoding/json"
	"time"
)

// LoginRequest is the body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token and the sanitized profile.
type LoginResponse struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

// UserProfile is the sanitized API view of a user.
type UserProfile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// ProfileOf strips credential fields from a user entity.
func ProfileOf(u *User) UserProfile {
	return UserProfile{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

// UpsertProjectRequest is the body for creating or updating a project.
type UpsertProjectRequest struct {
	Slug        string   `json:"slug" binding:"required"`
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Tech        []string `json:"tech"`
	LiveURL     string   `json:"live_url"`
	RepoURL     string   `json:"repo_url"`
	Featured    bool     `json:"featured"`
}

// UpsertCertificateRequest is the body for creating or updating a certificate.
type UpsertCertificateRequest struct {
	Title         string    `json:"title" binding:"required"`
	Issuer        string    `json:"issuer" binding:"required"`
	CredentialURL string    `json:"credential_url"`
	IssuedAt      time.Time `json:"issued_at" binding:"required"`
}

// CreateContactRequest is the body for POST /api/contacts.
type CreateContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject"`
	Body    string `json:"body" binding:"required"`
}

// CreateNotificationRequest is the body for POST /api/admin/notifications.
// Channels besides "realtime" are accepted and ignored here; their dispatch
// belongs to other services.
type CreateNotificationRequest struct {
	Kind     string          `json:"kind"`
	Title    string          `json:"title" binding:"required"`
	Body     string          `json:"body"`
	Payload  json.RawMessage `json:"payload"`
	UserIDs  []string        `json:"user_ids" binding:"required,min=1"`
	Channels []string        `json:"channels"`
	Priority int             `json:"priority"`
	ExpireIn int             `json:"expire_in_seconds"`
}

// NotificationView is the API and real-time view of a notification.
type NotificationView struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Title     string          `json:"title"`
	Body      string          `json:"body"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Priority  int             `json:"priority"`
	CreatedAt time.Time       `json:"created_at"`
}
