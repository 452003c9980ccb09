package model

import (
	"time"

	"gorm.io/datatypes"
)

// User is an account that can log in (GORM entity).
type User struct {
	ID           string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string    `gorm:"size:255;not null;uniqueIndex"`
	Name         string    `gorm:"size:120;not null"`
	PasswordHash string    `gorm:"size:128;not null"`
	Role         string    `gorm:"size:20;not null;default:visitor"` // visitor, admin
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string { return "users" }

// Project is a portfolio project document (GORM entity).
type Project struct {
	ID          string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Slug        string         `gorm:"size:140;not null;uniqueIndex"`
	Title       string         `gorm:"size:200;not null"`
	Description string         `gorm:"type:text"`
	Tech        datatypes.JSON `gorm:"column:tech"`
	LiveURL     string         `gorm:"size:500"`
	RepoURL     string         `gorm:"size:500"`
	Featured    bool           `gorm:"not null;default:false;index"`
	Views       int64          `gorm:"not null;default:0"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
}

func (Project) TableName() string { return "projects" }

// Certificate is an earned credential shown on the portfolio (GORM entity).
type Certificate struct {
	ID            string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title         string    `gorm:"size:200;not null"`
	Issuer        string    `gorm:"size:200;not null"`
	CredentialURL string    `gorm:"size:500"`
	IssuedAt      time.Time `gorm:"column:issued_at;not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (Certificate) TableName() string { return "certificates" }

// ContactMessage is a contact-form submission (GORM entity).
type ContactMessage struct {
	ID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"size:120;not null"`
	Email     string    `gorm:"size:255;not null"`
	Subject   string    `gorm:"size:200"`
	Body      string    `gorm:"type:text;not null"`
	SourceIP  string    `gorm:"size:45"`
	Read      bool      `gorm:"not null;default:false;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (ContactMessage) TableName() string { return "contact_messages" }

// Notification is a persisted fire-and-forget message; one row per target
// user so offline recipients can fetch it later (GORM entity).
type Notification struct {
	ID        string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    string         `gorm:"type:uuid;not null;index"`
	Kind      string         `gorm:"size:40;not null;default:info"`
	Title     string         `gorm:"size:200;not null"`
	Body      string         `gorm:"type:text"`
	Payload   datatypes.JSON `gorm:"column:payload"`
	Priority  int            `gorm:"not null;default:0"`
	ReadAt    *time.Time     `gorm:"column:read_at"`
	ExpiresAt *time.Time     `gorm:"column:expires_at"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

func (Notification) TableName() string { return "notifications" }
