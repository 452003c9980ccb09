package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/luizFelippedev/portfolio-backend/internal/errs"
	"github.com/luizFelippedev/portfolio-backend/internal/model"
	"github.com/luizFelippedev/portfolio-backend/internal/realtime"
)

// Claims is the JWT payload: subject is the user id.
type Claims struct {
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Service issues and verifies HS256 tokens and checks login credentials
// against the users table. It implements realtime.TokenVerifier.
type Service struct {
	db     *gorm.DB
	secret []byte
	ttl    time.Duration
	log    *zap.Logger
}

// NewService creates the auth service.
func NewService(db *gorm.DB, secret string, ttl time.Duration, log *zap.Logger) *Service {
	return &Service{db: db, secret: []byte(secret), ttl: ttl, log: log.With(zap.String("component", "auth"))}
}

var _ realtime.TokenVerifier = (*Service)(nil)

// Login checks credentials and returns a signed token with the profile.
func (s *Service) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, errs.ErrInvalidLogin
		}
		return "", nil, err
	}
	if !checkPassword(user.PasswordHash, password) {
		return "", nil, errs.ErrInvalidLogin
	}
	token, err := s.Issue(&user)
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

// Issue signs a token for the user.
func (s *Service) Issue(u *model.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Name: u.Name,
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses and validates a token. Garbage and expired tokens come back
// as errs.ErrInvalidToken; this function never panics on attacker input.
func (s *Service) Verify(_ context.Context, tokenString string) (*realtime.Identity, error) {
	if tokenString == "" {
		return nil, errs.ErrInvalidToken
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errs.ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return nil, errs.ErrInvalidToken
	}
	return &realtime.Identity{UserID: claims.Subject, Name: claims.Name, Role: claims.Role}, nil
}

// HashPassword produces the stored form of a password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(stored, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}
