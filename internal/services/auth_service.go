package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ArowuTest/scratchcard-backend/internal/models"
	"github.com/ArowuTest/scratchcard-backend/internal/repositories"
	"github.com/ArowuTest/scratchcard-backend/pkg/jwt"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// LoginResponse defines the structure for login responses
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Username  string    `json:"username"`
}

// AuthService handles admin authentication
type AuthService struct {
	admins repositories.AdminUserRepository
	tokens *jwt.AdminTokenService
	log    logrus.FieldLogger
}

// NewAuthService creates a new AuthService
func NewAuthService(admins repositories.AdminUserRepository, tokens *jwt.AdminTokenService, log logrus.FieldLogger) *AuthService {
	return &AuthService{admins: admins, tokens: tokens, log: log}
}

// EnsureDefaultAdmin creates the given admin account when no admin exists yet
func (s *AuthService) EnsureDefaultAdmin(ctx context.Context, username, password string) error {
	_, err := s.admins.FindFirst(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to look up admin users: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.admins.Create(ctx, &models.AdminUser{Username: username, Password: string(hash)})
	if errors.Is(err, repositories.ErrDuplicate) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create default admin: %w", err)
	}
	s.log.WithField("username", username).Warn("default admin account created, change its password")
	return nil
}

// Login checks admin credentials and issues a session token
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*LoginResponse, error) {
	invalid := NewError(ErrUnauthorized, "Invalid username or password", nil)

	admin, err := s.admins.FindByUsername(ctx, req.Username)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find admin user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		s.log.WithField("username", req.Username).Warn("failed admin login")
		return nil, invalid
	}

	token, expiresAt, err := s.tokens.Issue(admin.ID.Hex(), admin.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &LoginResponse{Token: token, ExpiresAt: expiresAt, Username: admin.Username}, nil
}

// UpdateCredentials replaces the username and password of the signed-in
// admin. adminID is the token subject, which survives a rename.
func (s *AuthService) UpdateCredentials(ctx context.Context, adminID string, req models.CredentialsRequest) error {
	id, err := primitive.ObjectIDFromHex(adminID)
	if err != nil {
		return NewError(ErrUnauthorized, "Invalid admin session", err)
	}

	admin, err := s.admins.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return NewError(ErrNotFound, "Admin user not found", nil)
	}
	if err != nil {
		return fmt.Errorf("failed to find admin user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	admin.Username = req.Username
	admin.Password = string(hash)

	err = s.admins.Update(ctx, admin)
	if errors.Is(err, repositories.ErrDuplicate) {
		return NewError(ErrInvalidInput, "Username is already taken", nil)
	}
	if err != nil {
		return fmt.Errorf("failed to update credentials: %w", err)
	}
	s.log.WithField("username", admin.Username).Info("admin credentials updated")
	return nil
}
