package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopdeskhq/shopdesk/internal/core/domain"
	"github.com/shopdeskhq/shopdesk/internal/port"
)

const (
	bcryptCost    = 10
	resetTokenTTL = time.Hour
)

// Claims is the JWT payload attached to every authenticated request.
type Claims struct {
	AdminID  int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// LoginResult is what a successful login returns to the client.
type LoginResult struct {
	Token string
	Admin *domain.Admin
}

// AuthService issues bearer identity. It attributes notifications and audit
// only; it takes no part in the inventory invariants.
type AuthService struct {
	admins        port.AdminRepository
	notifications port.NotificationRepository
	logger        *zap.Logger
	secret        []byte
	tokenTTL      time.Duration
}

func NewAuthService(
	admins port.AdminRepository,
	notifications port.NotificationRepository,
	logger *zap.Logger,
	secret string,
	tokenTTL time.Duration,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		admins:        admins,
		notifications: notifications,
		logger:        logger,
		secret:        []byte(secret),
		tokenTTL:      tokenTTL,
	}
}

// Login verifies credentials by email or username and returns a signed token.
func (s *AuthService) Login(ctx context.Context, emailOrUsername, password string) (*LoginResult, error) {
	if emailOrUsername == "" || password == "" {
		return nil, domain.NewValidationError("credentials", "email and password are required")
	}

	admin, err := s.admins.GetByLogin(ctx, emailOrUsername)
	if errors.Is(err, domain.ErrAdminNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		AdminID:  admin.ID,
		Username: admin.Username,
		Role:     admin.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &LoginResult{Token: signed, Admin: admin}, nil
}

// ParseToken validates a bearer token and returns its claims.
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

func (s *AuthService) Account(ctx context.Context, adminID int64) (*domain.Admin, error) {
	return s.admins.GetByID(ctx, adminID)
}

// UpdateUsername renames the admin and appends a notification.
func (s *AuthService) UpdateUsername(ctx context.Context, adminID int64, username string) error {
	if strings.TrimSpace(username) == "" {
		return domain.NewValidationError("username", "must not be empty")
	}

	taken, err := s.admins.UsernameExists(ctx, username, adminID)
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrUsernameTaken
	}

	if err := s.admins.UpdateUsername(ctx, adminID, username); err != nil {
		return err
	}

	message := fmt.Sprintf("👤 Username updated to %q", username)
	if err := s.notifications.Append(ctx, adminID, message); err != nil {
		s.logger.Warn("failed to append username notification",
			zap.Int64("admin_id", adminID), zap.Error(err))
	}
	return nil
}

// ChangePassword verifies the current password before swapping the hash.
func (s *AuthService) ChangePassword(ctx context.Context, adminID int64, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return domain.NewValidationError("password", "current and new passwords are required")
	}

	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(currentPassword)) != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.admins.UpdatePassword(ctx, adminID, string(hash)); err != nil {
		return err
	}

	if err := s.notifications.Append(ctx, adminID, "🔐 Password changed successfully"); err != nil {
		s.logger.Warn("failed to append password notification",
			zap.Int64("admin_id", adminID), zap.Error(err))
	}
	return nil
}

// ForgotPassword stores a single-use reset token for the admin. Delivering
// the token to the user is out of scope; unknown logins are not revealed.
func (s *AuthService) ForgotPassword(ctx context.Context, emailOrUsername string) error {
	admin, err := s.admins.GetByLogin(ctx, emailOrUsername)
	if errors.Is(err, domain.ErrAdminNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	token := hex.EncodeToString(buf)

	if err := s.admins.CreateResetToken(ctx, admin.ID, token, time.Now().Add(resetTokenTTL)); err != nil {
		return err
	}
	s.logger.Info("password reset token issued", zap.Int64("admin_id", admin.ID))
	return nil
}

// ResetPassword burns a live token and sets the new password.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return domain.NewValidationError("reset", "token and new password are required")
	}

	adminID, err := s.admins.ConsumeResetToken(ctx, token)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.admins.UpdatePassword(ctx, adminID, string(hash))
}
