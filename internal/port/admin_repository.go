package port

import (
	"context"
	"time"

	"github.com/shopdeskhq/shopdesk/internal/core/domain"
)

// AdminRepository stores dashboard users and reset tokens.
type AdminRepository interface {
	// GetByLogin finds an admin by email or username, or domain.ErrAdminNotFound.
	GetByLogin(ctx context.Context, emailOrUsername string) (*domain.Admin, error)

	// GetByID finds an admin, or domain.ErrAdminNotFound.
	GetByID(ctx context.Context, adminID int64) (*domain.Admin, error)

	// ListAdmins returns every admin.
	ListAdmins(ctx context.Context) ([]domain.Admin, error)

	// UsernameExists reports whether another admin already owns the username.
	UsernameExists(ctx context.Context, username string, excludeID int64) (bool, error)

	// UpdateUsername renames an admin.
	UpdateUsername(ctx context.Context, adminID int64, username string) error

	// UpdatePassword swaps the stored bcrypt hash.
	UpdatePassword(ctx context.Context, adminID int64, passwordHash string) error

	// CreateResetToken stores a single-use password reset token.
	CreateResetToken(ctx context.Context, adminID int64, token string, expiresAt time.Time) error

	// ConsumeResetToken returns the admin owning a live token and deletes it,
	// or domain.ErrInvalidResetToken.
	ConsumeResetToken(ctx context.Context, token string) (int64, error)

	// PurgeExpiredResetTokens deletes dead tokens, returning how many.
	PurgeExpiredResetTokens(ctx context.Context) (int64, error)
}
