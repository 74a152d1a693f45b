package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopdeskhq/shopdesk/internal/core/domain"
)

func (m *MySQLAdapter) GetByLogin(ctx context.Context, emailOrUsername string) (*domain.Admin, error) {
	var a domain.Admin
	err := m.db.QueryRowContext(ctx, `
		SELECT id, username, email, password, role
		FROM admin WHERE email = ? OR username = ? LIMIT 1`,
		emailOrUsername, emailOrUsername,
	).Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAdminNotFound
	}
	if err != nil {
		return nil, classify("query admin by login", err)
	}
	return &a, nil
}

func (m *MySQLAdapter) GetByID(ctx context.Context, adminID int64) (*domain.Admin, error) {
	var a domain.Admin
	err := m.db.QueryRowContext(ctx, `
		SELECT id, username, email, password, role
		FROM admin WHERE id = ?`,
		adminID,
	).Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAdminNotFound
	}
	if err != nil {
		return nil, classify("query admin by id", err)
	}
	return &a, nil
}

func (m *MySQLAdapter) ListAdmins(ctx context.Context) ([]domain.Admin, error) {
	rows, err := m.db.QueryContext(ctx,
		`SELECT id, username, email, password, role FROM admin`)
	if err != nil {
		return nil, classify("list admins", err)
	}
	defer rows.Close()

	var admins []domain.Admin
	for rows.Next() {
		var a domain.Admin
		if err := rows.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Role); err != nil {
			return nil, classify("scan admin", err)
		}
		admins = append(admins, a)
	}
	return admins, rows.Err()
}

func (m *MySQLAdapter) UsernameExists(ctx context.Context, username string, excludeID int64) (bool, error) {
	var exists bool
	err := m.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM admin WHERE username = ? AND id != ?)`,
		username, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, classify("check username", err)
	}
	return exists, nil
}

func (m *MySQLAdapter) UpdateUsername(ctx context.Context, adminID int64, username string) error {
	result, err := m.db.ExecContext(ctx,
		`UPDATE admin SET username = ? WHERE id = ?`, username, adminID)
	if err != nil {
		return classify("update username", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return domain.ErrAdminNotFound
	}
	return nil
}

func (m *MySQLAdapter) UpdatePassword(ctx context.Context, adminID int64, passwordHash string) error {
	result, err := m.db.ExecContext(ctx,
		`UPDATE admin SET password = ? WHERE id = ?`, passwordHash, adminID)
	if err != nil {
		return classify("update password", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return domain.ErrAdminNotFound
	}
	return nil
}

func (m *MySQLAdapter) CreateResetToken(ctx context.Context, adminID int64, token string, expiresAt time.Time) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO password_reset_tokens (admin_id, token, expires_at)
		VALUES (?, ?, ?)`,
		adminID, token, expiresAt,
	)
	if err != nil {
		return classify("create reset token", err)
	}
	return nil
}

// ConsumeResetToken burns the token inside one transaction so it cannot be
// replayed.
func (m *MySQLAdapter) ConsumeResetToken(ctx context.Context, token string) (int64, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, classify("begin token tx", err)
	}
	defer tx.Rollback()

	var (
		id      int64
		adminID int64
	)
	err = tx.QueryRowContext(ctx, `
		SELECT id, admin_id FROM password_reset_tokens
		WHERE token = ? AND expires_at > NOW() FOR UPDATE`,
		token,
	).Scan(&id, &adminID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrInvalidResetToken
	}
	if err != nil {
		return 0, classify("query reset token", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM password_reset_tokens WHERE id = ?`, id); err != nil {
		return 0, classify("delete reset token", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, classify("commit token consume", err)
	}
	return adminID, nil
}

func (m *MySQLAdapter) PurgeExpiredResetTokens(ctx context.Context) (int64, error) {
	result, err := m.db.ExecContext(ctx,
		`DELETE FROM password_reset_tokens WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, classify("purge reset tokens", err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}
