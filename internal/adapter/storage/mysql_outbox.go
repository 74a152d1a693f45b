package storage

import (
	"context"

	"github.com/shopdeskhq/shopdesk/internal/core/domain"
)

func (m *MySQLAdapter) Append(ctx context.Context, adminID int64, message string) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO notifications (admin_id, message, created_at)
		VALUES (?, ?, NOW())`,
		adminID, message,
	)
	if err != nil {
		return classify("insert notification", err)
	}
	return nil
}

func (m *MySQLAdapter) List(ctx context.Context, adminID int64) ([]domain.Notification, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, admin_id, message, is_read, created_at
		FROM notifications WHERE admin_id = ?
		ORDER BY created_at DESC, id DESC`,
		adminID,
	)
	if err != nil {
		return nil, classify("list notifications", err)
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.AdminID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, classify("scan notification", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkRead is owner-scoped and idempotent: touching a read or foreign
// notification affects zero rows and succeeds.
func (m *MySQLAdapter) MarkRead(ctx context.Context, notificationID, adminID int64) error {
	_, err := m.db.ExecContext(ctx, `
		UPDATE notifications SET is_read = 1
		WHERE id = ? AND admin_id = ?`,
		notificationID, adminID,
	)
	if err != nil {
		return classify("mark notification read", err)
	}
	return nil
}

func (m *MySQLAdapter) MarkAllRead(ctx context.Context, adminID int64) error {
	_, err := m.db.ExecContext(ctx, `
		UPDATE notifications SET is_read = 1
		WHERE admin_id = ? AND is_read = 0`,
		adminID,
	)
	if err != nil {
		return classify("mark all notifications read", err)
	}
	return nil
}

func (m *MySQLAdapter) PendingEvents(ctx context.Context, limit int) ([]domain.OutboxEvent, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, admin_id, message, created_at
		FROM outbox_events WHERE dispatched_at IS NULL
		ORDER BY created_at ASC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, classify("list pending events", err)
	}
	defer rows.Close()

	var events []domain.OutboxEvent
	for rows.Next() {
		var e domain.OutboxEvent
		if err := rows.Scan(&e.ID, &e.AdminID, &e.Message, &e.CreatedAt); err != nil {
			return nil, classify("scan outbox event", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Dispatch inserts the notification and stamps the event in one transaction.
// A crash between insert and commit redelivers the event on the next poll,
// so delivery is at-least-once.
func (m *MySQLAdapter) Dispatch(ctx context.Context, event domain.OutboxEvent) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return classify("begin dispatch tx", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO notifications (admin_id, message, created_at)
		VALUES (?, ?, ?)`,
		event.AdminID, event.Message, event.CreatedAt,
	)
	if err != nil {
		return classify("insert notification from event", err)
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE outbox_events SET dispatched_at = NOW()
		WHERE id = ? AND dispatched_at IS NULL`,
		event.ID,
	)
	if err != nil {
		return classify("stamp outbox event", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		// Another dispatcher already handled it; drop our insert.
		return nil
	}

	if err := tx.Commit(); err != nil {
		return classify("commit dispatch", err)
	}
	return nil
}
