package domain

import "time"

// Notification is one entry in an admin's append-only feed.
type Notification struct {
	ID        int64
	AdminID   int64
	Message   string
	IsRead    bool
	CreatedAt time.Time
}

// OutboxEvent is a pending notification staged in the same transaction as
// the write that produced it. A dispatcher turns events into notifications
// after commit, so a notification fault can never block the sale path.
type OutboxEvent struct {
	ID           string
	AdminID      int64
	Message      string
	CreatedAt    time.Time
	DispatchedAt *time.Time
}
