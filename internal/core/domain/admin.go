package domain

import "time"

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

// Admin is a dashboard user. PasswordHash is a bcrypt digest.
type Admin struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         string
}

// Customer is a read-model row; the dashboard never mutates customers here.
type Customer struct {
	ID       int64
	Name     string
	Email    string
	Location string
	JoinDate time.Time
}

// PasswordResetToken is a single-use credential for the reset flow.
type PasswordResetToken struct {
	ID        int64
	AdminID   int64
	Token     string
	ExpiresAt time.Time
}
