package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/shopdeskhq/shopdesk/internal/core/domain"
)

const testSecret = "test-secret"

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(hash)
}

func TestLogin_IssuesParsableToken(t *testing.T) {
	admins := newMockAdminRepo()
	admins.addAdmin("alice", "alice@example.com", hashFor(t, "s3cret"), domain.RoleAdmin)
	svc := NewAuthService(admins, newMockNotificationRepo(), nil, testSecret, time.Hour)

	result, err := svc.Login(context.Background(), "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected a signed token")
	}

	claims, err := svc.ParseToken(result.Token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.AdminID != 1 || claims.Username != "alice" || claims.Role != domain.RoleAdmin {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestLogin_ByUsername(t *testing.T) {
	admins := newMockAdminRepo()
	admins.addAdmin("alice", "alice@example.com", hashFor(t, "s3cret"), domain.RoleAdmin)
	svc := NewAuthService(admins, newMockNotificationRepo(), nil, testSecret, time.Hour)

	if _, err := svc.Login(context.Background(), "alice", "s3cret"); err != nil {
		t.Fatalf("Login by username failed: %v", err)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	admins := newMockAdminRepo()
	admins.addAdmin("alice", "alice@example.com", hashFor(t, "s3cret"), domain.RoleAdmin)
	svc := NewAuthService(admins, newMockNotificationRepo(), nil, testSecret, time.Hour)

	if _, err := svc.Login(context.Background(), "alice", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "nobody", "s3cret"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("unknown login: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	admins := newMockAdminRepo()
	admins.addAdmin("alice", "alice@example.com", hashFor(t, "s3cret"), domain.RoleAdmin)
	issuer := NewAuthService(admins, newMockNotificationRepo(), nil, testSecret, time.Hour)
	verifier := NewAuthService(admins, newMockNotificationRepo(), nil, "other-secret", time.Hour)

	result, err := issuer.Login(context.Background(), "alice", "s3cret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if _, err := verifier.ParseToken(result.Token); err == nil {
		t.Error("expected token signed with a different secret to be rejected")
	}
}

func TestUpdateUsername(t *testing.T) {
	admins := newMockAdminRepo()
	aliceID := admins.addAdmin("alice", "alice@example.com", hashFor(t, "x"), domain.RoleAdmin)
	admins.addAdmin("bob", "bob@example.com", hashFor(t, "x"), domain.RoleManager)
	notifications := newMockNotificationRepo()
	svc := NewAuthService(admins, notifications, nil, testSecret, time.Hour)

	if err := svc.UpdateUsername(context.Background(), aliceID, "bob"); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}

	if err := svc.UpdateUsername(context.Background(), aliceID, "alice2"); err != nil {
		t.Fatalf("UpdateUsername failed: %v", err)
	}
	admin, err := admins.GetByID(context.Background(), aliceID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if admin.Username != "alice2" {
		t.Errorf("expected username alice2, got %s", admin.Username)
	}

	list, _ := notifications.List(context.Background(), aliceID)
	if len(list) != 1 {
		t.Fatalf("expected one notification, got %d", len(list))
	}
}

func TestChangePassword(t *testing.T) {
	admins := newMockAdminRepo()
	id := admins.addAdmin("alice", "alice@example.com", hashFor(t, "old-pass"), domain.RoleAdmin)
	svc := NewAuthService(admins, newMockNotificationRepo(), nil, testSecret, time.Hour)

	if err := svc.ChangePassword(context.Background(), id, "wrong", "new-pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}

	if err := svc.ChangePassword(context.Background(), id, "old-pass", "new-pass"); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}
	if _, err := svc.Login(context.Background(), "alice", "new-pass"); err != nil {
		t.Errorf("login with new password failed: %v", err)
	}
	if _, err := svc.Login(context.Background(), "alice", "old-pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("old password must no longer work, got %v", err)
	}
}

func TestPasswordReset_RoundTrip(t *testing.T) {
	admins := newMockAdminRepo()
	admins.addAdmin("alice", "alice@example.com", hashFor(t, "old-pass"), domain.RoleAdmin)
	svc := NewAuthService(admins, newMockNotificationRepo(), nil, testSecret, time.Hour)

	if err := svc.ForgotPassword(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("ForgotPassword failed: %v", err)
	}
	token := admins.lastToken()
	if token == "" {
		t.Fatal("expected a reset token to be stored")
	}

	if err := svc.ResetPassword(context.Background(), token, "fresh-pass"); err != nil {
		t.Fatalf("ResetPassword failed: %v", err)
	}
	if _, err := svc.Login(context.Background(), "alice", "fresh-pass"); err != nil {
		t.Errorf("login with reset password failed: %v", err)
	}

	// Tokens are single use.
	if err := svc.ResetPassword(context.Background(), token, "another"); !errors.Is(err, domain.ErrInvalidResetToken) {
		t.Errorf("expected ErrInvalidResetToken for reused token, got %v", err)
	}
}

func TestForgotPassword_UnknownLoginIsSilent(t *testing.T) {
	admins := newMockAdminRepo()
	svc := NewAuthService(admins, newMockNotificationRepo(), nil, testSecret, time.Hour)

	if err := svc.ForgotPassword(context.Background(), "nobody@example.com"); err != nil {
		t.Fatalf("expected silence for unknown login, got %v", err)
	}
	if admins.lastToken() != "" {
		t.Error("no token should be stored for unknown logins")
	}
}

func TestResetPassword_ExpiredToken(t *testing.T) {
	admins := newMockAdminRepo()
	id := admins.addAdmin("alice", "alice@example.com", hashFor(t, "x"), domain.RoleAdmin)
	if err := admins.CreateResetToken(context.Background(), id, "stale-token", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("CreateResetToken failed: %v", err)
	}
	svc := NewAuthService(admins, newMockNotificationRepo(), nil, testSecret, time.Hour)

	if err := svc.ResetPassword(context.Background(), "stale-token", "new"); !errors.Is(err, domain.ErrInvalidResetToken) {
		t.Errorf("expected ErrInvalidResetToken for expired token, got %v", err)
	}
}
