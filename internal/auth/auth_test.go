package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"fintrack/internal/core"
)

// memUsers is a minimal in-memory store.UserStore for tests.
type memUsers struct {
	users map[string]core.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[string]core.User)}
}

func (m *memUsers) CreateUser(_ context.Context, u core.User) error {
	if _, ok := m.users[u.Username]; ok {
		return core.ErrDuplicateUser
	}
	m.users[u.Username] = u
	return nil
}

func (m *memUsers) GetUser(_ context.Context, username string) (core.User, error) {
	u, ok := m.users[username]
	if !ok {
		return core.User{}, core.ErrUnknownUser
	}
	return u, nil
}

func TestSignUpThenLogIn(t *testing.T) {
	svc := NewService(newMemUsers(), bcrypt.MinCost)
	ctx := context.Background()

	if err := svc.SignUp(ctx, "alice", "s3cret-pw"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	got, err := svc.LogIn(ctx, "alice", "s3cret-pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got != "alice" {
		t.Fatalf("unexpected identity %q", got)
	}
}

func TestLogInWrongPassword(t *testing.T) {
	svc := NewService(newMemUsers(), bcrypt.MinCost)
	ctx := context.Background()

	if err := svc.SignUp(ctx, "alice", "s3cret-pw"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, err := svc.LogIn(ctx, "alice", "wrong"); !errors.Is(err, core.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogInUnknownUser(t *testing.T) {
	svc := NewService(newMemUsers(), bcrypt.MinCost)
	if _, err := svc.LogIn(context.Background(), "nobody", "whatever"); !errors.Is(err, core.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSignUpDuplicate(t *testing.T) {
	svc := NewService(newMemUsers(), bcrypt.MinCost)
	ctx := context.Background()

	if err := svc.SignUp(ctx, "alice", "s3cret-pw"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if err := svc.SignUp(ctx, "alice", "another-pw"); !errors.Is(err, core.ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}
}

func TestSignUpRejectsBadInput(t *testing.T) {
	svc := NewService(newMemUsers(), bcrypt.MinCost)
	ctx := context.Background()

	if err := svc.SignUp(ctx, "", "s3cret-pw"); !errors.Is(err, core.ErrInvalidUsername) {
		t.Fatalf("expected ErrInvalidUsername, got %v", err)
	}
	if err := svc.SignUp(ctx, "alice", "short"); !errors.Is(err, core.ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	sessions := NewSessions("test-secret", time.Hour)

	token, err := sessions.Issue("alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	got, err := sessions.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got != "alice" {
		t.Fatalf("identity mismatch: %q", got)
	}
}

func TestSessionRejectsTampered(t *testing.T) {
	sessions := NewSessions("test-secret", time.Hour)
	other := NewSessions("other-secret", time.Hour)

	token, err := other.Issue("alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := sessions.Verify(token); err == nil {
		t.Fatalf("expected verification failure for foreign signature")
	}
}

func TestSessionCookieRoundTrip(t *testing.T) {
	sessions := NewSessions("test-secret", time.Hour)

	token, err := sessions.Issue("alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	rr := httptest.NewRecorder()
	sessions.SetCookie(rr, token)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}

	// FromRequest hands back the raw token, Verify resolves the identity.
	raw := sessions.FromRequest(req)
	if raw != token {
		t.Fatalf("cookie token mismatch: %q", raw)
	}
	got, err := sessions.Verify(raw)
	if err != nil {
		t.Fatalf("verify cookie token: %v", err)
	}
	if got != "alice" {
		t.Fatalf("identity mismatch: %q", got)
	}
}

func TestUserContext(t *testing.T) {
	ctx := WithUser(context.Background(), "alice")
	got, ok := UserFrom(ctx)
	if !ok || got != "alice" {
		t.Fatalf("context round-trip failed: %q %v", got, ok)
	}
	if _, ok := UserFrom(context.Background()); ok {
		t.Fatalf("empty context should carry no user")
	}
}
