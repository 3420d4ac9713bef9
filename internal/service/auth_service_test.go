package service

import (
	"context"
	"testing"

	"github.com/customer-care/ticket-api/internal/auth"
	"github.com/customer-care/ticket-api/internal/config"
	"github.com/customer-care/ticket-api/internal/repository"
	apperrors "github.com/customer-care/ticket-api/pkg/util/errorutil"
)

func newAuthService(t *testing.T) (*AuthService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	cfg := config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 5, BcryptCost: 4}
	return NewAuthService(cfg, AuthDependencies{
		UserRepo:    store.Users(),
		Revocations: auth.NewMemoryRevocationStore(),
	}), store
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "Ada@Example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if registered.User.IsAdmin {
		t.Fatalf("new accounts must not be admins")
	}
	if registered.User.Email != "ada@example.com" {
		t.Fatalf("email should be normalized, got %q", registered.User.Email)
	}
	if registered.User.PasswordHash == "correct-horse" || registered.AccessToken == "" {
		t.Fatalf("unexpected register result %+v", registered)
	}

	claims, err := svc.TokenManager().ParseToken(registered.AccessToken)
	if err != nil || claims.Subject != registered.User.ID {
		t.Fatalf("issued token does not parse: %v", err)
	}

	loggedIn, err := svc.Login(ctx, "ada@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if loggedIn.User.ID != registered.User.ID {
		t.Fatalf("logged in as wrong user")
	}

	_, err = svc.Login(ctx, "ada@example.com", "wrong-password")
	assertKind(t, err, apperrors.ErrUnauthorized)
	_, err = svc.Login(ctx, "nobody@example.com", "correct-horse")
	assertKind(t, err, apperrors.ErrUnauthorized)
}

func TestRegisterRejects(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "correct-horse"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Register(ctx, RegisterInput{Name: "Other", Email: "ADA@example.com", Password: "correct-horse"})
	assertKind(t, err, apperrors.ErrConflict)

	invalid := []RegisterInput{
		{Email: "x@example.com", Password: "correct-horse"},
		{Name: "x", Email: "not-an-email", Password: "correct-horse"},
		{Name: "x", Email: "x@example.com", Password: "short"},
	}
	for _, input := range invalid {
		_, err := svc.Register(ctx, input)
		assertKind(t, err, apperrors.ErrValidation)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	result, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	claims, err := svc.TokenManager().ParseToken(result.AccessToken)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if err := svc.Logout(ctx, claims); err != nil {
		t.Fatalf("logout: %v", err)
	}
	revoked, err := svc.Revocations().IsRevoked(ctx, claims.ID)
	if err != nil || !revoked {
		t.Fatalf("token should be revoked, got %v %v", revoked, err)
	}

	assertKind(t, svc.Logout(ctx, nil), apperrors.ErrUnauthorized)
}

func TestCurrentUser(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	result, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := svc.CurrentUser(ctx, result.User.Principal())
	if err != nil || user.Email != "ada@example.com" {
		t.Fatalf("current user: %v %+v", err, user)
	}
	_, err = svc.CurrentUser(ctx, userTwo)
	assertKind(t, err, apperrors.ErrUnauthorized)
}

func TestEnsureAdmin(t *testing.T) {
	svc, store := newAuthService(t)
	ctx := context.Background()

	created, err := svc.EnsureAdmin(ctx, "root@example.com", "s3cret-pass")
	if err != nil || !created {
		t.Fatalf("ensure admin: %v %v", created, err)
	}
	created, err = svc.EnsureAdmin(ctx, "ROOT@example.com", "other")
	if err != nil || created {
		t.Fatalf("second call should be a no-op: %v %v", created, err)
	}
	user, err := store.Users().GetByEmail(ctx, "root@example.com")
	if err != nil || !user.IsAdmin {
		t.Fatalf("expected stored admin, got %+v %v", user, err)
	}
	if _, err := svc.Login(ctx, "root@example.com", "s3cret-pass"); err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if created, _ := svc.EnsureAdmin(ctx, "", ""); created {
		t.Fatalf("empty settings must not create an account")
	}
}
