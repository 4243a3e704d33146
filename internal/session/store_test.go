package session

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/matricula-cloud/matricula-service/internal/models"
	"github.com/matricula-cloud/matricula-service/internal/repositories"
)

// fakeAuthProvider scripts provider behavior per test
type fakeAuthProvider struct {
	signInSession  *repositories.Session
	signInErr      error
	signOutErr     error
	signOutCalled  bool
	sessionByToken map[string]*repositories.Session
}

func (f *fakeAuthProvider) SignIn(ctx context.Context, email, password string) (*repositories.Session, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return f.signInSession, nil
}

func (f *fakeAuthProvider) SignOut(ctx context.Context, token string) error {
	f.signOutCalled = true
	return f.signOutErr
}

func (f *fakeAuthProvider) GetSession(ctx context.Context, token string) (*repositories.Session, error) {
	if sess, ok := f.sessionByToken[token]; ok {
		return sess, nil
	}
	return nil, nil
}

func newTestStore(t *testing.T, auth *fakeAuthProvider) (*Store, *TokenStore) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	tokens := NewTokenStore(client, "session:token")
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewStore(auth, tokens, logger), tokens
}

func testUser() *models.User {
	return &models.User{ID: "u-1", FullName: "Maria Quispe", Email: "maria@example.com", Role: models.RoleSecretary}
}

func TestStore_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success transitions to authenticated and persists token", func(t *testing.T) {
		auth := &fakeAuthProvider{
			signInSession: &repositories.Session{User: testUser(), AccessToken: "tok-123"},
		}
		store, tokens := newTestStore(t, auth)

		result := store.Login(ctx, "maria@example.com", "secret")

		if !result.Success {
			t.Fatalf("expected success, got failure: %s", result.Message)
		}
		if store.State() != StateAuthenticated {
			t.Errorf("expected state %s, got %s", StateAuthenticated, store.State())
		}
		if store.User() == nil || store.User().ID != "u-1" {
			t.Errorf("expected user u-1, got %+v", store.User())
		}
		persisted, err := tokens.Load(ctx)
		if err != nil {
			t.Fatalf("failed to load token: %v", err)
		}
		if persisted != "tok-123" {
			t.Errorf("expected persisted token tok-123, got %q", persisted)
		}
	})

	t.Run("failure becomes a result value, never an error", func(t *testing.T) {
		auth := &fakeAuthProvider{signInErr: errors.New("invalid credentials")}
		store, tokens := newTestStore(t, auth)

		result := store.Login(ctx, "maria@example.com", "wrong")

		if result.Success {
			t.Fatal("expected failed result")
		}
		if result.Message != "invalid credentials" {
			t.Errorf("expected failure message to carry provider error, got %q", result.Message)
		}
		if store.State() != StateAuthError {
			t.Errorf("expected state %s, got %s", StateAuthError, store.State())
		}
		if store.LastError() != "invalid credentials" {
			t.Errorf("expected last error recorded, got %q", store.LastError())
		}
		persisted, _ := tokens.Load(ctx)
		if persisted != "" {
			t.Errorf("expected no persisted token, got %q", persisted)
		}
	})

	t.Run("auth error does not block a later successful login", func(t *testing.T) {
		auth := &fakeAuthProvider{signInErr: errors.New("invalid credentials")}
		store, _ := newTestStore(t, auth)

		store.Login(ctx, "maria@example.com", "wrong")

		auth.signInErr = nil
		auth.signInSession = &repositories.Session{User: testUser(), AccessToken: "tok-2"}
		result := store.Login(ctx, "maria@example.com", "right")

		if !result.Success {
			t.Fatalf("expected retry to succeed: %s", result.Message)
		}
		if store.State() != StateAuthenticated {
			t.Errorf("expected state %s, got %s", StateAuthenticated, store.State())
		}
	})
}

func TestStore_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("clears state and persisted token", func(t *testing.T) {
		auth := &fakeAuthProvider{
			signInSession: &repositories.Session{User: testUser(), AccessToken: "tok-123"},
		}
		store, tokens := newTestStore(t, auth)
		store.Login(ctx, "maria@example.com", "secret")

		store.Logout(ctx)

		if store.State() != StateAnonymous {
			t.Errorf("expected state %s, got %s", StateAnonymous, store.State())
		}
		if store.User() != nil {
			t.Error("expected user cleared")
		}
		persisted, _ := tokens.Load(ctx)
		if persisted != "" {
			t.Errorf("expected token cleared, got %q", persisted)
		}
		if !auth.signOutCalled {
			t.Error("expected provider sign-out attempted")
		}
	})

	t.Run("provider failure still clears local state", func(t *testing.T) {
		auth := &fakeAuthProvider{
			signInSession: &repositories.Session{User: testUser(), AccessToken: "tok-123"},
			signOutErr:    errors.New("provider unreachable"),
		}
		store, tokens := newTestStore(t, auth)
		store.Login(ctx, "maria@example.com", "secret")

		store.Logout(ctx)

		if store.State() != StateAnonymous {
			t.Errorf("expected state %s even on provider failure, got %s", StateAnonymous, store.State())
		}
		persisted, _ := tokens.Load(ctx)
		if persisted != "" {
			t.Errorf("expected token cleared, got %q", persisted)
		}
	})
}

func TestStore_CheckAuth(t *testing.T) {
	ctx := context.Background()

	t.Run("adopts live provider session for persisted token", func(t *testing.T) {
		auth := &fakeAuthProvider{
			sessionByToken: map[string]*repositories.Session{
				"tok-live": {User: testUser(), AccessToken: "tok-live"},
			},
		}
		store, tokens := newTestStore(t, auth)
		if err := tokens.Save(ctx, "tok-live"); err != nil {
			t.Fatalf("failed to seed token: %v", err)
		}

		store.CheckAuth(ctx)

		if store.State() != StateAuthenticated {
			t.Errorf("expected state %s, got %s", StateAuthenticated, store.State())
		}
		if store.Token() != "tok-live" {
			t.Errorf("expected adopted token, got %q", store.Token())
		}
	})

	t.Run("clears stale persisted token when provider has no session", func(t *testing.T) {
		auth := &fakeAuthProvider{sessionByToken: map[string]*repositories.Session{}}
		store, tokens := newTestStore(t, auth)
		if err := tokens.Save(ctx, "tok-stale"); err != nil {
			t.Fatalf("failed to seed token: %v", err)
		}

		store.CheckAuth(ctx)

		if store.State() != StateAnonymous {
			t.Errorf("expected state %s, got %s", StateAnonymous, store.State())
		}
		persisted, _ := tokens.Load(ctx)
		if persisted != "" {
			t.Errorf("expected stale token cleared, got %q", persisted)
		}
	})

	t.Run("no persisted token stays anonymous", func(t *testing.T) {
		auth := &fakeAuthProvider{}
		store, _ := newTestStore(t, auth)

		store.CheckAuth(ctx)

		if store.State() != StateAnonymous {
			t.Errorf("expected state %s, got %s", StateAnonymous, store.State())
		}
	})
}
