package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/matricula-cloud/matricula-service/internal/models"
	"github.com/matricula-cloud/matricula-service/internal/repositories"
)

// State is the authentication lifecycle of the process-wide session
type State string

const (
	// StateAnonymous and StateAuthenticated are the stable states
	StateAnonymous      State = "anonymous"
	StateAuthenticating State = "authenticating"
	StateAuthenticated  State = "authenticated"
	// StateAuthError carries a message but does not block further
	// login attempts
	StateAuthError State = "auth_error"
)

// AuthProvider is the slice of the auth repository the store needs
type AuthProvider interface {
	SignIn(ctx context.Context, email, password string) (*repositories.Session, error)
	SignOut(ctx context.Context, token string) error
	GetSession(ctx context.Context, token string) (*repositories.Session, error)
}

// LoginResult is what Login returns instead of an error: failures at
// this boundary are always converted to a result value.
type LoginResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token,omitempty"`
}

// Store holds the in-memory authentication state plus the persisted
// token. It is injected into whatever needs it, not a package global.
type Store struct {
	mu        sync.RWMutex
	state     State
	user      *models.User
	token     string
	lastError string

	auth   AuthProvider
	tokens *TokenStore
	logger *slog.Logger
}

func NewStore(auth AuthProvider, tokens *TokenStore, logger *slog.Logger) *Store {
	return &Store{
		state:  StateAnonymous,
		auth:   auth,
		tokens: tokens,
		logger: logger,
	}
}

// ===== ACCESSORS =====

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) IsAuthenticated() bool {
	return s.State() == StateAuthenticated
}

// LastError returns the message of the most recent failed login
func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// HasPersistedToken is the guard's presence check: it only asks
// whether a token string exists, it does not validate it.
func (s *Store) HasPersistedToken(ctx context.Context) bool {
	token, err := s.tokens.Load(ctx)
	if err != nil {
		s.logger.Warn("failed to load persisted token", "error", err)
		return false
	}
	return token != ""
}

// ===== TRANSITIONS =====

// Login authenticates against the provider. It never returns an
// error: provider failures become a failed LoginResult and the store
// moves to StateAuthError.
func (s *Store) Login(ctx context.Context, email, password string) LoginResult {
	s.mu.Lock()
	s.state = StateAuthenticating
	s.mu.Unlock()

	sess, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		s.mu.Lock()
		s.state = StateAuthError
		s.user = nil
		s.token = ""
		s.lastError = err.Error()
		s.mu.Unlock()

		s.logger.Warn("login failed", "email", email, "error", err)
		return LoginResult{Success: false, Message: err.Error()}
	}

	if err := s.tokens.Save(ctx, sess.AccessToken); err != nil {
		// The session is valid even if persistence failed; the next
		// restart just won't recover it
		s.logger.Warn("failed to persist session token", "error", err)
	}

	s.mu.Lock()
	s.state = StateAuthenticated
	s.user = sess.User
	s.token = sess.AccessToken
	s.lastError = ""
	s.mu.Unlock()

	s.logger.Info("login succeeded", "email", email)
	return LoginResult{Success: true, Token: sess.AccessToken}
}

// Logout returns the store to StateAnonymous unconditionally. The
// provider sign-out is attempted but its failure never blocks the
// local state transition.
func (s *Store) Logout(ctx context.Context) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	if token != "" {
		if err := s.auth.SignOut(ctx, token); err != nil {
			s.logger.Warn("provider sign-out failed, clearing local state anyway", "error", err)
		}
	}

	if err := s.tokens.Clear(ctx); err != nil {
		s.logger.Warn("failed to clear persisted token", "error", err)
	}

	s.mu.Lock()
	s.state = StateAnonymous
	s.user = nil
	s.token = ""
	s.lastError = ""
	s.mu.Unlock()
}

// CheckAuth reconciles local persisted state with provider truth at
// startup or resume. A persisted token is never trusted at face
// value: the provider decides whether a live session still exists.
func (s *Store) CheckAuth(ctx context.Context) {
	token, err := s.tokens.Load(ctx)
	if err != nil {
		s.logger.Warn("failed to load persisted token", "error", err)
		return
	}
	if token == "" {
		s.mu.Lock()
		s.state = StateAnonymous
		s.user = nil
		s.token = ""
		s.mu.Unlock()
		return
	}

	sess, err := s.auth.GetSession(ctx, token)
	if err != nil || sess == nil {
		// Stale token: clear it rather than carry it forward
		if clearErr := s.tokens.Clear(ctx); clearErr != nil {
			s.logger.Warn("failed to clear stale token", "error", clearErr)
		}
		s.mu.Lock()
		s.state = StateAnonymous
		s.user = nil
		s.token = ""
		s.mu.Unlock()
		return
	}

	if err := s.tokens.Save(ctx, sess.AccessToken); err != nil {
		s.logger.Warn("failed to re-persist session token", "error", err)
	}

	s.mu.Lock()
	s.state = StateAuthenticated
	s.user = sess.User
	s.token = sess.AccessToken
	s.mu.Unlock()
}
