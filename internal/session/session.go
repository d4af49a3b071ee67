package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/LeDuc-16/smart-attendance-sub000/internal/models"
)

// Session holds the process-scoped credential and current user. It is
// constructor-injected into every API client; nothing reads a package-level
// token. Expire fires the registered hook at most once per credential.
type Session struct {
	store  Store
	logger *zap.Logger

	mu       sync.RWMutex
	creds    *Credentials
	onExpire func()
}

// New builds a session backed by store.
func New(store Store, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{store: store, logger: logger}
}

// Load restores persisted credentials. A missing record is not an error.
func (s *Session) Load(ctx context.Context) error {
	creds, err := s.store.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrNoCredentials) {
			return nil
		}
		return err
	}
	s.mu.Lock()
	s.creds = creds
	s.mu.Unlock()
	return nil
}

// Login stores a fresh token pair and user record.
func (s *Session) Login(ctx context.Context, tokens models.TokenPair, user *models.User) error {
	creds := &Credentials{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         user,
	}
	if err := s.store.Save(ctx, creds); err != nil {
		return err
	}
	s.mu.Lock()
	s.creds = creds
	s.mu.Unlock()
	return nil
}

// Logout clears the credential without firing the expiry hook.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.creds = nil
	s.mu.Unlock()
	return s.store.Clear(ctx)
}

// AccessToken returns the current bearer token, empty when logged out.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil {
		return ""
	}
	return s.creds.AccessToken
}

// User returns the authenticated account, nil when logged out.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil {
		return nil
	}
	return s.creds.User
}

// Authenticated reports whether a credential is held.
func (s *Session) Authenticated() bool {
	return s.AccessToken() != ""
}

// OnExpire registers the hook invoked when the backend rejects the
// credential (401/403). The UI layer uses it to redirect to login.
func (s *Session) OnExpire(fn func()) {
	s.mu.Lock()
	s.onExpire = fn
	s.mu.Unlock()
}

// Expire clears the credential in response to a 401/403. The clear and the
// hook fire exactly once; concurrent rejected calls are no-ops after the
// first.
func (s *Session) Expire(ctx context.Context) {
	s.mu.Lock()
	if s.creds == nil {
		s.mu.Unlock()
		return
	}
	s.creds = nil
	hook := s.onExpire
	s.mu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		s.logger.Warn("failed to clear stored credential", zap.Error(err))
	}
	s.logger.Info("session expired, credential cleared")
	if hook != nil {
		hook()
	}
}

// ExpiresSoon inspects the access token's exp claim locally and reports
// whether it lapses within the window. The signature is not verified; only
// the backend holds the key, and this is advisory.
func (s *Session) ExpiresSoon(window time.Duration) bool {
	token := s.AccessToken()
	if token == "" {
		return true
	}
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Until(exp.Time) < window
}
