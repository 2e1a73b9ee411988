// Package auth keeps the signed in gateway session. The session is stored
// as a token file in the data directory so it survives restarts.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/portal/internal/core/logging"
	"github.com/colonyops/portal/internal/core/permission"
	"github.com/colonyops/portal/internal/gateway"
)

// ErrNotLoggedIn is returned when an operation needs a session and there is none.
var ErrNotLoggedIn = errors.New("not logged in")

// TokenAPI is the part of the gateway API the service uses.
type TokenAPI interface {
	CreateToken(ctx context.Context, username, password string) (gateway.Token, error)
	RevokeToken(ctx context.Context, token string) error
	Permissions(ctx context.Context, token, userID string) (permission.Set, error)
}

// Session is a signed in user and their auth token.
type Session struct {
	Username  string    `json:"username"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

// Service manages the current session. It is safe for concurrent use.
type Service struct {
	api    TokenAPI
	path   string
	logger zerolog.Logger

	mu      sync.RWMutex
	session *Session
}

// NewService creates a service backed by the session file at path. An
// existing session file is loaded; a missing one means signed out.
func NewService(api TokenAPI, path string) (*Service, error) {
	s := &Service{
		api:    api,
		path:   path,
		logger: logging.Component("auth"),
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("ignoring corrupt session file")
		return s, nil
	}
	if sess.Username != "" && sess.Token != "" {
		s.session = &sess
	}

	return s, nil
}

// CurrentUserID returns the signed in username, empty when signed out.
func (s *Service) CurrentUserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return ""
	}
	return s.session.Username
}

// Session returns the current session.
func (s *Service) Session() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return Session{}, false
	}
	return *s.session, true
}

// Token returns the current auth token, empty when signed out.
func (s *Service) Token() string {
	sess, _ := s.Session()
	return sess.Token
}

// Login exchanges the credentials for a token and stores the session.
func (s *Service) Login(ctx context.Context, username, password string) error {
	tok, err := s.api.CreateToken(ctx, username, password)
	if err != nil {
		return err
	}

	sess := Session{
		Username:  tok.Username,
		Token:     tok.AuthToken,
		CreatedAt: time.Now().UTC(),
	}
	if sess.Username == "" {
		sess.Username = username
	}

	if err := s.write(sess); err != nil {
		return err
	}

	s.mu.Lock()
	s.session = &sess
	s.mu.Unlock()

	s.logger.Info().Ctx(ctx).Str("user", sess.Username).Msg("logged in")
	return nil
}

// Logout revokes the token with the gateway and removes the local session.
// The local session is removed even when the gateway call fails; the
// gateway error is returned.
func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	sess := s.session
	s.session = nil
	s.mu.Unlock()

	if sess == nil {
		return ErrNotLoggedIn
	}

	var remoteErr error
	if err := s.api.RevokeToken(ctx, sess.Token); err != nil && !errors.Is(err, gateway.ErrNotFound) {
		remoteErr = err
	}

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Join(remoteErr, fmt.Errorf("remove session: %w", err))
	}

	s.logger.Info().Ctx(ctx).Str("user", sess.Username).Msg("logged out")
	return remoteErr
}

// Permissions fetches the permissions of userID using the current token.
func (s *Service) Permissions(ctx context.Context, userID string) (permission.Set, error) {
	token := s.Token()
	if token == "" {
		return permission.Set{}, ErrNotLoggedIn
	}
	return s.api.Permissions(ctx, token, userID)
}

func (s *Service) write(sess Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}
