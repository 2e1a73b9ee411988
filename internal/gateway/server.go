package gateway

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/colonyops/portal/internal/core/logging"
	"github.com/colonyops/portal/internal/core/permission"
	"github.com/colonyops/portal/pkg/iojson"
)

// Server is a development gateway. It keeps issued tokens in memory and
// serves the endpoints the Client uses.
type Server struct {
	users   map[string]User
	checker permission.Checker
	logger  zerolog.Logger

	mu     sync.RWMutex
	tokens map[string]string // token -> username
}

// NewServer creates a development gateway for users.
func NewServer(users []User) *Server {
	s := &Server{
		users:  make(map[string]User, len(users)),
		logger: logging.Component("gateway"),
		tokens: make(map[string]string),
	}
	for _, u := range users {
		s.users[u.Username] = u
	}
	return s
}

// Router returns the HTTP handler for the gateway API.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/tokens", s.handleCreateToken).Methods(http.MethodPost)
	api.HandleFunc("/tokens/{token}", s.handleRevokeToken).Methods(http.MethodDelete)
	api.HandleFunc("/users/{user}/permissions", s.handlePermissions).Methods(http.MethodGet)

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateToken(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, ok := s.users[creds.Username]
	if !ok || !checkPassword(u.PasswordHash, creds.Password) {
		s.logger.Info().Str("user", creds.Username).Msg("rejected login")
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = u.Username
	s.mu.Unlock()

	s.logger.Info().Str("user", u.Username).Msg("issued token")
	writeJSON(w, http.StatusOK, Token{AuthToken: token, Username: u.Username})
}

func (s *Server) handleRevokeToken(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	s.mu.Lock()
	username, ok := s.tokens[token]
	delete(s.tokens, token)
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "unknown token")
		return
	}

	s.logger.Info().Str("user", username).Msg("revoked token")
	w.WriteHeader(http.StatusNoContent)
}

// handlePermissions serves a user's grants to that user or to a system
// administrator.
func (s *Server) handlePermissions(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.authenticate(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}

	target, ok := s.users[mux.Vars(r)["user"]]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown user")
		return
	}

	if caller.Username != target.Username && !permission.IsAdmin(s.checker, &permission.Set{Grants: caller.Permissions}) {
		writeError(w, http.StatusForbidden, "not allowed to read permissions of another user")
		return
	}

	writeJSON(w, http.StatusOK, permission.Set{Grants: nonNil(target.Permissions)})
}

func (s *Server) authenticate(r *http.Request) (User, bool) {
	token := r.Header.Get(TokenHeader)
	if token == "" {
		return User{}, false
	}

	s.mu.RLock()
	username, ok := s.tokens[token]
	s.mu.RUnlock()
	if !ok {
		return User{}, false
	}

	u, ok := s.users[username]
	return u, ok
}

func nonNil(g []permission.Grant) []permission.Grant {
	if g == nil {
		return []permission.Grant{}
	}
	return g
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = iojson.WriteWith(w, w, v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, iojson.Error{Message: msg})
}
