package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"mealcircle-client/internal/api"
	"mealcircle-client/internal/models"
	"mealcircle-client/internal/storage"

	"github.com/rs/zerolog/log"
)

// SessionState is the lifecycle of the auth session cache
type SessionState int

const (
	StateUnauthenticated SessionState = iota
	StateLoading
	StateAuthenticated
)

func (s SessionState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Session caches the logged-in user and owns the persisted session token.
// The cached user is only ever a copy of the backend's last /auth/me answer.
type Session struct {
	client *api.Client
	store  storage.SecureStore

	mu    sync.RWMutex
	user  *models.User
	state SessionState

	listenersMu sync.Mutex
	listeners   map[int]func(*models.User)
	nextID      int
}

// NewSession creates an unauthenticated session; call CheckSession to hydrate it
func NewSession(client *api.Client, store storage.SecureStore) *Session {
	return &Session{
		client:    client,
		store:     store,
		listeners: make(map[int]func(*models.User)),
	}
}

// Token reads the persisted session token. A storage failure is logged and
// treated as no token.
func (s *Session) Token() string {
	token, err := s.store.Get(storage.SessionTokenKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Error().Err(err).Msg("Failed to read session token")
		}
		return ""
	}
	return token
}

// Client returns an API client bound to the current token. The token is read
// on every call so a logout elsewhere is picked up immediately.
func (s *Session) Client() *api.Client {
	return s.client.WithToken(s.Token())
}

// ProcessSessionID exchanges a one-time OAuth session id for a session token,
// persists it and loads the user. Any failure is returned; the caller should
// send the person back to login.
func (s *Session) ProcessSessionID(ctx context.Context, oneTimeID string) error {
	log.Info().Msg("Processing session id")

	data, err := s.client.ExchangeSession(ctx, oneTimeID)
	if err != nil {
		log.Error().Err(err).Msg("Error processing session")
		return fmt.Errorf("failed to exchange session id: %w", err)
	}

	if err := s.store.Set(storage.SessionTokenKey, data.SessionToken); err != nil {
		log.Error().Err(err).Msg("Failed to store session token")
		return fmt.Errorf("failed to store session token: %w", err)
	}
	log.Info().Str("user_id", data.UserID).Msg("Session token stored")

	return s.CheckSession(ctx)
}

// CheckSession validates the persisted token against the backend. Without a
// token it settles on unauthenticated and returns nil. Any failure to
// validate, network errors included, deletes the token.
func (s *Session) CheckSession(ctx context.Context) error {
	token := s.Token()
	if token == "" {
		s.setUser(nil)
		return nil
	}

	s.setState(StateLoading)

	user, err := s.client.WithToken(token).Me(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error checking session")
		s.deleteToken()
		s.setUser(nil)
		return fmt.Errorf("session is not valid: %w", err)
	}

	s.setUser(user)
	return nil
}

// Logout invalidates the session on the backend on a best-effort basis and
// always forgets the local token and user
func (s *Session) Logout(ctx context.Context) {
	if token := s.Token(); token != "" {
		if err := s.client.WithToken(token).Logout(ctx); err != nil {
			log.Warn().Err(err).Msg("Backend logout failed")
		}
	}
	s.deleteToken()
	s.setUser(nil)
	log.Info().Msg("Logged out")
}

// UpdateProfile sends profile to the backend and reloads the user from it
func (s *Session) UpdateProfile(ctx context.Context, profile models.UserProfile) error {
	client := s.Client()
	if err := client.UpdateProfile(ctx, profile); err != nil {
		log.Error().Err(err).Msg("Error updating profile")
		return err
	}
	s.RefreshUser(ctx)
	return nil
}

// RefreshUser reloads the user if a token exists. Errors are logged and the
// session is kept.
func (s *Session) RefreshUser(ctx context.Context) {
	token := s.Token()
	if token == "" {
		return
	}
	user, err := s.client.WithToken(token).Me(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error refreshing user")
		return
	}
	s.setUser(user)
}

// User returns a copy of the cached user, or nil
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneUser(s.user)
}

// State returns the current lifecycle state
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers fn to be called with a copy of the user whenever the
// cached user is set or cleared. It returns a function that unregisters fn.
func (s *Session) Subscribe(fn func(*models.User)) func() {
	s.listenersMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.listenersMu.Unlock()

	return func() {
		s.listenersMu.Lock()
		delete(s.listeners, id)
		s.listenersMu.Unlock()
	}
}

func (s *Session) setState(state SessionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Session) setUser(user *models.User) {
	s.mu.Lock()
	s.user = cloneUser(user)
	if user != nil {
		s.state = StateAuthenticated
	} else {
		s.state = StateUnauthenticated
	}
	s.mu.Unlock()

	s.listenersMu.Lock()
	fns := make([]func(*models.User), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenersMu.Unlock()

	for _, fn := range fns {
		fn(cloneUser(user))
	}
}

func (s *Session) deleteToken() {
	if err := s.store.Delete(storage.SessionTokenKey); err != nil {
		log.Error().Err(err).Msg("Failed to delete session token")
	}
}

func cloneUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.Profile.Allergies = append([]string(nil), u.Profile.Allergies...)
	cp.Guides = append([]string(nil), u.Guides...)
	cp.Guidees = append([]string(nil), u.Guidees...)
	cp.Idols = append([]string(nil), u.Idols...)
	cp.Fans = append([]string(nil), u.Fans...)
	return &cp
}
