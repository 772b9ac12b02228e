// Package session owns who is logged in on this device. The user record and
// bearer token are persisted under the "user" and "token" storage keys and
// survive restarts via Hydrate.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"foodapp/internal/models"
	"foodapp/internal/storage"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

const (
	UserKey  = "user"
	TokenKey = "token"
)

var (
	ErrEmptyToken     = errors.New("session: token cannot be empty")
	ErrIncompleteUser = errors.New("session: stored user is incomplete")
)

// Remote is the server side of a session. Only logout is needed here.
type Remote interface {
	Logout(ctx context.Context) error
}

// State is a point-in-time view of the session.
type State struct {
	User            *models.User
	Token           string
	IsAuthenticated bool
	IsLoading       bool
}

type Store struct {
	storage storage.Store
	remote  Remote
	logger  zerolog.Logger

	// ops serializes mutations; mu guards the fields below it.
	ops     sync.Mutex
	mu      sync.RWMutex
	user    *models.User
	token   string
	loading bool

	hydrateOnce sync.Once
}

// NewStore returns an unauthenticated store in the loading phase. remote may
// be nil, in which case Logout only clears local state.
func NewStore(st storage.Store, remote Remote, logger zerolog.Logger) *Store {
	return &Store{
		storage: st,
		remote:  remote,
		logger:  logger,
		loading: true,
	}
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := State{
		Token:           s.token,
		IsAuthenticated: s.token != "",
		IsLoading:       s.loading,
	}
	if s.user != nil {
		u := *s.user
		st.User = &u
	}
	return st
}

// Hydrate loads the persisted session. Only the first call does any work.
// Missing or corrupt data leaves the store unauthenticated; either way the
// loading phase ends.
func (s *Store) Hydrate(ctx context.Context) {
	s.hydrateOnce.Do(func() {
		s.ops.Lock()
		defer s.ops.Unlock()

		defer func() {
			s.mu.Lock()
			s.loading = false
			s.mu.Unlock()
		}()

		user, token, err := s.readPersisted(ctx)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to load auth state")
			return
		}
		if user == nil || token == "" {
			return
		}

		s.mu.Lock()
		s.user = user
		s.token = token
		s.mu.Unlock()
		s.logger.Debug().Str("user_id", user.ID).Msg("Session restored")
	})
}

func (s *Store) readPersisted(ctx context.Context) (*models.User, string, error) {
	rawUser, err := s.storage.Get(ctx, UserKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("reading user: %w", err)
	}

	token, err := s.storage.Get(ctx, TokenKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("reading token: %w", err)
	}

	var user models.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		return nil, "", fmt.Errorf("decoding stored user: %w", err)
	}
	if user.ID == "" || !user.Role.Valid() {
		return nil, "", ErrIncompleteUser
	}
	return &user, token, nil
}

// Login persists user and token and then makes them current. If persisting
// fails the in-memory session is left as it was.
func (s *Store) Login(ctx context.Context, user models.User, token string) error {
	if token == "" {
		return ErrEmptyToken
	}

	s.ops.Lock()
	defer s.ops.Unlock()

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding user: %w", err)
	}

	previous, prevErr := s.storage.Get(ctx, UserKey)
	if err := s.storage.Set(ctx, UserKey, string(data)); err != nil {
		s.logger.Error().Err(err).Msg("Login storage error")
		return fmt.Errorf("persisting user: %w", err)
	}
	if err := s.storage.Set(ctx, TokenKey, token); err != nil {
		s.logger.Error().Err(err).Msg("Login storage error")
		s.restoreUser(ctx, previous, prevErr)
		return fmt.Errorf("persisting token: %w", err)
	}

	s.mu.Lock()
	s.user = &user
	s.token = token
	s.mu.Unlock()

	s.logger.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("Logged in")
	return nil
}

// restoreUser puts the previously persisted user back so a half-written
// login never pairs a new user with an old token on the next Hydrate.
func (s *Store) restoreUser(ctx context.Context, previous string, prevErr error) {
	var err error
	switch {
	case prevErr == nil:
		err = s.storage.Set(ctx, UserKey, previous)
	case errors.Is(prevErr, storage.ErrNotFound):
		err = s.storage.Remove(ctx, UserKey)
	default:
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to roll back stored user")
	}
}

// Logout tells the backend best-effort, then always clears the session.
// The remote call runs outside the operation lock so a 401 hook that calls
// Expire cannot deadlock.
func (s *Store) Logout(ctx context.Context) {
	if s.remote != nil {
		if err := s.remote.Logout(ctx); err != nil {
			s.logger.Error().Err(err).Msg("Logout API error")
		}
	}

	s.ops.Lock()
	defer s.ops.Unlock()
	s.clear(ctx)
	s.logger.Info().Msg("Logged out")
}

// Expire clears the session without contacting the backend. It is what a
// rejected token (HTTP 401) should trigger.
func (s *Store) Expire(ctx context.Context) {
	s.ops.Lock()
	defer s.ops.Unlock()

	s.clear(ctx)
	s.logger.Warn().Msg("Session expired")
}

func (s *Store) clear(ctx context.Context) {
	if err := s.storage.Remove(ctx, UserKey); err != nil {
		s.logger.Error().Err(err).Msg("Logout storage error")
	}
	if err := s.storage.Remove(ctx, TokenKey); err != nil {
		s.logger.Error().Err(err).Msg("Logout storage error")
	}

	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()
}

// UpdateUser merges patch into the current user and persists the result.
// It does nothing when no one is logged in.
func (s *Store) UpdateUser(ctx context.Context, patch models.UserPatch) error {
	s.ops.Lock()
	defer s.ops.Unlock()

	s.mu.RLock()
	current := s.user
	s.mu.RUnlock()
	if current == nil {
		return nil
	}

	updated := patch.Apply(*current)
	data, err := json.Marshal(updated)
	if err != nil {
		return fmt.Errorf("encoding user: %w", err)
	}
	if err := s.storage.Set(ctx, UserKey, string(data)); err != nil {
		s.logger.Error().Err(err).Msg("Update user storage error")
		return fmt.Errorf("persisting user: %w", err)
	}

	s.mu.Lock()
	s.user = &updated
	s.mu.Unlock()
	return nil
}

// TokenExpiry reads the exp claim of the current token. The signature is not
// checked; the device has no way to verify it.
func (s *Store) TokenExpiry() (time.Time, bool) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token == "" {
		return time.Time{}, false
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
