// Package permission tracks, per capability, whether the OS currently grants
// it and whether the user has ever been asked. Nothing is persisted; the
// grant state is re-read from the OS on Initialize.
//
// HasInteracted only ever moves from false to true. IsGranted implies
// HasInteracted after every operation.
package permission

import (
	"context"
	"sync"

	"foodapp/internal/models"
	"foodapp/internal/platform"

	"github.com/rs/zerolog"
)

type Status struct {
	IsGranted     bool
	HasInteracted bool
}

type State struct {
	Status       map[platform.Capability]Status
	UserLocation *models.Location
	IsLoading    bool
}

func (s State) IsLocationGranted() bool {
	return s.Status[platform.Location].IsGranted
}

func (s State) HasInteractedWithLocation() bool {
	return s.Status[platform.Location].HasInteracted
}

type Store struct {
	platform platform.Platform
	locator  platform.Locator
	opts     platform.PositionOptions
	logger   zerolog.Logger

	mu       sync.RWMutex
	status   map[platform.Capability]Status
	location *models.Location
	loading  bool

	// fetchDone is non-nil while a location fetch is in flight and is
	// closed when it returns. Guarded by mu.
	fetchDone chan struct{}

	ctx      context.Context
	cancel   context.CancelFunc
	initOnce sync.Once
}

// NewStore returns a store with every capability at {false,false}. locator
// may be nil, in which case no location is ever resolved.
func NewStore(p platform.Platform, locator platform.Locator, logger zerolog.Logger) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	status := make(map[platform.Capability]Status, len(platform.Capabilities))
	for _, c := range platform.Capabilities {
		status[c] = Status{}
	}
	return &Store{
		platform: p,
		locator:  locator,
		opts:     platform.DefaultPositionOptions,
		logger:   logger,
		status:   status,
		loading:  true,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := State{
		Status:    make(map[platform.Capability]Status, len(s.status)),
		IsLoading: s.loading,
	}
	for k, v := range s.status {
		st.Status[k] = v
	}
	if s.location != nil {
		loc := *s.location
		st.UserLocation = &loc
	}
	return st
}

// Initialize reads the OS grant for every capability. A granted capability
// counts as interacted with; a denied one cannot be told apart from one that
// was never asked, so it reads as not interacted. Only the first call does
// any work.
func (s *Store) Initialize(ctx context.Context) {
	s.initOnce.Do(func() {
		defer func() {
			s.mu.Lock()
			s.loading = false
			s.mu.Unlock()
		}()

		for _, c := range platform.Capabilities {
			granted, err := s.check(ctx, c)
			if err != nil {
				s.logger.Error().Err(err).Str("capability", string(c)).Msg("Failed to initialize permission")
				continue
			}
			s.apply(c, func(Status) Status {
				return Status{IsGranted: granted, HasInteracted: granted}
			})
		}
	})
}

// CheckPermission re-reads one capability from the OS.
func (s *Store) CheckPermission(ctx context.Context, c platform.Capability) (bool, error) {
	granted, err := s.check(ctx, c)
	if err != nil {
		return false, err
	}
	s.apply(c, func(prev Status) Status {
		return Status{IsGranted: granted, HasInteracted: prev.HasInteracted || granted}
	})
	return granted, nil
}

// RequestPermission prompts the user. Capabilities the OS does not gate are
// granted without a prompt. A failed prompt is logged and reported as false
// without touching the stored status.
func (s *Store) RequestPermission(ctx context.Context, c platform.Capability, rationale *platform.Rationale) bool {
	perm, gated := platform.PermissionFor(s.platform.OS(), s.platform.Version(), c)
	if !gated {
		s.setInteracted(c, true)
		return true
	}

	granted, err := s.platform.Request(ctx, perm, rationale)
	if err != nil {
		s.logger.Warn().Err(err).Str("capability", string(c)).Msg("Error requesting permission")
		return false
	}
	s.setInteracted(c, granted)
	return granted
}

// SkipInteraction records that the user dismissed the prompt.
func (s *Store) SkipInteraction(c platform.Capability) {
	s.apply(c, func(prev Status) Status {
		return Status{IsGranted: prev.IsGranted, HasInteracted: true}
	})
}

// UpdateLocationStatus records the outcome of a location prompt handled
// outside the store.
func (s *Store) UpdateLocationStatus(granted bool) {
	s.setInteracted(platform.Location, granted)
}

func (s *Store) SkipLocation() {
	s.SkipInteraction(platform.Location)
}

// Wait blocks until the location fetch in flight at the time of the call,
// if any, has returned. It is safe to call alongside grant changes.
func (s *Store) Wait() {
	s.mu.RLock()
	done := s.fetchDone
	s.mu.RUnlock()
	if done != nil {
		<-done
	}
}

// Close aborts an in-flight location fetch and waits for it to return. No
// fetch starts after Close.
func (s *Store) Close() {
	s.mu.Lock()
	s.cancel()
	done := s.fetchDone
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (s *Store) check(ctx context.Context, c platform.Capability) (bool, error) {
	perm, gated := platform.PermissionFor(s.platform.OS(), s.platform.Version(), c)
	if !gated {
		return true, nil
	}
	return s.platform.Check(ctx, perm)
}

func (s *Store) setInteracted(c platform.Capability, granted bool) {
	s.apply(c, func(Status) Status {
		return Status{IsGranted: granted, HasInteracted: true}
	})
}

// apply is the single write path for status. It keeps HasInteracted
// monotonic and starts a location fetch when location becomes granted.
func (s *Store) apply(c platform.Capability, next func(Status) Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.status[c]
	st := next(prev)
	st.HasInteracted = st.HasInteracted || prev.HasInteracted || st.IsGranted
	s.status[c] = st

	if c == platform.Location && !prev.IsGranted && st.IsGranted {
		s.startLocationFetchLocked()
	}
}

func (s *Store) startLocationFetchLocked() {
	if s.locator == nil || s.location != nil || s.fetchDone != nil || s.ctx.Err() != nil {
		return
	}
	done := make(chan struct{})
	s.fetchDone = done
	go s.fetchLocation(done)
}

func (s *Store) fetchLocation(done chan struct{}) {
	ctx, cancel := context.WithTimeout(s.ctx, s.opts.Timeout)
	defer cancel()

	pos, err := s.locator.CurrentPosition(ctx, s.opts)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchDone = nil
	defer close(done)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Location fetch error")
		return
	}
	if s.location == nil {
		s.location = &models.Location{Latitude: pos.Latitude, Longitude: pos.Longitude}
		s.logger.Debug().Float64("lat", pos.Latitude).Float64("lon", pos.Longitude).Msg("Location resolved")
	}
}
