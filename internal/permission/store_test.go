package permission

import (
	"context"
	"errors"
	"sync"
	"testing"

	"foodapp/internal/platform"

	"github.com/rs/zerolog"
)

type fakePlatform struct {
	os      string
	version int

	mu       sync.Mutex
	granted  map[string]bool
	answer   bool
	checkErr error
	reqErr   error
	requests int
}

func newFakePlatform(os string) *fakePlatform {
	return &fakePlatform{os: os, version: 34, granted: make(map[string]bool)}
}

func (f *fakePlatform) OS() string   { return f.os }
func (f *fakePlatform) Version() int { return f.version }

func (f *fakePlatform) Check(ctx context.Context, permission string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.checkErr != nil {
		return false, f.checkErr
	}
	return f.granted[permission], nil
}

func (f *fakePlatform) Request(ctx context.Context, permission string, r *platform.Rationale) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests++
	if f.reqErr != nil {
		return false, f.reqErr
	}
	f.granted[permission] = f.answer
	return f.answer, nil
}

func (f *fakePlatform) set(permission string, granted bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.granted[permission] = granted
}

type fakeLocator struct {
	mu    sync.Mutex
	calls int
	err   error
	block chan struct{}
}

func (f *fakeLocator) CurrentPosition(ctx context.Context, opts platform.PositionOptions) (platform.Position, error) {
	f.mu.Lock()
	f.calls++
	err := f.err
	block := f.block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return platform.Position{}, ctx.Err()
		}
	}
	if err != nil {
		return platform.Position{}, err
	}
	return platform.Position{Latitude: 6.5, Longitude: 3.4}, nil
}

func (f *fakeLocator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

const (
	permLocation = "android.permission.ACCESS_FINE_LOCATION"
	permCamera   = "android.permission.CAMERA"
)

func assertInvariant(t *testing.T, s *Store) {
	t.Helper()
	for c, st := range s.State().Status {
		if st.IsGranted && !st.HasInteracted {
			t.Errorf("%s: granted without interaction", c)
		}
	}
}

func TestInitializeFreshInstall(t *testing.T) {
	s := NewStore(newFakePlatform(platform.OSAndroid), nil, zerolog.Nop())
	if !s.State().IsLoading {
		t.Error("new store should be loading")
	}
	s.Initialize(context.Background())

	st := s.State()
	if st.IsLoading {
		t.Error("Initialize must end the loading phase")
	}
	for _, c := range platform.Capabilities {
		if got := st.Status[c]; got != (Status{}) {
			t.Errorf("%s = %+v, want {false false}", c, got)
		}
	}
}

func TestInitializeReadsExistingGrants(t *testing.T) {
	p := newFakePlatform(platform.OSAndroid)
	p.set(permCamera, true)
	s := NewStore(p, nil, zerolog.Nop())
	s.Initialize(context.Background())

	if got := s.State().Status[platform.Camera]; got != (Status{IsGranted: true, HasInteracted: true}) {
		t.Errorf("camera = %+v", got)
	}
	if got := s.State().Status[platform.Location]; got != (Status{}) {
		t.Errorf("location = %+v", got)
	}
}

func TestInitializeCheckFailureEndsLoading(t *testing.T) {
	p := newFakePlatform(platform.OSAndroid)
	p.checkErr = errors.New("binder died")
	s := NewStore(p, nil, zerolog.Nop())
	s.Initialize(context.Background())
	if s.State().IsLoading {
		t.Error("still loading after failed Initialize")
	}
}

func TestRequestPermissionAlwaysInteracts(t *testing.T) {
	for _, answer := range []bool{true, false} {
		p := newFakePlatform(platform.OSAndroid)
		p.answer = answer
		s := NewStore(p, nil, zerolog.Nop())
		s.Initialize(context.Background())

		got := s.RequestPermission(context.Background(), platform.Camera, &platform.Rationale{Title: "Camera"})
		if got != answer {
			t.Errorf("RequestPermission() = %v, want %v", got, answer)
		}
		st := s.State().Status[platform.Camera]
		if !st.HasInteracted || st.IsGranted != answer {
			t.Errorf("camera = %+v after answer %v", st, answer)
		}
		assertInvariant(t, s)
	}
}

func TestRequestPermissionUngatedSkipsPrompt(t *testing.T) {
	p := newFakePlatform(platform.OSIOS)
	s := NewStore(p, nil, zerolog.Nop())

	if !s.RequestPermission(context.Background(), platform.Camera, nil) {
		t.Error("RequestPermission() = false on ungated capability")
	}
	if p.requests != 0 {
		t.Errorf("OS prompt invoked %d times", p.requests)
	}
	if got := s.State().Status[platform.Camera]; got != (Status{IsGranted: true, HasInteracted: true}) {
		t.Errorf("camera = %+v", got)
	}
}

func TestRequestPermissionNotificationsOnOldAndroid(t *testing.T) {
	p := newFakePlatform(platform.OSAndroid)
	p.version = 30
	s := NewStore(p, nil, zerolog.Nop())
	if !s.RequestPermission(context.Background(), platform.Notifications, nil) {
		t.Error("notifications should be auto-granted below API 33")
	}
	if p.requests != 0 {
		t.Errorf("OS prompt invoked %d times", p.requests)
	}
}

func TestRequestPermissionFailureReturnsFalse(t *testing.T) {
	p := newFakePlatform(platform.OSAndroid)
	p.reqErr = errors.New("no activity")
	s := NewStore(p, nil, zerolog.Nop())
	s.Initialize(context.Background())

	if s.RequestPermission(context.Background(), platform.Camera, nil) {
		t.Error("RequestPermission() = true on failure")
	}
	if got := s.State().Status[platform.Camera]; got != (Status{}) {
		t.Errorf("camera = %+v, want untouched", got)
	}
}

func TestSkipInteractionKeepsGrant(t *testing.T) {
	p := newFakePlatform(platform.OSAndroid)
	p.set(permCamera, true)
	s := NewStore(p, nil, zerolog.Nop())
	s.Initialize(context.Background())

	s.SkipInteraction(platform.Camera)
	s.SkipInteraction(platform.Notifications)

	st := s.State()
	if got := st.Status[platform.Camera]; got != (Status{IsGranted: true, HasInteracted: true}) {
		t.Errorf("camera = %+v", got)
	}
	if got := st.Status[platform.Notifications]; got != (Status{IsGranted: false, HasInteracted: true}) {
		t.Errorf("notifications = %+v", got)
	}
}

func TestCheckPermissionNeverDowngradesInteraction(t *testing.T) {
	ctx := context.Background()
	p := newFakePlatform(platform.OSAndroid)
	p.answer = true
	s := NewStore(p, nil, zerolog.Nop())
	s.Initialize(ctx)

	s.RequestPermission(ctx, platform.Camera, nil)
	p.set(permCamera, false)

	granted, err := s.CheckPermission(ctx, platform.Camera)
	if err != nil {
		t.Fatal(err)
	}
	if granted {
		t.Error("CheckPermission() = true after revoke")
	}
	if got := s.State().Status[platform.Camera]; got != (Status{IsGranted: false, HasInteracted: true}) {
		t.Errorf("camera = %+v", got)
	}

	p.set(permLocation, true)
	if granted, _ := s.CheckPermission(ctx, platform.Location); !granted {
		t.Error("CheckPermission(location) = false")
	}
	assertInvariant(t, s)
}

func TestCheckPermissionError(t *testing.T) {
	p := newFakePlatform(platform.OSAndroid)
	s := NewStore(p, nil, zerolog.Nop())
	p.checkErr = errors.New("boom")
	if _, err := s.CheckPermission(context.Background(), platform.Camera); err == nil {
		t.Error("CheckPermission() expected error")
	}
}

func TestLocationFetchedOnceAfterGrant(t *testing.T) {
	ctx := context.Background()
	p := newFakePlatform(platform.OSAndroid)
	p.answer = true
	loc := &fakeLocator{}
	s := NewStore(p, loc, zerolog.Nop())
	defer s.Close()
	s.Initialize(ctx)

	s.RequestPermission(ctx, platform.Location, nil)
	s.Wait()

	if loc.callCount() != 1 {
		t.Fatalf("location fetches = %d, want 1", loc.callCount())
	}
	st := s.State()
	if st.UserLocation == nil || st.UserLocation.Latitude != 6.5 || st.UserLocation.Longitude != 3.4 {
		t.Fatalf("UserLocation = %+v", st.UserLocation)
	}
	if !st.IsLocationGranted() || !st.HasInteractedWithLocation() {
		t.Errorf("location aliases = %v/%v", st.IsLocationGranted(), st.HasInteractedWithLocation())
	}

	s.RequestPermission(ctx, platform.Location, nil)
	s.Wait()
	if loc.callCount() != 1 {
		t.Errorf("location fetches after second grant = %d, want 1", loc.callCount())
	}
}

func TestLocationFetchedAtInitializeWhenAlreadyGranted(t *testing.T) {
	p := newFakePlatform(platform.OSAndroid)
	p.set(permLocation, true)
	loc := &fakeLocator{}
	s := NewStore(p, loc, zerolog.Nop())
	defer s.Close()

	s.Initialize(context.Background())
	s.Wait()
	if s.State().UserLocation == nil {
		t.Error("location not resolved for a grant found at start")
	}
}

func TestLocationFetchFailureAllowsRetry(t *testing.T) {
	ctx := context.Background()
	p := newFakePlatform(platform.OSAndroid)
	loc := &fakeLocator{err: platform.ErrPositionUnavailable}
	s := NewStore(p, loc, zerolog.Nop())
	defer s.Close()
	s.Initialize(ctx)

	s.UpdateLocationStatus(true)
	s.Wait()
	if s.State().UserLocation != nil {
		t.Fatal("location set despite fetch error")
	}

	loc.mu.Lock()
	loc.err = nil
	loc.mu.Unlock()

	s.UpdateLocationStatus(false)
	s.UpdateLocationStatus(true)
	s.Wait()

	if loc.callCount() != 2 {
		t.Errorf("location fetches = %d, want 2", loc.callCount())
	}
	if s.State().UserLocation == nil {
		t.Error("location not resolved on retry")
	}
}

func TestCloseCancelsInFlightFetch(t *testing.T) {
	loc := &fakeLocator{block: make(chan struct{})}
	s := NewStore(newFakePlatform(platform.OSIOS), loc, zerolog.Nop())
	s.Initialize(context.Background())

	s.Close()

	if loc.callCount() != 1 {
		t.Fatalf("location fetches = %d, want 1", loc.callCount())
	}
	if s.State().UserLocation != nil {
		t.Error("location set after Close")
	}
}

func TestSkipLocation(t *testing.T) {
	s := NewStore(newFakePlatform(platform.OSAndroid), &fakeLocator{}, zerolog.Nop())
	defer s.Close()
	s.SkipLocation()

	st := s.State()
	if st.IsLocationGranted() || !st.HasInteractedWithLocation() {
		t.Errorf("location = %+v", st.Status[platform.Location])
	}
}

func TestWaitAlongsideGrantChanges(t *testing.T) {
	loc := &fakeLocator{err: platform.ErrPositionUnavailable}
	s := NewStore(newFakePlatform(platform.OSAndroid), loc, zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Wait()
		}()
		s.UpdateLocationStatus(false)
		s.UpdateLocationStatus(true)
	}
	wg.Wait()
	s.Close()

	if s.State().UserLocation != nil {
		t.Error("location set although every fetch failed")
	}
	if loc.callCount() == 0 {
		t.Error("no location fetch started")
	}
}

func TestNoFetchAfterClose(t *testing.T) {
	loc := &fakeLocator{}
	s := NewStore(newFakePlatform(platform.OSAndroid), loc, zerolog.Nop())
	s.Close()

	s.UpdateLocationStatus(true)
	s.Wait()

	if loc.callCount() != 0 {
		t.Errorf("location fetches after Close = %d, want 0", loc.callCount())
	}
}
