package platform

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Prompter decides the outcome of a permission prompt. The CLI answers it
// from stdin; tests answer it directly.
type Prompter func(ctx context.Context, permission string, rationale *Rationale) (bool, error)

// Device is a software platform: grants live in memory and prompts are
// delegated to a Prompter. It stands in for the phone when the client runs
// on a desktop or in tests.
type Device struct {
	os      string
	version int
	prompt  Prompter
	logger  zerolog.Logger

	mu      sync.RWMutex
	granted map[string]bool
}

func NewDevice(os string, version int, prompt Prompter, logger zerolog.Logger) *Device {
	return &Device{
		os:      os,
		version: version,
		prompt:  prompt,
		logger:  logger,
		granted: make(map[string]bool),
	}
}

func (d *Device) OS() string   { return d.os }
func (d *Device) Version() int { return d.version }

func (d *Device) Check(ctx context.Context, permission string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.granted[permission], nil
}

func (d *Device) Request(ctx context.Context, permission string, rationale *Rationale) (bool, error) {
	if d.prompt == nil {
		return false, nil
	}
	ok, err := d.prompt(ctx, permission, rationale)
	if err != nil {
		return false, err
	}
	d.Set(permission, ok)
	d.logger.Debug().Str("permission", permission).Bool("granted", ok).Msg("Permission prompt answered")
	return ok, nil
}

// Set changes a grant as if the user toggled it in system settings.
func (d *Device) Set(permission string, granted bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.granted[permission] = granted
}

// Grants returns a copy of every grant decision the device has recorded.
func (d *Device) Grants() map[string]bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[string]bool, len(d.granted))
	for k, v := range d.granted {
		out[k] = v
	}
	return out
}

// FixedLocator always reports the same coordinates.
type FixedLocator struct {
	Latitude  float64
	Longitude float64
}

func (l FixedLocator) CurrentPosition(ctx context.Context, opts PositionOptions) (Position, error) {
	if err := ctx.Err(); err != nil {
		return Position{}, err
	}
	return Position{Latitude: l.Latitude, Longitude: l.Longitude, Timestamp: time.Now()}, nil
}
