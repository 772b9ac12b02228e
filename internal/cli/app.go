package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"foodapp/internal/api"
	"foodapp/internal/permission"
	"foodapp/internal/platform"
	"foodapp/internal/session"
	"foodapp/internal/storage"

	"github.com/rs/zerolog"
)

// grantsKey holds the OS-level permission decisions of the simulated device.
// The permission store itself keeps nothing between runs.
const grantsKey = "device_grants"

// app is the client side wired together: device storage shared by the
// session and the API client, and a 401 from any call expiring the session.
type app struct {
	opts    *rootOptions
	logger  zerolog.Logger
	storage storage.Store
	client  *api.Client
	session *session.Store
}

func (o *rootOptions) newApp(ctx context.Context) (*app, error) {
	st, err := storage.NewFileStore(o.cfg.StorageDir, o.logger.With().Str("component", "storage").Logger())
	if err != nil {
		return nil, fmt.Errorf("opening device storage: %w", err)
	}

	a := &app{opts: o, logger: o.logger, storage: st}
	client, err := api.New(o.cfg.BaseURL,
		api.WithTimeout(o.cfg.APITimeout),
		api.WithUserAgent(o.cfg.UserAgent),
		api.WithTokenStorage(st),
		api.WithLogger(o.logger.With().Str("component", "api").Logger()),
		api.WithUnauthorizedHandler(func(ctx context.Context) {
			a.session.Expire(ctx)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("creating API client: %w", err)
	}
	a.client = client
	a.session = session.NewStore(st, client, o.logger.With().Str("component", "session").Logger())
	a.session.Hydrate(ctx)
	return a, nil
}

// device builds the simulated phone, restoring grants from storage. Prompts
// are answered on in and printed to out.
func (a *app) device(ctx context.Context, in *bufio.Reader, out io.Writer) *platform.Device {
	d := platform.NewDevice(a.opts.cfg.PlatformOS, a.opts.cfg.PlatformVersion,
		linePrompter(in, out), a.logger)

	raw, err := a.storage.Get(ctx, grantsKey)
	if errors.Is(err, storage.ErrNotFound) {
		return d
	}
	if err != nil {
		a.logger.Error().Err(err).Msg("Failed to read device grants")
		return d
	}
	var grants map[string]bool
	if err := json.Unmarshal([]byte(raw), &grants); err != nil {
		a.logger.Error().Err(err).Msg("Corrupt device grants, starting fresh")
		return d
	}
	for p, granted := range grants {
		d.Set(p, granted)
	}
	return d
}

func (a *app) saveDevice(ctx context.Context, d *platform.Device) error {
	data, err := json.Marshal(d.Grants())
	if err != nil {
		return fmt.Errorf("encoding device grants: %w", err)
	}
	if err := a.storage.Set(ctx, grantsKey, string(data)); err != nil {
		return fmt.Errorf("saving device grants: %w", err)
	}
	return nil
}

// locator is nil unless device coordinates are configured.
func (a *app) locator() platform.Locator {
	cfg := a.opts.cfg
	if cfg.DeviceLatitude == 0 && cfg.DeviceLongitude == 0 {
		return nil
	}
	return platform.FixedLocator{Latitude: cfg.DeviceLatitude, Longitude: cfg.DeviceLongitude}
}

// permissions returns an initialized permission store over d. Callers Close
// it when done.
func (a *app) permissions(ctx context.Context, d *platform.Device) *permission.Store {
	ps := permission.NewStore(d, a.locator(), a.logger.With().Str("component", "permission").Logger())
	ps.Initialize(ctx)
	return ps
}

func linePrompter(in *bufio.Reader, out io.Writer) platform.Prompter {
	return func(ctx context.Context, permission string, r *platform.Rationale) (bool, error) {
		if r != nil {
			fmt.Fprintf(out, "%s\n%s\n", r.Title, r.Message)
		}
		fmt.Fprintf(out, "Allow %s? [y/N] ", permission)
		answer, err := readAnswer(in)
		if err != nil {
			return false, err
		}
		return answer == "y" || answer == "yes", nil
	}
}

func readAnswer(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.ToLower(strings.TrimSpace(line)), nil
}
