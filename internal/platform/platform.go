// Package platform hides the device OS behind a small interface: permission
// checks and prompts, and the current device position.
package platform

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Capability is a permission domain the app asks the user about.
type Capability string

const (
	Location      Capability = "location"
	Camera        Capability = "camera"
	Notifications Capability = "notifications"
)

// Capabilities lists every capability in a stable order.
var Capabilities = []Capability{Location, Camera, Notifications}

func ParseCapability(s string) (Capability, error) {
	for _, c := range Capabilities {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown capability %q", s)
}

const (
	OSAndroid = "android"
	OSIOS     = "ios"

	// Android API level that introduced the runtime notification permission.
	notificationsMinAPI = 33
)

// PermissionFor maps a capability to the OS permission identifier guarding
// it. ok is false when the OS has no runtime permission for the capability;
// callers treat that as granted.
func PermissionFor(os string, version int, c Capability) (string, bool) {
	if os != OSAndroid {
		return "", false
	}
	switch c {
	case Location:
		return "android.permission.ACCESS_FINE_LOCATION", true
	case Camera:
		return "android.permission.CAMERA", true
	case Notifications:
		if version >= notificationsMinAPI {
			return "android.permission.POST_NOTIFICATIONS", true
		}
	}
	return "", false
}

// Rationale is shown to the user before the OS prompt, where supported.
type Rationale struct {
	Title          string
	Message        string
	ButtonPositive string
	ButtonNegative string
}

// Platform is the device OS permission surface.
type Platform interface {
	OS() string
	Version() int
	Check(ctx context.Context, permission string) (bool, error)
	// Request shows the OS prompt and reports whether the user granted it.
	Request(ctx context.Context, permission string, rationale *Rationale) (bool, error)
}

// PositionOptions mirrors the knobs of a device location query.
type PositionOptions struct {
	EnableHighAccuracy bool
	Timeout            time.Duration
	// MaximumAge is how old a cached fix may be and still be returned.
	MaximumAge time.Duration
}

// DefaultPositionOptions is what the app uses once location is granted.
var DefaultPositionOptions = PositionOptions{
	EnableHighAccuracy: true,
	Timeout:            15 * time.Second,
	MaximumAge:         10 * time.Second,
}

type Position struct {
	Latitude  float64
	Longitude float64
	Timestamp time.Time
}

var ErrPositionUnavailable = errors.New("platform: position unavailable")

// Locator answers a single current-position query.
type Locator interface {
	CurrentPosition(ctx context.Context, opts PositionOptions) (Position, error)
}
