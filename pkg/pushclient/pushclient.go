// Package pushclient manages a device's push registration lifecycle and
// keeps the server-side subscription registry consistent with it. It runs
// on the end-user device, against an abstract push-capable platform.
package pushclient

import (
	"context"
	"errors"
)

// State of the device registration lifecycle.
type State string

const (
	// StateUnsupported is terminal: the platform lacks push capability
	// or no server public key is configured. All operations fail.
	StateUnsupported State = "unsupported"

	StateNotSubscribed    State = "not_subscribed"
	StatePermissionDenied State = "permission_denied"
	StateSubscribed       State = "subscribed"
)

// Permission is the platform notification-permission state.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

var (
	ErrUnsupported      = errors.New("push is not supported on this platform")
	ErrPermissionDenied = errors.New("notification permission denied")
	// ErrInconsistentState reports a registry write that appeared to
	// succeed but failed the read-back check; this guards against silent
	// policy-based write rejection.
	ErrInconsistentState = errors.New("subscription saved but not readable back")
)

// Registration is the entire device/server contract: an opaque endpoint
// URL plus the two key-material strings.
type Registration struct {
	Endpoint string
	P256dh   string
	Auth     string
}

// Platform is the push-capable runtime the lifecycle drives.
type Platform interface {
	Supported() bool
	Permission() Permission
	// RequestPermission suspends awaiting a user gesture; this is the
	// only suspension point in the subsystem.
	RequestPermission(ctx context.Context) (Permission, error)
	// Subscribe registers with the platform push service using the
	// server's public key.
	Subscribe(ctx context.Context, vapidPublicKey string) (*Registration, error)
	// Current returns the existing platform registration, or nil.
	Current(ctx context.Context) (*Registration, error)
	Unsubscribe(ctx context.Context) error
}

// Registry is the server-side subscription registry API.
type Registry interface {
	Upsert(ctx context.Context, reg Registration) error
	Exists(ctx context.Context, endpoint string) (bool, error)
	Remove(ctx context.Context, endpoint string) error
}

// Manager owns the local registration state machine.
type Manager struct {
	platform       Platform
	registry       Registry
	vapidPublicKey string
	verifyWrites   bool
	state          State
}

type Option func(*Manager)

// WithVerifyWrites enables the read-back consistency check after every
// registry upsert. Redundant against strictly consistent stores.
func WithVerifyWrites() Option {
	return func(m *Manager) {
		m.verifyWrites = true
	}
}

func NewManager(platform Platform, registry Registry, vapidPublicKey string, opts ...Option) *Manager {
	m := &Manager{
		platform:       platform,
		registry:       registry,
		vapidPublicKey: vapidPublicKey,
		state:          StateNotSubscribed,
	}

	for _, opt := range opts {
		opt(m)
	}

	if !platform.Supported() || vapidPublicKey == "" {
		m.state = StateUnsupported
	} else if platform.Permission() == PermissionDenied {
		m.state = StatePermissionDenied
	}

	return m
}

func (m *Manager) State() State {
	return m.state
}

// Subscribe obtains a platform registration and persists it server-side.
// Permission is requested first when not yet granted; denial transitions
// to PermissionDenied and is reported, never thrown.
func (m *Manager) Subscribe(ctx context.Context) error {
	if m.state == StateUnsupported {
		return ErrUnsupported
	}

	if m.platform.Permission() != PermissionGranted {
		perm, err := m.platform.RequestPermission(ctx)
		if err != nil {
			return err
		}
		if perm != PermissionGranted {
			m.state = StatePermissionDenied
			return ErrPermissionDenied
		}
	}

	reg, err := m.platform.Subscribe(ctx, m.vapidPublicKey)
	if err != nil {
		return err
	}

	if err := m.registry.Upsert(ctx, *reg); err != nil {
		return err
	}

	if m.verifyWrites {
		exists, err := m.registry.Exists(ctx, reg.Endpoint)
		if err != nil {
			return err
		}
		if !exists {
			return ErrInconsistentState
		}
	}

	m.state = StateSubscribed
	return nil
}

// Unsubscribe deregisters from the platform and removes the server row.
// It transitions to NotSubscribed whether or not the registry had a row.
func (m *Manager) Unsubscribe(ctx context.Context) error {
	if m.state == StateUnsupported {
		return ErrUnsupported
	}

	reg, err := m.platform.Current(ctx)
	if err != nil {
		return err
	}
	if reg == nil {
		m.state = StateNotSubscribed
		return nil
	}

	if err := m.platform.Unsubscribe(ctx); err != nil {
		return err
	}

	if err := m.registry.Remove(ctx, reg.Endpoint); err != nil {
		return err
	}

	m.state = StateNotSubscribed
	return nil
}

// Sync reconciles on app startup/foreground: an existing platform
// registration is re-upserted into the registry, healing rows pruned by
// a delivery failure or lost before the initial write completed.
func (m *Manager) Sync(ctx context.Context) error {
	if m.state == StateUnsupported {
		return ErrUnsupported
	}

	if m.platform.Permission() == PermissionDenied {
		m.state = StatePermissionDenied
		return nil
	}

	reg, err := m.platform.Current(ctx)
	if err != nil {
		return err
	}
	if reg == nil {
		m.state = StateNotSubscribed
		return nil
	}

	if err := m.registry.Upsert(ctx, *reg); err != nil {
		return err
	}

	m.state = StateSubscribed
	return nil
}
