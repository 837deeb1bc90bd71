package pushclient

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlatform struct {
	supported        bool
	permission       Permission
	grantOnRequest   Permission
	registration     *Registration
	subscribeErr     error
	requestCalled    bool
	unsubscribeCalls int
}

func (p *fakePlatform) Supported() bool        { return p.supported }
func (p *fakePlatform) Permission() Permission { return p.permission }

func (p *fakePlatform) RequestPermission(ctx context.Context) (Permission, error) {
	p.requestCalled = true
	p.permission = p.grantOnRequest
	return p.grantOnRequest, nil
}

func (p *fakePlatform) Subscribe(ctx context.Context, vapidPublicKey string) (*Registration, error) {
	if p.subscribeErr != nil {
		return nil, p.subscribeErr
	}
	p.registration = &Registration{
		Endpoint: "https://push.example/device-1",
		P256dh:   "p256dh-key",
		Auth:     "auth-key",
	}
	return p.registration, nil
}

func (p *fakePlatform) Current(ctx context.Context) (*Registration, error) {
	return p.registration, nil
}

func (p *fakePlatform) Unsubscribe(ctx context.Context) error {
	p.unsubscribeCalls++
	p.registration = nil
	return nil
}

type fakeRegistry struct {
	rows       map[string]Registration
	dropWrites bool
	upserts    int
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{rows: map[string]Registration{}}
}

func (r *fakeRegistry) Upsert(ctx context.Context, reg Registration) error {
	r.upserts++
	if r.dropWrites {
		// The write is accepted but never lands, the failure mode the
		// read-back check exists for.
		return nil
	}
	r.rows[reg.Endpoint] = reg
	return nil
}

func (r *fakeRegistry) Exists(ctx context.Context, endpoint string) (bool, error) {
	_, ok := r.rows[endpoint]
	return ok, nil
}

func (r *fakeRegistry) Remove(ctx context.Context, endpoint string) error {
	delete(r.rows, endpoint)
	return nil
}

func grantedPlatform() *fakePlatform {
	return &fakePlatform{
		supported:      true,
		permission:     PermissionGranted,
		grantOnRequest: PermissionGranted,
	}
}

func TestUnsupportedPlatformIsTerminal(t *testing.T) {
	m := NewManager(&fakePlatform{supported: false}, newFakeRegistry(), "vapid-key")

	assert.Equal(t, StateUnsupported, m.State())
	assert.ErrorIs(t, m.Subscribe(context.Background()), ErrUnsupported)
	assert.ErrorIs(t, m.Unsubscribe(context.Background()), ErrUnsupported)
	assert.ErrorIs(t, m.Sync(context.Background()), ErrUnsupported)
}

func TestMissingVAPIDKeyMeansUnsupported(t *testing.T) {
	m := NewManager(grantedPlatform(), newFakeRegistry(), "")
	assert.Equal(t, StateUnsupported, m.State())
}

func TestSubscribeHappyPath(t *testing.T) {
	platform := grantedPlatform()
	registry := newFakeRegistry()
	m := NewManager(platform, registry, "vapid-key")

	require.NoError(t, m.Subscribe(context.Background()))

	assert.Equal(t, StateSubscribed, m.State())
	assert.Contains(t, registry.rows, "https://push.example/device-1")
	// Permission was already granted; no prompt shown.
	assert.False(t, platform.requestCalled)
}

func TestSubscribeRequestsPermissionWhenDefault(t *testing.T) {
	platform := grantedPlatform()
	platform.permission = PermissionDefault
	m := NewManager(platform, newFakeRegistry(), "vapid-key")

	require.NoError(t, m.Subscribe(context.Background()))

	assert.True(t, platform.requestCalled)
	assert.Equal(t, StateSubscribed, m.State())
}

func TestSubscribePermissionDeniedIsReportedNotThrown(t *testing.T) {
	platform := grantedPlatform()
	platform.permission = PermissionDefault
	platform.grantOnRequest = PermissionDenied
	m := NewManager(platform, newFakeRegistry(), "vapid-key")

	err := m.Subscribe(context.Background())

	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Equal(t, StatePermissionDenied, m.State())
}

func TestSubscribeVerifyWritesDetectsLostUpsert(t *testing.T) {
	registry := newFakeRegistry()
	registry.dropWrites = true
	m := NewManager(grantedPlatform(), registry, "vapid-key", WithVerifyWrites())

	err := m.Subscribe(context.Background())

	assert.ErrorIs(t, err, ErrInconsistentState)
	assert.NotEqual(t, StateSubscribed, m.State())
}

func TestSubscribePlatformErrorSurfaces(t *testing.T) {
	platform := grantedPlatform()
	platform.subscribeErr = errors.New("push service unreachable")
	m := NewManager(platform, newFakeRegistry(), "vapid-key")

	err := m.Subscribe(context.Background())

	assert.EqualError(t, err, "push service unreachable")
	assert.Equal(t, StateNotSubscribed, m.State())
}

func TestUnsubscribeRemovesRegistryRow(t *testing.T) {
	platform := grantedPlatform()
	registry := newFakeRegistry()
	m := NewManager(platform, registry, "vapid-key")
	require.NoError(t, m.Subscribe(context.Background()))

	require.NoError(t, m.Unsubscribe(context.Background()))

	assert.Equal(t, StateNotSubscribed, m.State())
	assert.Empty(t, registry.rows)
	assert.Equal(t, 1, platform.unsubscribeCalls)
}

func TestUnsubscribeWithoutRegistrationIsNoop(t *testing.T) {
	platform := grantedPlatform()
	m := NewManager(platform, newFakeRegistry(), "vapid-key")

	require.NoError(t, m.Unsubscribe(context.Background()))

	assert.Equal(t, StateNotSubscribed, m.State())
	assert.Zero(t, platform.unsubscribeCalls)
}

func TestSyncHealsPrunedRegistryRow(t *testing.T) {
	platform := grantedPlatform()
	registry := newFakeRegistry()
	m := NewManager(platform, registry, "vapid-key")
	require.NoError(t, m.Subscribe(context.Background()))

	// Server side pruned the row after a failed delivery; the device
	// still holds its platform registration.
	require.NoError(t, registry.Remove(context.Background(), "https://push.example/device-1"))

	require.NoError(t, m.Sync(context.Background()))

	assert.Equal(t, StateSubscribed, m.State())
	assert.Contains(t, registry.rows, "https://push.example/device-1")
}

func TestSyncWithoutRegistration(t *testing.T) {
	m := NewManager(grantedPlatform(), newFakeRegistry(), "vapid-key")

	require.NoError(t, m.Sync(context.Background()))

	assert.Equal(t, StateNotSubscribed, m.State())
}

func TestSyncReflectsDeniedPermission(t *testing.T) {
	platform := grantedPlatform()
	platform.permission = PermissionDenied
	m := NewManager(platform, newFakeRegistry(), "vapid-key")

	require.NoError(t, m.Sync(context.Background()))

	assert.Equal(t, StatePermissionDenied, m.State())
}
