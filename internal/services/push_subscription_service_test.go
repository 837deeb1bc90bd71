package services

import (
	"testing"

	"uniplug_backend/internal/services/dto"
	"uniplug_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeIsIdempotent(t *testing.T) {
	repo := &fakeSubscriptionRepo{}
	svc := NewPushSubscriptionService(repo)

	req := &dto.SubscribeRequest{
		Endpoint: "https://push.example/ep-1",
		P256dh:   "p256dh-key",
		Auth:     "auth-key",
	}

	_, err := svc.Subscribe("u-1", req)
	require.NoError(t, err)

	// A service worker re-registering resends the same subscription.
	req.Auth = "rotated-auth-key"
	sub, err := svc.Subscribe("u-1", req)
	require.NoError(t, err)
	assert.Equal(t, "rotated-auth-key", sub.Auth)

	subs, err := svc.ListForUser("u-1")
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}

func TestSubscribeSeparateEndpointsCoexist(t *testing.T) {
	repo := &fakeSubscriptionRepo{}
	svc := NewPushSubscriptionService(repo)

	for _, endpoint := range []string{"https://push.example/phone", "https://push.example/laptop"} {
		_, err := svc.Subscribe("u-1", &dto.SubscribeRequest{
			Endpoint: endpoint,
			P256dh:   "p256dh-key",
			Auth:     "auth-key",
		})
		require.NoError(t, err)
	}

	subs, err := svc.ListForUser("u-1")
	require.NoError(t, err)
	assert.Len(t, subs, 2)
}

func TestSubscribeRejectsMissingKeys(t *testing.T) {
	repo := &fakeSubscriptionRepo{}
	svc := NewPushSubscriptionService(repo)

	_, err := svc.Subscribe("u-1", &dto.SubscribeRequest{
		Endpoint: "https://push.example/ep-1",
		P256dh:   "",
		Auth:     "auth-key",
	})

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, 400, appErr.HTTPCode)
}

func TestVerifyReflectsRegistryState(t *testing.T) {
	repo := &fakeSubscriptionRepo{}
	svc := NewPushSubscriptionService(repo)

	exists, err := svc.Verify("u-1", "https://push.example/ep-1")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = svc.Subscribe("u-1", &dto.SubscribeRequest{
		Endpoint: "https://push.example/ep-1",
		P256dh:   "p256dh-key",
		Auth:     "auth-key",
	})
	require.NoError(t, err)

	exists, err = svc.Verify("u-1", "https://push.example/ep-1")
	require.NoError(t, err)
	assert.True(t, exists)

	// Another user's identical endpoint is not visible.
	exists, err = svc.Verify("u-2", "https://push.example/ep-1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	repo := &fakeSubscriptionRepo{}
	svc := NewPushSubscriptionService(repo)

	_, err := svc.Subscribe("u-1", &dto.SubscribeRequest{
		Endpoint: "https://push.example/ep-1",
		P256dh:   "p256dh-key",
		Auth:     "auth-key",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Unsubscribe("u-1", "https://push.example/ep-1"))
	// Removing an endpoint that is already gone is not an error.
	require.NoError(t, svc.Unsubscribe("u-1", "https://push.example/ep-1"))

	subs, err := svc.ListForUser("u-1")
	require.NoError(t, err)
	assert.Empty(t, subs)
}
