package services

import (
	"testing"

	"uniplug_backend/internal/models"
	"uniplug_backend/internal/services/dto"
	"uniplug_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRecords(t *testing.T, repo *fakeNotificationRepo, userID string, count int, channel models.Channel) []string {
	t.Helper()

	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		n := &models.Notification{
			UserID:  userID,
			Type:    models.EventGeneral,
			Channel: channel,
			Title:   "Notification",
			Body:    "You have a new notification",
		}
		require.NoError(t, repo.Append(n))
		ids = append(ids, n.ID)
	}
	return ids
}

func TestGetUserNotificationsNewestFirst(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo)
	ids := seedRecords(t, repo, "u-1", 3, models.ChannelPush)

	resp, err := svc.GetUserNotifications("u-1", dto.NotificationCriteria{})

	require.NoError(t, err)
	require.Len(t, resp.Notifications, 3)
	assert.Equal(t, ids[2], resp.Notifications[0].ID)
	assert.Equal(t, ids[0], resp.Notifications[2].ID)
	assert.Equal(t, int64(3), resp.Total)
}

func TestGetUserNotificationsChannelFilter(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo)
	seedRecords(t, repo, "u-1", 2, models.ChannelPush)
	seedRecords(t, repo, "u-1", 1, models.ChannelEmail)

	resp, err := svc.GetUserNotifications("u-1", dto.NotificationCriteria{Channel: "email"})

	require.NoError(t, err)
	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, models.ChannelEmail, resp.Notifications[0].Channel)
}

func TestUnreadCountMatchesUnreadListing(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo)
	ids := seedRecords(t, repo, "u-1", 4, models.ChannelPush)

	require.NoError(t, svc.MarkAsRead("u-1", ids[0]))

	count, err := svc.GetUnreadCount("u-1")
	require.NoError(t, err)

	resp, err := svc.GetUserNotifications("u-1", dto.NotificationCriteria{UnreadOnly: true})
	require.NoError(t, err)

	assert.Equal(t, count, int64(len(resp.Notifications)))
	assert.Equal(t, int64(3), count)
}

func TestMarkAsReadIsIdempotent(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo)
	ids := seedRecords(t, repo, "u-1", 1, models.ChannelPush)

	require.NoError(t, svc.MarkAsRead("u-1", ids[0]))
	first, err := repo.FindByID(ids[0])
	require.NoError(t, err)
	require.NotNil(t, first.ReadAt)
	readAt := *first.ReadAt

	// Marking again neither errors nor moves the read timestamp.
	require.NoError(t, svc.MarkAsRead("u-1", ids[0]))
	second, err := repo.FindByID(ids[0])
	require.NoError(t, err)
	assert.Equal(t, readAt, *second.ReadAt)

	count, err := svc.GetUnreadCount("u-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestMarkAsReadRejectsForeignRecord(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo)
	ids := seedRecords(t, repo, "u-1", 1, models.ChannelPush)

	err := svc.MarkAsRead("u-2", ids[0])

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, 403, appErr.HTTPCode)
}

func TestMarkAsReadUnknownRecord(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo)

	err := svc.MarkAsRead("u-1", "missing")

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, 404, appErr.HTTPCode)
}

func TestMarkAllAsRead(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo)
	seedRecords(t, repo, "u-1", 3, models.ChannelPush)
	seedRecords(t, repo, "u-2", 2, models.ChannelPush)

	require.NoError(t, svc.MarkAllAsRead("u-1"))

	count, err := svc.GetUnreadCount("u-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// Another user's records are untouched.
	otherCount, err := svc.GetUnreadCount("u-2")
	require.NoError(t, err)
	assert.Equal(t, int64(2), otherCount)
}

func TestDeleteNotificationOwnershipEnforced(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo)
	ids := seedRecords(t, repo, "u-1", 1, models.ChannelPush)

	err := svc.DeleteNotification("u-2", ids[0])
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, 403, appErr.HTTPCode)

	require.NoError(t, svc.DeleteNotification("u-1", ids[0]))
	_, err = repo.FindByID(ids[0])
	assert.Error(t, err)
}
