package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"uniplug_backend/internal/email"
	"uniplug_backend/internal/models"
	"uniplug_backend/internal/push"
	"uniplug_backend/internal/repositories"
)

// In-memory doubles for the repository and transport interfaces. They
// mirror the persistence contracts (keyed replace on upsert, unread
// filter matching the count) closely enough for service-level tests.

type fakeSubscriptionRepo struct {
	mu   sync.Mutex
	subs []models.PushSubscription
}

func (r *fakeSubscriptionRepo) Upsert(userID, endpoint, p256dh, auth string) (*models.PushSubscription, error) {
	if p256dh == "" || auth == "" || userID == "" || endpoint == "" {
		return nil, repositories.ErrSubscriptionKeysMissing
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.subs {
		if r.subs[i].UserID == userID && r.subs[i].Endpoint == endpoint {
			r.subs[i].P256dh = p256dh
			r.subs[i].Auth = auth
			return &r.subs[i], nil
		}
	}

	sub := models.PushSubscription{UserID: userID, Endpoint: endpoint, P256dh: p256dh, Auth: auth}
	r.subs = append(r.subs, sub)
	return &sub, nil
}

func (r *fakeSubscriptionRepo) FindByUser(userID string) ([]models.PushSubscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.PushSubscription
	for _, s := range r.subs {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSubscriptionRepo) Exists(userID, endpoint string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.subs {
		if s.UserID == userID && s.Endpoint == endpoint {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSubscriptionRepo) Remove(userID, endpoint string) error {
	return r.RemoveMany(userID, []string{endpoint})
}

func (r *fakeSubscriptionRepo) RemoveMany(userID string, endpoints []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doomed := make(map[string]bool, len(endpoints))
	for _, ep := range endpoints {
		doomed[ep] = true
	}

	kept := r.subs[:0]
	for _, s := range r.subs {
		if s.UserID == userID && doomed[s.Endpoint] {
			continue
		}
		kept = append(kept, s)
	}
	r.subs = kept
	return nil
}

type fakeNotificationRepo struct {
	mu      sync.Mutex
	nextID  int
	records []models.Notification
}

func (r *fakeNotificationRepo) Append(notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	notification.ID = fmt.Sprintf("ntf-%d", r.nextID)
	notification.CreatedAt = time.Now()
	r.records = append(r.records, *notification)
	return nil
}

func (r *fakeNotificationRepo) FindByID(id string) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.records {
		if r.records[i].ID == id {
			clone := r.records[i]
			return &clone, nil
		}
	}
	return nil, repositories.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) FindUserNotifications(userID string, criteria repositories.NotificationCriteria) ([]models.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []models.Notification
	// Records are stored in append order; listings are newest first.
	for i := len(r.records) - 1; i >= 0; i-- {
		n := r.records[i]
		if n.UserID != userID {
			continue
		}
		if criteria.UnreadOnly && n.IsRead {
			continue
		}
		if criteria.Channel != "" && n.Channel != criteria.Channel {
			continue
		}
		matched = append(matched, n)
	}
	return matched, int64(len(matched)), nil
}

func (r *fakeNotificationRepo) MarkAsRead(notificationID string) error {
	return r.MarkManyAsRead([]string{notificationID})
}

func (r *fakeNotificationRepo) MarkManyAsRead(notificationIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for _, id := range notificationIDs {
		for i := range r.records {
			if r.records[i].ID == id && !r.records[i].IsRead {
				r.records[i].IsRead = true
				r.records[i].ReadAt = &now
			}
		}
	}
	return nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for i := range r.records {
		if r.records[i].UserID == userID && !r.records[i].IsRead {
			r.records[i].IsRead = true
			r.records[i].ReadAt = &now
		}
	}
	return nil
}

func (r *fakeNotificationRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.records {
		if r.records[i].ID == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) DeleteMany(ids []string) error {
	for _, id := range ids {
		_ = r.Delete(id)
	}
	return nil
}

func (r *fakeNotificationRepo) DeleteUserNotifications(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.records[:0]
	for _, n := range r.records {
		if n.UserID != userID {
			kept = append(kept, n)
		}
	}
	r.records = kept
	return nil
}

func (r *fakeNotificationRepo) DeleteReadOlderThan(olderThan time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	kept := r.records[:0]
	for _, n := range r.records {
		if n.IsRead && n.CreatedAt.Before(olderThan) {
			deleted++
			continue
		}
		kept = append(kept, n)
	}
	r.records = kept
	return deleted, nil
}

func (r *fakeNotificationRepo) CountUnread(userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, n := range r.records {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) byChannel(channel models.Channel) []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Notification
	for _, n := range r.records {
		if n.Channel == channel {
			out = append(out, n)
		}
	}
	return out
}

type fakeUserRepo struct {
	emails map[string]string
}

func (r *fakeUserRepo) FindByID(id string) (*models.User, error) {
	email, ok := r.emails[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return &models.User{BaseModel: models.BaseModel{ID: id}, Email: email}, nil
}

func (r *fakeUserRepo) FindByEmail(address string) (*models.User, error) {
	for id, email := range r.emails {
		if email == address {
			return &models.User{BaseModel: models.BaseModel{ID: id}, Email: email}, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) GetEmailForUser(id string) (string, error) {
	email, ok := r.emails[id]
	if !ok || email == "" {
		return "", repositories.ErrUserNotFound
	}
	return email, nil
}

func (r *fakeUserRepo) Create(user *models.User) error { return nil }
func (r *fakeUserRepo) Update(user *models.User) error { return nil }
func (r *fakeUserRepo) Delete(userID string) error     { return nil }

type fakePushTransport struct {
	mu       sync.Mutex
	failWith map[string]error
	sent     []push.Endpoint
}

func (t *fakePushTransport) Send(ctx context.Context, ep push.Endpoint, payload push.Payload) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err, ok := t.failWith[ep.URL]; ok {
		return err
	}
	t.sent = append(t.sent, ep)
	return nil
}

type fakeEmailSender struct {
	mu      sync.Mutex
	failErr error
	sent    []email.Email
}

func (s *fakeEmailSender) Send(e *email.Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failErr != nil {
		return s.failErr
	}
	s.sent = append(s.sent, *e)
	return nil
}
