package repositories

import (
	"errors"

	"uniplug_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrSubscriptionKeysMissing = errors.New("subscription key material is missing")
	ErrSubscriptionNotFound    = errors.New("push subscription not found")
)

// PushSubscriptionRepository is the durable registry of active push
// endpoints per user.
type PushSubscriptionRepository interface {
	// Upsert inserts or replaces the record keyed by (user, endpoint).
	// Calling it twice with identical input leaves exactly one row.
	Upsert(userID, endpoint, p256dh, auth string) (*models.PushSubscription, error)
	FindByUser(userID string) ([]models.PushSubscription, error)
	// Exists reports whether a row for (user, endpoint) is present.
	Exists(userID, endpoint string) (bool, error)
	// Remove deletes one subscription; absent rows are not an error.
	Remove(userID, endpoint string) error
	// RemoveMany bulk-deletes endpoints, used after failed deliveries.
	RemoveMany(userID string, endpoints []string) error
}

type PushSubscriptionRepositoryImpl struct {
	db *gorm.DB
}

func NewPushSubscriptionRepository(db *gorm.DB) PushSubscriptionRepository {
	return &PushSubscriptionRepositoryImpl{db: db}
}

func (r *PushSubscriptionRepositoryImpl) Upsert(userID, endpoint, p256dh, auth string) (*models.PushSubscription, error) {
	// Keys are rejected before any I/O.
	if p256dh == "" || auth == "" {
		return nil, ErrSubscriptionKeysMissing
	}
	if userID == "" || endpoint == "" {
		return nil, ErrSubscriptionKeysMissing
	}

	sub := &models.PushSubscription{
		UserID:   userID,
		Endpoint: endpoint,
		P256dh:   p256dh,
		Auth:     auth,
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth", "updated_at"}),
	}).Create(sub).Error
	if err != nil {
		return nil, err
	}

	return sub, nil
}

func (r *PushSubscriptionRepositoryImpl) FindByUser(userID string) ([]models.PushSubscription, error) {
	var subs []models.PushSubscription
	err := r.db.Where("user_id = ?", userID).Find(&subs).Error
	return subs, err
}

func (r *PushSubscriptionRepositoryImpl) Exists(userID, endpoint string) (bool, error) {
	var count int64
	err := r.db.Model(&models.PushSubscription{}).
		Where("user_id = ? AND endpoint = ?", userID, endpoint).
		Count(&count).Error
	return count > 0, err
}

func (r *PushSubscriptionRepositoryImpl) Remove(userID, endpoint string) error {
	return r.db.Where("user_id = ? AND endpoint = ?", userID, endpoint).
		Delete(&models.PushSubscription{}).Error
}

func (r *PushSubscriptionRepositoryImpl) RemoveMany(userID string, endpoints []string) error {
	if len(endpoints) == 0 {
		return nil
	}
	return r.db.Where("user_id = ? AND endpoint IN ?", userID, endpoints).
		Delete(&models.PushSubscription{}).Error
}
