package services

import (
	"uniplug_backend/internal/models"
	"uniplug_backend/internal/repositories"
	"uniplug_backend/internal/services/dto"
	"uniplug_backend/pkg/apperrors"
)

// PushSubscriptionService is the registry surface devices talk to.
type PushSubscriptionService interface {
	Subscribe(userID string, req *dto.SubscribeRequest) (*models.PushSubscription, error)
	// Verify reports whether a registration the device believes in is
	// actually present server-side. Used by the client lifecycle's
	// read-back check.
	Verify(userID, endpoint string) (bool, error)
	Unsubscribe(userID, endpoint string) error
	ListForUser(userID string) ([]models.PushSubscription, error)
}

type pushSubscriptionService struct {
	subscriptionRepo repositories.PushSubscriptionRepository
}

func NewPushSubscriptionService(subscriptionRepo repositories.PushSubscriptionRepository) PushSubscriptionService {
	return &pushSubscriptionService{subscriptionRepo: subscriptionRepo}
}

func (s *pushSubscriptionService) Subscribe(userID string, req *dto.SubscribeRequest) (*models.PushSubscription, error) {
	sub, err := s.subscriptionRepo.Upsert(userID, req.Endpoint, req.P256dh, req.Auth)
	if err != nil {
		if apperrors.Is(err, repositories.ErrSubscriptionKeysMissing) {
			return nil, apperrors.ValidationError(map[string]string{
				"keys": "p256dh and auth key material are required",
			})
		}
		return nil, apperrors.InternalError(err)
	}
	return sub, nil
}

func (s *pushSubscriptionService) Verify(userID, endpoint string) (bool, error) {
	return s.subscriptionRepo.Exists(userID, endpoint)
}

// Unsubscribe is idempotent: removing an absent registration succeeds.
func (s *pushSubscriptionService) Unsubscribe(userID, endpoint string) error {
	return s.subscriptionRepo.Remove(userID, endpoint)
}

func (s *pushSubscriptionService) ListForUser(userID string) ([]models.PushSubscription, error) {
	return s.subscriptionRepo.FindByUser(userID)
}
