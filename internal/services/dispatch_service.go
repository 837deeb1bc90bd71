package services

import (
	"context"
	"encoding/json"
	"sync"

	"uniplug_backend/internal/email"
	"uniplug_backend/internal/logger"
	"uniplug_backend/internal/models"
	"uniplug_backend/internal/push"
	"uniplug_backend/internal/repositories"
	"uniplug_backend/internal/services/dto"
	"uniplug_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

// DispatchService fans a notification out across channels (push + email),
// records the outcome in the delivery log, and self-heals the subscription
// registry by pruning endpoints the push service rejects.
//
// Dispatch failures are always non-fatal to the triggering business
// operation: the methods return an outcome to log or surface, never an
// error that should roll anything back.
type DispatchService interface {
	Dispatch(ctx context.Context, recipientID string, event Event) *dto.DeliveryOutcome

	// Factory helpers for the common marketplace events.
	NotifyNewOrder(ctx context.Context, sellerID string, ev NewOrderEvent) *dto.DeliveryOutcome
	NotifyOrderStatus(ctx context.Context, buyerID string, ev OrderStatusEvent) *dto.DeliveryOutcome
	NotifyNewMessage(ctx context.Context, recipientID string, ev NewMessageEvent) *dto.DeliveryOutcome
	NotifyLowStock(ctx context.Context, ownerID string, ev LowStockEvent) *dto.DeliveryOutcome
}

type dispatchService struct {
	subscriptionRepo repositories.PushSubscriptionRepository
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	pushTransport    push.Transport
	emailSender      email.Sender
	templates        *email.TemplateManager
}

func NewDispatchService(
	subscriptionRepo repositories.PushSubscriptionRepository,
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	pushTransport push.Transport,
	emailSender email.Sender,
	templates *email.TemplateManager,
) DispatchService {
	return &dispatchService{
		subscriptionRepo: subscriptionRepo,
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		pushTransport:    pushTransport,
		emailSender:      emailSender,
		templates:        templates,
	}
}

func (s *dispatchService) Dispatch(ctx context.Context, recipientID string, event Event) *dto.DeliveryOutcome {
	outcome := &dto.DeliveryOutcome{}

	rendered := renderPush(event)

	s.dispatchPush(ctx, recipientID, event, rendered, outcome)
	s.dispatchEmail(ctx, recipientID, event, rendered, outcome)

	return outcome
}

// dispatchPush attempts delivery to every registered endpoint of the
// recipient. Attempts are independent and concurrent; the method waits
// for all of them before pruning, because the prune set depends on every
// attempt's result.
func (s *dispatchService) dispatchPush(ctx context.Context, recipientID string, event Event, rendered Rendered, outcome *dto.DeliveryOutcome) {
	subs, err := s.subscriptionRepo.FindByUser(recipientID)
	if err != nil {
		logger.CtxWithError(ctx, "failed to load push subscriptions", err, "recipient", recipientID)
		return
	}
	if len(subs) == 0 {
		return
	}

	payload := pushPayload(rendered, event.Type())

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed []string
	)

	for _, sub := range subs {
		wg.Add(1)
		go func(sub models.PushSubscription) {
			defer wg.Done()

			err := s.pushTransport.Send(ctx, push.Endpoint{
				URL:    sub.Endpoint,
				P256dh: sub.P256dh,
				Auth:   sub.Auth,
			}, payload)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				outcome.PushFailed++
				failed = append(failed, sub.Endpoint)
				logger.CtxWarn(ctx, "push delivery failed, endpoint will be pruned",
					"recipient", recipientID, "endpoint", sub.Endpoint, "error", err.Error())
			} else {
				outcome.PushSent++
			}
		}(sub)
	}

	wg.Wait()

	// The push service is the authority on dead endpoints; any failure
	// prunes the registration.
	if len(failed) > 0 {
		if err := s.subscriptionRepo.RemoveMany(recipientID, failed); err != nil {
			logger.CtxWithError(ctx, "failed to prune dead push endpoints", err,
				"recipient", recipientID, "endpoints", len(failed))
		}
	}

	// One log record per logical notification, however many endpoints
	// were attempted. Its existence records the attempt, not a per-device
	// delivery guarantee.
	s.appendRecord(ctx, recipientID, event.Type(), models.ChannelPush, rendered)
}

func (s *dispatchService) dispatchEmail(ctx context.Context, recipientID string, event Event, rendered Rendered, outcome *dto.DeliveryOutcome) {
	address, err := s.userRepo.GetEmailForUser(recipientID)
	if err != nil {
		// Blocks only the email channel; push delivery already ran.
		outcome.EmailErr = apperrors.RecipientUnknownError(recipientID)
		logger.CtxWarn(ctx, "no resolvable email for recipient", "recipient", recipientID)
		return
	}

	subject, html, err := renderEmail(event, s.templates)
	if err != nil {
		outcome.EmailErr = apperrors.InternalError(err)
		logger.CtxWithError(ctx, "failed to render notification email", err, "recipient", recipientID)
		return
	}

	if err := s.emailSender.Send(&email.Email{
		To:       []string{address},
		Subject:  subject,
		HTMLBody: html,
	}); err != nil {
		outcome.EmailErr = apperrors.TransportError("email", err)
		logger.CtxWithError(ctx, "email delivery failed", err, "recipient", recipientID)
		return
	}

	outcome.EmailSent = true
	s.appendRecord(ctx, recipientID, event.Type(), models.ChannelEmail, rendered)
}

func (s *dispatchService) appendRecord(ctx context.Context, userID string, eventType models.EventType, channel models.Channel, rendered Rendered) {
	var data datatypes.JSON
	if rendered.Data != nil {
		if jsonData, err := json.Marshal(rendered.Data); err == nil {
			data = datatypes.JSON(jsonData)
		}
	}

	record := &models.Notification{
		UserID:  userID,
		Type:    eventType,
		Channel: channel,
		Title:   rendered.Title,
		Body:    rendered.Body,
		Data:    data,
	}

	if err := s.notificationRepo.Append(record); err != nil {
		logger.CtxWithError(ctx, "failed to append delivery log record", err,
			"recipient", userID, "channel", string(channel))
	}
}

// --- Factory helpers ---

func (s *dispatchService) NotifyNewOrder(ctx context.Context, sellerID string, ev NewOrderEvent) *dto.DeliveryOutcome {
	return s.Dispatch(ctx, sellerID, ev)
}

func (s *dispatchService) NotifyOrderStatus(ctx context.Context, buyerID string, ev OrderStatusEvent) *dto.DeliveryOutcome {
	return s.Dispatch(ctx, buyerID, ev)
}

func (s *dispatchService) NotifyNewMessage(ctx context.Context, recipientID string, ev NewMessageEvent) *dto.DeliveryOutcome {
	return s.Dispatch(ctx, recipientID, ev)
}

func (s *dispatchService) NotifyLowStock(ctx context.Context, ownerID string, ev LowStockEvent) *dto.DeliveryOutcome {
	return s.Dispatch(ctx, ownerID, ev)
}

// DecodeEvent turns a raw (eventType, eventData) pair into its typed
// variant. Unknown types decode to GenericEvent so dispatch never blocks
// on an unrecognized event.
func DecodeEvent(eventType string, eventData map[string]interface{}) Event {
	raw, err := json.Marshal(eventData)
	if err != nil {
		return GenericEvent{}
	}

	switch models.EventType(eventType) {
	case models.EventNewOrder:
		var ev NewOrderEvent
		if json.Unmarshal(raw, &ev) == nil {
			return ev
		}
	case models.EventOrderStatus:
		var ev OrderStatusEvent
		if json.Unmarshal(raw, &ev) == nil {
			return ev
		}
	case models.EventNewMessage:
		var ev NewMessageEvent
		if json.Unmarshal(raw, &ev) == nil {
			return ev
		}
	case models.EventLowStock:
		var ev LowStockEvent
		if json.Unmarshal(raw, &ev) == nil {
			return ev
		}
	}

	var ev GenericEvent
	_ = json.Unmarshal(raw, &ev)
	return ev
}
