package app

import (
	"context"

	"uniplug_backend/internal/email"
	"uniplug_backend/internal/logger"
	"uniplug_backend/internal/push"
)

// MockEmailSender is used for tests and local development.
type MockEmailSender struct{}

func (m *MockEmailSender) Send(e *email.Email) error {
	logger.Info("[MOCK] email sent", "to", e.To, "subject", e.Subject)
	return nil
}

// MockPushTransport is used when no VAPID keys are configured.
type MockPushTransport struct{}

func (m *MockPushTransport) Send(ctx context.Context, ep push.Endpoint, payload push.Payload) error {
	logger.Info("[MOCK] push sent", "endpoint", ep.URL, "title", payload.Title)
	return nil
}
