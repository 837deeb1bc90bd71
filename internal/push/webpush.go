package push

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// Config holds the process-wide VAPID key pair.
type Config struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	Subscriber      string        // contact mailto:/URL required by the protocol
	Timeout         time.Duration // per-send deadline; one slow endpoint must not stall fan-out
	TTL             int           // seconds the push service may queue the message
}

func (c Config) Validate() error {
	if c.VAPIDPublicKey == "" || c.VAPIDPrivateKey == "" {
		return fmt.Errorf("VAPID key pair is not configured")
	}
	if c.Subscriber == "" {
		return fmt.Errorf("VAPID subscriber is required")
	}
	return nil
}

// WebPushTransport sends VAPID-signed messages via the web push protocol.
type WebPushTransport struct {
	config Config
}

func NewWebPushTransport(config Config) (*WebPushTransport, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid push config: %w", err)
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	if config.TTL <= 0 {
		config.TTL = 86400
	}
	return &WebPushTransport{config: config}, nil
}

func (t *WebPushTransport) Send(ctx context.Context, ep Endpoint, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal push payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, t.config.Timeout)
	defer cancel()

	resp, err := webpush.SendNotificationWithContext(ctx, body, &webpush.Subscription{
		Endpoint: ep.URL,
		Keys: webpush.Keys{
			P256dh: ep.P256dh,
			Auth:   ep.Auth,
		},
	}, &webpush.Options{
		Subscriber:      t.config.Subscriber,
		VAPIDPublicKey:  t.config.VAPIDPublicKey,
		VAPIDPrivateKey: t.config.VAPIDPrivateKey,
		TTL:             t.config.TTL,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// 404/410 mean the registration is gone; any other non-2xx is treated
	// the same way by callers (prune), so one error suffices.
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		return fmt.Errorf("push endpoint gone: status %d", resp.StatusCode)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("push service rejected message: status %d", resp.StatusCode)
	}

	return nil
}
