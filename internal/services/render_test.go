package services

import (
	"strings"
	"testing"

	"uniplug_backend/internal/email"
	"uniplug_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTemplates(t *testing.T) *email.TemplateManager {
	t.Helper()
	tm, err := email.NewTemplateManager()
	require.NoError(t, err)
	return tm
}

func TestRenderNewOrderPush(t *testing.T) {
	ev := NewOrderEvent{
		OrderID: "a1b2c3d4-e5f6-7890-abcd-ef1234567890",
		Amount:  45.5,
	}

	rendered := renderPush(ev)

	assert.Equal(t, "🎉 New Order Received!", rendered.Title)
	assert.Equal(t, "Order #a1b2c3d4 - ₵45.50", rendered.Body)
	assert.Equal(t, ev.OrderID, rendered.Data["order_id"])
}

func TestRenderOrderStatusBodies(t *testing.T) {
	cases := []struct {
		status string
		want   string
	}{
		{"confirmed", "Your order has been confirmed!"},
		{"preparing", "Your order is being prepared."},
		{"ready", "Your order is ready for pickup!"},
		{"delivered", "Your order is ready for pickup!"},
		{"completed", "Your order has been completed."},
		{"cancelled", "Your order has been cancelled."},
		{"on_hold", "Your order status has been updated to: on_hold"},
		{"", "Your order status has been updated to: "},
	}

	for _, tc := range cases {
		t.Run(tc.status, func(t *testing.T) {
			rendered := renderPush(OrderStatusEvent{OrderID: "order-1", Status: tc.status})
			assert.Equal(t, "Order Update", rendered.Title)
			assert.Equal(t, tc.want, rendered.Body)
		})
	}
}

func TestRenderOrderStatusEmailSubjectContainsStatus(t *testing.T) {
	tm := newTestTemplates(t)

	subject, html, err := renderEmail(OrderStatusEvent{OrderID: "order-1", Status: "completed"}, tm)

	require.NoError(t, err)
	assert.Contains(t, subject, "completed")
	assert.Contains(t, html, "Your order has been completed.")
}

func TestRenderNewMessagePushTruncation(t *testing.T) {
	long := strings.Repeat("x", 150)

	rendered := renderPush(NewMessageEvent{SenderName: "Ama", MessagePreview: long})

	assert.Equal(t, "💬 New message from Ama", rendered.Title)
	assert.LessOrEqual(t, len([]rune(rendered.Body)), 100)
	assert.True(t, strings.HasSuffix(rendered.Body, "..."))
	assert.Equal(t, strings.Repeat("x", 97)+"...", rendered.Body)
}

func TestRenderNewMessagePushShortContentUntouched(t *testing.T) {
	rendered := renderPush(NewMessageEvent{SenderName: "Kofi", MessagePreview: "see you at 5"})
	assert.Equal(t, "see you at 5", rendered.Body)
}

func TestRenderNewMessageEmailKeepsFullContent(t *testing.T) {
	tm := newTestTemplates(t)
	long := strings.Repeat("y", 150)

	subject, html, err := renderEmail(NewMessageEvent{SenderName: "Ama", MessagePreview: long}, tm)

	require.NoError(t, err)
	assert.Contains(t, subject, "Ama")
	assert.Contains(t, html, long)
}

func TestRenderLowStockPush(t *testing.T) {
	ev := LowStockEvent{
		StoreName: "Campus Kicks",
		Products: []LowStockProduct{
			{Name: "Hoodie", Stock: 0},
			{Name: "Cap", Stock: 3},
		},
	}

	rendered := renderPush(ev)

	assert.Equal(t, "⚠️ Low Stock Alert", rendered.Title)
	assert.Equal(t, "Hoodie: Out of Stock, Cap: 3 left", rendered.Body)
}

func TestRenderUnknownEventFallsBackToGeneric(t *testing.T) {
	rendered := renderPush(GenericEvent{})

	assert.Equal(t, "Notification", rendered.Title)
	assert.Equal(t, "You have a new notification", rendered.Body)
}

func TestRenderGenericEventUsesProvidedContent(t *testing.T) {
	rendered := renderPush(GenericEvent{Title: "Maintenance", Message: "Back at noon"})

	assert.Equal(t, "Maintenance", rendered.Title)
	assert.Equal(t, "Back at noon", rendered.Body)
}

func TestStockLabel(t *testing.T) {
	assert.Equal(t, "Out of Stock", StockLabel(0))
	assert.Equal(t, "1 left", StockLabel(1))
	assert.Equal(t, "7 left", StockLabel(7))
}

func TestShortOrderRef(t *testing.T) {
	assert.Equal(t, "a1b2c3d4", ShortOrderRef("a1b2c3d4-e5f6-7890-abcd-ef1234567890"))
	assert.Equal(t, "short", ShortOrderRef("short"))
}

func TestPushPayloadCarriesTag(t *testing.T) {
	payload := pushPayload(Rendered{Title: "T", Body: "B"}, models.EventNewOrder)

	assert.Equal(t, "new_order", payload.Tag)
	assert.Equal(t, "/icons/icon-192.png", payload.Icon)
}

func TestDecodeEventRoundTrip(t *testing.T) {
	ev := DecodeEvent("order_status", map[string]interface{}{
		"order_id": "order-1",
		"status":   "ready",
	})

	statusEv, ok := ev.(OrderStatusEvent)
	require.True(t, ok)
	assert.Equal(t, "ready", statusEv.Status)
}

func TestDecodeEventUnknownTypeIsGeneric(t *testing.T) {
	ev := DecodeEvent("totally_new_thing", map[string]interface{}{"title": "Hello"})

	generic, ok := ev.(GenericEvent)
	require.True(t, ok)
	assert.Equal(t, "Hello", generic.Title)
}
