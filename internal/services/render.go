package services

import (
	"fmt"
	"strings"

	"uniplug_backend/internal/email"
	"uniplug_backend/internal/models"
	"uniplug_backend/internal/push"
)

// Rendered is the channel-agnostic notification content for one event.
type Rendered struct {
	Title string
	Body  string
	Data  map[string]interface{} // routing metadata (deep link, entity ids)
}

// renderer produces push and email content for one event variant.
type renderer struct {
	push  func(Event) Rendered
	email func(Event, *email.TemplateManager) (subject, html string, err error)
}

// renderTable maps event types to their renderers. The mapping is pure
// and total: unknown types fall through to the generic renderer.
var renderTable = map[models.EventType]renderer{
	models.EventNewOrder: {
		push:  renderNewOrderPush,
		email: renderNewOrderEmail,
	},
	models.EventOrderStatus: {
		push:  renderOrderStatusPush,
		email: renderOrderStatusEmail,
	},
	models.EventNewMessage: {
		push:  renderNewMessagePush,
		email: renderNewMessageEmail,
	},
	models.EventLowStock: {
		push:  renderLowStockPush,
		email: renderLowStockEmail,
	},
}

// orderStatusBodies is keyed by order status; unrecognized statuses fall
// back to a literal that embeds the raw value rather than failing.
var orderStatusBodies = map[string]string{
	string(models.OrderStatusConfirmed): "Your order has been confirmed!",
	string(models.OrderStatusPreparing): "Your order is being prepared.",
	string(models.OrderStatusReady):     "Your order is ready for pickup!",
	string(models.OrderStatusDelivered): "Your order is ready for pickup!",
	string(models.OrderStatusCompleted): "Your order has been completed.",
	string(models.OrderStatusCancelled): "Your order has been cancelled.",
}

// messagePreviewLimit bounds a push body; longer content is cut to 97
// characters plus "...".
const messagePreviewLimit = 100

func renderPush(event Event) Rendered {
	if r, ok := renderTable[event.Type()]; ok {
		return r.push(event)
	}
	return renderGenericPush(event)
}

func renderEmail(event Event, tm *email.TemplateManager) (string, string, error) {
	if r, ok := renderTable[event.Type()]; ok {
		return r.email(event, tm)
	}
	return renderGenericEmail(event, tm)
}

// --- new_order ---

func renderNewOrderPush(ev Event) Rendered {
	e, ok := ev.(NewOrderEvent)
	if !ok {
		return renderGenericPush(ev)
	}
	return Rendered{
		Title: "🎉 New Order Received!",
		Body:  fmt.Sprintf("Order #%s - ₵%.2f", ShortOrderRef(e.OrderID), e.Amount),
		Data: map[string]interface{}{
			"url":      "/store/orders",
			"order_id": e.OrderID,
		},
	}
}

func renderNewOrderEmail(ev Event, tm *email.TemplateManager) (string, string, error) {
	e, ok := ev.(NewOrderEvent)
	if !ok {
		return renderGenericEmail(ev, tm)
	}

	items := make([]email.OrderLineItem, 0, len(e.Items))
	for _, item := range e.Items {
		items = append(items, email.OrderLineItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    fmt.Sprintf("₵%.2f", item.Price),
		})
	}

	html, err := tm.Render("new_order", email.NewOrderData{
		OrderRef: ShortOrderRef(e.OrderID),
		Amount:   fmt.Sprintf("₵%.2f", e.Amount),
		Items:    items,
		StoreURL: "/store/orders",
	})
	subject := fmt.Sprintf("New order #%s on UniPlug", ShortOrderRef(e.OrderID))
	return subject, html, err
}

// --- order_status ---

func orderStatusBody(status string) string {
	if body, ok := orderStatusBodies[status]; ok {
		return body
	}
	return fmt.Sprintf("Your order status has been updated to: %s", status)
}

func renderOrderStatusPush(ev Event) Rendered {
	e, ok := ev.(OrderStatusEvent)
	if !ok {
		return renderGenericPush(ev)
	}
	return Rendered{
		Title: "Order Update",
		Body:  orderStatusBody(e.Status),
		Data: map[string]interface{}{
			"url":      "/orders",
			"order_id": e.OrderID,
			"status":   e.Status,
		},
	}
}

func renderOrderStatusEmail(ev Event, tm *email.TemplateManager) (string, string, error) {
	e, ok := ev.(OrderStatusEvent)
	if !ok {
		return renderGenericEmail(ev, tm)
	}
	html, err := tm.Render("order_status", email.OrderStatusData{
		OrderRef:   ShortOrderRef(e.OrderID),
		Status:     e.Status,
		StatusLine: orderStatusBody(e.Status),
	})
	subject := fmt.Sprintf("Order update: %s — UniPlug", e.Status)
	return subject, html, err
}

// --- new_message ---

func truncatePreview(content string) string {
	runes := []rune(content)
	if len(runes) <= messagePreviewLimit {
		return content
	}
	return string(runes[:messagePreviewLimit-3]) + "..."
}

func renderNewMessagePush(ev Event) Rendered {
	e, ok := ev.(NewMessageEvent)
	if !ok {
		return renderGenericPush(ev)
	}
	return Rendered{
		Title: fmt.Sprintf("💬 New message from %s", e.SenderName),
		Body:  truncatePreview(e.MessagePreview),
		Data: map[string]interface{}{
			"url":       "/messages",
			"thread_id": e.ThreadID,
		},
	}
}

func renderNewMessageEmail(ev Event, tm *email.TemplateManager) (string, string, error) {
	e, ok := ev.(NewMessageEvent)
	if !ok {
		return renderGenericEmail(ev, tm)
	}
	html, err := tm.Render("new_message", email.NewMessageData{
		SenderName:     e.SenderName,
		MessagePreview: e.MessagePreview, // full content, email is the long-form channel
		ThreadURL:      "/messages",
	})
	subject := fmt.Sprintf("New message from %s — UniPlug", e.SenderName)
	return subject, html, err
}

// --- low_stock ---

func renderLowStockPush(ev Event) Rendered {
	e, ok := ev.(LowStockEvent)
	if !ok {
		return renderGenericPush(ev)
	}

	parts := make([]string, 0, len(e.Products))
	for _, p := range e.Products {
		parts = append(parts, fmt.Sprintf("%s: %s", p.Name, StockLabel(p.Stock)))
	}

	return Rendered{
		Title: "⚠️ Low Stock Alert",
		Body:  strings.Join(parts, ", "),
		Data: map[string]interface{}{
			"url": "/store/products",
		},
	}
}

func renderLowStockEmail(ev Event, tm *email.TemplateManager) (string, string, error) {
	e, ok := ev.(LowStockEvent)
	if !ok {
		return renderGenericEmail(ev, tm)
	}

	products := make([]email.LowStockItem, 0, len(e.Products))
	for _, p := range e.Products {
		products = append(products, email.LowStockItem{
			Name:  p.Name,
			Label: StockLabel(p.Stock),
		})
	}

	html, err := tm.Render("low_stock", email.LowStockData{
		StoreName: e.StoreName,
		Products:  products,
	})
	return "Low stock alert — UniPlug", html, err
}

// --- generic fallback ---

func renderGenericPush(ev Event) Rendered {
	title := "Notification"
	body := "You have a new notification"
	if e, ok := ev.(GenericEvent); ok {
		if e.Title != "" {
			title = e.Title
		}
		if e.Message != "" {
			body = e.Message
		}
	}
	return Rendered{Title: title, Body: body}
}

func renderGenericEmail(ev Event, tm *email.TemplateManager) (string, string, error) {
	rendered := renderGenericPush(ev)
	html, err := tm.Render("generic", email.GenericData{
		Title:   rendered.Title,
		Message: rendered.Body,
	})
	return rendered.Title + " — UniPlug", html, err
}

// pushPayload converts rendered content into the transport payload.
func pushPayload(rendered Rendered, eventType models.EventType) push.Payload {
	return push.Payload{
		Title: rendered.Title,
		Body:  rendered.Body,
		Icon:  "/icons/icon-192.png",
		Badge: "/icons/badge-72.png",
		Tag:   string(eventType),
		Data:  rendered.Data,
	}
}
