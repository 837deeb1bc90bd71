package services

import (
	"fmt"

	"uniplug_backend/internal/models"
)

// Event is one logical notification event. Each variant carries its own
// required fields; adding an event type means adding a variant and a row
// in the render table, not a new branch in the dispatcher.
type Event interface {
	Type() models.EventType
}

type OrderItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// NewOrderEvent notifies a seller about an incoming order.
type NewOrderEvent struct {
	OrderID string      `json:"order_id"`
	Amount  float64     `json:"amount"`
	Items   []OrderItem `json:"items,omitempty"`
}

func (NewOrderEvent) Type() models.EventType { return models.EventNewOrder }

// OrderStatusEvent notifies a buyer that their order moved to a new status.
type OrderStatusEvent struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

func (OrderStatusEvent) Type() models.EventType { return models.EventOrderStatus }

// NewMessageEvent notifies a user about an incoming chat message.
type NewMessageEvent struct {
	SenderName     string `json:"sender_name"`
	MessagePreview string `json:"message_preview"`
	ThreadID       string `json:"thread_id,omitempty"`
}

func (NewMessageEvent) Type() models.EventType { return models.EventNewMessage }

type LowStockProduct struct {
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

// LowStockEvent notifies a store owner about products running low.
type LowStockEvent struct {
	StoreName string            `json:"store_name,omitempty"`
	Products  []LowStockProduct `json:"products"`
}

func (LowStockEvent) Type() models.EventType { return models.EventLowStock }

// GenericEvent is the fallback for unrecognized event types: dispatch
// never blocks on an unknown event.
type GenericEvent struct {
	Title   string `json:"title,omitempty"`
	Message string `json:"message,omitempty"`
}

func (GenericEvent) Type() models.EventType { return models.EventGeneral }

// ShortOrderRef returns the first 8 characters of an order id, the form
// shown to users everywhere an order is referenced.
func ShortOrderRef(orderID string) string {
	if len(orderID) > 8 {
		return orderID[:8]
	}
	return orderID
}

// StockLabel renders a remaining-stock count the way every surface
// displays it: exactly 0 is "Out of Stock", anything else "<n> left".
func StockLabel(stock int) string {
	if stock == 0 {
		return "Out of Stock"
	}
	return fmt.Sprintf("%d left", stock)
}
