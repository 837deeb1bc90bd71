package models

type UserStatus string
type UserRole string
type Channel string
type EventType string
type OrderStatus string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"

	UserRoleBuyer  UserRole = "buyer"
	UserRoleSeller UserRole = "seller"
	UserRoleAdmin  UserRole = "admin"

	// Delivery channels
	ChannelPush  Channel = "push"
	ChannelEmail Channel = "email"

	// Logical notification events
	EventNewOrder    EventType = "new_order"
	EventOrderStatus EventType = "order_status"
	EventNewMessage  EventType = "new_message"
	EventLowStock    EventType = "low_stock"
	EventGeneral     EventType = "general"

	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)
