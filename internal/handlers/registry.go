package handlers

// AppHandlers holds every HTTP handler of the application.
type AppHandlers struct {
	AuthHandler             *AuthHandler
	PushSubscriptionHandler *PushSubscriptionHandler
	NotificationHandler     *NotificationHandler
}
