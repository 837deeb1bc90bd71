package services

// ServiceContainer holds every service of the application.
type ServiceContainer struct {
	AuthService             AuthService
	PushSubscriptionService PushSubscriptionService
	NotificationService     NotificationService
	DispatchService         DispatchService
}
