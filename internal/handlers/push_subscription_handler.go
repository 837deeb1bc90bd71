package handlers

import (
	"net/http"

	"uniplug_backend/internal/middleware"
	"uniplug_backend/internal/services"
	"uniplug_backend/internal/services/dto"
	"uniplug_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type PushSubscriptionHandler struct {
	*BaseHandler
	subscriptionService services.PushSubscriptionService
	vapidPublicKey      string
}

func NewPushSubscriptionHandler(base *BaseHandler, subscriptionService services.PushSubscriptionService, vapidPublicKey string) *PushSubscriptionHandler {
	return &PushSubscriptionHandler{
		BaseHandler:         base,
		subscriptionService: subscriptionService,
		vapidPublicKey:      vapidPublicKey,
	}
}

func (h *PushSubscriptionHandler) RegisterRoutes(r *gin.RouterGroup) {
	push := r.Group("/push")
	{
		// The public key is needed before the client can subscribe.
		push.GET("/vapid-public-key", h.GetVAPIDPublicKey)

		protected := push.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.POST("/subscriptions", h.Subscribe)
			protected.DELETE("/subscriptions", h.Unsubscribe)
			protected.GET("/subscriptions", h.ListSubscriptions)
			protected.GET("/subscriptions/verify", h.VerifySubscription)
		}
	}
}

func (h *PushSubscriptionHandler) GetVAPIDPublicKey(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"public_key": h.vapidPublicKey})
}

func (h *PushSubscriptionHandler) Subscribe(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SubscribeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	sub, err := h.subscriptionService.Subscribe(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	// Re-sent registrations update the existing row, so 200 fits better
	// than 201.
	c.JSON(http.StatusOK, gin.H{
		"message":  "Subscription saved",
		"endpoint": sub.Endpoint,
	})
}

func (h *PushSubscriptionHandler) Unsubscribe(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UnsubscribeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.subscriptionService.Unsubscribe(userID, req.Endpoint); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscription removed"})
}

func (h *PushSubscriptionHandler) ListSubscriptions(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	subs, err := h.subscriptionService.ListForUser(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subscriptions": subs,
		"total":         len(subs),
	})
}

// VerifySubscription lets a device check whether its registration is
// still present server-side.
func (h *PushSubscriptionHandler) VerifySubscription(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	endpoint := c.Query("endpoint")
	if endpoint == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Missing required query parameter: endpoint"))
		return
	}

	exists, err := h.subscriptionService.Verify(userID, endpoint)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscribed": exists})
}
