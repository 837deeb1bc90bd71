package validator

import (
	"log"

	"uniplug_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules wires domain-specific validation tags into the
// validator instance.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// A rule that fails to register is a startup configuration
			// error; refuse to run.
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-user-role", validateUserRole)
	mustRegister("is-event-type", validateEventType)
	mustRegister("is-channel", validateChannel)
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // 'required' covers empties
	}
	switch models.UserRole(value) {
	case models.UserRoleBuyer, models.UserRoleSeller, models.UserRoleAdmin:
		return true
	}
	return false
}

func validateEventType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.EventType(value) {
	case models.EventNewOrder, models.EventOrderStatus, models.EventNewMessage, models.EventLowStock:
		return true
	}
	return false
}

func validateChannel(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.Channel(value) {
	case models.ChannelPush, models.ChannelEmail:
		return true
	}
	return false
}
