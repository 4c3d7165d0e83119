package services

import (
	"fmt"

	"rental-booking/internal/models"
	"rental-booking/internal/policy"
)

func authorize(actor models.Actor, action policy.Action) error {
	if actor.UserID == "" {
		return fmt.Errorf("%w: user not authenticated", ErrUnauthorized)
	}
	if !policy.CanPerform(actor.Role, action) {
		return fmt.Errorf("%w: insufficient permissions for %s", ErrForbidden, action)
	}
	return nil
}
