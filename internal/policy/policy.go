// Package policy decides which role may perform which action.
package policy

import "rental-booking/internal/models"

type Action string

const (
	BookingCreate     Action = "booking:create"
	BookingReadOwn    Action = "booking:read-own"
	BookingUpdateOwn  Action = "booking:update-own"
	BookingDeleteOwn  Action = "booking:delete-own"
	BookingListAll    Action = "booking:list-all"
	BookingTransition Action = "booking:transition"

	InquirySubmit  Action = "inquiry:submit"
	InquiryListOwn Action = "inquiry:list-own"
	InquiryListAll Action = "inquiry:list-all"
	InquiryRespond Action = "inquiry:respond"

	PropertySubmit   Action = "property:submit"
	PropertyModerate Action = "property:moderate"
)

var adminOnly = map[Action]bool{
	BookingListAll:    true,
	BookingTransition: true,
	InquiryListAll:    true,
	InquiryRespond:    true,
	PropertyModerate:  true,
}

var known = map[Action]bool{
	BookingCreate:     true,
	BookingReadOwn:    true,
	BookingUpdateOwn:  true,
	BookingDeleteOwn:  true,
	BookingListAll:    true,
	BookingTransition: true,
	InquirySubmit:     true,
	InquiryListOwn:    true,
	InquiryListAll:    true,
	InquiryRespond:    true,
	PropertySubmit:    true,
	PropertyModerate:  true,
}

// CanPerform reports whether role may perform action. Unknown roles and
// unknown actions are always denied.
func CanPerform(role models.UserRole, action Action) bool {
	if !known[action] {
		return false
	}
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleUser:
		return !adminOnly[action]
	default:
		return false
	}
}
