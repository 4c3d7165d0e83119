package models

import "time"

type Inquiry struct {
	ID        string    `json:"id" db:"id"`
	BookingID string    `json:"booking" db:"booking_id"`
	UserID    string    `json:"user" db:"user_id"`
	Message   string    `json:"message" db:"message"`
	Response  string    `json:"response" db:"response"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

type InquiryStatus string

const (
	InquiryStatusPending   InquiryStatus = "pending"
	InquiryStatusResponded InquiryStatus = "responded"
)

type SubmitInquiryRequest struct {
	BookingID string `json:"bookingId" validate:"required"`
	Message   string `json:"message" validate:"required,max=5000"`
}

type RespondInquiryRequest struct {
	Response string `json:"response" validate:"required,max=5000"`
}
