package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type Booking struct {
	ID         string          `json:"id" db:"id"`
	UserID     string          `json:"user" db:"user_id"`
	PropertyID string          `json:"property" db:"property_id"`
	StartDate  time.Time       `json:"startDate" db:"start_date"`
	EndDate    time.Time       `json:"endDate" db:"end_date"`
	Price      float64         `json:"price" db:"price"`
	Status     string          `json:"status" db:"status"`
	Contact    *ContactDetails `json:"contact,omitempty" db:"contact"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time       `json:"updatedAt" db:"updated_at"`
}

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusRejected  BookingStatus = "rejected"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusRejected:
		return true
	}
	return false
}

// ContactDetails is the guest contact form older clients attach to a booking.
// It is stored as a JSON document in the contact column and never edited
// after creation.
type ContactDetails struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	Age       int    `json:"age" validate:"gte=0,lte=150"`
	Address   string `json:"address" validate:"required"`
	NIC       string `json:"nic" validate:"required"`
}

func (c ContactDetails) Value() (driver.Value, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (c *ContactDetails) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return errors.New("unsupported contact column type")
	}
}

type CreateBookingRequest struct {
	PropertyID string          `json:"propertyId" validate:"required"`
	StartDate  string          `json:"startDate" validate:"required"`
	EndDate    string          `json:"endDate" validate:"required"`
	Contact    *ContactDetails `json:"contact,omitempty"`
}

// UpdateBookingRequest only carries the date range; identity fields are fixed
// once a booking is linked to a user.
type UpdateBookingRequest struct {
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
}

// CanTransitionTo reports whether an admin may move a booking from s to next.
// confirmed and rejected are terminal.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	return s == BookingStatusPending && (next == BookingStatusConfirmed || next == BookingStatusRejected)
}
