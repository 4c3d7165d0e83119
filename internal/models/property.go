package models

import "time"

type Property struct {
	ID                 string    `json:"id" db:"id"`
	Title              string    `json:"title" db:"title"`
	Description        string    `json:"description" db:"description"`
	ContactName        string    `json:"contactName" db:"contact_name"`
	ContactNumber      string    `json:"contactNumber" db:"contact_number"`
	PropertyType       string    `json:"propertyType" db:"property_type"`
	Price              float64   `json:"price" db:"price"`
	District           string    `json:"district" db:"district"`
	Image              string    `json:"image,omitempty" db:"image"`
	Status             string    `json:"status" db:"status"`
	RequestType        string    `json:"requestType" db:"request_type"`
	OriginalPropertyID *string   `json:"originalPropertyId,omitempty" db:"original_property_id"`
	CreatedAt          time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time `json:"updatedAt" db:"updated_at"`
}

type PropertyType string

const (
	PropertyTypeRent    PropertyType = "rent"
	PropertyTypeSelling PropertyType = "selling"
)

type PropertyStatus string

const (
	PropertyStatusPending  PropertyStatus = "pending"
	PropertyStatusApproved PropertyStatus = "approved"
)

type RequestType string

const (
	RequestTypeAdd    RequestType = "add"
	RequestTypeUpdate RequestType = "update"
	RequestTypeDelete RequestType = "delete"
)

// PropertyInput is the body of add and update requests.
type PropertyInput struct {
	Title         string  `json:"title" validate:"required,min=3,max=255"`
	Description   string  `json:"description" validate:"required,min=10"`
	ContactName   string  `json:"contactName" validate:"required,max=255"`
	ContactNumber string  `json:"contactNumber" validate:"required,numeric,len=10"`
	PropertyType  string  `json:"propertyType" validate:"required,oneof=rent selling"`
	Price         float64 `json:"price" validate:"gte=0"`
	District      string  `json:"district" validate:"required,max=100"`
	Image         string  `json:"image" validate:"max=512"`
}

type PropertyFilter struct {
	District     string
	PropertyType string
	MinPrice     *float64
	MaxPrice     *float64
}
