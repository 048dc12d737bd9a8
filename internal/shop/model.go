package shop

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
)

const (
	EventsQueue         = "shop.events"
	EventProductCreated = "product_created"
	EventOrderCreated   = "order_created"
)

// Product is a catalog entry. Products are write-once: they are never
// updated or deleted after creation.
type Product struct {
	ID          string  `json:"id" example:"prod_000001"`
	Name        string  `json:"name" example:"iPhone 14"`
	Description string  `json:"description" example:"A16 Bionic"`
	Price       float64 `json:"price" example:"999.99"`
	Size        string  `json:"size" example:"large"`
}

// Order references products by id. Product existence is checked once at
// creation time; Total is supplied by the caller and stored as given
// (rounded), never recomputed from catalog prices.
type Order struct {
	ID        string    `json:"id" example:"order_000001"`
	UserID    string    `json:"user_id" example:"user123"`
	Products  []string  `json:"products" example:"prod_000001"`
	Total     float64   `json:"total" example:"999.99"`
	CreatedAt time.Time `json:"created_at" example:"2026-02-24T12:00:00Z"`
}

// Event is published to EventsQueue after a record is created.
type Event struct {
	EventType string    `json:"event_type"`
	EntityID  string    `json:"entity_id"`
	UserID    string    `json:"user_id,omitempty"`
	Name      string    `json:"name,omitempty"`
	Total     float64   `json:"total,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ValidationError marks a client-caused input error. Its message names
// the violated constraint and is safe to echo on the wire.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func Invalid(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Round normalizes monetary values to 2 fractional digits.
func Round(v float64) float64 {
	return math.Round(v*100) / 100
}
