package entities

import (
	"time"
)

// Visit is evidence that a customer attended a shop on a calendar day.
// Visits are append-only: never mutated, never deleted.
type Visit struct {
	ID         string `json:"id" db:"id"`
	ShopID     string `json:"shop_id" db:"shop_id"`
	CustomerID string `json:"customer_id" db:"customer_id"`
	// RecordedAt carries the caller-chosen calendar date combined with the
	// time of day the record was created, so same-day visits keep their
	// ordering while the date always reflects the customer's choice.
	RecordedAt     time.Time `json:"recorded_at" db:"recorded_at"`
	TransactionRef string    `json:"transaction_ref,omitempty" db:"transaction_ref"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
