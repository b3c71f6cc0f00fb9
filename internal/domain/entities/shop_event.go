package entities

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// ShopEventType represents the type of shop event
type ShopEventType string

const (
	ShopEventTypeRegistered         ShopEventType = "registered"
	ShopEventTypeVerificationChange ShopEventType = "verification_change"
	ShopEventTypeVisitRecorded      ShopEventType = "visit_recorded"
)

// ShopEvent represents a state change broadcast over the event bus. Cache
// invalidation and the notification pipeline both consume these.
type ShopEvent struct {
	ID            string                 `json:"id"`
	ShopID        string                 `json:"shop_id"`
	EventType     ShopEventType          `json:"event_type"`
	Timestamp     time.Time              `json:"timestamp"`
	ChangedFields map[string]interface{} `json:"changed_fields,omitempty"`
}

// NewShopEvent creates a new shop event
func NewShopEvent(shopID string, eventType ShopEventType, changedFields map[string]interface{}) *ShopEvent {
	return &ShopEvent{
		ID:            generateEventID(),
		ShopID:        shopID,
		EventType:     eventType,
		Timestamp:     time.Now(),
		ChangedFields: changedFields,
	}
}

// generateEventID generates a unique event ID
func generateEventID() string {
	return time.Now().Format("20060102150405") + "-" + randomString(8)
}

// randomString generates a random hex string of the given length
func randomString(length int) string {
	bytes := make([]byte, length/2+1)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp-based if crypto/rand fails
		return time.Now().Format("150405.000")
	}
	return hex.EncodeToString(bytes)[:length]
}
