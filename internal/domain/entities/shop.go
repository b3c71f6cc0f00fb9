package entities

import (
	"time"
)

// ShopCategory represents the business category of a shop
type ShopCategory string

const (
	ShopCategoryFastFood ShopCategory = "fast-food"
	ShopCategoryHotel    ShopCategory = "hotel"
	ShopCategoryRetail   ShopCategory = "retail"
)

// Valid reports whether the category is one of the known variants.
func (c ShopCategory) Valid() bool {
	switch c {
	case ShopCategoryFastFood, ShopCategoryHotel, ShopCategoryRetail:
		return true
	}
	return false
}

// VerificationState is a shop's trust-badge lifecycle. It is independent of
// the shop's ability to record visits.
type VerificationState string

const (
	VerificationUnverified VerificationState = "unverified"
	VerificationPending    VerificationState = "pending"
	VerificationVerified   VerificationState = "verified"
)

// Shop represents a registered business location. The secret code is fixed
// at creation; only the verification fields change afterwards.
type Shop struct {
	ID            string            `json:"id" db:"id"`
	Name          string            `json:"name" db:"name"`
	Category      ShopCategory      `json:"category" db:"category"`
	OwnerID       string            `json:"owner_id" db:"owner_id"`
	ContactEmail  string            `json:"contact_email" db:"contact_email"`
	Verification  VerificationState `json:"verification" db:"verification"`
	LicenseNumber string            `json:"license_number,omitempty" db:"license_number"`
	// SecretCode is a shared, non-cryptographic string the shop hands to
	// customers to confirm in-person presence. Never a security control.
	SecretCode string    `json:"-" db:"secret_code"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// SubmitLicense moves the shop from unverified to pending review.
func (s *Shop) SubmitLicense(license string) bool {
	if s.Verification != VerificationUnverified || license == "" {
		return false
	}
	s.LicenseNumber = license
	s.Verification = VerificationPending
	return true
}

// Approve moves a pending shop to verified. Only pending shops can be
// approved; verified->pending is not reachable.
func (s *Shop) Approve() bool {
	if s.Verification != VerificationPending {
		return false
	}
	s.Verification = VerificationVerified
	return true
}

// Reject returns a pending or verified shop to unverified.
func (s *Shop) Reject() bool {
	if s.Verification != VerificationPending && s.Verification != VerificationVerified {
		return false
	}
	s.Verification = VerificationUnverified
	return true
}
