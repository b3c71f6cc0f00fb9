package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/loyaltyscan/backend/internal/domain/entities"
	"github.com/loyaltyscan/backend/internal/domain/providers"
	"github.com/loyaltyscan/backend/internal/domain/repositories"
	apperrors "github.com/loyaltyscan/backend/pkg/errors"
)

// ShopService handles shop registration and the verification lifecycle.
type ShopService struct {
	shopRepo            repositories.ShopRepository
	userRepo            repositories.UserRepository
	eventBus            providers.EventBus
	notificationService *NotificationService
}

// NewShopService creates a new shop service
func NewShopService(shopRepo repositories.ShopRepository, userRepo repositories.UserRepository) *ShopService {
	return &ShopService{
		shopRepo: shopRepo,
		userRepo: userRepo,
	}
}

// SetEventBus wires an event bus for shop update broadcasts
func (s *ShopService) SetEventBus(eventBus providers.EventBus) {
	s.eventBus = eventBus
}

// SetNotificationService wires the fire-and-forget registration notification
func (s *ShopService) SetNotificationService(notificationService *NotificationService) {
	s.notificationService = notificationService
}

// RegisterShopInput carries the fields of a shop registration request.
type RegisterShopInput struct {
	Name         string
	Category     entities.ShopCategory
	OwnerID      string
	ContactEmail string
	// SecretCode is optional; when empty a random 4-digit code is generated.
	SecretCode string
}

// Register creates a new shop for an owner. The secret code is fixed here
// and never changes afterwards. Registration notifications are
// fire-and-forget: their outcome does not affect the stored shop.
func (s *ShopService) Register(ctx context.Context, input RegisterShopInput) (*entities.Shop, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("shop name is required")
	}
	if !input.Category.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown shop category %q", input.Category))
	}
	if strings.TrimSpace(input.ContactEmail) == "" {
		return nil, apperrors.NewValidationError("contact email is required")
	}

	owner, err := s.userRepo.GetByID(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}
	if !owner.Role.CanRegisterShops() {
		return nil, apperrors.NewUnauthorizedError("only owners can register shops")
	}

	secret := input.SecretCode
	if secret == "" {
		secret, err = generateSecretCode()
		if err != nil {
			return nil, apperrors.NewInternalError("failed to generate secret code", err)
		}
	}

	now := time.Now()
	shop := &entities.Shop{
		ID:           uuid.New().String(),
		Name:         name,
		Category:     input.Category,
		OwnerID:      owner.ID,
		ContactEmail: strings.TrimSpace(input.ContactEmail),
		Verification: entities.VerificationUnverified,
		SecretCode:   secret,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.shopRepo.Create(ctx, shop); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, shop, entities.ShopEventTypeRegistered, nil)

	if s.notificationService != nil {
		s.notificationService.SendShopRegistered(shop)
	}

	return shop, nil
}

// SubmitLicense moves an owner's shop from unverified to pending review.
func (s *ShopService) SubmitLicense(ctx context.Context, shopID, ownerID, license string) (*entities.Shop, error) {
	license = strings.TrimSpace(license)
	if license == "" {
		return nil, apperrors.NewValidationError("license number is required")
	}

	shop, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if shop.OwnerID != ownerID {
		return nil, apperrors.NewUnauthorizedError("shop belongs to a different owner")
	}

	if !shop.SubmitLicense(license) {
		return nil, apperrors.NewConflictError(fmt.Sprintf("shop is %s, license submission requires unverified", shop.Verification))
	}

	if err := s.shopRepo.Update(ctx, shop); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, shop, entities.ShopEventTypeVerificationChange, map[string]interface{}{
		"verification": shop.Verification,
	})

	return shop, nil
}

// Approve moves a pending shop to verified. Admin transitions are
// unconditional on admin action; only the source state is checked.
func (s *ShopService) Approve(ctx context.Context, shopID, adminID string) (*entities.Shop, error) {
	return s.adminTransition(ctx, shopID, adminID, "approve", (*entities.Shop).Approve)
}

// Reject returns a pending shop to unverified.
func (s *ShopService) Reject(ctx context.Context, shopID, adminID string) (*entities.Shop, error) {
	return s.adminTransition(ctx, shopID, adminID, "reject", (*entities.Shop).Reject)
}

// Revoke returns a verified shop to unverified. It shares Reject's
// transition: both end at unverified, from pending or verified.
func (s *ShopService) Revoke(ctx context.Context, shopID, adminID string) (*entities.Shop, error) {
	return s.adminTransition(ctx, shopID, adminID, "revoke", (*entities.Shop).Reject)
}

func (s *ShopService) adminTransition(ctx context.Context, shopID, adminID, action string, transition func(*entities.Shop) bool) (*entities.Shop, error) {
	admin, err := s.userRepo.GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if !admin.Role.CanReviewShops() {
		return nil, apperrors.NewUnauthorizedError("only admins can review shops")
	}

	shop, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}

	if !transition(shop) {
		return nil, apperrors.NewConflictError(fmt.Sprintf("cannot %s a %s shop", action, shop.Verification))
	}

	if err := s.shopRepo.Update(ctx, shop); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, shop, entities.ShopEventTypeVerificationChange, map[string]interface{}{
		"verification": shop.Verification,
		"action":       action,
	})

	return shop, nil
}

// GetByID retrieves a shop by ID
func (s *ShopService) GetByID(ctx context.Context, shopID string) (*entities.Shop, error) {
	return s.shopRepo.GetByID(ctx, shopID)
}

// ListByOwner retrieves all shops registered by an owner
func (s *ShopService) ListByOwner(ctx context.Context, ownerID string) ([]*entities.Shop, error) {
	return s.shopRepo.ListByOwner(ctx, ownerID)
}

// ListForReview retrieves the shops an admin reviews: those pending
// approval plus those already verified.
func (s *ShopService) ListForReview(ctx context.Context, adminID string) ([]*entities.Shop, error) {
	admin, err := s.userRepo.GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if !admin.Role.CanReviewShops() {
		return nil, apperrors.NewUnauthorizedError("only admins can review shops")
	}

	return s.shopRepo.ListByVerification(ctx, entities.VerificationPending, entities.VerificationVerified)
}

func (s *ShopService) publishEvent(ctx context.Context, shop *entities.Shop, eventType entities.ShopEventType, changed map[string]interface{}) {
	if s.eventBus == nil {
		return
	}

	event := entities.NewShopEvent(shop.ID, eventType, changed)
	if err := s.eventBus.Publish(ctx, providers.EventChannelShopUpdates, event); err != nil {
		log.Warn().Err(err).Str("shop_id", shop.ID).Msg("failed to publish shop event")
	}
}

// generateSecretCode returns a random 4-digit decimal code, zero-padded.
func generateSecretCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}
