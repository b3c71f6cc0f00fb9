package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/loyaltyscan/backend/internal/domain/calendar"
	"github.com/loyaltyscan/backend/internal/domain/entities"
	"github.com/loyaltyscan/backend/internal/domain/providers"
	"github.com/loyaltyscan/backend/internal/domain/repositories"
	apperrors "github.com/loyaltyscan/backend/pkg/errors"
	"github.com/loyaltyscan/backend/pkg/scantoken"
)

// VisitService validates and appends visit records, enforcing the
// one-visit-per-day-per-shop rule.
type VisitService struct {
	visitRepo          repositories.VisitRepository
	shopRepo           repositories.ShopRepository
	userRepo           repositories.UserRepository
	cal                *calendar.Calendar
	rejectFutureVisits bool
	eventBus           providers.EventBus
	now                func() time.Time
}

// NewVisitService creates a new visit service
func NewVisitService(
	visitRepo repositories.VisitRepository,
	shopRepo repositories.ShopRepository,
	userRepo repositories.UserRepository,
	cal *calendar.Calendar,
	rejectFutureVisits bool,
) *VisitService {
	return &VisitService{
		visitRepo:          visitRepo,
		shopRepo:           shopRepo,
		userRepo:           userRepo,
		cal:                cal,
		rejectFutureVisits: rejectFutureVisits,
		now:                time.Now,
	}
}

// SetEventBus wires an event bus for visit-recorded broadcasts
func (s *VisitService) SetEventBus(eventBus providers.EventBus) {
	s.eventBus = eventBus
}

// SetClock overrides the time source. Tests use this to pin "now".
func (s *VisitService) SetClock(now func() time.Time) {
	s.now = now
}

// RecordVisitInput carries the fields of a check-in request.
type RecordVisitInput struct {
	CustomerID     string
	ShopID         string
	SecretCode     string
	TransactionRef string
	// VisitDate is the calendar date the customer claims for the visit. A
	// zero value means today.
	VisitDate time.Time
}

// RecordVisit validates and appends a new visit record. The customer must
// hold the customer role, the shop must exist, the secret must match
// exactly, and the customer must not already have a visit on the same
// calendar day. On success the stored timestamp is the chosen date combined
// with the current time of day. The transaction reference is stored as
// given, unvalidated free text.
func (s *VisitService) RecordVisit(ctx context.Context, input RecordVisitInput) (*entities.Visit, error) {
	if input.CustomerID == "" {
		return nil, apperrors.NewValidationError("customer id is required")
	}
	if input.ShopID == "" {
		return nil, apperrors.NewValidationError("shop id is required")
	}

	customer, err := s.userRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if !customer.Role.CanCheckIn() {
		return nil, apperrors.NewUnauthorizedError("only customers can check in")
	}

	shop, err := s.shopRepo.GetByID(ctx, input.ShopID)
	if err != nil {
		return nil, err
	}

	// Exact, case-sensitive match. The code confirms in-person presence; it
	// is not an authentication secret.
	if input.SecretCode != shop.SecretCode {
		return nil, apperrors.NewUnauthorizedError("secret code does not match")
	}

	now := s.now()
	visitDate := input.VisitDate
	if visitDate.IsZero() {
		visitDate = now
	}

	if s.rejectFutureVisits && s.cal.DayStart(visitDate).After(s.cal.DayStart(now)) {
		return nil, apperrors.NewValidationError("visit date cannot be in the future")
	}

	recordedAt := s.cal.CombineDateAndTime(visitDate, now)

	dayWindow := s.cal.DayWindow(recordedAt)
	exists, err := s.visitRepo.ExistsInWindow(ctx, input.CustomerID, shop.ID, dayWindow.Start, dayWindow.End)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewConflictError("a visit for this day is already recorded")
	}

	visit := &entities.Visit{
		ID:             uuid.New().String(),
		ShopID:         shop.ID,
		CustomerID:     input.CustomerID,
		RecordedAt:     recordedAt,
		TransactionRef: input.TransactionRef,
		CreatedAt:      now,
	}

	if err := s.visitRepo.Create(ctx, visit); err != nil {
		return nil, err
	}

	s.publishVisitRecorded(ctx, visit)

	return visit, nil
}

// DirectCheckInInput carries a check-in whose shop reference comes from a
// scanned token or manual entry rather than an already-resolved shop ID.
type DirectCheckInInput struct {
	CustomerID string
	// Code is either a scan token ("loyalty_scan:<shopId>") or a manually
	// typed shop ID.
	Code           string
	SecretCode     string
	TransactionRef string
	VisitDate      time.Time
}

// DirectCheckIn resolves the shop ID from scanned or typed input, then
// applies the same validation as RecordVisit. The two paths differ only in
// where the shop reference originates.
func (s *VisitService) DirectCheckIn(ctx context.Context, input DirectCheckInInput) (*entities.Visit, error) {
	code := strings.TrimSpace(input.Code)
	if code == "" {
		return nil, apperrors.NewValidationError("shop code is required")
	}

	shopID := code
	if scantoken.IsToken(code) {
		decoded, err := scantoken.Decode(code)
		if err != nil {
			return nil, apperrors.NewValidationError("malformed scan token")
		}
		shopID = decoded
	}

	return s.RecordVisit(ctx, RecordVisitInput{
		CustomerID:     input.CustomerID,
		ShopID:         shopID,
		SecretCode:     input.SecretCode,
		TransactionRef: input.TransactionRef,
		VisitDate:      input.VisitDate,
	})
}

func (s *VisitService) publishVisitRecorded(ctx context.Context, visit *entities.Visit) {
	if s.eventBus == nil {
		return
	}

	event := entities.NewShopEvent(visit.ShopID, entities.ShopEventTypeVisitRecorded, map[string]interface{}{
		"visit_id":    visit.ID,
		"customer_id": visit.CustomerID,
	})
	if err := s.eventBus.Publish(ctx, providers.EventChannelShopUpdates, event); err != nil {
		log.Warn().Err(err).Str("shop_id", visit.ShopID).Msg("failed to publish visit event")
	}
}
