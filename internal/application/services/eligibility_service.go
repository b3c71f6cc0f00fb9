package services

import (
	"context"
	"time"

	"github.com/loyaltyscan/backend/internal/domain/calendar"
	"github.com/loyaltyscan/backend/internal/domain/repositories"
)

// EligibilityService computes weekly unique-visit-day sets and reward
// eligibility. It is read-only over the visit records and deterministic
// given the record set and the clock.
type EligibilityService struct {
	visitRepo repositories.VisitRepository
	cal       *calendar.Calendar
	threshold int
	now       func() time.Time
}

// NewEligibilityService creates a new eligibility service. threshold is the
// number of distinct visit days in one week that unlocks the reward.
func NewEligibilityService(visitRepo repositories.VisitRepository, cal *calendar.Calendar, threshold int) *EligibilityService {
	return &EligibilityService{
		visitRepo: visitRepo,
		cal:       cal,
		threshold: threshold,
		now:       time.Now,
	}
}

// SetClock overrides the time source. Tests use this to pin "now".
func (s *EligibilityService) SetClock(now func() time.Time) {
	s.now = now
}

// UniqueVisitDays returns the sorted distinct calendar-day identifiers on
// which the customer visited the shop within the week starting at weekStart.
// Multiple visits on one day collapse to a single entry.
func (s *EligibilityService) UniqueVisitDays(ctx context.Context, customerID, shopID string, weekStart time.Time) ([]string, error) {
	window := s.cal.WeekWindow(weekStart)

	visits, err := s.visitRepo.ListByCustomerAndShop(ctx, customerID, shopID, window.Start, window.End)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(visits))
	var days []string
	for _, visit := range visits {
		key := s.cal.DayKey(visit.RecordedAt)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		days = append(days, key)
	}

	return days, nil
}

// IsEligible reports whether the customer has reached the reward threshold
// at the shop in the current week. Eligibility always evaluates against the
// week containing "now": there is no carry-over and no historical ledger, so
// a new week recomputes from zero.
func (s *EligibilityService) IsEligible(ctx context.Context, customerID, shopID string) (bool, error) {
	days, err := s.UniqueVisitDays(ctx, customerID, shopID, s.cal.WeekStart(s.now()))
	if err != nil {
		return false, err
	}
	return len(days) >= s.threshold, nil
}

// WeekCalendar describes a customer's progress at one shop for the current
// week.
type WeekCalendar struct {
	WeekStart string   `json:"week_start"`
	VisitDays []string `json:"visit_days"`
	Threshold int      `json:"threshold"`
	Eligible  bool     `json:"eligible"`
}

// CurrentWeek returns the customer's current-week calendar for a shop.
func (s *EligibilityService) CurrentWeek(ctx context.Context, customerID, shopID string) (*WeekCalendar, error) {
	weekStart := s.cal.WeekStart(s.now())

	days, err := s.UniqueVisitDays(ctx, customerID, shopID, weekStart)
	if err != nil {
		return nil, err
	}

	return &WeekCalendar{
		WeekStart: s.cal.DayKey(weekStart),
		VisitDays: days,
		Threshold: s.threshold,
		Eligible:  len(days) >= s.threshold,
	}, nil
}
