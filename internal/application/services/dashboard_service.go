package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/loyaltyscan/backend/internal/domain/calendar"
	"github.com/loyaltyscan/backend/internal/domain/providers"
	"github.com/loyaltyscan/backend/internal/domain/repositories"
	apperrors "github.com/loyaltyscan/backend/pkg/errors"
)

const dashboardTTL = 60 // seconds; dashboards tolerate slightly stale counts

// ShopDashboard aggregates what an owner sees for one shop.
type ShopDashboard struct {
	ShopID            string `json:"shop_id"`
	TotalVisits       int    `json:"total_visits"`
	WeekCustomers     int    `json:"week_customers"`
	EligibleCustomers int    `json:"eligible_customers"`
	WeekStart         string `json:"week_start"`
}

// DashboardService computes owner-facing aggregates: total scan counts and
// per-shop eligible-customer counts for the current week.
type DashboardService struct {
	shopRepo    repositories.ShopRepository
	visitRepo   repositories.VisitRepository
	eligibility *EligibilityService
	cal         *calendar.Calendar
	cache       providers.CacheProvider
	now         func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	shopRepo repositories.ShopRepository,
	visitRepo repositories.VisitRepository,
	eligibility *EligibilityService,
	cal *calendar.Calendar,
) *DashboardService {
	return &DashboardService{
		shopRepo:    shopRepo,
		visitRepo:   visitRepo,
		eligibility: eligibility,
		cal:         cal,
		now:         time.Now,
	}
}

// SetCache wires an optional cache for computed dashboards
func (s *DashboardService) SetCache(cache providers.CacheProvider) {
	s.cache = cache
}

// SetClock overrides the time source. Tests use this to pin "now".
func (s *DashboardService) SetClock(now func() time.Time) {
	s.now = now
}

func dashboardCacheKey(shopID string) string {
	return fmt.Sprintf("dashboard:shop:%s", shopID)
}

// ForShop computes the dashboard for one of the owner's shops.
func (s *DashboardService) ForShop(ctx context.Context, shopID, ownerID string) (*ShopDashboard, error) {
	shop, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if shop.OwnerID != ownerID {
		return nil, apperrors.NewUnauthorizedError("shop belongs to a different owner")
	}

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, dashboardCacheKey(shopID)); err == nil {
			var dashboard ShopDashboard
			if err := json.Unmarshal(cached, &dashboard); err == nil {
				return &dashboard, nil
			}
		}
	}

	dashboard, err := s.compute(ctx, shopID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(dashboard); err == nil {
			if err := s.cache.Set(ctx, dashboardCacheKey(shopID), data, dashboardTTL); err != nil {
				log.Warn().Err(err).Str("shop_id", shopID).Msg("failed to cache dashboard")
			}
		}
	}

	return dashboard, nil
}

func (s *DashboardService) compute(ctx context.Context, shopID string) (*ShopDashboard, error) {
	totalVisits, err := s.visitRepo.CountByShop(ctx, shopID)
	if err != nil {
		return nil, err
	}

	weekStart := s.cal.WeekStart(s.now())
	window := s.cal.WeekWindow(weekStart)

	customers, err := s.visitRepo.ListCustomersByShop(ctx, shopID, window.Start, window.End)
	if err != nil {
		return nil, err
	}

	eligible := 0
	for _, customerID := range customers {
		ok, err := s.eligibility.IsEligible(ctx, customerID, shopID)
		if err != nil {
			return nil, err
		}
		if ok {
			eligible++
		}
	}

	return &ShopDashboard{
		ShopID:            shopID,
		TotalVisits:       totalVisits,
		WeekCustomers:     len(customers),
		EligibleCustomers: eligible,
		WeekStart:         s.cal.DayKey(weekStart),
	}, nil
}
