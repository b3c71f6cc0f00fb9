package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loyaltyscan/backend/internal/application/services"
	"github.com/loyaltyscan/backend/internal/domain/calendar"
	apperrors "github.com/loyaltyscan/backend/pkg/errors"
)

func newDashboard(repo *fakeVisitRepo, now time.Time) *services.DashboardService {
	cal := calendar.New(time.UTC)
	eligibility := services.NewEligibilityService(repo, cal, 6)
	eligibility.SetClock(func() time.Time { return now })

	svc := services.NewDashboardService(newFakeShopRepo(sunnysPizza()), repo, eligibility, cal)
	svc.SetClock(func() time.Time { return now })
	return svc
}

func TestDashboardService_ForShop(t *testing.T) {
	// Saturday evening of the week starting Sunday 2026-03-01.
	saturday := weekStart.AddDate(0, 0, 6).Add(19 * time.Hour)

	t.Run("aggregates visits and eligible customers", func(t *testing.T) {
		repo := &fakeVisitRepo{}
		// cust-1 visits Monday through Saturday and qualifies; cust-2 visits
		// twice and does not.
		for day := 1; day <= 6; day++ {
			repo.visits = append(repo.visits, visitAt("cust-1", "shop-sunny", weekStart.AddDate(0, 0, day)))
		}
		repo.visits = append(repo.visits,
			visitAt("cust-2", "shop-sunny", weekStart.AddDate(0, 0, 2)),
			visitAt("cust-2", "shop-sunny", weekStart.AddDate(0, 0, 4)),
		)
		// A visit from a previous week counts toward the total only.
		repo.visits = append(repo.visits, visitAt("cust-3", "shop-sunny", weekStart.AddDate(0, 0, -3)))

		svc := newDashboard(repo, saturday)

		dashboard, err := svc.ForShop(context.Background(), "shop-sunny", "owner-1")
		require.NoError(t, err)

		assert.Equal(t, 9, dashboard.TotalVisits)
		assert.Equal(t, 2, dashboard.WeekCustomers)
		assert.Equal(t, 1, dashboard.EligibleCustomers)
		assert.Equal(t, "2026-03-01", dashboard.WeekStart)
	})

	t.Run("empty shop yields zeros", func(t *testing.T) {
		svc := newDashboard(&fakeVisitRepo{}, saturday)

		dashboard, err := svc.ForShop(context.Background(), "shop-sunny", "owner-1")
		require.NoError(t, err)

		assert.Equal(t, 0, dashboard.TotalVisits)
		assert.Equal(t, 0, dashboard.WeekCustomers)
		assert.Equal(t, 0, dashboard.EligibleCustomers)
	})

	t.Run("other owners cannot read the dashboard", func(t *testing.T) {
		svc := newDashboard(&fakeVisitRepo{}, saturday)

		_, err := svc.ForShop(context.Background(), "shop-sunny", "owner-2")
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthorized))
	})

	t.Run("unknown shop is not found", func(t *testing.T) {
		svc := newDashboard(&fakeVisitRepo{}, saturday)

		_, err := svc.ForShop(context.Background(), "shop-missing", "owner-1")
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	})

	t.Run("serves the cached dashboard while fresh", func(t *testing.T) {
		repo := &fakeVisitRepo{}
		repo.visits = append(repo.visits, visitAt("cust-1", "shop-sunny", weekStart.AddDate(0, 0, 1)))

		svc := newDashboard(repo, saturday)
		cache := newFakeCache()
		svc.SetCache(cache)

		first, err := svc.ForShop(context.Background(), "shop-sunny", "owner-1")
		require.NoError(t, err)
		assert.Equal(t, 1, first.TotalVisits)

		// A new visit lands but the cached aggregate is still served.
		repo.visits = append(repo.visits, visitAt("cust-2", "shop-sunny", weekStart.AddDate(0, 0, 2)))

		second, err := svc.ForShop(context.Background(), "shop-sunny", "owner-1")
		require.NoError(t, err)
		assert.Equal(t, 1, second.TotalVisits)
	})
}
