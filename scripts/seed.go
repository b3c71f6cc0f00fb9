package main

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/loyaltyscan/backend/internal/adapters/database"
	"github.com/loyaltyscan/backend/internal/domain/entities"
	"github.com/loyaltyscan/backend/internal/infrastructure/clients/postgres"
	"github.com/loyaltyscan/backend/pkg/config"
)

// Seeds a demo data set: one customer, one owner, one admin, a fast-food
// shop with a known secret code, and a near-complete loyalty week.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to DB")
	}
	defer pgClient.Close()

	userRepo := database.NewUserAdapter(pgClient)
	shopRepo := database.NewShopAdapter(pgClient)
	visitRepo := database.NewVisitAdapter(pgClient)

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Info().Msg("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				visits,
				shops,
				users
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to reset tables")
		}
	}

	now := time.Now()

	// 1. Seed users
	users := []entities.User{
		{ID: uuid.New().String(), Email: "maria@example.com", DisplayName: "Maria", Role: entities.RoleCustomer, CreatedAt: now},
		{ID: uuid.New().String(), Email: "sunny@example.com", DisplayName: "Sunny", Role: entities.RoleOwner, CreatedAt: now},
		{ID: uuid.New().String(), Email: "admin@example.com", DisplayName: "Admin", Role: entities.RoleAdmin, CreatedAt: now},
	}

	for _, u := range users {
		if err := userRepo.Create(ctx, &u); err != nil {
			log.Error().Err(err).Str("email", u.Email).Msg("failed to create user")
		}
	}

	customer, owner := users[0], users[1]

	// 2. Seed a shop with a known check-in code
	shop := entities.Shop{
		ID:           uuid.New().String(),
		Name:         "Sunny's Pizza",
		Category:     entities.ShopCategoryFastFood,
		OwnerID:      owner.ID,
		ContactEmail: owner.Email,
		Verification: entities.VerificationUnverified,
		SecretCode:   "4521",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := shopRepo.Create(ctx, &shop); err != nil {
		log.Fatal().Err(err).Msg("failed to create shop")
	}

	// 3. Seed five visit days this week: one check-in away from the reward.
	weekStart := now.AddDate(0, 0, -int(now.Weekday()))
	for day := 1; day <= 5; day++ {
		recordedAt := time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 12, 30, 0, 0, now.Location()).
			AddDate(0, 0, day)
		if recordedAt.After(now) {
			break
		}
		visit := entities.Visit{
			ID:         uuid.New().String(),
			ShopID:     shop.ID,
			CustomerID: customer.ID,
			RecordedAt: recordedAt,
			CreatedAt:  now,
		}
		if err := visitRepo.Create(ctx, &visit); err != nil {
			log.Error().Err(err).Str("day", recordedAt.Format("2006-01-02")).Msg("failed to create visit")
		}
	}

	log.Info().
		Str("shop_id", shop.ID).
		Str("customer_id", customer.ID).
		Str("secret_code", shop.SecretCode).
		Msg("seed complete")
}
