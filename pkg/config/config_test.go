package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("REWARD_THRESHOLD_DAYS")
	os.Unsetenv("REJECT_FUTURE_VISITS")
	os.Unsetenv("LOYALTY_TIMEZONE")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, 6, cfg.Loyalty.RewardThresholdDays)
	assert.True(t, cfg.Loyalty.RejectFutureVisits)
	assert.Equal(t, "Local", cfg.Loyalty.Timezone)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "loyaltyscan", cfg.Database.Database)
}

func TestLoad_LoyaltyOverrides(t *testing.T) {
	os.Setenv("REWARD_THRESHOLD_DAYS", "5")
	os.Setenv("REJECT_FUTURE_VISITS", "false")
	os.Setenv("LOYALTY_TIMEZONE", "Europe/Berlin")
	defer func() {
		os.Unsetenv("REWARD_THRESHOLD_DAYS")
		os.Unsetenv("REJECT_FUTURE_VISITS")
		os.Unsetenv("LOYALTY_TIMEZONE")
	}()

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, 5, cfg.Loyalty.RewardThresholdDays)
	assert.False(t, cfg.Loyalty.RejectFutureVisits)

	loc, err := cfg.Loyalty.Location()
	assert.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestLoad_RejectsImpossibleThreshold(t *testing.T) {
	os.Setenv("REWARD_THRESHOLD_DAYS", "9")
	defer os.Unsetenv("REWARD_THRESHOLD_DAYS")

	_, err := Load()
	assert.Error(t, err)
}

func TestLocation_InvalidZone(t *testing.T) {
	cfg := LoyaltyConfig{Timezone: "Not/AZone"}
	_, err := cfg.Location()
	assert.Error(t, err)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "db", Port: 5433, User: "app", Password: "secret",
		Database: "loyaltyscan", SSLMode: "require",
	}
	assert.Equal(t,
		"host=db port=5433 user=app password=secret dbname=loyaltyscan sslmode=require",
		cfg.DatabaseDSN(),
	)
}
