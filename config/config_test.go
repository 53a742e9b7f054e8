package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_USE_SSL", "true")
	t.Setenv("AUTH_LOCKOUT", "30m")

	cfg := LoadConfig()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.True(t, cfg.Database.UseSSL)
	assert.Equal(t, 30*time.Minute, cfg.Auth.LockoutDuration)
	assert.Equal(t, 5, cfg.Auth.MaxLoginAttempts)
	assert.Equal(t, DefaultSettings(), cfg.Settings)
}

func TestLoadSettingsOverrides(t *testing.T) {
	t.Setenv("ZONES_ENFORCE_CAPACITY", "true")
	t.Setenv("ZONES_CAPACITY_WARNING_THRESHOLD", "0.5")
	t.Setenv("ALERTS_MAX_PER_ASSET", "3")
	t.Setenv("ASSETS_REQUIRE_CODE", "not-a-bool")

	s := loadSettings()

	assert.True(t, s.Zones.EnforceCapacityLimits)
	assert.InDelta(t, 0.5, s.Zones.CapacityWarningThreshold, 1e-9)
	assert.Equal(t, 3, s.Alerts.MaxAlertsPerAsset)
	assert.False(t, s.Assets.RequireAssetCode)
}
