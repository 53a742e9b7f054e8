package config

// Settings holds the business rules applied to assets, zones and alerts.
type Settings struct {
	Alerts AlertSettings
	Assets AssetSettings
	Zones  ZoneSettings
}

type AlertSettings struct {
	AutoGenerateRestrictedZoneAlerts bool
	AutoGenerateCapacityAlerts       bool
	MaxAlertsPerAsset                int
	AlertRetentionDays               int
}

type AssetSettings struct {
	RequireAssetCode          bool
	AllowDuplicateAssetCodes  bool
	DefaultAssetType          string
	AssetHistoryRetentionDays int
}

type ZoneSettings struct {
	EnforceCapacityLimits bool
	// CapacityWarningThreshold is a fraction of capacity, 0.8 means 80%.
	CapacityWarningThreshold     float64
	AllowMovementToInactiveZones bool
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Alerts: AlertSettings{
			AutoGenerateRestrictedZoneAlerts: true,
			AutoGenerateCapacityAlerts:       true,
			MaxAlertsPerAsset:                100,
			AlertRetentionDays:               90,
		},
		Assets: AssetSettings{
			RequireAssetCode:          false,
			AllowDuplicateAssetCodes:  false,
			DefaultAssetType:          "Equipment",
			AssetHistoryRetentionDays: 365,
		},
		Zones: ZoneSettings{
			EnforceCapacityLimits:        false,
			CapacityWarningThreshold:     0.8,
			AllowMovementToInactiveZones: false,
		},
	}
}

func loadSettings() Settings {
	d := DefaultSettings()
	return Settings{
		Alerts: AlertSettings{
			AutoGenerateRestrictedZoneAlerts: getEnvBool("ALERTS_AUTO_RESTRICTED_ZONE", d.Alerts.AutoGenerateRestrictedZoneAlerts),
			AutoGenerateCapacityAlerts:       getEnvBool("ALERTS_AUTO_CAPACITY", d.Alerts.AutoGenerateCapacityAlerts),
			MaxAlertsPerAsset:                getEnvInt("ALERTS_MAX_PER_ASSET", d.Alerts.MaxAlertsPerAsset),
			AlertRetentionDays:               getEnvInt("ALERTS_RETENTION_DAYS", d.Alerts.AlertRetentionDays),
		},
		Assets: AssetSettings{
			RequireAssetCode:          getEnvBool("ASSETS_REQUIRE_CODE", d.Assets.RequireAssetCode),
			AllowDuplicateAssetCodes:  getEnvBool("ASSETS_ALLOW_DUPLICATE_CODES", d.Assets.AllowDuplicateAssetCodes),
			DefaultAssetType:          getEnv("ASSETS_DEFAULT_TYPE", d.Assets.DefaultAssetType),
			AssetHistoryRetentionDays: getEnvInt("ASSETS_HISTORY_RETENTION_DAYS", d.Assets.AssetHistoryRetentionDays),
		},
		Zones: ZoneSettings{
			EnforceCapacityLimits:        getEnvBool("ZONES_ENFORCE_CAPACITY", d.Zones.EnforceCapacityLimits),
			CapacityWarningThreshold:     getEnvFloat("ZONES_CAPACITY_WARNING_THRESHOLD", d.Zones.CapacityWarningThreshold),
			AllowMovementToInactiveZones: getEnvBool("ZONES_ALLOW_INACTIVE_TARGET", d.Zones.AllowMovementToInactiveZones),
		},
	}
}
