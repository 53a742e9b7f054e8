package types

// Alert is raised against an asset, a zone or both.
type Alert struct {
	Entity

	AssetID   *int   `json:"assetId" db:"asset_id"`
	ZoneID    *int   `json:"zoneId" db:"zone_id"`
	AlertType string `json:"alertType" db:"alert_type"`
	Severity  string `json:"severity" db:"severity"`
	Message   string `json:"message" db:"message"`
	IsRead    bool   `json:"isRead" db:"is_read"`
}

// Alert types.
const (
	AlertRestrictedZoneEntry = "RESTRICTED_ZONE_ENTRY"
	AlertCapacityWarning     = "CAPACITY_WARNING"
	AlertCapacityExceeded    = "CAPACITY_EXCEEDED"
)

// Alert severities.
const (
	SeverityLow      = "LOW"
	SeverityMedium   = "MEDIUM"
	SeverityHigh     = "HIGH"
	SeverityCritical = "CRITICAL"
)
