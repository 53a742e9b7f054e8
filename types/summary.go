package types

import "time"

// SystemSummary is a dashboard snapshot of the whole system.
type SystemSummary struct {
	TotalZoneTypes          int            `json:"totalZoneTypes"`
	TotalZones              int            `json:"totalZones"`
	TotalAssets             int            `json:"totalAssets"`
	ActiveAssets            int            `json:"activeAssets"`
	TotalMovements          int            `json:"totalMovements"`
	UnreadAlerts            int            `json:"unreadAlerts"`
	RestrictedZones         int            `json:"restrictedZones"`
	AssetsInRestrictedZones int            `json:"assetsInRestrictedZones"`
	AssetsByZoneType        map[string]int `json:"assetsByZoneType"`
	AlertsBySeverity        map[string]int `json:"alertsBySeverity"`
	RecentMovements         []string       `json:"recentMovements"`
	LastUpdated             time.Time      `json:"lastUpdated"`
}
