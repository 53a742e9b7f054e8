package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Asset is a tracked physical item. It is always located in exactly one zone.
type Asset struct {
	Entity

	Name         string `json:"name" db:"name"`
	AssetCode    string `json:"assetCode,omitempty" db:"asset_code"`
	ZoneID       int    `json:"zoneId" db:"zone_id"`
	Description  string `json:"description,omitempty" db:"description"`
	AssetType    string `json:"assetType,omitempty" db:"asset_type"`
	SerialNumber string `json:"serialNumber,omitempty" db:"serial_number"`

	PurchaseDate  *time.Time          `json:"purchaseDate,omitempty" db:"purchase_date"`
	PurchaseValue decimal.NullDecimal `json:"purchaseValue" db:"purchase_value"`

	// Joined from zones and zone_types at read time.
	ZoneName       string `json:"-" db:"-"`
	ZoneTypeName   string `json:"-" db:"-"`
	ZoneRestricted int    `json:"-" db:"-"`
}

// IsInRestrictedZone is derived through the asset's zone and its zone type.
func (a Asset) IsInRestrictedZone() bool {
	return a.ZoneRestricted == 1
}

// CurrentZoneName returns the zone name or "Unknown" when it was not loaded.
func (a Asset) CurrentZoneName() string {
	if a.ZoneName == "" {
		return "Unknown"
	}
	return a.ZoneName
}

// CurrentZoneTypeName returns the zone type name or "Unknown".
func (a Asset) CurrentZoneTypeName() string {
	if a.ZoneTypeName == "" {
		return "Unknown"
	}
	return a.ZoneTypeName
}

// AssetAge is the difference in calendar years between now and the
// purchase date, 0 when the purchase date is unknown.
func (a Asset) AssetAge(now time.Time) int {
	if a.PurchaseDate == nil {
		return 0
	}
	return now.Year() - a.PurchaseDate.Year()
}

// Common asset types. The stored value is free-form text.
const (
	AssetTypeEquipment         = "Equipment"
	AssetTypeMaterial          = "Material"
	AssetTypeITEquipment       = "ITEquipment"
	AssetTypeSecurityEquipment = "SecurityEquipment"
	AssetTypeTools             = "Tools"
	AssetTypeVehicle           = "Vehicle"
	AssetTypeFurniture         = "Furniture"
	AssetTypeOther             = "Other"
)
