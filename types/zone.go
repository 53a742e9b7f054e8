package types

// ZoneType classifies zones. Whether a zone is restricted is decided by its
// type, never by the zone itself.
type ZoneType struct {
	Entity

	Name        string `json:"name" db:"name"`
	Code        string `json:"code" db:"code"`
	Description string `json:"description,omitempty" db:"description"`

	// IsRestricted is 1 for restricted types and 0 for normal ones.
	IsRestricted int    `json:"isRestricted" db:"is_restricted"`
	Color        string `json:"color" db:"color"`
	Priority     int    `json:"priority" db:"priority"`

	// ZoneCount is the number of active zones using this type. It is
	// computed at read time.
	ZoneCount int `json:"zoneCount" db:"-"`
}

// IsRestrictedZone reports whether zones of this type are restricted.
func (z ZoneType) IsRestrictedZone() bool {
	return z.IsRestricted == 1
}

// RestrictedStatus returns "Restricted" or "Normal".
func (z ZoneType) RestrictedStatus() string {
	if z.IsRestrictedZone() {
		return "Restricted"
	}
	return "Normal"
}

// Zone is a physical area assets are located in.
type Zone struct {
	Entity

	Name        string `json:"name" db:"name"`
	ZoneTypeID  int    `json:"zoneTypeId" db:"zone_type_id"`
	Description string `json:"description,omitempty" db:"description"`
	Location    string `json:"location,omitempty" db:"location"`

	// Capacity is nil when the zone is unbounded.
	Capacity          *int `json:"capacity" db:"capacity"`
	CurrentAssetCount int  `json:"currentAssetCount" db:"current_asset_count"`

	// Joined from zone_types.
	ZoneTypeName       string `json:"zoneTypeName" db:"-"`
	ZoneTypeRestricted int    `json:"-" db:"-"`
}

// IsRestricted is inherited from the zone type.
func (z Zone) IsRestricted() bool {
	return z.ZoneTypeRestricted == 1
}

// IsAtCapacity reports whether the zone holds as many assets as it allows.
func (z Zone) IsAtCapacity() bool {
	return z.Capacity != nil && z.CurrentAssetCount >= *z.Capacity
}

// IsNearCapacity reports whether the zone is filled to at least threshold
// (a fraction of capacity).
func (z Zone) IsNearCapacity(threshold float64) bool {
	return z.Capacity != nil && float64(z.CurrentAssetCount) >= float64(*z.Capacity)*threshold
}

// CapacityUtilization returns the fill level as a percentage, 0 when the
// zone has no positive capacity.
func (z Zone) CapacityUtilization() float64 {
	if z.Capacity == nil || *z.Capacity <= 0 {
		return 0
	}
	return float64(z.CurrentAssetCount) / float64(*z.Capacity) * 100
}
