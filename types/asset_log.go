package types

import (
	"fmt"
	"strings"
	"time"
)

// AssetLog records one movement of an asset. A log without a from-zone is
// the initial check-in of the asset.
type AssetLog struct {
	Entity

	AssetID      int    `json:"assetId" db:"asset_id"`
	FromZoneID   *int   `json:"fromZoneId" db:"from_zone_id"`
	ToZoneID     int    `json:"toZoneId" db:"to_zone_id"`
	MovementType string `json:"movementType" db:"movement_type"`
	ShiftTime    string `json:"shiftTime" db:"shift_time"`
	MovedBy      string `json:"movedBy,omitempty" db:"moved_by"`
	Reason       string `json:"reason,omitempty" db:"reason"`
	Notes        string `json:"notes,omitempty" db:"notes"`

	// Joined at read time.
	AssetName    string `json:"-" db:"-"`
	FromZoneName string `json:"-" db:"-"`
	ToZoneName   string `json:"-" db:"-"`
}

// IsInitialCheckIn reports whether the log has no origin zone.
func (l AssetLog) IsInitialCheckIn() bool {
	return l.FromZoneID == nil
}

// IsTransferBetweenZones reports whether the asset changed zones.
func (l AssetLog) IsTransferBetweenZones() bool {
	return l.FromZoneID != nil && *l.FromZoneID != l.ToZoneID
}

// MovementDescription renders the movement for humans.
func (l AssetLog) MovementDescription() string {
	if l.FromZoneID != nil {
		return fmt.Sprintf("Moved from %s to %s", l.FromZoneName, l.ToZoneName)
	}
	return fmt.Sprintf("Checked into %s", l.ToZoneName)
}

// Movement types.
const (
	MovementTransfer    = "TRANSFER"
	MovementCheckIn     = "CHECKIN"
	MovementCheckOut    = "CHECKOUT"
	MovementMaintenance = "MAINTENANCE"
	MovementInspection  = "INSPECTION"
	MovementReturn      = "RETURN"
	MovementLoan        = "LOAN"
	MovementDisposal    = "DISPOSAL"
	MovementAudit       = "AUDIT"
)

// MovementTypes lists the accepted movement types.
var MovementTypes = []string{
	MovementTransfer, MovementCheckIn, MovementCheckOut, MovementMaintenance,
	MovementInspection, MovementReturn, MovementLoan, MovementDisposal, MovementAudit,
}

// Shift names.
const (
	ShiftMorning = "Morning"
	ShiftEvening = "Evening"
	ShiftNight   = "Night"
	ShiftWeekend = "Weekend"
	ShiftHoliday = "Holiday"
)

// ShiftTimes lists the accepted shift names.
var ShiftTimes = []string{ShiftMorning, ShiftEvening, ShiftNight, ShiftWeekend, ShiftHoliday}

// NormalizeMovementType upper-cases raw and reports whether it is known.
// An empty value means a transfer.
func NormalizeMovementType(raw string) (string, bool) {
	v := strings.ToUpper(strings.TrimSpace(raw))
	if v == "" {
		return MovementTransfer, true
	}
	for _, known := range MovementTypes {
		if v == known {
			return v, true
		}
	}
	return v, false
}

// NormalizeShiftTime title-cases raw and reports whether it is known.
func NormalizeShiftTime(raw string) (string, bool) {
	v := ToTitleCase(strings.TrimSpace(raw))
	for _, known := range ShiftTimes {
		if v == known {
			return v, true
		}
	}
	return v, false
}

// ShiftAt returns the weekday shift covering t: Morning from 06:00,
// Evening from 14:00 and Night from 22:00. Saturdays and Sundays are
// Weekend.
func ShiftAt(t time.Time) string {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return ShiftWeekend
	}
	switch h := t.Hour(); {
	case h >= 6 && h < 14:
		return ShiftMorning
	case h >= 14 && h < 22:
		return ShiftEvening
	default:
		return ShiftNight
	}
}
