package services

import (
	"errors"
	"fmt"
)

// ErrInvalidCredentials is returned when an email and password do not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrStorageDisabled is returned when an operation needs object storage
// and none is configured.
var ErrStorageDisabled = errors.New("object storage is not configured")

// RuleError reports a request that is well-formed but breaks a business
// rule. Conflict rules map to 409, the rest to 400.
type RuleError struct {
	Rule     string
	Message  string
	Conflict bool
}

func (e *RuleError) Error() string {
	return e.Message
}

func ruleErr(rule, format string, args ...any) *RuleError {
	return &RuleError{Rule: rule, Message: fmt.Sprintf(format, args...)}
}

func conflictErr(rule, format string, args ...any) *RuleError {
	return &RuleError{Rule: rule, Message: fmt.Sprintf(format, args...), Conflict: true}
}

// Rule names carried by RuleError.
const (
	RuleSameZone          = "same_zone"
	RuleZoneMissing       = "zone_missing"
	RuleZoneInactive      = "zone_inactive"
	RuleZoneFull          = "zone_full"
	RuleZoneNotEmpty      = "zone_not_empty"
	RuleZoneTypeMissing   = "zone_type_missing"
	RuleZoneTypeInactive  = "zone_type_inactive"
	RuleZoneTypeInUse     = "zone_type_in_use"
	RuleAssetCodeRequired = "asset_code_required"
	RuleAssetCodeTaken    = "asset_code_taken"
	RuleMovementType      = "movement_type"
	RuleShiftTime         = "shift_time"
)
