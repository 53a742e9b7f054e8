package dto

import (
	"time"

	"github.com/aarondl/null/v8"
	"github.com/shopspring/decimal"
	"github.com/zonetrack/apiserver/types"
)

type CreateAssetRequest struct {
	Name          string              `json:"name" validate:"required,max=100"`
	AssetCode     string              `json:"assetCode" validate:"max=50"`
	ZoneID        int                 `json:"zoneId" validate:"required,gt=0"`
	Description   string              `json:"description" validate:"max=1000"`
	AssetType     string              `json:"assetType" validate:"max=50"`
	SerialNumber  string              `json:"serialNumber" validate:"max=100"`
	PurchaseDate  *time.Time          `json:"purchaseDate"`
	PurchaseValue decimal.NullDecimal `json:"purchaseValue" validate:"omitempty,gte=0"`
	ShiftTime     string              `json:"shiftTime" validate:"max=50"`
	MovedBy       string              `json:"movedBy" validate:"max=100"`
}

// UpdateAssetRequest changes descriptive fields only; zone changes go
// through MoveAssetRequest so that every movement is logged.
type UpdateAssetRequest struct {
	Name          null.String         `json:"name" validate:"omitempty,max=100"`
	AssetCode     null.String         `json:"assetCode" validate:"omitempty,max=50"`
	Description   null.String         `json:"description" validate:"omitempty,max=1000"`
	AssetType     null.String         `json:"assetType" validate:"omitempty,max=50"`
	SerialNumber  null.String         `json:"serialNumber" validate:"omitempty,max=100"`
	PurchaseDate  null.Time           `json:"purchaseDate"`
	PurchaseValue decimal.NullDecimal `json:"purchaseValue" validate:"omitempty,gte=0"`
}

type MoveAssetRequest struct {
	ToZoneID     int    `json:"toZoneId" validate:"required,gt=0"`
	MovementType string `json:"movementType" validate:"omitempty,max=50"`
	ShiftTime    string `json:"shiftTime" validate:"required,max=50"`
	MovedBy      string `json:"movedBy" validate:"max=100"`
	Reason       string `json:"reason" validate:"max=1000"`
	Notes        string `json:"notes" validate:"max=1000"`
}

type AssetResponse struct {
	ID                 int                 `json:"id"`
	Name               string              `json:"name"`
	AssetCode          string              `json:"assetCode,omitempty"`
	ZoneID             int                 `json:"zoneId"`
	ZoneName           string              `json:"currentZoneName"`
	ZoneTypeName       string              `json:"currentZoneTypeName"`
	IsInRestrictedZone bool                `json:"isInRestrictedZone"`
	Description        string              `json:"description,omitempty"`
	AssetType          string              `json:"assetType,omitempty"`
	SerialNumber       string              `json:"serialNumber,omitempty"`
	PurchaseDate       *time.Time          `json:"purchaseDate,omitempty"`
	PurchaseValue      decimal.NullDecimal `json:"purchaseValue"`
	AssetAge           int                 `json:"assetAge"`
	Status             int                 `json:"status"`
	StatusName         string              `json:"statusName"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

func NewAssetResponse(a types.Asset, now time.Time) AssetResponse {
	return AssetResponse{
		ID:                 a.ID,
		Name:               a.Name,
		AssetCode:          a.AssetCode,
		ZoneID:             a.ZoneID,
		ZoneName:           a.CurrentZoneName(),
		ZoneTypeName:       a.CurrentZoneTypeName(),
		IsInRestrictedZone: a.IsInRestrictedZone(),
		Description:        a.Description,
		AssetType:          a.AssetType,
		SerialNumber:       a.SerialNumber,
		PurchaseDate:       a.PurchaseDate,
		PurchaseValue:      a.PurchaseValue,
		AssetAge:           a.AssetAge(now),
		Status:             a.Status,
		StatusName:         a.StatusName(),
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

func NewAssetResponses(items []types.Asset, now time.Time) []AssetResponse {
	out := make([]AssetResponse, 0, len(items))
	for _, a := range items {
		out = append(out, NewAssetResponse(a, now))
	}
	return out
}

type AssetLogResponse struct {
	ID                     int       `json:"id"`
	AssetID                int       `json:"assetId"`
	AssetName              string    `json:"assetName,omitempty"`
	FromZoneID             *int      `json:"fromZoneId"`
	FromZoneName           string    `json:"fromZoneName,omitempty"`
	ToZoneID               int       `json:"toZoneId"`
	ToZoneName             string    `json:"toZoneName"`
	MovementType           string    `json:"movementType"`
	ShiftTime              string    `json:"shiftTime"`
	MovedBy                string    `json:"movedBy,omitempty"`
	Reason                 string    `json:"reason,omitempty"`
	Notes                  string    `json:"notes,omitempty"`
	IsInitialCheckIn       bool      `json:"isInitialCheckIn"`
	IsTransferBetweenZones bool      `json:"isTransferBetweenZones"`
	MovementDescription    string    `json:"movementDescription"`
	CreatedAt              time.Time `json:"createdAt"`
}

func NewAssetLogResponse(l types.AssetLog) AssetLogResponse {
	return AssetLogResponse{
		ID:                     l.ID,
		AssetID:                l.AssetID,
		AssetName:              l.AssetName,
		FromZoneID:             l.FromZoneID,
		FromZoneName:           l.FromZoneName,
		ToZoneID:               l.ToZoneID,
		ToZoneName:             l.ToZoneName,
		MovementType:           l.MovementType,
		ShiftTime:              l.ShiftTime,
		MovedBy:                l.MovedBy,
		Reason:                 l.Reason,
		Notes:                  l.Notes,
		IsInitialCheckIn:       l.IsInitialCheckIn(),
		IsTransferBetweenZones: l.IsTransferBetweenZones(),
		MovementDescription:    l.MovementDescription(),
		CreatedAt:              l.CreatedAt,
	}
}

func NewAssetLogResponses(items []types.AssetLog) []AssetLogResponse {
	out := make([]AssetLogResponse, 0, len(items))
	for _, l := range items {
		out = append(out, NewAssetLogResponse(l))
	}
	return out
}

type AlertResponse struct {
	ID        int       `json:"id"`
	AssetID   *int      `json:"assetId"`
	ZoneID    *int      `json:"zoneId"`
	AlertType string    `json:"alertType"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	Status    int       `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewAlertResponse(a types.Alert) AlertResponse {
	return AlertResponse{
		ID:        a.ID,
		AssetID:   a.AssetID,
		ZoneID:    a.ZoneID,
		AlertType: a.AlertType,
		Severity:  a.Severity,
		Message:   a.Message,
		IsRead:    a.IsRead,
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func NewAlertResponses(items []types.Alert) []AlertResponse {
	out := make([]AlertResponse, 0, len(items))
	for _, a := range items {
		out = append(out, NewAlertResponse(a))
	}
	return out
}
