package dto

import (
	"time"

	"github.com/aarondl/null/v8"
	"github.com/zonetrack/apiserver/types"
)

type CreateZoneRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	ZoneTypeID  int    `json:"zoneTypeId" validate:"required,gt=0"`
	Description string `json:"description" validate:"max=1000"`
	Location    string `json:"location" validate:"max=255"`
	Capacity    *int   `json:"capacity" validate:"omitempty,gte=0"`
}

type UpdateZoneRequest struct {
	Name        null.String `json:"name" validate:"omitempty,max=100"`
	ZoneTypeID  null.Int    `json:"zoneTypeId" validate:"omitempty,gt=0"`
	Description null.String `json:"description" validate:"omitempty,max=1000"`
	Location    null.String `json:"location" validate:"omitempty,max=255"`
	Capacity    null.Int    `json:"capacity" validate:"omitempty,gte=0"`
}

type ZoneResponse struct {
	ID                  int       `json:"id"`
	Name                string    `json:"name"`
	ZoneTypeID          int       `json:"zoneTypeId"`
	ZoneTypeName        string    `json:"zoneTypeName"`
	Description         string    `json:"description,omitempty"`
	Location            string    `json:"location,omitempty"`
	Capacity            *int      `json:"capacity"`
	CurrentAssetCount   int       `json:"currentAssetCount"`
	IsRestricted        bool      `json:"isRestricted"`
	IsAtCapacity        bool      `json:"isAtCapacity"`
	IsNearCapacity      bool      `json:"isNearCapacity"`
	CapacityUtilization float64   `json:"capacityUtilization"`
	Status              int       `json:"status"`
	StatusName          string    `json:"statusName"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// NewZoneResponse maps a zone; threshold is the near-capacity fraction.
func NewZoneResponse(z types.Zone, threshold float64) ZoneResponse {
	return ZoneResponse{
		ID:                  z.ID,
		Name:                z.Name,
		ZoneTypeID:          z.ZoneTypeID,
		ZoneTypeName:        z.ZoneTypeName,
		Description:         z.Description,
		Location:            z.Location,
		Capacity:            z.Capacity,
		CurrentAssetCount:   z.CurrentAssetCount,
		IsRestricted:        z.IsRestricted(),
		IsAtCapacity:        z.IsAtCapacity(),
		IsNearCapacity:      z.IsNearCapacity(threshold),
		CapacityUtilization: z.CapacityUtilization(),
		Status:              z.Status,
		StatusName:          z.StatusName(),
		CreatedAt:           z.CreatedAt,
		UpdatedAt:           z.UpdatedAt,
	}
}

func NewZoneResponses(items []types.Zone, threshold float64) []ZoneResponse {
	out := make([]ZoneResponse, 0, len(items))
	for _, z := range items {
		out = append(out, NewZoneResponse(z, threshold))
	}
	return out
}
