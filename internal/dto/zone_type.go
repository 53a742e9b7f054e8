package dto

import (
	"time"

	"github.com/aarondl/null/v8"
	"github.com/zonetrack/apiserver/types"
)

const defaultZoneColor = "#0066cc"

type CreateZoneTypeRequest struct {
	Name         string `json:"name" validate:"required,min=2,max=100"`
	Code         string `json:"code" validate:"required,min=2,max=50,zonecode"`
	Description  string `json:"description" validate:"max=1000"`
	IsRestricted int    `json:"isRestricted" validate:"gte=0,lte=1"`
	Color        string `json:"color" validate:"omitempty,hexcolor"`
	Priority     int    `json:"priority" validate:"gte=0,lte=10"`
}

// ColorOrDefault returns the requested color or the default blue.
func (r CreateZoneTypeRequest) ColorOrDefault() string {
	if r.Color == "" {
		return defaultZoneColor
	}
	return r.Color
}

type UpdateZoneTypeRequest struct {
	Name         null.String `json:"name" validate:"omitempty,min=2,max=100"`
	Code         null.String `json:"code" validate:"omitempty,min=2,max=50,zonecode"`
	Description  null.String `json:"description" validate:"omitempty,max=1000"`
	IsRestricted null.Int    `json:"isRestricted" validate:"omitempty,gte=0,lte=1"`
	Color        null.String `json:"color" validate:"omitempty,hexcolor"`
	Priority     null.Int    `json:"priority" validate:"omitempty,gte=0,lte=10"`
}

type ZoneTypeResponse struct {
	ID               int       `json:"id"`
	Name             string    `json:"name"`
	Code             string    `json:"code"`
	Description      string    `json:"description,omitempty"`
	IsRestricted     int       `json:"isRestricted"`
	RestrictedStatus string    `json:"restrictedStatus"`
	IsRestrictedZone bool      `json:"isRestrictedZone"`
	Color            string    `json:"color"`
	Priority         int       `json:"priority"`
	Status           int       `json:"status"`
	StatusName       string    `json:"statusName"`
	ZoneCount        int       `json:"zoneCount"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func NewZoneTypeResponse(z types.ZoneType) ZoneTypeResponse {
	return ZoneTypeResponse{
		ID:               z.ID,
		Name:             z.Name,
		Code:             z.Code,
		Description:      z.Description,
		IsRestricted:     z.IsRestricted,
		RestrictedStatus: z.RestrictedStatus(),
		IsRestrictedZone: z.IsRestrictedZone(),
		Color:            z.Color,
		Priority:         z.Priority,
		Status:           z.Status,
		StatusName:       z.StatusName(),
		ZoneCount:        z.ZoneCount,
		CreatedAt:        z.CreatedAt,
		UpdatedAt:        z.UpdatedAt,
	}
}

func NewZoneTypeResponses(items []types.ZoneType) []ZoneTypeResponse {
	out := make([]ZoneTypeResponse, 0, len(items))
	for _, z := range items {
		out = append(out, NewZoneTypeResponse(z))
	}
	return out
}
