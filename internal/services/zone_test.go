package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zonetrack/apiserver/internal/dto"
	"github.com/zonetrack/apiserver/internal/store"
	"github.com/zonetrack/apiserver/types"
)

func TestZoneTypeServiceCreateDefaultsColor(t *testing.T) {
	repo := &fakeZoneTypeRepo{items: map[int]types.ZoneType{}}
	svc := NewZoneTypeService(repo)

	zt, err := svc.Create(context.Background(), dto.CreateZoneTypeRequest{Name: " Secure ", Code: "SECURE", IsRestricted: 1})
	require.NoError(t, err)
	assert.Equal(t, "Secure", zt.Name)
	assert.Equal(t, "#0066cc", zt.Color)
	assert.True(t, zt.IsRestrictedZone())
}

func TestZoneTypeServiceDelete(t *testing.T) {
	repo := &fakeZoneTypeRepo{items: map[int]types.ZoneType{
		1: {Entity: types.Entity{ID: 1, Status: types.StatusActive}, Name: "Storage", ZoneCount: 2},
		2: {Entity: types.Entity{ID: 2, Status: types.StatusActive}, Name: "Empty"},
		3: {Entity: types.Entity{ID: 3, Status: types.StatusDeleted}, Name: "Gone"},
	}}
	svc := NewZoneTypeService(repo)
	ctx := context.Background()

	err := svc.Delete(ctx, 1)
	assert.Equal(t, RuleZoneTypeInUse, ruleOf(err))

	require.NoError(t, svc.Delete(ctx, 2))
	assert.True(t, repo.items[2].IsDeleted())

	assert.ErrorIs(t, svc.Delete(ctx, 3), store.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, 9), store.ErrNotFound)
}

func TestZoneServiceCreateChecksZoneType(t *testing.T) {
	zoneTypes := &fakeZoneTypeRepo{items: map[int]types.ZoneType{
		1: {Entity: types.Entity{ID: 1, Status: types.StatusActive}, Name: "Storage"},
		2: {Entity: types.Entity{ID: 2, Status: types.StatusDeleted}, Name: "Retired"},
	}}
	zones := &fakeZoneRepo{zones: map[int]types.Zone{}}
	svc := NewZoneService(zones, zoneTypes)
	ctx := context.Background()

	zone, err := svc.Create(ctx, dto.CreateZoneRequest{Name: "Dock", ZoneTypeID: 1})
	require.NoError(t, err)
	assert.Equal(t, "Dock", zone.Name)

	_, err = svc.Create(ctx, dto.CreateZoneRequest{Name: "Yard", ZoneTypeID: 2})
	assert.Equal(t, RuleZoneTypeInactive, ruleOf(err))

	_, err = svc.Create(ctx, dto.CreateZoneRequest{Name: "Yard", ZoneTypeID: 9})
	assert.Equal(t, RuleZoneTypeMissing, ruleOf(err))
}

func TestZoneServiceDeleteRequiresEmptyZone(t *testing.T) {
	zones := &fakeZoneRepo{zones: map[int]types.Zone{
		1: {Entity: types.Entity{ID: 1, Status: types.StatusActive}, Name: "Dock", CurrentAssetCount: 1},
		2: {Entity: types.Entity{ID: 2, Status: types.StatusActive}, Name: "Shelf"},
	}}
	svc := NewZoneService(zones, &fakeZoneTypeRepo{items: map[int]types.ZoneType{}})

	var re *RuleError
	require.ErrorAs(t, svc.Delete(context.Background(), 1), &re)
	assert.True(t, re.Conflict)

	require.NoError(t, svc.Delete(context.Background(), 2))
	assert.True(t, zones.zones[2].IsDeleted())
}
