package services

import (
	"context"
	"errors"
	"strings"

	"github.com/zonetrack/apiserver/internal/dto"
	"github.com/zonetrack/apiserver/internal/store"
	"github.com/zonetrack/apiserver/types"
)

// ZoneRepository defines persistence operations for zones.
type ZoneRepository interface {
	List(ctx context.Context, filter store.ZoneFilter) ([]types.Zone, error)
	Get(ctx context.Context, id int) (types.Zone, error)
	GetForUpdate(ctx context.Context, id int) (types.Zone, error)
	Create(ctx context.Context, zone types.Zone) (types.Zone, error)
	Update(ctx context.Context, id int, changes store.Changes) error
	AdjustAssetCount(ctx context.Context, id, delta int) error
	Delete(ctx context.Context, id int) error
}

// ZoneService encapsulates zone use-cases.
type ZoneService struct {
	repo      ZoneRepository
	zoneTypes ZoneTypeRepository
}

func NewZoneService(repo ZoneRepository, zoneTypes ZoneTypeRepository) *ZoneService {
	return &ZoneService{repo: repo, zoneTypes: zoneTypes}
}

func (s *ZoneService) List(ctx context.Context, filter store.ZoneFilter) ([]types.Zone, error) {
	return s.repo.List(ctx, filter)
}

func (s *ZoneService) Get(ctx context.Context, id int) (types.Zone, error) {
	return s.repo.Get(ctx, id)
}

func (s *ZoneService) Create(ctx context.Context, req dto.CreateZoneRequest) (types.Zone, error) {
	if err := s.checkZoneType(ctx, req.ZoneTypeID); err != nil {
		return types.Zone{}, err
	}

	created, err := s.repo.Create(ctx, types.Zone{
		Name:        strings.TrimSpace(req.Name),
		ZoneTypeID:  req.ZoneTypeID,
		Description: strings.TrimSpace(req.Description),
		Location:    strings.TrimSpace(req.Location),
		Capacity:    req.Capacity,
	})
	if err != nil {
		return types.Zone{}, err
	}
	return s.repo.Get(ctx, created.ID)
}

func (s *ZoneService) Update(ctx context.Context, id int, req dto.UpdateZoneRequest) (types.Zone, error) {
	var changes store.Changes
	if v, ok := dto.Present(req.Name); ok {
		changes.Set("name", v)
	}
	if req.ZoneTypeID.Valid {
		if err := s.checkZoneType(ctx, req.ZoneTypeID.Int); err != nil {
			return types.Zone{}, err
		}
		changes.Set("zone_type_id", req.ZoneTypeID.Int)
	}
	if v, ok := dto.Present(req.Description); ok {
		changes.Set("description", v)
	}
	if v, ok := dto.Present(req.Location); ok {
		changes.Set("location", v)
	}
	if req.Capacity.Valid {
		changes.Set("capacity", req.Capacity.Int)
	}

	if err := s.repo.Update(ctx, id, changes); err != nil {
		return types.Zone{}, err
	}
	return s.repo.Get(ctx, id)
}

// Delete soft-deletes an empty zone.
func (s *ZoneService) Delete(ctx context.Context, id int) error {
	zone, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if zone.IsDeleted() {
		return store.ErrNotFound
	}
	if zone.CurrentAssetCount > 0 {
		return conflictErr(RuleZoneNotEmpty, "Zone %q still holds %d asset(s).", zone.Name, zone.CurrentAssetCount)
	}
	return s.repo.Delete(ctx, id)
}

func (s *ZoneService) checkZoneType(ctx context.Context, id int) error {
	zt, err := s.zoneTypes.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ruleErr(RuleZoneTypeMissing, "Zone type %d does not exist.", id)
		}
		return err
	}
	if zt.IsDeleted() {
		return ruleErr(RuleZoneTypeInactive, "Zone type %q is deleted.", zt.Name)
	}
	return nil
}
