package services

import (
	"context"
	"strings"

	"github.com/zonetrack/apiserver/internal/dto"
	"github.com/zonetrack/apiserver/internal/store"
	"github.com/zonetrack/apiserver/types"
)

// ZoneTypeRepository defines persistence operations for zone types.
type ZoneTypeRepository interface {
	List(ctx context.Context, includeDeleted bool) ([]types.ZoneType, error)
	Get(ctx context.Context, id int) (types.ZoneType, error)
	Create(ctx context.Context, zt types.ZoneType) (types.ZoneType, error)
	Update(ctx context.Context, id int, changes store.Changes) error
	Delete(ctx context.Context, id int) error
}

// ZoneTypeService encapsulates zone type use-cases.
type ZoneTypeService struct {
	repo ZoneTypeRepository
}

func NewZoneTypeService(repo ZoneTypeRepository) *ZoneTypeService {
	return &ZoneTypeService{repo: repo}
}

func (s *ZoneTypeService) List(ctx context.Context, includeDeleted bool) ([]types.ZoneType, error) {
	return s.repo.List(ctx, includeDeleted)
}

func (s *ZoneTypeService) Get(ctx context.Context, id int) (types.ZoneType, error) {
	return s.repo.Get(ctx, id)
}

func (s *ZoneTypeService) Create(ctx context.Context, req dto.CreateZoneTypeRequest) (types.ZoneType, error) {
	created, err := s.repo.Create(ctx, types.ZoneType{
		Name:         strings.TrimSpace(req.Name),
		Code:         strings.TrimSpace(req.Code),
		Description:  strings.TrimSpace(req.Description),
		IsRestricted: req.IsRestricted,
		Color:        req.ColorOrDefault(),
		Priority:     req.Priority,
	})
	if err != nil {
		return types.ZoneType{}, err
	}
	return s.repo.Get(ctx, created.ID)
}

// Update applies the present fields and returns the stored zone type.
func (s *ZoneTypeService) Update(ctx context.Context, id int, req dto.UpdateZoneTypeRequest) (types.ZoneType, error) {
	var changes store.Changes
	if v, ok := dto.Present(req.Name); ok {
		changes.Set("name", v)
	}
	if v, ok := dto.Present(req.Code); ok {
		changes.Set("code", v)
	}
	if v, ok := dto.Present(req.Description); ok {
		changes.Set("description", v)
	}
	if req.IsRestricted.Valid {
		changes.Set("is_restricted", req.IsRestricted.Int)
	}
	if v, ok := dto.Present(req.Color); ok {
		changes.Set("color", v)
	}
	if req.Priority.Valid {
		changes.Set("priority", req.Priority.Int)
	}

	if err := s.repo.Update(ctx, id, changes); err != nil {
		return types.ZoneType{}, err
	}
	return s.repo.Get(ctx, id)
}

// Delete soft-deletes a zone type that no active zone uses.
func (s *ZoneTypeService) Delete(ctx context.Context, id int) error {
	zt, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if zt.IsDeleted() {
		return store.ErrNotFound
	}
	if zt.ZoneCount > 0 {
		return conflictErr(RuleZoneTypeInUse, "Zone type %q is used by %d active zone(s).", zt.Name, zt.ZoneCount)
	}
	return s.repo.Delete(ctx, id)
}
