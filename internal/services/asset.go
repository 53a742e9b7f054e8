package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/zonetrack/apiserver/config"
	"github.com/zonetrack/apiserver/internal/dto"
	"github.com/zonetrack/apiserver/internal/events"
	"github.com/zonetrack/apiserver/internal/metrics"
	"github.com/zonetrack/apiserver/internal/store"
	"github.com/zonetrack/apiserver/types"
	"go.uber.org/zap"
)

// AssetRepository defines persistence operations for assets.
type AssetRepository interface {
	List(ctx context.Context, filter store.AssetFilter) ([]types.Asset, error)
	Get(ctx context.Context, id int) (types.Asset, error)
	GetForUpdate(ctx context.Context, id int) (types.Asset, error)
	CodeExists(ctx context.Context, code string, excludeID int) (bool, error)
	Create(ctx context.Context, asset types.Asset) (types.Asset, error)
	Update(ctx context.Context, id int, changes store.Changes) error
	SetZone(ctx context.Context, id, zoneID int) error
	Delete(ctx context.Context, id int) error
}

// AssetLogRepository defines persistence operations for movement logs.
type AssetLogRepository interface {
	Create(ctx context.Context, entry types.AssetLog) (types.AssetLog, error)
	ListByAsset(ctx context.Context, assetID int) ([]types.AssetLog, error)
	Recent(ctx context.Context, limit int) ([]types.AssetLog, error)
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Transactor runs fn in a database transaction.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// MovementPublisher announces committed movements.
type MovementPublisher interface {
	AssetMoved(ctx context.Context, event events.AssetMoved) error
}

// AssetService encapsulates asset use-cases. Every zone change goes through
// Create or Move so that it is logged and zone counters stay in step.
type AssetService struct {
	assets    AssetRepository
	logs      AssetLogRepository
	zones     ZoneRepository
	tx        Transactor
	alerts    *AlertService
	publisher MovementPublisher
	settings  config.Settings
	log       *zap.Logger
	now       func() time.Time
}

func NewAssetService(
	assets AssetRepository,
	logs AssetLogRepository,
	zones ZoneRepository,
	tx Transactor,
	alerts *AlertService,
	publisher MovementPublisher,
	settings config.Settings,
	log *zap.Logger,
) *AssetService {
	return &AssetService{
		assets:    assets,
		logs:      logs,
		zones:     zones,
		tx:        tx,
		alerts:    alerts,
		publisher: publisher,
		settings:  settings,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *AssetService) List(ctx context.Context, filter store.AssetFilter) ([]types.Asset, error) {
	return s.assets.List(ctx, filter)
}

func (s *AssetService) Get(ctx context.Context, id int) (types.Asset, error) {
	return s.assets.Get(ctx, id)
}

// ListByZone returns the active assets of an existing zone.
func (s *AssetService) ListByZone(ctx context.Context, zoneID int) ([]types.Asset, error) {
	if _, err := s.zones.Get(ctx, zoneID); err != nil {
		return nil, err
	}
	return s.assets.List(ctx, store.AssetFilter{ZoneID: zoneID})
}

// Logs returns the movement history of an existing asset, newest first.
func (s *AssetService) Logs(ctx context.Context, assetID int) ([]types.AssetLog, error) {
	if _, err := s.assets.Get(ctx, assetID); err != nil {
		return nil, err
	}
	return s.logs.ListByAsset(ctx, assetID)
}

// Create stores the asset, counts it in its zone and writes the initial
// check-in log in one transaction.
func (s *AssetService) Create(ctx context.Context, req dto.CreateAssetRequest) (types.Asset, error) {
	code := strings.TrimSpace(req.AssetCode)
	if err := s.checkAssetCode(ctx, code, 0); err != nil {
		return types.Asset{}, err
	}

	assetType := strings.TrimSpace(req.AssetType)
	if assetType == "" {
		assetType = s.settings.Assets.DefaultAssetType
	}

	shift := s.shiftOrNow(req.ShiftTime)
	if _, ok := types.NormalizeShiftTime(shift); !ok {
		return types.Asset{}, ruleErr(RuleShiftTime, "Unknown shift time %q.", req.ShiftTime)
	}

	var (
		created types.Asset
		zone    types.Zone
	)
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		zone, err = s.targetZone(ctx, req.ZoneID)
		if err != nil {
			return err
		}

		created, err = s.assets.Create(ctx, types.Asset{
			Name:          strings.TrimSpace(req.Name),
			AssetCode:     code,
			ZoneID:        zone.ID,
			Description:   strings.TrimSpace(req.Description),
			AssetType:     assetType,
			SerialNumber:  strings.TrimSpace(req.SerialNumber),
			PurchaseDate:  req.PurchaseDate,
			PurchaseValue: req.PurchaseValue,
		})
		if err != nil {
			return err
		}
		if err := s.zones.AdjustAssetCount(ctx, zone.ID, 1); err != nil {
			return err
		}

		_, err = s.logs.Create(ctx, types.AssetLog{
			AssetID:      created.ID,
			ToZoneID:     zone.ID,
			MovementType: types.MovementCheckIn,
			ShiftTime:    shift,
			MovedBy:      strings.TrimSpace(req.MovedBy),
			Reason:       "Initial check-in",
		})
		return err
	})
	if err != nil {
		return types.Asset{}, err
	}

	zone.CurrentAssetCount++
	created.ZoneName = zone.Name
	created.ZoneTypeName = zone.ZoneTypeName
	created.ZoneRestricted = zone.ZoneTypeRestricted
	s.alerts.CheckZoneEntry(ctx, created, zone)
	metrics.AssetMovements.WithLabelValues(types.MovementCheckIn).Inc()

	return s.assets.Get(ctx, created.ID)
}

// Update changes descriptive fields and returns the stored asset.
func (s *AssetService) Update(ctx context.Context, id int, req dto.UpdateAssetRequest) (types.Asset, error) {
	var changes store.Changes
	if v, ok := dto.Present(req.Name); ok {
		changes.Set("name", v)
	}
	if v, ok := dto.Present(req.AssetCode); ok {
		if err := s.checkAssetCode(ctx, v, id); err != nil {
			return types.Asset{}, err
		}
		changes.Set("asset_code", v)
	}
	if v, ok := dto.Present(req.Description); ok {
		changes.Set("description", v)
	}
	if v, ok := dto.Present(req.AssetType); ok {
		changes.Set("asset_type", v)
	}
	if v, ok := dto.Present(req.SerialNumber); ok {
		changes.Set("serial_number", v)
	}
	if req.PurchaseDate.Valid {
		changes.Set("purchase_date", req.PurchaseDate.Time)
	}
	if req.PurchaseValue.Valid {
		changes.Set("purchase_value", req.PurchaseValue.Decimal)
	}

	if err := s.assets.Update(ctx, id, changes); err != nil {
		return types.Asset{}, err
	}
	return s.assets.Get(ctx, id)
}

// Delete soft-deletes the asset and releases its place in the zone.
func (s *AssetService) Delete(ctx context.Context, id int) error {
	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		asset, err := s.assets.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if asset.IsDeleted() {
			return store.ErrNotFound
		}
		if err := s.assets.Delete(ctx, id); err != nil {
			return err
		}
		return s.zones.AdjustAssetCount(ctx, asset.ZoneID, -1)
	})
}

// Move relocates an active asset, adjusts both zone counters and logs the
// movement in one transaction. Alerts and the asset.moved event follow the
// commit.
func (s *AssetService) Move(ctx context.Context, id int, req dto.MoveAssetRequest) (types.AssetLog, error) {
	movementType, ok := types.NormalizeMovementType(req.MovementType)
	if !ok {
		return types.AssetLog{}, ruleErr(RuleMovementType, "Unknown movement type %q.", req.MovementType)
	}
	shift, ok := types.NormalizeShiftTime(req.ShiftTime)
	if !ok {
		return types.AssetLog{}, ruleErr(RuleShiftTime, "Unknown shift time %q.", req.ShiftTime)
	}

	var (
		asset  types.Asset
		from   types.Zone
		target types.Zone
		entry  types.AssetLog
	)
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		asset, err = s.assets.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if asset.IsDeleted() {
			return store.ErrNotFound
		}
		if asset.ZoneID == req.ToZoneID {
			return ruleErr(RuleSameZone, "Asset %q is already in zone %d.", asset.Name, req.ToZoneID)
		}

		// Lock both zones in id order so concurrent opposite moves cannot deadlock.
		if asset.ZoneID < req.ToZoneID {
			if from, err = s.zones.GetForUpdate(ctx, asset.ZoneID); err != nil {
				return err
			}
			if target, err = s.targetZone(ctx, req.ToZoneID); err != nil {
				return err
			}
		} else {
			if target, err = s.targetZone(ctx, req.ToZoneID); err != nil {
				return err
			}
			if from, err = s.zones.GetForUpdate(ctx, asset.ZoneID); err != nil {
				return err
			}
		}

		if err := s.assets.SetZone(ctx, asset.ID, target.ID); err != nil {
			return err
		}
		if err := s.zones.AdjustAssetCount(ctx, from.ID, -1); err != nil {
			return err
		}
		if err := s.zones.AdjustAssetCount(ctx, target.ID, 1); err != nil {
			return err
		}

		fromID := from.ID
		entry, err = s.logs.Create(ctx, types.AssetLog{
			AssetID:      asset.ID,
			FromZoneID:   &fromID,
			ToZoneID:     target.ID,
			MovementType: movementType,
			ShiftTime:    shift,
			MovedBy:      strings.TrimSpace(req.MovedBy),
			Reason:       strings.TrimSpace(req.Reason),
			Notes:        strings.TrimSpace(req.Notes),
		})
		return err
	})
	if err != nil {
		return types.AssetLog{}, err
	}

	entry.AssetName = asset.Name
	entry.FromZoneName = from.Name
	entry.ToZoneName = target.Name
	metrics.AssetMovements.WithLabelValues(movementType).Inc()
	s.log.Info("asset moved",
		zap.Int("asset_id", asset.ID),
		zap.Int("from_zone_id", from.ID),
		zap.Int("to_zone_id", target.ID),
		zap.String("movement_type", movementType),
	)

	target.CurrentAssetCount++
	asset.ZoneID = target.ID
	asset.ZoneName = target.Name
	asset.ZoneTypeName = target.ZoneTypeName
	asset.ZoneRestricted = target.ZoneTypeRestricted
	s.alerts.CheckZoneEntry(ctx, asset, target)

	if err := s.publisher.AssetMoved(ctx, events.AssetMoved{
		AssetID:      asset.ID,
		AssetName:    asset.Name,
		FromZoneID:   from.ID,
		ToZoneID:     target.ID,
		ToZoneName:   target.Name,
		MovementType: movementType,
		ShiftTime:    shift,
		MovedBy:      entry.MovedBy,
		LogID:        entry.ID,
		OccurredAt:   entry.CreatedAt,
	}); err != nil {
		s.log.Warn("publish asset movement", zap.Int("asset_id", asset.ID), zap.Error(err))
	}

	return entry, nil
}

// targetZone locks the zone an asset is about to enter and applies the
// zone settings to it.
func (s *AssetService) targetZone(ctx context.Context, zoneID int) (types.Zone, error) {
	zone, err := s.zones.GetForUpdate(ctx, zoneID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Zone{}, ruleErr(RuleZoneMissing, "Zone %d does not exist.", zoneID)
		}
		return types.Zone{}, err
	}
	if zone.IsDeleted() && !s.settings.Zones.AllowMovementToInactiveZones {
		return types.Zone{}, ruleErr(RuleZoneInactive, "Zone %q is not active.", zone.Name)
	}
	if s.settings.Zones.EnforceCapacityLimits && zone.IsAtCapacity() {
		return types.Zone{}, conflictErr(RuleZoneFull, "Zone %q is at capacity (%d).", zone.Name, *zone.Capacity)
	}
	return zone, nil
}

func (s *AssetService) checkAssetCode(ctx context.Context, code string, excludeID int) error {
	if code == "" {
		if s.settings.Assets.RequireAssetCode && excludeID == 0 {
			return ruleErr(RuleAssetCodeRequired, "Asset code is required.")
		}
		return nil
	}
	if s.settings.Assets.AllowDuplicateAssetCodes {
		return nil
	}
	exists, err := s.assets.CodeExists(ctx, code, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return conflictErr(RuleAssetCodeTaken, "Asset code %q is already in use.", code)
	}
	return nil
}

func (s *AssetService) shiftOrNow(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return types.ShiftAt(s.now())
	}
	v, _ := types.NormalizeShiftTime(raw)
	return v
}
