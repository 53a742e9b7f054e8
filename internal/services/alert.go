package services

import (
	"context"
	"fmt"
	"time"

	"github.com/zonetrack/apiserver/config"
	"github.com/zonetrack/apiserver/internal/events"
	"github.com/zonetrack/apiserver/internal/metrics"
	"github.com/zonetrack/apiserver/internal/store"
	"github.com/zonetrack/apiserver/types"
	"go.uber.org/zap"
)

// AlertRepository defines persistence operations for alerts.
type AlertRepository interface {
	Create(ctx context.Context, alert types.Alert) (types.Alert, error)
	Get(ctx context.Context, id int) (types.Alert, error)
	List(ctx context.Context, filter store.AlertFilter) ([]types.Alert, error)
	CountForAsset(ctx context.Context, assetID int) (int, error)
	MarkRead(ctx context.Context, id int) error
	Delete(ctx context.Context, id int) error
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// AlertPublisher announces stored alerts.
type AlertPublisher interface {
	AlertRaised(ctx context.Context, event events.AlertRaised) error
}

// AlertService stores alerts and derives them from zone entries.
type AlertService struct {
	repo      AlertRepository
	publisher AlertPublisher
	settings  config.Settings
	log       *zap.Logger
}

func NewAlertService(repo AlertRepository, publisher AlertPublisher, settings config.Settings, log *zap.Logger) *AlertService {
	return &AlertService{repo: repo, publisher: publisher, settings: settings, log: log}
}

func (s *AlertService) List(ctx context.Context, filter store.AlertFilter) ([]types.Alert, error) {
	return s.repo.List(ctx, filter)
}

func (s *AlertService) Get(ctx context.Context, id int) (types.Alert, error) {
	return s.repo.Get(ctx, id)
}

func (s *AlertService) MarkRead(ctx context.Context, id int) (types.Alert, error) {
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return types.Alert{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *AlertService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

// Raise stores alert unless its asset already has MaxAlertsPerAsset active
// alerts. It reports whether the alert was stored.
func (s *AlertService) Raise(ctx context.Context, alert types.Alert) (types.Alert, bool, error) {
	if limit := s.settings.Alerts.MaxAlertsPerAsset; alert.AssetID != nil && limit > 0 {
		count, err := s.repo.CountForAsset(ctx, *alert.AssetID)
		if err != nil {
			return types.Alert{}, false, err
		}
		if count >= limit {
			s.log.Debug("alert limit reached",
				zap.Int("asset_id", *alert.AssetID),
				zap.String("alert_type", alert.AlertType),
			)
			return types.Alert{}, false, nil
		}
	}

	stored, err := s.repo.Create(ctx, alert)
	if err != nil {
		return types.Alert{}, false, err
	}
	metrics.AlertsRaised.WithLabelValues(stored.AlertType).Inc()

	if err := s.publisher.AlertRaised(ctx, events.AlertRaised{
		AlertID:    stored.ID,
		AssetID:    stored.AssetID,
		ZoneID:     stored.ZoneID,
		AlertType:  stored.AlertType,
		Severity:   stored.Severity,
		Message:    stored.Message,
		OccurredAt: stored.CreatedAt,
	}); err != nil {
		s.log.Warn("publish alert", zap.Int("alert_id", stored.ID), zap.Error(err))
	}
	return stored, true, nil
}

// CheckZoneEntry raises the alerts caused by asset arriving in zone. zone
// must already count the asset. Failures are logged, never returned, so a
// committed movement is not reported as failed.
func (s *AlertService) CheckZoneEntry(ctx context.Context, asset types.Asset, zone types.Zone) []types.Alert {
	var candidates []types.Alert
	assetID, zoneID := asset.ID, zone.ID

	if zone.IsRestricted() && s.settings.Alerts.AutoGenerateRestrictedZoneAlerts {
		candidates = append(candidates, types.Alert{
			AssetID:   &assetID,
			ZoneID:    &zoneID,
			AlertType: types.AlertRestrictedZoneEntry,
			Severity:  types.SeverityHigh,
			Message:   fmt.Sprintf("Asset %q entered restricted zone %q.", asset.Name, zone.Name),
		})
	}

	if zone.Capacity != nil && s.settings.Alerts.AutoGenerateCapacityAlerts {
		capacity := *zone.Capacity
		switch {
		case zone.CurrentAssetCount > capacity:
			candidates = append(candidates, types.Alert{
				AssetID:   &assetID,
				ZoneID:    &zoneID,
				AlertType: types.AlertCapacityExceeded,
				Severity:  types.SeverityCritical,
				Message:   fmt.Sprintf("Zone %q holds %d assets, capacity is %d.", zone.Name, zone.CurrentAssetCount, capacity),
			})
		case zone.IsNearCapacity(s.settings.Zones.CapacityWarningThreshold):
			severity := types.SeverityMedium
			if zone.IsAtCapacity() {
				severity = types.SeverityHigh
			}
			candidates = append(candidates, types.Alert{
				AssetID:   &assetID,
				ZoneID:    &zoneID,
				AlertType: types.AlertCapacityWarning,
				Severity:  severity,
				Message:   fmt.Sprintf("Zone %q is at %.0f%% of capacity.", zone.Name, zone.CapacityUtilization()),
			})
		}
	}

	raised := make([]types.Alert, 0, len(candidates))
	for _, candidate := range candidates {
		stored, ok, err := s.Raise(ctx, candidate)
		if err != nil {
			s.log.Error("raise alert",
				zap.Int("asset_id", assetID),
				zap.Int("zone_id", zoneID),
				zap.String("alert_type", candidate.AlertType),
				zap.Error(err),
			)
			continue
		}
		if ok {
			raised = append(raised, stored)
		}
	}
	return raised
}
