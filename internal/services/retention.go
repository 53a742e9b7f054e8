package services

import (
	"context"
	"fmt"
	"time"

	"github.com/zonetrack/apiserver/config"
	"go.uber.org/zap"
)

// RetentionResult reports how many rows a sweep soft-deleted.
type RetentionResult struct {
	Alerts    int64
	AssetLogs int64
}

// RetentionService soft-deletes alerts and movement logs past their
// configured retention.
type RetentionService struct {
	alerts   AlertRepository
	logs     AssetLogRepository
	settings config.Settings
	log      *zap.Logger
	now      func() time.Time
}

func NewRetentionService(alerts AlertRepository, logs AssetLogRepository, settings config.Settings, log *zap.Logger) *RetentionService {
	return &RetentionService{
		alerts:   alerts,
		logs:     logs,
		settings: settings,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Purge runs one sweep. A retention of zero days or less keeps rows forever.
func (s *RetentionService) Purge(ctx context.Context) (RetentionResult, error) {
	var result RetentionResult
	now := s.now()

	if days := s.settings.Alerts.AlertRetentionDays; days > 0 {
		n, err := s.alerts.PurgeOlderThan(ctx, now.AddDate(0, 0, -days))
		if err != nil {
			return result, fmt.Errorf("purge alerts: %w", err)
		}
		result.Alerts = n
	}

	if days := s.settings.Assets.AssetHistoryRetentionDays; days > 0 {
		n, err := s.logs.PurgeOlderThan(ctx, now.AddDate(0, 0, -days))
		if err != nil {
			return result, fmt.Errorf("purge asset logs: %w", err)
		}
		result.AssetLogs = n
	}

	s.log.Info("retention sweep finished",
		zap.Int64("alerts", result.Alerts),
		zap.Int64("asset_logs", result.AssetLogs),
	)
	return result, nil
}
