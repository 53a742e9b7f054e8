package services

import (
	"context"
	"fmt"
	"time"

	"github.com/zonetrack/apiserver/types"
)

const recentMovementLimit = 10

// SummaryRepository aggregates counts for the dashboard.
type SummaryRepository interface {
	Counts(ctx context.Context) (types.SystemSummary, error)
	AssetsByZoneType(ctx context.Context) (map[string]int, error)
	AlertsBySeverity(ctx context.Context) (map[string]int, error)
}

// SummaryService builds the system summary.
type SummaryService struct {
	repo SummaryRepository
	logs AssetLogRepository
	now  func() time.Time
}

func NewSummaryService(repo SummaryRepository, logs AssetLogRepository) *SummaryService {
	return &SummaryService{
		repo: repo,
		logs: logs,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *SummaryService) Summary(ctx context.Context) (types.SystemSummary, error) {
	summary, err := s.repo.Counts(ctx)
	if err != nil {
		return types.SystemSummary{}, fmt.Errorf("summary counts: %w", err)
	}
	if summary.AssetsByZoneType, err = s.repo.AssetsByZoneType(ctx); err != nil {
		return types.SystemSummary{}, fmt.Errorf("assets by zone type: %w", err)
	}
	if summary.AlertsBySeverity, err = s.repo.AlertsBySeverity(ctx); err != nil {
		return types.SystemSummary{}, fmt.Errorf("alerts by severity: %w", err)
	}

	recent, err := s.logs.Recent(ctx, recentMovementLimit)
	if err != nil {
		return types.SystemSummary{}, fmt.Errorf("recent movements: %w", err)
	}
	summary.RecentMovements = make([]string, 0, len(recent))
	for _, entry := range recent {
		summary.RecentMovements = append(summary.RecentMovements,
			fmt.Sprintf("%s: %s", entry.AssetName, entry.MovementDescription()))
	}

	summary.LastUpdated = s.now()
	return summary, nil
}
