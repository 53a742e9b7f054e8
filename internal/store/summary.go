package store

import (
	"context"
	"database/sql"

	"github.com/zonetrack/apiserver/types"
)

// SummaryRepository aggregates counts across the whole schema.
type SummaryRepository struct {
	db *sql.DB
}

func NewSummaryRepository(db *sql.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

// Counts fills the scalar totals of a summary.
func (r *SummaryRepository) Counts(ctx context.Context) (types.SystemSummary, error) {
	const query = `
		SELECT
			(SELECT COUNT(1) FROM zone_types WHERE status = 1),
			(SELECT COUNT(1) FROM zones WHERE status = 1),
			(SELECT COUNT(1) FROM assets),
			(SELECT COUNT(1) FROM assets WHERE status = 1),
			(SELECT COUNT(1) FROM asset_logs WHERE status = 1),
			(SELECT COUNT(1) FROM alerts WHERE status = 1 AND is_read = false),
			(SELECT COUNT(1) FROM zone_types WHERE status = 1 AND is_restricted = 1),
			(SELECT COUNT(1)
				FROM assets a
				JOIN zones z ON z.id = a.zone_id
				JOIN zone_types zt ON zt.id = z.zone_type_id
				WHERE a.status = 1 AND zt.is_restricted = 1)`
	var s types.SystemSummary
	err := conn(ctx, r.db).QueryRowContext(ctx, query).Scan(
		&s.TotalZoneTypes,
		&s.TotalZones,
		&s.TotalAssets,
		&s.ActiveAssets,
		&s.TotalMovements,
		&s.UnreadAlerts,
		&s.RestrictedZones,
		&s.AssetsInRestrictedZones,
	)
	if err != nil {
		return types.SystemSummary{}, err
	}
	return s, nil
}

// AssetsByZoneType counts active assets per zone type name.
func (r *SummaryRepository) AssetsByZoneType(ctx context.Context) (map[string]int, error) {
	const query = `
		SELECT zt.name, COUNT(a.id)
		FROM zone_types zt
		JOIN zones z ON z.zone_type_id = zt.id
		JOIN assets a ON a.zone_id = z.id AND a.status = 1
		WHERE zt.status = 1
		GROUP BY zt.name`
	return r.groupCounts(ctx, query)
}

// AlertsBySeverity counts active alerts per severity.
func (r *SummaryRepository) AlertsBySeverity(ctx context.Context) (map[string]int, error) {
	const query = `SELECT severity, COUNT(1) FROM alerts WHERE status = 1 GROUP BY severity`
	return r.groupCounts(ctx, query)
}

func (r *SummaryRepository) groupCounts(ctx context.Context, query string) (map[string]int, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			key   string
			count int
		)
		if err := rows.Scan(&key, &count); err != nil {
			return nil, err
		}
		counts[key] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}
