package store

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/zonetrack/apiserver/types"
)

// AssetLogRepository handles persistence for movement logs.
type AssetLogRepository struct {
	db *sql.DB
}

func NewAssetLogRepository(db *sql.DB) *AssetLogRepository {
	return &AssetLogRepository{db: db}
}

func (r *AssetLogRepository) selectBuilder() sq.SelectBuilder {
	return psql.Select(
		"l.id", "l.asset_id", "l.from_zone_id", "l.to_zone_id", "l.movement_type",
		"l.shift_time", "l.moved_by", "l.reason", "l.notes",
		"l.status", "l.created_at", "l.updated_at",
		"COALESCE(a.name, '')", "COALESCE(fz.name, '')", "COALESCE(tz.name, '')",
	).
		From("asset_logs l").
		LeftJoin("assets a ON a.id = l.asset_id").
		LeftJoin("zones fz ON fz.id = l.from_zone_id").
		LeftJoin("zones tz ON tz.id = l.to_zone_id").
		Where(sq.Eq{"l.status": types.StatusActive})
}

func (r *AssetLogRepository) Create(ctx context.Context, entry types.AssetLog) (types.AssetLog, error) {
	ts := now()
	entry.Status = types.StatusActive
	entry.CreatedAt = ts
	entry.UpdatedAt = ts

	const query = `
		INSERT INTO asset_logs (
			asset_id, from_zone_id, to_zone_id, movement_type, shift_time,
			moved_by, reason, notes, status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	if err := conn(ctx, r.db).QueryRowContext(
		ctx,
		query,
		entry.AssetID,
		nullableInt(entry.FromZoneID),
		entry.ToZoneID,
		entry.MovementType,
		entry.ShiftTime,
		entry.MovedBy,
		entry.Reason,
		entry.Notes,
		entry.Status,
		entry.CreatedAt,
		entry.UpdatedAt,
	).Scan(&entry.ID); err != nil {
		return types.AssetLog{}, classify(err)
	}
	return entry, nil
}

// ListByAsset returns the movement history of one asset, newest first.
func (r *AssetLogRepository) ListByAsset(ctx context.Context, assetID int) ([]types.AssetLog, error) {
	return r.list(ctx, r.selectBuilder().Where(sq.Eq{"l.asset_id": assetID}).OrderBy("l.created_at DESC", "l.id DESC"))
}

// Recent returns the latest movements across all assets.
func (r *AssetLogRepository) Recent(ctx context.Context, limit int) ([]types.AssetLog, error) {
	return r.list(ctx, r.selectBuilder().OrderBy("l.created_at DESC", "l.id DESC").Limit(uint64(limit)))
}

// PurgeOlderThan soft-deletes logs created before cutoff and returns how
// many rows changed.
func (r *AssetLogRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `UPDATE asset_logs SET status = 0, updated_at = $1 WHERE status = 1 AND created_at < $2`
	result, err := conn(ctx, r.db).ExecContext(ctx, query, now(), cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *AssetLogRepository) list(ctx context.Context, b sq.SelectBuilder) ([]types.AssetLog, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]types.AssetLog, 0)
	for rows.Next() {
		var (
			entry    types.AssetLog
			fromZone sql.NullInt64
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.AssetID,
			&fromZone,
			&entry.ToZoneID,
			&entry.MovementType,
			&entry.ShiftTime,
			&entry.MovedBy,
			&entry.Reason,
			&entry.Notes,
			&entry.Status,
			&entry.CreatedAt,
			&entry.UpdatedAt,
			&entry.AssetName,
			&entry.FromZoneName,
			&entry.ToZoneName,
		); err != nil {
			return nil, err
		}
		entry.FromZoneID = intFromNull(fromZone)
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}
