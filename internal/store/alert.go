package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/zonetrack/apiserver/types"
)

// AlertFilter narrows alert listings.
type AlertFilter struct {
	UnreadOnly bool
	AssetID    int
	ZoneID     int
}

// AlertRepository handles persistence for alerts.
type AlertRepository struct {
	db *sql.DB
}

func NewAlertRepository(db *sql.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

func (r *AlertRepository) selectBuilder() sq.SelectBuilder {
	return psql.Select(
		"id", "asset_id", "zone_id", "alert_type", "severity", "message", "is_read",
		"status", "created_at", "updated_at",
	).From("alerts")
}

func (r *AlertRepository) Create(ctx context.Context, alert types.Alert) (types.Alert, error) {
	ts := now()
	alert.Status = types.StatusActive
	alert.CreatedAt = ts
	alert.UpdatedAt = ts

	const query = `
		INSERT INTO alerts (asset_id, zone_id, alert_type, severity, message, is_read, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	if err := conn(ctx, r.db).QueryRowContext(
		ctx,
		query,
		nullableInt(alert.AssetID),
		nullableInt(alert.ZoneID),
		alert.AlertType,
		alert.Severity,
		alert.Message,
		alert.IsRead,
		alert.Status,
		alert.CreatedAt,
		alert.UpdatedAt,
	).Scan(&alert.ID); err != nil {
		return types.Alert{}, classify(err)
	}
	return alert, nil
}

func (r *AlertRepository) Get(ctx context.Context, id int) (types.Alert, error) {
	query, args, err := r.selectBuilder().Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return types.Alert{}, err
	}
	return scanAlert(conn(ctx, r.db).QueryRowContext(ctx, query, args...))
}

// List returns active alerts, newest first.
func (r *AlertRepository) List(ctx context.Context, filter AlertFilter) ([]types.Alert, error) {
	b := r.selectBuilder().Where(sq.Eq{"status": types.StatusActive}).OrderBy("created_at DESC", "id DESC")
	if filter.UnreadOnly {
		b = b.Where(sq.Eq{"is_read": false})
	}
	if filter.AssetID > 0 {
		b = b.Where(sq.Eq{"asset_id": filter.AssetID})
	}
	if filter.ZoneID > 0 {
		b = b.Where(sq.Eq{"zone_id": filter.ZoneID})
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	alerts := make([]types.Alert, 0)
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, alert)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return alerts, nil
}

// CountForAsset counts the active alerts raised against an asset.
func (r *AlertRepository) CountForAsset(ctx context.Context, assetID int) (int, error) {
	const query = `SELECT COUNT(1) FROM alerts WHERE asset_id = $1 AND status = 1`
	var count int
	if err := conn(ctx, r.db).QueryRowContext(ctx, query, assetID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *AlertRepository) MarkRead(ctx context.Context, id int) error {
	var changes Changes
	changes.Set("is_read", true)
	return execUpdate(ctx, conn(ctx, r.db), "alerts", changes, sq.Eq{"id": id, "status": types.StatusActive})
}

func (r *AlertRepository) Delete(ctx context.Context, id int) error {
	return softDelete(ctx, conn(ctx, r.db), "alerts", id)
}

// PurgeOlderThan soft-deletes alerts created before cutoff.
func (r *AlertRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `UPDATE alerts SET status = 0, updated_at = $1 WHERE status = 1 AND created_at < $2`
	result, err := conn(ctx, r.db).ExecContext(ctx, query, now(), cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanAlert(row rowScanner) (types.Alert, error) {
	var (
		alert   types.Alert
		assetID sql.NullInt64
		zoneID  sql.NullInt64
	)
	err := row.Scan(
		&alert.ID,
		&assetID,
		&zoneID,
		&alert.AlertType,
		&alert.Severity,
		&alert.Message,
		&alert.IsRead,
		&alert.Status,
		&alert.CreatedAt,
		&alert.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Alert{}, ErrNotFound
		}
		return types.Alert{}, err
	}
	alert.AssetID = intFromNull(assetID)
	alert.ZoneID = intFromNull(zoneID)
	return alert, nil
}
