package store

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/zonetrack/apiserver/types"
)

// ZoneFilter narrows zone listings.
type ZoneFilter struct {
	ZoneTypeID     int
	IncludeDeleted bool
}

// ZoneRepository handles persistence for zones. Restriction and type name
// are joined from zone_types on every read.
type ZoneRepository struct {
	db *sql.DB
}

func NewZoneRepository(db *sql.DB) *ZoneRepository {
	return &ZoneRepository{db: db}
}

func (r *ZoneRepository) selectBuilder() sq.SelectBuilder {
	return psql.Select(
		"z.id", "z.name", "z.zone_type_id", "z.description", "z.location", "z.capacity",
		"z.current_asset_count", "z.status", "z.created_at", "z.updated_at",
		"zt.name", "zt.is_restricted",
	).From("zones z").Join("zone_types zt ON zt.id = z.zone_type_id")
}

func (r *ZoneRepository) List(ctx context.Context, filter ZoneFilter) ([]types.Zone, error) {
	b := r.selectBuilder().OrderBy("z.name")
	if !filter.IncludeDeleted {
		b = b.Where(sq.Eq{"z.status": types.StatusActive})
	}
	if filter.ZoneTypeID > 0 {
		b = b.Where(sq.Eq{"z.zone_type_id": filter.ZoneTypeID})
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

	zones := make([]types.Zone, 0)
	for rows.Next() {
		zone, err := scanZone(rows)
		if err != nil {
			return nil, err
		}
		zones = append(zones, zone)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return zones, nil
}

func (r *ZoneRepository) Get(ctx context.Context, id int) (types.Zone, error) {
	query, args, err := r.selectBuilder().Where(sq.Eq{"z.id": id}).ToSql()
	if err != nil {
		return types.Zone{}, err
	}
	return scanZone(conn(ctx, r.db).QueryRowContext(ctx, query, args...))
}

// GetForUpdate locks the zone row for the rest of the transaction in ctx.
func (r *ZoneRepository) GetForUpdate(ctx context.Context, id int) (types.Zone, error) {
	query, args, err := r.selectBuilder().Where(sq.Eq{"z.id": id}).Suffix("FOR UPDATE OF z").ToSql()
	if err != nil {
		return types.Zone{}, err
	}
	return scanZone(conn(ctx, r.db).QueryRowContext(ctx, query, args...))
}

func (r *ZoneRepository) Create(ctx context.Context, zone types.Zone) (types.Zone, error) {
	ts := now()
	zone.Status = types.StatusActive
	zone.CreatedAt = ts
	zone.UpdatedAt = ts

	const query = `
		INSERT INTO zones (name, zone_type_id, description, location, capacity, current_asset_count, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	if err := conn(ctx, r.db).QueryRowContext(
		ctx,
		query,
		zone.Name,
		zone.ZoneTypeID,
		zone.Description,
		zone.Location,
		nullableInt(zone.Capacity),
		zone.CurrentAssetCount,
		zone.Status,
		zone.CreatedAt,
		zone.UpdatedAt,
	).Scan(&zone.ID); err != nil {
		return types.Zone{}, classify(err)
	}
	return zone, nil
}

func (r *ZoneRepository) Update(ctx context.Context, id int, changes Changes) error {
	return execUpdate(ctx, conn(ctx, r.db), "zones", changes, sq.Eq{"id": id, "status": types.StatusActive})
}

// AdjustAssetCount adds delta to the zone's asset counter, never going
// below zero.
func (r *ZoneRepository) AdjustAssetCount(ctx context.Context, id, delta int) error {
	const query = `
		UPDATE zones
		SET current_asset_count = GREATEST(current_asset_count + $1, 0),
			updated_at = $2
		WHERE id = $3`
	result, err := conn(ctx, r.db).ExecContext(ctx, query, delta, now(), id)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

func (r *ZoneRepository) Delete(ctx context.Context, id int) error {
	return softDelete(ctx, conn(ctx, r.db), "zones", id)
}

func scanZone(row rowScanner) (types.Zone, error) {
	var zone types.Zone
	var capacity sql.NullInt64
	err := row.Scan(
		&zone.ID,
		&zone.Name,
		&zone.ZoneTypeID,
		&zone.Description,
		&zone.Location,
		&capacity,
		&zone.CurrentAssetCount,
		&zone.Status,
		&zone.CreatedAt,
		&zone.UpdatedAt,
		&zone.ZoneTypeName,
		&zone.ZoneTypeRestricted,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Zone{}, ErrNotFound
		}
		return types.Zone{}, err
	}
	zone.Capacity = intFromNull(capacity)
	return zone, nil
}
