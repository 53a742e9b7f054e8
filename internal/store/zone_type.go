package store

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/zonetrack/apiserver/types"
)

// ZoneTypeRepository handles persistence for zone types.
type ZoneTypeRepository struct {
	db *sql.DB
}

func NewZoneTypeRepository(db *sql.DB) *ZoneTypeRepository {
	return &ZoneTypeRepository{db: db}
}

func (r *ZoneTypeRepository) selectBuilder() sq.SelectBuilder {
	return psql.Select(
		"zt.id", "zt.name", "zt.code", "zt.description", "zt.is_restricted", "zt.color", "zt.priority",
		"zt.status", "zt.created_at", "zt.updated_at",
		"(SELECT COUNT(1) FROM zones z WHERE z.zone_type_id = zt.id AND z.status = 1) AS zone_count",
	).From("zone_types zt")
}

// List returns zone types ordered by priority, highest first.
func (r *ZoneTypeRepository) List(ctx context.Context, includeDeleted bool) ([]types.ZoneType, error) {
	b := r.selectBuilder().OrderBy("zt.priority DESC", "zt.name")
	if !includeDeleted {
		b = b.Where(sq.Eq{"zt.status": types.StatusActive})
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

	items := make([]types.ZoneType, 0)
	for rows.Next() {
		item, err := scanZoneType(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ZoneTypeRepository) Get(ctx context.Context, id int) (types.ZoneType, error) {
	query, args, err := r.selectBuilder().Where(sq.Eq{"zt.id": id}).ToSql()
	if err != nil {
		return types.ZoneType{}, err
	}
	return scanZoneType(conn(ctx, r.db).QueryRowContext(ctx, query, args...))
}

func (r *ZoneTypeRepository) Create(ctx context.Context, zt types.ZoneType) (types.ZoneType, error) {
	ts := now()
	zt.Status = types.StatusActive
	zt.CreatedAt = ts
	zt.UpdatedAt = ts

	const query = `
		INSERT INTO zone_types (name, code, description, is_restricted, color, priority, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	if err := conn(ctx, r.db).QueryRowContext(
		ctx,
		query,
		zt.Name,
		zt.Code,
		zt.Description,
		zt.IsRestricted,
		zt.Color,
		zt.Priority,
		zt.Status,
		zt.CreatedAt,
		zt.UpdatedAt,
	).Scan(&zt.ID); err != nil {
		return types.ZoneType{}, classify(err)
	}
	return zt, nil
}

// Update changes an active zone type.
func (r *ZoneTypeRepository) Update(ctx context.Context, id int, changes Changes) error {
	return execUpdate(ctx, conn(ctx, r.db), "zone_types", changes, sq.Eq{"id": id, "status": types.StatusActive})
}

func (r *ZoneTypeRepository) Delete(ctx context.Context, id int) error {
	return softDelete(ctx, conn(ctx, r.db), "zone_types", id)
}

func scanZoneType(row rowScanner) (types.ZoneType, error) {
	var zt types.ZoneType
	err := row.Scan(
		&zt.ID,
		&zt.Name,
		&zt.Code,
		&zt.Description,
		&zt.IsRestricted,
		&zt.Color,
		&zt.Priority,
		&zt.Status,
		&zt.CreatedAt,
		&zt.UpdatedAt,
		&zt.ZoneCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.ZoneType{}, ErrNotFound
		}
		return types.ZoneType{}, err
	}
	return zt, nil
}
