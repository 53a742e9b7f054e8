package store

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
	"github.com/zonetrack/apiserver/types"
)

// AssetFilter narrows asset listings. Zero values mean no filter.
type AssetFilter struct {
	ZoneID         int
	AssetType      string
	IncludeDeleted bool
}

// AssetRepository handles persistence for assets.
type AssetRepository struct {
	db *sql.DB
}

func NewAssetRepository(db *sql.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

func (r *AssetRepository) selectBuilder() sq.SelectBuilder {
	return psql.Select(
		"a.id", "a.name", "a.asset_code", "a.zone_id", "a.description", "a.asset_type",
		"a.serial_number", "a.purchase_date", "a.purchase_value",
		"a.status", "a.created_at", "a.updated_at",
		"COALESCE(z.name, '')", "COALESCE(zt.name, '')", "COALESCE(zt.is_restricted, 0)",
	).
		From("assets a").
		LeftJoin("zones z ON z.id = a.zone_id").
		LeftJoin("zone_types zt ON zt.id = z.zone_type_id")
}

func (r *AssetRepository) List(ctx context.Context, filter AssetFilter) ([]types.Asset, error) {
	b := r.selectBuilder().OrderBy("a.name")
	if !filter.IncludeDeleted {
		b = b.Where(sq.Eq{"a.status": types.StatusActive})
	}
	if filter.ZoneID > 0 {
		b = b.Where(sq.Eq{"a.zone_id": filter.ZoneID})
	}
	if filter.AssetType != "" {
		b = b.Where("lower(a.asset_type) = lower(?)", filter.AssetType)
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

	assets := make([]types.Asset, 0)
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assets, nil
}

func (r *AssetRepository) Get(ctx context.Context, id int) (types.Asset, error) {
	query, args, err := r.selectBuilder().Where(sq.Eq{"a.id": id}).ToSql()
	if err != nil {
		return types.Asset{}, err
	}
	return scanAsset(conn(ctx, r.db).QueryRowContext(ctx, query, args...))
}

// GetForUpdate locks the asset row for the rest of the transaction in ctx.
func (r *AssetRepository) GetForUpdate(ctx context.Context, id int) (types.Asset, error) {
	query, args, err := r.selectBuilder().Where(sq.Eq{"a.id": id}).Suffix("FOR UPDATE OF a").ToSql()
	if err != nil {
		return types.Asset{}, err
	}
	return scanAsset(conn(ctx, r.db).QueryRowContext(ctx, query, args...))
}

// CodeExists reports whether an active asset other than excludeID already
// uses code.
func (r *AssetRepository) CodeExists(ctx context.Context, code string, excludeID int) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM assets
			WHERE asset_code = $1 AND status = 1 AND id <> $2
		)`
	var exists bool
	if err := conn(ctx, r.db).QueryRowContext(ctx, query, code, excludeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *AssetRepository) Create(ctx context.Context, asset types.Asset) (types.Asset, error) {
	ts := now()
	asset.Status = types.StatusActive
	asset.CreatedAt = ts
	asset.UpdatedAt = ts

	const query = `
		INSERT INTO assets (
			name, asset_code, zone_id, description, asset_type, serial_number,
			purchase_date, purchase_value, status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	if err := conn(ctx, r.db).QueryRowContext(
		ctx,
		query,
		asset.Name,
		asset.AssetCode,
		asset.ZoneID,
		asset.Description,
		asset.AssetType,
		asset.SerialNumber,
		nullableTime(asset.PurchaseDate),
		asset.PurchaseValue,
		asset.Status,
		asset.CreatedAt,
		asset.UpdatedAt,
	).Scan(&asset.ID); err != nil {
		return types.Asset{}, classify(err)
	}
	return asset, nil
}

func (r *AssetRepository) Update(ctx context.Context, id int, changes Changes) error {
	return execUpdate(ctx, conn(ctx, r.db), "assets", changes, sq.Eq{"id": id, "status": types.StatusActive})
}

// SetZone moves the asset to zoneID.
func (r *AssetRepository) SetZone(ctx context.Context, id, zoneID int) error {
	var changes Changes
	changes.Set("zone_id", zoneID)
	return r.Update(ctx, id, changes)
}

func (r *AssetRepository) Delete(ctx context.Context, id int) error {
	return softDelete(ctx, conn(ctx, r.db), "assets", id)
}

func scanAsset(row rowScanner) (types.Asset, error) {
	var (
		asset        types.Asset
		purchaseDate sql.NullTime
		value        decimal.NullDecimal
	)
	err := row.Scan(
		&asset.ID,
		&asset.Name,
		&asset.AssetCode,
		&asset.ZoneID,
		&asset.Description,
		&asset.AssetType,
		&asset.SerialNumber,
		&purchaseDate,
		&value,
		&asset.Status,
		&asset.CreatedAt,
		&asset.UpdatedAt,
		&asset.ZoneName,
		&asset.ZoneTypeName,
		&asset.ZoneRestricted,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Asset{}, ErrNotFound
		}
		return types.Asset{}, err
	}
	asset.PurchaseDate = timeFromNull(purchaseDate)
	asset.PurchaseValue = value
	return asset, nil
}
