package store

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/zonetrack/apiserver/types"
)

const userColumns = `id, name, email, phone, type, created_at, updated_at`

// UserRepository handles persistence for users.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// List returns every user, newest first.
func (r *UserRepository) List(ctx context.Context) ([]types.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	return r.query(ctx, query)
}

// ListByType returns the users of one type, newest first.
func (r *UserRepository) ListByType(ctx context.Context, userType types.UserType) ([]types.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE type = $1 ORDER BY created_at DESC`
	return r.query(ctx, query, int(userType))
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (types.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

// GetByEmail also loads the password hash for credential checks.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	const query = `
		SELECT id, name, email, phone, type, created_at, updated_at, password_hash
		FROM users
		WHERE lower(email) = lower($1)`
	var user types.User
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Phone,
		&user.Type,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.PasswordHash,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

// Create inserts the user and reads the stored row back on the same
// connection.
func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	c, err := r.db.Conn(ctx)
	if err != nil {
		return types.User{}, err
	}
	defer c.Close()

	ts := now()
	const insert = `
		INSERT INTO users (name, email, phone, password_hash, type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	var id int
	if err := c.QueryRowContext(
		ctx,
		insert,
		user.Name,
		user.Email,
		user.Phone,
		user.PasswordHash,
		int(user.Type),
		ts,
		ts,
	).Scan(&id); err != nil {
		return types.User{}, classify(err)
	}

	const reread = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(c.QueryRowContext(ctx, reread, id))
}

// Update writes only the changed columns and refreshes updated_at.
func (r *UserRepository) Update(ctx context.Context, id int, changes Changes) error {
	if changes.Empty() {
		return nil
	}
	return execUpdate(ctx, r.db, "users", changes, sq.Eq{"id": id})
}

// Delete removes the user row for good.
func (r *UserRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM users WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

func (r *UserRepository) query(ctx context.Context, query string, args ...any) ([]types.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]types.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func scanUser(row rowScanner) (types.User, error) {
	var user types.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Phone,
		&user.Type,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}
