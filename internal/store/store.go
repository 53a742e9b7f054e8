package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

type contextKey int

const txKey contextKey = iota

// executor is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// now is the clock used for audit timestamps.
var now = func() time.Time {
	return time.Now().UTC()
}

// conn returns the transaction stored in ctx, or db.
func conn(ctx context.Context, db *sql.DB) executor {
	if tx, ok := ctx.Value(txKey).(*sql.Tx); ok {
		return tx
	}
	return db
}

// TxManager runs units of work that span several repositories.
type TxManager struct {
	db *sql.DB
}

func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{db: db}
}

// WithTx executes fn inside a transaction. Repositories called with the
// context passed to fn join the transaction.
func (m *TxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx err: %v, rollback err: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Changes is an ordered set of column assignments for a partial update.
// Only columns that were Set end up in the statement.
type Changes struct {
	columns []string
	values  []any
}

// Set records a new value for column, replacing an earlier one.
func (c *Changes) Set(column string, value any) {
	for i, existing := range c.columns {
		if existing == column {
			c.values[i] = value
			return
		}
	}
	c.columns = append(c.columns, column)
	c.values = append(c.values, value)
}

// Empty reports whether no column was set.
func (c Changes) Empty() bool {
	return len(c.columns) == 0
}

// Columns returns the changed columns in the order they were set.
func (c Changes) Columns() []string {
	out := make([]string, len(c.columns))
	copy(out, c.columns)
	return out
}

// Value returns the value recorded for column.
func (c Changes) Value(column string) (any, bool) {
	for i, existing := range c.columns {
		if existing == column {
			return c.values[i], true
		}
	}
	return nil, false
}

func (c Changes) apply(b sq.UpdateBuilder) sq.UpdateBuilder {
	for i, column := range c.columns {
		b = b.Set(column, c.values[i])
	}
	return b
}

// execUpdate applies changes plus updated_at to the row matched by where and
// returns ErrNotFound when nothing matched.
func execUpdate(ctx context.Context, ex executor, table string, changes Changes, where sq.Sqlizer) error {
	if changes.Empty() {
		return nil
	}
	query, args, err := changes.apply(psql.Update(table)).
		Set("updated_at", now()).
		Where(where).
		ToSql()
	if err != nil {
		return err
	}
	result, err := ex.ExecContext(ctx, query, args...)
	if err != nil {
		return classify(err)
	}
	return expectAffected(result)
}

// softDelete flips the status of an active row to deleted.
func softDelete(ctx context.Context, ex executor, table string, id int) error {
	query := fmt.Sprintf(`UPDATE %s SET status = 0, updated_at = $1 WHERE id = $2 AND status = 1`, table)
	result, err := ex.ExecContext(ctx, query, now(), id)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

func expectAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intFromNull(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func nullableTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *v, Valid: true}
}

func timeFromNull(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

// Ping runs a trivial query on a dedicated connection to prove the
// database answers.
func Ping(ctx context.Context, db *sql.DB) (string, error) {
	c, err := db.Conn(ctx)
	if err != nil {
		return "", err
	}
	defer c.Close()

	var message string
	if err := c.QueryRowContext(ctx, `SELECT 'Connection successful!' AS message`).Scan(&message); err != nil {
		return "", err
	}
	return message, nil
}
