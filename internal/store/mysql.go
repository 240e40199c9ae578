package store

import (
	"context"
	"database/sql"
	"errors"
)

// MySQLBackend keeps every key as one row of the kv_store table created by
// database.EnsureSchema.  REPLACE INTO swaps the row in a single statement.
type MySQLBackend struct {
	db *sql.DB
}

// NewMySQLBackend wraps an open connection pool.
func NewMySQLBackend(db *sql.DB) *MySQLBackend { return &MySQLBackend{db: db} }

func (m *MySQLBackend) Read(ctx context.Context, key string) ([]byte, error) {
	const q = "SELECT v FROM kv_store WHERE k = ?"
	var v []byte
	if err := m.db.QueryRowContext(ctx, q, key).Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

func (m *MySQLBackend) Write(ctx context.Context, key string, value []byte) error {
	const q = "REPLACE INTO kv_store (k, v) VALUES (?, ?)"
	_, err := m.db.ExecContext(ctx, q, key, value)
	return err
}

func (m *MySQLBackend) Delete(ctx context.Context, key string) error {
	_, err := m.db.ExecContext(ctx, "DELETE FROM kv_store WHERE k = ?", key)
	return err
}

func (m *MySQLBackend) Close() error { return m.db.Close() }
