package markers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/brokergate/client/internal/dbx"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM markers WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get marker[%s]: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key, value string) error {
	return set(ctx, r.db, key, value)
}

func set(ctx context.Context, db dbx.DBTX, key, value string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO markers (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set marker[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) SetSession(ctx context.Context, clientID string) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := set(ctx, tx, KeyClientID, clientID); err != nil {
			return err
		}
		return set(ctx, tx, KeyAuthActive, ActiveValue)
	})
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM markers WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete marker[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM markers`)
	if err != nil {
		return fmt.Errorf("failed to clear markers: %w", err)
	}
	return nil
}
