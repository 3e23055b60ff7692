package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"precis/backend/internal/model"
)

// SettingsRepository defines the interface for settings storage.
type SettingsRepository interface {
	Get(ctx context.Context, key string) (*model.Setting, error)
	Set(ctx context.Context, key, value string) error
	// SetMany writes all values in one transaction.
	SetMany(ctx context.Context, values map[string]string) error
	GetByPrefix(ctx context.Context, prefix string) ([]model.Setting, error)
	Delete(ctx context.Context, key string) error
}

type settingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new settings repository.
func NewSettingsRepository(db *sql.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

// Get retrieves a setting by key. A missing key yields (nil, nil).
func (r *settingsRepository) Get(ctx context.Context, key string) (*model.Setting, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT key, value, updated_at FROM settings WHERE key = ?
	`, key)

	var s model.Setting
	var updatedAt string
	if err := row.Scan(&s.Key, &s.Value, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	s.UpdatedAt, _ = parseTime(updatedAt)
	return &s, nil
}

func (r *settingsRepository) Set(ctx context.Context, key, value string) error {
	return upsertSetting(ctx, r.db, key, value, time.Now())
}

func (r *settingsRepository) SetMany(ctx context.Context, values map[string]string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now()
	for key, value := range values {
		if err := upsertSetting(ctx, tx, key, value, now); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}
	return tx.Commit()
}

// GetByPrefix retrieves all settings with keys starting with the given prefix.
func (r *settingsRepository) GetByPrefix(ctx context.Context, prefix string) ([]model.Setting, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT key, value, updated_at FROM settings WHERE key LIKE ? ORDER BY key
	`, prefix+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []model.Setting
	for rows.Next() {
		var s model.Setting
		var updatedAt string
		if err := rows.Scan(&s.Key, &s.Value, &updatedAt); err != nil {
			return nil, err
		}
		s.UpdatedAt, _ = parseTime(updatedAt)
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

func (r *settingsRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key)
	return err
}

func upsertSetting(ctx context.Context, db dbtx, key, value string, now time.Time) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, formatTime(now))
	return err
}
