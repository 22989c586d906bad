package store

import (
	"context"
	"database/sql"

	"pawnshop-service/internal/models"
)

// GetSetting reads a single configuration value by key
func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.GetContext(ctx, &value, "SELECT value FROM settings WHERE key = ?", key)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// SetSetting writes a configuration value, inserting or replacing
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value)
	return err
}

// ListSettings returns all configuration rows
func (s *Store) ListSettings(ctx context.Context) ([]models.Setting, error) {
	var settings []models.Setting
	err := s.db.SelectContext(ctx, &settings, "SELECT * FROM settings ORDER BY key")
	return settings, err
}

// GetFeeRate looks up the fee percentage for a duration in months
func (s *Store) GetFeeRate(ctx context.Context, months int) (*models.FeeRate, error) {
	var fr models.FeeRate
	err := s.db.GetContext(ctx, &fr, "SELECT * FROM fee_rates WHERE months = ?", months)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &fr, nil
}

// ListFeeRates returns the whole fee-rate table ordered by duration
func (s *Store) ListFeeRates(ctx context.Context) ([]models.FeeRate, error) {
	var rates []models.FeeRate
	err := s.db.SelectContext(ctx, &rates, "SELECT * FROM fee_rates ORDER BY months")
	return rates, err
}

// UpsertFeeRate inserts or replaces the rate for a duration
func (s *Store) UpsertFeeRate(ctx context.Context, months int, ratePercent float64) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO fee_rates (months, rate_percent) VALUES (?, ?) ON CONFLICT(months) DO UPDATE SET rate_percent = excluded.rate_percent",
		months, ratePercent)
	return err
}
