package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"staffpay/internal/auth"
	"staffpay/internal/config"
)

// Seed provisions the minimum a fresh install needs: one company, one admin
// user, a global statutory rate card and the two payment types the engine
// treats specially. Every step is idempotent.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	companyID, err := ensureCompany(ctx, pool, cfg.SeedCompanyName)
	if err != nil {
		return err
	}

	if cfg.SeedAdminEmail != "" {
		if err := ensureAdminUser(ctx, pool, companyID, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
			return err
		}
	}

	settingsID, created, err := ensureGlobalTaxSettings(ctx, pool)
	if err != nil {
		return err
	}
	if created {
		if err := seedPayeBands(ctx, pool, settingsID); err != nil {
			return err
		}
	}

	return ensureDefaultPaymentTypes(ctx, pool, companyID)
}

func ensureCompany(ctx context.Context, pool *pgxpool.Pool, name string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM companies WHERE name = $1", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}
	err = pool.QueryRow(ctx, "INSERT INTO companies (name) VALUES ($1) RETURNING id", name).Scan(&id)
	return id, err
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, companyID, email, password string) error {
	var exists int
	err := pool.QueryRow(ctx, "SELECT 1 FROM users WHERE email = $1", email).Scan(&exists)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
    INSERT INTO users (company_id, email, password_hash, role)
    VALUES ($1,$2,$3,$4)
  `, companyID, email, hash, auth.RoleAdmin)
	return err
}

// ensureGlobalTaxSettings inserts the statutory defaults (RSSB pension 8/6,
// maternity 0.3/0.3, RAMA 7.5/7.5, CBHI 0.5) when no global rate card exists.
func ensureGlobalTaxSettings(ctx context.Context, pool *pgxpool.Pool) (string, bool, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM tax_settings WHERE company_id IS NULL").Scan(&id)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", false, err
	}
	err = pool.QueryRow(ctx, `
    INSERT INTO tax_settings (company_id, pension_employer_rate, pension_employee_rate,
                              maternity_employer_rate, maternity_employee_rate,
                              rama_employer_rate, rama_employee_rate, cbhi_rate)
    VALUES (NULL, 0.08, 0.06, 0.003, 0.003, 0.075, 0.075, 0.005)
    RETURNING id
  `).Scan(&id)
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

func seedPayeBands(ctx context.Context, pool *pgxpool.Pool, settingsID string) error {
	bands := []struct {
		min  int64
		max  any
		rate float64
	}{
		{0, int64(60000), 0},
		{60001, int64(100000), 0.10},
		{100001, int64(200000), 0.20},
		{200001, nil, 0.30},
	}
	for position, band := range bands {
		if _, err := pool.Exec(ctx, `
      INSERT INTO paye_bands (tax_settings_id, band_min, band_max, rate, position)
      VALUES ($1,$2,$3,$4,$5)
      ON CONFLICT (tax_settings_id, position) DO NOTHING
    `, settingsID, band.min, band.max, band.rate, position); err != nil {
			return err
		}
	}
	return nil
}

func ensureDefaultPaymentTypes(ctx context.Context, pool *pgxpool.Pool, companyID string) error {
	defaults := []struct {
		name     string
		kind     string
		position int
	}{
		{"Basic Pay", "gross", 1},
		{"Transport Allowance", "gross", 2},
	}
	for _, paymentType := range defaults {
		if _, err := pool.Exec(ctx, `
      INSERT INTO payment_types (company_id, name, kind, position)
      VALUES ($1,$2,$3,$4)
      ON CONFLICT (company_id, name) DO NOTHING
    `, companyID, paymentType.name, paymentType.kind, paymentType.position); err != nil {
			return err
		}
	}
	return nil
}
