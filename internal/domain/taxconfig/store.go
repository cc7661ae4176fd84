package taxconfig

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrSettingsNotFound = errors.New("no tax settings configured")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// GetEffective returns the company's own rate card when one exists, falling
// back to the global card. A completely unconfigured system returns
// ErrSettingsNotFound — that is fatal to a payroll run, not defaultable.
func (s *Store) GetEffective(ctx context.Context, companyID string) (*Settings, error) {
	settings, err := s.getByCompany(ctx, &companyID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	settings, err = s.getByCompany(ctx, nil)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	return settings, err
}

func (s *Store) getByCompany(ctx context.Context, companyID *string) (*Settings, error) {
	var settings Settings
	query := `
    SELECT id, COALESCE(company_id::text, ''),
           pension_employer_rate, pension_employee_rate,
           maternity_employer_rate, maternity_employee_rate,
           rama_employer_rate, rama_employee_rate, cbhi_rate, updated_at
    FROM tax_settings
  `
	var row pgx.Row
	if companyID == nil {
		row = s.DB.QueryRow(ctx, query+"WHERE company_id IS NULL")
	} else {
		row = s.DB.QueryRow(ctx, query+"WHERE company_id = $1", *companyID)
	}
	if err := row.Scan(&settings.ID, &settings.CompanyID,
		&settings.PensionEmployerRate, &settings.PensionEmployeeRate,
		&settings.MaternityEmployerRate, &settings.MaternityEmployeeRate,
		&settings.RamaEmployerRate, &settings.RamaEmployeeRate,
		&settings.CbhiRate, &settings.UpdatedAt); err != nil {
		return nil, err
	}

	bands, err := s.listBands(ctx, settings.ID)
	if err != nil {
		return nil, err
	}
	settings.Bands = bands
	return &settings, nil
}

func (s *Store) listBands(ctx context.Context, settingsID string) ([]Band, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT band_min, band_max, rate, position
    FROM paye_bands
    WHERE tax_settings_id = $1
    ORDER BY position
  `, settingsID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bands []Band
	for rows.Next() {
		var band Band
		if err := rows.Scan(&band.Min, &band.Max, &band.Rate, &band.Position); err != nil {
			return nil, err
		}
		bands = append(bands, band)
	}
	return bands, rows.Err()
}

// Upsert replaces the rate card and its bands atomically. Callers validate
// with ValidateBands and ValidateRates first.
func (s *Store) Upsert(ctx context.Context, settings Settings) (string, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var companyID any
	if settings.CompanyID != "" {
		companyID = settings.CompanyID
	}

	var id string
	if err := tx.QueryRow(ctx, `
    INSERT INTO tax_settings (company_id, pension_employer_rate, pension_employee_rate,
                              maternity_employer_rate, maternity_employee_rate,
                              rama_employer_rate, rama_employee_rate, cbhi_rate)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    ON CONFLICT (company_id)
    DO UPDATE SET pension_employer_rate = EXCLUDED.pension_employer_rate,
                  pension_employee_rate = EXCLUDED.pension_employee_rate,
                  maternity_employer_rate = EXCLUDED.maternity_employer_rate,
                  maternity_employee_rate = EXCLUDED.maternity_employee_rate,
                  rama_employer_rate = EXCLUDED.rama_employer_rate,
                  rama_employee_rate = EXCLUDED.rama_employee_rate,
                  cbhi_rate = EXCLUDED.cbhi_rate,
                  updated_at = now()
    RETURNING id
  `, companyID,
		settings.PensionEmployerRate, settings.PensionEmployeeRate,
		settings.MaternityEmployerRate, settings.MaternityEmployeeRate,
		settings.RamaEmployerRate, settings.RamaEmployeeRate,
		settings.CbhiRate).Scan(&id); err != nil {
		return "", err
	}

	if _, err := tx.Exec(ctx, "DELETE FROM paye_bands WHERE tax_settings_id = $1", id); err != nil {
		return "", err
	}
	for position, band := range settings.Bands {
		var bandMax any
		if band.Max != nil {
			bandMax = *band.Max
		}
		if _, err := tx.Exec(ctx, `
      INSERT INTO paye_bands (tax_settings_id, band_min, band_max, rate, position)
      VALUES ($1,$2,$3,$4,$5)
    `, id, band.Min, bandMax, band.Rate, position); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}
