package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateRun(ctx context.Context, companyID, period, createdBy string) (Run, error) {
	run := Run{CompanyID: companyID, Period: period, Status: StatusDraft, CreatedBy: createdBy}
	err := s.DB.QueryRow(ctx, `
    INSERT INTO payroll_runs (company_id, period, created_by)
    VALUES ($1,$2,$3)
    RETURNING id, created_at
  `, companyID, period, nullIfEmpty(createdBy)).Scan(&run.ID, &run.CreatedAt)
	return run, err
}

// GetRun resolves a run within one company. An ID belonging to another
// company reads as not found.
func (s *Store) GetRun(ctx context.Context, companyID, id string) (Run, error) {
	return scanRun(s.DB.QueryRow(ctx, `
    SELECT id, company_id, period, status, COALESCE(created_by::text,''), created_at, decided_at
    FROM payroll_runs WHERE id = $1 AND company_id = $2
  `, id, companyID))
}

// GetRunTx reads a run inside a transaction with a row lock, so concurrent
// status decisions serialize.
func (s *Store) GetRunTx(ctx context.Context, tx pgx.Tx, companyID, id string) (Run, error) {
	return scanRun(tx.QueryRow(ctx, `
    SELECT id, company_id, period, status, COALESCE(created_by::text,''), created_at, decided_at
    FROM payroll_runs WHERE id = $1 AND company_id = $2
    FOR UPDATE
  `, id, companyID))
}

func scanRun(row pgx.Row) (Run, error) {
	var run Run
	err := row.Scan(&run.ID, &run.CompanyID, &run.Period, &run.Status, &run.CreatedBy, &run.CreatedAt, &run.DecidedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	return run, err
}

func (s *Store) ListRuns(ctx context.Context, companyID string, limit, offset int) ([]Run, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, company_id, period, status, COALESCE(created_by::text,''), created_at, decided_at
    FROM payroll_runs
    WHERE company_id = $1
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3
  `, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.CompanyID, &run.Period, &run.Status, &run.CreatedBy, &run.CreatedAt, &run.DecidedAt); err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// SetStatusTx moves a run to a new status. decided_at is stamped only on a
// terminal decision.
func (s *Store) SetStatusTx(ctx context.Context, tx pgx.Tx, id, status string) error {
	var decidedAt any
	if status == StatusApproved || status == StatusRejected {
		decidedAt = time.Now()
	}
	_, err := tx.Exec(ctx, `
    UPDATE payroll_runs SET status = $1, decided_at = $2 WHERE id = $3
  `, status, decidedAt, id)
	return err
}

// ReplaceResults rewrites the stored results of a draft run in one
// transaction, so a recalculation never leaves a partial mix of old and new
// rows.
func (s *Store) ReplaceResults(ctx context.Context, runID string, results []ResultRecord) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM payroll_results WHERE run_id = $1`, runID); err != nil {
		return err
	}
	for _, r := range results {
		otherJSON, err := json.Marshal(r.Result.OtherPayments)
		if err != nil {
			return err
		}
		deductionJSON, err := json.Marshal(r.Result.DeductionBreakdown)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
      INSERT INTO payroll_results (
        run_id, staff_id, total_gross, basic_pay, transport_allowance, other_payments_json,
        pension_employer, pension_employee, maternity_employer, maternity_employee,
        rama_employer, rama_employee, paye, cbhi, net_before_cbhi, net_after_cbhi,
        deductions_json, total_deductions, final_net
      ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
    `, runID, r.StaffID,
			r.Result.TotalGross, r.Result.BasicPay, r.Result.TransportAllowance, otherJSON,
			r.Result.PensionEmployer, r.Result.PensionEmployee, r.Result.MaternityEmployer, r.Result.MaternityEmployee,
			r.Result.RamaEmployer, r.Result.RamaEmployee, r.Result.Paye, r.Result.Cbhi,
			r.Result.NetBeforeCBHI, r.Result.NetAfterCBHI,
			deductionJSON, r.Result.TotalDeductions, r.Result.FinalNetPay,
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

const resultColumns = `
  r.id, r.run_id, r.staff_id, s.first_name || ' ' || s.last_name, s.email,
  r.total_gross, r.basic_pay, r.transport_allowance, r.other_payments_json,
  r.pension_employer, r.pension_employee, r.maternity_employer, r.maternity_employee,
  r.rama_employer, r.rama_employee, r.paye, r.cbhi, r.net_before_cbhi, r.net_after_cbhi,
  r.deductions_json, r.total_deductions, r.final_net
`

func (s *Store) ListResults(ctx context.Context, companyID, runID string) ([]ResultRecord, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+resultColumns+`
    FROM payroll_results r
    JOIN payroll_runs pr ON pr.id = r.run_id
    JOIN staff s ON s.id = r.staff_id
    WHERE r.run_id = $1 AND pr.company_id = $2
    ORDER BY s.last_name, s.first_name
  `, runID, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ResultRecord
	for rows.Next() {
		record, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

func (s *Store) GetResult(ctx context.Context, companyID, runID, staffID string) (ResultRecord, error) {
	record, err := scanResult(s.DB.QueryRow(ctx, `
    SELECT `+resultColumns+`
    FROM payroll_results r
    JOIN payroll_runs pr ON pr.id = r.run_id
    JOIN staff s ON s.id = r.staff_id
    WHERE r.run_id = $1 AND r.staff_id = $2 AND pr.company_id = $3
  `, runID, staffID, companyID))
	if errors.Is(err, pgx.ErrNoRows) {
		return ResultRecord{}, ErrResultNotFound
	}
	return record, err
}

func scanResult(row pgx.Row) (ResultRecord, error) {
	var record ResultRecord
	var otherJSON, deductionJSON []byte
	err := row.Scan(&record.ID, &record.RunID, &record.StaffID, &record.StaffName, &record.StaffEmail,
		&record.Result.TotalGross, &record.Result.BasicPay, &record.Result.TransportAllowance, &otherJSON,
		&record.Result.PensionEmployer, &record.Result.PensionEmployee,
		&record.Result.MaternityEmployer, &record.Result.MaternityEmployee,
		&record.Result.RamaEmployer, &record.Result.RamaEmployee,
		&record.Result.Paye, &record.Result.Cbhi,
		&record.Result.NetBeforeCBHI, &record.Result.NetAfterCBHI,
		&deductionJSON, &record.Result.TotalDeductions, &record.Result.FinalNetPay)
	if err != nil {
		return ResultRecord{}, err
	}
	if err := json.Unmarshal(otherJSON, &record.Result.OtherPayments); err != nil {
		return ResultRecord{}, err
	}
	if err := json.Unmarshal(deductionJSON, &record.Result.DeductionBreakdown); err != nil {
		return ResultRecord{}, err
	}
	return record, nil
}

func (s *Store) SavePayslip(ctx context.Context, runID, staffID, fileURL string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO payslips (run_id, staff_id, file_url)
    VALUES ($1,$2,$3)
    ON CONFLICT (run_id, staff_id) DO UPDATE SET file_url = EXCLUDED.file_url
    RETURNING id
  `, runID, staffID, fileURL).Scan(&id)
	return id, err
}

func (s *Store) GetPayslipPath(ctx context.Context, companyID, runID, staffID string) (string, error) {
	var fileURL string
	err := s.DB.QueryRow(ctx, `
    SELECT p.file_url
    FROM payslips p
    JOIN payroll_runs pr ON pr.id = p.run_id
    WHERE p.run_id = $1 AND p.staff_id = $2 AND pr.company_id = $3
  `, runID, staffID, companyID).Scan(&fileURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrResultNotFound
	}
	return fileURL, err
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
