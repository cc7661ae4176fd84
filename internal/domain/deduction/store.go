package deduction

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"staffpay/internal/domain/engine"
)

var (
	ErrNotFound      = errors.New("deduction not found")
	ErrInvalidAmount = errors.New("deduction amounts must be positive")
)

// Deduction is a recoverable balance owed by a staff member, repaid in
// monthly installments out of net pay.
type Deduction struct {
	ID               string          `json:"id"`
	CompanyID        string          `json:"companyId"`
	StaffID          string          `json:"staffId"`
	Name             string          `json:"name"`
	OriginalAmount   decimal.Decimal `json:"originalAmount"`
	MonthlyDeduction decimal.Decimal `json:"monthlyDeduction"`
	DeductedSoFar    decimal.Decimal `json:"deductedSoFar"`
	Position         int             `json:"position"`
	CreatedAt        time.Time       `json:"createdAt"`
}

func (d Deduction) Remaining() decimal.Decimal {
	return d.OriginalAmount.Sub(d.DeductedSoFar)
}

func (d Deduction) ToEngine() engine.DeductionBalance {
	return engine.DeductionBalance{
		ID:               d.ID,
		OriginalAmount:   d.OriginalAmount,
		MonthlyDeduction: d.MonthlyDeduction,
		DeductedSoFar:    d.DeductedSoFar,
	}
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// ListForStaff returns deductions in allocation priority order.
func (s *Store) ListForStaff(ctx context.Context, companyID, staffID string) ([]Deduction, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, company_id, staff_id, name, original_amount, monthly_deduction, deducted_so_far, position, created_at
    FROM deductions
    WHERE staff_id = $1 AND company_id = $2
    ORDER BY position, created_at
  `, staffID, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Deduction
	for rows.Next() {
		var d Deduction
		if err := rows.Scan(&d.ID, &d.CompanyID, &d.StaffID, &d.Name, &d.OriginalAmount, &d.MonthlyDeduction, &d.DeductedSoFar, &d.Position, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Get resolves a deduction within one company. An ID belonging to another
// company reads as not found.
func (s *Store) Get(ctx context.Context, companyID, id string) (Deduction, error) {
	var d Deduction
	err := s.DB.QueryRow(ctx, `
    SELECT id, company_id, staff_id, name, original_amount, monthly_deduction, deducted_so_far, position, created_at
    FROM deductions WHERE id = $1 AND company_id = $2
  `, id, companyID).Scan(&d.ID, &d.CompanyID, &d.StaffID, &d.Name, &d.OriginalAmount, &d.MonthlyDeduction, &d.DeductedSoFar, &d.Position, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Deduction{}, ErrNotFound
	}
	return d, err
}

func (s *Store) Create(ctx context.Context, d Deduction) (string, error) {
	if !d.OriginalAmount.IsPositive() || !d.MonthlyDeduction.IsPositive() {
		return "", ErrInvalidAmount
	}
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO deductions (company_id, staff_id, name, original_amount, monthly_deduction, position)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, d.CompanyID, d.StaffID, d.Name, d.OriginalAmount, d.MonthlyDeduction, d.Position).Scan(&id)
	return id, err
}

func (s *Store) Update(ctx context.Context, d Deduction) error {
	if !d.OriginalAmount.IsPositive() || !d.MonthlyDeduction.IsPositive() {
		return ErrInvalidAmount
	}
	tag, err := s.DB.Exec(ctx, `
    UPDATE deductions
    SET name = $1, original_amount = $2, monthly_deduction = $3, position = $4
    WHERE id = $5 AND company_id = $6
  `, d.Name, d.OriginalAmount, d.MonthlyDeduction, d.Position, d.ID, d.CompanyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, companyID, id string) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM deductions WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ApplyBreakdown advances deducted_so_far by the amounts actually withheld
// in an approved run. Balances are only mutated here, never during
// calculation.
func (s *Store) ApplyBreakdown(ctx context.Context, tx pgx.Tx, breakdown map[string]decimal.Decimal) error {
	for id, amount := range breakdown {
		if !amount.IsPositive() {
			continue
		}
		if _, err := tx.Exec(ctx, `
      UPDATE deductions
      SET deducted_so_far = deducted_so_far + $1
      WHERE id = $2
    `, amount, id); err != nil {
			return err
		}
	}
	return nil
}
