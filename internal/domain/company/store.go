package company

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"staffpay/internal/domain/engine"
)

var ErrNotFound = errors.New("company not found")

type Company struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	PayeExempt      bool      `json:"payeExempt"`
	PensionExempt   bool      `json:"pensionExempt"`
	MaternityExempt bool      `json:"maternityExempt"`
	RamaExempt      bool      `json:"ramaExempt"`
	CbhiExempt      bool      `json:"cbhiExempt"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Exemptions converts the stored flags into the engine's form.
func (c Company) Exemptions() engine.Exemptions {
	return engine.Exemptions{
		Paye:      c.PayeExempt,
		Pension:   c.PensionExempt,
		Maternity: c.MaternityExempt,
		Rama:      c.RamaExempt,
		Cbhi:      c.CbhiExempt,
	}
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const companyColumns = "id, name, paye_exempt, pension_exempt, maternity_exempt, rama_exempt, cbhi_exempt, created_at"

func (s *Store) Get(ctx context.Context, id string) (Company, error) {
	var c Company
	err := s.DB.QueryRow(ctx, "SELECT "+companyColumns+" FROM companies WHERE id = $1", id).
		Scan(&c.ID, &c.Name, &c.PayeExempt, &c.PensionExempt, &c.MaternityExempt, &c.RamaExempt, &c.CbhiExempt, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Company{}, ErrNotFound
	}
	return c, err
}

func (s *Store) List(ctx context.Context) ([]Company, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+companyColumns+" FROM companies ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Company
	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.ID, &c.Name, &c.PayeExempt, &c.PensionExempt, &c.MaternityExempt, &c.RamaExempt, &c.CbhiExempt, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, name string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, "INSERT INTO companies (name) VALUES ($1) RETURNING id", name).Scan(&id)
	return id, err
}

// UpdateExemptions replaces all five statutory exemption flags at once.
func (s *Store) UpdateExemptions(ctx context.Context, id string, flags engine.Exemptions) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE companies
    SET paye_exempt = $1, pension_exempt = $2, maternity_exempt = $3, rama_exempt = $4, cbhi_exempt = $5
    WHERE id = $6
  `, flags.Paye, flags.Pension, flags.Maternity, flags.Rama, flags.Cbhi, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
