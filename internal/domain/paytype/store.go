package paytype

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"staffpay/internal/domain/engine"
)

var (
	ErrNotFound    = errors.New("payment type not found")
	ErrInvalidKind = errors.New("payment type kind must be gross or net")
)

// PaymentType is one configured payment component for a company. Kind "net"
// means the configured amount is what the staff member should receive after
// statutory deductions and the engine grosses it up.
type PaymentType struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"companyId"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
}

func ValidKind(kind string) bool {
	return kind == engine.PaymentKindGross || kind == engine.PaymentKindNet
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// List returns the company's payment types in evaluation order.
func (s *Store) List(ctx context.Context, companyID string) ([]PaymentType, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, company_id, name, kind, position, created_at
    FROM payment_types
    WHERE company_id = $1
    ORDER BY position, created_at
  `, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PaymentType
	for rows.Next() {
		var pt PaymentType
		if err := rows.Scan(&pt.ID, &pt.CompanyID, &pt.Name, &pt.Kind, &pt.Position, &pt.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, pt)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, companyID, name, kind string, position int) (string, error) {
	if !ValidKind(kind) {
		return "", ErrInvalidKind
	}
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO payment_types (company_id, name, kind, position)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, companyID, name, kind, position).Scan(&id)
	return id, err
}

func (s *Store) Update(ctx context.Context, id, name, kind string, position int) error {
	if !ValidKind(kind) {
		return ErrInvalidKind
	}
	tag, err := s.DB.Exec(ctx, `
    UPDATE payment_types SET name = $1, kind = $2, position = $3 WHERE id = $4
  `, name, kind, position, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM payment_types WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Get is mostly used by handlers for ownership checks.
func (s *Store) Get(ctx context.Context, id string) (PaymentType, error) {
	var pt PaymentType
	err := s.DB.QueryRow(ctx, `
    SELECT id, company_id, name, kind, position, created_at
    FROM payment_types WHERE id = $1
  `, id).Scan(&pt.ID, &pt.CompanyID, &pt.Name, &pt.Kind, &pt.Position, &pt.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return PaymentType{}, ErrNotFound
	}
	return pt, err
}
