package staff

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	cryptoutil "staffpay/internal/platform/crypto"
)

var ErrNotFound = errors.New("staff member not found")

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Member struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"companyId"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	BankAccount string    `json:"bankAccount,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PaymentAmount is the configured amount of one payment type for one staff
// member.
type PaymentAmount struct {
	PaymentTypeID string          `json:"paymentTypeId"`
	Amount        decimal.Decimal `json:"amount"`
}

type Store struct {
	DB     *pgxpool.Pool
	crypto *cryptoutil.Service
}

func NewStore(db *pgxpool.Pool, crypto *cryptoutil.Service) *Store {
	return &Store{DB: db, crypto: crypto}
}

// Get resolves a staff member within one company. An ID belonging to
// another company reads as not found.
func (s *Store) Get(ctx context.Context, companyID, id string) (Member, error) {
	var member Member
	var bankEnc []byte
	err := s.DB.QueryRow(ctx, `
    SELECT id, company_id, first_name, last_name, email, bank_account_enc, status, created_at
    FROM staff WHERE id = $1 AND company_id = $2
  `, id, companyID).Scan(&member.ID, &member.CompanyID, &member.FirstName, &member.LastName, &member.Email, &bankEnc, &member.Status, &member.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Member{}, ErrNotFound
	}
	if err != nil {
		return Member{}, err
	}
	if plain, err := s.crypto.Decrypt(bankEnc); err == nil {
		member.BankAccount = string(plain)
	}
	return member, nil
}

// List returns company staff without decrypting bank accounts; listings do
// not need them.
func (s *Store) List(ctx context.Context, companyID, status string, limit, offset int) ([]Member, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, company_id, first_name, last_name, email, status, created_at
    FROM staff
    WHERE company_id = $1 AND ($2 = '' OR status = $2)
    ORDER BY last_name, first_name
    LIMIT $3 OFFSET $4
  `, companyID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Member
	for rows.Next() {
		var member Member
		if err := rows.Scan(&member.ID, &member.CompanyID, &member.FirstName, &member.LastName, &member.Email, &member.Status, &member.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, member)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, member Member) (string, error) {
	bankEnc, err := s.crypto.Encrypt([]byte(member.BankAccount))
	if err != nil {
		return "", err
	}
	var id string
	err = s.DB.QueryRow(ctx, `
    INSERT INTO staff (company_id, first_name, last_name, email, bank_account_enc, status)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, member.CompanyID, member.FirstName, member.LastName, member.Email, bankEnc, statusOrDefault(member.Status)).Scan(&id)
	return id, err
}

func (s *Store) Update(ctx context.Context, member Member) error {
	bankEnc, err := s.crypto.Encrypt([]byte(member.BankAccount))
	if err != nil {
		return err
	}
	tag, err := s.DB.Exec(ctx, `
    UPDATE staff
    SET first_name = $1, last_name = $2, email = $3, bank_account_enc = $4, status = $5
    WHERE id = $6 AND company_id = $7
  `, member.FirstName, member.LastName, member.Email, bankEnc, statusOrDefault(member.Status), member.ID, member.CompanyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPaymentAmount configures one payment type's amount for a staff member.
// A zero amount is stored and later skipped by the engine.
func (s *Store) SetPaymentAmount(ctx context.Context, companyID, staffID, paymentTypeID string, amount decimal.Decimal) error {
	tag, err := s.DB.Exec(ctx, `
    INSERT INTO staff_payments (staff_id, payment_type_id, amount)
    SELECT st.id, $2, $3
    FROM staff st
    WHERE st.id = $1 AND st.company_id = $4
    ON CONFLICT (staff_id, payment_type_id)
    DO UPDATE SET amount = EXCLUDED.amount
  `, staffID, paymentTypeID, amount, companyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListPaymentAmounts(ctx context.Context, companyID, staffID string) ([]PaymentAmount, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT sp.payment_type_id, sp.amount
    FROM staff_payments sp
    JOIN staff st ON st.id = sp.staff_id
    WHERE sp.staff_id = $1 AND st.company_id = $2
  `, staffID, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PaymentAmount
	for rows.Next() {
		var amount PaymentAmount
		if err := rows.Scan(&amount.PaymentTypeID, &amount.Amount); err != nil {
			return nil, err
		}
		out = append(out, amount)
	}
	return out, rows.Err()
}

func statusOrDefault(status string) string {
	if status == "" {
		return StatusActive
	}
	return status
}
