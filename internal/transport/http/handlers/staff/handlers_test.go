package staffhandler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"staffpay/internal/auth"
	"staffpay/internal/domain/staff"
	"staffpay/internal/transport/http/middleware"
)

// stubStaffStore holds one member and behaves like the real store's
// company-scoped queries: a foreign company ID reads as not found.
type stubStaffStore struct {
	member staff.Member
}

func (s *stubStaffStore) Get(ctx context.Context, companyID, id string) (staff.Member, error) {
	if companyID != s.member.CompanyID || id != s.member.ID {
		return staff.Member{}, staff.ErrNotFound
	}
	return s.member, nil
}

func (s *stubStaffStore) List(ctx context.Context, companyID, status string, limit, offset int) ([]staff.Member, error) {
	if companyID != s.member.CompanyID {
		return nil, nil
	}
	return []staff.Member{s.member}, nil
}

func (s *stubStaffStore) Create(ctx context.Context, member staff.Member) (string, error) {
	return s.member.ID, nil
}

func (s *stubStaffStore) Update(ctx context.Context, member staff.Member) error {
	if member.CompanyID != s.member.CompanyID || member.ID != s.member.ID {
		return staff.ErrNotFound
	}
	return nil
}

func (s *stubStaffStore) SetPaymentAmount(ctx context.Context, companyID, staffID, paymentTypeID string, amount decimal.Decimal) error {
	if companyID != s.member.CompanyID || staffID != s.member.ID {
		return staff.ErrNotFound
	}
	return nil
}

func (s *stubStaffStore) ListPaymentAmounts(ctx context.Context, companyID, staffID string) ([]staff.PaymentAmount, error) {
	if companyID != s.member.CompanyID || staffID != s.member.ID {
		return nil, nil
	}
	return []staff.PaymentAmount{{PaymentTypeID: "pt-1", Amount: decimal.NewFromInt(100)}}, nil
}

func staffRequest(user auth.UserContext, staffID string, fn http.HandlerFunc) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/staff/"+staffID, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("staffID", staffID)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = middleware.WithUser(ctx, user)

	rec := httptest.NewRecorder()
	fn(rec, req.WithContext(ctx))
	return rec
}

func TestGetStaffScopedToCompany(t *testing.T) {
	store := &stubStaffStore{member: staff.Member{ID: "st-1", CompanyID: "co-a", FirstName: "Ada", LastName: "N", Email: "ada@example.com"}}
	h := NewHandler(store, nil)

	rec := staffRequest(auth.UserContext{UserID: "u1", CompanyID: "co-a", Role: auth.RoleViewer}, "st-1", h.handleGet)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for owning company, got %d", rec.Code)
	}

	rec = staffRequest(auth.UserContext{UserID: "u2", CompanyID: "co-b", Role: auth.RoleViewer}, "st-1", h.handleGet)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for another company's staff member, got %d", rec.Code)
	}
}

func TestSetPaymentAmountScopedToCompany(t *testing.T) {
	store := &stubStaffStore{member: staff.Member{ID: "st-1", CompanyID: "co-a"}}
	h := NewHandler(store, nil)

	req := httptest.NewRequest(http.MethodPut, "/staff/st-1/payments",
		strings.NewReader(`{"paymentTypeId":"pt-1","amount":"250"}`))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("staffID", "st-1")
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = middleware.WithUser(ctx, auth.UserContext{UserID: "u2", CompanyID: "co-b", Role: auth.RolePayroll})

	rec := httptest.NewRecorder()
	h.handleSetPayment(rec, req.WithContext(ctx))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 setting a payment for another company's staff member, got %d", rec.Code)
	}
}
