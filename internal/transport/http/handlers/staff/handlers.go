package staffhandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"staffpay/internal/domain/audit"
	"staffpay/internal/domain/staff"
	"staffpay/internal/transport/http/api"
	"staffpay/internal/transport/http/middleware"
	"staffpay/internal/transport/http/shared"
)

// StaffStore is the company-scoped slice of the staff store the HTTP
// layer depends on.
type StaffStore interface {
	Get(ctx context.Context, companyID, id string) (staff.Member, error)
	List(ctx context.Context, companyID, status string, limit, offset int) ([]staff.Member, error)
	Create(ctx context.Context, member staff.Member) (string, error)
	Update(ctx context.Context, member staff.Member) error
	SetPaymentAmount(ctx context.Context, companyID, staffID, paymentTypeID string, amount decimal.Decimal) error
	ListPaymentAmounts(ctx context.Context, companyID, staffID string) ([]staff.PaymentAmount, error)
}

type Handler struct {
	Store StaffStore
	Audit *audit.Service
}

func NewHandler(store StaffStore, auditSvc *audit.Service) *Handler {
	return &Handler{Store: store, Audit: auditSvc}
}

type staffPayload struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	BankAccount string `json:"bankAccount"`
	Status      string `json:"status"`
}

type paymentAmountPayload struct {
	PaymentTypeID string          `json:"paymentTypeId"`
	Amount        decimal.Decimal `json:"amount"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/staff", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleList)
		r.With(middleware.RequireWriter).Post("/", h.handleCreate)
		r.Get("/{staffID}", h.handleGet)
		r.With(middleware.RequireWriter).Put("/{staffID}", h.handleUpdate)
		r.Get("/{staffID}/payments", h.handleListPayments)
		r.With(middleware.RequireWriter).Put("/{staffID}/payments", h.handleSetPayment)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 50, 200)

	members, err := h.Store.List(r.Context(), user.CompanyID, r.URL.Query().Get("status"), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "staff_list_failed", "failed to list staff", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, members, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	member, err := h.Store.Get(r.Context(), user.CompanyID, chi.URLParam(r, "staffID"))
	if errors.Is(err, staff.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "staff_not_found", "staff member not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "staff_get_failed", "failed to load staff member", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, member, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload staffPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.FirstName == "" || payload.LastName == "" || payload.Email == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "first name, last name and email are required", middleware.GetRequestID(r.Context()))
		return
	}
	id, err := h.Store.Create(r.Context(), staff.Member{
		CompanyID:   user.CompanyID,
		FirstName:   payload.FirstName,
		LastName:    payload.LastName,
		Email:       payload.Email,
		BankAccount: payload.BankAccount,
		Status:      payload.Status,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "staff_create_failed", "failed to create staff member", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "staff.create", "staff", id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]string{"email": payload.Email}); err != nil {
		slog.Warn("audit staff.create failed", "error", err)
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	staffID := chi.URLParam(r, "staffID")

	var payload staffPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	err := h.Store.Update(r.Context(), staff.Member{
		ID:          staffID,
		CompanyID:   user.CompanyID,
		FirstName:   payload.FirstName,
		LastName:    payload.LastName,
		Email:       payload.Email,
		BankAccount: payload.BankAccount,
		Status:      payload.Status,
	})
	if errors.Is(err, staff.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "staff_not_found", "staff member not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "staff_update_failed", "failed to update staff member", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "staff.update", "staff", staffID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]string{"email": payload.Email}); err != nil {
		slog.Warn("audit staff.update failed", "error", err)
	}
	api.Success(w, map[string]string{"id": staffID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListPayments(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	amounts, err := h.Store.ListPaymentAmounts(r.Context(), user.CompanyID, chi.URLParam(r, "staffID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "staff_payments_failed", "failed to list payment amounts", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, amounts, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSetPayment(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	staffID := chi.URLParam(r, "staffID")

	var payload paymentAmountPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.PaymentTypeID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "paymentTypeId is required", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.Amount.Sign() < 0 {
		api.Fail(w, http.StatusUnprocessableEntity, "invalid_amount", "amount must not be negative", middleware.GetRequestID(r.Context()))
		return
	}
	err := h.Store.SetPaymentAmount(r.Context(), user.CompanyID, staffID, payload.PaymentTypeID, payload.Amount)
	if errors.Is(err, staff.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "staff_not_found", "staff member not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "staff_payment_failed", "failed to set payment amount", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "staff.payment.set", "staff", staffID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit staff.payment.set failed", "error", err)
	}
	api.Success(w, map[string]string{"id": staffID}, middleware.GetRequestID(r.Context()))
}
