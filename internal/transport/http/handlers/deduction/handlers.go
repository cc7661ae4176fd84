package deductionhandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"staffpay/internal/domain/audit"
	"staffpay/internal/domain/deduction"
	"staffpay/internal/transport/http/api"
	"staffpay/internal/transport/http/middleware"
	"staffpay/internal/transport/http/shared"
)

// DeductionStore is the company-scoped slice of the deduction store the
// HTTP layer depends on.
type DeductionStore interface {
	ListForStaff(ctx context.Context, companyID, staffID string) ([]deduction.Deduction, error)
	Get(ctx context.Context, companyID, id string) (deduction.Deduction, error)
	Create(ctx context.Context, d deduction.Deduction) (string, error)
	Update(ctx context.Context, d deduction.Deduction) error
	Delete(ctx context.Context, companyID, id string) error
}

type Handler struct {
	Store DeductionStore
	Audit *audit.Service
}

func NewHandler(store DeductionStore, auditSvc *audit.Service) *Handler {
	return &Handler{Store: store, Audit: auditSvc}
}

type deductionPayload struct {
	StaffID          string          `json:"staffId"`
	Name             string          `json:"name"`
	OriginalAmount   decimal.Decimal `json:"originalAmount"`
	MonthlyDeduction decimal.Decimal `json:"monthlyDeduction"`
	Position         int             `json:"position"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/deductions", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleListForStaff)
		r.With(middleware.RequireWriter).Post("/", h.handleCreate)
		r.Get("/{deductionID}", h.handleGet)
		r.With(middleware.RequireWriter).Put("/{deductionID}", h.handleUpdate)
		r.With(middleware.RequireWriter).Delete("/{deductionID}", h.handleDelete)
	})
}

func (h *Handler) handleListForStaff(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	staffID := r.URL.Query().Get("staffId")
	if staffID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_request", "staffId query parameter is required", middleware.GetRequestID(r.Context()))
		return
	}
	deductions, err := h.Store.ListForStaff(r.Context(), user.CompanyID, staffID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "deduction_list_failed", "failed to list deductions", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, deductions, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	d, err := h.Store.Get(r.Context(), user.CompanyID, chi.URLParam(r, "deductionID"))
	if errors.Is(err, deduction.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "deduction_not_found", "deduction not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "deduction_get_failed", "failed to load deduction", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, d, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload deductionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.StaffID == "" || payload.Name == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "staffId and name are required", middleware.GetRequestID(r.Context()))
		return
	}
	id, err := h.Store.Create(r.Context(), deduction.Deduction{
		CompanyID:        user.CompanyID,
		StaffID:          payload.StaffID,
		Name:             payload.Name,
		OriginalAmount:   payload.OriginalAmount,
		MonthlyDeduction: payload.MonthlyDeduction,
		Position:         payload.Position,
	})
	if errors.Is(err, deduction.ErrInvalidAmount) {
		api.Fail(w, http.StatusUnprocessableEntity, "invalid_amount", "original and monthly amounts must be positive", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "deduction_create_failed", "failed to create deduction", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "deduction.create", "deduction", id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit deduction.create failed", "error", err)
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	deductionID := chi.URLParam(r, "deductionID")

	var payload deductionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	err := h.Store.Update(r.Context(), deduction.Deduction{
		ID:               deductionID,
		CompanyID:        user.CompanyID,
		Name:             payload.Name,
		OriginalAmount:   payload.OriginalAmount,
		MonthlyDeduction: payload.MonthlyDeduction,
		Position:         payload.Position,
	})
	switch {
	case errors.Is(err, deduction.ErrInvalidAmount):
		api.Fail(w, http.StatusUnprocessableEntity, "invalid_amount", "original and monthly amounts must be positive", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, deduction.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "deduction_not_found", "deduction not found", middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "deduction_update_failed", "failed to update deduction", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "deduction.update", "deduction", deductionID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit deduction.update failed", "error", err)
	}
	api.Success(w, map[string]string{"id": deductionID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	deductionID := chi.URLParam(r, "deductionID")

	err := h.Store.Delete(r.Context(), user.CompanyID, deductionID)
	if errors.Is(err, deduction.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "deduction_not_found", "deduction not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "deduction_delete_failed", "failed to delete deduction", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "deduction.delete", "deduction", deductionID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit deduction.delete failed", "error", err)
	}
	api.Success(w, map[string]string{"id": deductionID}, middleware.GetRequestID(r.Context()))
}
