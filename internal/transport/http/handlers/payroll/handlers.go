package payrollhandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"staffpay/internal/domain/audit"
	"staffpay/internal/domain/payroll"
	"staffpay/internal/domain/taxconfig"
	"staffpay/internal/transport/http/api"
	"staffpay/internal/transport/http/middleware"
	"staffpay/internal/transport/http/shared"
)

// RunService is the slice of the payroll service the HTTP layer depends
// on. Every method is scoped to the caller's company.
type RunService interface {
	CreateRun(ctx context.Context, companyID, period, createdBy string) (payroll.Run, error)
	Recalculate(ctx context.Context, companyID, runID string) (payroll.Run, error)
	Submit(ctx context.Context, companyID, runID string) (payroll.Run, error)
	Approve(ctx context.Context, companyID, runID string) (payroll.Run, error)
	Reject(ctx context.Context, companyID, runID string) (payroll.Run, error)
	GetRun(ctx context.Context, companyID, runID string) (payroll.Run, error)
	ListRuns(ctx context.Context, companyID string, limit, offset int) ([]payroll.Run, error)
	Results(ctx context.Context, companyID, runID string) ([]payroll.ResultRecord, payroll.Totals, error)
	Register(ctx context.Context, companyID, runID string) ([]byte, error)
	PayslipPath(ctx context.Context, companyID, runID, staffID string) (string, error)
}

type Handler struct {
	Service RunService
	Audit   *audit.Service
}

func NewHandler(service RunService, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

type createRunPayload struct {
	Period string `json:"period"`
}

type runDetailResponse struct {
	Run     payroll.Run            `json:"run"`
	Results []payroll.ResultRecord `json:"results"`
	Totals  payroll.Totals         `json:"totals"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll/runs", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleListRuns)
		r.With(middleware.RequireWriter).Post("/", h.handleCreateRun)
		r.Get("/{runID}", h.handleGetRun)
		r.With(middleware.RequireWriter).Post("/{runID}/recalculate", h.handleRecalculate)
		r.With(middleware.RequireWriter).Post("/{runID}/submit", h.handleSubmit)
		r.With(middleware.RequireApprover).Post("/{runID}/approve", h.handleApprove)
		r.With(middleware.RequireApprover).Post("/{runID}/reject", h.handleReject)
		r.Get("/{runID}/register", h.handleRegister)
		r.Get("/{runID}/payslips/{staffID}", h.handlePayslip)
	})
}

func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 50, 200)

	runs, err := h.Service.ListRuns(r.Context(), user.CompanyID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "run_list_failed", "failed to list payroll runs", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, runs, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload createRunPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	period, err := shared.ParsePeriod(payload.Period)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_period", "period must be formatted YYYY-MM", middleware.GetRequestID(r.Context()))
		return
	}

	run, err := h.Service.CreateRun(r.Context(), user.CompanyID, period, user.UserID)
	switch {
	case errors.Is(err, payroll.ErrNoActiveStaff):
		api.Fail(w, http.StatusUnprocessableEntity, "no_active_staff", "company has no active staff", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, taxconfig.ErrSettingsNotFound):
		api.Fail(w, http.StatusUnprocessableEntity, "tax_settings_missing", "no tax settings configured", middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "run_create_failed", "failed to create payroll run", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "payroll.run.create", "payroll_run", run.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit payroll.run.create failed", "error", err)
	}
	api.Created(w, run, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	runID := chi.URLParam(r, "runID")

	run, err := h.Service.GetRun(r.Context(), user.CompanyID, runID)
	if errors.Is(err, payroll.ErrRunNotFound) {
		api.Fail(w, http.StatusNotFound, "run_not_found", "payroll run not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "run_get_failed", "failed to load payroll run", middleware.GetRequestID(r.Context()))
		return
	}
	results, totals, err := h.Service.Results(r.Context(), user.CompanyID, runID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "run_get_failed", "failed to load payroll results", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, runDetailResponse{Run: run, Results: results, Totals: totals}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRecalculate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	runID := chi.URLParam(r, "runID")

	run, err := h.Service.Recalculate(r.Context(), user.CompanyID, runID)
	switch {
	case errors.Is(err, payroll.ErrRunNotFound):
		api.Fail(w, http.StatusNotFound, "run_not_found", "payroll run not found", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, payroll.ErrRunNotDraft):
		api.Fail(w, http.StatusConflict, "run_not_draft", "only draft runs can be recalculated", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, payroll.ErrNoActiveStaff):
		api.Fail(w, http.StatusUnprocessableEntity, "no_active_staff", "company has no active staff", middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "run_recalculate_failed", "failed to recalculate payroll run", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "payroll.run.recalculate", "payroll_run", runID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit payroll.run.recalculate failed", "error", err)
	}
	api.Success(w, run, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "payroll.run.submit", h.Service.Submit)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "payroll.run.approve", h.Service.Approve)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "payroll.run.reject", h.Service.Reject)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, action string, fn func(ctx context.Context, companyID, runID string) (payroll.Run, error)) {
	user, _ := middleware.GetUser(r.Context())
	runID := chi.URLParam(r, "runID")

	run, err := fn(r.Context(), user.CompanyID, runID)
	switch {
	case errors.Is(err, payroll.ErrRunNotFound):
		api.Fail(w, http.StatusNotFound, "run_not_found", "payroll run not found", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, payroll.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_transition", err.Error(), middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "run_transition_failed", "failed to update payroll run status", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, action, "payroll_run", runID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]string{"status": run.Status}); err != nil {
		slog.Warn("audit "+action+" failed", "error", err)
	}
	api.Success(w, run, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	runID := chi.URLParam(r, "runID")

	data, err := h.Service.Register(r.Context(), user.CompanyID, runID)
	if errors.Is(err, payroll.ErrRunNotFound) {
		api.Fail(w, http.StatusNotFound, "run_not_found", "payroll run not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "register_failed", "failed to build payroll register", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=payroll-register-%s.csv", runID))
	if _, err := w.Write(data); err != nil {
		slog.Warn("register write failed", "runId", runID, "error", err)
	}
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	runID := chi.URLParam(r, "runID")
	staffID := chi.URLParam(r, "staffID")

	path, err := h.Service.PayslipPath(r.Context(), user.CompanyID, runID, staffID)
	if errors.Is(err, payroll.ErrResultNotFound) {
		api.Fail(w, http.StatusNotFound, "payslip_not_found", "payslip not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_failed", "failed to load payslip", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	http.ServeFile(w, r, path)
}
