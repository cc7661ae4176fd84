package companyhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"staffpay/internal/domain/audit"
	"staffpay/internal/domain/company"
	"staffpay/internal/domain/engine"
	"staffpay/internal/transport/http/api"
	"staffpay/internal/transport/http/middleware"
	"staffpay/internal/transport/http/shared"
)

type Handler struct {
	Store *company.Store
	Audit *audit.Service
}

func NewHandler(store *company.Store, auditSvc *audit.Service) *Handler {
	return &Handler{Store: store, Audit: auditSvc}
}

type exemptionsPayload struct {
	PayeExempt      bool `json:"payeExempt"`
	PensionExempt   bool `json:"pensionExempt"`
	MaternityExempt bool `json:"maternityExempt"`
	RamaExempt      bool `json:"ramaExempt"`
	CbhiExempt      bool `json:"cbhiExempt"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/companies", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleList)
		r.With(middleware.RequireWriter).Post("/", h.handleCreate)
		r.Get("/{companyID}", h.handleGet)
		r.With(middleware.RequireWriter).Put("/{companyID}/exemptions", h.handleSetExemptions)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	companies, err := h.Store.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "company_list_failed", "failed to list companies", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, companies, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Name == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "company name is required", middleware.GetRequestID(r.Context()))
		return
	}
	id, err := h.Store.Create(r.Context(), payload.Name)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "company_create_failed", "failed to create company", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "company.create", "company", id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit company.create failed", "error", err)
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	comp, err := h.Store.Get(r.Context(), chi.URLParam(r, "companyID"))
	if errors.Is(err, company.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "company_not_found", "company not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "company_get_failed", "failed to load company", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, comp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSetExemptions(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	companyID := chi.URLParam(r, "companyID")

	var payload exemptionsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	before, err := h.Store.Get(r.Context(), companyID)
	if errors.Is(err, company.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "company_not_found", "company not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "company_update_failed", "failed to update exemptions", middleware.GetRequestID(r.Context()))
		return
	}

	flags := engine.Exemptions{
		Paye:      payload.PayeExempt,
		Pension:   payload.PensionExempt,
		Maternity: payload.MaternityExempt,
		Rama:      payload.RamaExempt,
		Cbhi:      payload.CbhiExempt,
	}
	if err := h.Store.UpdateExemptions(r.Context(), companyID, flags); err != nil {
		api.Fail(w, http.StatusInternalServerError, "company_update_failed", "failed to update exemptions", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "company.exemptions.update", "company", companyID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), before.Exemptions(), flags); err != nil {
		slog.Warn("audit company.exemptions.update failed", "error", err)
	}
	api.Success(w, map[string]string{"id": companyID}, middleware.GetRequestID(r.Context()))
}
