package taxconfighandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"staffpay/internal/domain/audit"
	"staffpay/internal/domain/taxconfig"
	"staffpay/internal/transport/http/api"
	"staffpay/internal/transport/http/middleware"
	"staffpay/internal/transport/http/shared"
)

type Handler struct {
	Store *taxconfig.Store
	Audit *audit.Service
}

func NewHandler(store *taxconfig.Store, auditSvc *audit.Service) *Handler {
	return &Handler{Store: store, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tax-settings", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleGetEffective)
		r.With(middleware.RequireWriter).Put("/", h.handleUpsert)
	})
}

// handleGetEffective returns the company override when one exists,
// otherwise the global card.
func (h *Handler) handleGetEffective(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	settings, err := h.Store.GetEffective(r.Context(), user.CompanyID)
	if errors.Is(err, taxconfig.ErrSettingsNotFound) {
		api.Fail(w, http.StatusNotFound, "tax_settings_not_found", "no tax settings configured", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "tax_settings_failed", "failed to load tax settings", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, settings, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload taxconfig.Settings
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	payload.CompanyID = user.CompanyID

	if err := taxconfig.ValidateRates(payload); err != nil {
		api.Fail(w, http.StatusUnprocessableEntity, "invalid_rates", err.Error(), middleware.GetRequestID(r.Context()))
		return
	}
	if err := taxconfig.ValidateBands(payload.Bands); err != nil {
		api.Fail(w, http.StatusUnprocessableEntity, "invalid_bands", err.Error(), middleware.GetRequestID(r.Context()))
		return
	}

	id, err := h.Store.Upsert(r.Context(), payload)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "tax_settings_upsert_failed", "failed to save tax settings", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "taxsettings.upsert", "tax_settings", id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit taxsettings.upsert failed", "error", err)
	}
	api.Success(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}
