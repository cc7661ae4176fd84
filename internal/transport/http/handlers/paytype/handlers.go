package paytypehandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"staffpay/internal/domain/audit"
	"staffpay/internal/domain/paytype"
	"staffpay/internal/transport/http/api"
	"staffpay/internal/transport/http/middleware"
	"staffpay/internal/transport/http/shared"
)

type Handler struct {
	Store *paytype.Store
	Audit *audit.Service
}

func NewHandler(store *paytype.Store, auditSvc *audit.Service) *Handler {
	return &Handler{Store: store, Audit: auditSvc}
}

type payTypePayload struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Position int    `json:"position"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payment-types", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleList)
		r.With(middleware.RequireWriter).Post("/", h.handleCreate)
		r.With(middleware.RequireWriter).Put("/{typeID}", h.handleUpdate)
		r.With(middleware.RequireWriter).Delete("/{typeID}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	types, err := h.Store.List(r.Context(), user.CompanyID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "paytype_list_failed", "failed to list payment types", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, types, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload payTypePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Name == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "payment type name is required", middleware.GetRequestID(r.Context()))
		return
	}
	id, err := h.Store.Create(r.Context(), user.CompanyID, payload.Name, payload.Kind, payload.Position)
	if errors.Is(err, paytype.ErrInvalidKind) {
		api.Fail(w, http.StatusUnprocessableEntity, "invalid_kind", "kind must be gross or net", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "paytype_create_failed", "failed to create payment type", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "paytype.create", "payment_type", id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit paytype.create failed", "error", err)
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	typeID := chi.URLParam(r, "typeID")

	var payload payTypePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	err := h.Store.Update(r.Context(), typeID, payload.Name, payload.Kind, payload.Position)
	switch {
	case errors.Is(err, paytype.ErrInvalidKind):
		api.Fail(w, http.StatusUnprocessableEntity, "invalid_kind", "kind must be gross or net", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, paytype.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "paytype_not_found", "payment type not found", middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "paytype_update_failed", "failed to update payment type", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "paytype.update", "payment_type", typeID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit paytype.update failed", "error", err)
	}
	api.Success(w, map[string]string{"id": typeID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	typeID := chi.URLParam(r, "typeID")

	err := h.Store.Delete(r.Context(), typeID)
	if errors.Is(err, paytype.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "paytype_not_found", "payment type not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "paytype_delete_failed", "failed to delete payment type", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "paytype.delete", "payment_type", typeID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit paytype.delete failed", "error", err)
	}
	api.Success(w, map[string]string{"id": typeID}, middleware.GetRequestID(r.Context()))
}
