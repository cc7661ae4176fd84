package authhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"staffpay/internal/auth"
	"staffpay/internal/transport/http/api"
	"staffpay/internal/transport/http/middleware"
)

type Handler struct {
	DB        *pgxpool.Pool
	JWTSecret string
	TokenTTL  time.Duration
}

func NewHandler(db *pgxpool.Pool, jwtSecret string, tokenTTL time.Duration) *Handler {
	return &Handler{DB: db, JWTSecret: jwtSecret, TokenTTL: tokenTTL}
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	UserID    string `json:"userId"`
	CompanyID string `json:"companyId"`
	Role      string `json:"role"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.handleLogin)
		r.With(middleware.RequireAuth).Get("/me", h.handleMe)
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	email := strings.ToLower(strings.TrimSpace(payload.Email))

	var userID, companyID, passwordHash, role string
	err := h.DB.QueryRow(r.Context(), `
    SELECT id, company_id, password_hash, role
    FROM users WHERE email = $1
  `, email).Scan(&userID, &companyID, &passwordHash, &role)
	if errors.Is(err, pgx.ErrNoRows) || (err == nil && auth.CheckPassword(passwordHash, payload.Password) != nil) {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "login_failed", "failed to log in", middleware.GetRequestID(r.Context()))
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, auth.Claims{UserID: userID, CompanyID: companyID, Role: role}, h.TokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "login_failed", "failed to log in", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, loginResponse{Token: token, UserID: userID, CompanyID: companyID, Role: role}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{
		"userId":    user.UserID,
		"companyId": user.CompanyID,
		"role":      user.Role,
	}, middleware.GetRequestID(r.Context()))
}
