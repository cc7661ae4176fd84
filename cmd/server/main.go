package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"staffpay/internal/config"
	"staffpay/internal/db"
	"staffpay/internal/domain/audit"
	"staffpay/internal/domain/company"
	"staffpay/internal/domain/deduction"
	"staffpay/internal/domain/payroll"
	"staffpay/internal/domain/paytype"
	"staffpay/internal/domain/staff"
	"staffpay/internal/domain/taxconfig"
	"staffpay/internal/platform/crypto"
	"staffpay/internal/platform/email"
	"staffpay/internal/platform/metrics"
	"staffpay/internal/transport/http/api"
	audithandler "staffpay/internal/transport/http/handlers/audit"
	authhandler "staffpay/internal/transport/http/handlers/auth"
	companyhandler "staffpay/internal/transport/http/handlers/company"
	deductionhandler "staffpay/internal/transport/http/handlers/deduction"
	payrollhandler "staffpay/internal/transport/http/handlers/payroll"
	paytypehandler "staffpay/internal/transport/http/handlers/paytype"
	staffhandler "staffpay/internal/transport/http/handlers/staff"
	taxconfighandler "staffpay/internal/transport/http/handlers/taxconfig"
	"staffpay/internal/transport/http/middleware"
)

const tokenTTL = 12 * time.Hour

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	if cfg.Environment == "development" {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		slog.Error("db connect failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			slog.Error("migrations failed", "error", err)
			os.Exit(1)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			slog.Error("seed failed", "error", err)
			os.Exit(1)
		}
	}

	cryptoSvc, err := crypto.New(cfg.DataEncryptionKey)
	if err != nil {
		slog.Error("data encryption key invalid", "error", err)
		os.Exit(1)
	}
	mailer := email.New(cfg)
	collector := metrics.New()

	auditSvc := audit.New(pool)
	companyStore := company.NewStore(pool)
	taxStore := taxconfig.NewStore(pool)
	payTypeStore := paytype.NewStore(pool)
	staffStore := staff.NewStore(pool, cryptoSvc)
	deductionStore := deduction.NewStore(pool)
	payrollStore := payroll.NewStore(pool)
	payrollSvc := payroll.NewService(
		payrollStore, taxStore, companyStore, payTypeStore, staffStore, deductionStore,
		mailer, collector, cfg.RunWorkers, cfg.PayslipDir, cfg.EmailFrom,
	)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	// Auth must run before the rate limiter so authenticated traffic is
	// keyed per user, not per source IP.
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics(collector))
	}

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metricz", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(pool, cfg.JWTSecret, tokenTTL).RegisterRoutes(r)
		companyhandler.NewHandler(companyStore, auditSvc).RegisterRoutes(r)
		taxconfighandler.NewHandler(taxStore, auditSvc).RegisterRoutes(r)
		paytypehandler.NewHandler(payTypeStore, auditSvc).RegisterRoutes(r)
		staffhandler.NewHandler(staffStore, auditSvc).RegisterRoutes(r)
		deductionhandler.NewHandler(deductionStore, auditSvc).RegisterRoutes(r)
		payrollhandler.NewHandler(payrollSvc, auditSvc).RegisterRoutes(r)
		audithandler.NewHandler(auditSvc).RegisterRoutes(r)
	})

	slog.Info("payroll server listening", "addr", cfg.Addr, "env", cfg.Environment)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
