package api

import (
	"context"
	"loan-eligibility/internal/api/handler"
	mw "loan-eligibility/internal/api/middleware"
	"loan-eligibility/internal/config"
	"loan-eligibility/internal/domain/customer"
	"loan-eligibility/internal/domain/eligibility"
	"loan-eligibility/internal/domain/loan"
	"loan-eligibility/internal/pkg/clock"
	"log/slog"
	"net/http"
	"time"

	_ "loan-eligibility/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Dependencies struct {
	Eligibility eligibility.Service
	Customers   customer.CustomerService
	Loans       loan.LoanService
	DB          handler.Pinger
	Redis       *redis.Client
	Clock       clock.Clock
}

// SetupRouter wires every route. ctx bounds background work started by the
// middleware stack.
func SetupRouter(ctx context.Context, deps Dependencies, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(ctx, router, cfg, deps.Redis, logger)
	setupMetricsEndpoint(router, cfg, logger)
	setupEligibilityRoutes(router, deps, logger)
	setupCustomerRoutes(router, cfg, deps, logger)
	setupLoanRoutes(router, cfg, deps, logger)
	setupAuthRoutes(router, cfg, deps, logger)
	router.Get("/health", handler.NewHealthHandler(deps.DB, logger).Health)
	setupSwaggerEndpoint(router, logger)

	return router
}

func setupMiddleware(ctx context.Context, router *chi.Mux, cfg *config.Config, redisClient *redis.Client, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(mw.NewRateLimiterMiddleware(ctx, cfg.Server.RateLimit, redisClient, logger).Middleware)
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Setting up Swagger UI endpoint", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

func setupEligibilityRoutes(router *chi.Mux, deps Dependencies, logger *slog.Logger) {
	h := handler.NewEligibilityHandler(deps.Eligibility, logger)
	ch := handler.NewCustomerHandler(deps.Customers, deps.Clock, logger)

	router.Post("/register", ch.Register)
	router.Post("/check-eligibility", h.CheckEligibility)
	router.Post("/create-loan", h.CreateLoan)
	router.Get("/view-loan/{loanID}", h.ViewLoan)
	router.Get("/view-loans/{customerID}", h.ViewLoansByCustomer)
}

func setupCustomerRoutes(router *chi.Mux, cfg *config.Config, deps Dependencies, logger *slog.Logger) {
	h := handler.NewCustomerHandler(deps.Customers, deps.Clock, logger)

	router.Route("/customers", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", h.CreateCustomer)
		r.Get("/", h.ListCustomers)
		r.Route("/{customerID}", func(r chi.Router) {
			r.Get("/", h.GetCustomer)
			r.Put("/", h.UpdateCustomer)
			r.Delete("/", h.DeleteCustomer)
		})
	})
}

func setupLoanRoutes(router *chi.Mux, cfg *config.Config, deps Dependencies, logger *slog.Logger) {
	h := handler.NewLoanHandler(deps.Loans, logger)

	router.Route("/loans", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", h.CreateLoan)
		r.Get("/", h.ListLoans)
		r.Route("/{loanID}", func(r chi.Router) {
			r.Get("/", h.GetLoan)
			r.Put("/", h.UpdateLoan)
			r.Delete("/", h.DeleteLoan)
		})
	})
}

func setupAuthRoutes(router *chi.Mux, cfg *config.Config, deps Dependencies, logger *slog.Logger) {
	h := handler.NewAuthHandler(cfg.Server.Auth, deps.Clock, logger)
	router.Route("/auth", func(r chi.Router) {
		r.Post("/token", h.GenerateBearerToken)
	})
}
