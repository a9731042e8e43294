package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/peerlend/loan-tracker/docs"
	"github.com/peerlend/loan-tracker/internal/api/handler"
	"github.com/peerlend/loan-tracker/internal/api/middleware"
	"github.com/peerlend/loan-tracker/internal/core/ports"
	"github.com/peerlend/loan-tracker/internal/infrastructure/http/handlers"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Loans  ports.LoanService
	Users  ports.UserService
	Logger zerolog.Logger

	// Idempotency is optional; POST routes skip replay protection when nil.
	Idempotency ports.IdempotencyStore
	// Checkers back the readiness check.
	Checkers []handlers.Checker
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(middleware.Metrics())

	var postMW []echo.MiddlewareFunc
	if d.Idempotency != nil {
		postMW = append(postMW, middleware.Idempotency(d.Idempotency, d.Logger))
	}

	// --- Loans ---
	loanHandler := handler.NewLoanHandler(d.Loans, d.Logger)
	e.Any("/loans", handler.Dispatch(handler.Methods{
		http.MethodGet:  loanHandler.List,
		http.MethodPost: loanHandler.Create,
	}), postMW...)
	e.Any("/loans/:id", handler.Dispatch(handler.Methods{
		http.MethodGet:    loanHandler.Get,
		http.MethodPut:    loanHandler.Update,
		http.MethodDelete: loanHandler.Delete,
	}))

	// --- Users ---
	userHandler := handler.NewUserHandler(d.Users, d.Logger)
	e.Any("/users", handler.Dispatch(handler.Methods{
		http.MethodGet:  userHandler.List,
		http.MethodPost: userHandler.Create,
	}), postMW...)
	e.Any("/users/:id", handler.Dispatch(handler.Methods{
		http.MethodGet: userHandler.Get,
	}))

	// --- Health checks ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Checkers...)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
