package handler

import (
	"net/http"

	"github.com/segyhp/microloan-engine/pkg/response"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Handlers groups everything the router mounts. Health and RateLimiter are
// optional.
type Handlers struct {
	Auth        *AuthHandler
	Loan        *LoanHandler
	Payment     *PaymentHandler
	Analytics   *AnalyticsHandler
	Customer    *CustomerHandler
	User        *UserHandler
	Health      *HealthHandler
	RateLimiter *RateLimiter
}

// NewRouter mounts the public and JWT-protected routes.
func NewRouter(h Handlers, authMiddleware func(http.Handler) http.Handler, logger *zap.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware(logger))
	router.Use(response.CORSMiddleware)
	if h.RateLimiter != nil {
		router.Use(h.RateLimiter.Middleware)
	}

	if h.Health != nil {
		router.HandleFunc("/health", h.Health.Health).Methods(http.MethodGet)
		router.HandleFunc("/health/ready", h.Health.Ready).Methods(http.MethodGet)
	}

	router.HandleFunc("/api/v1/auth/login", h.Auth.Login).Methods(http.MethodPost)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware)

	api.HandleFunc("/loans", h.Loan.ApplyLoan).Methods(http.MethodPost)
	api.HandleFunc("/loans", h.Loan.ListLoans).Methods(http.MethodGet)
	api.HandleFunc("/loans/{id:[0-9]+}", h.Loan.GetLoan).Methods(http.MethodGet)
	api.HandleFunc("/loans/{id:[0-9]+}/{action:approve|reject|complete|default}", h.Loan.Transition).Methods(http.MethodPost)
	api.HandleFunc("/repayments/due", h.Loan.DueRepayments).Methods(http.MethodGet)

	api.HandleFunc("/payments", h.Payment.InitiatePayment).Methods(http.MethodPost)
	api.HandleFunc("/payments", h.Payment.ListPayments).Methods(http.MethodGet)
	api.HandleFunc("/payments/{id:[0-9]+}", h.Payment.GetPayment).Methods(http.MethodGet)
	api.HandleFunc("/payments/{id:[0-9]+}/approve", h.Payment.ApprovePayment).Methods(http.MethodPost)
	api.HandleFunc("/payments/{id:[0-9]+}/reject", h.Payment.RejectPayment).Methods(http.MethodPost)

	api.HandleFunc("/dashboard/overview", h.Analytics.DashboardOverview).Methods(http.MethodGet)
	api.HandleFunc("/analytics/profit", h.Analytics.ProfitAnalytics).Methods(http.MethodGet)

	api.HandleFunc("/customers", h.Customer.CreateCustomer).Methods(http.MethodPost)
	api.HandleFunc("/customers", h.Customer.ListCustomers).Methods(http.MethodGet)
	api.HandleFunc("/customers/{id:[0-9]+}", h.Customer.GetCustomer).Methods(http.MethodGet)
	api.HandleFunc("/customers/{id:[0-9]+}", h.Customer.UpdateCustomer).Methods(http.MethodPut)
	api.HandleFunc("/customers/{id:[0-9]+}", h.Customer.DeleteCustomer).Methods(http.MethodDelete)

	api.HandleFunc("/users", h.User.CreateUser).Methods(http.MethodPost)
	api.HandleFunc("/users", h.User.ListUsers).Methods(http.MethodGet)
	api.HandleFunc("/users/{id:[0-9]+}/active", h.User.SetUserActive).Methods(http.MethodPatch)

	return router
}
