package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/accountd/accountd/internal/api/handler"
	"github.com/accountd/accountd/internal/api/middleware"
	"github.com/accountd/accountd/internal/services/account"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	AccountService *account.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	accountHandler := handler.NewAccountHandler(cfg.AccountService)

	authMiddleware := middleware.Auth(cfg.AccountService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AccountService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Account routes reachable without a session
	api.HandleFunc("/accounts/register", accountHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/accounts/login", accountHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/accounts/forgot-password", accountHandler.ForgotPassword).Methods(http.MethodPost)
	api.HandleFunc("/accounts/change-password", accountHandler.ChangePassword).Methods(http.MethodPost)

	// Protected account routes
	protected := api.PathPrefix("/accounts").Subrouter()
	protected.Use(authMiddleware)
	protected.HandleFunc("/me", accountHandler.Me).Methods(http.MethodGet)
	protected.HandleFunc("/logout", accountHandler.Logout).Methods(http.MethodPost)

	// Public account lookup; the caller's session, if any, only affects
	// email visibility
	public := api.PathPrefix("/accounts").Subrouter()
	public.Use(optionalAuthMiddleware)
	public.HandleFunc("/{id:[0-9]+}", accountHandler.Get).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
