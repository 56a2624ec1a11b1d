/**
 * @description
 * This file sets up the HTTP router for the lending-service. It defines the
 * API endpoints, associates them with their corresponding handlers, and
 * applies the standard middleware stack. The billing trigger is gated behind
 * the shared internal API key; every other endpoint is an external boundary
 * the surrounding platform is expected to front.
 *
 * @dependencies
 * - net/http: Standard Go library for HTTP functionality.
 * - github.com/go-chi/chi/v5: A lightweight and idiomatic router for Go.
 * - github.com/go-chi/cors: CORS middleware.
 */

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// LendingRoutes creates and returns the router for the lending service.
func LendingRoutes(h *LendingHandlers, allowedOrigins, internalAPIKey string) http.Handler {
	r := chi.NewRouter()

	// Standard middleware for logging, panic recovery, and timeouts.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: strings.Split(allowedOrigins, ","),
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})

	r.Post("/users/register", h.RegisterUserHandler)
	r.Post("/loans/apply", h.ApplyLoanHandler)
	r.Post("/payments", h.RecordPaymentHandler)
	r.Get("/statements/{userID}", h.GetStatementHandler)

	// Operational endpoints require the shared internal key.
	r.Group(func(r chi.Router) {
		r.Use(InternalKeyMiddleware(internalAPIKey))
		r.Post("/billing/run", h.RunBillingCycleHandler)
	})

	return r
}
