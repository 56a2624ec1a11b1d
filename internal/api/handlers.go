/**
 * @description
 * This file contains the HTTP handlers for the lending-service's API
 * endpoints. Handlers are responsible for parsing incoming requests, calling
 * the appropriate methods on the application service, and writing the HTTP
 * response. They act as the bridge between the web layer and the business
 * logic layer; typed errors from the service map onto status codes here and
 * internal failures are returned opaque.
 *
 * @dependencies
 * - encoding/json, net/http: Standard Go libraries.
 * - internal/app, internal/domain, internal/store: For service logic, models, and custom errors.
 */

package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/paisebank/lending-service/internal/app"
	"github.com/paisebank/lending-service/internal/domain"
	"github.com/paisebank/lending-service/internal/store"
)

// LendingHandlers holds the application services that handlers will use.
type LendingHandlers struct {
	service *app.Service
	billing *app.BillingEngine
	logger  *slog.Logger
}

// NewLendingHandlers creates the handler set for the lending routes.
func NewLendingHandlers(service *app.Service, billing *app.BillingEngine, logger *slog.Logger) *LendingHandlers {
	return &LendingHandlers{service: service, billing: billing, logger: logger}
}

// RegisterUserHandler creates a user. Credit scoring runs asynchronously; the
// response is written as soon as the user row exists.
func (h *LendingHandlers) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.RegisterUser(r.Context(), req)
	if err != nil {
		h.respondError(w, "register_user", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, user)
}

// ApplyLoanHandler runs the underwriting gates and creates a PENDING loan.
func (h *LendingHandlers) ApplyLoanHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.LoanApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.ApplyLoan(r.Context(), req)
	if err != nil {
		h.respondError(w, "apply_loan", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, resp)
}

// RecordPaymentHandler applies a payment against a loan's current billing cycle.
func (h *LendingHandlers) RecordPaymentHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.RecordPayment(r.Context(), req)
	if err != nil {
		h.respondError(w, "record_payment", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, resp)
}

// GetStatementHandler assembles the read-only statement view for a user.
func (h *LendingHandlers) GetStatementHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	statements, err := h.service.GetStatement(r.Context(), userID)
	if err != nil {
		h.respondError(w, "get_statement", err)
		return
	}
	h.writeJSON(w, http.StatusOK, statements)
}

// RunBillingCycleHandler triggers a billing batch. The batch runs detached
// from the request context so the trigger returns immediately and the batch
// survives the caller disconnecting.
func (h *LendingHandlers) RunBillingCycleHandler(w http.ResponseWriter, r *http.Request) {
	go h.billing.Run(context.Background())

	h.writeJSON(w, http.StatusAccepted, map[string]string{"status": "billing cycle started"})
}

// respondError maps service errors onto HTTP statuses. Business rejections
// and validation failures are expected outcomes and carry their reason;
// anything else is logged and returned opaque.
func (h *LendingHandlers) respondError(w http.ResponseWriter, endpoint string, err error) {
	var rejection *app.RejectionError
	switch {
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrLoanNotFound),
		errors.Is(err, app.ErrNoLoansFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrBillingNotFound),
		errors.Is(err, app.ErrBillingNotAvailable):
		h.writeError(w, http.StatusNotFound, "billing details not found")
	case errors.Is(err, app.ErrInvalidInput),
		errors.Is(err, store.ErrDuplicateUser):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &rejection):
		h.writeError(w, http.StatusBadRequest, rejection.Reason)
	default:
		h.logger.Error("request failed", "endpoint", endpoint, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *LendingHandlers) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("response encoding failed", "error", err)
	}
}

func (h *LendingHandlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
