package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	cartservice "github.com/lojavirtual/marketplace/internal/cart/service"
	"github.com/lojavirtual/marketplace/internal/catalog"
	"github.com/lojavirtual/marketplace/internal/customer"
	"github.com/lojavirtual/marketplace/internal/inventory"
	"github.com/lojavirtual/marketplace/internal/order/domain"
	orderrepo "github.com/lojavirtual/marketplace/internal/order/repository"
	orderservice "github.com/lojavirtual/marketplace/internal/order/service"
	"github.com/lojavirtual/marketplace/internal/payment"
	"github.com/lojavirtual/marketplace/internal/tracking"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError maps service and domain errors to HTTP status codes.
// Anything unmapped is an internal error; the detail stays in the log.
func handleServiceError(w http.ResponseWriter, err error) {
	var stockErr *inventory.InsufficientStockError
	if errors.As(err, &stockErr) {
		respondError(w, http.StatusConflict, "insufficient_stock", stockErr.Error())
		return
	}

	var transitionErr *domain.IllegalTransitionError
	if errors.As(err, &transitionErr) {
		respondError(w, http.StatusConflict, "illegal_transition", transitionErr.Error())
		return
	}

	switch {
	case errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, catalog.ErrSupplierNotFound),
		errors.Is(err, customer.ErrCustomerNotFound),
		errors.Is(err, customer.ErrAddressNotFound),
		errors.Is(err, customer.ErrInstrumentNotFound),
		errors.Is(err, orderrepo.ErrOrderNotFound),
		errors.Is(err, payment.ErrPaymentNotFound),
		errors.Is(err, tracking.ErrCodeNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())

	case errors.Is(err, cartservice.ErrInvalidQuantity),
		errors.Is(err, orderservice.ErrEmptyCart),
		errors.Is(err, orderservice.ErrInvalidPayment),
		errors.Is(err, orderservice.ErrNoDefaultAddress),
		errors.Is(err, orderservice.ErrNoDefaultInstrument),
		errors.Is(err, orderservice.ErrInstrumentExpired):
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())

	case errors.Is(err, orderservice.ErrForbidden):
		respondError(w, http.StatusForbidden, "forbidden", err.Error())

	case errors.Is(err, domain.ErrOrderFinalized),
		errors.Is(err, payment.ErrAlreadyConfirmed),
		errors.Is(err, payment.ErrPaymentCanceled),
		errors.Is(err, payment.ErrTxIDMismatch),
		errors.Is(err, tracking.ErrAlreadyGenerated):
		respondError(w, http.StatusConflict, "conflict", err.Error())

	case errors.Is(err, payment.ErrPaymentExpired):
		respondError(w, http.StatusGone, "payment_expired", err.Error())

	case errors.Is(err, payment.ErrTooManyAttempts):
		respondError(w, http.StatusTooManyRequests, "rate_limit_exceeded", err.Error())

	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
