package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lojavirtual/marketplace/internal/inventory"
	"github.com/lojavirtual/marketplace/internal/order/domain"
	orderrepo "github.com/lojavirtual/marketplace/internal/order/repository"
	orderservice "github.com/lojavirtual/marketplace/internal/order/service"
	"github.com/lojavirtual/marketplace/internal/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func responseFor(err error) (*httptest.ResponseRecorder, ErrorResponse) {
	rec := httptest.NewRecorder()
	handleServiceError(rec, err)

	var body ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestHandleServiceError_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"order not found", orderrepo.ErrOrderNotFound, http.StatusNotFound, "not_found"},
		{"empty cart", orderservice.ErrEmptyCart, http.StatusBadRequest, "invalid_request"},
		{"foreign resource", orderservice.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"finalized order", domain.ErrOrderFinalized, http.StatusConflict, "conflict"},
		{"expired payment", payment.ErrPaymentExpired, http.StatusGone, "payment_expired"},
		{"wrong txid", payment.ErrTxIDMismatch, http.StatusConflict, "conflict"},
		{"confirm flood", payment.ErrTooManyAttempts, http.StatusTooManyRequests, "rate_limit_exceeded"},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := responseFor(tt.err)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestHandleServiceError_InsufficientStockDetails(t *testing.T) {
	err := &inventory.InsufficientStockError{ProductID: 10, Available: 3, Requested: 10}

	rec, body := responseFor(err)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "insufficient_stock", body.Code)
	assert.Contains(t, body.Error, "available 3")
	assert.Contains(t, body.Error, "requested 10")
}

func TestHandleServiceError_IllegalTransition(t *testing.T) {
	err := &domain.IllegalTransitionError{From: domain.OrderStatusPending, To: domain.OrderStatusShipped}

	rec, body := responseFor(err)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "illegal_transition", body.Code)
	assert.Contains(t, body.Error, "PENDING -> SHIPPED")
}

func TestHandleServiceError_UnknownErrorHidesDetail(t *testing.T) {
	_, body := responseFor(errors.New("pq: connection refused"))
	assert.Equal(t, "internal server error", body.Error)
}

func TestHeaderAuthMiddleware(t *testing.T) {
	var seen int64
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = customerIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := HeaderAuthMiddleware(next)

	t.Run("valid header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		req.Header.Set("X-Customer-ID", "42")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(42), seen)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		req.Header.Set("X-Customer-ID", "-7")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
