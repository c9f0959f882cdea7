package server

import (
	"encoding/json"
	"net/http"

	"github.com/lojavirtual/marketplace/internal/payment"
)

type PaymentsHandler struct {
	payments *payment.Service
}

func NewPaymentsHandler(payments *payment.Service) *PaymentsHandler {
	return &PaymentsHandler{payments: payments}
}

// GET /api/v1/orders/{order_id}/pix
func (h *PaymentsHandler) GetPix(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}

	pix, err := h.payments.CheckStatus(r.Context(), orderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, pix)
}

type confirmPixRequest struct {
	TxID string `json:"tx_id"`
}

// POST /api/v1/orders/{order_id}/pix/confirm settles the charge and marks
// the order paid. Stands in for the PSP confirmation webhook, so the body
// carries the txid the payer's bank reported.
func (h *PaymentsHandler) ConfirmPix(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}

	var req confirmPixRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if req.TxID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "tx_id is required")
		return
	}

	pix, err := h.payments.Confirm(r.Context(), orderID, req.TxID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, pix)
}
