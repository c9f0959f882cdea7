package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/lojavirtual/marketplace/internal/order/domain"
	"github.com/lojavirtual/marketplace/internal/order/service"
)

type OrdersHandler struct {
	orders *service.OrderService
}

func NewOrdersHandler(orders *service.OrderService) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

type CreateOrderRequestDTO struct {
	PaymentMethod string `json:"payment_method"`
	AddressID     *int64 `json:"address_id,omitempty"`
	InstrumentID  *int64 `json:"instrument_id,omitempty"`
}

type UpdateStatusRequestDTO struct {
	Status string `json:"status"`
}

// POST /api/v1/orders
func (h *OrdersHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	customerID := customerIDFromContext(r.Context())

	var req CreateOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	order, err := h.orders.CreateOrder(r.Context(), service.CreateOrderInput{
		CustomerID:    customerID,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		AddressID:     req.AddressID,
		InstrumentID:  req.InstrumentID,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

// GET /api/v1/orders
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	customerID := customerIDFromContext(r.Context())

	views, err := h.orders.ListByCustomer(r.Context(), customerID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, views)
}

// GET /api/v1/orders/{order_id}
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	customerID := customerIDFromContext(r.Context())

	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}

	view, err := h.orders.GetOrder(r.Context(), orderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if view.Order.CustomerID != customerID {
		respondError(w, http.StatusForbidden, "forbidden", "order belongs to another customer")
		return
	}

	respondJSON(w, http.StatusOK, view)
}

// POST /api/v1/orders/{order_id}/cancel
func (h *OrdersHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	customerID := customerIDFromContext(r.Context())

	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}

	view, err := h.orders.GetOrder(r.Context(), orderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if view.Order.CustomerID != customerID {
		respondError(w, http.StatusForbidden, "forbidden", "order belongs to another customer")
		return
	}

	order, err := h.orders.CancelOrder(r.Context(), orderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// PUT /api/v1/orders/{order_id}/status drives fulfillment transitions
// (PREPARING, SHIPPED, DELIVERED). Payment confirmation has its own route.
func (h *OrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	status := domain.OrderStatus(req.Status)
	if !status.Valid() {
		respondError(w, http.StatusBadRequest, "invalid_status", "unknown order status")
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), orderID, status)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// GET /api/v1/suppliers/{supplier_id}/orders
func (h *OrdersHandler) ListSupplierOrders(w http.ResponseWriter, r *http.Request) {
	supplierID, err := strconv.ParseInt(chi.URLParam(r, "supplier_id"), 10, 64)
	if err != nil || supplierID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_supplier_id", "supplier_id must be a positive integer")
		return
	}

	views, err := h.orders.ListBySupplier(r.Context(), supplierID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, views)
}

func orderIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "order_id"), 10, 64)
	if err != nil || orderID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a positive integer")
		return 0, false
	}
	return orderID, true
}
