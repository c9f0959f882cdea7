package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires every handler into the public API surface.
func NewRouter(
	cart *CartHandler,
	orders *OrdersHandler,
	payments *PaymentsHandler,
	trackingH *TrackingHandler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(HeaderAuthMiddleware)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cart.GetCart)
			r.Delete("/", cart.ClearCart)
			r.Post("/items", cart.AddItem)
			r.Put("/items/{product_id}", cart.UpdateQuantity)
			r.Delete("/items/{product_id}", cart.RemoveItem)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", orders.CreateOrder)
			r.Get("/", orders.ListOrders)
			r.Get("/{order_id}", orders.GetOrder)
			r.Post("/{order_id}/cancel", orders.CancelOrder)
			r.Put("/{order_id}/status", orders.UpdateStatus)
			r.Get("/{order_id}/pix", payments.GetPix)
			r.Post("/{order_id}/pix/confirm", payments.ConfirmPix)
			r.Get("/{order_id}/tracking", trackingH.ListForOrder)
		})

		r.Get("/suppliers/{supplier_id}/orders", orders.ListSupplierOrders)
		r.Get("/tracking/{code}", trackingH.GetTracking)
		r.Get("/tracking/{code}/image", trackingH.DownloadImage)
	})

	return r
}
