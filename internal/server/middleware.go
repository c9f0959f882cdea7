package server

import (
	"context"
	"net/http"
	"strconv"
)

type contextKey string

const customerIDKey contextKey = "customer_id"

// HeaderAuthMiddleware reads the authenticated customer from the
// X-Customer-ID header set by the edge proxy. Real token validation happens
// upstream; this service only needs the identity.
func HeaderAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		customerID, err := strconv.ParseInt(r.Header.Get("X-Customer-ID"), 10, 64)
		if err != nil || customerID <= 0 {
			respondError(w, http.StatusUnauthorized, "unauthorized", "missing customer authentication")
			return
		}

		ctx := context.WithValue(r.Context(), customerIDKey, customerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func customerIDFromContext(ctx context.Context) int64 {
	if customerID, ok := ctx.Value(customerIDKey).(int64); ok {
		return customerID
	}
	return 0
}
