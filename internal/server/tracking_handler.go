package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lojavirtual/marketplace/internal/tracking"
)

// TrackingReader is the read side of the tracking generator.
type TrackingReader interface {
	GetByCode(ctx context.Context, code string) (*tracking.Code, error)
	ListForOrder(ctx context.Context, orderID int64) ([]*tracking.Code, error)
	DownloadImage(ctx context.Context, code string) ([]byte, error)
}

type TrackingHandler struct {
	generator TrackingReader
}

func NewTrackingHandler(generator TrackingReader) *TrackingHandler {
	return &TrackingHandler{generator: generator}
}

// GET /api/v1/tracking/{code} returns the label record, content included.
func (h *TrackingHandler) GetTracking(w http.ResponseWriter, r *http.Request) {
	code, ok := codeParam(w, r)
	if !ok {
		return
	}

	record, err := h.generator.GetByCode(r.Context(), code)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, record)
}

// GET /api/v1/orders/{order_id}/tracking lists the order's labels.
func (h *TrackingHandler) ListForOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}

	records, err := h.generator.ListForOrder(r.Context(), orderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, records)
}

// GET /api/v1/tracking/{code}/image serves the label PNG.
func (h *TrackingHandler) DownloadImage(w http.ResponseWriter, r *http.Request) {
	code, ok := codeParam(w, r)
	if !ok {
		return
	}

	png, err := h.generator.DownloadImage(r.Context(), code)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+code+".png\"")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		return
	}
}

func codeParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	code := chi.URLParam(r, "code")
	if code == "" {
		respondError(w, http.StatusBadRequest, "missing_code", "tracking code is required")
		return "", false
	}
	return code, true
}
