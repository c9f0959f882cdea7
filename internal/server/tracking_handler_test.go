package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/lojavirtual/marketplace/internal/tracking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTrackingReader struct {
	codes map[string]*tracking.Code
}

func (s *stubTrackingReader) GetByCode(_ context.Context, code string) (*tracking.Code, error) {
	record, ok := s.codes[code]
	if !ok {
		return nil, tracking.ErrCodeNotFound
	}
	return record, nil
}

func (s *stubTrackingReader) ListForOrder(_ context.Context, orderID int64) ([]*tracking.Code, error) {
	var out []*tracking.Code
	for _, record := range s.codes {
		if record.OrderID == orderID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (s *stubTrackingReader) DownloadImage(_ context.Context, code string) ([]byte, error) {
	if _, ok := s.codes[code]; !ok {
		return nil, tracking.ErrCodeNotFound
	}
	return []byte("png"), nil
}

func newTrackingTestRouter(reader *stubTrackingReader) http.Handler {
	h := NewTrackingHandler(reader)
	r := chi.NewRouter()
	r.Get("/orders/{order_id}/tracking", h.ListForOrder)
	r.Get("/tracking/{code}", h.GetTracking)
	r.Get("/tracking/{code}/image", h.DownloadImage)
	return r
}

func testTrackingReader() *stubTrackingReader {
	return &stubTrackingReader{codes: map[string]*tracking.Code{
		"ORD0007-LINE021": {
			ID: 1, OrderID: 7, LineID: 21,
			Code:    "ORD0007-LINE021",
			Content: "CODIGO: ORD0007-LINE021",
			QRCode:  "data:image/png;base64,cG5n",
		},
	}}
}

func TestGetTracking(t *testing.T) {
	router := newTrackingTestRouter(testTrackingReader())

	req := httptest.NewRequest(http.MethodGet, "/tracking/ORD0007-LINE021", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"code":"ORD0007-LINE021"`)
	assert.Contains(t, body, `"content":"CODIGO: ORD0007-LINE021"`)
	assert.Contains(t, body, `"qr_code":"data:image/png;base64,cG5n"`)
}

func TestGetTracking_UnknownCode(t *testing.T) {
	router := newTrackingTestRouter(testTrackingReader())

	req := httptest.NewRequest(http.MethodGet, "/tracking/ORD9999-LINE999", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListTrackingForOrder(t *testing.T) {
	router := newTrackingTestRouter(testTrackingReader())

	req := httptest.NewRequest(http.MethodGet, "/orders/7/tracking", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"ORD0007-LINE021"`)
}

func TestListTrackingForOrder_BadOrderID(t *testing.T) {
	router := newTrackingTestRouter(testTrackingReader())

	req := httptest.NewRequest(http.MethodGet, "/orders/abc/tracking", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDownloadTrackingImage(t *testing.T) {
	router := newTrackingTestRouter(testTrackingReader())

	req := httptest.NewRequest(http.MethodGet, "/tracking/ORD0007-LINE021/image", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, []byte("png"), rec.Body.Bytes())
}
