// Package qrcode wraps QR image generation behind a small interface so
// services can swap the encoder in tests.
package qrcode

import (
	"encoding/base64"
	"fmt"

	qr "github.com/skip2/go-qrcode"
)

type Encoder interface {
	EncodePNG(content string, size int) ([]byte, error)
}

type PNGEncoder struct{}

func NewPNGEncoder() *PNGEncoder {
	return &PNGEncoder{}
}

func (e *PNGEncoder) EncodePNG(content string, size int) ([]byte, error) {
	png, err := qr.Encode(content, qr.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}

// DataURI wraps a PNG into the inline form clients render directly.
func DataURI(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}
