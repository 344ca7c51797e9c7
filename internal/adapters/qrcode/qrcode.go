// Package qrcode renders registration tokens as scannable QR images.
package qrcode

import (
	"fmt"

	goqrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the PNG edge length in pixels.
const DefaultSize = 256

// Encoder renders tokens as PNG images.
type Encoder struct {
	Size  int
	Level goqrcode.RecoveryLevel
}

// NewEncoder returns an Encoder with medium error correction.
func NewEncoder(size int) *Encoder {
	if size <= 0 {
		size = DefaultSize
	}
	return &Encoder{Size: size, Level: goqrcode.Medium}
}

// PNG encodes the token verbatim; a scanner reading the image yields exactly the token.
func (e *Encoder) PNG(token string) ([]byte, error) {
	if token == "" {
		return nil, fmt.Errorf("qrcode: empty token")
	}
	png, err := goqrcode.Encode(token, e.Level, e.Size)
	if err != nil {
		return nil, fmt.Errorf("qrcode: %w", err)
	}
	return png, nil
}
