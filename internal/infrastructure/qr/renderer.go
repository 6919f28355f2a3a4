// Package qr renders entry pass tokens as QR code images.
package qr

import (
	"fmt"

	"github.com/skip2/go-qrcode"

	"invitapp/internal/ports/output"
)

var _ output.QRRenderer = Renderer{}

// Renderer encodes with medium error correction, which survives a
// scratched phone screen while keeping the module count low.
type Renderer struct{}

func (Renderer) PNG(token string, size int) ([]byte, error) {
	png, err := qrcode.Encode(token, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}
