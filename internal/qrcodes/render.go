package qrcodes

import (
	"fmt"
	"image/color"

	"github.com/skip2/go-qrcode"
)

// Render encodes payload as a PNG QR code at low error correction. The
// version is chosen automatically, scale is pixels per module, and the
// standard four-module quiet zone is kept.
func Render(payload string, scale int) ([]byte, error) {
	if scale < 1 {
		return nil, fmt.Errorf("invalid scale %d", scale)
	}

	q, err := qrcode.New(payload, qrcode.Low)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	q.ForegroundColor = color.Black
	q.BackgroundColor = color.White

	png, err := q.PNG(-scale)
	if err != nil {
		return nil, fmt.Errorf("render png: %w", err)
	}
	return png, nil
}
