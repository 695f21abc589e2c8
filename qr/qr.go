// Package qr builds the public menu link of a restaurant and renders it as a
// QR code for table cards.
package qr

import (
	"strings"

	"armenu-api/apperr"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the PNG edge length in pixels.
const DefaultSize = 512

// MenuURL returns the customer-facing menu link, <base>/menu/<restaurantID>.
func MenuURL(baseURL, restaurantID string) string {
	return strings.TrimRight(baseURL, "/") + "/menu/" + restaurantID
}

// PNG encodes content as a QR code image. A size <= 0 uses DefaultSize.
func PNG(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, apperr.Validation("qr content is required")
	}
	if size <= 0 {
		size = DefaultSize
	}
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, apperr.Backend("failed to render qr code", err)
	}
	return png, nil
}
