// Package qr encodes public record-lookup URLs as scannable PNG data URLs.
package qr

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const imageSize = 256

// Generator implements the QR generation port.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// DataURL encodes content as a PNG QR image wrapped in a data URL. It fails
// only on pathological input (empty content, or content too large for the
// highest QR version).
func (g *Generator) DataURL(content string) (string, error) {
	if content == "" {
		return "", fmt.Errorf("qr encode: empty content")
	}

	png, err := qrcode.Encode(content, qrcode.Medium, imageSize)
	if err != nil {
		return "", fmt.Errorf("qr encode: %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
