package infra

// qrcode.go renders the scannable image for a ticket. The image encodes the
// ticket's QR payload only (the opaque code), never personal data. The core
// persists the payload inside the issuance transaction; PNG rendering happens
// after commit in the credential worker.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/skip2/go-qrcode"
)

// QRRenderer writes ticket QR codes as PNG files under storagePath.
type QRRenderer struct {
	storagePath string
	size        int
	level       qrcode.RecoveryLevel
}

// NewQRRenderer creates a renderer. errorCorrectionLevel is one of
// "L", "M", "Q", "H" (defaults to "M").
func NewQRRenderer(storagePath string, size int, errorCorrectionLevel string) *QRRenderer {
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}
	return &QRRenderer{storagePath: storagePath, size: size, level: level}
}

// RenderTicket writes the PNG for a ticket and returns the file path.
// numeroTicket names the file; payload is the encoded content.
func (r *QRRenderer) RenderTicket(numeroTicket, payload string) (string, error) {
	if err := os.MkdirAll(r.storagePath, 0755); err != nil {
		return "", fmt.Errorf("qrcode: create storage dir: %w", err)
	}

	filePath := filepath.Join(r.storagePath, fmt.Sprintf("ticket_%s.png", numeroTicket))
	if err := qrcode.WriteFile(payload, r.level, r.size, filePath); err != nil {
		return "", fmt.Errorf("qrcode: write png: %w", err)
	}
	return filePath, nil
}

// RenderBytes returns the PNG bytes without touching disk. Used by the PDF
// generator to embed the QR inline.
func (r *QRRenderer) RenderBytes(payload string) ([]byte, error) {
	png, err := qrcode.Encode(payload, r.level, r.size)
	if err != nil {
		return nil, fmt.Errorf("qrcode: encode: %w", err)
	}
	return png, nil
}
