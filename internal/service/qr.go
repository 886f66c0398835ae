package service

import (
	"encoding/base64"
	"fmt"

	"github.com/skip2/go-qrcode"
)

// QRGenerator produces the payment QR code a driver displays in their
// vehicle. The payload is just the public pay-page URL for the driver.
type QRGenerator struct {
	baseURL string
}

// NewQRGenerator creates a QR generator rooted at the service's public URL.
func NewQRGenerator(baseURL string) *QRGenerator {
	return &QRGenerator{baseURL: baseURL}
}

// PaymentQR renders the driver's pay-page URL as a PNG QR code and returns
// it as a data URL suitable for direct embedding.
func (g *QRGenerator) PaymentQR(driverID string) (string, error) {
	payURL := fmt.Sprintf("%s/pay/%s", g.baseURL, driverID)

	png, err := qrcode.Encode(payURL, qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("encoding payment QR: %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
