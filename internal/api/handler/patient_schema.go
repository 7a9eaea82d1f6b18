package handler

// qrCodeResponse carries the base64 PNG data URL for a patient's QR code.
type qrCodeResponse struct {
	QRCode string `json:"qrCode"`
}
