package ports

import "context"

// QRGenerator encodes arbitrary content as a scannable image payload,
// returned as a PNG data URL.
type QRGenerator interface {
	DataURL(content string) (string, error)
}

// QRCache caches generated QR data URLs keyed by patient id. Entries are
// regenerable, so cache failures degrade to regeneration, never to errors.
type QRCache interface {
	Get(ctx context.Context, patientID string) (string, bool)
	Set(ctx context.Context, patientID, dataURL string)
	Invalidate(ctx context.Context, patientID string)
}
