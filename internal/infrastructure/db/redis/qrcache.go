package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/nagrathcare/clinic-api/internal/api/metrics"
)

const qrTTL = time.Hour

// QRCache stores generated QR data URLs keyed by patient id.
// Key format: qr:<patient_id>
//
// Entries are derived values, always regenerable from the record id, so any
// cache failure degrades to regeneration and is only logged.
type QRCache struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewQRCache creates a QRCache wrapping the given Redis client.
func NewQRCache(client *redis.Client, log zerolog.Logger) *QRCache {
	return &QRCache{client: client, log: log}
}

func (c *QRCache) Get(ctx context.Context, patientID string) (string, bool) {
	val, err := c.client.Get(ctx, c.key(patientID)).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("patient_id", patientID).Msg("qr cache read failed")
		}
		metrics.QRCacheTotal.WithLabelValues("miss").Inc()
		return "", false
	}
	metrics.QRCacheTotal.WithLabelValues("hit").Inc()
	return val, true
}

func (c *QRCache) Set(ctx context.Context, patientID, dataURL string) {
	if err := c.client.Set(ctx, c.key(patientID), dataURL, qrTTL).Err(); err != nil {
		c.log.Warn().Err(err).Str("patient_id", patientID).Msg("qr cache write failed")
	}
}

func (c *QRCache) Invalidate(ctx context.Context, patientID string) {
	if err := c.client.Del(ctx, c.key(patientID)).Err(); err != nil {
		c.log.Warn().Err(err).Str("patient_id", patientID).Msg("qr cache delete failed")
	}
}

func (c *QRCache) key(patientID string) string {
	return "qr:" + patientID
}
