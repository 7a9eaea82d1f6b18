// Package metrics defines and registers all custom Prometheus metrics for
// the clinic API. It is the single source of truth for metric names, labels,
// and help strings. HTTP-level metrics come from the echoprometheus
// middleware; the variables here cover domain events only.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clinic"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AuthRejectionsTotal counts requests rejected by the access-control gate.
// Label:
//   - reason: "unauthenticated" (missing/invalid token) or "forbidden" (wrong role)
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected by authentication or role checks.",
	},
	[]string{"reason"},
)

// PatientMutationsTotal counts patient-record writes.
// Label:
//   - op: "create", "update" or "delete"
var PatientMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "patient_mutations_total",
		Help:      "Total number of patient record mutations, by operation.",
	},
	[]string{"op"},
)

// UploadsTotal counts files accepted by the attachment pipeline.
// Label:
//   - kind: "photo" or "document"
var UploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Total number of files uploaded to blob storage, by kind.",
	},
	[]string{"kind"},
)

// QRCacheTotal counts QR cache lookups.
// Label:
//   - result: "hit" or "miss"
var QRCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "qr_cache_total",
		Help:      "Total number of QR code cache lookups, by result.",
	},
	[]string{"result"},
)

// AuditQueueDepth tracks pending audit entries per dispatcher worker.
// Label:
//   - worker_id: numeric worker index
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit entries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
