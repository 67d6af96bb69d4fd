package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "folio", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "folio", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	Uploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "folio", Name: "uploads_total", Help: "Uploads by folder and outcome."},
		[]string{"folder", "outcome"},
	)
	CleanupFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "folio", Name: "storage_cleanup_failures_total", Help: "Stored files that could not be removed, by reason."},
		[]string{"reason"},
	)
	ImportItems = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "folio", Name: "import_collections_total", Help: "Imported collections by collection and outcome."},
		[]string{"collection", "outcome"},
	)
	MailsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "folio", Name: "mails_total", Help: "Outgoing mails by kind and outcome."},
		[]string{"kind", "outcome"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(Uploads)
	reg.MustRegister(CleanupFailures)
	reg.MustRegister(ImportItems)
	reg.MustRegister(MailsSent)
}
