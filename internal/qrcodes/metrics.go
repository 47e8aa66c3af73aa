package qrcodes

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks artifact refreshes.
type Metrics struct {
	Refreshes       *prometheus.CounterVec
	RefreshDuration prometheus.Histogram
	Regenerated     prometheus.Counter
}

// NewMetrics registers QR metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Refreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_qr_refreshes_total",
			Help: "QR artifact refreshes by result",
		}, []string{"result"}),
		RefreshDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "registry_qr_refresh_duration_seconds",
			Help:    "Duration of QR artifact refreshes",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		Regenerated: factory.NewCounter(prometheus.CounterOpts{
			Name: "registry_qr_regenerated_on_read_total",
			Help: "Artifacts regenerated because the slot was empty on read",
		}),
	}
}

func (m *Metrics) observeRefresh(start time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Refreshes.WithLabelValues(result).Inc()
	m.RefreshDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) incRegenerated() {
	if m == nil {
		return
	}
	m.Regenerated.Inc()
}
