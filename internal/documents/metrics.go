package documents

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks document saves and rejected bindings.
type Metrics struct {
	Saves             *prometheus.CounterVec
	BindingRejections *prometheus.CounterVec
}

// NewMetrics registers document metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Saves: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_document_saves_total",
			Help: "Document saves by operation and artifact outcome",
		}, []string{"operation", "artifact"}),
		BindingRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_binding_rejections_total",
			Help: "Bindings rejected by validation, by kind",
		}, []string{"kind"}),
	}
}

func (m *Metrics) incSave(operation string, warned bool) {
	if m == nil {
		return
	}
	artifact := "ok"
	if warned {
		artifact = "warning"
	}
	m.Saves.WithLabelValues(operation, artifact).Inc()
}

func (m *Metrics) incRejection(kind string) {
	if m == nil {
		return
	}
	m.BindingRejections.WithLabelValues(kind).Inc()
}
