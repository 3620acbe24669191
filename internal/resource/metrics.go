package resource

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts mutations and tracks store size per resource.
type Metrics struct {
	Mutations *prometheus.CounterVec
	Records   *prometheus.GaugeVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resource_mutations_total",
				Help: "Successful create/update/delete operations",
			},
			[]string{"resource", "op"},
		),
		Records: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "resource_records",
				Help: "Records currently held by the store",
			},
			[]string{"resource"},
		),
	}
	reg.MustRegister(m.Mutations, m.Records)
	return m
}

func (m *Metrics) observe(resource, op string, size int) {
	if m == nil {
		return
	}
	m.Mutations.WithLabelValues(resource, op).Inc()
	m.Records.WithLabelValues(resource).Set(float64(size))
}
