// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Catalog tracks the health of the live catalog mirror. A nil *Catalog is
// valid and records nothing.
type Catalog struct {
	SnapshotsTotal     prometheus.Counter
	WriteFailuresTotal *prometheus.CounterVec
	RevertsTotal       *prometheus.CounterVec
	Products           prometheus.Gauge
}

// NewCatalog creates the catalog collectors and registers them with reg.
//
// Metrics:
//   - storefront_catalog_snapshots_total - snapshots applied from the store feed
//   - storefront_catalog_write_failures_total{op} - rejected remote writes
//   - storefront_catalog_reverts_total{op} - optimistic mutations rolled back
//   - storefront_catalog_products - products in the local mirror
func NewCatalog(reg prometheus.Registerer) *Catalog {
	m := &Catalog{
		SnapshotsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_catalog_snapshots_total",
			Help: "Total number of catalog snapshots applied from the store feed",
		}),
		WriteFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_catalog_write_failures_total",
			Help: "Total number of catalog writes rejected by the store",
		}, []string{"op"}),
		RevertsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_catalog_reverts_total",
			Help: "Total number of optimistic catalog mutations rolled back after a failed write",
		}, []string{"op"}),
		Products: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "storefront_catalog_products",
			Help: "Number of products currently held in the local catalog",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.SnapshotsTotal, m.WriteFailuresTotal, m.RevertsTotal, m.Products)
	}
	return m
}

func (m *Catalog) Snapshot(size int) {
	if m == nil {
		return
	}
	m.SnapshotsTotal.Inc()
	m.Products.Set(float64(size))
}

func (m *Catalog) Size(size int) {
	if m == nil {
		return
	}
	m.Products.Set(float64(size))
}

func (m *Catalog) WriteFailed(op string) {
	if m == nil {
		return
	}
	m.WriteFailuresTotal.WithLabelValues(op).Inc()
}

func (m *Catalog) Reverted(op string) {
	if m == nil {
		return
	}
	m.RevertsTotal.WithLabelValues(op).Inc()
}
