package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCatalog(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCatalog(reg)

	m.Snapshot(4)
	m.Snapshot(5)
	m.WriteFailed("update")
	m.Reverted("update")
	m.Size(6)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SnapshotsTotal))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.Products))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WriteFailuresTotal.WithLabelValues("update")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RevertsTotal.WithLabelValues("update")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RevertsTotal.WithLabelValues("delete")))
}

func TestNilCatalogIsNoop(t *testing.T) {
	var m *Catalog
	assert.NotPanics(t, func() {
		m.Snapshot(1)
		m.Size(1)
		m.WriteFailed("create")
		m.Reverted("delete")
	})
}
