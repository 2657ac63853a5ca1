package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_CountsByVerdictAndKind(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveInspection(true, 10*time.Millisecond)
	m.ObserveInspection(false, 20*time.Millisecond)
	m.ObserveInspection(false, 30*time.Millisecond)
	m.ObserveError("decode")

	require.Equal(t, 1.0, testutil.ToFloat64(m.inspections.WithLabelValues("pass")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.inspections.WithLabelValues("fail")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("decode")))

	families, err := reg.Gather()
	require.NoError(t, err)
	var samples uint64
	for _, f := range families {
		if f.GetName() == "fabric_inspection_duration_seconds" {
			samples = f.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	require.Equal(t, uint64(3), samples)
}
