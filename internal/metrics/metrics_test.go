package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"github.com/corvidns/resolver/internal/dnserr"
)

func TestObserveQueryCountsSuccessAndCacheHit(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg, "resolver_test")

	c.ObserveQuery("8.8.8.8:53", 10*time.Millisecond, false, dnserr.KindUnspecified)
	c.ObserveQuery("8.8.8.8:53", 0, true, dnserr.KindUnspecified)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	var queriesTotal, cacheHitsTotal float64
	for _, mf := range mfs {
		switch mf.GetName() {
		case "resolver_test_queries_total":
			queriesTotal = sumCounters(mf.GetMetric())
		case "resolver_test_cache_hits_total":
			cacheHitsTotal = sumCounters(mf.GetMetric())
		}
	}
	require.Equal(t, float64(1), queriesTotal)
	require.Equal(t, float64(1), cacheHitsTotal)
}

func TestObserveQueryRecordsErrorKind(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg, "resolver_test2")

	c.ObserveQuery("1.1.1.1:53", time.Second, false, dnserr.KindSocketTimeout)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	var errTotal float64
	for _, mf := range mfs {
		if mf.GetName() == "resolver_test2_query_errors_total" {
			errTotal = sumCounters(mf.GetMetric())
		}
	}
	require.Equal(t, float64(1), errTotal)
}

func sumCounters(ms []*dto.Metric) float64 {
	var total float64
	for _, m := range ms {
		if m.Counter != nil {
			total += m.Counter.GetValue()
		}
	}
	return total
}
