package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestStorefrontMetricsRecordsCounters(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewStorefrontMetrics(reg)

	m.IncCacheRead("merge")
	m.IncCacheRead("merge")
	m.IncCacheRead("reshuffle")
	m.IncCartMutation("set_quantity", "rejected")
	m.IncGatewayError("fetch_catalog", "NETWORK_ERROR")
	m.IncGatewayError("", "")

	if got := testutil.ToFloat64(m.cacheReads.WithLabelValues("merge")); got != 2 {
		t.Fatalf("expected 2 merge reads, got %v", got)
	}
	if got := testutil.ToFloat64(m.cartOutcomes.WithLabelValues("set_quantity", "rejected")); got != 1 {
		t.Fatalf("expected 1 rejection, got %v", got)
	}
	if got := testutil.ToFloat64(m.gatewayErrors.WithLabelValues("unknown", "unknown")); got != 1 {
		t.Fatalf("expected blank labels normalized, got %v", got)
	}
}

func TestStorefrontMetricsNilSafe(t *testing.T) {
	t.Parallel()

	var m *StorefrontMetrics
	m.IncCacheRead("merge")
	m.IncCartMutation("add", "updated")
	m.IncGatewayError("fetch_cart", "SERVER_ERROR")

	empty := NewStorefrontMetrics(nil)
	empty.IncCacheRead("reshuffle")
}
