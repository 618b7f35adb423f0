package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records client-side counters for catalog, cart and
// gateway activity. A nil receiver or unregistered metrics are no-ops so
// callers never need nil checks of their own.
type StorefrontMetrics struct {
	cacheReads    *prometheus.CounterVec
	cartOutcomes  *prometheus.CounterVec
	gatewayErrors *prometheus.CounterVec
}

// NewStorefrontMetrics registers the storefront metrics on the provided
// registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	cacheReads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_order_cache_reads",
		Help: "Catalog order cache reads by outcome (merge, reshuffle).",
	}, []string{"outcome"})
	cartOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations",
		Help: "Cart mutation attempts by operation and outcome.",
	}, []string{"operation", "outcome"})
	gatewayErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_errors",
		Help: "Commerce API failures by operation and error code.",
	}, []string{"operation", "code"})
	reg.MustRegister(cacheReads, cartOutcomes, gatewayErrors)
	return &StorefrontMetrics{
		cacheReads:    cacheReads,
		cartOutcomes:  cartOutcomes,
		gatewayErrors: gatewayErrors,
	}
}

// IncCacheRead records a catalog cache read outcome.
func (m *StorefrontMetrics) IncCacheRead(outcome string) {
	if m == nil || m.cacheReads == nil {
		return
	}
	m.cacheReads.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncCartMutation records a cart mutation attempt.
func (m *StorefrontMetrics) IncCartMutation(operation, outcome string) {
	if m == nil || m.cartOutcomes == nil {
		return
	}
	m.cartOutcomes.WithLabelValues(normalizeLabel(operation), normalizeLabel(outcome)).Inc()
}

// IncGatewayError records a failed commerce API call.
func (m *StorefrontMetrics) IncGatewayError(operation, code string) {
	if m == nil || m.gatewayErrors == nil {
		return
	}
	m.gatewayErrors.WithLabelValues(normalizeLabel(operation), normalizeLabel(code)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
