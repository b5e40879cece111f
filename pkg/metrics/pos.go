package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// POSMetrics tracks register activity.
type POSMetrics struct {
	cartOps  *prometheus.CounterVec
	sales    prometheus.Counter
	amounts  prometheus.Histogram
	failures *prometheus.CounterVec
	scanMiss prometheus.Counter
	lowStock prometheus.Gauge
}

// NewPOSMetrics registers the register metrics on the provided registerer.
func NewPOSMetrics(reg prometheus.Registerer) *POSMetrics {
	if reg == nil {
		return &POSMetrics{}
	}
	m := &POSMetrics{
		cartOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_cart_operations_total",
			Help: "Cart mutations by operation.",
		}, []string{"op"}),
		sales: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pos_sales_finalized_total",
			Help: "Sales finalized at the register.",
		}),
		amounts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pos_sale_amount",
			Help:    "Finalized sale totals in BRL.",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_checkout_failures_total",
			Help: "Rejected checkouts by reason.",
		}, []string{"reason"}),
		scanMiss: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pos_barcode_scan_misses_total",
			Help: "Barcode scans that matched no product.",
		}),
		lowStock: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pos_low_stock_products",
			Help: "Active products at or below their minimum stock.",
		}),
	}
	reg.MustRegister(m.cartOps, m.sales, m.amounts, m.failures, m.scanMiss, m.lowStock)
	return m
}

// CartOperation counts a cart mutation.
func (m *POSMetrics) CartOperation(op string) {
	if m == nil || m.cartOps == nil {
		return
	}
	m.cartOps.WithLabelValues(normalizeLabel(op)).Inc()
}

// SaleFinalized counts a sale and records its total.
func (m *POSMetrics) SaleFinalized(total decimal.Decimal) {
	if m == nil || m.sales == nil {
		return
	}
	m.sales.Inc()
	m.amounts.Observe(total.InexactFloat64())
}

// CheckoutFailed counts a rejected checkout.
func (m *POSMetrics) CheckoutFailed(reason string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.WithLabelValues(normalizeLabel(reason)).Inc()
}

// ScanMissed counts a barcode that matched no product.
func (m *POSMetrics) ScanMissed() {
	if m == nil || m.scanMiss == nil {
		return
	}
	m.scanMiss.Inc()
}

// SetLowStock records how many products need restocking.
func (m *POSMetrics) SetLowStock(n int) {
	if m == nil || m.lowStock == nil {
		return
	}
	m.lowStock.Set(float64(n))
}
