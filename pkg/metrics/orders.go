package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	OrderSourceLegacy = "legacy"
	OrderSourceAtomic = "atomic"

	StockOutcomeApplied      = "applied"
	StockOutcomeNegative     = "negative"
	StockOutcomeSkipped      = "skipped"
	StockOutcomeInsufficient = "insufficient"
)

// OrderMetrics counts order workflow activity.
type OrderMetrics struct {
	ordersCreated  *prometheus.CounterVec
	linesInserted  prometheus.Counter
	stockDecrement *prometheus.CounterVec
	unitsDecrement prometheus.Counter
}

// NewOrderMetrics registers the order workflow metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	ordersCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Order headers created, by entry point.",
	}, []string{"source"})
	linesInserted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_lines_inserted_total",
		Help: "Order lines persisted.",
	})
	stockDecrement := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_decrements_total",
		Help: "Stock decrements by outcome.",
	}, []string{"outcome"})
	unitsDecrement := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stock_units_decremented_total",
		Help: "Units removed from on-hand stock.",
	})
	reg.MustRegister(ordersCreated, linesInserted, stockDecrement, unitsDecrement)
	return &OrderMetrics{
		ordersCreated:  ordersCreated,
		linesInserted:  linesInserted,
		stockDecrement: stockDecrement,
		unitsDecrement: unitsDecrement,
	}
}

func (o *OrderMetrics) IncOrderCreated(source string) {
	if o == nil || o.ordersCreated == nil {
		return
	}
	o.ordersCreated.WithLabelValues(normalizeLabel(source)).Inc()
}

func (o *OrderMetrics) AddLinesInserted(n int) {
	if o == nil || o.linesInserted == nil || n <= 0 {
		return
	}
	o.linesInserted.Add(float64(n))
}

// ObserveDecrement counts a decrement attempt and, when applied, its units.
func (o *OrderMetrics) ObserveDecrement(outcome string, units int64) {
	if o == nil || o.stockDecrement == nil {
		return
	}
	o.stockDecrement.WithLabelValues(normalizeLabel(outcome)).Inc()
	if (outcome == StockOutcomeApplied || outcome == StockOutcomeNegative) && units > 0 {
		o.unitsDecrement.Add(float64(units))
	}
}
