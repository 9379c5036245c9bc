package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// GameMetrics records counters for the case-opening engine.
type GameMetrics struct {
	opens       *prometheus.CounterVec
	openErrors  *prometheus.CounterVec
	sales       *prometheus.CounterVec
	payoutCents *prometheus.HistogramVec
}

// NewGameMetrics registers the engine metrics on the provided registerer.
func NewGameMetrics(reg prometheus.Registerer) *GameMetrics {
	if reg == nil {
		return &GameMetrics{}
	}
	opens := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cases_opened_total",
		Help: "Successful case openings by won-item rarity.",
	}, []string{"rarity"})
	openErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "case_open_failures_total",
		Help: "Failed case openings by error code.",
	}, []string{"code"})
	sales := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "items_sold_total",
		Help: "Inventory records sold back for balance.",
	}, []string{"operation"})
	payoutCents := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "drop_payout_cents",
		Help:    "Price in cents of items won from cases.",
		Buckets: prometheus.ExponentialBuckets(10, 4, 9),
	}, []string{"rarity"})
	reg.MustRegister(opens, openErrors, sales, payoutCents)
	return &GameMetrics{
		opens:       opens,
		openErrors:  openErrors,
		sales:       sales,
		payoutCents: payoutCents,
	}
}

// ObserveOpen records a successful open and the payout of the won item.
func (g *GameMetrics) ObserveOpen(rarity string, payoutCents int) {
	if g == nil || g.opens == nil {
		return
	}
	label := normalizeLabel(rarity)
	g.opens.WithLabelValues(label).Inc()
	g.payoutCents.WithLabelValues(label).Observe(float64(payoutCents))
}

// IncOpenFailure increments the failure counter for the given error code.
func (g *GameMetrics) IncOpenFailure(code string) {
	if g == nil || g.openErrors == nil {
		return
	}
	g.openErrors.WithLabelValues(normalizeLabel(code)).Inc()
}

// AddSold adds the number of records sold through the named operation.
func (g *GameMetrics) AddSold(operation string, count int) {
	if g == nil || g.sales == nil || count <= 0 {
		return
	}
	g.sales.WithLabelValues(normalizeLabel(operation)).Add(float64(count))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
