package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "linkmint_"

var (
	registerOnce sync.Once

	clicksTotal      *prometheus.CounterVec
	impressionsTotal *prometheus.CounterVec
	chargesTotal     *prometheus.CounterVec
	commissionsTotal *prometheus.CounterVec
	unitsDisabled    prometheus.Counter
	rateRefreshTotal *prometheus.CounterVec
)

// Init registers ledger engine metrics with the default registry.
func Init() {
	registerOnce.Do(func() {
		clicksTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "clicks_total",
				Help: "Total recorded clicks by result",
			},
			[]string{"result"},
		)
		impressionsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "impressions_total",
				Help: "Total recorded impressions by result",
			},
			[]string{"result"},
		)
		chargesTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "merchant_charges_total",
				Help: "Total merchant charges by event kind",
			},
			[]string{"kind"},
		)
		commissionsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "commissions_total",
				Help: "Total commission payouts by level",
			},
			[]string{"level"},
		)
		unitsDisabled = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "units_disabled_total",
				Help: "Total units disabled after reaching their click target",
			},
		)
		rateRefreshTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "rate_refresh_total",
				Help: "Total exchange rate refresh attempts by result",
			},
			[]string{"result"},
		)

		prometheus.MustRegister(
			clicksTotal,
			impressionsTotal,
			chargesTotal,
			commissionsTotal,
			unitsDisabled,
			rateRefreshTotal,
		)
	})
}

func ObserveClick(result string) {
	if clicksTotal != nil {
		clicksTotal.WithLabelValues(result).Inc()
	}
}

func ObserveImpression(result string) {
	if impressionsTotal != nil {
		impressionsTotal.WithLabelValues(result).Inc()
	}
}

func ObserveCharge(kind string) {
	if chargesTotal != nil {
		chargesTotal.WithLabelValues(kind).Inc()
	}
}

func ObserveCommission(level string) {
	if commissionsTotal != nil {
		commissionsTotal.WithLabelValues(level).Inc()
	}
}

func ObserveUnitDisabled() {
	if unitsDisabled != nil {
		unitsDisabled.Inc()
	}
}

func ObserveRateRefresh(result string) {
	if rateRefreshTotal != nil {
		rateRefreshTotal.WithLabelValues(result).Inc()
	}
}
