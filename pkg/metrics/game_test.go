package metrics

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestGameMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewGameMetrics(reg)

	metrics.ObserveOpen("legendary", 5000)
	metrics.ObserveOpen("legendary", 100)
	metrics.IncOpenFailure("INSUFFICIENT_FUNDS")
	metrics.AddSold("sell_all", 3)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "cases_opened_total", "rarity", "legendary"); err != nil {
		t.Fatalf("fetch opens: %v", err)
	} else if got != 2 {
		t.Fatalf("expected opens=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "case_open_failures_total", "code", "INSUFFICIENT_FUNDS"); err != nil {
		t.Fatalf("fetch failures: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failures=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "items_sold_total", "operation", "sell_all"); err != nil {
		t.Fatalf("fetch sales: %v", err)
	} else if got != 3 {
		t.Fatalf("expected sold=3, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "drop_payout_cents", "rarity", "legendary"); err != nil {
		t.Fatalf("fetch payout: %v", err)
	} else if got != 5100 {
		t.Fatalf("expected payout sum 5100, got %f", got)
	}
}

func TestGameMetricsNilSafe(t *testing.T) {
	var metrics *GameMetrics
	metrics.ObserveOpen("common", 10)
	metrics.IncOpenFailure("NOT_FOUND")
	metrics.AddSold("sell", 1)

	unregistered := NewGameMetrics(nil)
	unregistered.ObserveOpen("common", 10)
	unregistered.IncOpenFailure("NOT_FOUND")
	unregistered.AddSold("sell", 1)
}

func TestGameMetricsNormalizesEmptyLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewGameMetrics(reg)
	metrics.IncOpenFailure("")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "case_open_failures_total", "code", "unknown"); err != nil {
		t.Fatalf("fetch failures: %v", err)
	} else if got != 1 {
		t.Fatalf("expected unknown=1, got %f", got)
	}
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
