package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestRegisterMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewRegisterMetrics(reg)

	metrics.SessionOpened()
	metrics.SessionOpened()
	metrics.SessionClosed()
	metrics.ObserveCheckout("express", 250*time.Millisecond, true)
	metrics.ObserveCheckout("customer", 100*time.Millisecond, false)
	metrics.IncVerification("existing")
	metrics.IncPricingCompute()
	metrics.IncPricingCompute()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "checkout_total", "mode", "express"); err != nil {
		t.Fatalf("fetch checkout total: %v", err)
	} else if got != 1 {
		t.Fatalf("expected express checkout total 1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "customer_verifications_total", "resolution", "existing"); err != nil {
		t.Fatalf("fetch verifications: %v", err)
	} else if got != 1 {
		t.Fatalf("expected verifications=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "checkout_duration_seconds", "mode", "express"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}

	mf := findMetricFamily(mfs, "pricing_recomputes_total")
	if mf == nil {
		t.Fatalf("pricing recompute counter missing")
	}
	if got := mf.GetMetric()[0].GetCounter().GetValue(); got != 2 {
		t.Fatalf("expected 2 pricing recomputes, got %f", got)
	}

	mf = findMetricFamily(mfs, "sessions_active")
	if mf == nil {
		t.Fatalf("session gauge missing")
	}
	if got := mf.GetMetric()[0].GetGauge().GetValue(); got != 1 {
		t.Fatalf("expected 1 active session, got %f", got)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	metrics := NewRegisterMetrics(nil)
	metrics.SessionOpened()
	metrics.SessionClosed()
	metrics.ObserveCheckout("express", time.Second, true)
	metrics.IncVerification("new")
	metrics.IncPricingCompute()
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
