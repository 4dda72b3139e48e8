// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	io_prometheus_client "github.com/prometheus/client_model/go"
)

// histogramCount reads the sample count of one histogram series.
func histogramCount(t *testing.T, vec *prometheus.HistogramVec, labels ...string) uint64 {
	t.Helper()
	obs, err := vec.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("GetMetricWithLabelValues: %v", err)
	}
	var m io_prometheus_client.Metric
	if err := obs.(prometheus.Metric).Write(&m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestRecordAPIRequest(t *testing.T) {
	tests := []struct {
		name     string
		resource string
		method   string
		status   int
		want     string
	}{
		{"ok", "points", "GET", 200, "200"},
		{"server error", "routes", "POST", 500, "500"},
		{"no response", "vehicles", "PUT", 0, "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := APIRequestsTotal.WithLabelValues(tt.resource, tt.method, tt.want)
			before := testutil.ToFloat64(counter)
			samples := histogramCount(t, APIRequestDuration, tt.resource, tt.method)
			RecordAPIRequest(tt.resource, tt.method, tt.status, 15*time.Millisecond)
			if got := testutil.ToFloat64(counter) - before; got != 1 {
				t.Errorf("counter delta = %v, want 1", got)
			}
			if got := histogramCount(t, APIRequestDuration, tt.resource, tt.method) - samples; got != 1 {
				t.Errorf("latency samples delta = %d, want 1", got)
			}
		})
	}
}

func TestRecordStoreError(t *testing.T) {
	c := StoreActionErrors.WithLabelValues("tournees", "add")
	before := testutil.ToFloat64(c)
	RecordStoreError("tournees", "add")
	RecordStoreError("tournees", "add")
	if got := testutil.ToFloat64(c) - before; got != 2 {
		t.Errorf("delta = %v, want 2", got)
	}
}

func TestSetEntityCount(t *testing.T) {
	SetEntityCount("points", 12)
	if got := testutil.ToFloat64(StoreEntities.WithLabelValues("points")); got != 12 {
		t.Errorf("gauge = %v, want 12", got)
	}
	SetEntityCount("points", 3)
	if got := testutil.ToFloat64(StoreEntities.WithLabelValues("points")); got != 3 {
		t.Errorf("gauge = %v, want 3", got)
	}
}

func TestTrackActiveRequest_RequestLifecycle(t *testing.T) {
	before := testutil.ToFloat64(GatewayActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(GatewayActiveRequests); got != before+1 {
		t.Errorf("after inc = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(GatewayActiveRequests); got != before {
		t.Errorf("after dec = %v, want %v", got, before)
	}
}

func TestRecordEventPublish(t *testing.T) {
	ok := EventsPublished.WithLabelValues("channel")
	failed := EventsPublishErrors.WithLabelValues("channel")
	okBefore, failedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	RecordEventPublish("channel", nil)
	RecordEventPublish("channel", errors.New("closed"))

	if testutil.ToFloat64(ok)-okBefore != 1 || testutil.ToFloat64(failed)-failedBefore != 1 {
		t.Error("expected one success and one failure")
	}
}

func TestRecordAuthzDecision(t *testing.T) {
	allow := AuthzDecisions.WithLabelValues("SUPERVISEUR", "allow")
	deny := AuthzDecisions.WithLabelValues("SUPERVISEUR", "deny")
	beforeAllow, beforeDeny := testutil.ToFloat64(allow), testutil.ToFloat64(deny)

	RecordAuthzDecision("SUPERVISEUR", true)
	RecordAuthzDecision("SUPERVISEUR", false)
	RecordAuthzDecision("SUPERVISEUR", false)

	if got := testutil.ToFloat64(allow) - beforeAllow; got != 1 {
		t.Errorf("allow delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(deny) - beforeDeny; got != 2 {
		t.Errorf("deny delta = %v, want 2", got)
	}
}

func TestConcurrentMetricRecording(t *testing.T) {
	c := GatewayRequestsTotal.WithLabelValues("GET", "/api/v1/points", "200")
	before := testutil.ToFloat64(c)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			RecordGatewayRequest("GET", "/api/v1/points", "200", time.Millisecond)
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(c) - before; got != 50 {
		t.Errorf("delta = %v, want 50", got)
	}
}

func TestMetricsRegistration(t *testing.T) {
	collectors := map[string]prometheus.Collector{
		"APIRequestsTotal":          APIRequestsTotal,
		"APIRequestDuration":        APIRequestDuration,
		"StoreActionErrors":         StoreActionErrors,
		"StoreEntities":             StoreEntities,
		"CircuitBreakerState":       CircuitBreakerState,
		"CircuitBreakerTransitions": CircuitBreakerTransitions,
		"WebSocketClients":          WebSocketClients,
		"EventsForwarded":           EventsForwarded,
		"AuthFailures":              AuthFailures,
		"AuthzDecisions":            AuthzDecisions,
	}
	for name, c := range collectors {
		if c == nil {
			t.Errorf("%s is nil", name)
		}
	}
}
