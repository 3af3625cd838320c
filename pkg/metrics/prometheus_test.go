package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewWithRegisterer(reg)

	r.RecordUpstream("fills", "2xx")
	r.RecordUpstream("fills", "2xx")
	r.RecordUpstream("fills", "4xx")
	r.RecordError("timeout")
	r.RecordLatency("fills", 0.12)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.upstreamRequests.WithLabelValues("fills", "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.upstreamRequests.WithLabelValues("fills", "4xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("timeout")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.latency))
}

func TestRecorderReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := NewWithRegisterer(reg)
	b := NewWithRegisterer(reg)

	a.RecordError("transport")
	b.RecordError("transport")

	assert.Equal(t, 2.0, testutil.ToFloat64(b.errorsTotal.WithLabelValues("transport")))
}
