package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordRun(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordRunSucceeded(2*time.Second, 512.5)
	m.RecordRunSucceeded(time.Second, 600)
	m.RecordRunFailed(time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("succeeded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("failed")))
	assert.Equal(t, 600.0, testutil.ToFloat64(m.BestFitness))
}

func TestMetrics_RecordCommitAndHTTP(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordCommit(true)
	m.RecordCommit(true)
	m.RecordCommit(false)
	m.RecordHTTPRequest(http.MethodGet, http.StatusOK)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CommitsTotal.WithLabelValues("committed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CommitsTotal.WithLabelValues("rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "200")))
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	require.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
