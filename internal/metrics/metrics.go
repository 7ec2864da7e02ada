package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "faculty_allocation"

type Metrics struct {
	// 按最终状态统计的分配任务数，status 为 succeeded / failed
	RunsTotal *prometheus.CounterVec
	// 分配任务从开始运行到结束的耗时
	RunDurationSeconds prometheus.Histogram
	// 最近一次成功的分配任务的最优适应度
	BestFitness prometheus.Gauge
	// 提交分配结果的行数，result 为 committed / rejected
	CommitsTotal *prometheus.CounterVec
	// HTTP 请求数
	HTTPRequestsTotal *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total allocation runs by final status",
		}, []string{"status"}),
		RunDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Allocation run duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 14), // 50ms 到约 7 分钟
		}),
		BestFitness: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "best_fitness",
			Help:      "Best fitness of the latest succeeded allocation run",
		}),
		CommitsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commits_total",
			Help:      "Total committed proposal rows by result",
		}, []string{"result"}),
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method and status code",
		}, []string{"method", "code"}),
	}
}

func (m *Metrics) RecordRunSucceeded(d time.Duration, bestFitness float64) {
	m.RunsTotal.WithLabelValues("succeeded").Inc()
	m.RunDurationSeconds.Observe(d.Seconds())
	m.BestFitness.Set(bestFitness)
}

func (m *Metrics) RecordRunFailed(d time.Duration) {
	m.RunsTotal.WithLabelValues("failed").Inc()
	m.RunDurationSeconds.Observe(d.Seconds())
}

func (m *Metrics) RecordCommit(committed bool) {
	if committed {
		m.CommitsTotal.WithLabelValues("committed").Inc()
		return
	}
	m.CommitsTotal.WithLabelValues("rejected").Inc()
}

func (m *Metrics) RecordHTTPRequest(method string, code int) {
	m.HTTPRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
}
