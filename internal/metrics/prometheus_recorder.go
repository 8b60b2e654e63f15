package metrics

import (
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry       *prom.Registry
	requests       *prom.CounterVec
	cacheResults   *prom.CounterVec
	forks          *prom.CounterVec
	quotaRemaining prom.Gauge
	quotaLimit     prom.Gauge
	runDuration    *prom.HistogramVec
}

// NewPrometheusRecorder constructs and registers the forkdiff metrics on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		registry: reg,
		requests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "forkdiff",
			Name:      "api_requests_total",
			Help:      "Upstream API requests by endpoint and outcome",
		}, []string{"endpoint", "result"}),
		cacheResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "forkdiff",
			Name:      "response_cache_results_total",
			Help:      "Response cache lookups by outcome",
		}, []string{"result"}),
		forks: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "forkdiff",
			Name:      "forks_total",
			Help:      "Forks handled by the engine by outcome",
		}, []string{"outcome"}),
		quotaRemaining: prom.NewGauge(prom.GaugeOpts{
			Namespace: "forkdiff",
			Name:      "rate_limit_remaining",
			Help:      "Last observed remaining API quota",
		}),
		quotaLimit: prom.NewGauge(prom.GaugeOpts{
			Namespace: "forkdiff",
			Name:      "rate_limit_limit",
			Help:      "Last observed API quota limit",
		}),
		runDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "forkdiff",
			Name:      "run_duration_seconds",
			Help:      "Duration of divergence runs",
			Buckets:   prom.ExponentialBuckets(0.5, 2, 10),
		}, []string{"cancelled"}),
	}
	reg.MustRegister(pr.requests, pr.cacheResults, pr.forks, pr.quotaRemaining, pr.quotaLimit, pr.runDuration)
	return pr
}

// Registry returns the registry the metrics were registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.registry
}

// WriteTextfile dumps the current metrics in the node_exporter textfile format.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	return prom.WriteToTextfile(path, p.registry)
}

func (p *PrometheusRecorder) IncRequest(endpoint string, result RequestResult) {
	p.requests.WithLabelValues(endpoint, string(result)).Inc()
}

func (p *PrometheusRecorder) IncCacheResult(result CacheResult) {
	p.cacheResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncFork(outcome ForkOutcome) {
	p.forks.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetQuota(remaining, limit int) {
	p.quotaRemaining.Set(float64(remaining))
	p.quotaLimit.Set(float64(limit))
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration, cancelled bool) {
	p.runDuration.WithLabelValues(strconv.FormatBool(cancelled)).Observe(d.Seconds())
}
