package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration  *prom.HistogramVec
	runDuration    prom.Histogram
	runOutcome     *prom.CounterVec
	pagesWritten   prom.Counter
	diagnostics    *prom.CounterVec
	sourceResolves *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "modelsite",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual run stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "modelsite",
			Name:      "run_duration_seconds",
			Help:      "Total generation run duration",
			Buckets:   prom.DefBuckets,
		}),
		runOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "modelsite",
			Name:      "run_outcomes_total",
			Help:      "Run outcomes by final status",
		}, []string{"outcome"}),
		pagesWritten: prom.NewCounter(prom.CounterOpts{
			Namespace: "modelsite",
			Name:      "pages_written_total",
			Help:      "HTML pages written to the output directory",
		}),
		diagnostics: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "modelsite",
			Name:      "diagnostics_total",
			Help:      "Diagnostic entries reported, by status",
		}, []string{"status"}),
		sourceResolves: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "modelsite",
			Name:      "source_resolves_total",
			Help:      "Source marker resolutions, by result",
		}, []string{"result"}),
	}
	reg.MustRegister(pr.stageDuration, pr.runDuration, pr.runOutcome, pr.pagesWritten, pr.diagnostics, pr.sourceResolves)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(outcome RunOutcome) {
	if p == nil {
		return
	}
	p.runOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncPagesWritten(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.pagesWritten.Add(float64(n))
}

func (p *PrometheusRecorder) IncDiagnostics(status string) {
	if p == nil {
		return
	}
	p.diagnostics.WithLabelValues(status).Inc()
}

func (p *PrometheusRecorder) IncSourceResolve(result ResolveResult) {
	if p == nil {
		return
	}
	p.sourceResolves.WithLabelValues(string(result)).Inc()
}
