// Package metrics provides observability hooks for site generation runs.
//
// Components receive a Recorder through dependency injection. NoopRecorder is
// the default so callers never nil-check; PrometheusRecorder is activated when
// a metrics textfile is configured:
//
//	reg := prometheus.NewRegistry()
//	recorder := metrics.NewPrometheusRecorder(reg)
//	// ... run ...
//	_ = prometheus.WriteToTextfile(path, reg)
package metrics
