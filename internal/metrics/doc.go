// Package metrics provides observability hooks for build, stage and render
// instrumentation.
//
// Components receive a Recorder by injection and default to NoopRecorder, so
// callers never nil-check before recording:
//
//	runner := build.NewRunner(cfg).SetRecorder(metrics.NewPrometheusRecorder(reg))
//
// When metrics are enabled, the daemon serves the backing registry over
// HTTPHandler.
package metrics
