// Package metrics records per-run observations of the preview lifecycle.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder. When a Pushgateway is configured the CLI wires a
// PrometheusRecorder and pushes its registry once the run finishes, since a
// single invocation lives too briefly to be scraped.
package metrics
