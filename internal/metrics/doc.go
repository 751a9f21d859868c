// Package metrics records document processing metrics.
//
// Components receive a Recorder and call it unconditionally. NoopRecorder is
// the default; PrometheusRecorder keeps its own registry, which the CLI
// writes to a node_exporter textfile at the end of a run:
//
//	rec := metrics.NewPrometheusRecorder(nil)
//	observe := func(e pdfbook.StageEvent) {
//	    rec.ObserveStageDuration(string(e.Stage), e.Duration)
//	    rec.IncStageResult(string(e.Stage), metrics.ResultSuccess)
//	}
//	proc := pdfbook.NewProcessor(pdfbook.WithStageObserver(observe))
//	// ...
//	_ = rec.WriteTextfile("/var/lib/node_exporter/pdfbook.prom")
package metrics
