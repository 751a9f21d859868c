package main

import (
	"time"

	pdfbook "github.com/alnah/go-pdfbook"
	"github.com/alnah/go-pdfbook/internal/metrics"
)

// stageObserver forwards pipeline stage events to rec.
func stageObserver(rec metrics.Recorder) pdfbook.StageObserver {
	return func(e pdfbook.StageEvent) {
		stage := string(e.Stage)
		rec.ObserveStageDuration(stage, e.Duration)
		rec.IncStageResult(stage, resultLabel(e.Err, e.Skipped))
	}
}

// recordDocument reports the outcome of one document.
func recordDocument(rec metrics.Recorder, r JobResult) {
	rec.ObserveDocumentDuration(r.Duration)
	rec.IncDocumentOutcome(resultLabel(r.Err, false))
	if r.Err == nil && r.Result != nil {
		rec.AddOutputBytes(r.Result.Size)
	}
}

func resultLabel(err error, skipped bool) metrics.ResultLabel {
	switch {
	case err != nil && pdfbook.IsCanceled(err):
		return metrics.ResultCanceled
	case err != nil:
		return metrics.ResultFailed
	case skipped:
		return metrics.ResultSkipped
	default:
		return metrics.ResultSuccess
	}
}

// metricsSink owns the recorder of one run and where it is written.
type metricsSink struct {
	rec  metrics.Recorder
	prom *metrics.PrometheusRecorder
	file string
}

// newMetricsSink returns a Prometheus-backed sink when file is set and a
// no-op sink otherwise.
func newMetricsSink(file string) *metricsSink {
	if file == "" {
		return &metricsSink{rec: metrics.NoopRecorder{}}
	}
	prom := metrics.NewPrometheusRecorder(nil)
	return &metricsSink{rec: prom, prom: prom, file: file}
}

// flush writes the textfile, if any.
func (s *metricsSink) flush() error {
	if s.prom == nil {
		return nil
	}
	return s.prom.WriteTextfile(s.file)
}

// since measures elapsed time on the injected clock.
func since(now func() time.Time, start time.Time) time.Duration {
	return now().Sub(start)
}
