package pdfbook

import (
	"log/slog"
	"time"

	"github.com/alnah/go-pdfbook/internal/pipeline"
)

// Stage names a processing step reported to a StageObserver.
type Stage string

// Processing stages, in execution order.
const (
	StageLoad     Stage = "load"
	StageMetadata Stage = "metadata"
	StageOutline  Stage = "outline"
	StageCover    Stage = "cover"
	StageExport   Stage = "export"
)

// StageEvent describes one finished stage.
type StageEvent struct {
	Stage    Stage
	Duration time.Duration
	Skipped  bool  // The stage had nothing to do
	Err      error // Non-nil when the stage failed
}

// StageObserver receives an event after each stage. It is called from the
// goroutine running Process and must be safe for concurrent use when the
// Processor is shared.
type StageObserver func(StageEvent)

// Option configures a Processor or Document.
type Option func(*config)

// config holds the settings shared by Processor and Document.
type config struct {
	producer    string
	logger      *slog.Logger
	pressReady  PressReadyTransform
	strictCover bool
	strictDates bool
	location    *time.Location
	observer    StageObserver
	now         func() time.Time

	// Stage implementations; nil selects the defaults. Tests replace them.
	metadataInjector pipeline.MetadataInjector
	outlineInjector  pipeline.OutlineInjector
	coverInjector    pipeline.CoverInjector
	exporter         pipeline.Exporter
}

func defaultConfig() config {
	return config{
		producer: DefaultProducer,
		logger:   slog.New(slog.DiscardHandler),
		now:      time.Now,
	}
}

func newConfig(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithProducer sets the Producer written to the information dictionary.
// Panics if producer is empty (programmer error).
func WithProducer(producer string) Option {
	if producer == "" {
		panic("pdfbook: WithProducer requires a non-empty producer")
	}
	return func(c *config) {
		c.producer = producer
	}
}

// WithLogger sets the structured logger. A nil logger discards output.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l == nil {
			l = slog.New(slog.DiscardHandler)
		}
		c.logger = l
	}
}

// WithPressReady sets the transform used when Input.PressReady is true.
func WithPressReady(t PressReadyTransform) Option {
	return func(c *config) {
		c.pressReady = t
	}
}

// WithStrictCover makes an unsupported cover media type an error
// (ErrUnsupportedMediaType) instead of a skipped cover.
func WithStrictCover() Option {
	return func(c *config) {
		c.strictCover = true
	}
}

// WithStrictDates makes an unparsable creation date an error
// (ErrInvalidCreationDate) instead of an omitted field.
func WithStrictDates() Option {
	return func(c *config) {
		c.strictDates = true
	}
}

// WithLocation sets the zone used for creation dates written without one.
// Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(c *config) {
		c.location = loc
	}
}

// WithStageObserver registers a callback invoked after every stage.
func WithStageObserver(o StageObserver) Option {
	return func(c *config) {
		c.observer = o
	}
}

// WithClock replaces time.Now for stage and result durations.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}
