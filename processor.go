package pdfbook

import (
	"context"
	"errors"
	"fmt"
)

// Processor runs the whole post-processing pipeline on rendered PDFs.
// Create with NewProcessor and call Process once per document.
//
// A Processor only holds immutable configuration and is safe for
// concurrent use; each Process call works on its own document.
type Processor struct {
	cfg config
}

// NewProcessor creates a Processor.
// Use options to customize behavior (e.g., WithProducer, WithPressReady, WithLogger).
func NewProcessor(opts ...Option) *Processor {
	return &Processor{cfg: newConfig(opts)}
}

// Process loads input.PDF, applies metadata, outline and cover in that
// order, and writes the result to input.OutputPath. Nothing is written when
// any stage fails.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (p *Processor) Process(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.PressReady && p.cfg.pressReady == nil {
		return nil, ErrNoPressReadyTransform
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	log := p.cfg.logger.With("output", input.OutputPath)
	start := p.cfg.now()
	res := &Result{}

	var doc *Document
	err = p.stage(StageLoad, func() (bool, error) {
		doc, err = loadDocument(input.PDF, p.cfg)
		return false, err
	})
	if err != nil {
		return nil, fmt.Errorf("loading PDF: %w", err)
	}
	log.Debug("loaded", "version", doc.Version(), "bytes", len(input.PDF))

	err = p.stage(StageMetadata, func() (bool, error) {
		return false, doc.ApplyMetadata(ctx, input.Metadata)
	})
	if err != nil {
		return nil, err
	}
	log.Debug("metadata applied")

	err = p.stage(StageOutline, func() (bool, error) {
		n, err := doc.ApplyOutline(ctx, input.TOC)
		res.OutlineItems = n
		return n == 0, err
	})
	if err != nil {
		return nil, err
	}
	log.Debug("outline applied", "items", res.OutlineItems)

	err = p.stage(StageCover, func() (bool, error) {
		ok, err := doc.ApplyCover(ctx, input.Cover, input.ContentRoot)
		res.CoverInserted = ok
		return !ok, err
	})
	if err != nil {
		return nil, err
	}
	if res.CoverInserted {
		log.Debug("cover inserted")
	} else if input.Cover != nil {
		log.Debug("cover skipped", "src", input.Cover.Src)
	}

	res.Pages, err = doc.PageCount()
	if err != nil {
		return nil, fmt.Errorf("counting pages: %w", err)
	}

	err = p.stage(StageExport, func() (bool, error) {
		n, err := doc.Save(ctx, input.OutputPath, input.PressReady)
		res.Size = n
		return false, err
	})
	if err != nil {
		return nil, err
	}

	res.Duration = p.cfg.now().Sub(start)
	log.Info("saved", "pages", res.Pages, "bytes", res.Size, "pressReady", input.PressReady, "duration", res.Duration)
	return res, nil
}

// stage times fn and reports it to the observer.
func (p *Processor) stage(s Stage, fn func() (skipped bool, err error)) error {
	start := p.cfg.now()
	skipped, err := fn()
	if p.cfg.observer != nil {
		p.cfg.observer(StageEvent{
			Stage:    s,
			Duration: p.cfg.now().Sub(start),
			Skipped:  skipped && err == nil,
			Err:      err,
		})
	}
	return err
}

// validateInput checks that required fields are present and valid.
//
// This is a TRUST BOUNDARY for direct library users who build Input manually.
// CLI users have their manifest validated earlier, at load time.
func validateInput(input Input) error {
	if len(input.PDF) == 0 {
		return ErrEmptyPDF
	}
	if input.OutputPath == "" {
		return ErrEmptyOutputPath
	}
	if err := validateTOC(input.TOC); err != nil {
		return err
	}
	return nil
}

// IsCanceled reports whether err comes from context cancellation or
// deadline expiry.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
