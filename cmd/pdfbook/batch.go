package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	pdfbook "github.com/alnah/go-pdfbook"
	"github.com/alnah/go-pdfbook/internal/manifest"
	"github.com/alnah/go-pdfbook/internal/metrics"
)

// dirPermissions is used for output directories created on demand.
const dirPermissions = 0o750 // rwxr-x---: owner full, group read+execute

// Sentinel errors for batch operations.
var (
	ErrReadInput       = errors.New("failed to read input PDF")
	ErrCreateOutputDir = errors.New("failed to create output directory")
)

// DocumentProcessor is the interface for the post-processing pipeline.
type DocumentProcessor interface {
	Process(ctx context.Context, input pdfbook.Input) (*pdfbook.Result, error)
}

// Compile-time interface implementation check.
var _ DocumentProcessor = (*pdfbook.Processor)(nil)

// JobResult holds the outcome of one manifest.
type JobResult struct {
	Manifest   string
	OutputPath string
	Result     *pdfbook.Result
	Err        error
	Duration   time.Duration
}

// jobParams groups what every job of a run shares.
type jobParams struct {
	overrides  manifest.Options // Input, Output, ContentRoot
	outputDir  string           // config/env output.defaultDir
	pressReady *bool            // from flags; nil defers to manifest, then config
	cfgPress   bool             // config/env default
	now        func() time.Time
	rec        metrics.Recorder
	pressCmd   string // configured press-ready command, for hints
}

// runBatch processes manifests concurrently with at most workers in flight.
// Results keep the order of manifests.
func runBatch(ctx context.Context, proc DocumentProcessor, manifests []string, workers int, p *jobParams) []JobResult {
	if len(manifests) == 0 {
		return nil
	}

	workers = resolveWorkers(workers, len(manifests))
	p.rec.SetWorkers(workers)

	results := make([]JobResult, len(manifests))
	var wg sync.WaitGroup
	jobs := make(chan int, len(manifests))

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = JobResult{Manifest: manifests[idx], Err: ctx.Err()}
				} else {
					results[idx] = processJob(ctx, proc, manifests[idx], p)
				}
				recordDocument(p.rec, results[idx])
			}
		}()
	}

	for i := range manifests {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// processJob loads one manifest and runs the pipeline on its input PDF.
func processJob(ctx context.Context, proc DocumentProcessor, path string, p *jobParams) JobResult {
	start := p.now()
	result := JobResult{Manifest: path}
	fail := func(err error) JobResult {
		result.Err = err
		result.Duration = since(p.now, start)
		return result
	}

	opts := p.overrides
	opts.Now = p.now
	m, err := manifest.Load(path, opts)
	if err != nil {
		return fail(err)
	}
	if m.OutputDefaulted && p.outputDir != "" {
		m.Output = filepath.Join(p.outputDir, filepath.Base(m.Output))
	}
	result.OutputPath = m.Output

	data, err := os.ReadFile(m.Input) // #nosec G304 -- path comes from the manifest
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrReadInput, err))
	}

	if err := os.MkdirAll(filepath.Dir(m.Output), dirPermissions); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrCreateOutputDir, err))
	}

	res, err := proc.Process(ctx, manifestInput(m, data, p.resolvePressReady(m)))
	if err != nil {
		return fail(err)
	}
	result.Result = res
	result.Duration = since(p.now, start)
	return result
}

// resolvePressReady applies the precedence flag > manifest > config.
func (p *jobParams) resolvePressReady(m *manifest.Manifest) bool {
	switch {
	case p.pressReady != nil:
		return *p.pressReady
	case m.PressReady != nil:
		return *m.PressReady
	default:
		return p.cfgPress
	}
}

// manifestInput converts a loaded manifest into pipeline input.
func manifestInput(m *manifest.Manifest, data []byte, pressReady bool) pdfbook.Input {
	in := pdfbook.Input{
		PDF:         data,
		Metadata:    manifestMetadata(m.Metadata),
		TOC:         manifestTOC(m.TOC),
		ContentRoot: m.ContentRoot,
		OutputPath:  m.Output,
		PressReady:  pressReady,
	}
	if m.Cover != nil {
		in.Cover = &pdfbook.Cover{Src: m.Cover.Src, MediaType: m.Cover.MediaType}
	}
	return in
}

func manifestMetadata(md manifest.Metadata) *pdfbook.Metadata {
	return &pdfbook.Metadata{
		Title:       manifestEntries(md.Title),
		Creator:     manifestEntries(md.Creator),
		Description: manifestEntries(md.Description),
		Subject:     manifestEntries(md.Subject),
		Contributor: manifestEntries(md.Contributor),
		Language:    manifestEntries(md.Language),
		Created:     manifestEntries(md.Created),
		Date:        manifestEntries(md.Date),
	}
}

func manifestEntries(terms manifest.Terms) []pdfbook.Entry {
	if len(terms) == 0 {
		return nil
	}
	out := make([]pdfbook.Entry, len(terms))
	for i, t := range terms {
		out[i] = pdfbook.Entry{Value: t.Value, Qualifiers: t.Qualifiers}
	}
	return out
}

func manifestTOC(nodes []manifest.TOCNode) []pdfbook.TOCNode {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]pdfbook.TOCNode, len(nodes))
	for i, n := range nodes {
		out[i] = pdfbook.TOCNode{ID: n.ID, Title: n.Title, Children: manifestTOC(n.Children)}
	}
	return out
}

// ResultSummary holds the count of succeeded and failed documents.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed documents.
func countResults(results []JobResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults outputs job results and returns the number of failures.
// hint may append advice to a failure line.
func printResults(results []JobResult, quiet, verbose bool, env *Environment, hint func(error) string) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.Manifest, r.Err, hint(r.Err))
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%d pages, %d bookmarks, cover: %t, %v)\n",
				r.Manifest, r.OutputPath, r.Result.Pages, r.Result.OutlineItems,
				r.Result.CoverInserted, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}

// firstError returns the first failure, which decides the exit code.
func firstError(results []JobResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}
