package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	pdfbook "github.com/alnah/go-pdfbook"
	"github.com/alnah/go-pdfbook/internal/manifest"
	"github.com/alnah/go-pdfbook/internal/metrics"
)

// fakeProcessor records inputs and returns a fixed result or error.
type fakeProcessor struct {
	mu     sync.Mutex
	inputs []pdfbook.Input
	err    error
}

func (f *fakeProcessor) Process(_ context.Context, in pdfbook.Input) (*pdfbook.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return &pdfbook.Result{Pages: 2, OutlineItems: 2, Size: 10}, nil
}

func testParams() *jobParams {
	return &jobParams{
		now: func() time.Time { return time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC) },
		rec: metrics.NoopRecorder{},
	}
}

func TestRunBatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a", "b", "c"} {
		paths = append(paths, writeBook(t, dir, name, ""))
	}

	proc := &fakeProcessor{}
	rec := &fakeRecorder{}
	p := testParams()
	p.rec = rec

	results := runBatch(context.Background(), proc, paths, 2, p)
	if len(results) != 3 {
		t.Fatalf("runBatch() returned %d results, want 3", len(results))
	}
	for i, r := range results {
		if r.Err != nil {
			t.Errorf("results[%d] unexpected error: %v", i, r.Err)
		}
		if r.Manifest != paths[i] {
			t.Errorf("results[%d].Manifest = %s, want %s (order kept)", i, r.Manifest, paths[i])
		}
	}
	if len(proc.inputs) != 3 {
		t.Errorf("processor called %d times, want 3", len(proc.inputs))
	}
	if rec.workers != 2 {
		t.Errorf("workers gauge = %d, want 2", rec.workers)
	}
	if len(rec.outcomes) != 3 || rec.bytes != 30 {
		t.Errorf("outcomes = %v, bytes = %d", rec.outcomes, rec.bytes)
	}
}

func TestRunBatch_Empty(t *testing.T) {
	t.Parallel()

	if got := runBatch(context.Background(), &fakeProcessor{}, nil, 2, testParams()); got != nil {
		t.Errorf("runBatch(nil) = %v, want nil", got)
	}
}

func TestRunBatch_Canceled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	paths := []string{writeBook(t, dir, "a", ""), writeBook(t, dir, "b", "")}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	proc := &fakeProcessor{}
	results := runBatch(ctx, proc, paths, 1, testParams())
	for i, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("results[%d].Err = %v, want context.Canceled", i, r.Err)
		}
	}
	if len(proc.inputs) != 0 {
		t.Errorf("processor called %d times after cancel", len(proc.inputs))
	}
}

func TestProcessJob(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeBook(t, dir, "novel", "pressReady: false\n")

	r := processJob(context.Background(), pdfbook.NewProcessor(), path, testParams())
	if r.Err != nil {
		t.Fatalf("processJob() unexpected error: %v", r.Err)
	}
	want := filepath.Join(dir, "novel.final.pdf")
	if r.OutputPath != want {
		t.Errorf("OutputPath = %s, want %s", r.OutputPath, want)
	}
	if r.Result.Pages != 2 || r.Result.OutlineItems != 2 {
		t.Errorf("Result = %+v", r.Result)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("output missing: %v", err)
	}
}

func TestProcessJob_OutputDir(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		extra string
		want  func(dir, outDir string) string
	}{
		{
			name:  "defaulted output moves to output dir",
			extra: "",
			want:  func(_, outDir string) string { return filepath.Join(outDir, "book.final.pdf") },
		},
		{
			name:  "explicit output is kept",
			extra: "output: custom.pdf\n",
			want:  func(dir, _ string) string { return filepath.Join(dir, "custom.pdf") },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			outDir := filepath.Join(t.TempDir(), "nested", "dist")
			path := writeBook(t, dir, "book", tt.extra)

			p := testParams()
			p.outputDir = outDir
			proc := &fakeProcessor{}
			r := processJob(context.Background(), proc, path, p)
			if r.Err != nil {
				t.Fatalf("processJob() unexpected error: %v", r.Err)
			}
			if want := tt.want(dir, outDir); r.OutputPath != want {
				t.Errorf("OutputPath = %s, want %s", r.OutputPath, want)
			}
			if _, err := os.Stat(filepath.Dir(r.OutputPath)); err != nil {
				t.Errorf("output directory not created: %v", err)
			}
		})
	}
}

func TestProcessJob_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	missingInput := filepath.Join(dir, "orphan.pdfbook.yaml")
	if err := os.WriteFile(missingInput, []byte("input: gone.pdf\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	blocked := writeBook(t, dir, "blocked", "output: file.pdf/out.pdf\n")
	if err := os.WriteFile(filepath.Join(dir, "file.pdf"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	good := writeBook(t, dir, "good", "")

	tests := []struct {
		name    string
		path    string
		proc    DocumentProcessor
		wantErr error
	}{
		{"missing manifest", filepath.Join(dir, "none.yaml"), &fakeProcessor{}, manifest.ErrManifestNotFound},
		{"missing input", missingInput, &fakeProcessor{}, ErrReadInput},
		{"output dir blocked", blocked, &fakeProcessor{}, ErrCreateOutputDir},
		{"processor error", good, &fakeProcessor{err: pdfbook.ErrMalformedDocument}, pdfbook.ErrMalformedDocument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := processJob(context.Background(), tt.proc, tt.path, testParams())
			if !errors.Is(r.Err, tt.wantErr) {
				t.Errorf("processJob() error = %v, want %v", r.Err, tt.wantErr)
			}
			if r.Manifest != tt.path {
				t.Errorf("Manifest = %s, want %s", r.Manifest, tt.path)
			}
		})
	}
}

func TestResolvePressReady(t *testing.T) {
	t.Parallel()

	yes, no := true, false
	tests := []struct {
		name     string
		flag     *bool
		manifest *bool
		config   bool
		want     bool
	}{
		{"config only", nil, nil, true, true},
		{"manifest over config", nil, &no, true, false},
		{"flag over manifest", &yes, &no, false, true},
		{"flag disables", &no, &yes, true, false},
		{"nothing set", nil, nil, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := &jobParams{pressReady: tt.flag, cfgPress: tt.config}
			if got := p.resolvePressReady(&manifest.Manifest{PressReady: tt.manifest}); got != tt.want {
				t.Errorf("resolvePressReady() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestManifestInput(t *testing.T) {
	t.Parallel()

	m := &manifest.Manifest{
		Output:      "/out/book.pdf",
		ContentRoot: "/src",
		Metadata: manifest.Metadata{
			Title:       manifest.Terms{{Value: "Book"}},
			Contributor: manifest.Terms{{Value: "Shop", Qualifiers: map[string]string{"role": "bkp"}}},
		},
		TOC: []manifest.TOCNode{
			{ID: "a", Title: "A", Children: []manifest.TOCNode{{ID: "a1", Title: "A1"}}},
		},
		Cover: &manifest.Cover{Src: "cover.png", MediaType: "image/png"},
	}

	in := manifestInput(m, []byte("%PDF"), true)
	if in.OutputPath != "/out/book.pdf" || in.ContentRoot != "/src" || !in.PressReady {
		t.Errorf("paths/flags = %+v", in)
	}
	if in.Metadata.Title[0].Value != "Book" || in.Metadata.Contributor[0].Role() != "bkp" {
		t.Errorf("Metadata = %+v", in.Metadata)
	}
	if in.Metadata.Creator != nil {
		t.Errorf("Creator = %+v, want nil", in.Metadata.Creator)
	}
	if len(in.TOC) != 1 || in.TOC[0].Children[0].ID != "a1" {
		t.Errorf("TOC = %+v", in.TOC)
	}
	if in.Cover == nil || in.Cover.Src != "cover.png" {
		t.Errorf("Cover = %+v", in.Cover)
	}

	if got := manifestInput(&manifest.Manifest{}, nil, false); got.Cover != nil || got.TOC != nil {
		t.Errorf("empty manifest gave cover %+v, toc %+v", got.Cover, got.TOC)
	}
}

func TestPrintResults(t *testing.T) {
	t.Parallel()

	ok := JobResult{Manifest: "a.yaml", OutputPath: "a.pdf", Result: &pdfbook.Result{Pages: 3, OutlineItems: 2}, Duration: time.Second}
	bad := JobResult{Manifest: "b.yaml", Err: errors.New("broken")}
	hint := func(error) string { return " [hint]" }

	tests := []struct {
		name       string
		results    []JobResult
		quiet      bool
		verbose    bool
		wantOut    []string
		notOut     []string
		wantFailed int
	}{
		{
			name:    "single success",
			results: []JobResult{ok},
			wantOut: []string{"Created a.pdf"},
			notOut:  []string{"succeeded"},
		},
		{
			name:    "verbose",
			results: []JobResult{ok},
			verbose: true,
			wantOut: []string{"a.yaml -> a.pdf (3 pages, 2 bookmarks, cover: false, 1s)"},
		},
		{
			name:       "summary",
			results:    []JobResult{ok, bad},
			wantOut:    []string{"1 succeeded, 1 failed"},
			wantFailed: 1,
		},
		{
			name:       "quiet",
			results:    []JobResult{ok, bad},
			quiet:      true,
			notOut:     []string{"Created", "succeeded"},
			wantFailed: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv(nil)
			if got := printResults(tt.results, tt.quiet, tt.verbose, env, hint); got != tt.wantFailed {
				t.Errorf("printResults() = %d, want %d", got, tt.wantFailed)
			}
			for _, s := range tt.wantOut {
				if !strings.Contains(stdout.String(), s) {
					t.Errorf("stdout missing %q:\n%s", s, stdout.String())
				}
			}
			for _, s := range tt.notOut {
				if strings.Contains(stdout.String(), s) {
					t.Errorf("stdout should not contain %q:\n%s", s, stdout.String())
				}
			}
			if tt.wantFailed > 0 && !strings.Contains(stderr.String(), "FAILED b.yaml: broken [hint]") {
				t.Errorf("stderr = %q", stderr.String())
			}
		})
	}
}

func TestFirstError(t *testing.T) {
	t.Parallel()

	errA, errB := errors.New("a"), errors.New("b")
	if got := firstError([]JobResult{{}, {Err: errA}, {Err: errB}}); got != errA {
		t.Errorf("firstError() = %v, want a", got)
	}
	if got := firstError([]JobResult{{}}); got != nil {
		t.Errorf("firstError() = %v, want nil", got)
	}
}
