package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-pdfbook/internal/pdf/pdftest"
)

// syncBuffer is a bytes.Buffer safe for the concurrent writes of workers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// testEnv returns an Environment with captured output and vars as the
// only environment variables.
func testEnv(vars map[string]string) (*Environment, *syncBuffer, *syncBuffer) {
	stdout, stderr := &syncBuffer{}, &syncBuffer{}
	env := &Environment{
		Now:    func() time.Time { return time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC) },
		Stdout: stdout,
		Stderr: stderr,
		Getenv: func(k string) string { return vars[k] },
		Environ: func() []string {
			out := make([]string, 0, len(vars))
			for k, v := range vars {
				out = append(out, k+"="+v)
			}
			return out
		},
		LookPath: func(string) (string, error) { return "", errors.New("not found") },
	}
	return env, stdout, stderr
}

// writeBook writes a rendered PDF and a manifest referencing it into dir
// and returns the manifest path. extra is appended to the manifest.
func writeBook(t *testing.T, dir, name, extra string) string {
	t.Helper()

	stem := name
	if err := os.WriteFile(filepath.Join(dir, stem+".pdf"), pdftest.New(pdftest.WithPages(pdftest.Letter, pdftest.Letter)), 0o600); err != nil {
		t.Fatal(err)
	}
	manifest := "input: " + stem + ".pdf\n" +
		"metadata:\n  title: " + stem + "\n  creator: [Ada]\n" +
		"toc:\n  - {id: ch1, title: Chapter 1}\n  - {id: ch2, title: Chapter 2}\n" + extra
	path := filepath.Join(dir, stem+".pdfbook.yaml")
	if err := os.WriteFile(path, []byte(manifest), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}
