package main

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("input: x.pdf\n"), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestIsManifestName(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"pdfbook.yaml":       true,
		"pdfbook.yml":        true,
		"pdfbook.json":       true,
		"novel.pdfbook.yaml": true,
		"config.yaml":        false,
		"mypdfbook.yaml":     false,
		"pdfbook.yaml.bak":   false,
	}
	for name, want := range tests {
		if got := isManifestName(name); got != want {
			t.Errorf("isManifestName(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestDiscoverManifests(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b", "pdfbook.yaml"))
	touch(t, filepath.Join(dir, "a", "novel.pdfbook.json"))
	touch(t, filepath.Join(dir, "a", "notes.yaml"))
	explicit := filepath.Join(dir, "custom.yaml")
	touch(t, explicit)

	got, err := discoverManifests([]string{explicit, dir, explicit}, "")
	if err != nil {
		t.Fatalf("discoverManifests() unexpected error: %v", err)
	}
	want := []string{
		explicit,
		filepath.Join(dir, "a", "novel.pdfbook.json"),
		filepath.Join(dir, "b", "pdfbook.yaml"),
	}
	if !slices.Equal(got, want) {
		t.Errorf("discoverManifests() = %v, want %v", got, want)
	}
}

func TestDiscoverManifests_DefaultDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, filepath.Join(dir, "pdfbook.yml"))

	got, err := discoverManifests(nil, dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("discoverManifests() = %v, want one manifest", got)
	}
}

func TestDiscoverManifests_Errors(t *testing.T) {
	t.Parallel()

	empty := t.TempDir()
	tests := []struct {
		name    string
		args    []string
		def     string
		wantErr error
	}{
		{"nothing given", nil, "", ErrNoManifest},
		{"empty directory", []string{empty}, "", ErrNoManifest},
		{"missing path", []string{filepath.Join(empty, "nope.yaml")}, "", os.ErrNotExist},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := discoverManifests(tt.args, tt.def); !errors.Is(err, tt.wantErr) {
				t.Errorf("discoverManifests() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
