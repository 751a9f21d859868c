package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoManifest is returned when no manifest is given or found.
var ErrNoManifest = errors.New("no manifest specified")

// manifestNames are the file names recognized when scanning a directory.
// Files ending in ".pdfbook.yaml" (or .yml, .json) also match.
var manifestNames = []string{"pdfbook.yaml", "pdfbook.yml", "pdfbook.json"}

// isManifestName reports whether a file name looks like a book manifest.
func isManifestName(name string) bool {
	for _, n := range manifestNames {
		if name == n || strings.HasSuffix(name, "."+n) {
			return true
		}
	}
	return false
}

// discoverManifests expands the arguments into manifest paths. Files are
// taken as given; directories are walked for manifest names. With no
// arguments defaultDir is walked instead.
func discoverManifests(args []string, defaultDir string) ([]string, error) {
	if len(args) == 0 {
		if defaultDir == "" {
			return nil, ErrNoManifest
		}
		args = []string{defaultDir}
	}

	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(arg)
			continue
		}

		var found []string
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("scanning %s: %w", path, err)
			}
			if !d.IsDir() && isManifestName(d.Name()) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		sort.Strings(found)
		for _, p := range found {
			add(p)
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no %s found in %s", ErrNoManifest, strings.Join(manifestNames, ", "), strings.Join(args, ", "))
	}
	return out, nil
}
