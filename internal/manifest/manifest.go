// Package manifest loads the book manifest: the file that names a rendered
// PDF and carries the metadata record, table of contents and cover that were
// extracted from the book's sources.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-pdfbook/internal/dateutil"
	"github.com/alnah/go-pdfbook/internal/fileutil"
	"github.com/alnah/go-pdfbook/internal/yamlutil"
)

// Sentinel errors for manifest loading.
var (
	ErrManifestNotFound = errors.New("manifest not found")
	ErrManifestParse    = errors.New("failed to parse manifest")
	ErrNoInput          = errors.New("manifest has no input PDF")
	ErrInvalidTOC       = errors.New("invalid table of contents")
)

// FinalSuffix is appended to the input stem when no output is given.
const FinalSuffix = ".final.pdf"

// maxTOCDepth bounds TOC nesting.
const maxTOCDepth = 64

// Manifest describes one publication. Paths are absolute after Load.
type Manifest struct {
	Input       string    `yaml:"input"`
	Output      string    `yaml:"output"`
	ContentRoot string    `yaml:"contentRoot"`
	PressReady  *bool     `yaml:"pressReady"` // nil = use config/flags
	Metadata    Metadata  `yaml:"metadata"`
	TOC         []TOCNode `yaml:"toc"`
	Cover       *Cover    `yaml:"cover"`

	// Path is the manifest file itself.
	Path string `yaml:"-"`
	// OutputDefaulted is set when Output was derived from Input.
	OutputDefaulted bool `yaml:"-"`
}

// Metadata is the Dublin Core record, one list of terms per element.
type Metadata struct {
	Title       Terms `yaml:"title"`
	Creator     Terms `yaml:"creator"`
	Description Terms `yaml:"description"`
	Subject     Terms `yaml:"subject"`
	Contributor Terms `yaml:"contributor"`
	Language    Terms `yaml:"language"`
	Created     Terms `yaml:"created"`
	Date        Terms `yaml:"date"`
}

// TOCNode is one table-of-contents entry.
type TOCNode struct {
	ID       string    `yaml:"id"`
	Title    string    `yaml:"title"`
	Children []TOCNode `yaml:"children"`
}

// Cover names the cover image, relative to the content root.
type Cover struct {
	Src       string `yaml:"src"`
	MediaType string `yaml:"mediaType"`
}

// Options tune Load.
type Options struct {
	// Now resolves "auto" dates. Defaults to time.Now.
	Now func() time.Time

	// Overrides replace the manifest's own paths before validation.
	// Relative values are taken relative to the working directory.
	Input       string
	Output      string
	ContentRoot string
}

// Load reads and validates the manifest at path. Relative paths inside it
// are resolved against the manifest's directory; "auto" creation dates are
// resolved to the current date.
func Load(path string, opts Options) (*Manifest, error) {
	var m Manifest
	if err := yamlutil.ReadFile(path, &m); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrManifestNotFound, path)
		}
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return nil, fmt.Errorf("reading manifest: %w", err)
		}
		return nil, fmt.Errorf("%w: %s: %s", ErrManifestParse, path, yamlutil.Describe(err))
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving manifest path: %w", err)
	}
	m.Path = abs

	if err := m.override(opts); err != nil {
		return nil, err
	}

	if opts.Now == nil {
		opts.Now = time.Now
	}
	if err := m.resolve(opts.Now()); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) override(opts Options) error {
	for _, o := range []struct {
		dst *string
		src string
	}{
		{&m.Input, opts.Input},
		{&m.Output, opts.Output},
		{&m.ContentRoot, opts.ContentRoot},
	} {
		if o.src == "" {
			continue
		}
		abs, err := filepath.Abs(o.src)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", o.src, err)
		}
		*o.dst = abs
	}
	return nil
}

// Dir returns the directory holding the manifest.
func (m *Manifest) Dir() string {
	if m.Path == "" {
		return "."
	}
	return filepath.Dir(m.Path)
}

// resolve makes paths absolute and expands "auto" dates.
func (m *Manifest) resolve(now time.Time) error {
	dir := m.Dir()

	if m.Input != "" {
		m.Input = absFrom(dir, m.Input)
	}
	if m.Output == "" && m.Input != "" {
		m.Output = DefaultOutput(m.Input)
		m.OutputDefaulted = true
	} else if m.Output != "" {
		m.Output = absFrom(dir, m.Output)
	}
	if m.ContentRoot == "" {
		m.ContentRoot = dir
	} else {
		m.ContentRoot = absFrom(dir, m.ContentRoot)
	}

	for _, terms := range []Terms{m.Metadata.Created, m.Metadata.Date} {
		for i := range terms {
			v, err := dateutil.ResolveDate(terms[i].Value, now)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrManifestParse, err)
			}
			terms[i].Value = v
		}
	}
	return nil
}

// Validate checks required fields and the TOC tree.
func (m *Manifest) Validate() error {
	if strings.TrimSpace(m.Input) == "" {
		return ErrNoInput
	}
	return validateTOC(m.TOC, "toc", 1)
}

func validateTOC(nodes []TOCNode, path string, depth int) error {
	if depth > maxTOCDepth {
		return fmt.Errorf("%w: %s: nested deeper than %d levels", ErrInvalidTOC, path, maxTOCDepth)
	}
	for i, n := range nodes {
		at := fmt.Sprintf("%s[%d]", path, i)
		if strings.TrimSpace(n.ID) == "" {
			return fmt.Errorf("%w: %s: id is required", ErrInvalidTOC, at)
		}
		if err := validateTOC(n.Children, at+".children", depth+1); err != nil {
			return err
		}
	}
	return nil
}

// DefaultOutput derives the output path from an input path:
// book.pdf → book.final.pdf.
func DefaultOutput(input string) string {
	return fileutil.ReplaceExt(input, FinalSuffix)
}

func absFrom(dir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(dir, filepath.FromSlash(p))
}
