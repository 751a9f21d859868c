package pdfbook

import (
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-pdfbook/internal/pipeline"
)

// DefaultProducer is written to the Producer field unless WithProducer
// overrides it.
const DefaultProducer = pipeline.DefaultProducer

// RoleBookProducer is the MARC relator code of the contributor written to
// the Creator field.
const RoleBookProducer = pipeline.BookProducerRole

// Supported cover media types.
const (
	MediaTypePNG  = pipeline.MediaTypePNG
	MediaTypeJPEG = pipeline.MediaTypeJPEG
)

// Entry is one value of a metadata term with its qualifiers.
type Entry struct {
	Value      string
	Qualifiers map[string]string // e.g. "role": "bkp"
}

// Role returns the "role" qualifier, empty when absent.
func (e Entry) Role() string { return e.Qualifiers["role"] }

// Metadata is a Dublin Core publication record. Each term keeps its values
// in encounter order; an empty slice means the term is absent.
type Metadata struct {
	Title       []Entry
	Creator     []Entry
	Description []Entry
	Subject     []Entry
	Contributor []Entry
	Language    []Entry
	Created     []Entry
	Date        []Entry
}

// TOCNode is one entry of the table of contents. ID names the destination
// the bookmark points to.
type TOCNode struct {
	ID       string
	Title    string
	Children []TOCNode
}

// Count returns the number of nodes in the subtree, excluding the node itself.
func (n TOCNode) Count() int {
	total := 0
	for _, c := range n.Children {
		total += 1 + c.Count()
	}
	return total
}

// validateTOC checks that every node has an ID. Titles may be empty.
func validateTOC(nodes []TOCNode) error {
	for i, n := range nodes {
		if strings.TrimSpace(n.ID) == "" {
			return fmt.Errorf("%w: node %d (%q) has no ID", ErrInvalidTOCNode, i, n.Title)
		}
		if err := validateTOC(n.Children); err != nil {
			return err
		}
	}
	return nil
}

// Cover describes the cover image. Src is a URI reference resolved against
// the content root; MediaType selects the decoder.
type Cover struct {
	Src       string
	MediaType string
}

// Input contains processing parameters.
type Input struct {
	PDF         []byte    // Rendered PDF (required)
	Metadata    *Metadata // Publication metadata (optional)
	TOC         []TOCNode // Table of contents (optional)
	Cover       *Cover    // Cover image (optional)
	ContentRoot string    // Directory cover paths are relative to
	OutputPath  string    // Destination file (required)
	PressReady  bool      // Route output through the press-ready transform
}

// Result reports what Process did.
type Result struct {
	Pages         int  // Page count after processing
	OutlineItems  int  // Bookmarks written
	CoverInserted bool // Whether a cover page was added
	Size          int  // Bytes serialized
	Duration      time.Duration
}
