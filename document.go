package pdfbook

import (
	"context"
	"fmt"

	"github.com/alnah/go-pdfbook/internal/pdf"
	"github.com/alnah/go-pdfbook/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MetadataInjector = (*pipeline.MetadataInjection)(nil)
	_ pipeline.OutlineInjector  = (*pipeline.OutlineInjection)(nil)
	_ pipeline.CoverInjector    = (*pipeline.CoverInjection)(nil)
	_ pipeline.Exporter         = (*pipeline.Export)(nil)
	_ pipeline.Transformer      = (PressReadyTransform)(nil)
)

// Document is a loaded PDF being post-processed. Each Apply method mutates
// the document in place; Save serializes it.
//
// A Document is not safe for concurrent use.
type Document struct {
	cfg      config
	graph    *pdf.Graph
	metadata pipeline.MetadataInjector
	outline  pipeline.OutlineInjector
	cover    pipeline.CoverInjector
	exporter pipeline.Exporter
}

// Load parses a rendered PDF. It fails with ErrEmptyPDF for empty input and
// ErrMalformedDocument when the bytes are not a readable PDF.
func Load(data []byte, opts ...Option) (*Document, error) {
	return loadDocument(data, newConfig(opts))
}

func loadDocument(data []byte, cfg config) (*Document, error) {
	if len(data) == 0 {
		return nil, ErrEmptyPDF
	}
	g, err := pdf.Load(data)
	if err != nil {
		return nil, err
	}

	d := &Document{
		cfg:      cfg,
		graph:    g,
		metadata: cfg.metadataInjector,
		outline:  cfg.outlineInjector,
		cover:    cfg.coverInjector,
		exporter: cfg.exporter,
	}
	if d.metadata == nil {
		d.metadata = &pipeline.MetadataInjection{
			Producer:    cfg.producer,
			StrictDates: cfg.strictDates,
			Location:    cfg.location,
			Logger:      cfg.logger,
		}
	}
	if d.outline == nil {
		d.outline = &pipeline.OutlineInjection{}
	}
	if d.cover == nil {
		d.cover = &pipeline.CoverInjection{
			Strict: cfg.strictCover,
			Logger: cfg.logger,
		}
	}
	if d.exporter == nil {
		d.exporter = &pipeline.Export{Transform: transformerOrNil(cfg.pressReady)}
	}
	return d, nil
}

// transformerOrNil keeps a nil PressReadyTransform a nil interface.
func transformerOrNil(t PressReadyTransform) pipeline.Transformer {
	if t == nil {
		return nil
	}
	return t
}

// PageCount returns the number of pages.
func (d *Document) PageCount() (int, error) {
	return d.graph.PageCount()
}

// PageSize returns the width and height of page i in points.
func (d *Document) PageSize(i int) (width, height float64, err error) {
	return d.graph.PageSize(i)
}

// Version returns the PDF header version, e.g. "1.7".
func (d *Document) Version() string {
	return d.graph.Version()
}

// ApplyMetadata writes the information dictionary. A nil record only sets
// the Producer.
func (d *Document) ApplyMetadata(ctx context.Context, md *Metadata) error {
	if err := d.metadata.InjectMetadata(ctx, d.graph, toMetadataRecord(md)); err != nil {
		return fmt.Errorf("applying metadata: %w", err)
	}
	return nil
}

// ApplyOutline replaces the document outline with toc and returns the
// number of bookmarks written. An empty toc leaves the document untouched.
func (d *Document) ApplyOutline(ctx context.Context, toc []TOCNode) (int, error) {
	if err := validateTOC(toc); err != nil {
		return 0, err
	}
	n, err := d.outline.InjectOutline(ctx, d.graph, toOutlineNodes(toc))
	if err != nil {
		return 0, fmt.Errorf("applying outline: %w", err)
	}
	return n, nil
}

// ApplyCover inserts the cover as the new first page, scaled to the width
// of the current first page. It reports whether a page was inserted.
func (d *Document) ApplyCover(ctx context.Context, cover *Cover, contentRoot string) (bool, error) {
	ok, err := d.cover.InjectCover(ctx, d.graph, toCoverData(cover), contentRoot)
	if err != nil {
		return false, fmt.Errorf("applying cover: %w", err)
	}
	return ok, nil
}

// Bytes serializes the document.
func (d *Document) Bytes() ([]byte, error) {
	return d.graph.Serialize()
}

// Save serializes the document to path, through the press-ready transform
// when pressReady is set. It returns the serialized size.
func (d *Document) Save(ctx context.Context, path string, pressReady bool) (int, error) {
	if path == "" {
		return 0, ErrEmptyOutputPath
	}
	return d.exporter.Export(ctx, d.graph, path, pressReady)
}

// toMetadataRecord converts the public Metadata type to internal pipeline.MetadataRecord.
func toMetadataRecord(md *Metadata) *pipeline.MetadataRecord {
	if md == nil {
		return nil
	}
	return &pipeline.MetadataRecord{
		Title:       toTerms(md.Title),
		Creator:     toTerms(md.Creator),
		Description: toTerms(md.Description),
		Subject:     toTerms(md.Subject),
		Contributor: toTerms(md.Contributor),
		Language:    toTerms(md.Language),
		Created:     toTerms(md.Created),
		Date:        toTerms(md.Date),
	}
}

func toTerms(entries []Entry) []pipeline.Term {
	if len(entries) == 0 {
		return nil
	}
	out := make([]pipeline.Term, len(entries))
	for i, e := range entries {
		out[i] = pipeline.Term(e)
	}
	return out
}

// toOutlineNodes converts the public TOC tree to internal pipeline.OutlineNode.
func toOutlineNodes(nodes []TOCNode) []pipeline.OutlineNode {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]pipeline.OutlineNode, len(nodes))
	for i, n := range nodes {
		out[i] = pipeline.OutlineNode{
			ID:       n.ID,
			Title:    n.Title,
			Children: toOutlineNodes(n.Children),
		}
	}
	return out
}

// toCoverData converts the public Cover type to internal pipeline.CoverData.
func toCoverData(c *Cover) *pipeline.CoverData {
	if c == nil {
		return nil
	}
	return &pipeline.CoverData{
		Src:       c.Src,
		MediaType: c.MediaType,
	}
}
