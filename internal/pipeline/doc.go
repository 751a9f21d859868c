// Package pipeline implements the post-processing stages applied to a
// rendered PDF's object graph.
//
// Each stage sits behind a small interface so the root package can swap
// it in tests:
//   - Metadata injection (document information dictionary, catalog /Lang)
//   - Outline building (TOC tree lowered to the PDF bookmark graph)
//   - Cover page insertion (PNG or JPEG image scaled to the first page width)
//   - Export (serialization, optionally through a print-readiness transform)
//
// The stages only touch the graph through internal/pdf. They never render
// or lay out content: the rendered PDF and the extracted TOC and metadata
// arrive from outside, and the print-readiness transform is an external
// collaborator reached through the Transformer interface.
package pipeline
