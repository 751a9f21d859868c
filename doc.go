// Package pdfbook post-processes rendered book PDFs: it writes publication
// metadata, turns a table of contents into PDF bookmarks, inserts a cover
// page, and optionally hands the result to a press-ready tool.
//
// # Quick Start
//
//	proc := pdfbook.NewProcessor()
//
//	res, err := proc.Process(ctx, pdfbook.Input{
//	    PDF:        rendered,
//	    OutputPath: "book.final.pdf",
//	    Metadata: &pdfbook.Metadata{
//	        Title:   []pdfbook.Entry{{Value: "My Book"}},
//	        Creator: []pdfbook.Entry{{Value: "Ada"}, {Value: "Grace"}},
//	    },
//	    TOC: []pdfbook.TOCNode{
//	        {ID: "ch1", Title: "Chapter 1", Children: []pdfbook.TOCNode{{ID: "ch1-1", Title: "Section"}}},
//	    },
//	    Cover:       &pdfbook.Cover{Src: "images/cover.png", MediaType: "image/png"},
//	    ContentRoot: "src",
//	})
//
// # Pipeline
//
// Process runs these stages on one in-memory object graph:
//
//  1. Load: parse the PDF, including cross-reference streams, object
//     streams and incremental updates
//  2. Metadata: Producer, Title, Author, Subject, Keywords, Creator,
//     CreationDate and the catalog language
//  3. Outline: one bookmark per TOC node, pointing at the node's named
//     destination
//  4. Cover: a PNG or JPEG scaled to the width of the first page, inserted
//     before it
//  5. Export: serialize with a classic cross-reference table and write the
//     file, directly or through a PressReadyTransform
//
// Use Load and the Document methods to run stages individually.
//
// # Press-Ready Output
//
// With Input.PressReady the serialized PDF goes to a private temporary file
// that the configured transform turns into the output file:
//
//	proc := pdfbook.NewProcessor(
//	    pdfbook.WithPressReady(pdfbook.NewCommandTransform("press-ready")),
//	)
//
// # Errors
//
// Failures wrap the sentinel errors in errors.go and can be matched with
// errors.Is. Unsupported cover media types and unparsable creation dates are
// skipped by default; WithStrictCover and WithStrictDates turn them into
// errors.
package pdfbook
