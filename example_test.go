package pdfbook_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	pdfbook "github.com/alnah/go-pdfbook"
	"github.com/alnah/go-pdfbook/internal/pdf/pdftest"
)

// Example post-processes a rendered PDF with metadata and bookmarks.
func Example() {
	dir, err := os.MkdirTemp("", "pdfbook-example")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer os.RemoveAll(dir)

	proc := pdfbook.NewProcessor()
	res, err := proc.Process(context.Background(), pdfbook.Input{
		PDF: pdftest.New(pdftest.WithPages(pdftest.A4, pdftest.A4, pdftest.A4)),
		Metadata: &pdfbook.Metadata{
			Title:   []pdfbook.Entry{{Value: "Field Notes"}},
			Creator: []pdfbook.Entry{{Value: "Ada"}},
		},
		TOC: []pdfbook.TOCNode{
			{ID: "ch1", Title: "Chapter 1", Children: []pdfbook.TOCNode{
				{ID: "ch1-1", Title: "Arrival"},
			}},
			{ID: "ch2", Title: "Chapter 2"},
		},
		OutputPath: filepath.Join(dir, "notes.final.pdf"),
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println("pages:", res.Pages)
	fmt.Println("bookmarks:", res.OutlineItems)
	fmt.Println("cover:", res.CoverInserted)
	// Output:
	// pages: 3
	// bookmarks: 3
	// cover: false
}

// Example_stepByStep runs the stages individually on a Document.
func Example_stepByStep() {
	ctx := context.Background()

	doc, err := pdfbook.Load(pdftest.New(), pdfbook.WithProducer("my-toolchain 2.0"))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if err := doc.ApplyMetadata(ctx, &pdfbook.Metadata{Language: []pdfbook.Entry{{Value: "fr"}}}); err != nil {
		fmt.Println("error:", err)
		return
	}
	n, err := doc.ApplyOutline(ctx, []pdfbook.TOCNode{{ID: "intro", Title: "Introduction"}})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	pages, _ := doc.PageCount()

	fmt.Println("bookmarks:", n)
	fmt.Println("pages:", pages)
	// Output:
	// bookmarks: 1
	// pages: 1
}

// Example_pressReady routes the output through a custom transform.
func Example_pressReady() {
	dir, err := os.MkdirTemp("", "pdfbook-example")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer os.RemoveAll(dir)

	copyTransform := pdfbook.TransformFunc(func(_ context.Context, in, out string) error {
		data, err := os.ReadFile(in)
		if err != nil {
			return err
		}
		return os.WriteFile(out, data, 0o600)
	})

	proc := pdfbook.NewProcessor(pdfbook.WithPressReady(copyTransform))
	_, err = proc.Process(context.Background(), pdfbook.Input{
		PDF:        pdftest.New(),
		OutputPath: filepath.Join(dir, "print.pdf"),
		PressReady: true,
	})
	fmt.Println("error:", err)
	// Output: error: <nil>
}

// Example_errorHandling matches failures with errors.Is.
func Example_errorHandling() {
	_, err := pdfbook.NewProcessor().Process(context.Background(), pdfbook.Input{
		PDF:        []byte("not a PDF"),
		OutputPath: "unused.pdf",
	})
	fmt.Println(errors.Is(err, pdfbook.ErrMalformedDocument))
	// Output: true
}
