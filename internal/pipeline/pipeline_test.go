package pipeline

import (
	"testing"

	"github.com/alnah/go-pdfbook/internal/pdf"
	"github.com/alnah/go-pdfbook/internal/pdf/pdftest"
)

// loadGraph builds a fixture PDF and loads it.
func loadGraph(t *testing.T, opts ...pdftest.Option) *pdf.Graph {
	t.Helper()

	g, err := pdf.Load(pdftest.New(opts...))
	if err != nil {
		t.Fatalf("loading fixture: %v", err)
	}
	return g
}

// resolveDict resolves o in g and fails the test if it is not a dictionary.
func resolveDict(t *testing.T, g *pdf.Graph, o pdf.Object) pdf.Dict {
	t.Helper()

	d, ok := g.ResolveDict(o)
	if !ok {
		t.Fatalf("expected dictionary, got %#v", g.Resolve(o))
	}
	return d
}

func terms(values ...string) []Term {
	out := make([]Term, len(values))
	for i, v := range values {
		out[i] = Term{Value: v}
	}
	return out
}
