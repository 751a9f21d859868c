package pipeline

import (
	"context"

	"github.com/alnah/go-pdfbook/internal/pdf"
)

// OutlineInjector defines the contract for building the document outline.
type OutlineInjector interface {
	InjectOutline(ctx context.Context, g *pdf.Graph, nodes []OutlineNode) (int, error)
}

// OutlineInjection lowers a TOC tree into the PDF outline graph.
type OutlineInjection struct{}

// outlineSlot pairs a TOC node with the references reserved for it.
type outlineSlot struct {
	node     *OutlineNode
	ref      pdf.Ref
	parent   pdf.Ref
	children []*outlineSlot
}

// InjectOutline replaces the catalog's /Outlines with one item per node and
// returns the number of items written. An empty tree leaves the catalog
// untouched.
//
// References are reserved for the whole tree first, so every item can name
// its parent, siblings and children while it is being filled in.
func (o *OutlineInjection) InjectOutline(ctx context.Context, g *pdf.Graph, nodes []OutlineNode) (int, error) {
	if len(nodes) == 0 {
		return 0, nil
	}
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}

	catalog, _, err := g.Catalog()
	if err != nil {
		return 0, err
	}

	root := g.Allocate()
	slots := allocateOutline(g, nodes, root)

	total, err := populateOutline(g, slots)
	if err != nil {
		return 0, err
	}

	err = g.Assign(root, pdf.Dict{
		"Type":  pdf.Name("Outlines"),
		"First": slots[0].ref,
		"Last":  slots[len(slots)-1].ref,
		"Count": pdf.Int(total),
	})
	if err != nil {
		return 0, err
	}

	catalog["Outlines"] = root
	return total, nil
}

func allocateOutline(g *pdf.Graph, nodes []OutlineNode, parent pdf.Ref) []*outlineSlot {
	slots := make([]*outlineSlot, len(nodes))
	for i := range nodes {
		s := &outlineSlot{node: &nodes[i], ref: g.Allocate(), parent: parent}
		s.children = allocateOutline(g, nodes[i].Children, s.ref)
		slots[i] = s
	}
	return slots
}

// populateOutline assigns the item dictionaries of one sibling list and
// returns how many items the list holds, descendants included.
func populateOutline(g *pdf.Graph, slots []*outlineSlot) (int, error) {
	total := 0
	for i, s := range slots {
		item := pdf.Dict{
			"Title":  pdf.TextString(s.node.Title),
			"Dest":   pdf.Name(s.node.ID),
			"Parent": s.parent,
		}
		if i > 0 {
			item["Prev"] = slots[i-1].ref
		}
		if i < len(slots)-1 {
			item["Next"] = slots[i+1].ref
		}
		if len(s.children) > 0 {
			descendants, err := populateOutline(g, s.children)
			if err != nil {
				return 0, err
			}
			item["First"] = s.children[0].ref
			item["Last"] = s.children[len(s.children)-1].ref
			item["Count"] = pdf.Int(descendants)
			total += descendants
		}
		if err := g.Assign(s.ref, item); err != nil {
			return 0, err
		}
		total++
	}
	return total, nil
}
