package pdf

import (
	"fmt"
	"slices"
)

// maxNesting bounds page-tree depth and Parent chains.
const maxNesting = 256

// pageLoc is a leaf of the page tree and its place in the parent's Kids.
type pageLoc struct {
	ref    Ref
	parent Ref
	index  int
}

// pageTree returns the root of the page tree.
func (g *Graph) pageTree() (Ref, Dict, error) {
	catalog, _, err := g.Catalog()
	if err != nil {
		return Ref{}, nil, err
	}
	ref, ok := catalog.Ref("Pages")
	if !ok {
		return Ref{}, nil, fmt.Errorf("%w: catalog has no /Pages reference", ErrMalformed)
	}
	d, ok := g.ResolveDict(ref)
	if !ok {
		return Ref{}, nil, fmt.Errorf("%w: /Pages %s is not a dictionary", ErrMalformed, ref)
	}
	return ref, d, nil
}

// kids returns the Kids array of a page-tree node, following an indirect
// array when present.
func (g *Graph) kids(node Dict) Array {
	arr, _ := g.Resolve(node["Kids"]).(Array)
	return arr
}

func isPagesNode(d Dict) bool {
	if t, ok := d.Name("Type"); ok {
		return t == "Pages"
	}
	_, hasKids := d["Kids"]
	return hasKids
}

// leaves walks the page tree in document order.
func (g *Graph) leaves() ([]pageLoc, error) {
	rootRef, _, err := g.pageTree()
	if err != nil {
		return nil, err
	}

	var out []pageLoc
	visited := map[Ref]bool{}
	var walk func(ref Ref, depth int) error
	walk = func(ref Ref, depth int) error {
		if visited[ref] || depth > maxNesting {
			return fmt.Errorf("%w: page tree cycle at %s", ErrMalformed, ref)
		}
		visited[ref] = true
		node, ok := g.ResolveDict(ref)
		if !ok {
			return fmt.Errorf("%w: page tree node %s is not a dictionary", ErrMalformed, ref)
		}
		for i, kid := range g.kids(node) {
			kref, ok := kid.(Ref)
			if !ok {
				return fmt.Errorf("%w: page tree kid of %s is not a reference", ErrMalformed, ref)
			}
			kd, ok := g.ResolveDict(kref)
			if !ok {
				// Dangling kids are skipped, as viewers do.
				continue
			}
			if isPagesNode(kd) {
				if err := walk(kref, depth+1); err != nil {
					return err
				}
				continue
			}
			if visited[kref] {
				return fmt.Errorf("%w: page %s appears twice", ErrMalformed, kref)
			}
			visited[kref] = true
			out = append(out, pageLoc{ref: kref, parent: ref, index: i})
		}
		return nil
	}
	if err := walk(rootRef, 0); err != nil {
		return nil, err
	}
	return out, nil
}

// PageCount returns the number of leaf pages.
func (g *Graph) PageCount() (int, error) {
	leaves, err := g.leaves()
	if err != nil {
		return 0, err
	}
	return len(leaves), nil
}

// Page returns the reference and dictionary of page i (zero-based).
func (g *Graph) Page(i int) (Ref, Dict, error) {
	leaves, err := g.leaves()
	if err != nil {
		return Ref{}, nil, err
	}
	if len(leaves) == 0 {
		return Ref{}, nil, ErrNoPages
	}
	if i < 0 || i >= len(leaves) {
		return Ref{}, nil, fmt.Errorf("%w: %d of %d", ErrPageIndex, i, len(leaves))
	}
	ref := leaves[i].ref
	d, _ := g.ResolveDict(ref)
	return ref, d, nil
}

// Inherited looks key up on page and then on its ancestors, for the
// inheritable attributes MediaBox, CropBox, Resources and Rotate.
func (g *Graph) Inherited(page Dict, key Name) (Object, bool) {
	node := page
	for range maxNesting {
		if v, ok := node[key]; ok {
			return g.Resolve(v), true
		}
		parent, ok := g.ResolveDict(node["Parent"])
		if !ok {
			return nil, false
		}
		node = parent
	}
	return nil, false
}

// PageSize returns the width and height of page i from its inherited
// MediaBox.
func (g *Graph) PageSize(i int) (width, height float64, err error) {
	ref, page, err := g.Page(i)
	if err != nil {
		return 0, 0, err
	}
	obj, ok := g.Inherited(page, "MediaBox")
	if !ok {
		return 0, 0, fmt.Errorf("%w: page %s has no /MediaBox", ErrMalformed, ref)
	}
	box, ok := obj.(Array)
	if !ok || len(box) != 4 {
		return 0, 0, fmt.Errorf("%w: page %s has a bad /MediaBox", ErrMalformed, ref)
	}
	var v [4]float64
	for j, o := range box {
		n, ok := Number(g.Resolve(o))
		if !ok {
			return 0, 0, fmt.Errorf("%w: page %s has a bad /MediaBox", ErrMalformed, ref)
		}
		v[j] = n
	}
	width, height = v[2]-v[0], v[3]-v[1]
	if width < 0 {
		width = -width
	}
	if height < 0 {
		height = -height
	}
	return width, height, nil
}

// InsertPage adds page so that it becomes page i, shifting later pages by
// one. Inserting at PageCount appends. The page is allocated as a new
// object, its Parent set, and Count incremented on every ancestor.
func (g *Graph) InsertPage(i int, page Dict) (Ref, error) {
	leaves, err := g.leaves()
	if err != nil {
		return Ref{}, err
	}
	if i < 0 || i > len(leaves) {
		return Ref{}, fmt.Errorf("%w: %d of %d", ErrPageIndex, i, len(leaves))
	}

	var parent Ref
	var at int
	switch {
	case i < len(leaves):
		parent, at = leaves[i].parent, leaves[i].index
	case len(leaves) > 0:
		parent, at = leaves[i-1].parent, leaves[i-1].index+1
	default:
		parent, _, _ = g.pageTree()
		at = 0
	}

	parentDict, _ := g.ResolveDict(parent)
	kids := slices.Insert(slices.Clone(g.kids(parentDict)), at, Object(Ref{}))

	ref := g.Allocate()
	kids[at] = ref
	page["Type"] = Name("Page")
	page["Parent"] = parent
	if err := g.Assign(ref, page); err != nil {
		return Ref{}, err
	}

	if kref, ok := parentDict["Kids"].(Ref); ok {
		if err := g.Assign(kref, kids); err != nil {
			return Ref{}, err
		}
	} else {
		parentDict["Kids"] = kids
	}

	node := parentDict
	for range maxNesting {
		count, _ := g.Resolve(node["Count"]).(Int)
		node["Count"] = count + 1
		next, ok := g.ResolveDict(node["Parent"])
		if !ok {
			break
		}
		node = next
	}
	return ref, nil
}
