package pdf

import "fmt"

// maxResolveDepth bounds chains of references pointing at references.
const maxResolveDepth = 32

// DefaultVersion is the header version written for graphs that never had one.
const DefaultVersion = "1.7"

type entry struct {
	gen uint16
	obj Object
}

// Graph is an in-memory PDF document: an object table addressed by Ref plus
// the trailer entries Root, Info and ID.
type Graph struct {
	version string
	objects map[uint32]*entry
	next    uint32
	trailer Dict
}

// New returns an empty graph with a catalog and an empty page tree.
func New() *Graph {
	g := &Graph{
		version: DefaultVersion,
		objects: map[uint32]*entry{},
		next:    1,
		trailer: Dict{},
	}
	pages := g.Allocate()
	catalog := g.Allocate()
	g.objects[pages.Num].obj = Dict{"Type": Name("Pages"), "Kids": Array{}, "Count": Int(0)}
	g.objects[catalog.Num].obj = Dict{"Type": Name("Catalog"), "Pages": pages}
	g.trailer["Root"] = catalog
	return g
}

// Version returns the header version, such as "1.7".
func (g *Graph) Version() string {
	return g.version
}

// Allocate reserves a fresh object number. Numbers are never reused.
func (g *Graph) Allocate() Ref {
	ref := Ref{Num: g.next}
	g.objects[ref.Num] = &entry{obj: Null{}}
	g.next++
	return ref
}

// Assign stores obj as the body of ref.
func (g *Graph) Assign(ref Ref, obj Object) error {
	e, ok := g.objects[ref.Num]
	if ref.Num == 0 || !ok || e.gen != ref.Gen {
		return fmt.Errorf("%w: %s", ErrInvalidReference, ref)
	}
	if obj == nil {
		obj = Null{}
	}
	e.obj = obj
	return nil
}

// Get returns the body of ref.
func (g *Graph) Get(ref Ref) (Object, bool) {
	e, ok := g.objects[ref.Num]
	if !ok || e.gen != ref.Gen {
		return nil, false
	}
	return e.obj, true
}

// Resolve follows references until it reaches a direct object. Dangling
// references resolve to Null.
func (g *Graph) Resolve(o Object) Object {
	for range maxResolveDepth {
		ref, ok := o.(Ref)
		if !ok {
			return o
		}
		obj, ok := g.Get(ref)
		if !ok {
			return Null{}
		}
		o = obj
	}
	return Null{}
}

// ResolveDict resolves o and returns it as a dictionary. A stream yields
// its dictionary.
func (g *Graph) ResolveDict(o Object) (Dict, bool) {
	switch v := g.Resolve(o).(type) {
	case Dict:
		return v, true
	case *Stream:
		return v.Dict, true
	}
	return nil, false
}

// Catalog returns the document catalog and its reference.
func (g *Graph) Catalog() (Dict, Ref, error) {
	ref, ok := g.trailer["Root"].(Ref)
	if !ok {
		return nil, Ref{}, fmt.Errorf("%w: trailer has no /Root", ErrMalformed)
	}
	obj, ok := g.Get(ref)
	if !ok {
		return nil, Ref{}, fmt.Errorf("%w: /Root %s does not exist", ErrMalformed, ref)
	}
	d, ok := obj.(Dict)
	if !ok {
		return nil, Ref{}, fmt.Errorf("%w: /Root %s is not a dictionary", ErrMalformed, ref)
	}
	return d, ref, nil
}

// Info returns the document information dictionary, creating an indirect
// one when the trailer has none. The returned map is live.
func (g *Graph) Info() Dict {
	switch v := g.trailer["Info"].(type) {
	case Ref:
		if obj, ok := g.Get(v); ok {
			if d, ok := obj.(Dict); ok {
				return d
			}
		}
	case Dict:
		ref := g.Allocate()
		g.objects[ref.Num].obj = v
		g.trailer["Info"] = ref
		return v
	}
	d := Dict{}
	ref := g.Allocate()
	g.objects[ref.Num].obj = d
	g.trailer["Info"] = ref
	return d
}

// Len returns the number of object numbers in use, including allocated
// but unassigned ones.
func (g *Graph) Len() int {
	return len(g.objects)
}
