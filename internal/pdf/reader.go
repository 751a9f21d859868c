package pdf

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"time"

	spdf "seehuhn.de/go/pdf"
)

var (
	headerRe = regexp.MustCompile(`%PDF-(\d\.\d)`)
	// encryptRe finds an /Encrypt trailer key. /EncryptMetadata only occurs
	// inside an encryption dictionary and is not matched.
	encryptRe = regexp.MustCompile(`/Encrypt\b`)
)

// Load reads a complete PDF file through seehuhn.de/go/pdf and copies
// every object reachable from the catalog and the information dictionary
// into a new graph. Loaded objects keep their numbers; the catalog and the
// information dictionary get fresh ones.
func Load(data []byte) (*Graph, error) {
	m := headerRe.FindSubmatch(data[:min(len(data), 1024)])
	if m == nil {
		return nil, fmt.Errorf("%w: missing %%PDF header", ErrMalformed)
	}
	if encryptRe.Match(data) {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, ErrEncrypted)
	}

	r, err := spdf.NewReader(bytes.NewReader(data), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	defer func() { _ = r.Close() }()

	meta := r.GetMeta()
	if meta.Catalog == nil {
		return nil, fmt.Errorf("%w: document has no catalog", ErrMalformed)
	}

	im := &importer{
		r: r,
		g: &Graph{version: string(m[1]), objects: map[uint32]*entry{}, trailer: Dict{}},
	}
	catalog := im.dict(spdf.AsDict(meta.Catalog))
	im.drain()

	g := im.g
	for num := range g.objects {
		g.next = max(g.next, num)
	}
	g.next++

	root := g.Allocate()
	g.objects[root.Num].obj = catalog
	g.trailer["Root"] = root
	if meta.Info != nil {
		if d := infoDict(meta.Info); len(d) > 0 {
			info := g.Allocate()
			g.objects[info.Num].obj = d
			g.trailer["Info"] = info
		}
	}
	if len(meta.ID) == 2 {
		g.trailer["ID"] = Array{HexString(bytes.Clone(meta.ID[0])), HexString(bytes.Clone(meta.ID[1]))}
	}
	return g, nil
}

// importer converts library objects into graph objects. References are
// queued and resolved one at a time, so cycles such as Parent links are
// read once.
type importer struct {
	r       spdf.Getter
	g       *Graph
	pending []spdf.Reference
}

func (im *importer) ref(ref spdf.Reference) Ref {
	out := Ref{Num: ref.Number(), Gen: ref.Generation()}
	if _, seen := im.g.objects[out.Num]; !seen {
		im.g.objects[out.Num] = &entry{gen: out.Gen, obj: Null{}}
		im.pending = append(im.pending, ref)
	}
	return out
}

// drain resolves queued references until none are left. Objects the
// library cannot read stay null.
func (im *importer) drain() {
	for len(im.pending) > 0 {
		ref := im.pending[0]
		im.pending = im.pending[1:]

		obj, err := spdf.Resolve(im.r, ref)
		if err != nil {
			continue
		}
		e := im.g.objects[ref.Number()]
		if s, ok := obj.(*spdf.Stream); ok {
			e.obj = im.stream(s)
			continue
		}
		e.obj = im.object(obj)
	}
}

func (im *importer) object(o spdf.Object) Object {
	switch v := o.(type) {
	case spdf.Boolean:
		return Bool(v)
	case spdf.Integer:
		return Int(v)
	case spdf.Real:
		return Real(v)
	case spdf.Name:
		return Name(v)
	case spdf.String:
		return String(bytes.Clone(v))
	case spdf.TextString:
		return TextString(string(v))
	case spdf.Array:
		out := make(Array, len(v))
		for i, item := range v {
			out[i] = im.object(item)
		}
		return out
	case spdf.Dict:
		return im.dict(v)
	case spdf.Reference:
		return im.ref(v)
	case *spdf.Stream:
		return im.dict(v.Dict)
	}
	return Null{}
}

func (im *importer) dict(d spdf.Dict) Dict {
	out := make(Dict, len(d))
	for k, v := range d {
		if v == nil {
			continue
		}
		out[Name(k)] = im.object(v)
	}
	return out
}

// stream keeps the encoded bytes; /Length is recomputed on save.
func (im *importer) stream(s *spdf.Stream) Object {
	d := im.dict(s.Dict)
	delete(d, "Length")
	var data []byte
	if s.R != nil {
		raw, err := io.ReadAll(s.R)
		if err != nil {
			return Null{}
		}
		data = raw
	}
	return &Stream{Dict: d, Data: data}
}

// infoDict turns the library's decoded information dictionary back into
// text strings and PDF dates.
func infoDict(info *spdf.Info) Dict {
	d := Dict{}
	text := map[Name]string{
		"Title":    string(info.Title),
		"Author":   string(info.Author),
		"Subject":  string(info.Subject),
		"Keywords": string(info.Keywords),
		"Creator":  string(info.Creator),
		"Producer": string(info.Producer),
	}
	for k, v := range text {
		if v != "" {
			d[k] = TextString(v)
		}
	}
	if t := time.Time(info.CreationDate); !t.IsZero() {
		d["CreationDate"] = String(FormatDate(t))
	}
	if t := time.Time(info.ModDate); !t.IsZero() {
		d["ModDate"] = String(FormatDate(t))
	}
	if info.Trapped != "" {
		d["Trapped"] = Name(info.Trapped)
	}
	for k, v := range info.Custom {
		d[Name(k)] = TextString(v)
	}
	return d
}
