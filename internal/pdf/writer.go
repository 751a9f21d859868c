package pdf

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
	spdf "seehuhn.de/go/pdf"
)

// newFileID returns the bytes of a fresh file identifier.
var newFileID = func() []byte {
	id := uuid.New()
	return id[:]
}

// versions maps header versions to the writer's constants. Anything else
// is written as the default version.
var versions = map[string]spdf.Version{
	"1.1": spdf.V1_1,
	"1.2": spdf.V1_2,
	"1.3": spdf.V1_3,
	"1.4": spdf.V1_4,
	"1.5": spdf.V1_5,
	"1.6": spdf.V1_6,
	"1.7": spdf.V1_7,
	"2.0": spdf.V2_0,
}

// Serialize writes the graph as a new single-revision file through the
// seehuhn.de/go/pdf writer. Only objects reachable from the catalog and
// the information dictionary are written, renumbered in the order they are
// reached.
func (g *Graph) Serialize() ([]byte, error) {
	catalog, _, err := g.Catalog()
	if err != nil {
		return nil, err
	}
	version, ok := versions[g.version]
	if !ok {
		version = versions[DefaultVersion]
	}

	var buf bytes.Buffer
	w, err := spdf.NewWriter(&buf, version, nil)
	if err != nil {
		return nil, fmt.Errorf("opening PDF writer: %w", err)
	}

	ex := &exporter{g: g, w: w, refs: map[Ref]spdf.Reference{}}
	meta := w.GetMeta()
	meta.Catalog = &spdf.Catalog{}
	err = spdf.DecodeDict(nil, meta.Catalog, ex.dict(catalog))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if info, ok := g.ResolveDict(g.trailer["Info"]); ok {
		meta.Info = ex.info(info)
	}
	meta.ID = g.fileID()

	if err := ex.flush(); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing PDF writer: %w", err)
	}
	return buf.Bytes(), nil
}

// fileID keeps the permanent half of an existing identifier and always
// renews the changing half.
func (g *Graph) fileID() [][]byte {
	current := newFileID()
	if arr, ok := g.Resolve(g.trailer["ID"]).(Array); ok && len(arr) == 2 {
		switch first := g.Resolve(arr[0]).(type) {
		case String:
			return [][]byte{first, current}
		case HexString:
			return [][]byte{first, current}
		}
	}
	return [][]byte{newFileID(), current}
}

// exporter converts graph objects into library objects. Each graph
// reference is allocated in the writer the first time it is reached and
// written by flush.
type exporter struct {
	g       *Graph
	w       *spdf.Writer
	refs    map[Ref]spdf.Reference
	pending []Ref
}

func (ex *exporter) ref(r Ref) spdf.Object {
	if out, ok := ex.refs[r]; ok {
		return out
	}
	if _, ok := ex.g.Get(r); !ok {
		return nil
	}
	out := ex.w.Alloc()
	ex.refs[r] = out
	ex.pending = append(ex.pending, r)
	return out
}

func (ex *exporter) flush() error {
	for len(ex.pending) > 0 {
		r := ex.pending[0]
		ex.pending = ex.pending[1:]

		obj, _ := ex.g.Get(r)
		if s, ok := obj.(*Stream); ok {
			if err := ex.stream(ex.refs[r], s); err != nil {
				return fmt.Errorf("writing stream %s: %w", r, err)
			}
			continue
		}
		if err := ex.w.Put(ex.refs[r], ex.object(obj)); err != nil {
			return fmt.Errorf("writing object %s: %w", r, err)
		}
	}
	return nil
}

// stream copies the stored bytes unchanged; their /Filter entry still
// describes them.
func (ex *exporter) stream(ref spdf.Reference, s *Stream) error {
	d := ex.dict(s.Dict)
	delete(d, "Length")
	body, err := ex.w.OpenStream(ref, d)
	if err != nil {
		return err
	}
	if _, err := body.Write(s.Data); err != nil {
		_ = body.Close()
		return err
	}
	return body.Close()
}

func (ex *exporter) object(o Object) spdf.Object {
	switch v := o.(type) {
	case Bool:
		return spdf.Boolean(v)
	case Int:
		return spdf.Integer(v)
	case Real:
		return spdf.Real(v)
	case String:
		return spdf.String(v)
	case HexString:
		return spdf.String(v)
	case Name:
		return spdf.Name(v)
	case Array:
		out := make(spdf.Array, len(v))
		for i, item := range v {
			out[i] = ex.object(item)
		}
		return out
	case Dict:
		return ex.dict(v)
	case Ref:
		return ex.ref(v)
	case *Stream:
		// Streams are only valid as indirect objects.
		return ex.dict(v.Dict)
	}
	return nil
}

func (ex *exporter) dict(d Dict) spdf.Dict {
	out := make(spdf.Dict, len(d))
	for k, v := range d {
		if obj := ex.object(v); obj != nil {
			out[spdf.Name(k)] = obj
		}
	}
	return out
}

// info decodes the information dictionary into the writer's structure.
// Entries that are neither text nor a known field are dropped.
func (ex *exporter) info(d Dict) *spdf.Info {
	info := &spdf.Info{}
	for k, v := range d {
		v = ex.g.Resolve(v)
		switch k {
		case "Title":
			info.Title = spdf.TextString(DecodeText(v))
		case "Author":
			info.Author = spdf.TextString(DecodeText(v))
		case "Subject":
			info.Subject = spdf.TextString(DecodeText(v))
		case "Keywords":
			info.Keywords = spdf.TextString(DecodeText(v))
		case "Creator":
			info.Creator = spdf.TextString(DecodeText(v))
		case "Producer":
			info.Producer = spdf.TextString(DecodeText(v))
		case "CreationDate":
			if t, ok := parseDate(DecodeText(v)); ok {
				info.CreationDate = spdf.Date(t)
			}
		case "ModDate":
			if t, ok := parseDate(DecodeText(v)); ok {
				info.ModDate = spdf.Date(t)
			}
		case "Trapped":
			if n, ok := v.(Name); ok {
				info.Trapped = spdf.Name(n)
			}
		default:
			if s := DecodeText(v); s != "" {
				if info.Custom == nil {
					info.Custom = map[string]string{}
				}
				info.Custom[string(k)] = s
			}
		}
	}
	return info
}
