// Package pdftest builds small, valid PDF files for tests.
//
// It writes the file text by hand and does not depend on package pdf, so
// loading is tested against bytes the graph did not produce itself.
package pdftest

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"

	"github.com/klauspost/compress/zlib"
)

// Size is a page size in points.
type Size struct {
	W, H float64
}

// Common page sizes.
var (
	Letter = Size{W: 612, H: 792}
	A4     = Size{W: 595, H: 842}
)

type config struct {
	pages      []Size
	xrefStream bool
	inherit    bool
	info       [][2]string
	id         string
	outline    bool
}

// Option configures New.
type Option func(*config)

// WithPages sets one page per size. The default is a single Letter page.
func WithPages(sizes ...Size) Option {
	return func(c *config) { c.pages = sizes }
}

// WithXRefStream stores the catalog, page tree and pages in a compressed
// object stream and indexes the file with a cross-reference stream using
// the PNG Up predictor.
func WithXRefStream() Option {
	return func(c *config) { c.xrefStream = true }
}

// WithInheritedMediaBox puts the MediaBox of the first page on the page
// tree root instead of on each page.
func WithInheritedMediaBox() Option {
	return func(c *config) { c.inherit = true }
}

// WithInfo adds an entry to the document information dictionary.
func WithInfo(key, value string) Option {
	return func(c *config) { c.info = append(c.info, [2]string{key, value}) }
}

// WithID sets the trailer ID; both halves get the given hex digits.
func WithID(hex string) Option {
	return func(c *config) { c.id = hex }
}

// WithOutline adds a one-item outline pointing at the destination "old".
func WithOutline() Option {
	return func(c *config) { c.outline = true }
}

// Obj is a raw indirect object body, for example "<< /Type /Page >>".
type Obj struct {
	Num  int
	Body string
}

// New returns the bytes of a PDF file built from opts.
func New(opts ...Option) []byte {
	c := &config{pages: []Size{Letter}}
	for _, opt := range opts {
		opt(c)
	}
	objs, root, info := c.objects()
	if c.xrefStream {
		return writeCompressed(objs, root, info, c.id)
	}
	return writeClassic(objs, root, info, c.id)
}

type object struct {
	num    int
	body   string
	stream []byte
}

// objects lays out 1 catalog, 2 page tree, then a page and content stream
// per page, then the optional info and outline objects.
func (c *config) objects() ([]object, int, int) {
	var objs []object
	var kids bytes.Buffer
	next := 3
	for i, size := range c.pages {
		pageNum, contentNum := next, next+1
		next += 2
		fmt.Fprintf(&kids, "%d 0 R ", pageNum)

		box := ""
		if !c.inherit {
			box = fmt.Sprintf(" /MediaBox [0 0 %s %s]", num(size.W), num(size.H))
		}
		objs = append(objs,
			object{num: pageNum, body: fmt.Sprintf("<< /Type /Page /Parent 2 0 R%s /Resources << >> /Contents %d 0 R >>", box, contentNum)},
			object{num: contentNum, body: "<< >>", stream: []byte(fmt.Sprintf("%% page %d\n0 0 m", i+1))},
		)
	}

	catalogExtra := ""
	if c.outline {
		outlines, item := next, next+1
		next += 2
		catalogExtra = fmt.Sprintf(" /Outlines %d 0 R", outlines)
		objs = append(objs,
			object{num: outlines, body: fmt.Sprintf("<< /Type /Outlines /First %d 0 R /Last %d 0 R /Count 1 >>", item, item)},
			object{num: item, body: fmt.Sprintf("<< /Title (Old) /Dest /old /Parent %d 0 R >>", outlines)},
		)
	}

	pagesExtra := ""
	if c.inherit && len(c.pages) > 0 {
		pagesExtra = fmt.Sprintf(" /MediaBox [0 0 %s %s]", num(c.pages[0].W), num(c.pages[0].H))
	}
	objs = append([]object{
		{num: 1, body: "<< /Type /Catalog /Pages 2 0 R" + catalogExtra + " >>"},
		{num: 2, body: fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d%s >>", bytes.TrimSpace(kids.Bytes()), len(c.pages), pagesExtra)},
	}, objs...)

	info := 0
	if len(c.info) > 0 {
		info = next
		var b bytes.Buffer
		b.WriteString("<<")
		for _, kv := range c.info {
			fmt.Fprintf(&b, " /%s (%s)", kv[0], kv[1])
		}
		b.WriteString(" >>")
		objs = append(objs, object{num: info, body: b.String()})
	}
	return objs, 1, info
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeObject(buf *bytes.Buffer, o object) {
	fmt.Fprintf(buf, "%d 0 obj\n", o.num)
	if o.stream == nil {
		fmt.Fprintf(buf, "%s\nendobj\n", o.body)
		return
	}
	body := o.body[:len(o.body)-2] // drop ">>"
	fmt.Fprintf(buf, "%s/Length %d >>\nstream\n", body, len(o.stream))
	buf.Write(o.stream)
	buf.WriteString("\nendstream\nendobj\n")
}

func trailerExtra(info int, id string) string {
	s := ""
	if info > 0 {
		s += fmt.Sprintf(" /Info %d 0 R", info)
	}
	if id != "" {
		s += fmt.Sprintf(" /ID [<%s> <%s>]", id, id)
	}
	return s
}

func writeClassic(objs []object, root, info int, id string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n%\xE2\xE3\xCF\xD3\n")

	offsets := map[int]int{}
	size := 1
	for _, o := range objs {
		offsets[o.num] = buf.Len()
		size = max(size, o.num+1)
		writeObject(&buf, o)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f\r\n", size)
	for n := 1; n < size; n++ {
		if off, ok := offsets[n]; ok {
			fmt.Fprintf(&buf, "%010d 00000 n\r\n", off)
		} else {
			buf.WriteString("0000000000 00001 f\r\n")
		}
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %d 0 R%s >>\nstartxref\n%d\n%%%%EOF\n",
		size, root, trailerExtra(info, id), xref)
	return buf.Bytes()
}

func writeCompressed(objs []object, root, info int, id string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.5\n%\xE2\xE3\xCF\xD3\n")

	size := 1
	for _, o := range objs {
		size = max(size, o.num+1)
	}
	objStm, xrefNum := size, size+1
	size += 2

	type loc struct {
		typ    byte
		field2 int
		field3 int
	}
	locs := map[int]loc{}

	// Plain dictionaries go into the object stream; streams stay direct.
	var header, body bytes.Buffer
	packed := 0
	for _, o := range objs {
		if o.stream != nil {
			continue
		}
		fmt.Fprintf(&header, "%d %d ", o.num, body.Len())
		locs[o.num] = loc{typ: 2, field2: objStm, field3: packed}
		body.WriteString(o.body)
		body.WriteByte('\n')
		packed++
	}
	for _, o := range objs {
		if o.stream == nil {
			continue
		}
		locs[o.num] = loc{typ: 1, field2: buf.Len()}
		writeObject(&buf, o)
	}

	content := append(header.Bytes(), body.Bytes()...)
	compressed := deflate(content)
	locs[objStm] = loc{typ: 1, field2: buf.Len()}
	fmt.Fprintf(&buf, "%d 0 obj\n<< /Type /ObjStm /N %d /First %d /Filter /FlateDecode /Length %d >>\nstream\n",
		objStm, packed, header.Len(), len(compressed))
	buf.Write(compressed)
	buf.WriteString("\nendstream\nendobj\n")

	xrefAt := buf.Len()
	locs[xrefNum] = loc{typ: 1, field2: xrefAt}

	// Rows of [type:1][offset:4][gen/index:2], PNG Up predicted.
	const columns = 7
	var rows bytes.Buffer
	prev := make([]byte, columns)
	for n := 0; n < size; n++ {
		row := make([]byte, columns)
		if l, ok := locs[n]; ok {
			row[0] = l.typ
			row[1], row[2], row[3], row[4] = byte(l.field2>>24), byte(l.field2>>16), byte(l.field2>>8), byte(l.field2)
			row[5], row[6] = byte(l.field3>>8), byte(l.field3)
		} else if n == 0 {
			row[5], row[6] = 0xFF, 0xFF
		}
		rows.WriteByte(2)
		for i := range row {
			rows.WriteByte(row[i] - prev[i])
		}
		prev = row
	}
	xrefData := deflate(rows.Bytes())
	fmt.Fprintf(&buf, "%d 0 obj\n<< /Type /XRef /Size %d /W [1 4 2] /Root %d 0 R%s /Filter /FlateDecode /DecodeParms << /Predictor 12 /Columns %d >> /Length %d >>\nstream\n",
		xrefNum, size, root, trailerExtra(info, id), columns, len(xrefData))
	buf.Write(xrefData)
	fmt.Fprintf(&buf, "\nendstream\nendobj\nstartxref\n%d\n%%%%EOF\n", xrefAt)
	return buf.Bytes()
}

func deflate(data []byte) []byte {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	_, _ = zw.Write(data)
	_ = zw.Close()
	return buf.Bytes()
}

var startxrefRe = regexp.MustCompile(`startxref\s+(\d+)\s+%%EOF\s*$`)

// Append adds an incremental update to base: the given objects, a classic
// xref section for them, and a trailer chained to the previous one with
// /Prev. size must exceed every object number in the file.
func Append(base []byte, size, root int, objs ...Obj) []byte {
	m := startxrefRe.FindSubmatch(base)
	if m == nil {
		panic("pdftest: base has no startxref")
	}
	prev, _ := strconv.Atoi(string(m[1]))

	buf := bytes.NewBuffer(bytes.Clone(base))
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = buf.Len()
		writeObject(buf, object{num: o.Num, body: o.Body})
	}

	xref := buf.Len()
	buf.WriteString("xref\n0 1\n0000000000 65535 f\r\n")
	for i, o := range objs {
		fmt.Fprintf(buf, "%d 1\n%010d 00000 n\r\n", o.Num, offsets[i])
	}
	fmt.Fprintf(buf, "trailer\n<< /Size %d /Root %d 0 R /Prev %d >>\nstartxref\n%d\n%%%%EOF\n", size, root, prev, xref)
	return buf.Bytes()
}
