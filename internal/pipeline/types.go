package pipeline

// Term is one value of a metadata term together with its qualifiers, such
// as {Value: "Print Shop", Qualifiers: {"role": "bkp"}}.
type Term struct {
	Value      string
	Qualifiers map[string]string
}

// Qualifier returns the qualifier stored under name.
func (t Term) Qualifier(name string) string {
	return t.Qualifiers[name]
}

// MetadataRecord holds the recognized publication metadata terms. Each
// term keeps its values in encounter order.
type MetadataRecord struct {
	Title       []Term
	Creator     []Term
	Description []Term
	Subject     []Term
	Contributor []Term
	Language    []Term
	Created     []Term
	Date        []Term
}

// OutlineNode is one entry of the table of contents. ID names the
// destination the bookmark jumps to.
type OutlineNode struct {
	ID       string
	Title    string
	Children []OutlineNode
}

// CoverData describes the cover image. Src is a URI reference resolved
// against the content root.
type CoverData struct {
	Src       string
	MediaType string
}
