// Package pdf holds a PDF document as an in-memory graph of indirect objects.
//
// Files are read and written with seehuhn.de/go/pdf. Load copies every
// object reachable from the catalog into the graph's own table; the graph
// is then mutated through Allocate/Assign and the page-tree helpers, and
// Serialize hands it back to the library's writer as a single-revision
// file.
//
// References are plain values. The object bodies live in the graph's table,
// so cyclic structures such as outlines and page trees are expressed as
// numbers rather than pointers.
//
// A Graph is not safe for concurrent use.
package pdf
