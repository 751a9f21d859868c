package pdf

import (
	"errors"
	"slices"
	"testing"

	"github.com/alnah/go-pdfbook/internal/pdf/pdftest"
)

func TestPageSize_Inherited(t *testing.T) {
	t.Parallel()

	g := mustLoad(t, pdftest.New(pdftest.WithPages(pdftest.A4, pdftest.A4), pdftest.WithInheritedMediaBox()))
	w, h, err := g.PageSize(1)
	if err != nil {
		t.Fatal(err)
	}
	if !approx(w, 595) || !approx(h, 842) {
		t.Errorf("PageSize(1) = %vx%v, want 595x842", w, h)
	}
}

func TestPage_Errors(t *testing.T) {
	t.Parallel()

	g := mustLoad(t, pdftest.New())
	for _, i := range []int{1, -1} {
		if _, _, err := g.Page(i); !errors.Is(err, ErrPageIndex) {
			t.Errorf("Page(%d) error = %v, want ErrPageIndex", i, err)
		}
	}

	if _, _, err := New().Page(0); !errors.Is(err, ErrNoPages) {
		t.Errorf("empty Page(0) error = %v, want ErrNoPages", err)
	}
}

func TestInsertPage_AtFront(t *testing.T) {
	t.Parallel()

	g := mustLoad(t, pdftest.New(pdftest.WithPages(pdftest.Letter, pdftest.A4)))
	oldFirst, _, err := g.Page(0)
	if err != nil {
		t.Fatal(err)
	}

	ref, err := g.InsertPage(0, Dict{"MediaBox": Rect(0, 0, 600, 400)})
	if err != nil {
		t.Fatalf("InsertPage() unexpected error: %v", err)
	}

	if n, _ := g.PageCount(); n != 3 {
		t.Errorf("PageCount() = %d, want 3", n)
	}

	first, page, err := g.Page(0)
	if err != nil {
		t.Fatal(err)
	}
	if first != ref {
		t.Errorf("Page(0) = %s, want the inserted %s", first, ref)
	}
	if page["Type"] != Name("Page") {
		t.Errorf("inserted /Type = %v, want /Page", page["Type"])
	}
	if page["Parent"] != (Ref{Num: 2}) {
		t.Errorf("inserted /Parent = %v, want 2 0 R", page["Parent"])
	}

	if second, _, _ := g.Page(1); second != oldFirst {
		t.Errorf("Page(1) = %s, want the old first page %s", second, oldFirst)
	}

	root, _, err := g.pageTree()
	if err != nil {
		t.Fatal(err)
	}
	if rootDict, _ := g.ResolveDict(root); rootDict["Count"] != Int(3) {
		t.Errorf("root /Count = %v, want 3", rootDict["Count"])
	}

	w, h, err := g.PageSize(0)
	if err != nil {
		t.Fatal(err)
	}
	if !approx(w, 600) || !approx(h, 400) {
		t.Errorf("PageSize(0) = %vx%v, want 600x400", w, h)
	}
}

func TestInsertPage_NestedTree(t *testing.T) {
	t.Parallel()

	// root -> [inner -> [p1, p2]]
	g := New()
	catalog, _, err := g.Catalog()
	if err != nil {
		t.Fatal(err)
	}
	root := catalog["Pages"].(Ref)

	inner, p1, p2 := g.Allocate(), g.Allocate(), g.Allocate()
	for ref, body := range map[Ref]Dict{
		inner: {"Type": Name("Pages"), "Parent": root, "Kids": Array{p1, p2}, "Count": Int(2)},
		p1:    {"Type": Name("Page"), "Parent": inner},
		p2:    {"Type": Name("Page"), "Parent": inner},
	} {
		if err := g.Assign(ref, body); err != nil {
			t.Fatal(err)
		}
	}
	rootDict, _ := g.ResolveDict(root)
	rootDict["Kids"] = Array{inner}
	rootDict["Count"] = Int(2)
	rootDict["MediaBox"] = Rect(0, 0, 300, 300)

	ref, err := g.InsertPage(1, Dict{})
	if err != nil {
		t.Fatal(err)
	}

	innerDict, _ := g.ResolveDict(inner)
	if kids, _ := innerDict["Kids"].(Array); !slices.Equal(kids, Array{p1, ref, p2}) {
		t.Errorf("inner /Kids = %v, want [%s %s %s]", kids, p1, ref, p2)
	}
	if innerDict["Count"] != Int(3) || rootDict["Count"] != Int(3) {
		t.Errorf("/Count = %v (inner) %v (root), want 3 and 3", innerDict["Count"], rootDict["Count"])
	}

	// The new page inherits the root MediaBox.
	if w, _, err := g.PageSize(1); err != nil || !approx(w, 300) {
		t.Errorf("PageSize(1) width = %v, %v; want 300", w, err)
	}

	// Appending goes to the parent of the last page.
	last, err := g.InsertPage(3, Dict{})
	if err != nil {
		t.Fatal(err)
	}
	if got, _, _ := g.Page(3); got != last {
		t.Errorf("Page(3) = %s, want the appended %s", got, last)
	}
}

func TestInsertPage_EmptyDocument(t *testing.T) {
	t.Parallel()

	g := New()
	ref, err := g.InsertPage(0, Dict{"MediaBox": Rect(0, 0, 10, 10)})
	if err != nil {
		t.Fatal(err)
	}
	if got, _, _ := g.Page(0); got != ref {
		t.Errorf("Page(0) = %s, want %s", got, ref)
	}

	if _, err := g.InsertPage(5, Dict{}); !errors.Is(err, ErrPageIndex) {
		t.Errorf("InsertPage(5) error = %v, want ErrPageIndex", err)
	}
}

func TestPages_CycleIsMalformed(t *testing.T) {
	t.Parallel()

	g := New()
	catalog, _, err := g.Catalog()
	if err != nil {
		t.Fatal(err)
	}
	root := catalog["Pages"].(Ref)
	rootDict, _ := g.ResolveDict(root)
	rootDict["Kids"] = Array{root}

	if _, err := g.PageCount(); !errors.Is(err, ErrMalformed) {
		t.Errorf("PageCount() error = %v, want ErrMalformed", err)
	}
}
