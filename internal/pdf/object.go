package pdf

import (
	"fmt"
	"slices"
)

// Object is any PDF object value: Null, Bool, Int, Real, String, HexString,
// Name, Array, Dict, *Stream or Ref.
type Object interface {
	isObject()
}

// Null is the PDF null object.
type Null struct{}

// Bool is a PDF boolean.
type Bool bool

// Int is a PDF integer.
type Int int64

// Real is a PDF real number.
type Real float64

// String is a literal string. The bytes are stored unescaped.
type String []byte

// HexString is a string written in hexadecimal form.
type HexString []byte

// Name is a PDF name, stored without the leading slash and with #xx
// escapes decoded.
type Name string

// Array is a PDF array.
type Array []Object

// Dict is a PDF dictionary.
type Dict map[Name]Object

// Stream is a dictionary followed by raw (still encoded) stream data.
type Stream struct {
	Dict Dict
	Data []byte
}

// Ref addresses an indirect object of one graph. The zero value is never
// allocated.
type Ref struct {
	Num uint32
	Gen uint16
}

func (Null) isObject()      {}
func (Bool) isObject()      {}
func (Int) isObject()       {}
func (Real) isObject()      {}
func (String) isObject()    {}
func (HexString) isObject() {}
func (Name) isObject()      {}
func (Array) isObject()     {}
func (Dict) isObject()      {}
func (*Stream) isObject()   {}
func (Ref) isObject()       {}

// String formats the reference the way it appears in a file.
func (r Ref) String() string {
	return fmt.Sprintf("%d %d R", r.Num, r.Gen)
}

// IsZero reports whether r is the zero reference.
func (r Ref) IsZero() bool {
	return r.Num == 0
}

// Number returns the numeric value of an Int or Real.
func Number(o Object) (float64, bool) {
	switch v := o.(type) {
	case Int:
		return float64(v), true
	case Real:
		return float64(v), true
	}
	return 0, false
}

// Keys returns the dictionary keys in sorted order.
func (d Dict) Keys() []Name {
	keys := make([]Name, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Name returns the name stored under key, if any.
func (d Dict) Name(key Name) (Name, bool) {
	n, ok := d[key].(Name)
	return n, ok
}

// Int returns the integer stored under key, if any.
func (d Dict) Int(key Name) (int64, bool) {
	i, ok := d[key].(Int)
	return int64(i), ok
}

// Ref returns the reference stored under key, if any.
func (d Dict) Ref(key Name) (Ref, bool) {
	r, ok := d[key].(Ref)
	return r, ok
}

// Clone returns a shallow copy of d.
func (d Dict) Clone() Dict {
	out := make(Dict, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Rect converts four numbers into a rectangle array.
func Rect(llx, lly, urx, ury float64) Array {
	return Array{num(llx), num(lly), num(urx), num(ury)}
}

// num keeps integral values as Int so they serialize without a fraction.
func num(v float64) Object {
	if v == float64(int64(v)) {
		return Int(int64(v))
	}
	return Real(v)
}
