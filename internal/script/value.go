// Package script defines the value model and the adapter contract shared by
// every embedded language runtime.
//
// An Adapter owns one interpreter instance. Evaluating code against it yields a
// Value, which is either a scalar (null, number, string) or a Composite: an
// object with identity whose members are themselves Values. Composites may
// reference each other in any shape, including cycles, so consumers must walk
// them by identity rather than by structure.
package script

import "fmt"

// Kind enumerates the variants a Value can hold.
type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindString
	KindComposite
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindComposite:
		return "composite"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Composite is an object with identity and key/value members.
type Composite interface {
	// Identity returns a comparable token. Two composites with equal identities
	// denote the same interpreter object for the duration of one serialization.
	Identity() any

	// TypeName is a short, human readable name for the object's type, such as
	// "dict" or "list". It is used as a naming hint only.
	TypeName() string

	// Range calls fn for each member in iteration order. Iteration stops at the
	// first error, which is returned. Errors from reading the object itself are
	// returned the same way.
	Range(fn func(key, value Value) error) error
}

// Value is a runtime value produced by an Adapter. The zero Value is null.
type Value struct {
	kind Kind
	num  float64
	str  string
	obj  Composite
}

// Null returns the null value.
func Null() Value {
	return Value{}
}

// Number returns a numeric value.
func Number(n float64) Value {
	return Value{kind: KindNumber, num: n}
}

// String returns a string value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Object wraps a composite. A nil composite yields null.
func Object(c Composite) Value {
	if c == nil {
		return Null()
	}
	return Value{kind: KindComposite, obj: c}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind {
	return v.kind
}

// Number returns the numeric payload and whether v is a number.
func (v Value) Number() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Str returns the string payload and whether v is a string.
func (v Value) Str() (string, bool) {
	return v.str, v.kind == KindString
}

// Composite returns the composite payload and whether v is a composite.
func (v Value) Composite() (Composite, bool) {
	return v.obj, v.kind == KindComposite
}

// String implements fmt.Stringer for logging and test failure output.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return fmt.Sprintf("%g", v.num)
	case KindString:
		return fmt.Sprintf("%q", v.str)
	case KindComposite:
		return fmt.Sprintf("<%s>", v.obj.TypeName())
	default:
		return "null"
	}
}
