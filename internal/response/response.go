// Package response defines the result returned to clients for an evaluation,
// and the serializer that builds it from a script value graph.
//
// A successful Response carries a root Value plus a flat table of Objects.
// Composite values never nest on the wire: each one is emitted once in the
// table under a Reference and every occurrence of it becomes a ref Value. This
// keeps cyclic and shared graphs representable as plain JSON.
package response

import (
	"fmt"
)

// Reference names one object within a single Response.
type Reference string

// ValueKind enumerates the wire value variants.
type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueNumber
	ValueString
	ValueRef
)

func (k ValueKind) String() string {
	switch k {
	case ValueNull:
		return "null"
	case ValueNumber:
		return "number"
	case ValueString:
		return "string"
	case ValueRef:
		return "ref"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}

// Value is a wire value. The zero Value is null.
type Value struct {
	kind ValueKind
	num  float64
	str  string
}

// Null returns the null wire value.
func Null() Value { return Value{} }

// Number returns a number wire value.
func Number(n float64) Value { return Value{kind: ValueNumber, num: n} }

// String returns a string wire value.
func String(s string) Value { return Value{kind: ValueString, str: s} }

// Ref returns a value pointing at an entry of Response.Objects.
func Ref(r Reference) Value { return Value{kind: ValueRef, str: string(r)} }

// Kind reports which variant v holds.
func (v Value) Kind() ValueKind { return v.kind }

// Number returns the numeric payload and whether v is a number.
func (v Value) Number() (float64, bool) { return v.num, v.kind == ValueNumber }

// Str returns the string payload and whether v is a string.
func (v Value) Str() (string, bool) { return v.str, v.kind == ValueString }

// Ref returns the reference payload and whether v is a ref.
func (v Value) Ref() (Reference, bool) { return Reference(v.str), v.kind == ValueRef }

func (v Value) String() string {
	switch v.kind {
	case ValueNumber:
		return fmt.Sprintf("%g", v.num)
	case ValueString:
		return fmt.Sprintf("%q", v.str)
	case ValueRef:
		return "&" + v.str
	default:
		return "null"
	}
}

// ObjectMember is one key/value pair of an Object.
type ObjectMember struct {
	Key   Value `json:"key"`
	Value Value `json:"value"`
}

// Object is the expanded form of one composite. Members keep the iteration
// order of the underlying composite.
type Object struct {
	Members []ObjectMember `json:"members"`
}

// Response is either a success carrying a value graph, or a failure carrying
// an error message.
type Response struct {
	Success bool
	Objects map[Reference]Object
	Value   Value
	Error   string
}

// Success builds a successful response. A nil objects map is replaced by an
// empty one.
func Success(objects map[Reference]Object, value Value) Response {
	if objects == nil {
		objects = map[Reference]Object{}
	}
	return Response{Success: true, Objects: objects, Value: value}
}

// Failure builds a failed response with the given message.
func Failure(msg string) Response {
	return Response{Error: msg}
}

// FailureFromError builds a failed response from err's message.
func FailureFromError(err error) Response {
	return Failure(err.Error())
}

// References returns every reference that appears in the root value or in any
// member of any object, in no particular order and without duplicates.
func (r Response) References() []Reference {
	seen := make(map[Reference]struct{})
	var out []Reference
	add := func(v Value) {
		ref, ok := v.Ref()
		if !ok {
			return
		}
		if _, dup := seen[ref]; dup {
			return
		}
		seen[ref] = struct{}{}
		out = append(out, ref)
	}

	add(r.Value)
	for _, obj := range r.Objects {
		for _, m := range obj.Members {
			add(m.Key)
			add(m.Value)
		}
	}
	return out
}
