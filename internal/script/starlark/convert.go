package starlark

import (
	"github.com/atlanticdynamic/lynxeval/internal/script"
	lark "go.starlark.net/starlark"
)

// toValue maps a Starlark value onto the script value model. Scalars other
// than numbers, strings and None are stringified.
func toValue(v lark.Value) script.Value {
	switch x := v.(type) {
	case nil, lark.NoneType:
		return script.Null()
	case lark.Int, lark.Float:
		f, _ := lark.AsFloat(x)
		return script.Number(f)
	case lark.String:
		return script.String(string(x))
	case *lark.Dict:
		return script.Object(dictObject{x})
	case *lark.List:
		return script.Object(listObject{x})
	case lark.Tuple:
		return script.Object(tupleObject{x})
	case *lark.Set:
		return script.Object(setObject{x})
	default:
		return script.String(v.String())
	}
}

type dictObject struct{ d *lark.Dict }

func (o dictObject) Identity() any    { return o.d }
func (o dictObject) TypeName() string { return "dict" }

func (o dictObject) Range(fn func(key, value script.Value) error) error {
	for _, item := range o.d.Items() {
		if err := fn(toValue(item[0]), toValue(item[1])); err != nil {
			return err
		}
	}
	return nil
}

type listObject struct{ l *lark.List }

func (o listObject) Identity() any    { return o.l }
func (o listObject) TypeName() string { return "list" }

func (o listObject) Range(fn func(key, value script.Value) error) error {
	for i := range o.l.Len() {
		if err := fn(script.Number(float64(i)), toValue(o.l.Index(i))); err != nil {
			return err
		}
	}
	return nil
}

// tupleKey identifies a tuple by its backing array. Tuples have no identity of
// their own in Starlark, so two tuples are the same object only when they
// share storage and length.
type tupleKey struct {
	first *lark.Value
	n     int
}

type tupleObject struct{ t lark.Tuple }

func (o tupleObject) Identity() any {
	if len(o.t) == 0 {
		return tupleKey{}
	}
	return tupleKey{first: &o.t[0], n: len(o.t)}
}

func (o tupleObject) TypeName() string { return "tuple" }

func (o tupleObject) Range(fn func(key, value script.Value) error) error {
	for i, elem := range o.t {
		if err := fn(script.Number(float64(i)), toValue(elem)); err != nil {
			return err
		}
	}
	return nil
}

type setObject struct{ s *lark.Set }

func (o setObject) Identity() any    { return o.s }
func (o setObject) TypeName() string { return "set" }

func (o setObject) Range(fn func(key, value script.Value) error) error {
	iter := o.s.Iterate()
	defer iter.Done()

	var elem lark.Value
	for iter.Next(&elem) {
		if err := fn(toValue(elem), script.Null()); err != nil {
			return err
		}
	}
	return nil
}
