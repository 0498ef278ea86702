package response

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/atlanticdynamic/lynxeval/internal/script"
)

// ErrSerialization marks a failure while walking a value graph.
var ErrSerialization = errors.New("unable to serialize object")

// defaultTypeName is used for composites that report no type name.
const defaultTypeName = "object"

// Serialize converts root into a Response. Any failure becomes a Failure
// response; use Encode to also get the error.
func Serialize(root script.Value) Response {
	resp, _ := Encode(root)
	return resp
}

// Encode converts root into a Response.
//
// Every distinct composite reachable from root is expanded exactly once and
// stored in Objects under a reference of the form "<type>#<n>", where n counts
// up from 1 in discovery order. Composites are tracked by Identity, so shared
// and cyclic structures terminate and two objects never share a reference.
// The walk uses an explicit stack and does not recurse.
//
// On error the returned Response is a Failure whose message matches the
// error, and the error wraps ErrSerialization.
func Encode(root script.Value) (Response, error) {
	p := &pass{
		visited: make(map[any]Reference),
		objects: make(map[Reference]Object),
	}

	value, err := p.convert(root)
	if err == nil {
		err = p.drain()
	}
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrSerialization, err)
		return FailureFromError(err), err
	}
	return Success(p.objects, value), nil
}

type pending struct {
	ref Reference
	obj script.Composite
}

// pass holds the state of one serialization. References are only meaningful
// within the pass that produced them.
type pass struct {
	visited map[any]Reference
	stack   []pending
	objects map[Reference]Object
	counter int
}

// convert maps a single value. Composites are not expanded here: the first
// time an identity is seen it is queued on the stack, and every occurrence
// becomes a ref.
func (p *pass) convert(v script.Value) (Value, error) {
	switch v.Kind() {
	case script.KindNull:
		return Null(), nil
	case script.KindNumber:
		n, _ := v.Number()
		return Number(n), nil
	case script.KindString:
		s, _ := v.Str()
		return String(s), nil
	case script.KindComposite:
		obj, _ := v.Composite()
		return p.reference(obj)
	default:
		return Value{}, fmt.Errorf("unsupported value kind %s", v.Kind())
	}
}

func (p *pass) reference(obj script.Composite) (Value, error) {
	id := obj.Identity()
	if id == nil || !reflect.ValueOf(id).Comparable() {
		return Value{}, fmt.Errorf("%s has no usable identity (%T)", typeName(obj), id)
	}

	if ref, ok := p.visited[id]; ok {
		return Ref(ref), nil
	}

	p.counter++
	ref := Reference(fmt.Sprintf("%s#%d", typeName(obj), p.counter))
	p.visited[id] = ref
	p.stack = append(p.stack, pending{ref: ref, obj: obj})
	return Ref(ref), nil
}

// drain expands queued composites until none are left. Expanding one object
// may queue more.
func (p *pass) drain() error {
	for len(p.stack) > 0 {
		next := p.stack[len(p.stack)-1]
		p.stack = p.stack[:len(p.stack)-1]

		members := make([]ObjectMember, 0)
		err := next.obj.Range(func(key, value script.Value) error {
			k, err := p.convert(key)
			if err != nil {
				return err
			}
			v, err := p.convert(value)
			if err != nil {
				return err
			}
			members = append(members, ObjectMember{Key: k, Value: v})
			return nil
		})
		if err != nil {
			return fmt.Errorf("reading %s: %w", next.ref, err)
		}
		p.objects[next.ref] = Object{Members: members}
	}
	return nil
}

func typeName(obj script.Composite) string {
	if name := obj.TypeName(); name != "" {
		return name
	}
	return defaultTypeName
}
