package response

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	_ json.Marshaler   = Value{}
	_ json.Unmarshaler = (*Value)(nil)
	_ json.Marshaler   = Response{}
	_ json.Unmarshaler = (*Response)(nil)
)

// MarshalJSON encodes null as JSON null and every other variant as
// {"kind":...,"value":...}.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueNull:
		return []byte("null"), nil
	case ValueNumber:
		buf := []byte(`{"kind":"number","value":`)
		buf = appendNumber(buf, v.num)
		return append(buf, '}'), nil
	case ValueString, ValueRef:
		buf := []byte(`{"kind":"`)
		buf = append(buf, v.kind.String()...)
		buf = append(buf, `","value":`...)
		s, err := marshalString(v.str)
		if err != nil {
			return nil, err
		}
		buf = append(buf, s...)
		return append(buf, '}'), nil
	default:
		return nil, fmt.Errorf("unknown value kind %s", v.kind)
	}
}

// UnmarshalJSON reverses MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		*v = Null()
		return nil
	}

	var wire struct {
		Kind  string          `json:"kind"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	switch wire.Kind {
	case "number":
		// non-finite numbers are written as null and read back as NaN
		if string(wire.Value) == "null" {
			*v = Number(math.NaN())
			return nil
		}
		var n float64
		if err := json.Unmarshal(wire.Value, &n); err != nil {
			return err
		}
		*v = Number(n)
	case "string", "ref":
		var s string
		if err := json.Unmarshal(wire.Value, &s); err != nil {
			return err
		}
		if wire.Kind == "ref" {
			*v = Ref(Reference(s))
		} else {
			*v = String(s)
		}
	default:
		return fmt.Errorf("unknown value kind %q", wire.Kind)
	}
	return nil
}

// MarshalJSON writes the keys in a fixed order: success first, then either
// objects and value, or error.
func (r Response) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if !r.Success {
		buf.WriteString(`{"success":false,"error":`)
		s, err := marshalString(r.Error)
		if err != nil {
			return nil, err
		}
		buf.Write(s)
		buf.WriteByte('}')
		return buf.Bytes(), nil
	}

	objects := r.Objects
	if objects == nil {
		objects = map[Reference]Object{}
	}
	buf.WriteString(`{"success":true,"objects":`)
	if err := writeJSON(&buf, objects); err != nil {
		return nil, err
	}
	buf.WriteString(`,"value":`)
	if err := writeJSON(&buf, r.Value); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reverses MarshalJSON.
func (r *Response) UnmarshalJSON(data []byte) error {
	var wire struct {
		Success *bool                `json:"success"`
		Objects map[Reference]Object `json:"objects"`
		Value   Value                `json:"value"`
		Error   string               `json:"error"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.Success == nil {
		return errors.New("response is missing the success field")
	}
	if *wire.Success {
		*r = Success(wire.Objects, wire.Value)
		return nil
	}
	*r = Failure(wire.Error)
	return nil
}

// MarshalJSON keeps an empty member list as [] rather than null.
func (o Object) MarshalJSON() ([]byte, error) {
	members := o.Members
	if members == nil {
		members = []ObjectMember{}
	}
	var buf bytes.Buffer
	buf.WriteString(`{"members":`)
	if err := writeJSON(&buf, members); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Marshal encodes r without HTML escaping, so "<" and ">" inside strings are
// written as-is.
func Marshal(r Response) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode terminates every value with a newline
	buf.Truncate(buf.Len() - 1)
	return nil
}

func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// appendNumber writes n in shortest round-trip form the way ryu-based
// encoders print it: plain notation for 1e-5 <= |n| < 1e16 with integral
// values keeping a trailing ".0", exponent notation otherwise, and null for
// non-finite values.
func appendNumber(buf []byte, n float64) []byte {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return append(buf, "null"...)
	}

	if abs := math.Abs(n); abs != 0 && (abs < 1e-5 || abs >= 1e16) {
		// 1e-06 becomes 1e-6, 1e+16 becomes 1e16
		mant, exp, _ := strings.Cut(strconv.FormatFloat(n, 'e', -1, 64), "e")
		buf = append(buf, mant...)
		buf = append(buf, 'e')
		if strings.HasPrefix(exp, "-") {
			buf = append(buf, '-')
		}
		return append(buf, strings.TrimLeft(exp[1:], "0")...)
	}

	s := strconv.FormatFloat(n, 'f', -1, 64)
	buf = append(buf, s...)
	if !strings.Contains(s, ".") {
		buf = append(buf, ".0"...)
	}
	return buf
}
