package response

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input Response
		want  string
	}{
		{
			name:  "failure",
			input: Failure("uh oh"),
			want:  `{"success":false,"error":"uh oh"}`,
		},
		{
			name:  "empty success",
			input: Success(nil, Null()),
			want:  `{"success":true,"objects":{},"value":null}`,
		},
		{
			name: "single empty object",
			input: Success(map[Reference]Object{
				"01": {Members: []ObjectMember{}},
			}, Ref("01")),
			want: `{"success":true,"objects":{"01":{"members":[]}},"value":{"kind":"ref","value":"01"}}`,
		},
		{
			name: "nil members encode as empty list",
			input: Success(map[Reference]Object{
				"01": {},
			}, Ref("01")),
			want: `{"success":true,"objects":{"01":{"members":[]}},"value":{"kind":"ref","value":"01"}}`,
		},
		{
			name: "mutually recursive objects",
			input: Success(map[Reference]Object{
				"x": {Members: []ObjectMember{{Key: Ref("y"), Value: Ref("y")}}},
				"y": {Members: []ObjectMember{{Key: Ref("x"), Value: Ref("x")}}},
			}, Ref("x")),
			want: `{"success":true,"objects":{` +
				`"x":{"members":[{"key":{"kind":"ref","value":"y"},"value":{"kind":"ref","value":"y"}}]},` +
				`"y":{"members":[{"key":{"kind":"ref","value":"x"},"value":{"kind":"ref","value":"x"}}]}},` +
				`"value":{"kind":"ref","value":"x"}}`,
		},
		{
			name:  "string is not html escaped",
			input: Success(nil, String("<a & b>")),
			want:  `{"success":true,"objects":{},"value":{"kind":"string","value":"<a & b>"}}`,
		},
		{
			name:  "error with quotes",
			input: Failure("language `x\"` not supported"),
			want:  `{"success":false,"error":"language ` + "`x\\\"`" + ` not supported"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Marshal(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))

			// the standard encoder must agree apart from html escaping
			std, err := json.Marshal(tt.input)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(std))
		})
	}
}

func TestValue_MarshalNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want string
	}{
		{1, `1.0`},
		{-3, `-3.0`},
		{0, `0.0`},
		{1.5, `1.5`},
		{0.1, `0.1`},
		{123456789, `123456789.0`},
		{1e15, `1000000000000000.0`},
		{9007199254740991, `9007199254740991.0`},
		{1e16, `1e16`},
		{-1e16, `-1e16`},
		{1e17, `1e17`},
		{1e21, `1e21`},
		{math.Pow(2, 60), `1.152921504606847e18`},
		{1.5e300, `1.5e300`},
		{0.00001, `0.00001`},
		{0.000015, `0.000015`},
		{1e-6, `1e-6`},
		{1.5e-6, `1.5e-6`},
		{1e-7, `1e-7`},
		{math.NaN(), `null`},
		{math.Inf(1), `null`},
		{math.Inf(-1), `null`},
	}

	for _, tt := range tests {
		got, err := Number(tt.in).MarshalJSON()
		require.NoError(t, err)
		assert.Equal(t, `{"kind":"number","value":`+tt.want+`}`, string(got), "input %v", tt.in)
	}
}

func TestValue_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, v := range []Value{Null(), Number(42), Number(-0.5), String(""), String("hi"), Ref("dict#1")} {
		data, err := json.Marshal(v)
		require.NoError(t, err)

		var got Value
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, v, got)
	}
}

func TestValue_UnmarshalNonFinite(t *testing.T) {
	var v Value
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"number","value":null}`), &v))
	n, ok := v.Number()
	require.True(t, ok)
	assert.True(t, math.IsNaN(n))
}

func TestValue_UnmarshalUnknownKind(t *testing.T) {
	var v Value
	err := json.Unmarshal([]byte(`{"kind":"bool","value":true}`), &v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown value kind "bool"`)
}

func TestResponse_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		var r Response
		err := json.Unmarshal([]byte(`{"success":true,"objects":{"list#1":{"members":[{"key":{"kind":"number","value":0.0},"value":null}]}},"value":{"kind":"ref","value":"list#1"}}`), &r)
		require.NoError(t, err)
		assert.True(t, r.Success)
		assert.Equal(t, Ref("list#1"), r.Value)
		require.Contains(t, r.Objects, Reference("list#1"))
		assert.Equal(t, []ObjectMember{{Key: Number(0), Value: Null()}}, r.Objects["list#1"].Members)
	})

	t.Run("failure", func(t *testing.T) {
		var r Response
		require.NoError(t, json.Unmarshal([]byte(`{"success":false,"error":"boom"}`), &r))
		assert.Equal(t, Failure("boom"), r)
	})

	t.Run("missing success", func(t *testing.T) {
		var r Response
		err := json.Unmarshal([]byte(`{"error":"boom"}`), &r)
		require.Error(t, err)
	})
}

func TestResponse_References(t *testing.T) {
	r := Success(map[Reference]Object{
		"a": {Members: []ObjectMember{{Key: String("k"), Value: Ref("b")}}},
		"b": {Members: []ObjectMember{{Key: Ref("a"), Value: Ref("b")}}},
	}, Ref("a"))

	assert.ElementsMatch(t, []Reference{"a", "b"}, r.References())
	assert.Empty(t, Failure("x").References())
}
