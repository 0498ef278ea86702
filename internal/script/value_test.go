package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubComposite struct {
	id string
}

func (s *stubComposite) Identity() any                            { return s }
func (s *stubComposite) TypeName() string                         { return "stub" }
func (s *stubComposite) Range(func(key, value Value) error) error { return nil }

func TestValue_Variants(t *testing.T) {
	t.Parallel()

	t.Run("zero value is null", func(t *testing.T) {
		var v Value
		assert.Equal(t, KindNull, v.Kind())
		assert.Equal(t, "null", v.String())
	})

	t.Run("number", func(t *testing.T) {
		v := Number(1.5)
		n, ok := v.Number()
		assert.True(t, ok)
		assert.Equal(t, 1.5, n)
		_, ok = v.Str()
		assert.False(t, ok)
	})

	t.Run("string", func(t *testing.T) {
		v := String("hi")
		s, ok := v.Str()
		assert.True(t, ok)
		assert.Equal(t, "hi", s)
		assert.Equal(t, `"hi"`, v.String())
	})

	t.Run("composite", func(t *testing.T) {
		c := &stubComposite{id: "a"}
		v := Object(c)
		got, ok := v.Composite()
		assert.True(t, ok)
		assert.Same(t, c, got)
		assert.Equal(t, "<stub>", v.String())
	})

	t.Run("nil composite is null", func(t *testing.T) {
		assert.Equal(t, KindNull, Object(nil).Kind())
	})
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "null", KindNull.String())
	assert.Equal(t, "number", KindNumber.String())
	assert.Equal(t, "string", KindString.String())
	assert.Equal(t, "composite", KindComposite.String())
	assert.Equal(t, "Kind(42)", Kind(42).String())
}

func TestLimits_Unbounded(t *testing.T) {
	assert.True(t, Limits{}.Unbounded())
	assert.False(t, Limits{MaxSteps: 10}.Unbounded())
	assert.False(t, Limits{Timeout: 1}.Unbounded())
}
