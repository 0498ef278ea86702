package starlark

import (
	"testing"

	"github.com/atlanticdynamic/lynxeval/internal/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lark "go.starlark.net/starlark"
)

func TestToValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, script.Null(), toValue(nil))
	assert.Equal(t, script.Null(), toValue(lark.None))
	assert.Equal(t, script.Number(7), toValue(lark.MakeInt(7)))
	assert.Equal(t, script.Number(0.25), toValue(lark.Float(0.25)))
	assert.Equal(t, script.String("s"), toValue(lark.String("s")))
	assert.Equal(t, script.String("False"), toValue(lark.False))
	assert.Equal(t, script.String("<built-in function len>"), toValue(lark.Universe["len"]))
}

func TestToValue_EmptyTuplesShareIdentity(t *testing.T) {
	t.Parallel()

	a, ok := toValue(lark.Tuple{}).Composite()
	require.True(t, ok)
	b, ok := toValue(lark.Tuple(nil)).Composite()
	require.True(t, ok)
	assert.Equal(t, a.Identity(), b.Identity())
}

func TestToValue_RangeStopsOnError(t *testing.T) {
	t.Parallel()

	list := lark.NewList([]lark.Value{lark.MakeInt(1), lark.MakeInt(2), lark.MakeInt(3)})
	c, ok := toValue(list).Composite()
	require.True(t, ok)

	calls := 0
	err := c.Range(func(_, _ script.Value) error {
		calls++
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, calls)
}
