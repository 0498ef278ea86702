package script

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdapter struct {
	lang string
	opts Options
}

func (f *fakeAdapter) Language() string { return f.lang }

func (f *fakeAdapter) Evaluate(context.Context, string) (Value, error) {
	return Null(), nil
}

func fakeFactory(lang string) Factory {
	return func(opts Options) (Adapter, error) {
		return &fakeAdapter{lang: lang, opts: opts}, nil
	}
}

func TestRegistry_Register(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		lang      string
		factory   Factory
		wantError error
	}{
		{name: "valid", lang: "fake", factory: fakeFactory("fake")},
		{name: "empty name", lang: " ", factory: fakeFactory("x"), wantError: ErrUnsupportedLanguage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			err := r.Register(tt.lang, tt.factory)
			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.True(t, r.Has(tt.lang))
		})
	}

	t.Run("nil factory", func(t *testing.T) {
		r := NewRegistry()
		require.Error(t, r.Register("fake", nil))
		assert.False(t, r.Has("fake"))
	})

	t.Run("duplicate", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register("fake", fakeFactory("fake")))
		require.ErrorIs(t, r.Register("fake", fakeFactory("fake")), ErrDuplicateLanguage)
	})
}

func TestRegistry_New(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("fake", fakeFactory("fake")))
	r.SetPrelude("fake", "x = 1")

	t.Run("known language receives prelude", func(t *testing.T) {
		a, err := r.New("fake", Options{})
		require.NoError(t, err)
		assert.Equal(t, "fake", a.Language())
		assert.Equal(t, "x = 1", a.(*fakeAdapter).opts.Prelude)
	})

	t.Run("explicit prelude wins", func(t *testing.T) {
		a, err := r.New("fake", Options{Prelude: "y = 2"})
		require.NoError(t, err)
		assert.Equal(t, "y = 2", a.(*fakeAdapter).opts.Prelude)
	})

	t.Run("unknown language", func(t *testing.T) {
		a, err := r.New("cobol", Options{})
		require.ErrorIs(t, err, ErrUnsupportedLanguage)
		assert.Contains(t, err.Error(), "cobol")
		assert.Nil(t, a)
	})

	t.Run("factory failure", func(t *testing.T) {
		cause := errors.New("prelude failed")
		require.NoError(t, r.Register("broken", func(Options) (Adapter, error) {
			return nil, cause
		}))

		a, err := r.New("broken", Options{})
		require.ErrorIs(t, err, ErrRuntimeStart)
		require.ErrorIs(t, err, cause)
		assert.NotErrorIs(t, err, ErrUnsupportedLanguage)
		assert.Equal(t, "failed to start broken runtime: prelude failed", err.Error())
		assert.Nil(t, a)
	})
}

func TestRegistry_Languages(t *testing.T) {
	r := NewRegistry()
	assert.Empty(t, r.Languages())

	require.NoError(t, r.Register("zeta", fakeFactory("zeta")))
	require.NoError(t, r.Register("alpha", fakeFactory("alpha")))
	assert.Equal(t, []string{"alpha", "zeta"}, r.Languages())
}
