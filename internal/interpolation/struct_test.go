package interpolation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLanguage struct {
	Prelude string `env_interpolation:"yes"`
	Name    string
}

type testHeaders struct {
	Set    map[string]string `env_interpolation:"yes"`
	Remove []string          `env_interpolation:"yes"`
}

type testConfig struct {
	Address   string                  `env_interpolation:"yes"`
	Version   string                  // untagged
	Headers   testHeaders             `env_interpolation:"yes"`
	Languages map[string]testLanguage `env_interpolation:"yes"`
	Fallback  *testLanguage           `env_interpolation:"yes"`
	Extra     []testLanguage          `env_interpolation:"yes"`
	Skipped   testLanguage
	Count     int `env_interpolation:"yes"`
	private   string
}

func TestInterpolateStruct(t *testing.T) {
	t.Setenv("LYNX_TEST_PORT", "9000")
	t.Setenv("LYNX_TEST_DIR", "/etc/lynx")

	cfg := &testConfig{
		Address: ":${LYNX_TEST_PORT}",
		Version: "${LYNX_TEST_PORT}",
		Headers: testHeaders{
			Set:    map[string]string{"X-Port": "${LYNX_TEST_PORT}"},
			Remove: []string{"X-${LYNX_TEST_UNSET:Powered-By}", ""},
		},
		Languages: map[string]testLanguage{
			"starlark": {Prelude: "file://${LYNX_TEST_DIR}/prelude.star", Name: "${LYNX_TEST_DIR}"},
		},
		Fallback: &testLanguage{Prelude: "${LYNX_TEST_DIR}"},
		Extra:    []testLanguage{{Prelude: "${LYNX_TEST_PORT}"}},
		Skipped:  testLanguage{Prelude: "${LYNX_TEST_DIR}"},
		Count:    3,
		private:  "${LYNX_TEST_DIR}",
	}

	require.NoError(t, InterpolateStruct(cfg))

	assert.Equal(t, ":9000", cfg.Address)
	assert.Equal(t, "${LYNX_TEST_PORT}", cfg.Version)
	assert.Equal(t, "9000", cfg.Headers.Set["X-Port"])
	assert.Equal(t, []string{"X-Powered-By", ""}, cfg.Headers.Remove)
	assert.Equal(t, "file:///etc/lynx/prelude.star", cfg.Languages["starlark"].Prelude)
	assert.Equal(t, "${LYNX_TEST_DIR}", cfg.Languages["starlark"].Name)
	assert.Equal(t, "/etc/lynx", cfg.Fallback.Prelude)
	assert.Equal(t, "9000", cfg.Extra[0].Prelude)
	assert.Equal(t, "${LYNX_TEST_DIR}", cfg.Skipped.Prelude)
	assert.Equal(t, "${LYNX_TEST_DIR}", cfg.private)
}

func TestInterpolateStructErrors(t *testing.T) {
	t.Run("missing variables are reported with their field path", func(t *testing.T) {
		cfg := &testConfig{
			Address:   "${LYNX_TEST_MISSING_ADDR}",
			Headers:   testHeaders{Set: map[string]string{"X-A": "${LYNX_TEST_MISSING_HDR}"}},
			Languages: map[string]testLanguage{"starlark": {Prelude: "${LYNX_TEST_MISSING_PRELUDE}"}},
			Extra:     []testLanguage{{Prelude: "ok"}, {Prelude: "${LYNX_TEST_MISSING_EXTRA}"}},
		}

		err := InterpolateStruct(cfg)
		require.ErrorIs(t, err, ErrUndefinedVariable)
		msg := err.Error()
		assert.Contains(t, msg, "field Address: environment variable not defined: LYNX_TEST_MISSING_ADDR")
		assert.Contains(t, msg, "field Headers: field Set[X-A]: ")
		assert.Contains(t, msg, "field Languages[starlark]: field Prelude: ")
		assert.Contains(t, msg, "field Extra[1]: field Prelude: ")

		// failed entries are left untouched
		assert.Equal(t, "${LYNX_TEST_MISSING_HDR}", cfg.Headers.Set["X-A"])
	})

	t.Run("non pointer", func(t *testing.T) {
		assert.Error(t, InterpolateStruct(testConfig{}))
	})

	t.Run("pointer to non struct", func(t *testing.T) {
		s := "x"
		assert.Error(t, InterpolateStruct(&s))
	})

	t.Run("nil values", func(t *testing.T) {
		assert.NoError(t, InterpolateStruct(nil))
		var cfg *testConfig
		assert.NoError(t, InterpolateStruct(cfg))
		assert.NoError(t, InterpolateStruct(&testConfig{}))
	})
}
