package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/atlanticdynamic/lynxeval/internal/config"
)

const validConfig = `version = "v1"

[http]
address = "127.0.0.1:9001"

[limits]
max_steps = 5000
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lynxeval.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(t.Context(), append([]string{"lynxeval"}, args...))
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := runApp(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "lynxeval version dev\n", out)
}

func TestValidateCommand(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := writeConfig(t, validConfig)
		out, err := runApp(t, "validate", path)
		require.NoError(t, err)
		assert.Contains(t, out, "valid")
		assert.Contains(t, out, path)
		assert.Contains(t, out, "address: 127.0.0.1:9001")
		assert.Contains(t, out, "languages: starlark")
	})

	t.Run("tree view", func(t *testing.T) {
		path := writeConfig(t, validConfig)
		out, err := runApp(t, "validate", "--tree", path)
		require.NoError(t, err)
		assert.Contains(t, out, "lynxeval config (v1)")
		assert.Contains(t, out, "5000")
	})

	t.Run("invalid file", func(t *testing.T) {
		good := writeConfig(t, validConfig)
		bad := writeConfig(t, "[logging]\nlevel = \"loud\"\n")
		out, err := runApp(t, "lint", good, bad)
		require.ErrorIs(t, err, errValidationFailed)
		assert.Contains(t, err.Error(), "1 of 2 files")
		assert.Contains(t, out, "invalid")
		assert.Contains(t, out, "loud")
	})

	t.Run("no arguments", func(t *testing.T) {
		_, err := runApp(t, "validate")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config file path required")
	})
}

// runServerFlags parses args with the server flags and returns the resulting config.
func runServerFlags(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	var (
		cfg     *config.Config
		loadErr error
	)
	cmd := &cli.Command{
		Name:  "server",
		Flags: serverFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, loadErr = loadServerConfig(cmd)
			return nil
		},
	}
	require.NoError(t, cmd.Run(t.Context(), append([]string{"server"}, args...)))
	return cfg, loadErr
}

func TestLoadServerConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := runServerFlags(t)
		require.NoError(t, err)
		assert.Equal(t, config.NewDefault(), cfg)
	})

	t.Run("file with flag overrides", func(t *testing.T) {
		path := writeConfig(t, validConfig)
		cfg, err := runServerFlags(t, "-c", path, "--listen", ":7070", "--log-level", "debug", "--log-format", "json")
		require.NoError(t, err)
		assert.Equal(t, ":7070", cfg.HTTP.Address)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, "json", cfg.Logging.Format)
		assert.Equal(t, uint64(5000), cfg.Limits.MaxSteps)
	})

	t.Run("invalid override", func(t *testing.T) {
		_, err := runServerFlags(t, "--log-format", "xml")
		require.ErrorIs(t, err, config.ErrFailedToValidateConfig)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := runServerFlags(t, "--config", filepath.Join(t.TempDir(), "none.toml"))
		require.ErrorIs(t, err, config.ErrFailedToLoadConfig)
	})
}
