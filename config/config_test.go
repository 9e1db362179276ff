package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/amp-labs/name-sorter/envutil"
	"github.com/amp-labs/name-sorter/sorter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolated hides any NAMESORT_* variables set in the test environment.
func isolated(ctx context.Context) context.Context {
	return envutil.WithEnvOverrides(ctx, map[string]string{
		EnvInputFile:  "",
		EnvOutputFile: "",
		EnvStrategy:   "",
	})
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "application.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := Load(isolated(t.Context()), "")
		require.NoError(t, err)
		assert.Equal(t, Config{
			InputFile:  "./names.txt",
			OutputFile: "./sorted-names-list.txt",
			Strategy:   "binaryTree",
		}, cfg)
	})

	t.Run("file", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `
app:
  input:
    file: ./data/unsorted-names-list.txt
  service:
    type: collection
`)

		cfg, err := Load(isolated(t.Context()), path)
		require.NoError(t, err)
		assert.Equal(t, Config{
			InputFile:  "./data/unsorted-names-list.txt",
			OutputFile: DefaultOutputFile,
			Strategy:   "collection",
		}, cfg)
	})

	t.Run("environment beats file", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "app:\n  output:\n    file: from-file.txt\n  service:\n    type: collection\n")

		ctx := envutil.WithEnvOverrides(isolated(t.Context()), map[string]string{
			EnvOutputFile: "from-env.txt",
			EnvStrategy:   "binaryTree",
		})

		cfg, err := Load(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, "from-env.txt", cfg.OutputFile)
		assert.Equal(t, "binaryTree", cfg.Strategy)
		assert.Equal(t, DefaultInputFile, cfg.InputFile)
	})

	t.Run("unknown strategy in environment", func(t *testing.T) {
		t.Parallel()

		ctx := envutil.WithEnvOverride(isolated(t.Context()), EnvStrategy, "bubble")

		_, err := Load(ctx, "")
		require.ErrorIs(t, err, ErrInvalidConfig)
		require.ErrorIs(t, err, sorter.ErrUnknownStrategy)
		assert.Contains(t, err.Error(), EnvStrategy)
	})

	t.Run("strategy from environment ignores case", func(t *testing.T) {
		t.Parallel()

		ctx := envutil.WithEnvOverride(isolated(t.Context()), EnvStrategy, " COLLECTION ")

		cfg, err := Load(ctx, "")
		require.NoError(t, err)

		kind, err := cfg.Kind()
		require.NoError(t, err)
		assert.Equal(t, sorter.Collection, kind)
	})

	t.Run("empty file", func(t *testing.T) {
		t.Parallel()

		cfg, err := Load(isolated(t.Context()), writeConfig(t, ""))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("unknown key", func(t *testing.T) {
		t.Parallel()

		_, err := Load(isolated(t.Context()), writeConfig(t, "app:\n  input:\n    path: x\n"))
		require.ErrorIs(t, err, ErrConfigFile)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := Load(isolated(t.Context()), filepath.Join(t.TempDir(), "nope.yml"))
		require.ErrorIs(t, err, ErrConfigFile)
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestWithArgs(t *testing.T) {
	t.Parallel()

	base := Default()

	assert.Equal(t, base, base.WithArgs())

	one := base.WithArgs("in.txt")
	assert.Equal(t, "in.txt", one.InputFile)
	assert.Equal(t, DefaultOutputFile, one.OutputFile)

	two := base.WithArgs("in.txt", "out.txt", "ignored")
	assert.Equal(t, "in.txt", two.InputFile)
	assert.Equal(t, "out.txt", two.OutputFile)

	assert.Equal(t, DefaultInputFile, base.InputFile, "receiver is not modified")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, Default().Validate())

	kind, err := Config{Strategy: "COLLECTION"}.Kind()
	require.NoError(t, err)
	assert.Equal(t, sorter.Collection, kind)

	err = Config{InputFile: " ", OutputFile: "", Strategy: "shell"}.Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
	require.ErrorIs(t, err, sorter.ErrUnknownStrategy)
	assert.Contains(t, err.Error(), "input file is empty")
	assert.Contains(t, err.Error(), "output file is empty")
}
