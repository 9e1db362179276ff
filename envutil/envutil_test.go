package envutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	t.Parallel()

	t.Run("override wins", func(t *testing.T) {
		t.Parallel()

		ctx := WithEnvOverride(t.Context(), "NAMESORT_TEST_STRING", "hello")

		val, err := String(ctx, "NAMESORT_TEST_STRING").Value()
		require.NoError(t, err)
		assert.Equal(t, "hello", val)
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()

		rdr := String(t.Context(), "NAMESORT_TEST_DEFINITELY_UNSET")
		assert.False(t, rdr.HasValue())

		_, err := rdr.Value()
		require.ErrorIs(t, err, ErrEnvVarMissing)
		assert.Equal(t, "NAMESORT_TEST_DEFINITELY_UNSET=<not set>", rdr.String())
	})

	t.Run("default", func(t *testing.T) {
		t.Parallel()

		val, err := String(t.Context(), "NAMESORT_TEST_DEFINITELY_UNSET", Default("fallback")).Value()
		require.NoError(t, err)
		assert.Equal(t, "fallback", val)
	})

	t.Run("one of", func(t *testing.T) {
		t.Parallel()

		ctx := WithEnvOverride(t.Context(), "NAMESORT_TEST_CHOICE", "c")

		rdr := String(ctx, "NAMESORT_TEST_CHOICE", OneOf("a", "b"))
		assert.True(t, rdr.HasError())
		assert.Equal(t, "z", rdr.ValueOrElse("z"))

		val, err := String(ctx, "NAMESORT_TEST_CHOICE", OneOf("a", "c")).Value()
		require.NoError(t, err)
		assert.Equal(t, "c", val)
	})
}

func TestString_ProcessEnvironment(t *testing.T) { //nolint:paralleltest
	t.Setenv("NAMESORT_TEST_FROM_OS", "from-os")

	assert.Equal(t, "from-os", String(t.Context(), "NAMESORT_TEST_FROM_OS").ValueOrElse(""))

	ctx := WithEnvOverride(t.Context(), "NAMESORT_TEST_FROM_OS", "from-ctx")
	assert.Equal(t, "from-ctx", String(ctx, "NAMESORT_TEST_FROM_OS").ValueOrElse(""))
}

func TestBool(t *testing.T) {
	t.Parallel()

	ctx := WithEnvOverrides(t.Context(), map[string]string{
		"T1": "true",
		"T2": " 0 ",
		"T3": "maybe",
	})

	assert.True(t, Bool(ctx, "T1").ValueOrElse(false))
	assert.False(t, Bool(ctx, "T2").ValueOrElse(true))

	_, err := Bool(ctx, "T3").Value()
	require.ErrorIs(t, err, ErrBadEnvVar)

	assert.True(t, Bool(ctx, "T4", Default(true)).ValueOrElse(false))
}

func TestSlogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       string
		expected slog.Level
		wantErr  bool
	}{
		{in: "debug", expected: slog.LevelDebug},
		{in: " INFO ", expected: slog.LevelInfo},
		{in: "warning", expected: slog.LevelWarn},
		{in: "Error", expected: slog.LevelError},
		{in: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			ctx := WithEnvOverride(t.Context(), "LEVEL", tt.in)

			got, err := SlogLevel(ctx, "LEVEL").Value()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidLogLevel)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDuration(t *testing.T) {
	t.Parallel()

	ctx := WithEnvOverride(t.Context(), "TIMEOUT", "250ms")
	assert.Equal(t, 250*time.Millisecond, Duration(ctx, "TIMEOUT").ValueOrElse(0))
	assert.Equal(t, time.Second, Duration(ctx, "OTHER", Default(time.Second)).ValueOrElse(0))
}

func TestWithEnvOverrides_Merges(t *testing.T) {
	t.Parallel()

	ctx := WithEnvOverride(t.Context(), "A", "1")
	ctx = WithEnvOverrides(ctx, map[string]string{"B": "2"})
	ctx = WithEnvOverride(ctx, "A", "3")

	assert.Equal(t, "3", String(ctx, "A").ValueOrElse(""))
	assert.Equal(t, "2", String(ctx, "B").ValueOrElse(""))
}

func TestLoadEnvFile(t *testing.T) {
	t.Parallel()

	write := func(t *testing.T, name, content string) string {
		t.Helper()

		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		return path
	}

	t.Run("dotenv", func(t *testing.T) {
		t.Parallel()

		path := write(t, "app.env", "# comment\nNAMESORT_STRATEGY=collection\nexport LOG_LEVEL=\"debug\"\n")

		vars, err := LoadEnvFile(path)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"NAMESORT_STRATEGY": "collection", "LOG_LEVEL": "debug"}, vars)
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		path := write(t, "app.json", `{"env": {"LOG_JSON": "true"}}`)

		vars, err := LoadEnvFile(path)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"LOG_JSON": "true"}, vars)
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()

		path := write(t, "app.yaml", "env:\n  NAMESORT_INPUT_FILE: ./in.txt\n  LOG_LEVEL: warn\n")

		vars, err := LoadEnvFile(path)
		require.NoError(t, err)
		assert.Equal(t, "./in.txt", vars["NAMESORT_INPUT_FILE"])
		assert.Equal(t, "warn", vars["LOG_LEVEL"])
	})

	t.Run("yaml without env section", func(t *testing.T) {
		t.Parallel()

		path := write(t, "app.yml", "other: 1\n")

		vars, err := LoadEnvFile(path)
		require.NoError(t, err)
		assert.Empty(t, vars)
	})

	t.Run("unknown suffix", func(t *testing.T) {
		t.Parallel()

		path := write(t, "app.toml", "x = 1")

		_, err := LoadEnvFile(path)
		require.ErrorIs(t, err, ErrUnknownFileType)
	})

	t.Run("with env file feeds readers", func(t *testing.T) {
		t.Parallel()

		path := write(t, "app.env", "NAMESORT_TEST_FILE_KEY=from-file\n")

		ctx, err := WithEnvFile(t.Context(), path)
		require.NoError(t, err)
		assert.Equal(t, "from-file", String(ctx, "NAMESORT_TEST_FILE_KEY").ValueOrElse(""))
	})
}
