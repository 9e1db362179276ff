package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"log/slog"
	"strings"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// records decodes one JSON object per line.
func records(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var out []map[string]any

	for line := range strings.SplitSeq(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}

		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))

		out = append(out, rec)
	}

	return out
}

func jsonLogger(buf *bytes.Buffer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: level}))
}

func TestGet(t *testing.T) {
	t.Parallel()

	t.Run("subsystem and values", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		ctx := WithLogger(t.Context(), jsonLogger(&buf, slog.LevelInfo))
		ctx = WithSubsystem(ctx, "reader")
		ctx = With(ctx, "run_id", "abc")
		ctx = With(ctx, "strategy", "binaryTree")

		Get(ctx).Info("hello")

		recs := records(t, &buf)
		require.Len(t, recs, 1)
		assert.Equal(t, "hello", recs[0]["msg"])
		assert.Equal(t, "reader", recs[0]["subsystem"])
		assert.Equal(t, "abc", recs[0]["run_id"])
		assert.Equal(t, "binaryTree", recs[0]["strategy"])
	})

	t.Run("with does not leak into parent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		parent := With(WithLogger(t.Context(), jsonLogger(&buf, slog.LevelInfo)), "a", 1)
		_ = With(parent, "b", 2)

		Get(parent).Info("parent")

		recs := records(t, &buf)
		require.Len(t, recs, 1)
		assert.Contains(t, recs[0], "a")
		assert.NotContains(t, recs[0], "b")
	})

	t.Run("muted", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		ctx := WithMuted(WithLogger(t.Context(), jsonLogger(&buf, slog.LevelDebug)), true)
		Get(ctx).Error("nothing")

		assert.Empty(t, buf.String())

		Get(WithMuted(ctx, false)).Info("something")
		assert.Len(t, records(t, &buf), 1)
	})

	t.Run("nil context", func(t *testing.T) {
		t.Parallel()

		assert.NotNil(t, Get(nil)) //nolint:staticcheck
		assert.NotNil(t, Get())
	})

	t.Run("test logger", func(t *testing.T) {
		t.Parallel()

		ctx := WithLogger(t.Context(), slogt.New(t))
		Get(ctx).Info("routed to the test log", "k", "v")
	})
}

func TestAnnotateError(t *testing.T) {
	t.Parallel()

	t.Run("nil", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, AnnotateError(nil, "k", "v"))
	})

	t.Run("unwraps", func(t *testing.T) {
		t.Parallel()

		errBase := errors.New("base")
		err := AnnotateError(errBase, "line", 7)

		require.ErrorIs(t, err, errBase)
		assert.Equal(t, "base", err.Error())

		attrs := ErrorAttrs(err)
		require.Len(t, attrs, 1)
		assert.Equal(t, "line", attrs[0].Key)
		assert.Equal(t, int64(7), attrs[0].Value.Int64())
	})

	t.Run("attributes are logged", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		ctx := WithLogger(t.Context(), jsonLogger(&buf, slog.LevelInfo))
		err := AnnotateError(errors.New("bad line"), "line", 3, "path", "in.txt")

		Get(ctx).Warn("skipping", "error", err)

		recs := records(t, &buf)
		require.Len(t, recs, 1)
		assert.Equal(t, "bad line", recs[0]["error"])
		assert.InDelta(t, 3, recs[0]["line"], 0)
		assert.Equal(t, "in.txt", recs[0]["path"])
	})

	t.Run("plain errors pass through", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		ctx := WithLogger(t.Context(), jsonLogger(&buf, slog.LevelInfo))
		Get(ctx).Warn("failed", "error", errors.New("plain"))

		recs := records(t, &buf)
		require.Len(t, recs, 1)
		assert.Equal(t, "plain", recs[0]["error"])
	})
}

func TestFanout(t *testing.T) {
	t.Parallel()

	var debugBuf, warnBuf bytes.Buffer

	handler := newFanout(
		slog.NewJSONHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewJSONHandler(&warnBuf, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)

	assert.True(t, handler.Enabled(t.Context(), slog.LevelDebug))

	lg := slog.New(handler).With("k", "v").WithGroup("g")
	lg.Debug("quiet")
	lg.Warn("loud", "x", 1)

	assert.Len(t, records(t, &debugBuf), 2)

	recs := records(t, &warnBuf)
	require.Len(t, recs, 1)
	assert.Equal(t, "loud", recs[0]["msg"])
	assert.Equal(t, "v", recs[0]["k"])
	assert.Equal(t, map[string]any{"x": float64(1)}, recs[0]["g"])
}

func TestConfigureLoggingWithOptions(t *testing.T) { //nolint:paralleltest
	var primary, extra bytes.Buffer

	ConfigureLoggingWithOptions(Options{
		Subsystem:     "namesort-test",
		JSON:          true,
		MinLevel:      slog.LevelInfo,
		LegacyLevel:   slog.LevelWarn,
		Output:        &primary,
		ExtraHandlers: []slog.Handler{slog.NewJSONHandler(&extra, nil)},
	})

	Get().Info("configured")
	log.Println("legacy")

	recs := records(t, &primary)
	require.Len(t, recs, 2)
	assert.Equal(t, "namesort-test", recs[0]["subsystem"])
	assert.Equal(t, "legacy", recs[1]["msg"])
	assert.Equal(t, "WARN", recs[1]["level"])

	assert.Len(t, records(t, &extra), 2)
}

func TestConfigureLogging(t *testing.T) { //nolint:paralleltest
	t.Setenv("LOG_JSON", "true")
	t.Setenv("LOG_LEVEL", "warn")

	var buf bytes.Buffer

	ConfigureLogging(t.Context(), "namesort", WithOutput(&buf))

	Get().Info("filtered")
	Get().Warn("kept")

	recs := records(t, &buf)
	require.Len(t, recs, 1)
	assert.Equal(t, "kept", recs[0]["msg"])
	assert.Equal(t, "namesort", recs[0]["subsystem"])
}
