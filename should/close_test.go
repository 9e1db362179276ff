package should_test

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/amp-labs/name-sorter/logger"
	"github.com/amp-labs/name-sorter/should"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errCloseFailed = errors.New("close failed")

type mockCloser struct {
	closeErr error
	closed   bool
}

func (m *mockCloser) Close() error {
	m.closed = true

	return m.closeErr
}

func TestClose(t *testing.T) {
	t.Parallel()

	t.Run("success is silent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		ctx := logger.WithLogger(t.Context(), slog.New(slog.NewTextHandler(&buf, nil)))
		closer := &mockCloser{}

		should.Close(ctx, closer, "closing")

		assert.True(t, closer.closed)
		assert.Empty(t, buf.String())
	})

	t.Run("failure is logged", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		ctx := logger.WithLogger(t.Context(), slog.New(slog.NewTextHandler(&buf, nil)))
		closer := &mockCloser{closeErr: errCloseFailed}

		should.Close(ctx, closer, "failed to close resource")

		assert.True(t, closer.closed)
		assert.Contains(t, buf.String(), "failed to close resource")
		assert.Contains(t, buf.String(), "close failed")
	})

	t.Run("nil closer", func(t *testing.T) {
		t.Parallel()

		assert.NotPanics(t, func() {
			should.Close(t.Context(), nil, "nothing")
		})
	})

	t.Run("real file", func(t *testing.T) {
		t.Parallel()

		file, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
		require.NoError(t, err)

		should.Close(t.Context(), file, "failed to close file")

		_, err = file.WriteString("more")
		assert.Error(t, err)
	})
}

func TestRemove(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	ctx := logger.WithLogger(t.Context(), slog.New(slog.NewTextHandler(&buf, nil)))
	path := filepath.Join(t.TempDir(), "probe")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	should.Remove(ctx, path, "removing probe")

	_, err := os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)

	should.Remove(ctx, path, "removing probe")
	assert.Empty(t, buf.String())
}
