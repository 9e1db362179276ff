package closer

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errFirst  = errors.New("first")
	errSecond = errors.New("second")
)

// recorder appends its name to a shared log when closed.
type recorder struct {
	name  string
	log   *[]string
	err   error
	mu    *sync.Mutex
	calls int
}

func (r *recorder) Close() error {
	if r.mu != nil {
		r.mu.Lock()
		defer r.mu.Unlock()
	}

	r.calls++
	*r.log = append(*r.log, r.name)

	return r.err
}

func TestCustomCloser(t *testing.T) {
	t.Parallel()

	assert.Nil(t, CustomCloser(nil))

	called := false
	c := CustomCloser(func() error {
		called = true

		return errFirst
	})

	require.ErrorIs(t, c.Close(), errFirst)
	assert.True(t, called)
}

func TestCloser(t *testing.T) {
	t.Parallel()

	t.Run("closes in order", func(t *testing.T) {
		t.Parallel()

		var log []string

		c := NewCloser(&recorder{name: "a", log: &log})
		c.Add(nil)
		c.Add(&recorder{name: "b", log: &log})

		assert.Equal(t, 3, c.Len())
		require.NoError(t, c.Close())
		assert.Equal(t, []string{"a", "b"}, log)
	})

	t.Run("joins errors and keeps going", func(t *testing.T) {
		t.Parallel()

		var log []string

		c := NewCloser(
			&recorder{name: "a", log: &log, err: errFirst},
			&recorder{name: "b", log: &log},
			&recorder{name: "c", log: &log, err: errSecond},
		)

		err := c.Close()
		require.ErrorIs(t, err, errFirst)
		require.ErrorIs(t, err, errSecond)
		assert.Equal(t, []string{"a", "b", "c"}, log)
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, NewCloser().Close())
	})
}

func TestCloseOnce(t *testing.T) {
	t.Parallel()

	t.Run("nil", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, CloseOnce(nil))
	})

	t.Run("idempotent wrap", func(t *testing.T) {
		t.Parallel()

		var log []string

		once := CloseOnce(&recorder{name: "a", log: &log})
		assert.Same(t, once, CloseOnce(once))
	})

	t.Run("closes once", func(t *testing.T) {
		t.Parallel()

		var log []string

		rec := &recorder{name: "a", log: &log}
		once := CloseOnce(rec)

		require.NoError(t, once.Close())
		require.NoError(t, once.Close())
		assert.Equal(t, 1, rec.calls)
	})

	t.Run("retries after failure", func(t *testing.T) {
		t.Parallel()

		var log []string

		rec := &recorder{name: "a", log: &log, err: errFirst}
		once := CloseOnce(rec)

		require.ErrorIs(t, once.Close(), errFirst)

		rec.err = nil
		require.NoError(t, once.Close())
		require.NoError(t, once.Close())
		assert.Equal(t, 2, rec.calls)
	})

	t.Run("concurrent", func(t *testing.T) {
		t.Parallel()

		var (
			log []string
			mu  sync.Mutex
			wg  sync.WaitGroup
		)

		rec := &recorder{name: "a", log: &log, mu: &mu}
		once := CloseOnce(rec)

		for range 50 {
			wg.Go(func() {
				_ = once.Close()
			})
		}

		wg.Wait()
		assert.Equal(t, 1, rec.calls)
	})
}

func TestCancelableCloser(t *testing.T) {
	t.Parallel()

	t.Run("closes when not cancelled", func(t *testing.T) {
		t.Parallel()

		var log []string

		rec := &recorder{name: "a", log: &log}
		c, _ := CancelableCloser(rec)

		require.NoError(t, c.Close())
		require.NoError(t, c.Close())
		assert.Equal(t, 1, rec.calls)
	})

	t.Run("cancel skips close", func(t *testing.T) {
		t.Parallel()

		var log []string

		rec := &recorder{name: "a", log: &log}
		c, cancel := CancelableCloser(rec)
		cancel()

		require.NoError(t, c.Close())
		assert.Zero(t, rec.calls)
	})

	t.Run("nil", func(t *testing.T) {
		t.Parallel()

		c, cancel := CancelableCloser(nil)
		assert.Nil(t, c)
		assert.NotPanics(t, cancel)
	})
}

func TestForReader(t *testing.T) {
	t.Parallel()

	var log []string

	rc := ForReader(strings.NewReader("Janet Parsons\n"),
		&recorder{name: "decoder", log: &log},
		&recorder{name: "file", log: &log})

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "Janet Parsons\n", string(data))

	require.NoError(t, rc.Close())
	require.NoError(t, rc.Close())
	assert.Equal(t, []string{"decoder", "file"}, log)
}

func TestForWriter(t *testing.T) {
	t.Parallel()

	var (
		buf bytes.Buffer
		log []string
	)

	wc := ForWriter(&buf,
		&recorder{name: "flush", log: &log},
		&recorder{name: "file", log: &log, err: errSecond})

	_, err := io.WriteString(wc, "Vaughn Lewis\n")
	require.NoError(t, err)

	require.ErrorIs(t, wc.Close(), errSecond)
	assert.Equal(t, "Vaughn Lewis\n", buf.String())
	assert.Equal(t, []string{"flush", "file"}, log)
}
