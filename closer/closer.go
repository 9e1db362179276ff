// Package closer provides utilities for managing io.Closer resources.
//
// The package includes:
//   - Closer: closes a list of io.Closer instances in order, joining errors
//   - CloseOnce: a thread-safe wrapper that closes the underlying closer once
//   - CancelableCloser: a closer whose close can be called off
//   - CustomCloser: an io.Closer from any cleanup function
//   - ForReader, ForWriter: a stream paired with the closers that release it
package closer

import (
	"errors"
	"io"
	"sync"

	"go.uber.org/atomic"
)

type customCloser struct {
	closeFn func() error
}

// CustomCloser creates an io.Closer from a cleanup function.
// Returns nil if closeFn is nil.
//
//	collector := NewCloser()
//	collector.Add(CustomCloser(bufWriter.Flush))
//	collector.Add(file)
//	defer collector.Close()
func CustomCloser(closeFn func() error) io.Closer {
	if closeFn == nil {
		return nil
	}

	return &customCloser{closeFn: closeFn}
}

func (c *customCloser) Close() error {
	return c.closeFn()
}

// Closer is a collector that manages multiple io.Closer instances.
// Every closer is attempted even when an earlier one fails.
type Closer struct {
	closers []io.Closer
}

// NewCloser creates a new Closer with zero or more initial io.Closer instances.
func NewCloser(closers ...io.Closer) *Closer {
	return &Closer{closers: closers}
}

// Add adds an io.Closer to the collection. Nil closers are skipped on Close.
//
// Add is not thread-safe.
func (c *Closer) Add(closer io.Closer) {
	c.closers = append(c.closers, closer)
}

// Len returns the number of registered closers.
func (c *Closer) Len() int {
	return len(c.closers)
}

// Close closes all registered closers in the order they were added and
// returns the failures joined with errors.Join, or nil.
func (c *Closer) Close() error {
	var errs []error

	for _, closer := range c.closers {
		if closer == nil {
			continue
		}

		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

type closeOnceImpl struct {
	mut    sync.Mutex
	closed *atomic.Bool
	closer io.Closer
}

// CloseOnce wraps an io.Closer so that it is closed at most once.
// Later calls return nil.
//
// A failed Close does not count: the resource is not marked closed and a
// later call retries. Wrapping an already wrapped closer returns it unchanged.
// Returns nil if closer is nil.
func CloseOnce(closer io.Closer) io.Closer {
	if closer == nil {
		return nil
	}

	if once, ok := closer.(*closeOnceImpl); ok {
		return once
	}

	return &closeOnceImpl{closed: atomic.NewBool(false), closer: closer}
}

func (c *closeOnceImpl) Close() error {
	if c.closed.Load() {
		return nil
	}

	c.mut.Lock()
	defer c.mut.Unlock()

	if c.closed.Load() {
		return nil
	}

	if err := c.closer.Close(); err != nil {
		return err
	}

	c.closed.Store(true)

	return nil
}

type cancelableCloser struct {
	shouldClose *atomic.Bool
	closer      io.Closer
}

func (c *cancelableCloser) Close() error {
	if c.shouldClose.CompareAndSwap(true, false) {
		return c.closer.Close()
	}

	return nil
}

func (c *cancelableCloser) cancel() {
	c.shouldClose.Store(false)
}

// CancelableCloser returns a closer that closes c unless cancel was called
// first. It is meant for setup code that must release a resource on every
// error path but hand it over on success:
//
//	f, err := os.Create(path)
//	if err != nil {
//	    return nil, err
//	}
//	cleanup, cancel := CancelableCloser(f)
//	defer cleanup.Close()
//
//	// ... more setup that may fail ...
//
//	cancel()
//	return f, nil
func CancelableCloser(c io.Closer) (closer io.Closer, cancel func()) {
	if c == nil {
		return nil, func() {}
	}

	if cc, ok := c.(*cancelableCloser); ok {
		return cc, cc.cancel
	}

	cc := &cancelableCloser{
		shouldClose: atomic.NewBool(true),
		closer:      c,
	}

	return cc, cc.cancel
}

type readCloser struct {
	io.Reader
	io.Closer
}

// ForReader pairs r with closers that are closed, in order and once, when
// the returned ReadCloser is closed.
func ForReader(r io.Reader, closers ...io.Closer) io.ReadCloser {
	return &readCloser{Reader: r, Closer: CloseOnce(NewCloser(closers...))}
}

type writeCloser struct {
	io.Writer
	io.Closer
}

// ForWriter pairs w with closers that are closed, in order and once, when
// the returned WriteCloser is closed. Put flushers before the files they
// flush into.
func ForWriter(w io.Writer, closers ...io.Closer) io.WriteCloser {
	return &writeCloser{Writer: w, Closer: CloseOnce(NewCloser(closers...))}
}
