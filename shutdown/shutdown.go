// Package shutdown ties process signals to a root context and runs cleanup
// hooks before that context is cancelled.
package shutdown

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

var (
	mut     sync.Mutex     //nolint:gochecknoglobals
	hooks   []func()       //nolint:gochecknoglobals
	trigger chan os.Signal //nolint:gochecknoglobals
)

// BeforeShutdown registers a function to be called before
// the shutdown process begins. The top-level context will
// still be alive at this point, so you can use it to clean
// up resources if needed.
func BeforeShutdown(h func()) {
	mut.Lock()
	defer mut.Unlock()

	hooks = append(hooks, h)
}

// Shutdown triggers the shutdown process programmatically. Without a
// handler installed by SetupHandler, the hooks run synchronously.
func Shutdown() {
	mut.Lock()
	ch := trigger
	mut.Unlock()

	if ch == nil {
		runHooks()

		return
	}

	select {
	case ch <- os.Interrupt:
	default:
	}
}

// SetupHandler returns a context that is cancelled after SIGINT or SIGTERM
// (or a call to Shutdown) once the registered hooks have run.
func SetupHandler() context.Context {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	mut.Lock()
	trigger = sigs
	mut.Unlock()

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		sig := <-sigs

		signal.Stop(sigs)

		slog.Warn("shutting down", "signal", sig.String())

		mut.Lock()
		if trigger == sigs {
			trigger = nil
		}
		mut.Unlock()

		runHooks()
		cancel()
	}()

	return ctx
}

func runHooks() {
	mut.Lock()
	pending := hooks
	hooks = nil
	mut.Unlock()

	for _, h := range pending {
		h()
	}
}
