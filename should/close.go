// Package should provides cleanup helpers for operations that should
// succeed but may fail in practice. Failures are logged instead of
// returned, which suits defer statements.
package should

import (
	"context"
	"io"
	"os"

	"github.com/amp-labs/name-sorter/logger"
)

// Close closes closer and logs msg with the error if that fails.
//
//	defer should.Close(ctx, file, "closing input")
func Close(ctx context.Context, closer io.Closer, msg string) {
	if closer == nil {
		return
	}

	if err := closer.Close(); err != nil {
		logger.Get(ctx).Error(msg, "error", err)
	}
}

// Remove removes path and logs msg with the error if that fails. A path
// that is already gone is not an error.
func Remove(ctx context.Context, path string, msg string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Get(ctx).Error(msg, "path", path, "error", err)
	}
}
