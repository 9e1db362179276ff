package envutil

import (
	"context"
	"maps"
)

type envContextKey struct{}

// WithEnvOverride returns a context in which reads of key see value instead
// of the process environment.
func WithEnvOverride(ctx context.Context, key string, value string) context.Context {
	return WithEnvOverrides(ctx, map[string]string{key: value})
}

// WithEnvOverrides is WithEnvOverride for several keys at once. Overrides
// already present in ctx are kept unless replaced.
func WithEnvOverrides(ctx context.Context, values map[string]string) context.Context {
	merged := make(map[string]string, len(values))

	if prev, ok := ctx.Value(envContextKey{}).(map[string]string); ok {
		maps.Copy(merged, prev)
	}

	maps.Copy(merged, values)

	return context.WithValue(ctx, envContextKey{}, merged)
}

func getEnvOverride(ctx context.Context, key string) (string, bool) {
	if ctx == nil {
		return "", false
	}

	overrides, ok := ctx.Value(envContextKey{}).(map[string]string)
	if !ok {
		return "", false
	}

	val, ok := overrides[key]

	return val, ok
}
