package envutil

import (
	"fmt"
	"slices"
)

// Option is a function which modifies a Reader. It's used by
// functions like String and Bool so that the caller can easily
// provide defaults and validation.
type Option[T any] func(Reader[T]) Reader[T]

// Default allows you to provide a default value for the Reader.
func Default[T any](dfl T) Option[T] {
	return func(rdr Reader[T]) Reader[T] {
		return rdr.WithDefault(dfl)
	}
}

// Validate runs f on the Reader's value. If f returns an error,
// the Reader will return that error.
func Validate[T any](f func(T) error) Option[T] {
	return func(rdr Reader[T]) Reader[T] {
		return rdr.Map(func(val T) (T, error) {
			return val, f(val)
		})
	}
}

// OneOf rejects any value not in allowed.
func OneOf[T comparable](allowed ...T) Option[T] {
	return Validate(func(val T) error {
		if slices.Contains(allowed, val) {
			return nil
		}

		return fmt.Errorf("%w: %v is not one of %v", ErrBadEnvVar, val, allowed)
	})
}
