// Package fileio opens name lists for reading and writing. Compressed
// files are handled transparently by extension (.gz, .zst, .br, .lz4) and
// input text is normalized to UTF-8.
package fileio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/amp-labs/name-sorter/closer"
)

var (
	ErrInputNotFound     = errors.New("input file not found")
	ErrInputNotReadable  = errors.New("input file is not readable")
	ErrInvalidPath       = errors.New("invalid path")
	ErrOutputNotWritable = errors.New("output file is not writable")
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// ValidateInput checks that path names an existing, readable regular file.
func ValidateInput(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: input path is empty", ErrInvalidPath)
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}

		return fmt.Errorf("%w: %w", ErrInputNotReadable, err)
	}

	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", ErrInvalidPath, path)
	}

	f, err := os.Open(path) // #nosec G304 -- reading the user's input file
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInputNotReadable, err)
	}

	return f.Close()
}

// PrepareOutput creates the missing parent directories of path and checks
// that the file can be written. An existing file is left untouched; a probe
// file created for the check is removed again.
func PrepareOutput(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: output path is empty", ErrInvalidPath)
	}

	info, err := os.Stat(path)

	existed := err == nil
	if existed && info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrInvalidPath, path)
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("%w: creating parent directory: %w", ErrOutputNotWritable, err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE, filePerm) // #nosec G304 -- writing the user's output file
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOutputNotWritable, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrOutputNotWritable, err)
	}

	if !existed {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("%w: removing probe: %w", ErrOutputNotWritable, err)
		}
	}

	return nil
}

// Input is an open input file, decompressed and decoded to UTF-8.
type Input struct {
	io.ReadCloser

	// Compression is the codec name ("gzip", "zstd", "brotli", "lz4"), or
	// empty for plain files.
	Compression string

	// Charset is the source encoding the text was decoded from.
	Charset string
}

// OpenInput opens path for reading. Closing the Input releases the
// decompressor and the file.
func OpenInput(path string) (*Input, error) {
	f, err := os.Open(path) // #nosec G304 -- reading the user's input file
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}

		return nil, fmt.Errorf("%w: %w", ErrInputNotReadable, err)
	}

	cleanup, cancel := closer.CancelableCloser(f)
	defer cleanup.Close() //nolint:errcheck

	var (
		raw         io.Reader = f
		decomp      io.Closer
		compression string
	)

	if c, ok := codecFor(path); ok {
		rc, err := c.newReader(bufio.NewReader(f))
		if err != nil {
			return nil, fmt.Errorf("%w: opening %s stream: %w", ErrInputNotReadable, c.name, err)
		}

		raw, decomp, compression = rc, rc, c.name
	}

	text, charsetName, err := decodeText(raw)
	if err != nil {
		if decomp != nil {
			_ = decomp.Close()
		}

		return nil, fmt.Errorf("%w: %w", ErrInputNotReadable, err)
	}

	cancel()

	return &Input{
		ReadCloser:  closer.ForReader(text, decomp, f),
		Compression: compression,
		Charset:     charsetName,
	}, nil
}

// CreateOutput creates or truncates path for writing, compressing by
// extension. Writes are buffered; Close flushes the compressor, the buffer
// and the file, in that order, once.
func CreateOutput(path string) (io.WriteCloser, error) {
	f, err := os.Create(path) // #nosec G304 -- writing the user's output file
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOutputNotWritable, err)
	}

	cleanup, cancel := closer.CancelableCloser(f)
	defer cleanup.Close() //nolint:errcheck

	buf := bufio.NewWriter(f)
	flush := closer.CustomCloser(buf.Flush)

	c, ok := codecFor(path)
	if !ok {
		cancel()

		return closer.ForWriter(buf, flush, f), nil
	}

	cw, err := c.newWriter(buf)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s stream: %w", ErrOutputNotWritable, c.name, err)
	}

	cancel()

	return closer.ForWriter(cw, cw, flush, f), nil
}
