package fileio

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// codec is a stream compression format selected by file extension.
type codec struct {
	name      string
	newReader func(io.Reader) (io.ReadCloser, error)
	newWriter func(io.Writer) (io.WriteCloser, error)
}

var codecs = map[string]codec{ //nolint:gochecknoglobals
	".gz": {
		name: "gzip",
		newReader: func(r io.Reader) (io.ReadCloser, error) {
			return gzip.NewReader(r)
		},
		newWriter: func(w io.Writer) (io.WriteCloser, error) {
			return gzip.NewWriter(w), nil
		},
	},
	".zst": {
		name: "zstd",
		newReader: func(r io.Reader) (io.ReadCloser, error) {
			dec, err := zstd.NewReader(r)
			if err != nil {
				return nil, err
			}

			return dec.IOReadCloser(), nil
		},
		newWriter: func(w io.Writer) (io.WriteCloser, error) {
			return zstd.NewWriter(w)
		},
	},
	".br": {
		name: "brotli",
		newReader: func(r io.Reader) (io.ReadCloser, error) {
			return io.NopCloser(brotli.NewReader(r)), nil
		},
		newWriter: func(w io.Writer) (io.WriteCloser, error) {
			return brotli.NewWriter(w), nil
		},
	},
	".lz4": {
		name: "lz4",
		newReader: func(r io.Reader) (io.ReadCloser, error) {
			return io.NopCloser(lz4.NewReader(r)), nil
		},
		newWriter: func(w io.Writer) (io.WriteCloser, error) {
			return lz4.NewWriter(w), nil
		},
	},
}

// codecFor returns the codec for path's extension, if it has one.
func codecFor(path string) (codec, bool) {
	c, ok := codecs[strings.ToLower(filepath.Ext(path))]

	return c, ok
}
