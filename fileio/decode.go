package fileio

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// sniffSize is how much of the stream is inspected to pick an encoding.
const sniffSize = 8 << 10

const charsetUTF8 = "UTF-8"

var boms = []struct { //nolint:gochecknoglobals
	prefix  []byte
	charset string
}{
	{prefix: []byte{0xEF, 0xBB, 0xBF}, charset: charsetUTF8},
	{prefix: []byte{0xFF, 0xFE}, charset: "UTF-16LE"},
	{prefix: []byte{0xFE, 0xFF}, charset: "UTF-16BE"},
}

// decodeText returns a UTF-8 view of r and the name of the source charset.
//
// A byte order mark decides the encoding and is removed. Otherwise text
// that is valid UTF-8 passes through untouched, and anything else is
// decoded from the charset chardet considers most likely. When detection
// fails the stream is passed through as UTF-8.
func decodeText(r io.Reader) (io.Reader, string, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	head, err := br.Peek(sniffSize)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, "", err
	}

	for _, bom := range boms {
		if bytes.HasPrefix(head, bom.prefix) {
			return transform.NewReader(br, unicode.BOMOverride(encoding.Nop.NewDecoder())), bom.charset, nil
		}
	}

	// A full buffer may end partway through a rune.
	if len(head) == sniffSize {
		head = trimPartialRune(head)
	}

	if utf8.Valid(head) {
		return br, charsetUTF8, nil
	}

	best, err := chardet.NewTextDetector().DetectBest(head)
	if err != nil {
		return br, charsetUTF8, nil //nolint:nilerr
	}

	decoded, err := charset.NewReaderLabel(best.Charset, br)
	if err != nil {
		return br, charsetUTF8, nil //nolint:nilerr
	}

	return decoded, best.Charset, nil
}

// trimPartialRune drops an incomplete UTF-8 sequence from the end of b.
func trimPartialRune(b []byte) []byte {
	for i := 1; i <= utf8.UTFMax && i <= len(b); i++ {
		start := len(b) - i
		if !utf8.RuneStart(b[start]) {
			continue
		}

		if !utf8.FullRune(b[start:]) {
			return b[:start]
		}

		return b
	}

	return b
}
