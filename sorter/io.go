package sorter

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/amp-labs/name-sorter/logger"
	"github.com/amp-labs/name-sorter/names"
)

const (
	readBufferSize = 64 << 10

	// maxLineSize bounds the memory one input line may take. Longer lines
	// are skipped.
	maxLineSize = 1 << 20
)

var (
	// ErrReadInput wraps every failure to open or read the input.
	ErrReadInput = errors.New("failed to read names")

	// ErrWriteOutput wraps every failure to create or write the output.
	ErrWriteOutput = errors.New("failed to write sorted names")
)

// ReadStats describes one pass over an input.
type ReadStats struct {
	// Lines is the number of lines read, skipped ones included.
	Lines int

	// Names is the number of lines handed to the collector.
	Names int

	// Skipped is the number of blank or malformed lines.
	Skipped int
}

// ReadNames parses r line by line and adds every valid name to c. Blank,
// malformed and over-long lines are logged with their 1-based line number
// and skipped. Cancelling ctx stops the read between lines.
func ReadNames(ctx context.Context, r io.Reader, c Collector) (ReadStats, error) {
	var stats ReadStats

	log := logger.Get(ctx)
	br := bufio.NewReaderSize(r, readBufferSize)

	for {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("%w: %w", ErrReadInput, err)
		}

		raw, tooLong, err := readLine(br)
		if errors.Is(err, io.EOF) {
			return stats, nil
		}

		if err != nil {
			return stats, fmt.Errorf("%w: after line %d: %w", ErrReadInput, stats.Lines, err)
		}

		stats.Lines++

		linesRead.Inc()

		if tooLong {
			stats.Skipped++

			linesSkipped.WithLabelValues(reasonTooLong).Inc()
			log.Warn("skipping line longer than the limit", "line", stats.Lines, "limit_bytes", maxLineSize)

			continue
		}

		line := string(raw)
		if strings.TrimSpace(line) == "" {
			stats.Skipped++

			linesSkipped.WithLabelValues(reasonEmpty).Inc()
			log.Warn("skipping empty line", "line", stats.Lines)

			continue
		}

		name, err := names.Parse(line)
		if err != nil {
			stats.Skipped++

			linesSkipped.WithLabelValues(reasonInvalid).Inc()
			log.Warn("skipping line with invalid name format",
				"error", logger.AnnotateError(err, "line", stats.Lines))

			continue
		}

		c.Add(name)
		stats.Names++

		namesAccepted.Inc()
	}
}

// readLine returns the next line without its "\n" or "\r\n" terminator.
// Once a line grows past maxLineSize the rest of it is read and dropped,
// and tooLong is set. io.EOF is returned only when no line is left.
func readLine(br *bufio.Reader) (line []byte, tooLong bool, err error) {
	for {
		frag, isPrefix, err := br.ReadLine()
		if err != nil {
			// A line that filled the buffer may end exactly at EOF.
			if errors.Is(err, io.EOF) && (len(line) > 0 || tooLong) {
				return line, tooLong, nil
			}

			return nil, false, err
		}

		if !tooLong {
			if len(line)+len(frag) > maxLineSize {
				line, tooLong = nil, true
			} else {
				line = append(line, frag...)
			}
		}

		if !isPrefix {
			return line, tooLong, nil
		}
	}
}

// WriteNames writes one name per line, each terminated by "\n", and
// returns the lines written.
func WriteNames(w io.Writer, sorted []names.PersonName) ([]string, error) {
	lines := make([]string, 0, len(sorted))

	for _, name := range sorted {
		line := name.String()

		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return lines, fmt.Errorf("%w: %q: %w", ErrWriteOutput, line, err)
		}

		lines = append(lines, line)
	}

	return lines, nil
}
