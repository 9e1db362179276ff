package sorter

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/amp-labs/name-sorter/fileio"
	"github.com/amp-labs/name-sorter/logger"
	"github.com/amp-labs/name-sorter/should"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/amp-labs/name-sorter/sorter"
	subsystem  = "sorter"
)

const mib = 1 << 20

// Service sorts name files with one strategy.
type Service struct {
	kind   Kind
	tracer trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

// WithTracerProvider records spans with tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Service) {
		s.tracer = tp.Tracer(tracerName)
	}
}

// New returns a Service sorting with kind.
func New(kind Kind, opts ...Option) (*Service, error) {
	if _, err := NewCollector(kind); err != nil {
		return nil, fmt.Errorf("%w: %q", err, kind)
	}

	svc := &Service{
		kind:   kind,
		tracer: otel.Tracer(tracerName),
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc, nil
}

// Kind returns the strategy the Service sorts with.
func (s *Service) Kind() Kind {
	return s.kind
}

// MemStats is a snapshot of the Go heap.
type MemStats struct {
	HeapAlloc uint64
	HeapSys   uint64
	Sys       uint64
	NumGC     uint32
}

func readMemStats() MemStats {
	var ms runtime.MemStats

	runtime.ReadMemStats(&ms)

	return MemStats{
		HeapAlloc: ms.HeapAlloc,
		HeapSys:   ms.HeapSys,
		Sys:       ms.Sys,
		NumGC:     ms.NumGC,
	}
}

// LogValue renders the snapshot in MiB.
func (m MemStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("heap_alloc_mb", m.HeapAlloc/mib),
		slog.Uint64("heap_sys_mb", m.HeapSys/mib),
		slog.Uint64("sys_mb", m.Sys/mib),
		slog.Uint64("num_gc", uint64(m.NumGC)),
	)
}

// Result describes a completed SortFile run.
type Result struct {
	RunID    string
	Strategy Kind
	Stats    ReadStats

	// Lines holds the rendered names in output order.
	Lines []string

	Compression string
	Charset     string

	ReadDuration  time.Duration
	WriteDuration time.Duration
	TotalDuration time.Duration

	MemBefore MemStats
	MemAfter  MemStats
}

// SortFile reads names from inputPath, orders them and writes them to
// outputPath, then logs a performance summary. Each call gets its own run
// ID, which is attached, with the "sorter" subsystem, to every log record
// of the run.
func (s *Service) SortFile(ctx context.Context, inputPath, outputPath string) (*Result, error) {
	res := &Result{
		RunID:     uuid.NewString(),
		Strategy:  s.kind,
		MemBefore: readMemStats(),
	}

	ctx = logger.With(logger.WithSubsystem(ctx, subsystem), "run_id", res.RunID, "strategy", s.kind.String())
	log := logger.Get(ctx)

	start := time.Now()

	log.Info("reading names from file", "input", inputPath)

	collector, err := s.read(ctx, inputPath, res)
	if err != nil {
		return nil, err
	}

	readEnd := time.Now()

	log.Info("writing sorted names to file", "output", outputPath)

	lines, err := s.write(ctx, outputPath, collector)
	if err != nil {
		return nil, err
	}

	end := time.Now()

	res.Lines = lines
	res.ReadDuration = readEnd.Sub(start)
	res.WriteDuration = end.Sub(readEnd)
	res.TotalDuration = end.Sub(start)
	res.MemAfter = readMemStats()

	phaseDuration.WithLabelValues(phaseRead, s.kind.String()).Observe(res.ReadDuration.Seconds())
	phaseDuration.WithLabelValues(phaseWrite, s.kind.String()).Observe(res.WriteDuration.Seconds())
	phaseDuration.WithLabelValues(phaseTotal, s.kind.String()).Observe(res.TotalDuration.Seconds())

	log.Info("performance",
		"names", res.Stats.Names,
		"lines", res.Stats.Lines,
		"skipped", res.Stats.Skipped,
		"read_ms", res.ReadDuration.Milliseconds(),
		"write_ms", res.WriteDuration.Milliseconds(),
		"total_ms", res.TotalDuration.Milliseconds(),
		"memory_before", res.MemBefore,
		"memory_after", res.MemAfter,
	)

	return res, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	span.End()
}

func (s *Service) read(ctx context.Context, path string, res *Result) (_ Collector, err error) {
	ctx, span := s.tracer.Start(ctx, "sorter.read", trace.WithAttributes(
		attribute.String("input", path),
		attribute.String("strategy", s.kind.String()),
	))
	defer func() { endSpan(span, err) }()

	in, err := fileio.OpenInput(path)
	if err != nil {
		return nil, fmt.Errorf("%w from %s: %w", ErrReadInput, path, err)
	}
	defer should.Close(ctx, in, "closing input file")

	res.Compression = in.Compression
	res.Charset = in.Charset

	collector, err := NewCollector(s.kind)
	if err != nil {
		return nil, err
	}

	res.Stats, err = ReadNames(ctx, in, collector)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	span.SetAttributes(
		attribute.Int("lines", res.Stats.Lines),
		attribute.Int("names", res.Stats.Names),
		attribute.Int("skipped", res.Stats.Skipped),
		attribute.String("charset", res.Charset),
	)

	return collector, nil
}

// write orders the collected names and writes them. For the collection
// strategy this is where the sort happens. A failed write removes the
// partial output.
func (s *Service) write(ctx context.Context, path string, collector Collector) (_ []string, err error) {
	_, span := s.tracer.Start(ctx, "sorter.write", trace.WithAttributes(
		attribute.String("output", path),
		attribute.String("strategy", s.kind.String()),
	))
	defer func() { endSpan(span, err) }()

	out, err := fileio.CreateOutput(path)
	if err != nil {
		return nil, fmt.Errorf("%w to %s: %w", ErrWriteOutput, path, err)
	}

	lines, err := WriteNames(out, collector.Sorted())
	if err != nil {
		_ = out.Close()

		should.Remove(ctx, path, "removing partial output")

		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if err := out.Close(); err != nil {
		should.Remove(ctx, path, "removing partial output")

		return nil, fmt.Errorf("%w to %s: %w", ErrWriteOutput, path, err)
	}

	span.SetAttributes(attribute.Int("written", len(lines)))

	return lines, nil
}
