// SPDX-License-Identifier: EPL-2.0

package extract

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ik5/audxtract/audio"
	"github.com/ik5/audxtract/formats/wav"
	"github.com/ik5/audxtract/media"
	"github.com/ik5/audxtract/metrics"
)

// DefaultDequeueTimeout bounds every wait on a codec slot.
const DefaultDequeueTimeout = 10 * time.Millisecond

// OpenFunc opens a media file through a registry.
type OpenFunc func(path string, reg *media.Registry) (media.Demuxer, error)

// Extractor converts the first audio track of a media file into a 16 kHz
// mono 16-bit WAV file.
//
// An Extractor holds no per-run state; concurrent runs are safe as long as
// the registry's codec factories hand out independent codecs.
type Extractor struct {
	registry *media.Registry
	logger   *slog.Logger
	metrics  *metrics.Metrics
	timeout  time.Duration
	open     OpenFunc
}

type Option func(*Extractor)

func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Extractor) { e.metrics = m }
}

// WithDequeueTimeout overrides DefaultDequeueTimeout. Non-positive values
// are ignored.
func WithDequeueTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithOpener replaces media.Open, mostly for tests.
func WithOpener(open OpenFunc) Option {
	return func(e *Extractor) { e.open = open }
}

func New(reg *media.Registry, opts ...Option) *Extractor {
	e := &Extractor{
		registry: reg,
		timeout:  DefaultDequeueTimeout,
		open:     media.Open,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = getLogger()
	}

	return e
}

// ExtractAudioToWav reports whether src was converted into dst. Failures
// are logged, never returned.
func (e *Extractor) ExtractAudioToWav(src, dst string) bool {
	return e.Extract(src, dst) == nil
}

// Extract converts the first audio track of src into dst. The destination
// is only created once decoding succeeded, so a file without audio leaves
// nothing behind.
//
// Errors wrap media.ErrNoAudioTrack, ErrDecode or ErrIO.
func (e *Extractor) Extract(src, dst string) (err error) {
	start := time.Now()
	log := e.logger.With(slog.String("src", src), slog.String("dst", dst))

	defer func() {
		e.metrics.ObserveExtraction(resultOf(err), time.Since(start))
		if err != nil {
			log.Error("extraction failed", slog.String("error", err.Error()))
		}
	}()

	d, err := e.open(src, e.registry)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %w", ErrDecode, src, err)
	}
	defer func() {
		if cerr := d.Close(); cerr != nil {
			log.Warn("closing source", slog.String("error", cerr.Error()))
		}
	}()

	pool, err := e.decode(d, log)
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}

	return e.write(dst, pool, log)
}

func (e *Extractor) write(dst string, pool *audio.Pool, log *slog.Logger) (err error) {
	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrIO, cerr)
		}
	}()

	if err := wav.WriteWAV16(f, audio.TargetSampleRate, audio.TargetChannels, pool); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrIO, dst, err)
	}

	log.Debug("WAV header written",
		slog.Int64("data_bytes", pool.TotalBytes()),
		slog.Int64("file_bytes", pool.TotalBytes()+wav.HeaderSize),
	)

	return nil
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, media.ErrNoAudioTrack):
		return metrics.ResultNoAudioTrack
	case errors.Is(err, ErrIO):
		return metrics.ResultIOError
	default:
		return metrics.ResultDecodeError
	}
}
