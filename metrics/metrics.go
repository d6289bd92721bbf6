// SPDX-License-Identifier: EPL-2.0

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Extraction results used as the "result" label.
const (
	ResultSuccess      = "success"
	ResultNoAudioTrack = "no_audio_track"
	ResultDecodeError  = "decode_error"
	ResultIOError      = "io_error"
)

// Metrics contains all Prometheus metrics for audio extraction.
// A nil *Metrics records nothing.
type Metrics struct {
	Extractions        *prometheus.CounterVec
	ExtractionDuration prometheus.Histogram

	// Decode loop metrics
	FramesDecoded prometheus.Counter
	FramesDropped prometheus.Counter
	PCMBytes      prometheus.Counter
	FeedTimeouts  prometheus.Counter
	DrainTimeouts prometheus.Counter
}

// New creates the metrics and registers them with reg. A nil reg leaves
// them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Extractions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "audxtract_extractions_total",
			Help: "Total number of extractions by result",
		}, []string{"result"}),
		ExtractionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "audxtract_extraction_duration_seconds",
			Help:    "Wall time of a complete extraction",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
		}),

		FramesDecoded: factory.NewCounter(prometheus.CounterOpts{
			Name: "audxtract_frames_decoded_total",
			Help: "Decoder output buffers converted into the target format",
		}),
		FramesDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "audxtract_frames_dropped_total",
			Help: "Decoder output buffers skipped because conversion failed",
		}),
		PCMBytes: factory.NewCounter(prometheus.CounterOpts{
			Name: "audxtract_pcm_bytes_total",
			Help: "Bytes of 16 kHz mono PCM produced",
		}),
		FeedTimeouts: factory.NewCounter(prometheus.CounterOpts{
			Name: "audxtract_feed_timeouts_total",
			Help: "Input slot dequeues that timed out",
		}),
		DrainTimeouts: factory.NewCounter(prometheus.CounterOpts{
			Name: "audxtract_drain_timeouts_total",
			Help: "Output slot dequeues that timed out",
		}),
	}
}

func (m *Metrics) ObserveExtraction(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.Extractions.WithLabelValues(result).Inc()
	m.ExtractionDuration.Observe(d.Seconds())
}

func (m *Metrics) FrameDecoded(pcmBytes int) {
	if m == nil {
		return
	}
	m.FramesDecoded.Inc()
	m.PCMBytes.Add(float64(pcmBytes))
}

func (m *Metrics) FrameDropped() {
	if m == nil {
		return
	}
	m.FramesDropped.Inc()
}

func (m *Metrics) FeedTimeout() {
	if m == nil {
		return
	}
	m.FeedTimeouts.Inc()
}

func (m *Metrics) DrainTimeout() {
	if m == nil {
		return
	}
	m.DrainTimeouts.Inc()
}
