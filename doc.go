// SPDX-License-Identifier: EPL-2.0

// Package audxtract extracts the first audio track of a media file into a
// WAV file suited for speech recognition engines: PCM, mono, 16 kHz,
// 16-bit little-endian, behind a canonical 44-byte header.
//
// # Supported Formats
//
// The default registry knows these containers:
//   - WAV (PCM 8/16/24/32-bit) via formats/wav
//   - AIFF via formats/aiff
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//   - FLAC via formats/flac
//
// # Quick Start
//
//	if !audxtract.ExtractAudioToWav("talk.ogg", "talk.wav") {
//	    // nothing was written, see the log
//	}
//
// # Pipeline
//
// The source is sniffed and opened by media.Open, which hands back a
// media.Demuxer. The extractor picks the first "audio/" track, creates a
// codec for its MIME type and runs the feed/drain loop until the codec
// reports end of stream:
//
//	demuxer -> codec input slots -> decoder -> codec output slots
//	        -> mixdown -> linear resample -> pool -> WAV file
//
// Every decoded buffer is converted on its own: channels are averaged, then
// the mono signal is resampled to 16 kHz by linear interpolation.
//
// # Custom Setups
//
// For control over logging, metrics or codec slot sizes, build an
// extract.Extractor directly:
//
//	reg := audxtract.NewRegistry(codec.Options{OutputBufferSize: 32 * 1024})
//	e := extract.New(reg,
//	    extract.WithLogger(logger),
//	    extract.WithMetrics(metrics.New(prometheus.DefaultRegisterer)),
//	)
//	if err := e.Extract(src, dst); errors.Is(err, media.ErrNoAudioTrack) {
//	    // ...
//	}
//
// See the individual subpackages for more detailed documentation.
package audxtract
