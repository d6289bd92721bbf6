// SPDX-License-Identifier: EPL-2.0

// Package audio converts decoded PCM into the fixed speech-recognition format:
// mono, 16 kHz, 16-bit little-endian.
//
// # Conversion
//
// Convert handles one decoded frame at a time:
//
//	out, err := audio.Convert(frame, 44100, 2)
//
// The frame is read as interleaved int16 little-endian samples, mixed down to
// mono by integer averaging (MixToMono) and resampled to 16 kHz by linear
// interpolation (Resample). No anti-aliasing filter is applied; the output is
// meant for transcription, not listening.
//
// A frame with an unusable source format returns ErrConversion. Callers are
// expected to drop that frame and continue.
//
// # Accumulation
//
// Pool collects converted chunks and their running byte total until the whole
// stream is written in one pass:
//
//	pool := audio.NewPool()
//	_ = pool.Append(out)
//	pool.Seal()
//	pool.WriteTo(w)
package audio
