// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"encoding/binary"
	"fmt"
)

// Target format produced for speech recognition engines.
const (
	TargetSampleRate    = 16000
	TargetChannels      = 1
	TargetBitsPerSample = 16

	// TargetByteRate is the number of payload bytes per second of target audio.
	TargetByteRate = TargetSampleRate * TargetChannels * TargetBitsPerSample / 8
	// TargetBlockAlign is the size in bytes of one target frame.
	TargetBlockAlign = TargetChannels * TargetBitsPerSample / 8
)

// Convert turns one decoded frame of interleaved 16-bit little-endian PCM at
// srcRate/srcChannels into mono 16 kHz 16-bit little-endian PCM.
//
// Channels are mixed down first, then the mono signal is resampled with
// linear interpolation. A trailing odd byte, or a trailing partial frame, is
// ignored. An empty frame yields an empty result; a frame already in the
// target format is copied.
//
// Convert never panics on malformed input; an unusable source format is
// reported as ErrConversion so the caller can drop just this frame.
func Convert(frame []byte, srcRate, srcChannels int) ([]byte, error) {
	if srcRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrConversion, srcRate)
	}
	if srcChannels <= 0 {
		return nil, fmt.Errorf("%w: channel count %d", ErrConversion, srcChannels)
	}

	if len(frame) < 2 {
		return []byte{}, nil
	}

	samples := DecodePCM16(frame)

	mono := samples
	if srcChannels > 1 && TargetChannels == 1 {
		mono = MixToMono(samples, srcChannels)
	}

	out := mono
	if srcRate != TargetSampleRate {
		out = Resample(mono, srcRate, TargetSampleRate)
	}

	return EncodePCM16(out), nil
}

// DecodePCM16 reinterprets little-endian bytes as int16 samples.
// len(b)/2 samples are returned.
func DecodePCM16(b []byte) []int16 {
	samples := make([]int16, len(b)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(b[2*i : 2*i+2]))
	}
	return samples
}

// EncodePCM16 serializes samples as little-endian bytes.
func EncodePCM16(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:2*i+2], uint16(s))
	}
	return out
}
