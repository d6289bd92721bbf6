// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"encoding/binary"
	"math"
)

// PCM generates interleaved 16-bit little-endian PCM.
// totalFrames is the number of frames (samples per channel) to generate.
// waveform is a function that generates sample values given frame index and channel.
func PCM(channels, totalFrames int, waveform func(frame int, channel int) int16) []byte {
	out := make([]byte, 0, totalFrames*channels*2)
	for f := range totalFrames {
		for c := range channels {
			out = binary.LittleEndian.AppendUint16(out, uint16(waveform(f, c)))
		}
	}
	return out
}

// SilentPCM generates silence (all zeros).
func SilentPCM(channels, totalFrames int) []byte {
	return make([]byte, totalFrames*channels*2)
}

// SinePCM generates a sine wave at 60% of full scale on every channel.
func SinePCM(sampleRate, channels, totalFrames int, frequency float64) []byte {
	return PCM(channels, totalFrames, func(frame int, channel int) int16 {
		t := float64(frame) / float64(sampleRate)
		return int16(20000 * math.Sin(2*math.Pi*frequency*t))
	})
}

// ConstantPCM generates frames where every sample holds value.
func ConstantPCM(channels, totalFrames int, value int16) []byte {
	return PCM(channels, totalFrames, func(int, int) int16 { return value })
}

// Samples decodes 16-bit little-endian PCM.
func Samples(pcm []byte) []int16 {
	out := make([]int16, len(pcm)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(pcm[2*i:]))
	}
	return out
}

// Packetize splits b into packets of at most size bytes.
func Packetize(b []byte, size int) [][]byte {
	var out [][]byte
	for len(b) > 0 {
		n := min(size, len(b))
		out = append(out, b[:n])
		b = b[n:]
	}
	return out
}
