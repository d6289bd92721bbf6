// SPDX-License-Identifier: EPL-2.0

package audio

import "math"

// interleaved builds totalFrames frames of channels samples using waveform.
func interleaved(channels, totalFrames int, waveform func(frame, channel int) int16) []int16 {
	out := make([]int16, 0, channels*totalFrames)
	for f := range totalFrames {
		for c := range channels {
			out = append(out, waveform(f, c))
		}
	}
	return out
}

// constantFrames produces samples that all hold value.
func constantFrames(channels, totalFrames int, value int16) []int16 {
	return interleaved(channels, totalFrames, func(int, int) int16 { return value })
}

// sineFrames produces a full-scale-ish sine wave on every channel.
func sineFrames(sampleRate, channels, totalFrames int, frequency float64) []int16 {
	return interleaved(channels, totalFrames, func(frame, _ int) int16 {
		t := float64(frame) / float64(sampleRate)
		return int16(20000 * math.Sin(2*math.Pi*frequency*t))
	})
}
