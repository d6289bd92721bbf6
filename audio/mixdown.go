// SPDX-License-Identifier: EPL-2.0

package audio

// MixToMono averages interleaved channels into a single channel.
//
// Each output sample is the integer mean of one frame's channel samples, the
// sum divided by the channel count and truncated toward zero. The sum is kept
// in an int so C full-scale samples cannot overflow. A trailing partial frame
// is dropped. With channels <= 1 the input is returned unchanged.
func MixToMono(samples []int16, channels int) []int16 {
	if channels <= 1 {
		return samples
	}

	frames := len(samples) / channels
	mono := make([]int16, frames)

	// Unrolled loop for common cases
	switch channels {
	case 2: // Stereo (most common)
		for f := range frames {
			idx := f << 1 // f * 2
			mono[f] = int16((int(samples[idx]) + int(samples[idx+1])) / 2)
		}
	case 4: // Quad
		for f := range frames {
			idx := f << 2 // f * 4
			sum := int(samples[idx]) + int(samples[idx+1]) + int(samples[idx+2]) + int(samples[idx+3])
			mono[f] = int16(sum / 4)
		}
	default: // Generic path
		for f := range frames {
			sum := 0
			baseIdx := f * channels
			for c := range channels {
				sum += int(samples[baseIdx+c])
			}
			mono[f] = int16(sum / channels)
		}
	}

	return mono
}
