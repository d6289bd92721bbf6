// SPDX-License-Identifier: EPL-2.0

package utils

// Float32ToInt16 converts a normalized [-1, 1] sample to 16-bit PCM, clamping
// anything outside the range.
func Float32ToInt16(x float32) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// Use 32767 for positive max to avoid overflow
	return int16(x * 32767.0)
}

// IntToInt16 rescales an integer sample of the given bit depth to 16-bit PCM.
// v must be signed; unsigned 8-bit WAV samples are re-centered by the caller.
// Depths above 16 bits lose their low-order bits, depths below are shifted up.
func IntToInt16(v int, bitDepth int) int16 {
	switch {
	case bitDepth == 16 || bitDepth <= 0:
		return clampInt16(v)
	case bitDepth > 16:
		return clampInt16(v >> (bitDepth - 16))
	default:
		return clampInt16(v << (16 - bitDepth))
	}
}

func clampInt16(v int) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}
