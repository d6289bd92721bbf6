// SPDX-License-Identifier: EPL-2.0

package utils

// LinearInterpolate returns the sample at fractional position x between y0 and y1
// (0 <= x < 1). The result is truncated toward zero, the same way a plain
// float-to-int conversion would.
func LinearInterpolate(y0, y1 int16, x float64) int16 {
	return int16(float64(y0)*(1.0-x) + float64(y1)*x)
}
