// SPDX-License-Identifier: EPL-2.0

package audio

import "github.com/ik5/audxtract/utils"

// Resample converts mono samples from srcRate to dstRate using linear
// interpolation with no anti-aliasing filter.
//
// The output holds floor(len(samples) / ratio) samples, ratio being
// srcRate/dstRate. Output sample i sits at source position i*ratio and is
// interpolated between the two neighbouring source samples. When the right
// neighbour is past the end the left one is used as is. When even the left
// one is past the end the output slot is left untouched (zero).
//
// Resample returns the input slice when the rates are equal or invalid.
func Resample(samples []int16, srcRate, dstRate int) []int16 {
	if srcRate == dstRate || srcRate <= 0 || dstRate <= 0 {
		return samples
	}

	ratio := float64(srcRate) / float64(dstRate)
	n := int(float64(len(samples)) / ratio)
	out := make([]int16, n)

	for i := range n {
		pos := float64(i) * ratio
		idx := int(pos)

		switch {
		case idx+1 < len(samples):
			out[i] = utils.LinearInterpolate(samples[idx], samples[idx+1], pos-float64(idx))
		case idx < len(samples):
			out[i] = samples[idx]
		}
	}

	return out
}
