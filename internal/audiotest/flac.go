// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"fmt"
	"os"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
)

// FLACBlockSize is the number of frames per FLAC block written by WriteFLACFile.
const FLACBlockSize = 4096

// WriteFLACFile writes interleaved integer samples as a FLAC file made of
// verbatim subframes. channels must be between 1 and 8.
func WriteFLACFile(path string, sampleRate, bitDepth, channels int, samples []int) error {
	if channels < 1 || channels > 8 {
		return fmt.Errorf("unsupported channel count %d", channels)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	defer f.Close()

	info := &meta.StreamInfo{
		BlockSizeMin:  FLACBlockSize,
		BlockSizeMax:  FLACBlockSize,
		SampleRate:    uint32(sampleRate),
		NChannels:     uint8(channels),
		BitsPerSample: uint8(bitDepth),
	}

	enc, err := flac.NewEncoder(f, info)
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	frames := len(samples) / channels
	for start := 0; start < frames; start += FLACBlockSize {
		n := min(FLACBlockSize, frames-start)

		fr := &frame.Frame{
			Header: frame.Header{
				HasFixedBlockSize: true,
				BlockSize:         uint16(n),
				SampleRate:        uint32(sampleRate),
				Channels:          frame.Channels(channels - 1),
				BitsPerSample:     uint8(bitDepth),
			},
			Subframes: make([]*frame.Subframe, channels),
		}

		for ch := range channels {
			sub := &frame.Subframe{
				SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
				Samples:   make([]int32, n),
				NSamples:  n,
			}
			for i := range n {
				sub.Samples[i] = int32(samples[(start+i)*channels+ch])
			}
			fr.Subframes[ch] = sub
		}

		if err := enc.WriteFrame(fr); err != nil {
			return fmt.Errorf("%w", err)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}
