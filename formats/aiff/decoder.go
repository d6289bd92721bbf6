// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	"github.com/ik5/audxtract/internal/pcmpkt"
	"github.com/ik5/audxtract/media"
)

// Decoder demuxes AIFF and uncompressed AIFC files into a single audio/raw
// track.
type Decoder struct {
	// Frames per packet, pcmpkt.DefaultFrames when zero.
	Frames int
	// MaxPacketSize caps a packet in bytes, usually the codec input slot
	// size. Zero means no cap.
	MaxPacketSize int
}

func (d Decoder) Demux(rs io.ReadSeeker) (media.Demuxer, error) {
	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}

	dec.ReadInfo()

	switch dec.BitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, dec.BitDepth)
	}

	af := dec.Format()
	if af == nil || af.NumChannels < 1 || af.SampleRate <= 0 {
		return nil, ErrUnsupportedAiffLayout
	}

	// unknown duration is not fatal
	duration, _ := dec.Duration()

	format := media.TrackFormat{
		MimeType:   media.MimeRaw,
		SampleRate: af.SampleRate,
		Channels:   af.NumChannels,
		Duration:   duration,
	}

	pr, err := pcmpkt.NewReader(dec, pcmpkt.Options{
		SampleRate: format.SampleRate,
		Channels:   format.Channels,
		BitDepth:   int(dec.BitDepth),
		Frames:     d.Frames,

		MaxPacketSize: d.MaxPacketSize,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedAiffLayout, err)
	}

	return media.NewPacketDemuxer(format, pr), nil
}
