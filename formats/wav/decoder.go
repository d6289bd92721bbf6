// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"
	"time"

	"github.com/go-audio/wav"
	"github.com/ik5/audxtract/internal/pcmpkt"
	"github.com/ik5/audxtract/media"
)

const (
	formatPCM        = 1
	formatExtensible = 0xFFFE
)

// Decoder demuxes RIFF/WAVE files into a single audio/raw track.
type Decoder struct {
	// Frames per packet, pcmpkt.DefaultFrames when zero.
	Frames int
	// MaxPacketSize caps a packet in bytes, usually the codec input slot
	// size. Zero means no cap.
	MaxPacketSize int
}

func (d Decoder) Demux(rs io.ReadSeeker) (media.Demuxer, error) {
	tag, err := formatTag(rs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotWavFile, err)
	}
	if tag != formatPCM {
		return nil, fmt.Errorf("%w: format tag %#x", ErrOnlyPCMSupported, tag)
	}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	dec := wav.NewDecoder(rs)
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotWavFile, err)
	}

	switch dec.BitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, dec.BitDepth)
	}

	if dec.NumChans < 1 || dec.SampleRate == 0 {
		return nil, ErrUnsupportedWavLayout
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavLayout, err)
	}

	format := media.TrackFormat{
		MimeType:   media.MimeRaw,
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
	}

	frameSize := int64(dec.NumChans) * int64(dec.BitDepth/8)
	format.Duration = time.Duration(int64(dec.PCMSize) / frameSize * int64(time.Second) / int64(dec.SampleRate))

	pr, err := pcmpkt.NewReader(dec, pcmpkt.Options{
		SampleRate: format.SampleRate,
		Channels:   format.Channels,
		BitDepth:   int(dec.BitDepth),
		Unsigned8:  true,
		Frames:     d.Frames,

		MaxPacketSize: d.MaxPacketSize,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavLayout, err)
	}

	return media.NewPacketDemuxer(format, pr), nil
}
