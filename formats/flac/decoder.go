// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ik5/audxtract/media"
	"github.com/ik5/audxtract/utils"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
)

// frameParser is an interface for flac.Stream to allow testing
type frameParser interface {
	ParseNext() (*frame.Frame, error)
}

// Decoder demuxes native FLAC files into a single audio/flac track whose
// samples are raw slices of the bitstream.
type Decoder struct {
	// PacketSize in bytes, media.DefaultPacketSize when zero.
	PacketSize int
}

func (d Decoder) Demux(rs io.ReadSeeker) (media.Demuxer, error) {
	stream, err := flac.New(rs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFLACFile, err)
	}

	format := media.TrackFormat{
		MimeType:   media.MimeFLAC,
		SampleRate: int(stream.Info.SampleRate),
		Channels:   int(stream.Info.NChannels),
	}
	if format.SampleRate <= 0 || format.Channels < 1 {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedLayout, format)
	}

	// NSamples is 0 when the encoder did not know the length
	if n := stream.Info.NSamples; n > 0 {
		format.Duration = time.Duration(n) * time.Second / time.Duration(format.SampleRate)
	}

	size, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return media.NewPacketDemuxer(format, media.NewBitstreamReader(rs, size, format.Duration, d.PacketSize)), nil
}

// Decode is the codec.DecodeFunc for audio/flac. It yields interleaved
// 16-bit little-endian PCM regardless of the source bit depth.
func Decode(r io.Reader, _ media.TrackFormat) (io.Reader, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFLACFile, err)
	}

	return &pcmStream{
		frames:   stream,
		channels: int(stream.Info.NChannels),
		bitDepth: int(stream.Info.BitsPerSample),
	}, nil
}

type pcmStream struct {
	frames   frameParser
	channels int
	bitDepth int

	buf     []byte
	pending []byte
	err     error
}

func (s *pcmStream) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	for len(s.pending) == 0 {
		if s.err != nil {
			return 0, s.err
		}
		s.fill()
	}

	n := copy(p, s.pending)
	s.pending = s.pending[n:]

	return n, nil
}

func (s *pcmStream) fill() {
	f, err := s.frames.ParseNext()
	switch {
	case errors.Is(err, io.EOF):
		s.err = io.EOF
		return
	case err != nil:
		s.err = fmt.Errorf("%w: %w", ErrCorruptFrame, err)
		return
	}

	if len(f.Subframes) != s.channels {
		s.err = fmt.Errorf("%w: %d subframes for %d channels", ErrCorruptFrame, len(f.Subframes), s.channels)
		return
	}

	n := len(f.Subframes[0].Samples)
	for _, sf := range f.Subframes[1:] {
		n = min(n, len(sf.Samples))
	}

	out := s.buf[:0]
	for i := range n {
		for _, sf := range f.Subframes {
			out = binary.LittleEndian.AppendUint16(out, uint16(utils.IntToInt16(int(sf.Samples[i]), s.bitDepth)))
		}
	}
	s.buf = out
	s.pending = out
}
