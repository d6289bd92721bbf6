// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ik5/audxtract/media"
	"github.com/ik5/audxtract/utils"
	"github.com/jfreymuth/oggvorbis"
)

// decodeValues is the number of interleaved values pulled from the decoder
// per refill.
const decodeValues = 4096

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	Length() int64
	Read([]float32) (int, error)
}

// Decoder demuxes Ogg Vorbis files into a single audio/vorbis track whose
// samples are raw slices of the Ogg bitstream.
type Decoder struct {
	// PacketSize in bytes, media.DefaultPacketSize when zero.
	PacketSize int
}

func (d Decoder) Demux(rs io.ReadSeeker) (media.Demuxer, error) {
	dec, err := oggvorbis.NewReader(rs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotVorbisFile, err)
	}

	format := trackFormat(dec)
	if format.Channels < 1 || format.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedLayout, format)
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

func trackFormat(dec oggReader) media.TrackFormat {
	format := media.TrackFormat{
		MimeType:   media.MimeVorbis,
		SampleRate: dec.SampleRate(),
		Channels:   dec.Channels(),
	}

	// Length is 0 when the source is not seekable
	if n := dec.Length(); n > 0 && format.SampleRate > 0 {
		format.Duration = time.Duration(n) * time.Second / time.Duration(format.SampleRate)
	}

	return format
}

// Decode is the codec.DecodeFunc for audio/vorbis. It yields interleaved
// 16-bit little-endian PCM.
func Decode(r io.Reader, _ media.TrackFormat) (io.Reader, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotVorbisFile, err)
	}

	return newPCMStream(dec), nil
}

type pcmStream struct {
	dec     oggReader
	values  []float32
	buf     []byte
	pending []byte
	err     error
}

func newPCMStream(dec oggReader) *pcmStream {
	return &pcmStream{
		dec:    dec,
		values: make([]float32, decodeValues),
		buf:    make([]byte, 0, 2*decodeValues),
	}
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
	n, err := s.dec.Read(s.values)

	out := s.buf[:0]
	for _, v := range s.values[:n] {
		out = binary.LittleEndian.AppendUint16(out, uint16(utils.Float32ToInt16(v)))
	}
	s.buf = out
	s.pending = out

	switch {
	case errors.Is(err, io.EOF):
		s.err = io.EOF
	case err != nil:
		s.err = fmt.Errorf("%w: %w", ErrCorruptPacket, err)
	case n == 0:
		// a decoder that makes no progress would spin forever
		s.err = io.ErrNoProgress
	}
}
