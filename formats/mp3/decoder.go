// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"errors"
	"fmt"
	"io"
	"time"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/audxtract/media"
)

// go-mp3 always produces interleaved stereo 16-bit little-endian PCM.
const (
	outputChannels = 2
	bytesPerFrame  = outputChannels * 2
)

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
	Length() int64
}

// Decoder demuxes MPEG audio files into a single audio/mpeg track whose
// samples are raw slices of the bitstream.
type Decoder struct {
	// PacketSize in bytes, media.DefaultPacketSize when zero.
	PacketSize int
}

func (d Decoder) Demux(rs io.ReadSeeker) (media.Demuxer, error) {
	dec, err := gomp3.NewDecoder(rs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotMP3File, err)
	}

	format := trackFormat(dec)

	size, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return media.NewPacketDemuxer(format, media.NewBitstreamReader(rs, size, format.Duration, d.PacketSize)), nil
}

func trackFormat(dec mp3Reader) media.TrackFormat {
	format := media.TrackFormat{
		MimeType:   media.MimeMPEG,
		SampleRate: dec.SampleRate(),
		Channels:   outputChannels,
	}

	// Length is -1 when the source could not be scanned
	if n := dec.Length(); n > 0 && format.SampleRate > 0 {
		format.Duration = time.Duration(n/bytesPerFrame) * time.Second / time.Duration(format.SampleRate)
	}

	return format
}

// Decode is the codec.DecodeFunc for audio/mpeg.
func Decode(r io.Reader, _ media.TrackFormat) (io.Reader, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotMP3File, err)
	}

	return &stream{dec: dec}, nil
}

// stream tags decoder failures so they can be told apart from read errors
// of the underlying packets.
type stream struct {
	dec mp3Reader
}

func (s *stream) Read(p []byte) (int, error) {
	n, err := s.dec.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, fmt.Errorf("%w: %w", ErrCorruptFrame, err)
	}
	return n, err
}
