// SPDX-License-Identifier: EPL-2.0

// Package pcmpkt turns the integer PCM buffers produced by the go-audio
// decoders into 16-bit little-endian packets for media.PacketDemuxer.
package pcmpkt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/ik5/audxtract/utils"
)

// DefaultFrames is the number of frames carried by one packet.
const DefaultFrames = 1024

// ErrFrameTooLarge is returned when a single frame does not fit the packet
// size limit.
var ErrFrameTooLarge = errors.New("frame exceeds packet size limit")

// IntReader is implemented by the go-audio wav and aiff decoders.
type IntReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Reader is a media.PacketReader over an IntReader.
type Reader struct {
	dec      IntReader
	rate     int
	channels int
	bitDepth int
	unsigned bool

	buf    *goaudio.IntBuffer
	out    []byte
	frames int64
	done   bool
}

// Options describe the decoded stream.
type Options struct {
	SampleRate int
	Channels   int
	BitDepth   int
	// Unsigned8 marks 8-bit samples stored as unsigned bytes (WAV).
	Unsigned8 bool
	// Frames per packet, DefaultFrames when zero.
	Frames int
	// MaxPacketSize caps a packet in bytes, fewer frames are packed when
	// needed. Zero means no cap.
	MaxPacketSize int
}

func NewReader(dec IntReader, opts Options) (*Reader, error) {
	if opts.SampleRate <= 0 || opts.Channels <= 0 {
		return nil, fmt.Errorf("invalid pcm layout: %d Hz, %d channels", opts.SampleRate, opts.Channels)
	}

	frames := opts.Frames
	if frames <= 0 {
		frames = DefaultFrames
	}

	if opts.MaxPacketSize > 0 {
		fit := opts.MaxPacketSize / (opts.Channels * 2)
		if fit < 1 {
			return nil, fmt.Errorf("%w: %d channels in %d bytes", ErrFrameTooLarge, opts.Channels, opts.MaxPacketSize)
		}
		frames = min(frames, fit)
	}

	return &Reader{
		dec:      dec,
		rate:     opts.SampleRate,
		channels: opts.Channels,
		bitDepth: opts.BitDepth,
		unsigned: opts.Unsigned8 && opts.BitDepth == 8,
		buf: &goaudio.IntBuffer{
			Data:           make([]int, frames*opts.Channels),
			Format:         &goaudio.Format{NumChannels: opts.Channels, SampleRate: opts.SampleRate},
			SourceBitDepth: opts.BitDepth,
		},
		out: make([]byte, frames*opts.Channels*2),
	}, nil
}

func (r *Reader) NextPacket() ([]byte, int64, error) {
	if r.done {
		return nil, -1, io.EOF
	}

	n, err := r.dec.PCMBuffer(r.buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, -1, fmt.Errorf("reading pcm: %w", err)
	}

	// drop a partial trailing frame
	n -= n % r.channels
	if n <= 0 {
		r.done = true
		return nil, -1, io.EOF
	}
	if errors.Is(err, io.EOF) {
		r.done = true
	}

	for i, v := range r.buf.Data[:n] {
		if r.unsigned {
			v -= 128
		}
		binary.LittleEndian.PutUint16(r.out[2*i:], uint16(utils.IntToInt16(v, r.bitDepth)))
	}

	pts := r.frames * 1_000_000 / int64(r.rate)
	r.frames += int64(n / r.channels)

	return r.out[:2*n], pts, nil
}
