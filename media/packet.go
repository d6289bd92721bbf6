// SPDX-License-Identifier: EPL-2.0

package media

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// PacketReader yields the samples of a single track in order.
type PacketReader interface {
	// NextPacket returns the next sample and its presentation time in
	// microseconds. The slice is only valid until the following call.
	// It returns io.EOF after the last sample.
	NextPacket() ([]byte, int64, error)
}

// PacketDemuxer is a single track Demuxer over a PacketReader.
type PacketDemuxer struct {
	format   TrackFormat
	pr       PacketReader
	selected bool

	cur    []byte
	pts    int64
	loaded bool
	eof    bool
	err    error
}

func NewPacketDemuxer(format TrackFormat, pr PacketReader) *PacketDemuxer {
	return &PacketDemuxer{
		format: format,
		pr:     pr,
		pts:    -1,
	}
}

func (d *PacketDemuxer) TrackCount() int { return 1 }

func (d *PacketDemuxer) TrackFormat(i int) (TrackFormat, error) {
	if i != 0 {
		return TrackFormat{}, fmt.Errorf("%w: %d", ErrInvalidTrack, i)
	}
	return d.format, nil
}

func (d *PacketDemuxer) SelectTrack(i int) error {
	if i != 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTrack, i)
	}
	d.selected = true
	return nil
}

func (d *PacketDemuxer) ReadSample(dst []byte) (int, error) {
	if !d.selected {
		return 0, fmt.Errorf("%w: no track selected", ErrInvalidState)
	}

	d.load()
	if d.err != nil {
		return 0, d.err
	}
	if d.eof {
		return 0, io.EOF
	}

	if len(dst) < len(d.cur) {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrShortBuffer, len(d.cur), len(dst))
	}

	return copy(dst, d.cur), nil
}

func (d *PacketDemuxer) SampleTime() int64 {
	if !d.selected {
		return -1
	}

	d.load()
	if d.eof || d.err != nil {
		return -1
	}
	return d.pts
}

func (d *PacketDemuxer) Advance() bool {
	if !d.selected || d.eof || d.err != nil {
		return false
	}

	d.load()
	d.loaded = false
	d.load()

	return !d.eof && d.err == nil
}

// Close closes the packet reader when it holds resources.
func (d *PacketDemuxer) Close() error {
	if c, ok := d.pr.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("%w", err)
		}
	}
	return nil
}

func (d *PacketDemuxer) load() {
	if d.loaded || d.eof || d.err != nil {
		return
	}

	pkt, pts, err := d.pr.NextPacket()
	switch {
	case errors.Is(err, io.EOF) && len(pkt) == 0:
		d.eof = true
		d.cur = nil
		d.pts = -1
	case err != nil && !errors.Is(err, io.EOF):
		d.err = fmt.Errorf("reading sample: %w", err)
	default:
		d.cur = pkt
		d.pts = pts
		d.loaded = true
	}
}

// BitstreamReader cuts a compressed elementary stream into fixed size
// packets. Presentation times are estimated linearly from the byte offset
// when both the stream size and its duration are known, and are 0 otherwise.
type BitstreamReader struct {
	r        io.Reader
	size     int64
	duration time.Duration
	offset   int64
	buf      []byte
}

func NewBitstreamReader(r io.Reader, size int64, duration time.Duration, packetSize int) *BitstreamReader {
	if packetSize <= 0 {
		packetSize = DefaultPacketSize
	}

	return &BitstreamReader{
		r:        r,
		size:     size,
		duration: duration,
		buf:      make([]byte, packetSize),
	}
}

// DefaultPacketSize is the bitstream packet size used when none is given.
const DefaultPacketSize = 4096

func (b *BitstreamReader) NextPacket() ([]byte, int64, error) {
	n, err := io.ReadFull(b.r, b.buf)
	if n == 0 {
		if err == nil || errors.Is(err, io.ErrUnexpectedEOF) {
			err = io.EOF
		}
		return nil, -1, err
	}

	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, -1, fmt.Errorf("%w", err)
	}

	pts := b.timeAt(b.offset)
	b.offset += int64(n)

	return b.buf[:n], pts, nil
}

func (b *BitstreamReader) timeAt(offset int64) int64 {
	if b.size <= 0 || b.duration <= 0 {
		return 0
	}
	return int64(float64(b.duration.Microseconds()) * float64(offset) / float64(b.size))
}
