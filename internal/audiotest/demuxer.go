// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audxtract/media"
)

// FakeDemuxer is a scripted media.Demuxer with any number of tracks.
// Packets are served for whichever track gets selected.
type FakeDemuxer struct {
	Tracks  []media.TrackFormat
	Packets [][]byte
	// PTSStep is added to the presentation time of every following packet.
	PTSStep int64

	// FormatErr is returned by TrackFormat for every index.
	FormatErr error
	// ReadErr is returned by ReadSample once ReadErrAt packets were served.
	ReadErr   error
	ReadErrAt int

	Selected int
	Closed   bool
	pos      int
}

func NewFakeDemuxer(tracks []media.TrackFormat, packets [][]byte) *FakeDemuxer {
	return &FakeDemuxer{
		Tracks:   tracks,
		Packets:  packets,
		PTSStep:  1000,
		Selected: -1,
	}
}

func (d *FakeDemuxer) TrackCount() int { return len(d.Tracks) }

func (d *FakeDemuxer) TrackFormat(i int) (media.TrackFormat, error) {
	if d.FormatErr != nil {
		return media.TrackFormat{}, d.FormatErr
	}
	if i < 0 || i >= len(d.Tracks) {
		return media.TrackFormat{}, fmt.Errorf("%w: %d", media.ErrInvalidTrack, i)
	}
	return d.Tracks[i], nil
}

func (d *FakeDemuxer) SelectTrack(i int) error {
	if i < 0 || i >= len(d.Tracks) {
		return fmt.Errorf("%w: %d", media.ErrInvalidTrack, i)
	}
	d.Selected = i
	return nil
}

func (d *FakeDemuxer) ReadSample(dst []byte) (int, error) {
	if d.Selected < 0 {
		return 0, media.ErrInvalidState
	}
	if d.ReadErr != nil && d.pos >= d.ReadErrAt {
		return 0, d.ReadErr
	}
	if d.pos >= len(d.Packets) {
		return 0, io.EOF
	}

	pkt := d.Packets[d.pos]
	if len(dst) < len(pkt) {
		return 0, media.ErrShortBuffer
	}
	return copy(dst, pkt), nil
}

func (d *FakeDemuxer) SampleTime() int64 {
	if d.pos >= len(d.Packets) {
		return -1
	}
	return int64(d.pos) * d.PTSStep
}

func (d *FakeDemuxer) Advance() bool {
	if d.pos < len(d.Packets) {
		d.pos++
	}
	return d.pos < len(d.Packets)
}

func (d *FakeDemuxer) Close() error {
	if d.Closed {
		return errors.New("demuxer closed twice")
	}
	d.Closed = true
	return nil
}
