// SPDX-License-Identifier: EPL-2.0

package media

import (
	"io"
	"time"
)

// Demuxer exposes the tracks of an opened container and hands out the
// compressed samples of the selected track one at a time.
type Demuxer interface {
	TrackCount() int
	TrackFormat(i int) (TrackFormat, error)
	SelectTrack(i int) error

	// ReadSample copies the current sample into dst without advancing.
	// It returns io.EOF when the track has no more samples.
	ReadSample(dst []byte) (int, error)
	// SampleTime is the presentation time of the current sample in
	// microseconds, or -1 when there is none.
	SampleTime() int64
	// Advance moves to the next sample and reports whether one exists.
	Advance() bool

	// Close releases the container.
	Close() error
}

// BufferFlags annotate codec input and output buffers.
type BufferFlags uint32

// FlagEndOfStream marks the last buffer of a stream.
const FlagEndOfStream BufferFlags = 1

// BufferInfo is the metadata of a dequeued output slot.
type BufferInfo struct {
	Size             int
	PresentationTime int64
	Flags            BufferFlags
}

func (b BufferInfo) EndOfStream() bool { return b.Flags&FlagEndOfStream != 0 }

// Codec is an asynchronous, slot based decoder. Compressed samples are
// queued into input slots and raw 16-bit PCM comes back through output slots.
//
// Both dequeue calls wait at most timeout and return ErrTryAgain when no slot
// became available in time.
type Codec interface {
	Configure(format TrackFormat) error
	Start() error

	DequeueInputSlot(timeout time.Duration) (int, error)
	InputBuffer(slot int) ([]byte, error)
	QueueInput(slot, size int, pts int64, flags BufferFlags) error

	DequeueOutputSlot(timeout time.Duration) (int, BufferInfo, error)
	OutputBuffer(slot int) ([]byte, error)
	ReleaseOutputSlot(slot int) error

	Stop() error
	Release() error
}

// CodecFactory creates an unconfigured codec.
type CodecFactory func() (Codec, error)

// Container opens a demuxer over a seekable stream. The demuxer does not
// own rs.
type Container interface {
	Demux(rs io.ReadSeeker) (Demuxer, error)
}

// ContainerFunc adapts a function to Container.
type ContainerFunc func(rs io.ReadSeeker) (Demuxer, error)

func (f ContainerFunc) Demux(rs io.ReadSeeker) (Demuxer, error) { return f(rs) }
