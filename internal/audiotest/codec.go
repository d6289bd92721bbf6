// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"time"

	"github.com/ik5/audxtract/media"
)

type pendingOutput struct {
	data []byte
	info media.BufferInfo
}

// FakeCodec is a synchronous passthrough media.Codec: every queued input
// buffer comes back unchanged as one output buffer. It never blocks.
type FakeCodec struct {
	Format media.TrackFormat

	// TryAgainEvery makes every n-th dequeue call (counted separately for
	// input and output) report media.ErrTryAgain.
	TryAgainEvery int
	// OutputErr is returned by DequeueOutputSlot once FailAfter output
	// slots were handed out.
	OutputErr error
	FailAfter int
	// ConfigureErr is returned by Configure.
	ConfigureErr error

	Configured bool
	Started    bool
	Stopped    bool
	Released   bool

	// Queued records every queued input buffer.
	Queued []media.BufferInfo
	// ReleasedSlots counts released output slots.
	ReleasedSlots int

	inBufs   [][]byte
	freeIn   []int
	pending  []pendingOutput
	outBufs  map[int][]byte
	nextOut  int
	inCalls  int
	outCalls int
	handed   int
}

func NewFakeCodec() *FakeCodec {
	c := &FakeCodec{outBufs: make(map[int][]byte)}
	for i := range 2 {
		c.inBufs = append(c.inBufs, make([]byte, 64*1024))
		c.freeIn = append(c.freeIn, i)
	}
	return c
}

func (c *FakeCodec) Configure(format media.TrackFormat) error {
	if c.ConfigureErr != nil {
		return c.ConfigureErr
	}
	c.Format = format
	c.Configured = true
	return nil
}

func (c *FakeCodec) Start() error {
	if !c.Configured {
		return media.ErrInvalidState
	}
	c.Started = true
	return nil
}

func (c *FakeCodec) tryAgain(calls int) bool {
	return c.TryAgainEvery > 0 && calls%c.TryAgainEvery == 0
}

func (c *FakeCodec) DequeueInputSlot(time.Duration) (int, error) {
	if !c.Started || c.Stopped {
		return -1, media.ErrInvalidState
	}

	c.inCalls++
	if c.tryAgain(c.inCalls) || len(c.freeIn) == 0 {
		return -1, media.ErrTryAgain
	}

	slot := c.freeIn[0]
	c.freeIn = c.freeIn[1:]
	return slot, nil
}

func (c *FakeCodec) InputBuffer(slot int) ([]byte, error) {
	if slot < 0 || slot >= len(c.inBufs) {
		return nil, media.ErrInvalidSlot
	}
	return c.inBufs[slot], nil
}

func (c *FakeCodec) QueueInput(slot, size int, pts int64, flags media.BufferFlags) error {
	if slot < 0 || slot >= len(c.inBufs) || size > len(c.inBufs[slot]) {
		return media.ErrInvalidSlot
	}

	info := media.BufferInfo{Size: size, PresentationTime: pts, Flags: flags}
	c.Queued = append(c.Queued, info)
	c.pending = append(c.pending, pendingOutput{
		data: append([]byte(nil), c.inBufs[slot][:size]...),
		info: info,
	})
	c.freeIn = append(c.freeIn, slot)

	return nil
}

func (c *FakeCodec) DequeueOutputSlot(time.Duration) (int, media.BufferInfo, error) {
	if !c.Started || c.Stopped {
		return -1, media.BufferInfo{}, media.ErrInvalidState
	}

	c.outCalls++
	if c.OutputErr != nil && c.handed >= c.FailAfter {
		return -1, media.BufferInfo{}, c.OutputErr
	}
	if c.tryAgain(c.outCalls) || len(c.pending) == 0 {
		return -1, media.BufferInfo{}, media.ErrTryAgain
	}

	p := c.pending[0]
	c.pending = c.pending[1:]

	slot := c.nextOut
	c.nextOut++
	c.outBufs[slot] = p.data
	c.handed++

	return slot, p.info, nil
}

func (c *FakeCodec) OutputBuffer(slot int) ([]byte, error) {
	b, ok := c.outBufs[slot]
	if !ok {
		return nil, media.ErrInvalidSlot
	}
	return b, nil
}

func (c *FakeCodec) ReleaseOutputSlot(slot int) error {
	if _, ok := c.outBufs[slot]; !ok {
		return media.ErrInvalidSlot
	}
	delete(c.outBufs, slot)
	c.ReleasedSlots++
	return nil
}

// OutstandingSlots is the number of output slots handed out and not released.
func (c *FakeCodec) OutstandingSlots() int { return len(c.outBufs) }

func (c *FakeCodec) Stop() error {
	c.Stopped = true
	return nil
}

func (c *FakeCodec) Release() error {
	c.Released = true
	return nil
}
