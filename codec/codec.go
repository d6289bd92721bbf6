// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ik5/audxtract/media"
)

// DecodeFunc wraps a compressed byte stream in a reader of interleaved
// 16-bit little-endian PCM with format.Channels channels.
//
// r blocks until the next input buffer is queued and returns io.EOF after
// the end-of-stream buffer was consumed.
type DecodeFunc func(r io.Reader, format media.TrackFormat) (io.Reader, error)

// Passthrough is the DecodeFunc for input that already is 16-bit PCM.
func Passthrough(r io.Reader, _ media.TrackFormat) (io.Reader, error) {
	return r, nil
}

type Options struct {
	InputSlots       int
	OutputSlots      int
	InputBufferSize  int
	OutputBufferSize int
}

func DefaultOptions() Options {
	return Options{
		InputSlots:       4,
		OutputSlots:      4,
		InputBufferSize:  64 * 1024,
		OutputBufferSize: 16 * 1024,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.InputSlots <= 0 {
		o.InputSlots = d.InputSlots
	}
	if o.OutputSlots <= 0 {
		o.OutputSlots = d.OutputSlots
	}
	if o.InputBufferSize <= 0 {
		o.InputBufferSize = d.InputBufferSize
	}
	if o.OutputBufferSize <= 0 {
		o.OutputBufferSize = d.OutputBufferSize
	}
	return o
}

// Factory returns a media.CodecFactory producing codecs around decode.
func Factory(decode DecodeFunc, opts Options) media.CodecFactory {
	return func() (media.Codec, error) {
		return New(decode, opts), nil
	}
}

type state int

const (
	stateUninitialized state = iota
	stateConfigured
	stateStarted
	stateStopped
	stateReleased
)

type inputPacket struct {
	slot  int
	size  int
	pts   int64
	flags media.BufferFlags
}

type outputEvent struct {
	slot int
	info media.BufferInfo
}

// Codec is a software media.Codec. A worker goroutine pulls queued input
// buffers through a DecodeFunc and fills output slots with PCM; the caller
// only ever talks to it through bounded channel waits.
//
// Codec is driven by a single goroutine, the same way a hardware codec is.
type Codec struct {
	decode DecodeFunc
	opts   Options
	format media.TrackFormat
	state  state

	inBufs   [][]byte
	outBufs  [][]byte
	inOwned  []bool
	outOwned []bool
	inputEOS bool

	freeIn  chan int
	queued  chan inputPacket
	freeOut chan int
	ready   chan outputEvent

	done     chan struct{}
	finished chan struct{}
	stopOnce *sync.Once

	failed   chan struct{}
	failOnce *sync.Once
	err      error
}

func New(decode DecodeFunc, opts Options) *Codec {
	return &Codec{
		decode: decode,
		opts:   opts.withDefaults(),
	}
}

// Configure allocates the slot buffers for format.
func (c *Codec) Configure(format media.TrackFormat) error {
	if c.state != stateUninitialized && c.state != stateStopped {
		return fmt.Errorf("%w: configure while %s", media.ErrInvalidState, c.state)
	}
	if err := format.Validate(); err != nil {
		return fmt.Errorf("%w", err)
	}

	c.format = format

	outSize := c.opts.OutputBufferSize - c.opts.OutputBufferSize%format.FrameSize()
	if outSize <= 0 {
		outSize = format.FrameSize()
	}

	c.inBufs = makeBuffers(c.opts.InputSlots, c.opts.InputBufferSize)
	c.outBufs = makeBuffers(c.opts.OutputSlots, outSize)
	c.inOwned = make([]bool, c.opts.InputSlots)
	c.outOwned = make([]bool, c.opts.OutputSlots)
	c.inputEOS = false
	c.state = stateConfigured

	return nil
}

func makeBuffers(n, size int) [][]byte {
	bufs := make([][]byte, n)
	for i := range bufs {
		bufs[i] = make([]byte, size)
	}
	return bufs
}

// Start launches the decoding worker.
func (c *Codec) Start() error {
	if c.state != stateConfigured {
		return fmt.Errorf("%w: start while %s", media.ErrInvalidState, c.state)
	}

	c.freeIn = make(chan int, len(c.inBufs))
	c.queued = make(chan inputPacket, len(c.inBufs))
	c.freeOut = make(chan int, len(c.outBufs))
	c.ready = make(chan outputEvent, len(c.outBufs))
	c.done = make(chan struct{})
	c.finished = make(chan struct{})
	c.failed = make(chan struct{})
	c.stopOnce = &sync.Once{}
	c.failOnce = &sync.Once{}
	c.err = nil

	for i := range c.inBufs {
		c.freeIn <- i
	}
	for i := range c.outBufs {
		c.freeOut <- i
	}

	c.state = stateStarted
	go c.run()

	return nil
}

// DequeueInputSlot hands out a free input slot, waiting at most timeout.
// A negative timeout waits indefinitely.
func (c *Codec) DequeueInputSlot(timeout time.Duration) (int, error) {
	if c.state != stateStarted {
		return -1, fmt.Errorf("%w: dequeue input while %s", media.ErrInvalidState, c.state)
	}
	if c.inputEOS {
		return -1, fmt.Errorf("%w: input already ended", media.ErrInvalidState)
	}
	if err := c.failure(); err != nil {
		return -1, err
	}

	timer, expired := newTimer(timeout)
	if timer != nil {
		defer timer.Stop()
	}

	select {
	case slot := <-c.freeIn:
		c.inOwned[slot] = true
		return slot, nil
	case <-c.failed:
		return -1, c.err
	case <-expired:
		return -1, media.ErrTryAgain
	}
}

func (c *Codec) InputBuffer(slot int) ([]byte, error) {
	if slot < 0 || slot >= len(c.inOwned) || !c.inOwned[slot] {
		return nil, fmt.Errorf("%w: input %d", media.ErrInvalidSlot, slot)
	}
	return c.inBufs[slot], nil
}

// QueueInput hands size bytes of slot to the decoder. Queuing with
// FlagEndOfStream ends the input; the slot may be empty then.
func (c *Codec) QueueInput(slot, size int, pts int64, flags media.BufferFlags) error {
	if c.state != stateStarted {
		return fmt.Errorf("%w: queue input while %s", media.ErrInvalidState, c.state)
	}
	if slot < 0 || slot >= len(c.inOwned) || !c.inOwned[slot] {
		return fmt.Errorf("%w: input %d", media.ErrInvalidSlot, slot)
	}
	if size < 0 || size > len(c.inBufs[slot]) {
		return fmt.Errorf("%w: size %d of %d", media.ErrInvalidSlot, size, len(c.inBufs[slot]))
	}

	c.inOwned[slot] = false
	if flags&media.FlagEndOfStream != 0 {
		c.inputEOS = true
	}

	// Never blocks: the channel has room for every slot.
	c.queued <- inputPacket{slot: slot, size: size, pts: pts, flags: flags}

	return nil
}

// DequeueOutputSlot returns the next decoded slot, waiting at most timeout.
// Decoder failures are reported here once every slot decoded before the
// failure was handed out.
func (c *Codec) DequeueOutputSlot(timeout time.Duration) (int, media.BufferInfo, error) {
	if c.state != stateStarted {
		return -1, media.BufferInfo{}, fmt.Errorf("%w: dequeue output while %s", media.ErrInvalidState, c.state)
	}

	select {
	case ev := <-c.ready:
		c.outOwned[ev.slot] = true
		return ev.slot, ev.info, nil
	default:
	}

	if err := c.failure(); err != nil {
		return -1, media.BufferInfo{}, err
	}

	timer, expired := newTimer(timeout)
	if timer != nil {
		defer timer.Stop()
	}

	select {
	case ev := <-c.ready:
		c.outOwned[ev.slot] = true
		return ev.slot, ev.info, nil
	case <-c.failed:
		return -1, media.BufferInfo{}, c.err
	case <-expired:
		return -1, media.BufferInfo{}, media.ErrTryAgain
	}
}

// OutputBuffer returns the whole buffer of a dequeued slot; the valid bytes
// are the first BufferInfo.Size.
func (c *Codec) OutputBuffer(slot int) ([]byte, error) {
	if slot < 0 || slot >= len(c.outOwned) || !c.outOwned[slot] {
		return nil, fmt.Errorf("%w: output %d", media.ErrInvalidSlot, slot)
	}
	return c.outBufs[slot], nil
}

func (c *Codec) ReleaseOutputSlot(slot int) error {
	if slot < 0 || slot >= len(c.outOwned) || !c.outOwned[slot] {
		return fmt.Errorf("%w: output %d", media.ErrInvalidSlot, slot)
	}

	c.outOwned[slot] = false
	if c.state == stateStarted {
		c.freeOut <- slot
	}

	return nil
}

// Stop halts the worker and waits for it. Stopping twice is harmless.
func (c *Codec) Stop() error {
	switch c.state {
	case stateStarted:
		c.stopOnce.Do(func() { close(c.done) })
		<-c.finished
	case stateStopped, stateReleased:
		return nil
	}

	c.state = stateStopped
	return nil
}

// Release stops the codec if needed and drops its buffers.
func (c *Codec) Release() error {
	if c.state == stateReleased {
		return nil
	}
	if err := c.Stop(); err != nil {
		return err
	}

	c.inBufs, c.outBufs = nil, nil
	c.inOwned, c.outOwned = nil, nil
	c.state = stateReleased

	return nil
}

func (c *Codec) failure() error {
	select {
	case <-c.failed:
		return c.err
	default:
		return nil
	}
}

func (c *Codec) fail(err error) {
	c.failOnce.Do(func() {
		c.err = fmt.Errorf("%w: %w", ErrDecoder, err)
		close(c.failed)
	})
}

func (c *Codec) run() {
	defer close(c.finished)
	defer func() {
		if r := recover(); r != nil {
			c.fail(fmt.Errorf("panic: %v", r))
		}
	}()

	pcm, err := c.decode(&inputStream{c: c}, c.format)
	if err != nil {
		if !errors.Is(err, ErrStopped) {
			c.fail(err)
		}
		return
	}
	if closer, ok := pcm.(io.Closer); ok {
		defer closer.Close()
	}

	frameSize := int64(c.format.FrameSize())
	rate := int64(c.format.SampleRate)
	var frames int64

	for {
		var slot int
		select {
		case slot = <-c.freeOut:
		case <-c.done:
			return
		}

		n, err := io.ReadFull(pcm, c.outBufs[slot])
		end := errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
		if err != nil && !end {
			if !errors.Is(err, ErrStopped) {
				c.fail(err)
			}
			return
		}

		info := media.BufferInfo{
			Size:             n,
			PresentationTime: frames * 1_000_000 / rate,
		}
		frames += int64(n) / frameSize
		if end {
			info.Flags |= media.FlagEndOfStream
		}

		select {
		case c.ready <- outputEvent{slot: slot, info: info}:
		case <-c.done:
			return
		}

		if end {
			return
		}
	}
}

// inputStream presents the queued input buffers to the decoder as one
// continuous byte stream.
type inputStream struct {
	c    *Codec
	cur  []byte
	slot int
	held bool
	eos  bool
}

func (s *inputStream) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	for !s.held || len(s.cur) == 0 {
		if s.held {
			s.c.freeIn <- s.slot
			s.held = false
		}
		if s.eos {
			return 0, io.EOF
		}

		select {
		case pkt := <-s.c.queued:
			s.slot = pkt.slot
			s.cur = s.c.inBufs[pkt.slot][:pkt.size]
			s.held = true
			s.eos = pkt.flags&media.FlagEndOfStream != 0
		case <-s.c.done:
			return 0, ErrStopped
		}
	}

	n := copy(p, s.cur)
	s.cur = s.cur[n:]

	return n, nil
}

func newTimer(timeout time.Duration) (*time.Timer, <-chan time.Time) {
	if timeout < 0 {
		return nil, nil
	}
	t := time.NewTimer(timeout)
	return t, t.C
}

func (s state) String() string {
	switch s {
	case stateUninitialized:
		return "uninitialized"
	case stateConfigured:
		return "configured"
	case stateStarted:
		return "started"
	case stateStopped:
		return "stopped"
	case stateReleased:
		return "released"
	}
	return fmt.Sprintf("state(%d)", int(s))
}
