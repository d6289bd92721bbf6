// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ik5/audxtract/internal/audiotest"
	"github.com/ik5/audxtract/media"
)

var stereo8k = media.TrackFormat{MimeType: media.MimeRaw, SampleRate: 8000, Channels: 2}

// drive feeds packets through c and collects every output buffer up to end of stream.
func drive(t *testing.T, c media.Codec, packets [][]byte) ([]byte, []media.BufferInfo, error) {
	t.Helper()

	var out []byte
	var infos []media.BufferInfo
	inputEOS := false
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		if !inputEOS {
			slot, err := c.DequeueInputSlot(5 * time.Millisecond)
			switch {
			case err == nil:
				buf, err := c.InputBuffer(slot)
				require.NoError(t, err)

				if len(packets) == 0 {
					require.NoError(t, c.QueueInput(slot, 0, 0, media.FlagEndOfStream))
					inputEOS = true
				} else {
					n := copy(buf, packets[0])
					packets = packets[1:]
					require.NoError(t, c.QueueInput(slot, n, 0, 0))
				}
			case !errors.Is(err, media.ErrTryAgain):
				return out, infos, err
			}
		}

		slot, info, err := c.DequeueOutputSlot(5 * time.Millisecond)
		if errors.Is(err, media.ErrTryAgain) {
			continue
		}
		if err != nil {
			return out, infos, err
		}

		buf, err := c.OutputBuffer(slot)
		require.NoError(t, err)
		out = append(out, buf[:info.Size]...)
		infos = append(infos, info)
		require.NoError(t, c.ReleaseOutputSlot(slot))

		if info.EndOfStream() {
			return out, infos, nil
		}
	}

	t.Fatal("codec did not reach end of stream")
	return nil, nil, nil
}

func startCodec(t *testing.T, decode DecodeFunc, opts Options, format media.TrackFormat) *Codec {
	t.Helper()

	c := New(decode, opts)
	require.NoError(t, c.Configure(format))
	require.NoError(t, c.Start())
	t.Cleanup(func() { _ = c.Release() })

	return c
}

func TestCodec_PassthroughRoundTrip(t *testing.T) {
	t.Parallel()

	pcm := audiotest.SinePCM(8000, 2, 8000, 440)
	c := startCodec(t, Passthrough, Options{InputSlots: 2, OutputSlots: 3, InputBufferSize: 1000, OutputBufferSize: 4096}, stereo8k)

	out, infos, err := drive(t, c, audiotest.Packetize(pcm, 1000))
	require.NoError(t, err)
	require.Equal(t, pcm, out)

	require.True(t, infos[len(infos)-1].EndOfStream())
	for _, info := range infos[:len(infos)-1] {
		require.False(t, info.EndOfStream())
		require.Equal(t, 4096, info.Size)
	}
}

func TestCodec_OutputFrameAligned(t *testing.T) {
	t.Parallel()

	pcm := audiotest.SinePCM(8000, 2, 1000, 300)
	// 1001 rounds down to 1000, a whole number of 4 byte frames
	c := startCodec(t, Passthrough, Options{OutputBufferSize: 1001}, stereo8k)

	out, infos, err := drive(t, c, audiotest.Packetize(pcm, 777))
	require.NoError(t, err)
	require.Equal(t, pcm, out)

	for _, info := range infos {
		require.Zero(t, info.Size%stereo8k.FrameSize(), "size %d", info.Size)
	}
}

func TestCodec_PresentationTime(t *testing.T) {
	t.Parallel()

	// 4000 bytes = 1000 stereo frames = 125ms at 8kHz
	pcm := audiotest.SilentPCM(2, 3000)
	c := startCodec(t, Passthrough, Options{OutputBufferSize: 4000}, stereo8k)

	_, infos, err := drive(t, c, audiotest.Packetize(pcm, 4096))
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(infos), 3)

	for i, info := range infos[:3] {
		require.Equal(t, int64(i)*125_000, info.PresentationTime)
	}
}

func TestCodec_EmptyStream(t *testing.T) {
	t.Parallel()

	c := startCodec(t, Passthrough, Options{}, stereo8k)

	out, infos, err := drive(t, c, nil)
	require.NoError(t, err)
	require.Empty(t, out)
	require.Len(t, infos, 1)
	require.True(t, infos[0].EndOfStream())
	require.Zero(t, infos[0].Size)
}

type failingReader struct {
	r     io.Reader
	after int
	err   error
}

func (f *failingReader) Read(p []byte) (int, error) {
	if f.after <= 0 {
		return 0, f.err
	}
	if len(p) > f.after {
		p = p[:f.after]
	}
	n, err := f.r.Read(p)
	f.after -= n
	return n, err
}

func TestCodec_DecodeErrorSurfaces(t *testing.T) {
	t.Parallel()

	boom := errors.New("corrupt frame")
	decode := func(r io.Reader, _ media.TrackFormat) (io.Reader, error) {
		return &failingReader{r: r, after: 100, err: boom}, nil
	}

	c := startCodec(t, decode, Options{}, stereo8k)
	_, _, err := drive(t, c, audiotest.Packetize(audiotest.SilentPCM(2, 4000), 1024))

	require.ErrorIs(t, err, ErrDecoder)
	require.ErrorIs(t, err, boom)
}

func TestCodec_DecoderOpenError(t *testing.T) {
	t.Parallel()

	boom := errors.New("no sync word")
	decode := func(r io.Reader, _ media.TrackFormat) (io.Reader, error) {
		buf := make([]byte, 4)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		return nil, boom
	}

	c := startCodec(t, decode, Options{}, stereo8k)
	_, _, err := drive(t, c, [][]byte{[]byte("junkjunk")})

	require.ErrorIs(t, err, boom)
}

func TestCodec_DecoderPanic(t *testing.T) {
	t.Parallel()

	decode := func(io.Reader, media.TrackFormat) (io.Reader, error) {
		panic("index out of range")
	}

	c := startCodec(t, decode, Options{}, stereo8k)
	_, _, err := drive(t, c, nil)

	require.ErrorIs(t, err, ErrDecoder)
}

func TestCodec_TryAgain(t *testing.T) {
	t.Parallel()

	c := startCodec(t, Passthrough, Options{InputSlots: 1}, stereo8k)

	// Nothing queued yet: output times out
	_, _, err := c.DequeueOutputSlot(time.Millisecond)
	require.ErrorIs(t, err, media.ErrTryAgain)

	slot, err := c.DequeueInputSlot(time.Millisecond)
	require.NoError(t, err)

	// The only input slot is held by us
	_, err = c.DequeueInputSlot(0)
	require.ErrorIs(t, err, media.ErrTryAgain)

	require.NoError(t, c.QueueInput(slot, 0, 0, 0))
}

func TestCodec_StateErrors(t *testing.T) {
	t.Parallel()

	c := New(Passthrough, Options{})

	require.ErrorIs(t, c.Start(), media.ErrInvalidState)
	_, err := c.DequeueInputSlot(time.Millisecond)
	require.ErrorIs(t, err, media.ErrInvalidState)
	_, _, err = c.DequeueOutputSlot(time.Millisecond)
	require.ErrorIs(t, err, media.ErrInvalidState)

	require.ErrorIs(t, c.Configure(media.TrackFormat{MimeType: media.MimeRaw}), media.ErrInvalidFormat)
	require.NoError(t, c.Configure(stereo8k))
	require.NoError(t, c.Start())
	require.ErrorIs(t, c.Configure(stereo8k), media.ErrInvalidState)

	_, err = c.InputBuffer(0)
	require.ErrorIs(t, err, media.ErrInvalidSlot)
	require.ErrorIs(t, c.QueueInput(0, 10, 0, 0), media.ErrInvalidSlot)
	_, err = c.OutputBuffer(0)
	require.ErrorIs(t, err, media.ErrInvalidSlot)
	require.ErrorIs(t, c.ReleaseOutputSlot(7), media.ErrInvalidSlot)

	slot, err := c.DequeueInputSlot(time.Second)
	require.NoError(t, err)
	require.ErrorIs(t, c.QueueInput(slot, 1<<30, 0, 0), media.ErrInvalidSlot)
	require.NoError(t, c.QueueInput(slot, 0, 0, media.FlagEndOfStream))

	_, err = c.DequeueInputSlot(time.Millisecond)
	require.ErrorIs(t, err, media.ErrInvalidState)

	require.NoError(t, c.Release())
	require.NoError(t, c.Release())
}

func TestCodec_StopUnblocksWorker(t *testing.T) {
	t.Parallel()

	c := startCodec(t, Passthrough, Options{}, stereo8k)

	// Worker is waiting for input that never comes
	slot, err := c.DequeueInputSlot(time.Second)
	require.NoError(t, err)
	require.NoError(t, c.QueueInput(slot, 8, 0, 0))

	done := make(chan error, 1)
	go func() { done <- c.Stop() }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Stop() did not return")
	}

	require.NoError(t, c.Stop())

	// Restart after stop
	require.NoError(t, c.Configure(stereo8k))
	require.NoError(t, c.Start())
	out, _, err := drive(t, c, [][]byte{{1, 2, 3, 4}})
	require.NoError(t, err)
	require.True(t, bytes.Equal(out, []byte{1, 2, 3, 4}))
}

func TestFactory(t *testing.T) {
	t.Parallel()

	reg := media.NewRegistry()
	reg.RegisterCodec(media.MimeRaw, Factory(Passthrough, DefaultOptions()))

	c, err := reg.NewCodec(media.MimeRaw)
	require.NoError(t, err)
	require.IsType(t, &Codec{}, c)
}
