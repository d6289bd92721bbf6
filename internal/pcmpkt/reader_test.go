// SPDX-License-Identifier: EPL-2.0

package pcmpkt

import (
	"encoding/binary"
	"errors"
	"io"
	"testing"

	goaudio "github.com/go-audio/audio"
)

type fakeIntReader struct {
	data []int
	off  int
	err  error
}

func (f *fakeIntReader) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	n := copy(buf.Data, f.data[f.off:])
	f.off += n
	return n, nil
}

func samplesOf(pkt []byte) []int16 {
	out := make([]int16, len(pkt)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(pkt[2*i:]))
	}
	return out
}

func TestNewReader_InvalidLayout(t *testing.T) {
	t.Parallel()

	if _, err := NewReader(&fakeIntReader{}, Options{SampleRate: 0, Channels: 1}); err == nil {
		t.Error("NewReader() with zero rate: error = nil")
	}
	if _, err := NewReader(&fakeIntReader{}, Options{SampleRate: 8000, Channels: 0}); err == nil {
		t.Error("NewReader() with zero channels: error = nil")
	}
}

func TestReader_Packets(t *testing.T) {
	t.Parallel()

	data := make([]int, 10)
	for i := range data {
		data[i] = i * 100
	}

	r, err := NewReader(&fakeIntReader{data: data}, Options{SampleRate: 1000, Channels: 2, BitDepth: 16, Frames: 2})
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}

	var got []int16
	var times []int64
	for {
		pkt, pts, err := r.NextPacket()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("NextPacket() error = %v", err)
		}
		got = append(got, samplesOf(pkt)...)
		times = append(times, pts)
	}

	if len(got) != len(data) {
		t.Fatalf("got %d samples, want %d", len(got), len(data))
	}
	for i, v := range got {
		if int(v) != data[i] {
			t.Errorf("sample %d = %d, want %d", i, v, data[i])
		}
	}

	wantTimes := []int64{0, 2000, 4000}
	for i, want := range wantTimes {
		if times[i] != want {
			t.Errorf("pts[%d] = %d, want %d", i, times[i], want)
		}
	}
}

func TestReader_MaxPacketSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		channels  int
		maxPacket int
		wantLen   int
	}{
		{name: "no cap", channels: 2, maxPacket: 0, wantLen: DefaultFrames * 4},
		{name: "cap above default", channels: 2, maxPacket: 64 * 1024, wantLen: DefaultFrames * 4},
		{name: "stereo in 1024 bytes", channels: 2, maxPacket: 1024, wantLen: 1024},
		{name: "eight channels in 1024 bytes", channels: 8, maxPacket: 1024, wantLen: 1024},
		{name: "cap not a frame multiple", channels: 3, maxPacket: 1000, wantLen: 166 * 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data := make([]int, 4*DefaultFrames*tt.channels)
			r, err := NewReader(&fakeIntReader{data: data}, Options{
				SampleRate:    16000,
				Channels:      tt.channels,
				BitDepth:      16,
				MaxPacketSize: tt.maxPacket,
			})
			if err != nil {
				t.Fatalf("NewReader() error = %v", err)
			}

			pkt, _, err := r.NextPacket()
			if err != nil {
				t.Fatalf("NextPacket() error = %v", err)
			}
			if len(pkt) != tt.wantLen {
				t.Errorf("packet length = %d, want %d", len(pkt), tt.wantLen)
			}
		})
	}
}

func TestNewReader_FrameLargerThanPacket(t *testing.T) {
	t.Parallel()

	_, err := NewReader(&fakeIntReader{}, Options{SampleRate: 8000, Channels: 8, BitDepth: 16, MaxPacketSize: 8})
	if !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("NewReader() error = %v, want ErrFrameTooLarge", err)
	}
}

func TestReader_DropsPartialFrame(t *testing.T) {
	t.Parallel()

	r, err := NewReader(&fakeIntReader{data: []int{1, 2, 3}}, Options{SampleRate: 8000, Channels: 2, BitDepth: 16})
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}

	pkt, _, err := r.NextPacket()
	if err != nil {
		t.Fatalf("NextPacket() error = %v", err)
	}
	if len(pkt) != 4 {
		t.Errorf("packet length = %d, want 4", len(pkt))
	}

	if _, _, err := r.NextPacket(); !errors.Is(err, io.EOF) {
		t.Errorf("NextPacket() error = %v, want io.EOF", err)
	}
}

func TestReader_BitDepths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts Options
		in   int
		want int16
	}{
		{name: "unsigned 8-bit silence", opts: Options{BitDepth: 8, Unsigned8: true}, in: 128, want: 0},
		{name: "unsigned 8-bit max", opts: Options{BitDepth: 8, Unsigned8: true}, in: 255, want: 127 << 8},
		{name: "signed 8-bit", opts: Options{BitDepth: 8}, in: -128, want: -32768},
		{name: "24-bit", opts: Options{BitDepth: 24}, in: 0x123456, want: 0x1234},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := tt.opts
			opts.SampleRate = 8000
			opts.Channels = 1

			r, err := NewReader(&fakeIntReader{data: []int{tt.in}}, opts)
			if err != nil {
				t.Fatalf("NewReader() error = %v", err)
			}

			pkt, _, err := r.NextPacket()
			if err != nil {
				t.Fatalf("NextPacket() error = %v", err)
			}
			if got := samplesOf(pkt)[0]; got != tt.want {
				t.Errorf("sample = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestReader_DecoderError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	r, err := NewReader(&fakeIntReader{err: boom}, Options{SampleRate: 8000, Channels: 1, BitDepth: 16})
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}

	if _, _, err := r.NextPacket(); !errors.Is(err, boom) {
		t.Errorf("NextPacket() error = %v, want %v", err, boom)
	}
}
