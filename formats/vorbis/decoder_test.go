// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/ik5/audxtract/media"
)

// mockOggReader simulates the oggvorbis.Reader for testing
type mockOggReader struct {
	sampleRate  int
	channels    int
	length      int64
	samples     []float32 // interleaved values
	offset      int
	err         error
	eofWithData bool
}

func (m *mockOggReader) SampleRate() int { return m.sampleRate }
func (m *mockOggReader) Channels() int   { return m.channels }
func (m *mockOggReader) Length() int64   { return m.length }

func (m *mockOggReader) Read(p []float32) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if m.offset >= len(m.samples) {
		return 0, io.EOF
	}

	n := copy(p, m.samples[m.offset:])
	m.offset += n

	if m.eofWithData && m.offset >= len(m.samples) {
		return n, io.EOF
	}
	return n, nil
}

func decodeLE(b []byte) []int16 {
	out := make([]int16, len(b)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(b[2*i:]))
	}
	return out
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "empty", input: nil},
		{name: "text", input: []byte("This is not Ogg Vorbis data")},
		{name: "ogg page header only", input: []byte("OggS\x00\x02")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := (Decoder{}).Demux(bytes.NewReader(tt.input)); !errors.Is(err, ErrNotVorbisFile) {
				t.Errorf("Demux() error = %v, want %v", err, ErrNotVorbisFile)
			}

			if _, err := Decode(bytes.NewReader(tt.input), media.TrackFormat{}); !errors.Is(err, ErrNotVorbisFile) {
				t.Errorf("Decode() error = %v, want %v", err, ErrNotVorbisFile)
			}
		})
	}
}

func TestTrackFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		sampleRate   int
		channels     int
		length       int64
		wantDuration time.Duration
	}{
		{name: "stereo one second", sampleRate: 44100, channels: 2, length: 44100, wantDuration: time.Second},
		{name: "mono 250ms", sampleRate: 16000, channels: 1, length: 4000, wantDuration: 250 * time.Millisecond},
		{name: "unknown length", sampleRate: 48000, channels: 6, length: 0, wantDuration: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := trackFormat(&mockOggReader{sampleRate: tt.sampleRate, channels: tt.channels, length: tt.length})

			want := media.TrackFormat{
				MimeType:   media.MimeVorbis,
				SampleRate: tt.sampleRate,
				Channels:   tt.channels,
				Duration:   tt.wantDuration,
			}
			if got != want {
				t.Errorf("trackFormat() = %+v, want %+v", got, want)
			}
		})
	}
}

func TestPCMStream_Conversion(t *testing.T) {
	t.Parallel()

	values := []float32{0, 0.5, 1, -0.5, -1, 2, -2, 0.25}
	want := []int16{0, 16383, 32767, -16383, -32767, 32767, -32767, 8191}

	for _, eofWithData := range []bool{false, true} {
		s := newPCMStream(&mockOggReader{sampleRate: 8000, channels: 2, samples: values, eofWithData: eofWithData})

		got, err := io.ReadAll(s)
		if err != nil {
			t.Fatalf("ReadAll() error = %v", err)
		}

		samples := decodeLE(got)
		if len(samples) != len(want) {
			t.Fatalf("got %d samples, want %d", len(samples), len(want))
		}
		for i := range want {
			if samples[i] != want[i] {
				t.Errorf("eofWithData=%v: sample %d = %d, want %d", eofWithData, i, samples[i], want[i])
			}
		}
	}
}

func TestPCMStream_SmallReads(t *testing.T) {
	t.Parallel()

	values := make([]float32, 10000)
	for i := range values {
		values[i] = float32(i%100) / 100
	}

	s := newPCMStream(&mockOggReader{sampleRate: 8000, channels: 1, samples: values})

	var got []byte
	buf := make([]byte, 3)
	for {
		n, err := s.Read(buf)
		got = append(got, buf[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
	}

	if len(got) != len(values)*2 {
		t.Errorf("read %d bytes, want %d", len(got), len(values)*2)
	}
}

func TestPCMStream_DecoderError(t *testing.T) {
	t.Parallel()

	s := newPCMStream(&mockOggReader{channels: 1, err: errors.New("bad packet")})

	_, err := s.Read(make([]byte, 64))
	if !errors.Is(err, ErrCorruptPacket) {
		t.Errorf("Read() error = %v, want %v", err, ErrCorruptPacket)
	}
}

func TestPCMStream_EmptyBuffer(t *testing.T) {
	t.Parallel()

	s := newPCMStream(&mockOggReader{channels: 1, samples: []float32{0.5}})

	n, err := s.Read(nil)
	if n != 0 || err != nil {
		t.Errorf("Read(nil) = %d, %v, want 0, nil", n, err)
	}
}

func BenchmarkPCMStream_Read(b *testing.B) {
	values := make([]float32, 48000*2)
	buf := make([]byte, 16384)

	b.ReportAllocs()
	for b.Loop() {
		s := newPCMStream(&mockOggReader{sampleRate: 48000, channels: 2, samples: values})
		for {
			if _, err := s.Read(buf); err != nil {
				break
			}
		}
	}
}
