// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// HeaderSize is the size of the canonical PCM WAV header.
const HeaderSize = 44

const (
	fmtChunkSize  = 16
	pcmFormat     = 1
	riffOverhead  = HeaderSize - 8
	maxPayloadLen = math.MaxUint32 - riffOverhead
)

// Header is the canonical 44-byte RIFF/WAVE header of a PCM file.
type Header struct {
	ChunkSize     uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2Size uint32
}

// NewHeader derives a PCM header for dataSize bytes of samples.
func NewHeader(dataSize uint32, sampleRate, channels, bitsPerSample int) Header {
	blockAlign := channels * bitsPerSample / 8

	return Header{
		ChunkSize:     dataSize + riffOverhead,
		AudioFormat:   pcmFormat,
		NumChannels:   uint16(channels),
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate * blockAlign),
		BlockAlign:    uint16(blockAlign),
		BitsPerSample: uint16(bitsPerSample),
		Subchunk2Size: dataSize,
	}
}

// MarshalBinary encodes h in the canonical little-endian layout.
func (h Header) MarshalBinary() ([]byte, error) {
	header := make([]byte, HeaderSize)

	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], h.ChunkSize)
	copy(header[8:12], "WAVE")

	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], fmtChunkSize)
	binary.LittleEndian.PutUint16(header[20:22], h.AudioFormat)
	binary.LittleEndian.PutUint16(header[22:24], h.NumChannels)
	binary.LittleEndian.PutUint32(header[24:28], h.SampleRate)
	binary.LittleEndian.PutUint32(header[28:32], h.ByteRate)
	binary.LittleEndian.PutUint16(header[32:34], h.BlockAlign)
	binary.LittleEndian.PutUint16(header[34:36], h.BitsPerSample)

	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], h.Subchunk2Size)

	return header, nil
}

// ParseHeader decodes a canonical header written by MarshalBinary.
// Headers with extra chunks or inconsistent sizes are rejected.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d byte header", ErrNotWavFile, len(b))
	}

	if !bytes.Equal(b[0:4], []byte("RIFF")) || !bytes.Equal(b[8:12], []byte("WAVE")) {
		return Header{}, ErrNotWavFile
	}

	if !bytes.Equal(b[12:16], []byte("fmt ")) ||
		binary.LittleEndian.Uint32(b[16:20]) != fmtChunkSize ||
		!bytes.Equal(b[36:40], []byte("data")) {
		return Header{}, ErrUnsupportedWavLayout
	}

	h := Header{
		ChunkSize:     binary.LittleEndian.Uint32(b[4:8]),
		AudioFormat:   binary.LittleEndian.Uint16(b[20:22]),
		NumChannels:   binary.LittleEndian.Uint16(b[22:24]),
		SampleRate:    binary.LittleEndian.Uint32(b[24:28]),
		ByteRate:      binary.LittleEndian.Uint32(b[28:32]),
		BlockAlign:    binary.LittleEndian.Uint16(b[32:34]),
		BitsPerSample: binary.LittleEndian.Uint16(b[34:36]),
		Subchunk2Size: binary.LittleEndian.Uint32(b[40:44]),
	}

	if h.AudioFormat != pcmFormat {
		return Header{}, fmt.Errorf("%w: format tag %#x", ErrOnlyPCMSupported, h.AudioFormat)
	}

	if h.ChunkSize != h.Subchunk2Size+riffOverhead {
		return Header{}, fmt.Errorf("%w: chunk size %d for %d data bytes",
			ErrUnsupportedWavLayout, h.ChunkSize, h.Subchunk2Size)
	}

	blockAlign := uint32(h.NumChannels) * uint32(h.BitsPerSample) / 8
	if uint32(h.BlockAlign) != blockAlign || h.ByteRate != h.SampleRate*blockAlign {
		return Header{}, fmt.Errorf("%w: inconsistent byte rate", ErrUnsupportedWavLayout)
	}

	return h, nil
}

// Payload is an ordered sequence of PCM bytes of known length.
type Payload interface {
	TotalBytes() int64
	WriteTo(w io.Writer) (int64, error)
}

// WriteWAV16 writes a 16-bit PCM WAV at sampleRate: the header followed by
// the payload bytes in order.
func WriteWAV16(w io.Writer, sampleRate, channels int, payload Payload) error {
	size := payload.TotalBytes()
	if size < 0 || size > maxPayloadLen {
		return fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, size)
	}

	header, err := NewHeader(uint32(size), sampleRate, channels, 16).MarshalBinary()
	if err != nil {
		return err
	}

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	n, err := payload.WriteTo(w)
	if err != nil {
		return fmt.Errorf("writing samples: %w", err)
	}
	if n != size {
		return fmt.Errorf("%w: wrote %d of %d bytes", ErrShortPayload, n, size)
	}

	return nil
}
