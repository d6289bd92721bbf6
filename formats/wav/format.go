// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-audio/riff"
)

// ksDataFormatTail is shared by every KSDATAFORMAT_SUBTYPE GUID; the first
// two bytes of the GUID carry the plain format tag.
var ksDataFormatTail = [14]byte{0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71}

type fmtHeader struct {
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

type fmtExtension struct {
	Size        uint16
	ValidBits   uint16
	ChannelMask uint32
	SubFormat   [16]byte
}

// formatTag reads the RIFF/WAVE headers up to the fmt chunk and returns its
// format tag. WAVE_FORMAT_EXTENSIBLE is resolved to the tag in the
// sub-format GUID, or 0 when the GUID is not a KSDATAFORMAT subtype.
func formatTag(r io.Reader) (uint16, error) {
	p := riff.New(r)
	if err := p.ParseHeaders(); err != nil {
		return 0, fmt.Errorf("%w", err)
	}
	if p.Format != riff.WavFormatID {
		return 0, fmt.Errorf("%s: %w", p.Format, riff.ErrFmtNotSupported)
	}

	for {
		ch, err := p.NextChunk()
		if err != nil {
			return 0, fmt.Errorf("looking for fmt chunk: %w", err)
		}
		if ch.ID != riff.FmtID {
			ch.Drain()
			continue
		}

		var h fmtHeader
		if err := ch.ReadLE(&h); err != nil {
			return 0, fmt.Errorf("fmt chunk: %w", err)
		}
		if h.AudioFormat != formatExtensible || ch.Size < binary.Size(h)+binary.Size(fmtExtension{}) {
			return h.AudioFormat, nil
		}

		var ext fmtExtension
		if err := ch.ReadLE(&ext); err != nil {
			return 0, fmt.Errorf("fmt extension: %w", err)
		}
		if [14]byte(ext.SubFormat[2:]) != ksDataFormatTail {
			return 0, nil
		}

		return binary.LittleEndian.Uint16(ext.SubFormat[:2]), nil
	}
}
