// SPDX-License-Identifier: EPL-2.0

package audxtract

import (
	"sync"

	"github.com/ik5/audxtract/codec"
	"github.com/ik5/audxtract/extract"
	"github.com/ik5/audxtract/formats/aiff"
	"github.com/ik5/audxtract/formats/flac"
	"github.com/ik5/audxtract/formats/mp3"
	"github.com/ik5/audxtract/formats/vorbis"
	"github.com/ik5/audxtract/formats/wav"
	"github.com/ik5/audxtract/media"
)

// NewRegistry returns a registry with every bundled container and a
// software codec per track MIME type. opts sizes the codec slots; zero
// fields fall back to codec.DefaultOptions. Demuxers never emit a packet
// larger than the codec input slot.
func NewRegistry(opts codec.Options) *media.Registry {
	reg := media.NewRegistry()

	slot := opts.InputBufferSize
	if slot <= 0 {
		slot = codec.DefaultOptions().InputBufferSize
	}
	packet := min(slot, media.DefaultPacketSize)

	reg.RegisterContainer(media.FormatWAV, wav.Decoder{MaxPacketSize: slot})
	reg.RegisterContainer(media.FormatAIFF, aiff.Decoder{MaxPacketSize: slot})
	reg.RegisterContainer(media.FormatMP3, mp3.Decoder{PacketSize: packet})
	reg.RegisterContainer(media.FormatOgg, vorbis.Decoder{PacketSize: packet})
	reg.RegisterContainer(media.FormatFLAC, flac.Decoder{PacketSize: packet})

	reg.RegisterCodec(media.MimeRaw, codec.Factory(codec.Passthrough, opts))
	reg.RegisterCodec(media.MimeMPEG, codec.Factory(mp3.Decode, opts))
	reg.RegisterCodec(media.MimeVorbis, codec.Factory(vorbis.Decode, opts))
	reg.RegisterCodec(media.MimeFLAC, codec.Factory(flac.Decode, opts))

	return reg
}

var defaultRegistry = sync.OnceValue(func() *media.Registry {
	return NewRegistry(codec.DefaultOptions())
})

// DefaultRegistry is the shared registry used by ExtractAudioToWav.
func DefaultRegistry() *media.Registry {
	return defaultRegistry()
}

// ExtractAudioToWav converts the first audio track of src into a 16 kHz
// mono 16-bit PCM WAV file at dst and reports whether it succeeded.
//
// dst is only created when decoding succeeded. Failures are logged through
// the logger installed with extract.SetLogger.
func ExtractAudioToWav(src, dst string) bool {
	return extract.New(DefaultRegistry()).ExtractAudioToWav(src, dst)
}
