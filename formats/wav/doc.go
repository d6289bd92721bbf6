// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes RIFF/WAVE files.
//
// # Demuxing
//
// Decoder is a media.Container built on github.com/go-audio/wav. It exposes
// the file as a single audio/raw track of interleaved 16-bit little-endian
// PCM; 8, 24 and 32-bit integer files are rescaled to 16 bits on the way out.
// Float and compressed WAV files are rejected with ErrOnlyPCMSupported.
//
//	f, _ := os.Open("in.wav")
//	d, err := wav.Decoder{}.Demux(f)
//
// # Writing
//
// WriteWAV16 writes the canonical 44-byte header followed by the payload:
//
//	RIFF <ChunkSize> WAVE
//	fmt  16 <AudioFormat=1> <NumChannels> <SampleRate> <ByteRate> <BlockAlign> <BitsPerSample>
//	data <Subchunk2Size> <samples...>
//
// where ChunkSize = Subchunk2Size + 36. The payload is anything that knows
// its length and can stream itself, such as an audio.Pool. Payloads that do
// not fit the 32-bit size fields fail with ErrPayloadTooLarge before anything
// is written.
//
// ParseHeader reads back a header written by WriteWAV16 and rejects anything
// that is not the canonical layout.
package wav
