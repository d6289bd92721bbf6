// SPDX-License-Identifier: EPL-2.0

// Package mp3 demuxes and decodes MPEG-1/2 Layer III audio using
// github.com/hajimehoshi/go-mp3.
//
// Decoder probes the stream for its sample rate and length, rewinds, and
// hands out the raw bitstream as audio/mpeg packets. Decode turns those
// packets back into PCM inside a codec.Codec:
//
//	reg.RegisterContainer(media.FormatMP3, mp3.Decoder{})
//	reg.RegisterCodec(media.MimeMPEG, codec.Factory(mp3.Decode, codec.DefaultOptions()))
//
// go-mp3 always outputs interleaved stereo 16-bit PCM, so tracks report two
// channels even for mono files; the mixdown step restores the mono signal.
package mp3
