// SPDX-License-Identifier: EPL-2.0

// Package vorbis demuxes and decodes Ogg Vorbis audio using
// github.com/jfreymuth/oggvorbis.
//
// Decoder probes the stream headers for sample rate, channel count and
// length, rewinds, and hands out the raw Ogg pages as audio/vorbis packets.
// Decode is the matching codec.DecodeFunc: it decodes those packets and
// converts the float samples to interleaved 16-bit little-endian PCM.
//
//	reg.RegisterContainer(media.FormatOgg, vorbis.Decoder{})
//	reg.RegisterCodec(media.MimeVorbis, codec.Factory(vorbis.Decode, codec.DefaultOptions()))
//
// Float samples are clamped to [-1, 1] and scaled by 32767.
package vorbis
