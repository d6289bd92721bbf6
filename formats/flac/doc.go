// SPDX-License-Identifier: EPL-2.0

// Package flac demuxes and decodes native FLAC streams using
// github.com/mewkiz/flac.
//
// Decoder reads the STREAMINFO block for sample rate, channel count and
// total length, rewinds, and hands out the raw bitstream as audio/flac
// packets. Decode parses frames back out of those packets and interleaves
// the subframes into 16-bit little-endian PCM; 24-bit sources lose their
// low byte, 8-bit sources are shifted up.
package flac
