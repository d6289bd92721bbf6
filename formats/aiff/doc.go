// SPDX-License-Identifier: EPL-2.0

// Package aiff demuxes AIFF (Audio Interchange File Format) files.
//
// Decoder is a media.Container built on github.com/go-audio/aiff. The file is
// exposed as one audio/raw track of interleaved 16-bit little-endian PCM, so
// it pairs with the passthrough codec:
//
//	f, _ := os.Open("audio.aif")
//	d, err := aiff.Decoder{}.Demux(f)
//	if errors.Is(err, aiff.ErrNotAiffFile) {
//	    // not an AIFF file
//	}
//
// 8, 24 and 32-bit files are rescaled to 16 bits. Presentation times are
// derived from the number of frames already returned.
package aiff
