// SPDX-License-Identifier: EPL-2.0

// Package extract turns the first audio track of a media file into a
// 16 kHz mono 16-bit PCM WAV file.
//
// An Extractor opens the source through a media.Registry, picks the first
// track whose MIME type starts with "audio/", and drives the matching codec
// with a feed/drain loop: compressed samples go into input slots, decoded
// PCM comes back through output slots. Every output buffer is mixed down,
// resampled and pooled; once the codec signals end of stream the pool is
// written out behind a canonical 44-byte header.
//
// Both dequeue calls wait at most the configured timeout (10ms by default)
// and a timeout simply moves the loop on.
//
// A file without an audio track fails with media.ErrNoAudioTrack and no
// destination file is created. Demuxer and codec failures wrap ErrDecode,
// destination failures wrap ErrIO.
package extract
