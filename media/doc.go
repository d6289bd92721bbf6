// SPDX-License-Identifier: EPL-2.0

// Package media defines the demultiplexer and decoder capabilities the
// extraction pipeline is driven through, plus the shared pieces every
// container implementation builds on.
//
// A Demuxer exposes the tracks of a container and serves the compressed
// samples of the selected track:
//
//	d, _ := media.Open("clip.mp3", registry)
//	defer d.Close()
//	idx, format, err := media.SelectAudioTrack(d)
//	_ = d.SelectTrack(idx)
//
// A Codec turns those samples into 16-bit PCM through a pair of bounded
// slot queues. Both dequeue calls wait at most the given timeout and report
// ErrTryAgain otherwise, so a single goroutine can alternate between
// feeding and draining without ever blocking for long.
//
// The Registry maps container keys (see Sniff) to Container implementations
// and MIME types to codec factories.
package media
