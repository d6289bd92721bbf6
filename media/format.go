// SPDX-License-Identifier: EPL-2.0

package media

import (
	"fmt"
	"strings"
	"time"
)

// MIME types of the audio tracks produced by the bundled containers.
const (
	MimeRaw    = "audio/raw"
	MimeMPEG   = "audio/mpeg"
	MimeVorbis = "audio/vorbis"
	MimeFLAC   = "audio/flac"
)

const audioMimePrefix = "audio/"

// TrackFormat describes one track of a container. It is discovered once
// when the container is opened and never changes afterwards.
type TrackFormat struct {
	MimeType   string
	SampleRate int
	Channels   int
	// Duration is zero when the container does not know it.
	Duration time.Duration
}

// IsAudio reports whether the track carries audio.
func (f TrackFormat) IsAudio() bool {
	return strings.HasPrefix(f.MimeType, audioMimePrefix)
}

// FrameSize is the size in bytes of one interleaved 16-bit PCM frame.
func (f TrackFormat) FrameSize() int {
	return f.Channels * 2
}

func (f TrackFormat) String() string {
	return fmt.Sprintf("%s %dHz %dch", f.MimeType, f.SampleRate, f.Channels)
}

// Validate checks the fields needed to decode the track.
func (f TrackFormat) Validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidFormat, f.SampleRate)
	}
	if f.Channels <= 0 {
		return fmt.Errorf("%w: channel count %d", ErrInvalidFormat, f.Channels)
	}
	return nil
}
