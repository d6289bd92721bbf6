// SPDX-License-Identifier: EPL-2.0

package media

import "fmt"

// SelectAudioTrack returns the index and format of the first audio track of
// d, in track order. Later audio tracks are ignored.
func SelectAudioTrack(d Demuxer) (int, TrackFormat, error) {
	for i := range d.TrackCount() {
		f, err := d.TrackFormat(i)
		if err != nil {
			return -1, TrackFormat{}, fmt.Errorf("track %d: %w", i, err)
		}

		if f.IsAudio() {
			return i, f, nil
		}
	}

	return -1, TrackFormat{}, ErrNoAudioTrack
}
