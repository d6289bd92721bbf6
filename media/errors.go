// SPDX-License-Identifier: EPL-2.0

package media

import "errors"

var (
	// ErrNoAudioTrack is returned when a container has no audio track.
	ErrNoAudioTrack = errors.New("no audio track found")

	// ErrTryAgain is returned by the codec dequeue calls when no slot became
	// available before the timeout. It is not a failure.
	ErrTryAgain = errors.New("try again later")

	ErrUnsupportedContainer = errors.New("unsupported container")
	ErrUnsupportedCodec     = errors.New("unsupported codec")
	ErrInvalidFormat        = errors.New("invalid track format")
	ErrInvalidTrack         = errors.New("invalid track index")
	ErrInvalidState         = errors.New("invalid state")
	ErrInvalidSlot          = errors.New("invalid slot")
	ErrShortBuffer          = errors.New("sample does not fit buffer")
)
