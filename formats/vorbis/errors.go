// SPDX-License-Identifier: EPL-2.0

package vorbis

import "errors"

var (
	ErrNotVorbisFile     = errors.New("not an Ogg Vorbis stream")
	ErrUnsupportedLayout = errors.New("unsupported Vorbis layout")
	ErrCorruptPacket     = errors.New("corrupt Vorbis packet")
)
