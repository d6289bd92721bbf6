// SPDX-License-Identifier: EPL-2.0

package extract

import "errors"

var (
	// ErrDecode covers every fatal demuxer or codec failure.
	ErrDecode = errors.New("decode failed")

	// ErrIO covers failures creating or writing the destination file.
	ErrIO = errors.New("output failed")
)
