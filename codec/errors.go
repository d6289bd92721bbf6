// SPDX-License-Identifier: EPL-2.0

package codec

import "errors"

var (
	// ErrStopped is seen by a running decoder when the codec is stopped underneath it.
	ErrStopped = errors.New("codec stopped")

	// ErrDecoder wraps failures of the underlying stream decoder.
	ErrDecoder = errors.New("decoder failed")
)
