// SPDX-License-Identifier: EPL-2.0

package flac

import "errors"

var (
	ErrNotFLACFile       = errors.New("not a FLAC stream")
	ErrUnsupportedLayout = errors.New("unsupported FLAC layout")
	ErrCorruptFrame      = errors.New("corrupt FLAC frame")
)
