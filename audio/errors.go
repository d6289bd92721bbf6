// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	// ErrConversion is returned by Convert when a frame cannot be converted.
	// It only ever affects the frame it was returned for.
	ErrConversion = errors.New("audio conversion failed")

	ErrPoolSealed = errors.New("sample pool is sealed")
)
