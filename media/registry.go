// SPDX-License-Identifier: EPL-2.0

package media

import (
	"fmt"
	"sync"
)

// Registry for containers by format key (e.g., "wav", "mp3", "ogg") and
// codecs by MIME type.
type Registry struct {
	containers map[string]Container
	codecs     map[string]CodecFactory

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		containers: make(map[string]Container),
		codecs:     make(map[string]CodecFactory),
		mtx:        &sync.Mutex{},
	}
}

func (r *Registry) RegisterContainer(format string, c Container) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.containers[format] = c
}

func (r *Registry) Container(format string) (Container, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	c, ok := r.containers[format]
	return c, ok
}

func (r *Registry) RegisterCodec(mime string, f CodecFactory) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[mime] = f
}

// NewCodec creates a codec for mime.
func (r *Registry) NewCodec(mime string) (Codec, error) {
	r.mtx.Lock()
	f, ok := r.codecs[mime]
	r.mtx.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCodec, mime)
	}

	c, err := f()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", mime, err)
	}

	return c, nil
}
