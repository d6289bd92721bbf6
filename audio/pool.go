// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
)

// Pool accumulates converted PCM chunks in arrival order until they are
// written out in one pass. It is not safe for concurrent use.
type Pool struct {
	chunks [][]byte
	total  int64
	sealed bool
}

func NewPool() *Pool {
	return &Pool{}
}

// Append takes ownership of chunk and adds it to the end of the pool.
func (p *Pool) Append(chunk []byte) error {
	if p.sealed {
		return ErrPoolSealed
	}

	p.chunks = append(p.chunks, chunk)
	p.total += int64(len(chunk))

	return nil
}

// TotalBytes is the sum of all chunk lengths.
func (p *Pool) TotalBytes() int64 { return p.total }

// Len is the number of chunks.
func (p *Pool) Len() int { return len(p.chunks) }

// Chunks exposes the chunks in append order. Callers must not modify them.
func (p *Pool) Chunks() [][]byte { return p.chunks }

// Seal marks the pool complete; later appends fail with ErrPoolSealed.
func (p *Pool) Seal() { p.sealed = true }

func (p *Pool) Sealed() bool { return p.sealed }

// WriteTo streams every chunk to w in order.
func (p *Pool) WriteTo(w io.Writer) (int64, error) {
	var written int64
	for _, c := range p.chunks {
		n, err := w.Write(c)
		written += int64(n)
		if err != nil {
			return written, fmt.Errorf("%w", err)
		}
	}

	return written, nil
}
