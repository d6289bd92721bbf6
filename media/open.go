// SPDX-License-Identifier: EPL-2.0

package media

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// Container format keys used by Sniff and the registry.
const (
	FormatWAV    = "wav"
	FormatAIFF   = "aiff"
	FormatMP3    = "mp3"
	FormatOgg    = "ogg"
	FormatFLAC   = "flac"
	sniffHeadLen = 12
)

// Sniff identifies a container from its first bytes.
func Sniff(head []byte) (string, error) {
	switch {
	case len(head) >= 12 && bytes.Equal(head[:4], []byte("RIFF")) && bytes.Equal(head[8:12], []byte("WAVE")):
		return FormatWAV, nil
	case len(head) >= 12 && bytes.Equal(head[:4], []byte("FORM")) &&
		(bytes.Equal(head[8:12], []byte("AIFF")) || bytes.Equal(head[8:12], []byte("AIFC"))):
		return FormatAIFF, nil
	case bytes.HasPrefix(head, []byte("OggS")):
		return FormatOgg, nil
	case bytes.HasPrefix(head, []byte("fLaC")):
		return FormatFLAC, nil
	case bytes.HasPrefix(head, []byte("ID3")):
		return FormatMP3, nil
	case len(head) >= 2 && head[0] == 0xFF && head[1]&0xE0 == 0xE0:
		// MPEG audio frame sync
		return FormatMP3, nil
	}

	return "", ErrUnsupportedContainer
}

// Open opens the file at path, identifies its container and returns a
// demuxer that owns the file. Closing the demuxer closes the file.
func Open(path string, reg *Registry) (Demuxer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	d, err := demuxFile(f, reg)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return &fileDemuxer{Demuxer: d, f: f}, nil
}

func demuxFile(f *os.File, reg *Registry) (Demuxer, error) {
	head := make([]byte, sniffHeadLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w", err)
	}

	format, err := Sniff(head[:n])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Name(), err)
	}

	c, ok := reg.Container(format)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedContainer, format)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	d, err := c.Demux(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", format, err)
	}

	return d, nil
}

type fileDemuxer struct {
	Demuxer
	f *os.File
}

func (d *fileDemuxer) Close() error {
	return errors.Join(d.Demuxer.Close(), d.f.Close())
}
