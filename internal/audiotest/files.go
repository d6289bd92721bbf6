// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

type pcmEncoder interface {
	Write(buf *goaudio.IntBuffer) error
	Close() error
}

// WriteWAVFile writes interleaved integer samples as a PCM WAV file using go-audio.
func WriteWAVFile(path string, sampleRate, bitDepth, channels int, samples []int) error {
	return writeFile(path, samples, sampleRate, bitDepth, channels, func(w io.WriteSeeker) pcmEncoder {
		return wav.NewEncoder(w, sampleRate, bitDepth, channels, 1)
	})
}

// WriteAIFFFile writes interleaved integer samples as an AIFF file using go-audio.
func WriteAIFFFile(path string, sampleRate, bitDepth, channels int, samples []int) error {
	return writeFile(path, samples, sampleRate, bitDepth, channels, func(w io.WriteSeeker) pcmEncoder {
		return aiff.NewEncoder(w, sampleRate, bitDepth, channels)
	})
}

func writeFile(path string, samples []int, sampleRate, bitDepth, channels int,
	newEncoder func(io.WriteSeeker) pcmEncoder,
) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	defer f.Close()

	enc := newEncoder(f)
	buf := &goaudio.IntBuffer{
		Data:           samples,
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("%w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

// Ints widens 16-bit samples for the go-audio encoders.
func Ints(samples []int16) []int {
	out := make([]int, len(samples))
	for i, s := range samples {
		out[i] = int(s)
	}
	return out
}
