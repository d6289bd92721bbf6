// SPDX-License-Identifier: EPL-2.0

package extract

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ik5/audxtract/audio"
	"github.com/ik5/audxtract/media"
)

// Decode selects the first audio track of d, decodes it with a codec from
// the registry and returns the converted 16 kHz mono PCM. The codec is
// stopped and released before Decode returns; d stays open.
func (e *Extractor) Decode(d media.Demuxer) (*audio.Pool, error) {
	return e.decode(d, e.logger)
}

func (e *Extractor) decode(d media.Demuxer, log *slog.Logger) (*audio.Pool, error) {
	track, format, err := media.SelectAudioTrack(d)
	if errors.Is(err, media.ErrNoAudioTrack) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	log.Debug("audio track found", slog.Int("track", track), slog.String("mime", format.MimeType))
	log.Debug("original format",
		slog.Int("sample_rate", format.SampleRate),
		slog.Int("channels", format.Channels),
		slog.Duration("duration", format.Duration),
	)

	if err := d.SelectTrack(track); err != nil {
		return nil, fmt.Errorf("%w: selecting track %d: %w", ErrDecode, track, err)
	}

	c, err := e.registry.NewCodec(format.MimeType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer func() {
		if err := errors.Join(c.Stop(), c.Release()); err != nil {
			log.Warn("releasing codec", slog.String("error", err.Error()))
		}
	}()

	if err := c.Configure(format); err != nil {
		return nil, fmt.Errorf("%w: configuring codec: %w", ErrDecode, err)
	}
	if err := c.Start(); err != nil {
		return nil, fmt.Errorf("%w: starting codec: %w", ErrDecode, err)
	}

	pool, err := e.drive(d, c, format, log)
	if err != nil {
		return nil, err
	}

	log.Debug("decoding finished",
		slog.Int64("total_bytes", pool.TotalBytes()),
		slog.Int("chunks", pool.Len()),
	)

	return pool, nil
}

// Drive runs the feed/drain loop over a selected track and a started codec
// until the codec reports end of stream. Every output buffer is converted to
// the target format and appended to the returned pool in order.
//
// Timeouts on either side are not errors. A frame that cannot be converted
// is logged and skipped; anything else the demuxer or codec reports aborts
// the loop with ErrDecode.
func (e *Extractor) Drive(d media.Demuxer, c media.Codec, format media.TrackFormat) (*audio.Pool, error) {
	return e.drive(d, c, format, e.logger)
}

func (e *Extractor) drive(d media.Demuxer, c media.Codec, format media.TrackFormat, log *slog.Logger) (*audio.Pool, error) {
	pool := audio.NewPool()
	inputEOS := false
	outputEOS := false

	for !outputEOS {
		if !inputEOS {
			eos, err := e.feed(d, c)
			if err != nil {
				return nil, err
			}
			inputEOS = eos
		}

		eos, err := e.drain(c, format, pool, log)
		if err != nil {
			return nil, err
		}
		outputEOS = eos
	}

	pool.Seal()

	return pool, nil
}

// feed moves one sample from the demuxer into a codec input slot and
// reports whether the end-of-stream marker was queued.
func (e *Extractor) feed(d media.Demuxer, c media.Codec) (bool, error) {
	slot, err := c.DequeueInputSlot(e.timeout)
	if errors.Is(err, media.ErrTryAgain) {
		e.metrics.FeedTimeout()
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: dequeue input: %w", ErrDecode, err)
	}

	buf, err := c.InputBuffer(slot)
	if err != nil {
		return false, fmt.Errorf("%w: input buffer %d: %w", ErrDecode, slot, err)
	}

	n, err := d.ReadSample(buf)
	if errors.Is(err, io.EOF) {
		if err := c.QueueInput(slot, 0, 0, media.FlagEndOfStream); err != nil {
			return false, fmt.Errorf("%w: queue end of stream: %w", ErrDecode, err)
		}
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: read sample: %w", ErrDecode, err)
	}

	if err := c.QueueInput(slot, n, d.SampleTime(), 0); err != nil {
		return false, fmt.Errorf("%w: queue input: %w", ErrDecode, err)
	}
	d.Advance()

	return false, nil
}

// drain converts at most one decoded buffer and reports whether it carried
// the end-of-stream flag.
func (e *Extractor) drain(c media.Codec, format media.TrackFormat, pool *audio.Pool, log *slog.Logger) (bool, error) {
	slot, info, err := c.DequeueOutputSlot(e.timeout)
	if errors.Is(err, media.ErrTryAgain) {
		e.metrics.DrainTimeout()
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: dequeue output: %w", ErrDecode, err)
	}

	convErr := e.convert(c, slot, info, format, pool, log)

	// the slot goes back even when conversion failed
	if err := c.ReleaseOutputSlot(slot); err != nil {
		return false, fmt.Errorf("%w: release output %d: %w", ErrDecode, slot, err)
	}
	if convErr != nil {
		return false, convErr
	}

	return info.EndOfStream(), nil
}

func (e *Extractor) convert(c media.Codec, slot int, info media.BufferInfo, format media.TrackFormat, pool *audio.Pool, log *slog.Logger) error {
	if info.Size <= 0 {
		return nil
	}

	buf, err := c.OutputBuffer(slot)
	if err != nil {
		return fmt.Errorf("%w: output buffer %d: %w", ErrDecode, slot, err)
	}
	if info.Size > len(buf) {
		return fmt.Errorf("%w: output size %d exceeds buffer of %d", ErrDecode, info.Size, len(buf))
	}

	chunk, err := audio.Convert(buf[:info.Size], format.SampleRate, format.Channels)
	if err != nil {
		e.metrics.FrameDropped()
		log.Warn("skipping frame",
			slog.Int64("pts", info.PresentationTime),
			slog.String("error", err.Error()),
		)
		return nil
	}

	if len(chunk) == 0 {
		return nil
	}

	if err := pool.Append(chunk); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	e.metrics.FrameDecoded(len(chunk))

	return nil
}
