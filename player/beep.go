//go:build (linux && cgo) || windows || darwin

package player

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
	"github.com/keypoint-cli/keypoint/filesystem"
	"github.com/keypoint-cli/keypoint/media"
	"github.com/keypoint-cli/keypoint/network"
)

const speakerRate = beep.SampleRate(44100)

var (
	speakerOnce sync.Once
	speakerErr  error
)

func initSpeaker() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(speakerRate, speakerRate.N(time.Second/10))
	})
	return speakerErr
}

// Beep decodes audio in-process and plays it through the system speaker.
type Beep struct {
	streamer  beep.StreamSeekCloser
	format    beep.Format
	resampler *beep.Resampler
	ctrl      *beep.Ctrl
	base      float64

	// touched by the speaker goroutine
	generation atomic.Int64
	drained    atomic.Bool

	events chan Event
}

// NewBeep returns the in-process backend.
func NewBeep() (Backend, error) {
	if err := initSpeaker(); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}

	return &Beep{events: make(chan Event, eventBuffer)}, nil
}

type nopCloser struct {
	*bytes.Reader
}

func (nopCloser) Close() error { return nil }

func decode(ref media.Reference, data []byte) (beep.StreamSeekCloser, beep.Format, error) {
	r := bytes.NewReader(data)

	switch ref.Ext() {
	case ".wav":
		return wav.Decode(r)
	case ".flac":
		return flac.Decode(r)
	case ".ogg", ".oga":
		return vorbis.Decode(nopCloser{r})
	default:
		return mp3.Decode(nopCloser{r})
	}
}

func (b *Beep) Open(ctx context.Context, ref media.Reference) error {
	var (
		data []byte
		err  error
	)

	if ref.Remote() {
		data, err = network.Fetch(ctx, ref.Target())
	} else {
		data, err = filesystem.API().ReadFile(ref.Path())
	}
	if err != nil {
		return err
	}

	streamer, format, err := decode(ref, data)
	if err != nil {
		return fmt.Errorf("decode %s: %w", ref, err)
	}

	_ = b.Unload()

	b.streamer = streamer
	b.format = format
	b.base = float64(format.SampleRate) / float64(speakerRate)
	b.resampler = beep.ResampleRatio(4, b.base, streamer)
	b.ctrl = &beep.Ctrl{Streamer: b.resampler, Paused: true}
	b.attach()

	return nil
}

// attach queues the current item on the speaker. The sequence ends with a
// callback tagged by generation so a stale item cannot report its end.
func (b *Beep) attach() {
	gen := b.generation.Add(1)
	b.drained.Store(false)

	speaker.Play(beep.Seq(b.ctrl, beep.Callback(func() {
		if b.generation.Load() != gen {
			return
		}

		b.drained.Store(true)
		select {
		case b.events <- Event{Kind: EventEnded}:
		default:
		}
	})))
}

func (b *Beep) Unload() error {
	if b.streamer == nil {
		return nil
	}

	b.generation.Add(1)
	speaker.Clear()

	err := b.streamer.Close()
	b.streamer = nil
	b.resampler = nil
	b.ctrl = nil
	return err
}

func (b *Beep) Play(speed float64) error {
	if b.streamer == nil {
		return ErrNoItem
	}

	speaker.Lock()
	b.resampler.SetRatio(b.base * speed)
	b.ctrl.Paused = false
	speaker.Unlock()

	if b.drained.Load() {
		b.attach()
	}
	return nil
}

func (b *Beep) Pause() error {
	if b.ctrl == nil {
		return nil
	}

	speaker.Lock()
	b.ctrl.Paused = true
	speaker.Unlock()
	return nil
}

func (b *Beep) Seek(position time.Duration) error {
	if b.streamer == nil {
		return ErrNoItem
	}

	speaker.Lock()
	n := min(b.format.SampleRate.N(position), b.streamer.Len())
	err := b.streamer.Seek(max(n, 0))
	remaining := n < b.streamer.Len()
	speaker.Unlock()

	if err != nil {
		return err
	}

	if remaining && b.drained.Load() {
		b.attach()
	}
	return nil
}

func (b *Beep) Position() (time.Duration, error) {
	if b.streamer == nil {
		return 0, nil
	}

	speaker.Lock()
	defer speaker.Unlock()
	return b.format.SampleRate.D(b.streamer.Position()), nil
}

func (b *Beep) Duration() (time.Duration, error) {
	if b.streamer == nil {
		return 0, ErrNoItem
	}
	return b.format.SampleRate.D(b.streamer.Len()), nil
}

func (b *Beep) Events() <-chan Event {
	return b.events
}

func (b *Beep) Close() error {
	err := b.Unload()
	speaker.Clear()
	close(b.events)
	return err
}
