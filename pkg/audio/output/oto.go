// ABOUTME: Oto-based audio output implementation
// ABOUTME: One oto player per sink, mixed by oto's internal mux
package output

import (
	"fmt"
	"log"
	"sync"

	"github.com/Resonate-Protocol/jamjar-go/pkg/audio"
	"github.com/ebitengine/oto/v3"
)

// oto allows a single context per process, so devices share one
var (
	otoMu      sync.Mutex
	otoCtx     *oto.Context
	otoFormat  audio.Format
	otoDevices int
)

// Oto is a Device backed by the oto library
type Oto struct {
	ctx      *oto.Context
	format   audio.Format
	oneShots []*oto.Player
	closed   bool
}

// OpenOto opens the default output device. It matches OpenFunc.
func OpenOto(format audio.Format) (Device, error) {
	otoMu.Lock()
	defer otoMu.Unlock()

	if otoCtx != nil {
		// Reuse the existing context if the format matches
		if otoFormat.SampleRate != format.SampleRate || otoFormat.Channels != format.Channels {
			return nil, fmt.Errorf("audio output already open at %dHz %dch, cannot reopen at %dHz %dch",
				otoFormat.SampleRate, otoFormat.Channels, format.SampleRate, format.Channels)
		}
		if otoDevices == 0 {
			if err := otoCtx.Resume(); err != nil {
				return nil, fmt.Errorf("failed to resume oto context: %w", err)
			}
		}
		otoDevices++
		log.Printf("Audio output already initialized with same format, reusing context")
		return &Oto{ctx: otoCtx, format: otoFormat}, nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   format.SampleRate,
		ChannelCount: format.Channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}

	<-readyChan

	otoCtx = ctx
	otoFormat = audio.Format{
		Codec:      "pcm",
		SampleRate: format.SampleRate,
		Channels:   format.Channels,
		BitDepth:   16,
	}
	otoDevices = 1

	log.Printf("Audio output initialized: %dHz, %d channels", format.SampleRate, format.Channels)

	return &Oto{ctx: ctx, format: otoFormat}, nil
}

// NewSink creates a looping player for clip
func (o *Oto) NewSink(clip *audio.Clip, volume float64, playing bool) (Sink, error) {
	if o.closed {
		return nil, fmt.Errorf("output closed")
	}

	player := o.ctx.NewPlayer(NewStream(clip, o.format, 1.0, true))
	player.SetVolume(volume)
	if playing {
		player.Play()
	}

	return &otoSink{player: player}, nil
}

// PlayOnce starts a detached player and forgets about it
func (o *Oto) PlayOnce(clip *audio.Clip, volume, speed float64) error {
	if o.closed {
		return fmt.Errorf("output closed")
	}

	o.reap()

	player := o.ctx.NewPlayer(NewStream(clip, o.format, speed, false))
	player.SetVolume(volume)
	player.Play()
	o.oneShots = append(o.oneShots, player)

	return nil
}

// reap closes one-shot players that have finished
func (o *Oto) reap() {
	live := o.oneShots[:0]
	for _, p := range o.oneShots {
		if p.IsPlaying() {
			live = append(live, p)
			continue
		}
		p.Close()
	}
	for i := len(live); i < len(o.oneShots); i++ {
		o.oneShots[i] = nil
	}
	o.oneShots = live
}

// Close stops one-shots and suspends the context once no device uses it
func (o *Oto) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true

	for _, p := range o.oneShots {
		p.Pause()
		p.Close()
	}
	o.oneShots = nil

	otoMu.Lock()
	defer otoMu.Unlock()

	otoDevices--
	if otoDevices > 0 {
		return nil
	}
	if err := o.ctx.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend oto context: %w", err)
	}
	log.Printf("Audio output suspended")
	return nil
}

// otoSink wraps one oto player
type otoSink struct {
	player *oto.Player
}

func (s *otoSink) Play() {
	s.player.Play()
}

func (s *otoSink) Pause() {
	s.player.Pause()
}

func (s *otoSink) SetVolume(volume float64) {
	s.player.SetVolume(volume)
}

func (s *otoSink) Close() error {
	s.player.Pause()
	s.player.Close()
	return nil
}
