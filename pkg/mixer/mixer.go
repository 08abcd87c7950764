// ABOUTME: Mixer facade handed to game loops and other callers
// ABOUTME: Translates state snapshots into commands for the speaker goroutine
package mixer

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Resonate-Protocol/jamjar-go/pkg/audio"
	"github.com/Resonate-Protocol/jamjar-go/pkg/audio/decode"
	"github.com/Resonate-Protocol/jamjar-go/pkg/audio/output"
)

// DecodeFunc turns an encoded asset into a playable clip
type DecodeFunc func(b audio.Bytes) (*audio.Clip, error)

// Config holds mixer configuration
type Config struct {
	SampleRate      int
	Channels        int
	Open            output.OpenFunc
	Decode          DecodeFunc
	ShutdownTimeout time.Duration
}

func (c *Config) applyDefaults() {
	if c.SampleRate == 0 {
		c.SampleRate = 44100
	}
	if c.Channels == 0 {
		c.Channels = 2
	}
	if c.Open == nil {
		c.Open = output.OpenOto
	}
	if c.Decode == nil {
		c.Decode = decode.Decode
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 5 * time.Second
	}
}

// Mixer is the caller-facing handle. All methods are safe for concurrent use;
// commands from one goroutine are applied in the order they were sent.
type Mixer[K comparable] struct {
	config Config
	queue  *queue[command[K]]
	done   chan struct{}

	initOnce    sync.Once
	initialized atomic.Bool

	closeOnce sync.Once
	closeErr  error
}

// New starts a speaker with the given assets. The device is not opened until Init.
func New[K comparable](config Config, library audio.Library[K], volumes audio.Volumes[K]) *Mixer[K] {
	config.applyDefaults()

	m := &Mixer[K]{
		config: config,
		queue:  newQueue[command[K]](),
		done:   make(chan struct{}),
	}

	spk := newSpeaker(config, library.Clone(), volumes.Clone())
	go func() {
		defer close(m.done)
		spk.run(m.queue)
	}()

	return m
}

// Initialized reports whether Init has been called
func (m *Mixer[K]) Initialized() bool {
	return m.initialized.Load()
}

// Init opens the audio device. Call it from a user gesture where the platform
// requires one. The first call waits for the device and returns its error;
// later calls return nil.
func (m *Mixer[K]) Init() error {
	var err error
	m.initOnce.Do(func() {
		reply := make(chan error, 1)
		if !m.queue.push(command[K]{kind: cmdPrewarm, reply: reply}) {
			err = ErrClosed
			return
		}
		m.initialized.Store(true)

		select {
		case err = <-reply:
		case <-m.done:
			err = ErrClosed
		}
	})
	return err
}

// UpdateState submits the complete desired state. Only the first
// audio.MaxTracks tracks are used.
func (m *Mixer[K]) UpdateState(state audio.State[K]) error {
	return m.send(command[K]{kind: cmdState, state: newStateUpdate(state)})
}

// PlaySound plays a one-shot
func (m *Mixer[K]) PlaySound(sound audio.Sound[K]) error {
	return m.send(command[K]{kind: cmdSound, sound: sound})
}

// UpdateLibrary replaces the asset library. With restartTracks every active
// track is recreated from the new library.
func (m *Mixer[K]) UpdateLibrary(library audio.Library[K], restartTracks bool) error {
	return m.send(command[K]{kind: cmdLibrary, library: library.Clone(), restart: restartTracks})
}

// UpdateVolumes replaces the per-asset volume table
func (m *Mixer[K]) UpdateVolumes(volumes audio.Volumes[K]) error {
	return m.send(command[K]{kind: cmdVolumes, volumes: volumes.Clone()})
}

// Pending returns the number of commands not yet applied
func (m *Mixer[K]) Pending() int {
	return m.queue.size()
}

func (m *Mixer[K]) send(cmd command[K]) error {
	if !m.queue.push(cmd) {
		return ErrClosed
	}
	return nil
}

// Close applies every queued command, releases the device and waits for the
// speaker to exit. Safe to call more than once.
func (m *Mixer[K]) Close() error {
	m.closeOnce.Do(func() {
		m.queue.pushAndClose(command[K]{kind: cmdQuit})

		timer := time.NewTimer(m.config.ShutdownTimeout)
		defer timer.Stop()

		select {
		case <-m.done:
		case <-timer.C:
			log.Printf("Mixer shutdown timed out after %v with %d commands pending", m.config.ShutdownTimeout, m.queue.size())
			m.closeErr = ErrShutdownTimeout
		}
	})
	return m.closeErr
}
