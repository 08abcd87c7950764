// ABOUTME: Speaker goroutine that owns the audio device and all sinks
// ABOUTME: Applies commands one at a time and reconciles the track slots
package mixer

import (
	"fmt"
	"log"

	"github.com/Resonate-Protocol/jamjar-go/pkg/audio"
	"github.com/Resonate-Protocol/jamjar-go/pkg/audio/output"
)

type speakerState int

const (
	stateCold speakerState = iota
	stateWarm
	stateStopped
)

func (s speakerState) String() string {
	switch s {
	case stateCold:
		return "cold"
	case stateWarm:
		return "warm"
	case stateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// speaker is only ever touched by its own goroutine
type speaker[K comparable] struct {
	config  Config
	state   speakerState
	warmErr error
	device  output.Device

	library     audio.Library[K]
	volumes     audio.Volumes[K]
	soundVolume float64
	trackVolume float64

	tracks slots[K]
	sinks  [audio.MaxTracks]output.Sink

	// decoded clips by buffer identity
	clips map[audio.Bytes]*audio.Clip
}

func newSpeaker[K comparable](config Config, library audio.Library[K], volumes audio.Volumes[K]) *speaker[K] {
	return &speaker[K]{
		config:      config,
		state:       stateCold,
		library:     library,
		volumes:     volumes,
		soundVolume: 1.0,
		trackVolume: 1.0,
		clips:       make(map[audio.Bytes]*audio.Clip),
	}
}

// run applies commands until quit
func (s *speaker[K]) run(q *queue[command[K]]) {
	for s.state != stateStopped {
		s.handle(q.pop())
	}
}

func (s *speaker[K]) handle(cmd command[K]) {
	switch cmd.kind {
	case cmdQuit:
		s.shutdown()
	case cmdPrewarm:
		err := s.warm()
		if cmd.reply != nil {
			cmd.reply <- err
		}
	case cmdState:
		s.soundVolume = cmd.state.soundVolume
		s.trackVolume = cmd.state.trackVolume
		s.updateTracks(cmd.state.tracks)
	case cmdSound:
		s.playSound(cmd.sound)
	case cmdLibrary:
		s.library = cmd.library
		s.pruneClips()
		if cmd.restart {
			s.restartAllTracks()
		}
	case cmdVolumes:
		s.volumes = cmd.volumes
		s.applyVolumes()
	default:
		log.Printf("Speaker ignoring unknown command: %v", cmd.kind)
	}
}

// warm opens the device once. A failure is permanent.
func (s *speaker[K]) warm() error {
	if s.state == stateWarm {
		return nil
	}
	if s.warmErr != nil {
		return s.warmErr
	}

	format := audio.Format{
		Codec:      "pcm",
		SampleRate: s.config.SampleRate,
		Channels:   s.config.Channels,
		BitDepth:   16,
	}
	device, err := s.config.Open(format)
	if err != nil {
		s.warmErr = fmt.Errorf("failed to open audio device: %w", err)
		log.Printf("Audio device unavailable, mixer will stay silent: %v", err)
		return s.warmErr
	}

	s.device = device
	s.state = stateWarm
	log.Printf("Speaker warm: %dHz, %d channels", format.SampleRate, format.Channels)
	return nil
}

func (s *speaker[K]) shutdown() {
	for i := range s.sinks {
		s.destroySink(i)
	}
	if s.device != nil {
		if err := s.device.Close(); err != nil {
			log.Printf("Failed to close audio device: %v", err)
		}
		s.device = nil
	}
	s.state = stateStopped
}

// updateTracks diffs next against the current slots
func (s *speaker[K]) updateTracks(next slots[K]) {
	for i := 0; i < audio.MaxTracks; i++ {
		old, track := s.tracks[i], next[i]

		switch {
		case old == nil && track == nil:
		case track == nil:
			s.destroySink(i)
		case old == nil || old.Key != track.Key:
			s.destroySink(i)
			s.sinks[i] = s.createSink(*track)
		default:
			// Same key: keep the playback position
			sink := s.sinks[i]
			if sink == nil {
				continue
			}
			if track.Playing {
				sink.Play()
			} else {
				sink.Pause()
			}
			sink.SetVolume(s.resolveTrackVolume(*track))
		}
	}

	s.tracks = next
}

func (s *speaker[K]) resolveTrackVolume(track audio.Track[K]) float64 {
	return audio.ResolveVolume(s.volumes, track.Key, s.trackVolume, track.Volume)
}

// createSink returns nil while cold, for missing assets and for decode failures
func (s *speaker[K]) createSink(track audio.Track[K]) output.Sink {
	if s.state != stateWarm {
		return nil
	}

	b, ok := s.library[track.Key]
	if !ok {
		return nil
	}

	clip, err := s.decode(b)
	if err != nil {
		log.Printf("Dropping track %v: %v", track.Key, err)
		return nil
	}

	sink, err := s.device.NewSink(clip, s.resolveTrackVolume(track), track.Playing)
	if err != nil {
		log.Printf("Failed to create sink for track %v: %v", track.Key, err)
		return nil
	}
	return sink
}

func (s *speaker[K]) destroySink(i int) {
	if s.sinks[i] == nil {
		return
	}
	if err := s.sinks[i].Close(); err != nil {
		log.Printf("Failed to close sink %d: %v", i, err)
	}
	s.sinks[i] = nil
}

func (s *speaker[K]) restartAllTracks() {
	for i, track := range s.tracks {
		s.destroySink(i)
		if track != nil {
			s.sinks[i] = s.createSink(*track)
		}
	}
}

func (s *speaker[K]) applyVolumes() {
	for i, track := range s.tracks {
		if track == nil || s.sinks[i] == nil {
			continue
		}
		s.sinks[i].SetVolume(s.resolveTrackVolume(*track))
	}
}

func (s *speaker[K]) playSound(sound audio.Sound[K]) {
	if s.state != stateWarm {
		return
	}

	b, ok := s.library[sound.Key]
	if !ok {
		return
	}

	clip, err := s.decode(b)
	if err != nil {
		log.Printf("Dropping sound %v: %v", sound.Key, err)
		return
	}

	volume := audio.ResolveVolume(s.volumes, sound.Key, s.soundVolume, sound.Volume)
	if err := s.device.PlayOnce(clip, volume, sound.Speed); err != nil {
		log.Printf("Failed to play sound %v: %v", sound.Key, err)
	}
}

// decode returns the cached clip for b, decoding it on first use
func (s *speaker[K]) decode(b audio.Bytes) (*audio.Clip, error) {
	if clip, ok := s.clips[b]; ok {
		return clip, nil
	}

	clip, err := s.safeDecode(b)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %d bytes: %w", b.Len(), err)
	}
	s.clips[b] = clip
	return clip, nil
}

// safeDecode keeps a panicking Config.Decode from taking the worker down
func (s *speaker[K]) safeDecode(b audio.Bytes) (clip *audio.Clip, err error) {
	defer func() {
		if r := recover(); r != nil {
			clip = nil
			err = fmt.Errorf("decoder panicked: %v", r)
		}
	}()
	return s.config.Decode(b)
}

// pruneClips forgets clips whose buffers left the library
func (s *speaker[K]) pruneClips() {
	live := make(map[audio.Bytes]struct{}, len(s.library))
	for _, b := range s.library {
		live[b] = struct{}{}
	}
	for b := range s.clips {
		if _, ok := live[b]; !ok {
			delete(s.clips, b)
		}
	}
}
