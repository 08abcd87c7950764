// ABOUTME: Fake device, sinks and decoder for mixer tests
// ABOUTME: Records every sink created and closed so tests can assert continuity
package mixer

import (
	"errors"
	"strings"
	"sync"

	"github.com/Resonate-Protocol/jamjar-go/pkg/audio"
	"github.com/Resonate-Protocol/jamjar-go/pkg/audio/output"
)

var errBadAsset = errors.New("bad asset")

type fakeSink struct {
	id      int
	clip    *audio.Clip
	volume  float64
	playing bool
	closed  bool
}

type oneShot struct {
	clip   *audio.Clip
	volume float64
	speed  float64
}

type fakeDevice struct {
	mu       sync.Mutex
	nextID   int
	sinks    []*fakeSink
	oneShots []oneShot
	closed   bool
}

func (d *fakeDevice) NewSink(clip *audio.Clip, volume float64, playing bool) (output.Sink, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	s := &fakeSink{id: d.nextID, clip: clip, volume: volume, playing: playing}
	d.sinks = append(d.sinks, s)
	return &lockedSink{mu: &d.mu, sink: s}, nil
}

func (d *fakeDevice) PlayOnce(clip *audio.Clip, volume, speed float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.oneShots = append(d.oneShots, oneShot{clip: clip, volume: volume, speed: speed})
	return nil
}

func (d *fakeDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// created returns the number of sinks ever created
func (d *fakeDevice) created() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sinks)
}

// destroyed returns the number of sinks closed
func (d *fakeDevice) destroyed() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, s := range d.sinks {
		if s.closed {
			n++
		}
	}
	return n
}

func (d *fakeDevice) plays() []oneShot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]oneShot(nil), d.oneShots...)
}

func (d *fakeDevice) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// lockedSink guards a fakeSink with the device lock
type lockedSink struct {
	mu   *sync.Mutex
	sink *fakeSink
}

func (l *lockedSink) Play() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sink.playing = true
}

func (l *lockedSink) Pause() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sink.playing = false
}

func (l *lockedSink) SetVolume(volume float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sink.volume = volume
}

func (l *lockedSink) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sink.closed = true
	return nil
}

// fakeDecoder produces a one-sample clip whose value is the asset length.
// Assets starting with "bad" fail and assets starting with "boom" panic.
type fakeDecoder struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeDecoder) decode(b audio.Bytes) (*audio.Clip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if strings.HasPrefix(string(b.Bytes()), "bad") {
		return nil, errBadAsset
	}
	if strings.HasPrefix(string(b.Bytes()), "boom") {
		panic("index out of range")
	}
	return &audio.Clip{
		Format:  audio.Format{SampleRate: 48000, Channels: 1},
		Samples: []int32{int32(b.Len())},
	}, nil
}

func (f *fakeDecoder) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// testConfig wires a fake device and decoder into a Config
func testConfig(dev *fakeDevice, dec *fakeDecoder) Config {
	return Config{
		SampleRate: 48000,
		Channels:   2,
		Open: func(format audio.Format) (output.Device, error) {
			return dev, nil
		},
		Decode: dec.decode,
	}
}

// newWarmSpeaker returns a speaker that has already opened the fake device
func newWarmSpeaker(lib audio.Library[string], vols audio.Volumes[string]) (*speaker[string], *fakeDevice, *fakeDecoder) {
	dev := &fakeDevice{}
	dec := &fakeDecoder{}
	config := testConfig(dev, dec)
	config.applyDefaults()

	s := newSpeaker(config, lib, vols)
	s.handle(command[string]{kind: cmdPrewarm})
	return s, dev, dec
}

func state(trackVolume float64, tracks ...audio.Track[string]) command[string] {
	return command[string]{
		kind: cmdState,
		state: newStateUpdate(audio.State[string]{
			SoundVolume: 1.0,
			TrackVolume: trackVolume,
			Tracks:      tracks,
		}),
	}
}

// sinkAt returns the fake behind slot i, or nil
func sinkAt(s *speaker[string], i int) *fakeSink {
	if s.sinks[i] == nil {
		return nil
	}
	return s.sinks[i].(*lockedSink).sink
}
