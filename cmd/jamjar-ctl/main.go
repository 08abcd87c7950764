// ABOUTME: Command line remote control for a jamjar mixer daemon
// ABOUTME: Sends one mixer command over the control websocket and exits
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Resonate-Protocol/jamjar-go/internal/discovery"
	"github.com/Resonate-Protocol/jamjar-go/internal/version"
	"github.com/Resonate-Protocol/jamjar-go/pkg/audio"
	"github.com/Resonate-Protocol/jamjar-go/pkg/protocol"
	"github.com/google/uuid"
)

var (
	serverAddr = flag.String("server", "", "Server address host:port (default: discover via mDNS)")
	volume     = flag.Float64("volume", 1.0, "Instance volume for sound and track")
	speed      = flag.Float64("speed", 1.0, "Playback speed for sound")
	restart    = flag.Bool("restart", true, "Restart tracks on reload")
	wait       = flag.Duration("wait", 500*time.Millisecond, "How long to wait for server errors")
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: jamjar-ctl [flags] <command> [args]

Commands:
  keys                      list assets on the server
  sound <key>               play a one-shot
  tracks <key>...           loop keys on slots 0..n (use - for an empty slot)
  stop                      clear all track slots
  volume <key>=<gain>...    replace the per-asset volume table
  reload                    reread the server's asset directory

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	addr := *serverAddr
	if addr == "" {
		found, err := discover()
		if err != nil {
			log.Fatalf("%v", err)
		}
		addr = found
	}

	client := protocol.NewClient(protocol.Config{
		ServerAddr: addr,
		ClientID:   uuid.New().String(),
		Name:       "jamjar-ctl",
		DeviceInfo: protocol.DeviceInfo{
			ProductName:     version.Product + "-ctl",
			Manufacturer:    version.Manufacturer,
			SoftwareVersion: version.Version,
		},
	})
	if err := client.Connect(); err != nil {
		log.Fatalf("Connection failed: %v", err)
	}
	defer client.Close()

	if err := run(client, args); err != nil {
		log.Fatalf("%v", err)
	}

	select {
	case serverErr := <-client.Errors:
		log.Fatalf("Server error: %s", serverErr.Message)
	case <-time.After(*wait):
	}

	client.SendGoodbye("user_request")
}

func discover() (string, error) {
	mgr := discovery.NewManager(discovery.Config{})
	defer mgr.Stop()

	if err := mgr.Browse(); err != nil {
		return "", err
	}

	select {
	case server := <-mgr.Servers():
		return server.Addr(), nil
	case <-time.After(10 * time.Second):
		return "", fmt.Errorf("no server found after 10 seconds")
	}
}

func run(client *protocol.Client, args []string) error {
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "keys":
		for _, k := range client.Server.Keys {
			fmt.Println(k)
		}
		return nil
	case "sound":
		if len(rest) != 1 {
			return fmt.Errorf("sound takes one key")
		}
		return client.PlaySound(audio.Sound[string]{Key: rest[0], Volume: *volume, Speed: *speed})
	case "tracks":
		state, err := parseTracks(rest, *volume)
		if err != nil {
			return err
		}
		return client.SendState(state)
	case "stop":
		return client.SendState(audio.State[string]{SoundVolume: 1, TrackVolume: 1})
	case "volume":
		vols, err := parseVolumes(rest)
		if err != nil {
			return err
		}
		return client.UpdateVolumes(vols)
	case "reload":
		return client.Reload(*restart)
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

// parseTracks builds a state with one slot per argument. "-" leaves a slot
// silent; the mixer's state model has no holes so it is a paused track.
func parseTracks(keys []string, vol float64) (audio.State[string], error) {
	if len(keys) > audio.MaxTracks {
		return audio.State[string]{}, fmt.Errorf("at most %d tracks", audio.MaxTracks)
	}

	state := audio.State[string]{SoundVolume: 1, TrackVolume: 1}
	for _, k := range keys {
		if k == "-" {
			state.Tracks = append(state.Tracks, audio.Track[string]{})
			continue
		}
		state.Tracks = append(state.Tracks, audio.Track[string]{Key: k, Volume: vol, Playing: true})
	}
	return state, nil
}

func parseVolumes(pairs []string) (audio.Volumes[string], error) {
	vols := make(audio.Volumes[string])
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("expected key=gain, got %q", pair)
		}
		gain, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid gain for %s: %w", key, err)
		}
		vols[key] = gain
	}
	return vols, nil
}
