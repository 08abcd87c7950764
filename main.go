// ABOUTME: Entry point for the jamjar crossfade demo
// ABOUTME: Parses CLI flags and runs the demo player with or without the TUI
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Resonate-Protocol/jamjar-go/internal/app"
	"github.com/Resonate-Protocol/jamjar-go/internal/ui"
	"github.com/Resonate-Protocol/jamjar-go/internal/version"
	"github.com/Resonate-Protocol/jamjar-go/pkg/mixer"
)

var (
	assets      = flag.String("assets", "assets/audio", "Directory of audio assets")
	volumes     = flag.String("volumes", "assets/volumes.yaml", "YAML file of per-asset volumes")
	trackA      = flag.String("track-a", "groove", "Asset key of the first crossfaded track")
	trackB      = flag.String("track-b", "duelling", "Asset key of the second crossfaded track")
	chime       = flag.String("chime", "chime", "Asset key of the one-shot played on each crossfade")
	sampleRate  = flag.Int("sample-rate", 44100, "Output sample rate")
	logFile     = flag.String("log-file", "jamjar.log", "Log file path")
	noTUI       = flag.Bool("no-tui", false, "Disable TUI, crossfade automatically and stream logs")
	toggleEvery = flag.Duration("toggle-every", 4*time.Second, "Crossfade interval without the TUI")
)

func main() {
	flag.Parse()

	useTUI := !*noTUI

	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer f.Close()

	if useTUI {
		// TUI owns the terminal
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	log.Printf("Starting %s %s", version.Product, version.Version)

	player, err := app.Open(app.Config{
		AssetDir:    *assets,
		VolumesPath: *volumes,
		TrackA:      *trackA,
		TrackB:      *trackB,
		Chime:       *chime,
		Mixer:       mixer.Config{SampleRate: *sampleRate},
	})
	if err != nil {
		log.Fatalf("Failed to open player: %v", err)
	}
	defer func() {
		if err := player.Close(); err != nil {
			log.Printf("Error closing player: %v", err)
		}
		log.Printf("Player stopped")
	}()

	if useTUI {
		if err := ui.Run(player); err != nil {
			log.Printf("TUI error: %v", err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("TUI disabled, crossfading every %v (Ctrl-C to stop)", *toggleEvery)
	if err := player.Run(ctx, *toggleEvery); err != nil {
		log.Printf("Player error: %v", err)
	}
}
