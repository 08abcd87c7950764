// ABOUTME: Entry point for the headless jamjar mixer daemon
// ABOUTME: Loads assets, opens the audio device and serves remote control clients
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Resonate-Protocol/jamjar-go/internal/resources"
	"github.com/Resonate-Protocol/jamjar-go/internal/ui"
	"github.com/Resonate-Protocol/jamjar-go/internal/version"
	"github.com/Resonate-Protocol/jamjar-go/pkg/audio"
	"github.com/Resonate-Protocol/jamjar-go/pkg/mixer"
	"github.com/Resonate-Protocol/jamjar-go/pkg/remote"
)

var (
	port       = flag.Int("port", remote.DefaultPort, "WebSocket control port")
	name       = flag.String("name", "", "Server friendly name (default: hostname-jamjar)")
	assets     = flag.String("assets", "assets/audio", "Directory of audio assets")
	volumes    = flag.String("volumes", "assets/volumes.yaml", "YAML file of per-asset volumes")
	sampleRate = flag.Int("sample-rate", 44100, "Output sample rate")
	logFile    = flag.String("log-file", "jamjar-server.log", "Log file path")
	debug      = flag.Bool("debug", false, "Enable debug logging")
	noMDNS     = flag.Bool("no-mdns", false, "Disable mDNS advertisement")
	useTUI     = flag.Bool("tui", false, "Show a status dashboard instead of streaming logs")
)

func main() {
	flag.Parse()

	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer f.Close()

	if *useTUI {
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	serverName := *name
	if serverName == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		serverName = fmt.Sprintf("%s-jamjar", hostname)
	}

	log.Printf("Starting %s %s: %s on port %d", version.Product, version.Version, serverName, *port)

	library, err := resources.LoadLibrary(*assets)
	if err != nil {
		log.Fatalf("Failed to load assets: %v", err)
	}
	vols, err := resources.LoadVolumes(*volumes)
	if err != nil {
		log.Fatalf("Failed to load volumes: %v", err)
	}

	m := mixer.New(mixer.Config{SampleRate: *sampleRate}, library, vols)

	// No user gesture is needed headless
	if err := m.Init(); err != nil {
		m.Close()
		log.Fatalf("Failed to open audio output: %v", err)
	}

	srv, err := remote.NewServer(remote.Config{
		Port:       *port,
		Name:       serverName,
		Target:     m,
		Keys:       resources.Keys(library),
		EnableMDNS: !*noMDNS,
		Debug:      *debug,
		Reload: func() (audio.Library[string], error) {
			vols, err := resources.LoadVolumes(*volumes)
			if err != nil {
				return nil, err
			}
			if err := m.UpdateVolumes(vols); err != nil {
				return nil, err
			}
			return resources.LoadLibrary(*assets)
		},
	})
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var dash *ui.Dashboard
	var quitChan <-chan struct{}
	if *useTUI {
		dash = ui.NewDashboard()
		quitChan = dash.QuitChan()

		status := func() ui.ServerStatus {
			return ui.ServerStatus{
				Name:    serverName,
				Port:    *port,
				Keys:    srv.Keys(),
				Clients: srv.Clients(),
			}
		}

		go func() {
			if err := dash.Start(status()); err != nil {
				log.Printf("Dashboard error: %v", err)
			}
		}()
		go func() {
			ticker := time.NewTicker(time.Second)
			defer ticker.Stop()
			for range ticker.C {
				dash.Update(status())
			}
		}()
	}

	go func() {
		select {
		case sig := <-sigChan:
			log.Printf("Received %v signal, shutting down gracefully...", sig)
		case <-quitChan:
			log.Printf("Dashboard quit requested, shutting down...")
		}
		srv.Stop()
	}()

	if err := srv.Start(); err != nil {
		log.Printf("Server error: %v", err)
	}

	if dash != nil {
		dash.Stop()
	}

	if err := m.Close(); err != nil {
		log.Printf("Error closing mixer: %v", err)
	}

	log.Printf("Server stopped")
}
