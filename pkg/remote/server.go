// ABOUTME: Websocket control server that drives a mixer from the network
// ABOUTME: Accepts jamjar protocol clients and forwards mixer commands to a Target
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/Resonate-Protocol/jamjar-go/internal/discovery"
	"github.com/Resonate-Protocol/jamjar-go/internal/version"
	"github.com/Resonate-Protocol/jamjar-go/pkg/audio"
	"github.com/Resonate-Protocol/jamjar-go/pkg/protocol"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// DefaultPort is the control server's default listen port
const DefaultPort = 8930

// Target receives mixer commands. *mixer.Mixer[string] implements it.
type Target interface {
	UpdateState(state audio.State[string]) error
	PlaySound(sound audio.Sound[string]) error
	UpdateLibrary(library audio.Library[string], restartTracks bool) error
	UpdateVolumes(volumes audio.Volumes[string]) error
}

// ReloadFunc rereads the asset library
type ReloadFunc func() (audio.Library[string], error)

// Config configures a control server
type Config struct {
	// Port to listen on (default: 8930)
	Port int

	// Name of the server for identification
	Name string

	// Target to drive (required)
	Target Target

	// Keys advertised in server/hello until the first reload
	Keys []string

	// Reload handles mixer/reload. Nil rejects reloads.
	Reload ReloadFunc

	// EnableMDNS advertises the server as _jamjar._tcp
	EnableMDNS bool

	// Debug enables debug logging
	Debug bool
}

// Server is a jamjar control server
type Server struct {
	config   Config
	serverID string

	upgrader   websocket.Upgrader
	httpServer *http.Server
	mux        *http.ServeMux

	clients   map[string]*client
	clientsMu sync.RWMutex

	keys   []string
	keysMu sync.RWMutex

	mdnsManager *discovery.Manager

	stopChan   chan struct{}
	stopOnce   sync.Once
	shutdownMu sync.RWMutex
	isShutdown bool
	wg         sync.WaitGroup
}

type client struct {
	ID       string
	Name     string
	Conn     *websocket.Conn
	sendChan chan interface{}
}

// ClientInfo describes a connected client
type ClientInfo struct {
	ID   string
	Name string
}

// NewServer creates a new control server
func NewServer(config Config) (*Server, error) {
	if config.Port == 0 {
		config.Port = DefaultPort
	}
	if config.Name == "" {
		config.Name = "Jamjar Mixer"
	}
	if config.Target == nil {
		return nil, fmt.Errorf("target is required")
	}

	keys := append([]string(nil), config.Keys...)
	sort.Strings(keys)

	s := &Server{
		config:   config,
		serverID: uuid.New().String(),
		mux:      http.NewServeMux(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Control clients live on the local network
				return true
			},
		},
		clients:  make(map[string]*client),
		keys:     keys,
		stopChan: make(chan struct{}),
	}
	s.mux.HandleFunc(protocol.Path, s.handleWebSocket)

	return s, nil
}

// Handler returns the HTTP handler serving the control websocket
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ID returns the server's unique identifier
func (s *Server) ID() string {
	return s.serverID
}

// Start serves until Stop is called
func (s *Server) Start() error {
	log.Printf("Control server starting: %s (ID: %s)", s.config.Name, s.serverID)

	if s.config.EnableMDNS {
		s.mdnsManager = discovery.NewManager(discovery.Config{
			ServiceName: s.config.Name,
			Port:        s.config.Port,
			Path:        protocol.Path,
		})

		if err := s.mdnsManager.Advertise(); err != nil {
			log.Printf("Failed to start mDNS advertisement: %v", err)
		} else {
			log.Printf("mDNS advertisement started")
		}
	}

	addr := fmt.Sprintf(":%d", s.config.Port)
	log.Printf("WebSocket server listening on %s", addr)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.mux,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-s.stopChan:
		log.Printf("Control server shutting down...")
	case err := <-errChan:
		log.Printf("HTTP server error: %v", err)
		if s.mdnsManager != nil {
			s.mdnsManager.Stop()
		}
		return err
	}

	s.shutdownMu.Lock()
	s.isShutdown = true
	s.shutdownMu.Unlock()

	if s.mdnsManager != nil {
		s.mdnsManager.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Hijacked websocket connections are not closed by Shutdown
	s.clientsMu.RLock()
	for _, c := range s.clients {
		c.Conn.Close()
	}
	s.clientsMu.RUnlock()

	s.wg.Wait()
	log.Printf("Control server stopped cleanly")

	return nil
}

// Stop stops the server
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

// Clients returns information about all connected clients
func (s *Server) Clients() []ClientInfo {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	clients := make([]ClientInfo, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, ClientInfo{ID: c.ID, Name: c.Name})
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].ID < clients[j].ID })

	return clients
}

// Keys returns the asset keys currently advertised
func (s *Server) Keys() []string {
	s.keysMu.RLock()
	defer s.keysMu.RUnlock()
	return append([]string(nil), s.keys...)
}

func (s *Server) setKeys(library audio.Library[string]) {
	keys := make([]string, 0, len(library))
	for k := range library {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s.keysMu.Lock()
	s.keys = keys
	s.keysMu.Unlock()
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	if s.config.Debug {
		log.Printf("New WebSocket connection from %s", r.RemoteAddr)
	}

	if !s.track() {
		log.Printf("Rejecting connection during shutdown")
		conn.Close()
		return
	}
	defer s.wg.Done()
	s.handleConnection(conn)
}

// track registers a connection handler with the shutdown WaitGroup.
// It fails once Start has begun shutting down.
func (s *Server) track() bool {
	s.shutdownMu.RLock()
	defer s.shutdownMu.RUnlock()
	if s.isShutdown {
		return false
	}
	s.wg.Add(1)
	return true
}

// handleConnection runs the handshake and then the read loop for one client
func (s *Server) handleConnection(conn *websocket.Conn) {
	defer conn.Close()

	hello, err := s.readHello(conn)
	if err != nil {
		log.Printf("Handshake failed: %v", err)
		conn.WriteJSON(protocol.Message{
			Type:    protocol.TypeServerError,
			Payload: protocol.ServerError{Message: err.Error()},
		})
		return
	}

	if hello.ClientID == "" {
		hello.ClientID = uuid.New().String()
	}

	c := &client{
		ID:       hello.ClientID,
		Name:     hello.Name,
		Conn:     conn,
		sendChan: make(chan interface{}, 16),
	}

	s.clientsMu.Lock()
	if _, exists := s.clients[c.ID]; exists {
		s.clientsMu.Unlock()
		log.Printf("Client ID %s already connected, rejecting duplicate", c.ID)
		conn.WriteJSON(protocol.Message{
			Type:    protocol.TypeServerError,
			Payload: protocol.ServerError{Message: "client id already connected"},
		})
		return
	}
	s.clients[c.ID] = c
	s.clientsMu.Unlock()

	log.Printf("Client connected: %s (ID: %s)", c.Name, c.ID)

	defer func() {
		s.removeClient(c)
		log.Printf("Client disconnected: %s", c.Name)
	}()

	serverHello := protocol.ServerHello{
		ServerID: s.serverID,
		Name:     s.config.Name,
		Version:  protocol.ProtocolVersion,
		DeviceInfo: &protocol.DeviceInfo{
			ProductName:     version.Product,
			Manufacturer:    version.Manufacturer,
			SoftwareVersion: version.Version,
		},
		Keys:      s.Keys(),
		MaxTracks: audio.MaxTracks,
	}
	if err := s.sendMessage(c, protocol.TypeServerHello, serverHello); err != nil {
		log.Printf("Error sending server hello: %v", err)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.clientWriter(c)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}

		if done := s.handleClientMessage(c, data); done {
			return
		}
	}
}

// readHello reads the first frame, which must be client/hello
func (s *Server) readHello(conn *websocket.Conn) (protocol.ClientHello, error) {
	var hello protocol.ClientHello

	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		return hello, fmt.Errorf("failed to read hello: %w", err)
	}
	conn.SetReadDeadline(time.Time{})

	var msg protocol.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return hello, fmt.Errorf("failed to parse hello: %w", err)
	}
	if msg.Type != protocol.TypeClientHello {
		return hello, fmt.Errorf("expected %s, got %s", protocol.TypeClientHello, msg.Type)
	}
	if err := protocol.DecodePayload(msg.Payload, &hello); err != nil {
		return hello, err
	}
	if hello.Version != protocol.ProtocolVersion {
		return hello, fmt.Errorf("unsupported protocol version %d", hello.Version)
	}

	return hello, nil
}

// clientWriter sends queued messages and keepalive pings
func (s *Server) clientWriter(c *client) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	const writeDeadline = 10 * time.Second

	for {
		select {
		case msg, ok := <-c.sendChan:
			if !ok {
				return
			}

			data, err := json.Marshal(msg)
			if err != nil {
				log.Printf("Failed to marshal message for %s: %v", c.Name, err)
				continue
			}
			c.Conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			if err := c.Conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeDeadline)); err != nil {
				return
			}
		}
	}
}

// handleClientMessage applies one command. It returns true when the client said goodbye.
func (s *Server) handleClientMessage(c *client, data []byte) bool {
	var msg protocol.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		s.sendError(c, fmt.Errorf("failed to parse message: %w", err))
		return false
	}

	if s.config.Debug {
		log.Printf("Message from %s: %s", c.Name, msg.Type)
	}

	var err error
	switch msg.Type {
	case protocol.TypeMixerState:
		var state protocol.MixerState
		if err = protocol.DecodePayload(msg.Payload, &state); err == nil {
			err = s.config.Target.UpdateState(state.ToAudio())
		}
	case protocol.TypeMixerSound:
		var sound protocol.MixerSound
		if err = protocol.DecodePayload(msg.Payload, &sound); err == nil {
			err = s.config.Target.PlaySound(sound.ToAudio())
		}
	case protocol.TypeMixerVolumes:
		var volumes protocol.MixerVolumes
		if err = protocol.DecodePayload(msg.Payload, &volumes); err == nil {
			err = s.config.Target.UpdateVolumes(volumes.ToAudio())
		}
	case protocol.TypeMixerReload:
		var reload protocol.MixerReload
		if err = protocol.DecodePayload(msg.Payload, &reload); err == nil {
			err = s.reload(reload.RestartTracks)
		}
	case protocol.TypeClientGoodbye:
		var goodbye protocol.ClientGoodbye
		protocol.DecodePayload(msg.Payload, &goodbye)
		log.Printf("Client %s goodbye: %s", c.Name, goodbye.Reason)
		return true
	default:
		err = fmt.Errorf("unknown message type: %s", msg.Type)
	}

	if err != nil {
		s.sendError(c, err)
	}
	return false
}

var errReloadUnsupported = errors.New("reload not supported")

func (s *Server) reload(restartTracks bool) error {
	if s.config.Reload == nil {
		return errReloadUnsupported
	}

	library, err := s.config.Reload()
	if err != nil {
		return fmt.Errorf("failed to reload assets: %w", err)
	}
	if err := s.config.Target.UpdateLibrary(library, restartTracks); err != nil {
		return err
	}

	s.setKeys(library)
	log.Printf("Reloaded %d assets (restart tracks: %v)", len(library), restartTracks)
	return nil
}

func (s *Server) sendError(c *client, err error) {
	log.Printf("Error for client %s: %v", c.Name, err)
	if sendErr := s.sendMessage(c, protocol.TypeServerError, protocol.ServerError{Message: err.Error()}); sendErr != nil {
		log.Printf("Failed to report error to %s: %v", c.Name, sendErr)
	}
}

// removeClient unregisters c and stops its writer
func (s *Server) removeClient(c *client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	delete(s.clients, c.ID)
	close(c.sendChan)
}

// sendMessage queues a JSON message for a client
func (s *Server) sendMessage(c *client, msgType string, payload interface{}) error {
	msg := protocol.Message{
		Type:    msgType,
		Payload: payload,
	}

	select {
	case c.sendChan <- msg:
		return nil
	default:
		return fmt.Errorf("client send buffer full")
	}
}
