// ABOUTME: WebSocket client for the jamjar remote control protocol
// ABOUTME: Handles connection, handshake, and sending mixer commands
package protocol

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/Resonate-Protocol/jamjar-go/pkg/audio"
	"github.com/gorilla/websocket"
)

// Path is the HTTP path of the control websocket
const Path = "/jamjar"

// Config holds client configuration
type Config struct {
	ServerAddr string
	ClientID   string
	Name       string
	DeviceInfo DeviceInfo
}

// Client is a remote control connection to a jamjar server
type Client struct {
	config Config
	conn   *websocket.Conn
	mu     sync.RWMutex

	// Server hello received during the handshake
	Server ServerHello

	// Errors reported by the server
	Errors chan ServerError

	connected bool
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewClient creates a new WebSocket client
func NewClient(config Config) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		config: config,
		Errors: make(chan ServerError, 10),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Connect establishes the WebSocket connection and performs the handshake
func (c *Client) Connect() error {
	u := url.URL{Scheme: "ws", Host: c.config.ServerAddr, Path: Path}
	log.Printf("Connecting to %s", u.String())

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	if err := c.handshake(); err != nil {
		c.Close()
		return fmt.Errorf("handshake failed: %w", err)
	}

	go c.readMessages()

	return nil
}

// handshake sends client/hello and waits for server/hello
func (c *Client) handshake() error {
	hello := ClientHello{
		ClientID:   c.config.ClientID,
		Name:       c.config.Name,
		Version:    ProtocolVersion,
		DeviceInfo: &c.config.DeviceInfo,
	}

	if err := c.send(TypeClientHello, hello); err != nil {
		return fmt.Errorf("failed to send client/hello: %w", err)
	}

	c.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("failed to read server/hello: %w", err)
	}
	c.conn.SetReadDeadline(time.Time{})

	var serverMsg Message
	if err := json.Unmarshal(data, &serverMsg); err != nil {
		return fmt.Errorf("failed to parse server/hello: %w", err)
	}

	if serverMsg.Type == TypeServerError {
		var serverErr ServerError
		DecodePayload(serverMsg.Payload, &serverErr)
		return fmt.Errorf("server rejected hello: %s", serverErr.Message)
	}
	if serverMsg.Type != TypeServerHello {
		return fmt.Errorf("expected server/hello, got %s", serverMsg.Type)
	}

	if err := DecodePayload(serverMsg.Payload, &c.Server); err != nil {
		return fmt.Errorf("failed to parse server/hello: %w", err)
	}

	log.Printf("Handshake complete with %s (%d assets)", c.Server.Name, len(c.Server.Keys))
	return nil
}

// send wraps payload in a Message and writes it
func (c *Client) send(msgType string, payload interface{}) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.connected {
		return fmt.Errorf("not connected")
	}

	return c.conn.WriteJSON(Message{Type: msgType, Payload: payload})
}

// readMessages routes incoming messages until the connection closes
func (c *Client) readMessages() {
	defer c.Close()

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Read error: %v", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("Failed to parse JSON message: %v", err)
			continue
		}

		switch msg.Type {
		case TypeServerError:
			var serverErr ServerError
			if err := DecodePayload(msg.Payload, &serverErr); err != nil {
				log.Printf("Failed to parse server/error: %v", err)
				continue
			}
			select {
			case c.Errors <- serverErr:
			default:
				log.Printf("Server error dropped: %s", serverErr.Message)
			}
		default:
			log.Printf("Unknown message type: %s", msg.Type)
		}
	}
}

// SendState submits a full mixer state
func (c *Client) SendState(state audio.State[string]) error {
	return c.send(TypeMixerState, NewMixerState(state))
}

// PlaySound plays a one-shot on the server
func (c *Client) PlaySound(sound audio.Sound[string]) error {
	return c.send(TypeMixerSound, MixerSound{Key: sound.Key, Volume: sound.Volume, Speed: sound.Speed})
}

// UpdateVolumes replaces the server's per-asset volume table
func (c *Client) UpdateVolumes(volumes audio.Volumes[string]) error {
	return c.send(TypeMixerVolumes, MixerVolumes{Volumes: volumes.Clone()})
}

// Reload asks the server to reread its assets
func (c *Client) Reload(restartTracks bool) error {
	return c.send(TypeMixerReload, MixerReload{RestartTracks: restartTracks})
}

// SendGoodbye sends a client/goodbye message before disconnecting
func (c *Client) SendGoodbye(reason string) error {
	return c.send(TypeClientGoodbye, ClientGoodbye{Reason: reason})
}

// Close closes the connection
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		c.connected = false
		c.cancel()
		c.conn.Close()
		log.Printf("Connection closed")
	}
}

// IsConnected returns connection status
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}
