package client

import (
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/tourney21/internal/server" // Reuse message types
)

// EventHandler is a function that handles incoming messages of one type
type EventHandler func(*server.Message)

// Client is a WebSocket client for the tournament server. Incoming
// messages are dispatched to registered handlers on a single goroutine,
// in arrival order.
type Client struct {
	serverURL string
	conn      *websocket.Conn
	send      chan *server.Message
	receive   chan *server.Message
	logger    *log.Logger
	done      chan struct{}
	mu        sync.RWMutex
	connected bool
	closeOnce sync.Once

	eventHandlers map[server.MessageType][]EventHandler
}

// NewClient creates a new WebSocket client
func NewClient(serverURL string, logger *log.Logger) *Client {
	return &Client{
		serverURL:     serverURL,
		send:          make(chan *server.Message, 256),
		receive:       make(chan *server.Message, 256),
		logger:        logger.WithPrefix("client"),
		done:          make(chan struct{}),
		eventHandlers: make(map[server.MessageType][]EventHandler),
	}
}

// On registers a handler for a message type. Handlers must be registered
// before Connect.
func (c *Client) On(mt server.MessageType, handler EventHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eventHandlers[mt] = append(c.eventHandlers[mt], handler)
}

// Connect establishes the WebSocket connection and starts the pumps
func (c *Client) Connect() error {
	u, err := url.Parse(c.serverURL)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}

	// Accept http/https URLs and convert to the ws scheme
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}

	c.logger.Info("Connecting to server", "url", u.String())

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	go c.readPump()
	go c.writePump()
	go c.eventProcessor()

	return nil
}

// Disconnect closes the connection. Safe to call more than once.
func (c *Client) Disconnect() error {
	c.closeOnce.Do(func() {
		close(c.done)

		c.mu.Lock()
		defer c.mu.Unlock()

		if c.conn != nil {
			_ = c.conn.Close() // Ignore close errors during shutdown
		}
		c.connected = false

		c.logger.Info("Disconnected from server")
	})
	return nil
}

// IsConnected returns whether the client is connected
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Done is closed when the connection shuts down
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// SendMessage queues a message for the server
func (c *Client) SendMessage(msg *server.Message) error {
	select {
	case c.send <- msg:
		return nil
	case <-c.done:
		return fmt.Errorf("client disconnected")
	default:
		return fmt.Errorf("send buffer full")
	}
}

func (c *Client) sendTyped(mt server.MessageType, data interface{}) error {
	msg, err := server.NewMessage(mt, data)
	if err != nil {
		return err
	}
	return c.SendMessage(msg)
}

// Join registers with the lobby under the given display name
func (c *Client) Join(name string) error {
	return c.sendTyped(server.MessageTypeJoin, server.JoinData{Name: name})
}

// PlaceBet asks the server to deal a hand for the given stake
func (c *Client) PlaceBet(amount int) error {
	return c.sendTyped(server.MessageTypePlaceBet, server.PlaceBetData{Amount: amount})
}

// Hit requests another card for the active hand
func (c *Client) Hit() error {
	return c.sendTyped(server.MessageTypeHit, nil)
}

// Stand resolves the active hand without drawing
func (c *Client) Stand() error {
	return c.sendTyped(server.MessageTypeStand, nil)
}

// DoubleDown doubles the stake and draws a final card
func (c *Client) DoubleDown() error {
	return c.sendTyped(server.MessageTypeDouble, nil)
}

// GetState requests a fresh tournament and player snapshot
func (c *Client) GetState() error {
	return c.sendTyped(server.MessageTypeGetState, nil)
}

// Schedule asks the server to commit to a start/end window
func (c *Client) Schedule(start, end time.Time) error {
	return c.sendTyped(server.MessageTypeSchedule, server.ScheduleData{
		StartTime: start.UnixMilli(),
		EndTime:   end.UnixMilli(),
	})
}

// AdminStart asks the server to begin play immediately
func (c *Client) AdminStart() error {
	return c.sendTyped(server.MessageTypeAdminStart, nil)
}

// AdminEnd asks the server to end play immediately
func (c *Client) AdminEnd() error {
	return c.sendTyped(server.MessageTypeAdminEnd, nil)
}

// AdminReset asks the server to reopen the lobby after a finished run
func (c *Client) AdminReset() error {
	return c.sendTyped(server.MessageTypeAdminReset, nil)
}

// readPump handles incoming messages from the server
func (c *Client) readPump() {
	defer func() { _ = c.Disconnect() }()

	for {
		select {
		case <-c.done:
			return
		default:
		}

		var msg server.Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		c.logger.Debug("Received message", "type", msg.Type)

		select {
		case c.receive <- &msg:
		case <-c.done:
			return
		}
	}
}

// writePump handles outgoing messages to the server
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second) // Ping interval
	defer ticker.Stop()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				_ = c.Disconnect()
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = c.Disconnect()
				return
			}

		case <-c.done:
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// eventProcessor dispatches received messages to handlers in order
func (c *Client) eventProcessor() {
	for {
		select {
		case msg := <-c.receive:
			c.dispatch(msg)
		case <-c.done:
			return
		}
	}
}

func (c *Client) dispatch(msg *server.Message) {
	c.mu.RLock()
	handlers := c.eventHandlers[msg.Type]
	c.mu.RUnlock()

	if len(handlers) == 0 {
		c.logger.Debug("No handler for message", "type", msg.Type)
		return
	}
	for _, handler := range handlers {
		handler(msg)
	}
}
