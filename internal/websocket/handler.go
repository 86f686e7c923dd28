package websocket

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mlazaro/bahay/internal/chat"
	"github.com/mlazaro/bahay/internal/logger"
	"github.com/mlazaro/bahay/internal/realtime"
)

var log = logger.New("websocket")

// Client command types
const (
	CommandOpen  = "open"  // open a thread with a counterpart
	CommandSend  = "send"  // send a message into the open thread
	CommandClose = "close" // close the open thread
)

// Command is what a connected client sends over the socket.
type Command struct {
	Type        string     `json:"type"`
	Counterpart uuid.UUID  `json:"counterpart,omitempty"`
	PropertyID  *uuid.UUID `json:"property_id,omitempty"`
	Content     string     `json:"content,omitempty"`
}

/// Client is one connected messaging view: a socket plus the chat
// session that backs it. The session's feed subscription lives exactly
// as long as the connection. Send is never closed; closing done is
// what stops the pumps.
type Client struct {
	ID      uuid.UUID
	Socket  *websocket.Conn
	Send    chan []byte
	session *chat.Session
	done    chan struct{}
}

// Manager maintains the set of active clients
type Manager struct {
	store      chat.MessageStore
	feed       *realtime.Feed
	clients    map[uuid.UUID]*Client
	register   chan *Client
	unregister chan *Client
	mutex      sync.Mutex
}

// NewManager creates a new websocket manager
func NewManager(st chat.MessageStore, feed *realtime.Feed) *Manager {
	return &Manager{
		store:      st,
		feed:       feed,
		clients:    make(map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the websocket manager
func (m *Manager) Run() {
	for {
		select {
		case client := <-m.register:
			m.mutex.Lock()
			m.clients[client.ID] = client
			log.Info("Client connected: %s", client.ID)
			m.mutex.Unlock()
		case client := <-m.unregister:
			m.mutex.Lock()
			if current, ok := m.clients[client.ID]; ok && current == client {
				delete(m.clients, client.ID)
				log.Info("Client disconnected: %s", client.ID)
			}
			m.mutex.Unlock()
		}
	}
}

// SendToUser sends a payload to a specific connected user. A no-op when
// the user has no open socket.
func (m *Manager) SendToUser(userID uuid.UUID, payload []byte) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if client, ok := m.clients[userID]; ok {
		select {
		case client.Send <- payload:
			log.Debug("Payload sent to user %s", userID)
		default:
			log.Warn("Send buffer full for user %s, dropping payload", userID)
		}
	} else {
		log.Debug("User %s not connected", userID)
	}
}

// HandleWebSocket upgrades the request and mounts a messaging view for
// the authenticated user: one chat session, one feed subscription, both
// torn down when the socket closes.
func (m *Manager) HandleWebSocket(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		log.Warn("No userID in context, rejecting connection from %s", c.Request.RemoteAddr)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	userUUID, ok := userID.(uuid.UUID)
	if !ok {
		log.Error("Invalid UUID in context from %s", c.Request.RemoteAddr)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user identification"})
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// Origin enforcement happens at the CORS layer.
			return true
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade connection: %v", err)
		return
	}

	session := chat.NewSession(m.store, m.feed, userUUID)
	if err := session.Start(); err != nil {
		log.Error("Failed to start chat session for %s: %v", userUUID, err)
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "session start failed"))
		conn.Close()
		return
	}

	client := &Client{
		ID:      userUUID,
		Socket:  conn,
		Send:    make(chan []byte, 256),
		session: session,
		done:    make(chan struct{}),
	}

	m.register <- client

	go client.forwardSnapshots()
	go client.readPump(m)
	go client.writePump()
	log.Info("Client %s connected and ready", client.ID)
}

// forwardSnapshots pushes session snapshots to the socket until the
// client is torn down.
func (c *Client) forwardSnapshots() {
	for {
		select {
		case snap := <-c.session.Updates():
			payload, err := json.Marshal(struct {
				Type string `json:"type"`
				chat.Snapshot
			}{"snapshot", snap})
			if err != nil {
				continue
			}
			select {
			case c.Send <- payload:
			case <-c.done:
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *Client) sendError(message string) {
	payload, _ := json.Marshal(map[string]string{"type": "error", "error": message})
	select {
	case c.Send <- payload:
	default:
	}
}

// readPump consumes client commands and drives the chat session.
func (c *Client) readPump(m *Manager) {
	defer func() {
		close(c.done)
		c.session.Close()
		m.unregister <- c
		c.Socket.Close()
	}()

	c.Socket.SetReadLimit(64 * 1024)
	c.Socket.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Socket.SetPongHandler(func(string) error {
		c.Socket.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, raw, err := c.Socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error("Error reading from client %s: %v", c.ID, err)
			} else {
				log.Info("Client %s closed connection: %v", c.ID, err)
			}
			break
		}

		var cmd Command
		if err := json.Unmarshal(raw, &cmd); err != nil {
			log.Debug("Invalid command from client %s: %v", c.ID, err)
			c.sendError("Invalid command format")
			continue
		}

		switch cmd.Type {
		case CommandOpen:
			if cmd.Counterpart == uuid.Nil {
				c.sendError("Missing counterpart")
				continue
			}
			if err := c.session.OpenThread(cmd.Counterpart, cmd.PropertyID); err != nil {
				log.Warn("Client %s failed to open thread: %v", c.ID, err)
				c.sendError("Failed to load conversation")
			}
		case CommandSend:
			if _, err := c.session.Send(cmd.Content); err != nil {
				switch err {
				case chat.ErrEmptyMessage:
					c.sendError("Message body is empty")
				case chat.ErrThreadNotLoaded:
					c.sendError("No open conversation")
				default:
					log.Warn("Client %s failed to send: %v", c.ID, err)
					c.sendError("Failed to send message")
				}
			}
		case CommandClose:
			c.session.CloseThread()
		default:
			log.Debug("Unknown command type %q from client %s", cmd.Type, c.ID)
			c.sendError("Unknown command type")
		}
	}
}

// writePump pumps payloads from the manager to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.Socket.Close()
	}()

	for {
		select {
		case payload := <-c.Send:
			c.Socket.SetWriteDeadline(time.Now().Add(10 * time.Second))
			w, err := c.Socket.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(payload)

			// Drain anything already queued into the same frame.
			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Socket.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Socket.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			c.Socket.SetWriteDeadline(time.Now().Add(10 * time.Second))
			c.Socket.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
