// internal/websocket/client.go
package websocket

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second    // Time allowed to write a message to the peer.
	pongWait       = 60 * time.Second    // Time allowed to read the next pong message from the peer.
	pingPeriod     = (pongWait * 9) / 10 // Send pings to peer with this period. Must be less than pongWait.
	maxMessageSize = 512                 // Maximum message size allowed from peer.
)

// Client is a middleman between one websocket connection and the hub.
type Client struct {
	ID   uuid.UUID
	Hub  *Hub
	Conn *websocket.Conn // The websocket connection.
	Send chan []byte     // Buffered channel of outbound messages.
}

func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		ID:   uuid.New(),
		Hub:  hub,
		Conn: conn,
		Send: make(chan []byte, 256),
	}
}

// ReadPump drains inbound frames until the connection dies. Subscribers
// have nothing to say to the server; reading exists only so that pongs and
// close frames are processed and a disconnect is noticed.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.UnregisterClient(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("client", c.ID.String()).Msg("websocket read error")
			}
			break
		}
		// Data frames are discarded, but like pongs they prove the peer
		// is alive.
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}

// WritePump pumps messages from the hub to the websocket connection. Every
// write carries a deadline so one stalled peer cannot hold the pump.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Warn().Err(err).Str("client", c.ID.String()).Msg("websocket write error")
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
