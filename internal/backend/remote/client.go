// Package remote talks to a skiffd daemon over a websocket.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/justyntemme/skiff/internal/backend"
	"github.com/justyntemme/skiff/internal/debug"
	"github.com/justyntemme/skiff/internal/safego"
)

// ErrClosed is returned by Dispatch once the connection is gone.
var ErrClosed = errors.New("remote: connection closed")

const writeWait = 10 * time.Second

// Client implements backend.Gateway against a skiffd /ws endpoint.
type Client struct {
	conn      *websocket.Conn
	responses chan backend.Response

	writeMu   sync.Mutex
	done      chan struct{}
	closeOnce sync.Once
}

var _ backend.Gateway = (*Client)(nil)

// Dial connects to url (ws://host:port/ws).
func Dial(ctx context.Context, url string, header http.Header) (*Client, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %d)", url, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	c := &Client{
		conn:      conn,
		responses: make(chan backend.Response, 32),
		done:      make(chan struct{}),
	}
	safego.Go(c.readLoop)
	return c, nil
}

// Dispatch writes req to the socket.
func (c *Client) Dispatch(req backend.Request) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(req); err != nil {
		return fmt.Errorf("send %s: %w", req.Command, err)
	}
	debug.Log(debug.GATEWAY, "sent %s token=%d", req.Command, req.Token)
	return nil
}

// Responses is closed when the connection drops.
func (c *Client) Responses() <-chan backend.Response {
	return c.responses
}

func (c *Client) readLoop() {
	defer close(c.responses)
	defer c.Close()
	for {
		var resp backend.Response
		if err := c.conn.ReadJSON(&resp); err != nil {
			select {
			case <-c.done:
			default:
				debug.Log(debug.GATEWAY, "read: %v", err)
			}
			return
		}
		select {
		case c.responses <- resp:
		case <-c.done:
			return
		}
	}
}

// Close sends a close frame and tears the connection down.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		c.writeMu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		c.writeMu.Unlock()
		err = c.conn.Close()
	})
	return err
}
