package devices

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mobile-next/hidcli/hid"
	"github.com/mobile-next/hidcli/utils"
)

const callTimeout = 5 * time.Second

// Companion delivers HID events to the companion agent running on or next
// to the device, over a WebSocket JSON-RPC connection. The connection is
// dialed lazily on the first event.
type Companion struct {
	id    string
	name  string
	url   string
	token string

	mu       sync.Mutex
	conn     *websocket.Conn
	pending  map[string]chan jsonRPCResponse
	closeErr error
}

func NewCompanion(config DeviceConfig, token string) *Companion {
	return &Companion{
		id:      config.ID,
		name:    config.Name,
		url:     config.URL,
		token:   token,
		pending: make(map[string]chan jsonRPCResponse),
	}
}

func (c *Companion) ID() string {
	return c.id
}

func (c *Companion) Name() string {
	return c.name
}

// PerformHID sends each press to the companion in order and sleeps on
// delays. A transport failure is returned as-is; no retries.
func (c *Companion) PerformHID(ctx context.Context, events <-chan hid.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-events:
			if !ok {
				return nil
			}

			switch e := event.(type) {
			case hid.Delay:
				timer := time.NewTimer(time.Duration(e.Seconds * float64(time.Second)))
				select {
				case <-timer.C:
				case <-ctx.Done():
					timer.Stop()
					return ctx.Err()
				}

			case hid.Press:
				if err := c.sendPress(e); err != nil {
					return fmt.Errorf("failed to deliver event to device %s: %w", c.id, err)
				}
			}
		}
	}
}

func (c *Companion) sendPress(press hid.Press) error {
	params := map[string]interface{}{
		"direction": press.Direction.String(),
	}

	switch action := press.Action.(type) {
	case hid.Touch:
		params["type"] = "touch"
		params["x"] = action.Point.X
		params["y"] = action.Point.Y
	case hid.ButtonPress:
		params["type"] = "button"
		params["button"] = action.Button.String()
	case hid.Key:
		params["type"] = "key"
		params["keycode"] = int(action.Keycode)
	}

	_, err := c.call("hid.press", params)
	return err
}

func (c *Companion) connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil
	}

	var header http.Header
	if c.token != "" {
		header = http.Header{}
		header.Set("Authorization", "Bearer "+c.token)
	}

	conn, _, err := websocket.DefaultDialer.Dial(c.url, header)
	if err != nil {
		return fmt.Errorf("failed to connect to companion at %s: %w", c.url, err)
	}

	utils.Verbose("connected to companion %s at %s", c.id, c.url)

	c.conn = conn
	c.closeErr = nil
	go c.readLoop(conn)

	return nil
}

func (c *Companion) readLoop(conn *websocket.Conn) {
	for {
		var resp jsonRPCResponse
		err := conn.ReadJSON(&resp)
		if err != nil {
			c.mu.Lock()
			c.closeErr = err
			c.conn = nil
			for _, ch := range c.pending {
				close(ch)
			}
			c.pending = make(map[string]chan jsonRPCResponse)
			c.mu.Unlock()
			return
		}

		c.mu.Lock()
		ch, ok := c.pending[resp.ID]
		if ok {
			delete(c.pending, resp.ID)
		}
		c.mu.Unlock()

		if ok {
			ch <- resp
		}
	}
}

func (c *Companion) Close() error {
	c.mu.Lock()
	pending := c.pending
	c.pending = make(map[string]chan jsonRPCResponse)
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.mu.Unlock()

	for _, ch := range pending {
		close(ch)
	}

	return nil
}
