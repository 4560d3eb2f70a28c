package server

import (
	"context"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/mobile-next/hidcli/commands"
	"github.com/mobile-next/hidcli/utils"
)

// streamCommand is swappable for tests
var streamCommand = commands.StreamCommand

// NewStreamHandler returns the handler for the touch streaming endpoint.
// Each text frame on the connection is one touch event, in the same
// line format "hidcli io stream-touch" reads from stdin. The final frame
// sent back before closing carries the stream result.
func NewStreamHandler(enableCORS bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleStream(w, r, enableCORS)
	})
}

func handleStream(w http.ResponseWriter, r *http.Request, enableCORS bool) {
	deviceID := r.URL.Query().Get("device")

	conn, err := newUpgrader(enableCORS).Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	pr, pw := io.Pipe()

	result := make(chan *commands.CommandResponse, 1)
	go func() {
		req := commands.StreamRequest{DeviceID: deviceID}
		response := streamCommand(ctx, req, pr)
		// unblock any pending pw.Write if the stream ended on its own
		pr.Close()
		result <- response
	}()

	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			utils.Verbose("stream connection closed: %v", err)
			break
		}

		if messageType != websocket.TextMessage {
			utils.Warn("stream: ignoring non-text frame")
			continue
		}

		if _, err := pw.Write(append(message, '\n')); err != nil {
			break
		}
	}

	// no more input, let the bridge drain and report
	pw.Close()
	response := <-result

	wsConn := &wsConnection{conn: conn}
	if err := wsConn.sendJSON(response); err != nil {
		utils.Verbose("stream: failed to send final response: %v", err)
	}
}
