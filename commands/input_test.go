package commands

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeycodes(t *testing.T) {
	tests := []struct {
		name    string
		tokens  []string
		want    []int
		wantErr bool
	}{
		{"empty", nil, []int{}, false},
		{"single", []string{"4"}, []int{4}, false},
		{"multiple", []string{"4", "5", "40"}, []int{4, 5, 40}, false},
		{"not a number", []string{"4", "x", "6"}, nil, true},
		{"float", []string{"4.5"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKeycodes(tt.tokens)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKeycodes(%v) error = %v, wantErr %v", tt.tokens, err, tt.wantErr)
			}
			if err == nil && len(got) != len(tt.want) {
				t.Fatalf("ParseKeycodes(%v) = %v, want %v", tt.tokens, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("keycode %d = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTapCommand_NegativeCoordinates(t *testing.T) {
	response := TapCommand(TapRequest{X: -1, Y: 10})
	assert.Equal(t, "error", response.Status)
	assert.Contains(t, response.Error, "non-negative")
}

func TestSwipeCommand_NegativeCoordinates(t *testing.T) {
	response := SwipeCommand(SwipeRequest{X1: 0, Y1: 0, X2: -5, Y2: 10})
	assert.Equal(t, "error", response.Status)
	assert.Contains(t, response.Error, "non-negative")
}

func TestButtonCommand_EmptyButton(t *testing.T) {
	response := ButtonCommand(ButtonRequest{})
	assert.Equal(t, "error", response.Status)
	assert.Contains(t, response.Error, "button name is required")
}

func TestButtonCommand_UnknownButton(t *testing.T) {
	response := ButtonCommand(ButtonRequest{Button: "TURBO"})
	assert.Equal(t, "error", response.Status)
	assert.Contains(t, response.Error, "unknown button")
}

func TestTextCommand_EmptyText(t *testing.T) {
	response := TextCommand(TextRequest{})
	assert.Equal(t, "error", response.Status)
	assert.Contains(t, response.Error, "text is required")
}

func TestKeyCommand_NegativeKeycode(t *testing.T) {
	response := KeyCommand(KeyRequest{Keycode: -3})
	assert.Equal(t, "error", response.Status)
	assert.Contains(t, response.Error, "must not be negative")
}

// pressRecorder is a companion agent stub recording hid.press params.
type pressRecorder struct {
	mu       sync.Mutex
	received []map[string]interface{}
}

func (p *pressRecorder) handler() http.HandlerFunc {
	upgrader := websocket.Upgrader{}
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for {
			var req struct {
				Params map[string]interface{} `json:"params"`
				ID     string                 `json:"id"`
			}
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			p.mu.Lock()
			p.received = append(p.received, req.Params)
			p.mu.Unlock()

			resp := map[string]interface{}{"jsonrpc": "2.0", "result": "ok", "id": req.ID}
			if err := conn.WriteJSON(resp); err != nil {
				return
			}
		}
	}
}

func (p *pressRecorder) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.received)
}

// useTestConfig points the command layer at a config with one device
// backed by the given companion stub.
func useTestConfig(t *testing.T, deviceID, wsURL string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.ini")
	contents := "[device \"" + deviceID + "\"]\nname = " + deviceID + "\nurl = " + wsURL + "\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	previous := configPath
	SetConfigPath(path)
	t.Cleanup(func() { SetConfigPath(previous) })
}

func TestTapCommand_DeliversToCompanion(t *testing.T) {
	recorder := &pressRecorder{}
	server := httptest.NewServer(recorder.handler())
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	useTestConfig(t, "tap-target", wsURL)

	response := TapCommand(TapRequest{DeviceID: "tap-target", X: 100, Y: 200})
	require.Equal(t, "ok", response.Status, "error: %s", response.Error)

	// tap without duration is exactly one down and one up
	assert.Equal(t, 2, recorder.count())
}

func TestKeySequenceCommand_DeliversPairsInOrder(t *testing.T) {
	recorder := &pressRecorder{}
	server := httptest.NewServer(recorder.handler())
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	useTestConfig(t, "keyseq-target", wsURL)

	response := KeySequenceCommand(KeySequenceRequest{DeviceID: "keyseq-target", Keycodes: []int{4, 5}})
	require.Equal(t, "ok", response.Status, "error: %s", response.Error)
	assert.Equal(t, 4, recorder.count())

	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	assert.Equal(t, float64(4), recorder.received[0]["keycode"])
	assert.Equal(t, "down", recorder.received[0]["direction"])
	assert.Equal(t, float64(4), recorder.received[1]["keycode"])
	assert.Equal(t, "up", recorder.received[1]["direction"])
	assert.Equal(t, float64(5), recorder.received[2]["keycode"])
}

func TestFindDevice_UnknownID(t *testing.T) {
	useTestConfig(t, "known", "ws://localhost:8100/rpc")

	_, err := FindDevice("unknown-device")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device not found")
}

func TestFindDevice_EmptyID(t *testing.T) {
	_, err := FindDevice("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device ID is required")
}
