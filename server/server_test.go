package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mobile-next/hidcli/commands"
	"github.com/mobile-next/hidcli/devices"
)

// useEmptyConfig points commands at a config file that does not exist, so
// device lookups fall back to the default local companion.
func useEmptyConfig(t *testing.T) {
	t.Helper()
	commands.SetConfigPath(filepath.Join(t.TempDir(), "config.ini"))
	t.Cleanup(func() {
		commands.SetConfigPath(devices.DefaultConfigPath())
	})
}

func postRPC(t *testing.T, url string, payload interface{}) JSONRPCResponse {
	t.Helper()

	var body []byte
	var err error

	if s, ok := payload.(string); ok {
		body = []byte(s)
	} else {
		body, err = json.Marshal(payload)
		require.NoError(t, err)
	}

	resp, err := http.Post(url+"/rpc", "application/json", bytes.NewBuffer(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)

	var jsonResp JSONRPCResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&jsonResp))
	return jsonResp
}

// TestJSONRPCValidation tests JSON-RPC request validation
func TestJSONRPCValidation(t *testing.T) {
	useEmptyConfig(t)

	server := httptest.NewServer(http.HandlerFunc(handleJSONRPC))
	defer server.Close()

	tests := []struct {
		name          string
		payload       interface{}
		expectedError map[string]interface{}
	}{
		{
			name:    "Empty POST body should return parse error",
			payload: "",
			expectedError: map[string]interface{}{
				"code": float64(ErrCodeParseError),
				"data": errMsgParseError,
			},
		},
		{
			name: "Invalid jsonrpc version should return error",
			payload: map[string]interface{}{
				"jsonrpc": "1.0",
				"method":  "devices",
				"id":      1,
			},
			expectedError: map[string]interface{}{
				"code": float64(ErrCodeInvalidRequest),
				"data": errMsgInvalidJSONRPC,
			},
		},
		{
			name: "Missing id field should return error",
			payload: map[string]interface{}{
				"jsonrpc": "2.0",
				"method":  "devices",
				"params":  map[string]interface{}{},
			},
			expectedError: map[string]interface{}{
				"code": float64(ErrCodeInvalidRequest),
				"data": errMsgIDRequired,
			},
		},
		{
			name: "Missing method should return error",
			payload: map[string]interface{}{
				"jsonrpc": "2.0",
				"id":      1,
			},
			expectedError: map[string]interface{}{
				"code": float64(ErrCodeInvalidRequest),
				"data": errMsgMethodRequired,
			},
		},
		{
			name: "stream_touch is not a request/response method",
			payload: map[string]interface{}{
				"jsonrpc": "2.0",
				"method":  "stream_touch",
				"id":      1,
			},
			expectedError: map[string]interface{}{
				"code": float64(ErrCodeMethodNotFound),
				"data": errMsgStreamTouch,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jsonResp := postRPC(t, server.URL, tt.payload)

			assert.Equal(t, "2.0", jsonResp.JSONRPC)
			assert.NotNil(t, jsonResp.Error, "Expected error in response")

			errorMap, ok := jsonResp.Error.(map[string]interface{})
			require.True(t, ok, "Expected error to be map, got %T", jsonResp.Error)

			assert.Equal(t, tt.expectedError["code"], errorMap["code"])
			assert.Equal(t, tt.expectedError["data"], errorMap["data"])
		})
	}
}

// TestMethodNotFound tests that unknown methods return method not found error
func TestMethodNotFound(t *testing.T) {
	useEmptyConfig(t)

	server := httptest.NewServer(http.HandlerFunc(handleJSONRPC))
	defer server.Close()

	jsonResp := postRPC(t, server.URL, map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  "unknown_method",
		"id":      1,
	})

	assert.NotNil(t, jsonResp.Error, "Expected error in response")

	errorMap, ok := jsonResp.Error.(map[string]interface{})
	require.True(t, ok, "Expected error to be map, got %T", jsonResp.Error)

	assert.Equal(t, float64(ErrCodeMethodNotFound), errorMap["code"])
}

// TestDevicesList tests the devices method end to end over HTTP
func TestDevicesList(t *testing.T) {
	useEmptyConfig(t)

	server := httptest.NewServer(http.HandlerFunc(handleJSONRPC))
	defer server.Close()

	jsonResp := postRPC(t, server.URL, map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  "devices",
		"params":  map[string]interface{}{},
		"id":      1,
	})

	assert.Equal(t, "2.0", jsonResp.JSONRPC)
	assert.Equal(t, float64(1), jsonResp.ID)
	assert.Nil(t, jsonResp.Error)
	require.NotNil(t, jsonResp.Result)

	// missing config file falls back to a single local device
	resultList, ok := jsonResp.Result.([]interface{})
	require.True(t, ok, "Expected result to be list, got %T", jsonResp.Result)
	require.Len(t, resultList, 1)

	deviceMap, ok := resultList[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "local", deviceMap["id"])
}

// TestSendBanner tests the banner/root endpoint handler directly
func TestSendBanner(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	sendBanner(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var data map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if data["status"] != "ok" {
		t.Errorf("Expected status 'ok', got %v", data["status"])
	}
}

// TestHandleJSONRPCDirect tests the JSON-RPC handler directly
func TestHandleJSONRPCDirect(t *testing.T) {
	useEmptyConfig(t)

	tests := []struct {
		name         string
		method       string
		body         string
		expectStatus int
		expectError  bool
	}{
		{
			name:         "Non-POST method",
			method:       "GET",
			body:         "",
			expectStatus: 405,
			expectError:  false,
		},
		{
			name:         "Valid JSON-RPC request with unknown method",
			method:       "POST",
			body:         `{"jsonrpc":"2.0","method":"unknown","id":1}`,
			expectStatus: 200,
			expectError:  true,
		},
		{
			name:         "Invalid JSON",
			method:       "POST",
			body:         `{invalid json}`,
			expectStatus: 200,
			expectError:  true,
		},
		{
			name:         "Empty method",
			method:       "POST",
			body:         `{"jsonrpc":"2.0","method":"","id":1}`,
			expectStatus: 200,
			expectError:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/rpc", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handleJSONRPC(w, req)

			resp := w.Result()
			defer resp.Body.Close()

			assert.Equal(t, tt.expectStatus, resp.StatusCode)

			// For 405 responses, there won't be JSON content
			if resp.StatusCode == 405 {
				return
			}

			var jsonResp JSONRPCResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&jsonResp))

			if tt.expectError {
				assert.NotNil(t, jsonResp.Error, "Expected error in response")
			} else {
				assert.Nil(t, jsonResp.Error, "Expected no error in response")
			}
		})
	}
}

// TestSendJSONRPCResponse tests the response helper function
func TestSendJSONRPCResponse(t *testing.T) {
	w := httptest.NewRecorder()
	testData := map[string]string{"test": "data"}

	sendJSONRPCResponse(w, 123, testData)

	resp := w.Result()
	defer resp.Body.Close()

	var jsonResp JSONRPCResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&jsonResp))

	assert.Equal(t, "2.0", jsonResp.JSONRPC)
	assert.Equal(t, float64(123), jsonResp.ID)

	resultMap, ok := jsonResp.Result.(map[string]interface{})
	require.True(t, ok, "Expected result to be map, got %T", jsonResp.Result)

	assert.Equal(t, "data", resultMap["test"])
}

// TestSendJSONRPCError tests the error response helper function
func TestSendJSONRPCError(t *testing.T) {
	w := httptest.NewRecorder()

	sendJSONRPCError(w, 456, ErrCodeMethodNotFound, "Method not found", "Test method")

	resp := w.Result()
	defer resp.Body.Close()

	var jsonResp JSONRPCResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&jsonResp))

	assert.Equal(t, "2.0", jsonResp.JSONRPC)
	assert.Equal(t, float64(456), jsonResp.ID)

	errorMap, ok := jsonResp.Error.(map[string]interface{})
	require.True(t, ok, "Expected error to be map, got %T", jsonResp.Error)

	assert.Equal(t, float64(ErrCodeMethodNotFound), errorMap["code"])
	assert.Equal(t, "Method not found", errorMap["message"])
	assert.Equal(t, "Test method", errorMap["data"])
}

// TestCORSMiddleware tests the CORS middleware functionality
func TestCORSMiddleware(t *testing.T) {
	// Create a test handler
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("test"))
	})

	corsHandler := corsMiddleware(testHandler)

	tests := []struct {
		name   string
		method string
	}{
		{"GET request", "GET"},
		{"POST request", "POST"},
		{"OPTIONS request", "OPTIONS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", nil)
			w := httptest.NewRecorder()

			corsHandler.ServeHTTP(w, req)

			resp := w.Result()
			defer resp.Body.Close()

			// Check CORS headers
			assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "POST, GET, OPTIONS", resp.Header.Get("Access-Control-Allow-Methods"))

			// OPTIONS requests should return 200 without calling the handler
			if tt.method == "OPTIONS" {
				assert.Equal(t, 200, resp.StatusCode)
			}
		})
	}
}

// TestHandlersRequireParams tests that input handlers reject empty params
func TestHandlersRequireParams(t *testing.T) {
	tests := []struct {
		method   string
		expected string
	}{
		{"hid_tap", "'params' is required with fields: deviceId, x, y"},
		{"hid_swipe", "'params' is required with fields: deviceId, x1, y1, x2, y2"},
		{"hid_button", "'params' is required with fields: deviceId, button"},
		{"hid_key", "'params' is required with fields: deviceId, keycode"},
		{"hid_key_sequence", "'params' is required with fields: deviceId, keycodes"},
		{"hid_text", "'params' is required with fields: deviceId, text"},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			_, err := Execute(tt.method, nil)
			require.Error(t, err)
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

// TestSwipeRequiresCoordinates tests that hid_swipe validates coordinate presence
func TestSwipeRequiresCoordinates(t *testing.T) {
	params := json.RawMessage(`{"deviceId":"test","x1":0,"y1":0,"x2":100}`)

	_, err := Execute("hid_swipe", params)
	require.Error(t, err)
	assert.Equal(t, "'y2' is required", err.Error())
}

// TestExecuteMethodNotFound tests dispatch of unknown methods
func TestExecuteMethodNotFound(t *testing.T) {
	_, err := Execute("bogus", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "method not found")
}

// TestServerShutdownHandler tests that server_shutdown acks even without a
// running server
func TestServerShutdownHandler(t *testing.T) {
	result, err := Execute("server_shutdown", nil)
	require.NoError(t, err)
	assert.Equal(t, okResponse, result)
}
