package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mobile-next/hidcli/commands"
	"github.com/mobile-next/hidcli/utils"
)

const (
	// Parse error: Invalid JSON was received by the server
	ErrCodeParseError = -32700

	// Invalid Request: The JSON sent is not a valid Request object
	ErrCodeInvalidRequest = -32600

	// Method not found: The method does not exist / is not available
	ErrCodeMethodNotFound = -32601

	// Server error: Internal JSON-RPC error
	ErrCodeServerError = -32000

	// Invalid params: Invalid method parameters
	ErrCodeInvalidParams = -32602

	// Internal error: Internal JSON-RPC error
	ErrCodeInternalError = -32603
)

// Server timeouts
const (
	ReadTimeout  = 10 * time.Second
	WriteTimeout = 10 * time.Second
	IdleTimeout  = 120 * time.Second
)

const (
	errTitleParseError    = "Parse error"
	errTitleInvalidReq    = "Invalid Request"
	errTitleMethodNotSupp = "Method not supported"

	errMsgParseError     = "expecting jsonrpc payload"
	errMsgInvalidJSONRPC = "'jsonrpc' must be '2.0'"
	errMsgIDRequired     = "'id' field is required"
	errMsgMethodRequired = "'method' is required"
	errMsgStreamTouch    = "stream_touch not supported over JSON-RPC, use the /stream WebSocket endpoint"
)

var okResponse = map[string]interface{}{"status": "ok"}

// httpServer is the running server instance, used by server_shutdown
var httpServer *http.Server

type JSONRPCRequest struct {
	// these fields are all omitempty, so we can report back to client if they are missing
	JSONRPC string          `json:"jsonrpc,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      interface{}     `json:"id,omitempty"`
}

// JSONRPCResponse represents a JSON-RPC response
type JSONRPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   interface{} `json:"error,omitempty"`
	ID      interface{} `json:"id"`
}

// requestError is a JSON-RPC level validation failure
type requestError struct {
	code    int
	message string
	data    string
}

// validateJSONRPCRequest checks the JSON-RPC envelope, shared by the HTTP
// and WebSocket transports. Returns nil when the request is well-formed.
func validateJSONRPCRequest(req JSONRPCRequest) *requestError {
	if req.JSONRPC != "2.0" {
		return &requestError{ErrCodeInvalidRequest, errTitleInvalidReq, errMsgInvalidJSONRPC}
	}

	if req.ID == nil {
		return &requestError{ErrCodeInvalidRequest, errTitleInvalidReq, errMsgIDRequired}
	}

	if req.Method == "" {
		return &requestError{ErrCodeInvalidRequest, errTitleInvalidReq, errMsgMethodRequired}
	}

	// touch streaming needs a persistent connection, not request/response
	if req.Method == "stream_touch" {
		return &requestError{ErrCodeMethodNotFound, errTitleMethodNotSupp, errMsgStreamTouch}
	}

	return nil
}

// corsMiddleware handles CORS preflight requests and adds CORS headers to responses.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func StartServer(addr string, enableCORS bool) error {
	mux := http.NewServeMux()

	mux.HandleFunc("/", sendBanner)
	mux.HandleFunc("/rpc", handleJSONRPC)
	mux.Handle("/ws", NewWebSocketHandler(enableCORS))
	mux.Handle("/stream", NewStreamHandler(enableCORS))

	// if host is missing, default to localhost
	if !strings.Contains(addr, ":") {
		// convert addr to integer
		port, err := strconv.Atoi(addr)
		if err != nil {
			return fmt.Errorf("invalid port: %v", err)
		}

		addr = fmt.Sprintf(":%d", port)
	}

	var handler http.Handler = mux
	if enableCORS {
		handler = corsMiddleware(mux)
	}

	httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
		IdleTimeout:  IdleTimeout,
	}

	utils.Info("Starting server on http://%s...", httpServer.Addr)
	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the running server gracefully and closes any companion
// connections tracked by the registry.
func Shutdown(ctx context.Context) error {
	if registry := commands.GetRegistry(); registry != nil {
		registry.CleanupAll()
	}

	if httpServer == nil {
		return nil
	}
	return httpServer.Shutdown(ctx)
}

func handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req JSONRPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONRPCError(w, nil, ErrCodeParseError, errTitleParseError, errMsgParseError)
		return
	}

	if reqErr := validateJSONRPCRequest(req); reqErr != nil {
		id := req.ID
		if reqErr.data == errMsgIDRequired {
			id = nil
		}
		sendJSONRPCError(w, id, reqErr.code, reqErr.message, reqErr.data)
		return
	}

	utils.Info("Request ID: %v, Method: %s, Params: %s", req.ID, req.Method, string(req.Params))

	handler, exists := GetMethodRegistry()[req.Method]
	if !exists {
		sendJSONRPCError(w, req.ID, ErrCodeMethodNotFound, "Method not found", fmt.Sprintf("Method '%s' not found", req.Method))
		return
	}

	result, err := handler(req.Params)
	if err != nil {
		log.Printf("Error executing method %s: %v", req.Method, err)
		sendJSONRPCError(w, req.ID, ErrCodeServerError, "Server error", err.Error())
		return
	}

	sendJSONRPCResponse(w, req.ID, result)
}

func sendJSONRPCResponse(w http.ResponseWriter, id interface{}, result interface{}) {
	response := JSONRPCResponse{
		JSONRPC: "2.0",
		Result:  result,
		ID:      id,
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

func sendJSONRPCError(w http.ResponseWriter, id interface{}, code int, message string, data interface{}) {
	response := JSONRPCResponse{
		JSONRPC: "2.0",
		Error: map[string]interface{}{
			"code":    code,
			"message": message,
			"data":    data,
		},
		ID: id,
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

func sendBanner(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(okResponse)
}

func handleDevicesList(params json.RawMessage) (interface{}, error) {
	response := commands.DevicesCommand()
	if response.Status == "error" {
		return nil, fmt.Errorf("%s", response.Error)
	}
	return response.Data, nil
}

type HidTapParams struct {
	DeviceID string  `json:"deviceId"`
	X        int     `json:"x"`
	Y        int     `json:"y"`
	Duration float64 `json:"duration,omitempty"`
}

type HidSwipeParams struct {
	DeviceID string  `json:"deviceId"`
	X1       int     `json:"x1"`
	Y1       int     `json:"y1"`
	X2       int     `json:"x2"`
	Y2       int     `json:"y2"`
	Duration float64 `json:"duration,omitempty"`
	Delta    int     `json:"delta,omitempty"`
}

type HidButtonParams struct {
	DeviceID string  `json:"deviceId"`
	Button   string  `json:"button"`
	Duration float64 `json:"duration,omitempty"`
}

type HidKeyParams struct {
	DeviceID string  `json:"deviceId"`
	Keycode  int     `json:"keycode"`
	Duration float64 `json:"duration,omitempty"`
}

type HidKeySequenceParams struct {
	DeviceID string `json:"deviceId"`
	Keycodes []int  `json:"keycodes"`
}

type HidTextParams struct {
	DeviceID string `json:"deviceId"`
	Text     string `json:"text"`
}

func handleHidTap(params json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("'params' is required with fields: deviceId, x, y")
	}

	var tapParams HidTapParams
	if err := json.Unmarshal(params, &tapParams); err != nil {
		return nil, fmt.Errorf("invalid parameters: %v. Expected fields: deviceId, x, y", err)
	}

	req := commands.TapRequest{
		DeviceID: tapParams.DeviceID,
		X:        tapParams.X,
		Y:        tapParams.Y,
		Duration: tapParams.Duration,
	}

	response := commands.TapCommand(req)
	if response.Status == "error" {
		return nil, fmt.Errorf("%s", response.Error)
	}

	return okResponse, nil
}

func handleHidSwipe(params json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("'params' is required with fields: deviceId, x1, y1, x2, y2")
	}

	var swipeParams HidSwipeParams
	if err := json.Unmarshal(params, &swipeParams); err != nil {
		return nil, fmt.Errorf("invalid parameters: %v. Expected fields: deviceId, x1, y1, x2, y2", err)
	}

	// validate that coordinates are provided (x1,y1,x2,y2 must be present)
	var rawParams map[string]interface{}
	if err := json.Unmarshal(params, &rawParams); err != nil {
		return nil, fmt.Errorf("invalid parameters format")
	}

	requiredFields := []string{"x1", "y1", "x2", "y2"}
	for _, field := range requiredFields {
		if _, exists := rawParams[field]; !exists {
			return nil, fmt.Errorf("'%s' is required", field)
		}
	}

	req := commands.SwipeRequest{
		DeviceID: swipeParams.DeviceID,
		X1:       swipeParams.X1,
		Y1:       swipeParams.Y1,
		X2:       swipeParams.X2,
		Y2:       swipeParams.Y2,
		Duration: swipeParams.Duration,
		Delta:    swipeParams.Delta,
	}

	response := commands.SwipeCommand(req)
	if response.Status == "error" {
		return nil, fmt.Errorf("%s", response.Error)
	}

	return okResponse, nil
}

func handleHidButton(params json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("'params' is required with fields: deviceId, button")
	}

	var buttonParams HidButtonParams
	if err := json.Unmarshal(params, &buttonParams); err != nil {
		return nil, fmt.Errorf("invalid parameters: %v. Expected fields: deviceId, button", err)
	}

	req := commands.ButtonRequest{
		DeviceID: buttonParams.DeviceID,
		Button:   buttonParams.Button,
		Duration: buttonParams.Duration,
	}

	response := commands.ButtonCommand(req)
	if response.Status == "error" {
		return nil, fmt.Errorf("%s", response.Error)
	}

	return okResponse, nil
}

func handleHidKey(params json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("'params' is required with fields: deviceId, keycode")
	}

	var keyParams HidKeyParams
	if err := json.Unmarshal(params, &keyParams); err != nil {
		return nil, fmt.Errorf("invalid parameters: %v. Expected fields: deviceId, keycode", err)
	}

	req := commands.KeyRequest{
		DeviceID: keyParams.DeviceID,
		Keycode:  keyParams.Keycode,
		Duration: keyParams.Duration,
	}

	response := commands.KeyCommand(req)
	if response.Status == "error" {
		return nil, fmt.Errorf("%s", response.Error)
	}

	return okResponse, nil
}

func handleHidKeySequence(params json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("'params' is required with fields: deviceId, keycodes")
	}

	var seqParams HidKeySequenceParams
	if err := json.Unmarshal(params, &seqParams); err != nil {
		return nil, fmt.Errorf("invalid parameters: %v. Expected fields: deviceId, keycodes", err)
	}

	req := commands.KeySequenceRequest{
		DeviceID: seqParams.DeviceID,
		Keycodes: seqParams.Keycodes,
	}

	response := commands.KeySequenceCommand(req)
	if response.Status == "error" {
		return nil, fmt.Errorf("%s", response.Error)
	}

	return okResponse, nil
}

func handleHidText(params json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("'params' is required with fields: deviceId, text")
	}

	var textParams HidTextParams
	if err := json.Unmarshal(params, &textParams); err != nil {
		return nil, fmt.Errorf("invalid parameters: %v. Expected fields: deviceId, text", err)
	}

	req := commands.TextRequest{
		DeviceID: textParams.DeviceID,
		Text:     textParams.Text,
	}

	response := commands.TextCommand(req)
	if response.Status == "error" {
		return nil, fmt.Errorf("%s", response.Error)
	}

	return okResponse, nil
}

func handleServerShutdown(params json.RawMessage) (interface{}, error) {
	utils.Info("Shutdown requested via JSON-RPC")

	// let the response flush before tearing the listener down
	go func() {
		time.Sleep(100 * time.Millisecond)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := Shutdown(ctx); err != nil {
			log.Printf("Error shutting down server: %v", err)
		}
	}()

	return okResponse, nil
}
