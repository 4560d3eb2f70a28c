package server

import (
	"encoding/json"
	"fmt"
)

// HandlerFunc is the signature for non-streaming JSON-RPC method handlers
type HandlerFunc func(params json.RawMessage) (interface{}, error)

// GetMethodRegistry returns a map of method names to handler functions
// This is used by both the HTTP and WebSocket transports
func GetMethodRegistry() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		"devices":          handleDevicesList,
		"hid_tap":          handleHidTap,
		"hid_swipe":        handleHidSwipe,
		"hid_button":       handleHidButton,
		"hid_key":          handleHidKey,
		"hid_key_sequence": handleHidKeySequence,
		"hid_text":         handleHidText,
		"server_shutdown":  handleServerShutdown,
	}
}

// Execute dispatches a method call using the registry
func Execute(method string, params json.RawMessage) (interface{}, error) {
	registry := GetMethodRegistry()

	handler, exists := registry[method]
	if !exists {
		return nil, fmt.Errorf("method not found: %s", method)
	}

	return handler(params)
}
