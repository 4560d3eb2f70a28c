package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mobile-next/hidcli/devices"
	"github.com/mobile-next/hidcli/hid"
)

// TapRequest represents the parameters for a tap command
type TapRequest struct {
	DeviceID string  `json:"deviceId"`
	X        int     `json:"x"`
	Y        int     `json:"y"`
	Duration float64 `json:"duration,omitempty"`
}

// SwipeRequest represents the parameters for a swipe command
type SwipeRequest struct {
	DeviceID string  `json:"deviceId"`
	X1       int     `json:"x1"`
	Y1       int     `json:"y1"`
	X2       int     `json:"x2"`
	Y2       int     `json:"y2"`
	Duration float64 `json:"duration,omitempty"`
	Delta    int     `json:"delta,omitempty"`
}

// ButtonRequest represents the parameters for a hardware button press
type ButtonRequest struct {
	DeviceID string  `json:"deviceId"`
	Button   string  `json:"button"`
	Duration float64 `json:"duration,omitempty"`
}

// KeyRequest represents the parameters for a single key press
type KeyRequest struct {
	DeviceID string  `json:"deviceId"`
	Keycode  int     `json:"keycode"`
	Duration float64 `json:"duration,omitempty"`
}

// KeySequenceRequest represents the parameters for a key sequence
type KeySequenceRequest struct {
	DeviceID string `json:"deviceId"`
	Keycodes []int  `json:"keycodes"`
}

// TextRequest represents the parameters for a text input command
type TextRequest struct {
	DeviceID string `json:"deviceId"`
	Text     string `json:"text"`
}

// ParseKeycodes parses the space-separated keycode tokens of a
// key-sequence command.
func ParseKeycodes(tokens []string) ([]int, error) {
	keycodes := make([]int, 0, len(tokens))
	for _, token := range tokens {
		code, err := strconv.Atoi(token)
		if err != nil {
			return nil, fmt.Errorf("invalid keycode %q: keycodes must be integers", token)
		}
		keycodes = append(keycodes, code)
	}
	return keycodes, nil
}

// deliver hands a synthesized sequence to the target device.
func deliver(deviceID string, events []hid.Event) (devices.Device, error) {
	targetDevice, err := FindDeviceOrAutoSelect(deviceID)
	if err != nil {
		return nil, fmt.Errorf("error finding device: %v", err)
	}

	if err := devices.PerformSequence(context.Background(), targetDevice, events); err != nil {
		return nil, err
	}

	return targetDevice, nil
}

// defaultedPressDuration substitutes the configured default duration when
// the request did not carry one.
func defaultedPressDuration(duration float64) float64 {
	if duration != 0 {
		return duration
	}
	config, err := LoadConfig()
	if err != nil {
		return duration
	}
	return config.Defaults.PressDuration
}

// TapCommand performs a tap on the specified device
func TapCommand(req TapRequest) *CommandResponse {
	if req.X < 0 || req.Y < 0 {
		return NewErrorResponse(fmt.Errorf("x and y coordinates must be non-negative, got x=%d, y=%d", req.X, req.Y))
	}

	point := hid.Point{X: float64(req.X), Y: float64(req.Y)}
	events, err := hid.TapEvents(point, defaultedPressDuration(req.Duration))
	if err != nil {
		return NewErrorResponse(err)
	}

	targetDevice, err := deliver(req.DeviceID, events)
	if err != nil {
		return NewErrorResponse(err)
	}

	return NewSuccessResponse(map[string]interface{}{
		"message": fmt.Sprintf("Tapped on device %s at (%d,%d)", targetDevice.ID(), req.X, req.Y),
	})
}

// SwipeCommand performs a swipe on the specified device
func SwipeCommand(req SwipeRequest) *CommandResponse {
	if req.X1 < 0 || req.Y1 < 0 || req.X2 < 0 || req.Y2 < 0 {
		return NewErrorResponse(fmt.Errorf("coordinates must be non-negative, got (%d,%d) -> (%d,%d)", req.X1, req.Y1, req.X2, req.Y2))
	}

	delta := float64(req.Delta)
	if delta == 0 {
		if config, err := LoadConfig(); err == nil {
			delta = config.Defaults.SwipeDelta
		}
	}

	start := hid.Point{X: float64(req.X1), Y: float64(req.Y1)}
	end := hid.Point{X: float64(req.X2), Y: float64(req.Y2)}
	events, err := hid.SwipeEvents(start, end, req.Duration, delta)
	if err != nil {
		return NewErrorResponse(err)
	}

	targetDevice, err := deliver(req.DeviceID, events)
	if err != nil {
		return NewErrorResponse(err)
	}

	return NewSuccessResponse(map[string]interface{}{
		"message": fmt.Sprintf("Swiped on device %s from (%d,%d) to (%d,%d)", targetDevice.ID(), req.X1, req.Y1, req.X2, req.Y2),
	})
}

// ButtonCommand presses a hardware button on the specified device
func ButtonCommand(req ButtonRequest) *CommandResponse {
	if req.Button == "" {
		return NewErrorResponse(fmt.Errorf("button name is required"))
	}

	button, err := hid.ButtonFromName(req.Button)
	if err != nil {
		return NewErrorResponse(err)
	}

	events, err := hid.ButtonEvents(button, defaultedPressDuration(req.Duration))
	if err != nil {
		return NewErrorResponse(err)
	}

	targetDevice, err := deliver(req.DeviceID, events)
	if err != nil {
		return NewErrorResponse(err)
	}

	return NewSuccessResponse(map[string]interface{}{
		"message": fmt.Sprintf("Pressed button '%s' on device %s", req.Button, targetDevice.ID()),
	})
}

// KeyCommand presses a single key on the specified device
func KeyCommand(req KeyRequest) *CommandResponse {
	events, err := hid.KeyEvents(hid.Keycode(req.Keycode), defaultedPressDuration(req.Duration))
	if err != nil {
		return NewErrorResponse(err)
	}

	targetDevice, err := deliver(req.DeviceID, events)
	if err != nil {
		return NewErrorResponse(err)
	}

	return NewSuccessResponse(map[string]interface{}{
		"message": fmt.Sprintf("Pressed keycode %d on device %s", req.Keycode, targetDevice.ID()),
	})
}

// KeySequenceCommand presses a sequence of keys on the specified device
func KeySequenceCommand(req KeySequenceRequest) *CommandResponse {
	keycodes := make([]hid.Keycode, len(req.Keycodes))
	for i, code := range req.Keycodes {
		keycodes[i] = hid.Keycode(code)
	}

	events, err := hid.KeySequenceEvents(keycodes)
	if err != nil {
		return NewErrorResponse(err)
	}

	targetDevice, err := deliver(req.DeviceID, events)
	if err != nil {
		return NewErrorResponse(err)
	}

	return NewSuccessResponse(map[string]interface{}{
		"message": fmt.Sprintf("Pressed %d keycodes on device %s", len(req.Keycodes), targetDevice.ID()),
	})
}

// TextCommand types text on the specified device
func TextCommand(req TextRequest) *CommandResponse {
	if req.Text == "" {
		return NewErrorResponse(fmt.Errorf("text is required"))
	}

	events, err := hid.TextEvents(req.Text)
	if err != nil {
		return NewErrorResponse(err)
	}

	targetDevice, err := deliver(req.DeviceID, events)
	if err != nil {
		return NewErrorResponse(err)
	}

	return NewSuccessResponse(map[string]interface{}{
		"message": fmt.Sprintf("Sent text to device %s", targetDevice.ID()),
	})
}
