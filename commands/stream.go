package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/mobile-next/hidcli/hid"
	"github.com/mobile-next/hidcli/utils"
)

// StreamRequest represents the parameters for a touch stream session
type StreamRequest struct {
	DeviceID string `json:"deviceId"`
}

// StreamCommand bridges a line-oriented touch event feed to the specified
// device until the feed ends or ctx is canceled. Cancellation is a normal
// way to stop a stream, not an error.
func StreamCommand(ctx context.Context, req StreamRequest, feed io.Reader) *CommandResponse {
	targetDevice, err := FindDeviceOrAutoSelect(req.DeviceID)
	if err != nil {
		return NewErrorResponse(fmt.Errorf("error finding device: %v", err))
	}

	bridge := hid.NewBridge(feed)
	utils.Info("stream %s: forwarding touch events to device %s", bridge.Session(), targetDevice.ID())

	err = targetDevice.PerformHID(ctx, bridge.Events(ctx))
	if err != nil && !errors.Is(err, context.Canceled) {
		return NewErrorResponse(err)
	}

	return NewSuccessResponse(map[string]interface{}{
		"message": fmt.Sprintf("Touch stream %s to device %s ended", bridge.Session(), targetDevice.ID()),
	})
}
