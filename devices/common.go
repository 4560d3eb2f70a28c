package devices

import (
	"context"

	"github.com/mobile-next/hidcli/hid"
)

// Device is the delivery transport boundary. Implementations consume an
// ordered, possibly unbounded event sequence and forward it to a physical
// or virtual device, strictly in order, honoring hid.Delay as "suspend at
// least this long before the next event".
type Device interface {
	ID() string
	Name() string

	// PerformHID consumes events until the channel is closed, the
	// context is canceled, or the transport fails. Events are never
	// reordered or dropped.
	PerformHID(ctx context.Context, events <-chan hid.Event) error

	Close() error
}

// PerformSequence delivers a finite synthesized sequence to a device.
func PerformSequence(ctx context.Context, device Device, events []hid.Event) error {
	ch := make(chan hid.Event)
	go func() {
		defer close(ch)
		for _, event := range events {
			select {
			case ch <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	return device.PerformHID(ctx, ch)
}

// DeviceInfo represents the JSON-friendly device information
type DeviceInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}
