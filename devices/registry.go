package devices

import (
	"sync"

	"github.com/mobile-next/hidcli/utils"
)

type Registry struct {
	mu      sync.RWMutex
	devices map[string]Device
}

// NewRegistry creates a new device registry instance
func NewRegistry() *Registry {
	return &Registry{
		devices: make(map[string]Device),
	}
}

// Register adds a device to the registry for cleanup tracking
func (r *Registry) Register(device Device) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.devices[device.ID()] = device
}

// CleanupAll gracefully closes all registered device connections
func (r *Registry) CleanupAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.devices) == 0 {
		return
	}

	for id, device := range r.devices {
		if err := device.Close(); err != nil {
			utils.Verbose("Error closing device %s: %v", id, err)
		}
	}

	// clear the registry
	r.devices = make(map[string]Device)
}
