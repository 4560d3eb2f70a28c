package commands

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/zalando/go-keyring"

	"github.com/mobile-next/hidcli/devices"
)

const (
	keyringService = "hidcli"
	keyringUser    = "companion"
)

// CommandResponse represents a standardized response format for all commands
type CommandResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) *CommandResponse {
	return &CommandResponse{
		Status: "ok",
		Data:   data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(err error) *CommandResponse {
	return &CommandResponse{
		Status: "error",
		Error:  err.Error(),
	}
}

// deviceCache keeps recently used companion connections so consecutive
// commands against the same device reuse one WebSocket connection.
var deviceCache *lru.Cache[string, devices.Device]

// configPath is where FindDevice reads companion endpoints and timing
// defaults from. Overridable for tests and via the --config flag.
var configPath = devices.DefaultConfigPath()

// deviceRegistry holds the registry for cleanup tracking.
// It is set once at application startup via SetRegistry and used to close
// companion connections during graceful shutdown (SIGINT/SIGTERM).
var deviceRegistry *devices.Registry

func init() {
	// lru.New only fails for a non-positive size
	deviceCache, _ = lru.New[string, devices.Device](8)
}

// SetRegistry sets the global device registry for cleanup tracking.
// This should be called once at application startup (main.go or server.go).
func SetRegistry(registry *devices.Registry) {
	deviceRegistry = registry
}

// GetRegistry returns the current device registry.
// Returns nil if SetRegistry has not been called yet.
func GetRegistry() *devices.Registry {
	return deviceRegistry
}

// SetConfigPath overrides the config file location.
func SetConfigPath(path string) {
	configPath = path
}

// LoadConfig reads the active config file.
func LoadConfig() (*devices.Config, error) {
	return devices.LoadConfig(configPath)
}

// SetCompanionToken stores the companion access token in the system keyring.
func SetCompanionToken(token string) error {
	return keyring.Set(keyringService, keyringUser, token)
}

// CompanionToken returns the stored companion access token.
func CompanionToken() (string, error) {
	return keyring.Get(keyringService, keyringUser)
}

// DeleteCompanionToken removes the stored companion access token.
func DeleteCompanionToken() error {
	return keyring.Delete(keyringService, keyringUser)
}

// companionToken returns the stored companion access token, or an empty
// string when none is stored.
func companionToken() string {
	token, err := CompanionToken()
	if err != nil {
		return ""
	}
	return token
}

// FindDevice finds a configured device by ID, using the cache when possible
func FindDevice(deviceID string) (devices.Device, error) {
	if deviceID == "" {
		return nil, fmt.Errorf("device ID is required")
	}

	if device, exists := deviceCache.Get(deviceID); exists {
		return device, nil
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	for _, deviceConfig := range config.Devices {
		if deviceConfig.ID == deviceID {
			return newCachedCompanion(deviceConfig), nil
		}
	}

	return nil, fmt.Errorf("device not found: %s", deviceID)
}

// FindDeviceOrAutoSelect finds a device by ID, or auto-selects if deviceID
// is empty. Auto-selection requires exactly one configured device.
func FindDeviceOrAutoSelect(deviceID string) (devices.Device, error) {
	if deviceID != "" {
		return FindDevice(deviceID)
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	if len(config.Devices) == 0 {
		return nil, fmt.Errorf("no devices configured")
	}

	if len(config.Devices) > 1 {
		return nil, fmt.Errorf("multiple devices configured (%d), please specify --device with one of: %s",
			len(config.Devices), getDeviceIDList(config.Devices))
	}

	deviceConfig := config.Devices[0]
	if device, exists := deviceCache.Get(deviceConfig.ID); exists {
		return device, nil
	}

	return newCachedCompanion(deviceConfig), nil
}

func newCachedCompanion(deviceConfig devices.DeviceConfig) devices.Device {
	device := devices.NewCompanion(deviceConfig, companionToken())
	deviceCache.Add(deviceConfig.ID, device)
	if deviceRegistry != nil {
		deviceRegistry.Register(device)
	}
	return device
}

// getDeviceIDList returns a comma-separated list of device IDs for error messages
func getDeviceIDList(configs []devices.DeviceConfig) string {
	var ids []string
	for _, deviceConfig := range configs {
		ids = append(ids, deviceConfig.ID)
	}
	return fmt.Sprintf("[%s]", strings.Join(ids, ", "))
}
