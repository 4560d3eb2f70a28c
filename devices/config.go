package devices

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

const (
	// companion agents default to this endpoint when nothing is configured
	DefaultCompanionURL = "ws://localhost:8100/rpc"

	defaultDeviceID = "local"
)

// Defaults are the timing parameters applied when a command does not
// supply its own. A flag passed on the command line always wins; the
// config value is only consulted when the flag is absent.
type Defaults struct {
	PressDuration float64 // seconds
	SwipeDelta    float64 // pixels between interpolated touch points
}

// DeviceConfig describes one configured companion endpoint.
type DeviceConfig struct {
	ID   string
	Name string
	URL  string
}

type Config struct {
	Defaults Defaults
	Devices  []DeviceConfig
}

// DefaultConfigPath returns ~/.hidcli/config.ini.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".hidcli", "config.ini")
}

// LoadConfig reads the config file. A missing file is not an error: the
// result is a single default device pointing at the local companion.
//
// Format:
//
//	[defaults]
//	press_duration = 0.1
//	swipe_delta = 25
//
//	[device "bench-iphone"]
//	name = Bench iPhone 15
//	url = ws://10.0.1.7:8100/rpc
func LoadConfig(path string) (*Config, error) {
	config := &Config{}

	if path == "" {
		return withFallbackDevice(config), nil
	}

	file, err := ini.Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			return withFallbackDevice(config), nil
		}
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	defaults := file.Section("defaults")
	config.Defaults.PressDuration = defaults.Key("press_duration").MustFloat64(0)
	config.Defaults.SwipeDelta = defaults.Key("swipe_delta").MustFloat64(0)

	for _, section := range file.Sections() {
		name := section.Name()
		if !strings.HasPrefix(name, "device ") {
			continue
		}

		id := strings.Trim(strings.TrimPrefix(name, "device "), `"`)
		if id == "" {
			return nil, fmt.Errorf("config %s: device section with empty id", path)
		}

		url := section.Key("url").String()
		if url == "" {
			return nil, fmt.Errorf("config %s: device %q has no url", path, id)
		}

		displayName := section.Key("name").String()
		if displayName == "" {
			displayName = id
		}

		config.Devices = append(config.Devices, DeviceConfig{
			ID:   id,
			Name: displayName,
			URL:  url,
		})
	}

	return withFallbackDevice(config), nil
}

func withFallbackDevice(config *Config) *Config {
	if len(config.Devices) == 0 {
		config.Devices = []DeviceConfig{{
			ID:   defaultDeviceID,
			Name: "local companion",
			URL:  DefaultCompanionURL,
		}}
	}
	return config
}
