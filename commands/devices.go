package commands

import (
	"fmt"

	"github.com/mobile-next/hidcli/devices"
)

// DevicesCommand lists the configured companion devices
func DevicesCommand() *CommandResponse {
	config, err := LoadConfig()
	if err != nil {
		return NewErrorResponse(fmt.Errorf("error loading config: %v", err))
	}

	deviceInfoList := make([]devices.DeviceInfo, len(config.Devices))
	for i, deviceConfig := range config.Devices {
		deviceInfoList[i] = devices.DeviceInfo{
			ID:   deviceConfig.ID,
			Name: deviceConfig.Name,
			URL:  deviceConfig.URL,
		}
	}

	return NewSuccessResponse(deviceInfoList)
}
