package cli

var (
	verbose    bool
	configFile string

	// all commands
	deviceId string

	// for io commands
	pressDuration float64
	swipeDuration float64
	swipeDelta    int
)
