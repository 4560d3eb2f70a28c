package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mobile-next/hidcli/commands"
	"github.com/spf13/cobra"
)

var ioCmd = &cobra.Command{
	Use:   "io",
	Short: "Input operations with devices",
	Long:  `Send input events like taps, swipes, button presses, key presses and text to devices.`,
}

// parseCoordinates parses an "x1,y1,..." argument into exactly want integers.
func parseCoordinates(arg string, want int) ([]int, error) {
	parts := strings.Split(arg, ",")
	if len(parts) != want {
		return nil, fmt.Errorf("invalid coordinate format. Expected %d comma-separated values, got '%s'", want, arg)
	}

	coords := make([]int, len(parts))
	for i, part := range parts {
		value, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid coordinate values. Expected integers, got '%s'", arg)
		}
		coords[i] = value
	}

	return coords, nil
}

// respond prints the response and converts an error status into a
// command error.
func respond(response *commands.CommandResponse) error {
	printJson(response)
	if response.Status == "error" {
		return fmt.Errorf("%s", response.Error)
	}
	return nil
}

var ioTapCmd = &cobra.Command{
	Use:   "tap [x,y]",
	Short: "Tap on a device screen at the given coordinates",
	Long:  `Sends a tap event to the specified device at the given x,y coordinates. Coordinates should be provided as a single string "x,y". With --duration, the contact is held before release.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		coords, err := parseCoordinates(args[0], 2)
		if err != nil {
			return respond(commands.NewErrorResponse(err))
		}

		req := commands.TapRequest{
			DeviceID: deviceId,
			X:        coords[0],
			Y:        coords[1],
			Duration: pressDuration,
		}

		return respond(commands.TapCommand(req))
	},
}

var ioSwipeCmd = &cobra.Command{
	Use:   "swipe [x1,y1,x2,y2]",
	Short: "Swipe on a device screen from one point to another",
	Long:  `Sends a swipe gesture to the specified device from coordinates x1,y1 to x2,y2. With --delta, intermediate touch points are generated every delta pixels; with --duration, the swipe takes that long overall.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		coords, err := parseCoordinates(args[0], 4)
		if err != nil {
			return respond(commands.NewErrorResponse(err))
		}

		req := commands.SwipeRequest{
			DeviceID: deviceId,
			X1:       coords[0],
			Y1:       coords[1],
			X2:       coords[2],
			Y2:       coords[3],
			Duration: swipeDuration,
			Delta:    swipeDelta,
		}

		return respond(commands.SwipeCommand(req))
	},
}

var ioButtonCmd = &cobra.Command{
	Use:   "button [button_name]",
	Short: "Press a hardware button on a device",
	Long:  `Sends a hardware button press event to the specified device (e.g., "HOME", "LOCK", "VOLUME_UP", "VOLUME_DOWN", "SIDE_BUTTON", "SIRI", "APPLE_PAY").`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := commands.ButtonRequest{
			DeviceID: deviceId,
			Button:   args[0],
			Duration: pressDuration,
		}

		return respond(commands.ButtonCommand(req))
	},
}

var ioKeyCmd = &cobra.Command{
	Use:   "key [keycode]",
	Short: "Press a key by keycode on a device",
	Long:  `Sends a single key press event to the specified device. The keycode is a keyboard scancode, e.g. 40 for return.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		keycode, err := strconv.Atoi(strings.TrimSpace(args[0]))
		if err != nil {
			return respond(commands.NewErrorResponse(fmt.Errorf("invalid keycode '%s': must be an integer", args[0])))
		}

		req := commands.KeyRequest{
			DeviceID: deviceId,
			Keycode:  keycode,
			Duration: pressDuration,
		}

		return respond(commands.KeyCommand(req))
	},
}

var ioKeySequenceCmd = &cobra.Command{
	Use:   "key-sequence [keycode...]",
	Short: "Press a sequence of keys on a device",
	Long:  `Sends a down/up key press pair per keycode, in order, e.g. "hidcli io key-sequence 4 5 6".`,
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		keycodes, err := commands.ParseKeycodes(args)
		if err != nil {
			return respond(commands.NewErrorResponse(err))
		}

		req := commands.KeySequenceRequest{
			DeviceID: deviceId,
			Keycodes: keycodes,
		}

		return respond(commands.KeySequenceCommand(req))
	},
}

var ioTextCmd = &cobra.Command{
	Use:   "text [text]",
	Short: "Send text input to a device",
	Long:  `Types the given text on the specified device, one key press pair per character.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := commands.TextRequest{
			DeviceID: deviceId,
			Text:     args[0],
		}

		return respond(commands.TextCommand(req))
	},
}

func init() {
	rootCmd.AddCommand(ioCmd)

	// add io subcommands
	ioCmd.AddCommand(ioTapCmd)
	ioCmd.AddCommand(ioSwipeCmd)
	ioCmd.AddCommand(ioButtonCmd)
	ioCmd.AddCommand(ioKeyCmd)
	ioCmd.AddCommand(ioKeySequenceCmd)
	ioCmd.AddCommand(ioTextCmd)
	ioCmd.AddCommand(ioStreamTouchCmd)

	// io command flags
	for _, cmd := range []*cobra.Command{ioTapCmd, ioSwipeCmd, ioButtonCmd, ioKeyCmd, ioKeySequenceCmd, ioTextCmd, ioStreamTouchCmd} {
		cmd.Flags().StringVar(&deviceId, "device", "", "ID of the device to send input to")
	}

	ioTapCmd.Flags().Float64Var(&pressDuration, "duration", 0, "press duration in seconds")
	ioButtonCmd.Flags().Float64Var(&pressDuration, "duration", 0, "press duration in seconds")
	ioKeyCmd.Flags().Float64Var(&pressDuration, "duration", 0, "press duration in seconds")

	ioSwipeCmd.Flags().Float64Var(&swipeDuration, "duration", 0, "swipe duration in seconds")
	ioSwipeCmd.Flags().IntVar(&swipeDelta, "delta", 0, "pixels between interpolated touch points along the swipe")
}
