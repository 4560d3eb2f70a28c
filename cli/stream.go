package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mobile-next/hidcli/commands"
	"github.com/spf13/cobra"
)

var ioStreamTouchCmd = &cobra.Command{
	Use:   "stream-touch",
	Short: "Stream touch events from stdin to a device",
	Long: `Reads line-delimited JSON touch events from stdin and forwards them to
the specified device until stdin closes or the stream is interrupted.

Each line is one object:

  {"type": "touch_start" | "touch_move" | "touch_end", "x": <number>, "y": <number>}

Malformed lines are logged and skipped; they do not end the stream.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// ctrl-c stops the stream cleanly
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		req := commands.StreamRequest{
			DeviceID: deviceId,
		}

		return respond(commands.StreamCommand(ctx, req, os.Stdin))
	},
}
