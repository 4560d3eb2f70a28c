package cli

import (
	"github.com/mobile-next/hidcli/commands"
	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List configured devices",
	Long:  `List the companion devices configured in the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return respond(commands.DevicesCommand())
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
