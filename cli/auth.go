package cli

import (
	"fmt"

	"github.com/mobile-next/hidcli/commands"
	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Commands for managing the companion access token.`,
}

var authSetTokenCmd = &cobra.Command{
	Use:   "set-token [token]",
	Short: "Store a companion access token",
	Long:  `Stores the given token in the system keyring. It is sent as a bearer token when connecting to companions.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := commands.SetCompanionToken(args[0]); err != nil {
			return fmt.Errorf("failed to store token: %w", err)
		}

		fmt.Println("Token stored successfully.")
		return nil
	},
}

var authTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Display the stored companion access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := commands.CompanionToken()
		if err != nil {
			return fmt.Errorf("no token found for hidcli")
		}

		fmt.Println(token)
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored companion access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := commands.DeleteCompanionToken(); err != nil {
			fmt.Println("hidcli has no stored token")
			return nil
		}

		fmt.Println("Token removed successfully.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authSetTokenCmd, authTokenCmd, authLogoutCmd)
}
