package cmd

import (
	"fmt"
	"os"

	"classfinder-backend/lib/browser"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(sessionCmd)
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Log into the portal interactively and print the session id.",
	Run: func(cmd *cobra.Command, args []string) {
		acquirer := browser.NewAcquirer(browser.Options{BaseURL: BaseUrl})
		defer acquirer.Release()

		sessionID, err := acquirer.Acquire(cmd.Context())
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}

		fmt.Println(sessionID)
	},
}
