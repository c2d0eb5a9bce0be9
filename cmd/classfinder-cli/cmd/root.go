package cmd

import (
	"fmt"
	"os"

	"classfinder-backend/lib/scrapers/akademik"
	"classfinder-backend/lib/telemetry"

	"github.com/spf13/cobra"
)

var BaseUrl string
var Verbose bool

var rootCmd = &cobra.Command{
	Use:   "classfinder-cli",
	Short: "classfinder-cli finds the course sections an NRP is enrolled in.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(Verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&BaseUrl, "base-url", akademik.DefaultBaseURL,
		"Base url of the academic portal.",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&Verbose, "verbose", "v", false,
		"Enable verbose logging.",
	)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
