// Package cmd defines the mediasort command line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mediasort",
	Short: "Group media files into temporal sets",
	Long: `Mediasort scans a directory of media files, groups them into sets of
items taken close together in time, and serves a web API for reviewing,
naming and moving the sets into a dated output layout.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
