// Package cmd is for command line interactions with the optitrim application
package cmd

import (
	"log"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "optitrim",
	Short: `Tune denoising truncation lengths against a demultiplexed sequencing run.
Searches candidate forward/reverse truncation lengths and scores each by read survival`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}
