package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/daedaleanai/mkninja/log"
)

var rootCmd = &cobra.Command{
	Use:   "mkninja",
	Short: "A Makefile-to-Ninja translator",
	Long: `mkninja turns an evaluated Make dependency graph into a Ninja build file,
a shell wrapper that invokes Ninja with the right environment, and an
environment snapshot that re-triggers generation when any consumed
environment variable changes.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.PersistentFlags().BoolVarP(&log.Verbose, "verbose", "v", false, "Print debug output")
	cobra.OnInitialize(log.Setup)
	if rootCmd.Execute() != nil {
		os.Exit(1)
	}
}
