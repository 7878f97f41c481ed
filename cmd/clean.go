package cmd

import (
	"github.com/spf13/cobra"

	"github.com/daedaleanai/mkninja/log"
	"github.com/daedaleanai/mkninja/util"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Args:  cobra.NoArgs,
	Short: "Removes all generated output files",
	Long:  `Removes the generated Ninja file, wrapper script and sidecar files.`,
	Run:   runClean,
}

func init() {
	cleanCmd.Flags().String("suffix", "", "Suffix appended to all output filenames")
	cleanCmd.Flags().StringP("dir", "C", "", "Directory the output files are written to")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) {
	cfg := makeGenerateConfig(cmd)
	files := []string{
		cfg.NinjaFilename(),
		cfg.ShellFilename(),
		cfg.EnvlistFilename(),
		cfg.LunchFilename(),
	}
	for _, file := range files {
		log.Debug("Removing '%s'", file)
		util.RemoveFile(file)
	}
}
