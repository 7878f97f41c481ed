package cmd

import (
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/daedaleanai/mkninja/config"
	"github.com/daedaleanai/mkninja/dep"
	"github.com/daedaleanai/mkninja/log"
	"github.com/daedaleanai/mkninja/ninja"
)

var generateCmd = &cobra.Command{
	Use:   "generate <graph>",
	Args:  cobra.ExactArgs(1),
	Short: "Generates the Ninja files from an evaluation dump",
	Long: `Generates the Ninja build file, the wrapper script and the environment
snapshot from an evaluation dump produced by the Make evaluator.`,
	Run: runGenerate,
}

func init() {
	addGenerateFlags(generateCmd)
	rootCmd.AddCommand(generateCmd)
}

func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().String("suffix", "", "Suffix appended to all output filenames")
	cmd.Flags().StringP("dir", "C", "", "Directory the output files are written to")
	cmd.Flags().String("goma-dir", "", "Enables the distributed-build compiler wrapper from this directory")
	cmd.Flags().IntP("jobs", "j", 0, "Depth of the local pool when the compiler wrapper is enabled")
	cmd.Flags().Bool("detect-android-echo", false, "Lift leading echo commands into rule descriptions")
	cmd.Flags().Bool("regen", true, "Emit rules that regenerate the Ninja file when its inputs change")
	cmd.Flags().Bool("error-on-env-change", false, "Fail instead of regenerating when the environment changed")
	cmd.Flags().Bool("all", false, "Let Ninja build all targets instead of the first root")
}

func makeGenerateConfig(cmd *cobra.Command) ninja.Config {
	defaults := config.GetConfig()
	cfg := ninja.Config{
		NinjaSuffix:       defaults.NinjaSuffix,
		NinjaDir:          defaults.NinjaDir,
		GomaDir:           defaults.GomaDir,
		NumJobs:           defaults.NumJobs,
		DetectAndroidEcho: defaults.DetectAndroidEcho,
		GenRegenRule:      defaults.GenRegenRule,
		ErrorOnEnvChange:  defaults.ErrorOnEnvChange,
		OrigArgs:          strings.Join(os.Args, " "),
	}

	flags := cmd.Flags()
	if flags.Changed("suffix") {
		cfg.NinjaSuffix, _ = flags.GetString("suffix")
	}
	if flags.Changed("dir") {
		cfg.NinjaDir, _ = flags.GetString("dir")
	}
	if flags.Changed("goma-dir") {
		cfg.GomaDir, _ = flags.GetString("goma-dir")
	}
	if flags.Changed("jobs") {
		cfg.NumJobs, _ = flags.GetInt("jobs")
	}
	if flags.Changed("detect-android-echo") {
		cfg.DetectAndroidEcho, _ = flags.GetBool("detect-android-echo")
	}
	if flags.Changed("regen") {
		cfg.GenRegenRule, _ = flags.GetBool("regen")
	}
	if flags.Changed("error-on-env-change") {
		cfg.ErrorOnEnvChange, _ = flags.GetBool("error-on-env-change")
	}
	if flags.Changed("all") {
		cfg.BuildAll, _ = flags.GetBool("all")
	}
	return cfg
}

func runGenerate(cmd *cobra.Command, args []string) {
	generateFiles(cmd, args[0])
}

func generateFiles(cmd *cobra.Command, graphPath string) ninja.Config {
	cfg := makeGenerateConfig(cmd)

	log.Debug("Loading evaluation dump from '%s'", graphPath)
	graph, err := dep.LoadGraph(graphPath)
	if err != nil {
		log.Fatal("Failed to load the dependency graph: %s", err)
	}

	var spin *spinner.Spinner
	if !log.Verbose {
		spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		spin.Suffix = " Generating Ninja files..."
		spin.Start()
	}
	err = ninja.Generate(cfg, graph.Roots(), graph, graph)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		log.Fatal("Generation failed: %s", err)
	}

	log.Success("Wrote '%s' and '%s'", cfg.NinjaFilename(), cfg.ShellFilename())
	return cfg
}
