package cmd

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/daedaleanai/mkninja/log"
)

var buildCmd = &cobra.Command{
	Use:   "build <graph> [targets...]",
	Args:  cobra.MinimumNArgs(1),
	Short: "Generates the Ninja files and builds the targets",
	Long: `Generates the Ninja files from an evaluation dump and immediately runs
Ninja on the result. Additional arguments select the targets to build.`,
	Run: runBuildCmd,
}

func init() {
	addGenerateFlags(buildCmd)
	buildCmd.Flags().IntP("keep-going", "k", 1, "Keep going until this many jobs fail")
	rootCmd.AddCommand(buildCmd)
}

func runBuildCmd(cmd *cobra.Command, args []string) {
	cfg := generateFiles(cmd, args[0])

	ninjaArgs := []string{"-f", cfg.NinjaFilename()}
	if log.Verbose {
		ninjaArgs = append(ninjaArgs, "-v", "-d", "explain")
	}
	flags := cmd.Flags()
	if flags.Changed("jobs") {
		numJobs, _ := flags.GetInt("jobs")
		ninjaArgs = append(ninjaArgs, fmt.Sprintf("-j%d", numJobs))
	}
	if keepGoing, _ := flags.GetInt("keep-going"); keepGoing != 1 {
		ninjaArgs = append(ninjaArgs, fmt.Sprintf("-k%d", keepGoing))
	}
	ninjaArgs = append(ninjaArgs, args[1:]...)

	runNinja(os.Stdout, ninjaArgs)
}

func runNinja(stdout io.Writer, args []string) {
	log.Debug("Running ninja command: 'ninja %s'", strings.Join(args, " "))
	ninjaCmd := exec.Command("ninja", args...)
	ninjaCmd.Stderr = os.Stderr
	ninjaCmd.Stdout = stdout
	err := ninjaCmd.Start()
	if err != nil {
		log.Fatal("Starting ninja failed: %s", err)
	}

	// Capture and handle Ctrl-C manually. Note that all subprocesses get the
	// Ctrl-C automatically nevertheless, since they belong to the same process
	// group.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGINT)

	go func() {
		<-signals
		fmt.Println("SIGINT: Waiting for ninja to finish...")

		var lastSignalTime *time.Time
		for {
			<-signals

			currentTime := time.Now()
			if lastSignalTime == nil || currentTime.Sub(*lastSignalTime) > 1*time.Second {
				fmt.Println("SIGINT: Press Ctrl-C again within 1 sec to force-kill mkninja and ninja...")
				lastSignalTime = &currentTime
			} else {
				fmt.Println("SIGINT: Killing mkninja, ninja and its subprocesses...")
				// Pass negative PID to kill the whole mkninja process group.
				// This works only if this mkninja instance is the leader of
				// the process group. Otherwise it would be unsafe to kill the
				// whole group.
				if err := syscall.Kill(-syscall.Getpid(), syscall.SIGKILL); err != nil {
					fmt.Printf("Failed to kill mkninja and ninja: %s\n", err)
				}
			}
		}
	}()

	err = ninjaCmd.Wait()
	if err != nil {
		log.Fatal("Running ninja failed: %s", err)
	}
	signal.Stop(signals)
}
