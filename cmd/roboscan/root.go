package roboscan

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/roboscan/roboscan/internal/logging"
	"github.com/roboscan/roboscan/internal/report"
	"github.com/spf13/cobra"
)

var (
	flagJSON     bool
	flagSARIF    bool
	flagThreads  int
	flagFailOn   string
	flagNoColor  bool
	flagNoCache  bool
	flagLogLevel string
	flagLogFile  string

	version = "0.1.0"
)

// exitCode is returned by commands that finish normally but must set a
// non-zero process status (failed policy, nothing to scan).
type exitCode int

func (e exitCode) Error() string { return fmt.Sprintf("exit status %d", int(e)) }

// rootCmd is the base Cobra command for the RoboScan CLI.
var rootCmd = &cobra.Command{
	Use:           "roboscan",
	Short:         "Static security analysis for Solidity contracts",
	Long:          "RoboScan strips comments from Solidity sources and runs line heuristics for missing access control, reentrancy and tx.origin phishing.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		ctx := logging.New(cmd.Context(), logging.Config{
			File:    flagLogFile,
			NoColor: colorDisabled(flagNoColor),
			Level:   logging.ParseLevel(flagLogLevel),
		})
		cmd.SetContext(ctx)
	},
}

// Execute runs the RoboScan CLI. It should be called by the main package.
func Execute() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report.ToolVersion = version
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	var code exitCode
	switch {
	case err == nil:
		return 0
	case errors.As(err, &code):
		return int(code)
	default:
		fmt.Fprintln(os.Stderr, "error:", err)
		return 2
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit JSON report on stdout")
	rootCmd.PersistentFlags().BoolVar(&flagSARIF, "sarif", false, "emit SARIF 2.1.0 on stdout")
	rootCmd.PersistentFlags().IntVar(&flagThreads, "threads", 0, "worker count (0 = GOMAXPROCS)")
	rootCmd.PersistentFlags().StringVar(&flagFailOn, "fail-on", "", "exit 1 when a finding is at or above: low|medium|high|critical")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "disable incremental scan cache")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "log level: debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "also write JSON logs to this file (rotated)")
}
