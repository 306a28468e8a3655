package roboscan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/roboscan/roboscan/internal/engine"
	"github.com/roboscan/roboscan/internal/report"
	"github.com/roboscan/roboscan/internal/types"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Manage baselines",
	}

	var out string
	update := &cobra.Command{
		Use:   "update [target]",
		Short: "Accept all current findings into the baseline",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "."
			if len(args) > 0 {
				target = args[0]
			}
			abs, err := filepath.Abs(target)
			if err != nil {
				return err
			}
			fs := afero.NewOsFs()
			lcfg, gcfg, err := loadConfigs(fs, configDir(abs))
			if err != nil {
				return err
			}
			results, err := engine.Scan(cmd.Context(), engineConfig(cmd, abs, lcfg, gcfg))
			if errors.Is(err, engine.ErrNoTargets) {
				results = []types.Finding{}
			} else if err != nil {
				return err
			}
			if err := report.SaveBaseline(fs, out, results); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Baseline updated: %d findings accepted in %s.\n", len(results), out)
			return nil
		},
	}
	update.Flags().StringVarP(&out, "output", "o", defaultBaselineFile, "baseline file to write")

	rootCmd.AddCommand(cmd)
	cmd.AddCommand(update)
}
