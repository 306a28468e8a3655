package roboscan

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/roboscan/roboscan/internal/engine"
	"github.com/roboscan/roboscan/internal/report"
	"github.com/roboscan/roboscan/internal/rules"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "test-rule <id>",
		Short: "Run one rule against Solidity source on stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id := args[0]
			if _, ok := rules.Lookup(id); !ok {
				return fmt.Errorf("unknown rule id: %s (available: %s)", id, strings.Join(rules.IDs(), ", "))
			}
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			fs := engine.ScanWith(id, string(data), "stdin")
			report.PrintTable(os.Stdout, fs, report.PrintOptions{NoColor: colorDisabled(flagNoColor)})
			return nil
		},
	}
	cmd.Long = "Available rules: " + strings.Join(rules.IDs(), ", ")
	rootCmd.AddCommand(cmd)
}
