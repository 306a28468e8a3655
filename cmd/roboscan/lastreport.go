package roboscan

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/roboscan/roboscan/internal/cache"
	"github.com/roboscan/roboscan/internal/report"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func init() {
	var htmlOut string
	cmd := &cobra.Command{
		Use:   "report [target]",
		Short: "Re-render the last scan's findings without scanning again",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			target := "."
			if len(args) > 0 {
				target = args[0]
			}
			abs, err := filepath.Abs(target)
			if err != nil {
				return err
			}
			res, err := cache.LoadResults(afero.NewOsFs(), configDir(abs))
			if err != nil {
				return fmt.Errorf("no previous scan results for %s: %w", target, err)
			}
			switch {
			case flagSARIF:
				if err := report.WriteSARIF(os.Stdout, res.Findings); err != nil {
					return err
				}
			case flagJSON:
				if err := report.WriteJSON(os.Stdout, target, res.Findings, res.Timestamp); err != nil {
					return err
				}
			default:
				fmt.Fprintf(os.Stderr, "Last scan: %s\n", res.Timestamp.Local().Format("2006-01-02 15:04:05"))
				report.PrintTable(os.Stdout, res.Findings, report.PrintOptions{NoColor: colorDisabled(flagNoColor)})
			}
			if htmlOut != "" {
				return writeReportFile(htmlOut, func(w io.Writer) error {
					return report.WriteHTML(w, target, res.Findings, res.Timestamp)
				})
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&htmlOut, "html", "", "also write the HTML dashboard to this file")
	rootCmd.AddCommand(cmd)
}
