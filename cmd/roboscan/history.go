package roboscan

import (
	"encoding/json"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/roboscan/roboscan/internal/audit"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func init() {
	var limit int
	var del int
	cmd := &cobra.Command{
		Use:   "history [target]",
		Short: "Show recorded scans from the audit log (newest first)",
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
			log := audit.NewAuditLog(afero.NewOsFs(), configDir(abs))
			if del >= 0 {
				if err := log.DeleteRecord(del); err != nil {
					return err
				}
				fmt.Fprintf(os.Stdout, "Deleted record %d.\n", del)
				return nil
			}
			records, err := log.LoadHistory()
			if err != nil {
				if errors.Is(err, iofs.ErrNotExist) {
					fmt.Fprintln(os.Stdout, "No scans recorded yet. Run 'roboscan scan --audit' to start one.")
					return nil
				}
				return err
			}
			if limit > 0 && len(records) > limit {
				records = records[:limit]
			}
			if flagJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			}
			return printHistory(records)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "show at most this many records (0 = all)")
	cmd.Flags().IntVar(&del, "delete", -1, "delete the record at this index (0 = newest)")
	rootCmd.AddCommand(cmd)
}

func printHistory(records []audit.ScanRecord) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("#", "WHEN", "COMMIT", "FILES", "FINDINGS", "NEW", "CRITICAL", "RESULT")
	for i, r := range records {
		result := "PASSED"
		if !r.Passed {
			result = "FAILED"
		}
		row := []string{
			strconv.Itoa(i),
			r.Timestamp.Local().Format("2006-01-02 15:04:05"),
			shortCommit(r.Git.Commit),
			strconv.Itoa(r.FilesScanned),
			strconv.Itoa(r.Total),
			strconv.Itoa(r.New),
			strconv.Itoa(r.Summary.Critical),
			result,
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func shortCommit(c string) string {
	if len(c) > 8 {
		return c[:8]
	}
	if c == "" {
		return "-"
	}
	return c
}
