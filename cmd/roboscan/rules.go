package roboscan

import (
	"encoding/json"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/roboscan/roboscan/internal/report"
	"github.com/roboscan/roboscan/internal/rules"
	"github.com/spf13/cobra"
)

type ruleJSON struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Severity string `json:"severity"`
	Help     string `json:"help"`
}

func init() {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List built-in rules in execution order",
		RunE: func(_ *cobra.Command, _ []string) error {
			infos := rules.Describe()
			if flagJSON {
				out := make([]ruleJSON, len(infos))
				for i, in := range infos {
					out[i] = ruleJSON{ID: in.ID, Title: in.Title, Severity: string(in.Severity), Help: in.Help}
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			table := tablewriter.NewWriter(os.Stdout)
			table.Header("ID", "SEVERITY", "TITLE")
			noColor := colorDisabled(flagNoColor)
			for _, in := range infos {
				if err := table.Append([]string{in.ID, report.ColorSeverity(in.Severity, noColor), in.Title}); err != nil {
					return err
				}
			}
			return table.Render()
		},
	}
	rootCmd.AddCommand(cmd)
}
