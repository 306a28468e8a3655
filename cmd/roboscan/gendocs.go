package roboscan

import (
	"fmt"
	"strings"

	"github.com/roboscan/roboscan/internal/rules"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

const (
	rulesBegin = "<!-- BEGIN:RULES -->"
	rulesEnd   = "<!-- END:RULES -->"
)

// gendocs regenerates the rules table in README.md between the BEGIN:RULES
// and END:RULES markers.
func init() {
	var path string
	cmd := &cobra.Command{
		Use:    "gendocs",
		Short:  "Regenerate the README rules table",
		Hidden: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			fs := afero.NewOsFs()
			b, err := afero.ReadFile(fs, path)
			if err != nil {
				return err
			}
			out, err := replaceRulesSection(b)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			return afero.WriteFile(fs, path, out, 0o644)
		},
	}
	cmd.Flags().StringVar(&path, "file", "README.md", "markdown file to update")
	rootCmd.AddCommand(cmd)
}

func rulesMarkdown() string {
	var out strings.Builder
	out.WriteString("\n| ID | Severity | Title | What it flags |\n")
	out.WriteString("|----|----------|-------|---------------|\n")
	for _, in := range rules.Describe() {
		fmt.Fprintf(&out, "| `%s` | %s | %s | %s |\n", in.ID, in.Severity, in.Title, in.Help)
	}
	return out.String()
}

// replaceRulesSection swaps whatever sits between the markers for a freshly
// rendered rules table.
func replaceRulesSection(b []byte) ([]byte, error) {
	head, rest, ok := strings.Cut(string(b), rulesBegin)
	if !ok {
		return nil, fmt.Errorf("missing %s", rulesBegin)
	}
	_, tail, ok := strings.Cut(rest, rulesEnd)
	if !ok {
		return nil, fmt.Errorf("missing %s after %s", rulesEnd, rulesBegin)
	}
	return []byte(head + rulesBegin + "\n" + rulesMarkdown() + rulesEnd + tail), nil
}
