package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/roboscan/roboscan/internal/types"
)

type PrintOptions struct {
	NoColor       bool
	Duration      time.Duration
	FilesScanned  int
	FilesCached   int
	TotalFiles    int
	TotalFindings int // before baseline filtering; 0 means same as shown
}

// Palette mirrors the HTML dashboard.
var severityStyles = map[types.Severity]lipgloss.Style{
	types.SevCritical: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#da3633")),
	types.SevHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("#d29922")),
	types.SevMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("#3fb950")),
	types.SevLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("#58a6ff")),
}

var (
	passStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3fb950"))
	failStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#da3633"))
)

// ColorSeverity renders a severity name in its palette color.
func ColorSeverity(s types.Severity, noColor bool) string {
	st, ok := severityStyles[s]
	if noColor || !ok {
		return string(s)
	}
	return st.Render(string(s))
}

// sortFindings orders by path, then line, then severity (most severe first).
func sortFindings(findings []types.Finding) []types.Finding {
	out := append([]types.Finding(nil), findings...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		return out[i].Severity.Rank() > out[j].Severity.Rank()
	})
	return out
}

// PrintTable renders findings as a bordered table followed by the summary footer.
func PrintTable(w io.Writer, findings []types.Finding, opts PrintOptions) {
	if len(findings) == 0 {
		fmt.Fprintln(w, "No issues found ✅")
	} else {
		table := tablewriter.NewWriter(w)
		table.Header("SEVERITY", "TITLE", "FILE", "LINE", "CODE")
		for _, f := range sortFindings(findings) {
			_ = table.Append([]string{
				ColorSeverity(f.Severity, opts.NoColor),
				f.Title,
				f.Path,
				strconv.Itoa(f.Line),
				truncate(f.Snippet, 60),
			})
		}
		_ = table.Render()
	}
	printFooter(w, findings, opts)
}

// PrintText renders findings as plain aligned columns.
func PrintText(w io.Writer, findings []types.Finding, opts PrintOptions) {
	if len(findings) == 0 {
		fmt.Fprintln(w, "No issues found ✅")
	} else {
		maxTitle := 8
		for _, f := range findings {
			if l := len(f.Title); l > maxTitle {
				maxTitle = l
			}
		}
		fmt.Fprintf(w, "Findings: %d\n", len(findings))
		for _, f := range sortFindings(findings) {
			sev := ColorSeverity(f.Severity, opts.NoColor)
			if opts.NoColor {
				sev = fmt.Sprintf("%-8s", sev)
			}
			fmt.Fprintf(w, "%s %-*s %s:%d  %s\n", sev, maxTitle, f.Title, f.Path, f.Line, f.Description)
		}
	}
	printFooter(w, findings, opts)
}

func printFooter(w io.Writer, findings []types.Finding, opts PrintOptions) {
	if opts.Duration <= 0 && opts.FilesScanned <= 0 {
		return
	}
	s := Summarize(findings)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Findings: %d (critical: %d, high: %d, medium: %d, low: %d)\n", s.Total, s.Critical, s.High, s.Medium, s.Low)
	if opts.TotalFindings > len(findings) {
		fmt.Fprintf(w, "Baselined: %d\n", opts.TotalFindings-len(findings))
	}
	if opts.Duration > 0 {
		fmt.Fprintf(w, "Scan duration: %.2fs\n", opts.Duration.Seconds())
	}
	if opts.FilesScanned > 0 {
		if opts.FilesCached > 0 {
			fmt.Fprintf(w, "Files scanned: %d (%d from cache)\n", opts.FilesScanned, opts.FilesCached)
		} else {
			fmt.Fprintf(w, "Files scanned: %d\n", opts.FilesScanned)
		}
	}
}

// PrintVerdict writes the pass/fail line for the critical gate.
func PrintVerdict(w io.Writer, findings []types.Finding, noColor bool) {
	n := CountCritical(findings)
	var msg string
	var st lipgloss.Style
	if n > 0 {
		msg, st = fmt.Sprintf("❌ FAILED: Found %d CRITICAL vulnerabilities.", n), failStyle
	} else {
		msg, st = "✅ PASSED: No critical issues found.", passStyle
	}
	if !noColor {
		msg = st.Render(msg)
	}
	fmt.Fprintln(w, msg)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
