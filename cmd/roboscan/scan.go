package roboscan

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/roboscan/roboscan/internal/audit"
	"github.com/roboscan/roboscan/internal/cache"
	"github.com/roboscan/roboscan/internal/config"
	"github.com/roboscan/roboscan/internal/engine"
	"github.com/roboscan/roboscan/internal/git"
	"github.com/roboscan/roboscan/internal/logging"
	"github.com/roboscan/roboscan/internal/report"
	"github.com/roboscan/roboscan/internal/types"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

const (
	defaultHTMLReport   = "audit_report.html"
	defaultBaselineFile = "roboscan.baseline.json"
	defaultMaxBytes     = 1 << 20
)

var (
	flagPath            string
	flagInclude         string
	flagExclude         string
	flagExt             string
	flagMaxBytes        int64
	flagEnable          string
	flagDisable         string
	flagFailOnCritical  bool
	flagHTML            string
	flagNoHTML          bool
	flagJSONOut         string
	flagText            bool
	flagBaseline        string
	flagAudit           bool
	flagDefaultExcludes bool
	flagDryRun          bool
	flagChanged         bool
	flagUploadURL       string
	flagUploadToken     string
	flagNoUploadMeta    bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan [target]",
		Short: "Scan a Solidity file or directory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScan,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVarP(&flagPath, "path", "p", ".", "file or directory to scan (overridden by the positional target)")
	cmd.Flags().StringVar(&flagInclude, "include", "", "comma-separated include globs")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs")
	cmd.Flags().StringVar(&flagExt, "ext", "", "comma-separated source extensions (default .sol)")
	cmd.Flags().Int64Var(&flagMaxBytes, "max-bytes", 0, "skip files larger than this (default 1 MiB)")
	cmd.Flags().StringVar(&flagEnable, "enable", "", "only report these rules (comma-separated IDs)")
	cmd.Flags().StringVar(&flagDisable, "disable", "", "do not report these rules (comma-separated IDs)")
	cmd.Flags().BoolVar(&flagFailOnCritical, "fail-on-critical", false, "exit 1 if CRITICAL issues are found (for CI/CD)")
	cmd.Flags().StringVar(&flagHTML, "html", defaultHTMLReport, "write the HTML dashboard to this file")
	cmd.Flags().BoolVar(&flagNoHTML, "no-html", false, "do not write the HTML dashboard")
	cmd.Flags().StringVar(&flagJSONOut, "json-out", "", "also write the JSON report to this file (e.g. audit_report.json)")
	cmd.Flags().BoolVar(&flagText, "text", false, "output in plain text columnar format")
	cmd.Flags().StringVar(&flagBaseline, "baseline", defaultBaselineFile, "hide findings recorded in this baseline file (empty to disable)")
	cmd.Flags().BoolVar(&flagAudit, "audit", false, "append a record of this scan to the audit log")
	cmd.Flags().BoolVar(&flagDefaultExcludes, "default-excludes", true, "skip dependency and build directories (node_modules, lib, out, artifacts, ...)")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "list how many files would be scanned without analyzing them")
	cmd.Flags().BoolVar(&flagChanged, "changed", false, "only scan files added, modified or untracked in the git working tree")
	cmd.Flags().StringVar(&flagUploadURL, "upload", "", "POST findings (JSON) to this URL after scan")
	cmd.Flags().StringVar(&flagUploadToken, "upload-token", "", "Bearer token for upload auth")
	cmd.Flags().BoolVar(&flagNoUploadMeta, "no-upload-metadata", false, "do not include repo/commit/branch in upload envelope")
}

// configDir is where repo-local config and state files live for target.
func configDir(abs string) string {
	if st, err := os.Stat(abs); err == nil && !st.IsDir() {
		return filepath.Dir(abs)
	}
	return abs
}

// loadConfigs returns the project and global configs. A missing file is an
// empty config; a broken one is an error.
func loadConfigs(fs afero.Fs, dir string) (local, global config.FileConfig, err error) {
	if global, err = config.LoadGlobal(fs); err != nil && !errors.Is(err, config.ErrNotFound) {
		return local, global, err
	}
	if local, err = config.LoadLocal(fs, dir); err != nil && !errors.Is(err, config.ErrNotFound) {
		return local, global, err
	}
	return local, global, nil
}

// engineConfig resolves file selection and rule filters with flag > project
// config > global config precedence. Commands that do not register a scan
// flag see its default.
func engineConfig(cmd *cobra.Command, abs string, lcfg, gcfg config.FileConfig) engine.Config {
	maxBytes := pick(flagMaxBytes, lcfg.MaxBytes, gcfg.MaxBytes)
	if maxBytes == 0 {
		maxBytes = defaultMaxBytes
	}
	return engine.Config{
		Root:            abs,
		IncludeGlobs:    pick(flagInclude, lcfg.Include, gcfg.Include),
		ExcludeGlobs:    pick(flagExclude, lcfg.Exclude, gcfg.Exclude),
		Extensions:      pick(flagExt, lcfg.Extensions, gcfg.Extensions),
		MaxBytes:        maxBytes,
		Threads:         pick(flagThreads, lcfg.Threads, gcfg.Threads),
		EnableRules:     pick(flagEnable, lcfg.Enable, gcfg.Enable),
		DisableRules:    pick(flagDisable, lcfg.Disable, gcfg.Disable),
		DefaultExcludes: pickBoolFlag(flagDefaultExcludes, cmd.Flags().Changed("default-excludes"), lcfg.DefaultExcludes, gcfg.DefaultExcludes),
		NoCache:         flagNoCache,
	}
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logging.Get(ctx)

	target := flagPath
	if len(args) > 0 {
		target = args[0]
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err != nil {
		log.Debug().Err(err).Msg("target not accessible")
		fmt.Fprintln(os.Stderr, "❌ No .sol files found!")
		return exitCode(1)
	}
	dir := configDir(abs)
	osfs := afero.NewOsFs()
	lcfg, gcfg, err := loadConfigs(osfs, dir)
	if err != nil {
		return err
	}

	failOn := pick(flagFailOn, lcfg.FailOn, gcfg.FailOn)
	if failOn != "" {
		if _, ok := types.ParseSeverity(failOn); !ok {
			return fmt.Errorf("invalid --fail-on %q: want low|medium|high|critical", failOn)
		}
	}
	noColor := colorDisabled(pickBool(flagNoColor, lcfg.NoColor, gcfg.NoColor))

	cfg := engineConfig(cmd, abs, lcfg, gcfg)
	cfg.DryRun = flagDryRun
	if err := validateRuleIDs(cfg.EnableRules, cfg.DisableRules); err != nil {
		return err
	}
	if flagChanged {
		changed, err := git.ChangedFiles(abs)
		if err != nil {
			return fmt.Errorf("--changed: %w", err)
		}
		if changed == nil {
			changed = []string{}
		}
		cfg.OnlyPaths = changed
	}

	machine := flagJSON || flagSARIF
	total, _ := engine.CountTargets(cfg)
	if !machine && total > 0 {
		fmt.Fprintf(os.Stderr, "🚀 Starting RoboScan on %d files...\n", total)
	}
	progressed := 0
	if total > 0 && !machine && stderrIsTerminal() {
		cfg.Progress = func() {
			progressed++
			if progressed%10 == 0 || progressed == total {
				pct := float64(progressed) / float64(total) * 100
				_, _ = fmt.Fprintf(os.Stderr, "\r[%d/%d] %.0f%%", progressed, total, pct)
			}
		}
	}

	res, err := engine.ScanWithStats(ctx, cfg)
	if cfg.Progress != nil && progressed > 0 {
		_, _ = fmt.Fprintln(os.Stderr)
	}
	if errors.Is(err, engine.ErrNoTargets) {
		if flagChanged {
			fmt.Fprintln(os.Stderr, "No changed source files.")
			return nil
		}
		fmt.Fprintln(os.Stderr, "❌ No .sol files found!")
		return exitCode(1)
	}
	if err != nil {
		return fmt.Errorf("scan error: %w", err)
	}
	if flagDryRun {
		fmt.Fprintf(os.Stdout, "Would scan %d files.\n", res.FilesScanned)
		return nil
	}

	newFindings := res.Findings
	baselineFile := ""
	if flagBaseline != "" {
		if base, err := report.LoadBaseline(osfs, flagBaseline); err == nil {
			newFindings = report.FilterNewFindings(res.Findings, base)
			baselineFile = flagBaseline
		}
	}
	if newFindings == nil {
		newFindings = []types.Finding{}
	} // no `null` in JSON

	now := time.Now()
	opts := report.PrintOptions{NoColor: noColor, Duration: res.Duration, FilesScanned: res.FilesScanned, FilesCached: res.FilesCached, TotalFiles: total, TotalFindings: len(res.Findings)}
	switch {
	case flagSARIF:
		if err := report.WriteSARIF(os.Stdout, newFindings); err != nil {
			return fmt.Errorf("sarif error: %w", err)
		}
	case flagJSON:
		if err := report.WriteJSON(os.Stdout, target, newFindings, now); err != nil {
			return err
		}
	case flagText:
		report.PrintText(os.Stdout, newFindings, opts)
	default:
		report.PrintTable(os.Stdout, newFindings, opts)
	}

	htmlPath := flagHTML
	if !cmd.Flags().Changed("html") {
		if p := pick[string]("", lcfg.HTMLReport, gcfg.HTMLReport); p != "" {
			htmlPath = p
		}
	}
	if !flagNoHTML && htmlPath != "" {
		if err := writeReportFile(htmlPath, func(w io.Writer) error { return report.WriteHTML(w, target, newFindings, now) }); err != nil {
			return fmt.Errorf("html report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "📄 HTML Report: %s\n", absOr(htmlPath))
	}
	if jsonPath := pick(flagJSONOut, lcfg.JSONReport, gcfg.JSONReport); jsonPath != "" {
		if err := writeReportFile(jsonPath, func(w io.Writer) error { return report.WriteJSON(w, target, newFindings, now) }); err != nil {
			return fmt.Errorf("json report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "📊 JSON Report: %s\n", absOr(jsonPath))
	}

	if err := cache.SaveResults(osfs, dir, newFindings); err != nil {
		log.Debug().Err(err).Msg("last scan results not saved")
	}

	// Optional upload step: do not fail the scan on upload errors
	if flagUploadURL != "" {
		if err := uploadFindings(ctx, abs, flagUploadURL, flagUploadToken, flagNoUploadMeta, newFindings); err != nil {
			log.Warn().Err(err).Str("url", flagUploadURL).Msg("upload failed")
		}
	}

	if cmd.Flags().Changed("enable") || cmd.Flags().Changed("disable") {
		_, _ = fmt.Fprintf(os.Stderr, "rules active: %s\n", activeSetSummary(cfg))
	}

	fail := (flagFailOnCritical && report.CountCritical(newFindings) > 0) ||
		(failOn != "" && report.ShouldFail(newFindings, failOn))

	if pickBool(flagAudit, lcfg.Audit, gcfg.Audit) {
		rec := audit.CreateScanRecord(abs, res.Findings, newFindings, res.FilesScanned, res.Duration, baselineFile, !fail)
		if err := audit.NewAuditLog(osfs, dir).LogScan(rec); err != nil {
			log.Warn().Err(err).Msg("audit record not written")
		}
	}

	fmt.Fprintln(os.Stderr)
	report.PrintVerdict(os.Stderr, newFindings, noColor)
	if fail {
		return exitCode(1)
	}
	return nil
}

func writeReportFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func absOr(p string) string {
	if a, err := filepath.Abs(p); err == nil {
		return a
	}
	return p
}

func validateRuleIDs(lists ...string) error {
	known := map[string]bool{}
	for _, id := range engine.RuleIDs() {
		known[id] = true
	}
	for _, list := range lists {
		for _, id := range strings.Split(list, ",") {
			id = strings.TrimSpace(id)
			if id != "" && !known[id] {
				return fmt.Errorf("unknown rule id %q (available: %s)", id, strings.Join(engine.RuleIDs(), ", "))
			}
		}
	}
	return nil
}

func activeSetSummary(cfg engine.Config) string {
	ids := engine.RuleIDs()
	if cfg.EnableRules != "" {
		ids = nil
		for _, id := range strings.Split(cfg.EnableRules, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	if cfg.DisableRules != "" && cfg.EnableRules == "" {
		disabled := map[string]bool{}
		for _, d := range strings.Split(cfg.DisableRules, ",") {
			disabled[strings.TrimSpace(d)] = true
		}
		var kept []string
		for _, id := range ids {
			if !disabled[id] {
				kept = append(kept, id)
			}
		}
		ids = kept
	}
	return strings.Join(ids, ",")
}
