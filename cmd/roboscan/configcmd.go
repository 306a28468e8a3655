package roboscan

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/roboscan/roboscan/internal/config"
	"github.com/roboscan/roboscan/internal/files"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	cfgOutput          string
	cfgEnable          string
	cfgDisable         string
	cfgExtensions      string
	cfgFailOn          string
	cfgThreads         int
	cfgMaxBytes        int64
	cfgNoColor         bool
	cfgDefaultExcludes bool
	cfgAudit           bool
	cfgForce           bool
	cfgGitignore       bool
)

func init() {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	rootCmd.AddCommand(cfgCmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a .roboscan.yml with selected rules and options",
		RunE:  runConfigInit,
	}
	cfgCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&cfgOutput, "output", ".roboscan.yml", "output file path")
	initCmd.Flags().StringVar(&cfgEnable, "enable", "", "comma-separated rule IDs to report (default all)")
	initCmd.Flags().StringVar(&cfgDisable, "disable", "", "comma-separated rule IDs to suppress")
	initCmd.Flags().StringVar(&cfgExtensions, "ext", ".sol", "comma-separated source extensions")
	initCmd.Flags().StringVar(&cfgFailOn, "fail-on", "critical", "severity threshold that fails the scan")
	initCmd.Flags().IntVar(&cfgThreads, "threads", 0, "worker threads (0=GOMAXPROCS)")
	initCmd.Flags().Int64Var(&cfgMaxBytes, "max-bytes", defaultMaxBytes, "skip files larger than this")
	initCmd.Flags().BoolVar(&cfgNoColor, "no-color", false, "disable color output by default")
	initCmd.Flags().BoolVar(&cfgDefaultExcludes, "default-excludes", true, "skip dependency and build directories")
	initCmd.Flags().BoolVar(&cfgAudit, "audit", false, "record every scan in the audit log")
	initCmd.Flags().BoolVar(&cfgForce, "force", false, "overwrite an existing file")
	initCmd.Flags().BoolVar(&cfgGitignore, "gitignore", false, "add generated reports and state files to .gitignore")
}

func runConfigInit(_ *cobra.Command, _ []string) error {
	if err := validateRuleIDs(cfgEnable, cfgDisable); err != nil {
		return err
	}
	fs := afero.NewOsFs()
	if exists, _ := afero.Exists(fs, cfgOutput); exists && !cfgForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgOutput)
	}

	fc := config.FileConfig{
		Extensions:      nonEmpty(cfgExtensions),
		MaxBytes:        &cfgMaxBytes,
		Enable:          nonEmpty(cfgEnable),
		Disable:         nonEmpty(cfgDisable),
		NoColor:         &cfgNoColor,
		DefaultExcludes: &cfgDefaultExcludes,
		FailOn:          nonEmpty(cfgFailOn),
		HTMLReport:      nonEmpty(defaultHTMLReport),
		Audit:           &cfgAudit,
	}
	if cfgThreads > 0 {
		fc.Threads = &cfgThreads
	}
	if err := fc.Validate(); err != nil {
		return err
	}

	var buf strings.Builder
	buf.WriteString("# roboscan configuration. Command-line flags take precedence.\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&fc); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	if err := afero.WriteFile(fs, cfgOutput, []byte(buf.String()), 0o644); err != nil {
		return err
	}
	fmt.Println("Wrote", cfgOutput)

	if !cfgGitignore {
		return nil
	}
	added, err := files.AppendIgnore(fs, filepath.Dir(cfgOutput), files.GeneratedFiles()...)
	if err != nil {
		return fmt.Errorf("update .gitignore: %w", err)
	}
	if len(added) > 0 {
		fmt.Println("Added to .gitignore:", strings.Join(added, ", "))
	}
	return nil
}

// nonEmpty returns nil for blank values so they are omitted from the file.
func nonEmpty(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}
