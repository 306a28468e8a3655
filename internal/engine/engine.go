package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/roboscan/roboscan/internal/cache"
	"github.com/roboscan/roboscan/internal/logging"
	"github.com/roboscan/roboscan/internal/preprocess"
	"github.com/roboscan/roboscan/internal/rules"
	"github.com/roboscan/roboscan/internal/types"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// ErrNoTargets is returned when discovery finds no source files to scan.
var ErrNoTargets = errors.New("no source files found")

// Config controls scanning behavior including scope, performance, and filters.
type Config struct {
	// Root is a directory to walk or a single file to scan.
	Root string
	// Fs is the filesystem to read from. Nil means the OS filesystem.
	Fs              afero.Fs
	IncludeGlobs    string
	ExcludeGlobs    string
	Extensions      string // comma-separated, default ".sol"
	MaxBytes        int64
	Threads         int
	EnableRules     string
	DisableRules    string
	DefaultExcludes bool
	NoCache         bool
	DryRun          bool
	// OnlyPaths, when non-nil, restricts a directory scan to these
	// root-relative slash paths (e.g. files changed in the working tree).
	OnlyPaths []string
	Progress  func()
}

func (c Config) fs() afero.Fs {
	if c.Fs == nil {
		return afero.NewOsFs()
	}
	return c.Fs
}

// scanDir is the directory holding ignore and cache files.
func (c Config) scanDir() string {
	if st, err := c.fs().Stat(c.Root); err == nil && !st.IsDir() {
		return filepath.Dir(c.Root)
	}
	return c.Root
}

// Result contains findings and basic scan statistics.
type Result struct {
	Findings     []types.Finding
	FilesScanned int
	FilesCached  int
	Duration     time.Duration
}

// ScanSource strips comments from raw and runs every built-in rule over the
// cleaned lines. Findings come back in rule order, then line order, with
// Snippet holding the trimmed original line.
func ScanSource(raw, path string) []types.Finding {
	return withSnippets(raw, rules.RunAll(preprocess.Lines(preprocess.Strip(raw)), path))
}

// ScanWith runs the single rule id over raw. An unknown id yields nil.
func ScanWith(id, raw, path string) []types.Finding {
	return withSnippets(raw, rules.RunFunction(id, preprocess.Lines(preprocess.Strip(raw)), path))
}

// withSnippets fills Snippet from the original, uncleaned line.
func withSnippets(raw string, findings []types.Finding) []types.Finding {
	if len(findings) == 0 {
		return findings
	}
	orig := preprocess.Lines(raw)
	for i := range findings {
		if l := findings[i].Line; l >= 1 && l <= len(orig) {
			findings[i].Snippet = strings.TrimSpace(orig[l-1])
		}
	}
	return findings
}

// RuleIDs returns the built-in rule IDs in execution order.
func RuleIDs() []string {
	return rules.IDs()
}

// Scan runs a scan and returns only findings (without stats).
func Scan(ctx context.Context, cfg Config) ([]types.Finding, error) {
	res, err := ScanWithStats(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return res.Findings, nil
}

type target struct {
	rel  string
	data []byte
}

type fileResult struct {
	findings []types.Finding
	hash     string
	cached   bool
}

// ScanWithStats discovers files under cfg.Root, scans them concurrently and
// returns the merged findings in discovery order along with timing and counts.
func ScanWithStats(ctx context.Context, cfg Config) (Result, error) {
	var result Result
	started := time.Now()
	log := logging.Get(ctx)

	if cfg.Threads <= 0 {
		cfg.Threads = runtime.GOMAXPROCS(0)
	}
	fs := cfg.fs()
	dir := cfg.scanDir()

	var targets []target
	err := Walk(ctx, cfg, loadIgnore(cfg), func(rel string, data []byte) {
		targets = append(targets, target{rel: rel, data: data})
	})
	if err != nil {
		return result, fmt.Errorf("discover %s: %w", cfg.Root, err)
	}
	if len(targets) == 0 {
		return result, fmt.Errorf("%s: %w", cfg.Root, ErrNoTargets)
	}
	log.Info().Int("files", len(targets)).Str("root", cfg.Root).Msg("starting scan")

	if cfg.DryRun {
		result.FilesScanned = len(targets)
		result.Duration = time.Since(started)
		return result, nil
	}

	var db cache.DB
	if !cfg.NoCache {
		db, _ = cache.Load(fs, dir)
	}

	results := make([]fileResult, len(targets))
	var progressMu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Threads)
	for i, t := range targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			h := contentHash(t.data)
			if prev, ok := db.Lookup(t.rel, h); ok {
				results[i] = fileResult{findings: prev, hash: h, cached: true}
			} else {
				results[i] = fileResult{findings: ScanSource(string(t.data), t.rel), hash: h}
			}
			if cfg.Progress != nil {
				progressMu.Lock()
				cfg.Progress()
				progressMu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}

	var out []types.Finding
	updated := map[string]cache.Entry{}
	for i, r := range results {
		out = append(out, r.findings...)
		result.FilesScanned++
		if r.cached {
			result.FilesCached++
		}
		updated[targets[i].rel] = cache.Entry{Hash: r.hash, Findings: r.findings}
	}

	if !cfg.NoCache {
		if db.Entries == nil {
			db.Entries = map[string]cache.Entry{}
		}
		for k, v := range updated {
			db.Entries[k] = v
		}
		if err := cache.Save(fs, dir, db); err != nil {
			log.Debug().Err(err).Msg("cache not saved")
		}
	}

	result.Findings = newRuleFilter(cfg.EnableRules, cfg.DisableRules).apply(out)
	result.Duration = time.Since(started)
	log.Info().
		Int("files", result.FilesScanned).
		Int("cached", result.FilesCached).
		Int("findings", len(result.Findings)).
		Dur("duration", result.Duration).
		Msg("scan complete")
	return result, nil
}

// contentHash is the cache key for a file body.
func contentHash(b []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(b))
}
