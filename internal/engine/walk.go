package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/roboscan/roboscan/internal/ignore"
	"github.com/roboscan/roboscan/internal/logging"
	"github.com/spf13/afero"
)

const ignoreFileName = ".roboscanignore"

// inlineIgnoreMarker anywhere in a file excludes it from scanning.
const inlineIgnoreMarker = "roboscan:ignore-file"

// Walk discovers source files under cfg.Root and invokes handle with each
// file's path relative to the root and its content. When Root is a single
// file it is handed over as-is, whatever its extension. Files that cannot be
// read are logged and skipped.
func Walk(ctx context.Context, cfg Config, ign ignore.Matcher, handle func(rel string, data []byte)) error {
	fs := cfg.fs()
	log := logging.Get(ctx)
	return walkPaths(ctx, cfg, ign, func(p, rel string) {
		b, err := afero.ReadFile(fs, p)
		if err != nil {
			log.Warn().Err(err).Str("path", p).Msg("error reading file, skipping")
			return
		}
		if strings.Contains(string(b), inlineIgnoreMarker) {
			log.Debug().Str("path", rel).Msg("inline ignore marker, skipping")
			return
		}
		if looksBinary(b) {
			log.Debug().Str("path", rel).Msg("binary content, skipping")
			return
		}
		handle(rel, b)
	})
}

// walkPaths applies every selection rule that does not need file content.
func walkPaths(ctx context.Context, cfg Config, ign ignore.Matcher, visit func(p, rel string)) error {
	fs := cfg.fs()
	info, err := fs.Stat(cfg.Root)
	if err != nil {
		return err
	}
	var only map[string]bool
	if cfg.OnlyPaths != nil {
		only = make(map[string]bool, len(cfg.OnlyPaths))
		for _, p := range cfg.OnlyPaths {
			only[p] = true
		}
	}
	if !info.IsDir() {
		// OnlyPaths are relative to the file's directory here.
		if rel := filepath.Base(cfg.Root); only == nil || only[rel] {
			visit(cfg.Root, rel)
		}
		return nil
	}
	exts := normalizeExtensions(cfg.Extensions)
	globs := newPathFilter(cfg.IncludeGlobs, cfg.ExcludeGlobs)
	return afero.Walk(fs, cfg.Root, func(p string, fi os.FileInfo, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			logging.Get(ctx).Warn().Err(err).Str("path", p).Msg("walk error, skipping")
			return nil
		}
		if fi.IsDir() {
			if p != cfg.Root && cfg.DefaultExcludes && isDefaultDirExcluded(fi.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, _ := filepath.Rel(cfg.Root, p)
		rel = filepath.ToSlash(rel)
		if only != nil && !only[rel] {
			return nil
		}
		if !hasExtension(strings.ToLower(rel), exts) {
			return nil
		}
		if !globs.allows(rel) {
			return nil
		}
		if ign.Match(rel) {
			return nil
		}
		if cfg.MaxBytes > 0 && fi.Size() > cfg.MaxBytes {
			logging.Get(ctx).Debug().Str("path", rel).Int64("size", fi.Size()).Msg("file over max bytes, skipping")
			return nil
		}
		visit(p, rel)
		return nil
	})
}

func looksBinary(b []byte) bool {
	const sniff = 800
	n := sniff
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if b[i] == 0 {
			return true
		}
	}
	return false
}

// CountTargets estimates the number of files to process based on cfg.
// It mirrors selection logic used by Walk but avoids reading content.
func CountTargets(cfg Config) (int, error) {
	ign := loadIgnore(cfg)
	n := 0
	err := walkPaths(context.Background(), cfg, ign, func(_, _ string) { n++ })
	return n, err
}

func loadIgnore(cfg Config) ignore.Matcher {
	ign, _ := ignore.Load(cfg.fs(), filepath.Join(cfg.scanDir(), ignoreFileName))
	return ign
}
