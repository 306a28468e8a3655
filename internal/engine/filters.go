package engine

import (
	"path"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
	"github.com/roboscan/roboscan/internal/types"
)

// Build outputs, dependency caches and tooling directories of Solidity
// projects (Hardhat, Foundry, Truffle) that rarely hold first-party sources.
var defaultExcludeDirs = map[string]bool{
	".git":            true,
	"node_modules":    true,
	"artifacts":       true,
	"cache":           true,
	"out":             true,
	"coverage":        true,
	"typechain":       true,
	"typechain-types": true,
	"broadcast":       true,
	"lib":             true,
	".venv":           true,
}

var defaultExtensions = []string{".sol"}

func isDefaultDirExcluded(name string) bool {
	return defaultExcludeDirs[name] || strings.HasPrefix(name, ".git")
}

// normalizeExtensions lowercases, dots and dedupes a comma-separated list.
func normalizeExtensions(list string) []string {
	if strings.TrimSpace(list) == "" {
		return defaultExtensions
	}
	seen := map[string]bool{}
	var out []string
	for _, e := range strings.Split(list, ",") {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		return defaultExtensions
	}
	return out
}

func hasExtension(lowerRel string, exts []string) bool {
	for _, e := range exts {
		if strings.HasSuffix(lowerRel, e) {
			return true
		}
	}
	return false
}

// pathFilter holds the include and exclude globs. Each pattern is tried
// against the slash path and the base name, and a leading "./" or "**/" is
// also tried stripped so "./**/*.sol" matches a top-level file.
type pathFilter struct {
	include, exclude []string
}

func newPathFilter(include, exclude string) pathFilter {
	return pathFilter{include: splitGlobs(include), exclude: splitGlobs(exclude)}
}

func splitGlobs(list string) []string {
	var out []string
	for _, g := range strings.Split(list, ",") {
		if g = strings.TrimSpace(g); g == "" {
			continue
		}
		out = append(out, g)
		bare := strings.TrimPrefix(g, "./")
		for strings.HasPrefix(bare, "**/") {
			bare = bare[len("**/"):]
		}
		if bare != g {
			out = append(out, bare)
		}
	}
	return out
}

func (f pathFilter) allows(rel string) bool {
	rel = strings.ReplaceAll(rel, "\\", "/")
	if len(f.include) > 0 && !globHit(f.include, rel) {
		return false
	}
	return !globHit(f.exclude, rel)
}

func globHit(globs []string, rel string) bool {
	base := path.Base(rel)
	for _, g := range globs {
		if doublestar.MatchUnvalidated(g, rel) || doublestar.MatchUnvalidated(g, base) {
			return true
		}
	}
	return false
}

// ruleFilter applies --enable and --disable to rule IDs.
type ruleFilter struct {
	enabled, disabled map[string]bool
}

func newRuleFilter(enable, disable string) ruleFilter {
	return ruleFilter{enabled: idSet(enable), disabled: idSet(disable)}
}

func idSet(list string) map[string]bool {
	var set map[string]bool
	for _, id := range strings.Split(list, ",") {
		if id = strings.TrimSpace(id); id == "" {
			continue
		}
		if set == nil {
			set = map[string]bool{}
		}
		set[id] = true
	}
	return set
}

func (r ruleFilter) keeps(rule string) bool {
	if r.enabled != nil && !r.enabled[rule] {
		return false
	}
	return !r.disabled[rule]
}

func (r ruleFilter) apply(findings []types.Finding) []types.Finding {
	if r.enabled == nil && r.disabled == nil {
		return findings
	}
	var out []types.Finding
	for _, f := range findings {
		if r.keeps(f.Rule) {
			out = append(out, f)
		}
	}
	return out
}
