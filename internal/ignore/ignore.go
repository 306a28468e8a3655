// Package ignore implements .roboscanignore matching with gitignore-like
// patterns: blank lines and # comments are skipped, a trailing slash matches
// a directory and everything below it, patterns without a slash match at any
// depth, and a leading ! re-includes a path.
package ignore

import (
	"bufio"
	"path"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

type rule struct {
	globs  []string
	negate bool
}

// Matcher reports whether a slash-separated relative path is ignored.
// The zero value ignores nothing.
type Matcher struct {
	rules []rule
}

// Load reads patterns from the file at p on fs. On error the returned
// Matcher is still usable and ignores nothing.
func Load(fs afero.Fs, p string) (Matcher, error) {
	f, err := fs.Open(p)
	if err != nil {
		return Matcher{}, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return New(lines...), sc.Err()
}

// New builds a Matcher from pattern lines.
func New(patterns ...string) Matcher {
	var m Matcher
	for _, raw := range patterns {
		p := strings.TrimSpace(raw)
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		var r rule
		if strings.HasPrefix(p, "!") {
			r.negate = true
			p = p[1:]
		}
		dir := strings.HasSuffix(p, "/")
		p = strings.Trim(p, "/")
		if p == "" {
			continue
		}
		anchored := strings.Contains(p, "/")
		var bases []string
		if anchored {
			bases = []string{p}
		} else {
			bases = []string{p, "**/" + p}
		}
		for _, b := range bases {
			if !dir {
				r.globs = append(r.globs, b)
			}
			r.globs = append(r.globs, b+"/**")
		}
		m.rules = append(m.rules, r)
	}
	return m
}

// Match reports whether rel is ignored. The last matching pattern wins.
func (m Matcher) Match(rel string) bool {
	rel = path.Clean(strings.TrimPrefix(strings.ReplaceAll(rel, "\\", "/"), "./"))
	ignored := false
	for _, r := range m.rules {
		for _, g := range r.globs {
			if ok, _ := doublestar.Match(g, rel); ok {
				ignored = !r.negate
				break
			}
		}
	}
	return ignored
}
