// Package files edits repository housekeeping files.
package files

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// AppendIgnore ensures each pattern is present in .gitignore at repoRoot.
// The file is created if missing. It returns the patterns that were added.
func AppendIgnore(fs afero.Fs, repoRoot string, patterns ...string) ([]string, error) {
	path := filepath.Join(repoRoot, ".gitignore")
	existing := map[string]bool{}
	data, err := afero.ReadFile(fs, path)
	if err == nil {
		sc := bufio.NewScanner(bytes.NewReader(data))
		for sc.Scan() {
			existing[strings.TrimSpace(sc.Text())] = true
		}
	}

	var buf strings.Builder
	if len(data) > 0 && data[len(data)-1] != '\n' {
		buf.WriteByte('\n')
	}
	var added []string
	for _, p := range patterns {
		if p == "" || existing[p] {
			continue
		}
		existing[p] = true
		added = append(added, p)
		buf.WriteString(p + "\n")
	}
	if len(added) == 0 {
		return nil, nil
	}

	f, err := fs.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if _, err := f.WriteString(buf.String()); err != nil {
		return nil, err
	}
	return added, nil
}

// GeneratedFiles lists the reports and state files a scan may leave in a
// repository.
func GeneratedFiles() []string {
	return []string{
		"audit_report.html",
		"audit_report.json",
		".roboscancache.json",
		".roboscan_last_scan.json",
		".roboscan_audit.jsonl",
	}
}
