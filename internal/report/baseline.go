package report

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/roboscan/roboscan/internal/types"
	"github.com/spf13/afero"
)

// Baseline is a set of accepted findings. Findings it contains are hidden
// from reports and exit policies.
type Baseline struct {
	Created time.Time       `json:"created,omitzero"`
	Items   map[string]bool `json:"items"`
}

// LoadBaseline reads a baseline file. On error the returned baseline is
// empty but usable.
func LoadBaseline(fs afero.Fs, path string) (Baseline, error) {
	b := Baseline{Items: map[string]bool{}}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return b, err
	}
	if err := json.Unmarshal(data, &b); err != nil {
		return Baseline{Items: map[string]bool{}}, err
	}
	if b.Items == nil {
		b.Items = map[string]bool{}
	}
	return b, nil
}

// SaveBaseline accepts every finding, replacing any previous baseline at path.
func SaveBaseline(fs afero.Fs, path string, findings []types.Finding) error {
	b := Baseline{Created: time.Now().UTC(), Items: map[string]bool{}}
	for _, f := range findings {
		b.Items[key(f)] = true
	}
	buf, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	return afero.WriteFile(fs, path, buf, 0644)
}

// Contains reports whether f was accepted.
func (b Baseline) Contains(f types.Finding) bool {
	return b.Items[key(f)]
}

// FilterNewFindings drops findings present in base, keeping order.
func FilterNewFindings(findings []types.Finding, base Baseline) []types.Finding {
	var out []types.Finding
	for _, f := range findings {
		if !base.Contains(f) {
			out = append(out, f)
		}
	}
	return out
}

// key identifies a finding by the text of its line rather than the line
// number, so edits elsewhere in the file do not resurface accepted findings.
func key(f types.Finding) string {
	loc := f.Snippet
	if loc == "" {
		loc = strconv.Itoa(f.Line)
	}
	id := f.Rule
	if id == "" {
		id = f.Title
	}
	return f.Path + "|" + id + "|" + loc
}

// ShouldFail reports whether any finding is at or above the failOn severity.
// An empty or unknown threshold means critical.
func ShouldFail(findings []types.Finding, failOn string) bool {
	th, ok := types.ParseSeverity(failOn)
	if !ok {
		th = types.SevCritical
	}
	for _, f := range findings {
		if f.Severity.Rank() >= th.Rank() {
			return true
		}
	}
	return false
}
