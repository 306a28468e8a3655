package rules

import (
	"strings"

	"github.com/roboscan/roboscan/internal/types"
)

// Rule inspects cleaned source lines of the file at path. Lines are 0-based
// here; findings carry 1-based line numbers.
type Rule func(lines []string, path string) []types.Finding

// Info describes a built-in rule for listings and SARIF rule tables.
type Info struct {
	ID       string
	Title    string
	Severity types.Severity
	Help     string
}

const (
	IDAccessControl = "access_control"
	IDReentrancy    = "reentrancy"
	IDPhishing      = "phishing"
)

// Execution order is fixed and part of the output contract.
var all = []struct {
	info Info
	run  Rule
}{
	{Info{IDAccessControl, titleAccessControl, types.SevCritical, "Externally callable function moves funds or self-destructs without an onlyOwner guard."}, AccessControl},
	{Info{IDReentrancy, titleReentrancy, types.SevHigh, descReentrancy}, Reentrancy},
	{Info{IDPhishing, titlePhishing, types.SevMedium, descPhishing}, Phishing},
}

// RunAll applies every rule in order and concatenates their findings.
func RunAll(lines []string, path string) []types.Finding {
	var out []types.Finding
	for _, r := range all {
		out = append(out, r.run(lines, path)...)
	}
	return out
}

// IDs returns rule IDs in execution order.
func IDs() []string {
	ids := make([]string, len(all))
	for i, r := range all {
		ids[i] = r.info.ID
	}
	return ids
}

// Describe returns metadata for every rule in execution order.
func Describe() []Info {
	out := make([]Info, len(all))
	for i, r := range all {
		out[i] = r.info
	}
	return out
}

// Lookup returns the rule registered under id.
func Lookup(id string) (Rule, bool) {
	for _, r := range all {
		if r.info.ID == id {
			return r.run, true
		}
	}
	return nil, false
}

// RunFunction runs a single rule by ID. It returns nil for unknown IDs.
func RunFunction(id string, lines []string, path string) []types.Finding {
	if r, ok := Lookup(id); ok {
		return r(lines, path)
	}
	return nil
}

// markerRule emits one finding for every line containing marker.
func markerRule(lines []string, path, marker, id, title, desc string, sev types.Severity) []types.Finding {
	var out []types.Finding
	for i, l := range lines {
		if strings.Contains(l, marker) {
			out = append(out, types.Finding{
				Path: path, Severity: sev, Title: title, Line: i + 1,
				Description: desc, Rule: id,
			})
		}
	}
	return out
}
