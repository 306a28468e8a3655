package types

import "strings"

// Severity is the risk level of a finding. Values serialize as their names.
type Severity string

const (
	SevCritical Severity = "CRITICAL"
	SevHigh     Severity = "HIGH"
	SevMedium   Severity = "MEDIUM"
	SevLow      Severity = "LOW"
)

// Severities lists every severity from most to least severe.
var Severities = []Severity{SevCritical, SevHigh, SevMedium, SevLow}

// Rank orders severities: CRITICAL=4 down to LOW=1. Unknown values rank 0.
func (s Severity) Rank() int {
	switch s {
	case SevCritical:
		return 4
	case SevHigh:
		return 3
	case SevMedium:
		return 2
	case SevLow:
		return 1
	}
	return 0
}

// ParseSeverity accepts a severity name in any case.
func ParseSeverity(s string) (Severity, bool) {
	sev := Severity(strings.ToUpper(strings.TrimSpace(s)))
	if sev.Rank() == 0 {
		return "", false
	}
	return sev, true
}

// Finding describes one issue detected in a source file. Line always refers
// to the original (uncleaned) source numbering.
type Finding struct {
	Path        string   `json:"filename"`
	Severity    Severity `json:"severity"`
	Title       string   `json:"title"`
	Line        int      `json:"line"`
	Description string   `json:"desc"`
	Rule        string   `json:"rule,omitempty"`    // ID of the rule that produced it
	Snippet     string   `json:"snippet,omitempty"` // trimmed original line text
}
