package report

import "github.com/roboscan/roboscan/internal/types"

// Summary holds per-severity finding counts.
type Summary struct {
	Critical int `json:"CRITICAL"`
	High     int `json:"HIGH"`
	Medium   int `json:"MEDIUM"`
	Low      int `json:"LOW"`
	Total    int `json:"TOTAL"`
}

// Summarize counts findings by severity. Findings with an unknown severity
// only count toward Total.
func Summarize(findings []types.Finding) Summary {
	s := Summary{Total: len(findings)}
	for _, f := range findings {
		switch f.Severity {
		case types.SevCritical:
			s.Critical++
		case types.SevHigh:
			s.High++
		case types.SevMedium:
			s.Medium++
		case types.SevLow:
			s.Low++
		}
	}
	return s
}

// Count returns the number of findings counted under sev.
func (s Summary) Count(sev types.Severity) int {
	switch sev {
	case types.SevCritical:
		return s.Critical
	case types.SevHigh:
		return s.High
	case types.SevMedium:
		return s.Medium
	case types.SevLow:
		return s.Low
	}
	return 0
}

// CountCritical returns how many findings are CRITICAL.
func CountCritical(findings []types.Finding) int {
	return Summarize(findings).Critical
}
