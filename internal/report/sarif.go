package report

import (
	"encoding/json"
	"fmt"
	"io"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/roboscan/roboscan/internal/rules"
	"github.com/roboscan/roboscan/internal/types"
)

// ToolVersion is reported in the SARIF driver block. Set by the CLI.
var ToolVersion = "dev"

const sarifSchema = "https://json.schemastore.org/sarif-2.1.0.json"

type text struct {
	Text string `json:"text"`
}

type level struct {
	Level string `json:"level"`
}

type ruleDescriptor struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Short      text              `json:"shortDescription"`
	Help       text              `json:"help"`
	Default    level             `json:"defaultConfiguration"`
	Properties map[string]string `json:"properties,omitempty"`
}

type region struct {
	StartLine int   `json:"startLine"`
	Snippet   *text `json:"snippet,omitempty"`
}

type location struct {
	Physical struct {
		Artifact struct {
			URI string `json:"uri"`
		} `json:"artifactLocation"`
		Region region `json:"region"`
	} `json:"physicalLocation"`
}

type result struct {
	RuleID       string            `json:"ruleId"`
	RuleIndex    int               `json:"ruleIndex"`
	Level        string            `json:"level"`
	Message      text              `json:"message"`
	Locations    []location        `json:"locations"`
	Fingerprints map[string]string `json:"partialFingerprints,omitempty"`
}

type run struct {
	Tool struct {
		Driver struct {
			Name    string           `json:"name"`
			Version string           `json:"version"`
			Rules   []ruleDescriptor `json:"rules"`
		} `json:"driver"`
	} `json:"tool"`
	Results []result `json:"results"`
}

// sarifLevel maps a severity to a SARIF result level.
func sarifLevel(s types.Severity) string {
	switch s {
	case types.SevCritical, types.SevHigh:
		return "error"
	case types.SevMedium:
		return "warning"
	default:
		return "note"
	}
}

// securitySeverity is the 0-10 score code scanning uses to bucket alerts.
func securitySeverity(s types.Severity) string {
	switch s {
	case types.SevCritical:
		return "9.5"
	case types.SevHigh:
		return "8.0"
	case types.SevMedium:
		return "5.5"
	default:
		return "2.0"
	}
}

// WriteSARIF writes findings as SARIF 2.1.0. Every registered rule is listed
// in the driver even when it produced no results.
func WriteSARIF(w io.Writer, findings []types.Finding) error {
	var r run
	r.Tool.Driver.Name = "roboscan"
	r.Tool.Driver.Version = ToolVersion
	r.Results = []result{}

	index := map[string]int{}
	for _, info := range rules.Describe() {
		index[info.ID] = len(r.Tool.Driver.Rules)
		r.Tool.Driver.Rules = append(r.Tool.Driver.Rules, ruleDescriptor{
			ID:         info.ID,
			Name:       info.Title,
			Short:      text{info.Title},
			Help:       text{info.Help},
			Default:    level{sarifLevel(info.Severity)},
			Properties: map[string]string{"security-severity": securitySeverity(info.Severity)},
		})
	}

	for _, f := range findings {
		id := f.Rule
		if id == "" {
			id = f.Title
		}
		ri, known := index[id]
		if !known {
			ri = -1
		}
		var loc location
		loc.Physical.Artifact.URI = f.Path
		loc.Physical.Region.StartLine = f.Line
		if f.Snippet != "" {
			loc.Physical.Region.Snippet = &text{f.Snippet}
		}
		r.Results = append(r.Results, result{
			RuleID:       id,
			RuleIndex:    ri,
			Level:        sarifLevel(f.Severity),
			Message:      text{f.Description},
			Locations:    []location{loc},
			Fingerprints: map[string]string{"roboscan/v1": fmt.Sprintf("%016x", xxhash.Sum64String(key(f)))},
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Schema  string `json:"$schema"`
		Version string `json:"version"`
		Runs    []run  `json:"runs"`
	}{sarifSchema, "2.1.0", []run{r}})
}
