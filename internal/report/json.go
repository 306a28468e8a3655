package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/roboscan/roboscan/internal/types"
)

// Document is the JSON report layout.
type Document struct {
	Target    string          `json:"target"`
	Timestamp string          `json:"timestamp"`
	Summary   Summary         `json:"summary"`
	Issues    []types.Finding `json:"issues"`
}

// WriteJSON writes the report document for target. Issues is never null.
func WriteJSON(w io.Writer, target string, findings []types.Finding, now time.Time) error {
	if findings == nil {
		findings = []types.Finding{}
	}
	doc := Document{
		Target:    target,
		Timestamp: now.Format(time.RFC3339),
		Summary:   Summarize(findings),
		Issues:    findings,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(doc)
}
