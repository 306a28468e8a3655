package core

import (
	"bytes"
	"encoding/json"
	"io"
)

// MarshalFindings pretty-prints findings as a JSON array. A nil slice is
// written as [].
func MarshalFindings(w io.Writer, findings []Finding) error {
	if findings == nil {
		findings = []Finding{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(findings)
}

// UnmarshalFindings decodes either a bare findings array or a full JSON
// report ({"target", "summary", "issues", ...}) and returns the findings.
func UnmarshalFindings(r io.Reader) ([]Finding, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var doc struct {
			Issues []Finding `json:"issues"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return doc.Issues, nil
	}
	var fs []Finding
	if err := json.Unmarshal(data, &fs); err != nil {
		return nil, err
	}
	return fs, nil
}
