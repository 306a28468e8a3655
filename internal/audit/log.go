// Package audit keeps an append-only JSONL history of scans.
package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/roboscan/roboscan/internal/git"
	"github.com/roboscan/roboscan/internal/report"
	"github.com/roboscan/roboscan/internal/types"
	"github.com/spf13/afero"
)

const (
	logName    = "roboscan_audit.jsonl"
	maxTopList = 10
)

// ScanRecord is one line of the audit log.
type ScanRecord struct {
	Timestamp    time.Time      `json:"timestamp"`
	ScanID       string         `json:"scan_id"`
	Root         string         `json:"root"`
	Git          git.Metadata   `json:"git,omitzero"`
	FilesScanned int            `json:"files_scanned"`
	DurationMS   int64          `json:"duration_ms"`
	Total        int            `json:"total_findings"`
	New          int            `json:"new_findings"`
	Baselined    int            `json:"baselined_count"`
	Summary      report.Summary `json:"summary"`
	BaselineFile string         `json:"baseline_file,omitempty"`
	Passed       bool           `json:"passed"`
	Top          []FindingRef   `json:"top_findings,omitempty"`
}

// FindingRef points at a finding without repeating its description.
type FindingRef struct {
	Path     string         `json:"path"`
	Line     int            `json:"line"`
	Rule     string         `json:"rule"`
	Severity types.Severity `json:"severity"`
}

type AuditLog struct {
	fs      afero.Fs
	logPath string
}

// NewAuditLog places the log inside .git when root is a repository, so it
// is never committed by accident.
func NewAuditLog(fs afero.Fs, root string) *AuditLog {
	p := filepath.Join(root, "."+logName)
	if st, err := fs.Stat(filepath.Join(root, ".git")); err == nil && st.IsDir() {
		p = filepath.Join(root, ".git", logName)
	}
	return &AuditLog{fs: fs, logPath: p}
}

// Path returns the log file location.
func (a *AuditLog) Path() string { return a.logPath }

func (a *AuditLog) readAll() ([]ScanRecord, error) {
	data, err := afero.ReadFile(a.fs, a.logPath)
	if err != nil {
		return nil, fmt.Errorf("read audit log: %w", err)
	}
	var out []ScanRecord
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec ScanRecord
		if json.Unmarshal(line, &rec) != nil {
			continue // a torn write must not hide the rest of the history
		}
		out = append(out, rec)
	}
	return out, sc.Err()
}

// LoadHistory returns records newest first. Malformed lines are skipped.
func (a *AuditLog) LoadHistory() ([]ScanRecord, error) {
	recs, err := a.readAll()
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(recs)-1; i < j; i, j = i+1, j-1 {
		recs[i], recs[j] = recs[j], recs[i]
	}
	return recs, nil
}

// LogScan appends rec, assigning a ScanID when it has none.
func (a *AuditLog) LogScan(rec ScanRecord) error {
	if rec.ScanID == "" {
		rec.ScanID = fmt.Sprintf("scan_%d", rec.Timestamp.Unix())
	}
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode audit record: %w", err)
	}
	f, err := a.fs.OpenFile(a.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write audit record: %w", err)
	}
	return nil
}

// DeleteRecord removes the record at index in LoadHistory order and
// rewrites the log.
func (a *AuditLog) DeleteRecord(index int) error {
	recs, err := a.readAll()
	if err != nil {
		return err
	}
	pos := len(recs) - 1 - index
	if index < 0 || pos < 0 {
		return fmt.Errorf("invalid index: %d", index)
	}
	recs = append(recs[:pos], recs[pos+1:]...)

	var buf bytes.Buffer
	for _, r := range recs {
		line, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode audit record: %w", err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return afero.WriteFile(a.fs, a.logPath, buf.Bytes(), 0600)
}

// CreateScanRecord summarizes a finished scan. newFindings is what remained
// after baseline filtering.
func CreateScanRecord(
	root string,
	allFindings []types.Finding,
	newFindings []types.Finding,
	filesScanned int,
	duration time.Duration,
	baselineFile string,
	passed bool,
) ScanRecord {
	rec := ScanRecord{
		Timestamp:    time.Now(),
		Root:         root,
		Git:          git.RepoMetadata(root),
		FilesScanned: filesScanned,
		DurationMS:   duration.Milliseconds(),
		Total:        len(allFindings),
		New:          len(newFindings),
		Baselined:    len(allFindings) - len(newFindings),
		Summary:      report.Summarize(newFindings),
		BaselineFile: baselineFile,
		Passed:       passed,
	}
	for i, f := range newFindings {
		if i == maxTopList {
			break
		}
		rec.Top = append(rec.Top, FindingRef{Path: f.Path, Line: f.Line, Rule: f.Rule, Severity: f.Severity})
	}
	return rec
}
