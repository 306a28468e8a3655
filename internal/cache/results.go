package cache

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/roboscan/roboscan/internal/types"
	"github.com/spf13/afero"
)

const resultsVersion = 1

// ScanResults is the snapshot behind `roboscan report`: the findings the
// last scan reported after baseline filtering.
type ScanResults struct {
	Version   int             `json:"version"`
	Timestamp time.Time       `json:"timestamp"`
	Root      string          `json:"root"`
	Findings  []types.Finding `json:"findings"`
}

// stateFile places a roboscan state file under .git when root is a
// repository and as a dotfile in root otherwise.
func stateFile(fs afero.Fs, root, name string) string {
	if st, err := fs.Stat(filepath.Join(root, ".git")); err == nil && st.IsDir() {
		return filepath.Join(root, ".git", name)
	}
	return filepath.Join(root, "."+name)
}

// SaveResults overwrites the snapshot for root.
func SaveResults(fs afero.Fs, root string, findings []types.Finding) error {
	if findings == nil {
		findings = []types.Finding{}
	}
	b, err := json.MarshalIndent(ScanResults{
		Version:   resultsVersion,
		Timestamp: time.Now().UTC(),
		Root:      root,
		Findings:  findings,
	}, "", "  ")
	if err != nil {
		return err
	}
	return afero.WriteFile(fs, stateFile(fs, root, "roboscan_last_scan.json"), b, 0o644)
}

// LoadResults reads the snapshot written by SaveResults.
func LoadResults(fs afero.Fs, root string) (ScanResults, error) {
	var res ScanResults
	b, err := afero.ReadFile(fs, stateFile(fs, root, "roboscan_last_scan.json"))
	if err != nil {
		return res, err
	}
	if err := json.Unmarshal(b, &res); err != nil {
		return res, fmt.Errorf("decode last scan: %w", err)
	}
	if res.Version != resultsVersion {
		return ScanResults{}, fmt.Errorf("last scan was written by an incompatible version (%d)", res.Version)
	}
	return res, nil
}
