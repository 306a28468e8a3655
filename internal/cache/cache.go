package cache

import (
	"encoding/json"
	"errors"

	"github.com/roboscan/roboscan/internal/types"
	"github.com/spf13/afero"
)

// Entry remembers the content hash of a file and the findings it produced.
type Entry struct {
	Hash     string          `json:"hash"`
	Findings []types.Finding `json:"findings,omitempty"`
}

type DB struct {
	// Path relative to scan root -> entry
	Entries map[string]Entry `json:"entries"`
}

func defaultPath(fs afero.Fs, root string) string {
	return stateFile(fs, root, "roboscancache.json")
}

// Lookup returns cached findings for path when its hash is unchanged.
func (db DB) Lookup(path, hash string) ([]types.Finding, bool) {
	e, ok := db.Entries[path]
	if !ok || e.Hash != hash {
		return nil, false
	}
	return e.Findings, true
}

func Load(fs afero.Fs, root string) (DB, error) {
	var db DB
	f, err := afero.ReadFile(fs, defaultPath(fs, root))
	if err != nil {
		return DB{Entries: map[string]Entry{}}, err
	}
	if err := json.Unmarshal(f, &db); err != nil {
		return DB{Entries: map[string]Entry{}}, err
	}
	if db.Entries == nil {
		db.Entries = map[string]Entry{}
	}
	return db, nil
}

func Save(fs afero.Fs, root string, db DB) error {
	if db.Entries == nil {
		return errors.New("empty cache")
	}
	b, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return err
	}
	return afero.WriteFile(fs, defaultPath(fs, root), b, 0644)
}
