package cache

import (
	"testing"

	"github.com/roboscan/roboscan/internal/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSave(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/repo", 0o755))

	// initial load should return empty DB and error
	db, err := Load(fs, "/repo")
	require.Error(t, err)
	require.NotNil(t, db.Entries)

	f := types.Finding{Path: "A.sol", Severity: types.SevHigh, Title: "Reentrancy Risk", Line: 3}
	db.Entries["A.sol"] = Entry{Hash: "deadbeef", Findings: []types.Finding{f}}
	require.NoError(t, Save(fs, "/repo", db))

	ok, err := afero.Exists(fs, "/repo/.roboscancache.json")
	require.NoError(t, err)
	assert.True(t, ok)

	db2, err := Load(fs, "/repo")
	require.NoError(t, err)
	got, hit := db2.Lookup("A.sol", "deadbeef")
	require.True(t, hit)
	assert.Equal(t, []types.Finding{f}, got)

	_, hit = db2.Lookup("A.sol", "cafebabe")
	assert.False(t, hit)
	_, hit = db2.Lookup("B.sol", "deadbeef")
	assert.False(t, hit)
}

func TestDefaultPath_PrefersGitDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/repo/.git", 0o755))
	require.NoError(t, Save(fs, "/repo", DB{Entries: map[string]Entry{}}))

	ok, _ := afero.Exists(fs, "/repo/.git/roboscancache.json")
	assert.True(t, ok)
}

func TestSave_NilEntries(t *testing.T) {
	assert.Error(t, Save(afero.NewMemMapFs(), "/repo", DB{}))
}

func TestResultsRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/repo", 0o755))
	fsd := []types.Finding{{Path: "A.sol", Severity: types.SevMedium, Title: "Phishing Risk", Line: 9}}
	require.NoError(t, SaveResults(fs, "/repo", fsd))

	res, err := LoadResults(fs, "/repo")
	require.NoError(t, err)
	assert.Equal(t, resultsVersion, res.Version)
	assert.Equal(t, "/repo", res.Root)
	assert.Equal(t, fsd, res.Findings)
}

func TestResults_EmptyAndGitDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/repo/.git", 0o755))
	require.NoError(t, SaveResults(fs, "/repo", nil))

	ok, err := afero.Exists(fs, "/repo/.git/roboscan_last_scan.json")
	require.NoError(t, err)
	assert.True(t, ok)

	res, err := LoadResults(fs, "/repo")
	require.NoError(t, err)
	assert.NotNil(t, res.Findings)
	assert.Empty(t, res.Findings)
}

func TestLoadResults_VersionMismatch(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/repo/.roboscan_last_scan.json", []byte(`{"version":99,"findings":[]}`), 0o644))
	_, err := LoadResults(fs, "/repo")
	assert.Error(t, err)
}
