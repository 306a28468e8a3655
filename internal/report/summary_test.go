package report

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roboscan/roboscan/internal/types"
)

func TestSummarize_CountsBySeverity(t *testing.T) {
	s := Summarize([]types.Finding{
		{Severity: types.SevCritical},
		{Severity: types.SevCritical},
		{Severity: types.SevHigh},
		{Severity: types.SevLow},
		{Severity: "INFO"},
	})
	assert.Equal(t, Summary{Critical: 2, High: 1, Medium: 0, Low: 1, Total: 5}, s)
	assert.Equal(t, 2, s.Count(types.SevCritical))
	assert.Equal(t, 0, s.Count("INFO"))
	assert.Equal(t, 2, CountCritical([]types.Finding{{Severity: types.SevCritical}, {Severity: types.SevCritical}}))
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestShouldFail_Thresholds(t *testing.T) {
	fs := []types.Finding{{Severity: types.SevHigh}}
	cases := []struct {
		failOn string
		want   bool
	}{
		{"", false},
		{"critical", false},
		{"high", true},
		{"HIGH", true},
		{"medium", true},
		{"low", true},
		{"nonsense", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ShouldFail(fs, c.failOn), "failOn=%q", c.failOn)
	}
	assert.True(t, ShouldFail([]types.Finding{{Severity: types.SevCritical}}, ""))
	assert.False(t, ShouldFail(nil, "low"))
}

func TestBaseline_RoundTripAndFilter(t *testing.T) {
	fs := afero.NewMemMapFs()
	p := "/repo/roboscan.baseline.json"
	accepted := reentrancyFinding()
	require.NoError(t, SaveBaseline(fs, p, []types.Finding{accepted}))

	base, err := LoadBaseline(fs, p)
	require.NoError(t, err)
	assert.Len(t, base.Items, 1)
	assert.False(t, base.Created.IsZero())
	assert.True(t, base.Contains(accepted))

	shifted := accepted
	shifted.Line += 7
	fresh := types.Finding{Path: "Vault.sol", Line: 20, Severity: types.SevMedium, Rule: "phishing", Snippet: "require(tx.origin == owner);"}

	got := FilterNewFindings([]types.Finding{shifted, fresh}, base)
	require.Len(t, got, 1)
	assert.Equal(t, "phishing", got[0].Rule)
}

func TestBaseline_KeyFallsBackToLineAndTitle(t *testing.T) {
	f := types.Finding{Path: "a.sol", Line: 4, Title: "T"}
	assert.Equal(t, "a.sol|T|4", key(f))
}

func TestLoadBaseline_MissingFile(t *testing.T) {
	b, err := LoadBaseline(afero.NewMemMapFs(), "/nope.json")
	assert.Error(t, err)
	assert.NotNil(t, b.Items)
}

func TestLoadBaseline_Corrupt(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/b.json", []byte("{not json"), 0o644))
	b, err := LoadBaseline(fs, "/b.json")
	assert.Error(t, err)
	assert.Empty(t, b.Items)
	assert.Empty(t, FilterNewFindings(nil, b))
}
