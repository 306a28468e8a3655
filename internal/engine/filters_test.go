package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roboscan/roboscan/internal/types"
)

func TestRuleFilter(t *testing.T) {
	in := []types.Finding{{Rule: "access_control"}, {Rule: "reentrancy"}, {Rule: "phishing"}}
	rules := func(fs []types.Finding) []string {
		var out []string
		for _, f := range fs {
			out = append(out, f.Rule)
		}
		return out
	}

	assert.Len(t, newRuleFilter("", " , ").apply(in), 3)
	assert.Equal(t, []string{"reentrancy"}, rules(newRuleFilter(" reentrancy ", "").apply(in)))
	assert.Equal(t, []string{"access_control"}, rules(newRuleFilter("", "reentrancy,phishing").apply(in)))
	assert.Empty(t, newRuleFilter("phishing", "phishing").apply(in))
}

func TestSplitGlobs_StripsPrefixes(t *testing.T) {
	assert.Equal(t, []string{"./**/*.sol", "*.sol", "src/*.sol"}, splitGlobs(" ./**/*.sol ,, src/*.sol"))
	assert.Nil(t, splitGlobs(""))
}

func TestContentHash(t *testing.T) {
	assert.Len(t, contentHash(nil), 16)
	assert.Equal(t, contentHash([]byte("contract A {}")), contentHash([]byte("contract A {}")))
	assert.NotEqual(t, contentHash([]byte("a")), contentHash([]byte("b")))
}
