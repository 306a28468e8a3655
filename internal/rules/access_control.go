package rules

import (
	"fmt"
	"strings"

	"github.com/roboscan/roboscan/internal/types"
)

const (
	titleAccessControl = "Missing Access Control"

	// lookahead is how many lines after a definition are searched for a
	// dangerous operation.
	lookahead = 5
)

var dangerousOps = []string{".transfer(", "selfdestruct"}

// AccessControl flags public or external functions that are not view/pure,
// carry no onlyOwner modifier on the signature line, and transfer funds or
// self-destruct within the next five lines. The guard is only looked for on
// the same line as the signature.
func AccessControl(lines []string, path string) []types.Finding {
	var out []types.Finding
	for i, l := range lines {
		if !isUnguardedEntryPoint(l) {
			continue
		}
		end := min(i+lookahead, len(lines)-1)
		for j := i + 1; j <= end; j++ {
			if containsAny(lines[j], dangerousOps) {
				out = append(out, types.Finding{
					Path:        path,
					Severity:    types.SevCritical,
					Title:       titleAccessControl,
					Line:        i + 1,
					Description: fmt.Sprintf("Function '%s' performs critical actions but lacks 'onlyOwner'.", strings.TrimSpace(l)),
					Rule:        IDAccessControl,
				})
				break
			}
		}
	}
	return out
}

func isUnguardedEntryPoint(l string) bool {
	if !strings.Contains(l, "function") {
		return false
	}
	if !strings.Contains(l, "external") && !strings.Contains(l, "public") {
		return false
	}
	return !containsAny(l, []string{"onlyOwner", "view", "pure"})
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
