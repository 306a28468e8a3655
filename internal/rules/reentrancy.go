package rules

import "github.com/roboscan/roboscan/internal/types"

const (
	titleReentrancy = "Reentrancy Risk"
	descReentrancy  = "Low-level call detected. Ensure 'Check-Effects-Interactions' pattern is used."
)

// Reentrancy flags every low-level call that forwards value.
func Reentrancy(lines []string, path string) []types.Finding {
	return markerRule(lines, path, ".call{value:", IDReentrancy, titleReentrancy, descReentrancy, types.SevHigh)
}
