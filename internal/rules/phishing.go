package rules

import "github.com/roboscan/roboscan/internal/types"

const (
	titlePhishing = "Phishing Risk"
	descPhishing  = "Avoid 'tx.origin' for authorization. Use 'msg.sender' instead."
)

// Phishing flags every use of tx.origin.
func Phishing(lines []string, path string) []types.Finding {
	return markerRule(lines, path, "tx.origin", IDPhishing, titlePhishing, descPhishing, types.SevMedium)
}
