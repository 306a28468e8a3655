// Package core provides a small, stable facade over RoboScan's internal
// engine for external integrations. It re-exports a narrow API surface so
// other tools can depend on a stable import path without reaching into
// internal packages.
//
// Example:
//
//	findings := core.ScanSource(src, "Vault.sol")
//	_ = core.MarshalFindings(os.Stdout, findings)
package core
