package core

import (
	"context"

	"github.com/roboscan/roboscan/internal/engine"
	"github.com/roboscan/roboscan/internal/preprocess"
	"github.com/roboscan/roboscan/internal/types"
)

// Re-export selected internal types as a stable public API surface.
type Config = engine.Config
type Result = engine.Result
type Finding = types.Finding
type Severity = types.Severity

const (
	SevCritical = types.SevCritical
	SevHigh     = types.SevHigh
	SevMedium   = types.SevMedium
	SevLow      = types.SevLow
)

// ErrNoTargets is returned by Scan when no source files were found.
var ErrNoTargets = engine.ErrNoTargets

// ScanSource analyzes one Solidity source text. path is copied into each
// finding unchanged.
func ScanSource(raw, path string) []Finding {
	return engine.ScanSource(raw, path)
}

// Strip returns raw with comments blanked out and line numbering preserved.
func Strip(raw string) string {
	return preprocess.Strip(raw)
}

// Scan is the stable entrypoint for other programs.
func Scan(ctx context.Context, cfg Config) ([]Finding, error) {
	return engine.Scan(ctx, cfg)
}

// ScanWithStats is Scan plus file counts and timing.
func ScanWithStats(ctx context.Context, cfg Config) (Result, error) {
	return engine.ScanWithStats(ctx, cfg)
}

// RuleIDs returns the built-in rule IDs in execution order.
func RuleIDs() []string { return engine.RuleIDs() }
