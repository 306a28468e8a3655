package roboscan

import (
	"os"

	"golang.org/x/term"
)

// colorDisabled is true when --no-color was given, NO_COLOR is set, or stdout
// is not a terminal.
func colorDisabled(requested bool) bool {
	if _, set := os.LookupEnv("NO_COLOR"); requested || set {
		return true
	}
	return !term.IsTerminal(int(os.Stdout.Fd()))
}

func stderrIsTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// pick returns the first non-zero of the flag value, the project config and
// the global config.
func pick[T comparable](cli T, local, global *T) T {
	var zero T
	if cli != zero {
		return cli
	}
	for _, v := range [...]*T{local, global} {
		if v != nil && *v != zero {
			return *v
		}
	}
	return zero
}

// pickBool lets an explicit false in the project config override the global
// config. A set flag always wins.
func pickBool(cli bool, local, global *bool) bool {
	return cli || pickSetBool(false, local, global)
}

// pickBoolFlag resolves a flag that defaults to true, where changed reports
// whether the user passed it explicitly.
func pickBoolFlag(cli, changed bool, local, global *bool) bool {
	if changed {
		return cli
	}
	return pickSetBool(cli, local, global)
}

func pickSetBool(def bool, local, global *bool) bool {
	switch {
	case local != nil:
		return *local
	case global != nil:
		return *global
	}
	return def
}
