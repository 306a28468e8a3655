// Package config reads roboscan.yml settings. A project file next to the
// scan target overrides the user's global file, and CLI flags override both.
package config
