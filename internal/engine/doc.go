// Package engine contains the core scanning logic for roboscan. It discovers
// Solidity sources, strips comments, runs the built-in rules and returns
// structured findings. This package is internal; external consumers should
// use the stable facade in pkg/core.
package engine
