// Package rules implements the built-in Solidity heuristics used by roboscan.
// Each rule inspects comment-stripped source lines and reports zero or more
// findings. Rules are purely textual: they look for exact substrings and
// never parse the contract.
package rules
