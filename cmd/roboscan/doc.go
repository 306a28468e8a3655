// Package roboscan provides the command-line interface for the RoboScan
// Solidity analyzer. It configures subcommands (scan, rules, baseline, etc.),
// parses flags, and executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/roboscan/roboscan/cmd/roboscan"
//	func main() { roboscan.Execute() }
package roboscan
