// Package preprocess removes comments from Solidity source while keeping
// string literals intact and every line at its original position.
package preprocess
