// Package explain asks a chat model to justify matched policies and turns its
// free-form reply into structured items.
//
// The reply is carved into top-level JSON objects by a brace-depth scanner.
// The scanner does not tokenize strings: an unbalanced brace inside a string
// value shifts the depth count and corrupts that object and possibly the rest
// of the reply. When no object survives, or the call itself fails, Explain
// returns a Degraded outcome carrying a single fallback item.
package explain
