// Package mock provides deterministic test doubles for the ai interfaces.
//
// The default embedder derives a normalized 384-dimension vector from an
// FNV hash of the input text, so identical text always embeds identically
// and no network access is required. Behavior can be overridden per test
// through the exported Func fields.
package mock
