// Package config is the Configuration Model: a typed, immutable
// snapshot of one compilation request — target platform/version,
// addressing/memory models, capability policy, and per-function
// execution model and parameter bindings.
//
// A Config is built either programmatically, via the fluent Builder,
// or loaded from the JSON document described in spec.md §6. Both
// paths converge on the same immutable Config value the assembler
// consumes.
package config
