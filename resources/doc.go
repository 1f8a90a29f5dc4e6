// Package resources materializes Wasm's memory and import model into
// SPIR-V resources: the linear memory buffer, imported built-in
// pseudo-globals, and descriptor-set bindings (spec.md §4.2).
package resources
