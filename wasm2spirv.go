// Package wasm2spirv translates a validated WebAssembly MVP module into
// a SPIR-V module, driven by a declarative Config (see package config).
//
// Compile is the single entry point: it decodes the Wasm binary, then
// hands the decoded module and Config to the Module Assembler (package
// assemble), which drives the Type & Capability Registry, the Memory &
// Resource Model, the Function Translator, and the Structured CFG
// Reconstructor to produce a well-formed SPIR-V binary.
package wasm2spirv

import (
	"fmt"

	"github.com/gogpu/wasm2spirv/assemble"
	"github.com/gogpu/wasm2spirv/config"
	"github.com/gogpu/wasm2spirv/wasmfront"
)

// Compile decodes a Wasm MVP binary and translates it into a SPIR-V
// module under cfg. The Wasm input is expected to already be validated
// upstream; Compile's own decode step only rejects structurally
// malformed binaries, not Wasm validation errors.
func Compile(wasm []byte, cfg config.Config) ([]byte, error) {
	module, err := wasmfront.Decode(wasm)
	if err != nil {
		return nil, fmt.Errorf("wasm2spirv: decoding module: %w", err)
	}
	spirvBytes, err := assemble.Compile(module, cfg)
	if err != nil {
		return nil, fmt.Errorf("wasm2spirv: %w", err)
	}
	return spirvBytes, nil
}

// CompileJSON is Compile with the configuration supplied as a JSON
// document following spec.md §6's schema, the shape config.LoadJSON
// decodes — the form a CLI or foreign-language caller typically has on
// hand rather than a constructed config.Config value.
func CompileJSON(wasm []byte, configJSON []byte) ([]byte, error) {
	cfg, err := config.LoadJSON(configJSON)
	if err != nil {
		return nil, fmt.Errorf("wasm2spirv: loading config: %w", err)
	}
	return Compile(wasm, cfg)
}
