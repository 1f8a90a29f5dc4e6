package assemble

import (
	"github.com/gogpu/wasm2spirv/config"
	"github.com/gogpu/wasm2spirv/spirv"
)

// executionModelToSPIRV maps config's entry-point execution model to
// its SPIR-V OpEntryPoint operand. The two enumerations' numeric
// values don't line up (config.ExecutionModelGLCompute is 2, spirv's
// is 5), so this is a table rather than a cast.
func executionModelToSPIRV(m config.ExecutionModel) spirv.ExecutionModel {
	switch m {
	case config.ExecutionModelVertex:
		return spirv.ExecutionModelVertex
	case config.ExecutionModelFragment:
		return spirv.ExecutionModelFragment
	case config.ExecutionModelGLCompute:
		return spirv.ExecutionModelGLCompute
	default:
		panic("assemble: unknown config.ExecutionModel")
	}
}

// emitExecutionMode translates one config.ExecutionMode into its
// OpExecutionMode form and appends it to entryID.
func emitExecutionMode(builder *spirv.ModuleBuilder, entryID uint32, mode config.ExecutionMode) {
	switch mode.Mode {
	case config.ExecutionModeLocalSize:
		builder.AddExecutionMode(entryID, spirv.ExecutionModeLocalSize, mode.LocalSize[0], mode.LocalSize[1], mode.LocalSize[2])
	case config.ExecutionModeOriginUpperLeft:
		builder.AddExecutionMode(entryID, spirv.ExecutionModeOriginUpperLeft)
	default:
		panic("assemble: unknown config.ExecutionModeKind")
	}
}
