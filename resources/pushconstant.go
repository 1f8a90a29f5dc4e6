package resources

import (
	"fmt"
	"sort"

	"github.com/gogpu/wasm2spirv/ir"
)

// PushConstantLayout is the single shared push-constant block every
// PushConstantBinding-bound parameter in a module reads from (spec.md's
// ParamConfig: a byte offset into one push-constant block shared by the
// whole module, unlike DescriptorSetBinding's one-buffer-per-parameter
// model).
type PushConstantLayout struct {
	StructType  ir.TypeHandle
	PointerType ir.TypeHandle
	Variable    ir.GlobalVariableHandle

	// MemberIndex maps a configured byte offset to the struct member
	// index addressing it (spec.md's push-constant blocks carry one
	// member per distinct configured offset, in offset order).
	MemberIndex map[uint32]uint32
}

// PushConstantBuilder accumulates the distinct offsets a module's
// configuration binds before MaterializeBlock declares the one shared
// struct/variable pair.
type PushConstantBuilder struct {
	members []ir.StructMember
	index   map[uint32]uint32
}

// NewPushConstantBuilder returns an empty builder.
func NewPushConstantBuilder() *PushConstantBuilder {
	return &PushConstantBuilder{index: make(map[uint32]uint32)}
}

// Add records one parameter's (offset, type) binding, deduplicating on
// offset — two parameters configured against the same offset read the
// same push-constant value and share one struct member.
func (p *PushConstantBuilder) Add(offset uint32, elemType ir.TypeHandle) {
	if _, ok := p.index[offset]; ok {
		return
	}
	p.index[offset] = uint32(len(p.members))
	p.members = append(p.members, ir.StructMember{
		Name:   fmt.Sprintf("field_%d", offset),
		Type:   elemType,
		Offset: offset,
	})
}

// Empty reports whether no parameter was ever bound via
// PushConstantBinding, in which case the assembler skips declaring the
// block entirely.
func (p *PushConstantBuilder) Empty() bool {
	return len(p.members) == 0
}

// MaterializeBlock declares the shared push-constant struct and its
// PushConstant-class OpVariable. A push-constant block is always
// Block-decorated: unlike storage buffers (resources/memory.go's Open
// Question 2), PushConstant predates the Block/BufferBlock split, so
// there is no version gate here.
func (p *PushConstantBuilder) MaterializeBlock(mc *ir.ModuleContext) PushConstantLayout {
	sort.Slice(p.members, func(i, j int) bool { return p.members[i].Offset < p.members[j].Offset })
	for i, m := range p.members {
		p.index[m.Offset] = uint32(i)
	}

	structType := mc.Types.GetOrCreate("PushConstants", ir.StructType{
		Members: p.members,
		Block:   true,
	})
	_ = mc.Decorations.Add(ir.DecorationTargetType, uint32(structType), ir.DecorationID(2)) // Block

	pointerType := mc.Types.GetOrCreate("", ir.PointerType{Base: structType, Space: ir.StorageClassPushConstant})

	variable := mc.DeclareVariable(ir.GlobalVariable{
		Name:  "push_constants",
		Space: ir.StorageClassPushConstant,
		Type:  structType,
	})

	return PushConstantLayout{
		StructType:  structType,
		PointerType: pointerType,
		Variable:    variable,
		MemberIndex: p.index,
	}
}
