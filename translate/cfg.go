package translate

import (
	"github.com/gogpu/wasm2spirv/spirv"
	"github.com/gogpu/wasm2spirv/wasmfront"
)

// labelKind tags what structured construct a labelFrame represents.
type labelKind uint8

const (
	labelFunctionBody labelKind = iota
	labelBlock
	labelLoop
	labelIf
)

// phiContribution is one predecessor edge's value, reconciled by an
// OpPhi at a merge label (spec.md §4.4's structured-CFG result
// passing: Wasm carries a block's result on the operand stack; SPIR-V
// needs it threaded explicitly through every predecessor edge).
type phiContribution struct {
	value uint32
	block uint32
}

// labelFrame is one entry of the structured-control-flow label stack,
// one per open block/loop/if/function body. br N addresses frames by
// counting from the innermost (labels[len(labels)-1-N]).
type labelFrame struct {
	kind labelKind

	// branchTarget is the SPIR-V label a `br` naming this frame jumps
	// to: the merge label for block/if, the header label for loop.
	branchTarget uint32

	// mergeLabel is where translation resumes after this construct
	// closes. Equal to branchTarget except for loop, where
	// branchTarget is the header and mergeLabel is the loop's exit.
	mergeLabel uint32

	resultTypes []wasmfront.ValType // 0 or 1 elements (multi-value unsupported)
	phiSources  []phiContribution

	stackDepthAtEntry int

	// if-construct bookkeeping.
	hasElse     bool
	rejectLabel uint32
}

func (t *FunctionTranslator) currentFrame() *labelFrame {
	return &t.labels[len(t.labels)-1]
}

// enterBlock emits OpLabel for a pre-allocated id and marks the
// current block live (a fresh block is always reachable by
// construction: every call site arranges at least one predecessor
// edge before calling this).
func (t *FunctionTranslator) enterBlock(id uint32) {
	t.builder.AddLabelWithID(id)
	t.currentLabel = id
	t.blockTerminated = false
}

// closeBlock branches the current block to target, unless a
// terminator was already emitted for it (the body ended in
// `return`/`br`/`unreachable`, in which case this edge is dead and
// emitting it would produce two terminators in one block).
func (t *FunctionTranslator) closeBlock(target uint32) {
	if t.blockTerminated {
		return
	}
	t.builder.AddBranch(target)
	t.blockTerminated = true
}

// recordMergeValue pops the frame's declared result (if any) off the
// operand stack and records it as a phi contribution from the current
// block, provided the current block is still live. A block that
// already ended in return/br/unreachable contributes nothing — there
// is no value to read at that program point.
func (t *FunctionTranslator) recordMergeValue(frame *labelFrame, offset int) error {
	if len(frame.resultTypes) == 0 || t.blockTerminated {
		return nil
	}
	v, err := t.stack.popExpect(frame.resultTypes[0])
	if err != nil {
		return t.attachSite(err, offset)
	}
	frame.phiSources = append(frame.phiSources, phiContribution{value: v.ID, block: t.currentLabel})
	return nil
}

// resolveMerge reconciles frame's phi contributions (or substitutes
// OpUndef if the merge turned out to have no live predecessor at all)
// and pushes the result onto the operand stack. Call after the merge
// label has been entered.
func (t *FunctionTranslator) resolveMerge(frame *labelFrame) {
	if len(frame.resultTypes) == 0 {
		return
	}
	resultType := t.resolver.scalarTypeID(frame.resultTypes[0])
	var id uint32
	if len(frame.phiSources) == 0 {
		id = t.builder.AddUndef(resultType)
	} else {
		pairs := make([]uint32, 0, len(frame.phiSources)*2)
		for _, c := range frame.phiSources {
			pairs = append(pairs, c.value, c.block)
		}
		id = t.builder.AddPhi(resultType, pairs...)
	}
	t.stack.push(TypedValue{ID: id, Type: frame.resultTypes[0]})
}

func (t *FunctionTranslator) attachSite(err error, offset int) error {
	if te, ok := err.(*Error); ok {
		te.FuncIndex = t.funcIndex
		te.OpcodeOffset = offset
		return te
	}
	return err
}

// blockResultTypes resolves a decoded BlockType to the 0-or-1 result
// types this translator supports.
func (t *FunctionTranslator) blockResultTypes(bt wasmfront.BlockType, offset int) ([]wasmfront.ValType, error) {
	if bt.Empty {
		return nil, nil
	}
	if bt.TypeIndex == nil {
		return []wasmfront.ValType{bt.Val}, nil
	}
	if int(*bt.TypeIndex) >= len(t.module.Types) {
		return nil, t.err(ErrUnsupportedFeature, offset, "block type references an unknown type index")
	}
	sig := t.module.Types[*bt.TypeIndex]
	if len(sig.Params) != 0 {
		return nil, t.err(ErrUnsupportedFeature, offset, "blocks with parameters are not supported")
	}
	if len(sig.Results) > 1 {
		return nil, t.err(ErrUnsupportedFeature, offset, "multi-value blocks are not supported")
	}
	return sig.Results, nil
}

func (t *FunctionTranslator) beginBlock(r *bytecodeReader, offset int) error {
	bt, err := r.readBlockType()
	if err != nil {
		return t.err(ErrUnsupportedFeature, offset, "malformed block type")
	}
	results, err := t.blockResultTypes(bt, offset)
	if err != nil {
		return err
	}
	merge := t.builder.AllocID()
	t.labels = append(t.labels, labelFrame{
		kind:              labelBlock,
		branchTarget:      merge,
		mergeLabel:        merge,
		resultTypes:       results,
		stackDepthAtEntry: t.stack.depth(),
	})
	return nil
}

func (t *FunctionTranslator) beginLoop(r *bytecodeReader, offset int) error {
	bt, err := r.readBlockType()
	if err != nil {
		return t.err(ErrUnsupportedFeature, offset, "malformed block type")
	}
	results, err := t.blockResultTypes(bt, offset)
	if err != nil {
		return err
	}

	header := t.builder.AllocID()
	body := t.builder.AllocID()
	merge := t.builder.AllocID()

	t.closeBlock(header)
	t.enterBlock(header)
	t.builder.AddLoopMerge(merge, header, spirv.LoopControlNone)
	t.builder.AddBranch(body)
	t.blockTerminated = true
	t.enterBlock(body)

	t.labels = append(t.labels, labelFrame{
		kind:              labelLoop,
		branchTarget:      header,
		mergeLabel:        merge,
		resultTypes:       results,
		stackDepthAtEntry: t.stack.depth(),
	})
	return nil
}

func (t *FunctionTranslator) beginIf(r *bytecodeReader, offset int) error {
	bt, err := r.readBlockType()
	if err != nil {
		return t.err(ErrUnsupportedFeature, offset, "malformed block type")
	}
	results, err := t.blockResultTypes(bt, offset)
	if err != nil {
		return err
	}
	cond, err := t.stack.popExpect(wasmfront.ValTypeI32)
	if err != nil {
		return t.attachSite(err, offset)
	}

	accept := t.builder.AllocID()
	reject := t.builder.AllocID()
	merge := t.builder.AllocID()

	t.builder.AddSelectionMerge(merge, spirv.SelectionControlNone)
	t.builder.AddBranchConditional(cond.ID, accept, reject)
	t.blockTerminated = true
	t.enterBlock(accept)

	t.labels = append(t.labels, labelFrame{
		kind:              labelIf,
		branchTarget:      merge,
		mergeLabel:        merge,
		resultTypes:       results,
		stackDepthAtEntry: t.stack.depth(),
		rejectLabel:       reject,
	})
	return nil
}

func (t *FunctionTranslator) handleElse(offset int) error {
	frame := t.currentFrame()
	if frame.kind != labelIf || frame.hasElse {
		return t.err(ErrUnbalancedStack, offset, "else outside an if's accept block")
	}
	if err := t.recordMergeValue(frame, offset); err != nil {
		return err
	}
	t.closeBlock(frame.mergeLabel)
	t.enterBlock(frame.rejectLabel)
	frame.hasElse = true
	t.stack.values = t.stack.values[:frame.stackDepthAtEntry]
	return nil
}

// handleEnd closes the innermost frame. It reports done=true when it
// closed the synthetic function-body frame, signalling the caller
// that the function body is finished.
func (t *FunctionTranslator) handleEnd(offset int) (bool, error) {
	if len(t.labels) == 0 {
		return false, t.err(ErrUnbalancedStack, offset, "unmatched end")
	}
	frame := t.currentFrame()

	if frame.kind == labelFunctionBody {
		if len(frame.resultTypes) == 1 && !t.blockTerminated {
			v, err := t.stack.popExpect(frame.resultTypes[0])
			if err != nil {
				return false, t.attachSite(err, offset)
			}
			t.builder.AddReturnValue(v.ID)
			t.blockTerminated = true
		} else if !t.blockTerminated {
			t.builder.AddReturn()
			t.blockTerminated = true
		}
		t.labels = t.labels[:len(t.labels)-1]
		return true, nil
	}

	if err := t.recordMergeValue(frame, offset); err != nil {
		return false, err
	}
	if frame.kind == labelIf && !frame.hasElse {
		// No else clause: the false edge of the conditional branch
		// targets the reject label, emitted here as an empty block
		// that falls through to merge.
		t.closeBlock(frame.mergeLabel)
		t.enterBlock(frame.rejectLabel)
		t.closeBlock(frame.mergeLabel)
	} else {
		t.closeBlock(frame.mergeLabel)
	}

	t.enterBlock(frame.mergeLabel)
	t.stack.values = t.stack.values[:frame.stackDepthAtEntry]
	t.labels = t.labels[:len(t.labels)-1]
	t.resolveMerge(frame)
	return false, nil
}

// resolveBranchTarget maps a Wasm label index (br/br_if/br_table's
// immediate) to the live labelFrame it names.
func (t *FunctionTranslator) resolveBranchTarget(labelIdx uint32, offset int) (*labelFrame, error) {
	if int(labelIdx) >= len(t.labels) {
		return nil, t.err(ErrBranchTypeMismatch, offset, "branch target index out of range")
	}
	return &t.labels[len(t.labels)-1-int(labelIdx)], nil
}

// emitBranchTo records this block's contribution to frame's merge (if
// any) and emits the jump, terminating the current block. Used by
// br/br_if/br_table, all of which branch to a frame's branchTarget —
// the loop header for a loop frame, the merge label otherwise.
func (t *FunctionTranslator) emitBranchTo(frame *labelFrame, offset int) error {
	if frame.kind == labelLoop {
		// A loop's branchTarget is its header, which carries no value
		// (Wasm loops pass results only on normal fallthrough exit).
		t.closeBlock(frame.branchTarget)
		return nil
	}
	if err := t.recordMergeValue(frame, offset); err != nil {
		return err
	}
	t.closeBlock(frame.branchTarget)
	return nil
}

func (t *FunctionTranslator) handleBr(r *bytecodeReader, offset int) error {
	idx, err := r.readVarU32()
	if err != nil {
		return t.err(ErrUnsupportedFeature, offset, "malformed br index")
	}
	frame, err := t.resolveBranchTarget(idx, offset)
	if err != nil {
		return err
	}
	return t.emitBranchTo(frame, offset)
}

func (t *FunctionTranslator) handleBrIf(r *bytecodeReader, offset int) error {
	idx, err := r.readVarU32()
	if err != nil {
		return t.err(ErrUnsupportedFeature, offset, "malformed br_if index")
	}
	frame, err := t.resolveBranchTarget(idx, offset)
	if err != nil {
		return err
	}
	cond, err := t.stack.popExpect(wasmfront.ValTypeI32)
	if err != nil {
		return t.attachSite(err, offset)
	}

	taken := t.builder.AllocID()
	fallthroughLabel := t.builder.AllocID()
	merge := t.builder.AllocID()

	t.builder.AddSelectionMerge(merge, spirv.SelectionControlNone)
	t.builder.AddBranchConditional(cond.ID, taken, fallthroughLabel)
	t.blockTerminated = true

	t.enterBlock(taken)
	if err := t.emitBranchTo(frame, offset); err != nil {
		return err
	}
	t.closeBlock(merge)

	t.enterBlock(fallthroughLabel)
	t.closeBlock(merge)

	t.enterBlock(merge)
	return nil
}

func (t *FunctionTranslator) handleBrTable(r *bytecodeReader, offset int) error {
	count, err := r.readVarU32()
	if err != nil {
		return t.err(ErrUnsupportedFeature, offset, "malformed br_table")
	}
	targets := make([]uint32, count)
	for i := range targets {
		idx, err := r.readVarU32()
		if err != nil {
			return t.err(ErrUnsupportedFeature, offset, "malformed br_table target")
		}
		targets[i] = idx
	}
	defaultIdx, err := r.readVarU32()
	if err != nil {
		return t.err(ErrUnsupportedFeature, offset, "malformed br_table default")
	}

	selector, err := t.stack.popExpect(wasmfront.ValTypeI32)
	if err != nil {
		return t.attachSite(err, offset)
	}

	boolType := t.resolver.Builder.AddTypeBool()
	i32Type := t.resolver.scalarTypeID(wasmfront.ValTypeI32)

	for i, labelIdx := range targets {
		frame, err := t.resolveBranchTarget(labelIdx, offset)
		if err != nil {
			return err
		}
		caseConst := t.builder.AddConstant(i32Type, uint32(i))
		cond := t.builder.AddBinaryOp(spirv.OpIEqual, boolType, selector.ID, caseConst)

		taken := t.builder.AllocID()
		next := t.builder.AllocID()
		t.builder.AddSelectionMerge(next, spirv.SelectionControlNone)
		t.builder.AddBranchConditional(cond, taken, next)
		t.blockTerminated = true

		t.enterBlock(taken)
		if err := t.emitBranchTo(frame, offset); err != nil {
			return err
		}

		t.enterBlock(next)
	}

	frame, err := t.resolveBranchTarget(defaultIdx, offset)
	if err != nil {
		return err
	}
	return t.emitBranchTo(frame, offset)
}

func (t *FunctionTranslator) handleReturn(offset int) error {
	fn := &t.labels[0]
	if len(fn.resultTypes) == 1 {
		v, err := t.stack.popExpect(fn.resultTypes[0])
		if err != nil {
			return t.attachSite(err, offset)
		}
		t.builder.AddReturnValue(v.ID)
	} else {
		t.builder.AddReturn()
	}
	t.blockTerminated = true
	return nil
}
