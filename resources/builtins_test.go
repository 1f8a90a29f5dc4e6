package resources

import (
	"testing"

	"github.com/gogpu/wasm2spirv/ir"
)

func TestLookupBuiltinImport_Known(t *testing.T) {
	b, err := LookupBuiltinImport("spir_global.global_invocation_id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Builtin != ir.BuiltinGlobalInvocationID || b.VectorWidth != 3 {
		t.Errorf("unexpected builtin descriptor: %+v", b)
	}
}

func TestLookupBuiltinImport_Unknown(t *testing.T) {
	if _, err := LookupBuiltinImport("spir_global.not_a_real_builtin"); err == nil {
		t.Error("expected error for unknown built-in name")
	}
}

func TestBuiltinMaterializer_DeduplicatesSharedVector(t *testing.T) {
	mc := newTestModuleContext(ir.Target{VersionMajor: 1, VersionMinor: 3})
	m := NewBuiltinMaterializer(mc)

	x, _ := LookupBuiltinImport("spir_global.global_invocation_id_x")
	y, _ := LookupBuiltinImport("spir_global.global_invocation_id_y")

	vx, _ := m.Materialize(x)
	vy, _ := m.Materialize(y)

	if vx != vy {
		t.Error("expected both lane accessors to share the same underlying Input variable")
	}
	if len(mc.GlobalVariables()) != 1 {
		t.Errorf("expected exactly 1 declared variable, got %d", len(mc.GlobalVariables()))
	}
}

func TestBuiltinMaterializer_DistinctBuiltinsGetDistinctVariables(t *testing.T) {
	mc := newTestModuleContext(ir.Target{VersionMajor: 1, VersionMinor: 3})
	m := NewBuiltinMaterializer(mc)

	gid, _ := LookupBuiltinImport("spir_global.global_invocation_id")
	nwg, _ := LookupBuiltinImport("spir_global.num_workgroups")

	v1, _ := m.Materialize(gid)
	v2, _ := m.Materialize(nwg)

	if v1 == v2 {
		t.Error("distinct built-ins must not share a variable")
	}
}
