package ir

import "testing"

func TestModuleContext_StaticCapabilityRejectsUndeclared(t *testing.T) {
	policy := NewStaticCapabilityPolicy(1) // Shader
	mc := NewModuleContext(AddressingLogical, MemoryModelGLSL450, Target{Platform: PlatformVulkan, VersionMajor: 1, VersionMinor: 1}, policy, ExtensionPolicy{Kind: ExtensionStatic, Set: map[string]bool{}})

	if err := mc.RequireCapability(1); err != nil {
		t.Errorf("declared capability should be accepted, got %v", err)
	}
	if err := mc.RequireCapability(4417); err == nil {
		t.Error("expected error for undeclared capability under static policy")
	}
}

func TestModuleContext_DynamicCapabilityAccumulates(t *testing.T) {
	policy := NewDynamicCapabilityPolicy()
	mc := NewModuleContext(AddressingLogical, MemoryModelGLSL450, Target{Platform: PlatformVulkan, VersionMajor: 1, VersionMinor: 1}, policy, ExtensionPolicy{Kind: ExtensionDynamic, Set: map[string]bool{}})

	if err := mc.RequireCapability(4417); err != nil {
		t.Errorf("dynamic policy should accept any capability, got %v", err)
	}
	caps := mc.Capabilities()
	if len(caps) != 1 || caps[0] != 4417 {
		t.Errorf("expected accumulated capability set {4417}, got %v", caps)
	}
}

func TestModuleContext_TargetAtLeast(t *testing.T) {
	t13 := Target{VersionMajor: 1, VersionMinor: 3}
	t12 := Target{VersionMajor: 1, VersionMinor: 2}

	if !t13.AtLeast(1, 3) {
		t.Error("1.3 should satisfy AtLeast(1, 3)")
	}
	if t12.AtLeast(1, 3) {
		t.Error("1.2 should not satisfy AtLeast(1, 3)")
	}
	if !t13.AtLeast(1, 0) {
		t.Error("1.3 should satisfy AtLeast(1, 0)")
	}
}

func TestModuleContext_ExtensionStaticRejectsUndeclared(t *testing.T) {
	mc := NewModuleContext(AddressingLogical, MemoryModelGLSL450, Target{}, NewDynamicCapabilityPolicy(), ExtensionPolicy{Kind: ExtensionStatic, Set: map[string]bool{"SPV_KHR_variable_pointers": true}})

	if err := mc.RequireExtension("SPV_KHR_variable_pointers"); err != nil {
		t.Errorf("declared extension should be accepted, got %v", err)
	}
	if err := mc.RequireExtension("SPV_KHR_8bit_storage"); err == nil {
		t.Error("expected error for undeclared extension under static policy")
	}
}
