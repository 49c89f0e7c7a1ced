package model

import (
	"testing"
)

func TestNativeName(t *testing.T) {
	tests := []struct {
		prefix, name string
		want         string
	}{
		{"gl", "DrawArrays", "glDrawArrays"},
		{"gl", "glDrawArrays", "glDrawArrays"},
		{"al", "BufferData", "alBufferData"},
		{"", "DrawArrays", "DrawArrays"},
	}
	for _, tt := range tests {
		got := NativeName(tt.prefix, tt.name)
		if got != tt.want {
			t.Errorf("NativeName(%q, %q) = %q, want %q", tt.prefix, tt.name, got, tt.want)
		}
	}
}

func TestIsVoid(t *testing.T) {
	for _, s := range []string{"", "void", "Void", " void "} {
		if !IsVoid(s) {
			t.Errorf("IsVoid(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"GLint", "void*", "IntPtr"} {
		if IsVoid(s) {
			t.Errorf("IsVoid(%q) = true, want false", s)
		}
	}
}

func TestParseArityAndDirection(t *testing.T) {
	if a, ok := ParseArity(""); !ok || a != ArityValue {
		t.Errorf("empty arity should default to value, got %v %v", a, ok)
	}
	if a, ok := ParseArity("reference"); !ok || a != ArityReference {
		t.Errorf("ParseArity(reference) = %v %v", a, ok)
	}
	if _, ok := ParseArity("matrix"); ok {
		t.Error("ParseArity should reject unknown keyword")
	}
	if d, ok := ParseDirection("inout"); !ok || d != DirectionInOut {
		t.Errorf("ParseDirection(inout) = %v %v", d, ok)
	}
	if _, ok := ParseDirection("sideways"); ok {
		t.Error("ParseDirection should reject unknown keyword")
	}
}

func TestPublicName(t *testing.T) {
	f := &Function{Name: "DrawArraysEXT", TrimmedName: "DrawArrays"}
	if f.PublicName() != "DrawArrays" {
		t.Errorf("PublicName = %q, want DrawArrays", f.PublicName())
	}
	f.TrimmedName = ""
	if f.PublicName() != "DrawArraysEXT" {
		t.Errorf("PublicName = %q, want DrawArraysEXT", f.PublicName())
	}
}

func TestFunctionCollection_Order(t *testing.T) {
	c := NewFunctionCollection()
	c.Add(&Function{Name: "A", Category: "Core"})
	c.Add(&Function{Name: "B", Category: "ARB"})
	c.Add(&Function{Name: "C", Category: "Core"})

	cats := c.Categories()
	if len(cats) != 2 || cats[0] != "Core" || cats[1] != "ARB" {
		t.Fatalf("categories = %v, want [Core ARB]", cats)
	}
	core := c.Functions("Core")
	if len(core) != 2 || core[0].Name != "A" || core[1].Name != "C" {
		t.Errorf("Core functions out of order: %v", core)
	}
	if c.Len() != 3 {
		t.Errorf("Len = %d, want 3", c.Len())
	}
	all := c.All()
	if len(all) != 3 || all[2].Name != "B" {
		t.Errorf("All() should list categories in insertion order")
	}
}

func TestEnumCollection_Duplicates(t *testing.T) {
	c := NewEnumCollection()
	c.Add(&Enumeration{Name: "TextureTarget"})
	c.Add(&Enumeration{Name: "BeginMode"})
	c.Add(&Enumeration{Name: "TextureTarget"})

	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
	if len(c.Duplicates) != 1 || c.Duplicates[0] != "TextureTarget" {
		t.Errorf("Duplicates = %v, want [TextureTarget]", c.Duplicates)
	}
	names := c.Names()
	if names[0] != "TextureTarget" || names[1] != "BeginMode" {
		t.Errorf("Names = %v", names)
	}
}

func TestDelegateCollection_SharedIdentity(t *testing.T) {
	c := NewDelegateCollection()
	first := c.Add(&Delegate{Name: "DrawArrays"})
	second := c.Add(&Delegate{Name: "DrawArrays"})
	if first != second {
		t.Error("adding the same delegate name twice should return the first definition")
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}
