package gen

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/caryhaynie/opentk/config"
)

func TestCppGenerator_Minimal(t *testing.T) {
	ctx := loadTestAPI(t, "minimal.yaml")
	g := &CppGenerator{}
	header := generateFile(t, g, ctx, "gldef++.h")
	source := generateFile(t, g, ctx, "gldef++.cpp")

	for _, want := range []string{
		"#ifndef GLDEFPP_H",
		"#define GLDEFPP_H",
		"#pragma once",
		"namespace OpenTK",
		"typedef unsigned int GLenum;",
		"typedef int GLsizei;",
		"struct TextureTarget : Enumeration<TextureTarget>",
		"inline TextureTarget(int value) : Enumeration<TextureTarget>(value) { }",
		"TEXTURE_1D = 0x0DE0,",
		"TEXTURE_3D = 0x8070,",
		"struct GL",
		"typedef void (*pglDrawArrays)(GLenum mode, GLint first, GLsizei count);",
		"static void Init();",
		"/// [requires: v1.1]\n",
		"static inline void DrawArrays(GLenum mode, GLint first, GLsizei count)",
		"static inline void DrawArraysEXT(GLenum mode, GLint first, GLsizei count)",
		"/// [requires: v1.1][deprecated: v1.1]",
	} {
		if !strings.Contains(header, want) {
			t.Errorf("header missing %q", want)
		}
	}
	if strings.Contains(header, "_unchecked") {
		t.Error("unchecked marker should not reach native output")
	}
	if n := strings.Count(header, "static pglDrawArrays glDrawArrays;"); n != 1 {
		t.Errorf("expected one slot declaration, got %d", n)
	}
	if n := strings.Count(header, "Delegates::glDrawArrays(mode, first, count);"); n != 2 {
		t.Errorf("expected both wrappers to forward to the shared slot, got %d", n)
	}

	delegates := between(t, header, "struct Delegates", "};")
	if strings.Contains(delegates, "#ifdef") {
		t.Errorf("slot already emitted unconditionally should not be gated:\n%s", delegates)
	}
	deprecated := between(t, header, "#ifdef ALLOW_DEPRECATED_GL", "#endif")
	if !strings.Contains(deprecated, "DrawArraysEXT") {
		t.Errorf("deprecated wrapper should be gated, got:\n%s", deprecated)
	}
	if !strings.HasSuffix(header, "#endif\n") {
		t.Error("header should close the include guard")
	}

	for _, want := range []string{
		`#include "gldef++.h"`,
		"using namespace Internals;",
		"GL::Delegates::pglDrawArrays GL::Delegates::glDrawArrays = 0;",
		"void GL::Init()",
		`GL::Delegates::glDrawArrays = (GL::Delegates::pglDrawArrays)GetAddress("glDrawArrays");`,
	} {
		if !strings.Contains(source, want) {
			t.Errorf("source missing %q", want)
		}
	}
	if n := strings.Count(source, "GetAddress("); n != 1 {
		t.Errorf("expected one load, got %d", n)
	}
}

func TestCppGenerator_DedupPolicies(t *testing.T) {
	tests := []struct {
		policy config.DedupPolicy
		slots  int
	}{
		{config.DedupAdjacent, 2},
		{config.DedupGroup, 2},
		{config.DedupScope, 1},
	}
	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			ctx := loadTestAPI(t, "minimal.yaml")
			ctx.Settings.Dedup = tt.policy
			g := &CppGenerator{}
			header := generateFile(t, g, ctx, "gldef++.h")
			source := generateFile(t, g, ctx, "gldef++.cpp")

			if n := strings.Count(header, "static pglDrawArrays glDrawArrays;"); n != tt.slots {
				t.Errorf("expected %d declarations, got %d", tt.slots, n)
			}
			if n := strings.Count(source, "= 0;"); n != tt.slots {
				t.Errorf("expected %d definitions, got %d", tt.slots, n)
			}
			if n := strings.Count(source, `GetAddress("glDrawArrays")`); n != tt.slots {
				t.Errorf("expected %d loads, got %d", tt.slots, n)
			}
		})
	}
}

func TestCppGenerator_Full(t *testing.T) {
	ctx := loadTestAPI(t, "full.yaml")
	g := &CppGenerator{}
	header := generateFile(t, g, ctx, "gldef++.h")
	source := generateFile(t, g, ctx, "gldef++.cpp")

	for _, want := range []string{
		"ALL_ATTRIB_BITS = 0xFFFFFFFF,",
		"TIMEOUT_IGNORED = 0xFFFFFFFFFFFFFFFF,",
		"static inline void GenTextures(GLsizei n, GLuint* textures)",
		"Delegates::glGenTextures(n, textures);",
		"static inline void GenTextures(GLsizei n, GLuint& textures)",
		"Delegates::glGenTextures(n, &textures);",
		"static inline GLint GetAttribLocation(GLuint program, const GLchar* name)",
		"return Delegates::glGetAttribLocation(program, name);",
		"static inline GLboolean IsEnabled(GLenum cap)",
		"static inline void BindTexture(TextureTarget target, GLuint texture)",
		"Delegates::glBindTexture((GLenum)target, texture);",
		"struct EXT_vertex_array",
		"Delegates::glDrawArraysEXT(mode, first, count);",
		"struct T3dfx",
		"struct Tbuffer : Enumeration<Tbuffer>",
		"/// [requires: 3dfx]",
		"static inline void TbufferMask(GLuint mask)",
		"/// [requires: v1.0][deprecated: v3.2]",
	} {
		if !strings.Contains(header, want) {
			t.Errorf("header missing %q", want)
		}
	}

	if strings.Index(header, "struct Tbuffer") < strings.Index(header, "struct T3dfx") {
		t.Error("category enum should be nested in its scope")
	}
	if strings.Index(header, "struct TextureTarget") > strings.Index(header, "struct GL\n") {
		t.Error("core enums should precede the class")
	}
	if got := strings.Count(header, "static void Init();"); got != 3 {
		t.Errorf("expected an Init declaration per scope, got %d", got)
	}

	for _, want := range []string{
		"GL::T3dfx::Delegates::pglTbufferMask3DFX GL::T3dfx::Delegates::glTbufferMask3DFX = 0;",
		"void GL::T3dfx::Init()",
		"void GL::EXT_vertex_array::Init()",
		`GL::EXT_vertex_array::Delegates::glDrawArraysEXT = (GL::EXT_vertex_array::Delegates::pglDrawArraysEXT)GetAddress("glDrawArraysEXT");`,
	} {
		if !strings.Contains(source, want) {
			t.Errorf("source missing %q", want)
		}
	}
	if strings.Contains(header+source, "::3dfx") || strings.Contains(header, "struct 3dfx") {
		t.Error("raw category name leaked into an identifier")
	}

	// One load per distinct entry point.
	if got := strings.Count(source, "GetAddress("); got != ctx.Spec.Delegates.Len() {
		t.Errorf("expected %d loads, got %d", ctx.Spec.Delegates.Len(), got)
	}
	deprecatedSlots := between(t, header, "#ifdef ALLOW_DEPRECATED_GL", "#endif")
	if !strings.Contains(deprecatedSlots, "static pglBegin glBegin;") {
		t.Errorf("deprecated-only slot should be gated, got:\n%s", deprecatedSlots)
	}
}

func TestCppGenerator_Deterministic(t *testing.T) {
	ctx := loadTestAPI(t, "full.yaml")
	g := &CppGenerator{}
	first, err := g.Generate(ctx)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	second, err := g.Generate(ctx)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("file count differs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Path != second[i].Path || !bytes.Equal(first[i].Content, second[i].Content) {
			t.Errorf("%s differs between runs", first[i].Path)
		}
	}
}

func TestCppGenerator_UnsupportedSections(t *testing.T) {
	for _, sec := range []Section{SectionDelegates, SectionImports} {
		t.Run(string(sec), func(t *testing.T) {
			ctx := loadTestAPI(t, "minimal.yaml")
			ctx.Sections = []Section{SectionWrappers, sec}
			_, err := (&CppGenerator{}).Generate(ctx)
			if !errors.Is(err, ErrNotSupported) {
				t.Fatalf("expected ErrNotSupported, got %v", err)
			}
			var unsupported *UnsupportedError
			if !errors.As(err, &unsupported) || unsupported.Section != sec || unsupported.Target != "cpp" {
				t.Errorf("unexpected error detail %v", err)
			}
		})
	}
}

func TestCppGenerator_SectionSubsets(t *testing.T) {
	ctx := loadTestAPI(t, "minimal.yaml")
	ctx.Sections = []Section{SectionLoader}
	files, err := (&CppGenerator{}).Generate(ctx)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(files) != 1 || files[0].Path != "gldef++.cpp" {
		t.Fatalf("expected only the source file, got %d files", len(files))
	}

	ctx.Sections = []Section{SectionEnums}
	header := generateFile(t, &CppGenerator{}, ctx, "gldef++.h")
	if !strings.Contains(header, "struct TextureTarget") {
		t.Error("expected enums")
	}
	if strings.Contains(header, "typedef unsigned int") || strings.Contains(header, "Delegates") {
		t.Errorf("unexpected sections in enum-only header:\n%s", header)
	}
}

func TestCppGenerator_License(t *testing.T) {
	ctx := loadTestAPI(t, "minimal.yaml")
	data, err := os.ReadFile(filepath.Join("..", "testdata", "LICENSE.txt"))
	if err != nil {
		t.Fatal(err)
	}
	ctx.License = string(data)
	header := generateFile(t, &CppGenerator{}, ctx, "gldef++.h")
	source := generateFile(t, &CppGenerator{}, ctx, "gldef++.cpp")

	if !strings.HasPrefix(source, strings.TrimRight(ctx.License, "\n")) {
		t.Error("source should start with the license")
	}
	if !strings.Contains(header, "#pragma once\n"+strings.TrimRight(ctx.License, "\n")) {
		t.Error("header should carry the license after the guard")
	}

	ctx.License = ""
	source = generateFile(t, &CppGenerator{}, ctx, "gldef++.cpp")
	if !strings.HasPrefix(source, "#include") {
		t.Errorf("expected no leading blank line without a license, got %q", source[:20])
	}
}

func TestCppGenerator_CustomSettings(t *testing.T) {
	ctx := loadTestAPI(t, "minimal.yaml")
	ctx.Settings.Namespace = "Acme.Graphics"
	ctx.Settings.ClassName = "GLES"
	ctx.Settings.DeprecatedFlag = "LEGACY"
	ctx.Settings.LoaderNamespace = ""
	ctx.Settings.Indent = "\t"
	header := generateFile(t, &CppGenerator{}, ctx, "gldef++.h")
	source := generateFile(t, &CppGenerator{}, ctx, "gldef++.cpp")

	if !strings.Contains(header, "namespace Acme::Graphics") || !strings.Contains(header, "\tstruct GLES\n") {
		t.Errorf("settings not applied to header:\n%s", header)
	}
	if !strings.Contains(header, "#ifdef LEGACY") {
		t.Error("expected custom deprecated flag")
	}
	if strings.Contains(source, "using namespace") {
		t.Error("expected no using directive without a loader namespace")
	}
	if !strings.Contains(source, "void GLES::Init()") {
		t.Error("expected custom class name in loader")
	}
}
