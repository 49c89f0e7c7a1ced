package gen

import (
	"fmt"
	"strings"

	"github.com/caryhaynie/opentk/model"
)

func init() {
	Register("cpp", func() Generator { return &CppGenerator{} })
}

// CppGenerator produces the native-style binding pair:
//   - A header with type aliases, enum structs, and a class holding one
//     nested struct per extension category with pointer typedefs, storage
//     slot declarations and inline wrappers
//   - A source file defining every storage slot and the per-scope Init()
//     loaders
//
// Raw delegate and import tables have no native equivalent; requesting
// those sections fails with ErrNotSupported.
type CppGenerator struct{}

func (g *CppGenerator) Name() string { return "cpp" }

func (g *CppGenerator) Generate(ctx *Context) ([]*OutputFile, error) {
	if err := ctx.checkSections(g.Name(), SectionTypes, SectionEnums, SectionWrappers, SectionLoader); err != nil {
		return nil, err
	}
	if err := ctx.requireDelegates(); err != nil {
		return nil, err
	}
	scopes := Organize(ctx.Spec, ctx.Settings)

	var files []*OutputFile
	if ctx.wants(SectionTypes) || ctx.wants(SectionEnums) || ctx.wants(SectionWrappers) {
		header, err := g.generateHeader(ctx, scopes)
		if err != nil {
			return nil, fmt.Errorf("generating header: %w", err)
		}
		files = append(files, header)
	}
	if ctx.wants(SectionLoader) {
		source, err := g.generateSource(ctx, scopes)
		if err != nil {
			return nil, fmt.Errorf("generating source: %w", err)
		}
		files = append(files, source)
	}
	return files, nil
}

func (g *CppGenerator) gate(ctx *Context) gate {
	return gate{open: "#ifdef " + ctx.Settings.DeprecatedFlag, close: "#endif"}
}

// generateHeader produces the declarations header.
func (g *CppGenerator) generateHeader(ctx *Context, scopes []*Scope) (*OutputFile, error) {
	s := ctx.Settings
	w := NewIndentWriter(s.Indent)

	w.Linef("#ifndef %s", s.IncludeGuard)
	w.Linef("#define %s", s.IncludeGuard)
	w.Line("#pragma once")
	writeLicense(w, ctx.License)

	w.Linef("namespace %s", strings.ReplaceAll(s.Namespace, ".", "::"))
	w.Block("{", "}", func() {
		if ctx.wants(SectionTypes) && len(ctx.Spec.Types) > 0 {
			for _, t := range ctx.Spec.Types {
				if t.C != "" {
					w.Linef("typedef %s %s;", t.C, t.Name)
				}
			}
			w.Blank()
		}

		root := scopes[0]
		if ctx.wants(SectionEnums) {
			for _, e := range root.Enums {
				g.writeEnum(w, e)
			}
		}

		w.Linef("struct %s", s.ClassName)
		w.Block("{", "};", func() {
			for _, sc := range scopes {
				if sc.IsRoot() {
					g.writeScopeBody(ctx, w, sc)
					continue
				}
				w.Linef("struct %s", sc.Ident)
				w.Block("{", "};", func() {
					if ctx.wants(SectionEnums) {
						for _, e := range sc.Enums {
							g.writeEnum(w, e)
						}
					}
					g.writeScopeBody(ctx, w, sc)
				})
			}
		})
	})

	w.Line("#endif")

	content, err := w.Bytes()
	if err != nil {
		return nil, err
	}
	return &OutputFile{Path: s.HeaderFile, Content: content}, nil
}

// writeEnum writes one enum struct. The unchecked marker has no native
// equivalent and is dropped; the literal is kept as written.
func (g *CppGenerator) writeEnum(w *IndentWriter, e *model.Enumeration) {
	w.Linef("struct %s : Enumeration<%s>", e.Name, e.Name)
	w.Block("{", "};", func() {
		w.Linef("inline %s(int value) : Enumeration<%s>(value) { }", e.Name, e.Name)
		w.Line("enum")
		w.Block("{", "};", func() {
			for _, c := range e.Constants {
				w.Linef("%s = %s,", c.Name, c.Literal)
			}
		})
	})
	w.Blank()
}

// writeScopeBody writes the private delegate table, the Init declaration
// and the wrappers of one scope.
func (g *CppGenerator) writeScopeBody(ctx *Context, w *IndentWriter, sc *Scope) {
	if !ctx.wants(SectionWrappers) || len(sc.Functions) == 0 {
		return
	}
	s := ctx.Settings
	plan := planSlots(sc, s.Dedup, s.FunctionPrefix)
	ctx.logger().Debug("writing scope", "target", g.Name(), "scope", sc.Path(s.ClassName, "::"),
		"functions", len(sc.Functions), "slots", plan.Len())

	w.Line("private:")
	w.Line("struct Delegates")
	w.Block("{", "};", func() {
		writeGated(w, g.gate(ctx), plan.Forward, plan.Deprecated, func(sl slot) {
			d := sl.Delegate
			w.Linef("typedef %s (*%s)(%s);", cppReturn(d.ReturnType), sl.Pointer, cppParams(d.Parameters))
			w.Linef("static %s %s;", sl.Pointer, sl.Native)
		})
	})

	w.Line("public:")
	w.Line("static void Init();")
	writeGated(w, g.gate(ctx), sc.Forward(), sc.Deprecated(), func(f *model.Function) {
		g.writeWrapper(ctx, w, f)
	})
}

// writeWrapper writes one inline wrapper forwarding to its delegate slot.
func (g *CppGenerator) writeWrapper(ctx *Context, w *IndentWriter, f *model.Function) {
	if doc := docSummary(ctx, f); doc != "" {
		w.Linef("/// %s", doc)
	}
	native := f.Delegate.NativeName(ctx.Settings.FunctionPrefix)
	w.Linef("static inline %s %s(%s)", cppReturn(f.ReturnType), f.PublicName(), cppParams(f.Parameters))
	w.Block("{", "}", func() {
		call := fmt.Sprintf("Delegates::%s(%s);", native, cppArgs(f.Parameters, f.Delegate.Parameters))
		if f.Returns() {
			w.Line("return " + call)
		} else {
			w.Line(call)
		}
	})
}

// generateSource produces the slot definitions and Init() loaders.
func (g *CppGenerator) generateSource(ctx *Context, scopes []*Scope) (*OutputFile, error) {
	s := ctx.Settings
	w := NewIndentWriter(s.Indent)

	writeLicense(w, ctx.License)
	w.Linef("#include \"%s\"", s.HeaderFile)
	w.Blank()

	type scopePlan struct {
		path string
		plan slotPlan
	}
	var plans []scopePlan
	for _, sc := range scopes {
		if len(sc.Functions) == 0 {
			continue
		}
		plans = append(plans, scopePlan{
			path: sc.Path(s.ClassName, "::"),
			plan: planSlots(sc, s.Dedup, s.FunctionPrefix),
		})
	}

	w.Linef("namespace %s", strings.ReplaceAll(s.Namespace, ".", "::"))
	w.Block("{", "}", func() {
		if s.LoaderNamespace != "" {
			w.Linef("using namespace %s;", s.LoaderNamespace)
			w.Blank()
		}

		for _, p := range plans {
			writeGated(w, g.gate(ctx), p.plan.Forward, p.plan.Deprecated, func(sl slot) {
				w.Linef("%s::Delegates::%s %s::Delegates::%s = 0;", p.path, sl.Pointer, p.path, sl.Native)
			})
		}

		for _, p := range plans {
			w.Blank()
			w.Linef("void %s::Init()", p.path)
			w.Block("{", "}", func() {
				writeGated(w, g.gate(ctx), p.plan.Forward, p.plan.Deprecated, func(sl slot) {
					w.Linef("%s::Delegates::%s = (%s::Delegates::%s)%s(\"%s\");",
						p.path, sl.Native, p.path, sl.Pointer, s.AddressLoader, sl.Native)
				})
			})
		}
	})

	content, err := w.Bytes()
	if err != nil {
		return nil, err
	}
	return &OutputFile{Path: s.SourceFile, Content: content}, nil
}
