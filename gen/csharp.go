package gen

import (
	"fmt"
	"strings"

	"github.com/caryhaynie/opentk/model"
)

func init() {
	Register("csharp", func() Generator { return &CSharpGenerator{} })
}

// CSharpGenerator produces the managed binding: type aliases, enums, and
// a static partial class with per-category nested classes, each holding
// delegate declarations, storage slots, typed wrappers and an Init()
// loader. P/Invoke imports are emitted for the core scope only;
// extension entry points are resolved at load time.
type CSharpGenerator struct{}

func (g *CSharpGenerator) Name() string { return "csharp" }

func (g *CSharpGenerator) Generate(ctx *Context) ([]*OutputFile, error) {
	if err := ctx.checkSections(g.Name(), AllSections...); err != nil {
		return nil, err
	}
	if err := ctx.requireDelegates(); err != nil {
		return nil, err
	}
	file, err := g.generateBinding(ctx, Organize(ctx.Spec, ctx.Settings))
	if err != nil {
		return nil, fmt.Errorf("generating binding: %w", err)
	}
	return []*OutputFile{file}, nil
}

func (g *CSharpGenerator) gate(ctx *Context) gate {
	return gate{open: "#if " + ctx.Settings.DeprecatedFlag, close: "#endif"}
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func (g *CSharpGenerator) generateBinding(ctx *Context, scopes []*Scope) (*OutputFile, error) {
	s := ctx.Settings
	w := NewIndentWriter(s.Indent)

	writeLicense(w, ctx.License)

	w.Linef("namespace %s", s.Namespace)
	w.Block("{", "}", func() {
		w.Line("using System;")
		w.Line("using System.Runtime.InteropServices;")
		if ctx.wants(SectionTypes) {
			for _, t := range ctx.Spec.Types {
				if t.CSharp != "" {
					w.Linef("using %s = System.%s;", t.Name, t.CSharp)
				}
			}
		}
		w.Blank()

		root := scopes[0]
		if ctx.wants(SectionEnums) {
			for _, e := range root.Enums {
				g.writeEnum(w, e)
			}
		}

		w.Linef("public static partial class %s", s.ClassName)
		w.Block("{", "}", func() {
			if ctx.wants(SectionImports) {
				w.Linef("internal const string Library = %q;", s.ImportLibrary)
				w.Blank()
			}
			for _, sc := range scopes {
				if sc.IsRoot() {
					g.writeScopeBody(ctx, w, sc)
					continue
				}
				w.Linef("public static partial class %s", sc.Ident)
				w.Block("{", "}", func() {
					if ctx.wants(SectionEnums) {
						for _, e := range sc.Enums {
							g.writeEnum(w, e)
						}
					}
					g.writeScopeBody(ctx, w, sc)
				})
				w.Blank()
			}
		})
	})

	content, err := w.Bytes()
	if err != nil {
		return nil, err
	}
	return &OutputFile{Path: s.CSharpFile, Content: content}, nil
}

// writeEnum writes one enum. Unchecked constants keep the unchecked cast
// so literals above the signed range still compile.
func (g *CSharpGenerator) writeEnum(w *IndentWriter, e *model.Enumeration) {
	w.Linef("public enum %s", e.Name)
	w.Block("{", "}", func() {
		for _, c := range e.Constants {
			if c.Unchecked {
				w.Linef("%s = unchecked((int)%s),", c.Name, c.Literal)
			} else {
				w.Linef("%s = ((int)%s),", c.Name, c.Literal)
			}
		}
	})
	w.Blank()
}

func (g *CSharpGenerator) writeScopeBody(ctx *Context, w *IndentWriter, sc *Scope) {
	if len(sc.Functions) == 0 {
		return
	}
	s := ctx.Settings
	plan := planSlots(sc, s.Dedup, s.FunctionPrefix)
	ctx.logger().Debug("writing scope", "target", g.Name(), "scope", sc.Path(s.ClassName, "."),
		"functions", len(sc.Functions), "slots", plan.Len())

	if ctx.wants(SectionDelegates) {
		w.Line("internal static partial class Delegates")
		w.Block("{", "}", func() {
			writeGated(w, g.gate(ctx), plan.Forward, plan.Deprecated, func(sl slot) {
				d := sl.Delegate
				unsafe := ""
				if csUnsafe(d.Parameters) {
					unsafe = "unsafe "
				}
				w.Line("[System.Security.SuppressUnmanagedCodeSecurity()]")
				w.Linef("internal %sdelegate %s %s(%s);", unsafe, csReturn(d.ReturnType), sl.Pointer, csParams(d.Parameters))
				w.Linef("internal static %s %s;", sl.Pointer, sl.Native)
			})
		})
		w.Blank()
	}

	if ctx.wants(SectionImports) && sc.IsRoot() {
		w.Line("internal static partial class Imports")
		w.Block("{", "}", func() {
			writeGated(w, g.gate(ctx), plan.Forward, plan.Deprecated, func(sl slot) {
				d := sl.Delegate
				unsafe := ""
				if csUnsafe(d.Parameters) {
					unsafe = "unsafe "
				}
				w.Line("[System.Security.SuppressUnmanagedCodeSecurity()]")
				w.Linef("[DllImport(%s.Library, EntryPoint = %q, ExactSpelling = true)]", s.ClassName, sl.Native)
				w.Linef("internal static %sextern %s %s(%s);", unsafe, csReturn(d.ReturnType), sl.Native, csParams(d.Parameters))
			})
		})
		w.Blank()
	}

	if ctx.wants(SectionWrappers) {
		writeGated(w, g.gate(ctx), sc.Forward(), sc.Deprecated(), func(f *model.Function) {
			g.writeWrapper(ctx, w, f)
		})
	}

	if ctx.wants(SectionLoader) {
		w.Line("public static void Init()")
		w.Block("{", "}", func() {
			writeGated(w, g.gate(ctx), plan.Forward, plan.Deprecated, func(sl slot) {
				w.Linef("Delegates.%s = (Delegates.%s)Marshal.GetDelegateForFunctionPointer(%s(%q), typeof(Delegates.%s));",
					sl.Native, sl.Pointer, s.AddressLoader, sl.Native, sl.Pointer)
			})
		})
	}
}

// writeWrapper writes one typed wrapper. Arrays and references passed to
// pointer slots are pinned with fixed statements around the call.
func (g *CSharpGenerator) writeWrapper(ctx *Context, w *IndentWriter, f *model.Function) {
	if doc := docSummary(ctx, f); doc != "" {
		w.Linef("/// <summary>%s</summary>", xmlEscaper.Replace(doc))
	}
	args, pins := csCall(f.Parameters, f.Delegate.Parameters)
	native := f.Delegate.NativeName(ctx.Settings.FunctionPrefix)

	modifiers := "public static "
	if len(pins) > 0 || csUnsafe(f.Parameters) {
		modifiers += "unsafe "
	}
	w.Linef("%s%s %s(%s)", modifiers, csReturn(f.ReturnType), f.PublicName(), csParams(f.Parameters))
	w.Block("{", "}", func() {
		call := fmt.Sprintf("Delegates.%s(%s);", native, args)
		if f.Returns() {
			call = "return " + call
		}
		for _, p := range pins {
			if p.Reset != "" {
				w.Line(p.Reset)
			}
		}
		g.writePinned(w, pins, call)
	})
	w.Blank()
}

// writePinned nests one fixed block per pinned argument around call.
func (g *CSharpGenerator) writePinned(w *IndentWriter, pins []pinned, call string) {
	if len(pins) == 0 {
		w.Line(call)
		return
	}
	p := pins[0]
	w.Linef("fixed (%s %s = %s)", p.Type, p.Name, p.Expr)
	w.Block("{", "}", func() {
		g.writePinned(w, pins[1:], call)
	})
}
