package gen

import (
	"strings"

	"github.com/caryhaynie/opentk/model"
	"github.com/golang-cz/textcase"
)

// Parameter and type rendering for the two target styles. Both targets
// spell spec type names as-is; the types section aliases them to the
// underlying native or managed type.

var cppKeywords = map[string]bool{
	"alignas": true, "alignof": true, "and": true, "auto": true, "bool": true, "break": true,
	"case": true, "catch": true, "char": true, "class": true, "const": true, "continue": true,
	"default": true, "delete": true, "do": true, "double": true, "else": true, "enum": true,
	"explicit": true, "export": true, "extern": true, "false": true, "float": true, "for": true,
	"friend": true, "goto": true, "if": true, "inline": true, "int": true, "long": true,
	"mutable": true, "namespace": true, "new": true, "not": true, "operator": true, "or": true,
	"private": true, "protected": true, "public": true, "register": true, "return": true,
	"short": true, "signed": true, "sizeof": true, "static": true, "struct": true, "switch": true,
	"template": true, "this": true, "throw": true, "true": true, "try": true, "typedef": true,
	"typename": true, "union": true, "unsigned": true, "using": true, "virtual": true,
	"void": true, "volatile": true, "while": true, "xor": true,
}

var csKeywords = map[string]bool{
	"abstract": true, "as": true, "base": true, "bool": true, "break": true, "byte": true,
	"case": true, "catch": true, "char": true, "checked": true, "class": true, "const": true,
	"continue": true, "decimal": true, "default": true, "delegate": true, "do": true,
	"double": true, "else": true, "enum": true, "event": true, "explicit": true, "extern": true,
	"false": true, "finally": true, "fixed": true, "float": true, "for": true, "foreach": true,
	"goto": true, "if": true, "implicit": true, "in": true, "int": true, "interface": true,
	"internal": true, "is": true, "lock": true, "long": true, "namespace": true, "new": true,
	"null": true, "object": true, "operator": true, "out": true, "override": true, "params": true,
	"private": true, "protected": true, "public": true, "readonly": true, "ref": true,
	"return": true, "sbyte": true, "sealed": true, "short": true, "sizeof": true,
	"stackalloc": true, "static": true, "string": true, "struct": true, "switch": true,
	"this": true, "throw": true, "true": true, "try": true, "typeof": true, "uint": true,
	"ulong": true, "unchecked": true, "unsafe": true, "ushort": true, "using": true,
	"virtual": true, "void": true, "volatile": true, "while": true,
}

// cppName returns a parameter name that is not a C++ keyword.
func cppName(name string) string {
	if cppKeywords[name] {
		return name + "_"
	}
	return name
}

// csName returns the camelCase managed parameter name, escaped with '@'
// when it is a C# keyword.
func csName(name string) string {
	n := textcase.CamelCase(name)
	if n == "" {
		n = name
	}
	if csKeywords[n] {
		return "@" + n
	}
	return n
}

func pointerDepth(p model.Parameter) int {
	if p.Pointers < 1 {
		return 1
	}
	return p.Pointers
}

// cppType renders the native type of a parameter.
func cppType(p model.Parameter) string {
	base := p.Type
	if p.Const {
		base = "const " + base
	}
	switch p.Arity {
	case model.ArityPointer:
		return base + strings.Repeat("*", pointerDepth(p))
	case model.ArityArray:
		return base + "*"
	case model.ArityReference:
		return base + "&"
	default:
		return base
	}
}

// cppParams renders a native parameter list without parentheses.
func cppParams(params []model.Parameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = cppType(p) + " " + cppName(p.Name)
	}
	return strings.Join(parts, ", ")
}

// cppArgs renders the arguments a native wrapper passes to its delegate.
// A reference forwarded to a pointer slot passes its address; a type that
// differs from the delegate's is cast.
func cppArgs(wrapper, delegate []model.Parameter) string {
	parts := make([]string, len(wrapper))
	for i, w := range wrapper {
		d := delegate[i]
		arg := cppName(w.Name)
		if w.Arity == model.ArityReference && d.Arity == model.ArityPointer {
			arg = "&" + arg
		}
		if w.Type != d.Type || w.Const != d.Const || (w.Arity == model.ArityPointer && pointerDepth(w) != pointerDepth(d)) {
			arg = "(" + cppType(d) + ")" + arg
		}
		parts[i] = arg
	}
	return strings.Join(parts, ", ")
}

// csType renders the managed type of a parameter as it appears in a
// signature, including ref/out modifiers and marshalling attributes.
func csType(p model.Parameter) string {
	switch p.Arity {
	case model.ArityPointer:
		return p.Type + strings.Repeat("*", pointerDepth(p))
	case model.ArityArray:
		if p.Direction == model.DirectionOut {
			return "[OutAttribute] " + p.Type + "[]"
		}
		return p.Type + "[]"
	case model.ArityReference:
		if p.Direction == model.DirectionOut {
			return "out " + p.Type
		}
		return "ref " + p.Type
	default:
		return p.Type
	}
}

func csParams(params []model.Parameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = csType(p) + " " + csName(p.Name)
	}
	return strings.Join(parts, ", ")
}

// csUnsafe reports whether a managed signature needs the unsafe modifier.
func csUnsafe(params ...[]model.Parameter) bool {
	for _, list := range params {
		for _, p := range list {
			if p.Arity == model.ArityPointer {
				return true
			}
		}
	}
	return false
}

// pinned is a managed argument that must be fixed before the call.
type pinned struct {
	Type string // pointer type, e.g. "GLuint*"
	Name string // pinned local, e.g. "textures_ptr"
	Expr string // pinned expression, e.g. "textures" or "&textures"
	// Reset is the assignment required before an out reference can be pinned.
	Reset string
}

// csCall renders the arguments a managed wrapper passes to its delegate,
// plus the fixed statements needed to turn arrays and references into
// the raw pointers a pointer slot expects.
func csCall(wrapper, delegate []model.Parameter) (args string, pins []pinned) {
	parts := make([]string, len(wrapper))
	for i, w := range wrapper {
		d := delegate[i]
		name := csName(w.Name)
		switch {
		case d.Arity == model.ArityPointer && (w.Arity == model.ArityArray || w.Arity == model.ArityReference):
			pin := pinned{
				Type: w.Type + "*",
				Name: strings.TrimPrefix(name, "@") + "_ptr",
				Expr: name,
			}
			if w.Arity == model.ArityReference {
				pin.Expr = "&" + name
				if w.Direction == model.DirectionOut {
					pin.Reset = name + " = default(" + w.Type + ");"
				}
			}
			pins = append(pins, pin)
			arg := pin.Name
			if w.Type != d.Type || pointerDepth(d) != 1 {
				arg = "(" + csType(d) + ")" + arg
			}
			parts[i] = arg
		case w.Arity == model.ArityReference:
			if w.Direction == model.DirectionOut {
				parts[i] = "out " + name
			} else {
				parts[i] = "ref " + name
			}
		case w.Type != d.Type || (w.Arity == model.ArityPointer && pointerDepth(w) != pointerDepth(d)):
			parts[i] = "(" + csType(d) + ")" + name
		default:
			parts[i] = name
		}
	}
	return strings.Join(parts, ", "), pins
}

// csReturn renders a managed return type.
func csReturn(t string) string {
	if model.IsVoid(t) {
		return "void"
	}
	return t
}

// cppReturn renders a native return type.
func cppReturn(t string) string {
	if model.IsVoid(t) {
		return "void"
	}
	return t
}
