package model

import (
	"strings"
)

// Spec is the in-memory model of a native API surface.
// It is built once by the loader and treated as read-only by every generator.
type Spec struct {
	Types     []TypeAlias
	Enums     *EnumCollection
	Delegates *DelegateCollection
	Functions *FunctionCollection
}

// NewSpec returns an empty Spec with initialized collections.
func NewSpec() *Spec {
	return &Spec{
		Enums:     NewEnumCollection(),
		Delegates: NewDelegateCollection(),
		Functions: NewFunctionCollection(),
	}
}

// TypeAlias maps a spec type name to its managed and native spellings.
type TypeAlias struct {
	Name   string // e.g. "GLenum"
	CSharp string // e.g. "Int32", emitted as System.Int32
	C      string // e.g. "unsigned int"
}

// Enumeration is a named, ordered set of integer constants.
type Enumeration struct {
	Name      string
	Category  string // empty for the root scope
	Constants []Constant
}

// Constant is a single named enum value.
type Constant struct {
	Name    string
	Value   int64
	Literal string // original spelling, e.g. "0x0DE0"
	// Unchecked marks a literal that must be stored as unsigned despite
	// the signed declared type of the enum.
	Unchecked bool
}

// Direction is the data flow of a parameter.
type Direction int

const (
	DirectionIn Direction = iota
	DirectionOut
	DirectionInOut
)

func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "in"
	case DirectionOut:
		return "out"
	case DirectionInOut:
		return "inout"
	default:
		return "unknown"
	}
}

// ParseDirection converts a spec direction keyword. Empty means "in".
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "", "in":
		return DirectionIn, true
	case "out":
		return DirectionOut, true
	case "inout":
		return DirectionInOut, true
	default:
		return DirectionIn, false
	}
}

// Arity describes how a parameter value is passed.
type Arity int

const (
	ArityValue Arity = iota
	ArityPointer
	ArityArray
	ArityReference
)

func (a Arity) String() string {
	switch a {
	case ArityValue:
		return "value"
	case ArityPointer:
		return "pointer"
	case ArityArray:
		return "array"
	case ArityReference:
		return "reference"
	default:
		return "unknown"
	}
}

// ParseArity converts a spec arity keyword. Empty means "value".
func ParseArity(s string) (Arity, bool) {
	switch s {
	case "", "value":
		return ArityValue, true
	case "pointer":
		return ArityPointer, true
	case "array":
		return ArityArray, true
	case "reference":
		return ArityReference, true
	default:
		return ArityValue, false
	}
}

// Parameter is one entry of a delegate or function parameter list.
type Parameter struct {
	Name      string
	Type      string
	Direction Direction
	Arity     Arity
	Pointers  int  // pointer depth for ArityPointer, at least 1
	Const     bool // only meaningful for native targets
}

// VoidType is the return type denoting "no value".
const VoidType = "void"

// IsVoid reports whether a return type denotes "no value".
func IsVoid(t string) bool {
	return t == "" || strings.EqualFold(strings.TrimSpace(t), VoidType)
}

// Delegate is an unbound native signature bound to one entry point.
type Delegate struct {
	Name       string // language-neutral name, e.g. "DrawArrays"
	ReturnType string
	Parameters []Parameter
}

// NativeName returns the entry-point symbol for the delegate,
// e.g. "DrawArrays" with prefix "gl" → "glDrawArrays".
// A name that already carries the prefix is returned unchanged.
func (d *Delegate) NativeName(prefix string) string {
	return NativeName(prefix, d.Name)
}

// NativeName applies the API naming prefix to a language-neutral name.
func NativeName(prefix, name string) string {
	if prefix == "" || strings.HasPrefix(name, prefix) {
		return name
	}
	return prefix + name
}

// PointerTypeName returns the function-pointer type name for a delegate slot.
func PointerTypeName(nativeName string) string {
	return "p" + nativeName
}

// Function is a public overload that forwards to a Delegate.
type Function struct {
	Name              string
	TrimmedName       string
	Delegate          *Delegate
	Category          string
	Version           string
	Deprecated        bool
	DeprecatedVersion string
	ReturnType        string
	Parameters        []Parameter
}

// PublicName returns the wrapper name, preferring the trimmed name.
func (f *Function) PublicName() string {
	if f.TrimmedName != "" {
		return f.TrimmedName
	}
	return f.Name
}

// Returns reports whether the wrapper produces a value.
func (f *Function) Returns() bool {
	return !IsVoid(f.ReturnType)
}
