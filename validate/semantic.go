package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/caryhaynie/opentk/gen"
	"github.com/caryhaynie/opentk/model"
)

// ValidationError represents a single semantic validation error.
type ValidationError struct {
	Path    string // e.g., "functions.Core[1].parameters[0].arity"
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationResult holds all validation errors.
type ValidationResult struct {
	Errors []ValidationError
}

func (r *ValidationResult) addError(path, message string) {
	r.Errors = append(r.Errors, ValidationError{Path: path, Message: message})
}

func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) Error() string {
	if r.IsValid() {
		return ""
	}
	var msgs []string
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "\n")
}

// Options carries the naming settings that affect identifier identity.
type Options struct {
	FunctionPrefix string
	DigitPrefix    string
	CoreCategory   string
	// LoaderName is the generated per-scope initializer; a parameterless
	// wrapper with this name would collide with it.
	LoaderName string
}

// Validate performs semantic validation on a loaded spec.
// Type resolution is skipped when the spec declares no type aliases.
func Validate(spec *model.Spec, opts Options) *ValidationResult {
	result := &ValidationResult{}
	if opts.LoaderName == "" {
		opts.LoaderName = "Init"
	}

	for _, name := range spec.Enums.Duplicates {
		result.addError("enums."+name, fmt.Sprintf("duplicate enum name %q", name))
	}
	for _, name := range spec.Delegates.Duplicates {
		result.addError("delegates."+name, fmt.Sprintf("duplicate delegate name %q", name))
	}

	knownTypes := map[string]bool{}
	for i, t := range spec.Types {
		if knownTypes[t.Name] {
			result.addError(fmt.Sprintf("types[%d].name", i), fmt.Sprintf("duplicate type alias %q", t.Name))
		}
		knownTypes[t.Name] = true
	}
	for _, e := range spec.Enums.Values() {
		knownTypes[e.Name] = true
	}
	checkTypes := len(spec.Types) > 0

	for _, e := range spec.Enums.Values() {
		validateEnum(result, e)
	}

	// Two delegate names resolving to one entry point would share a slot.
	natives := map[string]string{}
	for _, d := range spec.Delegates.Values() {
		path := "delegates." + d.Name
		native := d.NativeName(opts.FunctionPrefix)
		if other, ok := natives[native]; ok {
			result.addError(path+".name", fmt.Sprintf("delegate %q resolves to entry point %q already bound by %q", d.Name, native, other))
		}
		natives[native] = d.Name
		if checkTypes {
			checkType(result, path+".returns", d.ReturnType, knownTypes)
			for k, p := range d.Parameters {
				checkType(result, fmt.Sprintf("%s.parameters[%d].type", path, k), p.Type, knownTypes)
			}
		}
	}

	validateCategories(result, spec, opts)

	for _, cat := range spec.Functions.Categories() {
		signatures := map[string]bool{}
		for i, fn := range spec.Functions.Functions(cat) {
			path := fmt.Sprintf("functions.%s[%d]", cat, i)
			validateFunction(result, path, fn, checkTypes, knownTypes)

			sig := signature(fn)
			if signatures[sig] {
				result.addError(path, fmt.Sprintf("duplicate overload %s in category %q", sig, cat))
			}
			signatures[sig] = true

			if fn.PublicName() == opts.LoaderName && len(fn.Parameters) == 0 {
				result.addError(path+".name", fmt.Sprintf("wrapper %q collides with the generated loader", fn.PublicName()))
			}
		}
	}

	return result
}

func validateEnum(result *ValidationResult, e *model.Enumeration) {
	seen := map[string]bool{}
	for j, c := range e.Constants {
		if seen[c.Name] {
			result.addError(fmt.Sprintf("enums.%s.constants[%d].name", e.Name, j),
				fmt.Sprintf("duplicate constant name %q in enum %q", c.Name, e.Name))
		}
		seen[c.Name] = true
	}
}

// validateCategories rejects distinct categories that fix up to the same
// scope identifier.
func validateCategories(result *ValidationResult, spec *model.Spec, opts Options) {
	byIdent := map[string][]string{}
	add := func(cat string) {
		if cat == "" || cat == opts.CoreCategory {
			return
		}
		ident := gen.FixIdentifier(cat, opts.DigitPrefix)
		for _, existing := range byIdent[ident] {
			if existing == cat {
				return
			}
		}
		byIdent[ident] = append(byIdent[ident], cat)
	}
	for _, cat := range spec.Functions.Categories() {
		add(cat)
	}
	for _, e := range spec.Enums.Values() {
		add(e.Category)
	}

	idents := make([]string, 0, len(byIdent))
	for ident := range byIdent {
		idents = append(idents, ident)
	}
	sort.Strings(idents)
	for _, ident := range idents {
		if cats := byIdent[ident]; len(cats) > 1 {
			result.addError("categories."+ident, fmt.Sprintf("categories %s all map to scope %q", strings.Join(quoteAll(cats), ", "), ident))
		}
	}
}

func validateFunction(result *ValidationResult, path string, fn *model.Function, checkTypes bool, knownTypes map[string]bool) {
	if fn.Delegate == nil {
		result.addError(path+".delegate", fmt.Sprintf("function %q does not reference a delegate", fn.Name))
		return
	}
	d := fn.Delegate
	if len(fn.Parameters) != len(d.Parameters) {
		result.addError(path+".parameters", fmt.Sprintf("function %q has %d parameters but delegate %q has %d",
			fn.Name, len(fn.Parameters), d.Name, len(d.Parameters)))
		return
	}
	if model.IsVoid(fn.ReturnType) != model.IsVoid(d.ReturnType) {
		result.addError(path+".returns", fmt.Sprintf("function %q return type %q does not match delegate return type %q",
			fn.Name, fn.ReturnType, d.ReturnType))
	}
	if checkTypes {
		checkType(result, path+".returns", fn.ReturnType, knownTypes)
	}
	for k, p := range fn.Parameters {
		paramPath := fmt.Sprintf("%s.parameters[%d]", path, k)
		if !compatibleArity(p.Arity, d.Parameters[k].Arity) {
			result.addError(paramPath+".arity", fmt.Sprintf("%s parameter %q cannot forward to %s delegate parameter",
				p.Arity, p.Name, d.Parameters[k].Arity))
		}
		if p.Arity == model.ArityValue && p.Direction != model.DirectionIn {
			result.addError(paramPath+".direction", fmt.Sprintf("value parameter %q cannot be %s", p.Name, p.Direction))
		}
		if checkTypes {
			checkType(result, paramPath+".type", p.Type, knownTypes)
		}
	}
}

// compatibleArity reports whether a wrapper parameter can be passed to a
// delegate parameter. Any indirect form converts to a raw pointer.
func compatibleArity(wrapper, delegate model.Arity) bool {
	if wrapper == delegate {
		return true
	}
	return delegate == model.ArityPointer && wrapper != model.ArityValue
}

func checkType(result *ValidationResult, path, t string, knownTypes map[string]bool) {
	if model.IsVoid(t) {
		return
	}
	if !knownTypes[t] {
		result.addError(path, fmt.Sprintf("unknown type %q", t))
	}
}

// signature is the overload identity of a wrapper within one scope: its
// public name and the type and arity of each parameter.
func signature(fn *model.Function) string {
	parts := make([]string, len(fn.Parameters))
	for i, p := range fn.Parameters {
		parts[i] = p.Type + " " + p.Arity.String()
	}
	return fmt.Sprintf("%s(%s)", fn.PublicName(), strings.Join(parts, ", "))
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}
