package gen

import (
	"strings"

	"github.com/caryhaynie/opentk/config"
	"github.com/caryhaynie/opentk/model"
)

// FixIdentifier rewrites a category name into a valid identifier: runes
// outside [A-Za-z0-9_] become '_' and a leading digit gets prefix
// ("3dfx" → "T3dfx"). Applying it twice gives the same result.
func FixIdentifier(name, prefix string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	s := b.String()
	if s == "" {
		return prefix
	}
	if s[0] >= '0' && s[0] <= '9' {
		return prefix + s
	}
	return s
}

// Scope is one output scope: the root class for the core category, or a
// nested struct/class named after an extension category.
type Scope struct {
	Category  string // category name as written in the spec
	Ident     string // fixed-up identifier; empty for the root scope
	Enums     []*model.Enumeration
	Functions []*model.Function
}

// IsRoot reports whether the scope is the unnested core scope.
func (s *Scope) IsRoot() bool { return s.Ident == "" }

// Path joins the class name and the scope identifier with sep,
// e.g. "GL::T3dfx" or "GL".
func (s *Scope) Path(class, sep string) string {
	if s.IsRoot() {
		return class
	}
	return class + sep + s.Ident
}

// Forward returns the scope's forward-compatible functions.
func (s *Scope) Forward() []*model.Function {
	fwd, _ := partition(s.Functions)
	return fwd
}

// Deprecated returns the scope's deprecated functions.
func (s *Scope) Deprecated() []*model.Function {
	_, dep := partition(s.Functions)
	return dep
}

// Organize groups the spec into scopes. The root scope comes first and
// is always present; extension scopes follow in category insertion
// order, then categories that only carry enums. Root-category enums stay
// on the root scope; the generators emit them at namespace level.
func Organize(spec *model.Spec, s config.Settings) []*Scope {
	root := &Scope{Category: s.CoreCategory}
	scopes := []*Scope{root}
	byCategory := map[string]*Scope{s.CoreCategory: root, "": root}

	get := func(cat string) *Scope {
		if sc, ok := byCategory[cat]; ok {
			return sc
		}
		sc := &Scope{Category: cat, Ident: FixIdentifier(cat, s.DigitPrefix)}
		byCategory[cat] = sc
		scopes = append(scopes, sc)
		return sc
	}

	for _, cat := range spec.Functions.Categories() {
		sc := get(cat)
		sc.Functions = append(sc.Functions, spec.Functions.Functions(cat)...)
	}
	for _, e := range spec.Enums.Values() {
		sc := get(e.Category)
		sc.Enums = append(sc.Enums, e)
	}
	return scopes
}

// partition splits functions into forward-compatible and deprecated
// groups, preserving order within each.
func partition(fns []*model.Function) (forward, deprecated []*model.Function) {
	for _, f := range fns {
		if f.Deprecated {
			deprecated = append(deprecated, f)
		} else {
			forward = append(forward, f)
		}
	}
	return forward, deprecated
}
