package gen

import (
	"strings"

	"github.com/caryhaynie/opentk/config"
	"github.com/caryhaynie/opentk/model"
)

// dedup decides whether a delegate still needs a declaration within one
// scope. Delegates are compared by native entry-point name.
type dedup struct {
	policy config.DedupPolicy
	last   string
	seen   map[string]bool
}

func newDedup(policy config.DedupPolicy) *dedup {
	return &dedup{policy: policy, seen: map[string]bool{}}
}

// startGroup is called before the forward-compatible and the deprecated
// group of a scope.
func (d *dedup) startGroup() {
	switch d.policy {
	case config.DedupAdjacent:
		d.last = ""
	case config.DedupGroup:
		d.seen = map[string]bool{}
	}
}

// first reports whether native has not been emitted yet and records it.
func (d *dedup) first(native string) bool {
	if d.policy == config.DedupAdjacent {
		if native == d.last {
			return false
		}
		d.last = native
		return true
	}
	if d.seen[native] {
		return false
	}
	d.seen[native] = true
	return true
}

// slot is one delegate storage slot.
type slot struct {
	Delegate *model.Delegate
	Native   string // entry point and slot name, e.g. "glDrawArrays"
	Pointer  string // function pointer type name, e.g. "pglDrawArrays"
}

// slotPlan lists the slots of one scope, split into the unconditional
// group and the group gated on the deprecated flag.
type slotPlan struct {
	Forward    []slot
	Deprecated []slot
}

// Len returns the number of slots in the plan.
func (p slotPlan) Len() int { return len(p.Forward) + len(p.Deprecated) }

// planSlots walks the forward-compatible functions, then the deprecated
// ones, keeping the first occurrence of each delegate under policy.
// Declarations, storage definitions and loaders all follow this plan so
// they agree on every slot.
func planSlots(sc *Scope, policy config.DedupPolicy, prefix string) slotPlan {
	var plan slotPlan
	d := newDedup(policy)
	collect := func(fns []*model.Function) []slot {
		d.startGroup()
		var out []slot
		for _, f := range fns {
			if f.Delegate == nil {
				continue
			}
			native := f.Delegate.NativeName(prefix)
			if !d.first(native) {
				continue
			}
			out = append(out, slot{Delegate: f.Delegate, Native: native, Pointer: model.PointerTypeName(native)})
		}
		return out
	}
	plan.Forward = collect(sc.Forward())
	plan.Deprecated = collect(sc.Deprecated())
	return plan
}

// writeLicense writes the license text verbatim followed by a blank line.
func writeLicense(w *IndentWriter, license string) {
	if license == "" {
		return
	}
	w.Raw(license)
	w.Blank()
}

// gate describes the conditional compilation block around deprecated
// members.
type gate struct {
	open, close string
}

// writeGated writes the forward items unconditionally and the deprecated
// items inside g. An empty deprecated group writes no gate.
func writeGated[T any](w *IndentWriter, g gate, forward, deprecated []T, write func(T)) {
	for _, item := range forward {
		write(item)
	}
	if len(deprecated) == 0 {
		return
	}
	w.Line(g.open)
	w.Indent()
	for _, item := range deprecated {
		write(item)
	}
	w.Unindent()
	w.Line(g.close)
}

// docSummary builds the documentation line of a wrapper: availability
// and deprecation notes followed by the summary from the doc set.
func docSummary(ctx *Context, f *model.Function) string {
	var notes strings.Builder
	switch {
	case f.Category != ctx.Settings.CoreCategory && f.Category != "":
		notes.WriteString("[requires: " + f.Category + "]")
	case f.Version != "":
		notes.WriteString("[requires: v" + f.Version + "]")
	}
	if f.Deprecated {
		if f.DeprecatedVersion != "" {
			notes.WriteString("[deprecated: v" + f.DeprecatedVersion + "]")
		} else {
			notes.WriteString("[deprecated]")
		}
	}

	summary := lookupDoc(ctx, f)
	switch {
	case notes.Len() == 0:
		return summary
	case summary == "":
		return notes.String()
	default:
		return notes.String() + " " + summary
	}
}

// DocCandidates lists the documentation file names tried for a function,
// in order: the entry point, the prefixed public name, then the prefixed
// public name without trailing digits ("Color3" → "glColor.xml").
func DocCandidates(prefix string, f *model.Function) []string {
	var out []string
	add := func(name string) {
		file := name + ".xml"
		for _, existing := range out {
			if existing == file {
				return
			}
		}
		out = append(out, file)
	}
	if f.Delegate != nil {
		add(f.Delegate.NativeName(prefix))
	}
	public := f.PublicName()
	add(model.NativeName(prefix, public))
	if trimmed := strings.TrimRight(public, "0123456789"); trimmed != "" {
		add(model.NativeName(prefix, trimmed))
	}
	return out
}

func lookupDoc(ctx *Context, f *model.Function) string {
	if ctx.Docs == nil {
		return ""
	}
	candidates := DocCandidates(ctx.Settings.FunctionPrefix, f)
	for _, file := range candidates {
		if s, ok := ctx.Docs.Summary(file); ok {
			return s
		}
	}
	ctx.logger().Warn("no documentation found", "function", f.Name, "tried", strings.Join(candidates, ", "))
	return ""
}
