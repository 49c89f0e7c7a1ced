package gen

import (
	"fmt"
	"log/slog"

	"github.com/caryhaynie/opentk/config"
	"github.com/caryhaynie/opentk/model"
)

// DocLookup returns the summary recorded for a documentation file name.
// resolver.DocSet implements it.
type DocLookup interface {
	Summary(file string) (string, bool)
}

// Context holds everything a generator needs to produce output.
type Context struct {
	Spec     *model.Spec
	Settings config.Settings
	Docs     DocLookup // nil when no documentation is configured
	License  string    // prepended verbatim to every artifact
	Sections []Section // nil selects every section the target supports
	Logger   *slog.Logger
}

// NewContext creates a new generation context.
func NewContext(spec *model.Spec, settings config.Settings) *Context {
	return &Context{
		Spec:     spec,
		Settings: settings,
	}
}

func (c *Context) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// wants reports whether a section should be emitted.
func (c *Context) wants(s Section) bool {
	if c.Sections == nil {
		return true
	}
	for _, sec := range c.Sections {
		if sec == s {
			return true
		}
	}
	return false
}

// checkSections fails when an explicitly requested section is not in
// supported.
func (c *Context) checkSections(target string, supported ...Section) error {
	for _, req := range c.Sections {
		ok := false
		for _, s := range supported {
			if s == req {
				ok = true
				break
			}
		}
		if !ok {
			return &UnsupportedError{Target: target, Section: req}
		}
	}
	return nil
}

// requireDelegates fails when a function has no delegate to forward to.
// The validation pass reports this with a path; generators only guard.
func (c *Context) requireDelegates() error {
	for _, f := range c.Spec.Functions.All() {
		if f.Delegate == nil {
			return fmt.Errorf("function %q (category %q) has no delegate", f.Name, f.Category)
		}
	}
	return nil
}
