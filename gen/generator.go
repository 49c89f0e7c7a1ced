package gen

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// OutputFile represents a single generated file.
type OutputFile struct {
	Path    string // Relative path within output directory
	Content []byte
}

// Generator is the interface all binding generators implement.
// Each generator produces the artifacts of one target style (e.g., the
// native header/source pair or the managed binding).
// Adding a target requires only implementing this interface and calling Register() in init().
type Generator interface {
	// Name returns the generator name (e.g., "cpp", "csharp").
	Name() string

	// Generate produces output files for the spec held by ctx.
	Generate(ctx *Context) ([]*OutputFile, error)
}

// Section names one part of a binding that can be requested on its own.
type Section string

const (
	SectionTypes     Section = "types"
	SectionEnums     Section = "enums"
	SectionDelegates Section = "delegates"
	SectionImports   Section = "imports"
	SectionWrappers  Section = "wrappers"
	SectionLoader    Section = "loader"
)

// AllSections lists every section in emission order.
var AllSections = []Section{SectionTypes, SectionEnums, SectionDelegates, SectionImports, SectionWrappers, SectionLoader}

// ParseSections parses a comma-separated section list. An empty string
// selects the target's default sections (nil).
func ParseSections(s string) ([]Section, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []Section
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		found := false
		for _, sec := range AllSections {
			if string(sec) == part {
				out = append(out, sec)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown section %q (valid: %s)", part, joinSections(AllSections))
		}
	}
	return out, nil
}

func joinSections(secs []Section) string {
	parts := make([]string, len(secs))
	for i, s := range secs {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

// ErrNotSupported is returned when a target cannot emit a requested section.
var ErrNotSupported = errors.New("capability not supported for this target")

// UnsupportedError names the target and section that could not be emitted.
type UnsupportedError struct {
	Target  string
	Section Section
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s: section %q: %v", e.Target, e.Section, ErrNotSupported)
}

func (e *UnsupportedError) Unwrap() error { return ErrNotSupported }

var (
	registryMu sync.RWMutex
	registry   = map[string]func() Generator{}
)

// Register adds a generator factory to the registry.
// Typically called from init() in each generator's file.
func Register(name string, factory func() Generator) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("generator %q already registered", name))
	}
	registry[name] = factory
}

// Get returns a new instance of the named generator.
func Get(name string) (Generator, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	factory, ok := registry[name]
	if !ok {
		return nil, false
	}
	return factory(), true
}

// All returns the names of all registered generators, sorted.
func All() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
