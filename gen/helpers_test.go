package gen

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/caryhaynie/opentk/config"
	"github.com/caryhaynie/opentk/loader"
	"github.com/caryhaynie/opentk/logging"
)

// loadTestAPI loads a spec from the shared testdata directory into a
// context with default settings.
func loadTestAPI(t *testing.T, name string) *Context {
	t.Helper()
	spec, err := loader.LoadSpec(filepath.Join("..", "testdata", name), loader.Options{})
	if err != nil {
		t.Fatalf("loading %s: %v", name, err)
	}
	ctx := NewContext(spec, config.Default())
	ctx.Logger = logging.Discard()
	return ctx
}

// generateFile runs a generator and returns the content of the named file.
func generateFile(t *testing.T, g Generator, ctx *Context, path string) string {
	t.Helper()
	files, err := g.Generate(ctx)
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	for _, f := range files {
		if f.Path == path {
			return string(f.Content)
		}
	}
	t.Fatalf("%s not generated", path)
	return ""
}

// between returns the text between the first occurrence of open and the
// next occurrence of close after it.
func between(t *testing.T, s, open, close string) string {
	t.Helper()
	start := strings.Index(s, open)
	if start < 0 {
		t.Fatalf("%q not found", open)
	}
	rest := s[start+len(open):]
	end := strings.Index(rest, close)
	if end < 0 {
		t.Fatalf("%q not found after %q", close, open)
	}
	return rest[:end]
}
