// Package config holds the naming and output settings shared by every
// generator. Settings are read once at startup and passed by value.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// DedupPolicy selects how delegates referenced by several functions are
// emitted within one output scope.
type DedupPolicy string

const (
	// DedupAdjacent skips a delegate only when it matches the previous
	// function's delegate; tracking restarts for the deprecated group.
	DedupAdjacent DedupPolicy = "adjacent"
	// DedupGroup emits each delegate once per group (forward-compatible or deprecated).
	DedupGroup DedupPolicy = "group"
	// DedupScope emits each delegate once per category scope.
	DedupScope DedupPolicy = "scope"
)

// Settings is the immutable configuration of one generation run.
type Settings struct {
	OutputDir       string      `yaml:"output_dir" toml:"output_dir"`
	Namespace       string      `yaml:"namespace" toml:"namespace"`
	ClassName       string      `yaml:"class_name" toml:"class_name"`
	FunctionPrefix  string      `yaml:"function_prefix" toml:"function_prefix"`
	DeprecatedFlag  string      `yaml:"deprecated_flag" toml:"deprecated_flag"`
	DigitPrefix     string      `yaml:"digit_prefix" toml:"digit_prefix"`
	CoreCategory    string      `yaml:"core_category" toml:"core_category"`
	LicenseFile     string      `yaml:"license_file" toml:"license_file"`
	DocPath         string      `yaml:"doc_path" toml:"doc_path"`
	ImportLibrary   string      `yaml:"import_library" toml:"import_library"`
	AddressLoader   string      `yaml:"address_loader" toml:"address_loader"`
	LoaderNamespace string      `yaml:"loader_namespace" toml:"loader_namespace"`
	HeaderFile      string      `yaml:"header_file" toml:"header_file"`
	SourceFile      string      `yaml:"source_file" toml:"source_file"`
	CSharpFile      string      `yaml:"csharp_file" toml:"csharp_file"`
	IncludeGuard    string      `yaml:"include_guard" toml:"include_guard"`
	Indent          string      `yaml:"indent" toml:"indent"`
	Dedup           DedupPolicy `yaml:"dedup" toml:"dedup"`
}

// Default returns the settings used for the OpenGL bindings.
func Default() Settings {
	return Settings{
		OutputDir:       "./generated",
		Namespace:       "OpenTK",
		ClassName:       "GL",
		FunctionPrefix:  "gl",
		DeprecatedFlag:  "ALLOW_DEPRECATED_GL",
		DigitPrefix:     "T",
		CoreCategory:    "Core",
		ImportLibrary:   "opengl32.dll",
		AddressLoader:   "GetAddress",
		LoaderNamespace: "Internals",
		HeaderFile:      "gldef++.h",
		SourceFile:      "gldef++.cpp",
		CSharpFile:      "GL.cs",
		IncludeGuard:    "GLDEFPP_H",
		Indent:          "    ",
		Dedup:           DedupScope,
	}
}

// Load reads settings from a YAML (.yaml, .yml) or TOML (.toml) file.
// Keys missing from the file keep their default values.
func Load(path string) (Settings, error) {
	var s Settings
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("reading config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &s); err != nil {
			return s, fmt.Errorf("parsing TOML config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return s, fmt.Errorf("parsing YAML config %s: %w", path, err)
		}
	default:
		return s, fmt.Errorf("unsupported config format %q (want .yaml, .yml or .toml)", filepath.Ext(path))
	}

	s = s.WithDefaults()
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("config %s: %w", path, err)
	}
	return s, nil
}

// WithDefaults fills every empty field from Default.
func (s Settings) WithDefaults() Settings {
	d := Default()
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&s.OutputDir, d.OutputDir)
	fill(&s.Namespace, d.Namespace)
	fill(&s.ClassName, d.ClassName)
	fill(&s.FunctionPrefix, d.FunctionPrefix)
	fill(&s.DeprecatedFlag, d.DeprecatedFlag)
	fill(&s.DigitPrefix, d.DigitPrefix)
	fill(&s.CoreCategory, d.CoreCategory)
	fill(&s.ImportLibrary, d.ImportLibrary)
	fill(&s.AddressLoader, d.AddressLoader)
	fill(&s.LoaderNamespace, d.LoaderNamespace)
	fill(&s.HeaderFile, d.HeaderFile)
	fill(&s.SourceFile, d.SourceFile)
	fill(&s.CSharpFile, d.CSharpFile)
	fill(&s.IncludeGuard, d.IncludeGuard)
	fill(&s.Indent, d.Indent)
	if s.Dedup == "" {
		s.Dedup = d.Dedup
	}
	return s
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
var namespacePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// Validate checks that the settings can produce valid output.
func (s Settings) Validate() error {
	var problems []string
	if !namespacePattern.MatchString(s.Namespace) {
		problems = append(problems, fmt.Sprintf("namespace %q is not a valid identifier path", s.Namespace))
	}
	for _, f := range []struct{ key, val string }{
		{"class_name", s.ClassName},
		{"deprecated_flag", s.DeprecatedFlag},
		{"core_category", s.CoreCategory},
		{"address_loader", s.AddressLoader},
		{"include_guard", s.IncludeGuard},
	} {
		if !identPattern.MatchString(f.val) {
			problems = append(problems, fmt.Sprintf("%s %q is not a valid identifier", f.key, f.val))
		}
	}
	if s.DigitPrefix == "" || !identPattern.MatchString(s.DigitPrefix) {
		problems = append(problems, fmt.Sprintf("digit_prefix %q must start with a letter or underscore", s.DigitPrefix))
	}
	if s.LoaderNamespace != "" && !identPattern.MatchString(s.LoaderNamespace) {
		problems = append(problems, fmt.Sprintf("loader_namespace %q is not a valid identifier", s.LoaderNamespace))
	}
	if s.Indent == "" || strings.Trim(s.Indent, " \t") != "" {
		problems = append(problems, "indent must be a non-empty run of spaces or tabs")
	}
	for _, f := range []struct{ key, val string }{
		{"header_file", s.HeaderFile},
		{"source_file", s.SourceFile},
		{"csharp_file", s.CSharpFile},
	} {
		if f.val == "" || filepath.Base(f.val) != f.val {
			problems = append(problems, fmt.Sprintf("%s %q must be a plain file name", f.key, f.val))
		}
	}
	switch s.Dedup {
	case DedupAdjacent, DedupGroup, DedupScope:
	default:
		problems = append(problems, fmt.Sprintf("dedup %q must be one of adjacent, group, scope", s.Dedup))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid settings:\n  %s", strings.Join(problems, "\n  "))
	}
	return nil
}
