package loader

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/caryhaynie/opentk/model"
	"gopkg.in/yaml.v3"
)

// specFile mirrors the YAML layout of a binding spec.
type specFile struct {
	Types     []typeDef     `yaml:"types"`
	Enums     []enumDef     `yaml:"enums"`
	Delegates []delegateDef `yaml:"delegates"`
	Functions []functionDef `yaml:"functions"`
}

type typeDef struct {
	Name   string `yaml:"name"`
	CSharp string `yaml:"csharp"`
	C      string `yaml:"c"`
}

type enumDef struct {
	Name      string        `yaml:"name"`
	Category  string        `yaml:"category"`
	Constants []constantDef `yaml:"constants"`
}

type constantDef struct {
	Name      string  `yaml:"name"`
	Value     literal `yaml:"value"`
	Unchecked bool    `yaml:"unchecked"`
}

// literal keeps the source spelling of a scalar so hex values survive
// the round trip from spec to generated code.
type literal string

func (l *literal) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: constant value must be a scalar", node.Line)
	}
	*l = literal(strings.TrimSpace(node.Value))
	return nil
}

type parameterDef struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Direction string `yaml:"direction"`
	Arity     string `yaml:"arity"`
	Pointers  int    `yaml:"pointers"`
	Const     bool   `yaml:"const"`
}

type delegateDef struct {
	Name       string         `yaml:"name"`
	Returns    string         `yaml:"returns"`
	Parameters []parameterDef `yaml:"parameters"`
}

type functionDef struct {
	Name              string          `yaml:"name"`
	TrimmedName       string          `yaml:"trimmed_name"`
	Delegate          string          `yaml:"delegate"`
	Category          string          `yaml:"category"`
	Version           string          `yaml:"version"`
	Deprecated        bool            `yaml:"deprecated"`
	DeprecatedVersion string          `yaml:"deprecated_version"`
	Returns           string          `yaml:"returns"`
	Parameters        *[]parameterDef `yaml:"parameters"`
}

// Options controls how a spec is turned into a model.
type Options struct {
	// CoreCategory is assigned to functions that name no category.
	CoreCategory string
}

// LoadSpec reads, schema-validates and converts a YAML spec file.
func LoadSpec(path string, opts Options) (*model.Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spec: %w", err)
	}

	if err := ValidateSchema(data); err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	return ParseSpec(data, opts)
}

// ParseSpec converts YAML bytes into a model without schema validation.
// References that cannot be resolved (an unknown delegate) are errors;
// duplicates are recorded on the collections for the validation pass.
func ParseSpec(data []byte, opts Options) (*model.Spec, error) {
	var raw specFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing spec: %w", err)
	}
	if opts.CoreCategory == "" {
		opts.CoreCategory = "Core"
	}

	spec := model.NewSpec()
	for _, t := range raw.Types {
		spec.Types = append(spec.Types, model.TypeAlias{Name: t.Name, CSharp: t.CSharp, C: t.C})
	}

	for i, e := range raw.Enums {
		enum := &model.Enumeration{Name: e.Name, Category: e.Category}
		for j, c := range e.Constants {
			constant, err := convertConstant(c)
			if err != nil {
				return nil, fmt.Errorf("enums[%d].constants[%d]: %w", i, j, err)
			}
			enum.Constants = append(enum.Constants, constant)
		}
		spec.Enums.Add(enum)
	}

	for i, d := range raw.Delegates {
		params, err := convertParameters(d.Parameters)
		if err != nil {
			return nil, fmt.Errorf("delegates[%d] (%s): %w", i, d.Name, err)
		}
		spec.Delegates.Add(&model.Delegate{
			Name:       d.Name,
			ReturnType: returnOrVoid(d.Returns),
			Parameters: params,
		})
	}

	for i, f := range raw.Functions {
		d, ok := spec.Delegates.Get(f.Delegate)
		if !ok {
			return nil, fmt.Errorf("functions[%d] (%s): unknown delegate %q", i, f.Name, f.Delegate)
		}
		fn := &model.Function{
			Name:              f.Name,
			TrimmedName:       f.TrimmedName,
			Delegate:          d,
			Category:          f.Category,
			Version:           f.Version,
			Deprecated:        f.Deprecated,
			DeprecatedVersion: f.DeprecatedVersion,
			ReturnType:        d.ReturnType,
			Parameters:        d.Parameters,
		}
		if fn.TrimmedName == "" {
			fn.TrimmedName = f.Name
		}
		if fn.Category == "" {
			fn.Category = opts.CoreCategory
		}
		if f.Returns != "" {
			fn.ReturnType = f.Returns
		}
		if f.Parameters != nil {
			params, err := convertParameters(*f.Parameters)
			if err != nil {
				return nil, fmt.Errorf("functions[%d] (%s): %w", i, f.Name, err)
			}
			fn.Parameters = params
		}
		spec.Functions.Add(fn)
	}

	return spec, nil
}

func returnOrVoid(t string) string {
	if t == "" {
		return model.VoidType
	}
	return t
}

// uncheckedSuffix is the name marker used by specs that predate the
// explicit unchecked key.
const uncheckedSuffix = "_unchecked"

// convertConstant parses a constant literal. Values beyond the signed
// 32-bit range are marked unchecked. Literals that only fit an unsigned
// 64-bit integer keep their bit pattern in Value.
func convertConstant(c constantDef) (model.Constant, error) {
	lit := string(c.Value)
	if isOctalLike(lit) {
		return model.Constant{}, fmt.Errorf("constant %s: invalid value %q: decimal literals cannot have a leading zero", c.Name, lit)
	}
	wide := false
	v, err := strconv.ParseInt(lit, 0, 64)
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(lit, "-") {
		var u uint64
		if u, err = strconv.ParseUint(lit, 0, 64); err == nil {
			v, wide = int64(u), true
		}
	}
	if err != nil {
		return model.Constant{}, fmt.Errorf("constant %s: invalid value %q: %w", c.Name, lit, err)
	}
	name, marked := strings.CutSuffix(c.Name, uncheckedSuffix)
	return model.Constant{
		Name:      name,
		Value:     v,
		Literal:   lit,
		Unchecked: c.Unchecked || marked || wide || v > math.MaxInt32,
	}, nil
}

// isOctalLike reports a decimal literal with a leading zero ("010"),
// which C++ reads as octal and C# as decimal.
func isOctalLike(lit string) bool {
	digits := strings.TrimPrefix(lit, "-")
	if len(digits) < 2 || digits[0] != '0' {
		return false
	}
	return digits[1] >= '0' && digits[1] <= '9'
}

func convertParameters(defs []parameterDef) ([]model.Parameter, error) {
	params := make([]model.Parameter, 0, len(defs))
	for i, p := range defs {
		dir, ok := model.ParseDirection(p.Direction)
		if !ok {
			return nil, fmt.Errorf("parameters[%d] (%s): unknown direction %q", i, p.Name, p.Direction)
		}
		arity, ok := model.ParseArity(p.Arity)
		if !ok {
			return nil, fmt.Errorf("parameters[%d] (%s): unknown arity %q", i, p.Name, p.Arity)
		}
		pointers := p.Pointers
		if arity == model.ArityPointer && pointers == 0 {
			pointers = 1
		}
		params = append(params, model.Parameter{
			Name:      p.Name,
			Type:      p.Type,
			Direction: dir,
			Arity:     arity,
			Pointers:  pointers,
			Const:     p.Const,
		})
	}
	return params, nil
}
