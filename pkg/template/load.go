package template

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/vinivendra/Gryphon-sub003/pkg/dump"
	"github.com/vinivendra/Gryphon-sub003/pkg/lower"
	"github.com/vinivendra/Gryphon-sub003/pkg/source"
	"github.com/vinivendra/Gryphon-sub003/pkg/target"
)

// CatalogueFS holds the built-in catalogue and the schema catalogue files
// are validated against.
//
//go:embed stdlib.yaml catalogue.schema.json
var CatalogueFS embed.FS

const (
	builtinFile = "stdlib.yaml"
	schemaFile  = "catalogue.schema.json"
)

// Sentinel errors for catalogue files.
var (
	ErrInvalidCatalogue = errors.New("invalid template catalogue")
	ErrInvalidPattern   = errors.New("invalid template pattern")
)

// SchemaError lists every schema violation of a catalogue file.
type SchemaError struct {
	Source   string
	Problems []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidCatalogue, e.Source, strings.Join(e.Problems, "; "))
}

func (e *SchemaError) Unwrap() error {
	return ErrInvalidCatalogue
}

type catalogueFile struct {
	Subtypes  map[string][]string `yaml:"subtypes"`
	Templates []templateSpec      `yaml:"templates"`
}

type templateSpec struct {
	Replacement yaml.Node `yaml:"replacement"`
	Name        string    `yaml:"name"`
	Pattern     string    `yaml:"pattern"`
}

// LoadBuiltin loads the embedded standard library catalogue.
func LoadBuiltin() (*Catalogue, error) {
	data, err := CatalogueFS.ReadFile(builtinFile)
	if err != nil {
		return nil, fmt.Errorf("read builtin catalogue: %w", err)
	}

	return Load(data, builtinFile)
}

// LoadFile loads a catalogue file from disk.
func LoadFile(path string) (*Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalogue: %w", err)
	}

	return Load(data, path)
}

// Load validates and compiles a YAML catalogue. origin names the data in
// error messages.
func Load(data []byte, origin string) (*Catalogue, error) {
	err := Validate(data, origin)
	if err != nil {
		return nil, err
	}

	var file catalogueFile

	err = yaml.Unmarshal(data, &file)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidCatalogue, origin, err)
	}

	catalogue := NewCatalogue()

	for sub, supers := range file.Subtypes {
		catalogue.subtypes.Add(sub, supers...)
	}

	for idx := range file.Templates {
		spec := &file.Templates[idx]

		tmpl, err := compile(spec)
		if err != nil {
			return nil, fmt.Errorf("%s: template %q: %w", origin, spec.Name, err)
		}

		err = catalogue.Add(tmpl)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", origin, err)
		}
	}

	return catalogue, nil
}

// Validate checks data against the embedded catalogue schema.
func Validate(data []byte, origin string) error {
	var doc any

	err := yaml.Unmarshal(data, &doc)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidCatalogue, origin, err)
	}

	if doc == nil {
		doc = map[string]any{}
	}

	schema, err := CatalogueFS.ReadFile(schemaFile)
	if err != nil {
		return fmt.Errorf("read catalogue schema: %w", err)
	}

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schema), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidCatalogue, origin, err)
	}

	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		problems = append(problems, verr.Field()+": "+verr.Description())
	}

	return &SchemaError{Source: origin, Problems: problems}
}

func compile(spec *templateSpec) (Template, error) {
	pattern, err := CompilePattern(spec.Pattern)
	if err != nil {
		return Template{}, err
	}

	replacement, err := replacementFromYAML(&spec.Replacement, Variables(pattern))
	if err != nil {
		return Template{}, err
	}

	return Template{Name: spec.Name, Pattern: pattern, Replacement: replacement}, nil
}

// CompilePattern turns a tree-dump expression into a pattern. Declaration
// references whose name starts with an underscore become placeholders typed
// by their type attribute, or Any when it is missing.
func CompilePattern(text string) (target.Expr, error) {
	node, err := dump.Decode(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}

	built, err := source.BuildExpr(node)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}

	lowerer := &lower.Lowerer{}

	lowered, err := lowerer.Expr(built)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}

	return target.Rewriter{Expr: placeholderize}.Expression(lowered), nil
}

func placeholderize(expr target.Expr) target.Expr {
	ident, ok := expr.(*target.Identifier)
	if !ok || !strings.HasPrefix(ident.Name, "_") || len(ident.Name) < 2 {
		return expr
	}

	declared := ident.Type
	if declared == "" {
		declared = AnyType
	}

	return &target.Placeholder{Variable: ident.Name, DeclaredType: declared, Meta: ident.Meta}
}

type replacementSpec struct {
	Dot     *dotSpec    `yaml:"dot"`
	Call    *callSpec   `yaml:"call"`
	Literal *string     `yaml:"literal"`
	Var     string      `yaml:"var"`
	Concat  []yaml.Node `yaml:"concat"`
}

type dotSpec struct {
	Receiver yaml.Node `yaml:"receiver"`
	Member   string    `yaml:"member"`
}

type callSpec struct {
	Function yaml.Node `yaml:"function"`
	Args     []argSpec `yaml:"args"`
}

type argSpec struct {
	Value yaml.Node `yaml:"value"`
	Label string    `yaml:"label"`
}

// replacementFromYAML accepts either a string, parsed for placeholder
// references, or a structured literal/var/dot/call/concat tree.
func replacementFromYAML(node *yaml.Node, vars []string) (Expr, error) {
	if node.Kind == yaml.ScalarNode {
		return ParseReplacement(node.Value, vars), nil
	}

	var spec replacementSpec

	err := node.Decode(&spec)
	if err != nil {
		return nil, fmt.Errorf("%w: replacement at line %d: %w", ErrInvalidCatalogue, node.Line, err)
	}

	switch {
	case spec.Literal != nil:
		return Literal{Text: *spec.Literal}, nil
	case spec.Var != "":
		return Var{Name: spec.Var}, nil
	case spec.Dot != nil:
		receiver, err := replacementFromYAML(&spec.Dot.Receiver, vars)
		if err != nil {
			return nil, err
		}

		return Dot{Receiver: receiver, Member: spec.Dot.Member}, nil
	case spec.Call != nil:
		return callFromYAML(spec.Call, vars)
	case len(spec.Concat) > 0:
		parts := make([]Expr, 0, len(spec.Concat))

		for idx := range spec.Concat {
			part, err := replacementFromYAML(&spec.Concat[idx], vars)
			if err != nil {
				return nil, err
			}

			parts = append(parts, part)
		}

		return Concatenation{Parts: parts}, nil
	}

	return nil, fmt.Errorf("%w: empty replacement at line %d", ErrInvalidCatalogue, node.Line)
}

func callFromYAML(spec *callSpec, vars []string) (Expr, error) {
	function, err := replacementFromYAML(&spec.Function, vars)
	if err != nil {
		return nil, err
	}

	call := Call{Function: function}

	for idx := range spec.Args {
		value, err := replacementFromYAML(&spec.Args[idx].Value, vars)
		if err != nil {
			return nil, err
		}

		call.Args = append(call.Args, CallArg{Value: value, Label: spec.Args[idx].Label})
	}

	return call, nil
}
