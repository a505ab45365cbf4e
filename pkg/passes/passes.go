// Package passes holds the ordered rewrites that turn a raw target tree into
// one the generator can print as idiomatic Kotlin. Every pass returns a new
// tree and leaves its input untouched.
package passes

import (
	"github.com/vinivendra/Gryphon-sub003/pkg/diag"
	"github.com/vinivendra/Gryphon-sub003/pkg/target"
)

// Pass is one tree-to-tree rewrite. Warnings go to reporter; a pass never
// fails.
type Pass interface {
	Name() string
	Run(file *target.File, reporter diag.Reporter) *target.File
}

// Pass names, in pipeline order.
const (
	DesugarGuards                 = "desugar-guards"
	LowerOptionalBindings         = "lower-optional-bindings"
	FlattenSingleExpressionBodies = "flatten-single-expression-bodies"
	TranslateOperators            = "translate-operators"
	EnumsToSealedClasses          = "enums-to-sealed-classes"
	CapitalizeEnumCases           = "capitalize-enum-cases"
	SwitchToIsChecks              = "switch-to-is-checks"
	ValueTypesToDataClasses       = "value-types-to-data-classes"
	InsertCallLabels              = "insert-call-labels"
	ComputeAccessLevels           = "compute-access-levels"
	WrapTopLevelStatements        = "wrap-top-level-statements"
)

type funcPass struct {
	run  func(*target.File, diag.Reporter) *target.File
	name string
}

func (p funcPass) Name() string { return p.name }

func (p funcPass) Run(file *target.File, reporter diag.Reporter) *target.File {
	return p.run(file, reporter)
}

// Pipeline runs passes in order.
type Pipeline struct {
	passes []Pass
}

// NewPipeline returns a pipeline running passes in the given order.
func NewPipeline(passes ...Pass) *Pipeline {
	return &Pipeline{passes: passes}
}

// Default returns the standard pipeline. The order matters: guards and
// optional bindings are desugared before bodies are flattened, enum kinds
// are settled before cases are renamed, and switches see the renamed cases.
func Default() *Pipeline {
	return NewPipeline(
		funcPass{name: DesugarGuards, run: desugarGuards},
		funcPass{name: LowerOptionalBindings, run: lowerOptionalBindings},
		funcPass{name: FlattenSingleExpressionBodies, run: flattenBodies},
		funcPass{name: TranslateOperators, run: translateOperators},
		funcPass{name: EnumsToSealedClasses, run: enumsToSealedClasses},
		funcPass{name: CapitalizeEnumCases, run: capitalizeEnumCases},
		funcPass{name: SwitchToIsChecks, run: switchToIsChecks},
		funcPass{name: ValueTypesToDataClasses, run: valueTypesToDataClasses},
		funcPass{name: InsertCallLabels, run: insertCallLabels},
		funcPass{name: ComputeAccessLevels, run: computeAccessLevels},
		funcPass{name: WrapTopLevelStatements, run: wrapTopLevelStatements},
	)
}

// Passes returns the passes in order.
func (p *Pipeline) Passes() []Pass {
	return append([]Pass(nil), p.passes...)
}

// Names returns the pass names in order.
func (p *Pipeline) Names() []string {
	names := make([]string, 0, len(p.passes))
	for _, pass := range p.passes {
		names = append(names, pass.Name())
	}

	return names
}

// Run applies every pass in order.
func (p *Pipeline) Run(file *target.File, reporter diag.Reporter) *target.File {
	for _, pass := range p.passes {
		file = pass.Run(file, reporter)
	}

	return file
}

// ByName returns the pass with the given name.
func ByName(name string) (Pass, bool) {
	for _, pass := range Default().passes {
		if pass.Name() == name {
			return pass, true
		}
	}

	return nil, false
}

func isJump(stmt target.Stmt) bool {
	switch stmt.(type) {
	case *target.Return, *target.Break, *target.Continue, *target.Throw:
		return true
	}

	return false
}

func nullLiteral() *target.Literal {
	return &target.Literal{Value: "null", Kind: target.NullLiteral}
}
