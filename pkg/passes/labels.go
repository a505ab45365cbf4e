package passes

import (
	"github.com/vinivendra/Gryphon-sub003/pkg/diag"
	"github.com/vinivendra/Gryphon-sub003/pkg/target"
)

// signatures indexes the callables declared in a unit by the name a call
// site uses for them.
type signatures struct {
	functions map[string][][]target.Param
	types     map[string][][]target.Param
	cases     map[string]map[string][]target.Param
}

func collectSignatures(stmts []target.Stmt) signatures {
	sigs := signatures{
		functions: map[string][][]target.Param{},
		types:     map[string][][]target.Param{},
		cases:     map[string]map[string][]target.Param{},
	}

	target.Inspect(stmts, func(node target.Node) bool {
		switch n := node.(type) {
		case *target.FuncDecl:
			if !n.IsInit {
				sigs.functions[n.Name] = append(sigs.functions[n.Name], n.Params)
			}
		case *target.ClassDecl:
			sigs.addType(n)
		}

		return true
	})

	return sigs
}

func (s signatures) addType(class *target.ClassDecl) {
	if len(class.Properties) > 0 {
		params := make([]target.Param, 0, len(class.Properties))
		for _, prop := range class.Properties {
			params = append(params, target.Param{Label: prop.Name, Name: prop.Name})
		}

		s.types[class.Name] = append(s.types[class.Name], params)
	}

	for _, member := range class.Members {
		if fn, ok := member.(*target.FuncDecl); ok && fn.IsInit {
			s.types[class.Name] = append(s.types[class.Name], fn.Params)
		}
	}

	if class.Kind != target.KindSealedClass {
		return
	}

	cases := map[string][]target.Param{}

	for _, c := range class.Cases {
		params := make([]target.Param, 0, len(c.Params))
		for idx, param := range c.Params {
			params = append(params, target.Param{Label: param.Label, Name: c.FieldName(idx)})
		}

		cases[c.Name] = params
	}

	s.cases[class.Name] = cases
}

func (s signatures) candidates(function target.Expr) [][]target.Param {
	switch f := function.(type) {
	case *target.Identifier:
		if params, ok := s.functions[f.Name]; ok {
			return params
		}

		return s.types[f.Name]
	case *target.TypeRef:
		return s.types[f.Name]
	case *target.Dot:
		if enum, ok := receiverName(f.Receiver); ok {
			if params, ok := s.cases[enum][f.Member]; ok {
				return [][]target.Param{params}
			}
		}

		return s.functions[f.Member]
	}

	return nil
}

// insertCallLabels rewrites labeled arguments of calls to callables declared
// in the unit into Kotlin named arguments using the parameter names. A
// trailing closure keeps lambda syntax only when it binds the last parameter.
func insertCallLabels(file *target.File, _ diag.Reporter) *target.File {
	sigs := collectSignatures(file.Stmts)

	return target.Rewriter{Expr: func(expr target.Expr) target.Expr {
		call, ok := expr.(*target.Call)
		if !ok {
			return expr
		}

		params, ok := pickSignature(sigs.candidates(call.Function), call.Args)
		if !ok {
			return call
		}

		for idx := range call.Args {
			arg := &call.Args[idx]

			if call.TrailingClosure && idx == len(call.Args)-1 {
				if idx == len(params)-1 {
					continue
				}

				call.TrailingClosure = false

				if idx < len(params) {
					arg.Label = params[idx].Name
				}

				continue
			}

			if arg.Label == "" {
				continue
			}

			for _, param := range params {
				if param.Label == arg.Label && param.Name != "" {
					arg.Label = param.Name

					break
				}
			}
		}

		return call
	}}.File(file)
}

// pickSignature returns the first overload that declares every label the
// call uses and has room for all its arguments.
func pickSignature(candidates [][]target.Param, args []target.Arg) ([]target.Param, bool) {
	for _, params := range candidates {
		if len(args) > len(params) {
			continue
		}

		if labelsFit(params, args) {
			return params, true
		}
	}

	return nil, false
}

func labelsFit(params []target.Param, args []target.Arg) bool {
	for _, arg := range args {
		if arg.Label == "" {
			continue
		}

		found := false

		for _, param := range params {
			if param.Label == arg.Label {
				found = true

				break
			}
		}

		if !found {
			return false
		}
	}

	return true
}
