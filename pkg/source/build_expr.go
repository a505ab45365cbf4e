package source

import (
	"strings"

	"github.com/vinivendra/Gryphon-sub003/pkg/dump"
)

//nolint:cyclop,funlen,gocyclo // one branch per expression kind.
func (b *builder) expr(node *dump.Node) (Expr, error) {
	if node == nil {
		return nil, &MissingAttributeError{Node: "expression", Attribute: "node"}
	}

	if transparentExprs[node.Name] {
		return b.onlyChild(node)
	}

	typed := Typed{Type: node.AttrOr(attrType, "")}

	switch node.Name {
	case "declref_expr":
		return declRef(node, typed)
	case "integer_literal_expr":
		value, err := requireAttr(node, attrValue)

		return &IntegerLiteral{Value: value, Meta: meta(node), Typed: typed}, err
	case "float_literal_expr":
		value, err := requireAttr(node, attrValue)

		return &FloatLiteral{Value: value, Meta: meta(node), Typed: typed}, err
	case "string_literal_expr":
		value, err := requireAttr(node, attrValue)

		return &StringLiteral{Value: value, Meta: meta(node), Typed: typed}, err
	case "boolean_literal_expr":
		value, err := requireAttr(node, attrValue)

		return &BooleanLiteral{Value: value == "true", Meta: meta(node), Typed: typed}, err
	case "nil_literal_expr":
		return &NilLiteral{Meta: meta(node), Typed: typed}, nil
	case "string_interpolation_expr":
		parts, err := b.exprs(node.Children)

		return &Interpolation{Parts: parts, Meta: meta(node), Typed: typed}, err
	case "binary_expr":
		return b.binary(node, typed)
	case "prefix_unary_expr":
		return b.prefixUnary(node, typed)
	case "call_expr":
		return b.call(node, typed)
	case "member_ref_expr":
		return b.memberRef(node, typed)
	case "unresolved_member_expr":
		member := DeclName(strings.TrimPrefix(name(node), "."))
		if member == "" {
			return nil, missing(node, "member name")
		}

		return &UnresolvedMember{Member: member, Meta: meta(node), Typed: typed}, nil
	case "type_expr":
		return typeExpr(node, typed)
	case "tuple_expr":
		return b.tuple(node, typed)
	case "paren_expr":
		inner, err := b.onlyChild(node)

		return &Paren{Inner: inner, Meta: meta(node), Typed: typed}, err
	case "array_expr":
		elements, err := b.exprs(node.Children)

		return &ArrayLiteral{Elements: elements, Meta: meta(node), Typed: typed}, err
	case "dictionary_expr":
		return b.dictionary(node, typed)
	case "closure_expr":
		return b.closure(node, typed)
	case "force_value_expr":
		operand, err := b.onlyChild(node)

		return &ForceValue{Operand: operand, Meta: meta(node), Typed: typed}, err
	case "bind_optional_expr":
		operand, err := b.onlyChild(node)

		return &BindOptional{Operand: operand, Meta: meta(node), Typed: typed}, err
	case "optional_evaluation_expr":
		inner, err := b.onlyChild(node)

		return &OptionalEvaluation{Inner: inner, Meta: meta(node), Typed: typed}, err
	case "ternary_expr":
		return b.ternary(node, typed)
	case "subscript_expr":
		return b.subscript(node, typed)
	case "is_expr":
		return b.cast(node, typed, IsCast)
	case "conditional_checked_cast_expr":
		return b.cast(node, typed, ConditionalCast)
	case "forced_checked_cast_expr":
		return b.cast(node, typed, ForcedCast)
	case "self_expr":
		return &Self{Meta: meta(node), Typed: typed}, nil
	case "inout_expr":
		operand, err := b.onlyChild(node)

		return &Inout{Operand: operand, Meta: meta(node), Typed: typed}, err
	}

	return nil, unsupported(node, "expression position")
}

func (b *builder) exprs(nodes []*dump.Node) ([]Expr, error) {
	out := make([]Expr, 0, len(nodes))

	for _, node := range nodes {
		expr, err := b.expr(node)
		if err != nil {
			return nil, err
		}

		out = append(out, expr)
	}

	return out, nil
}

func requireAttr(node *dump.Node, key string) (string, error) {
	value, ok := node.Attr(key)
	if !ok {
		return "", missing(node, key)
	}

	return value, nil
}

func declRef(node *dump.Node, typed Typed) (Expr, error) {
	refName := name(node)

	if decl, ok := node.Attr(attrDecl); ok {
		refName = DeclName(decl)
	}

	if refName == "" {
		return nil, missing(node, attrDecl)
	}

	return &DeclRef{Name: refName, Meta: meta(node), Typed: typed}, nil
}

func binaryOperator(node *dump.Node) string {
	if op, ok := node.Attr(attrOperator); ok {
		return op
	}

	return name(node)
}

// operands returns the two operands of a binary_expr, unwrapping a single
// tuple_expr child when the dump groups them.
func (b *builder) operands(node *dump.Node) (Expr, Expr, error) {
	children := node.Children
	if len(children) == 1 && children[0].Name == "tuple_expr" {
		children = children[0].Children
	}

	if len(children) != 2 {
		return nil, nil, missing(node, "two operands")
	}

	left, err := b.expr(children[0])
	if err != nil {
		return nil, nil, err
	}

	right, err := b.expr(children[1])
	if err != nil {
		return nil, nil, err
	}

	return left, right, nil
}

func (b *builder) binary(node *dump.Node, typed Typed) (Expr, error) {
	op := binaryOperator(node)
	if op == "" {
		return nil, missing(node, attrOperator)
	}

	left, right, err := b.operands(node)
	if err != nil {
		return nil, err
	}

	return &Binary{Left: left, Right: right, Op: op, Meta: meta(node), Typed: typed}, nil
}

func (b *builder) prefixUnary(node *dump.Node, typed Typed) (Expr, error) {
	op := binaryOperator(node)
	if op == "" {
		return nil, missing(node, attrOperator)
	}

	operand, err := b.onlyChild(node)
	if err != nil {
		return nil, err
	}

	return &PrefixUnary{Operand: operand, Op: op, Meta: meta(node), Typed: typed}, nil
}

func (b *builder) call(node *dump.Node, typed Typed) (Expr, error) {
	if len(node.Children) == 0 {
		return nil, missing(node, "callee")
	}

	callee, err := b.expr(node.Children[0])
	if err != nil {
		return nil, err
	}

	call := &Call{Callee: callee, Meta: meta(node), Typed: typed}

	for _, child := range node.Children[1:] {
		switch child.Name {
		case "argument_list":
			args, err := b.arguments(child)
			if err != nil {
				return nil, err
			}

			call.Args = append(call.Args, args...)
		case "tuple_expr":
			tuple, err := b.tuple(child, Typed{})
			if err != nil {
				return nil, err
			}

			call.Args = append(call.Args, tuple.(*Tuple).Elements...)
		case "paren_expr":
			value, err := b.onlyChild(child)
			if err != nil {
				return nil, err
			}

			call.Args = append(call.Args, Arg{Value: value, Trailing: child.HasFlag("trailing-closure")})
		default:
			return nil, unsupported(child, "call arguments")
		}
	}

	return call, nil
}

func (b *builder) arguments(list *dump.Node) ([]Arg, error) {
	args := make([]Arg, 0, len(list.Children))

	for _, child := range list.Children {
		if child.Name != "argument" {
			return nil, unsupported(child, "argument list")
		}

		value, err := b.onlyChild(child)
		if err != nil {
			return nil, err
		}

		label := child.AttrOr(attrLabel, "")
		if label == "_" {
			label = ""
		}

		args = append(args, Arg{Value: value, Label: label, Trailing: child.HasFlag("trailing")})
	}

	return args, nil
}

func (b *builder) memberRef(node *dump.Node, typed Typed) (Expr, error) {
	member := name(node)
	if decl, ok := node.Attr(attrDecl); ok {
		member = DeclName(decl)
	}

	if member == "" {
		return nil, missing(node, attrDecl)
	}

	base, err := b.onlyChild(node)
	if err != nil {
		return nil, err
	}

	return &MemberRef{Base: base, Member: member, Meta: meta(node), Typed: typed}, nil
}

func typeExpr(node *dump.Node, typed Typed) (Expr, error) {
	typeName := node.AttrOr(attrTypeRepr, "")
	if typeName == "" {
		typeName = strings.TrimSuffix(typed.Type, ".Type")
	}

	if typeName == "" {
		return nil, missing(node, attrTypeRepr)
	}

	return &TypeExpr{Name: typeName, Meta: meta(node), Typed: typed}, nil
}

func (b *builder) tuple(node *dump.Node, typed Typed) (Expr, error) {
	values, err := b.exprs(node.Children)
	if err != nil {
		return nil, err
	}

	var labels []string
	if names, ok := node.Attr(attrNames); ok {
		labels = strings.Split(names, ",")
	}

	tuple := &Tuple{Meta: meta(node), Typed: typed, Elements: make([]Arg, len(values))}

	for idx, value := range values {
		tuple.Elements[idx].Value = value

		if idx < len(labels) {
			if label := strings.TrimSpace(labels[idx]); label != "_" && label != "''" {
				tuple.Elements[idx].Label = label
			}
		}
	}

	return tuple, nil
}

func (b *builder) dictionary(node *dump.Node, typed Typed) (Expr, error) {
	dict := &DictionaryLiteral{Meta: meta(node), Typed: typed}

	if len(node.Children) > 0 && node.Children[0].Name == "tuple_expr" {
		for _, pair := range node.Children {
			if pair.Name != "tuple_expr" || len(pair.Children) != 2 {
				return nil, unsupported(pair, "dictionary entry")
			}

			key, value, err := b.operands(pair)
			if err != nil {
				return nil, err
			}

			dict.Entries = append(dict.Entries, DictionaryEntry{Key: key, Value: value})
		}

		return dict, nil
	}

	if len(node.Children)%2 != 0 {
		return nil, missing(node, "value for every key")
	}

	values, err := b.exprs(node.Children)
	if err != nil {
		return nil, err
	}

	for idx := 0; idx < len(values); idx += 2 {
		dict.Entries = append(dict.Entries, DictionaryEntry{Key: values[idx], Value: values[idx+1]})
	}

	return dict, nil
}

func (b *builder) closure(node *dump.Node, typed Typed) (Expr, error) {
	closure := &Closure{Meta: meta(node), Typed: typed}

	for _, child := range node.Children {
		switch child.Name {
		case "parameter_list":
			params, err := b.params(child)
			if err != nil {
				return nil, err
			}

			closure.Params = params
		case "brace_stmt":
			body, err := b.brace(child)
			if err != nil {
				return nil, err
			}

			closure.Body = body
		default:
			value, err := b.expr(child)
			if err != nil {
				return nil, err
			}

			closure.Body = &Brace{Meta: meta(child), Items: []Stmt{&Return{Value: value, Meta: meta(child)}}}
		}
	}

	if closure.Body == nil {
		return nil, missing(node, "body")
	}

	return closure, nil
}

func (b *builder) ternary(node *dump.Node, typed Typed) (Expr, error) {
	if len(node.Children) != 3 {
		return nil, missing(node, "condition and two branches")
	}

	parts, err := b.exprs(node.Children)
	if err != nil {
		return nil, err
	}

	return &Ternary{Cond: parts[0], Then: parts[1], Else: parts[2], Meta: meta(node), Typed: typed}, nil
}

func (b *builder) subscript(node *dump.Node, typed Typed) (Expr, error) {
	if len(node.Children) != 2 {
		return nil, missing(node, "base and index")
	}

	base, err := b.expr(node.Children[0])
	if err != nil {
		return nil, err
	}

	indexNode := node.Children[1]

	var index Expr

	switch indexNode.Name {
	case "argument_list":
		args, err := b.arguments(indexNode)
		if err != nil {
			return nil, err
		}

		if len(args) != 1 {
			return nil, unsupported(indexNode, "multi-argument subscript")
		}

		index = args[0].Value
	case "paren_expr":
		index, err = b.onlyChild(indexNode)
	default:
		index, err = b.expr(indexNode)
	}

	if err != nil {
		return nil, err
	}

	return &Subscript{Base: base, Index: index, Meta: meta(node), Typed: typed}, nil
}

func (b *builder) cast(node *dump.Node, typed Typed, kind CastKind) (Expr, error) {
	operand, err := b.onlyChild(node)
	if err != nil {
		return nil, err
	}

	castTo := node.AttrOr(attrWrittenType, "")
	if castTo == "" && kind != IsCast {
		castTo = strings.TrimSuffix(typed.Type, "?")
	}

	if castTo == "" {
		return nil, missing(node, attrWrittenType)
	}

	return &Cast{Operand: operand, Target: castTo, Kind: kind, Meta: meta(node), Typed: typed}, nil
}
