package source

import (
	"strings"

	"github.com/vinivendra/Gryphon-sub003/pkg/dump"
)

// Dump attribute names read by the builder.
const (
	attrAccess        = "access"
	attrAnnotations   = "annotations"
	attrAPIName       = "apiName"
	attrDecl          = "decl"
	attrInherits      = "inherits"
	attrInterfaceType = "interface type"
	attrLabel         = "label"
	attrNames         = "names"
	attrOperator      = "operator"
	attrResult        = "result"
	attrResultType    = "result type"
	attrType          = "type"
	attrTypeRepr      = "typerepr"
	attrValue         = "value"
	attrWrittenType   = "writtenType"
)

// Flags that may precede a node's name among its standalone attributes.
var flagWords = map[string]bool{
	"implicit": true, "let": true, "var": true, "static": true, "mutating": true,
	"override": true, "trailing": true, "default": true, "nothrow": true, "final": true,
	"single-expression": true,
}

// transparentExprs wrap a single child expression without changing its meaning.
var transparentExprs = map[string]bool{
	"load_expr":                true,
	"inject_into_optional":     true,
	"function_conversion_expr": true,
	"erasure_expr":             true,
	"derived_to_base_expr":     true,
	"dot_self_expr":            true,
}

type builder struct {
	inProtocol bool
}

// Build turns a decoded source_file tree into a File.
func Build(root *dump.Node) (*File, error) {
	if root == nil || root.Name != "source_file" {
		if root == nil {
			return nil, &MissingAttributeError{Node: "source_file", Attribute: "root node"}
		}

		return nil, unsupported(root, "root position")
	}

	b := &builder{}
	file := &File{Name: root.FirstStandalone(), Meta: meta(root)}

	for _, child := range root.Children {
		if child.Name == "top_level_code_decl" {
			items, err := b.topLevelCode(child)
			if err != nil {
				return nil, err
			}

			file.Items = append(file.Items, items...)

			continue
		}

		item, err := b.item(child)
		if err != nil {
			return nil, err
		}

		file.Items = append(file.Items, item)
	}

	return file, nil
}

// BuildExpr builds a single expression tree.
func BuildExpr(node *dump.Node) (Expr, error) {
	return (&builder{}).expr(node)
}

func (b *builder) topLevelCode(node *dump.Node) ([]Stmt, error) {
	var items []Stmt

	for _, child := range node.Children {
		if child.Name == "brace_stmt" {
			brace, err := b.brace(child)
			if err != nil {
				return nil, err
			}

			items = append(items, brace.Items...)

			continue
		}

		item, err := b.item(child)
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	return items, nil
}

//nolint:cyclop // one branch per statement or declaration kind.
func (b *builder) item(node *dump.Node) (Stmt, error) {
	switch node.Name {
	case "import_decl":
		return &Import{Module: name(node), Meta: meta(node)}, nil
	case "func_decl", "constructor_decl":
		return b.funcDecl(node)
	case "var_decl":
		return b.varDecl(node)
	case "struct_decl", "class_decl", "enum_decl", "protocol_decl", "extension_decl":
		return b.typeDecl(node)
	case "enum_case_decl":
		return b.enumCaseDecl(node)
	case "typealias_decl":
		return b.typeAlias(node)
	case "brace_stmt":
		return b.brace(node)
	case "return_stmt":
		return b.returnStmt(node)
	case "if_stmt":
		return b.ifStmt(node)
	case "guard_stmt":
		return b.guardStmt(node)
	case "while_stmt":
		return b.whileStmt(node)
	case "for_each_stmt":
		return b.forEach(node)
	case "switch_stmt":
		return b.switchStmt(node)
	case "break_stmt":
		return &Break{Meta: meta(node)}, nil
	case "continue_stmt":
		return &Continue{Meta: meta(node)}, nil
	case "throw_stmt":
		value, err := b.onlyChild(node)
		if err != nil {
			return nil, err
		}

		return &Throw{Value: value, Meta: meta(node)}, nil
	case "assign_expr":
		return b.assign(node)
	case "binary_expr":
		if op := binaryOperator(node); isCompoundAssignment(op) {
			return b.compoundAssign(node, op)
		}
	}

	expr, err := b.expr(node)
	if err != nil {
		return nil, err
	}

	return &ExprStmt{Expr: expr, Meta: meta(node)}, nil
}

func (b *builder) funcDecl(node *dump.Node) (*FuncDecl, error) {
	decl := &FuncDecl{
		Meta:        meta(node),
		Static:      node.HasFlag("static"),
		Mutating:    node.HasFlag("mutating"),
		Override:    node.HasFlag("override"),
		IsInit:      node.Name == "constructor_decl",
		Annotations: ParseList(node.AttrOr(attrAnnotations, "")),
	}

	if decl.IsInit {
		decl.Name = "init"
	} else {
		decl.Name = DeclName(name(node))
		if decl.Name == "" {
			return nil, missing(node, "name")
		}

		result, ok := resultTypeOf(node)
		if !ok {
			return nil, missing(node, "result type")
		}

		decl.ResultType = result
	}

	access, ok := node.Attr(attrAccess)
	if !ok {
		return nil, missing(node, attrAccess)
	}

	decl.Access = access

	params, err := b.params(node.Child("parameter_list"))
	if err != nil {
		return nil, err
	}

	decl.Params = params

	if body := node.Child("brace_stmt"); body != nil {
		decl.Body, err = b.brace(body)
		if err != nil {
			return nil, err
		}
	} else if !b.inProtocol {
		return nil, missing(node, "body")
	}

	return decl, nil
}

func resultTypeOf(node *dump.Node) (string, bool) {
	if result, ok := node.Attr(attrResultType); ok {
		return result, true
	}

	if result, ok := node.Attr(attrResult); ok {
		return result, true
	}

	if fnType, ok := node.Attr(attrInterfaceType); ok {
		return ResultType(fnType)
	}

	return "", false
}

func (b *builder) params(list *dump.Node) ([]Param, error) {
	if list == nil {
		return nil, nil
	}

	params := make([]Param, 0, len(list.Children))

	for _, child := range list.Children {
		if child.Name != "parameter" {
			return nil, unsupported(child, "parameter list")
		}

		param := Param{
			Name:  name(child),
			Label: child.AttrOr(attrAPIName, ""),
			Type:  child.AttrOr(attrInterfaceType, child.AttrOr(attrType, "")),
		}

		if param.Name == "" {
			return nil, missing(child, "name")
		}

		if len(child.Children) > 0 {
			value, err := b.expr(child.Children[0])
			if err != nil {
				return nil, err
			}

			param.Default = value
		}

		params = append(params, param)
	}

	return params, nil
}

func (b *builder) varDecl(node *dump.Node) (*VarDecl, error) {
	decl := &VarDecl{
		Meta:        meta(node),
		Name:        name(node),
		Type:        node.AttrOr(attrType, node.AttrOr(attrInterfaceType, "")),
		Access:      node.AttrOr(attrAccess, ""),
		IsLet:       node.HasFlag("let"),
		Static:      node.HasFlag("static"),
		Annotations: ParseList(node.AttrOr(attrAnnotations, "")),
	}

	if decl.Name == "" {
		return nil, missing(node, "name")
	}

	for _, child := range node.Children {
		switch child.Name {
		case "brace_stmt":
			getter, err := b.brace(child)
			if err != nil {
				return nil, err
			}

			decl.Getter = getter
		case "accessor_decl":
			body := child.Child("brace_stmt")
			if body == nil {
				return nil, missing(child, "body")
			}

			getter, err := b.brace(body)
			if err != nil {
				return nil, err
			}

			decl.Getter = getter
		default:
			value, err := b.expr(child)
			if err != nil {
				return nil, err
			}

			decl.Value = value
		}
	}

	return decl, nil
}

func (b *builder) typeDecl(node *dump.Node) (*TypeDecl, error) {
	decl := &TypeDecl{
		Meta:        meta(node),
		Name:        name(node),
		Access:      node.AttrOr(attrAccess, ""),
		Inherits:    ParseList(node.AttrOr(attrInherits, "")),
		Annotations: ParseList(node.AttrOr(attrAnnotations, "")),
	}

	switch node.Name {
	case "struct_decl":
		decl.Kind = StructType
	case "class_decl":
		decl.Kind = ClassType
	case "enum_decl":
		decl.Kind = EnumType
	case "protocol_decl":
		decl.Kind = ProtocolType
	case "extension_decl":
		decl.Kind = ExtensionType
	}

	if decl.Name == "" {
		return nil, missing(node, "name")
	}

	saved := b.inProtocol
	b.inProtocol = decl.Kind == ProtocolType

	defer func() { b.inProtocol = saved }()

	for _, child := range node.Children {
		member, err := b.item(child)
		if err != nil {
			return nil, err
		}

		decl.Members = append(decl.Members, member)
	}

	return decl, nil
}

func (b *builder) enumCaseDecl(node *dump.Node) (*EnumCaseDecl, error) {
	decl := &EnumCaseDecl{Meta: meta(node)}

	for _, child := range node.Children {
		if child.Name != "enum_element_decl" {
			return nil, unsupported(child, "enum case")
		}

		element := &EnumElement{Meta: meta(child), Name: DeclName(name(child))}
		if element.Name == "" {
			return nil, missing(child, "name")
		}

		for _, part := range child.Children {
			if part.Name == "parameter_list" {
				params, err := b.params(part)
				if err != nil {
					return nil, err
				}

				element.Params = params

				continue
			}

			raw, err := b.expr(part)
			if err != nil {
				return nil, err
			}

			element.RawValue = raw
		}

		decl.Elements = append(decl.Elements, element)
	}

	return decl, nil
}

func (b *builder) typeAlias(node *dump.Node) (*TypeAliasDecl, error) {
	aliased, ok := node.Attr(attrType)
	if !ok {
		return nil, missing(node, attrType)
	}

	alias := &TypeAliasDecl{
		Meta:   meta(node),
		Name:   name(node),
		Type:   aliased,
		Access: node.AttrOr(attrAccess, ""),
	}

	if alias.Name == "" {
		return nil, missing(node, "name")
	}

	return alias, nil
}

func (b *builder) brace(node *dump.Node) (*Brace, error) {
	brace := &Brace{Meta: meta(node)}

	for _, child := range node.Children {
		item, err := b.item(child)
		if err != nil {
			return nil, err
		}

		brace.Items = append(brace.Items, item)
	}

	return brace, nil
}

func (b *builder) returnStmt(node *dump.Node) (*Return, error) {
	ret := &Return{Meta: meta(node)}

	if len(node.Children) > 0 {
		value, err := b.expr(node.Children[0])
		if err != nil {
			return nil, err
		}

		ret.Value = value
	}

	return ret, nil
}

// splitAtBrace separates condition children from the first brace_stmt and
// whatever follows it.
func splitAtBrace(node *dump.Node) ([]*dump.Node, *dump.Node, []*dump.Node) {
	for idx, child := range node.Children {
		if child.Name == "brace_stmt" {
			return node.Children[:idx], child, node.Children[idx+1:]
		}
	}

	return node.Children, nil, nil
}

func (b *builder) conditions(nodes []*dump.Node) ([]Condition, error) {
	conds := make([]Condition, 0, len(nodes))

	for _, node := range nodes {
		if node.Name == "stmt_condition" || node.Name == "condition" {
			inner, err := b.conditions(node.Children)
			if err != nil {
				return nil, err
			}

			conds = append(conds, inner...)

			continue
		}

		if node.Name == "pattern_let" || node.Name == "pattern_var" {
			binding, err := b.binding(node)
			if err != nil {
				return nil, err
			}

			conds = append(conds, binding)

			continue
		}

		expr, err := b.expr(node)
		if err != nil {
			return nil, err
		}

		conds = append(conds, &CondExpr{Expr: expr})
	}

	return conds, nil
}

// binding reads "(pattern_let "x" type='Int' (initializer))"; the name may
// also sit in a nested pattern_named.
func (b *builder) binding(node *dump.Node) (*CondBinding, error) {
	binding := &CondBinding{
		Name:  name(node),
		Type:  node.AttrOr(attrType, ""),
		IsVar: node.Name == "pattern_var",
	}

	for _, child := range node.Children {
		if child.Name == "pattern_named" {
			binding.Name = name(child)
			if binding.Type == "" {
				binding.Type = child.AttrOr(attrType, "")
			}

			continue
		}

		value, err := b.expr(child)
		if err != nil {
			return nil, err
		}

		binding.Value = value
	}

	if binding.Name == "" {
		return nil, missing(node, "name")
	}

	if binding.Value == nil {
		return nil, missing(node, "initializer")
	}

	return binding, nil
}

func (b *builder) ifStmt(node *dump.Node) (*If, error) {
	condNodes, thenNode, rest := splitAtBrace(node)
	if thenNode == nil {
		return nil, missing(node, "body")
	}

	conds, err := b.conditions(condNodes)
	if err != nil {
		return nil, err
	}

	stmt := &If{Meta: meta(node), Conditions: conds}

	if stmt.Then, err = b.brace(thenNode); err != nil {
		return nil, err
	}

	if len(rest) > 0 {
		switch rest[0].Name {
		case "brace_stmt":
			stmt.Else, err = b.brace(rest[0])
		case "if_stmt":
			stmt.Else, err = b.ifStmt(rest[0])
		default:
			return nil, unsupported(rest[0], "else branch")
		}

		if err != nil {
			return nil, err
		}
	}

	return stmt, nil
}

func (b *builder) guardStmt(node *dump.Node) (*Guard, error) {
	condNodes, elseNode, _ := splitAtBrace(node)
	if elseNode == nil {
		return nil, missing(node, "else body")
	}

	conds, err := b.conditions(condNodes)
	if err != nil {
		return nil, err
	}

	body, err := b.brace(elseNode)
	if err != nil {
		return nil, err
	}

	return &Guard{Meta: meta(node), Conditions: conds, Else: body}, nil
}

func (b *builder) whileStmt(node *dump.Node) (*While, error) {
	condNodes, bodyNode, _ := splitAtBrace(node)
	if bodyNode == nil || len(condNodes) != 1 {
		return nil, missing(node, "condition and body")
	}

	cond, err := b.expr(condNodes[0])
	if err != nil {
		return nil, err
	}

	body, err := b.brace(bodyNode)
	if err != nil {
		return nil, err
	}

	return &While{Meta: meta(node), Cond: cond, Body: body}, nil
}

func (b *builder) forEach(node *dump.Node) (*ForEach, error) {
	loop := &ForEach{Meta: meta(node)}

	for _, child := range node.Children {
		var err error

		switch child.Name {
		case "pattern_named":
			loop.Variable = name(child)
		case "pattern_any":
			loop.Variable = "_"
		case "brace_stmt":
			loop.Body, err = b.brace(child)
		default:
			loop.Collection, err = b.expr(child)
		}

		if err != nil {
			return nil, err
		}
	}

	if loop.Variable == "" || loop.Collection == nil || loop.Body == nil {
		return nil, missing(node, "variable, collection and body")
	}

	return loop, nil
}

func (b *builder) switchStmt(node *dump.Node) (*Switch, error) {
	if len(node.Children) == 0 {
		return nil, missing(node, "subject")
	}

	subject, err := b.expr(node.Children[0])
	if err != nil {
		return nil, err
	}

	stmt := &Switch{Meta: meta(node), Subject: subject}

	for _, child := range node.Children[1:] {
		if child.Name != "case_stmt" {
			return nil, unsupported(child, "switch")
		}

		c, err := b.caseStmt(child)
		if err != nil {
			return nil, err
		}

		stmt.Cases = append(stmt.Cases, c)
	}

	return stmt, nil
}

func (b *builder) caseStmt(node *dump.Node) (*Case, error) {
	patternNodes, bodyNode, _ := splitAtBrace(node)
	if bodyNode == nil {
		return nil, missing(node, "body")
	}

	c := &Case{Meta: meta(node), IsDefault: node.HasFlag("default")}

	var err error
	if c.Body, err = b.brace(bodyNode); err != nil {
		return nil, err
	}

	for _, patternNode := range patternNodes {
		if patternNode.Name == "case_label_item" && len(patternNode.Children) == 1 {
			patternNode = patternNode.Children[0]
		}

		switch patternNode.Name {
		case "default", "pattern_any":
			c.IsDefault = true
		case "pattern_expr":
			value, err := b.onlyChild(patternNode)
			if err != nil {
				return nil, err
			}

			c.Patterns = append(c.Patterns, &PatternExpr{Expr: value})
		case "pattern_enum_element":
			c.Patterns = append(c.Patterns, enumElementPattern(patternNode))
		case "pattern_is":
			castTo, ok := patternNode.Attr(attrType)
			if !ok {
				return nil, missing(patternNode, attrType)
			}

			c.Patterns = append(c.Patterns, &PatternIs{Type: castTo})
		default:
			return nil, unsupported(patternNode, "case pattern")
		}
	}

	return c, nil
}

func enumElementPattern(node *dump.Node) *PatternEnumElement {
	pattern := &PatternEnumElement{
		Enum: node.AttrOr(attrType, ""),
		Case: DeclName(strings.TrimPrefix(name(node), ".")),
	}

	node.VisitPreOrder(func(n *dump.Node) {
		switch n.Name {
		case "pattern_named":
			pattern.Bindings = append(pattern.Bindings, name(n))
		case "pattern_any":
			pattern.Bindings = append(pattern.Bindings, "_")
		}
	})

	return pattern
}

func (b *builder) assign(node *dump.Node) (*Assign, error) {
	if len(node.Children) != 2 {
		return nil, missing(node, "destination and source")
	}

	dest, err := b.expr(node.Children[0])
	if err != nil {
		return nil, err
	}

	value, err := b.expr(node.Children[1])
	if err != nil {
		return nil, err
	}

	return &Assign{Meta: meta(node), Dest: dest, Value: value, Op: "="}, nil
}

func (b *builder) compoundAssign(node *dump.Node, op string) (*Assign, error) {
	left, right, err := b.operands(node)
	if err != nil {
		return nil, err
	}

	return &Assign{Meta: meta(node), Dest: left, Value: right, Op: op}, nil
}

func isCompoundAssignment(op string) bool {
	switch op {
	case "+=", "-=", "*=", "/=", "%=":
		return true
	}

	return false
}

func (b *builder) onlyChild(node *dump.Node) (Expr, error) {
	if len(node.Children) != 1 {
		return nil, missing(node, "operand")
	}

	return b.expr(node.Children[0])
}

// name returns the first standalone attribute that is not a flag word.
func name(node *dump.Node) string {
	for _, value := range node.Standalone {
		if !flagWords[value] {
			return value
		}
	}

	return ""
}

func meta(node *dump.Node) Meta {
	return Meta{Range: node.Range}
}
