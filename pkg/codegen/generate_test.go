package codegen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinivendra/Gryphon-sub003/pkg/codegen"
	"github.com/vinivendra/Gryphon-sub003/pkg/dump"
	"github.com/vinivendra/Gryphon-sub003/pkg/target"
)

func at(line int) target.Meta {
	return target.Meta{Range: &dump.Range{StartLine: line, StartCol: 1, EndLine: line, EndCol: 20}}
}

func ident(name string) *target.Identifier {
	return &target.Identifier{Name: name}
}

func str(value string) *target.Literal {
	return &target.Literal{Value: value, Kind: target.StringLiteral}
}

func num(value string) *target.Literal {
	return &target.Literal{Value: value, Kind: target.IntLiteral}
}

func printStmt(text string, meta target.Meta) *target.ExprStmt {
	return &target.ExprStmt{
		Expr: &target.Call{Function: ident("println"), Args: []target.Arg{{Value: str(text)}}},
		Meta: meta,
	}
}

func generate(stmts ...target.Stmt) codegen.Result {
	return codegen.Generate(&target.File{Stmts: stmts}, "")
}

func TestGenerate_IfElseWithMap(t *testing.T) {
	t.Parallel()

	result := generate(&target.If{
		Conditions: []target.Condition{&target.ExprCondition{Expr: &target.Binary{Left: ident("x"), Right: num("1"), Op: ">"}}},
		Then:       []target.Stmt{printStmt("big", at(2))},
		Else:       []target.Stmt{printStmt("small", at(4))},
		Meta:       at(1),
	})

	assert.Equal(t, "if (x > 1) {\n    println(\"big\")\n} else {\n    println(\"small\")\n}\n", result.Text)
	require.Len(t, result.Map, 3)

	assert.Equal(t, 2, result.Map[0].Original.StartLine)
	assert.Equal(t, codegen.Position{Line: 2, Column: 5}, result.Map[0].Start)
	assert.Equal(t, codegen.Position{Line: 2, Column: 19}, result.Map[0].End)
	assert.Equal(t, 4, result.Map[1].Original.StartLine)
	assert.Equal(t, 1, result.Map[2].Original.StartLine)
	assert.Equal(t, codegen.Position{Line: 5, Column: 2}, result.Map[2].End)
}

func TestGenerate_MapCoversEveryRangedFragment(t *testing.T) {
	t.Parallel()

	result := generate(
		&target.VarDecl{Name: "x", Value: num("1"), Meta: at(1)},
		&target.FuncDecl{Name: "f", Body: []target.Stmt{printStmt("a", at(3)), printStmt("b", at(4))}, Meta: at(2)},
		printStmt("c", at(6)),
	)

	require.Len(t, result.Map, 5)

	for _, entry := range result.Map {
		span := result.Text[entry.Offset : entry.Offset+entry.Length]

		assert.NotEmpty(t, span)

		if entry.Start.Line == entry.End.Line {
			assert.Equal(t, entry.Length, entry.End.Column-entry.Start.Column, span)
		}
	}
}

func TestGenerate_Expressions(t *testing.T) {
	t.Parallel()

	add := func(l, r target.Expr) *target.Binary { return &target.Binary{Left: l, Right: r, Op: "+"} }

	tests := []struct {
		expr target.Expr
		name string
		want string
	}{
		{name: "precedence", expr: &target.Binary{Left: add(ident("a"), ident("b")), Right: ident("c"), Op: "*"}, want: "(a + b) * c"},
		{name: "right associativity", expr: &target.Binary{
			Left: ident("a"), Right: &target.Binary{Left: ident("b"), Right: ident("c"), Op: "-"}, Op: "-",
		}, want: "a - (b - c)"},
		{name: "negation", expr: &target.Unary{Op: "!", Operand: &target.Binary{Left: ident("a"), Right: ident("b"), Op: "&&"}}, want: "!(a && b)"},
		{name: "elvis", expr: &target.Binary{Left: ident("a"), Right: num("0"), Op: "?:"}, want: "a ?: 0"},
		{name: "optional chain", expr: &target.Dot{Receiver: ident("a"), Member: "b", Optional: true}, want: "a?.b"},
		{name: "force unwrap", expr: &target.ForceUnwrap{Operand: ident("a")}, want: "a!!"},
		{name: "safe cast", expr: &target.Cast{Operand: ident("a"), Target: "Int", Kind: target.SafeCast}, want: "a as? Int"},
		{name: "type check", expr: &target.Cast{Operand: ident("a"), Target: "Bool", Kind: target.TypeCheck}, want: "a is Boolean"},
		{name: "conditional", expr: &target.Conditional{Cond: ident("c"), Then: num("1"), Else: num("2")}, want: "if (c) 1 else 2"},
		{name: "subscript", expr: &target.Subscript{Receiver: ident("xs"), Index: num("0")}, want: "xs[0]"},
		{name: "interpolation", expr: &target.Interpolation{Parts: []target.Expr{str("x is "), ident("x")}}, want: `"x is ${x}"`},
		{name: "dollar", expr: str("cost $5"), want: `"cost \$5"`},
		{name: "char", expr: &target.Literal{Value: "a", Kind: target.CharLiteral}, want: "'a'"},
		{name: "null", expr: &target.Literal{Value: "null", Kind: target.NullLiteral}, want: "null"},
		{name: "array", expr: &target.Array{Elements: []target.Expr{num("1"), num("2")}}, want: "mutableListOf(1, 2)"},
		{name: "dictionary", expr: &target.Dictionary{Entries: []target.Entry{{Key: str("a"), Value: num("1")}}}, want: `mutableMapOf("a" to 1)`},
		{name: "pair", expr: &target.Tuple{Elements: []target.Arg{{Value: num("1")}, {Value: num("2")}}}, want: "Pair(1, 2)"},
		{name: "implicit member", expr: &target.Dot{Receiver: &target.TypeRef{Name: "Color", Implicit: true}, Member: "Red"}, want: "Color.Red"},
		{name: "named argument", expr: &target.Call{
			Function: ident("move"), Args: []target.Arg{{Label: "offset", Value: num("1")}},
		}, want: "move(offset = 1)"},
		{name: "trailing lambda", expr: &target.Call{
			Function:        &target.Dot{Receiver: ident("list"), Member: "forEach"},
			Args:            []target.Arg{{Value: &target.Closure{Params: []target.Param{{Name: "it"}}, Body: []target.Stmt{printStmt("x", target.Meta{})}}}},
			TrailingClosure: true,
		}, want: `list.forEach { it -> println("x") }`},
		{name: "template receiver", expr: &target.Concat{Parts: []target.Expr{
			add(ident("a"), ident("b")), &target.RawCode{Text: ".firstOrNull()"},
		}}, want: "(a + b).firstOrNull()"},
		{name: "template argument", expr: &target.Concat{Parts: []target.Expr{
			&target.RawCode{Text: "println("}, add(ident("a"), ident("b")), &target.RawCode{Text: ")"},
		}}, want: "println(a + b)"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			result := generate(&target.ExprStmt{Expr: tc.expr})
			assert.Equal(t, tc.want+"\n", result.Text)
		})
	}
}

func TestGenerate_Declarations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		stmts []target.Stmt
		want  string
	}{
		{
			name:  "typed collection",
			stmts: []target.Stmt{&target.VarDecl{Name: "names", Type: "[String]", Value: &target.Array{}}},
			want:  "val names: MutableList<String> = mutableListOf()\n",
		},
		{
			name:  "optional dictionary",
			stmts: []target.Stmt{&target.VarDecl{Name: "m", Type: "[String : Int]?", Mutable: true}},
			want:  "var m: MutableMap<String, Int>?\n",
		},
		{
			name: "computed property",
			stmts: []target.Stmt{&target.VarDecl{Name: "area", Type: "Double", Getter: []target.Stmt{
				&target.Return{Value: &target.Binary{Left: ident("w"), Right: ident("h"), Op: "*"}},
			}}},
			want: "val area: Double\n    get() = w * h\n",
		},
		{
			name: "main",
			stmts: []target.Stmt{&target.FuncDecl{
				Name:   "main",
				Params: []target.Param{{Name: "args", Type: "Array<String>"}},
				Body:   []target.Stmt{&target.ExprStmt{Expr: &target.Call{Function: ident("f")}}},
			}},
			want: "fun main(args: Array<String>) {\n    f()\n}\n",
		},
		{
			name: "expression body and function type",
			stmts: []target.Stmt{&target.FuncDecl{
				Name:       "apply",
				Access:     "private",
				Params:     []target.Param{{Name: "f", Type: "(Int) -> Void"}, {Name: "n", Type: "Int", Default: num("0")}},
				ReturnType: "Bool",
				ExprBody:   &target.Literal{Value: "true", Kind: target.BoolLiteral},
			}},
			want: "private fun apply(f: (Int) -> Unit, n: Int = 0): Boolean = true\n",
		},
		{
			name: "else if",
			stmts: []target.Stmt{&target.If{
				Conditions: []target.Condition{&target.ExprCondition{Expr: ident("a")}},
				Then:       []target.Stmt{&target.ExprStmt{Expr: &target.Call{Function: ident("x")}}},
				Else: []target.Stmt{&target.If{
					Conditions: []target.Condition{&target.ExprCondition{Expr: ident("b")}},
					Then:       []target.Stmt{&target.ExprStmt{Expr: &target.Call{Function: ident("y")}}},
				}},
			}},
			want: "if (a) {\n    x()\n} else if (b) {\n    y()\n}\n",
		},
		{
			name: "when",
			stmts: []target.Stmt{&target.Switch{Subject: ident("shape"), Cases: []*target.Case{
				{
					Patterns: []target.Pattern{&target.IsPattern{Type: "Shape.Circle"}},
					Body: []target.Stmt{
						&target.VarDecl{Name: "r", Value: &target.Dot{Receiver: ident("shape"), Member: "radius"}},
						&target.ExprStmt{Expr: &target.Call{Function: ident("println"), Args: []target.Arg{{Value: ident("r")}}}},
					},
				},
				{Patterns: []target.Pattern{&target.ExprPattern{Expr: num("1")}}, Body: []target.Stmt{&target.Return{}}},
				{IsDefault: true, Body: []target.Stmt{&target.Break{}}},
			}}},
			want: "when (shape) {\n" +
				"    is Shape.Circle -> {\n" +
				"        val r = shape.radius\n" +
				"        println(r)\n" +
				"    }\n" +
				"    1 -> return\n" +
				"    else -> {}\n" +
				"}\n",
		},
		{
			name: "when with bound subject",
			stmts: []target.Stmt{&target.Switch{
				Subject: &target.Call{Function: ident("next")},
				Binding: "subject",
				Cases: []*target.Case{
					{Patterns: []target.Pattern{&target.IsPattern{Type: "Shape.Square"}}, Body: []target.Stmt{&target.Return{}}},
				},
			}},
			want: "when (val subject = next()) {\n" +
				"    is Shape.Square -> return\n" +
				"}\n",
		},
		{
			name: "data class",
			stmts: []target.Stmt{&target.ClassDecl{Name: "Point", Kind: target.KindDataClass, Properties: []*target.VarDecl{
				{Name: "x", Type: "Int"}, {Name: "y", Type: "Int", Mutable: true},
			}}},
			want: "data class Point(val x: Int, var y: Int)\n",
		},
		{
			name: "sealed class",
			stmts: []target.Stmt{&target.ClassDecl{Name: "Shape", Kind: target.KindSealedClass, Cases: []*target.EnumCase{
				{Name: "Circle", Params: []target.Param{{Label: "radius", Type: "Double"}}},
				{Name: "Empty"},
			}}},
			want: "sealed class Shape {\n    class Circle(val radius: Double): Shape()\n    object Empty: Shape()\n}\n",
		},
		{
			name: "enum class with members",
			stmts: []target.Stmt{&target.ClassDecl{
				Name:  "Color",
				Kind:  target.KindEnumClass,
				Cases: []*target.EnumCase{{Name: "Red"}, {Name: "Green"}},
				Members: []target.Stmt{&target.FuncDecl{
					Name:       "isRed",
					ReturnType: "Bool",
					ExprBody: &target.Binary{
						Left: ident("this"), Right: &target.Dot{Receiver: &target.TypeRef{Name: "Color"}, Member: "Red"}, Op: "==",
					},
				}},
			}},
			want: "enum class Color {\n    Red,\n    Green;\n\n    fun isRed(): Boolean = this == Color.Red\n}\n",
		},
		{
			name: "raw values",
			stmts: []target.Stmt{&target.ClassDecl{
				Name:     "Level",
				Kind:     target.KindEnumClass,
				Inherits: []string{"Int"},
				Cases:    []*target.EnumCase{{Name: "Low", RawValue: num("1")}, {Name: "High", RawValue: num("2")}},
			}},
			want: "enum class Level(val rawValue: Int) {\n    Low(1),\n    High(2)\n}\n",
		},
		{
			name: "open class and override",
			stmts: []target.Stmt{
				&target.ClassDecl{Name: "Animal", Kind: target.KindClass, Members: []target.Stmt{&target.FuncDecl{Name: "speak"}}},
				&target.ClassDecl{Name: "Dog", Kind: target.KindClass, Inherits: []string{"Animal", "Named"}, Members: []target.Stmt{
					&target.FuncDecl{Name: "speak", Override: true},
				}},
			},
			want: "open class Animal {\n    open fun speak() {}\n}\n\nclass Dog: Animal(), Named {\n    override fun speak() {}\n}\n",
		},
		{
			name: "companion object",
			stmts: []target.Stmt{&target.ClassDecl{Name: "Math", Kind: target.KindClass, Members: []target.Stmt{
				&target.VarDecl{Name: "pi", Static: true, Value: &target.Literal{Value: "3.14", Kind: target.FloatLiteral}},
			}}},
			want: "class Math {\n    companion object {\n        val pi = 3.14\n    }\n}\n",
		},
		{
			name: "interface and extension",
			stmts: []target.Stmt{
				&target.ClassDecl{Name: "Shape", Kind: target.KindInterface, Members: []target.Stmt{
					&target.FuncDecl{Name: "area", ReturnType: "Double", Abstract: true},
				}},
				&target.FuncDecl{Name: "twice", ExtendsType: "Int", ReturnType: "Int", ExprBody: &target.Binary{
					Left: ident("this"), Right: num("2"), Op: "*",
				}},
				&target.TypeAlias{Name: "Names", Type: "[String]"},
			},
			want: "interface Shape {\n    fun area(): Double\n}\n\nfun Int.twice(): Int = this * 2\n\ntypealias Names = MutableList<String>\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, generate(tc.stmts...).Text)
		})
	}
}

func TestGenerate_NilFileAndDefaultIndent(t *testing.T) {
	t.Parallel()

	assert.Empty(t, codegen.Generate(nil, "").Text)

	tabs := codegen.Generate(&target.File{Stmts: []target.Stmt{&target.While{
		Cond: ident("running"),
		Body: []target.Stmt{&target.Continue{}},
	}}}, "\t")
	assert.Equal(t, "while (running) {\n\tcontinue\n}\n", tabs.Text)

	assert.Equal(t, "", codegen.Translate(nil, "").String())
}

func TestExpr_RendersPatternPlaceholders(t *testing.T) {
	t.Parallel()

	pattern := &target.Dot{
		Receiver: &target.Placeholder{Variable: "_array", DeclaredType: "[Int]"},
		Member:   "first",
	}

	assert.Equal(t, "_array.first", codegen.Expr(pattern))
	assert.Empty(t, codegen.Expr(nil))
}
