package script_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snedea/arcane-auditor/pkg/script"
	"github.com/snedea/arcane-auditor/pkg/token"
)

func TestParseDeclarations(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		keyword   token.Type
		wantDecls int
	}{
		{name: "var with init", input: "var x = 1;", keyword: token.VAR, wantDecls: 1},
		{name: "let without init", input: "let y;", keyword: token.LET, wantDecls: 1},
		{name: "const", input: "const z = 'a';", keyword: token.CONST, wantDecls: 1},
		{name: "multiple declarators", input: "var a = 1, b, c = 3;", keyword: token.VAR, wantDecls: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := script.Parse(tt.input)
			require.NoError(t, err)
			require.Len(t, prog.Statements, 1)

			stmt, ok := prog.Statements[0].(*script.VarStmt)
			require.True(t, ok)
			assert.Equal(t, tt.keyword, stmt.Keyword)
			assert.Len(t, stmt.Decls, tt.wantDecls)
		})
	}
}

func TestParseFunctions(t *testing.T) {
	t.Run("named function expression", func(t *testing.T) {
		prog, err := script.Parse("var f = function add(a, b) { return a + b; };")
		require.NoError(t, err)
		require.Len(t, prog.Statements, 1)

		decl := prog.Statements[0].(*script.VarStmt).Decls[0]
		fn, ok := decl.Init.(*script.FuncExpr)
		require.True(t, ok)
		assert.Equal(t, "add", fn.Name)
		assert.Equal(t, []string{"a", "b"}, fn.Params)
		require.Len(t, fn.Body.Statements, 1)
		_, isReturn := fn.Body.Statements[0].(*script.ReturnStmt)
		assert.True(t, isReturn)
	})

	t.Run("anonymous function", func(t *testing.T) {
		prog, err := script.Parse("var f = function() {};")
		require.NoError(t, err)
		fn := prog.Statements[0].(*script.VarStmt).Decls[0].Init.(*script.FuncExpr)
		assert.Empty(t, fn.Name)
		assert.Empty(t, fn.Params)
	})

	t.Run("immediately invoked", func(t *testing.T) {
		prog, err := script.Parse("(function() { var x = 1; })();")
		require.NoError(t, err)
		require.Len(t, prog.Statements, 1)

		call, ok := prog.Statements[0].(*script.ExprStmt).Expr.(*script.CallExpr)
		require.True(t, ok)
		_, isFn := call.Callee.(*script.FuncExpr)
		assert.True(t, isFn)
	})

	t.Run("nested functions", func(t *testing.T) {
		prog, err := script.Parse("var f = function() { var g = function() { return 1; }; return g(); };")
		require.NoError(t, err)
		outer := prog.Statements[0].(*script.VarStmt).Decls[0].Init.(*script.FuncExpr)
		inner := outer.Body.Statements[0].(*script.VarStmt).Decls[0].Init
		_, isFn := inner.(*script.FuncExpr)
		assert.True(t, isFn)
	})
}

func TestParseArrowFunctions(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantParams []string
		blockBody  bool
	}{
		{name: "no params", input: "var f = () => 1;", wantParams: nil},
		{name: "single param no parens", input: "var f = x => x + 1;", wantParams: []string{"x"}},
		{name: "multiple params", input: "var f = (a, b) => a + b;", wantParams: []string{"a", "b"}},
		{name: "block body", input: "var f = (a) => { return a; };", wantParams: []string{"a"}, blockBody: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := script.Parse(tt.input)
			require.NoError(t, err)

			arrow, ok := prog.Statements[0].(*script.VarStmt).Decls[0].Init.(*script.ArrowFunc)
			require.True(t, ok)
			assert.Equal(t, tt.wantParams, arrow.Params)
			_, isBlock := arrow.Body.(*script.BlockStmt)
			assert.Equal(t, tt.blockBody, isBlock)
		})
	}
}

func TestParseControlFlow(t *testing.T) {
	t.Run("if else chain", func(t *testing.T) {
		prog, err := script.Parse("if (a) { x = 1; } else if (b) { x = 2; } else { x = 3; }")
		require.NoError(t, err)
		require.Len(t, prog.Statements, 1)

		ifStmt := prog.Statements[0].(*script.IfStmt)
		elseIf, ok := ifStmt.Else.(*script.IfStmt)
		require.True(t, ok)
		_, ok = elseIf.Else.(*script.BlockStmt)
		assert.True(t, ok)
	})

	t.Run("three clause for", func(t *testing.T) {
		prog, err := script.Parse("for (var i = 0; i < 10; i++) { total += i; }")
		require.NoError(t, err)

		forStmt := prog.Statements[0].(*script.ForStmt)
		assert.NotNil(t, forStmt.Init)
		assert.NotNil(t, forStmt.Cond)
		assert.NotNil(t, forStmt.Post)
		assert.NotNil(t, forStmt.Body)
	})

	t.Run("for in", func(t *testing.T) {
		prog, err := script.Parse("for (var item in collection) { process(item); }")
		require.NoError(t, err)

		forIn := prog.Statements[0].(*script.ForInStmt)
		assert.Equal(t, token.VAR, forIn.Keyword)
		assert.Equal(t, "item", forIn.Name)
	})

	t.Run("bare for in", func(t *testing.T) {
		prog, err := script.Parse("for (item in collection) {}")
		require.NoError(t, err)

		forIn := prog.Statements[0].(*script.ForInStmt)
		assert.Equal(t, token.ILLEGAL, forIn.Keyword)
		assert.Equal(t, "item", forIn.Name)
	})

	t.Run("while", func(t *testing.T) {
		prog, err := script.Parse("while (x > 0) { x--; }")
		require.NoError(t, err)
		_, ok := prog.Statements[0].(*script.WhileStmt)
		assert.True(t, ok)
	})

	t.Run("do while", func(t *testing.T) {
		prog, err := script.Parse("do { x++; } while (x < 10);")
		require.NoError(t, err)
		_, ok := prog.Statements[0].(*script.DoWhileStmt)
		assert.True(t, ok)
	})
}

func TestParseMemberIndexCall(t *testing.T) {
	prog, err := script.Parse("site.pages[0].widgets.find(w => w.id == 'main').label = 'x';")
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)

	assign, ok := prog.Statements[0].(*script.ExprStmt).Expr.(*script.AssignExpr)
	require.True(t, ok)

	member, ok := assign.Target.(*script.MemberExpr)
	require.True(t, ok)
	assert.Equal(t, "label", member.Property)

	call, ok := member.Object.(*script.CallExpr)
	require.True(t, ok)
	require.Len(t, call.Args, 1)
	_, isArrow := call.Args[0].(*script.ArrowFunc)
	assert.True(t, isArrow)
}

func TestParseLiterals(t *testing.T) {
	t.Run("object literal", func(t *testing.T) {
		prog, err := script.Parse("var o = { name: 'a', 'count': 2, nested: { ok: true } };")
		require.NoError(t, err)

		obj := prog.Statements[0].(*script.VarStmt).Decls[0].Init.(*script.ObjectLit)
		require.Len(t, obj.Props, 3)
		assert.Equal(t, "name", obj.Props[0].Key)
		assert.Equal(t, "count", obj.Props[1].Key)
		_, isNested := obj.Props[2].Value.(*script.ObjectLit)
		assert.True(t, isNested)
	})

	t.Run("array literal", func(t *testing.T) {
		prog, err := script.Parse("var a = [1, 'two', [3]];")
		require.NoError(t, err)

		arr := prog.Statements[0].(*script.VarStmt).Decls[0].Init.(*script.ArrayLit)
		require.Len(t, arr.Elements, 3)
	})

	t.Run("template literal with holes", func(t *testing.T) {
		prog, err := script.Parse("var msg = `Found {{ count }} of {{ total }} items`;")
		require.NoError(t, err)

		tmpl := prog.Statements[0].(*script.VarStmt).Decls[0].Init.(*script.TemplateLit)
		require.Len(t, tmpl.Parts, 3)
		assert.Equal(t, "Found ", tmpl.Parts[0].Text)
		ident, ok := tmpl.Parts[0].Expr.(*script.Ident)
		require.True(t, ok)
		assert.Equal(t, "count", ident.Name)
		assert.Equal(t, " items", tmpl.Parts[2].Text)
		assert.Nil(t, tmpl.Parts[2].Expr)
	})

	t.Run("template hole with expression", func(t *testing.T) {
		prog, err := script.Parse("var msg = `{{ a.b(1) + 2 }}`;")
		require.NoError(t, err)

		tmpl := prog.Statements[0].(*script.VarStmt).Decls[0].Init.(*script.TemplateLit)
		require.Len(t, tmpl.Parts, 1)
		_, isBinary := tmpl.Parts[0].Expr.(*script.BinaryExpr)
		assert.True(t, isBinary)
	})
}

func TestParseOperatorPrecedence(t *testing.T) {
	prog, err := script.Parse("var x = 1 + 2 * 3;")
	require.NoError(t, err)

	add := prog.Statements[0].(*script.VarStmt).Decls[0].Init.(*script.BinaryExpr)
	assert.Equal(t, token.PLUS, add.Op)
	mul, ok := add.Right.(*script.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, token.STAR, mul.Op)
}

func TestParseTernary(t *testing.T) {
	prog, err := script.Parse("var x = a > 0 ? 'pos' : 'neg';")
	require.NoError(t, err)

	cond, ok := prog.Statements[0].(*script.VarStmt).Decls[0].Init.(*script.CondExpr)
	require.True(t, ok)
	_, isBinary := cond.Cond.(*script.BinaryExpr)
	assert.True(t, isBinary)
}

// A trailing comment after a closing brace must not swallow the statements
// that follow it; everything after the comment stays a sibling of the
// statement before it.
func TestParseCommentAfterBlock(t *testing.T) {
	input := "const f = function(){} // trailing\nconst g = function(){}"
	prog, err := script.Parse(input)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 2)

	for _, stmt := range prog.Statements {
		vs, ok := stmt.(*script.VarStmt)
		require.True(t, ok)
		_, isFn := vs.Decls[0].Init.(*script.FuncExpr)
		assert.True(t, isFn)
	}
}

func TestParseCommentsEverywhere(t *testing.T) {
	input := `// leading
var /* inline */ x = 1; // after statement
if (x /* cond */ > 0) {
	// inside block
	x = 2;
} /* after block */
var y = 3;`
	prog, err := script.Parse(input)
	require.NoError(t, err)
	assert.Len(t, prog.Statements, 3)
	assert.NotEmpty(t, prog.Comments)
}

func TestParseNodeLines(t *testing.T) {
	prog, err := script.Parse("var a = 1;\nvar b = 2;\nvar c = 3;")
	require.NoError(t, err)
	require.Len(t, prog.Statements, 3)

	for i, stmt := range prog.Statements {
		assert.Equal(t, i+1, stmt.GetSpan().Start.Line)
	}
}

func TestParseDeterministic(t *testing.T) {
	input := "var x = site.pages[0]; if (x) { x.refresh(); }"
	first, err := script.Parse(input)
	require.NoError(t, err)
	second, err := script.Parse(input)
	require.NoError(t, err)
	assert.True(t, reflect.DeepEqual(first, second))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "unclosed paren", input: "var x = (1 + 2;"},
		{name: "missing property", input: "var x = a.;"},
		{name: "stray operator", input: "var x = * 2;"},
		{name: "bad arrow params", input: "var f = (1, 2) => 3;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := script.Parse(tt.input)
			require.Error(t, err)

			var parseErr *script.ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Greater(t, parseErr.Pos.Line, 0)
		})
	}
}

func TestParseEmptyInput(t *testing.T) {
	prog, err := script.Parse("")
	require.NoError(t, err)
	assert.Empty(t, prog.Statements)
}
