package script

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Statements(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string // statement node types
	}{
		{"empty", "", nil},
		{"whitespace only", "  \n\t ", nil},
		{"var", "var a = 1, b;", []string{"*script.VarDecl"}},
		{"function declaration", "function f(a, b) { return a + b; }", []string{"*script.FuncDecl"}},
		{"optional semicolons", "a = 1\nb = 2", []string{"*script.ExprStmt", "*script.ExprStmt"}},
		{"if else", "if (a) { b() } else if (c) d(); else { e }", []string{"*script.IfStmt"}},
		{"for classic", "for (var i = 0; i < n; i++) { x += i }", []string{"*script.ForStmt"}},
		{"for in", "for (var k in obj) { }", []string{"*script.ForInStmt"}},
		{"for of", "for (const v of list) { }", []string{"*script.ForInStmt"}},
		{"while and do", "while (x) x--; do { y++ } while (y < 3);", []string{"*script.WhileStmt", "*script.DoWhileStmt"}},
		{"try", "try { a() } catch (e) { b(e) } finally { c() }", []string{"*script.TryStmt"}},
		{"switch", "switch (x) { case 1: a(); break; default: b() }", []string{"*script.SwitchStmt"}},
		{"empty statement", ";", []string{"*script.EmptyStmt"}},
		{"throw", "throw err", []string{"*script.ThrowStmt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Empty(t, prog.Errors)

			var got []string
			for _, s := range prog.Stmts {
				got = append(got, typeName(s))
			}

			assert.Equal(t, tt.want, got)
		})
	}
}

func typeName(n Node) string {
	switch n.(type) {
	case *VarDecl:
		return "*script.VarDecl"
	case *FuncDecl:
		return "*script.FuncDecl"
	case *ExprStmt:
		return "*script.ExprStmt"
	case *IfStmt:
		return "*script.IfStmt"
	case *ForStmt:
		return "*script.ForStmt"
	case *ForInStmt:
		return "*script.ForInStmt"
	case *WhileStmt:
		return "*script.WhileStmt"
	case *DoWhileStmt:
		return "*script.DoWhileStmt"
	case *TryStmt:
		return "*script.TryStmt"
	case *SwitchStmt:
		return "*script.SwitchStmt"
	case *EmptyStmt:
		return "*script.EmptyStmt"
	case *ThrowStmt:
		return "*script.ThrowStmt"
	case *BadStmt:
		return "*script.BadStmt"
	}

	return "other"
}

func TestParse_Expressions(t *testing.T) {
	t.Run("precedence", func(t *testing.T) {
		prog, err := Parse("a + b * c")
		require.NoError(t, err)

		bin, ok := prog.Stmts[0].(*ExprStmt).X.(*BinaryExpr)
		require.True(t, ok)
		assert.Equal(t, "+", bin.Op)

		rhs, ok := bin.Y.(*BinaryExpr)
		require.True(t, ok)
		assert.Equal(t, "*", rhs.Op)
	})

	t.Run("arrow functions", func(t *testing.T) {
		prog, err := Parse("var f = (a, b) => a + b; var g = x => { return x }")
		require.NoError(t, err)
		require.Len(t, prog.Stmts, 2)

		f, ok := prog.Stmts[0].(*VarDecl).Decls[0].Value.(*ArrowFunc)
		require.True(t, ok)
		assert.Len(t, f.Params, 2)

		g, ok := prog.Stmts[1].(*VarDecl).Decls[0].Value.(*ArrowFunc)
		require.True(t, ok)
		assert.Len(t, g.Params, 1)
		assert.IsType(t, &BlockStmt{}, g.Body)
	})

	t.Run("object and set literals", func(t *testing.T) {
		prog, err := Parse("var o = {a: 1, 'b': [2, 3], c}; var s = {1, 2, 3}; var e = {}")
		require.NoError(t, err)

		o, ok := prog.Stmts[0].(*VarDecl).Decls[0].Value.(*ObjectLit)
		require.True(t, ok)
		require.Len(t, o.Props, 3)
		assert.True(t, o.Props[2].Shorthand)

		s, ok := prog.Stmts[1].(*VarDecl).Decls[0].Value.(*SetLit)
		require.True(t, ok)
		assert.Len(t, s.Elems, 3)

		assert.IsType(t, &ObjectLit{}, prog.Stmts[2].(*VarDecl).Decls[0].Value)
	})

	t.Run("member chains", func(t *testing.T) {
		prog, err := Parse("site.applicationId?.x[0](1).default")
		require.NoError(t, err)

		m, ok := prog.Stmts[0].(*ExprStmt).X.(*MemberExpr)
		require.True(t, ok)
		assert.Equal(t, "default", m.Sel.Name)
		assert.IsType(t, &CallExpr{}, m.X)
	})

	t.Run("conditional and unary", func(t *testing.T) {
		prog, err := Parse("x = empty a ? !b : typeof c")
		require.NoError(t, err)

		a, ok := prog.Stmts[0].(*ExprStmt).X.(*AssignExpr)
		require.True(t, ok)

		c, ok := a.Rhs.(*ConditionalExpr)
		require.True(t, ok)
		assert.IsType(t, &UnaryExpr{}, c.Cond)
	})

	t.Run("new expression", func(t *testing.T) {
		prog, err := Parse("var d = new Date(2020, 1).getTime()")
		require.NoError(t, err)

		c, ok := prog.Stmts[0].(*VarDecl).Decls[0].Value.(*CallExpr)
		require.True(t, ok)

		m, ok := c.Fun.(*MemberExpr)
		require.True(t, ok)
		assert.IsType(t, &NewExpr{}, m.X)
	})
}

func TestParse_SpansContainChildren(t *testing.T) {
	input := `function outer(a, b) {
  var list = [1, 2, {k: a}];
  return list.map(x => x * b).filter(function (y) { return y > 0 });
}
outer(1, 2);`

	prog, err := Parse(input)
	require.NoError(t, err)

	var check func(parent Node)
	check = func(parent Node) {
		first := true

		Walk(parent, func(child Node) bool {
			if first {
				first = false
				return true
			}

			ps, cs := parent.Span(), child.Span()
			assert.True(t, cs.Start >= ps.Start && cs.End <= ps.End,
				"%T %v does not contain %T %v", parent, parent.Span(), child, child.Span())
			check(child)

			return false
		})
	}

	check(prog)
}

func TestParse_ErrorRecovery(t *testing.T) {
	input := "var a = 1;\nvar b = ;\nvar c = 3;"

	prog, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, prog.Errors, 1)
	require.Len(t, prog.Stmts, 3)

	assert.IsType(t, &VarDecl{}, prog.Stmts[0])
	assert.IsType(t, &BadStmt{}, prog.Stmts[1])
	assert.IsType(t, &VarDecl{}, prog.Stmts[2])

	last := prog.Stmts[2].(*VarDecl)
	assert.Equal(t, "var c = 3", input[last.Span().Start:last.Span().End])
}

func TestParse_ErrorInsideFunctionKeepsFunction(t *testing.T) {
	input := "function f(a) {\n  x y\n  return a\n}"

	prog, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, prog.Stmts, 1)
	require.NotEmpty(t, prog.Errors)

	f, ok := prog.Stmts[0].(*FuncDecl)
	require.True(t, ok)
	assert.IsType(t, &BadStmt{}, f.Body.Stmts[0])
	assert.IsType(t, &ReturnStmt{}, f.Body.Stmts[1])
}

func TestParse_ErrorLimitAfterStatementsKeepsParsing(t *testing.T) {
	input := "var a = 1;\nfunction f(a, b, c, d, e) { return a; }\n" +
		strings.Repeat("var = ;\n", 12) +
		"function g(a, b, c, d, e, f) { return a; }\n"

	prog, err := Parse(input)
	require.NoError(t, err)
	require.NotNil(t, prog)
	assert.GreaterOrEqual(t, len(prog.Errors), 12)

	var names []string

	for _, s := range prog.Stmts {
		if f, ok := s.(*FuncDecl); ok {
			names = append(names, f.Name.Name)
		}
	}

	assert.Equal(t, []string{"f", "g"}, names)
	assert.IsType(t, &VarDecl{}, prog.Stmts[0])
}

func TestParse_HardFailure(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"only garbage", ") ) )"},
		{"unterminated block", "{ var a = 1"},
		{"too many errors", ",;,;,;,;,;,;,;,;,;,;,;,;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := Parse(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNoProgram)
			assert.Nil(t, prog)
		})
	}
}

func TestIsFunction(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"function f() {}", true},
		{"var f = function () {}", true},
		{"var f = () => 1", true},
		{"obj.f = function () {}", true},
		{"var a = 1", false},
		{"f()", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			prog, err := Parse(tt.input)
			require.NoError(t, err)
			require.Len(t, prog.Stmts, 1)
			assert.Equal(t, tt.want, IsFunction(prog.Stmts[0]))
		})
	}
}
