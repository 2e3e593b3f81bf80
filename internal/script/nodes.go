package script

import "github.com/mouse-blink/auditor/internal/source"

// ----------------------------------------------------------------------------
// Interfaces

// Node is implemented by every AST node. A node's span covers the spans of
// all of its children.
type Node interface {
	Span() source.Span
	aNode()
}

// Expr is implemented by expression nodes.
type Expr interface {
	Node
	aExpr()
}

// Stmt is implemented by statement nodes.
type Stmt interface {
	Node
	aStmt()
}

// ----------------------------------------------------------------------------
// Base node types

type node struct {
	span source.Span
}

func (n *node) Span() source.Span { return n.span }
func (n *node) aNode()            {}

type expr struct{ node }

func (*expr) aExpr() {}

type stmt struct{ node }

func (*stmt) aStmt() {}

// ----------------------------------------------------------------------------
// Program

// Program is the root of a parsed fragment. It is never modified after Parse
// returns, so one Program may be shared between rules.
type Program struct {
	node
	Stmts  []Stmt
	Errors []*SyntaxError // recovered syntax errors, in source order
}

// ----------------------------------------------------------------------------
// Statements

// VarDecl is a var, let or const statement with one or more declarators.
type VarDecl struct {
	stmt
	Kind  string // "var", "let" or "const"
	Decls []*Declarator
}

// Declarator is a single name = value binding.
type Declarator struct {
	node
	Name  *Ident
	Value Expr // nil when uninitialized
}

// FuncDecl is a named function statement.
type FuncDecl struct {
	stmt
	Name   *Ident
	Params []*Param
	Body   *BlockStmt
}

// Param is a function parameter, optionally with a default or rest marker.
type Param struct {
	node
	Name    *Ident
	Default Expr
	Rest    bool
}

type BlockStmt struct {
	stmt
	Stmts []Stmt
}

type IfStmt struct {
	stmt
	Cond Expr
	Then Stmt
	Else Stmt // nil if absent
}

// ForStmt is a classic three-clause loop. Any clause may be nil.
type ForStmt struct {
	stmt
	Init Node // *VarDecl or Expr
	Cond Expr
	Post Expr
	Body Stmt
}

// ForInStmt covers both "for (x in y)" and "for (x of y)".
type ForInStmt struct {
	stmt
	Kind string // declaration keyword, empty for a bare target
	Key  Expr
	Of   bool
	X    Expr
	Body Stmt
}

type WhileStmt struct {
	stmt
	Cond Expr
	Body Stmt
}

type DoWhileStmt struct {
	stmt
	Body Stmt
	Cond Expr
}

type ReturnStmt struct {
	stmt
	Result Expr // nil for a bare return
}

// BranchStmt is break or continue.
type BranchStmt struct {
	stmt
	Tok string
}

type ThrowStmt struct {
	stmt
	X Expr
}

type TryStmt struct {
	stmt
	Body    *BlockStmt
	Param   *Ident // catch binding, may be nil
	Catch   *BlockStmt
	Finally *BlockStmt
}

type SwitchStmt struct {
	stmt
	Tag   Expr
	Cases []*CaseClause
}

// CaseClause is one case of a switch; Value is nil for default.
type CaseClause struct {
	node
	Value Expr
	Body  []Stmt
}

type ExprStmt struct {
	stmt
	X Expr
}

type EmptyStmt struct {
	stmt
}

// BadStmt covers tokens skipped while recovering from a syntax error.
type BadStmt struct {
	stmt
}

// ----------------------------------------------------------------------------
// Expressions

type Ident struct {
	expr
	Name string
}

// LitKind classifies a BasicLit.
type LitKind int

// Literal kinds.
const (
	NumberLit LitKind = iota
	StringLit
	BoolLit
	NullLit
	UndefinedLit
	ThisLit
)

// BasicLit is a number, string, boolean, null, undefined or this literal.
// Value holds the source text including quotes.
type BasicLit struct {
	expr
	Kind  LitKind
	Value string
}

// TemplateLit is a backtick string; interpolations are not parsed.
type TemplateLit struct {
	expr
	Value string
}

type ArrayLit struct {
	expr
	Elems []Expr
}

type ObjectLit struct {
	expr
	Props []*Property
}

// Property is a key/value entry of an object literal.
type Property struct {
	node
	Key       Expr // *Ident, *BasicLit, or any Expr when Computed
	Value     Expr
	Computed  bool
	Shorthand bool
}

// SetLit is a brace-delimited list of values, {1, 2, 3}.
type SetLit struct {
	expr
	Elems []Expr
}

// SpreadExpr is ...X inside a call, array or object.
type SpreadExpr struct {
	expr
	X Expr
}

// FuncLit is a function expression.
type FuncLit struct {
	expr
	Name   *Ident // nil for anonymous functions
	Params []*Param
	Body   *BlockStmt
}

// ArrowFunc is an arrow function; Body is a *BlockStmt or an Expr.
type ArrowFunc struct {
	expr
	Params []*Param
	Body   Node
}

type CallExpr struct {
	expr
	Fun      Expr
	Args     []Expr
	Optional bool
}

type NewExpr struct {
	expr
	Callee Expr
	Args   []Expr
}

type MemberExpr struct {
	expr
	X        Expr
	Sel      *Ident
	Optional bool
}

type IndexExpr struct {
	expr
	X        Expr
	Index    Expr
	Optional bool
}

type UnaryExpr struct {
	expr
	Op string
	X  Expr
}

// UpdateExpr is ++ or --, prefix or postfix.
type UpdateExpr struct {
	expr
	Op     string
	X      Expr
	Prefix bool
}

type BinaryExpr struct {
	expr
	Op string
	X  Expr
	Y  Expr
}

type ConditionalExpr struct {
	expr
	Cond Expr
	Then Expr
	Else Expr
}

type AssignExpr struct {
	expr
	Op  string
	Lhs Expr
	Rhs Expr
}

type ParenExpr struct {
	expr
	X Expr
}

// BadExpr stands in for an expression that failed to parse.
type BadExpr struct {
	expr
}

// ----------------------------------------------------------------------------
// Helpers

// FuncParts returns the parameters and body of a function node.
func FuncParts(n Node) (params []*Param, body Node, ok bool) {
	switch f := n.(type) {
	case *FuncDecl:
		return f.Params, f.Body, true
	case *FuncLit:
		return f.Params, f.Body, true
	case *ArrowFunc:
		return f.Params, f.Body, true
	}

	return nil, nil, false
}

// IsFunction reports whether a top-level statement only defines a function:
// a function declaration, or a declaration or assignment whose values are all
// function expressions.
func IsFunction(s Stmt) bool {
	switch st := s.(type) {
	case *FuncDecl:
		return true
	case *VarDecl:
		if len(st.Decls) == 0 {
			return false
		}

		for _, d := range st.Decls {
			if !isFuncExpr(d.Value) {
				return false
			}
		}

		return true
	case *ExprStmt:
		if a, ok := st.X.(*AssignExpr); ok {
			return isFuncExpr(a.Rhs)
		}

		return isFuncExpr(st.X)
	}

	return false
}

func isFuncExpr(e Expr) bool {
	switch x := e.(type) {
	case *FuncLit, *ArrowFunc:
		return true
	case *ParenExpr:
		return isFuncExpr(x.X)
	}

	return false
}
