package script

import (
	"errors"
	"fmt"

	"github.com/mouse-blink/auditor/internal/source"
)

// Maximum number of errors before aborting a parse that has not yet
// established a top-level statement.
const maxErrors = 10

// ErrNoProgram is returned when no top-level statement could be established.
var ErrNoProgram = errors.New("no program could be parsed")

// SyntaxError is a recovered parse error. Span is relative to the parsed text.
type SyntaxError struct {
	Span source.Span
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Span.Start, e.Msg)
}

// Parse tokenizes and parses code. Recovered errors are recorded on the
// returned Program; an error is returned only when nothing usable was parsed.
func Parse(code string) (*Program, error) {
	return ParseTokens(Tokenize(code))
}

// ParseTokens parses a token stream produced by Tokenize.
func ParseTokens(tokens []Token) (*Program, error) {
	p := newParser(tokens)
	prog := p.program()

	if len(prog.Errors) == 0 {
		return prog, nil
	}

	good := 0

	for _, s := range prog.Stmts {
		if _, bad := s.(*BadStmt); !bad {
			good++
		}
	}

	if good == 0 {
		return nil, fmt.Errorf("%w: %w", ErrNoProgram, prog.Errors[0])
	}

	return prog, nil
}

type parser struct {
	toks []Token // significant tokens followed by EOF
	nl   []bool  // nl[i] reports a line break between toks[i-1] and toks[i]
	i    int

	tok     Token
	prevEnd int

	errs      []*SyntaxError
	recovered int  // errors already absorbed into a BadStmt
	settled   bool // a top-level statement parsed cleanly
	abort     bool
}

func newParser(tokens []Token) *parser {
	p := &parser{}

	sawNL := false

	for _, t := range tokens {
		if t.Trivia() {
			if containsNewline(t.Text) {
				sawNL = true
			}

			continue
		}

		p.toks = append(p.toks, t)
		p.nl = append(p.nl, sawNL)
		sawNL = false
	}

	if len(p.toks) == 0 || p.toks[len(p.toks)-1].Kind != EOF {
		p.toks = append(p.toks, Token{Kind: EOF})
		p.nl = append(p.nl, false)
	}

	p.tok = p.toks[0]

	return p
}

func containsNewline(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return true
		}
	}

	return false
}

// ----------------------------------------------------------------------------
// Token navigation

func (p *parser) next() {
	if p.tok.Kind == EOF {
		return
	}

	p.prevEnd = p.tok.End
	p.i++
	p.tok = p.toks[p.i]
}

func (p *parser) peek(n int) Token {
	if p.i+n < len(p.toks) {
		return p.toks[p.i+n]
	}

	return p.toks[len(p.toks)-1]
}

func (p *parser) newline() bool {
	return p.nl[p.i]
}

func (p *parser) is(text string) bool {
	return p.tok.Is(text)
}

func (p *parser) isKeyword(word string) bool {
	return p.tok.IsKeyword(word)
}

func (p *parser) got(text string) bool {
	if p.is(text) {
		p.next()
		return true
	}

	return false
}

func (p *parser) gotKeyword(word string) bool {
	if p.isKeyword(word) {
		p.next()
		return true
	}

	return false
}

func (p *parser) want(text string) {
	if !p.got(text) {
		p.errorf("expected %q, found %s", text, describe(p.tok))
	}
}

func describe(t Token) string {
	if t.Kind == EOF {
		return "end of input"
	}

	return fmt.Sprintf("%q", t.Text)
}

func (p *parser) span(start int) source.Span {
	end := p.prevEnd
	if end < start {
		end = start
	}

	return source.Span{Start: start, End: end}
}

// ----------------------------------------------------------------------------
// Error handling

func (p *parser) errorf(format string, args ...any) {
	if p.abort {
		return
	}

	p.errs = append(p.errs, &SyntaxError{Span: p.tok.Span(), Msg: fmt.Sprintf(format, args...)})

	if len(p.errs) >= maxErrors && !p.settled {
		p.abort = true
		p.i = len(p.toks) - 1
		p.tok = p.toks[p.i]
	}
}

// advance skips tokens until a statement boundary. A ";" is consumed, a "}"
// is left for the enclosing block.
func (p *parser) advance() {
	for p.tok.Kind != EOF {
		switch {
		case p.is(";"):
			p.next()
			return
		case p.is("}"):
			return
		case p.tok.Kind == Keyword && statementKeyword(p.tok.Text) && p.newline():
			return
		}

		p.next()
	}
}

func statementKeyword(word string) bool {
	switch word {
	case "var", "let", "const", "function", "return", "if", "for", "while",
		"do", "break", "continue", "throw", "try", "switch":
		return true
	}

	return false
}

// ----------------------------------------------------------------------------
// Statements

func (p *parser) program() *Program {
	prog := &Program{}

	for p.tok.Kind != EOF {
		if p.is("}") {
			start := p.tok.Start
			p.errorf("unexpected %s", describe(p.tok))
			p.next()
			p.recovered = len(p.errs)

			bad := &BadStmt{}
			bad.span = p.span(start)
			prog.Stmts = append(prog.Stmts, bad)

			continue
		}

		s := p.stmtOrBad()
		if _, bad := s.(*BadStmt); !bad {
			p.settled = true
		}

		prog.Stmts = append(prog.Stmts, s)
	}

	prog.Errors = p.errs
	prog.span = source.Span{Start: 0, End: p.tok.End}

	if len(p.toks) > 1 {
		prog.span.Start = p.toks[0].Start
	}

	return prog
}

// stmtOrBad parses one statement and, if it reported errors, skips to the
// next boundary and returns a BadStmt covering everything consumed.
func (p *parser) stmtOrBad() Stmt {
	start, startIdx, errCount := p.tok.Start, p.i, len(p.errs)

	s := p.stmt()
	if len(p.errs) == errCount || p.recovered == len(p.errs) {
		return s
	}

	p.advance()
	p.recovered = len(p.errs)

	if p.i == startIdx && p.tok.Kind != EOF {
		p.next()
	}

	bad := &BadStmt{}
	bad.span = p.span(start)

	return bad
}

func (p *parser) stmtList() []Stmt {
	var list []Stmt

	for p.tok.Kind != EOF && !p.is("}") && !p.isKeyword("case") && !p.isKeyword("default") {
		list = append(list, p.stmtOrBad())
	}

	return list
}

func (p *parser) stmt() Stmt {
	if p.tok.Kind == Keyword {
		switch p.tok.Text {
		case "var", "let", "const":
			s := p.varDecl(false)
			p.semi()

			return s
		case "function":
			if p.peek(1).Kind == Identifier {
				return p.funcDecl()
			}
		case "if":
			return p.ifStmt()
		case "for":
			return p.forStmt()
		case "while":
			return p.whileStmt()
		case "do":
			return p.doWhileStmt()
		case "return":
			return p.returnStmt()
		case "break", "continue":
			return p.branchStmt()
		case "throw":
			return p.throwStmt()
		case "try":
			return p.tryStmt()
		case "switch":
			return p.switchStmt()
		}
	}

	switch {
	case p.is("{"):
		return p.block()
	case p.is(";"):
		s := &EmptyStmt{}
		start := p.tok.Start
		p.next()
		s.span = p.span(start)

		return s
	}

	start := p.tok.Start
	s := &ExprStmt{X: p.expr(false)}
	s.span = p.span(start)
	p.semi()

	return s
}

// semi ends a simple statement: a ";", or a line break, "}" or end of input
// before the next token.
func (p *parser) semi() {
	if p.got(";") || p.is("}") || p.tok.Kind == EOF || p.newline() {
		return
	}

	p.errorf("unexpected %s at end of statement", describe(p.tok))
}

func (p *parser) block() *BlockStmt {
	b := &BlockStmt{}
	start := p.tok.Start

	p.want("{")
	b.Stmts = p.stmtList()
	p.want("}")
	b.span = p.span(start)

	return b
}

func (p *parser) varDecl(noIn bool) *VarDecl {
	d := &VarDecl{Kind: p.tok.Text}
	start := p.tok.Start
	p.next()

	for {
		d.Decls = append(d.Decls, p.declarator(noIn))

		if !p.got(",") {
			break
		}
	}

	d.span = p.span(start)

	return d
}

func (p *parser) declarator(noIn bool) *Declarator {
	d := &Declarator{}
	start := p.tok.Start
	d.Name = p.ident()

	if p.got("=") {
		d.Value = p.assign(noIn)
	}

	d.span = p.span(start)

	return d
}

func (p *parser) ident() *Ident {
	id := &Ident{Name: p.tok.Text}
	start := p.tok.Start

	if p.tok.Kind == Identifier {
		p.next()
	} else {
		p.errorf("expected identifier, found %s", describe(p.tok))
	}

	id.span = p.span(start)

	return id
}

func (p *parser) funcDecl() *FuncDecl {
	f := &FuncDecl{}
	start := p.tok.Start
	p.next() // function
	f.Name = p.ident()
	f.Params = p.params()
	f.Body = p.block()
	f.span = p.span(start)

	return f
}

func (p *parser) params() []*Param {
	p.want("(")

	var list []*Param

	for p.tok.Kind != EOF && !p.is(")") {
		list = append(list, p.param())

		if !p.got(",") {
			break
		}
	}

	p.want(")")

	return list
}

func (p *parser) param() *Param {
	prm := &Param{}
	start := p.tok.Start
	prm.Rest = p.got("...")
	prm.Name = p.ident()

	if p.got("=") {
		prm.Default = p.assign(false)
	}

	prm.span = p.span(start)

	return prm
}

func (p *parser) ifStmt() *IfStmt {
	s := &IfStmt{}
	start := p.tok.Start
	p.next()
	p.want("(")
	s.Cond = p.expr(false)
	p.want(")")
	s.Then = p.stmt()

	if p.gotKeyword("else") {
		s.Else = p.stmt()
	}

	s.span = p.span(start)

	return s
}

func (p *parser) forStmt() Stmt {
	start := p.tok.Start
	p.next()
	p.want("(")

	var init Node

	kind := ""

	switch {
	case p.is(";"):
	case p.isKeyword("var") || p.isKeyword("let") || p.isKeyword("const"):
		kind = p.tok.Text

		if p.peek(1).Kind == Identifier && (p.peek(2).IsKeyword("in") || p.peek(2).IsKeyword("of")) {
			p.next()
			return p.forIn(start, kind, p.ident())
		}

		init = p.varDecl(true)
	default:
		x := p.expr(true)
		if p.isKeyword("in") || p.isKeyword("of") {
			return p.forIn(start, "", x)
		}

		init = x
	}

	s := &ForStmt{Init: init}
	p.want(";")

	if !p.is(";") {
		s.Cond = p.expr(false)
	}

	p.want(";")

	if !p.is(")") {
		s.Post = p.expr(false)
	}

	p.want(")")
	s.Body = p.stmt()
	s.span = p.span(start)

	return s
}

func (p *parser) forIn(start int, kind string, key Expr) *ForInStmt {
	s := &ForInStmt{Kind: kind, Key: key, Of: p.isKeyword("of")}
	p.next()
	s.X = p.expr(false)
	p.want(")")
	s.Body = p.stmt()
	s.span = p.span(start)

	return s
}

func (p *parser) whileStmt() *WhileStmt {
	s := &WhileStmt{}
	start := p.tok.Start
	p.next()
	p.want("(")
	s.Cond = p.expr(false)
	p.want(")")
	s.Body = p.stmt()
	s.span = p.span(start)

	return s
}

func (p *parser) doWhileStmt() *DoWhileStmt {
	s := &DoWhileStmt{}
	start := p.tok.Start
	p.next()
	s.Body = p.stmt()

	if !p.gotKeyword("while") {
		p.errorf("expected while, found %s", describe(p.tok))
	}

	p.want("(")
	s.Cond = p.expr(false)
	p.want(")")
	p.got(";")
	s.span = p.span(start)

	return s
}

func (p *parser) returnStmt() *ReturnStmt {
	s := &ReturnStmt{}
	start := p.tok.Start
	p.next()

	if !p.is(";") && !p.is("}") && p.tok.Kind != EOF && !p.newline() {
		s.Result = p.expr(false)
	}

	s.span = p.span(start)
	p.semi()

	return s
}

func (p *parser) branchStmt() *BranchStmt {
	s := &BranchStmt{Tok: p.tok.Text}
	start := p.tok.Start
	p.next()
	s.span = p.span(start)
	p.semi()

	return s
}

func (p *parser) throwStmt() *ThrowStmt {
	s := &ThrowStmt{}
	start := p.tok.Start
	p.next()
	s.X = p.expr(false)
	s.span = p.span(start)
	p.semi()

	return s
}

func (p *parser) tryStmt() *TryStmt {
	s := &TryStmt{}
	start := p.tok.Start
	p.next()
	s.Body = p.block()

	if p.gotKeyword("catch") {
		if p.got("(") {
			s.Param = p.ident()
			p.want(")")
		}

		s.Catch = p.block()
	}

	if p.gotKeyword("finally") {
		s.Finally = p.block()
	}

	if s.Catch == nil && s.Finally == nil {
		p.errorf("expected catch or finally, found %s", describe(p.tok))
	}

	s.span = p.span(start)

	return s
}

func (p *parser) switchStmt() *SwitchStmt {
	s := &SwitchStmt{}
	start := p.tok.Start
	p.next()
	p.want("(")
	s.Tag = p.expr(false)
	p.want(")")
	p.want("{")

	for p.isKeyword("case") || p.isKeyword("default") {
		c := &CaseClause{}
		cstart := p.tok.Start

		if p.gotKeyword("case") {
			c.Value = p.expr(false)
		} else {
			p.next()
		}

		p.want(":")
		c.Body = p.stmtList()
		c.span = p.span(cstart)
		s.Cases = append(s.Cases, c)
	}

	p.want("}")
	s.span = p.span(start)

	return s
}

// ----------------------------------------------------------------------------
// Expressions

// expr parses an expression; comma sequences are not part of the language.
// noIn disables the "in" operator inside for-loop headers.
func (p *parser) expr(noIn bool) Expr {
	return p.assign(noIn)
}

func isAssignOp(t Token) bool {
	if t.Kind != Operator {
		return false
	}

	switch t.Text {
	case "=", "+=", "-=", "*=", "/=", "%=", "**=":
		return true
	}

	return false
}

func (p *parser) assign(noIn bool) Expr {
	if p.arrowAhead() {
		return p.arrow()
	}

	start := p.tok.Start
	x := p.conditional(noIn)

	if isAssignOp(p.tok) {
		a := &AssignExpr{Op: p.tok.Text, Lhs: x}
		p.next()
		a.Rhs = p.assign(noIn)
		a.span = p.span(start)

		return a
	}

	return x
}

// arrowAhead reports whether an arrow function starts at the current token.
func (p *parser) arrowAhead() bool {
	if p.tok.Kind == Identifier {
		return p.peek(1).Is("=>")
	}

	if !p.is("(") {
		return false
	}

	depth := 0

	for i := p.i; i < len(p.toks); i++ {
		t := p.toks[i]

		switch {
		case t.Is("("):
			depth++
		case t.Is(")"):
			depth--
			if depth == 0 {
				return i+1 < len(p.toks) && p.toks[i+1].Is("=>")
			}
		case t.Kind == EOF:
			return false
		}
	}

	return false
}

func (p *parser) arrow() *ArrowFunc {
	f := &ArrowFunc{}
	start := p.tok.Start

	if p.tok.Kind == Identifier {
		prm := &Param{Name: p.ident()}
		prm.span = prm.Name.span
		f.Params = []*Param{prm}
	} else {
		f.Params = p.params()
	}

	p.want("=>")

	if p.is("{") {
		f.Body = p.block()
	} else {
		f.Body = p.assign(false)
	}

	f.span = p.span(start)

	return f
}

func (p *parser) conditional(noIn bool) Expr {
	start := p.tok.Start
	x := p.binary(1, noIn)

	if !p.is("?") {
		return x
	}

	c := &ConditionalExpr{Cond: x}
	p.next()
	c.Then = p.assign(false)
	p.want(":")
	c.Else = p.assign(noIn)
	c.span = p.span(start)

	return c
}

// binary parses a binary expression using precedence climbing.
func (p *parser) binary(minPrec int, noIn bool) Expr {
	start := p.tok.Start
	x := p.unary()

	for {
		prec := precedence(p.tok)
		if prec < minPrec || prec == 0 || (noIn && p.isKeyword("in")) {
			return x
		}

		b := &BinaryExpr{Op: p.tok.Text, X: x}
		p.next()
		b.Y = p.binary(prec+1, noIn)
		b.span = p.span(start)
		x = b
	}
}

func (p *parser) unary() Expr {
	start := p.tok.Start

	switch {
	case p.is("!"), p.is("-"), p.is("+"), p.is("~"),
		p.isKeyword("typeof"), p.isKeyword("void"), p.isKeyword("delete"), p.isKeyword("empty"):
		u := &UnaryExpr{Op: p.tok.Text}
		p.next()
		u.X = p.unary()
		u.span = p.span(start)

		return u
	case p.is("++"), p.is("--"):
		u := &UpdateExpr{Op: p.tok.Text, Prefix: true}
		p.next()
		u.X = p.unary()
		u.span = p.span(start)

		return u
	}

	return p.postfix()
}

func (p *parser) postfix() Expr {
	start := p.tok.Start

	var x Expr
	if p.isKeyword("new") {
		x = p.newExpr()
	} else {
		x = p.primary()
	}

	x = p.chain(start, x, true)

	if (p.is("++") || p.is("--")) && !p.newline() {
		u := &UpdateExpr{Op: p.tok.Text, X: x}
		p.next()
		u.span = p.span(start)

		return u
	}

	return x
}

// chain parses member, index and (when calls is set) call suffixes.
func (p *parser) chain(start int, x Expr, calls bool) Expr {
	for {
		optional := false

		if p.is("?.") {
			optional = true
			p.next()

			switch {
			case p.is("("):
			case p.is("["):
			default:
				x = p.member(start, x, true)
				continue
			}
		}

		switch {
		case p.is("."):
			p.next()
			x = p.member(start, x, false)
		case p.is("["):
			ix := &IndexExpr{X: x, Optional: optional}
			p.next()
			ix.Index = p.expr(false)
			p.want("]")
			ix.span = p.span(start)
			x = ix
		case p.is("(") && calls:
			c := &CallExpr{Fun: x, Optional: optional}
			c.Args = p.list("(", ")")
			c.span = p.span(start)
			x = c
		default:
			return x
		}
	}
}

func (p *parser) member(start int, x Expr, optional bool) Expr {
	m := &MemberExpr{X: x, Optional: optional}
	sel := &Ident{Name: p.tok.Text}
	selStart := p.tok.Start

	if p.tok.Kind == Identifier || p.tok.Kind == Keyword {
		p.next()
	} else {
		p.errorf("expected property name, found %s", describe(p.tok))
	}

	sel.span = p.span(selStart)
	m.Sel = sel
	m.span = p.span(start)

	return m
}

func (p *parser) newExpr() Expr {
	n := &NewExpr{}
	start := p.tok.Start
	p.next()

	if p.isKeyword("new") {
		n.Callee = p.newExpr()
	} else {
		n.Callee = p.chain(p.tok.Start, p.primary(), false)
	}

	if p.is("(") {
		n.Args = p.list("(", ")")
	}

	n.span = p.span(start)

	return n
}

// list parses a delimited, comma-separated expression list allowing spreads
// and a trailing comma.
func (p *parser) list(open, closing string) []Expr {
	p.want(open)

	var elems []Expr

	for p.tok.Kind != EOF && !p.is(closing) {
		elems = append(elems, p.element())

		if !p.got(",") {
			break
		}
	}

	p.want(closing)

	return elems
}

func (p *parser) element() Expr {
	if p.is("...") {
		s := &SpreadExpr{}
		start := p.tok.Start
		p.next()
		s.X = p.assign(false)
		s.span = p.span(start)

		return s
	}

	return p.assign(false)
}

func (p *parser) primary() Expr {
	start := p.tok.Start

	switch p.tok.Kind {
	case Identifier:
		return p.ident()
	case Number:
		return p.basicLit(NumberLit)
	case String:
		return p.basicLit(StringLit)
	case Template:
		t := &TemplateLit{Value: p.tok.Text}
		p.next()
		t.span = p.span(start)

		return t
	case Keyword:
		switch p.tok.Text {
		case "true", "false":
			return p.basicLit(BoolLit)
		case "null":
			return p.basicLit(NullLit)
		case "undefined":
			return p.basicLit(UndefinedLit)
		case "this":
			return p.basicLit(ThisLit)
		case "function":
			return p.funcLit()
		}
	case Operator, Punctuation:
		switch p.tok.Text {
		case "(":
			x := &ParenExpr{}
			p.next()
			x.X = p.expr(false)
			p.want(")")
			x.span = p.span(start)

			return x
		case "[":
			a := &ArrayLit{}
			a.Elems = p.list("[", "]")
			a.span = p.span(start)

			return a
		case "{":
			return p.braceLit()
		}
	}

	p.errorf("unexpected %s", describe(p.tok))

	bad := &BadExpr{}
	bad.span = source.Span{Start: start, End: start}

	return bad
}

func (p *parser) basicLit(kind LitKind) *BasicLit {
	b := &BasicLit{Kind: kind, Value: p.tok.Text}
	start := p.tok.Start
	p.next()
	b.span = p.span(start)

	return b
}

func (p *parser) funcLit() *FuncLit {
	f := &FuncLit{}
	start := p.tok.Start
	p.next()

	if p.tok.Kind == Identifier {
		f.Name = p.ident()
	}

	f.Params = p.params()
	f.Body = p.block()
	f.span = p.span(start)

	return f
}

// braceLit parses "{" in expression position: an object literal when the
// first entry looks like key: value, an identifier, a spread or "[" key, and a
// set literal otherwise.
func (p *parser) braceLit() Expr {
	start := p.tok.Start
	first, second := p.peek(1), p.peek(2)

	isObject := first.Is("}") || first.Is("...") || first.Is("[") ||
		second.Is(":") || (first.Kind == Identifier && (second.Is(",") || second.Is("}")))

	if !isObject {
		s := &SetLit{}
		s.Elems = p.list("{", "}")
		s.span = p.span(start)

		return s
	}

	o := &ObjectLit{}
	p.want("{")

	for p.tok.Kind != EOF && !p.is("}") {
		o.Props = append(o.Props, p.property())

		if !p.got(",") {
			break
		}
	}

	p.want("}")
	o.span = p.span(start)

	return o
}

func (p *parser) property() *Property {
	prop := &Property{}
	start := p.tok.Start

	switch {
	case p.is("..."):
		prop.Value = p.element()
		prop.span = p.span(start)

		return prop
	case p.is("["):
		p.next()
		prop.Computed = true
		prop.Key = p.assign(false)
		p.want("]")
	case p.tok.Kind == String:
		prop.Key = p.basicLit(StringLit)
	case p.tok.Kind == Number:
		prop.Key = p.basicLit(NumberLit)
	case p.tok.Kind == Identifier || p.tok.Kind == Keyword:
		id := &Ident{Name: p.tok.Text}
		p.next()
		id.span = p.span(start)
		prop.Key = id
	default:
		p.errorf("expected property key, found %s", describe(p.tok))

		bad := &BadExpr{}
		bad.span = source.Span{Start: start, End: start}
		prop.Value = bad
		prop.span = p.span(start)

		return prop
	}

	if p.got(":") {
		prop.Value = p.assign(false)
	} else if id, ok := prop.Key.(*Ident); ok && !prop.Computed {
		prop.Shorthand = true
		prop.Value = id
	} else {
		p.errorf("expected \":\", found %s", describe(p.tok))
	}

	prop.span = p.span(start)

	return prop
}
