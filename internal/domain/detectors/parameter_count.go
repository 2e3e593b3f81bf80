package detectors

import (
	"fmt"
	"strings"

	m "github.com/mouse-blink/auditor/internal/model"
	"github.com/mouse-blink/auditor/internal/script"
)

// DefaultMaxParameters is the parameter limit when none is configured.
const DefaultMaxParameters = 4

// ParameterCount reports functions that declare too many parameters.
type ParameterCount struct {
	MaxParameters int
}

// NewParameterCount returns a detector with the default limit.
func NewParameterCount() *ParameterCount {
	return &ParameterCount{MaxParameters: DefaultMaxParameters}
}

// Configure reads maxParameters.
func (d *ParameterCount) Configure(s m.RuleSettings) {
	d.MaxParameters = positive(s.Int(DefaultMaxParameters, "maxParameters", "max_parameters"), DefaultMaxParameters)
}

// Detect emits one violation per function whose parameter count exceeds the
// limit, at the line where the function is declared.
func (d *ParameterCount) Detect(prog *script.Program, frag script.Fragment) []Violation {
	limit := positive(d.MaxParameters, DefaultMaxParameters)
	names := functionNames(prog)
	tr := frag.Translator()

	var out []Violation

	script.Inspect(prog, func(n script.Node) {
		params, _, ok := script.FuncParts(n)
		if !ok || len(params) <= limit {
			return
		}

		msg := fmt.Sprintf("Function has %d parameters (max allowed: %d). Consider refactoring to reduce complexity.",
			len(params), limit)
		if name := names[n]; name != "" {
			msg = fmt.Sprintf("Function '%s' has %d parameters (max allowed: %d). Consider refactoring to reduce complexity.",
				name, len(params), limit)
		}

		out = append(out, Violation{Message: msg, Line: tr.Line(n.Span())})
	})

	return out
}

// functionNames resolves a display name for every function node: its own
// name, or the variable, property or assignment target it is bound to.
func functionNames(prog *script.Program) map[script.Node]string {
	names := make(map[script.Node]string)

	bind := func(value script.Expr, name string) {
		for {
			p, ok := value.(*script.ParenExpr)
			if !ok {
				break
			}

			value = p.X
		}

		if _, _, ok := script.FuncParts(value); ok && names[value] == "" {
			names[value] = name
		}
	}

	script.Inspect(prog, func(n script.Node) {
		switch x := n.(type) {
		case *script.FuncDecl:
			names[x] = x.Name.Name
		case *script.FuncLit:
			if x.Name != nil {
				names[x] = x.Name.Name
			}
		case *script.Declarator:
			bind(x.Value, x.Name.Name)
		case *script.Property:
			if !x.Computed {
				bind(x.Value, keyName(x.Key))
			}
		case *script.AssignExpr:
			bind(x.Rhs, exprName(x.Lhs))
		}
	})

	return names
}

func keyName(key script.Expr) string {
	switch k := key.(type) {
	case *script.Ident:
		return k.Name
	case *script.BasicLit:
		return strings.Trim(k.Value, `"'`)
	}

	return ""
}

// exprName renders identifiers and member chains such as a.b.c.
func exprName(e script.Expr) string {
	switch x := e.(type) {
	case *script.Ident:
		return x.Name
	case *script.MemberExpr:
		if base := exprName(x.X); base != "" {
			return base + "." + x.Sel.Name
		}
	}

	return ""
}
