package script

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses an AST in depth-first order.
// If visitor returns false, children are not visited.
func Walk(node Node, v Visitor) {
	if node == nil || !v(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		walkStmts(n.Stmts, v)

	case *VarDecl:
		for _, d := range n.Decls {
			Walk(d, v)
		}

	case *Declarator:
		Walk(n.Name, v)
		walkExpr(n.Value, v)

	case *FuncDecl:
		Walk(n.Name, v)
		walkParams(n.Params, v)
		walkBlock(n.Body, v)

	case *Param:
		Walk(n.Name, v)
		walkExpr(n.Default, v)

	case *BlockStmt:
		walkStmts(n.Stmts, v)

	case *IfStmt:
		walkExpr(n.Cond, v)
		Walk(n.Then, v)
		Walk(n.Else, v)

	case *ForStmt:
		Walk(n.Init, v)
		walkExpr(n.Cond, v)
		walkExpr(n.Post, v)
		Walk(n.Body, v)

	case *ForInStmt:
		walkExpr(n.Key, v)
		walkExpr(n.X, v)
		Walk(n.Body, v)

	case *WhileStmt:
		walkExpr(n.Cond, v)
		Walk(n.Body, v)

	case *DoWhileStmt:
		Walk(n.Body, v)
		walkExpr(n.Cond, v)

	case *ReturnStmt:
		walkExpr(n.Result, v)

	case *ThrowStmt:
		walkExpr(n.X, v)

	case *TryStmt:
		walkBlock(n.Body, v)

		if n.Param != nil {
			Walk(n.Param, v)
		}

		walkBlock(n.Catch, v)
		walkBlock(n.Finally, v)

	case *SwitchStmt:
		walkExpr(n.Tag, v)

		for _, c := range n.Cases {
			Walk(c, v)
		}

	case *CaseClause:
		walkExpr(n.Value, v)
		walkStmts(n.Body, v)

	case *ExprStmt:
		walkExpr(n.X, v)

	case *ArrayLit:
		walkExprs(n.Elems, v)

	case *SetLit:
		walkExprs(n.Elems, v)

	case *ObjectLit:
		for _, p := range n.Props {
			Walk(p, v)
		}

	case *Property:
		// Shorthand properties share the key node as their value.
		walkExpr(n.Key, v)

		if !n.Shorthand {
			walkExpr(n.Value, v)
		}

	case *SpreadExpr:
		walkExpr(n.X, v)

	case *FuncLit:
		if n.Name != nil {
			Walk(n.Name, v)
		}

		walkParams(n.Params, v)
		walkBlock(n.Body, v)

	case *ArrowFunc:
		walkParams(n.Params, v)
		Walk(n.Body, v)

	case *CallExpr:
		walkExpr(n.Fun, v)
		walkExprs(n.Args, v)

	case *NewExpr:
		walkExpr(n.Callee, v)
		walkExprs(n.Args, v)

	case *MemberExpr:
		walkExpr(n.X, v)
		Walk(n.Sel, v)

	case *IndexExpr:
		walkExpr(n.X, v)
		walkExpr(n.Index, v)

	case *UnaryExpr:
		walkExpr(n.X, v)

	case *UpdateExpr:
		walkExpr(n.X, v)

	case *BinaryExpr:
		walkExpr(n.X, v)
		walkExpr(n.Y, v)

	case *ConditionalExpr:
		walkExpr(n.Cond, v)
		walkExpr(n.Then, v)
		walkExpr(n.Else, v)

	case *AssignExpr:
		walkExpr(n.Lhs, v)
		walkExpr(n.Rhs, v)

	case *ParenExpr:
		walkExpr(n.X, v)
	}
}

// Inspect calls f for every node in the tree rooted at node, including node.
func Inspect(node Node, f func(Node)) {
	Walk(node, func(n Node) bool {
		f(n)
		return true
	})
}

func walkStmts(list []Stmt, v Visitor) {
	for _, s := range list {
		Walk(s, v)
	}
}

func walkExprs(list []Expr, v Visitor) {
	for _, e := range list {
		walkExpr(e, v)
	}
}

func walkExpr(e Expr, v Visitor) {
	if e != nil {
		Walk(e, v)
	}
}

func walkBlock(b *BlockStmt, v Visitor) {
	if b != nil {
		Walk(b, v)
	}
}

func walkParams(list []*Param, v Visitor) {
	for _, p := range list {
		Walk(p, v)
	}
}
