package ast

import (
	"monkey-lang/internal/span"
)

// NodeToMap converts an AST node to a map suitable for JSON serialization.
// This produces a tagged-union structure: every node has a "kind" field.
func NodeToMap(node Node) map[string]interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *Program:
		errs := make([]interface{}, len(n.Errors))
		for i, d := range n.Errors {
			errs[i] = map[string]interface{}{
				"code":    d.Code,
				"message": d.Message,
				"span":    spanToMap(d.Span),
			}
		}
		return m("Program", n.Span, "statements", stmtSlice(n.Statements), "errors", errs)

	// ---- Statements ----
	case *LetStmt:
		return m("LetStmt", n.Span, "name", n.Name.Name, "value", NodeToMap(n.Value))
	case *ReturnStmt:
		return m("ReturnStmt", n.Span, "value", NodeToMap(n.Value))
	case *ExprStmt:
		return m("ExprStmt", n.Span, "expr", NodeToMap(n.Expr))
	case *BlockStmt:
		return m("BlockStmt", n.Span, "stmts", stmtSlice(n.Stmts))

	// ---- Expressions ----
	case *Identifier:
		return m("Identifier", n.Span, "name", n.Name)
	case *FunctionLiteral:
		params := make([]string, len(n.Params))
		for i, p := range n.Params {
			params[i] = p.Name
		}
		return m("FunctionLiteral", n.Span, "params", params, "body", NodeToMap(n.Body))
	case *IntegerLiteral:
		return m("IntegerLiteral", n.Span, "value", n.Value)
	case *BooleanLiteral:
		return m("BooleanLiteral", n.Span, "value", n.Value)
	case *StringLiteral:
		return m("StringLiteral", n.Span, "value", n.Value)
	case *PrefixExpr:
		return m("PrefixExpr", n.Span, "op", n.Op.String(), "operand", NodeToMap(n.Operand))
	case *InfixExpr:
		return m("InfixExpr", n.Span,
			"op", n.Op.String(),
			"left", NodeToMap(n.Left),
			"right", NodeToMap(n.Right))
	case *IfExpr:
		result := m("IfExpr", n.Span,
			"condition", NodeToMap(n.Condition),
			"consequence", NodeToMap(n.Consequence))
		if n.Alternative != nil {
			result["alternative"] = NodeToMap(n.Alternative)
		}
		return result
	case *CallExpr:
		return m("CallExpr", n.Span,
			"callee", NodeToMap(n.Callee),
			"args", exprSlice(n.Args))

	default:
		return map[string]interface{}{"kind": "Unknown"}
	}
}

// ---- helpers ----

// m builds a map with kind, span, and extra key-value pairs.
func m(kind string, s span.Span, kvs ...interface{}) map[string]interface{} {
	result := map[string]interface{}{
		"kind": kind,
		"span": spanToMap(s),
	}
	for i := 0; i+1 < len(kvs); i += 2 {
		key := kvs[i].(string)
		result[key] = kvs[i+1]
	}
	return result
}

func spanToMap(s span.Span) map[string]interface{} {
	return map[string]interface{}{
		"start": s.Start.String(),
		"end":   s.End.String(),
	}
}

func stmtSlice(stmts []Stmt) []interface{} {
	result := make([]interface{}, len(stmts))
	for i, s := range stmts {
		result[i] = NodeToMap(s)
	}
	return result
}

func exprSlice(exprs []Expr) []interface{} {
	result := make([]interface{}, len(exprs))
	for i, e := range exprs {
		result[i] = NodeToMap(e)
	}
	return result
}
