// Package ast defines the abstract syntax tree produced by the parser.
//
// Statements and expressions are closed sets: every node type implements
// an unexported marker method, so no other package can add variants and
// consumers switch over the concrete types.
package ast

import (
	"monkey-lang/internal/diag"
	"monkey-lang/internal/span"
	"strconv"
	"strings"
)

// ============================================================
// Node interfaces
// ============================================================

// Node is the interface implemented by all AST nodes.
type Node interface {
	nodeNode()
	GetSpan() span.Span
	String() string
}

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Callable is an expression that may appear before call parentheses:
// an Identifier or a FunctionLiteral.
type Callable interface {
	Expr
	callableNode()
}

// ============================================================
// Base types
// ============================================================

// NodeBase provides the common Span field for all AST nodes.
type NodeBase struct {
	Span span.Span
}

func (n NodeBase) nodeNode()          {}
func (n NodeBase) GetSpan() span.Span { return n.Span }

// ExprBase is embedded by all expression nodes.
type ExprBase struct{ NodeBase }

func (ExprBase) exprNode() {}

// StmtBase is embedded by all statement nodes.
type StmtBase struct{ NodeBase }

func (StmtBase) stmtNode() {}

// ============================================================
// Program
// ============================================================

// Program is the root node: the statements that parsed, in source order,
// and one diagnostic per statement that did not.
type Program struct {
	NodeBase
	Statements []Stmt
	Errors     []diag.Diagnostic
}

func (p *Program) String() string {
	parts := make([]string, len(p.Statements))
	for i, s := range p.Statements {
		parts[i] = s.String()
	}
	return strings.Join(parts, "")
}

// ============================================================
// Statements
// ============================================================

// LetStmt binds Name to Value in the current scope: let x = 5;
type LetStmt struct {
	StmtBase
	Name  *Identifier
	Value Expr
}

func (s *LetStmt) String() string {
	return "let " + s.Name.String() + " = " + s.Value.String() + ";"
}

// ReturnStmt represents: return expr;
type ReturnStmt struct {
	StmtBase
	Value Expr
}

func (s *ReturnStmt) String() string {
	return "return " + s.Value.String() + ";"
}

// ExprStmt wraps an expression used as a statement.
type ExprStmt struct {
	StmtBase
	Expr Expr
}

func (s *ExprStmt) String() string {
	return s.Expr.String()
}

// BlockStmt is a brace-delimited statement sequence.
type BlockStmt struct {
	StmtBase
	Stmts []Stmt
}

func (s *BlockStmt) String() string {
	if len(s.Stmts) == 0 {
		return "{ }"
	}
	parts := make([]string, len(s.Stmts))
	for i, st := range s.Stmts {
		parts[i] = st.String()
	}
	return "{ " + strings.Join(parts, " ") + " }"
}

// ============================================================
// Expressions
// ============================================================

// Identifier is a name reference.
type Identifier struct {
	ExprBase
	Name string
}

func (*Identifier) callableNode()    {}
func (e *Identifier) String() string { return e.Name }

// FunctionLiteral represents: fn(a, b) { body }
type FunctionLiteral struct {
	ExprBase
	Params []*Identifier
	Body   *BlockStmt
}

func (*FunctionLiteral) callableNode() {}
func (e *FunctionLiteral) String() string {
	return "fn(" + identList(e.Params) + ") " + e.Body.String()
}

// IntegerLiteral is a 64-bit signed integer literal.
type IntegerLiteral struct {
	ExprBase
	Value int64
}

func (e *IntegerLiteral) String() string { return strconv.FormatInt(e.Value, 10) }

// BooleanLiteral is true or false.
type BooleanLiteral struct {
	ExprBase
	Value bool
}

func (e *BooleanLiteral) String() string { return strconv.FormatBool(e.Value) }

// StringLiteral is a double-quoted string literal.
type StringLiteral struct {
	ExprBase
	Value string
}

func (e *StringLiteral) String() string { return `"` + e.Value + `"` }

// PrefixExpr represents a unary operation: !x, -x.
type PrefixExpr struct {
	ExprBase
	Op      Operator
	Operand Expr
}

func (e *PrefixExpr) String() string {
	return "(" + e.Op.String() + e.Operand.String() + ")"
}

// InfixExpr represents a binary operation: a + b, x == y.
type InfixExpr struct {
	ExprBase
	Op    Operator
	Left  Expr
	Right Expr
}

func (e *InfixExpr) String() string {
	return "(" + e.Left.String() + " " + e.Op.String() + " " + e.Right.String() + ")"
}

// IfExpr represents: if (cond) { ... } else { ... }
type IfExpr struct {
	ExprBase
	Condition   Expr
	Consequence *BlockStmt
	Alternative *BlockStmt // may be nil
}

func (e *IfExpr) String() string {
	s := "if " + e.Condition.String() + " " + e.Consequence.String()
	if e.Alternative != nil {
		s += " else " + e.Alternative.String()
	}
	return s
}

// CallExpr represents a call: f(a, b) or fn(x) { x }(1).
type CallExpr struct {
	ExprBase
	Callee Callable
	Args   []Expr
}

func (e *CallExpr) String() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return e.Callee.String() + "(" + strings.Join(args, ", ") + ")"
}

func identList(ids []*Identifier) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.Name
	}
	return strings.Join(names, ", ")
}
