package runtime

import (
	"fmt"
	"monkey-lang/internal/ast"
	"monkey-lang/internal/span"
)

// ============================================================
// Evaluation errors
// ============================================================

// ErrorKind classifies an EvalError.
type ErrorKind int

const (
	ErrIdentifierNotFound ErrorKind = iota
	ErrTypeMismatch
	ErrUnknownOperator
	ErrEmptyStatements
	ErrNotCallable
	ErrDivisionByZero
)

var errorKindNames = [...]string{
	ErrIdentifierNotFound: "identifier not found",
	ErrTypeMismatch:       "type mismatch",
	ErrUnknownOperator:    "unknown operator",
	ErrEmptyStatements:    "empty statements",
	ErrNotCallable:        "not callable",
	ErrDivisionByZero:     "division by zero",
}

func (k ErrorKind) String() string {
	if k >= 0 && int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// EvalError is the single failure type produced by evaluation. Error returns
// the message alone; callers that want a position use Span.
type EvalError struct {
	Kind    ErrorKind
	Message string
	Span    span.Span
}

func (e *EvalError) Error() string {
	return e.Message
}

func evalErr(kind ErrorKind, s span.Span, format string, args ...interface{}) *EvalError {
	return &EvalError{Kind: kind, Message: fmt.Sprintf(format, args...), Span: s}
}

// ============================================================
// Entry points
// ============================================================

// Eval evaluates a parsed program against env. Bindings made by top-level
// let statements persist in env. A top-level return yields its operand.
func Eval(program *ast.Program, env *Environment) (Object, error) {
	result, err := evalStatements(program.Statements, program.Span, env)
	if err != nil {
		return nil, err
	}
	return unwrapReturn(result), nil
}

// Interpreter is an evaluation session that keeps one environment alive
// across many programs, as a REPL does.
type Interpreter struct {
	env *Environment
}

// NewInterpreter creates a session with an empty top-level environment.
func NewInterpreter() *Interpreter {
	return &Interpreter{env: NewEnvironment()}
}

// Run evaluates one program in the session environment.
func (i *Interpreter) Run(program *ast.Program) (Object, error) {
	return Eval(program, i.env)
}

// Env returns the session environment.
func (i *Interpreter) Env() *Environment {
	return i.env
}

// ============================================================
// Statements
// ============================================================

// evalStatements runs a program body or block. A ReturnValue stops the
// sequence and is handed back still wrapped.
func evalStatements(stmts []ast.Stmt, at span.Span, env *Environment) (Object, error) {
	if len(stmts) == 0 {
		return nil, evalErr(ErrEmptyStatements, at, "empty statements")
	}
	var result Object
	for _, stmt := range stmts {
		val, err := evalStmt(stmt, env)
		if err != nil {
			return nil, err
		}
		if _, ok := val.(*ReturnValue); ok {
			return val, nil
		}
		result = val
	}
	return result, nil
}

func evalStmt(stmt ast.Stmt, env *Environment) (Object, error) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		return evalExpr(s.Expr, env)

	case *ast.LetStmt:
		val, err := evalExpr(s.Value, env)
		if err != nil || isReturn(val) {
			return val, err
		}
		env.Set(s.Name.Name, val)
		return Null{}, nil

	case *ast.ReturnStmt:
		val, err := evalExpr(s.Value, env)
		if err != nil || isReturn(val) {
			return val, err
		}
		return &ReturnValue{Value: val}, nil

	case *ast.BlockStmt:
		return evalStatements(s.Stmts, s.Span, env)

	default:
		panic(fmt.Sprintf("runtime: unexpected statement %T", stmt))
	}
}

// ============================================================
// Expressions
// ============================================================

// evalExpr evaluates an expression. An if expression whose block executed a
// return yields that ReturnValue; every enclosing expression passes it
// through untouched so it reaches the statement sequence.
func evalExpr(expr ast.Expr, env *Environment) (Object, error) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return Integer(e.Value), nil
	case *ast.BooleanLiteral:
		return Boolean(e.Value), nil
	case *ast.StringLiteral:
		return String(e.Value), nil

	case *ast.Identifier:
		if val, ok := env.Get(e.Name); ok {
			return val, nil
		}
		return nil, evalErr(ErrIdentifierNotFound, e.Span, "identifier not found: %s", e.Name)

	case *ast.PrefixExpr:
		operand, err := evalExpr(e.Operand, env)
		if err != nil || isReturn(operand) {
			return operand, err
		}
		return evalPrefix(e, operand)

	case *ast.InfixExpr:
		left, err := evalExpr(e.Left, env)
		if err != nil || isReturn(left) {
			return left, err
		}
		right, err := evalExpr(e.Right, env)
		if err != nil || isReturn(right) {
			return right, err
		}
		return evalInfix(e, left, right)

	case *ast.IfExpr:
		return evalIf(e, env)

	case *ast.FunctionLiteral:
		params := make([]string, len(e.Params))
		for i, p := range e.Params {
			params[i] = p.Name
		}
		return &Function{Params: params, Body: e.Body, Env: env}, nil

	case *ast.CallExpr:
		return evalCall(e, env)

	default:
		panic(fmt.Sprintf("runtime: unexpected expression %T", expr))
	}
}

func evalPrefix(e *ast.PrefixExpr, operand Object) (Object, error) {
	switch e.Op {
	case ast.OpBang:
		return Boolean(!IsTruthy(operand)), nil
	case ast.OpMinus:
		if n, ok := operand.(Integer); ok {
			return -n, nil
		}
	}
	return nil, evalErr(ErrUnknownOperator, e.Span, "unknown operator: %s%s", e.Op, operand.TypeName())
}

func evalInfix(e *ast.InfixExpr, left, right Object) (Object, error) {
	l, lok := left.(Integer)
	r, rok := right.(Integer)
	if lok && rok {
		return evalIntegerInfix(e, l, r)
	}

	switch e.Op {
	case ast.OpEq:
		return Boolean(objectsEqual(left, right)), nil
	case ast.OpNotEq:
		return Boolean(!objectsEqual(left, right)), nil
	}
	if left.TypeName() != right.TypeName() {
		return nil, evalErr(ErrTypeMismatch, e.Span,
			"type mismatch: %s %s %s", left.TypeName(), e.Op, right.TypeName())
	}
	return nil, evalErr(ErrUnknownOperator, e.Span,
		"unknown operator: %s %s %s", left.TypeName(), e.Op, right.TypeName())
}

// evalIntegerInfix applies int64 arithmetic, which wraps on overflow.
func evalIntegerInfix(e *ast.InfixExpr, l, r Integer) (Object, error) {
	switch e.Op {
	case ast.OpPlus:
		return l + r, nil
	case ast.OpMinus:
		return l - r, nil
	case ast.OpAsterisk:
		return l * r, nil
	case ast.OpSlash:
		if r == 0 {
			return nil, evalErr(ErrDivisionByZero, e.Span, "division by zero")
		}
		return l / r, nil
	case ast.OpLt:
		return Boolean(l < r), nil
	case ast.OpGt:
		return Boolean(l > r), nil
	case ast.OpEq:
		return Boolean(l == r), nil
	case ast.OpNotEq:
		return Boolean(l != r), nil
	}
	return nil, evalErr(ErrUnknownOperator, e.Span,
		"unknown operator: %s %s %s", INTEGER_OBJ, e.Op, INTEGER_OBJ)
}

func evalIf(e *ast.IfExpr, env *Environment) (Object, error) {
	cond, err := evalExpr(e.Condition, env)
	if err != nil || isReturn(cond) {
		return cond, err
	}
	if IsTruthy(cond) {
		return evalStatements(e.Consequence.Stmts, e.Consequence.Span, env)
	}
	if e.Alternative != nil {
		return evalStatements(e.Alternative.Stmts, e.Alternative.Span, env)
	}
	return Null{}, nil
}

func evalCall(e *ast.CallExpr, env *Environment) (Object, error) {
	callee, err := evalExpr(e.Callee, env)
	if err != nil || isReturn(callee) {
		return callee, err
	}
	fn, ok := callee.(*Function)
	if !ok {
		return nil, evalErr(ErrNotCallable, e.Span, "not a function: %s", callee.TypeName())
	}

	callEnv := NewEnclosedEnvironment(fn.Env)
	for i, argExpr := range e.Args {
		arg, err := evalExpr(argExpr, env)
		if err != nil || isReturn(arg) {
			return arg, err
		}
		// Surplus arguments are evaluated and dropped; missing ones leave
		// their parameter unbound.
		if i < len(fn.Params) {
			callEnv.Set(fn.Params[i], arg)
		}
	}

	result, err := evalStatements(fn.Body.Stmts, fn.Body.Span, callEnv)
	if err != nil {
		return nil, err
	}
	return unwrapReturn(result), nil
}

// ============================================================
// Helpers
// ============================================================

func isReturn(obj Object) bool {
	_, ok := obj.(*ReturnValue)
	return ok
}

func unwrapReturn(obj Object) Object {
	if rv, ok := obj.(*ReturnValue); ok {
		return rv.Value
	}
	return obj
}
