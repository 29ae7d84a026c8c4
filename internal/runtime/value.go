// Package runtime implements the object model, the environment chain and
// the tree-walking evaluator.
package runtime

import (
	"monkey-lang/internal/ast"
	"strconv"
	"strings"
)

// Type names reported by Object.TypeName and used in error messages.
const (
	INTEGER_OBJ  = "INTEGER"
	BOOLEAN_OBJ  = "BOOLEAN"
	STRING_OBJ   = "STRING"
	NULL_OBJ     = "NULL"
	RETURN_OBJ   = "RETURN"
	FUNCTION_OBJ = "FUNCTION"
)

// Object is a runtime value. The set of implementations is closed.
type Object interface {
	TypeName() string
	String() string
	objectNode()
}

// ---- Primitive values ----

// Integer is a 64-bit signed integer.
type Integer int64

func (v Integer) TypeName() string { return INTEGER_OBJ }
func (v Integer) String() string   { return strconv.FormatInt(int64(v), 10) }
func (Integer) objectNode()        {}

// Boolean is true or false.
type Boolean bool

func (v Boolean) TypeName() string { return BOOLEAN_OBJ }
func (v Boolean) String() string   { return strconv.FormatBool(bool(v)) }
func (Boolean) objectNode()        {}

// String is an immutable string value.
type String string

func (v String) TypeName() string { return STRING_OBJ }
func (v String) String() string   { return string(v) }
func (String) objectNode()        {}

// Null is the absence of a value.
type Null struct{}

func (v Null) TypeName() string { return NULL_OBJ }
func (v Null) String() string   { return "null" }
func (Null) objectNode()        {}

// ---- Control signal ----

// ReturnValue wraps the operand of a return statement while it travels up
// to the nearest call boundary or the top level. It never escapes Eval.
type ReturnValue struct {
	Value Object
}

func (v *ReturnValue) TypeName() string { return RETURN_OBJ }
func (v *ReturnValue) String() string   { return v.Value.String() }
func (*ReturnValue) objectNode()        {}

// ---- Callable values ----

// Function is a closure: parameters and body from a function literal plus
// the environment that was current when the literal was evaluated.
type Function struct {
	Params []string
	Body   *ast.BlockStmt
	Env    *Environment
}

func (v *Function) TypeName() string { return FUNCTION_OBJ }
func (v *Function) String() string {
	return "fn(" + strings.Join(v.Params, ", ") + ") " + v.Body.String()
}
func (*Function) objectNode() {}

// ---- Truthiness ----

// IsTruthy maps any value to a boolean for conditionals and '!'.
func IsTruthy(obj Object) bool {
	switch v := obj.(type) {
	case Boolean:
		return bool(v)
	case Null:
		return false
	case *ReturnValue:
		return IsTruthy(v.Value)
	default: // Integer, String, *Function
		return true
	}
}

// objectsEqual is structural equality for value kinds and identity for
// functions.
func objectsEqual(left, right Object) bool {
	switch l := left.(type) {
	case *ReturnValue:
		r, ok := right.(*ReturnValue)
		return ok && objectsEqual(l.Value, r.Value)
	case *Function:
		r, ok := right.(*Function)
		return ok && l == r
	default:
		return left == right
	}
}
