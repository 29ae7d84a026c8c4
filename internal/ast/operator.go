package ast

import (
	"fmt"
	"monkey-lang/internal/token"
)

// Operator is a prefix or infix operator.
type Operator int

const (
	OpMinus Operator = iota
	OpPlus
	OpBang
	OpAsterisk
	OpSlash
	OpEq
	OpNotEq
	OpLt
	OpGt
)

var operatorNames = [...]string{
	OpMinus:    "-",
	OpPlus:     "+",
	OpBang:     "!",
	OpAsterisk: "*",
	OpSlash:    "/",
	OpEq:       "==",
	OpNotEq:    "!=",
	OpLt:       "<",
	OpGt:       ">",
}

// String returns the operator's source spelling.
func (o Operator) String() string {
	if o >= 0 && int(o) < len(operatorNames) {
		return operatorNames[o]
	}
	return fmt.Sprintf("Operator(%d)", int(o))
}

var tokenOperators = map[token.Kind]Operator{
	token.MINUS:    OpMinus,
	token.PLUS:     OpPlus,
	token.BANG:     OpBang,
	token.ASTERISK: OpAsterisk,
	token.SLASH:    OpSlash,
	token.EQ:       OpEq,
	token.NOT_EQ:   OpNotEq,
	token.LT:       OpLt,
	token.GT:       OpGt,
}

// OperatorFor maps a token kind to its operator.
func OperatorFor(kind token.Kind) (Operator, bool) {
	op, ok := tokenOperators[kind]
	return op, ok
}
