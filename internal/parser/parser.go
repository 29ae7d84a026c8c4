// Package parser turns a token stream into an AST.
// Expressions use Pratt parsing; statements use recursive descent.
package parser

import (
	"errors"
	"math"
	"monkey-lang/internal/ast"
	"monkey-lang/internal/diag"
	"monkey-lang/internal/lexer"
	"monkey-lang/internal/span"
	"monkey-lang/internal/token"
	"strconv"
	"strings"
)

// ============================================================
// Precedence levels
// ============================================================

const (
	precLowest      = iota + 1
	precEquals      // == !=
	precLessGreater // < >
	precSum         // + -
	precProduct     // * /
	precPrefix      // -x !x
	precCall        // f(x)
)

var precedences = map[token.Kind]int{
	token.EQ:       precEquals,
	token.NOT_EQ:   precEquals,
	token.LT:       precLessGreater,
	token.GT:       precLessGreater,
	token.PLUS:     precSum,
	token.MINUS:    precSum,
	token.ASTERISK: precProduct,
	token.SLASH:    precProduct,
	token.LPAREN:   precCall,
}

// minInt64Digits is the magnitude of math.MinInt64, which only fits in an
// int64 once negated.
const minInt64Digits = "9223372036854775808"

// ============================================================
// Parser
// ============================================================

// Parser consumes a Lexer and produces a Program. It holds only the
// current token and one token of lookahead.
type Parser struct {
	l *lexer.Lexer

	cur  token.Token
	peek token.Token

	nesting  int  // open '(' and '{' up to and including cur
	minIntOK bool // next integer literal is the operand of a prefix minus
	used     bool
}

// New creates a parser reading from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.nextToken()
	p.nextToken()
	return p
}

// ParseProgram parses the whole input. It never fails: a statement that
// does not parse contributes one diagnostic to Program.Errors, and parsing
// resumes at the next statement. A Parser is single-use; later calls
// return an empty Program.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	if p.used {
		return program
	}
	p.used = true

	start := p.cur.Span.Start
	for p.cur.Kind != token.EOF {
		stmtStart := p.cur.Span.Start
		stmt, err := p.parseStatement()
		if err != nil {
			program.Errors = append(program.Errors, toDiagnostic(err, p.cur.Span))
			p.synchronize(stmtStart)
			continue
		}
		program.Statements = append(program.Statements, stmt)
		p.nextToken()
	}
	program.Span = span.Span{Start: start, End: p.cur.Span.End}
	return program
}

// ---- navigation helpers ----

func (p *Parser) nextToken() {
	p.cur = p.peek
	switch p.cur.Kind {
	case token.LBRACE, token.LPAREN:
		p.nesting++
	case token.RBRACE, token.RPAREN:
		if p.nesting > 0 {
			p.nesting--
		}
	}

	tok, ok := p.l.Next()
	if !ok {
		end := p.l.Pos()
		tok = token.Token{Kind: token.EOF, Span: span.Span{Start: end, End: end}}
	}
	p.peek = tok
}

// expectPeek advances if the next token has the given kind, and reports
// a missing-token diagnostic otherwise.
func (p *Parser) expectPeek(kind token.Kind, context string) error {
	if p.peek.Kind == kind {
		p.nextToken()
		return nil
	}
	return diag.Errorf(diag.CodeExpectedToken, p.peek.Span,
		"expected '%s' %s, got %s", kind, context, describe(p.peek))
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peek.Kind]; ok {
		return prec
	}
	return precLowest
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.cur.Kind]; ok {
		return prec
	}
	return precLowest
}

// spanFrom returns a span from start to the end of the current token.
func (p *Parser) spanFrom(start span.Position) span.Span {
	return span.Span{Start: start, End: p.cur.Span.End}
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of input"
	case token.STRING:
		return strconv.Quote(tok.Lexeme)
	default:
		return "'" + tok.Lexeme + "'"
	}
}

func toDiagnostic(err error, at span.Span) diag.Diagnostic {
	var d diag.Diagnostic
	if errors.As(err, &d) {
		return d
	}
	return diag.Errorf(diag.CodeExpectedToken, at, "%s", err)
}

// ============================================================
// Error recovery
// ============================================================

// synchronize skips the rest of a statement that began at start and failed
// to parse, leaving cur on the first token of the next statement or on EOF.
// Outside any parentheses or braces a statement ends at ';', at a 'let' or
// 'return', and before a token that cannot continue it when that token
// follows a line break or a closing '}'.
func (p *Parser) synchronize(start span.Position) {
	for p.cur.Kind != token.EOF {
		if p.nesting == 0 {
			if p.cur.Kind == token.SEMICOLON {
				p.nextToken()
				return
			}
			if startsStatement(p.cur.Kind) && p.cur.Span.Start.Offset > start.Offset {
				return
			}
		}

		prev := p.cur
		p.nextToken()
		if p.nesting > 0 || p.cur.Kind == token.EOF || continuesStatement(p.cur.Kind) {
			continue
		}
		if prev.Kind == token.RBRACE || p.cur.Span.Start.Line > prev.Span.End.Line {
			return
		}
	}
}

func startsStatement(kind token.Kind) bool {
	return kind == token.KW_LET || kind == token.KW_RETURN
}

// continuesStatement reports whether kind can extend the expression before
// it rather than start a new one.
func continuesStatement(kind token.Kind) bool {
	switch kind {
	case token.SEMICOLON, token.KW_ELSE, token.LBRACE, token.RBRACE, token.RPAREN, token.COMMA, token.ASSIGN:
		return true
	}
	_, infix := precedences[kind]
	return infix
}

// ============================================================
// Statements
// ============================================================

func (p *Parser) parseStatement() (ast.Stmt, error) {
	switch p.cur.Kind {
	case token.KW_LET:
		return p.parseLetStatement()
	case token.KW_RETURN:
		return p.parseReturnStatement()
	default:
		return p.parseExpressionStatement()
	}
}

// parseLetStatement parses: let IDENT = expr [;]
func (p *Parser) parseLetStatement() (ast.Stmt, error) {
	start := p.cur.Span.Start

	if err := p.expectPeek(token.IDENT, "after 'let'"); err != nil {
		return nil, err
	}
	name := &ast.Identifier{ExprBase: exprBase(p.cur.Span), Name: p.cur.Lexeme}

	if err := p.expectPeek(token.ASSIGN, "after 'let "+name.Name+"'"); err != nil {
		return nil, err
	}
	p.nextToken()

	value, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	if p.peek.Kind == token.SEMICOLON {
		p.nextToken()
	}

	return &ast.LetStmt{StmtBase: stmtBase(p.spanFrom(start)), Name: name, Value: value}, nil
}

// parseReturnStatement parses: return expr [;]
func (p *Parser) parseReturnStatement() (ast.Stmt, error) {
	start := p.cur.Span.Start
	p.nextToken()

	value, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	if p.peek.Kind == token.SEMICOLON {
		p.nextToken()
	}

	return &ast.ReturnStmt{StmtBase: stmtBase(p.spanFrom(start)), Value: value}, nil
}

// parseExpressionStatement parses: expr [;]
func (p *Parser) parseExpressionStatement() (ast.Stmt, error) {
	start := p.cur.Span.Start

	expr, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	if p.peek.Kind == token.SEMICOLON {
		p.nextToken()
	}

	return &ast.ExprStmt{StmtBase: stmtBase(p.spanFrom(start)), Expr: expr}, nil
}

// parseBlockStatement parses the statements after '{' up to the matching
// '}' or end of input. The current token must be '{'.
func (p *Parser) parseBlockStatement() (*ast.BlockStmt, error) {
	start := p.cur.Span.Start
	block := &ast.BlockStmt{}
	p.nextToken()

	for p.cur.Kind != token.RBRACE && p.cur.Kind != token.EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
		p.nextToken()
	}

	block.StmtBase = stmtBase(p.spanFrom(start))
	return block, nil
}

// ============================================================
// Expressions
// ============================================================

// parseExpression parses an expression whose operators all bind tighter
// than precedence.
func (p *Parser) parseExpression(precedence int) (ast.Expr, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for p.peek.Kind != token.SEMICOLON && precedence < p.peekPrecedence() {
		p.nextToken()
		left, err = p.parseInfix(left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

// parsePrefix starts an expression from the current token.
func (p *Parser) parsePrefix() (ast.Expr, error) {
	tok := p.cur

	switch tok.Kind {
	case token.IDENT:
		return &ast.Identifier{ExprBase: exprBase(tok.Span), Name: tok.Lexeme}, nil

	case token.INT:
		return p.parseIntegerLiteral()

	case token.STRING:
		return &ast.StringLiteral{ExprBase: exprBase(tok.Span), Value: tok.Lexeme}, nil

	case token.KW_TRUE, token.KW_FALSE:
		return &ast.BooleanLiteral{ExprBase: exprBase(tok.Span), Value: tok.Kind == token.KW_TRUE}, nil

	case token.BANG, token.MINUS:
		op, _ := ast.OperatorFor(tok.Kind)
		p.nextToken()
		negatedInt := op == ast.OpMinus && p.cur.Kind == token.INT
		p.minIntOK = negatedInt
		operand, err := p.parseExpression(precPrefix)
		if err != nil {
			return nil, err
		}
		// -9223372036854775808 becomes one literal so that it renders
		// back to the same source.
		if lit, ok := operand.(*ast.IntegerLiteral); ok && negatedInt && lit.Value == math.MinInt64 {
			return &ast.IntegerLiteral{ExprBase: exprBase(p.spanFrom(tok.Span.Start)), Value: lit.Value}, nil
		}
		return &ast.PrefixExpr{ExprBase: exprBase(p.spanFrom(tok.Span.Start)), Op: op, Operand: operand}, nil

	case token.LPAREN:
		p.nextToken()
		expr, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		if err := p.expectPeek(token.RPAREN, "to close '('"); err != nil {
			return nil, err
		}
		return expr, nil

	case token.KW_FN:
		return p.parseFunctionLiteral()

	case token.KW_IF:
		return p.parseIfExpression()

	default:
		return nil, diag.Errorf(diag.CodeNoPrefix, tok.Span, "no prefix parse function for %s", describe(tok))
	}
}

// parseInfix continues an expression whose left operand is already parsed.
// The current token is the operator.
func (p *Parser) parseInfix(left ast.Expr) (ast.Expr, error) {
	tok := p.cur

	if tok.Kind == token.LPAREN {
		callee, ok := left.(ast.Callable)
		if !ok {
			return nil, diag.Errorf(diag.CodeNotCallable, left.GetSpan(), "expression %s is not callable", left)
		}
		args, err := p.parseCallArguments()
		if err != nil {
			return nil, err
		}
		return &ast.CallExpr{
			ExprBase: exprBase(p.spanFrom(left.GetSpan().Start)),
			Callee:   callee,
			Args:     args,
		}, nil
	}

	op, ok := ast.OperatorFor(tok.Kind)
	if !ok {
		return left, nil
	}
	precedence := p.curPrecedence()
	p.nextToken()
	right, err := p.parseExpression(precedence)
	if err != nil {
		return nil, err
	}
	return &ast.InfixExpr{
		ExprBase: exprBase(p.spanFrom(left.GetSpan().Start)),
		Op:       op,
		Left:     left,
		Right:    right,
	}, nil
}

func (p *Parser) parseIntegerLiteral() (ast.Expr, error) {
	tok := p.cur
	negated := p.minIntOK
	p.minIntOK = false

	value, err := strconv.ParseInt(tok.Lexeme, 10, 64)
	if err != nil {
		if !negated || !isMinInt64Magnitude(tok.Lexeme) {
			return nil, diag.Errorf(diag.CodeIntRange, tok.Span, "could not parse %s as a 64-bit integer", tok.Lexeme)
		}
		// only reachable under a prefix minus, which parsePrefix folds
		value = math.MinInt64
	}
	return &ast.IntegerLiteral{ExprBase: exprBase(tok.Span), Value: value}, nil
}

func isMinInt64Magnitude(digits string) bool {
	return strings.TrimLeft(digits, "0") == minInt64Digits
}

// parseFunctionLiteral parses: fn ( params ) { body }
func (p *Parser) parseFunctionLiteral() (ast.Expr, error) {
	start := p.cur.Span.Start

	if err := p.expectPeek(token.LPAREN, "after 'fn'"); err != nil {
		return nil, err
	}
	params, err := p.parseFunctionParameters()
	if err != nil {
		return nil, err
	}
	if err := p.expectPeek(token.LBRACE, "before function body"); err != nil {
		return nil, err
	}
	body, err := p.parseBlockStatement()
	if err != nil {
		return nil, err
	}

	return &ast.FunctionLiteral{ExprBase: exprBase(p.spanFrom(start)), Params: params, Body: body}, nil
}

// parseFunctionParameters parses the identifiers after '(' through ')'.
func (p *Parser) parseFunctionParameters() ([]*ast.Identifier, error) {
	var params []*ast.Identifier

	if p.peek.Kind == token.RPAREN {
		p.nextToken()
		return params, nil
	}

	if err := p.expectPeek(token.IDENT, "in parameter list"); err != nil {
		return nil, err
	}
	params = append(params, &ast.Identifier{ExprBase: exprBase(p.cur.Span), Name: p.cur.Lexeme})

	for p.peek.Kind == token.COMMA {
		p.nextToken()
		if err := p.expectPeek(token.IDENT, "after ',' in parameter list"); err != nil {
			return nil, err
		}
		params = append(params, &ast.Identifier{ExprBase: exprBase(p.cur.Span), Name: p.cur.Lexeme})
	}

	if err := p.expectPeek(token.RPAREN, "after parameters"); err != nil {
		return nil, err
	}
	return params, nil
}

// parseCallArguments parses the expressions after '(' through ')'.
func (p *Parser) parseCallArguments() ([]ast.Expr, error) {
	var args []ast.Expr

	if p.peek.Kind == token.RPAREN {
		p.nextToken()
		return args, nil
	}

	p.nextToken()
	arg, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	args = append(args, arg)

	for p.peek.Kind == token.COMMA {
		p.nextToken()
		p.nextToken()
		arg, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	if err := p.expectPeek(token.RPAREN, "after arguments"); err != nil {
		return nil, err
	}
	return args, nil
}

// parseIfExpression parses: if ( cond ) { ... } [ else { ... } ]
func (p *Parser) parseIfExpression() (ast.Expr, error) {
	start := p.cur.Span.Start

	if err := p.expectPeek(token.LPAREN, "after 'if'"); err != nil {
		return nil, err
	}
	p.nextToken()
	condition, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	if err := p.expectPeek(token.RPAREN, "after if condition"); err != nil {
		return nil, err
	}
	if err := p.expectPeek(token.LBRACE, "before if body"); err != nil {
		return nil, err
	}
	consequence, err := p.parseBlockStatement()
	if err != nil {
		return nil, err
	}

	expr := &ast.IfExpr{Condition: condition, Consequence: consequence}
	if p.peek.Kind == token.KW_ELSE {
		p.nextToken()
		if err := p.expectPeek(token.LBRACE, "after 'else'"); err != nil {
			return nil, err
		}
		alternative, err := p.parseBlockStatement()
		if err != nil {
			return nil, err
		}
		expr.Alternative = alternative
	}

	expr.ExprBase = exprBase(p.spanFrom(start))
	return expr, nil
}

// ============================================================
// Span helpers
// ============================================================

func exprBase(s span.Span) ast.ExprBase {
	return ast.ExprBase{NodeBase: ast.NodeBase{Span: s}}
}

func stmtBase(s span.Span) ast.StmtBase {
	return ast.StmtBase{NodeBase: ast.NodeBase{Span: s}}
}
