package parser

import (
	"encoding/json"
	"math"
	"monkey-lang/internal/ast"
	"monkey-lang/internal/diag"
	"monkey-lang/internal/lexer"
	"strings"
	"testing"
)

func parse(source string) *ast.Program {
	return New(lexer.New(source)).ParseProgram()
}

// helper: parse source and fail on any diagnostic
func parseOK(t *testing.T, source string) *ast.Program {
	t.Helper()
	program := parse(source)
	if len(program.Errors) > 0 {
		t.Fatalf("parse errors for %q: %v", source, program.Errors)
	}
	return program
}

// helper: parse source expecting exactly one diagnostic
func parseOneError(t *testing.T, source string) diag.Diagnostic {
	t.Helper()
	program := parse(source)
	if len(program.Errors) != 1 {
		t.Fatalf("expected 1 error for %q, got %d: %v", source, len(program.Errors), program.Errors)
	}
	return program.Errors[0]
}

func singleExpr(t *testing.T, source string) ast.Expr {
	t.Helper()
	program := parseOK(t, source)
	if len(program.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(program.Statements))
	}
	stmt, ok := program.Statements[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected ExprStmt, got %T", program.Statements[0])
	}
	return stmt.Expr
}

func TestParseLetStatements(t *testing.T) {
	program := parseOK(t, `
let x = 5;
let y = true;
let foobar = y;
`)
	expected := []struct {
		name  string
		value string
	}{
		{"x", "5"},
		{"y", "true"},
		{"foobar", "y"},
	}
	if len(program.Statements) != len(expected) {
		t.Fatalf("expected %d statements, got %d", len(expected), len(program.Statements))
	}
	for i, exp := range expected {
		let, ok := program.Statements[i].(*ast.LetStmt)
		if !ok {
			t.Fatalf("statement %d: expected LetStmt, got %T", i, program.Statements[i])
		}
		if let.Name.Name != exp.name {
			t.Errorf("statement %d: expected name %q, got %q", i, exp.name, let.Name.Name)
		}
		if let.Value.String() != exp.value {
			t.Errorf("statement %d: expected value %q, got %q", i, exp.value, let.Value.String())
		}
	}
}

func TestParseReturnStatements(t *testing.T) {
	program := parseOK(t, `
return 5;
return 10
return add(15);
`)
	if len(program.Statements) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(program.Statements))
	}
	for i, stmt := range program.Statements {
		if _, ok := stmt.(*ast.ReturnStmt); !ok {
			t.Errorf("statement %d: expected ReturnStmt, got %T", i, stmt)
		}
	}
}

func TestParseLiterals(t *testing.T) {
	if id, ok := singleExpr(t, "foobar;").(*ast.Identifier); !ok || id.Name != "foobar" {
		t.Errorf("expected identifier foobar, got %#v", id)
	}
	if lit, ok := singleExpr(t, "5;").(*ast.IntegerLiteral); !ok || lit.Value != 5 {
		t.Errorf("expected integer 5, got %#v", lit)
	}
	if lit, ok := singleExpr(t, "true;").(*ast.BooleanLiteral); !ok || !lit.Value {
		t.Errorf("expected boolean true, got %#v", lit)
	}
	if lit, ok := singleExpr(t, `"hello world";`).(*ast.StringLiteral); !ok || lit.Value != "hello world" {
		t.Errorf("expected string 'hello world', got %#v", lit)
	}
}

func TestParsePrefixExpressions(t *testing.T) {
	tests := []struct {
		input   string
		op      ast.Operator
		operand string
	}{
		{"!5;", ast.OpBang, "5"},
		{"-15;", ast.OpMinus, "15"},
		{"!true;", ast.OpBang, "true"},
		{"-a", ast.OpMinus, "a"},
	}
	for _, tt := range tests {
		prefix, ok := singleExpr(t, tt.input).(*ast.PrefixExpr)
		if !ok {
			t.Fatalf("%q: expected PrefixExpr", tt.input)
		}
		if prefix.Op != tt.op {
			t.Errorf("%q: expected operator %s, got %s", tt.input, tt.op, prefix.Op)
		}
		if prefix.Operand.String() != tt.operand {
			t.Errorf("%q: expected operand %q, got %q", tt.input, tt.operand, prefix.Operand.String())
		}
	}
}

func TestParseInfixExpressions(t *testing.T) {
	tests := []struct {
		input string
		op    ast.Operator
	}{
		{"5 + 5;", ast.OpPlus},
		{"5 - 5;", ast.OpMinus},
		{"5 * 5;", ast.OpAsterisk},
		{"5 / 5;", ast.OpSlash},
		{"5 > 5;", ast.OpGt},
		{"5 < 5;", ast.OpLt},
		{"5 == 5;", ast.OpEq},
		{"5 != 5;", ast.OpNotEq},
	}
	for _, tt := range tests {
		infix, ok := singleExpr(t, tt.input).(*ast.InfixExpr)
		if !ok {
			t.Fatalf("%q: expected InfixExpr", tt.input)
		}
		if infix.Op != tt.op {
			t.Errorf("%q: expected operator %s, got %s", tt.input, tt.op, infix.Op)
		}
		if infix.Left.String() != "5" || infix.Right.String() != "5" {
			t.Errorf("%q: unexpected operands %s, %s", tt.input, infix.Left, infix.Right)
		}
	}
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"-a * b", "((-a) * b)"},
		{"!-a", "(!(-a))"},
		{"a + b + c", "((a + b) + c)"},
		{"a + b - c", "((a + b) - c)"},
		{"a * b * c", "((a * b) * c)"},
		{"a * b / c", "((a * b) / c)"},
		{"a + b / c", "(a + (b / c))"},
		{"a + b * c + d / e - f", "(((a + (b * c)) + (d / e)) - f)"},
		{"3 + 4; -5 * 5", "(3 + 4)((-5) * 5)"},
		{"5 > 4 == 3 < 4", "((5 > 4) == (3 < 4))"},
		{"5 < 4 != 3 > 4", "((5 < 4) != (3 > 4))"},
		{"3 + 4 * 5 == 3 * 1 + 4 * 5", "((3 + (4 * 5)) == ((3 * 1) + (4 * 5)))"},
		{"3 > 5 == false", "((3 > 5) == false)"},
		{"1 + (2 + 3) + 4", "((1 + (2 + 3)) + 4)"},
		{"(5 + 5) * 2", "((5 + 5) * 2)"},
		{"-(5 + 5)", "(-(5 + 5))"},
		{"!(true == true)", "(!(true == true))"},
		{"a + add(b * c) + d", "((a + add((b * c))) + d)"},
		{"add(a, b, 1, 2 * 3, 4 + 5, add(6, 7 * 8))", "add(a, b, 1, (2 * 3), (4 + 5), add(6, (7 * 8)))"},
		{"add(a + b + c * d / f + g)", "add((((a + b) + ((c * d) / f)) + g))"},
	}
	for _, tt := range tests {
		program := parseOK(t, tt.input)
		if got := program.String(); got != tt.expected {
			t.Errorf("%q: expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestParseIfExpression(t *testing.T) {
	expr, ok := singleExpr(t, "if (x < y) { x }").(*ast.IfExpr)
	if !ok {
		t.Fatal("expected IfExpr")
	}
	if expr.Condition.String() != "(x < y)" {
		t.Errorf("unexpected condition %q", expr.Condition.String())
	}
	if len(expr.Consequence.Stmts) != 1 || expr.Consequence.Stmts[0].String() != "x" {
		t.Errorf("unexpected consequence %q", expr.Consequence.String())
	}
	if expr.Alternative != nil {
		t.Errorf("expected no alternative, got %q", expr.Alternative.String())
	}
}

func TestParseIfElseExpression(t *testing.T) {
	expr, ok := singleExpr(t, "if (x < y) { x } else { y }").(*ast.IfExpr)
	if !ok {
		t.Fatal("expected IfExpr")
	}
	if expr.Alternative == nil || expr.Alternative.String() != "{ y }" {
		t.Fatalf("unexpected alternative %v", expr.Alternative)
	}
	if expr.String() != "if (x < y) { x } else { y }" {
		t.Errorf("unexpected rendering %q", expr.String())
	}
}

func TestParseFunctionLiteral(t *testing.T) {
	fn, ok := singleExpr(t, "fn(x, y) { x + y; }").(*ast.FunctionLiteral)
	if !ok {
		t.Fatal("expected FunctionLiteral")
	}
	if len(fn.Params) != 2 || fn.Params[0].Name != "x" || fn.Params[1].Name != "y" {
		t.Errorf("unexpected params %v", fn.Params)
	}
	if fn.Body.String() != "{ (x + y) }" {
		t.Errorf("unexpected body %q", fn.Body.String())
	}
}

func TestParseFunctionParameters(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"fn() {};", nil},
		{"fn(x) {};", []string{"x"}},
		{"fn(x, y, z) {};", []string{"x", "y", "z"}},
	}
	for _, tt := range tests {
		fn := singleExpr(t, tt.input).(*ast.FunctionLiteral)
		if len(fn.Params) != len(tt.expected) {
			t.Fatalf("%q: expected %d params, got %d", tt.input, len(tt.expected), len(fn.Params))
		}
		for i, name := range tt.expected {
			if fn.Params[i].Name != name {
				t.Errorf("%q: param %d expected %q, got %q", tt.input, i, name, fn.Params[i].Name)
			}
		}
	}
}

func TestParseCallExpression(t *testing.T) {
	call, ok := singleExpr(t, "add(1, 2 * 3, 4 + 5);").(*ast.CallExpr)
	if !ok {
		t.Fatal("expected CallExpr")
	}
	if _, ok := call.Callee.(*ast.Identifier); !ok {
		t.Errorf("expected identifier callee, got %T", call.Callee)
	}
	if len(call.Args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(call.Args))
	}
	if call.Args[1].String() != "(2 * 3)" {
		t.Errorf("unexpected arg %q", call.Args[1].String())
	}
}

func TestParseImmediatelyInvokedFunction(t *testing.T) {
	call, ok := singleExpr(t, "fn(x) { x; }(5);").(*ast.CallExpr)
	if !ok {
		t.Fatal("expected CallExpr")
	}
	if _, ok := call.Callee.(*ast.FunctionLiteral); !ok {
		t.Errorf("expected function literal callee, got %T", call.Callee)
	}
	if call.String() != "fn(x) { x }(5)" {
		t.Errorf("unexpected rendering %q", call.String())
	}
}

func TestParseMinInt64(t *testing.T) {
	lit, ok := singleExpr(t, "-9223372036854775808").(*ast.IntegerLiteral)
	if !ok {
		t.Fatal("expected IntegerLiteral")
	}
	if lit.Value != math.MinInt64 {
		t.Errorf("expected MinInt64, got %d", lit.Value)
	}
	if lit.Span.Start.Column != 1 || lit.Span.End.Column != 21 {
		t.Errorf("expected span 1..21, got %s", lit.Span)
	}
}

func TestRenderingParsesBackToSameProgram(t *testing.T) {
	inputs := []string{
		"-9223372036854775808",
		"--9223372036854775808",
		"-9223372036854775808 - 1",
		"-(9223372036854775807)",
		"let f = fn(x, y) { if (x < y) { return -x; } else { x * y } }; f(1, 2)",
		`let s = "hi"; !s == false`,
	}
	for _, input := range inputs {
		first := parseOK(t, input).String()
		second := parseOK(t, first).String()
		if first != second {
			t.Errorf("%q: rendering %q parsed back as %q", input, first, second)
		}
	}
}

func TestParseEmptyProgram(t *testing.T) {
	program := parseOK(t, "  \n ")
	if len(program.Statements) != 0 {
		t.Errorf("expected no statements, got %d", len(program.Statements))
	}
}

func TestParserIsSingleUse(t *testing.T) {
	p := New(lexer.New("1; 2;"))
	if first := p.ParseProgram(); len(first.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(first.Statements))
	}
	if second := p.ParseProgram(); len(second.Statements) != 0 || len(second.Errors) != 0 {
		t.Errorf("expected empty program on second parse, got %d statements", len(second.Statements))
	}
}

// ---- error reporting ----

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input    string
		code     string
		contains string
	}{
		{"let = 5;", diag.CodeExpectedToken, "expected 'IDENT' after 'let'"},
		{"let x 5;", diag.CodeExpectedToken, "expected '=' after 'let x', got '5'"},
		{"(1 + 2", diag.CodeExpectedToken, "expected ')' to close '('"},
		{"fn(1) { 1 }", diag.CodeExpectedToken, "in parameter list"},
		{"fn(x, ) { 1 }", diag.CodeExpectedToken, "after ',' in parameter list"},
		{"fn(x y) { 1 }", diag.CodeExpectedToken, "after parameters"},
		{"fn(x) x", diag.CodeExpectedToken, "before function body"},
		{"if 1 { 2 }", diag.CodeExpectedToken, "after 'if'"},
		{"if (1) 2", diag.CodeExpectedToken, "before if body"},
		{"if (1) { 2 } else 3", diag.CodeExpectedToken, "after 'else'"},
		{"add(1, 2", diag.CodeExpectedToken, "after arguments"},
		{"5 + ;", diag.CodeNoPrefix, "no prefix parse function for ';'"},
		{"@", diag.CodeNoPrefix, "no prefix parse function for '@'"},
		{"return", diag.CodeNoPrefix, "no prefix parse function for end of input"},
		{"5(1)", diag.CodeNotCallable, "expression 5 is not callable"},
		{"add(1)(2)", diag.CodeNotCallable, "not callable"},
		{"99999999999999999999", diag.CodeIntRange, "could not parse 99999999999999999999"},
		{"9223372036854775808", diag.CodeIntRange, "could not parse"},
	}
	for _, tt := range tests {
		d := parseOneError(t, tt.input)
		if d.Code != tt.code {
			t.Errorf("%q: expected code %s, got %s (%s)", tt.input, tt.code, d.Code, d.Message)
		}
		if !strings.Contains(d.Message, tt.contains) {
			t.Errorf("%q: expected message containing %q, got %q", tt.input, tt.contains, d.Message)
		}
	}
}

func TestErrorRecoveryResumesAtNextStatement(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"let = 5; let x = 10;", "let x = 10;"},
		{"let x 5; y;", "y"},
		{"@ 1; 2 + 2;", "(2 + 2)"},
		{"let f = fn(x) { x + ; }; f(1);", "f(1)"},
		{"let = 5\nlet x = 10", "let x = 10;"},
		{"5 + ;\nreturn 7;", "return 7;"},
		{"let x 5\nfoo;", "foo"},
		{"@ 1\nfoo", "foo"},
		{"if (true) { let = 1; } 5;", "5"},
		{"if (x) { let = 1; } else { 2 }\nfoo", "foo"},
		{"let x = 1 +\nlet y = 2;", "let y = 2;"},
		{"let x = 1 + return 2;", "return 2;"},
		{"fn(x) { let 1 } \n add(1);", "add(1)"},
		{"let x = (1 +\n @);\nx", "x"},
		{"let x = @\n + 2;\nx", "x"},
	}
	for _, tt := range tests {
		program := parse(tt.input)
		if len(program.Errors) != 1 {
			t.Errorf("%q: expected exactly 1 error, got %d: %v", tt.input, len(program.Errors), program.Errors)
			continue
		}
		if len(program.Statements) != 1 {
			t.Errorf("%q: expected 1 statement, got %d", tt.input, len(program.Statements))
			continue
		}
		if got := program.Statements[0].String(); got != tt.expected {
			t.Errorf("%q: expected statement %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestDiagnosticPosition(t *testing.T) {
	d := parseOneError(t, "let x = 1;\nlet = 2;")
	if d.Span.Start.Line != 2 || d.Span.Start.Column != 5 {
		t.Errorf("expected error at 2:5, got %s", d.Span.Start)
	}
	if !strings.HasPrefix(d.String(), "[E2001] error at 2:5: ") {
		t.Errorf("unexpected rendering %q", d.String())
	}
}

func TestNodeSpans(t *testing.T) {
	program := parseOK(t, "let x = 1 + 2;")
	let := program.Statements[0].(*ast.LetStmt)
	if let.Span.Start.Column != 1 || let.Span.End.Column != 15 {
		t.Errorf("let span: expected 1..15, got %s", let.Span)
	}
	infix := let.Value.(*ast.InfixExpr)
	if infix.Span.Start.Column != 9 || infix.Span.End.Column != 14 {
		t.Errorf("infix span: expected 9..14, got %s", infix.Span)
	}
}

func TestNodeToMap(t *testing.T) {
	program := parseOK(t, "let add = fn(a, b) { a + b }; add(1, 2);")
	data, err := json.Marshal(ast.NodeToMap(program))
	if err != nil {
		t.Fatalf("json error: %v", err)
	}
	out := string(data)
	for _, want := range []string{`"kind":"Program"`, `"kind":"LetStmt"`, `"kind":"FunctionLiteral"`, `"params":["a","b"]`, `"op":"+"`, `"kind":"CallExpr"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected JSON to contain %s, got %s", want, out)
		}
	}
}
