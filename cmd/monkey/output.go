package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"monkey-lang/internal/diag"
	"monkey-lang/internal/lexer"
	"monkey-lang/internal/parser"
	"monkey-lang/internal/runtime"
	"monkey-lang/internal/token"

	"github.com/fatih/color"
)

var (
	errorColor  = color.New(color.FgRed)
	promptColor = color.New(color.FgGreen)
	hintColor   = color.New(color.FgHiBlack)
	bannerColor = color.New(color.FgCyan, color.Bold)
)

// submit parses and evaluates one piece of source in interp. Parse errors
// are all reported and evaluation is skipped. It reports whether the
// source ran without errors.
func submit(out, errOut io.Writer, interp *runtime.Interpreter, source string) bool {
	program := parser.New(lexer.New(source)).ParseProgram()
	if len(program.Errors) > 0 {
		printDiags(errOut, program.Errors)
		return false
	}

	result, err := interp.Run(program)
	if err != nil {
		printEvalError(errOut, err)
		return false
	}
	fmt.Fprintln(out, result.String())
	return true
}

// ---- output helpers ----

func printJSON(w io.Writer, v interface{}) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("JSON encoding failed: %v", err)
	}
}

func printDiags(w io.Writer, diags []diag.Diagnostic) {
	for _, d := range diags {
		errorColor.Fprintln(w, d.String())
	}
}

func printEvalError(w io.Writer, err error) {
	var evalErr *runtime.EvalError
	if errors.As(err, &evalErr) {
		errorColor.Fprintf(w, "error at %s: %s\n", evalErr.Span.Start, evalErr.Message)
		return
	}
	errorColor.Fprintf(w, "error: %s\n", err)
}

// ---- token output helpers ----

func printTokensText(w io.Writer, tokens []token.Token) {
	for _, tok := range tokens {
		fmt.Fprintf(w, "%-12s %-20s %d:%d\n", tok.Kind, tok.Lexeme, tok.Span.Start.Line, tok.Span.Start.Column)
	}
}

func printTokensJSON(w io.Writer, tokens []token.Token) {
	type tokenJSON struct {
		Kind   string `json:"kind"`
		Lexeme string `json:"lexeme"`
		Line   int    `json:"line"`
		Column int    `json:"column"`
		Offset int    `json:"offset"`
	}

	toks := make([]tokenJSON, 0, len(tokens))
	for _, tok := range tokens {
		toks = append(toks, tokenJSON{
			Kind:   tok.Kind.String(),
			Lexeme: tok.Lexeme,
			Line:   tok.Span.Start.Line,
			Column: tok.Span.Start.Column,
			Offset: tok.Span.Start.Offset,
		})
	}
	printJSON(w, map[string]interface{}{"tokens": toks})
}
