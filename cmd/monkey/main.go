// Command monkey is the command-line front end for the Monkey interpreter.
//
// Usage:
//
//	monkey [-c config] [-n] [-q] [command] [args]
//
//	monkey tokens [-j] <file>      Print tokens (-j for JSON)
//	monkey parse  <file>           Print AST as JSON
//	monkey run    <file>           Run a source file and print its result
//	monkey repl                    Start interactive REPL (default)
package main

import (
	"fmt"
	"log"
	"monkey-lang/internal/ast"
	"monkey-lang/internal/config"
	"monkey-lang/internal/lexer"
	"monkey-lang/internal/parser"
	"monkey-lang/internal/runtime"
	"monkey-lang/internal/token"
	"os"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/fatih/color"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("monkey: ")

	opts, optind, err := getopt.Getopts(os.Args, "c:nqh")
	if err != nil {
		log.Fatalln(err)
	}
	configPath := config.DefaultPath()
	noColor, quiet := false, false
	for _, opt := range opts {
		switch opt.Option {
		case 'c':
			configPath = opt.Value
		case 'n':
			noColor = true
		case 'q':
			quiet = true
		case 'h':
			usage()
			os.Exit(0)
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalln(err)
	}
	if noColor || !cfg.Color {
		color.NoColor = true
	}
	if quiet {
		cfg.Banner = false
	}

	args := os.Args[optind:]
	command := "repl"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	switch command {
	case "tokens":
		os.Exit(cmdTokens(args))
	case "parse":
		os.Exit(cmdParse(readFile(command, args)))
	case "run":
		os.Exit(cmdRun(readFile(command, args)))
	case "repl":
		if err := cmdRepl(cfg); err != nil {
			log.Fatalln(err)
		}
	default:
		usage()
		log.Fatalf("unknown command '%s'", command)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: monkey [-c config] [-n] [-q] [command] [args]")
	fmt.Fprintln(os.Stderr, "  monkey tokens [-j] <file>   Tokenize and print tokens")
	fmt.Fprintln(os.Stderr, "  monkey parse  <file>        Parse and print AST (JSON)")
	fmt.Fprintln(os.Stderr, "  monkey run    <file>        Run a source file")
	fmt.Fprintln(os.Stderr, "  monkey repl                 Start interactive REPL (default)")
	fmt.Fprintln(os.Stderr, "Options:")
	fmt.Fprintln(os.Stderr, "  -c file   settings file (default ~/"+config.FileName+")")
	fmt.Fprintln(os.Stderr, "  -n        disable colored output")
	fmt.Fprintln(os.Stderr, "  -q        do not print the REPL banner")
}

func readFile(command string, args []string) string {
	if len(args) < 1 {
		log.Fatalf("%s: missing file argument", command)
	}
	source, err := os.ReadFile(args[0])
	if err != nil {
		log.Fatalf("cannot read file %s: %v", args[0], err)
	}
	return string(source)
}

// ---- tokens command ----

func cmdTokens(args []string) int {
	// Getopts expects argv[0] to be the name of the command.
	opts, optind, err := getopt.Getopts(append([]string{"tokens"}, args...), "j")
	if err != nil {
		log.Fatalln(err)
	}
	jsonMode := false
	for _, opt := range opts {
		if opt.Option == 'j' {
			jsonMode = true
		}
	}
	source := readFile("tokens", args[optind-1:])

	tokens := lexer.New(source).Tokenize()
	if jsonMode {
		printTokensJSON(os.Stdout, tokens)
	} else {
		printTokensText(os.Stdout, tokens)
	}

	for _, tok := range tokens {
		if tok.Kind == token.ILLEGAL {
			return 1
		}
	}
	return 0
}

// ---- parse command ----

func cmdParse(source string) int {
	program := parser.New(lexer.New(source)).ParseProgram()

	printJSON(os.Stdout, map[string]interface{}{
		"ast": ast.NodeToMap(program),
	})

	if len(program.Errors) > 0 {
		return 1
	}
	return 0
}

// ---- run command ----

func cmdRun(source string) int {
	if !submit(os.Stdout, os.Stderr, runtime.NewInterpreter(), source) {
		return 1
	}
	return 0
}
