package main

import (
	"fmt"
	"io"
	"monkey-lang/internal/config"
	"monkey-lang/internal/runtime"
	"strings"

	"github.com/chzyer/readline"
)

// ---- repl command ----

func cmdRepl(cfg *config.Config) error {
	prompt := promptColor.Sprint(cfg.Prompt)
	continuation := hintColor.Sprint(cfg.ContinuationPrompt)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            prompt,
		HistoryFile:       cfg.HistoryFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("readline init failed: %w", err)
	}
	defer rl.Close()

	if cfg.Banner {
		fmt.Fprintf(rl.Stdout(), "%s %s\n\n",
			bannerColor.Sprint("Monkey REPL"), hintColor.Sprint("(type 'exit' or Ctrl+D to quit)"))
	}

	interp := runtime.NewInterpreter()
	var pending inputBuffer

	for {
		if pending.open() {
			rl.SetPrompt(continuation)
		} else {
			rl.SetPrompt(prompt)
		}

		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if pending.open() {
					pending.reset()
					continue
				}
				hintColor.Fprintln(rl.Stdout(), "(use 'exit' or Ctrl+D to quit)")
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(rl.Stdout())
			}
			return nil
		}

		if !pending.open() && strings.TrimSpace(line) == "exit" {
			return nil
		}

		source, ready := pending.add(line)
		if !ready {
			continue
		}
		submit(rl.Stdout(), rl.Stderr(), interp, source)
	}
}

// inputBuffer accumulates REPL lines until braces balance.
type inputBuffer struct {
	text  strings.Builder
	depth int
}

func (b *inputBuffer) open() bool {
	return b.depth > 0
}

func (b *inputBuffer) reset() {
	b.text.Reset()
	b.depth = 0
}

// add appends a line. Once braces balance it returns the accumulated
// source and true, unless the source is blank.
func (b *inputBuffer) add(line string) (string, bool) {
	b.depth += strings.Count(line, "{") - strings.Count(line, "}")
	b.text.WriteString(line)
	b.text.WriteString("\n")
	if b.depth > 0 {
		return "", false
	}

	source := b.text.String()
	b.reset()
	if strings.TrimSpace(source) == "" {
		return "", false
	}
	return source, true
}
