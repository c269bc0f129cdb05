package maincmd

import (
	"context"
	"fmt"

	"github.com/ember-lang/ember/lang/scanner"
	"github.com/ember-lang/ember/lang/token"
	"github.com/mna/mainer"
)

func (c *Cmd) Tokenize(_ context.Context, stdio mainer.Stdio, args []string) error {
	var errOut error
	for _, file := range args {
		toks, err := scanner.ScanFile(file)
		for _, tok := range toks {
			fmt.Fprintf(stdio.Stdout, "%s: %s", tok.Pos, tok.Kind)
			if tok.Kind == token.IDENT || tok.Kind == token.NUMBER || tok.Kind == token.STRING {
				fmt.Fprintf(stdio.Stdout, " %q", tok.Lexeme)
			}
			fmt.Fprintln(stdio.Stdout)
		}
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			errOut = err
		}
	}
	return errOut
}
