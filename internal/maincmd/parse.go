package maincmd

import (
	"context"
	"fmt"

	"github.com/ember-lang/ember/lang/ast"
	"github.com/ember-lang/ember/lang/parser"
	"github.com/mna/mainer"
)

func (c *Cmd) Parse(_ context.Context, stdio mainer.Stdio, args []string) error {
	var errOut error
	for _, file := range args {
		prog, err := parser.ParseFile(file)
		if prog != nil {
			ast.Print(stdio.Stdout, prog)
		}
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			errOut = err
		}
	}
	return errOut
}
