package maincmd

import (
	"context"
	"fmt"

	"github.com/ember-lang/ember/lang/ast"
	"github.com/ember-lang/ember/lang/parser"
	"github.com/ember-lang/ember/lang/resolver"
	"github.com/mna/mainer"
)

func (c *Cmd) Resolve(_ context.Context, stdio mainer.Stdio, args []string) error {
	var errOut error
	for _, file := range args {
		prog, err := parser.ParseFile(file)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			errOut = err
			continue
		}
		if err := resolver.Resolve(prog); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			errOut = err
			continue
		}
		ast.Print(stdio.Stdout, prog)
	}
	return errOut
}
