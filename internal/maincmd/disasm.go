package maincmd

import (
	"context"
	"fmt"

	"github.com/ember-lang/ember/lang/compiler"
	"github.com/ember-lang/ember/lang/parser"
	"github.com/ember-lang/ember/lang/resolver"
	"github.com/mna/mainer"
)

func (c *Cmd) Disasm(_ context.Context, stdio mainer.Stdio, args []string) error {
	var errOut error
	for _, file := range args {
		fn, err := compileFile(file)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			errOut = err
			continue
		}
		compiler.Disassemble(stdio.Stdout, fn)
	}
	return errOut
}

func compileFile(file string) (*compiler.Function, error) {
	prog, err := parser.ParseFile(file)
	if err != nil {
		return nil, err
	}
	if err := resolver.Resolve(prog); err != nil {
		return nil, err
	}
	return compiler.Compile(prog)
}
