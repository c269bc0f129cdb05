package maincmd

import (
	"context"
	"fmt"

	"github.com/ember-lang/ember/lang/machine"
	"github.com/mna/mainer"
)

func (c *Cmd) Run(_ context.Context, stdio mainer.Stdio, args []string) error {
	cfg, err := machine.LoadConfig()
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	var errOut error
	for _, file := range args {
		fn, err := compileFile(file)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			errOut = err
			continue
		}
		thread := machine.NewThread(cfg, stdio.Stdout)
		if err := thread.Run(fn); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			errOut = err
		}
	}
	return errOut
}
