package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/mgomes/delphiscript/delphi"
)

func astCommand(args []string) error {
	fs := flag.NewFlagSet("ast", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("delphi ast: program path required")
	}

	source, err := readProgram(remaining[0])
	if err != nil {
		return err
	}
	script, err := delphi.MustNewEngine(delphi.Config{}).Compile(source)
	if err != nil {
		return fmt.Errorf("compile failed: %w", err)
	}
	out, err := delphi.DumpAST(script.Program())
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}
