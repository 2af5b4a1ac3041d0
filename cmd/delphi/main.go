package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mgomes/delphiscript/delphi"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return usageError()
	}
	switch args[1] {
	case "run":
		return runCommand(args[2:])
	case "check":
		return checkCommand(args[2:])
	case "ast":
		return astCommand(args[2:])
	case "analyze":
		return analyzeCommand(args[2:])
	case "fmt":
		return fmtCommand(args[2:])
	case "repl":
		return runREPL()
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	configPath := fs.String("config", "", "YAML file with interpreter settings")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn or error")
	stepQuota := fs.Int("step-quota", 0, "maximum number of statements to execute")
	recursionLimit := fs.Int("recursion-limit", 0, "maximum method nesting depth")
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("delphi run: program path required")
	}

	settings, err := loadSettings(*configPath)
	if err != nil {
		return err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			settings.LogLevel = *logLevel
		case "step-quota":
			settings.StepQuota = *stepQuota
		case "recursion-limit":
			settings.RecursionLimit = *recursionLimit
		}
	})
	logger, err := newLogger(settings.LogLevel)
	if err != nil {
		return err
	}

	source, err := readProgram(remaining[0])
	if err != nil {
		return err
	}
	engine, err := delphi.NewEngine(delphi.Config{
		StepQuota:      settings.StepQuota,
		RecursionLimit: settings.RecursionLimit,
		Logger:         logger,
	})
	if err != nil {
		return err
	}
	script, err := engine.Compile(source)
	if err != nil {
		return fmt.Errorf("compile failed: %w", err)
	}
	if _, err := script.Run(context.Background(), delphi.RunOptions{Stdin: os.Stdin, Stdout: os.Stdout}); err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	return nil
}

func readProgram(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve program path: %w", err)
	}
	input, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("read program: %w", err)
	}
	return string(input), nil
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [flags] [args...]\n", prog)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  run [flags] <program>    compile and execute a program")
	fmt.Fprintln(os.Stderr, "  check <paths...>         parse programs and report syntax errors")
	fmt.Fprintln(os.Stderr, "  ast <program>            print the syntax tree as YAML")
	fmt.Fprintln(os.Stderr, "  analyze <program>        report suspicious object usage")
	fmt.Fprintln(os.Stderr, "  fmt [-w] [-check] <paths...>")
	fmt.Fprintln(os.Stderr, "  repl                     start an interactive session")
	fmt.Fprintln(os.Stderr, "Run flags:")
	fmt.Fprintln(os.Stderr, "  -config file.yaml        step_quota, recursion_limit, log_level")
	fmt.Fprintln(os.Stderr, "  -log-level string        debug, info, warn or error (default \"warn\")")
	fmt.Fprintln(os.Stderr, "  -step-quota int          maximum statements executed (default 50000)")
	fmt.Fprintln(os.Stderr, "  -recursion-limit int     maximum method nesting depth (default 64)")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}
