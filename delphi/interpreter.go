package delphi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Config controls interpreter execution bounds and logging.
type Config struct {
	StepQuota      int
	RecursionLimit int
	Logger         *slog.Logger
}

// Engine compiles and runs programs. It holds no per-run state and may be
// shared between goroutines.
type Engine struct {
	config Config
}

// Script is a compiled program ready to run any number of times.
type Script struct {
	engine  *Engine
	program *Program
	source  string
}

// RunOptions supplies the console for one run. Nil fields fall back to the
// process stdin and stdout.
type RunOptions struct {
	Stdin  io.Reader
	Stdout io.Writer
}

// NewEngine constructs an Engine with sane defaults.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.StepQuota < 0 {
		return nil, fmt.Errorf("step quota must be non-negative, got %d", cfg.StepQuota)
	}
	if cfg.RecursionLimit < 0 {
		return nil, fmt.Errorf("recursion limit must be non-negative, got %d", cfg.RecursionLimit)
	}
	if cfg.StepQuota == 0 {
		cfg.StepQuota = 50000
	}
	if cfg.RecursionLimit == 0 {
		cfg.RecursionLimit = 64
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{config: cfg}, nil
}

// MustNewEngine is NewEngine for configurations known to be valid.
func MustNewEngine(cfg Config) *Engine {
	engine, err := NewEngine(cfg)
	if err != nil {
		panic(err)
	}
	return engine
}

func (e *Engine) Config() Config {
	return e.config
}

// Compile parses a complete program.
func (e *Engine) Compile(source string) (*Script, error) {
	p := newParser(source)
	program, parseErrors := p.ParseProgram()
	if len(parseErrors) > 0 {
		return nil, combineErrors(parseErrors)
	}
	return &Script{engine: e, program: program, source: source}, nil
}

func combineErrors(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}
	msg := ""
	for _, err := range errs {
		if msg != "" {
			msg += "\n\n"
		}
		msg += err.Error()
	}
	return errors.New(msg)
}

func (s *Script) Program() *Program {
	return s.program
}

func (s *Script) Source() string {
	return s.source
}

// Run executes the program against a fresh Environment and returns that
// Environment for inspection. The Environment is returned even when the run
// aborts.
func (s *Script) Run(ctx context.Context, opts RunOptions) (*Environment, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	exec := s.engine.newExecution(ctx, NewEnvironment(), s.source, opts)
	exec.logger.DebugContext(ctx, "program started", slog.String("program", s.program.Name))
	err := exec.runBlock(s.program.Block)
	if err != nil {
		exec.logger.DebugContext(ctx, "program aborted", slog.String("program", s.program.Name), slog.Any("error", err))
		return exec.env, err
	}
	exec.logger.DebugContext(ctx, "program finished", slog.String("program", s.program.Name), slog.Int("steps", exec.steps))
	return exec.env, nil
}

func (e *Engine) newExecution(ctx context.Context, env *Environment, source string, opts RunOptions) *Execution {
	stdin := opts.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	return &Execution{
		ctx:          ctx,
		env:          env,
		source:       source,
		input:        newLineReader(stdin),
		stdout:       stdout,
		logger:       e.config.Logger,
		quota:        e.config.StepQuota,
		recursionCap: e.config.RecursionLimit,
	}
}
