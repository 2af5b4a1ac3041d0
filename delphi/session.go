package delphi

import (
	"context"
	"log/slog"
)

// Session executes source fragments one after another against a single
// Environment, as an interactive prompt does. A failing fragment aborts
// only itself; state written before the failure is kept.
type Session struct {
	engine *Engine
	exec   *Execution
	opts   RunOptions
}

// NewSession starts a session with an empty Environment.
func (e *Engine) NewSession(opts RunOptions) *Session {
	s := &Session{engine: e, opts: opts}
	s.Reset()
	return s
}

// Reset discards all variables, classes and instances.
func (s *Session) Reset() {
	s.exec = s.engine.newExecution(context.Background(), NewEnvironment(), "", s.opts)
}

func (s *Session) Environment() *Environment {
	return s.exec.env
}

// Exec parses and runs one fragment of declarations and statements.
func (s *Session) Exec(ctx context.Context, source string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	p := newParser(source)
	block, parseErrors := p.ParseFragment()
	if len(parseErrors) > 0 {
		return combineErrors(parseErrors)
	}

	s.exec.ctx = ctx
	s.exec.source = source
	s.exec.steps = 0
	s.exec.callStack = s.exec.callStack[:0]
	err := s.exec.runBlock(block)
	if err != nil {
		s.exec.logger.DebugContext(ctx, "fragment aborted", slog.Any("error", err))
	}
	return err
}
