package delphi

import (
	"context"
	"io"
	"log/slog"
)

type Execution struct {
	ctx          context.Context
	env          *Environment
	source       string
	input        *lineReader
	stdout       io.Writer
	logger       *slog.Logger
	quota        int
	recursionCap int
	steps        int
	callStack    []callFrame
}

type callFrame struct {
	Function string
	Pos      Position
}

// Environment exposes the state the execution mutates.
func (exec *Execution) Environment() *Environment {
	return exec.env
}

func (exec *Execution) runBlock(block *Block) error {
	if block == nil {
		return nil
	}
	for _, decl := range block.Declarations {
		exec.declare(decl)
	}
	return exec.evalStatements(block.Statements)
}

func (exec *Execution) declare(decl Declaration) {
	switch d := decl.(type) {
	case *VarSection:
		exec.env.DeclareVariables(d.Names()...)
	case *ClassDecl:
		exec.env.DefineClass(d.Name)
		exec.logger.DebugContext(exec.ctx, "class defined", slog.String("class", canonical(d.Name)))
	case *MethodImpl:
		fn := newMethod(d)
		if !exec.env.RegisterMethod(d.ClassName, fn.Name, fn) {
			exec.logger.WarnContext(exec.ctx, "implementation for undeclared class ignored",
				slog.String("class", canonical(d.ClassName)),
				slog.String("method", fn.Name),
				slog.Int("line", d.Pos().Line))
			return
		}
		exec.logger.DebugContext(exec.ctx, "method registered",
			slog.String("class", canonical(d.ClassName)),
			slog.String("method", fn.Name))
	}
}

func (exec *Execution) evalStatements(stmts []Statement) error {
	for _, stmt := range stmts {
		if err := exec.step(); err != nil {
			return exec.wrapError(err, stmt.Pos())
		}
		if err := exec.evalStatement(stmt); err != nil {
			return exec.wrapError(err, stmt.Pos())
		}
	}
	return nil
}

func (exec *Execution) evalStatement(stmt Statement) error {
	switch s := stmt.(type) {
	case *AssignStmt:
		val, err := exec.evalExpression(s.Value)
		if err != nil {
			return err
		}
		exec.assign(s.Target, val)
		return nil
	case *WriteStmt:
		return exec.evalWriteStatement(s)
	case *ReadStmt:
		return exec.evalReadStatement(s)
	case *CreateStmt:
		return exec.createObject(s)
	case *DestroyStmt:
		return exec.destroyObject(s)
	case *CallStmt:
		_, err := exec.callMethod(s.Call)
		return err
	case *CompoundStmt:
		return exec.evalStatements(s.Body)
	default:
		return exec.errorAt(stmt.Pos(), "unsupported statement %T", stmt)
	}
}

func (exec *Execution) assign(target *VarRef, val Value) {
	if target.Object == "" {
		exec.env.Assign(target.Name, val)
		return
	}
	if !exec.env.SetField(target.Object, target.Name, val) {
		exec.logger.DebugContext(exec.ctx, "field write on missing object dropped",
			slog.String("object", canonical(target.Object)),
			slog.String("field", canonical(target.Name)))
	}
}
