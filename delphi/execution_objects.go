package delphi

import (
	"fmt"
	"log/slog"
)

// createObject runs `obj := Class.Create(args)`. The new object's context
// is active while the actuals are evaluated and the constructor runs.
func (exec *Execution) createObject(s *CreateStmt) error {
	exec.env.PushContext(s.ClassName, s.Object)
	defer exec.env.PopContext()

	args, err := exec.evalArgs(s.Args)
	if err != nil {
		return err
	}

	inst := exec.env.CreateInstance(s.Object, s.ClassName)
	exec.logger.DebugContext(exec.ctx, "instance created",
		slog.String("object", inst.Name),
		slog.String("class", inst.Class),
		slog.Int("args", len(args)))

	fn, ok := exec.env.Method(inst.Class, constructorMethod)
	if !ok {
		return nil
	}
	return exec.runMethodBody(inst.Class, inst.Name, fn, args, s.Pos())
}

// destroyObject runs the destructor, if any, and then removes the instance
// whether or not it existed.
func (exec *Execution) destroyObject(s *DestroyStmt) error {
	class, hasClass := exec.env.ClassOf(s.Object)
	exec.env.PushContext(class, s.Object)
	defer exec.env.PopContext()

	var err error
	if hasClass {
		if fn, ok := exec.env.Method(class, destructorMethod); ok {
			err = exec.runMethodBody(class, s.Object, fn, nil, s.Pos())
		}
	}
	exec.env.RemoveInstance(s.Object)
	exec.logger.DebugContext(exec.ctx, "instance destroyed",
		slog.String("object", canonical(s.Object)),
		slog.Bool("existed", hasClass))
	return err
}

// callMethod invokes object.method(args) and returns the object's result
// field. Calling a method on an object that does not exist aborts the run;
// calling a method the class does not implement yields Absent.
func (exec *Execution) callMethod(call *CallExpr) (Value, error) {
	inst, ok := exec.env.Instance(call.Object)
	if !ok {
		return NewAbsent(), exec.newRuntimeErrorWithType(runtimeErrorTypeUnknownObject,
			fmt.Sprintf("object '%s' does not exist", canonical(call.Object)), call.Pos())
	}

	fn, ok := exec.env.Method(inst.Class, call.Method)
	if !ok {
		exec.logger.DebugContext(exec.ctx, "method not found",
			slog.String("class", inst.Class),
			slog.String("method", canonical(call.Method)))
		return NewAbsent(), nil
	}

	args, err := exec.evalArgs(call.Args)
	if err != nil {
		return NewAbsent(), err
	}

	if err := exec.invokeMethod(inst.Class, inst.Name, fn, args, call.Pos()); err != nil {
		return NewAbsent(), err
	}

	result, ok := exec.env.LookupField(inst.Name, resultField)
	if !ok {
		return NewAbsent(), nil
	}
	return result, nil
}

func (exec *Execution) invokeMethod(class, object string, fn *Method, args []Value, pos Position) error {
	exec.env.PushContext(class, object)
	defer exec.env.PopContext()

	exec.logger.DebugContext(exec.ctx, "method invoked",
		slog.String("object", object),
		slog.String("class", class),
		slog.String("method", fn.Name))
	return exec.runMethodBody(class, object, fn, args, pos)
}

// runMethodBody binds the first min(formals, actuals) parameters as fields
// of object and executes the body under the context the caller pushed.
func (exec *Execution) runMethodBody(class, object string, fn *Method, args []Value, pos Position) error {
	if err := exec.pushFrame(class+"."+fn.Name, pos); err != nil {
		return err
	}
	defer exec.popFrame()

	bound := min(len(fn.Params), len(args))
	for i := 0; i < bound; i++ {
		exec.env.SetField(object, fn.Params[i], args[i])
	}
	return exec.evalStatements(fn.Body)
}

func (exec *Execution) evalArgs(exprs []*Expr) ([]Value, error) {
	args := make([]Value, 0, len(exprs))
	for _, expr := range exprs {
		val, err := exec.evalExpression(expr)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}
	return args, nil
}
