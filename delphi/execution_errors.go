package delphi

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

type StackFrame struct {
	Function string
	Pos      Position
}

// RuntimeError aborts a run. Type names the failure class so hosts can
// tell an unknown object apart from exhausted input.
type RuntimeError struct {
	Type      string
	Message   string
	CodeFrame string
	Frames    []StackFrame
}

const (
	runtimeErrorTypeBase          = "RuntimeError"
	runtimeErrorTypeUnknownObject = "UnknownObjectError"
	runtimeErrorTypeInput         = "InputError"
	runtimeErrorTypeRecursion     = "RecursionError"
	runtimeErrorFrameHead         = 8
	runtimeErrorFrameTail         = 8
)

var errStepQuotaExceeded = errors.New("step quota exceeded")

func (re *RuntimeError) Error() string {
	var b strings.Builder
	b.WriteString(re.Message)
	if re.CodeFrame != "" {
		b.WriteString("\n")
		b.WriteString(re.CodeFrame)
	}
	renderFrame := func(frame StackFrame) {
		if frame.Pos.Line > 0 && frame.Pos.Column > 0 {
			fmt.Fprintf(&b, "\n  at %s (%d:%d)", frame.Function, frame.Pos.Line, frame.Pos.Column)
		} else if frame.Pos.Line > 0 {
			fmt.Fprintf(&b, "\n  at %s (line %d)", frame.Function, frame.Pos.Line)
		} else {
			fmt.Fprintf(&b, "\n  at %s", frame.Function)
		}
	}

	if len(re.Frames) <= runtimeErrorFrameHead+runtimeErrorFrameTail {
		for _, frame := range re.Frames {
			renderFrame(frame)
		}
		return b.String()
	}

	for _, frame := range re.Frames[:runtimeErrorFrameHead] {
		renderFrame(frame)
	}
	omitted := len(re.Frames) - (runtimeErrorFrameHead + runtimeErrorFrameTail)
	fmt.Fprintf(&b, "\n  ... %d frames omitted ...", omitted)
	for _, frame := range re.Frames[len(re.Frames)-runtimeErrorFrameTail:] {
		renderFrame(frame)
	}

	return b.String()
}

// IsUnknownObject reports whether err is the fatal error raised by a method
// call on an object that does not exist.
func IsUnknownObject(err error) bool {
	var runtimeErr *RuntimeError
	return errors.As(err, &runtimeErr) && runtimeErr.Type == runtimeErrorTypeUnknownObject
}

func isHostControlSignal(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, errStepQuotaExceeded)
}

func (exec *Execution) step() error {
	exec.steps++
	if exec.quota > 0 && exec.steps > exec.quota {
		return fmt.Errorf("%w (%d)", errStepQuotaExceeded, exec.quota)
	}
	if exec.ctx != nil {
		select {
		case <-exec.ctx.Done():
			return exec.ctx.Err()
		default:
		}
	}
	return nil
}

func (exec *Execution) errorAt(pos Position, format string, args ...any) error {
	return exec.newRuntimeErrorWithType(runtimeErrorTypeBase, fmt.Sprintf(format, args...), pos)
}

func (exec *Execution) newRuntimeErrorWithType(kind string, message string, pos Position) error {
	frames := make([]StackFrame, 0, len(exec.callStack)+1)

	if len(exec.callStack) > 0 {
		// First frame: where the error occurred (within the current method)
		current := exec.callStack[len(exec.callStack)-1]
		frames = append(frames, StackFrame{Function: current.Function, Pos: pos})

		// Remaining frames: each call site, labelled with the caller
		for i := len(exec.callStack) - 1; i >= 0; i-- {
			caller := "<program>"
			if i > 0 {
				caller = exec.callStack[i-1].Function
			}
			frames = append(frames, StackFrame{Function: caller, Pos: exec.callStack[i].Pos})
		}
	} else {
		frames = append(frames, StackFrame{Function: "<program>", Pos: pos})
	}
	return &RuntimeError{Type: kind, Message: message, CodeFrame: formatCodeFrame(exec.source, pos), Frames: frames}
}

func (exec *Execution) wrapError(err error, pos Position) error {
	if err == nil {
		return nil
	}
	if isHostControlSignal(err) {
		return err
	}
	if _, ok := err.(*RuntimeError); ok {
		return err
	}
	return exec.newRuntimeErrorWithType(runtimeErrorTypeBase, err.Error(), pos)
}
