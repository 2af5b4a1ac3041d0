package delphi

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// lineReader reads console input one line at a time.
type lineReader struct {
	r *bufio.Reader
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReader(r)}
}

// ReadLine blocks until a full line is available and strips the line
// ending. A final line without a terminator is still returned; io.EOF is
// reported only when no data is left.
func (lr *lineReader) ReadLine() (string, error) {
	line, err := lr.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return trimLineEnding(line), nil
		}
		return "", err
	}
	return trimLineEnding(line), nil
}

func trimLineEnding(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

// evalWriteStatement emits the whole statement with a single write.
func (exec *Execution) evalWriteStatement(s *WriteStmt) error {
	text, err := exec.concatTerms(s.Args)
	if err != nil {
		return err
	}
	if s.Newline {
		text += "\n"
	}
	if _, err := io.WriteString(exec.stdout, text); err != nil {
		return exec.errorAt(s.Pos(), "write failed: %v", err)
	}
	return nil
}

// evalReadStatement stores the raw line in a global variable, even while a
// method context is active.
func (exec *Execution) evalReadStatement(s *ReadStmt) error {
	line, err := exec.input.ReadLine()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return exec.newRuntimeErrorWithType(runtimeErrorTypeInput, "unexpected end of input", s.Pos())
		}
		return exec.errorAt(s.Pos(), "read failed: %v", err)
	}
	if s.Target == nil {
		return nil
	}
	exec.env.SetVariable(s.Target.Name, NewText(line))
	return nil
}
