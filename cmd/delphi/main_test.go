package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const counterProgram = `program CounterDemo;
type
  TCounter = class
    constructor Create(start: string);
    function Inc: string;
  end;
var
  c: TCounter;

constructor TCounter.Create(start: string);
begin
end;

function TCounter.Inc: string;
begin
  result := start + '1';
end;

begin
  c := TCounter.Create(5);
  writeln(c.Inc());
end.
`

func TestRunCLIHelp(t *testing.T) {
	if err := runCLI([]string{"delphi", "help"}); err != nil {
		t.Fatalf("runCLI help failed: %v", err)
	}
}

func TestRunCLIInvalidCommand(t *testing.T) {
	err := runCLI([]string{"delphi", "unknown"})
	if err == nil {
		t.Fatalf("expected invalid command error")
	}
	if !strings.Contains(err.Error(), "invalid command") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunCLIWithoutCommand(t *testing.T) {
	err := runCLI([]string{"delphi"})
	if err == nil || !strings.Contains(err.Error(), "invalid command") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunCommandExecutesProgram(t *testing.T) {
	path := writeProgram(t, counterProgram)

	out, err := captureStdout(t, func() error {
		return runCommand([]string{path})
	})
	if err != nil {
		t.Fatalf("runCommand failed: %v", err)
	}
	if out != "51\n" {
		t.Fatalf("unexpected stdout: %q", out)
	}
}

func TestRunCommandRequiresProgramPath(t *testing.T) {
	err := runCommand(nil)
	if err == nil || !strings.Contains(err.Error(), "program path required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunCommandReportsCompileErrors(t *testing.T) {
	path := writeProgram(t, "begin x := end.")
	err := runCommand([]string{path})
	if err == nil || !strings.Contains(err.Error(), "compile failed") {
		t.Fatalf("expected compile failure, got %v", err)
	}
}

func TestRunCommandReportsUnknownObject(t *testing.T) {
	path := writeProgram(t, "begin ghost.Run end.")
	_, err := captureStdout(t, func() error {
		return runCommand([]string{path})
	})
	if err == nil || !strings.Contains(err.Error(), "execution failed: object 'ghost' does not exist") {
		t.Fatalf("expected execution failure, got %v", err)
	}
}

func TestRunCommandAppliesConfigFile(t *testing.T) {
	program := writeProgram(t, "begin writeln('1'); writeln('2'); writeln('3') end.")
	config := writeFile(t, "delphi.yaml", "step_quota: 2\nlog_level: error\n")

	_, err := captureStdout(t, func() error {
		return runCommand([]string{"-config", config, program})
	})
	if err == nil || !strings.Contains(err.Error(), "step quota exceeded") {
		t.Fatalf("expected step quota error, got %v", err)
	}

	out, err := captureStdout(t, func() error {
		return runCommand([]string{"-config", config, "-step-quota", "10", program})
	})
	if err != nil {
		t.Fatalf("flag should override config: %v", err)
	}
	if out != "1\n2\n3\n" {
		t.Fatalf("unexpected stdout: %q", out)
	}
}

func TestLoadSettings(t *testing.T) {
	cfg, err := loadSettings(writeFile(t, "full.yaml", "step_quota: 7\nrecursion_limit: 9\nlog_level: debug\n"))
	if err != nil {
		t.Fatalf("loadSettings failed: %v", err)
	}
	if cfg != (settings{StepQuota: 7, RecursionLimit: 9, LogLevel: "debug"}) {
		t.Fatalf("unexpected settings %+v", cfg)
	}

	if cfg, err := loadSettings(writeFile(t, "empty.yaml", "")); err != nil || cfg != (settings{}) {
		t.Fatalf("empty config should yield zero settings, got %+v, %v", cfg, err)
	}
	if cfg, err := loadSettings(""); err != nil || cfg != (settings{}) {
		t.Fatalf("no config path should yield zero settings, got %+v, %v", cfg, err)
	}

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "unknown field", content: "steps: 3\n", want: "field steps not found"},
		{name: "negative quota", content: "step_quota: -1\n", want: "step_quota must be non-negative"},
		{name: "negative recursion", content: "recursion_limit: -2\n", want: "recursion_limit must be non-negative"},
		{name: "bad level", content: "log_level: loud\n", want: "unknown log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadSettings(writeFile(t, "bad.yaml", tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelWarn,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for name, want := range tests {
		got, err := parseLogLevel(name)
		if err != nil || got != want {
			t.Fatalf("parseLogLevel(%q) = %v, %v; want %v", name, got, err, want)
		}
	}
}

func TestCheckCommandReportsFailures(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.pas")
	bad := filepath.Join(dir, "bad.pas")
	if err := os.WriteFile(good, []byte(counterProgram), 0o644); err != nil {
		t.Fatalf("write good: %v", err)
	}
	if err := os.WriteFile(bad, []byte("begin x := end."), 0o644); err != nil {
		t.Fatalf("write bad: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatalf("write notes: %v", err)
	}

	out, err := captureStdout(t, func() error {
		return checkCommand([]string{"-j", "2", dir})
	})
	if err == nil || !strings.Contains(err.Error(), "1 of 2 file(s) failed") {
		t.Fatalf("unexpected check error: %v", err)
	}
	if !strings.Contains(out, "bad.pas: parse error") {
		t.Fatalf("expected failing file in output, got %q", out)
	}
	if strings.Contains(out, "good.pas") {
		t.Fatalf("passing file should not be reported, got %q", out)
	}
}

func TestCheckCommandAllValid(t *testing.T) {
	path := writeProgram(t, counterProgram)
	out, err := captureStdout(t, func() error {
		return checkCommand([]string{path})
	})
	if err != nil {
		t.Fatalf("checkCommand failed: %v", err)
	}
	if out != "1 file(s) ok\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestASTCommandPrintsYAML(t *testing.T) {
	path := writeProgram(t, counterProgram)
	out, err := captureStdout(t, func() error {
		return astCommand([]string{path})
	})
	if err != nil {
		t.Fatalf("astCommand failed: %v", err)
	}
	for _, want := range []string{"node: Program", "name: CounterDemo", "node: ObjectCreation", "node: FunctionCall"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestAnalyzeCommandNoIssues(t *testing.T) {
	path := writeProgram(t, counterProgram)
	out, err := captureStdout(t, func() error {
		return analyzeCommand([]string{path})
	})
	if err != nil {
		t.Fatalf("analyzeCommand failed: %v", err)
	}
	if !strings.Contains(out, "No issues found") {
		t.Fatalf("unexpected analyze output: %q", out)
	}
}

func TestAnalyzeCommandReportsIssues(t *testing.T) {
	path := writeProgram(t, `type
  T = class
    procedure Run;
  end;
var
  x: string;

procedure T.Run;
begin
end;

procedure T.Extra;
begin
end;

begin
  x := 'ok';
  y := 'undeclared';
  o := T.Create;
  o.Run;
  o.Missing;
  ghost.Run;
  p := TNope.Create;
  q.Free;
end.`)

	out, err := captureStdout(t, func() error {
		return analyzeCommand([]string{path})
	})
	if err == nil || !strings.Contains(err.Error(), "analysis found 6 issue(s)") {
		t.Fatalf("unexpected analyze error: %v\n%s", err, out)
	}
	for _, want := range []string{
		":12:1: procedure Extra is not declared in class T (T.Extra)",
		":18:3: assignment to undeclared variable y (<main>)",
		":21:3: no class of object o implements Missing",
		":22:3: method Run called on object ghost, which is never created",
		":23:3: object p is created from undeclared class TNope",
		":24:3: object q is destroyed but never created",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestFmtCommandCheckAndWrite(t *testing.T) {
	path := writeProgram(t, "begin\r\n\twriteln('x');   \r\nend.\n\n\n")

	_, err := captureStdout(t, func() error {
		return fmtCommand([]string{"-check", path})
	})
	if err == nil || !strings.Contains(err.Error(), "1 file(s) need formatting") {
		t.Fatalf("expected check failure, got %v", err)
	}

	if _, err := captureStdout(t, func() error {
		return fmtCommand([]string{"-w", path})
	}); err != nil {
		t.Fatalf("fmt -w failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read formatted: %v", err)
	}
	if string(data) != "begin\n  writeln('x');\nend.\n" {
		t.Fatalf("unexpected formatted source %q", string(data))
	}

	if _, err := captureStdout(t, func() error {
		return fmtCommand([]string{"-check", path})
	}); err != nil {
		t.Fatalf("formatted file should pass check: %v", err)
	}
}

func TestFormatSourceReindentsBlocks(t *testing.T) {
	got := formatSource("begin\n    x := 'a  '; \n\n\tend.")
	want := "begin\n  x := 'a  ';\n\nend.\n"
	if got != want {
		t.Fatalf("formatSource = %q, want %q", got, want)
	}
}

func TestFormatSourceReindentsDeclarations(t *testing.T) {
	source := `program P;
type
TBox = class
      private
  n: string;
public
        procedure Run; override;
    end;
  var
      b: TBox;
{ kept
     where it was }
    procedure TBox.Run;
      var
  s: string;
    begin
// as written
s := 'begin end (* x *)';
      if := 'a'; begin
  n := s
 end;
    end;

      begin
b := TBox.Create; b.Run;
  end.`
	want := `program P;
type
  TBox = class
  private
    n: string;
  public
    procedure Run; override;
  end;
var
  b: TBox;
{ kept
     where it was }
procedure TBox.Run;
var
  s: string;
begin
// as written
  s := 'begin end (* x *)';
  if := 'a'; begin
    n := s
  end;
end;

begin
  b := TBox.Create; b.Run;
end.
`
	if diff := cmp.Diff(want, formatSource(source)); diff != "" {
		t.Fatalf("formatSource mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatSourceIsStableOnExamples(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "delphi", "testdata", "*.pas"))
	if err != nil || len(paths) == 0 {
		t.Fatalf("expected example programs, got %v (%v)", paths, err)
	}
	sources := map[string]string{"counter": counterProgram}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		sources[filepath.Base(path)] = string(data)
	}
	for name, source := range sources {
		if got := formatSource(source); got != source {
			t.Fatalf("%s changed under formatting:\n%s", name, cmp.Diff(source, got))
		}
	}
}

func writeProgram(t *testing.T, source string) string {
	t.Helper()
	return writeFile(t, "program.pas", source)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	runErr := fn()
	_ = w.Close()
	os.Stdout = orig

	var buf bytes.Buffer
	if _, copyErr := io.Copy(&buf, r); copyErr != nil {
		t.Fatalf("read stdout: %v", copyErr)
	}
	_ = r.Close()
	return buf.String(), runErr
}
