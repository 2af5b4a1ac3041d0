package delphi

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSessionKeepsStateAcrossFragments(t *testing.T) {
	var out bytes.Buffer
	session := MustNewEngine(Config{}).NewSession(RunOptions{Stdin: strings.NewReader("typed\n"), Stdout: &out})
	ctx := context.Background()

	fragments := []string{
		"var greeting: string;",
		"type T = class function Shout: string; end;",
		"function T.Shout: string; begin result := greeting + '!' end;",
		"greeting := 'hey'",
		"o := T.Create; writeln(o.Shout())",
		"readln(line); writeln(line)",
	}
	for _, fragment := range fragments {
		if err := session.Exec(ctx, fragment); err != nil {
			t.Fatalf("exec %q failed: %v", fragment, err)
		}
	}

	if out.String() != "hey!\ntyped\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
	env := session.Environment()
	if diff := cmp.Diff([]string{"greeting", "line"}, env.VariableNames()); diff != "" {
		t.Fatalf("variables mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"o"}, env.InstanceNames()); diff != "" {
		t.Fatalf("instances mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionFailedFragmentKeepsEarlierWrites(t *testing.T) {
	session := MustNewEngine(Config{}).NewSession(RunOptions{Stdin: strings.NewReader(""), Stdout: &bytes.Buffer{}})
	ctx := context.Background()

	err := session.Exec(ctx, "kept := 'yes'; ghost.Run; lost := 'no'")
	if !IsUnknownObject(err) {
		t.Fatalf("expected unknown object error, got %v", err)
	}
	env := session.Environment()
	if val, _ := env.Variable("kept"); !val.Equal(NewText("yes")) {
		t.Fatalf("expected earlier write to survive, got %#v", val)
	}
	if _, ok := env.Variable("lost"); ok {
		t.Fatalf("statements after the failure must not run")
	}

	if err := session.Exec(ctx, "after := 'still works'"); err != nil {
		t.Fatalf("session should accept further fragments: %v", err)
	}
}

func TestSessionParseErrorChangesNothing(t *testing.T) {
	session := MustNewEngine(Config{}).NewSession(RunOptions{Stdin: strings.NewReader(""), Stdout: &bytes.Buffer{}})
	err := session.Exec(context.Background(), "x := 'a'; y :=")
	if err == nil || !strings.Contains(err.Error(), "parse error") {
		t.Fatalf("expected parse error, got %v", err)
	}
	if names := session.Environment().VariableNames(); len(names) != 0 {
		t.Fatalf("expected no variables, got %v", names)
	}
}

func TestSessionReset(t *testing.T) {
	session := MustNewEngine(Config{}).NewSession(RunOptions{Stdin: strings.NewReader(""), Stdout: &bytes.Buffer{}})
	if err := session.Exec(context.Background(), "x := 'a'; o := T.Create"); err != nil {
		t.Fatalf("exec failed: %v", err)
	}
	session.Reset()
	env := session.Environment()
	if len(env.VariableNames()) != 0 || len(env.InstanceNames()) != 0 {
		t.Fatalf("expected empty environment after reset")
	}
}

func TestSessionStepQuotaAppliesPerFragment(t *testing.T) {
	session := MustNewEngine(Config{StepQuota: 2}).NewSession(RunOptions{Stdin: strings.NewReader(""), Stdout: &bytes.Buffer{}})
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := session.Exec(ctx, "a := '1'; b := '2'"); err != nil {
			t.Fatalf("fragment %d failed: %v", i, err)
		}
	}
	if err := session.Exec(ctx, "a := '1'; b := '2'; c := '3'"); err == nil {
		t.Fatalf("expected quota error for a long fragment")
	}
}
