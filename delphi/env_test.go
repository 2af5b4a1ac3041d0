package delphi

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEnvironmentNamesAreCaseInsensitive(t *testing.T) {
	env := NewEnvironment()
	env.DeclareVariables("X")
	env.SetVariable("x", NewText("one"))

	val, ok := env.Variable("X")
	if !ok || !val.Equal(NewText("one")) {
		t.Fatalf("expected X to resolve to x, got %#v (found=%v)", val, ok)
	}
	if diff := cmp.Diff([]string{"x"}, env.VariableNames()); diff != "" {
		t.Fatalf("variable names mismatch (-want +got):\n%s", diff)
	}
}

func TestEnvironmentFreshDeclarationIsEmptyText(t *testing.T) {
	env := NewEnvironment()
	env.DeclareVariables("a", "b")

	val, ok := env.Variable("a")
	if !ok {
		t.Fatalf("expected declared variable")
	}
	if val.Kind() != KindText || val.String() != "" {
		t.Fatalf("expected empty text, got %#v", val)
	}
	if _, ok := env.Variable("missing"); ok {
		t.Fatalf("undeclared variable should not be found")
	}
}

func TestEnvironmentContextScopesAssignment(t *testing.T) {
	env := NewEnvironment()
	env.DefineClass("TBox")
	env.CreateInstance("Box", "TBox")
	env.SetVariable("n", NewText("global"))
	env.SetField("box", "n", NewText("field"))

	env.PushContext("TBox", "Box")
	env.Assign("N", NewText("updated"))
	val, _ := env.Lookup("n")
	env.PopContext()

	if !val.Equal(NewText("updated")) {
		t.Fatalf("expected field value inside context, got %#v", val)
	}
	global, _ := env.Variable("n")
	if !global.Equal(NewText("global")) {
		t.Fatalf("global should be untouched, got %#v", global)
	}
	field, _ := env.LookupField("BOX", "n")
	if !field.Equal(NewText("updated")) {
		t.Fatalf("expected field write, got %#v", field)
	}
}

func TestEnvironmentLookupFallsBackToGlobals(t *testing.T) {
	env := NewEnvironment()
	env.DefineClass("T")
	env.CreateInstance("o", "T")
	env.SetVariable("shared", NewText("g"))

	env.PushContext("T", "o")
	defer env.PopContext()

	val, ok := env.Lookup("shared")
	if !ok || !val.Equal(NewText("g")) {
		t.Fatalf("expected global fallback, got %#v (found=%v)", val, ok)
	}
	if _, ok := env.Lookup("nowhere"); ok {
		t.Fatalf("expected miss for unknown name")
	}
}

func TestEnvironmentAssignUnderMissingObjectIsDropped(t *testing.T) {
	env := NewEnvironment()
	env.PushContext("T", "ghost")
	env.Assign("x", NewText("lost"))
	env.PopContext()

	if _, ok := env.Variable("x"); ok {
		t.Fatalf("write under a missing object must not reach the globals")
	}
}

func TestEnvironmentContextStack(t *testing.T) {
	env := NewEnvironment()
	if _, ok := env.Context(); ok {
		t.Fatalf("expected no active context")
	}

	env.PushContext("A", "outer")
	env.PushContext("B", "Inner")
	ctx, ok := env.Context()
	if !ok || ctx != (Context{Class: "b", Object: "inner"}) {
		t.Fatalf("unexpected innermost context %+v", ctx)
	}
	env.PopContext()
	ctx, _ = env.Context()
	if ctx != (Context{Class: "a", Object: "outer"}) {
		t.Fatalf("expected caller context restored, got %+v", ctx)
	}
	env.PopContext()
	env.PopContext()
	if env.ContextDepth() != 0 {
		t.Fatalf("expected empty stack, got depth %d", env.ContextDepth())
	}
}

func TestEnvironmentClassesAndMethods(t *testing.T) {
	env := NewEnvironment()
	if env.RegisterMethod("TMissing", "run", &Method{Name: "run"}) {
		t.Fatalf("registering on an undefined class should fail")
	}

	env.DefineClass("TCounter")
	if !env.RegisterMethod("tcounter", "Inc", &Method{Name: "inc"}) {
		t.Fatalf("expected registration to succeed")
	}
	env.DefineClass("TCOUNTER")
	if _, ok := env.Method("TCounter", "INC"); !ok {
		t.Fatalf("redefining a class should keep its methods")
	}
	if _, ok := env.Method("TCounter", "dec"); ok {
		t.Fatalf("unexpected method found")
	}
	if diff := cmp.Diff([]string{"tcounter"}, env.ClassNames()); diff != "" {
		t.Fatalf("class names mismatch (-want +got):\n%s", diff)
	}
}

func TestEnvironmentInstanceLifecycle(t *testing.T) {
	env := NewEnvironment()
	env.DefineClass("T")
	env.CreateInstance("O", "T")
	env.SetField("o", "f", NewText("1"))

	class, ok := env.ClassOf("o")
	if !ok || class != "t" {
		t.Fatalf("unexpected class tag %q (found=%v)", class, ok)
	}

	fields, _ := env.Fields("o")
	fields["f"] = NewText("mutated")
	if val, _ := env.LookupField("o", "f"); !val.Equal(NewText("1")) {
		t.Fatalf("Fields should return a copy, got %#v", val)
	}

	env.CreateInstance("o", "T")
	if _, ok := env.LookupField("o", "f"); ok {
		t.Fatalf("re-creating an instance should start with no fields")
	}

	env.RemoveInstance("o")
	env.RemoveInstance("o")
	if _, ok := env.Instance("o"); ok {
		t.Fatalf("instance should be removed")
	}
	if _, ok := env.ClassOf("o"); ok {
		t.Fatalf("class tag should be removed")
	}
	if env.SetField("o", "f", NewText("x")) {
		t.Fatalf("SetField on a removed instance should report false")
	}
}

func TestValueKinds(t *testing.T) {
	var zero Value
	if !zero.IsAbsent() || zero.String() != "" {
		t.Fatalf("zero value should be Absent, got %#v", zero)
	}
	if NewText("").IsAbsent() {
		t.Fatalf("empty text must not be Absent")
	}
	if NewText("").Equal(NewAbsent()) {
		t.Fatalf("empty text and Absent must differ")
	}
	if got := NewText("a\"b").GoString(); got != `"a\"b"` {
		t.Fatalf("unexpected GoString %s", got)
	}
	if got := NewAbsent().GoString(); got != "<absent>" {
		t.Fatalf("unexpected GoString %s", got)
	}
}
