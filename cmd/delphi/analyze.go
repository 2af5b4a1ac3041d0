package main

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mgomes/delphiscript/delphi"
)

type lintWarning struct {
	Function string
	Pos      delphi.Position
	Message  string
}

func analyzeCommand(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("delphi analyze: program path required")
	}

	programPath, err := filepath.Abs(remaining[0])
	if err != nil {
		return fmt.Errorf("resolve program path: %w", err)
	}
	source, err := readProgram(programPath)
	if err != nil {
		return err
	}

	script, err := delphi.MustNewEngine(delphi.Config{}).Compile(source)
	if err != nil {
		return fmt.Errorf("analysis compile failed: %w", err)
	}

	warnings := analyzeProgramWarnings(script.Program())
	if len(warnings) == 0 {
		fmt.Println("No issues found")
		return nil
	}

	for _, warning := range warnings {
		line := max(warning.Pos.Line, 1)
		column := max(warning.Pos.Column, 1)
		fmt.Printf("%s:%d:%d: %s (%s)\n", programPath, line, column, warning.Message, warning.Function)
	}

	return fmt.Errorf("analysis found %d issue(s)", len(warnings))
}

// programFacts collects what the declarations and statements establish,
// keyed by lowercase name.
type programFacts struct {
	globals  map[string]struct{}
	classes  map[string]*delphi.ClassDecl
	methods  map[string]map[string]struct{}
	objects  map[string]map[string]struct{}
	warnings []lintWarning
}

func analyzeProgramWarnings(program *delphi.Program) []lintWarning {
	facts := &programFacts{
		globals: make(map[string]struct{}),
		classes: make(map[string]*delphi.ClassDecl),
		methods: make(map[string]map[string]struct{}),
		objects: make(map[string]map[string]struct{}),
	}
	if program.Block == nil {
		return nil
	}

	var impls []*delphi.MethodImpl
	for _, decl := range program.Block.Declarations {
		switch d := decl.(type) {
		case *delphi.VarSection:
			for _, name := range d.Names() {
				facts.globals[strings.ToLower(name)] = struct{}{}
			}
		case *delphi.ClassDecl:
			facts.classes[strings.ToLower(d.Name)] = d
		case *delphi.MethodImpl:
			impls = append(impls, d)
		}
	}

	for _, impl := range impls {
		facts.registerImpl(impl)
	}
	facts.collectCreations(program.Block.Statements)
	for _, impl := range impls {
		facts.collectCreations(impl.Body)
	}

	facts.lintStatements("<main>", program.Block.Statements, true)
	for _, impl := range impls {
		facts.lintStatements(impl.ClassName+"."+impl.Name, impl.Body, false)
	}

	warnings := facts.warnings
	sort.SliceStable(warnings, func(i, j int) bool {
		if warnings[i].Pos.Line != warnings[j].Pos.Line {
			return warnings[i].Pos.Line < warnings[j].Pos.Line
		}
		if warnings[i].Pos.Column != warnings[j].Pos.Column {
			return warnings[i].Pos.Column < warnings[j].Pos.Column
		}
		return warnings[i].Function < warnings[j].Function
	})
	return warnings
}

func (f *programFacts) warn(function string, pos delphi.Position, format string, args ...any) {
	f.warnings = append(f.warnings, lintWarning{Function: function, Pos: pos, Message: fmt.Sprintf(format, args...)})
}

func (f *programFacts) registerImpl(impl *delphi.MethodImpl) {
	function := impl.ClassName + "." + impl.Name
	class := strings.ToLower(impl.ClassName)
	decl, ok := f.classes[class]
	if !ok {
		f.warn(function, impl.Pos(), "implementation for undeclared class %s is ignored", impl.ClassName)
		return
	}

	name := strings.ToLower(impl.Name)
	switch impl.Kind {
	case delphi.MethodConstructor:
		name = "create"
	case delphi.MethodDestructor:
		name = "destroy"
	}
	if f.methods[class] == nil {
		f.methods[class] = make(map[string]struct{})
	}
	f.methods[class][name] = struct{}{}

	for _, header := range decl.Methods {
		if strings.EqualFold(header.Name, impl.Name) {
			return
		}
	}
	f.warn(function, impl.Pos(), "%s %s is not declared in class %s", impl.Kind, impl.Name, decl.Name)
}

func (f *programFacts) collectCreations(statements []delphi.Statement) {
	for _, stmt := range statements {
		switch s := stmt.(type) {
		case *delphi.CreateStmt:
			object := strings.ToLower(s.Object)
			if f.objects[object] == nil {
				f.objects[object] = make(map[string]struct{})
			}
			f.objects[object][strings.ToLower(s.ClassName)] = struct{}{}
		case *delphi.CompoundStmt:
			f.collectCreations(s.Body)
		}
	}
}

func (f *programFacts) lintStatements(function string, statements []delphi.Statement, topLevel bool) {
	for _, stmt := range statements {
		switch s := stmt.(type) {
		case *delphi.AssignStmt:
			if topLevel && s.Target.Object == "" {
				if _, ok := f.globals[strings.ToLower(s.Target.Name)]; !ok {
					f.warn(function, s.Pos(), "assignment to undeclared variable %s", s.Target.Name)
				}
			}
			f.lintTerms(function, s.Value.Terms)
		case *delphi.WriteStmt:
			f.lintTerms(function, s.Args)
		case *delphi.ReadStmt:
			if s.Target != nil {
				if _, ok := f.globals[strings.ToLower(s.Target.Name)]; !ok {
					f.warn(function, s.Pos(), "read into undeclared variable %s", s.Target.Name)
				}
			}
		case *delphi.CreateStmt:
			if _, ok := f.classes[strings.ToLower(s.ClassName)]; !ok {
				f.warn(function, s.Pos(), "object %s is created from undeclared class %s", s.Object, s.ClassName)
			}
			for _, arg := range s.Args {
				f.lintTerms(function, arg.Terms)
			}
		case *delphi.DestroyStmt:
			if _, ok := f.objects[strings.ToLower(s.Object)]; !ok {
				f.warn(function, s.Pos(), "object %s is destroyed but never created", s.Object)
			}
		case *delphi.CallStmt:
			f.lintCall(function, s.Call)
		case *delphi.CompoundStmt:
			f.lintStatements(function, s.Body, topLevel)
		}
	}
}

func (f *programFacts) lintTerms(function string, terms []delphi.Term) {
	for _, term := range terms {
		if call, ok := term.(*delphi.CallExpr); ok {
			f.lintCall(function, call)
		}
	}
}

func (f *programFacts) lintCall(function string, call *delphi.CallExpr) {
	for _, arg := range call.Args {
		f.lintTerms(function, arg.Terms)
	}
	classes, ok := f.objects[strings.ToLower(call.Object)]
	if !ok {
		f.warn(function, call.Pos(), "method %s called on object %s, which is never created", call.Method, call.Object)
		return
	}
	method := strings.ToLower(call.Method)
	for class := range classes {
		if _, ok := f.methods[class][method]; ok {
			return
		}
	}
	f.warn(function, call.Pos(), "no class of object %s implements %s; the call yields nothing", call.Object, call.Method)
}
