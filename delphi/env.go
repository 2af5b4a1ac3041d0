package delphi

import (
	"maps"
	"slices"
	"strings"
)

// Environment owns the state of one program run: global variables, class
// definitions, live instances and the execution-context stack. Every name is
// canonicalised before it is looked up or stored.
type Environment struct {
	globals   map[string]Value
	classes   map[string]*ClassDef
	instances map[string]*Instance
	contexts  []Context
}

func NewEnvironment() *Environment {
	return &Environment{
		globals:   make(map[string]Value),
		classes:   make(map[string]*ClassDef),
		instances: make(map[string]*Instance),
	}
}

func canonical(name string) string {
	return strings.ToLower(name)
}

// DeclareVariables initialises each name to empty text.
func (e *Environment) DeclareVariables(names ...string) {
	for _, name := range names {
		e.globals[canonical(name)] = NewText("")
	}
}

func (e *Environment) Variable(name string) (Value, bool) {
	val, ok := e.globals[canonical(name)]
	return val, ok
}

func (e *Environment) SetVariable(name string, val Value) {
	e.globals[canonical(name)] = val
}

// DefineClass registers an empty class. Redefining a class keeps the
// methods already registered for it.
func (e *Environment) DefineClass(name string) *ClassDef {
	key := canonical(name)
	if def, ok := e.classes[key]; ok {
		return def
	}
	def := &ClassDef{Name: key, Methods: make(map[string]*Method)}
	e.classes[key] = def
	return def
}

func (e *Environment) Class(name string) (*ClassDef, bool) {
	def, ok := e.classes[canonical(name)]
	return def, ok
}

// RegisterMethod stores fn under class.name. It reports false, and stores
// nothing, when the class has not been defined.
func (e *Environment) RegisterMethod(class, name string, fn *Method) bool {
	def, ok := e.classes[canonical(class)]
	if !ok {
		return false
	}
	def.Methods[canonical(name)] = fn
	return true
}

func (e *Environment) Method(class, name string) (*Method, bool) {
	def, ok := e.classes[canonical(class)]
	if !ok {
		return nil, false
	}
	fn, ok := def.Methods[canonical(name)]
	return fn, ok
}

// CreateInstance registers a fresh instance with no fields, replacing any
// previous instance of the same name.
func (e *Environment) CreateInstance(name, class string) *Instance {
	inst := &Instance{Name: canonical(name), Class: canonical(class), Fields: make(map[string]Value)}
	e.instances[inst.Name] = inst
	return inst
}

// RemoveInstance drops the instance and its class tag. Removing a missing
// instance is a no-op.
func (e *Environment) RemoveInstance(name string) {
	delete(e.instances, canonical(name))
}

func (e *Environment) Instance(name string) (*Instance, bool) {
	inst, ok := e.instances[canonical(name)]
	return inst, ok
}

// ClassOf returns the class tag of a live instance.
func (e *Environment) ClassOf(name string) (string, bool) {
	inst, ok := e.instances[canonical(name)]
	if !ok {
		return "", false
	}
	return inst.Class, true
}

func (e *Environment) PushContext(class, object string) {
	e.contexts = append(e.contexts, Context{Class: canonical(class), Object: canonical(object)})
}

func (e *Environment) PopContext() {
	if len(e.contexts) == 0 {
		return
	}
	e.contexts = e.contexts[:len(e.contexts)-1]
}

// Context returns the innermost active context.
func (e *Environment) Context() (Context, bool) {
	if len(e.contexts) == 0 {
		return Context{}, false
	}
	return e.contexts[len(e.contexts)-1], true
}

// ContextDepth reports how many contexts are active.
func (e *Environment) ContextDepth() int {
	return len(e.contexts)
}

// LookupField reads object.field straight from the instance table,
// regardless of the active context.
func (e *Environment) LookupField(object, field string) (Value, bool) {
	inst, ok := e.instances[canonical(object)]
	if !ok {
		return NewAbsent(), false
	}
	val, ok := inst.Fields[canonical(field)]
	return val, ok
}

// Lookup resolves an unqualified name: the current object's fields first
// when a context is active, then the globals.
func (e *Environment) Lookup(name string) (Value, bool) {
	key := canonical(name)
	if ctx, ok := e.Context(); ok {
		if inst, ok := e.instances[ctx.Object]; ok {
			if val, ok := inst.Fields[key]; ok {
				return val, true
			}
		}
	}
	val, ok := e.globals[key]
	return val, ok
}

// Assign writes to the current object's field when a context is active and
// to the global table otherwise. A write under a context whose object no
// longer exists is dropped.
func (e *Environment) Assign(name string, val Value) {
	if ctx, ok := e.Context(); ok {
		if inst, ok := e.instances[ctx.Object]; ok {
			inst.Fields[canonical(name)] = val
		}
		return
	}
	e.globals[canonical(name)] = val
}

// SetField writes object.field directly and reports whether the object
// exists.
func (e *Environment) SetField(object, field string, val Value) bool {
	inst, ok := e.instances[canonical(object)]
	if !ok {
		return false
	}
	inst.Fields[canonical(field)] = val
	return true
}

func (e *Environment) VariableNames() []string {
	return slices.Sorted(maps.Keys(e.globals))
}

func (e *Environment) InstanceNames() []string {
	return slices.Sorted(maps.Keys(e.instances))
}

func (e *Environment) ClassNames() []string {
	return slices.Sorted(maps.Keys(e.classes))
}

// Fields returns a copy of the object's field map.
func (e *Environment) Fields(object string) (map[string]Value, bool) {
	inst, ok := e.instances[canonical(object)]
	if !ok {
		return nil, false
	}
	return maps.Clone(inst.Fields), true
}
