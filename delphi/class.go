package delphi

// Reserved method names for the constructor and destructor.
const (
	constructorMethod = "create"
	destructorMethod  = "destroy"
	resultField       = "result"
)

// Method is a registered body together with its formal parameter names.
type Method struct {
	Name   string
	Params []string
	Body   []Statement
	Pos    Position
}

type ClassDef struct {
	Name    string
	Methods map[string]*Method
}

type Instance struct {
	Name   string
	Class  string
	Fields map[string]Value
}

// Context is the class/object pair that scopes unqualified field access.
type Context struct {
	Class  string
	Object string
}

func newMethod(impl *MethodImpl) *Method {
	name := canonical(impl.Name)
	switch impl.Kind {
	case MethodConstructor:
		name = constructorMethod
	case MethodDestructor:
		name = destructorMethod
	}
	return &Method{Name: name, Params: impl.ParamNames(), Body: impl.Body, Pos: impl.Pos()}
}
