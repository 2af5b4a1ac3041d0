package delphi

type Node interface {
	Pos() Position
}

type Declaration interface {
	Node
	declNode()
}

type Statement interface {
	Node
	stmtNode()
}

// Term is one operand of a concatenation expression.
type Term interface {
	Node
	termNode()
}

type Program struct {
	Name     string
	Block    *Block
	position Position
}

func (p *Program) Pos() Position { return p.position }

// Block holds declarations and statements in encounter order.
type Block struct {
	Declarations []Declaration
	Statements   []Statement
}

// VarSpec is one `a, b: T;` line of a var section or class body.
type VarSpec struct {
	Names    []string
	TypeName string
	position Position
}

func (s *VarSpec) Pos() Position { return s.position }

type VarSection struct {
	Specs    []*VarSpec
	position Position
}

func (d *VarSection) declNode()     {}
func (d *VarSection) Pos() Position { return d.position }

// Names flattens every identifier declared in the section.
func (d *VarSection) Names() []string {
	var names []string
	for _, spec := range d.Specs {
		names = append(names, spec.Names...)
	}
	return names
}

type MethodKind string

const (
	MethodConstructor MethodKind = "constructor"
	MethodDestructor  MethodKind = "destructor"
	MethodFunction    MethodKind = "function"
	MethodProcedure   MethodKind = "procedure"
)

// MethodHeader is a method signature inside a class declaration.
type MethodHeader struct {
	Kind       MethodKind
	Name       string
	Params     []*VarSpec
	ReturnType string
	position   Position
}

func (h *MethodHeader) Pos() Position { return h.position }

type ClassDecl struct {
	Name     string
	Fields   []*VarSpec
	Methods  []*MethodHeader
	position Position
}

func (d *ClassDecl) declNode()     {}
func (d *ClassDecl) Pos() Position { return d.position }

// MethodImpl is the body of a constructor, destructor, function or
// procedure bound to a class.
type MethodImpl struct {
	Kind       MethodKind
	ClassName  string
	Name       string
	Params     []*VarSpec
	ReturnType string
	Body       []Statement
	position   Position
}

func (d *MethodImpl) declNode()     {}
func (d *MethodImpl) Pos() Position { return d.position }

// ParamNames returns the formal parameter names in declaration order.
func (d *MethodImpl) ParamNames() []string {
	var names []string
	for _, spec := range d.Params {
		names = append(names, spec.Names...)
	}
	return names
}
