package delphi

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// astNode is the serialised shape of one syntax node.
type astNode struct {
	Node     string     `yaml:"node"`
	Name     string     `yaml:"name,omitempty"`
	Object   string     `yaml:"object,omitempty"`
	Class    string     `yaml:"class,omitempty"`
	Type     string     `yaml:"type,omitempty"`
	Value    *string    `yaml:"value,omitempty"`
	Params   []string   `yaml:"params,omitempty"`
	Names    []string   `yaml:"names,omitempty"`
	Newline  bool       `yaml:"newline,omitempty"`
	Line     int        `yaml:"line,omitempty"`
	Children []*astNode `yaml:"children,omitempty"`
}

// DumpAST renders a parsed program as YAML.
func DumpAST(program *Program) ([]byte, error) {
	if program == nil {
		return nil, fmt.Errorf("dump ast: nil program")
	}
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(dumpProgram(program)); err != nil {
		return nil, fmt.Errorf("dump ast: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("dump ast: %w", err)
	}
	return buf.Bytes(), nil
}

func dumpProgram(program *Program) *astNode {
	node := &astNode{Node: "Program", Name: program.Name, Line: program.Pos().Line}
	if program.Block == nil {
		return node
	}
	for _, decl := range program.Block.Declarations {
		node.Children = append(node.Children, dumpDeclaration(decl))
	}
	node.Children = append(node.Children, &astNode{Node: "Main", Children: dumpStatements(program.Block.Statements)})
	return node
}

func dumpDeclaration(decl Declaration) *astNode {
	switch d := decl.(type) {
	case *VarSection:
		node := &astNode{Node: "VariableDeclarationPart", Line: d.Pos().Line}
		for _, spec := range d.Specs {
			node.Children = append(node.Children, dumpVarSpec("Variable", spec))
		}
		return node
	case *ClassDecl:
		node := &astNode{Node: "ClassDeclaration", Name: d.Name, Line: d.Pos().Line}
		for _, field := range d.Fields {
			node.Children = append(node.Children, dumpVarSpec("Field", field))
		}
		for _, header := range d.Methods {
			node.Children = append(node.Children, &astNode{
				Node:   "MethodHeader",
				Name:   header.Name,
				Type:   string(header.Kind),
				Params: specNames(header.Params),
				Line:   header.Pos().Line,
			})
		}
		return node
	case *MethodImpl:
		return &astNode{
			Node:     methodImplNodeName(d.Kind),
			Class:    d.ClassName,
			Name:     d.Name,
			Params:   d.ParamNames(),
			Type:     d.ReturnType,
			Line:     d.Pos().Line,
			Children: dumpStatements(d.Body),
		}
	default:
		return &astNode{Node: fmt.Sprintf("%T", decl)}
	}
}

func methodImplNodeName(kind MethodKind) string {
	switch kind {
	case MethodConstructor:
		return "ConstructorImpl"
	case MethodDestructor:
		return "DestructorImpl"
	default:
		return "FunctionImpl"
	}
}

func dumpVarSpec(label string, spec *VarSpec) *astNode {
	return &astNode{Node: label, Names: spec.Names, Type: spec.TypeName, Line: spec.Pos().Line}
}

func specNames(specs []*VarSpec) []string {
	var names []string
	for _, spec := range specs {
		names = append(names, spec.Names...)
	}
	return names
}

func dumpStatements(stmts []Statement) []*astNode {
	nodes := make([]*astNode, 0, len(stmts))
	for _, stmt := range stmts {
		nodes = append(nodes, dumpStatement(stmt))
	}
	return nodes
}

func dumpStatement(stmt Statement) *astNode {
	switch s := stmt.(type) {
	case *AssignStmt:
		return &astNode{
			Node:     "Assignment",
			Object:   s.Target.Object,
			Name:     s.Target.Name,
			Line:     s.Pos().Line,
			Children: dumpTerms(s.Value.Terms),
		}
	case *WriteStmt:
		return &astNode{Node: "Write", Newline: s.Newline, Line: s.Pos().Line, Children: dumpTerms(s.Args)}
	case *ReadStmt:
		node := &astNode{Node: "Read", Newline: s.Newline, Line: s.Pos().Line}
		if s.Target != nil {
			node.Name = s.Target.Name
		}
		return node
	case *CreateStmt:
		return &astNode{
			Node:     "ObjectCreation",
			Object:   s.Object,
			Class:    s.ClassName,
			Line:     s.Pos().Line,
			Children: dumpArgs(s.Args),
		}
	case *DestroyStmt:
		return &astNode{Node: "DestructorCall", Object: s.Object, Name: s.Method, Line: s.Pos().Line}
	case *CallStmt:
		return dumpTerm(s.Call)
	case *CompoundStmt:
		return &astNode{Node: "Compound", Line: s.Pos().Line, Children: dumpStatements(s.Body)}
	default:
		return &astNode{Node: fmt.Sprintf("%T", stmt)}
	}
}

func dumpArgs(args []*Expr) []*astNode {
	nodes := make([]*astNode, 0, len(args))
	for _, arg := range args {
		nodes = append(nodes, &astNode{Node: "Expr", Line: arg.Pos().Line, Children: dumpTerms(arg.Terms)})
	}
	return nodes
}

func dumpTerms(terms []Term) []*astNode {
	nodes := make([]*astNode, 0, len(terms))
	for _, term := range terms {
		nodes = append(nodes, dumpTerm(term))
	}
	return nodes
}

func dumpTerm(term Term) *astNode {
	switch t := term.(type) {
	case *VarRef:
		return &astNode{Node: "VariableRef", Object: t.Object, Name: t.Name, Line: t.Pos().Line}
	case *StringLiteral:
		value := t.Value
		return &astNode{Node: "StringLiteral", Value: &value, Line: t.Pos().Line}
	case *NumberLiteral:
		value := t.Text
		return &astNode{Node: "NumberLiteral", Value: &value, Line: t.Pos().Line}
	case *CallExpr:
		return &astNode{
			Node:     "FunctionCall",
			Object:   t.Object,
			Name:     t.Method,
			Line:     t.Pos().Line,
			Children: dumpArgs(t.Args),
		}
	default:
		return &astNode{Node: fmt.Sprintf("%T", term)}
	}
}
