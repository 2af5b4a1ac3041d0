package delphi

// Expr is an ordered sequence of terms joined by concatenation.
type Expr struct {
	Terms    []Term
	position Position
}

func (e *Expr) Pos() Position { return e.position }

// VarRef names a variable, or a field when Object is set.
type VarRef struct {
	Object   string
	Name     string
	position Position
}

func (e *VarRef) termNode()     {}
func (e *VarRef) Pos() Position { return e.position }

func (e *VarRef) String() string {
	if e.Object != "" {
		return e.Object + "." + e.Name
	}
	return e.Name
}

type StringLiteral struct {
	Value    string
	position Position
}

func (e *StringLiteral) termNode()     {}
func (e *StringLiteral) Pos() Position { return e.position }

// NumberLiteral keeps the digits exactly as written.
type NumberLiteral struct {
	Text     string
	position Position
}

func (e *NumberLiteral) termNode()     {}
func (e *NumberLiteral) Pos() Position { return e.position }

type CallExpr struct {
	Object   string
	Method   string
	Args     []*Expr
	position Position
}

func (e *CallExpr) termNode()     {}
func (e *CallExpr) Pos() Position { return e.position }
