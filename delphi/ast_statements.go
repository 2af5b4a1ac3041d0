package delphi

type AssignStmt struct {
	Target   *VarRef
	Value    *Expr
	position Position
}

func (s *AssignStmt) stmtNode()     {}
func (s *AssignStmt) Pos() Position { return s.position }

// WriteStmt prints its arguments as one string; Newline selects writeln.
type WriteStmt struct {
	Args     []Term
	Newline  bool
	position Position
}

func (s *WriteStmt) stmtNode()     {}
func (s *WriteStmt) Pos() Position { return s.position }

type ReadStmt struct {
	Target   *VarRef
	Newline  bool
	position Position
}

func (s *ReadStmt) stmtNode()     {}
func (s *ReadStmt) Pos() Position { return s.position }

// CreateStmt is `Object := ClassName.Create(Args)`.
type CreateStmt struct {
	Object    string
	ClassName string
	Args      []*Expr
	position  Position
}

func (s *CreateStmt) stmtNode()     {}
func (s *CreateStmt) Pos() Position { return s.position }

// DestroyStmt is `Object.Destroy` or `Object.Free`.
type DestroyStmt struct {
	Object   string
	Method   string
	position Position
}

func (s *DestroyStmt) stmtNode()     {}
func (s *DestroyStmt) Pos() Position { return s.position }

// CallStmt invokes a method and discards its result.
type CallStmt struct {
	Call     *CallExpr
	position Position
}

func (s *CallStmt) stmtNode()     {}
func (s *CallStmt) Pos() Position { return s.position }

type CompoundStmt struct {
	Body     []Statement
	position Position
}

func (s *CompoundStmt) stmtNode()     {}
func (s *CompoundStmt) Pos() Position { return s.position }
