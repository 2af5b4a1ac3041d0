package delphi

import "strings"

// evalExpression concatenates the text of every term. A lone method call
// passes its value through unchanged so an unset result stays Absent.
func (exec *Execution) evalExpression(expr *Expr) (Value, error) {
	if len(expr.Terms) == 1 {
		if call, ok := expr.Terms[0].(*CallExpr); ok {
			return exec.callMethod(call)
		}
	}
	text, err := exec.concatTerms(expr.Terms)
	if err != nil {
		return NewAbsent(), err
	}
	return NewText(text), nil
}

func (exec *Execution) concatTerms(terms []Term) (string, error) {
	var b strings.Builder
	for _, term := range terms {
		val, err := exec.evalTerm(term)
		if err != nil {
			return "", err
		}
		switch val.Kind() {
		case KindAbsent:
			continue
		case KindText:
			b.WriteString(val.String())
		}
	}
	return b.String(), nil
}

func (exec *Execution) evalTerm(term Term) (Value, error) {
	switch t := term.(type) {
	case *StringLiteral:
		return NewText(t.Value), nil
	case *NumberLiteral:
		return NewText(t.Text), nil
	case *VarRef:
		return exec.resolve(t), nil
	case *CallExpr:
		return exec.callMethod(t)
	default:
		return NewAbsent(), exec.errorAt(term.Pos(), "unsupported value %T", term)
	}
}

// resolve reads a reference; a miss is Absent, never an error.
func (exec *Execution) resolve(ref *VarRef) Value {
	var (
		val Value
		ok  bool
	)
	if ref.Object != "" {
		val, ok = exec.env.LookupField(ref.Object, ref.Name)
	} else {
		val, ok = exec.env.Lookup(ref.Name)
	}
	if !ok {
		return NewAbsent()
	}
	return val
}
