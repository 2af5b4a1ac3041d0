package delphi

import "strconv"

type ValueKind int

const (
	KindAbsent ValueKind = iota
	KindText
)

func (k ValueKind) String() string {
	switch k {
	case KindText:
		return "text"
	default:
		return "absent"
	}
}

// Value is either Text or Absent. The zero Value is Absent.
type Value struct {
	kind ValueKind
	text string
}

func NewText(s string) Value { return Value{kind: KindText, text: s} }
func NewAbsent() Value       { return Value{kind: KindAbsent} }

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsAbsent() bool  { return v.kind == KindAbsent }

// String renders the value for concatenation; Absent renders as "".
func (v Value) String() string {
	if v.kind == KindAbsent {
		return ""
	}
	return v.text
}

// GoString distinguishes Absent from empty Text in test output.
func (v Value) GoString() string {
	if v.kind == KindAbsent {
		return "<absent>"
	}
	return strconv.Quote(v.text)
}

func (v Value) Equal(other Value) bool {
	return v.kind == other.kind && v.text == other.text
}
