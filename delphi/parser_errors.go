package delphi

import (
	"fmt"
	"strings"
)

type parseError struct {
	pos    Position
	msg    string
	source string
}

func (e *parseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "parse error at %d:%d: %s", e.pos.Line, e.pos.Column, e.msg)
	if frame := formatCodeFrame(e.source, e.pos); frame != "" {
		b.WriteString("\n")
		b.WriteString(frame)
	}
	return b.String()
}

func (p *parser) errorExpected(tok Token, expected string) {
	if tok.Type == tokenIllegal {
		p.addParseError(tok.Pos, fmt.Sprintf("expected %s, got %s", expected, tok.Literal))
		return
	}
	p.addParseError(tok.Pos, fmt.Sprintf("expected %s, got %s", expected, tokenLabel(tok.Type)))
}

func (p *parser) errorUnexpected(tok Token) {
	if tok.Type == tokenIllegal {
		p.addParseError(tok.Pos, tok.Literal)
		return
	}
	p.addParseError(tok.Pos, fmt.Sprintf("unexpected token %s", tokenLabel(tok.Type)))
}

func (p *parser) addParseError(pos Position, msg string) {
	p.errors = append(p.errors, &parseError{pos: pos, msg: msg, source: p.l.input})
}

func tokenLabel(tt TokenType) string {
	switch tt {
	case tokenIllegal:
		return "invalid token"
	case tokenEOF:
		return "end of input"
	case tokenIdent:
		return "identifier"
	case tokenNumber:
		return "number"
	case tokenString:
		return "string"
	case tokenProgram, tokenType, tokenVar, tokenClass, tokenConstructor, tokenDestructor,
		tokenFunction, tokenProcedure, tokenBegin, tokenEnd, tokenWrite, tokenWriteln,
		tokenRead, tokenReadln, tokenPublic, tokenPrivate:
		return "'" + strings.ToLower(string(tt)) + "'"
	default:
		return fmt.Sprintf("%q", string(tt))
	}
}
