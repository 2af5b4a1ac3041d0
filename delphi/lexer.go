package delphi

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexer struct {
	input string

	offset int
	width  int

	line   int
	column int

	ch rune
}

func newLexer(input string) *lexer {
	l := &lexer{input: input, line: 1, column: 0}
	l.readRune()
	return l
}

func (l *lexer) readRune() {
	if l.offset >= len(l.input) {
		l.width = 0
		l.ch = 0
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.offset:])
	l.width = w
	l.offset += w

	if r == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}

	l.ch = r
}

func (l *lexer) peekRune() rune {
	if l.offset >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.offset:])
	return r
}

func (l *lexer) NextToken() Token {
	if msg := l.skipWhitespaceAndComments(); msg != "" {
		return Token{Type: tokenIllegal, Literal: msg, Pos: Position{Line: l.line, Column: l.column}}
	}

	tok := Token{Pos: Position{Line: l.line, Column: l.column}}

	switch l.ch {
	case 0:
		tok.Type = tokenEOF
		tok.Literal = ""
	case '+':
		tok = l.makeToken(tokenPlus, "+")
		l.readRune()
	case '=':
		tok = l.makeToken(tokenEqual, "=")
		l.readRune()
	case ',':
		tok = l.makeToken(tokenComma, ",")
		l.readRune()
	case ';':
		tok = l.makeToken(tokenSemicolon, ";")
		l.readRune()
	case '.':
		tok = l.makeToken(tokenDot, ".")
		l.readRune()
	case '(':
		tok = l.makeToken(tokenLParen, "(")
		l.readRune()
	case ')':
		tok = l.makeToken(tokenRParen, ")")
		l.readRune()
	case ':':
		if l.peekRune() == '=' {
			l.readRune()
			tok.Type = tokenAssign
			tok.Literal = ":="
			l.readRune()
		} else {
			tok = l.makeToken(tokenColon, ":")
			l.readRune()
		}
	case '\'':
		literal, err := l.readString()
		if err != "" {
			tok.Type = tokenIllegal
			tok.Literal = err
		} else {
			tok.Type = tokenString
			tok.Literal = literal
		}
	default:
		switch {
		case isIdentifierStart(l.ch):
			literal := l.readIdentifier()
			tok.Type = lookupIdent(literal)
			tok.Literal = literal
			return tok
		case unicode.IsDigit(l.ch):
			tok.Type = tokenNumber
			tok.Literal = l.readNumber()
			return tok
		default:
			tok = l.makeToken(tokenIllegal, string(l.ch))
			l.readRune()
		}
	}

	return tok
}

func (l *lexer) currentOffset() int {
	return l.offset - l.width
}

func (l *lexer) makeToken(tt TokenType, literal string) Token {
	return Token{Type: tt, Literal: literal, Pos: Position{Line: l.line, Column: l.column}}
}

func (l *lexer) skipWhitespaceAndComments() string {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n':
			l.readRune()
		case l.ch == '/' && l.peekRune() == '/':
			for l.ch != 0 && l.ch != '\n' {
				l.readRune()
			}
		case l.ch == '{':
			for l.ch != '}' {
				if l.ch == 0 {
					return "unterminated comment"
				}
				l.readRune()
			}
			l.readRune()
		case l.ch == '(' && l.peekRune() == '*':
			l.readRune()
			l.readRune()
			for !(l.ch == '*' && l.peekRune() == ')') {
				if l.ch == 0 {
					return "unterminated comment"
				}
				l.readRune()
			}
			l.readRune()
			l.readRune()
		default:
			return ""
		}
	}
}

func (l *lexer) readIdentifier() string {
	start := l.currentOffset()
	for isIdentifierRune(l.peekRune()) {
		l.readRune()
	}
	literal := l.input[start:l.offset]
	l.readRune()
	return literal
}

func (l *lexer) readNumber() string {
	var sb strings.Builder
	hasDot := false

	sb.WriteRune(l.ch)
	for {
		r := l.peekRune()
		switch {
		case r == '.' && !hasDot && unicode.IsDigit(l.peekRuneAfterNext()):
			hasDot = true
			l.readRune()
			sb.WriteRune('.')
		case unicode.IsDigit(r):
			l.readRune()
			sb.WriteRune(r)
		default:
			l.readRune()
			return sb.String()
		}
	}
}

func (l *lexer) peekRuneAfterNext() rune {
	if l.offset >= len(l.input) {
		return 0
	}
	_, w := utf8.DecodeRuneInString(l.input[l.offset:])
	if l.offset+w >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.offset+w:])
	return r
}

// readString consumes a quoted literal. A doubled quote inside the literal
// stands for one quote character.
func (l *lexer) readString() (string, string) {
	var sb strings.Builder

	for {
		l.readRune()
		switch l.ch {
		case 0, '\n':
			return "", "unterminated string"
		case '\'':
			if l.peekRune() == '\'' {
				l.readRune()
				sb.WriteRune('\'')
				continue
			}
			l.readRune()
			return sb.String(), ""
		default:
			// Copy the source bytes so invalid UTF-8 survives unchanged.
			sb.WriteString(l.input[l.currentOffset():l.offset])
		}
	}
}

func isIdentifierStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentifierRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func lookupIdent(ident string) TokenType {
	switch strings.ToLower(ident) {
	case "program":
		return tokenProgram
	case "type":
		return tokenType
	case "var":
		return tokenVar
	case "class":
		return tokenClass
	case "constructor":
		return tokenConstructor
	case "destructor":
		return tokenDestructor
	case "function":
		return tokenFunction
	case "procedure":
		return tokenProcedure
	case "begin":
		return tokenBegin
	case "end":
		return tokenEnd
	case "write":
		return tokenWrite
	case "writeln":
		return tokenWriteln
	case "read":
		return tokenRead
	case "readln":
		return tokenReadln
	case "public":
		return tokenPublic
	case "private":
		return tokenPrivate
	}
	return tokenIdent
}
