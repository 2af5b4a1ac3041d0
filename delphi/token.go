package delphi

// TokenType identifies the lexical category of a token.
type TokenType string

const (
	tokenIllegal TokenType = "ILLEGAL"
	tokenEOF     TokenType = "EOF"

	tokenIdent  TokenType = "IDENT"
	tokenNumber TokenType = "NUMBER"
	tokenString TokenType = "STRING"

	tokenAssign    TokenType = ":="
	tokenPlus      TokenType = "+"
	tokenEqual     TokenType = "="
	tokenComma     TokenType = ","
	tokenColon     TokenType = ":"
	tokenSemicolon TokenType = ";"
	tokenDot       TokenType = "."
	tokenLParen    TokenType = "("
	tokenRParen    TokenType = ")"

	tokenProgram     TokenType = "PROGRAM"
	tokenType        TokenType = "TYPE"
	tokenVar         TokenType = "VAR"
	tokenClass       TokenType = "CLASS"
	tokenConstructor TokenType = "CONSTRUCTOR"
	tokenDestructor  TokenType = "DESTRUCTOR"
	tokenFunction    TokenType = "FUNCTION"
	tokenProcedure   TokenType = "PROCEDURE"
	tokenBegin       TokenType = "BEGIN"
	tokenEnd         TokenType = "END"
	tokenWrite       TokenType = "WRITE"
	tokenWriteln     TokenType = "WRITELN"
	tokenRead        TokenType = "READ"
	tokenReadln      TokenType = "READLN"
	tokenPublic      TokenType = "PUBLIC"
	tokenPrivate     TokenType = "PRIVATE"
)

// Token captures lexical information for the parser.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

// Position identifies a line and column in the source file.
type Position struct {
	Line   int
	Column int
}
