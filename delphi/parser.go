package delphi

type parser struct {
	l *lexer

	curToken  Token
	peekToken Token

	errors []error

	// allowCreate lets the next term be a constructor call.
	allowCreate bool
}

func newParser(input string) *parser {
	p := &parser{l: newLexer(input)}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *parser) curIs(tt TokenType) bool  { return p.curToken.Type == tt }
func (p *parser) peekIs(tt TokenType) bool { return p.peekToken.Type == tt }

func (p *parser) failed() bool { return len(p.errors) > 0 }

func (p *parser) expectPeek(tt TokenType) bool {
	if p.peekIs(tt) {
		p.nextToken()
		return true
	}
	p.errorExpected(p.peekToken, tokenLabel(tt))
	return false
}

// ParseProgram parses `[program Name;] declarations begin ... end.`.
func (p *parser) ParseProgram() (*Program, []error) {
	program := &Program{position: p.curToken.Pos}

	if p.curIs(tokenProgram) {
		if !p.expectPeek(tokenIdent) {
			return program, p.errors
		}
		program.Name = p.curToken.Literal
		if !p.expectPeek(tokenSemicolon) {
			return program, p.errors
		}
		p.nextToken()
	}

	program.Block = p.parseBlock()
	if p.failed() {
		return program, p.errors
	}
	if !p.expectPeek(tokenDot) {
		return program, p.errors
	}
	if !p.peekIs(tokenEOF) {
		p.errorUnexpected(p.peekToken)
	}
	return program, p.errors
}

// ParseFragment parses declarations and statements without a program
// header or main block, as typed into the REPL.
func (p *parser) ParseFragment() (*Block, []error) {
	block := &Block{}
	for !p.curIs(tokenEOF) && !p.failed() {
		switch {
		case isDeclarationStart(p.curToken.Type):
			if decls := p.parseDeclarationPart(); decls != nil {
				block.Declarations = append(block.Declarations, decls...)
			}
		case p.curIs(tokenSemicolon):
			p.nextToken()
		case p.curIs(tokenDot) && p.peekIs(tokenEOF):
			p.nextToken()
		default:
			stmt := p.parseStatement()
			if stmt != nil {
				block.Statements = append(block.Statements, stmt)
			}
			p.nextToken()
		}
	}
	return block, p.errors
}

func (p *parser) parseBlock() *Block {
	block := &Block{}
	for isDeclarationStart(p.curToken.Type) && !p.failed() {
		block.Declarations = append(block.Declarations, p.parseDeclarationPart()...)
	}
	if p.failed() {
		return block
	}
	if !p.curIs(tokenBegin) {
		p.errorExpected(p.curToken, tokenLabel(tokenBegin))
		return block
	}
	block.Statements = p.parseCompoundBody()
	return block
}

func isDeclarationStart(tt TokenType) bool {
	switch tt {
	case tokenType, tokenVar, tokenConstructor, tokenDestructor, tokenFunction, tokenProcedure:
		return true
	default:
		return false
	}
}
