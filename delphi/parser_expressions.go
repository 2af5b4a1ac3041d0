package delphi

// parseExpression parses `term { + term }` and leaves curToken on the last
// token of the final term.
func (p *parser) parseExpression() *Expr {
	expr := &Expr{position: p.curToken.Pos}
	term := p.parseTerm()
	if term == nil {
		return nil
	}
	expr.Terms = append(expr.Terms, term)
	for p.peekIs(tokenPlus) {
		p.nextToken()
		p.nextToken()
		term := p.parseTerm()
		if term == nil {
			return nil
		}
		expr.Terms = append(expr.Terms, term)
	}
	return expr
}

func (p *parser) parseTerm() Term {
	allowCreate := p.allowCreate
	p.allowCreate = false

	switch p.curToken.Type {
	case tokenString:
		return &StringLiteral{Value: p.curToken.Literal, position: p.curToken.Pos}
	case tokenNumber:
		return &NumberLiteral{Text: p.curToken.Literal, position: p.curToken.Pos}
	case tokenIdent:
		pos := p.curToken.Pos
		ref := p.parseReference()
		if ref == nil {
			return nil
		}
		if ref.Object != "" && p.peekIs(tokenLParen) {
			p.nextToken()
			args, ok := p.parseCallArgs()
			if !ok {
				return nil
			}
			switch {
			case isConstructorName(ref.Name) && !allowCreate:
				p.addParseError(pos, errConstructorPlacement)
				return nil
			case isDestructorName(ref.Name):
				p.addParseError(pos, errDestructorPlacement)
				return nil
			}
			return &CallExpr{Object: ref.Object, Method: ref.Name, Args: args, position: pos}
		}
		return ref
	default:
		p.errorExpected(p.curToken, "value")
		return nil
	}
}

// parseReference parses `name` or `object.name` starting on an identifier.
func (p *parser) parseReference() *VarRef {
	ref := &VarRef{Name: p.curToken.Literal, position: p.curToken.Pos}
	if !p.peekIs(tokenDot) {
		return ref
	}
	p.nextToken()
	if !p.expectPeek(tokenIdent) {
		return nil
	}
	ref.Object = ref.Name
	ref.Name = p.curToken.Literal
	return ref
}

// parseCallArgs parses `(expr, ...)` starting on the opening parenthesis
// and leaves curToken on the closing one.
func (p *parser) parseCallArgs() ([]*Expr, bool) {
	args := []*Expr{}
	if p.peekIs(tokenRParen) {
		p.nextToken()
		return args, true
	}
	for {
		p.nextToken()
		arg := p.parseExpression()
		if arg == nil {
			return nil, false
		}
		args = append(args, arg)
		if p.peekIs(tokenComma) {
			p.nextToken()
			continue
		}
		if !p.expectPeek(tokenRParen) {
			return nil, false
		}
		return args, true
	}
}
