package delphi

import "strings"

// parseCompoundBody parses `begin ... end` starting on `begin` and leaves
// curToken on `end`.
func (p *parser) parseCompoundBody() []Statement {
	body := []Statement{}
	p.nextToken()
	for !p.curIs(tokenEnd) && !p.curIs(tokenEOF) && !p.failed() {
		if p.curIs(tokenSemicolon) {
			p.nextToken()
			continue
		}
		stmt := p.parseStatement()
		if stmt == nil {
			return body
		}
		body = append(body, stmt)
		p.nextToken()
		switch {
		case p.curIs(tokenSemicolon):
			p.nextToken()
		case !p.curIs(tokenEnd):
			p.errorExpected(p.curToken, tokenLabel(tokenSemicolon))
			return body
		}
	}
	if !p.failed() && !p.curIs(tokenEnd) {
		p.errorExpected(p.curToken, tokenLabel(tokenEnd))
	}
	return body
}

// parseStatement leaves curToken on the last token of the statement.
func (p *parser) parseStatement() Statement {
	switch p.curToken.Type {
	case tokenBegin:
		pos := p.curToken.Pos
		body := p.parseCompoundBody()
		if p.failed() {
			return nil
		}
		return &CompoundStmt{Body: body, position: pos}
	case tokenWrite, tokenWriteln:
		return p.parseWriteStatement()
	case tokenRead, tokenReadln:
		return p.parseReadStatement()
	case tokenIdent:
		return p.parseIdentStatement()
	default:
		p.errorUnexpected(p.curToken)
		return nil
	}
}

func (p *parser) parseWriteStatement() Statement {
	stmt := &WriteStmt{Newline: p.curIs(tokenWriteln), position: p.curToken.Pos}
	if !p.peekIs(tokenLParen) {
		return stmt
	}
	p.nextToken()
	if p.peekIs(tokenRParen) {
		p.nextToken()
		return stmt
	}
	for {
		p.nextToken()
		expr := p.parseExpression()
		if expr == nil {
			return nil
		}
		stmt.Args = append(stmt.Args, expr.Terms...)
		if p.peekIs(tokenComma) {
			p.nextToken()
			continue
		}
		if !p.expectPeek(tokenRParen) {
			return nil
		}
		return stmt
	}
}

func (p *parser) parseReadStatement() Statement {
	stmt := &ReadStmt{Newline: p.curIs(tokenReadln), position: p.curToken.Pos}
	if !p.peekIs(tokenLParen) {
		return stmt
	}
	p.nextToken()
	if p.peekIs(tokenRParen) {
		p.nextToken()
		return stmt
	}
	if !p.expectPeek(tokenIdent) {
		return nil
	}
	stmt.Target = &VarRef{Name: p.curToken.Literal, position: p.curToken.Pos}
	if p.peekIs(tokenDot) {
		p.addParseError(p.peekToken.Pos, "read target must be a variable, not a field")
		return nil
	}
	if !p.expectPeek(tokenRParen) {
		return nil
	}
	return stmt
}

// parseIdentStatement handles assignments, object creation, destructor
// calls and procedure-style method calls.
func (p *parser) parseIdentStatement() Statement {
	pos := p.curToken.Pos
	first := p.curToken.Literal

	if p.peekIs(tokenDot) {
		p.nextToken()
		if !p.expectPeek(tokenIdent) {
			return nil
		}
		member := p.curToken.Literal
		if p.peekIs(tokenAssign) {
			target := &VarRef{Object: first, Name: member, position: pos}
			return p.parseAssignmentValue(target, pos)
		}
		if isConstructorName(member) {
			p.addParseError(pos, errConstructorPlacement)
			return nil
		}
		call := &CallExpr{Object: first, Method: member, position: pos}
		if p.peekIs(tokenLParen) {
			p.nextToken()
			args, ok := p.parseCallArgs()
			if !ok {
				return nil
			}
			call.Args = args
		}
		if isDestructorName(member) {
			return &DestroyStmt{Object: first, Method: member, position: pos}
		}
		return &CallStmt{Call: call, position: pos}
	}

	if !p.peekIs(tokenAssign) {
		p.errorExpected(p.peekToken, tokenLabel(tokenAssign))
		return nil
	}
	return p.parseAssignmentValue(&VarRef{Name: first, position: pos}, pos)
}

func (p *parser) parseAssignmentValue(target *VarRef, pos Position) Statement {
	p.nextToken()
	p.nextToken()
	p.allowCreate = target.Object == ""
	value := p.parseExpression()
	p.allowCreate = false
	if value == nil {
		return nil
	}
	if len(value.Terms) > 1 {
		if call, ok := value.Terms[0].(*CallExpr); ok && isConstructorName(call.Method) {
			p.addParseError(call.Pos(), errConstructorPlacement)
			return nil
		}
	}
	if len(value.Terms) == 1 {
		switch term := value.Terms[0].(type) {
		case *CallExpr:
			if isConstructorName(term.Method) && target.Object == "" {
				return &CreateStmt{Object: target.Name, ClassName: term.Object, Args: term.Args, position: pos}
			}
		case *VarRef:
			if term.Object != "" && isConstructorName(term.Name) && target.Object == "" {
				return &CreateStmt{Object: target.Name, ClassName: term.Object, position: pos}
			}
		}
	}
	return &AssignStmt{Target: target, Value: value, position: pos}
}

const (
	errConstructorPlacement = "constructor call must be assigned to a variable: obj := Class.Create(...)"
	errDestructorPlacement  = "destructor call must be a statement: obj.Destroy"
)

func isConstructorName(name string) bool {
	return strings.EqualFold(name, "create")
}

func isDestructorName(name string) bool {
	return strings.EqualFold(name, "destroy") || strings.EqualFold(name, "free")
}
