package delphi

import "strings"

// parseDeclarationPart parses one type section, var section or method
// implementation. It leaves curToken on the first token after the part.
func (p *parser) parseDeclarationPart() []Declaration {
	switch p.curToken.Type {
	case tokenType:
		return p.parseTypeSection()
	case tokenVar:
		if section := p.parseVarSection(); section != nil {
			return []Declaration{section}
		}
		return nil
	default:
		if impl := p.parseMethodImpl(); impl != nil {
			return []Declaration{impl}
		}
		return nil
	}
}

func (p *parser) parseTypeSection() []Declaration {
	var decls []Declaration
	p.nextToken()
	if !p.curIs(tokenIdent) {
		p.errorExpected(p.curToken, "type name")
		return nil
	}
	for {
		decl := p.parseClassDecl()
		if decl == nil {
			return decls
		}
		decls = append(decls, decl)
		p.nextToken()
		if !p.curIs(tokenIdent) || !p.peekIs(tokenEqual) {
			return decls
		}
	}
}

func (p *parser) parseClassDecl() *ClassDecl {
	decl := &ClassDecl{Name: p.curToken.Literal, position: p.curToken.Pos}
	if !p.expectPeek(tokenEqual) || !p.expectPeek(tokenClass) {
		return nil
	}
	p.nextToken()

	for !p.curIs(tokenEnd) && !p.curIs(tokenEOF) {
		switch p.curToken.Type {
		case tokenPublic, tokenPrivate:
		case tokenIdent:
			spec := p.parseVarSpec()
			if spec == nil || !p.expectPeek(tokenSemicolon) {
				return nil
			}
			decl.Fields = append(decl.Fields, spec)
		case tokenConstructor, tokenDestructor, tokenFunction, tokenProcedure:
			header := p.parseMethodHeader()
			if header == nil {
				return nil
			}
			decl.Methods = append(decl.Methods, header)
		default:
			p.errorUnexpected(p.curToken)
			return nil
		}
		p.nextToken()
	}

	if !p.curIs(tokenEnd) {
		p.errorExpected(p.curToken, tokenLabel(tokenEnd))
		return nil
	}
	if !p.expectPeek(tokenSemicolon) {
		return nil
	}
	return decl
}

func (p *parser) parseMethodHeader() *MethodHeader {
	header := &MethodHeader{Kind: methodKindOf(p.curToken.Type), position: p.curToken.Pos}
	if !p.expectPeek(tokenIdent) {
		return nil
	}
	header.Name = p.curToken.Literal

	params, returnType, ok := p.parseSignatureTail(header.Kind)
	if !ok {
		return nil
	}
	header.Params = params
	header.ReturnType = returnType
	p.skipDirectives()
	return header
}

func (p *parser) parseVarSection() *VarSection {
	section := &VarSection{position: p.curToken.Pos}
	p.nextToken()
	if !p.curIs(tokenIdent) {
		p.errorExpected(p.curToken, tokenLabel(tokenIdent))
		return nil
	}
	for {
		spec := p.parseVarSpec()
		if spec == nil || !p.expectPeek(tokenSemicolon) {
			return nil
		}
		section.Specs = append(section.Specs, spec)
		p.nextToken()
		if !p.curIs(tokenIdent) || !(p.peekIs(tokenColon) || p.peekIs(tokenComma)) {
			return section
		}
	}
}

// parseVarSpec parses `a, b: T` and leaves curToken on T.
func (p *parser) parseVarSpec() *VarSpec {
	spec := &VarSpec{position: p.curToken.Pos, Names: []string{p.curToken.Literal}}
	for p.peekIs(tokenComma) {
		p.nextToken()
		if !p.expectPeek(tokenIdent) {
			return nil
		}
		spec.Names = append(spec.Names, p.curToken.Literal)
	}
	if !p.expectPeek(tokenColon) || !p.expectPeek(tokenIdent) {
		return nil
	}
	spec.TypeName = p.curToken.Literal
	return spec
}

func (p *parser) parseMethodImpl() *MethodImpl {
	impl := &MethodImpl{Kind: methodKindOf(p.curToken.Type), position: p.curToken.Pos}
	if !p.expectPeek(tokenIdent) {
		return nil
	}
	impl.ClassName = p.curToken.Literal
	if !p.expectPeek(tokenDot) || !p.expectPeek(tokenIdent) {
		return nil
	}
	impl.Name = p.curToken.Literal

	params, returnType, ok := p.parseSignatureTail(impl.Kind)
	if !ok {
		return nil
	}
	impl.Params = params
	impl.ReturnType = returnType
	p.skipDirectives()

	if !p.expectPeek(tokenBegin) {
		return nil
	}
	impl.Body = p.parseCompoundBody()
	if p.failed() || !p.expectPeek(tokenSemicolon) {
		return nil
	}
	p.nextToken()
	return impl
}

// parseSignatureTail parses the optional formal parameter list, the return
// type of functions and the closing semicolon.
func (p *parser) parseSignatureTail(kind MethodKind) ([]*VarSpec, string, bool) {
	var params []*VarSpec
	if p.peekIs(tokenLParen) {
		p.nextToken()
		var ok bool
		params, ok = p.parseFormalParams()
		if !ok {
			return nil, "", false
		}
	}
	returnType := ""
	if kind == MethodFunction {
		if !p.expectPeek(tokenColon) || !p.expectPeek(tokenIdent) {
			return nil, "", false
		}
		returnType = p.curToken.Literal
	}
	if !p.expectPeek(tokenSemicolon) {
		return nil, "", false
	}
	return params, returnType, true
}

// parseFormalParams parses `(a, b: T; var c: U)` starting on the opening
// parenthesis and leaves curToken on the closing one.
func (p *parser) parseFormalParams() ([]*VarSpec, bool) {
	var params []*VarSpec
	if p.peekIs(tokenRParen) {
		p.nextToken()
		return params, true
	}
	for {
		p.nextToken()
		if p.curIs(tokenVar) || (p.curIs(tokenIdent) && strings.EqualFold(p.curToken.Literal, "const") && p.peekIs(tokenIdent)) {
			p.nextToken()
		}
		if !p.curIs(tokenIdent) {
			p.errorExpected(p.curToken, "parameter name")
			return nil, false
		}
		spec := p.parseVarSpec()
		if spec == nil {
			return nil, false
		}
		params = append(params, spec)
		if p.peekIs(tokenSemicolon) {
			p.nextToken()
			continue
		}
		if !p.expectPeek(tokenRParen) {
			return nil, false
		}
		return params, true
	}
}

// skipDirectives consumes `virtual;`, `override;` and similar modifiers.
func (p *parser) skipDirectives() {
	for p.peekIs(tokenIdent) && isDirective(p.peekToken.Literal) {
		p.nextToken()
		if p.peekIs(tokenSemicolon) {
			p.nextToken()
		}
	}
}

func isDirective(name string) bool {
	switch strings.ToLower(name) {
	case "virtual", "override", "overload", "reintroduce", "abstract":
		return true
	default:
		return false
	}
}

func methodKindOf(tt TokenType) MethodKind {
	switch tt {
	case tokenConstructor:
		return MethodConstructor
	case tokenDestructor:
		return MethodDestructor
	case tokenFunction:
		return MethodFunction
	default:
		return MethodProcedure
	}
}
