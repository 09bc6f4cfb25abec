package parser

import (
	"github.com/funvibe/vfsc/internal/ast"
	"github.com/funvibe/vfsc/internal/token"
	"github.com/funvibe/vfsc/internal/typesystem"
)

func (p *Parser) parseFunction() (*ast.Function, error) {
	if err := p.expect(token.FUNC); err != nil {
		return nil, err
	}

	name := p.curToken.Lexeme
	if err := p.expect(token.IDENT); err != nil {
		return nil, err
	}

	version := ""
	if p.curIs(token.DOT) {
		p.nextToken()
		version = p.curToken.Lexeme
		if err := p.expect(token.IDENT); err != nil {
			return nil, err
		}
	}

	if err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var params []*ast.Parameter
	for !p.curIs(token.RPAREN) {
		param, err := p.parseParameter()
		if err != nil {
			return nil, err
		}
		params = append(params, param)
		if p.curIs(token.COMMA) {
			p.nextToken()
		} else {
			break
		}
	}
	if err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}

	// An unannotated Main returns int; every other unannotated function
	// returns void.
	f := &ast.Function{Name: name, Version: version, Parameters: params, ReturnType: typesystem.Void{}}
	if name == "Main" {
		f.ReturnType = typesystem.Int{}
	}

	if p.curIs(token.COLON) {
		p.nextToken()
		typ, _, err := p.parseType()
		if err != nil {
			return nil, err
		}
		f.ReturnType = typ
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	f.Body = body

	return f, nil
}
