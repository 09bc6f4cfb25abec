package parser

import (
	"strconv"

	"github.com/funvibe/vfsc/internal/ast"
	"github.com/funvibe/vfsc/internal/token"
)

// parseExpression is the Pratt driver: it parses one prefix expression and
// then keeps folding in infix operators whose precedence exceeds prec.
func (p *Parser) parseExpression(prec int) (ast.Expression, error) {
	prefix, ok := p.prefixParseFns[p.curToken.Type]
	if !ok {
		return nil, p.errorf("unexpected token %q in expression", p.curToken.Lexeme)
	}
	left, err := prefix()
	if err != nil {
		return nil, err
	}

	for !p.curIs(token.SEMICOLON) && prec < p.peekPrecedenceForCurrent() {
		infix, ok := p.infixParseFns[p.curToken.Type]
		if !ok {
			return left, nil
		}
		left, err = infix(left)
		if err != nil {
			return nil, err
		}
	}

	return left, nil
}

// peekPrecedenceForCurrent returns curToken's own binding power; infix
// dispatch in the loop above operates on curToken (already advanced past
// the left operand by the prefix/infix handlers below), not peekToken.
func (p *Parser) peekPrecedenceForCurrent() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return lowest
}

func (p *Parser) parseIntegerLiteral() (ast.Expression, error) {
	v, err := strconv.ParseInt(p.curToken.Lexeme, 10, 32)
	if err != nil {
		return nil, p.errorf("invalid integer literal %q", p.curToken.Lexeme)
	}
	p.nextToken()
	return &ast.IntegerLiteral{Value: int32(v)}, nil
}

func (p *Parser) parseFloatLiteral() (ast.Expression, error) {
	v, err := strconv.ParseFloat(p.curToken.Lexeme, 32)
	if err != nil {
		return nil, p.errorf("invalid float literal %q", p.curToken.Lexeme)
	}
	p.nextToken()
	return &ast.FloatLiteral{Value: float32(v)}, nil
}

func (p *Parser) parseStringLiteral() (ast.Expression, error) {
	v := p.curToken.Lexeme
	p.nextToken()
	return &ast.StringLiteral{Value: v}, nil
}

func (p *Parser) parseBoolLiteral() (ast.Expression, error) {
	v := p.curIs(token.TRUE)
	p.nextToken()
	return &ast.BoolLiteral{Value: v}, nil
}

func (p *Parser) parseGroupedExpression() (ast.Expression, error) {
	p.nextToken() // consume '('
	expr, err := p.parseExpression(lowest)
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *Parser) parseArrayLiteral() (ast.Expression, error) {
	if err := p.expect(token.LBRACKET); err != nil {
		return nil, err
	}
	lit := &ast.ArrayLiteral{}
	for !p.curIs(token.RBRACKET) {
		elem, err := p.parseExpression(lowest)
		if err != nil {
			return nil, err
		}
		lit.Elements = append(lit.Elements, elem)
		if p.curIs(token.COMMA) {
			p.nextToken()
		} else {
			break
		}
	}
	if err := p.expect(token.RBRACKET); err != nil {
		return nil, err
	}
	return lit, nil
}

// parseIdentifierOrCall disambiguates the five expression forms that start
// with a bare identifier: plain variable reference, array index, struct
// member read, unversioned call, and versioned call (name.version(args)).
func (p *Parser) parseIdentifierOrCall() (ast.Expression, error) {
	name := p.curToken.Lexeme
	p.nextToken()

	switch {
	case p.curIs(token.LPAREN):
		args, err := p.parseCallArgs()
		if err != nil {
			return nil, err
		}
		return &ast.FunctionCall{Name: name, Args: args}, nil

	case p.curIs(token.LBRACKET):
		p.nextToken()
		index, err := p.parseExpression(lowest)
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.RBRACKET); err != nil {
			return nil, err
		}
		return &ast.ArrayIndex{Name: name, Index: index}, nil

	case p.curIs(token.DOT):
		p.nextToken()
		suffix := p.curToken.Lexeme
		if err := p.expect(token.IDENT); err != nil {
			return nil, err
		}
		if p.curIs(token.LPAREN) {
			args, err := p.parseCallArgs()
			if err != nil {
				return nil, err
			}
			return &ast.FunctionCall{Name: name, Version: suffix, Args: args}, nil
		}
		return &ast.StructMember{Variable: name, Member: suffix}, nil

	default:
		return &ast.Identifier{Name: name}, nil
	}
}

// parseVersionInv parses the self-recursive call sugar "::version(args)",
// which retargets the enclosing function's own base name to Version.
func (p *Parser) parseVersionInv() (ast.Expression, error) {
	if err := p.expect(token.DOUBLE_COLON); err != nil {
		return nil, err
	}
	version := p.curToken.Lexeme
	if err := p.expect(token.IDENT); err != nil {
		return nil, err
	}
	args, err := p.parseCallArgs()
	if err != nil {
		return nil, err
	}
	return &ast.VersionInv{Version: version, Args: args}, nil
}

func (p *Parser) parseCallArgs() ([]ast.Expression, error) {
	if err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var args []ast.Expression
	for !p.curIs(token.RPAREN) {
		arg, err := p.parseExpression(lowest)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.curIs(token.COMMA) {
			p.nextToken()
		} else {
			break
		}
	}
	if err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parseBinaryOp(left ast.Expression) (ast.Expression, error) {
	op := p.curToken.Lexeme
	prec := precedences[p.curToken.Type]
	p.nextToken()
	right, err := p.parseExpression(prec)
	if err != nil {
		return nil, err
	}
	return &ast.BinaryOp{Left: left, Op: op, Right: right}, nil
}
