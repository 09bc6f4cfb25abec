package parser

import (
	"github.com/funvibe/vfsc/internal/ast"
	"github.com/funvibe/vfsc/internal/token"
)

func (p *Parser) parseBlock() (*ast.Block, error) {
	if err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	block := &ast.Block{}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
	}
	if err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return block, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.curToken.Type {
	case token.LET:
		return p.parseVarDecl()
	case token.RETURN:
		return p.parseReturn()
	case token.IF:
		return p.parseIf()
	case token.FOR:
		return p.parseFor()
	case token.PRINT:
		return p.parsePrint()
	case token.IDENT:
		return p.parseIdentifierStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseVarDecl() (*ast.VarDecl, error) {
	if err := p.expect(token.LET); err != nil {
		return nil, err
	}
	name := p.curToken.Lexeme
	if err := p.expect(token.IDENT); err != nil {
		return nil, err
	}

	decl := &ast.VarDecl{Name: name}

	if p.curIs(token.COLON) {
		p.nextToken()
		typ, size, err := p.parseType()
		if err != nil {
			return nil, err
		}
		decl.Type = typ
		decl.ArraySize = size
	}

	if p.curIs(token.ASSIGN) {
		p.nextToken()
		init, err := p.parseExpression(lowest)
		if err != nil {
			return nil, err
		}
		decl.Init = init
	}

	if err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *Parser) parseReturn() (*ast.Return, error) {
	if err := p.expect(token.RETURN); err != nil {
		return nil, err
	}
	ret := &ast.Return{}
	if !p.curIs(token.SEMICOLON) {
		expr, err := p.parseExpression(lowest)
		if err != nil {
			return nil, err
		}
		ret.Expr = expr
	}
	if err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	return ret, nil
}

func (p *Parser) parsePrint() (*ast.Print, error) {
	if err := p.expect(token.PRINT); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression(lowest)
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.Print{Expr: expr}, nil
}

func (p *Parser) parseIf() (*ast.If, error) {
	if err := p.expect(token.IF); err != nil {
		return nil, err
	}
	if err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(lowest)
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	thenBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	stmt := &ast.If{Cond: cond, Then: thenBlock}

	if p.curIs(token.ELSE) {
		p.nextToken()
		elseBlock, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.Else = elseBlock
	}

	if p.curIs(token.SEMICOLON) {
		p.nextToken()
	}

	return stmt, nil
}

// parseFor parses "for i = init; cond [; incr] { body }". The increment
// clause also accepts the sugar "i = i + amount" (matching spec.md §8
// example 5's surface syntax), from which only "amount" is kept: the
// induction variable update itself is always load/add/store, never a
// general assignment.
func (p *Parser) parseFor() (*ast.For, error) {
	if err := p.expect(token.FOR); err != nil {
		return nil, err
	}
	name := p.curToken.Lexeme
	if err := p.expect(token.IDENT); err != nil {
		return nil, err
	}
	if err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	init, err := p.parseExpression(lowest)
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(lowest)
	if err != nil {
		return nil, err
	}

	stmt := &ast.For{Var: name, Init: init, Cond: cond}

	if p.curIs(token.SEMICOLON) {
		p.nextToken()
		incr, err := p.parseIncrement(name)
		if err != nil {
			return nil, err
		}
		stmt.Incr = incr
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt.Body = body

	if p.curIs(token.SEMICOLON) {
		p.nextToken()
	}

	return stmt, nil
}

func (p *Parser) parseIncrement(inductionVar string) (ast.Expression, error) {
	if p.curIs(token.IDENT) && p.curToken.Lexeme == inductionVar && p.peekIs(token.ASSIGN) {
		p.nextToken() // consume ident
		p.nextToken() // consume '='
		rhs, err := p.parseExpression(lowest)
		if err != nil {
			return nil, err
		}
		if bin, ok := rhs.(*ast.BinaryOp); ok {
			if id, ok := bin.Left.(*ast.Identifier); ok && id.Name == inductionVar && bin.Op == "+" {
				return bin.Right, nil
			}
		}
		return rhs, nil
	}
	return p.parseExpression(lowest)
}

// parseIdentifierStatement disambiguates the four statement forms that
// begin with an identifier: plain assignment, array-element assignment,
// struct-member assignment, and a bare expression statement.
func (p *Parser) parseIdentifierStatement() (ast.Statement, error) {
	name := p.curToken.Lexeme
	save := *p
	lexSave := *p.l

	p.nextToken() // consume ident

	switch {
	case p.curIs(token.ASSIGN):
		p.nextToken()
		expr, err := p.parseExpression(lowest)
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.SEMICOLON); err != nil {
			return nil, err
		}
		return &ast.Assignment{Variable: name, Expr: expr}, nil

	case p.curIs(token.LBRACKET):
		p.nextToken()
		index, err := p.parseExpression(lowest)
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.RBRACKET); err != nil {
			return nil, err
		}
		if p.curIs(token.ASSIGN) {
			p.nextToken()
			expr, err := p.parseExpression(lowest)
			if err != nil {
				return nil, err
			}
			if err := p.expect(token.SEMICOLON); err != nil {
				return nil, err
			}
			return &ast.ArrayAssignment{Variable: name, Index: index, Expr: expr}, nil
		}
		// Not an assignment: rewind and fall through to a plain expression
		// statement (e.g. "a[i];" used for its side effects, if any).
		*p = save
		*p.l = lexSave
		return p.parseExpressionStatement()

	case p.curIs(token.DOT) && !p.peekIsVersionCallDot():
		p.nextToken()
		member := p.curToken.Lexeme
		if err := p.expect(token.IDENT); err != nil {
			return nil, err
		}
		if p.curIs(token.ASSIGN) {
			p.nextToken()
			expr, err := p.parseExpression(lowest)
			if err != nil {
				return nil, err
			}
			if err := p.expect(token.SEMICOLON); err != nil {
				return nil, err
			}
			return &ast.StructAssignment{Variable: name, Member: member, Expr: expr}, nil
		}
		*p = save
		*p.l = lexSave
		return p.parseExpressionStatement()

	default:
		*p = save
		*p.l = lexSave
		return p.parseExpressionStatement()
	}
}

// peekIsVersionCallDot always reports false, so every "ident '.'" statement
// first takes the struct-member branch above. A versioned call
// (name.version(...)) shares the "ident '.' ident" prefix; it is parsed
// when that branch finds no '=' after the second identifier and rewinds to
// an expression statement.
func (p *Parser) peekIsVersionCallDot() bool {
	return false
}

func (p *Parser) parseExpressionStatement() (*ast.ExpressionStatement, error) {
	expr, err := p.parseExpression(lowest)
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.ExpressionStatement{Expr: expr}, nil
}
