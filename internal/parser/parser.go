// Package parser builds the ast.Program the lowering visitor consumes from
// a token stream, via a Pratt (precedence-climbing) recursive descent
// parser in the teacher's style (prefix/infix parse function tables keyed
// by token type).
package parser

import (
	"fmt"

	"github.com/funvibe/vfsc/internal/ast"
	"github.com/funvibe/vfsc/internal/lexer"
	"github.com/funvibe/vfsc/internal/token"
	"github.com/funvibe/vfsc/internal/typesystem"
)

// SyntaxError is the single error kind this parser produces; the driver
// classifies it as "Syntax error" per spec.md §6.
type SyntaxError struct {
	Line, Column int
	Msg          string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Msg)
}

const (
	_ int = iota
	lowest
	equality   // == !=
	comparison // < > <= >=
	sum        // + -
	product    // * / %
	prefix
	call // foo(...) foo[...] foo.bar
)

var precedences = map[token.Type]int{
	token.EQ:       equality,
	token.NOT_EQ:   equality,
	token.LT:       comparison,
	token.GT:       comparison,
	token.LT_EQ:    comparison,
	token.GT_EQ:    comparison,
	token.PLUS:     sum,
	token.MINUS:    sum,
	token.STAR:     product,
	token.SLASH:    product,
	token.PERCENT:  product,
	token.LPAREN:   call,
	token.LBRACKET: call,
	token.DOT:      call,
}

type (
	prefixParseFn func() (ast.Expression, error)
	infixParseFn  func(ast.Expression) (ast.Expression, error)
)

// Parser consumes a Lexer's token stream and produces an ast.Program. It
// stops at the first syntax error, matching the lowering visitor's own
// fail-fast discipline (spec.md §7).
type Parser struct {
	l *lexer.Lexer

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn
}

// New constructs a Parser over l and primes the two-token lookahead.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = map[token.Type]prefixParseFn{
		token.IDENT:        p.parseIdentifierOrCall,
		token.INT:          p.parseIntegerLiteral,
		token.FLOAT:        p.parseFloatLiteral,
		token.STRING:       p.parseStringLiteral,
		token.TRUE:         p.parseBoolLiteral,
		token.FALSE:        p.parseBoolLiteral,
		token.LPAREN:       p.parseGroupedExpression,
		token.LBRACKET:     p.parseArrayLiteral,
		token.DOUBLE_COLON: p.parseVersionInv,
	}
	p.infixParseFns = map[token.Type]infixParseFn{
		token.PLUS:    p.parseBinaryOp,
		token.MINUS:   p.parseBinaryOp,
		token.STAR:    p.parseBinaryOp,
		token.SLASH:   p.parseBinaryOp,
		token.PERCENT: p.parseBinaryOp,
		token.EQ:      p.parseBinaryOp,
		token.NOT_EQ:  p.parseBinaryOp,
		token.LT:      p.parseBinaryOp,
		token.GT:      p.parseBinaryOp,
		token.LT_EQ:   p.parseBinaryOp,
		token.GT_EQ:   p.parseBinaryOp,
	}

	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peekToken.Type == t }

func (p *Parser) expect(t token.Type) error {
	if !p.curIs(t) {
		return p.errorf("expected %s, got %s %q", t, p.curToken.Type, p.curToken.Lexeme)
	}
	p.nextToken()
	return nil
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	return &SyntaxError{Line: p.curToken.Line, Column: p.curToken.Column, Msg: fmt.Sprintf(format, args...)}
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return lowest
}

// Parse consumes the entire token stream and returns the resulting
// ast.Program, in source order for both structs and functions.
func Parse(src string) (*ast.Program, error) {
	p := New(lexer.New(src))
	return p.parseProgram()
}

func (p *Parser) parseProgram() (*ast.Program, error) {
	prog := &ast.Program{}

	for !p.curIs(token.EOF) {
		switch p.curToken.Type {
		case token.STRUCT:
			s, err := p.parseStruct()
			if err != nil {
				return nil, err
			}
			prog.Structs = append(prog.Structs, s)
		case token.FUNC:
			f, err := p.parseFunction()
			if err != nil {
				return nil, err
			}
			prog.Functions = append(prog.Functions, f)
		case token.SEMICOLON:
			p.nextToken()
		default:
			return nil, p.errorf("expected 'struct' or 'func', got %q", p.curToken.Lexeme)
		}
	}

	return prog, nil
}

func (p *Parser) parseStruct() (*ast.Struct, error) {
	if err := p.expect(token.STRUCT); err != nil {
		return nil, err
	}
	name := p.curToken.Lexeme
	if err := p.expect(token.IDENT); err != nil {
		return nil, err
	}
	if err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}

	s := &ast.Struct{Name: name}
	for !p.curIs(token.RBRACE) {
		member, err := p.parseParameter()
		if err != nil {
			return nil, err
		}
		s.Members = append(s.Members, member)
		if p.curIs(token.COMMA) {
			p.nextToken()
		} else {
			break
		}
	}
	if err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return s, nil
}

func (p *Parser) parseParameter() (*ast.Parameter, error) {
	name := p.curToken.Lexeme
	if err := p.expect(token.IDENT); err != nil {
		return nil, err
	}
	if err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	typ, _, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return &ast.Parameter{Name: name, Type: typ}, nil
}

// parseType parses a type annotation. For an array type "[T; size]", the
// element-count expression is returned alongside the type; callers that
// have no use for it (parameters, struct members, return types) simply
// discard it. Omitting "; size" defaults the count to the literal 1,
// matching the C++ original's ArrayType default constructor argument.
func (p *Parser) parseType() (typesystem.Type, ast.Expression, error) {
	switch p.curToken.Type {
	case token.INT_TYPE:
		p.nextToken()
		return typesystem.Int{}, nil, nil
	case token.FLOAT_TYPE:
		p.nextToken()
		return typesystem.Float{}, nil, nil
	case token.BOOL_TYPE:
		p.nextToken()
		return typesystem.Bool{}, nil, nil
	case token.STRING_TYPE:
		p.nextToken()
		return typesystem.String{}, nil, nil
	case token.VOID_TYPE:
		p.nextToken()
		return typesystem.Void{}, nil, nil
	case token.IDENT:
		name := p.curToken.Lexeme
		p.nextToken()
		return typesystem.Struct{Name: name}, nil, nil
	case token.LBRACKET:
		p.nextToken()
		elem, _, err := p.parseType()
		if err != nil {
			return nil, nil, err
		}
		var size ast.Expression = &ast.IntegerLiteral{Value: 1}
		if p.curIs(token.SEMICOLON) {
			p.nextToken()
			size, err = p.parseExpression(lowest)
			if err != nil {
				return nil, nil, err
			}
		}
		if err := p.expect(token.RBRACKET); err != nil {
			return nil, nil, err
		}
		return typesystem.Array{Elem: elem}, size, nil
	default:
		return nil, nil, p.errorf("expected a type, got %q", p.curToken.Lexeme)
	}
}
