package script

import (
	"fmt"
	"strings"

	"github.com/snedea/arcane-auditor/pkg/token"
)

// Expression precedence parsing using a Pratt parser.
//
// Precedence levels:
//
//	precNone        = 0
//	precAssignment  = 1  (=, +=, -=, *=, /=) right-associative
//	precConditional = 2  (?:)
//	precOr          = 3  (||)
//	precAnd         = 4  (&&)
//	precEquality    = 5  (==, !=)
//	precComparison  = 6  (<, >, <=, >=)
//	precAdditive    = 7  (+, -)
//	precMultiply    = 8  (*, /, %)
//	precUnary       = 9  (!, -, +, ++, --)
//	precPostfix     = 10 (., [], (), x++, x--)
const (
	precNone = iota
	precAssignment
	precConditional
	precOr
	precAnd
	precEquality
	precComparison
	precAdditive
	precMultiply
	precUnary
	precPostfix
)

// parseExpression parses an expression using precedence climbing.
func (p *Parser) parseExpression() Expr {
	return p.parseExpressionWithPrecedence(precNone + 1)
}

// parseExpressionWithPrecedence implements Pratt parsing.
func (p *Parser) parseExpressionWithPrecedence(minPrecedence int) Expr {
	left := p.parsePrefixExpr()
	if left == nil {
		return nil
	}

	for {
		prec := infixPrecedence(p.token.Type)
		if prec < minPrecedence {
			break
		}

		left = p.parseInfixExpr(left, prec)
		if left == nil {
			break
		}
	}

	return left
}

// parsePrefixExpr parses prefix operators and primary expressions.
func (p *Parser) parsePrefixExpr() Expr {
	switch p.token.Type {
	case token.BANG, token.MINUS, token.PLUS:
		start := p.token.Pos
		op := p.token.Type
		p.nextToken()
		operand := p.parseExpressionWithPrecedence(precUnary)
		return &UnaryExpr{
			NodeInfo: NodeInfo{Span: p.spanFrom(start)},
			Op:       op,
			Operand:  operand,
		}

	case token.INC, token.DEC:
		start := p.token.Pos
		op := p.token.Type
		p.nextToken()
		operand := p.parseExpressionWithPrecedence(precUnary)
		return &UnaryExpr{
			NodeInfo: NodeInfo{Span: p.spanFrom(start)},
			Op:       op,
			Operand:  operand,
		}

	default:
		return p.parsePostfixChain()
	}
}

// parsePostfixChain parses a primary expression followed by any number of
// member access, index, call, and postfix increment/decrement operations.
// This is what makes chained and immediately-invoked forms work:
// (function(){...})(), a.b[0].c(1)(2), obj.fn().x++.
func (p *Parser) parsePostfixChain() Expr {
	expr := p.parsePrimary()
	if expr == nil {
		return nil
	}

	for {
		switch p.token.Type {
		case token.DOT:
			p.nextToken()
			if !p.check(token.IDENT) && !token.IsKeyword(p.token.Type) {
				p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, token.IDENT))
				return expr
			}
			expr = &MemberExpr{
				NodeInfo: NodeInfo{Span: token.Span{Start: expr.GetSpan().Start, End: p.token.Pos}},
				Object:   expr,
				Property: p.token.Literal,
			}
			p.nextToken()

		case token.LBRACKET:
			p.nextToken()
			index := p.parseExpression()
			p.expect(token.RBRACKET)
			expr = &IndexExpr{
				NodeInfo: NodeInfo{Span: token.Span{Start: expr.GetSpan().Start, End: p.token.Pos}},
				Object:   expr,
				Index:    index,
			}

		case token.LPAREN:
			expr = p.parseCallExpr(expr)

		case token.INC, token.DEC:
			op := p.token.Type
			p.nextToken()
			expr = &UnaryExpr{
				NodeInfo: NodeInfo{Span: token.Span{Start: expr.GetSpan().Start, End: p.token.Pos}},
				Op:       op,
				Operand:  expr,
				Postfix:  true,
			}

		default:
			return expr
		}
	}
}

// parseCallExpr parses an argument list applied to a callee.
func (p *Parser) parseCallExpr(callee Expr) Expr {
	p.expect(token.LPAREN)
	call := &CallExpr{Callee: callee}
	if !p.check(token.RPAREN) {
		for {
			arg := p.parseExpression()
			if arg == nil {
				break
			}
			call.Args = append(call.Args, arg)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.expect(token.RPAREN)
	call.Span = token.Span{Start: callee.GetSpan().Start, End: p.token.Pos}
	return call
}

// infixPrecedence returns the precedence of the token as an infix operator,
// or precNone if it is not one.
func infixPrecedence(t token.Type) int {
	switch t {
	case token.ASSIGN, token.PLUS_ASSIGN, token.MINUS_ASSIGN, token.STAR_ASSIGN, token.SLASH_ASSIGN:
		return precAssignment
	case token.QUESTION:
		return precConditional
	case token.OR:
		return precOr
	case token.AND:
		return precAnd
	case token.EQ, token.NEQ:
		return precEquality
	case token.LT, token.GT, token.LE, token.GE:
		return precComparison
	case token.PLUS, token.MINUS:
		return precAdditive
	case token.STAR, token.SLASH, token.PERCENT:
		return precMultiply
	default:
		return precNone
	}
}

// parseInfixExpr parses an infix expression given the left operand.
func (p *Parser) parseInfixExpr(left Expr, prec int) Expr {
	switch {
	case token.IsAssignment(p.token.Type):
		op := p.token.Type
		switch left.(type) {
		case *Ident, *MemberExpr, *IndexExpr:
		default:
			p.addError(ErrBadAssignTarget)
		}
		p.nextToken()
		// Right-associative: parse the value at the same precedence
		value := p.parseExpressionWithPrecedence(prec)
		return &AssignExpr{
			NodeInfo: NodeInfo{Span: token.Span{Start: left.GetSpan().Start, End: p.token.Pos}},
			Op:       op,
			Target:   left,
			Value:    value,
		}

	case p.check(token.QUESTION):
		p.nextToken()
		then := p.parseExpressionWithPrecedence(precConditional)
		p.expect(token.COLON)
		els := p.parseExpressionWithPrecedence(precConditional)
		return &CondExpr{
			NodeInfo: NodeInfo{Span: token.Span{Start: left.GetSpan().Start, End: p.token.Pos}},
			Cond:     left,
			Then:     then,
			Else:     els,
		}

	default:
		op := p.token.Type
		p.nextToken()
		// Left-associative: parse the right operand one level tighter
		right := p.parseExpressionWithPrecedence(prec + 1)
		return &BinaryExpr{
			NodeInfo: NodeInfo{Span: token.Span{Start: left.GetSpan().Start, End: p.token.Pos}},
			Left:     left,
			Op:       op,
			Right:    right,
		}
	}
}

// parsePrimary parses literals, identifiers, grouping, functions, and
// arrow functions.
func (p *Parser) parsePrimary() Expr {
	pos := p.token.Pos

	switch p.token.Type {
	case token.NUMBER:
		lit := &NumberLit{NodeInfo: NodeInfo{Span: token.Span{Start: pos, End: pos}}, Literal: p.token.Literal}
		p.nextToken()
		return lit

	case token.STRING:
		lit := &StringLit{NodeInfo: NodeInfo{Span: token.Span{Start: pos, End: pos}}, Value: p.token.Literal}
		p.nextToken()
		return lit

	case token.TEMPLATE:
		return p.parseTemplateLit()

	case token.TRUE, token.FALSE:
		lit := &BoolLit{NodeInfo: NodeInfo{Span: token.Span{Start: pos, End: pos}}, Value: p.check(token.TRUE)}
		p.nextToken()
		return lit

	case token.NULL:
		p.nextToken()
		return &NullLit{NodeInfo: NodeInfo{Span: token.Span{Start: pos, End: pos}}}

	case token.EMPTY:
		p.nextToken()
		return &NullLit{NodeInfo: NodeInfo{Span: token.Span{Start: pos, End: pos}}, Empty: true}

	case token.IDENT:
		name := p.token.Literal
		p.nextToken()
		// Single-parameter arrow without parentheses: x => expr
		if p.check(token.ARROW) {
			return p.parseArrowBody(pos, []string{name})
		}
		return &Ident{NodeInfo: NodeInfo{Span: token.Span{Start: pos, End: pos}}, Name: name}

	case token.FUNCTION:
		return p.parseFunctionExpr()

	case token.LPAREN:
		return p.parseParenOrArrow()

	case token.LBRACE:
		return p.parseObjectLit()

	case token.LBRACKET:
		return p.parseArrayLit()

	default:
		p.addError(fmt.Sprintf(ErrUnexpectedInExpr, p.token.Type))
		return nil
	}
}

// parseFunctionExpr parses function [name](params) { body }.
func (p *Parser) parseFunctionExpr() Expr {
	start := p.token.Pos
	p.nextToken() // consume function

	fn := &FuncExpr{}
	if p.check(token.IDENT) {
		fn.Name = p.token.Literal
		p.nextToken()
	}

	p.expect(token.LPAREN)
	fn.Params = p.parseParamNames()
	p.expect(token.RPAREN)

	fn.Body = p.parseBlockStatement()
	fn.Span = p.spanFrom(start)
	return fn
}

// parseParamNames parses a comma-separated identifier list (possibly empty).
func (p *Parser) parseParamNames() []string {
	var params []string
	for p.check(token.IDENT) {
		params = append(params, p.token.Literal)
		p.nextToken()
		if !p.match(token.COMMA) {
			break
		}
	}
	return params
}

// parseParenOrArrow disambiguates a parenthesized expression from an arrow
// function parameter list. The contents are parsed as expressions first;
// when the closing paren is followed by =>, the expressions are reinterpreted
// as parameters (which must all be identifiers).
func (p *Parser) parseParenOrArrow() Expr {
	start := p.token.Pos
	p.nextToken() // consume (

	// Empty parameter list: () => ...
	if p.check(token.RPAREN) {
		p.nextToken()
		if p.check(token.ARROW) {
			return p.parseArrowBody(start, nil)
		}
		p.addError(fmt.Sprintf(ErrUnexpectedInExpr, token.RPAREN))
		return nil
	}

	var exprs []Expr
	for {
		expr := p.parseExpression()
		if expr == nil {
			return nil
		}
		exprs = append(exprs, expr)
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)

	if p.check(token.ARROW) {
		params := make([]string, 0, len(exprs))
		for _, e := range exprs {
			ident, ok := e.(*Ident)
			if !ok {
				p.addError(ErrBadArrowParams)
				return nil
			}
			params = append(params, ident.Name)
		}
		return p.parseArrowBody(start, params)
	}

	if len(exprs) != 1 {
		p.addError(ErrBadArrowParams)
		return nil
	}
	return exprs[0]
}

// parseArrowBody parses the => and body of an arrow function.
func (p *Parser) parseArrowBody(start token.Position, params []string) Expr {
	p.expect(token.ARROW)

	arrow := &ArrowFunc{Params: params}
	if p.check(token.LBRACE) {
		arrow.Body = p.parseBlockStatement()
	} else {
		expr := p.parseExpressionWithPrecedence(precAssignment)
		if expr != nil {
			arrow.Body = &ExprStmt{NodeInfo: NodeInfo{Span: expr.GetSpan()}, Expr: expr}
		}
	}
	arrow.Span = p.spanFrom(start)
	return arrow
}

// parseObjectLit parses { key: value, ... }. Keys may be identifiers,
// keywords, strings, or numbers.
func (p *Parser) parseObjectLit() Expr {
	start := p.token.Pos
	p.nextToken() // consume {

	obj := &ObjectLit{}
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		keyPos := p.token.Pos
		var key string
		switch {
		case p.check(token.IDENT), p.check(token.STRING), p.check(token.NUMBER), token.IsKeyword(p.token.Type):
			key = p.token.Literal
		default:
			p.addError(fmt.Sprintf(ErrExpectedPropertyKey, p.token.Type))
			return obj
		}
		p.nextToken()
		p.expect(token.COLON)
		value := p.parseExpression()

		obj.Props = append(obj.Props, &Property{
			NodeInfo: NodeInfo{Span: token.Span{Start: keyPos, End: p.token.Pos}},
			Key:      key,
			Value:    value,
		})

		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
	obj.Span = p.spanFrom(start)
	return obj
}

// parseArrayLit parses [ element, ... ].
func (p *Parser) parseArrayLit() Expr {
	start := p.token.Pos
	p.nextToken() // consume [

	arr := &ArrayLit{}
	for !p.check(token.RBRACKET) && !p.check(token.EOF) {
		elem := p.parseExpression()
		if elem == nil {
			break
		}
		arr.Elements = append(arr.Elements, elem)
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACKET)
	arr.Span = p.spanFrom(start)
	return arr
}

// parseTemplateLit splits a raw backtick literal into text segments and
// {{ expr }} interpolation holes. Hole expressions are parsed with a fresh
// sub-parser; their positions are hole-relative.
func (p *Parser) parseTemplateLit() Expr {
	start := p.token.Pos
	raw := p.token.Literal
	p.nextToken()

	lit := &TemplateLit{
		NodeInfo: NodeInfo{Span: token.Span{Start: start, End: start}},
		Raw:      raw,
	}

	inner := strings.TrimPrefix(raw, "`")
	inner = strings.TrimSuffix(inner, "`")

	rest := inner
	for {
		open := strings.Index(rest, "{{")
		if open < 0 {
			if rest != "" {
				lit.Parts = append(lit.Parts, TemplatePart{Text: rest})
			}
			break
		}
		text := rest[:open]
		rest = rest[open+2:]

		end := strings.Index(rest, "}}")
		if end < 0 {
			p.errors = append(p.errors, &ParseError{Pos: start, Message: ErrUnterminatedHole})
			lit.Parts = append(lit.Parts, TemplatePart{Text: text})
			break
		}
		holeText := strings.TrimSpace(rest[:end])
		rest = rest[end+2:]

		var holeExpr Expr
		if holeText != "" {
			sub := NewParser(holeText)
			holeExpr = sub.parseExpression()
			if len(sub.errors) > 0 {
				p.errors = append(p.errors, sub.errors[0])
			}
		}
		lit.Parts = append(lit.Parts, TemplatePart{Text: text, Expr: holeExpr})
	}

	return lit
}
