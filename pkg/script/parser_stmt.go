package script

import (
	"fmt"

	"github.com/snedea/arcane-auditor/pkg/token"
)

// parseStatement parses a single statement.
//
//	statement → var_stmt | if_stmt | for_stmt | while_stmt | do_while_stmt
//	          | return_stmt | break_stmt | continue_stmt | block | ";" | expr_stmt
func (p *Parser) parseStatement() Stmt {
	switch p.token.Type {
	case token.VAR, token.LET, token.CONST:
		return p.parseVarStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.DO:
		return p.parseDoWhileStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.BREAK:
		start := p.token.Pos
		p.nextToken()
		p.match(token.SEMICOLON)
		return &BreakStmt{NodeInfo: NodeInfo{Span: p.spanFrom(start)}}
	case token.CONTINUE:
		start := p.token.Pos
		p.nextToken()
		p.match(token.SEMICOLON)
		return &ContinueStmt{NodeInfo: NodeInfo{Span: p.spanFrom(start)}}
	case token.LBRACE:
		return p.parseBlockStatement()
	case token.SEMICOLON:
		start := p.token.Pos
		p.nextToken()
		return &EmptyStmt{NodeInfo: NodeInfo{Span: p.spanFrom(start)}}
	default:
		return p.parseExpressionStatement()
	}
}

// parseVarStatement parses a var/let/const declaration.
func (p *Parser) parseVarStatement() Stmt {
	start := p.token.Pos
	keyword := p.token.Type
	p.nextToken()

	stmt := &VarStmt{Keyword: keyword}
	for {
		decl := p.parseVarDeclarator()
		if decl == nil {
			break
		}
		stmt.Decls = append(stmt.Decls, decl)
		if !p.match(token.COMMA) {
			break
		}
	}
	p.match(token.SEMICOLON)
	stmt.Span = p.spanFrom(start)
	return stmt
}

// parseVarDeclarator parses one name[=init] entry.
func (p *Parser) parseVarDeclarator() *VarDeclarator {
	if !p.check(token.IDENT) {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, token.IDENT))
		return nil
	}
	decl := &VarDeclarator{
		NodeInfo: NodeInfo{Span: token.Span{Start: p.token.Pos}},
		Name:     p.token.Literal,
	}
	p.nextToken()

	if p.match(token.ASSIGN) {
		decl.Init = p.parseExpression()
	}
	decl.Span.End = p.token.Pos
	return decl
}

// parseBlockStatement parses a braced statement list.
func (p *Parser) parseBlockStatement() *BlockStmt {
	start := p.token.Pos
	p.expect(token.LBRACE)

	block := &BlockStmt{}
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		if len(p.errors) > 0 {
			break
		}
		before := p.token
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		if p.token == before && !p.check(token.RBRACE) && !p.check(token.EOF) {
			p.nextToken()
		}
	}
	p.expect(token.RBRACE)
	block.Span = p.spanFrom(start)
	return block
}

// parseIfStatement parses if (cond) stmt [else stmt].
func (p *Parser) parseIfStatement() Stmt {
	start := p.token.Pos
	p.nextToken() // consume if
	p.expect(token.LPAREN)
	cond := p.parseExpression()
	p.expect(token.RPAREN)

	then := p.parseStatement()

	stmt := &IfStmt{Cond: cond, Then: then}
	if p.match(token.ELSE) {
		stmt.Else = p.parseStatement()
	}
	stmt.Span = p.spanFrom(start)
	return stmt
}

// parseForStatement parses both the three-clause form and for (name in obj).
func (p *Parser) parseForStatement() Stmt {
	start := p.token.Pos
	p.nextToken() // consume for
	p.expect(token.LPAREN)

	// for (name in obj) and for (var name in obj)
	if kw, name, ok := p.peekForInHeader(); ok {
		if kw != token.ILLEGAL {
			p.nextToken() // consume declaration keyword
		}
		p.nextToken() // consume name
		p.nextToken() // consume in
		obj := p.parseExpression()
		p.expect(token.RPAREN)
		body := p.parseStatement()
		return &ForInStmt{
			NodeInfo: NodeInfo{Span: p.spanFrom(start)},
			Keyword:  kw,
			Name:     name,
			Object:   obj,
			Body:     body,
		}
	}

	stmt := &ForStmt{}

	// Init clause
	if !p.check(token.SEMICOLON) {
		switch p.token.Type {
		case token.VAR, token.LET, token.CONST:
			// parseVarStatement consumes the terminating semicolon
			stmt.Init = p.parseVarStatement()
		default:
			expr := p.parseExpression()
			stmt.Init = &ExprStmt{NodeInfo: NodeInfo{Span: expr.GetSpan()}, Expr: expr}
			p.expect(token.SEMICOLON)
		}
	} else {
		p.nextToken()
	}

	// Condition clause
	if !p.check(token.SEMICOLON) {
		stmt.Cond = p.parseExpression()
	}
	p.expect(token.SEMICOLON)

	// Post clause
	if !p.check(token.RPAREN) {
		stmt.Post = p.parseExpression()
	}
	p.expect(token.RPAREN)

	stmt.Body = p.parseStatement()
	stmt.Span = p.spanFrom(start)
	return stmt
}

// peekForInHeader detects the for-in header at the current token without
// consuming it. Returns the declaration keyword (token.ILLEGAL for a bare
// name), the loop variable name, and whether the header matched.
func (p *Parser) peekForInHeader() (token.Type, string, bool) {
	switch p.token.Type {
	case token.VAR, token.LET, token.CONST:
		// Can only see one token ahead of the keyword here; the name is at
		// peek and "in" follows it. Peek the lexer state indirectly by
		// requiring IDENT at peek; the "in" check happens after consuming.
		if p.checkPeek(token.IDENT) {
			if p.peekAfterIdentIsIn() {
				return p.token.Type, p.peek.Literal, true
			}
		}
		return token.ILLEGAL, "", false
	case token.IDENT:
		if p.checkPeek(token.IN) {
			return token.ILLEGAL, p.token.Literal, true
		}
		return token.ILLEGAL, "", false
	default:
		return token.ILLEGAL, "", false
	}
}

// peekAfterIdentIsIn reports whether the token after the peeked identifier
// is the in keyword. The lexer is forked onto the remaining input so the
// parser's own lookahead window stays two tokens wide.
func (p *Parser) peekAfterIdentIsIn() bool {
	fork := NewLexer(p.lexer.input[p.lexer.pos:])
	return fork.NextToken().Type == token.IN
}

// parseWhileStatement parses while (cond) stmt.
func (p *Parser) parseWhileStatement() Stmt {
	start := p.token.Pos
	p.nextToken() // consume while
	p.expect(token.LPAREN)
	cond := p.parseExpression()
	p.expect(token.RPAREN)
	body := p.parseStatement()
	return &WhileStmt{
		NodeInfo: NodeInfo{Span: p.spanFrom(start)},
		Cond:     cond,
		Body:     body,
	}
}

// parseDoWhileStatement parses do stmt while (cond);.
func (p *Parser) parseDoWhileStatement() Stmt {
	start := p.token.Pos
	p.nextToken() // consume do
	body := p.parseStatement()
	p.expect(token.WHILE)
	p.expect(token.LPAREN)
	cond := p.parseExpression()
	p.expect(token.RPAREN)
	p.match(token.SEMICOLON)
	return &DoWhileStmt{
		NodeInfo: NodeInfo{Span: p.spanFrom(start)},
		Body:     body,
		Cond:     cond,
	}
}

// parseReturnStatement parses return [expr];.
func (p *Parser) parseReturnStatement() Stmt {
	start := p.token.Pos
	p.nextToken() // consume return

	stmt := &ReturnStmt{}
	if !p.check(token.SEMICOLON) && !p.check(token.RBRACE) && !p.check(token.EOF) {
		stmt.Value = p.parseExpression()
	}
	p.match(token.SEMICOLON)
	stmt.Span = p.spanFrom(start)
	return stmt
}

// parseExpressionStatement parses an expression in statement position.
func (p *Parser) parseExpressionStatement() Stmt {
	start := p.token.Pos
	expr := p.parseExpression()
	if expr == nil {
		return nil
	}
	p.match(token.SEMICOLON)
	return &ExprStmt{
		NodeInfo: NodeInfo{Span: p.spanFrom(start)},
		Expr:     expr,
	}
}
