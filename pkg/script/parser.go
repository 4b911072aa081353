// Package script parses the small scripting language embedded in page,
// fragment, app, and site definition files between <% ... %> delimiters.
//
// # Usage
//
//	prog, err := script.Parse("var x = 1; x + 2;")
//	if err != nil {
//	    // handle error
//	}
//
// # Grammar Overview
//
// The parser implements a recursive descent parser with Pratt expression
// parsing:
//
//	program    → statement*
//	statement  → var_stmt | if_stmt | for_stmt | while_stmt | do_while_stmt
//	           | return_stmt | break_stmt | continue_stmt | block | expr_stmt
//	var_stmt   → (var|let|const) declarator ("," declarator)* [";"]
//	expr       → assignment
//	assignment → conditional [assign_op assignment]
//
// Comments (// and /* */) are legal in every syntactic position; they are
// collected during lexing and never enter the token stream, so a trailing
// comment after a closing brace cannot truncate the statements that follow.
//
// Parsing is a pure function over its input: no package-level state is
// read or written, so Parse is safe to call concurrently.
package script

import (
	"fmt"

	"github.com/snedea/arcane-auditor/pkg/token"
)

// Parser parses embedded script text into an AST.
type Parser struct {
	lexer  *Lexer
	token  token.Token // current token
	peek   token.Token // lookahead token
	errors []error
}

// NewParser creates a new parser for the given script input.
func NewParser(input string) *Parser {
	p := &Parser{
		lexer: NewLexer(input),
	}
	// Read two tokens to initialize current and peek
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses the script and returns the AST rooted at a statement list.
// Identical input always yields an identical tree or an identical error.
func Parse(input string) (*Program, error) {
	p := NewParser(input)
	prog := p.parseProgram()
	if len(p.errors) > 0 {
		return nil, p.errors[0]
	}
	return prog, nil
}

// parseProgram parses the top-level statement list.
func (p *Parser) parseProgram() *Program {
	prog := &Program{
		NodeInfo: NodeInfo{Span: token.Span{Start: p.token.Pos}},
	}
	for !p.check(token.EOF) {
		before := p.token
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		// A statement parse that consumed nothing means an unrecoverable
		// token; skip it so the loop always terminates.
		if p.token == before && !p.check(token.EOF) {
			p.nextToken()
		}
		if len(p.errors) > 0 {
			break
		}
	}
	prog.Span.End = p.token.Pos
	prog.Comments = p.lexer.Comments
	return prog
}

// ---------- Token Helpers ----------

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	p.token = p.peek
	p.peek = p.lexer.NextToken()
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.Type) bool {
	return p.token.Type == t
}

// checkPeek returns true if the peek token is of the given type.
func (p *Parser) checkPeek(t token.Type) bool {
	return p.peek.Type == t
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t token.Type) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise adds an error.
func (p *Parser) expect(t token.Type) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, t))
	return false
}

// addError adds a parse error at the current token.
func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, &ParseError{
		Pos:     p.token.Pos,
		Message: msg,
	})
}

// spanFrom builds a span from a start position to the current token.
func (p *Parser) spanFrom(start token.Position) token.Span {
	return token.Span{Start: start, End: p.token.Pos}
}
