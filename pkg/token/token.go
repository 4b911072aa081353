// Package token defines the lexical token types for the embedded script
// language found inside page, fragment, app, and site definition files.
package token

import "fmt"

// Type represents the type of a lexical token.
type Type int32

const (
	// Special tokens
	EOF Type = iota
	ILLEGAL

	// Literals
	IDENT    // identifier
	NUMBER   // 123, 45.67, 1e10
	STRING   // 'hello' or "hello"
	TEMPLATE // `text {{ expr }} text`

	// Operators and punctuation
	PLUS         // +
	MINUS        // -
	STAR         // *
	SLASH        // /
	PERCENT      // %
	ASSIGN       // =
	PLUS_ASSIGN  // +=
	MINUS_ASSIGN // -=
	STAR_ASSIGN  // *=
	SLASH_ASSIGN // /=
	EQ           // ==
	NEQ          // !=
	LT           // <
	GT           // >
	LE           // <=
	GE           // >=
	AND          // &&
	OR           // ||
	BANG         // !
	INC          // ++
	DEC          // --
	QUESTION     // ?
	COLON        // :
	SEMICOLON    // ;
	COMMA        // ,
	DOT          // .
	ARROW        // =>
	LPAREN       // (
	RPAREN       // )
	LBRACKET     // [
	RBRACKET     // ]
	LBRACE       // {
	RBRACE       // }

	// Keywords
	VAR
	LET
	CONST
	FUNCTION
	RETURN
	IF
	ELSE
	FOR
	WHILE
	DO
	BREAK
	CONTINUE
	IN
	TRUE
	FALSE
	NULL
	EMPTY
)

// tokenNames maps token types to their string representations.
var tokenNames = map[Type]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	IDENT:    "IDENT",
	NUMBER:   "NUMBER",
	STRING:   "STRING",
	TEMPLATE: "TEMPLATE",

	PLUS:         "+",
	MINUS:        "-",
	STAR:         "*",
	SLASH:        "/",
	PERCENT:      "%",
	ASSIGN:       "=",
	PLUS_ASSIGN:  "+=",
	MINUS_ASSIGN: "-=",
	STAR_ASSIGN:  "*=",
	SLASH_ASSIGN: "/=",
	EQ:           "==",
	NEQ:          "!=",
	LT:           "<",
	GT:           ">",
	LE:           "<=",
	GE:           ">=",
	AND:          "&&",
	OR:           "||",
	BANG:         "!",
	INC:          "++",
	DEC:          "--",
	QUESTION:     "?",
	COLON:        ":",
	SEMICOLON:    ";",
	COMMA:        ",",
	DOT:          ".",
	ARROW:        "=>",
	LPAREN:       "(",
	RPAREN:       ")",
	LBRACKET:     "[",
	RBRACKET:     "]",
	LBRACE:       "{",
	RBRACE:       "}",

	VAR:      "var",
	LET:      "let",
	CONST:    "const",
	FUNCTION: "function",
	RETURN:   "return",
	IF:       "if",
	ELSE:     "else",
	FOR:      "for",
	WHILE:    "while",
	DO:       "do",
	BREAK:    "break",
	CONTINUE: "continue",
	IN:       "in",
	TRUE:     "true",
	FALSE:    "false",
	NULL:     "null",
	EMPTY:    "empty",
}

// String returns a human-readable representation of the token type.
func (t Type) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// keywords maps keyword strings to their token types.
var keywords = map[string]Type{
	"var":      VAR,
	"let":      LET,
	"const":    CONST,
	"function": FUNCTION,
	"return":   RETURN,
	"if":       IF,
	"else":     ELSE,
	"for":      FOR,
	"while":    WHILE,
	"do":       DO,
	"break":    BREAK,
	"continue": CONTINUE,
	"in":       IN,
	"true":     TRUE,
	"false":    FALSE,
	"null":     NULL,
	"empty":    EMPTY,
}

// LookupIdent returns the token type for the given identifier.
// If the identifier is a keyword, the keyword token type is returned.
// Otherwise, IDENT is returned.
func LookupIdent(ident string) Type {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword returns true if the token type is a keyword.
func IsKeyword(t Type) bool {
	return t >= VAR && t <= EMPTY
}

// IsAssignment returns true if the token type is an assignment operator.
func IsAssignment(t Type) bool {
	switch t {
	case ASSIGN, PLUS_ASSIGN, MINUS_ASSIGN, STAR_ASSIGN, SLASH_ASSIGN:
		return true
	}
	return false
}

// Token represents a lexical token with position information.
type Token struct {
	Type    Type
	Literal string
	Pos     Position
}
