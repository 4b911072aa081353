package script

import (
	"fmt"

	"github.com/snedea/arcane-auditor/pkg/token"
)

// ParseError represents a parsing error with position information.
// Positions are relative to the stripped snippet, not the enclosing file;
// callers holding a line offset shift them with Position.Shifted.
type ParseError struct {
	Pos     token.Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Common error messages
const (
	ErrUnexpectedToken     = "unexpected token %s, expected %s"
	ErrUnexpectedInExpr    = "unexpected token %s in expression"
	ErrBadArrowParams      = "arrow function parameters must be identifiers"
	ErrBadAssignTarget     = "invalid assignment target"
	ErrUnterminatedTmpl    = "unterminated template literal"
	ErrUnterminatedHole    = "unterminated {{ interpolation in template literal"
	ErrExpectedPropertyKey = "expected property name, got %s"
)
