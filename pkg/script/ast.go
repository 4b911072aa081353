package script

import "github.com/snedea/arcane-auditor/pkg/token"

// Stmt represents a statement in the embedded script language.
type Stmt interface {
	stmtNode()
	GetSpan() token.Span
}

// Expr represents an expression.
type Expr interface {
	exprNode()
	GetSpan() token.Span
}

// NodeInfo provides common fields for all AST nodes.
// Embed this in node types that need position tracking.
type NodeInfo struct {
	Span token.Span
}

// GetSpan returns the node's source span.
func (n *NodeInfo) GetSpan() token.Span {
	return n.Span
}

// Line returns the 1-based source line the node starts on.
func (n *NodeInfo) Line() int {
	return n.Span.Start.Line
}

// ---------- Statements ----------

// Program is the root node: an ordered list of top-level statements.
type Program struct {
	NodeInfo
	Statements []Stmt

	// Comments collected during lexing, in source order.
	Comments []*token.Comment
}

func (*Program) stmtNode() {}

// VarDeclarator is a single name[=init] entry in a declaration statement.
type VarDeclarator struct {
	NodeInfo
	Name string
	Init Expr // nil when declared without initializer
}

// VarStmt represents a var/let/const declaration statement.
type VarStmt struct {
	NodeInfo
	Keyword token.Type // token.VAR, token.LET, or token.CONST
	Decls   []*VarDeclarator
}

func (*VarStmt) stmtNode() {}

// ExprStmt wraps an expression used in statement position.
type ExprStmt struct {
	NodeInfo
	Expr Expr
}

func (*ExprStmt) stmtNode() {}

// BlockStmt represents a braced statement list.
type BlockStmt struct {
	NodeInfo
	Statements []Stmt
}

func (*BlockStmt) stmtNode() {}

// IfStmt represents if/else. Else is nil, a *BlockStmt, another *IfStmt
// (else-if chain), or any single statement.
type IfStmt struct {
	NodeInfo
	Cond Expr
	Then Stmt
	Else Stmt
}

func (*IfStmt) stmtNode() {}

// ForStmt represents the three-clause for loop. Any of Init, Cond, Post
// may be nil.
type ForStmt struct {
	NodeInfo
	Init Stmt // *VarStmt or *ExprStmt
	Cond Expr
	Post Expr
	Body Stmt
}

func (*ForStmt) stmtNode() {}

// ForInStmt represents for (name in object) iteration.
type ForInStmt struct {
	NodeInfo
	Keyword token.Type // declaration keyword, or token.ILLEGAL for a bare name
	Name    string
	Object  Expr
	Body    Stmt
}

func (*ForInStmt) stmtNode() {}

// WhileStmt represents a while loop.
type WhileStmt struct {
	NodeInfo
	Cond Expr
	Body Stmt
}

func (*WhileStmt) stmtNode() {}

// DoWhileStmt represents a do-while loop.
type DoWhileStmt struct {
	NodeInfo
	Body Stmt
	Cond Expr
}

func (*DoWhileStmt) stmtNode() {}

// ReturnStmt represents a return statement. Value may be nil.
type ReturnStmt struct {
	NodeInfo
	Value Expr
}

func (*ReturnStmt) stmtNode() {}

// BreakStmt represents a break statement.
type BreakStmt struct {
	NodeInfo
}

func (*BreakStmt) stmtNode() {}

// ContinueStmt represents a continue statement.
type ContinueStmt struct {
	NodeInfo
}

func (*ContinueStmt) stmtNode() {}

// EmptyStmt represents a lone semicolon.
type EmptyStmt struct {
	NodeInfo
}

func (*EmptyStmt) stmtNode() {}

// ---------- Expressions ----------

// Ident represents an identifier reference.
type Ident struct {
	NodeInfo
	Name string
}

func (*Ident) exprNode() {}

// NumberLit represents a numeric literal; the literal text is kept verbatim.
type NumberLit struct {
	NodeInfo
	Literal string
}

func (*NumberLit) exprNode() {}

// StringLit represents a quoted string literal with escapes resolved.
type StringLit struct {
	NodeInfo
	Value string
}

func (*StringLit) exprNode() {}

// BoolLit represents true/false.
type BoolLit struct {
	NodeInfo
	Value bool
}

func (*BoolLit) exprNode() {}

// NullLit represents the null or empty literal.
type NullLit struct {
	NodeInfo
	Empty bool // true for the empty keyword
}

func (*NullLit) exprNode() {}

// TemplatePart is one segment of a template literal: literal text followed
// by an optional interpolation hole.
type TemplatePart struct {
	Text string
	Expr Expr // nil for a trailing text-only part
}

// TemplateLit represents a backtick template literal with {{ expr }} holes.
type TemplateLit struct {
	NodeInfo
	Raw   string // verbatim literal including backticks
	Parts []TemplatePart
}

func (*TemplateLit) exprNode() {}

// Property is a key-value entry in an object literal.
type Property struct {
	NodeInfo
	Key   string
	Value Expr
}

// ObjectLit represents an object literal.
type ObjectLit struct {
	NodeInfo
	Props []*Property
}

func (*ObjectLit) exprNode() {}

// ArrayLit represents an array literal.
type ArrayLit struct {
	NodeInfo
	Elements []Expr
}

func (*ArrayLit) exprNode() {}

// FuncExpr represents a function expression, optionally named.
type FuncExpr struct {
	NodeInfo
	Name   string // empty for anonymous functions
	Params []string
	Body   *BlockStmt
}

func (*FuncExpr) exprNode() {}

// ArrowFunc represents an arrow function. Body is either a *BlockStmt
// (braced body) or an ExprStmt wrapping the implicit-return expression.
type ArrowFunc struct {
	NodeInfo
	Params []string
	Body   Stmt
}

func (*ArrowFunc) exprNode() {}

// CallExpr represents a function or method call.
type CallExpr struct {
	NodeInfo
	Callee Expr
	Args   []Expr
}

func (*CallExpr) exprNode() {}

// MemberExpr represents dotted member access.
type MemberExpr struct {
	NodeInfo
	Object   Expr
	Property string
}

func (*MemberExpr) exprNode() {}

// IndexExpr represents bracketed index access.
type IndexExpr struct {
	NodeInfo
	Object Expr
	Index  Expr
}

func (*IndexExpr) exprNode() {}

// AssignExpr represents assignment, including compound forms.
type AssignExpr struct {
	NodeInfo
	Op     token.Type // token.ASSIGN, token.PLUS_ASSIGN, ...
	Target Expr
	Value  Expr
}

func (*AssignExpr) exprNode() {}

// BinaryExpr represents a binary operation.
type BinaryExpr struct {
	NodeInfo
	Left  Expr
	Op    token.Type
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// UnaryExpr represents prefix (-x, !x, ++x) and postfix (x++, x--) operators.
type UnaryExpr struct {
	NodeInfo
	Op      token.Type
	Operand Expr
	Postfix bool
}

func (*UnaryExpr) exprNode() {}

// CondExpr represents the ternary conditional.
type CondExpr struct {
	NodeInfo
	Cond Expr
	Then Expr
	Else Expr
}

func (*CondExpr) exprNode() {}
