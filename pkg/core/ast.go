package core

import (
	"strings"

	"github.com/leapstack-labs/tsqlscript/pkg/token"
)

// Node is the base interface for all AST nodes.
// Nodes never point at their parent; Inspect computes ancestry while walking.
type Node interface {
	// Pos returns the position of the first character of the node.
	Pos() token.Position
	// End returns the position of the character immediately after the node.
	End() token.Position
	// Span returns the source range of the node.
	Span() token.Span
}

// Stmt is a marker interface for statement nodes.
type Stmt interface {
	Node
	stmtNode()
	// IsTerminated reports whether the source ended the statement with a semicolon.
	IsTerminated() bool
}

// Expr is a marker interface for expression nodes.
type Expr interface {
	Node
	exprNode()
}

// TableSource is a marker interface for FROM clause items.
type TableSource interface {
	Node
	tableNode()
}

// QueryExpr is a marker interface for query bodies (SELECT specifications and set operations).
type QueryExpr interface {
	Node
	queryNode()
}

// NodeInfo carries the source span shared by every node.
type NodeInfo struct {
	Loc token.Span
}

// Pos implements Node.
func (n *NodeInfo) Pos() token.Position { return n.Loc.Start }

// End implements Node.
func (n *NodeInfo) End() token.Position { return n.Loc.End }

// Span implements Node.
func (n *NodeInfo) Span() token.Span { return n.Loc }

// StmtInfo is embedded by every statement.
type StmtInfo struct {
	NodeInfo
	Terminated bool // source had a trailing ';'
}

// IsTerminated implements Stmt.
func (s *StmtInfo) IsTerminated() bool { return s.Terminated }

// Terminate records a trailing semicolon ending at end.
func (s *StmtInfo) Terminate(end token.Position) {
	s.Terminated = true
	s.Loc.End = end
}

// ---------- Script structure ----------

// Script is the root of a parsed T-SQL script.
type Script struct {
	NodeInfo
	Batches  []*Batch
	Comments []*token.Comment

	// Spellings maps an uppercase keyword to the spelling of its first
	// occurrence in the source, for keyword-preserving output.
	Spellings map[string]string
}

// Spelling returns the first source spelling of an uppercase keyword.
func (s *Script) Spelling(kw string) (string, bool) {
	if s == nil || s.Spellings == nil {
		return "", false
	}
	v, ok := s.Spellings[kw]
	return v, ok
}

// Batch is a sequence of statements ended by a GO separator or end of input.
type Batch struct {
	NodeInfo
	Stmts []Stmt
	Go    *GoSeparator // nil for the last batch when no separator follows
}

// GoSeparator is a batch separator line.
type GoSeparator struct {
	NodeInfo
	Count string // repeat count digits as written, "" when absent
}

// ObjectName is a multi-part name such as server.db.schema.object.
// Parts keep their source text, including brackets or quotes; an omitted
// middle part (db..t) is an empty string.
type ObjectName struct {
	NodeInfo
	Parts []string
}

// String joins the parts with dots.
func (o *ObjectName) String() string {
	if o == nil {
		return ""
	}
	return strings.Join(o.Parts, ".")
}

// Base returns the last part of the name.
func (o *ObjectName) Base() string {
	if o == nil || len(o.Parts) == 0 {
		return ""
	}
	return o.Parts[len(o.Parts)-1]
}

// DataType is a type reference such as varchar(50) or decimal(10, 2).
// Names are kept as written; they are never recased.
type DataType struct {
	NodeInfo
	Name *ObjectName
	Args []string // numeric precision/scale or MAX
}
