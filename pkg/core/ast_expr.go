package core

import (
	"strings"

	"github.com/leapstack-labs/tsqlscript/pkg/token"
)

// ---------- Expression Types ----------

// ColumnRef is a possibly qualified column reference (t.a, dbo.t.a).
type ColumnRef struct {
	NodeInfo
	Parts []string
}

func (*ColumnRef) exprNode() {}

// String joins the parts with dots.
func (c *ColumnRef) String() string { return strings.Join(c.Parts, ".") }

// StarExpr is * or qualifier.*.
type StarExpr struct {
	NodeInfo
	Qualifier []string
}

func (*StarExpr) exprNode() {}

// LiteralKind classifies a literal.
type LiteralKind int

// LiteralKind constants.
const (
	LiteralNumber LiteralKind = iota
	LiteralString
	LiteralNString
	LiteralBinary
	LiteralMoney
	LiteralNull
	LiteralDefault
)

// Literal is a constant; Raw keeps the source text (quotes included).
type Literal struct {
	NodeInfo
	Kind LiteralKind
	Raw  string
}

func (*Literal) exprNode() {}

// VariableRef is @name or @@name.
type VariableRef struct {
	NodeInfo
	Name string
}

func (*VariableRef) exprNode() {}

// BinaryExpr is left op right, including AND and OR.
type BinaryExpr struct {
	NodeInfo
	Left  Expr
	Op    token.TokenType
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// UnaryExpr is op x for -, +, ~ and NOT.
type UnaryExpr struct {
	NodeInfo
	Op token.TokenType
	X  Expr
}

func (*UnaryExpr) exprNode() {}

// ParenExpr is (x).
type ParenExpr struct {
	NodeInfo
	X Expr
}

func (*ParenExpr) exprNode() {}

// FuncCall is name([DISTINCT] args) [OVER (...)].
// Function names are kept as written.
type FuncCall struct {
	NodeInfo
	Name     *ObjectName
	Distinct bool
	Star     bool // COUNT(*)
	Args     []Expr
	Over     *OverClause
}

func (*FuncCall) exprNode() {}

// OverClause is OVER ([PARTITION BY ...] [ORDER BY ...]).
type OverClause struct {
	NodeInfo
	PartitionBy []Expr
	OrderBy     *OrderByClause
}

// CaseExpr is CASE [operand] WHEN ... THEN ... [ELSE ...] END.
type CaseExpr struct {
	NodeInfo
	Operand Expr
	Whens   []*WhenClause
	Else    Expr
}

func (*CaseExpr) exprNode() {}

// WhenClause is WHEN cond THEN result.
type WhenClause struct {
	NodeInfo
	Cond   Expr
	Result Expr
}

// CastExpr is CAST(x AS type).
type CastExpr struct {
	NodeInfo
	X    Expr
	Type *DataType
}

func (*CastExpr) exprNode() {}

// ConvertExpr is CONVERT(type, x[, style]).
type ConvertExpr struct {
	NodeInfo
	Type  *DataType
	X     Expr
	Style Expr
}

func (*ConvertExpr) exprNode() {}

// CollateExpr is x COLLATE name.
type CollateExpr struct {
	NodeInfo
	X         Expr
	Collation string
}

func (*CollateExpr) exprNode() {}

// SubqueryExpr is a parenthesized scalar subquery, optionally quantified
// by ALL or ANY as the right operand of a comparison.
type SubqueryExpr struct {
	NodeInfo
	Quantifier token.TokenType // ALL, ANY or EOF
	Query      *SelectStmt
}

func (*SubqueryExpr) exprNode() {}

// ExistsExpr is EXISTS (query).
type ExistsExpr struct {
	NodeInfo
	Query *SelectStmt
}

func (*ExistsExpr) exprNode() {}

// InExpr is x [NOT] IN (list) or x [NOT] IN (query).
type InExpr struct {
	NodeInfo
	X     Expr
	Not   bool
	List  []Expr
	Query *SelectStmt
}

func (*InExpr) exprNode() {}

// BetweenExpr is x [NOT] BETWEEN low AND high.
type BetweenExpr struct {
	NodeInfo
	X    Expr
	Not  bool
	Low  Expr
	High Expr
}

func (*BetweenExpr) exprNode() {}

// LikeExpr is x [NOT] LIKE pattern [ESCAPE esc].
type LikeExpr struct {
	NodeInfo
	X       Expr
	Not     bool
	Pattern Expr
	Escape  Expr
}

func (*LikeExpr) exprNode() {}

// IsNullExpr is x IS [NOT] NULL.
type IsNullExpr struct {
	NodeInfo
	X   Expr
	Not bool
}

func (*IsNullExpr) exprNode() {}
