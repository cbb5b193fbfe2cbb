package core

// ---------- Queries ----------

// SelectStmt is a query: an optional WITH clause, a query body and an
// optional ORDER BY applying to the whole body. It is used both as a
// top-level statement and wherever a nested query appears.
type SelectStmt struct {
	StmtInfo
	With    *WithClause
	Body    QueryExpr
	OrderBy *OrderByClause
}

func (*SelectStmt) stmtNode() {}

// WithClause holds common table expressions.
type WithClause struct {
	NodeInfo
	CTEs []*CTE
}

// CTE is a single common table expression.
type CTE struct {
	NodeInfo
	Name    string
	Columns []string
	Query   *SelectStmt
}

// QuerySpec is a single SELECT ... FROM ... WHERE ... specification.
type QuerySpec struct {
	NodeInfo
	Quantifier Quantifier
	Top        *TopClause
	Items      []*SelectItem
	Into       *ObjectName
	From       *FromClause
	Where      *WhereClause
	GroupBy    *GroupByClause
	Having     *HavingClause
}

func (*QuerySpec) queryNode() {}

// Quantifier is the optional ALL/DISTINCT after SELECT.
type Quantifier int

// Quantifier values.
const (
	QuantifierNone Quantifier = iota
	QuantifierAll
	QuantifierDistinct
)

// SetOp is a set operator between two query bodies.
type SetOp int

// Set operators.
const (
	SetOpUnion SetOp = iota
	SetOpUnionAll
	SetOpExcept
	SetOpIntersect
)

// String returns the SQL spelling of the operator.
func (o SetOp) String() string {
	switch o {
	case SetOpUnionAll:
		return "UNION ALL"
	case SetOpExcept:
		return "EXCEPT"
	case SetOpIntersect:
		return "INTERSECT"
	default:
		return "UNION"
	}
}

// SetOpExpr combines two query bodies.
type SetOpExpr struct {
	NodeInfo
	Left  QueryExpr
	Op    SetOp
	Right QueryExpr
}

func (*SetOpExpr) queryNode() {}

// ParenQuery is a parenthesized query used as a set operator operand.
type ParenQuery struct {
	NodeInfo
	Query *SelectStmt
}

func (*ParenQuery) queryNode() {}

// SelectItem is one element of a select list or OUTPUT list.
type SelectItem struct {
	NodeInfo
	Expr  Expr
	Alias string // source text of the alias, empty when absent
}

// TopClause is TOP n [PERCENT] [WITH TIES].
type TopClause struct {
	NodeInfo
	Count    Expr
	Paren    bool // TOP (n)
	Percent  bool
	WithTies bool
}

// FromClause lists the table sources of a query.
type FromClause struct {
	NodeInfo
	Sources []TableSource
}

// WhereClause filters rows.
type WhereClause struct {
	NodeInfo
	Cond Expr
}

// GroupByClause groups rows.
type GroupByClause struct {
	NodeInfo
	Items  []Expr
	Rollup string // ROLLUP or CUBE for WITH ROLLUP / WITH CUBE, as written
}

// HavingClause filters groups.
type HavingClause struct {
	NodeInfo
	Cond Expr
}

// OrderByClause sorts results.
type OrderByClause struct {
	NodeInfo
	Items []*OrderItem
}

// Direction is the sort direction of an ORDER BY item.
type Direction int

// Sort directions. DirectionNone means the source did not specify one.
const (
	DirectionNone Direction = iota
	DirectionAsc
	DirectionDesc
)

// OrderItem is a single ORDER BY expression.
type OrderItem struct {
	NodeInfo
	Expr      Expr
	Direction Direction
}

// OutputClause is OUTPUT items [INTO target [(columns)]].
type OutputClause struct {
	NodeInfo
	Items       []*SelectItem
	Into        *ObjectName
	IntoColumns []string
}
