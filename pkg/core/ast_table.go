package core

// ---------- Table sources ----------

// TableRef is a named table, view or table variable with optional alias and hints.
type TableRef struct {
	NodeInfo
	Name  *ObjectName
	Alias string
	Hints []*TableHint
}

// TableHint is one entry of WITH (NOLOCK, INDEX(ix), ...).
type TableHint struct {
	Name string   // as written
	Args []string // INDEX(ix_a, 2)
}

func (*TableRef) tableNode() {}

// DerivedTable is a parenthesized subquery in FROM.
type DerivedTable struct {
	NodeInfo
	Query   *SelectStmt
	Alias   string
	Columns []string
}

func (*DerivedTable) tableNode() {}

// TableFuncRef is a table-valued function call in FROM.
type TableFuncRef struct {
	NodeInfo
	Call  *FuncCall
	Alias string
}

func (*TableFuncRef) tableNode() {}

// ParenTable is a parenthesized join tree.
type ParenTable struct {
	NodeInfo
	Source TableSource
}

func (*ParenTable) tableNode() {}

// JoinType is the kind of a join or APPLY.
type JoinType int

// Join types.
const (
	JoinInner JoinType = iota
	JoinLeft
	JoinRight
	JoinFull
	JoinCross
	JoinCrossApply
	JoinOuterApply
)

// HasCondition reports whether the join type takes an ON condition.
func (j JoinType) HasCondition() bool {
	return j <= JoinFull
}

// JoinExpr joins two table sources.
type JoinExpr struct {
	NodeInfo
	Left     TableSource
	Type     JoinType
	Explicit bool // INNER or OUTER was written
	Right    TableSource
	On       Expr
}

func (*JoinExpr) tableNode() {}

// PivotTable applies PIVOT or UNPIVOT to a source.
//
//	PIVOT (SUM(amount) FOR month IN ([1], [2])) AS p
//	UNPIVOT (amount FOR month IN ([1], [2])) AS u
type PivotTable struct {
	NodeInfo
	Source    TableSource
	Unpivot   bool
	Aggregate *FuncCall // PIVOT only
	Value     string    // UNPIVOT only: the value column
	For       *ColumnRef
	In        []string
	Alias     string
}

func (*PivotTable) tableNode() {}
