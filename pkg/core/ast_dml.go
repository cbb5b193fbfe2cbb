package core

import "github.com/leapstack-labs/tsqlscript/pkg/token"

// ---------- Data modification ----------

// InsertSource is the row source of an INSERT.
type InsertSource interface {
	Node
	insertSource()
}

// InsertStmt is INSERT [TOP] [INTO] target [(columns)] [OUTPUT] source.
type InsertStmt struct {
	StmtInfo
	With    *WithClause
	Top     *TopClause
	Target  *ObjectName
	Columns []string
	Output  *OutputClause
	Source  InsertSource
}

func (*InsertStmt) stmtNode() {}

// ValuesSource is VALUES (...)[, (...)].
type ValuesSource struct {
	NodeInfo
	Rows []*ValuesRow
}

func (*ValuesSource) insertSource() {}

// ValuesRow is a single parenthesized row of values.
type ValuesRow struct {
	NodeInfo
	Values []Expr
}

// SelectSource is INSERT ... SELECT.
type SelectSource struct {
	NodeInfo
	Query *SelectStmt
}

func (*SelectSource) insertSource() {}

// ExecSource is INSERT ... EXEC.
type ExecSource struct {
	NodeInfo
	Exec *ExecStmt
}

func (*ExecSource) insertSource() {}

// DefaultValuesSource is INSERT ... DEFAULT VALUES.
type DefaultValuesSource struct {
	NodeInfo
}

func (*DefaultValuesSource) insertSource() {}

// UpdateStmt is UPDATE [TOP] target SET ... [OUTPUT] [FROM] [WHERE].
type UpdateStmt struct {
	StmtInfo
	With   *WithClause
	Top    *TopClause
	Target *TableRef
	Set    *SetClause
	Output *OutputClause
	From   *FromClause
	Where  *WhereClause
}

func (*UpdateStmt) stmtNode() {}

// SetClause is the assignment list of UPDATE and MERGE.
type SetClause struct {
	NodeInfo
	Items []*SetItem
}

// SetItem is a single assignment target op value.
type SetItem struct {
	NodeInfo
	Target Expr            // *ColumnRef or *VariableRef
	Op     token.TokenType // EQ or a compound assignment
	Value  Expr
}

// DeleteStmt is DELETE [TOP] [FROM] target [OUTPUT] [FROM] [WHERE].
type DeleteStmt struct {
	StmtInfo
	With   *WithClause
	Top    *TopClause
	Target *TableRef
	Output *OutputClause
	From   *FromClause
	Where  *WhereClause
}

func (*DeleteStmt) stmtNode() {}

// MergeStmt is MERGE [INTO] target USING source ON cond WHEN ... .
type MergeStmt struct {
	StmtInfo
	With    *WithClause
	Top     *TopClause
	Target  *TableRef
	Using   TableSource
	On      Expr
	Clauses []*MergeClause
	Output  *OutputClause
}

func (*MergeStmt) stmtNode() {}

// MergeMatch is the condition kind of a WHEN clause.
type MergeMatch int

// Merge match kinds.
const (
	MergeMatched MergeMatch = iota
	MergeNotMatched
	MergeNotMatchedBySource
)

// MergeActionKind is the action of a WHEN clause.
type MergeActionKind int

// Merge actions.
const (
	MergeUpdate MergeActionKind = iota
	MergeDelete
	MergeInsert
)

// MergeClause is WHEN [NOT] MATCHED [BY SOURCE|TARGET] [AND cond] THEN action.
type MergeClause struct {
	NodeInfo
	Match    MergeMatch
	ByTarget bool // NOT MATCHED BY TARGET was written explicitly
	Cond     Expr
	Action   MergeActionKind
	Set      *SetClause // MergeUpdate
	Columns  []string   // MergeInsert
	Values   *ValuesRow // MergeInsert; nil means DEFAULT VALUES
}
