package core

// ---------- Data definition ----------

// CreateTableStmt is CREATE TABLE name (definitions).
type CreateTableStmt struct {
	StmtInfo
	Name  *ObjectName
	Table *TableDefinition
}

func (*CreateTableStmt) stmtNode() {}

// TableDefinition is the parenthesized body of CREATE TABLE or DECLARE @t TABLE.
type TableDefinition struct {
	NodeInfo
	Columns     []*ColumnDef
	Constraints []*TableConstraint
}

// ColumnDef is a column definition.
type ColumnDef struct {
	NodeInfo
	Name        string
	Type        *DataType // nil for computed columns
	Computed    Expr      // AS expr
	Constraints []*ColumnConstraint
}

// ConstraintKind identifies a column or table constraint.
type ConstraintKind int

// Constraint kinds.
const (
	ConstraintNull ConstraintKind = iota
	ConstraintNotNull
	ConstraintIdentity
	ConstraintDefault
	ConstraintPrimaryKey
	ConstraintUnique
	ConstraintCheck
	ConstraintForeignKey
	ConstraintCollate
)

// ColumnConstraint is a constraint attached to a column definition.
type ColumnConstraint struct {
	NodeInfo
	Name      string // CONSTRAINT name, empty when unnamed
	Kind      ConstraintKind
	Expr      Expr        // DEFAULT and CHECK
	Clustered string      // CLUSTERED or NONCLUSTERED as written
	Seed      string      // IDENTITY(seed, increment)
	Increment string      //
	Collation string      // COLLATE name
	Ref       *ForeignRef // REFERENCES
}

// TableConstraint is a table-level constraint.
type TableConstraint struct {
	NodeInfo
	Name      string
	Kind      ConstraintKind // PrimaryKey, Unique, Check or ForeignKey
	Clustered string
	Columns   []*OrderItem // key columns with optional direction
	Check     Expr
	Ref       *ForeignRef
}

// ForeignRef is REFERENCES table [(columns)] [ON DELETE action] [ON UPDATE action].
type ForeignRef struct {
	NodeInfo
	Table    *ObjectName
	Columns  []string
	OnDelete []string // action words, e.g. NO ACTION, CASCADE, SET NULL
	OnUpdate []string
}

// CreateViewStmt is CREATE|ALTER VIEW name [(columns)] [WITH SCHEMABINDING] AS query [WITH CHECK OPTION].
type CreateViewStmt struct {
	StmtInfo
	Alter       bool
	Name        *ObjectName
	Columns     []string
	Attributes  []string // view attributes after WITH, as written
	Query       *SelectStmt
	CheckOption bool
}

func (*CreateViewStmt) stmtNode() {}

// ObjectKind is the object type of a DROP.
type ObjectKind int

// Object kinds.
const (
	ObjectTable ObjectKind = iota
	ObjectView
	ObjectProcedure
	ObjectFunction
)

// DropStmt is DROP TABLE|VIEW|PROCEDURE|FUNCTION [IF EXISTS] name[, name].
type DropStmt struct {
	StmtInfo
	Kind     ObjectKind
	IfExists bool
	Names    []*ObjectName
}

func (*DropStmt) stmtNode() {}

// TruncateStmt is TRUNCATE TABLE name.
type TruncateStmt struct {
	StmtInfo
	Name *ObjectName
}

func (*TruncateStmt) stmtNode() {}

// CreateProcedureStmt is CREATE|ALTER PROC[EDURE] name [params] [WITH options] AS body.
// The body runs to the end of the batch.
type CreateProcedureStmt struct {
	StmtInfo
	Alter   bool
	Name    *ObjectName
	Params  []*ProcParam
	Options []string // RECOMPILE, ENCRYPTION, as written
	Body    []Stmt
}

func (*CreateProcedureStmt) stmtNode() {}

// ProcParam is @name [AS] type [= default] [OUTPUT] [READONLY].
type ProcParam struct {
	NodeInfo
	Name     string
	Type     *DataType
	Default  Expr
	Output   bool
	ReadOnly bool
}
