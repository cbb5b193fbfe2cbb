package core

import "github.com/leapstack-labs/tsqlscript/pkg/token"

// ---------- Variables, control flow and procedural statements ----------

// DeclareStmt is DECLARE @a type [= init][, ...].
type DeclareStmt struct {
	StmtInfo
	Vars []*DeclareVar
}

func (*DeclareStmt) stmtNode() {}

// DeclareVar is a single variable declaration.
type DeclareVar struct {
	NodeInfo
	Name  string
	Type  *DataType        // scalar variables
	Table *TableDefinition // table variables
	Init  Expr
}

// SetVariableStmt is SET @v = expr (or a compound assignment).
type SetVariableStmt struct {
	StmtInfo
	Name  string
	Op    token.TokenType
	Value Expr
}

func (*SetVariableStmt) stmtNode() {}

// SetOptionStmt is a session option:
//
//	SET NOCOUNT ON
//	SET ANSI_NULLS, QUOTED_IDENTIFIER OFF
//	SET IDENTITY_INSERT dbo.t ON
//	SET ROWCOUNT 10
//	SET TRANSACTION ISOLATION LEVEL READ COMMITTED
type SetOptionStmt struct {
	StmtInfo
	Options []string        // option names, as written
	Words   []string        // trailing option words such as ISOLATION LEVEL READ COMMITTED
	Value   Expr            // option argument, nil when absent
	State   token.TokenType // ON, OFF, or EOF when absent
}

func (*SetOptionStmt) stmtNode() {}

// PrintStmt is PRINT expr.
type PrintStmt struct {
	StmtInfo
	Expr Expr
}

func (*PrintStmt) stmtNode() {}

// UseStmt is USE database.
type UseStmt struct {
	StmtInfo
	Database string
}

func (*UseStmt) stmtNode() {}

// BlockStmt is BEGIN ... END.
type BlockStmt struct {
	StmtInfo
	Stmts []Stmt
}

func (*BlockStmt) stmtNode() {}

// IfStmt is IF cond stmt [ELSE stmt].
type IfStmt struct {
	StmtInfo
	Cond Expr
	Then Stmt
	Else Stmt
}

func (*IfStmt) stmtNode() {}

// WhileStmt is WHILE cond stmt.
type WhileStmt struct {
	StmtInfo
	Cond Expr
	Body Stmt
}

func (*WhileStmt) stmtNode() {}

// ReturnStmt is RETURN [expr].
type ReturnStmt struct {
	StmtInfo
	Value Expr
}

func (*ReturnStmt) stmtNode() {}

// BreakStmt is BREAK.
type BreakStmt struct {
	StmtInfo
}

func (*BreakStmt) stmtNode() {}

// ContinueStmt is CONTINUE.
type ContinueStmt struct {
	StmtInfo
}

func (*ContinueStmt) stmtNode() {}

// TryCatchStmt is BEGIN TRY ... END TRY BEGIN CATCH ... END CATCH.
type TryCatchStmt struct {
	StmtInfo
	Try   []Stmt
	Catch []Stmt
}

func (*TryCatchStmt) stmtNode() {}

// ExecStmt is EXEC [@rc =] proc args or EXEC (string).
type ExecStmt struct {
	StmtInfo
	ReturnVar string
	Proc      *ObjectName // nil for dynamic SQL
	Dynamic   []Expr      // EXEC ('...' + @sql)
	Args      []*ExecArg
}

func (*ExecStmt) stmtNode() {}

// ExecArg is a procedure argument: [@name =] value [OUTPUT].
type ExecArg struct {
	NodeInfo
	Name   string
	Value  Expr
	Output bool
}

// TransactionKind identifies a transaction statement.
type TransactionKind int

// Transaction statement kinds.
const (
	TransactionBegin TransactionKind = iota
	TransactionCommit
	TransactionRollback
	TransactionSave
)

// TransactionStmt is BEGIN|COMMIT|ROLLBACK|SAVE [TRAN|TRANSACTION] [name].
type TransactionStmt struct {
	StmtInfo
	Kind TransactionKind
	Tran token.TokenType // TRAN or TRANSACTION; EOF when omitted
	Name string
}

func (*TransactionStmt) stmtNode() {}

// RaiseErrorStmt is RAISERROR (msg, severity, state[, args]) [WITH option[, option]].
type RaiseErrorStmt struct {
	StmtInfo
	Args    []Expr
	Options []string // LOG, NOWAIT, SETERROR as written
}

func (*RaiseErrorStmt) stmtNode() {}

// WaitForStmt is WAITFOR DELAY|TIME value.
type WaitForStmt struct {
	StmtInfo
	Kind  string // DELAY or TIME as written
	Value Expr
}

func (*WaitForStmt) stmtNode() {}
