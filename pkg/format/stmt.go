package format

import (
	"github.com/leapstack-labs/tsqlscript/pkg/core"
	"github.com/leapstack-labs/tsqlscript/pkg/token"
)

// formatStatement renders a statement and its terminator.
//
//nolint:gocyclo // one case per statement type
func (p *Printer) formatStatement(stmt core.Stmt) {
	switch s := stmt.(type) {
	case *core.SelectStmt:
		p.aligned(func(q *Printer) { q.formatSelect(s) })
	case *core.InsertStmt:
		p.aligned(func(q *Printer) { q.formatInsert(s) })
	case *core.UpdateStmt:
		p.aligned(func(q *Printer) { q.formatUpdate(s) })
	case *core.DeleteStmt:
		p.aligned(func(q *Printer) { q.formatDelete(s) })
	case *core.MergeStmt:
		p.aligned(func(q *Printer) { q.formatMerge(s) })
	case *core.CreateViewStmt:
		p.aligned(func(q *Printer) { q.formatCreateView(s) })
	case *core.CreateTableStmt:
		p.formatCreateTable(s)
	case *core.CreateProcedureStmt:
		p.formatCreateProcedure(s)
		return // the body's last statement carries the terminator
	case *core.DropStmt:
		p.formatDrop(s)
	case *core.TruncateStmt:
		p.kw(token.TRUNCATE, token.TABLE)
		p.space()
		p.formatObjectName(s.Name)
	case *core.DeclareStmt:
		p.formatDeclare(s)
	case *core.SetVariableStmt:
		p.kw(token.SET)
		p.write(" " + s.Name + " " + s.Op.String() + " ")
		p.formatExpr(s.Value)
	case *core.SetOptionStmt:
		p.formatSetOption(s)
	case *core.PrintStmt:
		p.kw(token.PRINT)
		p.space()
		p.formatExpr(s.Expr)
	case *core.UseStmt:
		p.kw(token.USE)
		p.write(" " + s.Database)
	case *core.BlockStmt:
		p.kw(token.BEGIN)
		p.formatBlock(s.Stmts)
		p.newline()
		p.kw(token.END)
	case *core.TryCatchStmt:
		p.kw(token.BEGIN, token.TRY)
		p.formatBlock(s.Try)
		p.newline()
		p.kw(token.END, token.TRY)
		p.newline()
		p.kw(token.BEGIN, token.CATCH)
		p.formatBlock(s.Catch)
		p.newline()
		p.kw(token.END, token.CATCH)
	case *core.IfStmt:
		p.formatIf(s)
		return // IF and WHILE end with their body's terminator
	case *core.WhileStmt:
		p.kw(token.WHILE)
		p.space()
		p.formatExpr(s.Cond)
		p.formatBody(s.Body)
		return
	case *core.ReturnStmt:
		p.kw(token.RETURN)
		if s.Value != nil {
			p.space()
			p.formatExpr(s.Value)
		}
	case *core.BreakStmt:
		p.kw(token.BREAK)
	case *core.ContinueStmt:
		p.kw(token.CONTINUE)
	case *core.ExecStmt:
		p.formatExec(s)
	case *core.TransactionStmt:
		p.formatTransaction(s)
	case *core.RaiseErrorStmt:
		p.kw(token.RAISERROR)
		p.parenList(true, len(s.Args), func(i int) { p.formatExpr(s.Args[i]) }, false)
		if len(s.Options) > 0 {
			p.space()
			p.kw(token.WITH)
			p.space()
			p.words(s.Options, ", ")
		}
	case *core.WaitForStmt:
		p.kw(token.WAITFOR)
		p.space()
		p.word(s.Kind)
		p.space()
		p.formatExpr(s.Value)
	}
	p.terminate(stmt)
}

func (p *Printer) terminate(stmt core.Stmt) {
	if p.opts.IncludeSemicolons || stmt.IsTerminated() {
		p.write(";")
	}
}

// formatBlock prints statements one per line, one level deeper.
func (p *Printer) formatBlock(stmts []core.Stmt) {
	p.indent()
	for _, s := range stmts {
		p.newline()
		p.formatStatement(s)
	}
	p.dedent()
}

// formatBody prints the statement governed by IF, ELSE or WHILE. BEGIN
// blocks stay at the level of their keyword.
func (p *Printer) formatBody(stmt core.Stmt) {
	switch stmt.(type) {
	case *core.BlockStmt, *core.TryCatchStmt:
		p.newline()
		p.formatStatement(stmt)
	default:
		p.formatBlock([]core.Stmt{stmt})
	}
}

func (p *Printer) formatIf(s *core.IfStmt) {
	p.kw(token.IF)
	p.space()
	p.formatExpr(s.Cond)
	p.formatBody(s.Then)
	if s.Else == nil {
		return
	}
	p.newline()
	p.kw(token.ELSE)
	if elseIf, ok := s.Else.(*core.IfStmt); ok {
		p.space()
		p.formatIf(elseIf)
		return
	}
	p.formatBody(s.Else)
}

func (p *Printer) formatDeclare(s *core.DeclareStmt) {
	p.kw(token.DECLARE)
	p.space()
	p.formatList(len(s.Vars), func(i int) {
		v := s.Vars[i]
		p.write(v.Name + " ")
		if v.Table != nil {
			p.kw(token.TABLE)
			p.formatTableDefinition(v.Table)
			return
		}
		p.formatDataType(v.Type)
		if v.Init != nil {
			p.write(" = ")
			p.formatExpr(v.Init)
		}
	}, ", ")
}

func (p *Printer) formatSetOption(s *core.SetOptionStmt) {
	p.kw(token.SET)
	p.space()
	if len(s.Words) > 0 {
		p.kw(token.TRANSACTION)
		p.space()
		p.words(s.Words, " ")
		return
	}
	p.words(s.Options, ", ")
	if s.Value != nil {
		p.space()
		p.formatExpr(s.Value)
	}
	if s.State != token.EOF {
		p.space()
		p.kw(s.State)
	}
}

func (p *Printer) formatTransaction(s *core.TransactionStmt) {
	switch s.Kind {
	case core.TransactionBegin:
		p.kw(token.BEGIN)
	case core.TransactionCommit:
		p.kw(token.COMMIT)
	case core.TransactionRollback:
		p.kw(token.ROLLBACK)
	case core.TransactionSave:
		p.kw(token.SAVE)
	}
	if s.Tran != token.EOF {
		p.space()
		p.kw(s.Tran)
	}
	if s.Name != "" {
		p.write(" " + s.Name)
	}
}

func (p *Printer) formatExec(s *core.ExecStmt) {
	p.kw(token.EXEC)
	if s.Proc == nil {
		p.parenList(true, len(s.Dynamic), func(i int) { p.formatExpr(s.Dynamic[i]) }, false)
		return
	}
	p.space()
	if s.ReturnVar != "" {
		p.write(s.ReturnVar + " = ")
	}
	p.formatObjectName(s.Proc)
	if len(s.Args) == 0 {
		return
	}
	p.space()
	p.formatList(len(s.Args), func(i int) {
		arg := s.Args[i]
		if arg.Name != "" {
			p.write(arg.Name + " = ")
		}
		p.formatExpr(arg.Value)
		if arg.Output {
			p.space()
			p.kw(token.OUTPUT)
		}
	}, ", ")
}
