package parser

import (
	"github.com/leapstack-labs/tsqlscript/pkg/core"
	"github.com/leapstack-labs/tsqlscript/pkg/dialect"
	"github.com/leapstack-labs/tsqlscript/pkg/token"
)

// Statement dispatch.
//
// Grammar:
//
//	statement → body [";"]
//	body      → select_stmt | with_stmt | insert | update | delete | merge
//	          | create_table | create_view | create_proc | drop | truncate
//	          | declare | set | print | use | block | try_catch | if | while
//	          | return | break | continue | exec | transaction
//	          | raiserror | waitfor

// terminator is implemented by every statement through core.StmtInfo.
type terminator interface {
	Terminate(end token.Position)
}

// parseStatement parses one statement and its optional trailing semicolon.
// It returns nil when the current token cannot begin a statement.
func (p *Parser) parseStatement() core.Stmt {
	stmt := p.parseStatementBody()
	if stmt == nil || p.panicking {
		return stmt
	}
	if p.check(token.SEMICOLON) {
		p.nextToken()
		if t, ok := stmt.(terminator); ok {
			t.Terminate(p.prevEnd)
		}
	}
	return stmt
}

//nolint:gocyclo // one case per statement keyword
func (p *Parser) parseStatementBody() core.Stmt {
	switch p.token.Type {
	case token.SELECT:
		return p.parseSelectStatement()
	case token.LPAREN:
		if p.checkPeek(token.SELECT) || p.checkPeek(token.LPAREN) {
			return p.parseSelectStatement()
		}
	case token.WITH:
		if p.dialect.Has(dialect.FeatureCTE) {
			return p.parseWithStatement()
		}
	case token.INSERT:
		return p.parseInsert()
	case token.UPDATE:
		return p.parseUpdate()
	case token.DELETE:
		return p.parseDelete()
	case token.MERGE:
		if p.dialect.Has(dialect.FeatureMerge) && p.softActive(p.token, p.peek) {
			return p.parseMerge()
		}
	case token.CREATE, token.ALTER:
		return p.parseCreate()
	case token.DROP:
		return p.parseDrop()
	case token.TRUNCATE:
		return p.parseTruncate()
	case token.DECLARE:
		return p.parseDeclare()
	case token.SET:
		return p.parseSet()
	case token.PRINT:
		return p.parsePrint()
	case token.USE:
		return p.parseUse()
	case token.BEGIN:
		return p.parseBegin()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.RETURN:
		return p.parseReturn()
	case token.BREAK:
		start := p.token.Pos
		p.nextToken()
		s := &core.BreakStmt{}
		s.Loc = p.spanFrom(start)
		return s
	case token.CONTINUE:
		start := p.token.Pos
		p.nextToken()
		s := &core.ContinueStmt{}
		s.Loc = p.spanFrom(start)
		return s
	case token.EXEC, token.EXECUTE:
		return p.parseExec()
	case token.COMMIT:
		return p.parseTransaction(core.TransactionCommit)
	case token.ROLLBACK:
		return p.parseTransaction(core.TransactionRollback)
	case token.SAVE:
		return p.parseTransaction(core.TransactionSave)
	case token.RAISERROR:
		return p.parseRaiseError()
	case token.WAITFOR:
		return p.parseWaitFor()
	}
	p.fail()
	return nil
}

// parseWithStatement parses WITH cte_list followed by the statement that
// uses it.
func (p *Parser) parseWithStatement() core.Stmt {
	start := p.token.Pos
	with := p.parseWithClause()

	var stmt core.Stmt
	switch p.token.Type {
	case token.SELECT, token.LPAREN:
		s := p.parseSelectStatement()
		s.With = with
		s.Loc.Start = start
		stmt = s
	case token.INSERT:
		s := p.parseInsert()
		s.With = with
		s.Loc.Start = start
		stmt = s
	case token.UPDATE:
		s := p.parseUpdate()
		s.With = with
		s.Loc.Start = start
		stmt = s
	case token.DELETE:
		s := p.parseDelete()
		s.With = with
		s.Loc.Start = start
		stmt = s
	case token.MERGE:
		if !p.dialect.Has(dialect.FeatureMerge) {
			p.fail()
			return nil
		}
		s := p.parseMerge()
		s.With = with
		s.Loc.Start = start
		stmt = s
	default:
		p.fail()
		return nil
	}
	return stmt
}

// parseWithClause parses WITH name [(cols)] AS (query) {, ...}.
func (p *Parser) parseWithClause() *core.WithClause {
	start := p.token.Pos
	p.nextToken() // consume WITH

	with := &core.WithClause{}
	for {
		cteStart := p.token.Pos
		cte := &core.CTE{}
		name, ok := p.parseIdent()
		if !ok {
			break
		}
		cte.Name = name
		if p.check(token.LPAREN) {
			cte.Columns = p.parseIdentList()
		}
		if !p.expect(token.AS) || !p.expect(token.LPAREN) {
			break
		}
		cte.Query = p.parseQuery()
		p.expect(token.RPAREN)
		cte.Loc = p.spanFrom(cteStart)
		with.CTEs = append(with.CTEs, cte)

		if !p.match(token.COMMA) {
			break
		}
	}
	with.Loc = p.spanFrom(start)
	return with
}

// parseSelectStatement parses a query used as a statement.
func (p *Parser) parseSelectStatement() *core.SelectStmt {
	return p.parseQuery()
}

// parsePrint parses PRINT expr.
func (p *Parser) parsePrint() *core.PrintStmt {
	start := p.token.Pos
	p.nextToken()
	stmt := &core.PrintStmt{Expr: p.parseExpression()}
	stmt.Loc = p.spanFrom(start)
	return stmt
}

// parseUse parses USE database.
func (p *Parser) parseUse() *core.UseStmt {
	start := p.token.Pos
	p.nextToken()
	stmt := &core.UseStmt{}
	stmt.Database, _ = p.parseIdent()
	stmt.Loc = p.spanFrom(start)
	return stmt
}

// parseReturn parses RETURN [expr].
func (p *Parser) parseReturn() *core.ReturnStmt {
	start := p.token.Pos
	p.nextToken()
	stmt := &core.ReturnStmt{}
	if p.canStartExpr() {
		stmt.Value = p.parseExpression()
	}
	stmt.Loc = p.spanFrom(start)
	return stmt
}

// parseRaiseError parses RAISERROR (msg, severity, state [, args]) [WITH options].
func (p *Parser) parseRaiseError() *core.RaiseErrorStmt {
	start := p.token.Pos
	p.nextToken()
	stmt := &core.RaiseErrorStmt{}
	if p.expect(token.LPAREN) {
		stmt.Args = p.parseExpressionList()
		p.expect(token.RPAREN)
	}
	if p.check(token.WITH) && p.peek.Type == token.IDENT {
		p.nextToken()
		for {
			w, ok := p.takeWord()
			if !ok {
				break
			}
			stmt.Options = append(stmt.Options, w)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	stmt.Loc = p.spanFrom(start)
	return stmt
}

// parseWaitFor parses WAITFOR DELAY|TIME value.
func (p *Parser) parseWaitFor() *core.WaitForStmt {
	start := p.token.Pos
	p.nextToken()
	stmt := &core.WaitForStmt{}
	if !isWord(p.token, "DELAY") && !isWord(p.token, "TIME") {
		p.fail()
		return stmt
	}
	stmt.Kind, _ = p.takeWord()
	stmt.Value = p.parseExpression()
	stmt.Loc = p.spanFrom(start)
	return stmt
}
