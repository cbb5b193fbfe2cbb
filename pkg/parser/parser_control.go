package parser

import (
	"github.com/leapstack-labs/tsqlscript/pkg/core"
	"github.com/leapstack-labs/tsqlscript/pkg/dialect"
	"github.com/leapstack-labs/tsqlscript/pkg/token"
)

// Variables, session options and control flow.
//
// Grammar:
//
//	declare     → DECLARE var {"," var}
//	var         → @name [AS] (type ["=" expr] | TABLE table_def)
//	set         → SET @name (= | op=) expr
//	            | SET TRANSACTION word+
//	            | SET option {"," option} [expr] [ON | OFF]
//	block       → BEGIN statement* END
//	try_catch   → BEGIN TRY statement* END TRY BEGIN CATCH statement* END CATCH
//	if          → IF expr statement [ELSE statement]
//	while       → WHILE expr statement
//	transaction → (BEGIN | COMMIT | ROLLBACK | SAVE) [TRAN | TRANSACTION] [name]

// parseDeclare parses a DECLARE statement.
func (p *Parser) parseDeclare() *core.DeclareStmt {
	start := p.token.Pos
	p.nextToken() // consume DECLARE

	stmt := &core.DeclareStmt{}
	for !p.panicking {
		if !p.check(token.VARIABLE) {
			p.fail()
			break
		}
		stmt.Vars = append(stmt.Vars, p.parseDeclareVar())
		if !p.match(token.COMMA) {
			break
		}
	}
	stmt.Loc = p.spanFrom(start)
	return stmt
}

func (p *Parser) parseDeclareVar() *core.DeclareVar {
	start := p.token.Pos
	v := &core.DeclareVar{Name: p.token.Literal}
	p.nextToken()
	p.match(token.AS)

	if p.match(token.TABLE) {
		v.Table = p.parseTableDefinition()
	} else {
		v.Type = p.parseDataType()
		if p.check(token.EQ) {
			if !p.dialect.Has(dialect.FeatureDeclareInit) {
				p.fail()
				return v
			}
			p.nextToken()
			v.Init = p.parseExpression()
		}
	}
	v.Loc = p.spanFrom(start)
	return v
}

// parseSet parses variable assignment or a session option.
func (p *Parser) parseSet() core.Stmt {
	start := p.token.Pos
	p.nextToken() // consume SET

	if p.check(token.VARIABLE) {
		stmt := &core.SetVariableStmt{Name: p.token.Literal}
		p.nextToken()
		if !p.check(token.EQ) && !p.token.Type.IsAssignment() {
			p.fail()
			return stmt
		}
		stmt.Op = p.token.Type
		p.nextToken()
		stmt.Value = p.parseExpression()
		stmt.Loc = p.spanFrom(start)
		return stmt
	}

	stmt := &core.SetOptionStmt{State: token.EOF}
	if p.check(token.TRANSACTION) {
		stmt.Options = []string{p.token.Literal}
		p.nextToken()
		for p.check(token.IDENT) && !p.token.Quoted {
			w, _ := p.takeWord()
			stmt.Words = append(stmt.Words, w)
		}
		if len(stmt.Words) == 0 {
			p.fail()
			return stmt
		}
		stmt.Loc = p.spanFrom(start)
		return stmt
	}

	stmt.Options = p.parseWordList()
	if p.panicking {
		return stmt
	}
	if !p.check(token.ON) && !p.check(token.OFF) && p.canStartExpr() {
		stmt.Value = p.parseExpression()
	}
	if p.check(token.ON) || p.check(token.OFF) {
		stmt.State = p.token.Type
		p.nextToken()
	}
	if stmt.Value == nil && stmt.State == token.EOF {
		p.fail()
		return stmt
	}
	stmt.Loc = p.spanFrom(start)
	return stmt
}

// parseBegin parses BEGIN ... END, BEGIN TRY or BEGIN TRANSACTION.
func (p *Parser) parseBegin() core.Stmt {
	switch {
	case p.checkPeek(token.TRY) && p.dialect.Has(dialect.FeatureTryCatch):
		return p.parseTryCatch()
	case p.checkPeek(token.TRAN), p.checkPeek(token.TRANSACTION):
		return p.parseTransaction(core.TransactionBegin)
	}

	start := p.token.Pos
	p.nextToken() // consume BEGIN
	block := &core.BlockStmt{}
	block.Stmts = p.parseBlockBody()
	if !p.expect(token.END) {
		return block
	}
	block.Loc = p.spanFrom(start)
	return block
}

// parseBlockBody parses statements up to the END of the enclosing block.
func (p *Parser) parseBlockBody() []core.Stmt {
	p.depth++
	defer func() { p.depth-- }()
	return p.parseStatementList(func() bool { return p.check(token.END) })
}

// parseTryCatch parses BEGIN TRY ... END TRY BEGIN CATCH ... END CATCH.
func (p *Parser) parseTryCatch() *core.TryCatchStmt {
	start := p.token.Pos
	p.nextToken() // consume BEGIN
	p.nextToken() // consume TRY

	stmt := &core.TryCatchStmt{}
	stmt.Try = p.parseBlockBody()
	if !p.expect(token.END) || !p.expect(token.TRY) {
		return stmt
	}
	if !p.expect(token.BEGIN) || !p.expect(token.CATCH) {
		return stmt
	}
	stmt.Catch = p.parseBlockBody()
	if !p.expect(token.END) || !p.expect(token.CATCH) {
		return stmt
	}
	stmt.Loc = p.spanFrom(start)
	return stmt
}

// parseIf parses IF cond statement [ELSE statement].
func (p *Parser) parseIf() *core.IfStmt {
	start := p.token.Pos
	p.nextToken() // consume IF

	stmt := &core.IfStmt{Cond: p.parseExpression()}
	if p.panicking {
		return stmt
	}
	stmt.Then = p.parseStatement()
	if p.panicking {
		return stmt
	}
	if p.match(token.ELSE) {
		stmt.Else = p.parseStatement()
		if p.panicking {
			return stmt
		}
	}
	stmt.Loc = p.spanFrom(start)
	return stmt
}

// parseWhile parses WHILE cond statement.
func (p *Parser) parseWhile() *core.WhileStmt {
	start := p.token.Pos
	p.nextToken() // consume WHILE

	stmt := &core.WhileStmt{Cond: p.parseExpression()}
	if p.panicking {
		return stmt
	}
	stmt.Body = p.parseStatement()
	if p.panicking {
		return stmt
	}
	stmt.Loc = p.spanFrom(start)
	return stmt
}

// parseTransaction parses a transaction control statement. SAVE requires
// TRAN or TRANSACTION and a name.
func (p *Parser) parseTransaction(kind core.TransactionKind) *core.TransactionStmt {
	start := p.token.Pos
	p.nextToken() // consume BEGIN/COMMIT/ROLLBACK/SAVE

	stmt := &core.TransactionStmt{Kind: kind, Tran: token.EOF}
	if p.check(token.TRAN) || p.check(token.TRANSACTION) {
		stmt.Tran = p.token.Type
		p.nextToken()
		if p.isIdent() || p.check(token.VARIABLE) {
			stmt.Name = p.token.Literal
			p.nextToken()
		}
	}
	if kind == core.TransactionSave && stmt.Name == "" {
		p.fail()
		return stmt
	}
	stmt.Loc = p.spanFrom(start)
	return stmt
}
