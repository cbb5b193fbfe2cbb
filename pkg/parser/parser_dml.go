package parser

import (
	"github.com/leapstack-labs/tsqlscript/pkg/core"
	"github.com/leapstack-labs/tsqlscript/pkg/dialect"
	"github.com/leapstack-labs/tsqlscript/pkg/token"
)

// Data modification statements.
//
// Grammar:
//
//	insert → INSERT [TOP "(" expr ")" [PERCENT]] [INTO] name ["(" cols ")"] [output]
//	         (VALUES row {"," row} | query | exec | DEFAULT VALUES)
//	update → UPDATE [top] target SET set_list [output] [FROM from_list] [WHERE expr]
//	delete → DELETE [top] [FROM] target [output] [FROM from_list] [WHERE expr]
//	merge  → MERGE [top] [INTO] target [[AS] alias] USING table_source ON expr
//	         when_clause+ [output]
//	exec   → EXEC[UTE] ("(" expr ")" | [@rc "="] name [arg {"," arg}])
//	arg    → [@name "="] (expr | DEFAULT) [OUTPUT | OUT]

// parseInsert parses an INSERT statement.
func (p *Parser) parseInsert() *core.InsertStmt {
	start := p.token.Pos
	p.nextToken() // consume INSERT

	stmt := &core.InsertStmt{}
	if p.check(token.TOP) {
		stmt.Top = p.parseTop(true)
	}
	p.match(token.INTO)
	stmt.Target = p.parseObjectName()

	if p.check(token.LPAREN) && !p.isQueryAhead() {
		stmt.Columns = p.parseIdentList()
	}
	if p.check(token.OUTPUT) && p.dialect.Has(dialect.FeatureOutput) {
		stmt.Output = p.parseOutputClause()
	}

	stmt.Source = p.parseInsertSource()
	stmt.Loc = p.spanFrom(start)
	return stmt
}

// parseInsertSource parses the row source of an INSERT.
func (p *Parser) parseInsertSource() core.InsertSource {
	start := p.token.Pos
	switch {
	case p.check(token.VALUES):
		p.nextToken()
		src := &core.ValuesSource{}
		for {
			src.Rows = append(src.Rows, p.parseValuesRow())
			if !p.dialect.Has(dialect.FeatureRowConstructors) || !p.match(token.COMMA) {
				break
			}
		}
		src.Loc = p.spanFrom(start)
		return src

	case p.check(token.SELECT), p.check(token.LPAREN):
		src := &core.SelectSource{Query: p.parseQuery()}
		src.Loc = p.spanFrom(start)
		return src

	case p.check(token.EXEC), p.check(token.EXECUTE):
		src := &core.ExecSource{Exec: p.parseExec()}
		src.Loc = p.spanFrom(start)
		return src

	case p.check(token.DEFAULT):
		p.nextToken()
		if !p.expect(token.VALUES) {
			return nil
		}
		src := &core.DefaultValuesSource{}
		src.Loc = p.spanFrom(start)
		return src
	}
	p.fail()
	return nil
}

// parseValuesRow parses "(" expr {"," expr} ")".
func (p *Parser) parseValuesRow() *core.ValuesRow {
	start := p.token.Pos
	row := &core.ValuesRow{}
	if !p.expect(token.LPAREN) {
		return row
	}
	row.Values = p.parseExpressionList()
	p.expect(token.RPAREN)
	row.Loc = p.spanFrom(start)
	return row
}

// parseDMLTarget parses the target table of UPDATE, DELETE or MERGE with
// optional table hints. MERGE targets also take an alias.
func (p *Parser) parseDMLTarget(alias bool) *core.TableRef {
	start := p.token.Pos
	ref := &core.TableRef{Name: p.parseObjectName()}
	if alias && !isWord(p.token, "USING") {
		ref.Alias = p.parseAlias(false)
	}
	if p.check(token.WITH) && p.checkPeek(token.LPAREN) {
		ref.Hints = p.parseTableHints()
	}
	ref.Loc = p.spanFrom(start)
	return ref
}

// parseUpdate parses an UPDATE statement.
func (p *Parser) parseUpdate() *core.UpdateStmt {
	start := p.token.Pos
	p.nextToken() // consume UPDATE

	stmt := &core.UpdateStmt{}
	if p.check(token.TOP) {
		stmt.Top = p.parseTop(true)
	}
	stmt.Target = p.parseDMLTarget(false)
	if !p.check(token.SET) {
		p.fail()
		return stmt
	}
	stmt.Set = p.parseSetClause()

	if p.check(token.OUTPUT) && p.dialect.Has(dialect.FeatureOutput) {
		stmt.Output = p.parseOutputClause()
	}
	if p.check(token.FROM) {
		stmt.From = p.parseFromClause()
	}
	if p.check(token.WHERE) {
		stmt.Where = p.parseWhereClause()
	}
	stmt.Loc = p.spanFrom(start)
	return stmt
}

// parseSetClause parses SET target op expr {"," target op expr}.
func (p *Parser) parseSetClause() *core.SetClause {
	start := p.token.Pos
	p.nextToken() // consume SET

	set := &core.SetClause{}
	for {
		item := p.parseSetItem()
		if item == nil {
			break
		}
		set.Items = append(set.Items, item)
		if !p.match(token.COMMA) {
			break
		}
	}
	set.Loc = p.spanFrom(start)
	return set
}

// parseSetItem parses column = expr or @var = expr, including compound
// assignments.
func (p *Parser) parseSetItem() *core.SetItem {
	start := p.token.Pos
	item := &core.SetItem{}
	if p.check(token.VARIABLE) {
		item.Target = &core.VariableRef{NodeInfo: core.NodeInfo{Loc: p.token.Span()}, Name: p.token.Literal}
		p.nextToken()
	} else {
		col, ok := p.parseColumnRef()
		if !ok {
			return nil
		}
		item.Target = col
	}

	if !p.check(token.EQ) && !p.token.Type.IsAssignment() {
		p.fail()
		return nil
	}
	item.Op = p.token.Type
	p.nextToken()
	item.Value = p.parseExpression()
	item.Loc = p.spanFrom(start)
	return item
}

// parseDelete parses a DELETE statement.
func (p *Parser) parseDelete() *core.DeleteStmt {
	start := p.token.Pos
	p.nextToken() // consume DELETE

	stmt := &core.DeleteStmt{}
	if p.check(token.TOP) {
		stmt.Top = p.parseTop(true)
	}
	p.match(token.FROM)
	stmt.Target = p.parseDMLTarget(false)

	if p.check(token.OUTPUT) && p.dialect.Has(dialect.FeatureOutput) {
		stmt.Output = p.parseOutputClause()
	}
	if p.check(token.FROM) {
		stmt.From = p.parseFromClause()
	}
	if p.check(token.WHERE) {
		stmt.Where = p.parseWhereClause()
	}
	stmt.Loc = p.spanFrom(start)
	return stmt
}

// parseMerge parses a MERGE statement.
//
//	WHEN MATCHED [AND cond] THEN UPDATE SET ... | DELETE
//	WHEN NOT MATCHED [BY TARGET] [AND cond] THEN INSERT [(cols)] VALUES (...) | DEFAULT VALUES
//	WHEN NOT MATCHED BY SOURCE [AND cond] THEN UPDATE SET ... | DELETE
func (p *Parser) parseMerge() *core.MergeStmt {
	start := p.token.Pos
	p.nextToken() // consume MERGE

	stmt := &core.MergeStmt{}
	if p.check(token.TOP) {
		stmt.Top = p.parseTop(true)
	}
	p.match(token.INTO)
	stmt.Target = p.parseDMLTarget(true)

	if !p.expectWord("USING") {
		return stmt
	}
	stmt.Using = p.parseTableSource()
	if !p.expect(token.ON) {
		return stmt
	}
	stmt.On = p.parseExpression()

	for p.check(token.WHEN) && !p.panicking {
		stmt.Clauses = append(stmt.Clauses, p.parseMergeClause())
	}
	if len(stmt.Clauses) == 0 {
		p.fail()
		return stmt
	}
	if p.check(token.OUTPUT) {
		stmt.Output = p.parseOutputClause()
	}
	stmt.Loc = p.spanFrom(start)
	return stmt
}

// parseMergeClause parses a single WHEN clause of MERGE.
func (p *Parser) parseMergeClause() *core.MergeClause {
	start := p.token.Pos
	p.nextToken() // consume WHEN

	c := &core.MergeClause{Match: core.MergeMatched}
	if p.match(token.NOT) {
		c.Match = core.MergeNotMatched
	}
	if !p.expectWord("MATCHED") {
		return c
	}
	if c.Match == core.MergeNotMatched && p.match(token.BY) {
		switch {
		case p.matchWord("TARGET"):
			c.ByTarget = true
		case p.matchWord("SOURCE"):
			c.Match = core.MergeNotMatchedBySource
		default:
			p.fail()
			return c
		}
	}
	if p.match(token.AND) {
		c.Cond = p.parseExpression()
	}
	if !p.expect(token.THEN) {
		return c
	}

	switch {
	case p.check(token.UPDATE) && c.Match != core.MergeNotMatched:
		p.nextToken()
		c.Action = core.MergeUpdate
		if !p.check(token.SET) {
			p.fail()
			return c
		}
		c.Set = p.parseSetClause()
	case p.check(token.DELETE) && c.Match != core.MergeNotMatched:
		p.nextToken()
		c.Action = core.MergeDelete
	case p.check(token.INSERT) && c.Match == core.MergeNotMatched:
		p.nextToken()
		c.Action = core.MergeInsert
		if p.check(token.LPAREN) {
			c.Columns = p.parseIdentList()
		}
		switch {
		case p.match(token.VALUES):
			c.Values = p.parseValuesRow()
		case p.match(token.DEFAULT):
			p.expect(token.VALUES)
		default:
			p.fail()
		}
	default:
		p.fail()
	}
	c.Loc = p.spanFrom(start)
	return c
}

// parseExec parses EXEC or EXECUTE.
func (p *Parser) parseExec() *core.ExecStmt {
	start := p.token.Pos
	p.nextToken() // consume EXEC

	stmt := &core.ExecStmt{}
	if p.match(token.LPAREN) {
		stmt.Dynamic = p.parseExpressionList()
		p.expect(token.RPAREN)
		stmt.Loc = p.spanFrom(start)
		return stmt
	}

	if p.check(token.VARIABLE) && p.checkPeek(token.EQ) {
		stmt.ReturnVar = p.token.Literal
		p.nextToken()
		p.nextToken()
	}
	stmt.Proc = p.parseObjectName()

	if p.canStartExpr() || p.check(token.DEFAULT) {
		for {
			stmt.Args = append(stmt.Args, p.parseExecArg())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	stmt.Loc = p.spanFrom(start)
	return stmt
}

// parseExecArg parses [@name =] value [OUTPUT].
func (p *Parser) parseExecArg() *core.ExecArg {
	start := p.token.Pos
	arg := &core.ExecArg{}
	if p.check(token.VARIABLE) && p.checkPeek(token.EQ) {
		arg.Name = p.token.Literal
		p.nextToken()
		p.nextToken()
	}
	arg.Value = p.parseExpression()
	switch {
	case p.match(token.OUTPUT):
		arg.Output = true
	case p.matchWord("OUTPUT"), p.matchWord("OUT"):
		arg.Output = true
	}
	arg.Loc = p.spanFrom(start)
	return arg
}
