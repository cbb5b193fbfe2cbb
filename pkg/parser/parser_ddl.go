package parser

import (
	"github.com/leapstack-labs/tsqlscript/pkg/core"
	"github.com/leapstack-labs/tsqlscript/pkg/dialect"
	"github.com/leapstack-labs/tsqlscript/pkg/token"
)

// Data definition statements.
//
// Grammar:
//
//	create_table → CREATE TABLE name table_def
//	table_def    → "(" (column_def | table_constraint) {"," ...} ")"
//	column_def   → ident (type | AS expr) {column_constraint}
//	create_view  → (CREATE | ALTER) VIEW name ["(" cols ")"] [WITH attr {"," attr}]
//	               AS query [WITH CHECK OPTION]
//	create_proc  → (CREATE | ALTER) PROC[EDURE] name [["("] param {"," param} [")"]]
//	               [WITH option {"," option}] AS statement*
//	drop         → DROP (TABLE | VIEW | PROC[EDURE] | FUNCTION) [IF EXISTS] name {"," name}
//	truncate     → TRUNCATE TABLE name

// parseCreate dispatches CREATE and ALTER.
func (p *Parser) parseCreate() core.Stmt {
	start := p.token.Pos
	alter := p.check(token.ALTER)
	p.nextToken() // consume CREATE/ALTER

	switch {
	case p.check(token.TABLE) && !alter:
		return p.parseCreateTable(start)
	case p.check(token.VIEW):
		return p.parseCreateView(start, alter)
	case p.check(token.PROC), p.check(token.PROCEDURE):
		return p.parseCreateProcedure(start, alter)
	}
	p.fail()
	return nil
}

// parseCreateTable parses the rest of CREATE TABLE.
func (p *Parser) parseCreateTable(start token.Position) *core.CreateTableStmt {
	p.nextToken() // consume TABLE
	stmt := &core.CreateTableStmt{Name: p.parseObjectName()}
	if !p.panicking {
		stmt.Table = p.parseTableDefinition()
	}
	stmt.Loc = p.spanFrom(start)
	return stmt
}

// parseTableDefinition parses a parenthesized list of column definitions
// and table constraints. It is shared by CREATE TABLE and table variables.
func (p *Parser) parseTableDefinition() *core.TableDefinition {
	start := p.token.Pos
	def := &core.TableDefinition{}
	if !p.expect(token.LPAREN) {
		return def
	}
	for !p.panicking {
		if p.isTableConstraintStart() {
			def.Constraints = append(def.Constraints, p.parseTableConstraint())
		} else {
			def.Columns = append(def.Columns, p.parseColumnDef())
		}
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	def.Loc = p.spanFrom(start)
	return def
}

// isTableConstraintStart reports whether the current token begins a
// table-level constraint rather than a column definition.
func (p *Parser) isTableConstraintStart() bool {
	switch p.token.Type {
	case token.PRIMARY, token.UNIQUE, token.CHECK, token.FOREIGN:
		return true
	case token.CONSTRAINT:
		// CONSTRAINT name followed by a table constraint kind
		switch p.peek2.Type {
		case token.PRIMARY, token.UNIQUE, token.CHECK, token.FOREIGN:
			return true
		}
	}
	return false
}

// parseColumnDef parses ident (type | AS expr) {constraint}.
func (p *Parser) parseColumnDef() *core.ColumnDef {
	start := p.token.Pos
	col := &core.ColumnDef{}
	name, ok := p.parseIdent()
	if !ok {
		return col
	}
	col.Name = name

	if p.match(token.AS) {
		col.Computed = p.parseExpression()
	} else {
		col.Type = p.parseDataType()
	}

	for !p.panicking {
		c := p.parseColumnConstraint()
		if c == nil {
			break
		}
		col.Constraints = append(col.Constraints, c)
	}
	col.Loc = p.spanFrom(start)
	return col
}

// parseColumnConstraint parses one column constraint, or returns nil when
// the current token does not begin one.
//
//nolint:gocyclo // one case per constraint kind
func (p *Parser) parseColumnConstraint() *core.ColumnConstraint {
	start := p.token.Pos
	c := &core.ColumnConstraint{}
	named := false
	if p.match(token.CONSTRAINT) {
		name, ok := p.parseIdent()
		if !ok {
			return nil
		}
		c.Name = name
		named = true
	}

	switch {
	case p.match(token.NULL):
		c.Kind = core.ConstraintNull
	case p.check(token.NOT) && p.checkPeek(token.NULL):
		p.nextToken()
		p.nextToken()
		c.Kind = core.ConstraintNotNull
	case p.match(token.IDENTITY):
		c.Kind = core.ConstraintIdentity
		if p.match(token.LPAREN) {
			c.Seed, _ = p.parseSignedNumber()
			if p.expect(token.COMMA) {
				c.Increment, _ = p.parseSignedNumber()
			}
			p.expect(token.RPAREN)
		}
	case p.match(token.DEFAULT):
		c.Kind = core.ConstraintDefault
		c.Expr = p.parseExpression()
	case p.check(token.PRIMARY):
		p.nextToken()
		c.Kind = core.ConstraintPrimaryKey
		if p.expect(token.KEY) {
			c.Clustered = p.parseClustered()
		}
	case p.match(token.UNIQUE):
		c.Kind = core.ConstraintUnique
		c.Clustered = p.parseClustered()
	case p.match(token.CHECK):
		c.Kind = core.ConstraintCheck
		if p.expect(token.LPAREN) {
			c.Expr = p.parseExpression()
			p.expect(token.RPAREN)
		}
	case p.check(token.FOREIGN), p.check(token.REFERENCES):
		if p.match(token.FOREIGN) && !p.expect(token.KEY) {
			return c
		}
		c.Kind = core.ConstraintForeignKey
		c.Ref = p.parseForeignRef()
	case p.match(token.COLLATE):
		c.Kind = core.ConstraintCollate
		c.Collation, _ = p.parseIdent()
	default:
		if named {
			p.fail()
			return c
		}
		return nil
	}
	c.Loc = p.spanFrom(start)
	return c
}

// parseTableConstraint parses a table-level constraint.
func (p *Parser) parseTableConstraint() *core.TableConstraint {
	start := p.token.Pos
	c := &core.TableConstraint{}
	if p.match(token.CONSTRAINT) {
		c.Name, _ = p.parseIdent()
	}

	switch {
	case p.check(token.PRIMARY):
		p.nextToken()
		c.Kind = core.ConstraintPrimaryKey
		if !p.expect(token.KEY) {
			return c
		}
		c.Clustered = p.parseClustered()
		c.Columns = p.parseKeyColumns()
	case p.match(token.UNIQUE):
		c.Kind = core.ConstraintUnique
		c.Clustered = p.parseClustered()
		c.Columns = p.parseKeyColumns()
	case p.match(token.CHECK):
		c.Kind = core.ConstraintCheck
		if p.expect(token.LPAREN) {
			c.Check = p.parseExpression()
			p.expect(token.RPAREN)
		}
	case p.match(token.FOREIGN):
		c.Kind = core.ConstraintForeignKey
		if !p.expect(token.KEY) {
			return c
		}
		c.Columns = p.parseKeyColumns()
		c.Ref = p.parseForeignRef()
	default:
		p.fail()
	}
	c.Loc = p.spanFrom(start)
	return c
}

// parseClustered parses an optional CLUSTERED or NONCLUSTERED.
func (p *Parser) parseClustered() string {
	if isWord(p.token, "CLUSTERED") || isWord(p.token, "NONCLUSTERED") {
		w, _ := p.takeWord()
		return w
	}
	return ""
}

// parseKeyColumns parses "(" column [ASC|DESC] {"," ...} ")".
func (p *Parser) parseKeyColumns() []*core.OrderItem {
	if !p.expect(token.LPAREN) {
		return nil
	}
	var items []*core.OrderItem
	for {
		items = append(items, p.parseOrderItem())
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	return items
}

// parseForeignRef parses REFERENCES name ["(" cols ")"] {ON (DELETE|UPDATE) action}.
func (p *Parser) parseForeignRef() *core.ForeignRef {
	start := p.token.Pos
	ref := &core.ForeignRef{}
	if !p.expect(token.REFERENCES) {
		return ref
	}
	ref.Table = p.parseObjectName()
	if p.check(token.LPAREN) {
		ref.Columns = p.parseIdentList()
	}
	for p.check(token.ON) && (p.checkPeek(token.DELETE) || p.checkPeek(token.UPDATE)) {
		p.nextToken()
		onDelete := p.check(token.DELETE)
		p.nextToken()
		action := p.parseRefAction()
		if onDelete {
			ref.OnDelete = action
		} else {
			ref.OnUpdate = action
		}
	}
	ref.Loc = p.spanFrom(start)
	return ref
}

// parseRefAction parses NO ACTION, CASCADE, SET NULL or SET DEFAULT.
func (p *Parser) parseRefAction() []string {
	switch {
	case isWord(p.token, "NO"):
		no, _ := p.takeWord()
		if !isWord(p.token, "ACTION") {
			p.fail()
			return nil
		}
		action, _ := p.takeWord()
		return []string{no, action}
	case isWord(p.token, "CASCADE"):
		w, _ := p.takeWord()
		return []string{w}
	case p.check(token.SET) && (p.checkPeek(token.NULL) || p.checkPeek(token.DEFAULT)):
		set := p.token.Literal
		p.nextToken()
		what := p.token.Literal
		p.nextToken()
		return []string{set, what}
	}
	p.fail()
	return nil
}

// parseSignedNumber parses an optionally signed numeric literal.
func (p *Parser) parseSignedNumber() (string, bool) {
	sign := ""
	if p.match(token.MINUS) {
		sign = "-"
	}
	if !p.check(token.NUMBER) {
		p.fail()
		return "", false
	}
	lit := sign + p.token.Literal
	p.nextToken()
	return lit, true
}

// parseCreateView parses the rest of CREATE VIEW or ALTER VIEW.
func (p *Parser) parseCreateView(start token.Position, alter bool) *core.CreateViewStmt {
	p.nextToken() // consume VIEW
	stmt := &core.CreateViewStmt{Alter: alter, Name: p.parseObjectName()}
	if p.check(token.LPAREN) {
		stmt.Columns = p.parseIdentList()
	}
	if p.match(token.WITH) {
		stmt.Attributes = p.parseWordList()
	}
	if !p.expect(token.AS) {
		return stmt
	}

	if p.check(token.WITH) && p.dialect.Has(dialect.FeatureCTE) {
		withStart := p.token.Pos
		with := p.parseWithClause()
		stmt.Query = p.parseQuery()
		stmt.Query.With = with
		stmt.Query.Loc.Start = withStart
	} else {
		stmt.Query = p.parseQuery()
	}

	if p.check(token.WITH) && p.checkPeek(token.CHECK) {
		p.nextToken()
		p.nextToken()
		if p.expect(token.OPTION) {
			stmt.CheckOption = true
		}
	}
	stmt.Loc = p.spanFrom(start)
	return stmt
}

// parseWordList parses word {"," word}.
func (p *Parser) parseWordList() []string {
	var words []string
	for {
		w, ok := p.takeWord()
		if !ok {
			return words
		}
		words = append(words, w)
		if !p.match(token.COMMA) {
			return words
		}
	}
}

// parseCreateProcedure parses the rest of CREATE or ALTER PROCEDURE. The
// body extends to the next batch separator.
func (p *Parser) parseCreateProcedure(start token.Position, alter bool) *core.CreateProcedureStmt {
	p.nextToken() // consume PROC/PROCEDURE
	stmt := &core.CreateProcedureStmt{Alter: alter, Name: p.parseObjectName()}

	paren := p.match(token.LPAREN)
	if p.check(token.VARIABLE) {
		for {
			stmt.Params = append(stmt.Params, p.parseProcParam())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if paren {
		p.expect(token.RPAREN)
	}
	if p.match(token.WITH) {
		stmt.Options = p.parseWordList()
	}
	if !p.expect(token.AS) {
		return stmt
	}

	stmt.Body = p.parseStatementList(func() bool { return false })
	stmt.Loc = p.spanFrom(start)
	return stmt
}

// parseProcParam parses @name [AS] type [= default] [OUTPUT | OUT] [READONLY].
func (p *Parser) parseProcParam() *core.ProcParam {
	start := p.token.Pos
	param := &core.ProcParam{}
	if !p.check(token.VARIABLE) {
		p.fail()
		return param
	}
	param.Name = p.token.Literal
	p.nextToken()
	p.match(token.AS)
	param.Type = p.parseDataType()
	if p.match(token.EQ) {
		param.Default = p.parseExpression()
	}
	for {
		switch {
		case p.match(token.OUTPUT), p.matchWord("OUTPUT"), p.matchWord("OUT"):
			param.Output = true
			continue
		case p.matchWord("READONLY"):
			param.ReadOnly = true
			continue
		}
		break
	}
	param.Loc = p.spanFrom(start)
	return param
}

// parseDrop parses a DROP statement.
func (p *Parser) parseDrop() *core.DropStmt {
	start := p.token.Pos
	p.nextToken() // consume DROP

	stmt := &core.DropStmt{}
	switch p.token.Type {
	case token.TABLE:
		stmt.Kind = core.ObjectTable
	case token.VIEW:
		stmt.Kind = core.ObjectView
	case token.PROC, token.PROCEDURE:
		stmt.Kind = core.ObjectProcedure
	case token.FUNCTION:
		stmt.Kind = core.ObjectFunction
	default:
		p.fail()
		return stmt
	}
	p.nextToken()

	if p.check(token.IF) && p.checkPeek(token.EXISTS) && p.dialect.Has(dialect.FeatureDropIfExists) {
		p.nextToken()
		p.nextToken()
		stmt.IfExists = true
	}
	for {
		name := p.parseObjectName()
		if len(name.Parts) == 0 {
			break
		}
		stmt.Names = append(stmt.Names, name)
		if !p.match(token.COMMA) {
			break
		}
	}
	stmt.Loc = p.spanFrom(start)
	return stmt
}

// parseTruncate parses TRUNCATE TABLE name.
func (p *Parser) parseTruncate() *core.TruncateStmt {
	start := p.token.Pos
	p.nextToken() // consume TRUNCATE
	stmt := &core.TruncateStmt{}
	if p.expect(token.TABLE) {
		stmt.Name = p.parseObjectName()
	}
	stmt.Loc = p.spanFrom(start)
	return stmt
}
