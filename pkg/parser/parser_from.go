package parser

import (
	"github.com/leapstack-labs/tsqlscript/pkg/core"
	"github.com/leapstack-labs/tsqlscript/pkg/dialect"
	"github.com/leapstack-labs/tsqlscript/pkg/token"
)

// FROM clause parsing: table references, derived tables, JOINs, APPLY,
// PIVOT and UNPIVOT.
//
// Grammar:
//
//	from_clause   → FROM table_source ("," table_source)*
//	table_source  → table_primary (join)*
//	table_primary → (table_name [[AS] alias] [WITH "(" hints ")"]
//	              | function_call [[AS] alias]
//	              | "(" query ")" [AS] alias ["(" cols ")"]
//	              | "(" table_source ")") (pivot)*
//	join          → [INNER | (LEFT|RIGHT|FULL) [OUTER]] JOIN table_primary ON expr
//	              | CROSS JOIN table_primary
//	              | (CROSS|OUTER) APPLY table_primary
//	pivot         → PIVOT "(" func FOR column IN "(" values ")" ")" [AS] alias
//	              | UNPIVOT "(" column FOR column IN "(" values ")" ")" [AS] alias

// parseFromClause parses the FROM clause.
func (p *Parser) parseFromClause() *core.FromClause {
	start := p.token.Pos
	p.nextToken() // consume FROM

	from := &core.FromClause{}
	for {
		src := p.parseTableSource()
		if src == nil {
			break
		}
		from.Sources = append(from.Sources, src)
		if !p.match(token.COMMA) {
			break
		}
	}
	from.Loc = p.spanFrom(start)
	return from
}

// parseTableSource parses a table primary followed by any joins.
func (p *Parser) parseTableSource() core.TableSource {
	left := p.parseTablePrimary()
	if left == nil {
		return nil
	}

	for {
		join := &core.JoinExpr{Left: left}
		switch {
		case p.check(token.JOIN):
			join.Type = core.JoinInner
		case p.check(token.INNER) && p.checkPeek(token.JOIN):
			join.Type = core.JoinInner
			join.Explicit = true
			p.nextToken()
		case p.check(token.LEFT), p.check(token.RIGHT), p.check(token.FULL):
			join.Type = joinTypes[p.token.Type]
			p.nextToken()
			if p.check(token.OUTER) {
				join.Explicit = true
				p.nextToken()
			}
			if !p.check(token.JOIN) {
				p.fail()
				return left
			}
		case p.check(token.CROSS) && p.checkPeek(token.JOIN):
			join.Type = core.JoinCross
			p.nextToken()
		case p.check(token.CROSS) && p.checkPeek(token.APPLY):
			join.Type = core.JoinCrossApply
			p.nextToken()
		case p.check(token.OUTER) && p.checkPeek(token.APPLY):
			join.Type = core.JoinOuterApply
			p.nextToken()
		case p.check(token.CROSS):
			p.nextToken()
			p.fail()
			return left
		default:
			return left
		}
		p.nextToken() // consume JOIN or APPLY

		join.Right = p.parseTablePrimary()
		if join.Type.HasCondition() && p.expect(token.ON) {
			join.On = p.parseExpression()
		}
		join.Loc = p.spanFrom(left.Pos())
		left = join
	}
}

var joinTypes = map[token.TokenType]core.JoinType{
	token.LEFT:  core.JoinLeft,
	token.RIGHT: core.JoinRight,
	token.FULL:  core.JoinFull,
}

// parseTablePrimary parses a single table reference with optional PIVOT
// or UNPIVOT operators applied to it.
func (p *Parser) parseTablePrimary() core.TableSource {
	start := p.token.Pos
	var src core.TableSource

	switch {
	case p.check(token.LPAREN) && p.isQueryAhead():
		src = p.parseDerivedTable()
	case p.check(token.LPAREN):
		p.nextToken()
		inner := p.parseTableSource()
		p.expect(token.RPAREN)
		if inner == nil {
			return nil
		}
		pt := &core.ParenTable{Source: inner}
		pt.Loc = p.spanFrom(start)
		src = pt
	case p.isNameStart() || p.check(token.VARIABLE):
		isVar := p.check(token.VARIABLE)
		name := p.parseObjectName()
		if p.check(token.LPAREN) && !isVar {
			fn := &core.TableFuncRef{Call: p.parseFuncCall(name)}
			fn.Alias = p.parseAlias(false)
			fn.Loc = p.spanFrom(start)
			src = fn
		} else {
			ref := &core.TableRef{Name: name}
			ref.Alias = p.parseAlias(false)
			if p.check(token.WITH) && p.checkPeek(token.LPAREN) {
				ref.Hints = p.parseTableHints()
			}
			ref.Loc = p.spanFrom(start)
			src = ref
		}
	default:
		p.fail()
		return nil
	}

	for p.dialect.Has(dialect.FeaturePivot) &&
		(p.check(token.PIVOT) || p.check(token.UNPIVOT)) && p.checkPeek(token.LPAREN) {
		src = p.parsePivot(src)
	}
	return src
}

// isQueryAhead reports whether the "(" at the current token opens a query.
func (p *Parser) isQueryAhead() bool {
	return p.checkPeek(token.SELECT) ||
		(p.checkPeek(token.LPAREN) && p.peek2.Type == token.SELECT)
}

// parseDerivedTable parses "(" query ")" [AS] alias ["(" cols ")"].
func (p *Parser) parseDerivedTable() *core.DerivedTable {
	start := p.token.Pos
	p.nextToken() // consume (
	dt := &core.DerivedTable{Query: p.parseQuery()}
	p.expect(token.RPAREN)
	dt.Alias = p.parseAlias(false)
	if dt.Alias != "" && p.check(token.LPAREN) {
		dt.Columns = p.parseIdentList()
	}
	dt.Loc = p.spanFrom(start)
	return dt
}

// parseTableHints parses WITH "(" hint {"," hint} ")".
func (p *Parser) parseTableHints() []*core.TableHint {
	p.nextToken() // consume WITH
	p.nextToken() // consume (

	var hints []*core.TableHint
	for {
		hint := &core.TableHint{}
		name, ok := p.takeWord()
		if !ok {
			return hints
		}
		hint.Name = name
		if p.match(token.LPAREN) {
			for {
				if !p.check(token.IDENT) && !p.check(token.NUMBER) {
					p.fail()
					return hints
				}
				hint.Args = append(hint.Args, p.token.Literal)
				p.nextToken()
				if !p.match(token.COMMA) {
					break
				}
			}
			p.expect(token.RPAREN)
		}
		hints = append(hints, hint)
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	return hints
}

// parsePivot parses PIVOT or UNPIVOT applied to source.
func (p *Parser) parsePivot(source core.TableSource) core.TableSource {
	pv := &core.PivotTable{Source: source, Unpivot: p.check(token.UNPIVOT)}
	p.nextToken() // consume PIVOT/UNPIVOT
	p.nextToken() // consume (

	if pv.Unpivot {
		pv.Value, _ = p.parseIdent()
	} else {
		name := p.parseObjectName()
		if !p.check(token.LPAREN) {
			p.fail()
			return pv
		}
		pv.Aggregate = p.parseFuncCall(name)
	}

	if !p.expect(token.FOR) {
		return pv
	}
	if col, ok := p.parseColumnRef(); ok {
		pv.For = col
	}
	if !p.expect(token.IN) || !p.expect(token.LPAREN) {
		return pv
	}
	for {
		if !p.isIdent() && !p.check(token.NUMBER) && !p.check(token.STRING) {
			p.fail()
			return pv
		}
		pv.In = append(pv.In, p.token.Literal)
		p.nextToken()
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	p.expect(token.RPAREN)
	pv.Alias = p.parseAlias(false)
	pv.Loc = p.spanFrom(source.Pos())
	return pv
}

// parseObjectName parses a name of up to four parts. An omitted middle
// part (db..t) is kept as an empty string. A table variable is a
// single-part name.
func (p *Parser) parseObjectName() *core.ObjectName {
	start := p.token.Pos
	name := &core.ObjectName{}
	if p.check(token.VARIABLE) {
		name.Parts = []string{p.token.Literal}
		p.nextToken()
		name.Loc = p.spanFrom(start)
		return name
	}

	part, ok := p.parseName()
	if !ok {
		return name
	}
	name.Parts = append(name.Parts, part)
	for p.check(token.DOT) && len(name.Parts) < 4 {
		p.nextToken()
		for p.check(token.DOT) && len(name.Parts) < 3 {
			name.Parts = append(name.Parts, "")
			p.nextToken()
		}
		part, ok := p.parseName()
		if !ok {
			break
		}
		name.Parts = append(name.Parts, part)
	}
	name.Loc = p.spanFrom(start)
	return name
}
