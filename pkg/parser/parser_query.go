package parser

import (
	"github.com/leapstack-labs/tsqlscript/pkg/core"
	"github.com/leapstack-labs/tsqlscript/pkg/dialect"
	"github.com/leapstack-labs/tsqlscript/pkg/token"
)

// Query parsing: set operations, SELECT specifications, TOP, select lists.
//
// Grammar:
//
//	query      → query_expr [ORDER BY order_list]
//	query_expr → query_term ((UNION [ALL] | EXCEPT) query_term)*
//	query_term → query_prim (INTERSECT query_prim)*
//	query_prim → query_spec | "(" query ")"
//	query_spec → SELECT [ALL | DISTINCT] [top] select_list [INTO name]
//	             [FROM from_list] [WHERE expr] [GROUP BY expr_list [WITH ROLLUP|CUBE]]
//	             [HAVING expr]
//	top        → TOP (number | "(" expr ")") [PERCENT] [WITH TIES]

// parseQuery parses a query with an optional trailing ORDER BY.
func (p *Parser) parseQuery() *core.SelectStmt {
	start := p.token.Pos
	stmt := &core.SelectStmt{}
	stmt.Body = p.parseQueryExpr()
	if p.check(token.ORDER) {
		stmt.OrderBy = p.parseOrderByClause()
	}
	stmt.Loc = p.spanFrom(start)
	return stmt
}

// parseQueryExpr parses UNION and EXCEPT, which bind looser than INTERSECT.
func (p *Parser) parseQueryExpr() core.QueryExpr {
	left := p.parseQueryTerm()
	for left != nil {
		var op core.SetOp
		switch {
		case p.check(token.UNION):
			op = core.SetOpUnion
			if p.checkPeek(token.ALL) {
				op = core.SetOpUnionAll
				p.nextToken()
			}
		case p.check(token.EXCEPT) && p.softActive(p.token, p.peek):
			op = core.SetOpExcept
		default:
			return left
		}
		p.nextToken()

		right := p.parseQueryTerm()
		if right == nil {
			return left
		}
		left = &core.SetOpExpr{
			NodeInfo: core.NodeInfo{Loc: p.spanFrom(left.Pos())},
			Left:     left,
			Op:       op,
			Right:    right,
		}
	}
	return left
}

// parseQueryTerm parses INTERSECT chains.
func (p *Parser) parseQueryTerm() core.QueryExpr {
	left := p.parseQueryPrimary()
	for left != nil && p.check(token.INTERSECT) && p.softActive(p.token, p.peek) {
		p.nextToken()
		right := p.parseQueryPrimary()
		if right == nil {
			return left
		}
		left = &core.SetOpExpr{
			NodeInfo: core.NodeInfo{Loc: p.spanFrom(left.Pos())},
			Left:     left,
			Op:       core.SetOpIntersect,
			Right:    right,
		}
	}
	return left
}

// parseQueryPrimary parses a SELECT specification or a parenthesized query.
func (p *Parser) parseQueryPrimary() core.QueryExpr {
	switch p.token.Type {
	case token.SELECT:
		return p.parseQuerySpec()
	case token.LPAREN:
		start := p.token.Pos
		p.nextToken()
		q := &core.ParenQuery{Query: p.parseQuery()}
		p.expect(token.RPAREN)
		q.Loc = p.spanFrom(start)
		return q
	}
	p.fail()
	return nil
}

// parseQuerySpec parses a single SELECT specification.
func (p *Parser) parseQuerySpec() *core.QuerySpec {
	start := p.token.Pos
	p.nextToken() // consume SELECT

	q := &core.QuerySpec{}
	switch {
	case p.match(token.ALL):
		q.Quantifier = core.QuantifierAll
	case p.match(token.DISTINCT):
		q.Quantifier = core.QuantifierDistinct
	}

	if p.check(token.TOP) {
		q.Top = p.parseTop(false)
	}

	q.Items = p.parseSelectItems()

	if p.match(token.INTO) {
		q.Into = p.parseObjectName()
	}
	if p.check(token.FROM) {
		q.From = p.parseFromClause()
	}
	if p.check(token.WHERE) {
		q.Where = p.parseWhereClause()
	}
	if p.check(token.GROUP) {
		q.GroupBy = p.parseGroupByClause()
	}
	if p.check(token.HAVING) {
		hStart := p.token.Pos
		p.nextToken()
		q.Having = &core.HavingClause{Cond: p.parseExpression()}
		q.Having.Loc = p.spanFrom(hStart)
	}

	q.Loc = p.spanFrom(start)
	return q
}

// parseTop parses a TOP clause. Data modification statements require the
// parenthesized form and do not accept WITH TIES.
func (p *Parser) parseTop(dml bool) *core.TopClause {
	start := p.token.Pos
	p.nextToken() // consume TOP

	top := &core.TopClause{}
	switch {
	case p.check(token.LPAREN) && p.dialect.Has(dialect.FeatureTopExpression):
		p.nextToken()
		top.Paren = true
		top.Count = p.parseExpression()
		p.expect(token.RPAREN)
	case p.check(token.NUMBER) && !dml:
		top.Count = &core.Literal{
			NodeInfo: core.NodeInfo{Loc: p.token.Span()},
			Kind:     core.LiteralNumber,
			Raw:      p.token.Literal,
		}
		p.nextToken()
	default:
		p.fail()
		return top
	}

	top.Percent = p.matchWord("PERCENT")
	if !dml && p.check(token.WITH) && isWord(p.peek, "TIES") {
		p.nextToken()
		p.matchWord("TIES")
		top.WithTies = true
	}
	top.Loc = p.spanFrom(start)
	return top
}

// parseSelectItems parses a comma-separated select list.
func (p *Parser) parseSelectItems() []*core.SelectItem {
	var items []*core.SelectItem
	for {
		items = append(items, p.parseSelectItem())
		if !p.match(token.COMMA) {
			return items
		}
	}
}

// parseSelectItem parses expr [[AS] alias] or *.
func (p *Parser) parseSelectItem() *core.SelectItem {
	start := p.token.Pos
	item := &core.SelectItem{}
	if p.check(token.STAR) {
		star := &core.StarExpr{NodeInfo: core.NodeInfo{Loc: p.token.Span()}}
		p.nextToken()
		item.Expr = star
	} else {
		item.Expr = p.parseExpression()
	}
	item.Alias = p.parseAlias(true)
	item.Loc = p.spanFrom(start)
	return item
}

// parseAlias parses [AS] alias and returns the alias source text, or "".
// String aliases are allowed for select items only.
func (p *Parser) parseAlias(allowString bool) string {
	if p.match(token.AS) {
		if p.isIdent() || (allowString && p.check(token.STRING)) {
			lit := p.token.Literal
			p.nextToken()
			return lit
		}
		p.fail()
		return ""
	}
	if p.isIdent() || (allowString && p.check(token.STRING)) {
		lit := p.token.Literal
		p.nextToken()
		return lit
	}
	return ""
}

// parseWhereClause parses WHERE expr.
func (p *Parser) parseWhereClause() *core.WhereClause {
	start := p.token.Pos
	p.nextToken() // consume WHERE
	w := &core.WhereClause{Cond: p.parseExpression()}
	w.Loc = p.spanFrom(start)
	return w
}

// parseGroupByClause parses GROUP BY expr_list [WITH ROLLUP|CUBE].
func (p *Parser) parseGroupByClause() *core.GroupByClause {
	start := p.token.Pos
	p.nextToken() // consume GROUP
	g := &core.GroupByClause{}
	if !p.expect(token.BY) {
		return g
	}
	g.Items = p.parseExpressionList()
	if p.check(token.WITH) && (isWord(p.peek, "ROLLUP") || isWord(p.peek, "CUBE")) {
		p.nextToken()
		g.Rollup, _ = p.takeWord()
	}
	g.Loc = p.spanFrom(start)
	return g
}

// parseOrderByClause parses ORDER BY order_list.
func (p *Parser) parseOrderByClause() *core.OrderByClause {
	start := p.token.Pos
	p.nextToken() // consume ORDER
	o := &core.OrderByClause{}
	if !p.expect(token.BY) {
		return o
	}
	for {
		o.Items = append(o.Items, p.parseOrderItem())
		if !p.match(token.COMMA) {
			break
		}
	}
	o.Loc = p.spanFrom(start)
	return o
}

// parseOrderItem parses expr [ASC | DESC].
func (p *Parser) parseOrderItem() *core.OrderItem {
	start := p.token.Pos
	item := &core.OrderItem{Expr: p.parseExpression()}
	switch {
	case p.match(token.ASC):
		item.Direction = core.DirectionAsc
	case p.match(token.DESC):
		item.Direction = core.DirectionDesc
	}
	item.Loc = p.spanFrom(start)
	return item
}

// parseOutputClause parses OUTPUT items [INTO target [(cols)]].
func (p *Parser) parseOutputClause() *core.OutputClause {
	start := p.token.Pos
	p.nextToken() // consume OUTPUT
	out := &core.OutputClause{Items: p.parseSelectItems()}
	if p.match(token.INTO) {
		out.Into = p.parseObjectName()
		if p.check(token.LPAREN) {
			out.IntoColumns = p.parseIdentList()
		}
	}
	out.Loc = p.spanFrom(start)
	return out
}
