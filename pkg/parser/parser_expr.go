package parser

import (
	"github.com/leapstack-labs/tsqlscript/pkg/core"
	"github.com/leapstack-labs/tsqlscript/pkg/dialect"
	"github.com/leapstack-labs/tsqlscript/pkg/token"
)

// Expression precedence parsing using a Pratt parser with dialect-aware precedence.
//
// Precedence levels (from the dialect package):
//
//	PrecedenceNone       = 0
//	PrecedenceOr         = 1
//	PrecedenceAnd        = 2
//	PrecedenceNot        = 3
//	PrecedenceComparison = 4  (=, <>, !=, <, >, <=, >=, !<, !>, IS, IN, BETWEEN, LIKE)
//	PrecedenceAddition   = 5  (+, -, &, |, ^)
//	PrecedenceMultiply   = 6  (*, /, %)
//	PrecedenceUnary      = 7  (-, +, ~)
//
// The parser looks operators up with dialect.Precedence, so a token the
// dialect does not register never continues an expression.

// parseExpression parses an expression using precedence climbing.
func (p *Parser) parseExpression() core.Expr {
	return p.parseExpressionWithPrecedence(dialect.PrecedenceOr)
}

// parseExpressionWithPrecedence implements Pratt parsing with dialect-aware precedence.
func (p *Parser) parseExpressionWithPrecedence(minPrecedence int) core.Expr {
	left := p.parsePrefixExpr()
	if left == nil {
		return nil
	}

	// Parse infix operators while their precedence is >= minPrecedence
	for !p.panicking {
		prec := p.infixPrecedence()
		if prec == dialect.PrecedenceNone || prec < minPrecedence {
			break
		}
		left = p.parseInfixExpr(left, prec)
	}
	return left
}

// infixPrecedence returns the precedence of the current token as an infix
// operator, or PrecedenceNone.
func (p *Parser) infixPrecedence() int {
	if p.check(token.NOT) {
		switch p.peek.Type {
		case token.IN, token.LIKE, token.BETWEEN:
		default:
			return dialect.PrecedenceNone
		}
	}
	return p.dialect.Precedence(p.token.Type)
}

// parsePrefixExpr parses prefix expressions (unary operators and primary
// expressions) followed by any COLLATE suffixes.
func (p *Parser) parsePrefixExpr() core.Expr {
	start := p.token.Pos
	switch p.token.Type {
	case token.NOT:
		p.nextToken()
		x := p.parseExpressionWithPrecedence(dialect.PrecedenceNot)
		return &core.UnaryExpr{NodeInfo: core.NodeInfo{Loc: p.spanFrom(start)}, Op: token.NOT, X: x}

	case token.MINUS, token.PLUS, token.TILDE:
		op := p.token.Type
		p.nextToken()
		x := p.parseExpressionWithPrecedence(dialect.PrecedenceUnary)
		return &core.UnaryExpr{NodeInfo: core.NodeInfo{Loc: p.spanFrom(start)}, Op: op, X: x}
	}

	expr := p.parsePrimary()
	for expr != nil && p.check(token.COLLATE) {
		p.nextToken()
		c := &core.CollateExpr{X: expr}
		c.Collation, _ = p.parseIdent()
		c.Loc = p.spanFrom(start)
		expr = c
	}
	return expr
}

// parseInfixExpr parses an infix expression given the left operand and current precedence.
func (p *Parser) parseInfixExpr(left core.Expr, prec int) core.Expr {
	switch p.token.Type {
	case token.NOT:
		// NOT IN, NOT BETWEEN, NOT LIKE
		p.nextToken()
		return p.parsePredicate(left, true)

	case token.IN, token.LIKE, token.BETWEEN:
		return p.parsePredicate(left, false)

	case token.IS:
		p.nextToken()
		is := &core.IsNullExpr{X: left, Not: p.match(token.NOT)}
		p.expect(token.NULL)
		is.Loc = p.spanFrom(left.Pos())
		return is
	}

	// Standard binary operators
	op := p.token.Type
	p.nextToken()

	// Parse right operand with higher precedence (left-associative)
	right := p.parseExpressionWithPrecedence(prec + 1)

	return &core.BinaryExpr{
		NodeInfo: core.NodeInfo{Loc: p.spanFrom(left.Pos())},
		Left:     left,
		Op:       op,
		Right:    right,
	}
}

// parsePredicate parses the IN, LIKE or BETWEEN predicate at the current token.
func (p *Parser) parsePredicate(left core.Expr, not bool) core.Expr {
	switch p.token.Type {
	case token.IN:
		p.nextToken()
		in := &core.InExpr{X: left, Not: not}
		if !p.expect(token.LPAREN) {
			return in
		}
		if p.check(token.SELECT) {
			in.Query = p.parseQuery()
		} else {
			in.List = p.parseExpressionList()
		}
		p.expect(token.RPAREN)
		in.Loc = p.spanFrom(left.Pos())
		return in

	case token.LIKE:
		p.nextToken()
		like := &core.LikeExpr{X: left, Not: not}
		like.Pattern = p.parseExpressionWithPrecedence(dialect.PrecedenceAddition)
		if p.match(token.ESCAPE) {
			like.Escape = p.parseExpressionWithPrecedence(dialect.PrecedenceAddition)
		}
		like.Loc = p.spanFrom(left.Pos())
		return like

	case token.BETWEEN:
		p.nextToken()
		between := &core.BetweenExpr{X: left, Not: not}
		between.Low = p.parseExpressionWithPrecedence(dialect.PrecedenceAddition)
		if p.expect(token.AND) {
			between.High = p.parseExpressionWithPrecedence(dialect.PrecedenceAddition)
		}
		between.Loc = p.spanFrom(left.Pos())
		return between
	}

	p.fail()
	return left
}

// parsePrimary parses literals, variables, names, function calls and the
// special expression forms.
//
//nolint:gocyclo // one case per primary form
func (p *Parser) parsePrimary() core.Expr {
	tok := p.token
	switch tok.Type {
	case token.NUMBER:
		return p.literal(core.LiteralNumber)
	case token.STRING:
		return p.literal(core.LiteralString)
	case token.NSTRING:
		return p.literal(core.LiteralNString)
	case token.BINARY:
		return p.literal(core.LiteralBinary)
	case token.MONEY:
		return p.literal(core.LiteralMoney)
	case token.NULL:
		return p.literal(core.LiteralNull)
	case token.DEFAULT:
		return p.literal(core.LiteralDefault)

	case token.VARIABLE, token.SYSVAR:
		p.nextToken()
		return &core.VariableRef{NodeInfo: core.NodeInfo{Loc: tok.Span()}, Name: tok.Literal}

	case token.LPAREN:
		return p.parseParenExpr()
	case token.CASE:
		return p.parseCaseExpr()
	case token.CAST:
		return p.parseCastExpr()
	case token.CONVERT:
		return p.parseConvertExpr()

	case token.EXISTS:
		p.nextToken()
		ex := &core.ExistsExpr{}
		if p.expect(token.LPAREN) {
			ex.Query = p.parseQuery()
			p.expect(token.RPAREN)
		}
		ex.Loc = p.spanFrom(tok.Pos)
		return ex

	case token.ALL, token.ANY:
		// x > ALL (SELECT ...)
		if p.checkPeek(token.LPAREN) && p.peek2.Type == token.SELECT {
			p.nextToken()
			p.nextToken()
			sub := &core.SubqueryExpr{Quantifier: tok.Type, Query: p.parseQuery()}
			p.expect(token.RPAREN)
			sub.Loc = p.spanFrom(tok.Pos)
			return sub
		}

	case token.LEFT, token.RIGHT:
		// LEFT(s, n) and RIGHT(s, n) are functions named by keywords
		if p.checkPeek(token.LPAREN) {
			p.nextToken()
			name := &core.ObjectName{NodeInfo: core.NodeInfo{Loc: tok.Span()}, Parts: []string{tok.Literal}}
			return p.parseFuncCall(name)
		}
	}

	if p.isNameStart() {
		return p.parseNameExpr()
	}
	p.fail()
	return nil
}

// literal consumes the current token as a literal of the given kind.
func (p *Parser) literal(kind core.LiteralKind) *core.Literal {
	lit := &core.Literal{NodeInfo: core.NodeInfo{Loc: p.token.Span()}, Kind: kind, Raw: p.token.Literal}
	p.nextToken()
	return lit
}

// parseParenExpr parses "(" expr ")" or a scalar subquery.
func (p *Parser) parseParenExpr() core.Expr {
	start := p.token.Pos
	p.nextToken() // consume (

	if p.check(token.SELECT) {
		sub := &core.SubqueryExpr{Quantifier: token.EOF, Query: p.parseQuery()}
		p.expect(token.RPAREN)
		sub.Loc = p.spanFrom(start)
		return sub
	}

	paren := &core.ParenExpr{X: p.parseExpression()}
	p.expect(token.RPAREN)
	paren.Loc = p.spanFrom(start)
	return paren
}

// parseNameExpr parses a column reference, qualified star or function call.
func (p *Parser) parseNameExpr() core.Expr {
	start := p.token.Pos
	parts := []string{p.token.Literal}
	p.nextToken()

	for p.check(token.DOT) {
		p.nextToken()
		switch {
		case p.check(token.STAR):
			p.nextToken()
			return &core.StarExpr{NodeInfo: core.NodeInfo{Loc: p.spanFrom(start)}, Qualifier: parts}
		case p.check(token.DOT):
			parts = append(parts, "")
		case p.isNameStart():
			parts = append(parts, p.token.Literal)
			p.nextToken()
		default:
			p.fail()
			return &core.ColumnRef{NodeInfo: core.NodeInfo{Loc: p.spanFrom(start)}, Parts: parts}
		}
	}

	if p.check(token.LPAREN) {
		name := &core.ObjectName{NodeInfo: core.NodeInfo{Loc: p.spanFrom(start)}, Parts: parts}
		return p.parseFuncCall(name)
	}
	return &core.ColumnRef{NodeInfo: core.NodeInfo{Loc: p.spanFrom(start)}, Parts: parts}
}

// parseColumnRef parses a possibly qualified column name.
func (p *Parser) parseColumnRef() (*core.ColumnRef, bool) {
	start := p.token.Pos
	first, ok := p.parseName()
	if !ok {
		return nil, false
	}
	col := &core.ColumnRef{Parts: []string{first}}
	for p.match(token.DOT) {
		part, ok := p.parseName()
		if !ok {
			return nil, false
		}
		col.Parts = append(col.Parts, part)
	}
	col.Loc = p.spanFrom(start)
	return col, true
}

// parseFuncCall parses the argument list and optional OVER clause of a
// function whose name has been consumed.
func (p *Parser) parseFuncCall(name *core.ObjectName) *core.FuncCall {
	fn := &core.FuncCall{Name: name}
	p.expect(token.LPAREN)

	switch {
	case p.check(token.STAR):
		fn.Star = true
		p.nextToken()
	case p.check(token.RPAREN):
	default:
		fn.Distinct = p.match(token.DISTINCT)
		fn.Args = p.parseExpressionList()
	}
	p.expect(token.RPAREN)

	if p.dialect.Has(dialect.FeatureWindow) && p.check(token.OVER) && p.checkPeek(token.LPAREN) {
		fn.Over = p.parseOverClause()
	}
	fn.Loc = p.spanFrom(name.Pos())
	return fn
}

// parseOverClause parses OVER "(" [PARTITION BY exprs] [ORDER BY items] ")".
func (p *Parser) parseOverClause() *core.OverClause {
	start := p.token.Pos
	p.nextToken() // consume OVER
	p.nextToken() // consume (

	over := &core.OverClause{}
	if p.match(token.PARTITION) {
		if p.expect(token.BY) {
			over.PartitionBy = p.parseExpressionList()
		}
	}
	if p.check(token.ORDER) {
		over.OrderBy = p.parseOrderByClause()
	}
	p.expect(token.RPAREN)
	over.Loc = p.spanFrom(start)
	return over
}

// parseCaseExpr parses CASE [operand] WHEN ... THEN ... [ELSE ...] END.
func (p *Parser) parseCaseExpr() *core.CaseExpr {
	start := p.token.Pos
	p.nextToken() // consume CASE

	c := &core.CaseExpr{}
	if !p.check(token.WHEN) {
		c.Operand = p.parseExpression()
	}
	for p.check(token.WHEN) {
		wStart := p.token.Pos
		p.nextToken()
		w := &core.WhenClause{Cond: p.parseExpression()}
		if p.expect(token.THEN) {
			w.Result = p.parseExpression()
		}
		w.Loc = p.spanFrom(wStart)
		c.Whens = append(c.Whens, w)
	}
	if len(c.Whens) == 0 {
		p.fail()
		return c
	}
	if p.match(token.ELSE) {
		c.Else = p.parseExpression()
	}
	p.expect(token.END)
	c.Loc = p.spanFrom(start)
	return c
}

// parseCastExpr parses CAST "(" expr AS type ")".
func (p *Parser) parseCastExpr() *core.CastExpr {
	start := p.token.Pos
	p.nextToken() // consume CAST

	c := &core.CastExpr{}
	if !p.expect(token.LPAREN) {
		return c
	}
	c.X = p.parseExpression()
	if p.expect(token.AS) {
		c.Type = p.parseDataType()
	}
	p.expect(token.RPAREN)
	c.Loc = p.spanFrom(start)
	return c
}

// parseConvertExpr parses CONVERT "(" type "," expr ["," style] ")".
func (p *Parser) parseConvertExpr() *core.ConvertExpr {
	start := p.token.Pos
	p.nextToken() // consume CONVERT

	c := &core.ConvertExpr{}
	if !p.expect(token.LPAREN) {
		return c
	}
	c.Type = p.parseDataType()
	if p.expect(token.COMMA) {
		c.X = p.parseExpression()
		if p.match(token.COMMA) {
			c.Style = p.parseExpression()
		}
	}
	p.expect(token.RPAREN)
	c.Loc = p.spanFrom(start)
	return c
}

// parseDataType parses name ["(" (number | MAX) {"," number} ")"].
func (p *Parser) parseDataType() *core.DataType {
	start := p.token.Pos
	dt := &core.DataType{Name: p.parseObjectName()}
	if p.match(token.LPAREN) {
		for {
			if !p.check(token.NUMBER) && !isWord(p.token, "MAX") {
				p.fail()
				return dt
			}
			dt.Args = append(dt.Args, p.token.Literal)
			p.nextToken()
			if !p.match(token.COMMA) {
				break
			}
		}
		p.expect(token.RPAREN)
	}
	dt.Loc = p.spanFrom(start)
	return dt
}

// parseExpressionList parses a comma-separated list of expressions.
func (p *Parser) parseExpressionList() []core.Expr {
	var exprs []core.Expr
	for {
		exprs = append(exprs, p.parseExpression())
		if !p.match(token.COMMA) {
			return exprs
		}
	}
}
