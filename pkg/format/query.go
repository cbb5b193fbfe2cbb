package format

import (
	"github.com/leapstack-labs/tsqlscript/pkg/core"
	"github.com/leapstack-labs/tsqlscript/pkg/token"
)

func (p *Printer) formatSelect(s *core.SelectStmt) {
	if s == nil {
		return
	}
	if s.With != nil {
		p.formatWith(s.With)
		p.newline()
	}
	p.formatQueryExpr(s.Body)
	if s.OrderBy != nil {
		p.clause(p.opts.NewLineBeforeOrderByClause, token.ORDER, token.BY)
		p.space()
		p.formatOrderItems(s.OrderBy.Items)
	}
}

func (p *Printer) formatWith(with *core.WithClause) {
	p.kw(token.WITH)
	p.space()
	p.formatList(len(with.CTEs), func(i int) {
		cte := with.CTEs[i]
		p.write(cte.Name)
		if len(cte.Columns) > 0 {
			p.parenList(true, len(cte.Columns), func(j int) { p.write(cte.Columns[j]) }, false)
		}
		p.space()
		p.kw(token.AS)
		p.space()
		p.formatSubquery(cte.Query)
	}, ", ")
}

// formatSubquery prints a parenthesized query one level deeper. A query
// spanning several lines starts on its own line so that its clauses and
// items indent from its SELECT.
func (p *Printer) formatSubquery(s *core.SelectStmt) {
	p.write("(")
	p.indent()
	if p.spansLines(func(q *Printer) { q.formatSelect(s) }) {
		p.newline()
	}
	p.formatSelect(s)
	p.dedent()
	p.write(")")
}

func (p *Printer) formatQueryExpr(q core.QueryExpr) {
	switch q := q.(type) {
	case *core.QuerySpec:
		p.formatQuerySpec(q)
	case *core.SetOpExpr:
		p.formatQueryExpr(q.Left)
		switch q.Op {
		case core.SetOpUnion:
			p.clause(false, token.UNION)
		case core.SetOpUnionAll:
			p.clause(false, token.UNION, token.ALL)
		case core.SetOpExcept:
			p.clause(false, token.EXCEPT)
		case core.SetOpIntersect:
			p.clause(false, token.INTERSECT)
		}
		p.space()
		p.formatQueryExpr(q.Right)
	case *core.ParenQuery:
		p.formatSubquery(q.Query)
	}
}

func (p *Printer) formatQuerySpec(q *core.QuerySpec) {
	p.lead(token.SELECT)
	switch q.Quantifier {
	case core.QuantifierAll:
		p.space()
		p.kw(token.ALL)
	case core.QuantifierDistinct:
		p.space()
		p.kw(token.DISTINCT)
	}
	if q.Top != nil {
		p.space()
		p.formatTop(q.Top)
	}

	p.items(p.opts.MultilineSelectElementsList, len(q.Items), func(i int) {
		p.formatSelectItem(q.Items[i])
	})

	if q.Into != nil {
		p.clause(false, token.INTO)
		p.space()
		p.formatObjectName(q.Into)
	}
	if q.From != nil {
		p.formatFrom(q.From)
	}
	if q.Where != nil {
		p.formatWhere(q.Where)
	}
	if q.GroupBy != nil {
		p.clause(p.opts.NewLineBeforeGroupByClause, token.GROUP, token.BY)
		p.space()
		p.formatExprList(q.GroupBy.Items)
		if q.GroupBy.Rollup != "" {
			p.space()
			p.kw(token.WITH)
			p.space()
			p.word(q.GroupBy.Rollup)
		}
	}
	if q.Having != nil {
		p.clause(p.opts.NewLineBeforeHavingClause, token.HAVING)
		p.space()
		p.formatExpr(q.Having.Cond)
	}
}

func (p *Printer) formatSelectItem(item *core.SelectItem) {
	p.formatExpr(item.Expr)
	p.formatAlias(item.Alias)
}

func (p *Printer) formatAlias(alias string) {
	if alias == "" {
		return
	}
	p.space()
	p.kw(token.AS)
	p.write(" " + alias)
}

func (p *Printer) formatTop(top *core.TopClause) {
	p.kw(token.TOP)
	if top.Paren {
		p.write(" (")
		p.formatExpr(top.Count)
		p.write(")")
	} else {
		p.space()
		p.formatExpr(top.Count)
	}
	if top.Percent {
		p.space()
		p.word("PERCENT")
	}
	if top.WithTies {
		p.space()
		p.kw(token.WITH)
		p.space()
		p.word("TIES")
	}
}

func (p *Printer) formatFrom(from *core.FromClause) {
	p.clause(p.opts.NewLineBeforeFromClause, token.FROM)
	p.space()
	p.formatList(len(from.Sources), func(i int) { p.formatTableSource(from.Sources[i]) }, ", ")
}

// predicate is one operand of a top-level AND/OR chain.
type predicate struct {
	op   token.TokenType
	expr core.Expr
}

// splitPredicates flattens the left spine of an AND/OR chain, keeping the
// source order of operands.
func splitPredicates(e core.Expr) (core.Expr, []predicate) {
	b, ok := e.(*core.BinaryExpr)
	if !ok || (b.Op != token.AND && b.Op != token.OR) {
		return e, nil
	}
	first, rest := splitPredicates(b.Left)
	return first, append(rest, predicate{op: b.Op, expr: b.Right})
}

func (p *Printer) formatWhere(where *core.WhereClause) {
	p.clause(p.opts.NewLineBeforeWhereClause, token.WHERE)

	first, rest := splitPredicates(where.Cond)
	if !p.opts.MultilineWherePredicatesList || len(rest) == 0 {
		p.space()
		p.formatExpr(where.Cond)
		return
	}
	p.indent()
	p.newline()
	p.formatExpr(first)
	for _, pr := range rest {
		p.newline()
		p.kw(pr.op)
		p.space()
		p.formatExpr(pr.expr)
	}
	p.dedent()
	p.breakNext = true
}

func (p *Printer) formatOrderItems(items []*core.OrderItem) {
	p.formatList(len(items), func(i int) {
		p.formatExpr(items[i].Expr)
		switch items[i].Direction {
		case core.DirectionAsc:
			p.space()
			p.kw(token.ASC)
		case core.DirectionDesc:
			p.space()
			p.kw(token.DESC)
		}
	}, ", ")
}

func (p *Printer) formatOutput(out *core.OutputClause) {
	if out == nil {
		return
	}
	p.clause(p.opts.NewLineBeforeOutputClause, token.OUTPUT)
	p.space()
	p.formatList(len(out.Items), func(i int) { p.formatSelectItem(out.Items[i]) }, ", ")
	if out.Into != nil {
		p.space()
		p.kw(token.INTO)
		p.space()
		p.formatObjectName(out.Into)
		if len(out.IntoColumns) > 0 {
			p.parenList(true, len(out.IntoColumns), func(i int) { p.write(out.IntoColumns[i]) }, false)
		}
	}
}

// ---------- Table sources ----------

func (p *Printer) formatTableSource(ts core.TableSource) {
	switch t := ts.(type) {
	case *core.TableRef:
		p.formatTableRef(t)
	case *core.DerivedTable:
		p.formatSubquery(t.Query)
		p.formatAlias(t.Alias)
		if len(t.Columns) > 0 {
			p.parenList(true, len(t.Columns), func(i int) { p.write(t.Columns[i]) }, false)
		}
	case *core.TableFuncRef:
		p.formatExpr(t.Call)
		p.formatAlias(t.Alias)
	case *core.ParenTable:
		p.write("(")
		p.formatTableSource(t.Source)
		p.write(")")
	case *core.JoinExpr:
		p.formatJoin(t)
	case *core.PivotTable:
		p.formatPivot(t)
	}
}

func (p *Printer) formatTableRef(t *core.TableRef) {
	p.formatObjectName(t.Name)
	p.formatAlias(t.Alias)
	if len(t.Hints) == 0 {
		return
	}
	p.space()
	p.kw(token.WITH)
	p.parenList(true, len(t.Hints), func(i int) {
		h := t.Hints[i]
		p.word(h.Name)
		if len(h.Args) > 0 {
			p.parenList(false, len(h.Args), func(j int) { p.write(h.Args[j]) }, false)
		}
	}, false)
}

var outerJoinSide = map[core.JoinType]token.TokenType{
	core.JoinLeft:  token.LEFT,
	core.JoinRight: token.RIGHT,
	core.JoinFull:  token.FULL,
}

func (p *Printer) formatJoin(j *core.JoinExpr) {
	p.formatTableSource(j.Left)
	if p.opts.NewLineBeforeJoinClause {
		p.newline()
	} else {
		p.space()
	}

	switch j.Type {
	case core.JoinInner:
		if j.Explicit {
			p.kw(token.INNER)
			p.space()
		}
		p.kw(token.JOIN)
	case core.JoinLeft, core.JoinRight, core.JoinFull:
		p.kw(outerJoinSide[j.Type])
		if j.Explicit {
			p.space()
			p.kw(token.OUTER)
		}
		p.space()
		p.kw(token.JOIN)
	case core.JoinCross:
		p.kw(token.CROSS, token.JOIN)
	case core.JoinCrossApply:
		p.kw(token.CROSS, token.APPLY)
	case core.JoinOuterApply:
		p.kw(token.OUTER, token.APPLY)
	}

	p.space()
	p.formatTableSource(j.Right)
	if j.On != nil {
		p.space()
		p.kw(token.ON)
		p.space()
		p.formatExpr(j.On)
	}
}

func (p *Printer) formatPivot(t *core.PivotTable) {
	p.formatTableSource(t.Source)
	p.space()
	if t.Unpivot {
		p.kw(token.UNPIVOT)
		p.write(" (" + t.Value)
	} else {
		p.kw(token.PIVOT)
		p.write(" (")
		p.formatExpr(t.Aggregate)
	}
	p.space()
	p.kw(token.FOR)
	p.space()
	p.formatExpr(t.For)
	p.space()
	p.kw(token.IN)
	p.parenList(true, len(t.In), func(i int) { p.write(t.In[i]) }, false)
	p.write(")")
	p.formatAlias(t.Alias)
}
