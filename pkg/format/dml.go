package format

import (
	"strings"

	"github.com/leapstack-labs/tsqlscript/pkg/core"
	"github.com/leapstack-labs/tsqlscript/pkg/token"
)

// leadDML prints the WITH clause and the leading keyword of a DML
// statement with its optional TOP.
func (p *Printer) leadDML(with *core.WithClause, top *core.TopClause, kw token.TokenType) {
	if with != nil {
		p.formatWith(with)
		p.newline()
	}
	p.lead(kw)
	if top != nil {
		p.space()
		p.formatTop(top)
	}
}

func (p *Printer) formatInsert(s *core.InsertStmt) {
	p.leadDML(s.With, s.Top, token.INSERT)
	p.space()
	p.kw(token.INTO)
	p.space()
	p.formatObjectName(s.Target)
	if len(s.Columns) > 0 {
		p.parenList(true, len(s.Columns), func(i int) { p.write(s.Columns[i]) }, p.opts.MultilineInsertTargetsList)
	}
	p.formatOutput(s.Output)

	switch src := s.Source.(type) {
	case *core.ValuesSource:
		p.formatValues(src)
	case *core.SelectSource:
		p.breakOrSpace(false)
		p.formatSelect(src.Query)
	case *core.ExecSource:
		p.breakOrSpace(false)
		p.formatExec(src.Exec)
	case *core.DefaultValuesSource:
		p.breakOrSpace(false)
		p.kw(token.DEFAULT, token.VALUES)
	}
}

func (p *Printer) formatValues(src *core.ValuesSource) {
	p.clause(false, token.VALUES)
	row := func(i int, multiline bool) {
		r := src.Rows[i]
		p.parenList(false, len(r.Values), func(j int) { p.formatExpr(r.Values[j]) }, multiline)
	}

	if !p.opts.MultilineInsertSourcesList {
		p.space()
		p.formatList(len(src.Rows), func(i int) { row(i, false) }, ", ")
		return
	}
	p.indent()
	for i := range src.Rows {
		p.newline()
		row(i, true)
		if i < len(src.Rows)-1 {
			p.write(",")
		}
	}
	p.dedent()
	p.breakNext = true
}

func (p *Printer) formatUpdate(s *core.UpdateStmt) {
	p.leadDML(s.With, s.Top, token.UPDATE)
	p.space()
	p.formatTableRef(s.Target)
	p.formatSet(s.Set)
	p.formatOutput(s.Output)
	if s.From != nil {
		p.formatFrom(s.From)
	}
	if s.Where != nil {
		p.formatWhere(s.Where)
	}
}

// formatSet prints a SET clause of UPDATE or MERGE. Aligned items pad
// their targets so the assignment operators line up. An indented SET
// clause is followed by a new line back at statement level.
func (p *Printer) formatSet(set *core.SetClause) {
	if p.opts.IndentSetClause {
		p.indent()
		p.newline()
		p.lead(token.SET)
	} else {
		p.clause(false, token.SET)
	}

	targets := make([]string, len(set.Items))
	width := 0
	for i, item := range set.Items {
		targets[i] = p.sub(func(q *Printer) { q.formatExpr(item.Target) })
		width = max(width, len(targets[i]))
	}

	p.items(p.opts.multilineSetItems(), len(set.Items), func(i int) {
		item := set.Items[i]
		p.write(targets[i])
		if p.opts.AlignSetClauseItem {
			p.write(strings.Repeat(" ", width-len(targets[i])))
		}
		p.write(" " + item.Op.String() + " ")
		p.formatExpr(item.Value)
	})

	if p.opts.IndentSetClause {
		p.dedent()
		p.breakNext = true
	}
}

func (p *Printer) formatDelete(s *core.DeleteStmt) {
	p.leadDML(s.With, s.Top, token.DELETE)
	p.space()
	p.kw(token.FROM)
	p.space()
	p.formatTableRef(s.Target)
	p.formatOutput(s.Output)
	if s.From != nil {
		p.formatFrom(s.From)
	}
	if s.Where != nil {
		p.formatWhere(s.Where)
	}
}

// formatMerge prints MERGE with each WHEN clause on its own line.
func (p *Printer) formatMerge(s *core.MergeStmt) {
	p.leadDML(s.With, s.Top, token.MERGE)
	p.space()
	p.kw(token.INTO)
	p.space()
	p.formatTableRef(s.Target)
	p.space()
	p.word("USING")
	p.space()
	p.formatTableSource(s.Using)
	p.space()
	p.kw(token.ON)
	p.space()
	p.formatExpr(s.On)

	for _, c := range s.Clauses {
		p.newline()
		p.formatMergeClause(c)
	}
	p.formatOutput(s.Output)
}

func (p *Printer) formatMergeClause(c *core.MergeClause) {
	p.kw(token.WHEN)
	p.space()
	switch c.Match {
	case core.MergeMatched:
		p.word("MATCHED")
	case core.MergeNotMatched:
		p.kw(token.NOT)
		p.space()
		p.word("MATCHED")
		if c.ByTarget {
			p.space()
			p.kw(token.BY)
			p.space()
			p.word("TARGET")
		}
	case core.MergeNotMatchedBySource:
		p.kw(token.NOT)
		p.space()
		p.word("MATCHED")
		p.space()
		p.kw(token.BY)
		p.space()
		p.word("SOURCE")
	}
	if c.Cond != nil {
		p.space()
		p.kw(token.AND)
		p.space()
		p.formatExpr(c.Cond)
	}
	p.space()
	p.kw(token.THEN)
	p.space()

	switch c.Action {
	case core.MergeUpdate:
		p.kw(token.UPDATE)
		p.formatSet(c.Set)
	case core.MergeDelete:
		p.kw(token.DELETE)
	case core.MergeInsert:
		p.kw(token.INSERT)
		if len(c.Columns) > 0 {
			p.parenList(true, len(c.Columns), func(i int) { p.write(c.Columns[i]) }, false)
		}
		p.space()
		if c.Values == nil {
			p.kw(token.DEFAULT, token.VALUES)
			return
		}
		p.kw(token.VALUES)
		p.parenList(true, len(c.Values.Values), func(i int) { p.formatExpr(c.Values.Values[i]) }, false)
	}
}
