package format

import (
	"strings"

	"github.com/leapstack-labs/tsqlscript/pkg/core"
	"github.com/leapstack-labs/tsqlscript/pkg/token"
)

//nolint:gocyclo // one case per expression type
func (p *Printer) formatExpr(e core.Expr) {
	switch expr := e.(type) {
	case *core.Literal:
		p.formatLiteral(expr)
	case *core.ColumnRef:
		p.write(expr.String())
	case *core.StarExpr:
		for _, q := range expr.Qualifier {
			p.write(q + ".")
		}
		p.write("*")
	case *core.VariableRef:
		p.write(expr.Name)
	case *core.BinaryExpr:
		p.formatExpr(expr.Left)
		p.space()
		p.operator(expr.Op)
		p.space()
		p.formatExpr(expr.Right)
	case *core.UnaryExpr:
		p.formatUnaryExpr(expr)
	case *core.ParenExpr:
		p.write("(")
		p.formatExpr(expr.X)
		p.write(")")
	case *core.FuncCall:
		p.formatFuncCall(expr)
	case *core.CaseExpr:
		p.formatCaseExpr(expr)
	case *core.CastExpr:
		p.kw(token.CAST)
		p.write("(")
		p.formatExpr(expr.X)
		p.space()
		p.kw(token.AS)
		p.space()
		p.formatDataType(expr.Type)
		p.write(")")
	case *core.ConvertExpr:
		p.kw(token.CONVERT)
		p.write("(")
		p.formatDataType(expr.Type)
		p.write(", ")
		p.formatExpr(expr.X)
		if expr.Style != nil {
			p.write(", ")
			p.formatExpr(expr.Style)
		}
		p.write(")")
	case *core.CollateExpr:
		p.formatExpr(expr.X)
		p.space()
		p.kw(token.COLLATE)
		p.write(" " + expr.Collation)
	case *core.SubqueryExpr:
		if expr.Quantifier != token.EOF {
			p.kw(expr.Quantifier)
			p.space()
		}
		p.formatSubquery(expr.Query)
	case *core.ExistsExpr:
		p.kw(token.EXISTS)
		p.space()
		p.formatSubquery(expr.Query)
	case *core.InExpr:
		p.formatExpr(expr.X)
		p.space()
		p.not(expr.Not)
		p.kw(token.IN)
		p.space()
		if expr.Query != nil {
			p.formatSubquery(expr.Query)
		} else {
			p.parenList(false, len(expr.List), func(i int) { p.formatExpr(expr.List[i]) }, false)
		}
	case *core.BetweenExpr:
		p.formatExpr(expr.X)
		p.space()
		p.not(expr.Not)
		p.kw(token.BETWEEN)
		p.space()
		p.formatExpr(expr.Low)
		p.space()
		p.kw(token.AND)
		p.space()
		p.formatExpr(expr.High)
	case *core.LikeExpr:
		p.formatExpr(expr.X)
		p.space()
		p.not(expr.Not)
		p.kw(token.LIKE)
		p.space()
		p.formatExpr(expr.Pattern)
		if expr.Escape != nil {
			p.space()
			p.kw(token.ESCAPE)
			p.space()
			p.formatExpr(expr.Escape)
		}
	case *core.IsNullExpr:
		p.formatExpr(expr.X)
		p.space()
		p.kw(token.IS)
		p.space()
		p.not(expr.Not)
		p.kw(token.NULL)
	}
}

func (p *Printer) not(negated bool) {
	if negated {
		p.kw(token.NOT)
		p.space()
	}
}

// operator prints a binary operator; AND and OR follow keyword casing.
func (p *Printer) operator(op token.TokenType) {
	if op.IsKeyword() {
		p.kw(op)
		return
	}
	p.write(op.String())
}

func (p *Printer) formatLiteral(lit *core.Literal) {
	switch lit.Kind {
	case core.LiteralNull:
		p.kw(token.NULL)
	case core.LiteralDefault:
		p.kw(token.DEFAULT)
	default:
		p.write(lit.Raw)
	}
}

func (p *Printer) formatUnaryExpr(u *core.UnaryExpr) {
	if u.Op == token.NOT {
		p.kw(token.NOT)
		p.space()
		p.formatExpr(u.X)
		return
	}
	p.write(u.Op.String())
	// "- -x" must not collapse into a line comment.
	if inner, ok := u.X.(*core.UnaryExpr); ok && inner.Op != token.NOT && inner.Op != token.TILDE {
		p.space()
	}
	p.formatExpr(u.X)
}

func (p *Printer) formatFuncCall(fn *core.FuncCall) {
	p.formatObjectName(fn.Name)
	p.write("(")
	switch {
	case fn.Star:
		p.write("*")
	default:
		if fn.Distinct {
			p.kw(token.DISTINCT)
			p.space()
		}
		p.formatExprList(fn.Args)
	}
	p.write(")")

	if fn.Over != nil {
		p.space()
		p.kw(token.OVER)
		p.write(" (")
		p.formatOver(fn.Over)
		p.write(")")
	}
}

func (p *Printer) formatOver(over *core.OverClause) {
	if len(over.PartitionBy) > 0 {
		p.kw(token.PARTITION, token.BY)
		p.space()
		p.formatExprList(over.PartitionBy)
	}
	if over.OrderBy != nil {
		p.space()
		p.kw(token.ORDER, token.BY)
		p.space()
		p.formatOrderItems(over.OrderBy.Items)
	}
}

func (p *Printer) formatCaseExpr(c *core.CaseExpr) {
	p.kw(token.CASE)
	if c.Operand != nil {
		p.space()
		p.formatExpr(c.Operand)
	}
	for _, w := range c.Whens {
		p.space()
		p.kw(token.WHEN)
		p.space()
		p.formatExpr(w.Cond)
		p.space()
		p.kw(token.THEN)
		p.space()
		p.formatExpr(w.Result)
	}
	if c.Else != nil {
		p.space()
		p.kw(token.ELSE)
		p.space()
		p.formatExpr(c.Else)
	}
	p.space()
	p.kw(token.END)
}

func (p *Printer) formatExprList(exprs []core.Expr) {
	p.formatList(len(exprs), func(i int) { p.formatExpr(exprs[i]) }, ", ")
}

func (p *Printer) formatObjectName(name *core.ObjectName) {
	p.write(name.String())
}

// formatDataType prints a type as written, with its arguments.
func (p *Printer) formatDataType(dt *core.DataType) {
	if dt == nil {
		return
	}
	p.formatObjectName(dt.Name)
	if len(dt.Args) > 0 {
		p.write("(" + strings.Join(dt.Args, ", ") + ")")
	}
}
