package format

import (
	"strings"

	"github.com/leapstack-labs/tsqlscript/pkg/core"
	"github.com/leapstack-labs/tsqlscript/pkg/token"
)

func (p *Printer) createOrAlter(alter bool) {
	if alter {
		p.kw(token.ALTER)
	} else {
		p.kw(token.CREATE)
	}
}

func (p *Printer) formatCreateTable(s *core.CreateTableStmt) {
	p.kw(token.CREATE, token.TABLE)
	p.space()
	p.formatObjectName(s.Name)
	p.formatTableDefinition(s.Table)
}

// formatTableDefinition prints column definitions and table constraints
// one per line. Aligned columns pad the name and type fields.
func (p *Printer) formatTableDefinition(def *core.TableDefinition) {
	types := make([]string, len(def.Columns))
	nameWidth, typeWidth := 0, 0
	for i, col := range def.Columns {
		types[i] = p.sub(func(q *Printer) { q.formatColumnType(col) })
		nameWidth = max(nameWidth, len(col.Name))
		typeWidth = max(typeWidth, len(types[i]))
	}
	align := p.opts.AlignColumnDefinitionFields

	count := len(def.Columns) + len(def.Constraints)
	p.parenList(true, count, func(i int) {
		if i >= len(def.Columns) {
			p.formatTableConstraint(def.Constraints[i-len(def.Columns)])
			return
		}
		col := def.Columns[i]
		p.write(col.Name)
		if align {
			p.write(strings.Repeat(" ", nameWidth-len(col.Name)))
		}
		p.write(" " + types[i])
		if len(col.Constraints) == 0 {
			return
		}
		if align {
			p.write(strings.Repeat(" ", typeWidth-len(types[i])))
		}
		for _, c := range col.Constraints {
			p.space()
			p.formatColumnConstraint(c)
		}
	}, true)
}

func (p *Printer) formatColumnType(col *core.ColumnDef) {
	if col.Computed != nil {
		p.kw(token.AS)
		p.space()
		p.formatExpr(col.Computed)
		return
	}
	p.formatDataType(col.Type)
}

func (p *Printer) constraintName(name string) {
	if name == "" {
		return
	}
	p.kw(token.CONSTRAINT)
	p.write(" " + name + " ")
}

func (p *Printer) clustered(w string) {
	if w != "" {
		p.space()
		p.word(w)
	}
}

func (p *Printer) formatColumnConstraint(c *core.ColumnConstraint) {
	p.constraintName(c.Name)
	switch c.Kind {
	case core.ConstraintNull:
		p.kw(token.NULL)
	case core.ConstraintNotNull:
		p.kw(token.NOT, token.NULL)
	case core.ConstraintIdentity:
		p.kw(token.IDENTITY)
		if c.Seed != "" {
			p.write("(" + c.Seed + ", " + c.Increment + ")")
		}
	case core.ConstraintDefault:
		p.kw(token.DEFAULT)
		p.space()
		p.formatExpr(c.Expr)
	case core.ConstraintPrimaryKey:
		p.kw(token.PRIMARY, token.KEY)
		p.clustered(c.Clustered)
	case core.ConstraintUnique:
		p.kw(token.UNIQUE)
		p.clustered(c.Clustered)
	case core.ConstraintCheck:
		p.kw(token.CHECK)
		p.write(" (")
		p.formatExpr(c.Expr)
		p.write(")")
	case core.ConstraintForeignKey:
		p.formatForeignRef(c.Ref)
	case core.ConstraintCollate:
		p.kw(token.COLLATE)
		p.write(" " + c.Collation)
	}
}

func (p *Printer) formatTableConstraint(c *core.TableConstraint) {
	p.constraintName(c.Name)
	keys := func() {
		p.write(" (")
		p.formatOrderItems(c.Columns)
		p.write(")")
	}
	switch c.Kind {
	case core.ConstraintPrimaryKey:
		p.kw(token.PRIMARY, token.KEY)
		p.clustered(c.Clustered)
		keys()
	case core.ConstraintUnique:
		p.kw(token.UNIQUE)
		p.clustered(c.Clustered)
		keys()
	case core.ConstraintCheck:
		p.kw(token.CHECK)
		p.write(" (")
		p.formatExpr(c.Check)
		p.write(")")
	case core.ConstraintForeignKey:
		p.kw(token.FOREIGN, token.KEY)
		keys()
		p.space()
		p.formatForeignRef(c.Ref)
	}
}

func (p *Printer) formatForeignRef(ref *core.ForeignRef) {
	p.kw(token.REFERENCES)
	p.space()
	p.formatObjectName(ref.Table)
	if len(ref.Columns) > 0 {
		p.parenList(true, len(ref.Columns), func(i int) { p.write(ref.Columns[i]) }, false)
	}
	if len(ref.OnDelete) > 0 {
		p.space()
		p.kw(token.ON, token.DELETE)
		p.space()
		p.words(ref.OnDelete, " ")
	}
	if len(ref.OnUpdate) > 0 {
		p.space()
		p.kw(token.ON, token.UPDATE)
		p.space()
		p.words(ref.OnUpdate, " ")
	}
}

// formatCreateView prints CREATE or ALTER VIEW. AS and the body follow
// the view header unless AsKeywordOnOwnLine or IndentViewBody move them.
func (p *Printer) formatCreateView(s *core.CreateViewStmt) {
	p.createOrAlter(s.Alter)
	p.space()
	p.kw(token.VIEW)
	p.space()
	p.formatObjectName(s.Name)
	if len(s.Columns) > 0 {
		p.parenList(true, len(s.Columns), func(i int) { p.write(s.Columns[i]) }, p.opts.MultilineViewColumnsList)
	}
	if len(s.Attributes) > 0 {
		p.breakOrSpace(false)
		p.kw(token.WITH)
		p.space()
		p.words(s.Attributes, ", ")
	}

	if p.opts.AsKeywordOnOwnLine {
		p.newline()
	} else {
		p.breakOrSpace(false)
	}
	p.kw(token.AS)

	switch {
	case p.opts.IndentViewBody:
		p.indent()
		p.newline()
		p.formatSelect(s.Query)
		p.dedent()
	case p.opts.AsKeywordOnOwnLine:
		p.newline()
		p.formatSelect(s.Query)
	default:
		p.space()
		p.formatSelect(s.Query)
	}

	if s.CheckOption {
		p.breakOrSpace(false)
		p.kw(token.WITH, token.CHECK, token.OPTION)
	}
}

// formatCreateProcedure prints the procedure header on one line and the
// body, which runs to the end of the batch, one statement per line.
func (p *Printer) formatCreateProcedure(s *core.CreateProcedureStmt) {
	p.createOrAlter(s.Alter)
	p.space()
	p.kw(token.PROCEDURE)
	p.space()
	p.formatObjectName(s.Name)
	if len(s.Params) > 0 {
		p.space()
		p.formatList(len(s.Params), func(i int) { p.formatProcParam(s.Params[i]) }, ", ")
	}
	if len(s.Options) > 0 {
		p.space()
		p.kw(token.WITH)
		p.space()
		p.words(s.Options, ", ")
	}
	p.space()
	p.kw(token.AS)
	for _, stmt := range s.Body {
		p.newline()
		p.formatStatement(stmt)
	}
}

func (p *Printer) formatProcParam(param *core.ProcParam) {
	p.write(param.Name + " ")
	p.formatDataType(param.Type)
	if param.Default != nil {
		p.write(" = ")
		p.formatExpr(param.Default)
	}
	if param.Output {
		p.space()
		p.kw(token.OUTPUT)
	}
	if param.ReadOnly {
		p.space()
		p.word("READONLY")
	}
}

var dropKinds = map[core.ObjectKind]token.TokenType{
	core.ObjectTable:     token.TABLE,
	core.ObjectView:      token.VIEW,
	core.ObjectProcedure: token.PROCEDURE,
	core.ObjectFunction:  token.FUNCTION,
}

func (p *Printer) formatDrop(s *core.DropStmt) {
	p.kw(token.DROP, dropKinds[s.Kind])
	if s.IfExists {
		p.space()
		p.kw(token.IF, token.EXISTS)
	}
	p.space()
	p.formatList(len(s.Names), func(i int) { p.formatObjectName(s.Names[i]) }, ", ")
}
