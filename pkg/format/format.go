package format

import (
	"github.com/leapstack-labs/tsqlscript/pkg/core"
	"github.com/leapstack-labs/tsqlscript/pkg/token"
)

// Generate renders a script. It must only be given a script that parsed
// without diagnostics; generation itself cannot fail.
//
// Statements start on their own lines and each batch separator sits on its
// own line. Comments are hoisted onto their own lines before the top-level
// statement or separator they precede or appear inside.
func Generate(script *core.Script, opts Options) string {
	if script == nil {
		return ""
	}
	p := newPrinter(opts, script)
	p.formatScript(script)
	return p.String()
}

func (p *Printer) formatScript(script *core.Script) {
	comments := script.Comments
	flush := func(before int) {
		for len(comments) > 0 && comments[0].Span.Start.Offset < before {
			p.formatComment(comments[0])
			comments = comments[1:]
		}
	}

	for _, batch := range script.Batches {
		for _, stmt := range batch.Stmts {
			flush(stmt.End().Offset)
			p.newline()
			p.formatStatement(stmt)
		}
		if batch.Go != nil {
			flush(batch.Go.End().Offset)
			p.newline()
			p.formatGo(batch.Go)
		}
	}
	for _, c := range comments {
		p.formatComment(c)
	}
}

func (p *Printer) formatGo(g *core.GoSeparator) {
	p.kw(token.GO)
	if g.Count != "" {
		p.write(" " + g.Count)
	}
}
