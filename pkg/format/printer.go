// Package format renders a parsed T-SQL script back to text.
//
// Rendering is a single depth-first walk driven entirely by Options: the
// same script and options always produce byte-identical output, and the
// output of Generate formats to itself.
package format

import (
	"bytes"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/tsqlscript/pkg/core"
	"github.com/leapstack-labs/tsqlscript/pkg/token"
)

// Printer handles SQL formatting with proper indentation and style.
type Printer struct {
	opts        Options
	script      *core.Script // keyword spellings for CasingNone
	title       cases.Caser
	output      *bytes.Buffer
	depth       int
	atLineStart bool

	// breakNext is set when a multiline list ends; the next clause then
	// starts a new line. Any write clears it.
	breakNext bool

	// Clause alignment: align is the width line-leading clause keywords are
	// padded to, widest records the widest one written so far, and pad is
	// the padding still owed before the next write on the current line.
	align  int
	widest int
	pad    int
}

func newPrinter(opts Options, script *core.Script) *Printer {
	return &Printer{
		opts:        opts,
		script:      script,
		title:       cases.Title(language.Und),
		output:      &bytes.Buffer{},
		atLineStart: true,
	}
}

// fork returns a printer with the same settings and layout state writing to
// a fresh buffer.
func (p *Printer) fork() *Printer {
	q := newPrinter(p.opts, p.script)
	q.depth = p.depth
	q.atLineStart = p.atLineStart
	q.align = p.align
	return q
}

// String returns the formatted output without a trailing newline.
func (p *Printer) String() string {
	return strings.TrimRight(p.output.String(), "\n")
}

// sub renders fn on a single detached line and returns the text.
func (p *Printer) sub(fn func(q *Printer)) string {
	q := newPrinter(p.opts, p.script)
	q.atLineStart = false
	fn(q)
	return q.output.String()
}

// spansLines reports whether render, continuing the current line, would
// break it.
func (p *Printer) spansLines(render func(q *Printer)) bool {
	q := p.fork()
	render(q)
	return strings.Contains(q.output.String(), "\n")
}

func (p *Printer) write(s string) {
	if s == "" {
		return
	}
	if p.atLineStart && s[0] != '\n' {
		p.writeIndent()
	}
	if p.pad > 0 {
		p.output.WriteString(strings.Repeat(" ", p.pad))
		p.pad = 0
	}
	p.output.WriteString(s)
	p.atLineStart = false
	p.breakNext = false
}

func (p *Printer) writeln() {
	p.output.WriteByte('\n')
	p.atLineStart = true
	p.pad = 0
}

// newline ends the current line unless nothing was written on it yet.
func (p *Printer) newline() {
	if !p.atLineStart {
		p.writeln()
	}
}

func (p *Printer) writeIndent() {
	if n := p.depth * max(p.opts.IndentationSize, 0); n > 0 {
		p.output.WriteString(strings.Repeat(" ", n))
	}
	p.atLineStart = false
}

func (p *Printer) indent() {
	p.depth++
}

func (p *Printer) dedent() {
	if p.depth > 0 {
		p.depth--
	}
}

func (p *Printer) space() {
	if !p.atLineStart {
		p.write(" ")
	}
}

// cased applies the keyword casing policy to an uppercase keyword.
func (p *Printer) cased(upper string) string {
	switch p.opts.KeywordCasing {
	case CasingLowercase:
		return strings.ToLower(upper)
	case CasingPascal:
		return p.title.String(strings.ToLower(upper))
	case CasingNone:
		if s, ok := p.script.Spelling(upper); ok {
			return s
		}
	}
	return upper
}

func (p *Printer) keywords(tokens ...token.TokenType) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = p.cased(t.String())
	}
	return strings.Join(parts, " ")
}

// kw prints keywords separated by single spaces.
func (p *Printer) kw(tokens ...token.TokenType) {
	p.write(p.keywords(tokens...))
}

// word prints a contextual keyword such as MATCHED or NOLOCK, which the
// AST keeps as source text.
func (p *Printer) word(w string) {
	p.write(p.cased(strings.ToUpper(w)))
}

func (p *Printer) words(ws []string, sep string) {
	for i, w := range ws {
		if i > 0 {
			p.write(sep)
		}
		p.word(w)
	}
}

// lead prints a clause keyword. When it starts a line and clause bodies
// are aligned, the body is padded out to the widest such keyword.
func (p *Printer) lead(tokens ...token.TokenType) {
	atStart := p.atLineStart
	text := p.keywords(tokens...)
	p.write(text)
	if !atStart || !p.opts.AlignClauseBodies {
		return
	}
	p.widest = max(p.widest, len(text))
	if p.align > len(text) {
		p.pad = p.align - len(text)
	}
}

// clause starts a clause on a new line when newLine is set or a multiline
// list precedes it, otherwise on the current line.
func (p *Printer) clause(newLine bool, tokens ...token.TokenType) {
	p.breakOrSpace(newLine)
	p.lead(tokens...)
}

func (p *Printer) breakOrSpace(newLine bool) {
	if newLine || p.breakNext {
		p.newline()
	} else {
		p.space()
	}
}

// aligned renders a statement whose clause bodies may be aligned. A
// measuring pass finds the widest line-leading clause keyword first.
func (p *Printer) aligned(render func(q *Printer)) {
	if !p.opts.AlignClauseBodies {
		render(p)
		return
	}
	savedAlign, savedWidest := p.align, p.widest

	probe := p.fork()
	probe.align = 0
	render(probe)

	p.align, p.widest = probe.widest, 0
	render(p)
	p.align, p.widest = savedAlign, savedWidest
}

func (p *Printer) formatComment(c *token.Comment) {
	p.newline()
	p.write(c.Text)
	p.writeln()
}

// items prints a comma-separated list. Inline lists follow a space;
// multiline lists put each item on its own line one level deeper.
func (p *Printer) items(multiline bool, count int, format func(i int)) {
	if !multiline {
		p.space()
		p.formatList(count, format, ", ")
		return
	}
	p.indent()
	for i := 0; i < count; i++ {
		p.newline()
		format(i)
		if i < count-1 {
			p.write(",")
		}
	}
	p.dedent()
	p.breakNext = true
}

// parenList prints a parenthesized comma-separated list. spaced puts a
// space before an inline or trailing "(".
func (p *Printer) parenList(spaced bool, count int, format func(i int), multiline bool) {
	if !multiline {
		if spaced {
			p.space()
		}
		p.write("(")
		p.formatList(count, format, ", ")
		p.write(")")
		return
	}

	if p.opts.NewLineBeforeOpenParenthesisInMultilineList {
		p.newline()
	} else if spaced {
		p.space()
	}
	p.write("(")
	p.indent()
	for i := 0; i < count; i++ {
		p.newline()
		format(i)
		if i < count-1 {
			p.write(",")
		}
	}
	p.dedent()
	if p.opts.NewLineBeforeCloseParenthesisInMultilineList {
		p.newline()
	}
	p.write(")")
	p.breakNext = true
}

// formatList prints a list of items with separators.
func (p *Printer) formatList(count int, format func(i int), sep string) {
	for i := 0; i < count; i++ {
		format(i)
		if i < count-1 {
			p.write(sep)
		}
	}
}

func (p *Printer) formatNames(names []string) {
	p.formatList(len(names), func(i int) { p.write(names[i]) }, ", ")
}
