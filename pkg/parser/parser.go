// Package parser provides T-SQL lexing and parsing with dialect-aware syntax
// validation and statement-level error recovery.
//
// # Usage
//
//	d, _ := dialect.ForVersion(dialect.V3)
//	res := parser.Parse("SELECT a FROM t", d, false)
//	if !res.Valid() {
//	    fmt.Println(res.Diagnostics)
//	}
//
// The parser requires a dialect. The dialect decides which words lex as
// keywords and which grammar forms are accepted.
//
// # Grammar Overview
//
//	script     → batch (GO batch)*
//	batch      → (statement [";"])*
//	statement  → select | insert | update | delete | merge | create | drop
//	           | declare | set | control flow | exec | transaction
//	select     → [WITH cte_list] query_expr [ORDER BY order_list]
//	query_expr → query_term ((UNION [ALL] | EXCEPT) query_term)*
//	query_term → query_prim (INTERSECT query_prim)*
//	query_prim → query_spec | "(" select ")"
//
// See each file for detailed grammar rules for that section.
//
// # Error recovery
//
// The first unexpected token of a statement is reported and the parser
// enters panic mode: later errors in the same statement are suppressed and,
// once the statement returns, tokens are skipped up to the next statement
// boundary. ILLEGAL tokens were already reported by the lexer and only
// trigger recovery.
package parser

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/tsqlscript/pkg/core"
	"github.com/leapstack-labs/tsqlscript/pkg/dialect"
	"github.com/leapstack-labs/tsqlscript/pkg/token"
)

// Parser parses T-SQL into an AST.
type Parser struct {
	input   string
	lexer   *Lexer
	token   token.Token    // current token
	peek    token.Token    // lookahead token
	peek2   token.Token    // second lookahead token
	prevEnd token.Position // end of the last consumed token

	dialect     *dialect.Dialect // required
	diagnostics core.Diagnostics
	panicking   bool // a diagnostic was reported for the current statement
	depth       int  // BEGIN ... END nesting
	spellings   map[string]string
}

// Result is the outcome of a parse: a possibly partial script and the
// diagnostics found while producing it.
type Result struct {
	Script      *core.Script
	Diagnostics core.Diagnostics
}

// Valid reports whether the parse produced no diagnostics. Only a valid
// result may be handed to the script generator.
func (r *Result) Valid() bool {
	return len(r.Diagnostics) == 0
}

// NewParser creates a new parser for the given input.
func NewParser(input string, d *dialect.Dialect, quotedIdentifierOff bool) *Parser {
	p := &Parser{
		input:     input,
		lexer:     NewLexer(input, d, quotedIdentifierOff),
		dialect:   d,
		spellings: make(map[string]string),
	}
	// Read three tokens to initialize current, peek, and peek2
	p.nextToken()
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses a whole script. The returned script is never nil; lexical
// and syntax diagnostics are merged and sorted by offset.
func Parse(input string, d *dialect.Dialect, quotedIdentifierOff bool) *Result {
	p := NewParser(input, d, quotedIdentifierOff)
	script := p.parseScript()

	diags := make(core.Diagnostics, 0, len(p.lexer.Diagnostics)+len(p.diagnostics))
	diags = append(diags, p.lexer.Diagnostics...)
	diags = append(diags, p.diagnostics...)
	diags.Sort()

	return &Result{Script: script, Diagnostics: diags}
}

// Dialect returns the parser's dialect.
func (p *Parser) Dialect() *dialect.Dialect {
	return p.dialect
}

// ---------- Script ----------

// parseScript parses batches until end of input.
func (p *Parser) parseScript() *core.Script {
	script := &core.Script{}
	start := p.token.Pos

	for !p.check(token.EOF) {
		batchStart := p.token.Pos
		batch := &core.Batch{}
		batch.Stmts = p.parseStatementList(func() bool { return false })
		if p.check(token.GO) {
			batch.Go = p.parseGo()
		}
		batch.Loc = p.spanFrom(batchStart)
		script.Batches = append(script.Batches, batch)
	}

	script.Loc = token.Span{Start: start, End: p.token.Pos}
	script.Comments = p.lexer.Comments
	script.Spellings = p.lexer.Spellings
	for k, v := range p.spellings {
		if _, ok := script.Spellings[k]; !ok {
			script.Spellings[k] = v
		}
	}
	return script
}

// parseGo parses a batch separator token such as "GO" or "GO 5".
func (p *Parser) parseGo() *core.GoSeparator {
	start := p.token.Pos
	sep := &core.GoSeparator{}
	fields := strings.Fields(p.token.Literal)
	if len(fields) == 2 {
		sep.Count = fields[1]
	}
	p.spell("GO", fields[0])
	p.nextToken()
	sep.Loc = p.spanFrom(start)
	return sep
}

// parseStatementList parses statements until end returns true, a batch
// separator, or end of input. A failed statement is skipped by
// synchronize; every iteration consumes at least one token.
func (p *Parser) parseStatementList(end func() bool) []core.Stmt {
	var stmts []core.Stmt
	for !p.check(token.EOF) && !p.check(token.GO) && !end() {
		before := p.token.Pos.Offset
		if p.match(token.SEMICOLON) {
			continue
		}

		stmt := p.parseStatement()
		if p.panicking {
			p.synchronize()
			p.panicking = false
		} else if stmt != nil {
			stmts = append(stmts, stmt)
		}

		if p.token.Pos.Offset == before && !p.check(token.EOF) {
			p.nextToken()
		}
	}
	return stmts
}

// synchronize skips tokens up to the next statement boundary: a consumed
// ';', a token that begins a statement, END of an enclosing block, a batch
// separator, or end of input.
func (p *Parser) synchronize() {
	for {
		switch {
		case p.check(token.EOF), p.check(token.GO):
			return
		case p.check(token.SEMICOLON):
			p.nextToken()
			return
		case p.depth > 0 && p.check(token.END):
			return
		case p.isStatementStart():
			return
		}
		p.nextToken()
	}
}

// ---------- Token Helpers ----------

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	p.prevEnd = p.token.End()
	p.token = p.peek
	p.peek = p.peek2
	p.peek2 = p.lexer.NextToken()
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.TokenType) bool {
	return p.token.Type == t
}

// checkPeek returns true if the peek token is of the given type.
func (p *Parser) checkPeek(t token.TokenType) bool {
	return p.peek.Type == t
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise reports it.
func (p *Parser) expect(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	p.fail()
	return false
}

// isWord reports whether tok is the bare identifier w. Words such as TIES,
// PERCENT or MATCHED have meaning only in one position and are not keywords.
func isWord(tok token.Token, w string) bool {
	return tok.Type == token.IDENT && !tok.Quoted && strings.EqualFold(tok.Literal, w)
}

// matchWord consumes the current token if it is the word w.
func (p *Parser) matchWord(w string) bool {
	if !isWord(p.token, w) {
		return false
	}
	p.spell(w, p.token.Literal)
	p.nextToken()
	return true
}

// expectWord consumes the word w, otherwise reports the current token.
func (p *Parser) expectWord(w string) bool {
	if p.matchWord(w) {
		return true
	}
	p.fail()
	return false
}

// takeWord consumes a bare identifier used as a keyword-like word and
// returns its source text.
func (p *Parser) takeWord() (string, bool) {
	if p.token.Type != token.IDENT || p.token.Quoted {
		p.fail()
		return "", false
	}
	lit := p.token.Literal
	p.spell(strings.ToUpper(lit), lit)
	p.nextToken()
	return lit, true
}

// spell records the first source spelling of a keyword-like word.
func (p *Parser) spell(upper, lit string) {
	upper = strings.ToUpper(upper)
	if _, ok := p.spellings[upper]; !ok {
		p.spellings[upper] = lit
	}
}

// spanFrom returns the span from start to the end of the last consumed token.
func (p *Parser) spanFrom(start token.Position) token.Span {
	return token.Span{Start: start, End: p.prevEnd}
}

// ---------- Diagnostics ----------

// fail reports the current token as unexpected.
func (p *Parser) fail() {
	p.errorAt(p.token)
}

// errorAt reports tok as unexpected unless the current statement already
// has a diagnostic. ILLEGAL tokens only start recovery.
func (p *Parser) errorAt(tok token.Token) {
	if p.panicking {
		return
	}
	p.panicking = true
	if tok.Type == token.ILLEGAL {
		return
	}

	d := core.Diagnostic{Kind: core.KindSyntax, Pos: tok.Pos}
	if tok.Type == token.EOF {
		d.Message = ErrIncorrectSyntaxEOF
		d.Offset = len(p.input)
	} else {
		d.Message = fmt.Sprintf(ErrIncorrectSyntax, tok.Literal)
		d.Offset = tok.Pos.Offset
	}
	p.diagnostics = append(p.diagnostics, d)
}

// ---------- Keyword Helpers ----------

// softActive reports whether tok, a keyword added by a later dialect
// version, acts as a keyword in a position that follows a complete name,
// expression, table source or query term. Elsewhere such a word remains an
// identifier, which keeps scripts valid under an older version valid under
// every newer one.
func (p *Parser) softActive(tok, next token.Token) bool {
	switch tok.Type {
	case token.EXCEPT, token.INTERSECT:
		return next.Type == token.SELECT || next.Type == token.LPAREN
	case token.PIVOT, token.UNPIVOT, token.OVER:
		return next.Type == token.LPAREN
	case token.MERGE:
		return next.Type == token.INTO || next.Type == token.TOP ||
			next.Type == token.IDENT || next.Type == token.VARIABLE ||
			p.dialect.IsSoft(next.Type)
	default:
		return false
	}
}

// isIdentToken reports whether tok can be used as an identifier.
func (p *Parser) isIdentToken(tok, next token.Token) bool {
	if tok.Type == token.IDENT {
		return true
	}
	return p.dialect.IsSoft(tok.Type) && !p.softActive(tok, next)
}

// isIdent reports whether the current token can be used as an identifier.
func (p *Parser) isIdent() bool {
	return p.isIdentToken(p.token, p.peek)
}

// isNameStart reports whether the current token can begin a name where an
// expression, table source or object name starts. Later-version keywords
// are names there whatever follows them, so "over(1)" calls a function.
func (p *Parser) isNameStart() bool {
	return p.check(token.IDENT) || p.dialect.IsSoft(p.token.Type)
}

// parseName consumes a name part in a name-start position.
func (p *Parser) parseName() (string, bool) {
	if !p.isNameStart() {
		p.fail()
		return "", false
	}
	lit := p.token.Literal
	p.nextToken()
	return lit, true
}

// parseIdent consumes an identifier and returns its source text.
func (p *Parser) parseIdent() (string, bool) {
	if !p.isIdent() {
		p.fail()
		return "", false
	}
	lit := p.token.Literal
	p.nextToken()
	return lit, true
}

// parseIdentList parses "(" ident {"," ident} ")".
func (p *Parser) parseIdentList() []string {
	var names []string
	if !p.expect(token.LPAREN) {
		return nil
	}
	for {
		name, ok := p.parseIdent()
		if !ok {
			return names
		}
		names = append(names, name)
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	return names
}

// isStatementStart reports whether the current token begins a statement.
func (p *Parser) isStatementStart() bool {
	switch p.token.Type {
	case token.SELECT, token.INSERT, token.UPDATE, token.DELETE,
		token.CREATE, token.ALTER, token.DROP, token.TRUNCATE,
		token.DECLARE, token.SET, token.PRINT, token.USE,
		token.BEGIN, token.IF, token.WHILE, token.RETURN,
		token.BREAK, token.CONTINUE, token.EXEC, token.EXECUTE,
		token.COMMIT, token.ROLLBACK, token.SAVE,
		token.RAISERROR, token.WAITFOR:
		return true
	case token.WITH:
		return p.dialect.Has(dialect.FeatureCTE)
	case token.MERGE:
		return p.softActive(p.token, p.peek)
	}
	return false
}

// canStartExpr reports whether the current token can begin an expression.
func (p *Parser) canStartExpr() bool {
	switch p.token.Type {
	case token.NUMBER, token.STRING, token.NSTRING, token.BINARY, token.MONEY,
		token.VARIABLE, token.SYSVAR, token.IDENT, token.LPAREN,
		token.MINUS, token.PLUS, token.TILDE,
		token.CASE, token.CAST, token.CONVERT, token.NULL, token.NOT, token.EXISTS:
		return true
	case token.LEFT, token.RIGHT:
		return p.checkPeek(token.LPAREN)
	case token.MERGE:
		// a MERGE statement may follow RETURN or EXEC
		if p.softActive(p.token, p.peek) {
			return false
		}
	}
	return p.isNameStart()
}
