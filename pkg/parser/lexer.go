package parser

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/leapstack-labs/tsqlscript/pkg/core"
	"github.com/leapstack-labs/tsqlscript/pkg/dialect"
	"github.com/leapstack-labs/tsqlscript/pkg/token"
)

// Lexer tokenizes T-SQL input.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)

	dialect             *dialect.Dialect
	quotedIdentifierOff bool // "x" is a string literal instead of an identifier
	trivia              bool // emit WHITESPACE and COMMENT tokens
	lineHasToken        bool // a significant token started on the current line

	// Comments collected during lexing (for formatter)
	Comments []*token.Comment

	// Diagnostics reported for malformed tokens
	Diagnostics core.Diagnostics

	// Spellings maps uppercase keywords to their first source spelling.
	Spellings map[string]string
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string, d *dialect.Dialect, quotedIdentifierOff bool) *Lexer {
	l := &Lexer{
		input:               input,
		line:                1,
		col:                 0,
		dialect:             d,
		quotedIdentifierOff: quotedIdentifierOff,
		Spellings:           make(map[string]string),
	}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.col = 0
	}
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
		l.pos = len(l.input)
		l.readPos = len(l.input) + 1
	} else {
		l.ch = l.input[l.readPos]
		l.pos = l.readPos
		l.readPos++
	}
	l.col++
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// peekCharN returns the character n positions after the current one.
func (l *Lexer) peekCharN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) eof() bool {
	return l.pos >= len(l.input)
}

// currentPos returns the current position.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// NextToken returns the next token.
func (l *Lexer) NextToken() token.Token {
	if l.trivia {
		if tok, ok := l.readTrivia(); ok {
			return tok
		}
	} else if tok, ok := l.skipWhitespaceAndComments(); !ok {
		return tok
	}

	pos := l.currentPos()

	if !l.lineHasToken && (l.ch == 'g' || l.ch == 'G') {
		if tok, ok := l.readBatchSeparator(pos); ok {
			return tok
		}
	}
	if !l.eof() {
		l.lineHasToken = true
	}

	var tok token.Token
	tok.Pos = pos

	switch l.ch {
	case 0:
		if l.eof() {
			tok.Type = token.EOF
			return tok
		}
		return l.illegal(pos, 1, fmt.Sprintf(ErrInvalidCharacter, "\\x00"))
	case '+':
		tok = l.operator(pos, token.PLUS, token.PLUSEQ)
	case '-':
		tok = l.operator(pos, token.MINUS, token.MINUSEQ)
	case '*':
		tok = l.operator(pos, token.STAR, token.STAREQ)
	case '/':
		tok = l.operator(pos, token.SLASH, token.SLASHEQ)
	case '%':
		tok = l.operator(pos, token.PERCENT, token.PERCENTEQ)
	case '&':
		tok = l.operator(pos, token.AMP, token.AMPEQ)
	case '|':
		tok = l.operator(pos, token.PIPE, token.PIPEEQ)
	case '^':
		tok = l.operator(pos, token.CARET, token.CARETEQ)
	case '~':
		tok = l.single(pos, token.TILDE)
	case '=':
		tok = l.single(pos, token.EQ)
	case '<':
		switch l.peekChar() {
		case '=':
			tok = l.double(pos, token.LE)
		case '>':
			tok = l.double(pos, token.NE)
		default:
			tok = l.single(pos, token.LT)
		}
	case '>':
		if l.peekChar() == '=' {
			tok = l.double(pos, token.GE)
		} else {
			tok = l.single(pos, token.GT)
		}
	case '!':
		switch l.peekChar() {
		case '=':
			tok = l.double(pos, token.NE)
		case '<':
			tok = l.double(pos, token.NLT)
		case '>':
			tok = l.double(pos, token.NGT)
		default:
			return l.illegal(pos, 1, fmt.Sprintf(ErrInvalidCharacter, "!"))
		}
	case '.':
		if isDigit(l.peekChar()) {
			return l.readNumber(pos)
		}
		tok = l.single(pos, token.DOT)
	case ',':
		tok = l.single(pos, token.COMMA)
	case ';':
		tok = l.single(pos, token.SEMICOLON)
	case ':':
		tok = l.single(pos, token.COLON)
	case '(':
		tok = l.single(pos, token.LPAREN)
	case ')':
		tok = l.single(pos, token.RPAREN)
	case '\'':
		return l.readString(pos, token.STRING)
	case '"':
		if l.quotedIdentifierOff {
			return l.readString(pos, token.STRING)
		}
		return l.readDelimitedIdentifier(pos, '"', '"')
	case '[':
		return l.readDelimitedIdentifier(pos, '[', ']')
	case '@':
		return l.readVariable(pos)
	case '$':
		if isDigit(l.peekChar()) || (l.peekChar() == '.' && isDigit(l.peekCharN(2))) {
			return l.readMoney(pos)
		}
		if isLetter(l.peekChar()) {
			// $action, $identity
			start := l.pos
			l.readChar()
			for isIdentPart(l.ch) {
				l.readChar()
			}
			return token.Token{Type: token.IDENT, Literal: l.input[start:l.pos], Pos: pos}
		}
		return l.illegal(pos, 1, fmt.Sprintf(ErrInvalidCharacter, "$"))
	default:
		switch {
		case (l.ch == 'N' || l.ch == 'n') && l.peekChar() == '\'':
			return l.readString(pos, token.NSTRING)
		case l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X'):
			return l.readBinary(pos)
		case isIdentStart(l.ch):
			return l.readWord(pos)
		case isDigit(l.ch):
			return l.readNumber(pos)
		default:
			r := l.input[l.pos : l.pos+1]
			return l.illegal(pos, 1, fmt.Sprintf(ErrInvalidCharacter, r))
		}
	}

	return tok
}

// single consumes one character as a token of type t.
func (l *Lexer) single(pos token.Position, t token.TokenType) token.Token {
	lit := l.input[l.pos : l.pos+1]
	l.readChar()
	return token.Token{Type: t, Literal: lit, Pos: pos}
}

// double consumes two characters as a token of type t.
func (l *Lexer) double(pos token.Position, t token.TokenType) token.Token {
	lit := l.input[l.pos : l.pos+2]
	l.readChar()
	l.readChar()
	return token.Token{Type: t, Literal: lit, Pos: pos}
}

// operator lexes an arithmetic or bitwise operator and its compound
// assignment form when the dialect supports it.
func (l *Lexer) operator(pos token.Position, plain, compound token.TokenType) token.Token {
	if l.peekChar() == '=' && l.dialect.Has(dialect.FeatureCompoundAssign) {
		return l.double(pos, compound)
	}
	return l.single(pos, plain)
}

// illegal consumes n characters and reports a lexical diagnostic at pos.
func (l *Lexer) illegal(pos token.Position, n int, msg string) token.Token {
	for i := 0; i < n && !l.eof(); i++ {
		l.readChar()
	}
	l.report(pos, msg)
	return token.Token{Type: token.ILLEGAL, Literal: l.input[pos.Offset:l.pos], Pos: pos}
}

func (l *Lexer) report(pos token.Position, msg string) {
	l.Diagnostics = append(l.Diagnostics, core.Diagnostic{
		Kind:    core.KindLexical,
		Message: msg,
		Offset:  pos.Offset,
		Pos:     pos,
	})
}

// ---------- Trivia ----------

// skipWhitespaceAndComments skips whitespace and collects comments.
// It returns false with an ILLEGAL token when a block comment is unterminated.
func (l *Lexer) skipWhitespaceAndComments() (token.Token, bool) {
	for {
		for isSpace(l.ch) {
			if l.ch == '\n' {
				l.lineHasToken = false
			}
			l.readChar()
		}

		if l.ch == '-' && l.peekChar() == '-' {
			l.collectLineComment()
			continue
		}

		if l.ch == '/' && l.peekChar() == '*' {
			if tok, ok := l.collectBlockComment(); !ok {
				return tok, false
			}
			continue
		}

		return token.Token{}, true
	}
}

// readTrivia returns the next whitespace run or comment as a token.
func (l *Lexer) readTrivia() (token.Token, bool) {
	pos := l.currentPos()
	switch {
	case isSpace(l.ch):
		start := l.pos
		for isSpace(l.ch) {
			if l.ch == '\n' {
				l.lineHasToken = false
			}
			l.readChar()
		}
		return token.Token{Type: token.WHITESPACE, Literal: l.input[start:l.pos], Pos: pos}, true
	case l.ch == '-' && l.peekChar() == '-':
		c := l.collectLineComment()
		return token.Token{Type: token.COMMENT, Literal: c.Text, Pos: pos}, true
	case l.ch == '/' && l.peekChar() == '*':
		tok, ok := l.collectBlockComment()
		if !ok {
			return tok, true
		}
		return token.Token{Type: token.COMMENT, Literal: l.input[pos.Offset:l.pos], Pos: pos}, true
	}
	return token.Token{}, false
}

// collectLineComment collects a line comment.
func (l *Lexer) collectLineComment() *token.Comment {
	startPos := l.currentPos()
	startOffset := l.pos

	for l.ch != '\n' && !l.eof() {
		l.readChar()
	}
	end := l.pos
	if end > startOffset && l.input[end-1] == '\r' {
		end--
	}

	c := &token.Comment{
		Kind: token.LineComment,
		Text: l.input[startOffset:end],
		Span: token.Span{Start: startPos, End: l.currentPos()},
	}
	l.Comments = append(l.Comments, c)
	return c
}

// collectBlockComment collects a possibly nested block comment.
func (l *Lexer) collectBlockComment() (token.Token, bool) {
	startPos := l.currentPos()
	startOffset := l.pos
	l.lineHasToken = true

	l.readChar() // skip '/'
	l.readChar() // skip '*'

	depth := 1
	for depth > 0 && !l.eof() {
		switch {
		case l.ch == '/' && l.peekChar() == '*':
			depth++
			l.readChar()
			l.readChar()
		case l.ch == '*' && l.peekChar() == '/':
			depth--
			l.readChar()
			l.readChar()
		default:
			l.readChar()
		}
	}

	if depth > 0 {
		l.report(startPos, ErrMissingEndComment)
		return token.Token{Type: token.ILLEGAL, Literal: l.input[startOffset:l.pos], Pos: startPos}, false
	}

	l.Comments = append(l.Comments, &token.Comment{
		Kind: token.BlockComment,
		Text: l.input[startOffset:l.pos],
		Span: token.Span{Start: startPos, End: l.currentPos()},
	})
	return token.Token{}, true
}

// ---------- Batch separator ----------

// readBatchSeparator recognizes GO [count] alone on its line.
// The current character is the first significant one on the line.
func (l *Lexer) readBatchSeparator(pos token.Position) (token.Token, bool) {
	rest := l.input[l.pos:]
	if len(rest) < 2 || !strings.EqualFold(rest[:2], "go") {
		return token.Token{}, false
	}
	i := 2
	if i < len(rest) && isIdentPart(rest[i]) {
		return token.Token{}, false
	}
	end := i // end of the separator literal
	for i < len(rest) && (rest[i] == ' ' || rest[i] == '\t') {
		i++
	}
	if i < len(rest) && isDigit(rest[i]) {
		for i < len(rest) && isDigit(rest[i]) {
			i++
		}
		if i < len(rest) && isIdentPart(rest[i]) {
			return token.Token{}, false
		}
		end = i
		for i < len(rest) && (rest[i] == ' ' || rest[i] == '\t') {
			i++
		}
	}
	switch {
	case i == len(rest), rest[i] == '\n', rest[i] == '\r':
	case strings.HasPrefix(rest[i:], "--"):
	default:
		return token.Token{}, false
	}

	for n := 0; n < end; n++ {
		l.readChar()
	}
	return token.Token{Type: token.GO, Literal: rest[:end], Pos: pos}, true
}

// ---------- Literals and identifiers ----------

// readString reads a quoted string literal; the closing quote is doubled to escape it.
// The literal keeps its quotes and any N prefix.
func (l *Lexer) readString(pos token.Position, t token.TokenType) token.Token {
	if t == token.NSTRING {
		l.readChar() // skip N
	}
	quote := l.ch
	l.readChar() // skip opening quote

	for !l.eof() {
		if l.ch == quote {
			if l.peekChar() == quote {
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // skip closing quote
			return token.Token{Type: t, Literal: l.input[pos.Offset:l.pos], Pos: pos}
		}
		l.readChar()
	}

	text := l.input[pos.Offset:]
	body := text[strings.IndexByte(text, quote)+1:]
	l.report(pos, fmt.Sprintf(ErrUnclosedQuote, body))
	return token.Token{Type: token.ILLEGAL, Literal: text, Pos: pos}
}

// readDelimitedIdentifier reads a [bracketed] or "quoted" identifier.
// The closing delimiter is doubled to escape it.
func (l *Lexer) readDelimitedIdentifier(pos token.Position, _, closer byte) token.Token {
	l.readChar() // skip opening delimiter

	for !l.eof() {
		if l.ch == closer {
			if l.peekChar() == closer {
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar()
			return token.Token{Type: token.IDENT, Literal: l.input[pos.Offset:l.pos], Pos: pos, Quoted: true}
		}
		l.readChar()
	}

	text := l.input[pos.Offset:]
	l.report(pos, fmt.Sprintf(ErrUnclosedIdentifier, text[1:]))
	return token.Token{Type: token.ILLEGAL, Literal: text, Pos: pos}
}

// readWord reads an identifier or keyword.
func (l *Lexer) readWord(pos token.Position) token.Token {
	start := l.pos
	for isIdentPart(l.ch) {
		l.readChar()
	}
	lit := l.input[start:l.pos]

	tok := token.Token{Type: token.IDENT, Literal: lit, Pos: pos}
	if lit[0] == '#' {
		return tok
	}
	if kw, ok := l.dialect.LookupKeyword(strings.ToLower(lit)); ok {
		tok.Type = kw
		upper := strings.ToUpper(lit)
		if _, seen := l.Spellings[upper]; !seen {
			l.Spellings[upper] = lit
		}
	}
	return tok
}

// readVariable reads @name or @@name.
func (l *Lexer) readVariable(pos token.Position) token.Token {
	start := l.pos
	t := token.VARIABLE
	l.readChar() // skip '@'
	if l.ch == '@' {
		t = token.SYSVAR
		l.readChar()
	}
	if !isIdentPart(l.ch) {
		l.report(pos, fmt.Sprintf(ErrInvalidCharacter, l.input[start:l.pos]))
		return token.Token{Type: token.ILLEGAL, Literal: l.input[start:l.pos], Pos: pos}
	}
	for isIdentPart(l.ch) {
		l.readChar()
	}
	return token.Token{Type: t, Literal: l.input[start:l.pos], Pos: pos}
}

// readNumber reads a numeric literal (integer, decimal, or scientific).
func (l *Lexer) readNumber(pos token.Position) token.Token {
	start := l.pos

	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if (l.ch == 'e' || l.ch == 'E') &&
		(isDigit(l.peekChar()) || ((l.peekChar() == '+' || l.peekChar() == '-') && isDigit(l.peekCharN(2)))) {
		l.readChar() // skip 'e' or 'E'
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	return token.Token{Type: token.NUMBER, Literal: l.input[start:l.pos], Pos: pos}
}

// readBinary reads a 0x... binary literal.
func (l *Lexer) readBinary(pos token.Position) token.Token {
	start := l.pos
	l.readChar() // 0
	l.readChar() // x
	for isHexDigit(l.ch) {
		l.readChar()
	}
	return token.Token{Type: token.BINARY, Literal: l.input[start:l.pos], Pos: pos}
}

// readMoney reads a $12.50 money literal.
func (l *Lexer) readMoney(pos token.Position) token.Token {
	start := l.pos
	l.readChar() // $
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return token.Token{Type: token.MONEY, Literal: l.input[start:l.pos], Pos: pos}
}

// ---------- Character classes ----------

// isSpace returns true for whitespace characters.
func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f' || ch == '\v'
}

// isLetter returns true if ch is a letter. Bytes of multi-byte UTF-8
// sequences count as letters so non-ASCII identifiers stay intact.
func isLetter(ch byte) bool {
	return ch >= 0x80 || unicode.IsLetter(rune(ch))
}

// isDigit returns true if ch is a digit.
func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// isIdentStart returns true if ch can begin a regular identifier.
func isIdentStart(ch byte) bool {
	return isLetter(ch) || ch == '_' || ch == '#'
}

// isIdentPart returns true if ch can continue a regular identifier.
func isIdentPart(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == '_' || ch == '@' || ch == '#' || ch == '$'
}

// ---------- Token stream ----------

// Tokenize returns every token of the input, including whitespace and
// comment trivia, ending with EOF. Lexical problems are returned as
// diagnostics sorted by offset.
func Tokenize(input string, d *dialect.Dialect, quotedIdentifierOff bool) ([]token.Token, core.Diagnostics) {
	l := NewLexer(input, d, quotedIdentifierOff)
	l.trivia = true

	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	l.Diagnostics.Sort()
	return tokens, l.Diagnostics
}
