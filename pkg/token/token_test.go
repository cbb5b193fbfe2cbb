package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupIdent(t *testing.T) {
	assert.Equal(t, SELECT, LookupIdent("select"))
	assert.Equal(t, MERGE, LookupIdent("merge"))
	assert.Equal(t, IDENT, LookupIdent("customers"))
	assert.Equal(t, IDENT, LookupIdent("SELECT"), "lookup expects lowercase input")
}

func TestTokenType_Kind(t *testing.T) {
	tests := []struct {
		tok  TokenType
		kind Kind
	}{
		{SELECT, KindKeyword},
		{WITH, KindKeyword},
		{ADD, KindKeyword},
		{IDENT, KindIdentifier},
		{NUMBER, KindLiteral},
		{NSTRING, KindLiteral},
		{SYSVAR, KindLiteral},
		{PLUS, KindOperator},
		{CARETEQ, KindOperator},
		{COMMA, KindPunctuation},
		{RPAREN, KindPunctuation},
		{COMMENT, KindComment},
		{WHITESPACE, KindWhitespace},
		{GO, KindSeparator},
		{EOF, KindSpecial},
		{ILLEGAL, KindSpecial},
	}
	for _, tt := range tests {
		t.Run(tt.tok.String(), func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.tok.Kind())
		})
	}
}

func TestTokenType_String(t *testing.T) {
	assert.Equal(t, "SELECT", SELECT.String())
	assert.Equal(t, "!<", NLT.String())
	assert.Equal(t, "IDENT", IDENT.String())
	assert.Equal(t, "TOKEN(-1)", TokenType(-1).String())
}

func TestKeywords_AllNamed(t *testing.T) {
	kws := Keywords()
	require.Len(t, kws, len(keywords))
	for _, kw := range kws {
		assert.True(t, kw.IsKeyword())
		assert.NotContains(t, kw.String(), "TOKEN(")
	}
}

func TestToken_End(t *testing.T) {
	tok := Token{Type: IDENT, Literal: "abc", Pos: Position{Line: 1, Column: 5, Offset: 4}}
	assert.Equal(t, Position{Line: 1, Column: 8, Offset: 7}, tok.End())

	multi := Token{Type: COMMENT, Literal: "/* a\nbc */", Pos: Position{Line: 2, Column: 1, Offset: 10}}
	assert.Equal(t, Position{Line: 3, Column: 6, Offset: 20}, multi.End())
}

func TestSpan_Cover(t *testing.T) {
	a := Span{Start: Position{1, 1, 0}, End: Position{1, 4, 3}}
	b := Span{Start: Position{1, 6, 5}, End: Position{1, 9, 8}}
	got := a.Cover(b)
	assert.Equal(t, 0, got.Start.Offset)
	assert.Equal(t, 8, got.End.Offset)
	assert.Equal(t, a, a.Cover(Span{}))
	assert.True(t, got.Contains(5))
	assert.False(t, got.Contains(8))
}
