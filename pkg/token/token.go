// Package token defines the token types for T-SQL lexing and parsing.
//
// Every keyword known to any dialect version is declared here as a constant.
// Dialects decide which of them are active; an inactive keyword is lexed as IDENT.
package token

import (
	"fmt"
	"strings"
)

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

//nolint:revive // ALL_CAPS names follow SQL token conventions
const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Trivia, only produced when the lexer runs in trivia mode
	WHITESPACE
	COMMENT

	// Batch separator (GO on its own line)
	GO

	// Literals
	IDENT    // identifier, [bracketed] or "quoted" identifier
	NUMBER   // 123, 45.67, 1e10
	STRING   // 'hello'
	NSTRING  // N'hello'
	BINARY   // 0x1F
	MONEY    // $12.50
	VARIABLE // @name
	SYSVAR   // @@name

	// Operators
	PLUS      // +
	MINUS     // -
	STAR      // *
	SLASH     // /
	PERCENT   // %
	AMP       // &
	PIPE      // |
	CARET     // ^
	TILDE     // ~
	EQ        // =
	NE        // <> or !=
	LT        // <
	GT        // >
	LE        // <=
	GE        // >=
	NLT       // !<
	NGT       // !>
	PLUSEQ    // +=
	MINUSEQ   // -=
	STAREQ    // *=
	SLASHEQ   // /=
	PERCENTEQ // %=
	AMPEQ     // &=
	PIPEEQ    // |=
	CARETEQ   // ^=

	// Punctuation
	DOT       // .
	COMMA     // ,
	SEMICOLON // ;
	COLON     // :
	LPAREN    // (
	RPAREN    // )

	keywordStart

	// Keywords (alphabetical)
	ADD
	ALL
	ALTER
	AND
	ANY
	APPLY
	AS
	ASC
	BEGIN
	BETWEEN
	BREAK
	BY
	CASE
	CAST
	CATCH
	CHECK
	COLLATE
	COLUMN
	COMMIT
	CONSTRAINT
	CONTINUE
	CONVERT
	CREATE
	CROSS
	DECLARE
	DEFAULT
	DELETE
	DESC
	DISTINCT
	DROP
	ELSE
	END
	ESCAPE
	EXCEPT
	EXEC
	EXECUTE
	EXISTS
	FOR
	FOREIGN
	FROM
	FULL
	FUNCTION
	GROUP
	HAVING
	IDENTITY
	IF
	IN
	INNER
	INSERT
	INTERSECT
	INTO
	IS
	JOIN
	KEY
	LEFT
	LIKE
	MERGE
	NOT
	NULL
	OF
	OFF
	ON
	OPTION
	OR
	ORDER
	OUTER
	OUTPUT
	OVER
	PARTITION
	PIVOT
	PRIMARY
	PRINT
	PROC
	PROCEDURE
	RAISERROR
	REFERENCES
	RETURN
	RIGHT
	ROLLBACK
	SAVE
	SELECT
	SET
	TABLE
	THEN
	TOP
	TRAN
	TRANSACTION
	TRUNCATE
	TRY
	UNION
	UNIQUE
	UNPIVOT
	UPDATE
	USE
	VALUES
	VIEW
	WAITFOR
	WHEN
	WHERE
	WHILE
	WITH

	keywordEnd
)

// Kind is the coarse classification of a token.
type Kind int

// Token kinds.
const (
	KindSpecial Kind = iota
	KindKeyword
	KindIdentifier
	KindLiteral
	KindOperator
	KindPunctuation
	KindComment
	KindWhitespace
	KindSeparator
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindKeyword:
		return "keyword"
	case KindIdentifier:
		return "identifier"
	case KindLiteral:
		return "literal"
	case KindOperator:
		return "operator"
	case KindPunctuation:
		return "punctuation"
	case KindComment:
		return "comment"
	case KindWhitespace:
		return "whitespace"
	case KindSeparator:
		return "separator"
	default:
		return "special"
	}
}

// Kind returns the classification of the token type.
func (t TokenType) Kind() Kind {
	switch {
	case t.IsKeyword():
		return KindKeyword
	case t == IDENT:
		return KindIdentifier
	case t >= NUMBER && t <= SYSVAR:
		return KindLiteral
	case t >= PLUS && t <= CARETEQ:
		return KindOperator
	case t >= DOT && t <= RPAREN:
		return KindPunctuation
	case t == COMMENT:
		return KindComment
	case t == WHITESPACE:
		return KindWhitespace
	case t == GO:
		return KindSeparator
	default:
		return KindSpecial
	}
}

// IsKeyword reports whether t is a keyword token.
func (t TokenType) IsKeyword() bool {
	return t > keywordStart && t < keywordEnd
}

// IsAssignment reports whether t is = or a compound assignment operator.
func (t TokenType) IsAssignment() bool {
	return t == EQ || (t >= PLUSEQ && t <= CARETEQ)
}

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	if t.IsKeyword() {
		return keywordNames[t]
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

var tokenNames = map[TokenType]string{
	EOF:        "EOF",
	ILLEGAL:    "ILLEGAL",
	WHITESPACE: "WHITESPACE",
	COMMENT:    "COMMENT",
	GO:         "GO",

	IDENT:    "IDENT",
	NUMBER:   "NUMBER",
	STRING:   "STRING",
	NSTRING:  "NSTRING",
	BINARY:   "BINARY",
	MONEY:    "MONEY",
	VARIABLE: "VARIABLE",
	SYSVAR:   "SYSVAR",

	PLUS:      "+",
	MINUS:     "-",
	STAR:      "*",
	SLASH:     "/",
	PERCENT:   "%",
	AMP:       "&",
	PIPE:      "|",
	CARET:     "^",
	TILDE:     "~",
	EQ:        "=",
	NE:        "<>",
	LT:        "<",
	GT:        ">",
	LE:        "<=",
	GE:        ">=",
	NLT:       "!<",
	NGT:       "!>",
	PLUSEQ:    "+=",
	MINUSEQ:   "-=",
	STAREQ:    "*=",
	SLASHEQ:   "/=",
	PERCENTEQ: "%=",
	AMPEQ:     "&=",
	PIPEEQ:    "|=",
	CARETEQ:   "^=",

	DOT:       ".",
	COMMA:     ",",
	SEMICOLON: ";",
	COLON:     ":",
	LPAREN:    "(",
	RPAREN:    ")",
}

// keywords maps lowercase keyword text to its token type.
var keywords = map[string]TokenType{
	"add":         ADD,
	"all":         ALL,
	"alter":       ALTER,
	"and":         AND,
	"any":         ANY,
	"apply":       APPLY,
	"as":          AS,
	"asc":         ASC,
	"begin":       BEGIN,
	"between":     BETWEEN,
	"break":       BREAK,
	"by":          BY,
	"case":        CASE,
	"cast":        CAST,
	"catch":       CATCH,
	"check":       CHECK,
	"collate":     COLLATE,
	"column":      COLUMN,
	"commit":      COMMIT,
	"constraint":  CONSTRAINT,
	"continue":    CONTINUE,
	"convert":     CONVERT,
	"create":      CREATE,
	"cross":       CROSS,
	"declare":     DECLARE,
	"default":     DEFAULT,
	"delete":      DELETE,
	"desc":        DESC,
	"distinct":    DISTINCT,
	"drop":        DROP,
	"else":        ELSE,
	"end":         END,
	"escape":      ESCAPE,
	"except":      EXCEPT,
	"exec":        EXEC,
	"execute":     EXECUTE,
	"exists":      EXISTS,
	"for":         FOR,
	"foreign":     FOREIGN,
	"from":        FROM,
	"full":        FULL,
	"function":    FUNCTION,
	"group":       GROUP,
	"having":      HAVING,
	"identity":    IDENTITY,
	"if":          IF,
	"in":          IN,
	"inner":       INNER,
	"insert":      INSERT,
	"intersect":   INTERSECT,
	"into":        INTO,
	"is":          IS,
	"join":        JOIN,
	"key":         KEY,
	"left":        LEFT,
	"like":        LIKE,
	"merge":       MERGE,
	"not":         NOT,
	"null":        NULL,
	"of":          OF,
	"off":         OFF,
	"on":          ON,
	"option":      OPTION,
	"or":          OR,
	"order":       ORDER,
	"outer":       OUTER,
	"output":      OUTPUT,
	"over":        OVER,
	"partition":   PARTITION,
	"pivot":       PIVOT,
	"primary":     PRIMARY,
	"print":       PRINT,
	"proc":        PROC,
	"procedure":   PROCEDURE,
	"raiserror":   RAISERROR,
	"references":  REFERENCES,
	"return":      RETURN,
	"right":       RIGHT,
	"rollback":    ROLLBACK,
	"save":        SAVE,
	"select":      SELECT,
	"set":         SET,
	"table":       TABLE,
	"then":        THEN,
	"top":         TOP,
	"tran":        TRAN,
	"transaction": TRANSACTION,
	"truncate":    TRUNCATE,
	"try":         TRY,
	"union":       UNION,
	"unique":      UNIQUE,
	"unpivot":     UNPIVOT,
	"update":      UPDATE,
	"use":         USE,
	"values":      VALUES,
	"view":        VIEW,
	"waitfor":     WAITFOR,
	"when":        WHEN,
	"where":       WHERE,
	"while":       WHILE,
	"with":        WITH,
}

var keywordNames = func() map[TokenType]string {
	m := make(map[TokenType]string, len(keywords))
	for name, t := range keywords {
		m[t] = strings.ToUpper(name)
	}
	return m
}()

// LookupIdent returns the keyword token type for a lowercase word,
// or IDENT if the word is not a keyword in any version.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Keywords returns all keyword token types in declaration order.
func Keywords() []TokenType {
	out := make([]TokenType, 0, keywordEnd-keywordStart-1)
	for t := keywordStart + 1; t < keywordEnd; t++ {
		out = append(out, t)
	}
	return out
}

// Token is a single lexical token.
type Token struct {
	Type    TokenType
	Literal string // raw source text
	Pos     Position
	Quoted  bool // identifier was [bracket] or "quote" delimited
}

// Len returns the source length of the token in bytes.
func (t Token) Len() int {
	return len(t.Literal)
}

// End returns the position immediately after the token.
func (t Token) End() Position {
	end := t.Pos
	end.Offset += len(t.Literal)
	if i := strings.LastIndexByte(t.Literal, '\n'); i >= 0 {
		end.Line += strings.Count(t.Literal, "\n")
		end.Column = len(t.Literal) - i
	} else {
		end.Column += len(t.Literal)
	}
	return end
}

// Span returns the source span covered by the token.
func (t Token) Span() Span {
	return Span{Start: t.Pos, End: t.End()}
}

// String returns a debug representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d", t.Type, t.Literal, t.Pos.Offset)
}
