package parser

// Diagnostic messages. Lexical messages name the offending source text;
// syntax messages name the token the grammar did not expect.
const (
	ErrUnclosedQuote      = "Unclosed quotation mark after the character string '%s'."
	ErrUnclosedIdentifier = "Unclosed quoted identifier '%s'."
	ErrMissingEndComment  = "Missing end comment mark '*/'."
	ErrInvalidCharacter   = "Invalid character '%s'."

	ErrIncorrectSyntax    = "Incorrect syntax near '%s'."
	ErrIncorrectSyntaxEOF = "Incorrect syntax near end of input."
)
