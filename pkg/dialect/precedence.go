package dialect

// Precedence constants for operator precedence parsing.
const (
	PrecedenceNone       = 0
	PrecedenceOr         = 1
	PrecedenceAnd        = 2
	PrecedenceNot        = 3
	PrecedenceComparison = 4 // =, <>, <, >, <=, >=, !<, !>, LIKE, IN, BETWEEN, IS
	PrecedenceAddition   = 5 // +, -, &, |, ^
	PrecedenceMultiply   = 6 // *, /, %
	PrecedenceUnary      = 7 // -, +, ~
)
