// Package core defines the shared language of the tsqlscript system.
//
// This package contains:
//   - The T-SQL AST (Script, Batch, statements, clauses, expressions)
//   - Tree traversal (Walk, Inspect)
//   - Diagnostics produced by the lexer and parser
//
// The Golden Rule: pkg/core imports ONLY pkg/token and stdlib.
// All other packages depend on core, not the reverse.
package core
