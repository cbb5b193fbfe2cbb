// Package tsql is the entry point for validating and formatting T-SQL
// scripts.
//
// # Usage
//
//	opts := format.DefaultOptions()
//	opts.IncludeSemicolons = true
//	out, err := tsql.Format("select a,b from t where x=1", dialect.V3, false, opts)
//	// out == "SELECT a, b FROM t WHERE x = 1;"
//
//	ok, diags, _ := tsql.Validate("selct * from t", dialect.V3, false)
//	// ok == false, diags[0].Offset == 0
//
// Format only renders scripts that parse without diagnostics. When a
// script has diagnostics the returned error is a *core.DiagnosticError
// whose message lists each diagnostic and its offset.
//
// All functions are safe for concurrent use.
package tsql

import (
	"fmt"

	"github.com/leapstack-labs/tsqlscript/pkg/core"
	"github.com/leapstack-labs/tsqlscript/pkg/dialect"
	_ "github.com/leapstack-labs/tsqlscript/pkg/dialects/all" // register every version
	"github.com/leapstack-labs/tsqlscript/pkg/format"
	"github.com/leapstack-labs/tsqlscript/pkg/parser"
	"github.com/leapstack-labs/tsqlscript/pkg/token"
)

// Format parses input under the given dialect version and renders it with
// opts. It returns a *core.DiagnosticError when the script does not parse.
func Format(input string, v dialect.Version, quotedIdentifierOff bool, opts format.Options) (string, error) {
	res, err := parse(input, v, quotedIdentifierOff)
	if err != nil {
		return "", err
	}
	if err := res.Diagnostics.Err(); err != nil {
		return "", err
	}
	return format.Generate(res.Script, opts), nil
}

// Validate reports whether input parses cleanly under the given dialect
// version, with every diagnostic in source order. The error is non-nil
// only for an unknown version.
func Validate(input string, v dialect.Version, quotedIdentifierOff bool) (bool, core.Diagnostics, error) {
	res, err := parse(input, v, quotedIdentifierOff)
	if err != nil {
		return false, nil, err
	}
	return res.Valid(), res.Diagnostics, nil
}

// Parse parses input under the given dialect version and returns the script
// tree with every diagnostic in source order. The tree is partial when there
// are diagnostics. The error is non-nil only for an unknown version.
func Parse(input string, v dialect.Version, quotedIdentifierOff bool) (*core.Script, core.Diagnostics, error) {
	res, err := parse(input, v, quotedIdentifierOff)
	if err != nil {
		return nil, nil, err
	}
	return res.Script, res.Diagnostics, nil
}

// Tokenize returns every token of input, trivia included, and the lexical
// diagnostics.
func Tokenize(input string, v dialect.Version, quotedIdentifierOff bool) ([]token.Token, core.Diagnostics, error) {
	d, err := dialect.ForVersion(v)
	if err != nil {
		return nil, nil, fmt.Errorf("tokenize: %w", err)
	}
	tokens, diags := parser.Tokenize(input, d, quotedIdentifierOff)
	return tokens, diags, nil
}

func parse(input string, v dialect.Version, quotedIdentifierOff bool) (*parser.Result, error) {
	d, err := dialect.ForVersion(v)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return parser.Parse(input, d, quotedIdentifierOff), nil
}
