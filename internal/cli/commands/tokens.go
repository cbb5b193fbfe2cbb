package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/tsqlscript/internal/cli/output"
	"github.com/leapstack-labs/tsqlscript/pkg/token"
	"github.com/leapstack-labs/tsqlscript/pkg/tsql"
)

// TokensOptions holds options for the tokens command.
type TokensOptions struct {
	SkipTrivia bool
}

// NewTokensCommand creates the tokens command.
func NewTokensCommand() *cobra.Command {
	opts := &TokensOptions{}
	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token stream of a script",
		Long: `Tokenize a T-SQL script and print every token with its type, kind and
position. Whitespace and comments are included unless --skip-trivia is set.
Lexical diagnostics, such as an unterminated string, follow the table.`,
		Example: `  tsqlscript tokens query.sql
  echo "select [a] -- note" | tsqlscript tokens --skip-trivia`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.SkipTrivia, "skip-trivia", false, "Omit whitespace and comment tokens")

	return cmd
}

func runTokens(cmd *cobra.Command, args []string, opts *TokensOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	inputs, err := readInputs(cmd, args)
	if err != nil {
		return err
	}
	in := inputs[0]

	tokens, diags, err := tsql.Tokenize(in.Content, cfg.Dialect, cfg.QuotedIdentifierOff)
	if err != nil {
		return err
	}
	if opts.SkipTrivia {
		tokens = withoutTrivia(tokens)
	}

	if r.EffectiveMode() == output.ModeJSON {
		out := output.TokensOutput{
			Dialect:     cfg.Dialect.String(),
			Tokens:      make([]output.TokenOutput, len(tokens)),
			Diagnostics: toDiagnosticOutputs(diags),
		}
		for i, tok := range tokens {
			out.Tokens[i] = output.TokenOutput{
				Type:    tok.Type.String(),
				Kind:    tok.Type.Kind().String(),
				Literal: tok.Literal,
				Offset:  tok.Pos.Offset,
				Line:    tok.Pos.Line,
				Column:  tok.Pos.Column,
			}
		}
		return r.JSON(out)
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.AppendHeader(table.Row{"#", "Type", "Kind", "Offset", "Position", "Literal"})
	for i, tok := range tokens {
		t.AppendRow(table.Row{i, tok.Type.String(), tok.Type.Kind().String(), tok.Pos.Offset, tok.Pos.String(), fmt.Sprintf("%q", tok.Literal)})
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		t.RenderMarkdown()
	} else {
		t.SetStyle(table.StyleLight)
		t.Render()
	}

	if len(diags) > 0 {
		r.Println("")
		renderDiagnostics(r, "", diags)
	}
	return nil
}

func withoutTrivia(tokens []token.Token) []token.Token {
	out := make([]token.Token, 0, len(tokens))
	for _, tok := range tokens {
		switch tok.Type.Kind() {
		case token.KindWhitespace, token.KindComment:
			continue
		}
		out = append(out, tok)
	}
	return out
}
