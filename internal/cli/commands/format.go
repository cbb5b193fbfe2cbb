package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/tsqlscript/internal/cli/config"
	"github.com/leapstack-labs/tsqlscript/internal/cli/output"
	"github.com/leapstack-labs/tsqlscript/pkg/core"
	"github.com/leapstack-labs/tsqlscript/pkg/tsql"
)

// FormatOptions holds options for the format command.
type FormatOptions struct {
	Write bool // rewrite files in place
	Check bool // only report files that would change
}

// NewFormatCommand creates the format command.
func NewFormatCommand() *cobra.Command {
	opts := &FormatOptions{}
	cmd := &cobra.Command{
		Use:     "format [files...]",
		Aliases: []string{"fmt"},
		Short:   "Format T-SQL scripts",
		Long: `Parse T-SQL scripts and print them in canonical layout.

Scripts are read from the given files, from every .sql file below the given
directories, or from standard input when no path (or "-") is given. A script
that does not parse is reported with its diagnostics and left untouched.

Every style option can be set in tsqlscript.yaml under "style", through
TSQLSCRIPT_STYLE__<OPTION> variables, or with the flags below.`,
		Example: `  # Format standard input
  echo "select a,b from t where x=1" | tsqlscript format

  # Rewrite every script below ./sql in place
  tsqlscript format --write ./sql

  # Fail CI when a script is not formatted
  tsqlscript format --check ./sql

  # Lowercase keywords with a multiline select list
  tsqlscript format --keyword-casing lower --multiline-select-elements-list query.sql`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Write, "write", "w", false, "Write the result to the source files")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "Exit non-zero when a script is not formatted")
	cmd.MarkFlagsMutuallyExclusive("write", "check")
	config.AddStyleFlags(cmd.Flags())

	return cmd
}

// formatResult is the outcome of formatting one input.
type formatResult struct {
	input     scriptInput
	formatted string
	status    string
	diags     core.Diagnostics
	err       error
}

func runFormat(cmd *cobra.Command, args []string, opts *FormatOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	inputs, err := readInputs(cmd, args)
	if err != nil {
		return err
	}
	if opts.Write {
		for _, in := range inputs {
			if in.isStdin() {
				return fmt.Errorf("--write cannot be used with standard input")
			}
		}
	}

	results := make([]formatResult, len(inputs))
	err = forEachInput(cmd.Context(), cmdCtx.Workers(), len(inputs), func(_ context.Context, i int) error {
		results[i] = formatInput(cmdCtx, inputs[i], opts)
		return nil
	})
	if err != nil {
		return err
	}

	summary := summarize(results)
	renderFormatResults(cmdCtx, results, summary, opts)

	switch {
	case summary.Failed > 0:
		return fmt.Errorf("failed to format %d of %d inputs", summary.Failed, summary.Files)
	case summary.Invalid > 0:
		return &ExitError{Code: 1, Err: fmt.Errorf("%d of %d inputs have syntax errors", summary.Invalid, summary.Files)}
	case opts.Check && summary.Changed > 0:
		return &ExitError{Code: 1, Err: fmt.Errorf("%d of %d inputs are not formatted", summary.Changed, summary.Files)}
	}
	return nil
}

// forEachInput runs fn for every index with at most workers running at once.
func forEachInput(ctx context.Context, workers, n int, fn func(ctx context.Context, i int) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, i)
		})
	}
	return g.Wait()
}

func formatInput(c *CommandContext, in scriptInput, opts *FormatOptions) formatResult {
	res := formatResult{input: in}

	formatted, err := tsql.Format(in.Content, c.Cfg.Dialect, c.Cfg.QuotedIdentifierOff, c.Cfg.Style)
	if err != nil {
		var diagErr *core.DiagnosticError
		if errors.As(err, &diagErr) {
			res.status = output.StatusInvalid
			res.diags = diagErr.Diagnostics
			c.Logger.Debug("script has diagnostics", "path", in.Path, "count", len(res.diags))
			return res
		}
		res.status = output.StatusFailed
		res.err = err
		return res
	}

	res.formatted = withTrailingNewline(formatted)
	if res.formatted == in.Content {
		res.status = output.StatusUnchanged
		return res
	}
	res.status = output.StatusChanged

	if opts.Write {
		if err := writeFilePreservingMode(in.Path, res.formatted); err != nil {
			res.status = output.StatusFailed
			res.err = err
			return res
		}
		c.Logger.Debug("formatted file", "path", in.Path)
	}
	return res
}

func withTrailingNewline(s string) string {
	if s == "" {
		return s
	}
	return s + "\n"
}

func writeFilePreservingMode(path, content string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func summarize(results []formatResult) output.FormatSummary {
	s := output.FormatSummary{Files: len(results)}
	for _, res := range results {
		switch res.status {
		case output.StatusChanged:
			s.Changed++
		case output.StatusUnchanged:
			s.Unchanged++
		case output.StatusInvalid:
			s.Invalid++
		case output.StatusFailed:
			s.Failed++
		}
	}
	return s
}

func renderFormatResults(c *CommandContext, results []formatResult, summary output.FormatSummary, opts *FormatOptions) {
	r := c.Renderer

	if r.EffectiveMode() == output.ModeJSON {
		out := output.FormatOutput{
			Dialect: c.Cfg.Dialect.String(),
			Summary: summary,
			Files:   make([]output.FormatFileResult, len(results)),
		}
		for i, res := range results {
			fr := output.FormatFileResult{
				Path:        res.input.Path,
				Status:      res.status,
				Diagnostics: toDiagnosticOutputs(res.diags),
			}
			if !opts.Write && !opts.Check {
				fr.Output = res.formatted
			}
			if res.err != nil {
				fr.Error = res.err.Error()
			}
			out.Files[i] = fr
		}
		_ = r.JSON(out)
		return
	}

	// Diagnostics go to stderr so formatted output can be piped.
	errR := output.NewRenderer(r.ErrWriter(), r.ErrWriter(), r.EffectiveMode())
	for _, res := range results {
		switch res.status {
		case output.StatusInvalid:
			renderDiagnostics(errR, res.input.Path, res.diags)
		case output.StatusFailed:
			errR.Error(fmt.Sprintf("%s: %v", res.input.Path, res.err))
		}
	}

	switch {
	case opts.Write:
		for _, res := range results {
			if res.status == output.StatusChanged {
				r.StatusLine(res.input.Path, res.status, "")
			}
		}
		r.Success(fmt.Sprintf("Formatted %d files (%d changed)", summary.Files-summary.Invalid-summary.Failed, summary.Changed))
	case opts.Check:
		for _, res := range results {
			if res.status == output.StatusChanged {
				r.StatusLine(res.input.Path, res.status, "would reformat")
			}
		}
		if summary.Changed == 0 && summary.Invalid == 0 {
			r.Success(fmt.Sprintf("%d files already formatted", summary.Files))
		}
	default:
		multi := len(results) > 1
		for _, res := range results {
			if res.status != output.StatusChanged && res.status != output.StatusUnchanged {
				continue
			}
			if multi {
				r.Printf("-- %s\n", res.input.Path)
			}
			r.Printf("%s", res.formatted)
		}
	}
}
