package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/tsqlscript/internal/cli/output"
	"github.com/leapstack-labs/tsqlscript/pkg/core"
	"github.com/leapstack-labs/tsqlscript/pkg/tsql"
)

// ValidateOptions holds options for the validate command.
type ValidateOptions struct {
	Quiet bool // report through the exit code only
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	opts := &ValidateOptions{}
	cmd := &cobra.Command{
		Use:     "validate [files...]",
		Aliases: []string{"test"},
		Short:   "Check T-SQL scripts for syntax errors",
		Long: `Parse T-SQL scripts and report whether they are valid.

Prints true or false for each input, followed by the diagnostic report of an
invalid script: every diagnostic message with the byte offset it refers to.
Exits with status 1 when any input is invalid.`,
		Example: `  # Validate standard input
  echo "selct * from t" | tsqlscript validate

  # Validate against SQL Server 2000 syntax
  tsqlscript validate --dialect v1 legacy.sql

  # Machine-readable report
  tsqlscript validate -o json ./sql`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Print nothing, report through the exit status")

	return cmd
}

type validateResult struct {
	input  scriptInput
	valid  bool
	diags  core.Diagnostics
	tables []string // referenced table sources of a valid script
}

func runValidate(cmd *cobra.Command, args []string, opts *ValidateOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	cfg := cmdCtx.Cfg

	inputs, err := readInputs(cmd, args)
	if err != nil {
		return err
	}

	results := make([]validateResult, len(inputs))
	err = forEachInput(cmd.Context(), cmdCtx.Workers(), len(inputs), func(_ context.Context, i int) error {
		script, diags, err := tsql.Parse(inputs[i].Content, cfg.Dialect, cfg.QuotedIdentifierOff)
		if err != nil {
			return err
		}
		res := validateResult{input: inputs[i], valid: len(diags) == 0, diags: diags}
		if res.valid {
			res.tables = core.TableNames(script)
		}
		results[i] = res
		cmdCtx.Logger.Debug("validated", "path", inputs[i].Path, "valid", res.valid,
			"diagnostics", len(diags), "tables", len(res.tables))
		return nil
	})
	if err != nil {
		return err
	}

	invalid := 0
	for _, res := range results {
		if !res.valid {
			invalid++
		}
	}

	if !opts.Quiet {
		renderValidateResults(cmdCtx, results)
	}

	if invalid > 0 {
		return &ExitError{Code: 1, Err: fmt.Errorf("%d of %d inputs are invalid", invalid, len(results))}
	}
	return nil
}

func renderValidateResults(c *CommandContext, results []validateResult) {
	r := c.Renderer

	if r.EffectiveMode() == output.ModeJSON {
		out := output.ValidateOutput{
			Dialect: c.Cfg.Dialect.String(),
			Valid:   true,
			Files:   make([]output.ValidateFileResult, len(results)),
		}
		for i, res := range results {
			out.Files[i] = output.ValidateFileResult{
				Path:        res.input.Path,
				Valid:       res.valid,
				Tables:      res.tables,
				Diagnostics: toDiagnosticOutputs(res.diags),
			}
			out.Valid = out.Valid && res.valid
		}
		_ = r.JSON(out)
		return
	}

	styles := r.Styles()
	single := len(results) == 1 && results[0].input.isStdin()
	for _, res := range results {
		verdict := styles.Success.Render("true")
		if !res.valid {
			verdict = styles.Error.Render("false")
		}
		if single {
			r.Println(verdict)
		} else {
			r.Printf("%s: %s\n", styles.Path.Render(res.input.Path), verdict)
		}
		if !res.valid {
			renderDiagnostics(r, "", res.diags)
		}
	}
}
