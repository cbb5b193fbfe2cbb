package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/tsqlscript/internal/cli/config"
	"github.com/leapstack-labs/tsqlscript/internal/cli/output"
	"github.com/leapstack-labs/tsqlscript/pkg/core"
)

// StdinName is the input name used for standard input.
const StdinName = "<stdin>"

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext builds the context for cmd. The configuration loaded by
// the root command is used when present; a command run on its own loads
// it from its flags.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg, err := getConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}, nil
}

// Workers returns the number of inputs processed concurrently.
func (c *CommandContext) Workers() int {
	if c.Cfg.Workers > 0 {
		return c.Cfg.Workers
	}
	return runtime.NumCPU()
}

func getConfig(cmd *cobra.Command) (*config.Config, error) {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg, nil
	}
	cfgFile, _ := cmd.Flags().GetString("config")
	return config.LoadConfig(cfgFile, cmd.Flags())
}

// ExitError makes the process exit with Code. Commands return it when the
// work itself succeeded but the outcome should fail a pipeline, such as an
// invalid script under validate.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit code carried by err: the ExitError code, 1 for
// any other error, 0 for nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// scriptInput is one script read from a file or standard input.
type scriptInput struct {
	Path    string
	Content string
}

func (in scriptInput) isStdin() bool {
	return in.Path == StdinName
}

// readInputs resolves command arguments to scripts. No arguments, or "-",
// reads standard input. Directories are walked for .sql files.
func readInputs(cmd *cobra.Command, args []string) ([]scriptInput, error) {
	if len(args) == 0 {
		args = []string{"-"}
	}

	var inputs []scriptInput
	for _, arg := range args {
		if arg == "-" {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return nil, fmt.Errorf("failed to read stdin: %w", err)
			}
			inputs = append(inputs, scriptInput{Path: StdinName, Content: string(data)})
			continue
		}

		paths, err := expandPath(arg)
		if err != nil {
			return nil, err
		}
		for _, path := range paths {
			data, err := os.ReadFile(path) //nolint:gosec // paths are user supplied on purpose
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", path, err)
			}
			inputs = append(inputs, scriptInput{Path: path, Content: string(data)})
		}
	}
	return inputs, nil
}

// expandPath returns path itself for a file, or every .sql file below a
// directory in lexical order.
func expandPath(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var paths []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != path && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if isSQLFile(p) {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", path, err)
	}
	sort.Strings(paths)
	return paths, nil
}

func isSQLFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".sql")
}

// toDiagnosticOutputs converts diagnostics for JSON output.
func toDiagnosticOutputs(diags core.Diagnostics) []output.DiagnosticOutput {
	if len(diags) == 0 {
		return nil
	}
	out := make([]output.DiagnosticOutput, len(diags))
	for i, d := range diags {
		out[i] = output.DiagnosticOutput{
			Kind:    d.Kind.String(),
			Message: d.Message,
			Offset:  d.Offset,
			Line:    d.Pos.Line,
			Column:  d.Pos.Column,
		}
	}
	return out
}

// renderDiagnostics prints the diagnostic report of one input, one message
// line and one offset line per diagnostic.
func renderDiagnostics(r *output.Renderer, path string, diags core.Diagnostics) {
	styles := r.Styles()
	if path != "" {
		r.Println(styles.Path.Render(path))
	}
	for _, d := range diags {
		r.Println(output.RenderLines(styles.Error, d.Message))
		r.Println(styles.Muted.Render(fmt.Sprintf("offset %d", d.Offset)))
	}
}
