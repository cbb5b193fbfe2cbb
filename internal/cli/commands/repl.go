package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/tsqlscript/internal/cli/config"
	"github.com/leapstack-labs/tsqlscript/internal/cli/output"
	"github.com/leapstack-labs/tsqlscript/pkg/core"
	"github.com/leapstack-labs/tsqlscript/pkg/dialect"
	"github.com/leapstack-labs/tsqlscript/pkg/format"
	"github.com/leapstack-labs/tsqlscript/pkg/tsql"
)

const (
	replPrompt         = "tsql> "
	replContinuePrompt = "  ...> "
)

// NewReplCommand creates the repl command.
func NewReplCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Format statements interactively",
		Long: `Start an interactive session. Lines are collected into a batch until a
GO line, which formats the batch and prints the result. Dot commands change
the session settings:

  .dialect [v1|v2|v3]   Show or set the dialect version
  .quoted [on|off]      Show or set QUOTED_IDENTIFIER handling
  .validate             Validate the current batch
  .show                 Print the current batch
  .clear                Discard the current batch
  .help                 Show help
  .exit / .quit         Leave the session`,
		Args: cobra.NoArgs,
		RunE: runRepl,
	}
	config.AddStyleFlags(cmd.Flags())
	return cmd
}

func runRepl(cmd *cobra.Command, _ []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     replHistoryFile(),
		AutoComplete:    newReplCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".exit",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	session := newReplSession(cmdCtx)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "tsqlscript REPL (dialect %s)\n", session.dialect)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, GO to format the batch, .exit to leave")

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			session.reset()
			rl.SetPrompt(session.prompt())
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		if session.handleLine(line) {
			break
		}
		rl.SetPrompt(session.prompt())
	}
	return nil
}

func replHistoryFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	dir = filepath.Join(dir, "tsqlscript")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return ""
	}
	return filepath.Join(dir, "repl_history")
}

func newReplCompleter() *readline.PrefixCompleter {
	var versions []readline.PrefixCompleterInterface
	for _, v := range dialect.Versions() {
		versions = append(versions, readline.PcItem(v.String()))
	}
	return readline.NewPrefixCompleter(
		readline.PcItem(".dialect", versions...),
		readline.PcItem(".quoted", readline.PcItem("on"), readline.PcItem("off")),
		readline.PcItem(".validate"),
		readline.PcItem(".show"),
		readline.PcItem(".clear"),
		readline.PcItem(".help"),
		readline.PcItem(".exit"),
		readline.PcItem(".quit"),
		readline.PcItem("GO"),
	)
}

// goLine matches a batch separator line.
var goLine = regexp.MustCompile(`(?i)^\s*go(\s+\d+)?\s*$`)

// replSession is the state of one interactive session, independent of the
// line editor.
type replSession struct {
	r         *output.Renderer
	dialect   dialect.Version
	quotedOff bool
	style     format.Options
	batch     strings.Builder
}

func newReplSession(c *CommandContext) *replSession {
	return &replSession{
		r:         c.Renderer,
		dialect:   c.Cfg.Dialect,
		quotedOff: c.Cfg.QuotedIdentifierOff,
		style:     c.Cfg.Style,
	}
}

func (s *replSession) prompt() string {
	if s.batch.Len() == 0 {
		return replPrompt
	}
	return replContinuePrompt
}

func (s *replSession) reset() {
	s.batch.Reset()
}

// handleLine processes one input line and reports whether the session ends.
func (s *replSession) handleLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(trimmed, "."):
		return s.dotCommand(trimmed)
	case goLine.MatchString(trimmed):
		s.formatBatch()
	case trimmed == "" && s.batch.Len() == 0:
	default:
		s.batch.WriteString(line)
		s.batch.WriteByte('\n')
	}
	return false
}

func (s *replSession) dotCommand(line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".exit", ".quit":
		return true

	case ".help":
		s.r.Println(replHelp)

	case ".dialect":
		if len(parts) < 2 {
			s.r.Printf("dialect %s (%s)\n", s.dialect, s.dialect.Name())
			break
		}
		v, err := dialect.ParseVersion(parts[1])
		if err != nil {
			s.r.Error(err.Error())
			break
		}
		s.dialect = v
		s.r.Printf("dialect set to %s\n", v)

	case ".quoted":
		if len(parts) < 2 {
			s.r.Printf("quoted identifiers %s\n", onOff(!s.quotedOff))
			break
		}
		switch strings.ToLower(parts[1]) {
		case "on":
			s.quotedOff = false
		case "off":
			s.quotedOff = true
		default:
			s.r.Error("Usage: .quoted on|off")
			return false
		}
		s.r.Printf("quoted identifiers %s\n", onOff(!s.quotedOff))

	case ".validate":
		ok, diags, err := tsql.Validate(s.batch.String(), s.dialect, s.quotedOff)
		if err != nil {
			s.r.Error(err.Error())
			break
		}
		s.r.Println(ok)
		renderDiagnostics(s.r, "", diags)

	case ".show":
		s.r.Printf("%s", s.batch.String())

	case ".clear":
		s.reset()

	default:
		s.r.Error(fmt.Sprintf("Unknown command: %s (type .help for commands)", command))
	}
	return false
}

// formatBatch formats and clears the current batch. An invalid batch is
// kept so it can be inspected with .show.
func (s *replSession) formatBatch() {
	formatted, err := tsql.Format(s.batch.String(), s.dialect, s.quotedOff, s.style)
	if err != nil {
		var diagErr *core.DiagnosticError
		if errors.As(err, &diagErr) {
			renderDiagnostics(s.r, "", diagErr.Diagnostics)
			return
		}
		s.r.Error(err.Error())
		return
	}
	s.reset()

	if s.r.EffectiveMode() == output.ModeText {
		if tokens, _, err := tsql.Tokenize(formatted, s.dialect, s.quotedOff); err == nil {
			formatted = s.r.Styles().Highlight(tokens)
		}
	}
	s.r.Println(formatted)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

const replHelp = `Commands:
  .dialect [v1|v2|v3]   Show or set the dialect version
  .quoted [on|off]      Show or set QUOTED_IDENTIFIER handling
  .validate             Validate the current batch
  .show                 Print the current batch
  .clear                Discard the current batch
  .help                 Show this help message
  .exit / .quit         Leave the session

Type statements over as many lines as needed, then GO to format them.`
