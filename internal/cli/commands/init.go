package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/tsqlscript/internal/cli/config"
)

const initFileName = "tsqlscript.yaml"

const initHeader = `# tsqlscript configuration.
# Settings here apply to every script below this directory. Environment
# variables (TSQLSCRIPT_*) and command line flags override them.
`

// InitOptions holds options for the init command.
type InitOptions struct {
	Force bool
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	opts := &InitOptions{}
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a tsqlscript.yaml configuration file",
		Long: `Write a tsqlscript.yaml file holding the current settings.

Style flags given to init are written into the file, so a project layout can
be chosen once and shared through version control.`,
		Example: `  # Initialize in current directory
  tsqlscript init

  # Lower case keywords and two space indentation for a project
  tsqlscript init ./sql --keyword-casing lower --indentation-size 2

  # Force overwrite existing config
  tsqlscript init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(cmd, dir, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite existing configuration")
	config.AddStyleFlags(cmd.Flags())

	return cmd
}

func runInit(cmd *cobra.Command, dir string, opts *InitOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, initFileName)
	if _, err := os.Stat(path); err == nil && !opts.Force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", path)
	}

	project := *cmdCtx.Cfg
	project.Verbose = false
	project.OutputFormat = config.DefaultOutput

	var buf bytes.Buffer
	buf.WriteString(initHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&project); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil { //nolint:gosec // config is meant to be shared
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	cmdCtx.Logger.Debug("wrote config", "path", path)

	r.StatusLine(path, "created", "")
	r.Success("tsqlscript initialized")
	return nil
}
