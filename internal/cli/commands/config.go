package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/tsqlscript/internal/cli/config"
	"github.com/leapstack-labs/tsqlscript/internal/cli/output"
)

// NewConfigCommand creates the config command.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Print the configuration after defaults, tsqlscript.yaml, TSQLSCRIPT_*
environment variables and flags have been applied. The output is valid
tsqlscript.yaml content.`,
		Example: `  # Start a project config from the current settings
  tsqlscript config --dialect v2 > tsqlscript.yaml`,
		Args: cobra.NoArgs,
		RunE: runConfig,
	}
	config.AddStyleFlags(cmd.Flags())
	return cmd
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(cmdCtx.Cfg)
	}

	data, err := yaml.Marshal(cmdCtx.Cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if path := config.GetConfigFileUsed(); path != "" {
		r.Println(r.Styles().Muted.Render("# loaded from " + path))
	}
	r.Printf("%s", data)
	return nil
}
