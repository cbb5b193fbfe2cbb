package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/tsqlscript/internal/cli/config"
	"github.com/leapstack-labs/tsqlscript/pkg/dialect"
	"github.com/leapstack-labs/tsqlscript/pkg/format"
)

func TestNewInitCommand(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		args     []string
		wantErr  bool
	}{
		{
			name: "init empty directory",
		},
		{
			name:     "init existing config without force",
			existing: "dialect: v1\n",
			wantErr:  true,
		},
		{
			name:     "init existing config with force",
			existing: "dialect: v1\n",
			args:     []string{"--force"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, initFileName)
			if tt.existing != "" {
				require.NoError(t, os.WriteFile(path, []byte(tt.existing), 0o600))
			}

			_, _, err := execute(t, NewInitCommand(), "", append([]string{dir}, tt.args...)...)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "already exists")
				return
			}
			require.NoError(t, err)

			data, err := os.ReadFile(path) //nolint:gosec // test path
			require.NoError(t, err)
			assert.Contains(t, string(data), "# tsqlscript configuration.")
			assert.Contains(t, string(data), "dialect: v3")
		})
	}
}

func TestInitCommand_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "project")
	_, _, err := execute(t, NewInitCommand(), "", dir, "--keyword-casing", "lower", "--indentation-size", "2", "--include-semicolons")
	require.NoError(t, err)

	config.ResetConfig()
	cfg, err := config.LoadConfig(filepath.Join(dir, initFileName), nil)
	require.NoError(t, err)

	want := format.DefaultOptions()
	want.KeywordCasing = format.CasingLowercase
	want.IndentationSize = 2
	want.IncludeSemicolons = true
	assert.Equal(t, want, cfg.Style)
	assert.Equal(t, dialect.V3, cfg.Dialect)
}
