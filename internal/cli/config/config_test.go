package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/tsqlscript/internal/testutil"
	"github.com/leapstack-labs/tsqlscript/pkg/dialect"
	"github.com/leapstack-labs/tsqlscript/pkg/format"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "tsqlscript.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.String("dialect", "v3", "")
	fs.Bool("quoted-identifier-off", false, "")
	fs.StringP("output", "o", "", "")
	fs.BoolP("verbose", "v", false, "")
	fs.Int("workers", 0, "")
	AddStyleFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Cleanup(ResetConfig)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, dialect.V3, cfg.Dialect)
	assert.False(t, cfg.QuotedIdentifierOff)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, format.DefaultOptions(), cfg.Style)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `dialect: sql90
quoted_identifier_off: true
output: json
style:
  keyword_casing: lower
  indentation_size: 2
  align_set_clause_item: true
`)
	t.Chdir(dir)
	t.Cleanup(ResetConfig)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, dialect.V2, cfg.Dialect)
	assert.True(t, cfg.QuotedIdentifierOff)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, format.CasingLowercase, cfg.Style.KeywordCasing)
	assert.Equal(t, 2, cfg.Style.IndentationSize)
	assert.True(t, cfg.Style.AlignSetClauseItem)
	assert.False(t, cfg.Style.IncludeSemicolons)
	assert.Equal(t, "tsqlscript.yaml", filepath.Base(GetConfigFileUsed()))
}

func TestLoadConfig_SearchesUpward(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "style:\n  include_semicolons: true\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	t.Chdir(nested)
	t.Cleanup(ResetConfig)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.True(t, cfg.Style.IncludeSemicolons)
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Cleanup(ResetConfig)

	other := t.TempDir()
	path := filepath.Join(other, "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte("dialect: v1\n"), 0o600))

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, dialect.V1, cfg.Dialect)
	assert.Equal(t, path, GetConfigFileUsed())

	_, err = LoadConfig(filepath.Join(other, "missing.yaml"), nil)
	require.Error(t, err)
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `dialect: v1
style:
  indentation_size: 2
  keyword_casing: lower
`)
	t.Chdir(dir)
	t.Cleanup(ResetConfig)

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("TSQLSCRIPT_DIALECT", "v2")
		t.Setenv("TSQLSCRIPT_STYLE__INDENTATION_SIZE", "8")
		t.Setenv("TSQLSCRIPT_STYLE__NEW_LINE_BEFORE_FROM_CLAUSE", "true")

		cfg, err := LoadConfig("", nil)
		require.NoError(t, err)
		assert.Equal(t, dialect.V2, cfg.Dialect)
		assert.Equal(t, 8, cfg.Style.IndentationSize)
		assert.True(t, cfg.Style.NewLineBeforeFromClause)
		assert.Equal(t, format.CasingLowercase, cfg.Style.KeywordCasing)
	})

	t.Run("flags override env", func(t *testing.T) {
		t.Setenv("TSQLSCRIPT_DIALECT", "v2")

		flags := newFlags(t, "--dialect", "sql100", "--keyword-casing", "pascal", "--multiline-select-elements-list")
		cfg, err := LoadConfig("", flags)
		require.NoError(t, err)
		assert.Equal(t, dialect.V3, cfg.Dialect)
		assert.Equal(t, format.CasingPascal, cfg.Style.KeywordCasing)
		assert.True(t, cfg.Style.MultilineSelectElementsList)
		assert.Equal(t, 2, cfg.Style.IndentationSize, "unset flags keep the file value")
	})

	t.Run("unchanged flags do not override", func(t *testing.T) {
		cfg, err := LoadConfig("", newFlags(t))
		require.NoError(t, err)
		assert.Equal(t, dialect.V1, cfg.Dialect)
		assert.Equal(t, format.CasingLowercase, cfg.Style.KeywordCasing)
	})
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{"unknown dialect", "dialect: v9\n", "unknown dialect version"},
		{"unknown casing", "style:\n  keyword_casing: camel\n", "unknown keyword casing"},
		{"unknown output", "output: html\n", "unknown output format"},
		{"negative workers", "workers: -1\n", "workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)
			t.Chdir(dir)
			t.Cleanup(ResetConfig)

			_, err := LoadConfig("", nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		edit    func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"empty output means auto", func(c *Config) { c.OutputFormat = "" }, false},
		{"zero dialect", func(c *Config) { c.Dialect = 0 }, true},
		{"bad output", func(c *Config) { c.OutputFormat = "xml" }, true},
		{"negative workers", func(c *Config) { c.Workers = -2 }, true},
		{"negative indentation", func(c *Config) { c.Style.IndentationSize = -1 }, true},
		{"bad casing", func(c *Config) { c.Style.KeywordCasing = format.KeywordCasing(7) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.edit(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestStyleFlags(t *testing.T) {
	names := StyleFlagNames()
	assert.Len(t, names, 24)
	assert.Equal(t, "keyword-casing", names[0])
	assert.Contains(t, names, "align-set-clause-item")
	assert.Contains(t, names, "new-line-before-close-parenthesis-in-multiline-list")

	fs := newFlags(t)
	for _, name := range names {
		f := fs.Lookup(name)
		require.NotNil(t, f, name)
		assert.True(t, isStyleFlag(f), name)
	}
	assert.False(t, isStyleFlag(fs.Lookup("dialect")))
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))

	logger := testutil.NewTestLogger(t)
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}
