package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/tsqlscript/internal/cli/config"
	"github.com/leapstack-labs/tsqlscript/internal/cli/output"
	"github.com/leapstack-labs/tsqlscript/internal/cli/testutil"
	"github.com/leapstack-labs/tsqlscript/pkg/dialect"
)

func newTestSession(t *testing.T) (*replSession, *testutil.TestRenderer) {
	t.Helper()
	tr := testutil.NewTestRendererMarkdown()
	c := &CommandContext{
		Cfg:      config.Default(),
		Logger:   config.GetLogger(t.Context()),
		Renderer: tr.Renderer,
	}
	return newReplSession(c), tr
}

func TestReplSession_FormatBatch(t *testing.T) {
	s, tr := newTestSession(t)

	assert.Equal(t, replPrompt, s.prompt())
	assert.False(t, s.handleLine("select a,b"))
	assert.Equal(t, replContinuePrompt, s.prompt())
	assert.False(t, s.handleLine("from t where x=1"))
	assert.False(t, s.handleLine("go"))

	assert.Equal(t, "SELECT a, b FROM t WHERE x = 1\n", tr.Output())
	assert.Equal(t, replPrompt, s.prompt(), "batch should be cleared after GO")
	testutil.AssertOutputMode(t, tr, output.ModeMarkdown)
}

func TestReplSession_TextMode(t *testing.T) {
	tr := testutil.NewTestRendererText()
	s := newReplSession(&CommandContext{
		Cfg:      config.Default(),
		Logger:   config.GetLogger(t.Context()),
		Renderer: tr.Renderer,
	})

	s.handleLine("select [a] from t -- note")
	s.handleLine("go")
	assert.Contains(t, tr.Output(), "SELECT")
	assert.Contains(t, tr.Output(), "-- note")
	assert.Empty(t, tr.ErrorOutput())
}

func TestReplSession_InvalidBatchIsKept(t *testing.T) {
	s, tr := newTestSession(t)

	s.handleLine("selct * from t")
	s.handleLine("GO")
	assert.Equal(t, "Incorrect syntax near 'selct'.\noffset 0\n", tr.Output())
	assert.Equal(t, replContinuePrompt, s.prompt())

	tr.Reset()
	s.handleLine(".show")
	assert.Equal(t, "selct * from t\n", tr.Output())

	s.handleLine(".clear")
	assert.Equal(t, replPrompt, s.prompt())
}

func TestReplSession_DotCommands(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		out     string
		errOut  string
		dialect dialect.Version
		quoted  bool
	}{
		{
			name:    "show dialect",
			lines:   []string{".dialect"},
			out:     "dialect v3 (sql100)\n",
			dialect: dialect.V3,
		},
		{
			name:    "set dialect",
			lines:   []string{".dialect v1"},
			out:     "dialect set to v1\n",
			dialect: dialect.V1,
		},
		{
			name:    "unknown dialect",
			lines:   []string{".dialect v9"},
			errOut:  "v9",
			dialect: dialect.V3,
		},
		{
			name:    "quoted off",
			lines:   []string{".quoted off"},
			out:     "quoted identifiers off\n",
			dialect: dialect.V3,
			quoted:  true,
		},
		{
			name:    "quoted usage",
			lines:   []string{".quoted maybe"},
			errOut:  "Usage: .quoted on|off",
			dialect: dialect.V3,
		},
		{
			name:    "unknown command",
			lines:   []string{".bogus"},
			errOut:  "Unknown command: .bogus",
			dialect: dialect.V3,
		},
		{
			name:    "validate follows dialect",
			lines:   []string{".dialect v1", "begin try select 1 end try begin catch select 2 end catch", ".validate"},
			out:     "dialect set to v1\nfalse\n",
			dialect: dialect.V1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, tr := newTestSession(t)
			for _, line := range tt.lines {
				require.False(t, s.handleLine(line))
			}
			if tt.out != "" {
				assert.Contains(t, tr.Output(), tt.out)
			}
			if tt.errOut != "" {
				assert.Contains(t, tr.ErrorOutput(), tt.errOut)
			}
			assert.Equal(t, tt.dialect, s.dialect)
			assert.Equal(t, tt.quoted, s.quotedOff)
		})
	}
}

func TestReplSession_Exit(t *testing.T) {
	for _, line := range []string{".exit", ".quit", "  .EXIT  "} {
		s, _ := newTestSession(t)
		assert.True(t, s.handleLine(line), line)
	}
}

func TestGoLine(t *testing.T) {
	tests := map[string]bool{
		"go":       true,
		"  GO  ":   true,
		"go 5":     true,
		"gone":     false,
		"go; ":     false,
		"select 1": false,
	}
	for line, want := range tests {
		assert.Equal(t, want, goLine.MatchString(line), line)
	}
}
