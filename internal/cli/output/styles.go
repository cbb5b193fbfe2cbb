package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/tsqlscript/pkg/token"
)

// Styles holds the lipgloss styles used by commands.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Path    lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style

	Keyword    lipgloss.Style
	Identifier lipgloss.Style
	Literal    lipgloss.Style
	Operator   lipgloss.Style
	Comment    lipgloss.Style
	Separator  lipgloss.Style
}

// NewStyles builds the style set on the given lipgloss renderer.
func NewStyles(lr *lipgloss.Renderer) *Styles {
	return &Styles{
		Header1: lr.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2: lr.NewStyle().Bold(true),
		Bold:    lr.NewStyle().Bold(true),
		Muted:   lr.NewStyle().Foreground(lipgloss.Color("8")),
		Path:    lr.NewStyle().Foreground(lipgloss.Color("14")),

		Success: lr.NewStyle().Foreground(lipgloss.Color("10")),
		Warning: lr.NewStyle().Foreground(lipgloss.Color("11")),
		Error:   lr.NewStyle().Foreground(lipgloss.Color("9")),
		Info:    lr.NewStyle().Foreground(lipgloss.Color("12")),

		StatusSuccess: lr.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		StatusFailed:  lr.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),

		Keyword:    lr.NewStyle().Foreground(lipgloss.Color("13")),
		Identifier: lr.NewStyle(),
		Literal:    lr.NewStyle().Foreground(lipgloss.Color("11")),
		Operator:   lr.NewStyle().Foreground(lipgloss.Color("14")),
		Comment:    lr.NewStyle().Italic(true).Foreground(lipgloss.Color("8")),
		Separator:  lr.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
	}
}

// ForKind returns the style for a token kind.
func (s *Styles) ForKind(k token.Kind) lipgloss.Style {
	switch k {
	case token.KindKeyword:
		return s.Keyword
	case token.KindLiteral:
		return s.Literal
	case token.KindOperator:
		return s.Operator
	case token.KindComment:
		return s.Comment
	case token.KindSeparator:
		return s.Separator
	default:
		return s.Identifier
	}
}

// Highlight renders tokens back to source text, styled by kind.
// Whitespace is written as is.
func (s *Styles) Highlight(tokens []token.Token) string {
	var out []byte
	for _, tok := range tokens {
		switch tok.Type.Kind() {
		case token.KindWhitespace, token.KindPunctuation:
			out = append(out, tok.Literal...)
		default:
			out = append(out, RenderLines(s.ForKind(tok.Type.Kind()), tok.Literal)...)
		}
	}
	return string(out)
}

// RenderLines styles each line of text on its own, so a multi-line value is
// not padded out to its widest line.
func RenderLines(style lipgloss.Style, text string) string {
	if !strings.Contains(text, "\n") {
		return style.Render(text)
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
