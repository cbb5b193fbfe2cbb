package format

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCasing is returned when a keyword casing name is not recognized.
var ErrUnknownCasing = errors.New("unknown keyword casing")

// KeywordCasing is the casing policy applied to reserved words.
type KeywordCasing int

// Keyword casing policies.
const (
	CasingUppercase KeywordCasing = iota
	CasingLowercase
	CasingPascal
	CasingNone // first source spelling of each keyword
)

var casingNames = map[KeywordCasing]string{
	CasingUppercase: "uppercase",
	CasingLowercase: "lowercase",
	CasingPascal:    "pascal",
	CasingNone:      "none",
}

// String returns the configuration name of the casing.
func (c KeywordCasing) String() string {
	if name, ok := casingNames[c]; ok {
		return name
	}
	return fmt.Sprintf("KeywordCasing(%d)", int(c))
}

// ParseKeywordCasing parses a casing name. Short forms (upper, lower) and
// PascalCase are accepted.
func ParseKeywordCasing(s string) (KeywordCasing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "uppercase", "upper":
		return CasingUppercase, nil
	case "lowercase", "lower":
		return CasingLowercase, nil
	case "pascal", "pascalcase":
		return CasingPascal, nil
	case "none", "preserve":
		return CasingNone, nil
	}
	return CasingUppercase, fmt.Errorf("%w: %q", ErrUnknownCasing, s)
}

// MarshalText implements encoding.TextMarshaler.
func (c KeywordCasing) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *KeywordCasing) UnmarshalText(text []byte) error {
	v, err := ParseKeywordCasing(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Options controls script generation. The zero value is usable but has an
// indentation size of 0; use DefaultOptions for the standard layout.
type Options struct {
	KeywordCasing   KeywordCasing `koanf:"keyword_casing" yaml:"keyword_casing" json:"keyword_casing"`
	IndentationSize int           `koanf:"indentation_size" yaml:"indentation_size" json:"indentation_size"`

	IncludeSemicolons bool `koanf:"include_semicolons" yaml:"include_semicolons" json:"include_semicolons"`

	MultilineSelectElementsList  bool `koanf:"multiline_select_elements_list" yaml:"multiline_select_elements_list" json:"multiline_select_elements_list"`
	MultilineInsertTargetsList   bool `koanf:"multiline_insert_targets_list" yaml:"multiline_insert_targets_list" json:"multiline_insert_targets_list"`
	MultilineInsertSourcesList   bool `koanf:"multiline_insert_sources_list" yaml:"multiline_insert_sources_list" json:"multiline_insert_sources_list"`
	MultilineSetClauseItems      bool `koanf:"multiline_set_clause_items" yaml:"multiline_set_clause_items" json:"multiline_set_clause_items"`
	MultilineViewColumnsList     bool `koanf:"multiline_view_columns_list" yaml:"multiline_view_columns_list" json:"multiline_view_columns_list"`
	MultilineWherePredicatesList bool `koanf:"multiline_where_predicates_list" yaml:"multiline_where_predicates_list" json:"multiline_where_predicates_list"`

	NewLineBeforeFromClause    bool `koanf:"new_line_before_from_clause" yaml:"new_line_before_from_clause" json:"new_line_before_from_clause"`
	NewLineBeforeWhereClause   bool `koanf:"new_line_before_where_clause" yaml:"new_line_before_where_clause" json:"new_line_before_where_clause"`
	NewLineBeforeGroupByClause bool `koanf:"new_line_before_group_by_clause" yaml:"new_line_before_group_by_clause" json:"new_line_before_group_by_clause"`
	NewLineBeforeHavingClause  bool `koanf:"new_line_before_having_clause" yaml:"new_line_before_having_clause" json:"new_line_before_having_clause"`
	NewLineBeforeJoinClause    bool `koanf:"new_line_before_join_clause" yaml:"new_line_before_join_clause" json:"new_line_before_join_clause"`
	NewLineBeforeOrderByClause bool `koanf:"new_line_before_order_by_clause" yaml:"new_line_before_order_by_clause" json:"new_line_before_order_by_clause"`
	NewLineBeforeOutputClause  bool `koanf:"new_line_before_output_clause" yaml:"new_line_before_output_clause" json:"new_line_before_output_clause"`

	NewLineBeforeOpenParenthesisInMultilineList  bool `koanf:"new_line_before_open_parenthesis_in_multiline_list" yaml:"new_line_before_open_parenthesis_in_multiline_list" json:"new_line_before_open_parenthesis_in_multiline_list"`
	NewLineBeforeCloseParenthesisInMultilineList bool `koanf:"new_line_before_close_parenthesis_in_multiline_list" yaml:"new_line_before_close_parenthesis_in_multiline_list" json:"new_line_before_close_parenthesis_in_multiline_list"`

	AlignClauseBodies           bool `koanf:"align_clause_bodies" yaml:"align_clause_bodies" json:"align_clause_bodies"`
	AlignColumnDefinitionFields bool `koanf:"align_column_definition_fields" yaml:"align_column_definition_fields" json:"align_column_definition_fields"`
	AlignSetClauseItem          bool `koanf:"align_set_clause_item" yaml:"align_set_clause_item" json:"align_set_clause_item"`

	IndentSetClause    bool `koanf:"indent_set_clause" yaml:"indent_set_clause" json:"indent_set_clause"`
	IndentViewBody     bool `koanf:"indent_view_body" yaml:"indent_view_body" json:"indent_view_body"`
	AsKeywordOnOwnLine bool `koanf:"as_keyword_on_own_line" yaml:"as_keyword_on_own_line" json:"as_keyword_on_own_line"`
}

// DefaultOptions returns uppercase keywords, four-space indentation and
// every layout flag off.
func DefaultOptions() Options {
	return Options{
		KeywordCasing:   CasingUppercase,
		IndentationSize: 4,
	}
}

// multilineSetItems reports whether SET items go one per line.
// Alignment needs sibling lines to align against.
func (o Options) multilineSetItems() bool {
	return o.MultilineSetClauseItems || o.AlignSetClauseItem
}
