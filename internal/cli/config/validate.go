package config

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/tsqlscript/internal/cli/output"
	"github.com/leapstack-labs/tsqlscript/pkg/format"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !c.Dialect.IsValid() {
		return fmt.Errorf("%w: unknown dialect %s (want v1, v2 or v3)", ErrInvalidConfig, c.Dialect)
	}
	if !output.IsValidMode(c.OutputFormat) {
		return fmt.Errorf("%w: unknown output format %q (want auto, text, markdown or json)", ErrInvalidConfig, c.OutputFormat)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.Style.IndentationSize < 0 {
		return fmt.Errorf("%w: style.indentation_size must not be negative, got %d", ErrInvalidConfig, c.Style.IndentationSize)
	}
	if _, err := format.ParseKeywordCasing(c.Style.KeywordCasing.String()); err != nil {
		return fmt.Errorf("%w: style.keyword_casing: %w", ErrInvalidConfig, err)
	}
	return nil
}
