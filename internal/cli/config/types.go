// Package config provides configuration management for the tsqlscript CLI.
//
// Configuration is layered, lowest precedence first: built-in defaults,
// tsqlscript.yaml, TSQLSCRIPT_* environment variables, then command-line
// flags. Style options live under the style key:
//
//	dialect: v3
//	quoted_identifier_off: false
//	style:
//	  keyword_casing: upper
//	  indentation_size: 2
//	  multiline_select_elements_list: true
package config

import (
	"github.com/leapstack-labs/tsqlscript/pkg/dialect"
	"github.com/leapstack-labs/tsqlscript/pkg/format"
)

// Default values.
const (
	DefaultOutput  = "auto"
	DefaultWorkers = 0 // one per CPU
)

// Config names for the project file, in lookup order.
var configFileNames = []string{"tsqlscript.yaml", "tsqlscript.yml"}

// Config holds all CLI configuration options.
type Config struct {
	Dialect             dialect.Version `koanf:"dialect" yaml:"dialect" json:"dialect"`
	QuotedIdentifierOff bool            `koanf:"quoted_identifier_off" yaml:"quoted_identifier_off" json:"quoted_identifier_off"`
	OutputFormat        string          `koanf:"output" yaml:"output" json:"output"`
	Verbose             bool            `koanf:"verbose" yaml:"verbose" json:"verbose"`
	Workers             int             `koanf:"workers" yaml:"workers" json:"workers"` // 0 means one per CPU
	Style               format.Options  `koanf:"style" yaml:"style" json:"style"`
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	return &Config{
		Dialect:      dialect.Default,
		OutputFormat: DefaultOutput,
		Workers:      DefaultWorkers,
		Style:        format.DefaultOptions(),
	}
}
