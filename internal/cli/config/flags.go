package config

import (
	"reflect"
	"strings"

	"github.com/spf13/pflag"

	"github.com/leapstack-labs/tsqlscript/pkg/format"
)

// styleAnnotation marks flags that load under the style key.
const styleAnnotation = "tsqlscript_style"

type styleKind int

const (
	styleBool styleKind = iota
	styleInt
	styleCasing
)

// styleField describes one format.Options field as a config key.
type styleField struct {
	key   string // koanf key, snake_case
	kind  styleKind
	index int
}

// Flag returns the kebab-case flag name.
func (f styleField) Flag() string {
	return strings.ReplaceAll(f.key, "_", "-")
}

func (f styleField) value(opts *format.Options) interface{} {
	return reflect.ValueOf(opts).Elem().Field(f.index).Interface()
}

var casingType = reflect.TypeOf(format.KeywordCasing(0))

// styleFields lists the fields of format.Options in declaration order.
func styleFields() []styleField {
	t := reflect.TypeOf(format.Options{})
	fields := make([]styleField, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		key := sf.Tag.Get("koanf")
		if key == "" {
			continue
		}
		f := styleField{key: key, index: i}
		switch {
		case sf.Type == casingType:
			f.kind = styleCasing
		case sf.Type.Kind() == reflect.Int:
			f.kind = styleInt
		default:
			f.kind = styleBool
		}
		fields = append(fields, f)
	}
	return fields
}

// StyleFlagNames returns the names of every style flag.
func StyleFlagNames() []string {
	fields := styleFields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Flag()
	}
	return names
}

// AddStyleFlags registers one flag per style option on fs. Only flags the
// user sets override the configured style.
func AddStyleFlags(fs *pflag.FlagSet) {
	def := format.DefaultOptions()
	for _, f := range styleFields() {
		name := f.Flag()
		usage := strings.ReplaceAll(f.key, "_", " ")
		switch f.kind {
		case styleCasing:
			fs.String(name, def.KeywordCasing.String(), "Keyword casing (uppercase|lowercase|pascal|none)")
		case styleInt:
			fs.Int(name, f.value(&def).(int), "Spaces per indentation level")
		default:
			fs.Bool(name, f.value(&def).(bool), "Style: "+usage)
		}
		_ = fs.SetAnnotation(name, styleAnnotation, []string{"true"})
	}
}

func isStyleFlag(f *pflag.Flag) bool {
	_, ok := f.Annotations[styleAnnotation]
	return ok
}
