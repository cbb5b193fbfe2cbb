// Package dialect provides T-SQL dialect definitions.
//
// A Dialect decides which keywords the lexer recognizes, which grammar
// features the parser accepts, and the binding power of infix operators.
// Concrete versions are registered from pkg/dialects/*/ packages and form a
// chain built with Builder.Extends, so every version is a superset of the
// one it extends.
package dialect

import (
	"sort"

	"github.com/leapstack-labs/tsqlscript/pkg/token"
)

// Feature is a grammar form that only some versions accept.
type Feature int

// Grammar features.
const (
	FeatureCTE              Feature = iota // WITH cte AS (...)
	FeatureExceptIntersect                 // EXCEPT / INTERSECT set operators
	FeatureApply                           // CROSS APPLY / OUTER APPLY
	FeaturePivot                           // PIVOT / UNPIVOT table operators
	FeatureOutput                          // OUTPUT clause on DML
	FeatureWindow                          // OVER (PARTITION BY ... ORDER BY ...)
	FeatureTryCatch                        // BEGIN TRY ... END CATCH
	FeatureTopExpression                   // TOP (expr) and TOP on DML
	FeatureMerge                           // MERGE statement
	FeatureRowConstructors                 // VALUES (...), (...)
	FeatureDeclareInit                     // DECLARE @v int = 1
	FeatureCompoundAssign                  // SET @v += 1
	FeatureDropIfExists                    // DROP TABLE IF EXISTS t
)

var featureNames = map[Feature]string{
	FeatureCTE:             "common table expressions",
	FeatureExceptIntersect: "EXCEPT/INTERSECT",
	FeatureApply:           "APPLY",
	FeaturePivot:           "PIVOT/UNPIVOT",
	FeatureOutput:          "OUTPUT clause",
	FeatureWindow:          "window functions",
	FeatureTryCatch:        "TRY/CATCH",
	FeatureTopExpression:   "TOP expressions",
	FeatureMerge:           "MERGE",
	FeatureRowConstructors: "row constructors",
	FeatureDeclareInit:     "DECLARE initializers",
	FeatureCompoundAssign:  "compound assignment",
	FeatureDropIfExists:    "DROP IF EXISTS",
}

// String returns the feature name.
func (f Feature) String() string {
	if name, ok := featureNames[f]; ok {
		return name
	}
	return "unknown"
}

// Dialect represents one T-SQL grammar generation.
type Dialect struct {
	Name    string
	Version Version

	keywords   map[token.TokenType]struct{} // active keywords
	soft       map[token.TokenType]struct{} // keywords added after the base version
	features   map[Feature]struct{}
	precedence map[token.TokenType]int // infix operator binding power
	dataTypes  []string
}

// LookupKeyword returns the keyword token for a lowercase word if the
// keyword is active in this dialect. Inactive keywords are identifiers.
func (d *Dialect) LookupKeyword(lower string) (token.TokenType, bool) {
	t := token.LookupIdent(lower)
	if t == token.IDENT {
		return token.IDENT, false
	}
	if _, ok := d.keywords[t]; !ok {
		return token.IDENT, false
	}
	return t, true
}

// IsKeyword reports whether t is an active keyword.
func (d *Dialect) IsKeyword(t token.TokenType) bool {
	_, ok := d.keywords[t]
	return ok
}

// IsSoft reports whether t is a keyword introduced after the base version.
// Soft keywords remain usable as identifiers so that scripts written for an
// older version keep parsing.
func (d *Dialect) IsSoft(t token.TokenType) bool {
	_, ok := d.soft[t]
	return ok
}

// Has reports whether the dialect accepts the feature.
func (d *Dialect) Has(f Feature) bool {
	_, ok := d.features[f]
	return ok
}

// Precedence returns the binding power of an infix operator, or 0.
func (d *Dialect) Precedence(t token.TokenType) int {
	return d.precedence[t]
}

// Keywords returns the active keywords as sorted uppercase strings.
func (d *Dialect) Keywords() []string {
	out := make([]string, 0, len(d.keywords))
	for t := range d.keywords {
		out = append(out, t.String())
	}
	sort.Strings(out)
	return out
}

// Features returns the accepted features in declaration order.
func (d *Dialect) Features() []Feature {
	out := make([]Feature, 0, len(d.features))
	for f := range d.features {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DataTypes returns the built-in type names known to the dialect.
func (d *Dialect) DataTypes() []string {
	return d.dataTypes
}

// Builder provides a fluent API for constructing dialects.
type Builder struct {
	dialect *Dialect
	base    bool
}

// NewDialect creates a new dialect builder with the given name.
func NewDialect(name string) *Builder {
	return &Builder{
		base: true,
		dialect: &Dialect{
			Name:       name,
			keywords:   make(map[token.TokenType]struct{}),
			soft:       make(map[token.TokenType]struct{}),
			features:   make(map[Feature]struct{}),
			precedence: make(map[token.TokenType]int),
		},
	}
}

// Extends copies everything from parent. Keywords added afterwards are soft.
func (b *Builder) Extends(parent *Dialect) *Builder {
	b.base = false
	for t := range parent.keywords {
		b.dialect.keywords[t] = struct{}{}
	}
	for t := range parent.soft {
		b.dialect.soft[t] = struct{}{}
	}
	for f := range parent.features {
		b.dialect.features[f] = struct{}{}
	}
	for t, p := range parent.precedence {
		b.dialect.precedence[t] = p
	}
	b.dialect.dataTypes = append(b.dialect.dataTypes, parent.dataTypes...)
	return b
}

// Version sets the dialect version.
func (b *Builder) Version(v Version) *Builder {
	b.dialect.Version = v
	return b
}

// Keywords activates keywords.
func (b *Builder) Keywords(ts ...token.TokenType) *Builder {
	for _, t := range ts {
		if _, ok := b.dialect.keywords[t]; ok {
			continue
		}
		b.dialect.keywords[t] = struct{}{}
		if !b.base {
			b.dialect.soft[t] = struct{}{}
		}
	}
	return b
}

// Features enables grammar features.
func (b *Builder) Features(fs ...Feature) *Builder {
	for _, f := range fs {
		b.dialect.features[f] = struct{}{}
	}
	return b
}

// AddInfix sets the binding power of an infix operator.
func (b *Builder) AddInfix(t token.TokenType, precedence int) *Builder {
	b.dialect.precedence[t] = precedence
	return b
}

// WithDataTypes adds built-in type names.
func (b *Builder) WithDataTypes(types ...string) *Builder {
	b.dialect.dataTypes = append(b.dialect.dataTypes, types...)
	return b
}

// Build returns the constructed dialect.
func (b *Builder) Build() *Dialect {
	sort.Strings(b.dialect.dataTypes)
	return b.dialect
}
