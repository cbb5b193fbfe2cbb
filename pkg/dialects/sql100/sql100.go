// Package sql100 provides the SQL Server 2008 dialect, the newest supported version.
package sql100

import (
	"github.com/leapstack-labs/tsqlscript/pkg/dialect"
	"github.com/leapstack-labs/tsqlscript/pkg/dialects/sql90"
	"github.com/leapstack-labs/tsqlscript/pkg/token"
)

func init() {
	dialect.Register(Sql100)
}

// Sql100 extends Sql90 with MERGE, row constructors, DECLARE initializers
// compound assignment operators and DROP ... IF EXISTS.
var Sql100 = dialect.NewDialect("sql100").
	Extends(sql90.Sql90).
	Version(dialect.V3).
	Keywords(token.MERGE).
	Features(
		dialect.FeatureMerge,
		dialect.FeatureRowConstructors,
		dialect.FeatureDeclareInit,
		dialect.FeatureCompoundAssign,
		dialect.FeatureDropIfExists,
	).
	WithDataTypes(
		"date", "datetime2", "datetimeoffset", "geography", "geometry",
		"hierarchyid", "time",
	).
	Build()
