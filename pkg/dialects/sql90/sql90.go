// Package sql90 provides the SQL Server 2005 dialect.
package sql90

import (
	"github.com/leapstack-labs/tsqlscript/pkg/dialect"
	"github.com/leapstack-labs/tsqlscript/pkg/dialects/sql80"
	"github.com/leapstack-labs/tsqlscript/pkg/token"
)

func init() {
	dialect.Register(Sql90)
}

// Sql90 extends Sql80 with CTEs, APPLY, PIVOT, OUTPUT, window functions
// and structured exception handling.
var Sql90 = dialect.NewDialect("sql90").
	Extends(sql80.Sql80).
	Version(dialect.V2).
	Keywords(
		token.APPLY, token.CATCH, token.EXCEPT, token.INTERSECT,
		token.OUTPUT, token.OVER, token.PARTITION, token.PIVOT,
		token.TRY, token.UNPIVOT,
	).
	Features(
		dialect.FeatureCTE,
		dialect.FeatureExceptIntersect,
		dialect.FeatureApply,
		dialect.FeaturePivot,
		dialect.FeatureOutput,
		dialect.FeatureWindow,
		dialect.FeatureTryCatch,
		dialect.FeatureTopExpression,
	).
	WithDataTypes("xml").
	Build()
