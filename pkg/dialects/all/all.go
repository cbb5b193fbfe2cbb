// Package all registers every T-SQL dialect version.
package all

import (
	_ "github.com/leapstack-labs/tsqlscript/pkg/dialects/sql100" // registers sql100
	_ "github.com/leapstack-labs/tsqlscript/pkg/dialects/sql80"  // registers sql80
	_ "github.com/leapstack-labs/tsqlscript/pkg/dialects/sql90"  // registers sql90
)
